package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pbaille/calmday/internal/domain"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned when a session does not exist
var ErrNotFound = errors.New("session not found")

// Store keeps caregiver sessions in an in-memory SQLite database.
// Nothing survives the process.
type Store struct {
	db *sql.DB
}

// New opens the in-memory database called name. Stores opened with the
// same name share data for as long as one of them is open.
func New(name string) (*Store, error) {
	if name == "" {
		name = "calmday"
	}
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", url.PathEscape(name))

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// one connection keeps the memory database alive and serializes writers
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection, discarding its contents
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateSession starts a new session with an optional profile
func (s *Store) CreateSession(profile domain.CaregiverProfile) (*domain.Session, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.Exec(
		"INSERT INTO sessions (id, age_range, day_type, sensory_profile, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		id, profile.AgeRange, profile.DayType, profile.SensoryProfile, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	return &domain.Session{
		ID:        id,
		Profile:   profile,
		Schedule:  domain.Schedule{},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetSession retrieves a session with its schedule
func (s *Store) GetSession(id string) (*domain.Session, error) {
	var sess domain.Session
	err := s.db.QueryRow(
		"SELECT id, input, age_range, day_type, sensory_profile, created_at, updated_at FROM sessions WHERE id = ?",
		id,
	).Scan(&sess.ID, &sess.Input, &sess.Profile.AgeRange, &sess.Profile.DayType, &sess.Profile.SensoryProfile,
		&sess.CreatedAt, &sess.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	entries, err := s.getEntries(id)
	if err != nil {
		return nil, err
	}
	sess.Schedule = entries

	return &sess, nil
}

// SaveSession writes the session's input, profile and schedule, replacing
// the stored schedule wholesale.
func (s *Store) SaveSession(sess *domain.Session) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	res, err := tx.Exec(
		"UPDATE sessions SET input = ?, age_range = ?, day_type = ?, sensory_profile = ?, updated_at = ? WHERE id = ?",
		sess.Input, sess.Profile.AgeRange, sess.Profile.DayType, sess.Profile.SensoryProfile, now, sess.ID,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec("DELETE FROM entries WHERE session_id = ?", sess.ID); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}
	for i, e := range sess.Schedule {
		_, err := tx.Exec(
			"INSERT INTO entries (session_id, position, id, label, icon, sensory_load) VALUES (?, ?, ?, ?, ?, ?)",
			sess.ID, i, e.ID, e.Label, string(e.Icon), e.SensoryLoad,
		)
		if err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	sess.UpdatedAt = now
	return nil
}

// DeleteSession removes a session and its schedule
func (s *Store) DeleteSession(id string) error {
	res, err := s.db.Exec("DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListSessions returns sessions, most recently updated first, without
// their schedules
func (s *Store) ListSessions(limit, offset int) ([]domain.Session, error) {
	rows, err := s.db.Query(
		"SELECT id, input, age_range, day_type, sensory_profile, created_at, updated_at FROM sessions ORDER BY updated_at DESC LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var sess domain.Session
		if err := rows.Scan(&sess.ID, &sess.Input, &sess.Profile.AgeRange, &sess.Profile.DayType,
			&sess.Profile.SensoryProfile, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}

	return sessions, rows.Err()
}

func (s *Store) getEntries(sessionID string) (domain.Schedule, error) {
	rows, err := s.db.Query(
		"SELECT id, label, icon, sensory_load FROM entries WHERE session_id = ? ORDER BY position",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("get entries: %w", err)
	}
	defer rows.Close()

	schedule := domain.Schedule{}
	for rows.Next() {
		var (
			e    domain.ActivityEntry
			icon string
			load sql.NullFloat64
		)
		if err := rows.Scan(&e.ID, &e.Label, &icon, &load); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Icon = domain.Icon(icon)
		if load.Valid {
			e.SensoryLoad = domain.Load(load.Float64)
		}
		schedule = append(schedule, e)
	}

	return schedule, rows.Err()
}

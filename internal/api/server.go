package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pbaille/calmday/internal/classifier"
	"github.com/pbaille/calmday/internal/domain"
	"github.com/pbaille/calmday/internal/explain"
	"github.com/pbaille/calmday/internal/scheduler"
	"github.com/pbaille/calmday/internal/sensory"
	"github.com/pbaille/calmday/internal/session"
	"github.com/pbaille/calmday/internal/store"
	"github.com/pbaille/calmday/internal/templates"
)

// Server handles HTTP requests for the schedule API
type Server struct {
	store           *store.Store
	clf             *classifier.Classifier
	logger          *zap.Logger
	metrics         *metrics
	addr            string
	shutdownTimeout time.Duration

	// mu serializes session read-modify-write cycles
	mu sync.Mutex
}

// New creates a new API server
func New(s *store.Store, clf *classifier.Classifier, logger *zap.Logger, addr string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		store:           s,
		clf:             clf,
		logger:          logger,
		metrics:         newMetrics(),
		addr:            addr,
		shutdownTimeout: 10 * time.Second,
	}
}

// SetShutdownTimeout bounds how long Run waits for in-flight requests
func (s *Server) SetShutdownTimeout(d time.Duration) {
	s.shutdownTimeout = d
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Stateless
	mux.HandleFunc("GET /templates", s.listTemplates)
	mux.HandleFunc("POST /classify", s.classify)
	mux.HandleFunc("POST /schedules/parse", s.parseSchedule)
	mux.HandleFunc("POST /export", s.export)

	// Sessions
	mux.HandleFunc("POST /sessions", s.createSession)
	mux.HandleFunc("GET /sessions", s.listSessions)
	mux.HandleFunc("GET /sessions/{id}", s.getSession)
	mux.HandleFunc("DELETE /sessions/{id}", s.deleteSession)
	mux.HandleFunc("PUT /sessions/{id}/profile", s.setProfile)
	mux.HandleFunc("POST /sessions/{id}/generate", s.generate)
	mux.HandleFunc("POST /sessions/{id}/reorder", s.reorder)
	mux.HandleFunc("DELETE /sessions/{id}/schedule", s.clear)
	mux.HandleFunc("GET /sessions/{id}/summary", s.summary)
	mux.HandleFunc("GET /sessions/{id}/explanations", s.explanations)

	// Health check and metrics
	mux.HandleFunc("GET /health", s.health)
	mux.Handle("GET /metrics", s.metrics.handler())

	return withCORS(s.withLogging(mux))
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("starting server", zap.String("addr", s.addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// withCORS adds CORS headers for frontend development
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		s.metrics.observe(route, rec.status, elapsed)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", elapsed),
		)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listTemplates(w http.ResponseWriter, r *http.Request) {
	type templateView struct {
		domain.Template
		Preview string `json:"preview"`
	}

	all := templates.All()
	out := make([]templateView, len(all))
	for i, t := range all {
		out[i] = templateView{Template: t, Preview: templates.Preview(t)}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"templates": out})
}

// ClassifyRequest is the request body for classifying one label
type ClassifyRequest struct {
	Label string `json:"label"`
}

func (s *Server) classify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res := s.clf.Classify(req.Label)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"label":        req.Label,
		"icon":         res.Icon,
		"sensory_load": res.SensoryLoad,
		"band":         sensory.BandFor(res.SensoryLoad),
	})
}

// ParseRequest is the request body for stateless parsing
type ParseRequest struct {
	Text    string                  `json:"text"`
	Profile domain.CaregiverProfile `json:"profile"`
}

// ScheduleResponse carries a schedule with its derived summaries
type ScheduleResponse struct {
	Schedule     domain.Schedule       `json:"schedule"`
	Summary      sensory.Summary       `json:"summary"`
	Explanations []explain.Explanation `json:"explanations,omitempty"`
}

func (s *Server) parseSchedule(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sched := scheduler.Parse(req.Text, s.clf)
	s.metrics.generated.Inc()
	writeJSON(w, http.StatusOK, s.describe(sched, req.Profile))
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotImplemented, session.NoticeExport)
}

// SessionResponse is a session with its derived summaries
type SessionResponse struct {
	Session *domain.Session `json:"session"`
	ScheduleResponse
}

func (s *Server) sessionResponse(sess *domain.Session) SessionResponse {
	return SessionResponse{Session: sess, ScheduleResponse: s.describe(sess.Schedule, sess.Profile)}
}

func (s *Server) describe(sched domain.Schedule, p domain.CaregiverProfile) ScheduleResponse {
	return ScheduleResponse{
		Schedule:     sched,
		Summary:      sensory.Summarize(sched, s.clf),
		Explanations: explain.Explain(sched, p, s.clf),
	}
}

// CreateSessionRequest is the optional request body for a new session
type CreateSessionRequest struct {
	Profile domain.CaregiverProfile `json:"profile"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	// the body is optional
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := s.store.CreateSession(req.Profile)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("session created", zap.String("session", sess.ID))
	writeJSON(w, http.StatusCreated, s.sessionResponse(sess))
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	limit := 20
	offset := 0

	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			offset = n
		}
	}

	sessions, err := s.store.ListSessions(limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"limit":    limit,
		"offset":   offset,
	})
}

// loadSession fetches the session named in the path, writing the error
// response itself when it cannot.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*domain.Session, bool) {
	sess, err := s.store.GetSession(r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return sess, true
}

// update loads the session, applies fn to its state and saves it back
func (s *Server) update(w http.ResponseWriter, r *http.Request, fn func(st *session.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	st := session.FromSession(sess)
	fn(st)
	st.Apply(sess)

	err := s.store.SaveSession(sess)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.sessionResponse(sess))
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.sessionResponse(sess))
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	err := s.store.DeleteSession(r.PathValue("id"))
	s.mu.Unlock()
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) setProfile(w http.ResponseWriter, r *http.Request) {
	var p domain.CaregiverProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.update(w, r, func(st *session.State) { st.CompleteOnboarding(p) })
}

// GenerateRequest is the request body for regenerating a schedule
type GenerateRequest struct {
	Text     *string `json:"text,omitempty"`
	Template string  `json:"template,omitempty"`
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var tpl *domain.Template
	if req.Template != "" {
		t, ok := templates.Find(req.Template)
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown template %q", req.Template))
			return
		}
		tpl = &t
	}

	s.update(w, r, func(st *session.State) {
		if tpl != nil {
			st.SelectTemplate(*tpl)
		}
		if req.Text != nil {
			st.Input = *req.Text
		}
		st.Generate(s.clf)
		s.metrics.generated.Inc()
		if len(st.Schedule) > 0 {
			s.metrics.level.Observe(sensory.Summarize(st.Schedule, s.clf).Level)
		}
	})
}

// ReorderRequest moves one card onto another card's position
type ReorderRequest struct {
	MovedID  string `json:"moved_id"`
	TargetID string `json:"target_id"`
}

func (s *Server) reorder(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.MovedID) == "" || strings.TrimSpace(req.TargetID) == "" {
		writeError(w, http.StatusBadRequest, "moved_id and target_id are required")
		return
	}

	s.update(w, r, func(st *session.State) {
		st.Reorder(req.MovedID, req.TargetID)
		s.metrics.reorders.Inc()
	})
}

func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	s.update(w, r, func(st *session.State) { st.Clear() })
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sensory.Summarize(sess.Schedule, s.clf))
}

func (s *Server) explanations(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	out := explain.Explain(sess.Schedule, sess.Profile, s.clf)
	if out == nil {
		out = []explain.Explanation{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"explanations": out})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// Package session holds the application state record shared by the
// terminal UI and the HTTP API. Every user action is a method on *State;
// the owner of the record is the only caller.
package session

import (
	"github.com/pbaille/calmday/internal/classifier"
	"github.com/pbaille/calmday/internal/domain"
	"github.com/pbaille/calmday/internal/scheduler"
)

// Notices shown to the caregiver
const (
	NoticeExport            = "📄 Export is not available yet. A printable, laminator-friendly schedule is planned."
	NoticeSpeechUnsupported = "Speech synthesis is not supported on this system."
)

// State is everything a caregiver is working on
type State struct {
	Input          string
	Schedule       domain.Schedule
	Profile        domain.CaregiverProfile
	Onboarded      bool
	Speaking       string
	Preview        bool
	ShowReflection bool
	Notice         string
}

// New returns an empty state
func New() *State {
	return &State{Schedule: domain.Schedule{}}
}

// Generate replaces the schedule with one parsed from Input
func (s *State) Generate(clf *classifier.Classifier) {
	s.Schedule = scheduler.Parse(s.Input, clf)
	s.ShowReflection = false
}

// Reorder moves one card; other cards keep their relative order
func (s *State) Reorder(movedID, targetID string) {
	s.Schedule = scheduler.Reorder(s.Schedule, movedID, targetID)
}

// Clear empties the input and the schedule. Callers stop any playback.
func (s *State) Clear() {
	s.Input = ""
	s.Schedule = domain.Schedule{}
	s.Speaking = ""
	s.ShowReflection = false
}

// SelectTemplate loads template text into the input without generating
func (s *State) SelectTemplate(t domain.Template) {
	s.Input = t.Activities
}

// CompleteOnboarding stores the caregiver profile
func (s *State) CompleteOnboarding(p domain.CaregiverProfile) {
	s.Profile = p
	s.Onboarded = true
}

// SpeechStarted marks id as the card being read aloud
func (s *State) SpeechStarted(id string) {
	s.Speaking = id
}

// SpeechFinished clears the marker if id is still the one speaking
func (s *State) SpeechFinished(id string) {
	if s.Speaking == id {
		s.Speaking = ""
	}
}

// SpeechUnsupported reports that audio playback is unavailable
func (s *State) SpeechUnsupported() {
	s.Notice = NoticeSpeechUnsupported
}

// TogglePreview switches between the caregiver view and the child view
func (s *State) TogglePreview() {
	s.Preview = !s.Preview
}

// ShowReflectionPanel opens the reflection panel for a non-empty schedule
func (s *State) ShowReflectionPanel() {
	if len(s.Schedule) > 0 {
		s.ShowReflection = true
	}
}

// HideReflection closes the reflection panel
func (s *State) HideReflection() {
	s.ShowReflection = false
}

// Export reports that export is not implemented
func (s *State) Export() {
	s.Notice = NoticeExport
}

// DismissNotice clears the current notice
func (s *State) DismissNotice() {
	s.Notice = ""
}

// FromSession builds a state from a stored session
func FromSession(sess *domain.Session) *State {
	st := New()
	st.Input = sess.Input
	st.Profile = sess.Profile
	st.Onboarded = sess.Profile != (domain.CaregiverProfile{})
	if sess.Schedule != nil {
		st.Schedule = sess.Schedule
	}
	return st
}

// Apply copies the persistent part of the state back into a session
func (s *State) Apply(sess *domain.Session) {
	sess.Input = s.Input
	sess.Profile = s.Profile
	sess.Schedule = s.Schedule
}

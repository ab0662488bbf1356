package domain

import "time"

// Icon is the pictogram shown on an activity card
type Icon string

// ActivityEntry is one card in a schedule
type ActivityEntry struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  Icon   `json:"icon"`
	// SensoryLoad is nil for entries that arrived without a stored score,
	// e.g. hand-written JSON or older templates.
	SensoryLoad *float64 `json:"sensory_load,omitempty"`
}

// Schedule is the ordered day plan; order is the child's intended sequence
type Schedule []ActivityEntry

// Index returns the position of the entry with the given id, or -1
func (s Schedule) Index(id string) int {
	for i, e := range s {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Labels returns the entry labels in order
func (s Schedule) Labels() []string {
	labels := make([]string, len(s))
	for i, e := range s {
		labels[i] = e.Label
	}
	return labels
}

// CaregiverProfile holds the optional onboarding answers.
// Fields are free-form and empty when skipped.
type CaregiverProfile struct {
	AgeRange       string `json:"age_range" yaml:"age_range"`
	DayType        string `json:"day_type" yaml:"day_type"`
	SensoryProfile string `json:"sensory_profile" yaml:"sensory_profile"`
}

// Template is a named preset of activity text
type Template struct {
	Name       string `json:"name" yaml:"name"`
	Activities string `json:"activities" yaml:"activities"`
}

// Session is the server-side copy of one caregiver's working state
type Session struct {
	ID        string           `json:"id"`
	Input     string           `json:"input"`
	Profile   CaregiverProfile `json:"profile"`
	Schedule  Schedule         `json:"schedule"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Load returns a pointer to v, for populating SensoryLoad
func Load(v float64) *float64 {
	return &v
}

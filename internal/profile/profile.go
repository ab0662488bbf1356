// Package profile captures the optional caregiver profile through a short
// three-step onboarding flow.
package profile

import "github.com/pbaille/calmday/internal/domain"

// Options offered at each onboarding step
var (
	AgeRanges       = []string{"3-5", "6-8", "9-12", "13+"}
	DayTypes        = []string{"School Day", "Home Day", "Weekend"}
	SensoryProfiles = []string{"Low Stimulation", "Mixed", "High Stimulation"}
)

// Step describes one onboarding question
type Step struct {
	Prompt  string
	Options []string
}

// Steps in the order they are asked
var Steps = []Step{
	{Prompt: "What age range?", Options: AgeRanges},
	{Prompt: "What type of day?", Options: DayTypes},
	{Prompt: "Sensory profile", Options: SensoryProfiles},
}

// Wizard walks through Steps. Choosing is optional; Next without a choice
// leaves that field empty.
type Wizard struct {
	step    int
	answers [3]string
	done    bool
}

// NewWizard starts onboarding at the first step
func NewWizard() *Wizard {
	return &Wizard{}
}

// Step returns the zero-based index of the current step
func (w *Wizard) Step() int { return w.step }

// Current returns the question being asked
func (w *Wizard) Current() Step { return Steps[w.step] }

// Selected returns the answer chosen for the current step, if any
func (w *Wizard) Selected() string { return w.answers[w.step] }

// Choose records an answer for the current step
func (w *Wizard) Choose(option string) {
	if w.done {
		return
	}
	w.answers[w.step] = option
}

// Next advances to the following step, completing after the last one
func (w *Wizard) Next() {
	if w.done {
		return
	}
	if w.step < len(Steps)-1 {
		w.step++
		return
	}
	w.done = true
}

// Skip abandons onboarding; every field is left empty
func (w *Wizard) Skip() {
	w.answers = [3]string{}
	w.done = true
}

// Done reports whether onboarding has finished
func (w *Wizard) Done() bool { return w.done }

// Profile returns the answers collected so far
func (w *Wizard) Profile() domain.CaregiverProfile {
	return domain.CaregiverProfile{
		AgeRange:       w.answers[0],
		DayType:        w.answers[1],
		SensoryProfile: w.answers[2],
	}
}

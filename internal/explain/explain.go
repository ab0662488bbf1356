// Package explain produces the "why this order?" rationale for a schedule.
//
// Rules are evaluated in a fixed order and each one may append a line. When
// none fires, a generic line based on the caregiver's sensory profile is
// returned so a non-empty schedule always gets an explanation.
package explain

import (
	"fmt"

	"github.com/pbaille/calmday/internal/classifier"
	"github.com/pbaille/calmday/internal/domain"
)

// Explanation is one rationale line
type Explanation struct {
	Icon string `json:"icon"`
	Text string `json:"text"`
}

// Defaults shown when the caregiver skipped onboarding
const (
	DefaultAgeRange       = "6-8"
	DefaultSensoryProfile = "mixed"
)

const (
	highStimulationAbove = 0.7
	highStimulationMax   = 3
	mealGapMax           = 4
)

var (
	focusKeywords    = []string{"homework", "study"}
	movementKeywords = []string{"play", "movement", "exercise"}
)

// Rule inspects a schedule and optionally returns a rationale
type Rule struct {
	Name  string
	Check func(s domain.Schedule, p domain.CaregiverProfile, clf *classifier.Classifier) (Explanation, bool)
}

// Rules are evaluated in this order
var Rules = []Rule{
	{Name: "movement-before-homework", Check: movementBeforeHomework},
	{Name: "high-stimulation-density", Check: highStimulationDensity},
	{Name: "meal-spacing", Check: mealSpacing},
}

// Explain returns the rationale lines for a schedule. An empty schedule
// returns nil.
func Explain(s domain.Schedule, p domain.CaregiverProfile, clf *classifier.Classifier) []Explanation {
	if len(s) == 0 {
		return nil
	}

	var out []Explanation
	for _, r := range Rules {
		if e, ok := r.Check(s, p, clf); ok {
			out = append(out, e)
		}
	}

	if len(out) == 0 {
		out = append(out, fallback(p))
	}
	return out
}

func movementBeforeHomework(s domain.Schedule, p domain.CaregiverProfile, _ *classifier.Classifier) (Explanation, bool) {
	focus := firstIndex(s, focusKeywords...)
	if focus < 0 {
		return Explanation{}, false
	}
	if firstIndex(s[:focus], movementKeywords...) < 0 {
		return Explanation{}, false
	}

	return Explanation{
		Icon: "💡",
		Text: fmt.Sprintf("We placed a movement break before homework because children aged %s often regulate better after physical activity.",
			orDefault(p.AgeRange, DefaultAgeRange)),
	}, true
}

// Scores are recomputed from labels here, ignoring stored values.
func highStimulationDensity(s domain.Schedule, _ domain.CaregiverProfile, clf *classifier.Classifier) (Explanation, bool) {
	count := 0
	for _, e := range s {
		if clf.SensoryLoad(e.Label) > highStimulationAbove {
			count++
		}
	}
	if count <= highStimulationMax {
		return Explanation{}, false
	}

	return Explanation{
		Icon: "🧠",
		Text: "This schedule includes multiple high-stimulation activities. Consider adding quiet breaks between them to support regulation.",
	}, true
}

func mealSpacing(s domain.Schedule, _ domain.CaregiverProfile, _ *classifier.Classifier) (Explanation, bool) {
	breakfast := firstIndex(s, "breakfast")
	lunch := firstIndex(s, "lunch")
	if breakfast < 0 || lunch < 0 || lunch-breakfast <= mealGapMax {
		return Explanation{}, false
	}

	return Explanation{
		Icon: "⏰",
		Text: "Regular meal times help maintain stable energy levels and reduce anxiety about what comes next.",
	}, true
}

func fallback(p domain.CaregiverProfile) Explanation {
	return Explanation{
		Icon: "✨",
		Text: fmt.Sprintf("Based on children like yours (%s sensory profile), this routine is designed to reduce transition stress and support regulation.",
			orDefault(p.SensoryProfile, DefaultSensoryProfile)),
	}
}

func firstIndex(s domain.Schedule, keywords ...string) int {
	for i, e := range s {
		if classifier.ContainsAny(e.Label, keywords...) {
			return i
		}
	}
	return -1
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

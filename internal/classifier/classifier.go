package classifier

import (
	"strings"

	"github.com/pbaille/calmday/internal/domain"
)

// Icons used on activity cards
const (
	IconSunrise    domain.Icon = "🌅"
	IconBreakfast  domain.Icon = "🍳"
	IconSchool     domain.Icon = "🏫"
	IconLunch      domain.Icon = "🍽️"
	IconGame       domain.Icon = "🎮"
	IconBook       domain.Icon = "📚"
	IconDinner     domain.Icon = "🍕"
	IconBath       domain.Icon = "🛁"
	IconMoon       domain.Icon = "🌙"
	IconDental     domain.Icon = "🦷"
	IconFruit      domain.Icon = "🍎"
	IconMeditation domain.Icon = "🧘"
	IconNature     domain.Icon = "🌳"
	IconDefault    domain.Icon = "✅"
)

// Sensory load scores
const (
	LoadHigh    = 0.8
	LoadMedium  = 0.5
	LoadLow     = 0.2
	LoadNeutral = 0.4
)

// IconRule maps any of its keywords to an icon
type IconRule struct {
	Keywords []string
	Icon     domain.Icon
}

// LoadRule maps any of its keywords to a sensory load score
type LoadRule struct {
	Keywords []string
	Load     float64
}

// DefaultIconRules are checked in order; the first match wins.
var DefaultIconRules = []IconRule{
	{Keywords: []string{"wake", "morning"}, Icon: IconSunrise},
	{Keywords: []string{"breakfast"}, Icon: IconBreakfast},
	{Keywords: []string{"school", "class"}, Icon: IconSchool},
	{Keywords: []string{"lunch"}, Icon: IconLunch},
	{Keywords: []string{"play", "game"}, Icon: IconGame},
	{Keywords: []string{"homework", "study"}, Icon: IconBook},
	{Keywords: []string{"dinner"}, Icon: IconDinner},
	{Keywords: []string{"bath", "shower"}, Icon: IconBath},
	{Keywords: []string{"bed", "sleep"}, Icon: IconMoon},
	{Keywords: []string{"brush", "teeth"}, Icon: IconDental},
	{Keywords: []string{"snack"}, Icon: IconFruit},
	{Keywords: []string{"rest", "quiet"}, Icon: IconMeditation},
	{Keywords: []string{"outdoor", "park"}, Icon: IconNature},
}

// DefaultLoadRules are checked in order, independently of the icon rules.
var DefaultLoadRules = []LoadRule{
	{Keywords: []string{"play", "game", "party", "event", "sport", "exercise"}, Load: LoadHigh},
	{Keywords: []string{"school", "class", "homework", "study", "lunch", "dinner", "breakfast"}, Load: LoadMedium},
	{Keywords: []string{"rest", "quiet", "bed", "sleep", "bath", "shower", "calm", "meditation"}, Load: LoadLow},
}

// Result holds the classification of one label
type Result struct {
	Icon        domain.Icon `json:"icon"`
	SensoryLoad float64     `json:"sensory_load"`
}

// Classifier matches activity labels against ordered keyword rules
type Classifier struct {
	iconRules []IconRule
	loadRules []LoadRule
}

// New creates a Classifier with the default rule set
func New() *Classifier {
	return NewWithRules(DefaultIconRules, DefaultLoadRules)
}

// NewWithRules creates a Classifier with custom rules. Keywords are
// lowercased once here so matching stays case-insensitive.
func NewWithRules(icons []IconRule, loads []LoadRule) *Classifier {
	c := &Classifier{
		iconRules: make([]IconRule, len(icons)),
		loadRules: make([]LoadRule, len(loads)),
	}
	for i, r := range icons {
		c.iconRules[i] = IconRule{Keywords: lowerAll(r.Keywords), Icon: r.Icon}
	}
	for i, r := range loads {
		c.loadRules[i] = LoadRule{Keywords: lowerAll(r.Keywords), Load: r.Load}
	}
	return c
}

// Classify returns the icon and sensory load for a label
func (c *Classifier) Classify(label string) Result {
	return Result{
		Icon:        c.Icon(label),
		SensoryLoad: c.SensoryLoad(label),
	}
}

// Icon returns the first matching icon, or IconDefault
func (c *Classifier) Icon(label string) domain.Icon {
	lower := strings.ToLower(label)
	for _, r := range c.iconRules {
		if containsAny(lower, r.Keywords) {
			return r.Icon
		}
	}
	return IconDefault
}

// SensoryLoad returns the first matching load, or LoadNeutral
func (c *Classifier) SensoryLoad(label string) float64 {
	lower := strings.ToLower(label)
	for _, r := range c.loadRules {
		if containsAny(lower, r.Keywords) {
			return r.Load
		}
	}
	return LoadNeutral
}

// ContainsAny reports whether label contains any keyword, ignoring case
func ContainsAny(label string, keywords ...string) bool {
	return containsAny(strings.ToLower(label), lowerAll(keywords))
}

func containsAny(lower string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

func lowerAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToLower(w)
	}
	return out
}

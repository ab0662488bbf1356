package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pbaille/calmday/internal/domain"
)

func TestIconRules(t *testing.T) {
	c := New()

	tests := []struct {
		label string
		want  domain.Icon
	}{
		{"Wake up", IconSunrise},
		{"good MORNING hugs", IconSunrise},
		{"Breakfast", IconBreakfast},
		{"School", IconSchool},
		{"Art class!", IconSchool},
		{"Lunch", IconLunch},
		{"Play time", IconGame},
		{"Board game", IconGame},
		{"Homework", IconBook},
		{"study hour", IconBook},
		{"Dinner", IconDinner},
		{"Bath time", IconBath},
		{"shower", IconBath},
		{"Bedtime", IconMoon},
		{"Sleep", IconMoon},
		{"Brush teeth", IconDental},
		{"Snack", IconFruit},
		{"Rest", IconMeditation},
		{"Quiet time", IconMeditation},
		{"Outdoor time", IconNature},
		{"Walk to the park", IconNature},
		{"Get ready", IconDefault},
		{"", IconDefault},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Icon(tt.label))
		})
	}
}

func TestIconPriority(t *testing.T) {
	c := New()

	// breakfast is listed before play
	assert.Equal(t, IconBreakfast, c.Icon("play after breakfast"))
	// wake beats bed even though both match
	assert.Equal(t, IconSunrise, c.Icon("wake up in bed"))
	// "teeth" rule comes after "bed"
	assert.Equal(t, IconMoon, c.Icon("brush teeth before bed"))
}

func TestSensoryLoadRules(t *testing.T) {
	c := New()

	tests := []struct {
		label string
		want  float64
	}{
		{"Play time", LoadHigh},
		{"Birthday PARTY", LoadHigh},
		{"Sport practice", LoadHigh},
		{"Exercise", LoadHigh},
		{"School", LoadMedium},
		{"Homework", LoadMedium},
		{"Lunch", LoadMedium},
		{"Breakfast", LoadMedium},
		{"Rest", LoadLow},
		{"Bedtime", LoadLow},
		{"Bath time", LoadLow},
		{"Calm corner", LoadLow},
		{"Meditation", LoadLow},
		{"Wake up", LoadNeutral},
		{"Snack", LoadNeutral},
		{"", LoadNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, c.SensoryLoad(tt.label))
		})
	}
}

func TestSensoryLoadPriority(t *testing.T) {
	c := New()

	// high group wins over calming group
	assert.Equal(t, LoadHigh, c.SensoryLoad("quiet game"))
	// medium group wins over calming group
	assert.Equal(t, LoadMedium, c.SensoryLoad("study in bed"))
}

func TestClassifyIsTotal(t *testing.T) {
	c := New()

	for _, label := range []string{"", "   ", "!!!", "日本語", "->", "Homework; Play"} {
		r := c.Classify(label)
		assert.NotEmpty(t, r.Icon)
		assert.GreaterOrEqual(t, r.SensoryLoad, 0.0)
		assert.LessOrEqual(t, r.SensoryLoad, 1.0)
	}
}

func TestClassifyIgnoresCaseAndPunctuation(t *testing.T) {
	c := New()

	want := c.Classify("play")
	for _, label := range []string{"PLAY", "Play!", "(play)", "...PlAy time..."} {
		assert.Equal(t, want, c.Classify(label), label)
	}
}

func TestNewWithRulesLowercasesKeywords(t *testing.T) {
	c := NewWithRules(
		[]IconRule{{Keywords: []string{"Swim"}, Icon: "🏊"}},
		[]LoadRule{{Keywords: []string{"SWIM"}, Load: 0.9}},
	)

	assert.Equal(t, Result{Icon: "🏊", SensoryLoad: 0.9}, c.Classify("swimming lesson"))
	assert.Equal(t, Result{Icon: IconDefault, SensoryLoad: LoadNeutral}, c.Classify("Play"))
}

func TestContainsAny(t *testing.T) {
	assert.True(t, ContainsAny("Free PLAY", "play", "movement"))
	assert.False(t, ContainsAny("Reading", "play", "movement"))
	assert.False(t, ContainsAny("Reading"))
}

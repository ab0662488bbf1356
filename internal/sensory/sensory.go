// Package sensory derives the sensory balance meter from a schedule.
package sensory

import (
	"math"

	"github.com/pbaille/calmday/internal/classifier"
	"github.com/pbaille/calmday/internal/domain"
)

// Band is one of the three sensory balance bands
type Band string

const (
	BandCalming     Band = "Calming"
	BandNeutral     Band = "Neutral"
	BandStimulating Band = "Stimulating"
)

// Band thresholds; a value equal to a threshold belongs to the higher band.
const (
	CalmingBelow    = 0.3
	StimulatingFrom = 0.7
	WarnAboveLength = 5
	warnAboveLevel  = StimulatingFrom
)

// Summary is the aggregate view shown by the sensory meter
type Summary struct {
	Level        float64 `json:"level"`
	Band         Band    `json:"label"`
	Percentage   int     `json:"percentage"`
	CalmingCount int     `json:"calming_count"`
	ActiveCount  int     `json:"active_count"`
	Warn         bool    `json:"warn"`
	Balanced     bool    `json:"balanced"`
}

// BandFor returns the band a load falls into
func BandFor(load float64) Band {
	switch {
	case load < CalmingBelow:
		return BandCalming
	case load < StimulatingFrom:
		return BandNeutral
	default:
		return BandStimulating
	}
}

// EntryLoad returns the stored load, classifying the label only when the
// entry has none.
func EntryLoad(e domain.ActivityEntry, clf *classifier.Classifier) float64 {
	if e.SensoryLoad != nil {
		return *e.SensoryLoad
	}
	return clf.SensoryLoad(e.Label)
}

// Summarize computes the sensory balance of a schedule
func Summarize(s domain.Schedule, clf *classifier.Classifier) Summary {
	if len(s) == 0 {
		return Summary{Band: BandCalming}
	}

	var total float64
	calming := 0
	for _, e := range s {
		load := EntryLoad(e, clf)
		total += load
		if load < CalmingBelow {
			calming++
		}
	}

	level := total / float64(len(s))
	return Summary{
		Level:        level,
		Band:         BandFor(level),
		Percentage:   Percent(level),
		CalmingCount: calming,
		ActiveCount:  len(s) - calming,
		Warn:         level > warnAboveLevel && len(s) > WarnAboveLength,
		Balanced:     level < CalmingBelow,
	}
}

// Percent rounds level*100 half-up to an integer
func Percent(level float64) int {
	return int(math.Floor(level*100 + 0.5))
}

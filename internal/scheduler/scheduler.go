package scheduler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pbaille/calmday/internal/classifier"
	"github.com/pbaille/calmday/internal/domain"
)

// separators between activities in free text
var separators = regexp.MustCompile(`\n|,|;|→|->`)

// Split breaks raw text into trimmed, non-empty activity labels
func Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var labels []string
	for _, seg := range separators.Split(text, -1) {
		seg = strings.TrimSpace(seg)
		if seg != "" {
			labels = append(labels, seg)
		}
	}
	return labels
}

// Parse builds a fresh schedule from raw text. Blank input yields an
// empty schedule.
func Parse(text string, clf *classifier.Classifier) domain.Schedule {
	labels := Split(text)

	schedule := make(domain.Schedule, 0, len(labels))
	for i, label := range labels {
		r := clf.Classify(label)
		schedule = append(schedule, domain.ActivityEntry{
			ID:          EntryID(i),
			Label:       label,
			Icon:        r.Icon,
			SensoryLoad: domain.Load(r.SensoryLoad),
		})
	}
	return schedule
}

// EntryID returns the id assigned to the entry parsed at index i
func EntryID(i int) string {
	return fmt.Sprintf("task-%d", i)
}

// Reorder moves the entry movedID to the position currently held by
// targetID. Unknown ids or movedID == targetID return the schedule unchanged.
func Reorder(s domain.Schedule, movedID, targetID string) domain.Schedule {
	if movedID == targetID {
		return s
	}
	from := s.Index(movedID)
	to := s.Index(targetID)
	if from < 0 || to < 0 {
		return s
	}
	return Move(s, from, to)
}

// Move returns a copy of s with the element at from moved to index to;
// elements in between shift by one. Out-of-range indexes return s.
func Move(s domain.Schedule, from, to int) domain.Schedule {
	if from < 0 || from >= len(s) || to < 0 || to >= len(s) || from == to {
		return s
	}

	out := make(domain.Schedule, 0, len(s))
	moved := s[from]
	for i, e := range s {
		if i == from {
			continue
		}
		if i == to && from > to {
			out = append(out, moved)
		}
		out = append(out, e)
		if i == to && from < to {
			out = append(out, moved)
		}
	}
	return out
}

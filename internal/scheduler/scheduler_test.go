package scheduler

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/calmday/internal/classifier"
	"github.com/pbaille/calmday/internal/domain"
)

func TestParseEmpty(t *testing.T) {
	clf := classifier.New()

	for _, in := range []string{"", "   ", "\n\n", " , ; -> → "} {
		s := Parse(in, clf)
		require.NotNil(t, s, "input %q", in)
		assert.Empty(t, s, "input %q", in)
	}
}

func TestParseSeparators(t *testing.T) {
	clf := classifier.New()

	s := Parse("A\nB,C", clf)
	require.Len(t, s, 3)
	assert.Equal(t, []string{"A", "B", "C"}, s.Labels())
	assert.Equal(t, "task-0", s[0].ID)
	assert.Equal(t, "task-1", s[1].ID)
	assert.Equal(t, "task-2", s[2].ID)

	s = Parse("Wake up -> Breakfast → School; Lunch\r\nPlay", clf)
	assert.Equal(t, []string{"Wake up", "Breakfast", "School", "Lunch", "Play"}, s.Labels())
}

func TestParseSkipsBlankSegmentsBeforeNumbering(t *testing.T) {
	s := Parse("\n  Wake up \n\n,, Bedtime  \n", classifier.New())

	want := domain.Schedule{
		{ID: "task-0", Label: "Wake up", Icon: classifier.IconSunrise, SensoryLoad: domain.Load(classifier.LoadNeutral)},
		{ID: "task-1", Label: "Bedtime", Icon: classifier.IconMoon, SensoryLoad: domain.Load(classifier.LoadLow)},
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParseClassifiesEachEntry(t *testing.T) {
	s := Parse("Play time\nHomework", classifier.New())

	require.Len(t, s, 2)
	assert.Equal(t, classifier.IconGame, s[0].Icon)
	require.NotNil(t, s[0].SensoryLoad)
	assert.Equal(t, classifier.LoadHigh, *s[0].SensoryLoad)
	assert.Equal(t, classifier.IconBook, s[1].Icon)
	assert.Equal(t, classifier.LoadMedium, *s[1].SensoryLoad)
}

func TestReorderNoOps(t *testing.T) {
	s := Parse("A\nB\nC", classifier.New())

	assert.Equal(t, s, Reorder(s, "task-1", "task-1"))
	assert.Equal(t, s, Reorder(s, "task-9", "task-1"))
	assert.Equal(t, s, Reorder(s, "task-1", "missing"))
	assert.Equal(t, domain.Schedule{}, Reorder(domain.Schedule{}, "task-0", "task-1"))
}

func TestReorderMovesSingleEntry(t *testing.T) {
	s := Parse("A\nB\nC\nD", classifier.New())

	down := Reorder(s, "task-0", "task-2")
	assert.Equal(t, []string{"B", "C", "A", "D"}, down.Labels())

	up := Reorder(s, "task-3", "task-1")
	assert.Equal(t, []string{"A", "D", "B", "C"}, up.Labels())

	// input is left untouched
	assert.Equal(t, []string{"A", "B", "C", "D"}, s.Labels())
}

func TestReorderPreservesEntries(t *testing.T) {
	s := Parse("Wake up\nBreakfast\nSchool\nPlay time\nBath\nBed", classifier.New())

	got := Reorder(s, "task-4", "task-0")
	require.Len(t, got, len(s))
	for _, e := range s {
		i := got.Index(e.ID)
		require.GreaterOrEqual(t, i, 0, e.ID)
		if diff := cmp.Diff(e, got[i]); diff != "" {
			t.Errorf("entry %s changed (-want +got):\n%s", e.ID, diff)
		}
	}
}

func TestMoveIsInvertible(t *testing.T) {
	s := Parse("A\nB\nC\nD\nE", classifier.New())

	for i := range s {
		for j := range s {
			moved := Move(s, i, j)
			back := Move(moved, j, i)
			assert.Equal(t, s, back, "move %d -> %d", i, j)

			// same round trip through ids
			id := s[i].ID
			viaIDs := Reorder(s, id, s[j].ID)
			restored := Reorder(viaIDs, id, viaIDs[i].ID)
			assert.Equal(t, s.Labels(), restored.Labels(), "reorder %d -> %d", i, j)
		}
	}
}

func TestMoveOutOfRange(t *testing.T) {
	s := Parse("A\nB", classifier.New())

	assert.Equal(t, s, Move(s, -1, 0))
	assert.Equal(t, s, Move(s, 0, 2))
}

package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pbaille/calmday/internal/classifier"
	"github.com/pbaille/calmday/internal/domain"
	"github.com/pbaille/calmday/internal/session"
	"github.com/pbaille/calmday/internal/speech"
)

type instantSpeaker struct{ spoken []string }

func (s *instantSpeaker) Speak(ctx context.Context, text string) error {
	s.spoken = append(s.spoken, text)
	return nil
}

// blockingSpeaker speaks until its playback is cancelled
type blockingSpeaker struct{}

func (blockingSpeaker) Speak(ctx context.Context, text string) error {
	<-ctx.Done()
	return ctx.Err()
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "ctrl+g":
			msg = tea.KeyMsg{Type: tea.KeyCtrlG}
		case "ctrl+t":
			msg = tea.KeyMsg{Type: tea.KeyCtrlT}
		case "ctrl+l":
			msg = tea.KeyMsg{Type: tea.KeyCtrlL}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, c := m.Update(msg)
		m = next.(Model)
		cmd = c
	}
	return m, cmd
}

func newModel(t *testing.T, speaker speech.Speaker) Model {
	t.Helper()
	logger := zaptest.NewLogger(t)
	var player *speech.Player
	if speaker != nil {
		player = speech.NewPlayer(speaker, logger)
		t.Cleanup(player.Wait)
	}
	return New(classifier.New(), player, logger)
}

func onboarded(t *testing.T, speaker speech.Speaker) Model {
	return newModel(t, speaker).WithProfile(domain.CaregiverProfile{AgeRange: "3-5"})
}

func TestOnboardingChooseAndSkip(t *testing.T) {
	m := newModel(t, nil)
	assert.Contains(t, m.View(), "What age range?")

	// down twice selects the second age range
	m, _ = press(t, m, "down", "down", "enter")
	assert.Contains(t, m.View(), "What type of day?")

	m, _ = press(t, m, "n", "up", "enter")
	require.True(t, m.State().Onboarded)
	assert.Equal(t, domain.CaregiverProfile{AgeRange: "6-8", SensoryProfile: "High Stimulation"}, m.State().Profile)
}

func TestOnboardingSkipAll(t *testing.T) {
	m := newModel(t, nil)
	m, _ = press(t, m, "down", "s")

	require.True(t, m.State().Onboarded)
	assert.Equal(t, domain.CaregiverProfile{}, m.State().Profile)
	assert.Contains(t, m.View(), "Today's plan")
}

func TestTypeAndGenerate(t *testing.T) {
	m := onboarded(t, nil)
	m, _ = press(t, m, "Play, Homework", "ctrl+g")

	st := m.State()
	assert.Equal(t, "Play, Homework", st.Input)
	assert.Equal(t, []string{"Play", "Homework"}, st.Schedule.Labels())
	assert.Equal(t, paneSchedule, m.focus)

	view := m.View()
	assert.Contains(t, view, "Sensory Balance")
	assert.Contains(t, view, "children aged 3-5")
}

func TestTemplateCycle(t *testing.T) {
	m := onboarded(t, nil)

	m, _ = press(t, m, "ctrl+t")
	assert.Contains(t, m.input.Value(), "School")
	assert.Empty(t, m.State().Schedule)

	m, _ = press(t, m, "ctrl+t", "ctrl+g")
	assert.Len(t, m.State().Schedule, 8)
}

func TestReorderKeys(t *testing.T) {
	m := onboarded(t, nil).WithInput("A\nB\nC")
	require.Equal(t, paneSchedule, m.focus)

	m, _ = press(t, m, "down", "down", "K")
	assert.Equal(t, []string{"A", "C", "B"}, m.State().Schedule.Labels())
	assert.Equal(t, 1, m.selected)

	m, _ = press(t, m, "J")
	assert.Equal(t, []string{"A", "B", "C"}, m.State().Schedule.Labels())
	assert.Equal(t, 2, m.selected)

	// bottom card cannot move further down
	m, _ = press(t, m, "J")
	assert.Equal(t, []string{"A", "B", "C"}, m.State().Schedule.Labels())
}

func TestPreviewHidesExplanations(t *testing.T) {
	m := onboarded(t, nil).WithInput("Play\nHomework")
	assert.Contains(t, m.View(), "Why This Order?")

	m, _ = press(t, m, "p")
	assert.True(t, m.State().Preview)
	assert.NotContains(t, m.View(), "Why This Order?")
	assert.Contains(t, m.View(), "See like your child")
}

func TestReflectionToggle(t *testing.T) {
	m := onboarded(t, nil).WithInput("Rest\nBath")

	m, _ = press(t, m, "r")
	assert.True(t, m.State().ShowReflection)
	m, _ = press(t, m, "r")
	assert.False(t, m.State().ShowReflection)
}

func TestExportNotice(t *testing.T) {
	m := onboarded(t, nil).WithInput("Rest")

	m, _ = press(t, m, "e")
	assert.Equal(t, session.NoticeExport, m.State().Notice)
	assert.Contains(t, m.View(), "Export is not available yet")

	// any key dismisses it
	m, _ = press(t, m, "down")
	assert.Empty(t, m.State().Notice)
}

func TestHelpOverlay(t *testing.T) {
	m := onboarded(t, nil).WithInput("Rest")

	m, _ = press(t, m, "?")
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "esc to close")

	// keys are swallowed while help is open
	m, _ = press(t, m, "c")
	assert.Len(t, m.State().Schedule, 1)

	m, _ = press(t, m, "esc")
	assert.False(t, m.showHelp)
}

func TestSpeakUnsupported(t *testing.T) {
	m := onboarded(t, nil).WithInput("Rest")

	m, cmd := press(t, m, "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, session.NoticeSpeechUnsupported, m.State().Notice)
	assert.Empty(t, m.State().Speaking)
}

func TestSpeakMarksCardUntilDone(t *testing.T) {
	sp := &instantSpeaker{}
	m := onboarded(t, sp).WithInput("Rest\nBath")

	m, cmd := press(t, m, "down", "enter")
	require.NotNil(t, cmd)
	assert.Equal(t, "task-1", m.State().Speaking)
	assert.Contains(t, m.View(), "🔊")

	next, _ := m.Update(cmd())
	m = next.(Model)
	assert.Empty(t, m.State().Speaking)
	assert.Equal(t, []string{"Bath"}, sp.spoken)
}

func TestStaleSpeechResultKeepsNewMarker(t *testing.T) {
	m := onboarded(t, nil).WithInput("Rest\nBath")
	m.State().SpeechStarted("task-1")

	next, _ := m.Update(speechDoneMsg{result: speech.Result{ID: "task-0"}})
	m = next.(Model)
	assert.Equal(t, "task-1", m.State().Speaking)
}

func TestReplayingSameCardKeepsMarker(t *testing.T) {
	m := onboarded(t, blockingSpeaker{}).WithInput("Rest\nBath")
	t.Cleanup(m.player.Stop)

	m, first := press(t, m, "enter")
	require.NotNil(t, first)
	m, second := press(t, m, "enter")
	require.NotNil(t, second)

	// the first playback was replaced by the second one on the same card
	next, _ := m.Update(first())
	m = next.(Model)
	assert.Equal(t, "task-0", m.player.Speaking())
	assert.Equal(t, "task-0", m.State().Speaking)

	m.player.Stop()
	next, _ = m.Update(second())
	m = next.(Model)
	assert.Empty(t, m.player.Speaking())
}

func TestClearAndSwitchPanes(t *testing.T) {
	m := onboarded(t, nil).WithInput("Rest\nBath")

	m, _ = press(t, m, "tab")
	assert.Equal(t, paneEdit, m.focus)
	m, _ = press(t, m, "tab")
	assert.Equal(t, paneSchedule, m.focus)

	m, _ = press(t, m, "c")
	assert.Empty(t, m.State().Schedule)
	assert.Empty(t, m.input.Value())
	assert.Equal(t, paneEdit, m.focus)

	// tab stays on the edit pane without a schedule
	m, _ = press(t, m, "tab")
	assert.Equal(t, paneEdit, m.focus)
}

func TestQuit(t *testing.T) {
	m := onboarded(t, nil).WithInput("Rest")

	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = press(t, onboarded(t, nil), "ctrl+c")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestWindowResize(t *testing.T) {
	m := onboarded(t, nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(Model)
	assert.Equal(t, 100, m.width)
}

// Package tui is the interactive terminal shell: onboarding, a text pane
// for the day plan and the visual schedule with its sensory summary.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/pbaille/calmday/internal/classifier"
	"github.com/pbaille/calmday/internal/domain"
	"github.com/pbaille/calmday/internal/explain"
	"github.com/pbaille/calmday/internal/profile"
	"github.com/pbaille/calmday/internal/render"
	"github.com/pbaille/calmday/internal/sensory"
	"github.com/pbaille/calmday/internal/session"
	"github.com/pbaille/calmday/internal/speech"
	"github.com/pbaille/calmday/internal/templates"
)

type pane int

const (
	paneEdit pane = iota
	paneSchedule
)

const meterWidth = 20

// speechDoneMsg reports the end of a playback started from the schedule
type speechDoneMsg struct {
	result speech.Result
}

func waitSpeech(ch <-chan speech.Result) tea.Cmd {
	return func() tea.Msg {
		return speechDoneMsg{result: <-ch}
	}
}

// Model is the bubbletea model. All state changes go through the owned
// session.State from Update.
type Model struct {
	state  *session.State
	clf    *classifier.Classifier
	player *speech.Player
	logger *zap.Logger

	wizard *profile.Wizard
	option int

	input    textarea.Model
	keys     KeyMap
	styles   Styles
	help     help.Model
	focus    pane
	selected int
	template int
	showHelp bool

	width  int
	height int
}

// New creates the shell. A nil player disables reading cards aloud.
func New(clf *classifier.Classifier, player *speech.Player, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	if player == nil {
		player = speech.NewPlayer(nil, logger)
	}

	ta := textarea.New()
	ta.Placeholder = "Wake up, breakfast, school, play time..."
	ta.ShowLineNumbers = false
	ta.SetHeight(6)
	ta.Focus()

	return Model{
		state:  session.New(),
		clf:    clf,
		player: player,
		logger: logger,
		wizard: profile.NewWizard(),
		option: -1,
		input:  ta,
		keys:   DefaultKeyMap(),
		styles: DefaultStyles(),
		help:   help.New(),
		width:  80,
	}
}

// WithProfile skips onboarding using a known profile
func (m Model) WithProfile(p domain.CaregiverProfile) Model {
	m.state.CompleteOnboarding(p)
	return m
}

// WithInput pre-fills the plan and generates its schedule
func (m Model) WithInput(text string) Model {
	m.input.SetValue(text)
	return m.generate()
}

// State returns the current state record
func (m Model) State() *session.State {
	return m.state
}

// Run starts the program on the alternate screen
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	m.player.Stop()
	m.player.Wait()
	return nil
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(max(msg.Width-6, 20))
		m.help.Width = msg.Width
		return m, nil

	case speechDoneMsg:
		// A cancelled result belongs to a replaced playback, possibly of the
		// same card, so only a playback the player has let go of clears it.
		if msg.result.Cancelled() || m.player.Speaking() == msg.result.ID {
			return m, nil
		}
		m.state.SpeechFinished(msg.result.ID)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			m.player.Stop()
			return m, tea.Quit
		}
		m.state.DismissNotice()

		if m.showHelp {
			if key.Matches(msg, m.keys.Close, m.keys.Help, m.keys.Quit) {
				m.showHelp = false
			}
			return m, nil
		}
		if !m.state.Onboarded {
			return m.updateOnboarding(msg)
		}
		if m.focus == paneSchedule {
			return m.updateSchedule(msg)
		}
		return m.updateEdit(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateOnboarding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	options := m.wizard.Current().Options

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.option <= 0 {
			m.option = len(options) - 1
		} else {
			m.option--
		}
		m.wizard.Choose(options[m.option])
	case key.Matches(msg, m.keys.Down):
		m.option = (m.option + 1) % len(options)
		m.wizard.Choose(options[m.option])
	case key.Matches(msg, m.keys.Next):
		m.wizard.Next()
		m.option = -1
	case key.Matches(msg, m.keys.SkipStep):
		m.wizard.Choose("")
		m.wizard.Next()
		m.option = -1
	case key.Matches(msg, m.keys.SkipAll):
		m.wizard.Skip()
	}

	if m.wizard.Done() {
		m.state.CompleteOnboarding(m.wizard.Profile())
		m.logger.Debug("onboarding complete", zap.Any("profile", m.state.Profile))
	}
	return m, nil
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Generate):
		return m.generate(), nil
	case key.Matches(msg, m.keys.Template):
		all := templates.All()
		t := all[m.template%len(all)]
		m.template++
		m.state.SelectTemplate(t)
		m.input.SetValue(m.state.Input)
		return m, nil
	case key.Matches(msg, m.keys.ClearAll):
		return m.clear(), nil
	case key.Matches(msg, m.keys.Switch):
		if len(m.state.Schedule) > 0 {
			m.focus = paneSchedule
			m.input.Blur()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateSchedule(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sched := m.state.Schedule

	switch {
	case key.Matches(msg, m.keys.MoveUp):
		if m.selected > 0 && m.selected < len(sched) {
			m.state.Reorder(sched[m.selected].ID, sched[m.selected-1].ID)
			m.selected--
		}
	case key.Matches(msg, m.keys.MoveDown):
		if m.selected < len(sched)-1 {
			m.state.Reorder(sched[m.selected].ID, sched[m.selected+1].ID)
			m.selected++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(sched)-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Speak):
		return m.speak()
	case key.Matches(msg, m.keys.Preview):
		m.state.TogglePreview()
	case key.Matches(msg, m.keys.Reflection):
		if m.state.ShowReflection {
			m.state.HideReflection()
		} else {
			m.state.ShowReflectionPanel()
		}
	case key.Matches(msg, m.keys.Close):
		m.state.HideReflection()
	case key.Matches(msg, m.keys.Export):
		m.state.Export()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Clear):
		return m.clear(), nil
	case key.Matches(msg, m.keys.Switch):
		m.focus = paneEdit
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Quit):
		m.player.Stop()
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) generate() Model {
	m.state.Input = m.input.Value()
	m.state.Generate(m.clf)
	m.selected = 0
	m.logger.Debug("schedule generated", zap.Int("entries", len(m.state.Schedule)))

	if len(m.state.Schedule) > 0 {
		m.focus = paneSchedule
		m.input.Blur()
	}
	return m
}

func (m Model) clear() Model {
	m.player.Stop()
	m.state.Clear()
	m.input.Reset()
	m.selected = 0
	m.focus = paneEdit
	m.input.Focus()
	return m
}

func (m Model) speak() (tea.Model, tea.Cmd) {
	if m.selected >= len(m.state.Schedule) {
		return m, nil
	}
	e := m.state.Schedule[m.selected]

	if !m.player.Supported() {
		m.state.SpeechUnsupported()
		return m, nil
	}
	ch, err := m.player.Play(e.ID, e.Label)
	if err != nil {
		m.logger.Warn("speech failed", zap.Error(err))
		return m, nil
	}

	m.state.SpeechStarted(e.ID)
	return m, waitSpeech(ch)
}

// View implements tea.Model
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("🗓  Calm Day"))
	sb.WriteString("\n\n")

	switch {
	case m.showHelp:
		sb.WriteString(render.Terminal(render.HelpMarkdown, m.width))
		sb.WriteString(m.styles.Hint.Render("esc to close"))
	case !m.state.Onboarded:
		sb.WriteString(m.viewOnboarding())
		sb.WriteString("\n")
		sb.WriteString(m.help.ShortHelpView(m.keys.onboardingHelp()))
	default:
		sb.WriteString(m.viewMain())
	}

	if m.state.Notice != "" {
		sb.WriteString("\n\n")
		sb.WriteString(m.styles.Notice.Render(m.state.Notice))
	}
	return sb.String()
}

func (m Model) viewOnboarding() string {
	var sb strings.Builder
	step := m.wizard.Current()

	sb.WriteString(m.styles.Header.Render("Tell us a little about your child"))
	sb.WriteString(m.styles.Hint.Render(fmt.Sprintf("  (step %d of %d, optional)", m.wizard.Step()+1, len(profile.Steps))))
	sb.WriteString("\n\n")
	sb.WriteString(step.Prompt)
	sb.WriteString("\n")

	for _, o := range step.Options {
		if o == m.wizard.Selected() {
			sb.WriteString(m.styles.Chosen.Render("› " + o))
		} else {
			sb.WriteString(m.styles.Option.Render(o))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m Model) viewMain() string {
	edit := m.styles.Pane
	sched := m.styles.Pane
	if m.focus == paneEdit {
		edit = m.styles.Focused
	} else {
		sched = m.styles.Focused
	}

	var sb strings.Builder
	sb.WriteString(edit.Render(m.styles.Header.Render("Today's plan") + "\n" + m.input.View()))
	sb.WriteString("\n")
	sb.WriteString(sched.Render(m.viewSchedule()))
	sb.WriteString("\n")

	if m.focus == paneEdit {
		sb.WriteString(m.help.ShortHelpView(m.keys.editHelp()))
	} else {
		sb.WriteString(m.help.ShortHelpView(m.keys.scheduleHelp()))
	}
	return sb.String()
}

func (m Model) viewSchedule() string {
	s := m.state.Schedule
	if len(s) == 0 {
		return m.styles.Hint.Render("Choose a template or enter your daily plan to create visual cards.")
	}

	var sb strings.Builder
	title := "Visual Schedule"
	if m.state.Preview {
		title = "👀 See like your child"
	}
	sb.WriteString(m.styles.Header.Render(title))
	sb.WriteString("\n")

	for i, e := range s {
		sb.WriteString(m.viewCard(i, e))
		sb.WriteString("\n")
	}

	if m.state.Preview {
		return sb.String()
	}

	sum := sensory.Summarize(s, m.clf)
	sb.WriteString("\n")
	sb.WriteString(m.viewMeter(sum))

	if ex := explain.Explain(s, m.state.Profile, m.clf); len(ex) > 0 {
		sb.WriteString("\n")
		sb.WriteString(m.styles.Header.Render("🧠 Why This Order?"))
		sb.WriteString("\n")
		for _, e := range ex {
			sb.WriteString(fmt.Sprintf("%s %s\n", e.Icon, e.Text))
		}
	}

	if m.state.ShowReflection {
		sb.WriteString("\n")
		sb.WriteString(render.Terminal(render.Reflection(sum, len(s)), m.width-4))
	}
	return sb.String()
}

func (m Model) viewCard(i int, e domain.ActivityEntry) string {
	band := sensory.BandFor(sensory.EntryLoad(e, m.clf))
	label := e.Label
	if m.state.Speaking == e.ID {
		label = m.styles.Speaking.Render(label) + " 🔊"
	}

	var line string
	if m.state.Preview {
		line = fmt.Sprintf("%s  %s", e.Icon, label)
	} else {
		line = fmt.Sprintf("%2d. %s %s %s", i+1, e.Icon, label,
			lipgloss.NewStyle().Foreground(BandColor(band)).Render("● "+string(band)))
	}

	if i == m.selected && m.focus == paneSchedule {
		return m.styles.Selected.Render(line)
	}
	return m.styles.Card.Render(line)
}

func (m Model) viewMeter(sum sensory.Summary) string {
	filled := sum.Percentage * meterWidth / 100
	bar := lipgloss.NewStyle().Foreground(BandColor(sum.Band)).Render(strings.Repeat("█", filled)) +
		m.styles.Hint.Render(strings.Repeat("░", meterWidth-filled))

	var sb strings.Builder
	sb.WriteString(m.styles.Header.Render("🎨 Sensory Balance"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%s %s %d%%\n", bar, sum.Band, sum.Percentage))
	sb.WriteString(fmt.Sprintf("📊 %d calming activities • %d active activities\n", sum.CalmingCount, sum.ActiveCount))
	if sum.Warn {
		sb.WriteString(m.styles.Warn.Render(render.WarnMessage))
		sb.WriteString("\n")
	}
	if sum.Balanced {
		sb.WriteString(render.BalancedMessage)
		sb.WriteString("\n")
	}
	return sb.String()
}

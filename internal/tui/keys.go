package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every binding used by the interactive shell
type KeyMap struct {
	// Onboarding
	Up       key.Binding
	Down     key.Binding
	Next     key.Binding
	SkipStep key.Binding
	SkipAll  key.Binding

	// Edit pane
	Generate key.Binding
	Template key.Binding
	ClearAll key.Binding
	Switch   key.Binding

	// Schedule pane
	MoveUp     key.Binding
	MoveDown   key.Binding
	Speak      key.Binding
	Preview    key.Binding
	Reflection key.Binding
	Export     key.Binding
	Clear      key.Binding
	Help       key.Binding
	Close      key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
}

// DefaultKeyMap returns the standard bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Next:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next")),
		SkipStep: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "skip step")),
		SkipAll:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "skip all")),

		Generate: key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "generate")),
		Template: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "template")),
		ClearAll: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
		Switch:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),

		MoveUp:     key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K/⇧↑", "move up")),
		MoveDown:   key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J/⇧↓", "move down")),
		Speak:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "read aloud")),
		Preview:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "child view")),
		Reflection: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reflection")),
		Export:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		Clear:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Close:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

func (k KeyMap) onboardingHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Next, k.SkipStep, k.SkipAll}
}

func (k KeyMap) editHelp() []key.Binding {
	return []key.Binding{k.Generate, k.Template, k.ClearAll, k.Switch}
}

func (k KeyMap) scheduleHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.MoveUp, k.MoveDown, k.Speak, k.Preview, k.Reflection, k.Export, k.Help, k.Switch, k.Quit}
}

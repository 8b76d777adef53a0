package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding
	Refresh    key.Binding

	// Schedule
	Up      key.Binding
	Down    key.Binding
	Top     key.Binding
	Bottom  key.Binding
	OpenJob key.Binding
	NewJob  key.Binding
	Filter  key.Binding

	// Workspace bar
	WorkspacePrev key.Binding
	WorkspaceNext key.Binding
	WorkspaceOpen key.Binding

	// Panel
	Save       key.Binding
	Minimize   key.Binding
	NextField  key.Binding
	PrevField  key.Binding
	ToggleDock key.Binding
	NudgeLeft  key.Binding
	NudgeRight key.Binding
	NudgeUp    key.Binding
	NudgeDown  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close panel"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh schedule"),
		),

		// Schedule
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		OpenJob: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open job"),
		),
		NewJob: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "New job"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Filter schedule"),
		),

		// Workspace bar
		WorkspacePrev: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "Previous workspace entry"),
		),
		WorkspaceNext: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "Next workspace entry"),
		),
		WorkspaceOpen: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Open workspace entry"),
		),

		// Panel
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "Save job"),
		),
		Minimize: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "Minimize to workspace"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		ToggleDock: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "Dock/float panel"),
		),
		NudgeLeft: key.NewBinding(
			key.WithKeys("alt+left"),
			key.WithHelp("alt+arrows", "Move floating panel"),
		),
		NudgeRight: key.NewBinding(
			key.WithKeys("alt+right"),
		),
		NudgeUp: key.NewBinding(
			key.WithKeys("alt+up"),
		),
		NudgeDown: key.NewBinding(
			key.WithKeys("alt+down"),
		),
	}
}

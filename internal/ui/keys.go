package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts for the palette. Single-letter
// bindings only fire while the result list has focus; while typing they go to
// the search input.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Row actions
	Open         key.Binding
	CopyURL      key.Binding
	CopyMarkdown key.Binding
	CopyHTML     key.Binding

	// Palette
	Mode     key.Binding
	Projects key.Binding
	Detail   key.Binding
	Search   key.Binding
	Theme    key.Binding
	Escape   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "ctrl+k"),
			key.WithHelp("↑/k", "Up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "ctrl+j"),
			key.WithHelp("↓/j", "Down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+b"),
			key.WithHelp("PgUp", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+f"),
			key.WithHelp("PgDn", "Page down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter", "o"),
			key.WithHelp("⏎/o", "Open in browser"),
		),
		CopyURL: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Copy URL"),
		),
		CopyMarkdown: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Copy Markdown link"),
		),
		CopyHTML: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "Copy HTML link"),
		),
		Mode: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("⇥", "Work items/queries"),
		),
		Projects: key.NewBinding(
			key.WithKeys("ctrl+p", "p"),
			key.WithHelp("^p", "Project"),
		),
		Detail: key.NewBinding(
			key.WithKeys("ctrl+d", "d"),
			key.WithHelp("^d", "Detail"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		Theme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("^t", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back/clear"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("^c", "Quit"),
		),
	}
}

// ShortHelp implements help.KeyMap for the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.CopyURL, k.CopyMarkdown, k.Mode, k.Projects, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap for the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Search, k.Escape},
		{k.Open, k.CopyURL, k.CopyMarkdown, k.CopyHTML},
		{k.Mode, k.Projects, k.Detail, k.Theme, k.Help, k.Quit},
	}
}

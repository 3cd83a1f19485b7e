package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the builder's bindings. It implements help.KeyMap.
type keyMap struct {
	NextPane key.Binding
	PrevPane key.Binding
	Up       key.Binding
	Down     key.Binding
	Add      key.Binding
	Remove   key.Binding
	Cycle    key.Binding
	Currency key.Binding
	Template key.Binding
	Save     key.Binding
	Link     key.Binding
	Export   key.Binding
	Reload   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	NextPane: key.NewBinding(key.WithKeys("tab", "right"), key.WithHelp("tab", "next pane")),
	PrevPane: key.NewBinding(key.WithKeys("shift+tab", "left"), key.WithHelp("S-tab", "prev pane")),
	Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
	Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
	Add:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "add")),
	Remove:   key.NewBinding(key.WithKeys("d", "x", "backspace"), key.WithHelp("d/x", "remove")),
	Cycle:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "monthly/yearly")),
	Currency: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "currency")),
	Template: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "next template")),
	Save:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
	Link:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "share link")),
	Export:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export report")),
	Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload catalog")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPane, k.Add, k.Remove, k.Cycle, k.Currency, k.Export, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextPane, k.PrevPane, k.Up, k.Down},
		{k.Add, k.Remove, k.Template},
		{k.Cycle, k.Currency},
		{k.Save, k.Link, k.Export, k.Reload, k.Help, k.Quit},
	}
}

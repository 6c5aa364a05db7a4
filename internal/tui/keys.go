package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the key bindings of the team form
type KeyMap struct {
	Next         key.Binding
	Prev         key.Binding
	Up           key.Binding
	Down         key.Binding
	AddMember    key.Binding
	RemoveMember key.Binding
	AddProject   key.Binding
	Submit       key.Binding
	CancelSubmit key.Binding
	Back         key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "select up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "select down"),
		),
		AddMember: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "add member"),
		),
		RemoveMember: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "remove member"),
		),
		AddProject: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "add project"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		CancelSubmit: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "cancel save"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "back"),
		),
	}
}

// HelpBindings lists the bindings shown in the footer
func (k KeyMap) HelpBindings() []key.Binding {
	return []key.Binding{k.Next, k.AddMember, k.RemoveMember, k.AddProject, k.Submit, k.CancelSubmit, k.Back}
}

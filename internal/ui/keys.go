package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the global bindings handled by the root model. View-local
// keys (navigation, like, search) live with their views.
type KeyMap struct {
	Quit   key.Binding
	Back   key.Binding
	Login  key.Binding
	Logout key.Binding
	New    key.Binding
}

var Keys = KeyMap{
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Login:  key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "login")),
	Logout: key.NewBinding(key.WithKeys("Q"), key.WithHelp("Q", "logout")),
	New:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "new snippet")),
}

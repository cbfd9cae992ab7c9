package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit key.Binding
	Back key.Binding

	// Actions
	Select   key.Binding
	New      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	MarkPaid key.Binding

	// Filters (multi-select over draft/pending/paid)
	FilterDraft   key.Binding
	FilterPending key.Binding
	FilterPaid    key.Binding

	// Form actions
	SaveSend   key.Binding
	SaveDraft  key.Binding
	AddItem    key.Binding
	RemoveItem key.Binding
	NextField  key.Binding
	PrevField  key.Binding

	// Movement
	Up   key.Binding
	Down key.Binding
}

var DefaultKeyMap = KeyMap{
	Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Back:          key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Select:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	New:           key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new invoice")),
	Edit:          key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Delete:        key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	MarkPaid:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "mark as paid")),
	FilterDraft:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "toggle draft filter")),
	FilterPending: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "toggle pending filter")),
	FilterPaid:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "toggle paid filter")),
	SaveSend:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save & send")),
	SaveDraft:     key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "save as draft")),
	AddItem:       key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "add item")),
	RemoveItem:    key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "remove item")),
	NextField:     key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	PrevField:     key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
	Up:            key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:          key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
}

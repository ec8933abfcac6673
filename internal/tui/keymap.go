package tui

import "charm.land/bubbles/v2/key"

// keyMap holds board-level bindings. Form bindings live in formKeyMap.
type keyMap struct {
	quit       key.Binding
	toggleHelp key.Binding
	moveUp     key.Binding
	moveDown   key.Binding
	editPoint  key.Binding
	favorite   key.Binding
	newPoint   key.Binding
	nextSort   key.Binding
	prevSort   key.Binding
	nextFilter key.Binding
	prevFilter key.Binding
	yank       key.Binding
	escape     key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		toggleHelp: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		moveUp:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "point up")),
		moveDown:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "point down")),
		editPoint:  key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e/enter", "edit point")),
		favorite:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "toggle favorite")),
		newPoint:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new event")),
		nextSort:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "next sort")),
		prevSort:   key.NewBinding(key.WithKeys("S", "shift+s"), key.WithHelp("S", "previous sort")),
		nextFilter: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next filter")),
		prevFilter: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous filter")),
		yank:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy point")),
		escape:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close form")),
	}
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.newPoint, k.editPoint, k.favorite, k.nextSort, k.nextFilter, k.toggleHelp, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.newPoint, k.editPoint, k.favorite, k.yank, k.toggleHelp, k.quit},
		{k.moveUp, k.moveDown, k.nextSort, k.prevSort, k.nextFilter, k.prevFilter},
		{k.escape},
	}
}

// formKeyMap holds bindings active while a point form has focus.
type formKeyMap struct {
	nextField  key.Binding
	prevField  key.Binding
	cycleLeft  key.Binding
	cycleRight key.Binding
	toggle     key.Binding
	submit     key.Binding
	remove     key.Binding
	rollup     key.Binding
}

func newFormKeyMap() formKeyMap {
	return formKeyMap{
		nextField:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		prevField:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
		cycleLeft:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous")),
		cycleRight: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next")),
		toggle:     key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "toggle offer")),
		submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		remove:     key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete/cancel")),
		rollup:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "roll up")),
	}
}

// ShortHelp handles short help.
func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.nextField, k.cycleRight, k.toggle, k.submit, k.remove, k.rollup}
}

// FullHelp handles full help.
func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

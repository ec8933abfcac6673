package tui

import tea "charm.land/bubbletea/v2"

// escapeScope is one registered Escape handler.
type escapeScope struct {
	id       int
	owner    string
	onEscape func() tea.Cmd
}

// escapeScopes routes the Escape key to the most recently acquired scope.
type escapeScopes struct {
	nextID int
	stack  []escapeScope
}

// acquire pushes a handler and returns its release func. Release is idempotent.
func (s *escapeScopes) acquire(owner string, onEscape func() tea.Cmd) func() {
	s.nextID++
	id := s.nextID
	s.stack = append(s.stack, escapeScope{id: id, owner: owner, onEscape: onEscape})
	released := false
	return func() {
		if released {
			return
		}
		released = true
		for i := range s.stack {
			if s.stack[i].id == id {
				s.stack = append(s.stack[:i], s.stack[i+1:]...)
				return
			}
		}
	}
}

// dispatch runs the top handler. It reports false when no scope is active.
func (s *escapeScopes) dispatch() (tea.Cmd, bool) {
	if len(s.stack) == 0 {
		return nil, false
	}
	top := s.stack[len(s.stack)-1]
	if top.onEscape == nil {
		return nil, true
	}
	return top.onEscape(), true
}

// owners lists active scope owners from bottom to top.
func (s *escapeScopes) owners() []string {
	out := make([]string, 0, len(s.stack))
	for _, scope := range s.stack {
		out = append(out, scope.owner)
	}
	return out
}

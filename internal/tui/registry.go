package tui

import "slices"

// pointRegistry owns the live item controllers and the single editing slot.
type pointRegistry struct {
	controllers map[string]*pointController
	order       []string
	editingID   string
}

func newPointRegistry() *pointRegistry {
	return &pointRegistry{controllers: map[string]*pointController{}}
}

// get returns the controller for a point id.
func (r *pointRegistry) get(id string) (*pointController, bool) {
	c, ok := r.controllers[id]
	return c, ok
}

// at returns the controller rendered at position idx.
func (r *pointRegistry) at(idx int) (*pointController, bool) {
	if idx < 0 || idx >= len(r.order) {
		return nil, false
	}
	return r.get(r.order[idx])
}

// put registers a controller. Callers keep order in sync through setOrder.
func (r *pointRegistry) put(id string, c *pointController) {
	r.controllers[id] = c
}

func (r *pointRegistry) setOrder(ids []string) {
	r.order = slices.Clone(ids)
}

// sameMembership reports whether ids is exactly the registered id set.
func (r *pointRegistry) sameMembership(ids []string) bool {
	if len(ids) != len(r.controllers) {
		return false
	}
	for _, id := range ids {
		if _, ok := r.controllers[id]; !ok {
			return false
		}
	}
	return true
}

// modeChanged keeps the editing slot current and enforces one editor.
func (r *pointRegistry) modeChanged(id string, mode pointMode) {
	if mode == pointModeEditing {
		r.resetAll(id)
		r.editingID = id
		return
	}
	if r.editingID == id {
		r.editingID = ""
	}
}

// editing returns the controller currently in edit mode.
func (r *pointRegistry) editing() (*pointController, bool) {
	if r.editingID == "" {
		return nil, false
	}
	return r.get(r.editingID)
}

// resetAll returns every controller except the given id to display mode.
func (r *pointRegistry) resetAll(except string) {
	for id, c := range r.controllers {
		if id == except {
			continue
		}
		c.ResetView()
	}
}

// destroyAll disposes every controller and empties the registry.
func (r *pointRegistry) destroyAll() {
	for _, c := range r.controllers {
		c.Destroy()
	}
	r.controllers = map[string]*pointController{}
	r.order = nil
	r.editingID = ""
}

func (r *pointRegistry) len() int {
	return len(r.order)
}

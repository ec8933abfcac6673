package tui

import (
	tea "charm.land/bubbletea/v2"
	"github.com/hylla/waypoint/internal/domain"
)

// createFlow is the open "new event" form and its save state.
type createFlow struct {
	form       *pointForm
	saving     bool
	releaseEsc func()
}

// createCancelMsg closes the create form.
type createCancelMsg struct{}

// IsCreating reports whether the create form is open.
func (m Model) IsCreating() bool {
	return m.create != nil
}

// openCreate shows a fresh create form at the head of the list.
func (m *Model) openCreate() tea.Cmd {
	if !m.createEnabled || m.blocker.Blocked() {
		return nil
	}
	m.discardCreate()
	m.stores.Filters.SetFilter(domain.FilterEverything)
	m.sort = domain.SortDay
	m.registry.resetAll("")

	group := lookupOfferGroup(m.stores.Offers.OfferGroups(), m.defaultType)
	form := newPointForm(domain.Point{Type: m.defaultType}, true, m.stores.Destinations.Destinations(), group, m.loc)
	mountDetailPanels(form, m.md)
	release := m.escapes.acquire("create", func() tea.Cmd {
		return func() tea.Msg { return createCancelMsg{} }
	})
	m.create = &createFlow{form: form, releaseEsc: release}
	m.createEnabled = false
	m.status = ""
	m.render()
	return nil
}

// discardCreate unmounts the create form without touching the create affordance.
func (m *Model) discardCreate() {
	if m.create == nil {
		return
	}
	m.create.form.dispose()
	if m.create.releaseEsc != nil {
		m.create.releaseEsc()
	}
	m.create = nil
}

// cancelCreate closes the form. It does nothing when no form is open.
func (m *Model) cancelCreate() {
	if m.create == nil {
		return
	}
	m.discardCreate()
	m.createEnabled = true
	m.render()
}

// handleCreateKey routes a key press to the create form.
func (m *Model) handleCreateKey(msg tea.KeyPressMsg) tea.Cmd {
	form := m.create.form
	ev, cmd := form.Update(msg)
	switch ev.kind {
	case formEventSubmit:
		return tea.Batch(cmd, m.saveCreate(ev.point))
	case formEventDelete:
		m.cancelCreate()
		return nil
	case formEventTypeChanged:
		if group, ok := domain.FindOfferGroup(m.stores.Offers.OfferGroups(), ev.pointType); ok {
			form.SetOffers(group)
		}
	}
	return cmd
}

// saveCreate blocks input and sends the add mutation.
func (m *Model) saveCreate(p domain.Point) tea.Cmd {
	m.create.saving = true
	m.create.form.SetSaveLabel("Saving...")
	return tea.Batch(m.blocker.Block(), executeMutation(m.stores.Points, addPointMutation{point: p}))
}

// finishCreateSave closes the form on success and shakes it on failure.
func (m *Model) finishCreateSave(err error) tea.Cmd {
	c := m.create
	if c == nil {
		return m.blocker.Unblock()
	}
	c.saving = false
	c.form.SetSaveLabel("Save")
	if err == nil {
		cmd := m.blocker.Unblock()
		m.discardCreate()
		m.createEnabled = true
		m.render()
		return cmd
	}
	m.logger.Error("create point failed", "err", err)
	c.form.errText = formErrorText(err)
	return c.form.StartShake(m.shakeInterval)
}

// rebuildCreateForm replaces the shaken form with one built from its draft, then unblocks.
func (m *Model) rebuildCreateForm(formID int64) tea.Cmd {
	c := m.create
	if c == nil || c.form.id != formID {
		return nil
	}
	draft := c.form.Draft()
	form := newPointFormFromDraft(draft, m.stores.Destinations.Destinations(), c.form.group, m.loc)
	form.errText = c.form.errText
	mountDetailPanels(form, m.md)
	c.form.dispose()
	c.form = form
	return m.blocker.Unblock()
}

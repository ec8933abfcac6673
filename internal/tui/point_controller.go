package tui

import (
	"slices"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/hylla/waypoint/internal/domain"
)

// pointMode is the presentation state of one point.
type pointMode int

const (
	pointModeDisplay pointMode = iota
	pointModeEditing
)

// controllerDeps are the collaborators shared by every point controller.
type controllerDeps struct {
	destinations DestinationStore
	offers       OfferStore
	escapes      *escapeScopes
	onModeChange func(id string, mode pointMode)
	loc          *time.Location
	md           *descriptionRenderer
}

// pointController switches one point between its card and its edit form.
type pointController struct {
	deps       controllerDeps
	point      domain.Point
	mode       pointMode
	card       *pointCard
	form       *pointForm
	releaseEsc func()
	destroyed  bool
}

func newPointController(deps controllerDeps) *pointController {
	return &pointController{deps: deps}
}

// Init shows p. Later calls swap in fresh views and dispose the old ones.
// An open form survives a refresh that did not change the point.
func (c *pointController) Init(p domain.Point) {
	changed := c.card == nil || !samePoint(c.point, p)
	c.point = p.Clone()

	old := c.card
	c.card = newPointCard(c.point, c.deps.destinations.Destinations(), c.deps.offers.OfferGroups(), c.deps.loc)
	if old != nil {
		old.dispose()
	}

	if c.mode == pointModeEditing && changed {
		oldForm := c.form
		c.form = c.buildForm()
		if oldForm != nil {
			oldForm.dispose()
		}
	}
}

func (c *pointController) buildForm() *pointForm {
	group := lookupOfferGroup(c.deps.offers.OfferGroups(), c.point.Type)
	f := newPointForm(c.point, false, c.deps.destinations.Destinations(), group, c.deps.loc)
	mountDetailPanels(f, c.deps.md)
	return f
}

// ID returns the point id.
func (c *pointController) ID() string {
	return c.point.ID
}

// Editing reports whether the form is shown.
func (c *pointController) Editing() bool {
	return c.mode == pointModeEditing
}

// EditClick opens the edit form.
func (c *pointController) EditClick() tea.Cmd {
	if c.destroyed || c.mode == pointModeEditing {
		return nil
	}
	c.mode = pointModeEditing
	c.notifyMode()
	c.form = c.buildForm()
	c.releaseEsc = c.deps.escapes.acquire("point:"+c.point.ID, func() tea.Cmd {
		c.exitEdit()
		return nil
	})
	return nil
}

// RollupClick closes the form without saving.
func (c *pointController) RollupClick() {
	c.exitEdit()
}

// ResetView returns to the card. It does nothing in display mode.
func (c *pointController) ResetView() {
	c.exitEdit()
}

func (c *pointController) exitEdit() {
	if c.mode != pointModeEditing {
		return
	}
	if c.form != nil {
		c.form.dispose()
		c.form = nil
	}
	if c.releaseEsc != nil {
		c.releaseEsc()
		c.releaseEsc = nil
	}
	c.mode = pointModeDisplay
	c.notifyMode()
}

func (c *pointController) notifyMode() {
	if c.deps.onModeChange != nil {
		c.deps.onModeChange(c.point.ID, c.mode)
	}
}

// FavoriteClick asks for the point with its favorite flag flipped.
func (c *pointController) FavoriteClick() tea.Cmd {
	if c.destroyed {
		return nil
	}
	p := c.point.Clone()
	p.IsFavorite = !p.IsFavorite
	return requestMutation(updatePointMutation{point: p})
}

// HandleFormKey routes a key press to the open form.
func (c *pointController) HandleFormKey(msg tea.KeyPressMsg) tea.Cmd {
	if c.form == nil {
		return nil
	}
	ev, cmd := c.form.Update(msg)
	switch ev.kind {
	case formEventSubmit:
		c.exitEdit()
		return tea.Batch(cmd, requestMutation(updatePointMutation{point: ev.point}))
	case formEventDelete:
		p := c.point.Clone()
		c.exitEdit()
		return requestMutation(deletePointMutation{point: p})
	case formEventRollup:
		c.exitEdit()
	case formEventTypeChanged:
		if group, ok := domain.FindOfferGroup(c.deps.offers.OfferGroups(), ev.pointType); ok {
			c.form.SetOffers(group)
		}
	}
	return cmd
}

// Destroy disposes every view and releases the Escape scope.
func (c *pointController) Destroy() {
	if c.card != nil {
		c.card.dispose()
		c.card = nil
	}
	if c.form != nil {
		c.form.dispose()
		c.form = nil
	}
	if c.releaseEsc != nil {
		c.releaseEsc()
		c.releaseEsc = nil
	}
	c.mode = pointModeDisplay
	c.destroyed = true
}

// View renders the card or the form.
func (c *pointController) View(selected, busy bool, width int) string {
	if c.mode == pointModeEditing && c.form != nil {
		return c.form.View(width)
	}
	if c.card == nil {
		return ""
	}
	return c.card.View(selected, busy, width)
}

func samePoint(a, b domain.Point) bool {
	return a.ID == b.ID &&
		a.Type == b.Type &&
		a.DestinationID == b.DestinationID &&
		a.DateFrom.Equal(b.DateFrom) &&
		a.DateTo.Equal(b.DateTo) &&
		a.BasePrice == b.BasePrice &&
		a.IsFavorite == b.IsFavorite &&
		slices.Equal(a.OfferIDs, b.OfferIDs)
}

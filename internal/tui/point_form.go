package tui

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/hylla/waypoint/internal/domain"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// formField indexes the focusable rows of a point form.
type formField int

const (
	fieldType formField = iota
	fieldDestination
	fieldDateFrom
	fieldDateTo
	fieldPrice
	fieldOffers
	formFieldCount
)

var formFieldLabels = [formFieldCount]string{"Type", "Destination", "From", "To", "Price €", "Offers"}

// formEventKind names what a key press asked the form owner to do.
type formEventKind int

const (
	formEventNone formEventKind = iota
	formEventSubmit
	formEventTypeChanged
	// formEventDelete deletes an existing point or cancels a new one.
	formEventDelete
	formEventRollup
)

type formEvent struct {
	kind      formEventKind
	point     domain.Point
	pointType domain.PointType
}

// pointFormDraft is a snapshot of everything the user typed, enough to rebuild the form.
type pointFormDraft struct {
	Point       domain.Point
	Destination string
	DateFrom    string
	DateTo      string
	Price       string
	Focus       formField
	OfferCursor int
	IsNew       bool
}

// shakeTickMsg advances the shake animation of one form.
type shakeTickMsg struct {
	formID int64
}

// shakeDoneMsg reports that a form finished shaking.
type shakeDoneMsg struct {
	formID int64
}

var shakeOffsets = []int{3, 0, 3, 0, 2, 0, 1, 0}

var formIDs atomic.Int64

// pointForm edits one point. New forms cancel on delete and have no rollup.
type pointForm struct {
	id           int64
	isNew        bool
	point        domain.Point
	destinations []domain.Destination
	group        domain.OfferGroup
	loc          *time.Location
	keys         formKeyMap

	destination textinput.Model
	dateFrom    textinput.Model
	dateTo      textinput.Model
	price       textinput.Model

	focus       formField
	offerCursor int
	saveLabel   string
	errText     string

	shakeFrame int
	details    []detailPanel
	disposed   bool
}

// newPointForm seeds a form from a point.
func newPointForm(p domain.Point, isNew bool, destinations []domain.Destination, group domain.OfferGroup, loc *time.Location) *pointForm {
	destName := ""
	if d, ok := domain.FindDestination(destinations, p.DestinationID); ok {
		destName = d.Name
	}
	return newPointFormFromDraft(pointFormDraft{
		Point:       p.Clone(),
		Destination: destName,
		DateFrom:    domain.FormatDateInput(inLocation(p.DateFrom, loc)),
		DateTo:      domain.FormatDateInput(inLocation(p.DateTo, loc)),
		Price:       strconv.Itoa(p.BasePrice),
		Focus:       fieldType,
		IsNew:       isNew,
	}, destinations, group, loc)
}

// newPointFormFromDraft rebuilds a form from a captured draft.
func newPointFormFromDraft(d pointFormDraft, destinations []domain.Destination, group domain.OfferGroup, loc *time.Location) *pointForm {
	if loc == nil {
		loc = time.Local
	}
	names := make([]string, 0, len(destinations))
	for _, dest := range destinations {
		names = append(names, dest.Name)
	}
	destination := newFormInput("Geneva", d.Destination, 64)
	destination.ShowSuggestions = true
	destination.SetSuggestions(names)

	f := &pointForm{
		id:           formIDs.Add(1),
		isNew:        d.IsNew,
		point:        d.Point.Clone(),
		destinations: destinations,
		group:        group,
		loc:          loc,
		keys:         newFormKeyMap(),
		destination:  destination,
		dateFrom:     newFormInput("dd/mm/yy hh:mm", d.DateFrom, 14),
		dateTo:       newFormInput("dd/mm/yy hh:mm", d.DateTo, 14),
		price:        newFormInput("0", d.Price, 9),
		offerCursor:  d.OfferCursor,
		saveLabel:    "Save",
		shakeFrame:   -1,
	}
	f.focusField(d.Focus)
	return f
}

// newFormInput mirrors the modal input setup used across the board.
func newFormInput(placeholder, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.CharLimit = limit
	styles := in.Styles()
	styles.Cursor.Blink = false
	in.SetStyles(styles)
	if value != "" {
		in.SetValue(value)
	}
	return in
}

// Draft captures the current input without touching the form.
func (f *pointForm) Draft() pointFormDraft {
	return pointFormDraft{
		Point:       f.point.Clone(),
		Destination: f.destination.Value(),
		DateFrom:    f.dateFrom.Value(),
		DateTo:      f.dateTo.Value(),
		Price:       f.price.Value(),
		Focus:       f.focus,
		OfferCursor: f.offerCursor,
		IsNew:       f.isNew,
	}
}

// SetOffers replaces the offers available for the current type.
func (f *pointForm) SetOffers(group domain.OfferGroup) {
	f.group = group
	f.offerCursor = clamp(f.offerCursor, 0, max(0, len(group.Offers)-1))
}

// SetSaveLabel updates the save button caption.
func (f *pointForm) SetSaveLabel(label string) {
	f.saveLabel = label
}

// Shaking reports whether the shake animation is running.
func (f *pointForm) Shaking() bool {
	return f.shakeFrame >= 0
}

// StartShake begins the failure animation.
func (f *pointForm) StartShake(interval time.Duration) tea.Cmd {
	f.shakeFrame = 0
	return f.shakeTick(interval)
}

// AdvanceShake moves one frame and reports when the animation is finished.
func (f *pointForm) AdvanceShake(interval time.Duration) tea.Cmd {
	if f.shakeFrame < 0 {
		return nil
	}
	f.shakeFrame++
	if f.shakeFrame >= len(shakeOffsets) {
		f.shakeFrame = -1
		id := f.id
		return func() tea.Msg { return shakeDoneMsg{formID: id} }
	}
	return f.shakeTick(interval)
}

func (f *pointForm) shakeTick(interval time.Duration) tea.Cmd {
	id := f.id
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return shakeTickMsg{formID: id}
	})
}

// mount attaches detail panels to the form's details region.
func (f *pointForm) mount(panels ...detailPanel) {
	f.details = append(f.details, panels...)
}

// unmountDetails detaches and disposes every detail panel.
func (f *pointForm) unmountDetails() {
	for _, p := range f.details {
		p.dispose()
	}
	f.details = nil
}

// dispose releases the form and its panels.
func (f *pointForm) dispose() {
	f.unmountDetails()
	f.disposed = true
}

// Update handles one key press and reports what the owner should do.
func (f *pointForm) Update(msg tea.KeyPressMsg) (formEvent, tea.Cmd) {
	switch {
	case key.Matches(msg, f.keys.submit):
		p, err := f.collect()
		if err != nil {
			f.errText = formErrorText(err)
			return formEvent{}, nil
		}
		f.errText = ""
		return formEvent{kind: formEventSubmit, point: p}, nil
	case key.Matches(msg, f.keys.remove):
		return formEvent{kind: formEventDelete, point: f.point.Clone()}, nil
	case key.Matches(msg, f.keys.rollup):
		if f.isNew {
			return formEvent{}, nil
		}
		return formEvent{kind: formEventRollup}, nil
	case key.Matches(msg, f.keys.nextField):
		if f.focus == fieldDestination {
			if suggestion := f.destination.CurrentSuggestion(); suggestion != "" {
				f.destination.SetValue(suggestion)
			}
		}
		return formEvent{}, f.focusField((f.focus + 1) % formFieldCount)
	case key.Matches(msg, f.keys.prevField):
		return formEvent{}, f.focusField((f.focus + formFieldCount - 1) % formFieldCount)
	}

	switch f.focus {
	case fieldType:
		delta := 0
		switch {
		case key.Matches(msg, f.keys.cycleLeft):
			delta = -1
		case key.Matches(msg, f.keys.cycleRight), key.Matches(msg, f.keys.toggle):
			delta = 1
		}
		if delta == 0 {
			return formEvent{}, nil
		}
		next := cyclePointType(f.point.Type, delta)
		f.setType(next)
		return formEvent{kind: formEventTypeChanged, pointType: next}, nil
	case fieldOffers:
		offers := f.group.Offers
		if len(offers) == 0 {
			return formEvent{}, nil
		}
		switch {
		case key.Matches(msg, f.keys.cycleLeft):
			f.offerCursor = wrapIndex(f.offerCursor, -1, len(offers))
		case key.Matches(msg, f.keys.cycleRight):
			f.offerCursor = wrapIndex(f.offerCursor, 1, len(offers))
		case key.Matches(msg, f.keys.toggle):
			f.point = f.point.ToggleOffer(offers[clamp(f.offerCursor, 0, len(offers)-1)].ID)
		}
		return formEvent{}, nil
	}

	in := f.focusedInput()
	if in == nil {
		return formEvent{}, nil
	}
	updated, cmd := in.Update(msg)
	*in = updated
	return formEvent{}, cmd
}

// setType switches the point type and clears offers picked for the old type.
func (f *pointForm) setType(t domain.PointType) {
	f.point.Type = t
	f.point.OfferIDs = nil
	f.offerCursor = 0
}

func (f *pointForm) focusedInput() *textinput.Model {
	switch f.focus {
	case fieldDestination:
		return &f.destination
	case fieldDateFrom:
		return &f.dateFrom
	case fieldDateTo:
		return &f.dateTo
	case fieldPrice:
		return &f.price
	default:
		return nil
	}
}

func (f *pointForm) focusField(field formField) tea.Cmd {
	f.focus = field
	f.destination.Blur()
	f.dateFrom.Blur()
	f.dateTo.Blur()
	f.price.Blur()
	if in := f.focusedInput(); in != nil {
		return in.Focus()
	}
	return nil
}

// collect validates the typed values and builds the edited point.
func (f *pointForm) collect() (domain.Point, error) {
	p := f.point.Clone()
	dest, ok := resolveDestination(f.destination.Value(), f.destinations)
	if !ok {
		return domain.Point{}, domain.ErrInvalidDestination
	}
	p.DestinationID = dest.ID

	from, err := domain.ParseDateInput(f.dateFrom.Value(), f.loc)
	if err != nil {
		return domain.Point{}, err
	}
	to, err := domain.ParseDateInput(f.dateTo.Value(), f.loc)
	if err != nil {
		return domain.Point{}, err
	}
	if to.Before(from) {
		return domain.Point{}, domain.ErrInvalidDateRange
	}
	p.DateFrom, p.DateTo = from, to

	price, err := strconv.Atoi(strings.TrimSpace(f.price.Value()))
	if err != nil || price < 0 {
		return domain.Point{}, domain.ErrInvalidPrice
	}
	p.BasePrice = price
	return p, nil
}

// resolveDestination matches typed text against destination names, exact first, then fuzzy.
func resolveDestination(query string, destinations []domain.Destination) (domain.Destination, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Destination{}, false
	}
	names := make([]string, 0, len(destinations))
	for _, d := range destinations {
		if strings.EqualFold(d.Name, query) {
			return d, true
		}
		names = append(names, d.Name)
	}
	ranks := fuzzy.RankFindNormalizedFold(query, names)
	if len(ranks) == 0 {
		return domain.Destination{}, false
	}
	sort.Sort(ranks)
	return destinations[ranks[0].OriginalIndex], true
}

func formErrorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidDestination):
		return "Pick a destination from the list"
	case errors.Is(err, domain.ErrInvalidDateRange):
		return "Dates use dd/mm/yy hh:mm and the end cannot precede the start"
	case errors.Is(err, domain.ErrInvalidPrice):
		return "Price must be a whole number of zero or more"
	default:
		return err.Error()
	}
}

func cyclePointType(current domain.PointType, delta int) domain.PointType {
	types := domain.PointTypes()
	idx := 0
	for i, t := range types {
		if t == current {
			idx = i
			break
		}
	}
	return types[wrapIndex(idx, delta, len(types))]
}

// View renders the form box with its mounted details.
func (f *pointForm) View(width int) string {
	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	labelStyle := lipgloss.NewStyle().Foreground(muted).Width(13)
	activeLabel := lipgloss.NewStyle().Foreground(accent).Bold(true).Width(13)
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	buttonStyle := lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("237"))
	primaryButton := buttonStyle.Background(accent).Foreground(lipgloss.Color("230"))

	innerWidth := max(24, width-4)
	rows := make([]string, 0, formFieldCount+6)
	title := "Edit event"
	if f.isNew {
		title = "New event"
	}
	rows = append(rows, lipgloss.NewStyle().Bold(true).Render(title), "")

	for field := fieldType; field < formFieldCount; field++ {
		label := labelStyle.Render(formFieldLabels[field])
		if field == f.focus {
			label = activeLabel.Render(formFieldLabels[field])
		}
		rows = append(rows, label+f.fieldValue(field, innerWidth-13))
	}

	removeLabel := "Delete"
	if f.isNew {
		removeLabel = "Cancel"
	}
	buttons := []string{primaryButton.Render(f.saveLabel), buttonStyle.Render(removeLabel)}
	if !f.isNew {
		buttons = append(buttons, buttonStyle.Render("▲"))
	}
	rows = append(rows, "", strings.Join(buttons, " "))

	if f.errText != "" {
		rows = append(rows, errStyle.Render(f.errText))
	}
	for _, panel := range f.details {
		if out := panel.render(f, innerWidth); out != "" {
			rows = append(rows, "", out)
		}
	}

	offset := 0
	if f.shakeFrame >= 0 && f.shakeFrame < len(shakeOffsets) {
		offset = shakeOffsets[f.shakeFrame]
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		MarginLeft(offset).
		Width(max(28, width-offset)).
		Render(strings.Join(rows, "\n"))
}

func (f *pointForm) fieldValue(field formField, width int) string {
	switch field {
	case fieldType:
		return fmt.Sprintf("‹ %s ›", f.point.Type.Label())
	case fieldOffers:
		return fmt.Sprintf("%d of %d selected", len(domain.SelectedOffers(f.point, []domain.OfferGroup{f.group})), len(f.group.Offers))
	}
	in := f.focusedInputFor(field)
	in.SetWidth(max(10, width))
	return in.View()
}

func (f *pointForm) focusedInputFor(field formField) textinput.Model {
	switch field {
	case fieldDestination:
		return f.destination
	case fieldDateFrom:
		return f.dateFrom
	case fieldDateTo:
		return f.dateTo
	default:
		return f.price
	}
}

func inLocation(t time.Time, loc *time.Location) time.Time {
	if t.IsZero() || loc == nil {
		return t
	}
	return t.In(loc)
}

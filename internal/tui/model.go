package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/hylla/waypoint/internal/domain"
	"github.com/hylla/waypoint/internal/uiblock"
	"golang.org/x/sync/errgroup"
)

const (
	loadFailedText  = "Failed to load latest route information"
	stillSavingText = "Point is still saving"
)

// initializedMsg reports the outcome of the concurrent store initialization.
type initializedMsg struct {
	err error
}

// storeChangedMsg signals that a subscribed store notified.
type storeChangedMsg struct{}

// yankedMsg reports a finished clipboard write.
type yankedMsg struct {
	err error
}

// storeSignal coalesces store notifications. Store callbacks may run on any
// goroutine; the Update loop drains the signal after every message.
type storeSignal struct {
	ch chan struct{}
}

func newStoreSignal() *storeSignal {
	return &storeSignal{ch: make(chan struct{}, 1)}
}

func (s *storeSignal) notify() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

func (s *storeSignal) take() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}

// Model is the trip board: route header, filter bar, sort bar and the point list.
type Model struct {
	stores        Stores
	logger        *log.Logger
	now           func() time.Time
	loc           *time.Location
	defaultType   domain.PointType
	titleMax      int
	shakeInterval time.Duration
	blockLower    time.Duration
	blockUpper    time.Duration
	clipboard     func(string) error

	width    int
	height   int
	help     help.Model
	keys     keyMap
	formKeys formKeyMap
	status   string

	loading       bool
	loadFailed    bool
	createEnabled bool
	sort          domain.SortType
	emptyMessage  string
	summary       domain.TripSummary
	counts        map[domain.FilterType]int
	visible       []domain.Point
	selected      int

	registry *pointRegistry
	escapes  *escapeScopes
	create   *createFlow
	blocker  uiblock.Blocker
	selector filterSelector
	signal   *storeSignal
	inFlight map[string]bool
	pending  map[string]pendingChange
	md       *descriptionRenderer
}

// NewModel constructs the board. Stores are subscribed immediately.
func NewModel(stores Stores, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		stores:        stores,
		logger:        log.New(io.Discard),
		now:           time.Now,
		loc:           time.Local,
		defaultType:   domain.PointTypeFlight,
		titleMax:      domain.DefaultTitleMaxDestinations,
		shakeInterval: 60 * time.Millisecond,
		blockLower:    350 * time.Millisecond,
		blockUpper:    time.Second,
		clipboard:     clipboard.WriteAll,
		help:          h,
		keys:          newKeyMap(),
		formKeys:      newFormKeyMap(),
		loading:       true,
		sort:          domain.SortDay,
		counts:        map[domain.FilterType]int{},
		registry:      newPointRegistry(),
		escapes:       &escapeScopes{},
		selector:      filterSelector{points: stores.Points, filters: stores.Filters},
		signal:        newStoreSignal(),
		inFlight:      map[string]bool{},
		pending:       map[string]pendingChange{},
		md:            newDescriptionRenderer(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	m.blocker = uiblock.New(m.blockLower, m.blockUpper, m.now)
	stores.Points.Subscribe(m.signal.notify)
	stores.Filters.Subscribe(m.signal.notify)
	return m
}

// Init loads points, destinations and offers concurrently.
func (m Model) Init() tea.Cmd {
	selector := m.selector
	destinations := m.stores.Destinations
	offers := m.stores.Offers
	return func() tea.Msg {
		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error { return selector.Init(ctx) })
		g.Go(func() error { return destinations.Init(ctx) })
		g.Go(func() error { return offers.Init(ctx) })
		return initializedMsg{err: g.Wait()}
	}
}

// Update handles one message, then applies any store change it caused.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	if m.signal.take() {
		var changed tea.Cmd
		m, changed = m.update(storeChangedMsg{})
		cmd = tea.Batch(cmd, changed)
	}
	return m, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case initializedMsg:
		m.loading = false
		if msg.err != nil {
			m.loadFailed = true
			m.logger.Error("load route information", "err", msg.err)
			return m, nil
		}
		m.createEnabled = true
		m.render()
		return m, nil

	case storeChangedMsg:
		if m.loading || m.loadFailed {
			return m, nil
		}
		m.sort = domain.SortDay
		m.emptyMessage = ""
		m.render()
		return m, nil

	case createCancelMsg:
		m.cancelCreate()
		return m, nil

	case shakeTickMsg:
		if m.create == nil || m.create.form.id != msg.formID {
			return m, nil
		}
		return m, m.create.form.AdvanceShake(m.shakeInterval)

	case shakeDoneMsg:
		return m, m.rebuildCreateForm(msg.formID)

	case uiblock.RevealMsg, uiblock.ReleaseMsg:
		m.blocker.Update(msg)
		return m, nil

	case mutationRequestMsg:
		return m, m.dispatchMutation(msg.mutation)

	case mutationResultMsg:
		return m, m.handleMutationResult(msg)

	case yankedMsg:
		if msg.err != nil {
			m.status = "Copy failed"
			m.logger.Warn("clipboard write failed", "err", msg.err)
		} else {
			m.status = "Copied point"
		}
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (Model, tea.Cmd) {
	if m.loading || m.loadFailed {
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		return m, nil
	}
	if m.blocker.Blocked() {
		return m, nil
	}
	if key.Matches(msg, m.keys.escape) {
		cmd, _ := m.escapes.dispatch()
		return m, cmd
	}
	if m.create != nil {
		if msg.String() == "ctrl+c" {
			m.status = "Finish or cancel the new event first"
			return m, nil
		}
		return m, m.handleCreateKey(msg)
	}
	if c, ok := m.registry.editing(); ok {
		// The form stays open until the earlier save for this point lands.
		if m.inFlight[c.ID()] && (key.Matches(msg, m.formKeys.submit) || key.Matches(msg, m.formKeys.remove)) {
			m.status = stillSavingText
			return m, nil
		}
		return m, c.HandleFormKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		if m.IsCreating() {
			return m, nil
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.moveUp):
		m.selected = clamp(m.selected-1, 0, max(0, m.registry.len()-1))
		return m, nil
	case key.Matches(msg, m.keys.moveDown):
		m.selected = clamp(m.selected+1, 0, max(0, m.registry.len()-1))
		return m, nil
	case key.Matches(msg, m.keys.editPoint):
		if c, ok := m.registry.at(m.selected); ok {
			return m, c.EditClick()
		}
		return m, nil
	case key.Matches(msg, m.keys.favorite):
		if c, ok := m.registry.at(m.selected); ok {
			return m, c.FavoriteClick()
		}
		return m, nil
	case key.Matches(msg, m.keys.newPoint):
		return m, m.openCreate()
	case key.Matches(msg, m.keys.nextSort):
		m.setSort(m.stepSort(1))
		return m, nil
	case key.Matches(msg, m.keys.prevSort):
		m.setSort(m.stepSort(-1))
		return m, nil
	case key.Matches(msg, m.keys.nextFilter):
		m.selector.Step(1, m.counts)
		return m, nil
	case key.Matches(msg, m.keys.prevFilter):
		m.selector.Step(-1, m.counts)
		return m, nil
	case key.Matches(msg, m.keys.yank):
		return m, m.yankSelected()
	}
	return m, nil
}

// setSort re-renders with a new sort. The same sort is a no-op.
func (m *Model) setSort(s domain.SortType) {
	if s == m.sort {
		return
	}
	m.sort = s
	m.render()
}

func (m Model) stepSort(delta int) domain.SortType {
	sorts := domain.EnabledSorts()
	idx := 0
	for i, s := range sorts {
		if s == m.sort {
			idx = i
			break
		}
	}
	return sorts[wrapIndex(idx, delta, len(sorts))]
}

func (m Model) yankSelected() tea.Cmd {
	c, ok := m.registry.at(m.selected)
	if !ok {
		return nil
	}
	text := plainPointLine(c.point, m.stores.Destinations.Destinations(), m.loc)
	write := m.clipboard
	return func() tea.Msg {
		return yankedMsg{err: write(text)}
	}
}

// dispatchMutation applies the optimistic overlay and runs the store call.
// A point with a mutation in flight refuses another one.
func (m *Model) dispatchMutation(mut mutation) tea.Cmd {
	p := mut.target()
	switch mut.(type) {
	case updatePointMutation:
		if m.inFlight[p.ID] {
			m.status = stillSavingText
			return nil
		}
		m.pending[p.ID] = pendingChange{point: p}
	case deletePointMutation:
		if m.inFlight[p.ID] {
			m.status = stillSavingText
			return nil
		}
		m.pending[p.ID] = pendingChange{point: p, deleted: true}
	}
	m.inFlight[p.ID] = true
	m.render()
	return executeMutation(m.stores.Points, mut)
}

func (m *Model) handleMutationResult(msg mutationResultMsg) tea.Cmd {
	if _, ok := msg.mutation.(addPointMutation); ok {
		return m.finishCreateSave(msg.err)
	}
	id := msg.mutation.target().ID
	delete(m.inFlight, id)
	delete(m.pending, id)
	if msg.err != nil {
		m.status = fmt.Sprintf("Failed to %s point", msg.mutation.verb())
		m.logger.Error("point mutation failed", "op", msg.mutation.verb(), "id", id, "err", msg.err)
	} else {
		m.status = ""
	}
	m.render()
	return nil
}

func (m Model) controllerDeps() controllerDeps {
	registry := m.registry
	return controllerDeps{
		destinations: m.stores.Destinations,
		offers:       m.stores.Offers,
		escapes:      m.escapes,
		onModeChange: registry.modeChanged,
		loc:          m.loc,
		md:           m.md,
	}
}

// render recomputes the visible points and syncs the controllers with them.
func (m *Model) render() {
	if m.loading || m.loadFailed {
		return
	}
	now := m.now()
	points := applyPending(m.stores.Points.Points(), m.pending)
	filter := m.stores.Filters.Filter()
	filtered := domain.FilterPoints(points, filter, now)

	m.counts = domain.CountByFilter(points, now)
	m.summary = domain.Summarize(filtered, m.stores.Destinations.Destinations(), m.stores.Offers.OfferGroups(), m.titleMax)
	m.visible = domain.SortPoints(filtered, m.sort)

	if len(m.visible) == 0 {
		m.registry.destroyAll()
		m.selected = 0
		m.emptyMessage = ""
		if m.create == nil {
			m.emptyMessage = filter.EmptyMessage()
		}
		return
	}
	m.emptyMessage = ""

	ids := make([]string, 0, len(m.visible))
	for _, p := range m.visible {
		ids = append(ids, p.ID)
	}
	if m.registry.sameMembership(ids) {
		for _, p := range m.visible {
			if c, ok := m.registry.get(p.ID); ok {
				c.Init(p)
			}
		}
	} else {
		m.registry.destroyAll()
		deps := m.controllerDeps()
		for _, p := range m.visible {
			c := newPointController(deps)
			c.Init(p)
			m.registry.put(p.ID, c)
		}
	}
	m.registry.setOrder(ids)
	m.selected = clamp(m.selected, 0, len(ids)-1)
}

// View renders the board.
func (m Model) View() tea.View {
	v := tea.NewView(m.viewContent())
	v.AltScreen = true
	return v
}

func (m Model) viewContent() string {
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	alert := lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)

	if m.loadFailed {
		return alert.Render(loadFailedText) + "\n\n" + muted.Render("press q to quit")
	}
	if m.loading {
		return "Loading..."
	}

	width := m.width
	if width <= 0 {
		width = 96
	}

	sections := []string{m.headerView(title, muted)}
	sections = append(sections, m.selector.View(m.counts), sortBarView(m.sort), "")

	if m.create != nil {
		sections = append(sections, m.create.form.View(width))
	}
	if m.emptyMessage != "" {
		sections = append(sections, muted.Render(m.emptyMessage))
	}
	for i, id := range m.registry.order {
		c, ok := m.registry.get(id)
		if !ok {
			continue
		}
		sections = append(sections, c.View(i == m.selected && m.create == nil, m.inFlight[id], width))
	}

	status := m.status
	if m.blocker.Visible() {
		status = "Saving..."
	}
	footer := []string{}
	if strings.TrimSpace(status) != "" {
		footer = append(footer, dim.Render(status))
	}
	if m.create != nil || m.editingAny() {
		footer = append(footer, m.help.View(m.formKeys))
	} else {
		footer = append(footer, m.help.View(m.keys))
	}

	body := strings.Join(sections, "\n")
	if m.height > 0 {
		body = fitLines(body, max(1, m.height-len(footer)-1))
	}
	return body + "\n\n" + strings.Join(footer, "\n")
}

// headerView shows the route summary. An empty list keeps blank title and dates.
func (m Model) headerView(title, muted lipgloss.Style) string {
	cost := fmt.Sprintf("Total: €%d", m.summary.Cost)
	if len(m.visible) == 0 {
		return cost
	}
	return title.Render(m.summary.Title) + "\n" + muted.Render(m.summary.Dates) + "  " + cost
}

func (m Model) editingAny() bool {
	_, ok := m.registry.editing()
	return ok
}

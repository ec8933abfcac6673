package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/hylla/waypoint/internal/domain"
)

var errStoreDown = errors.New("store down")

// fakePointStore is an in-memory PointStore with switchable failures.
type fakePointStore struct {
	mu        sync.Mutex
	points    []domain.Point
	initErr   error
	addErr    error
	updateErr error
	deleteErr error
	nextID    int
	subs      []func()
	added     []domain.Point
}

func (s *fakePointStore) Init(context.Context) error {
	return s.initErr
}

func (s *fakePointStore) Points() []domain.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Point, 0, len(s.points))
	for _, p := range s.points {
		out = append(out, p.Clone())
	}
	return out
}

func (s *fakePointStore) AddPoint(_ context.Context, p domain.Point) (domain.Point, error) {
	s.mu.Lock()
	if s.addErr != nil {
		s.mu.Unlock()
		return domain.Point{}, s.addErr
	}
	s.nextID++
	p.ID = fmt.Sprintf("new-%d", s.nextID)
	s.points = append(s.points, p.Clone())
	s.added = append(s.added, p.Clone())
	s.mu.Unlock()
	s.notify()
	return p, nil
}

func (s *fakePointStore) UpdatePoint(_ context.Context, p domain.Point) (domain.Point, error) {
	s.mu.Lock()
	if s.updateErr != nil {
		s.mu.Unlock()
		return domain.Point{}, s.updateErr
	}
	idx := slices.IndexFunc(s.points, func(c domain.Point) bool { return c.ID == p.ID })
	if idx < 0 {
		s.mu.Unlock()
		return domain.Point{}, errors.New("not found")
	}
	s.points[idx] = p.Clone()
	s.mu.Unlock()
	s.notify()
	return p, nil
}

func (s *fakePointStore) DeletePoint(_ context.Context, id string) error {
	s.mu.Lock()
	if s.deleteErr != nil {
		s.mu.Unlock()
		return s.deleteErr
	}
	s.points = slices.DeleteFunc(s.points, func(p domain.Point) bool { return p.ID == id })
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *fakePointStore) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
	return func() {}
}

func (s *fakePointStore) notify() {
	s.mu.Lock()
	subs := slices.Clone(s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

func (s *fakePointStore) addedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.added)
}

type fakeDestinationStore struct {
	destinations []domain.Destination
	initErr      error
}

func (s *fakeDestinationStore) Init(context.Context) error {
	return s.initErr
}

func (s *fakeDestinationStore) Destinations() []domain.Destination {
	return slices.Clone(s.destinations)
}

type fakeOfferStore struct {
	groups  []domain.OfferGroup
	initErr error
}

func (s *fakeOfferStore) Init(context.Context) error {
	return s.initErr
}

func (s *fakeOfferStore) OfferGroups() []domain.OfferGroup {
	return slices.Clone(s.groups)
}

type fakeFilterStore struct {
	filter domain.FilterType
	subs   []func()
}

func (s *fakeFilterStore) Filter() domain.FilterType {
	return s.filter
}

func (s *fakeFilterStore) SetFilter(f domain.FilterType) {
	if f == s.filter {
		return
	}
	s.filter = f
	for _, fn := range s.subs {
		fn()
	}
}

func (s *fakeFilterStore) Subscribe(fn func()) func() {
	s.subs = append(s.subs, fn)
	return func() {}
}

// testStores bundles the fakes so tests can reach them after building a Model.
type testStores struct {
	points       *fakePointStore
	destinations *fakeDestinationStore
	offers       *fakeOfferStore
	filters      *fakeFilterStore
}

func (s testStores) stores() Stores {
	return Stores{Points: s.points, Destinations: s.destinations, Offers: s.offers, Filters: s.filters}
}

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestStores(points ...domain.Point) testStores {
	return testStores{
		points: &fakePointStore{points: points},
		destinations: &fakeDestinationStore{destinations: []domain.Destination{
			{ID: "ams", Name: "Amsterdam", Description: "Canals and bikes."},
			{ID: "gva", Name: "Geneva", Description: "Lake city.", Pictures: []domain.Picture{{Src: "https://example.com/gva.jpg", Description: "Jet d'Eau"}}},
			{ID: "rom", Name: "Rome"},
		}},
		offers: &fakeOfferStore{groups: []domain.OfferGroup{
			{Type: domain.PointTypeFlight, Offers: []domain.Offer{
				{ID: "flight-luggage", Title: "Add luggage", Price: 30},
				{ID: "flight-comfort", Title: "Switch to comfort", Price: 100},
			}},
			{Type: domain.PointTypeTaxi, Offers: []domain.Offer{
				{ID: "taxi-business", Title: "Upgrade to business", Price: 120},
			}},
		}},
		filters: &fakeFilterStore{filter: domain.FilterEverything},
	}
}

func testPoint(id string, pointType domain.PointType, from, to time.Time, price int) domain.Point {
	return domain.Point{
		ID:            id,
		Type:          pointType,
		DestinationID: "ams",
		DateFrom:      from,
		DateTo:        to,
		BasePrice:     price,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

// newTestModel builds a board with instant timers and a fixed clock.
func newTestModel(s testStores, opts ...Option) Model {
	base := []Option{
		WithClock(func() time.Time { return testNow }),
		WithLocation(time.UTC),
		WithBlockLimits(0, 0),
		WithShakeInterval(time.Millisecond),
		WithClipboard(func(string) error { return nil }),
	}
	return NewModel(s.stores(), append(base, opts...)...)
}

// loadReadyModel runs Init and applies the result.
func loadReadyModel(t *testing.T, m Model) Model {
	t.Helper()
	m = applyMsg(t, m, tea.WindowSizeMsg{Width: 120, Height: 60})
	return applyCmd(t, m, m.Init())
}

// applyMsg sends msg and runs every resulting command to completion.
func applyMsg(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	out, cmd := m.Update(msg)
	next, ok := out.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", out)
	}
	return applyCmd(t, next, cmd)
}

// applyCmd runs cmd and feeds its messages back, expanding batches.
func applyCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case nil:
		return m
	case tea.BatchMsg:
		for _, c := range msg {
			m = applyCmd(t, m, c)
		}
		return m
	case tea.QuitMsg:
		return m
	default:
		return applyMsg(t, m, msg)
	}
}

func keyRune(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func keyCode(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func keyCtrl(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m = applyMsg(t, m, keyRune(r))
	}
	return m
}

// clearField deletes every character before the cursor of the focused input.
func clearField(t *testing.T, m Model, n int) Model {
	t.Helper()
	for range n {
		m = applyMsg(t, m, keyCode(tea.KeyBackspace))
	}
	return m
}

func renderedIDs(m Model) []string {
	return slices.Clone(m.registry.order)
}

// collectMsgs runs cmd once and flattens batches without feeding anything back.
func collectMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		out := []tea.Msg{}
		for _, c := range msg {
			out = append(out, collectMsgs(c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

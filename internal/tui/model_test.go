package tui

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/hylla/waypoint/internal/domain"
)

func TestModelShowsLoadingUntilInitialized(t *testing.T) {
	m := newTestModel(newTestStores())
	if got := m.viewContent(); got != "Loading..." {
		t.Fatalf("expected loading view, got %q", got)
	}
	m = applyMsg(t, m, keyRune('n'))
	if m.IsCreating() {
		t.Fatal("expected create disabled while loading")
	}
	m = loadReadyModel(t, m)
	if m.loading || !m.createEnabled {
		t.Fatalf("expected ready board, loading=%t create=%t", m.loading, m.createEnabled)
	}
}

func TestModelInitFailureSuppressesRendering(t *testing.T) {
	cases := map[string]func(*testStores){
		"points":       func(s *testStores) { s.points.initErr = errStoreDown },
		"destinations": func(s *testStores) { s.destinations.initErr = errStoreDown },
		"offers":       func(s *testStores) { s.offers.initErr = errStoreDown },
	}
	for name, breakStore := range cases {
		t.Run(name, func(t *testing.T) {
			s := newTestStores(testPoint("a", domain.PointTypeTaxi, day(2024, 1, 1), day(2024, 1, 1), 50))
			breakStore(&s)
			m := loadReadyModel(t, newTestModel(s))
			if !m.loadFailed {
				t.Fatal("expected failed state")
			}
			if !strings.Contains(m.viewContent(), loadFailedText) {
				t.Fatalf("expected failure text, got %q", m.viewContent())
			}
			if m.registry.len() != 0 {
				t.Fatalf("expected no controllers, got %d", m.registry.len())
			}
			s.filters.SetFilter(domain.FilterPast)
			m = applyMsg(t, m, keyRune('n'))
			if m.IsCreating() || m.registry.len() != 0 {
				t.Fatal("expected board to stay inert after failure")
			}
		})
	}
}

func TestModelRendersDaySortedWithHeader(t *testing.T) {
	s := newTestStores(
		testPoint("flight", domain.PointTypeFlight, day(2024, 1, 2), day(2024, 1, 3), 100),
		testPoint("taxi", domain.PointTypeTaxi, day(2024, 1, 1), day(2024, 1, 1), 50),
	)
	m := loadReadyModel(t, newTestModel(s))

	if got := renderedIDs(m); !slices.Equal(got, []string{"taxi", "flight"}) {
		t.Fatalf("unexpected order %v", got)
	}
	if m.summary.Cost != 150 {
		t.Fatalf("expected cost 150, got %d", m.summary.Cost)
	}
	if m.emptyMessage != "" {
		t.Fatalf("expected no empty message, got %q", m.emptyMessage)
	}
}

func TestModelPastFilterShowsOnlyFinishedPoints(t *testing.T) {
	s := newTestStores(
		testPoint("done", domain.PointTypeTaxi, day(2024, 4, 30), day(2024, 5, 1), 10),
		testPoint("later", domain.PointTypeFlight, day(2024, 7, 1), day(2024, 7, 2), 20),
	)
	s.filters.filter = domain.FilterPast
	m := loadReadyModel(t, newTestModel(s))

	if got := renderedIDs(m); !slices.Equal(got, []string{"done"}) {
		t.Fatalf("expected only past point, got %v", got)
	}
	if m.emptyMessage != "" {
		t.Fatalf("expected no empty message, got %q", m.emptyMessage)
	}
}

func TestModelEmptyMessagePerFilter(t *testing.T) {
	cases := []struct {
		filter domain.FilterType
		want   string
	}{
		{domain.FilterEverything, "Click New Event to create your first point"},
		{domain.FilterPast, "There are no past events now"},
		{domain.FilterPresent, "There are no present events now"},
		{domain.FilterFuture, "There are no future events now"},
	}
	for _, tc := range cases {
		t.Run(string(tc.filter), func(t *testing.T) {
			s := newTestStores()
			s.filters.filter = tc.filter
			m := loadReadyModel(t, newTestModel(s))
			if m.emptyMessage != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, m.emptyMessage)
			}
			if m.registry.len() != 0 || len(m.registry.controllers) != 0 {
				t.Fatal("expected no controllers for an empty list")
			}
			if !strings.Contains(m.viewContent(), tc.want) {
				t.Fatal("expected empty message in view")
			}
		})
	}
}

func TestModelSortKeysCycleEnabledSorts(t *testing.T) {
	s := newTestStores(
		testPoint("cheap-long", domain.PointTypeTaxi, day(2024, 1, 1), day(2024, 1, 4), 10),
		testPoint("pricey-short", domain.PointTypeFlight, day(2024, 1, 2), day(2024, 1, 2).Add(time.Hour), 500),
	)
	m := loadReadyModel(t, newTestModel(s))

	m = applyMsg(t, m, keyRune('s'))
	if m.sort != domain.SortTime {
		t.Fatalf("expected time sort, got %q", m.sort)
	}
	if got := renderedIDs(m); !slices.Equal(got, []string{"cheap-long", "pricey-short"}) {
		t.Fatalf("unexpected time order %v", got)
	}
	m = applyMsg(t, m, keyRune('s'))
	if m.sort != domain.SortPrice {
		t.Fatalf("expected price sort, got %q", m.sort)
	}
	if got := renderedIDs(m); !slices.Equal(got, []string{"pricey-short", "cheap-long"}) {
		t.Fatalf("unexpected price order %v", got)
	}
	m = applyMsg(t, m, keyRune('S'))
	if m.sort != domain.SortTime {
		t.Fatalf("expected previous sort, got %q", m.sort)
	}
}

func TestModelFilterChangeResetsSortAndEmptyMessage(t *testing.T) {
	s := newTestStores(
		testPoint("past", domain.PointTypeTaxi, day(2024, 1, 1), day(2024, 1, 2), 10),
		testPoint("future", domain.PointTypeFlight, day(2024, 8, 1), day(2024, 8, 2), 20),
	)
	m := loadReadyModel(t, newTestModel(s))
	m = applyMsg(t, m, keyRune('s'))
	if m.sort != domain.SortTime {
		t.Fatalf("expected time sort, got %q", m.sort)
	}

	m = applyMsg(t, m, keyCode(tea.KeyTab))
	if s.filters.filter != domain.FilterFuture {
		t.Fatalf("expected future filter, got %q", s.filters.filter)
	}
	if m.sort != domain.SortDay {
		t.Fatalf("expected sort reset to day, got %q", m.sort)
	}
	if got := renderedIDs(m); !slices.Equal(got, []string{"future"}) {
		t.Fatalf("unexpected filtered ids %v", got)
	}

	// Present has no points and is skipped.
	m = applyMsg(t, m, keyCode(tea.KeyTab))
	if s.filters.filter != domain.FilterPast {
		t.Fatalf("expected present skipped, got %q", s.filters.filter)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	if s.filters.filter != domain.FilterFuture {
		t.Fatalf("expected previous filter, got %q", s.filters.filter)
	}
}

func TestModelStoreChangeClearsStaleEmptyMessage(t *testing.T) {
	s := newTestStores()
	s.filters.filter = domain.FilterFuture
	m := loadReadyModel(t, newTestModel(s))
	if m.emptyMessage == "" {
		t.Fatal("expected empty message")
	}
	s.points.points = []domain.Point{testPoint("f", domain.PointTypeFlight, day(2024, 9, 1), day(2024, 9, 2), 1)}
	s.points.notify()
	m = applyMsg(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	if m.emptyMessage != "" {
		t.Fatalf("expected empty message cleared, got %q", m.emptyMessage)
	}
	if got := renderedIDs(m); !slices.Equal(got, []string{"f"}) {
		t.Fatalf("unexpected ids %v", got)
	}
}

func TestModelFavoriteToggleUpdatesStore(t *testing.T) {
	s := newTestStores(testPoint("a", domain.PointTypeTaxi, day(2024, 1, 1), day(2024, 1, 1), 50))
	m := loadReadyModel(t, newTestModel(s))

	m = applyMsg(t, m, keyRune('f'))
	if !s.points.points[0].IsFavorite {
		t.Fatal("expected favorite persisted")
	}
	if len(m.inFlight) != 0 || len(m.pending) != 0 {
		t.Fatal("expected in-flight state cleared")
	}
	c, _ := m.registry.get("a")
	if !c.point.IsFavorite {
		t.Fatal("expected controller re-initialized with favorite")
	}
}

func TestModelFailedMutationRollsBack(t *testing.T) {
	s := newTestStores(testPoint("a", domain.PointTypeTaxi, day(2024, 1, 1), day(2024, 1, 1), 50))
	s.points.updateErr = errStoreDown
	m := loadReadyModel(t, newTestModel(s))

	out, cmd := m.Update(keyRune('f'))
	m = out.(Model)
	m = applyCmd(t, m, cmd)
	if c, _ := m.registry.get("a"); c.point.IsFavorite {
		t.Fatal("expected favorite rolled back")
	}
	if m.status != "Failed to update point" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestModelOptimisticOverlayAndInFlightGuard(t *testing.T) {
	p := testPoint("a", domain.PointTypeTaxi, day(2024, 1, 1), day(2024, 1, 1), 50)
	s := newTestStores(p)
	m := loadReadyModel(t, newTestModel(s))

	favorite := p.Clone()
	favorite.IsFavorite = true
	out, execCmd := m.Update(mutationRequestMsg{mutation: updatePointMutation{point: favorite}})
	m = out.(Model)
	if c, _ := m.registry.get("a"); !c.point.IsFavorite {
		t.Fatal("expected optimistic favorite before the store answers")
	}
	if !m.inFlight["a"] {
		t.Fatal("expected point marked in flight")
	}

	out, second := m.Update(mutationRequestMsg{mutation: deletePointMutation{point: p}})
	m = out.(Model)
	if second != nil {
		t.Fatal("expected second mutation refused while in flight")
	}
	if m.status != "Point is still saving" {
		t.Fatalf("unexpected status %q", m.status)
	}

	m = applyCmd(t, m, execCmd)
	if m.inFlight["a"] {
		t.Fatal("expected in-flight cleared")
	}
	if !s.points.points[0].IsFavorite {
		t.Fatal("expected store updated")
	}
}

func TestModelEditKeepsFormWhileEarlierSaveInFlight(t *testing.T) {
	s := newTestStores(testPoint("a", domain.PointTypeTaxi, day(2024, 1, 1), day(2024, 1, 1), 50))
	m := loadReadyModel(t, newTestModel(s))

	out, request := m.Update(keyRune('f'))
	m = out.(Model)
	out, execCmd := m.Update(request())
	m = out.(Model)
	if !m.inFlight["a"] {
		t.Fatal("expected favorite in flight")
	}

	m = applyMsg(t, m, keyRune('e'))
	for range int(fieldPrice) {
		m = applyMsg(t, m, keyCode(tea.KeyTab))
	}
	m = clearField(t, m, 4)
	m = typeText(t, m, "75")
	m = applyMsg(t, m, keyCode(tea.KeyEnter))
	if c, ok := m.registry.editing(); !ok || c.ID() != "a" {
		t.Fatal("expected form to stay open while the favorite saves")
	}
	if m.status != stillSavingText {
		t.Fatalf("unexpected status %q", m.status)
	}
	m = applyMsg(t, m, keyCtrl('d'))
	if _, ok := m.registry.editing(); !ok || len(s.points.points) != 1 {
		t.Fatal("expected delete refused while the favorite saves")
	}

	m = applyCmd(t, m, execCmd)
	if _, ok := m.registry.editing(); !ok {
		t.Fatal("expected form kept after the favorite lands")
	}
	m = applyMsg(t, m, keyCode(tea.KeyEnter))
	got := s.points.points[0]
	if got.BasePrice != 75 || !got.IsFavorite {
		t.Fatalf("expected edit saved on top of favorite, got price %d favorite %t", got.BasePrice, got.IsFavorite)
	}
	if _, ok := m.registry.editing(); ok {
		t.Fatal("expected display mode after submit")
	}
}

func TestModelHeaderAlwaysShowsCost(t *testing.T) {
	m := loadReadyModel(t, newTestModel(newTestStores()))
	header := m.headerView(lipgloss.NewStyle(), lipgloss.NewStyle())
	if header != "Total: €0" {
		t.Fatalf("expected blank route with zero cost, got %q", header)
	}

	lost := testPoint("a", domain.PointTypeTaxi, day(2024, 1, 1), day(2024, 1, 1), 40)
	lost.DestinationID = "missing"
	m = loadReadyModel(t, newTestModel(newTestStores(lost)))
	if !strings.Contains(m.viewContent(), "Total: €40") {
		t.Fatal("expected cost shown when destinations are unknown")
	}
}

func TestModelDeleteFailureRestoresPoint(t *testing.T) {
	s := newTestStores(testPoint("a", domain.PointTypeTaxi, day(2024, 1, 1), day(2024, 1, 1), 50))
	s.points.deleteErr = errStoreDown
	m := loadReadyModel(t, newTestModel(s))

	out, cmd := m.Update(mutationRequestMsg{mutation: deletePointMutation{point: s.points.points[0]}})
	m = out.(Model)
	if m.registry.len() != 0 {
		t.Fatal("expected point hidden while delete is pending")
	}
	m = applyCmd(t, m, cmd)
	if got := renderedIDs(m); !slices.Equal(got, []string{"a"}) {
		t.Fatalf("expected point restored, got %v", got)
	}
	if m.status != "Failed to delete point" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestModelSingleEditor(t *testing.T) {
	s := newTestStores(
		testPoint("a", domain.PointTypeTaxi, day(2024, 1, 1), day(2024, 1, 1), 50),
		testPoint("b", domain.PointTypeFlight, day(2024, 1, 2), day(2024, 1, 3), 100),
	)
	m := loadReadyModel(t, newTestModel(s))

	m = applyMsg(t, m, keyRune('e'))
	first, _ := m.registry.get("a")
	if !first.Editing() {
		t.Fatal("expected first point editing")
	}

	// The open form takes keys, so start the second edit directly.
	second, _ := m.registry.get("b")
	second.EditClick()
	if first.Editing() {
		t.Fatal("expected first point reset when second opens")
	}
	if editing, ok := m.registry.editing(); !ok || editing != second {
		t.Fatal("expected registry to track the second editor")
	}
	if owners := m.escapes.owners(); !slices.Equal(owners, []string{"point:b"}) {
		t.Fatalf("expected one escape scope, got %v", owners)
	}

	m = applyMsg(t, m, keyCode(tea.KeyEscape))
	if second.Editing() {
		t.Fatal("expected escape to close the form")
	}
	if len(m.escapes.owners()) != 0 {
		t.Fatal("expected escape scope released")
	}
}

func TestModelEditSubmitPersists(t *testing.T) {
	s := newTestStores(testPoint("a", domain.PointTypeTaxi, day(2024, 1, 1), day(2024, 1, 1), 50))
	m := loadReadyModel(t, newTestModel(s))

	m = applyMsg(t, m, keyRune('e'))
	for range int(fieldPrice) {
		m = applyMsg(t, m, keyCode(tea.KeyTab))
	}
	m = clearField(t, m, 4)
	m = typeText(t, m, "75")
	m = applyMsg(t, m, keyCode(tea.KeyEnter))

	if got := s.points.points[0].BasePrice; got != 75 {
		t.Fatalf("expected price 75 saved, got %d", got)
	}
	if _, ok := m.registry.editing(); ok {
		t.Fatal("expected display mode after submit")
	}
}

func TestModelEditDeleteRemovesPoint(t *testing.T) {
	s := newTestStores(testPoint("a", domain.PointTypeTaxi, day(2024, 1, 1), day(2024, 1, 1), 50))
	m := loadReadyModel(t, newTestModel(s))

	m = applyMsg(t, m, keyRune('e'))
	m = applyMsg(t, m, keyCtrl('d'))
	if len(s.points.points) != 0 {
		t.Fatal("expected point deleted")
	}
	if m.emptyMessage != "Click New Event to create your first point" {
		t.Fatalf("unexpected empty message %q", m.emptyMessage)
	}
	if len(m.escapes.owners()) != 0 {
		t.Fatal("expected escape scope released")
	}
}

func TestModelYankCopiesSelectedPoint(t *testing.T) {
	s := newTestStores(testPoint("a", domain.PointTypeTaxi, day(2024, 3, 18), day(2024, 3, 18).Add(time.Hour), 50))
	var copied string
	m := loadReadyModel(t, newTestModel(s, WithClipboard(func(text string) error {
		copied = text
		return nil
	})))

	m = applyMsg(t, m, keyRune('y'))
	if copied != "18 MAR Taxi Amsterdam 10:00-11:00 €50" {
		t.Fatalf("unexpected clipboard text %q", copied)
	}
	if m.status != "Copied point" {
		t.Fatalf("unexpected status %q", m.status)
	}

	m = newTestModel(s, WithClipboard(func(string) error { return errors.New("no clipboard") }))
	m = loadReadyModel(t, m)
	m = applyMsg(t, m, keyRune('y'))
	if m.status != "Copy failed" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestModelQuit(t *testing.T) {
	m := loadReadyModel(t, newTestModel(newTestStores()))
	_, cmd := m.Update(keyRune('q'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected quit message")
	}
}

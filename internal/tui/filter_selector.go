package tui

import (
	"context"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/hylla/waypoint/internal/domain"
)

// filterSelector drives the filter bar on top of the point and filter stores.
type filterSelector struct {
	points  PointStore
	filters FilterStore
}

// Init loads the points the per-filter counts are computed from.
func (s filterSelector) Init(ctx context.Context) error {
	return s.points.Init(ctx)
}

// Active returns the selected filter.
func (s filterSelector) Active() domain.FilterType {
	return s.filters.Filter()
}

// Step moves the selection by delta, skipping filters with no points.
// Everything is always selectable.
func (s filterSelector) Step(delta int, counts map[domain.FilterType]int) {
	filters := domain.Filters()
	idx := 0
	for i, f := range filters {
		if f == s.filters.Filter() {
			idx = i
			break
		}
	}
	for range filters {
		idx = wrapIndex(idx, delta, len(filters))
		f := filters[idx]
		if f == domain.FilterEverything || counts[f] > 0 {
			s.filters.SetFilter(f)
			return
		}
	}
}

// View renders the filter tabs with their counts.
func (s filterSelector) View(counts map[domain.FilterType]int) string {
	active := lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1)
	normal := lipgloss.NewStyle().Padding(0, 1)
	disabled := normal.Foreground(lipgloss.Color("238"))

	tabs := make([]string, 0, len(domain.Filters()))
	for _, f := range domain.Filters() {
		label := fmt.Sprintf("%s %d", f.Label(), counts[f])
		switch {
		case f == s.filters.Filter():
			tabs = append(tabs, active.Render(label))
		case f != domain.FilterEverything && counts[f] == 0:
			tabs = append(tabs, disabled.Render(label))
		default:
			tabs = append(tabs, normal.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

// sortBarView renders the sort options, marking the active one.
func sortBarView(current domain.SortType) string {
	active := lipgloss.NewStyle().Bold(true).Underline(true)
	disabled := lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	normal := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	parts := []string{}
	for _, opt := range domain.SortOptions() {
		switch {
		case opt.Type == current:
			parts = append(parts, active.Render(opt.Type.Label()))
		case opt.Disabled:
			parts = append(parts, disabled.Render(opt.Type.Label()))
		default:
			parts = append(parts, normal.Render(opt.Type.Label()))
		}
	}
	return "Sort: " + strings.Join(parts, "  ")
}

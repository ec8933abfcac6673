package domain

import (
	"strings"
	"time"
)

// FilterType selects which points are visible by time relation to now.
type FilterType string

const (
	FilterEverything FilterType = "everything"
	FilterFuture     FilterType = "future"
	FilterPresent    FilterType = "present"
	FilterPast       FilterType = "past"
)

// Filters returns the filters in tab order.
func Filters() []FilterType {
	return []FilterType{FilterEverything, FilterFuture, FilterPresent, FilterPast}
}

// ParseFilter resolves a filter name case-insensitively.
func ParseFilter(raw string) (FilterType, error) {
	f := FilterType(strings.TrimSpace(strings.ToLower(raw)))
	switch f {
	case FilterEverything, FilterFuture, FilterPresent, FilterPast:
		return f, nil
	case "":
		return FilterEverything, nil
	default:
		return "", ErrInvalidFilter
	}
}

// Label returns the capitalized filter name.
func (f FilterType) Label() string {
	s := string(f)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// EmptyMessage is shown when the filter leaves nothing to list.
func (f FilterType) EmptyMessage() string {
	switch f {
	case FilterPast:
		return "There are no past events now"
	case FilterPresent:
		return "There are no present events now"
	case FilterFuture:
		return "There are no future events now"
	default:
		return "Click New Event to create your first point"
	}
}

// Matches reports whether the point belongs to the filter at the given instant.
func (f FilterType) Matches(p Point, now time.Time) bool {
	switch f {
	case FilterPast:
		return p.DateTo.Before(now)
	case FilterPresent:
		return !p.DateFrom.After(now) && !p.DateTo.Before(now)
	case FilterFuture:
		return p.DateFrom.After(now)
	default:
		return true
	}
}

// FilterPoints returns the points matching the filter, keeping input order.
// Now is sampled once by the caller so the whole pass sees one instant.
func FilterPoints(points []Point, f FilterType, now time.Time) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if f.Matches(p, now) {
			out = append(out, p)
		}
	}
	return out
}

// CountByFilter returns how many points each filter would show.
func CountByFilter(points []Point, now time.Time) map[FilterType]int {
	counts := make(map[FilterType]int, 4)
	for _, f := range Filters() {
		counts[f] = 0
	}
	for _, p := range points {
		for _, f := range Filters() {
			if f.Matches(p, now) {
				counts[f]++
			}
		}
	}
	return counts
}

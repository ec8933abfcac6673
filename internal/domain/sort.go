package domain

import (
	"slices"
	"strings"
)

// SortType orders the visible points.
type SortType string

const (
	SortDay    SortType = "day"
	SortEvent  SortType = "event"
	SortTime   SortType = "time"
	SortPrice  SortType = "price"
	SortOffers SortType = "offers"
)

// SortOption is one entry of the sort bar.
type SortOption struct {
	Type     SortType
	Disabled bool
}

// Label returns the capitalized sort name.
func (s SortType) Label() string {
	str := string(s)
	if str == "" {
		return ""
	}
	return strings.ToUpper(str[:1]) + str[1:]
}

// SortOptions returns the sort bar entries in display order.
func SortOptions() []SortOption {
	return []SortOption{
		{Type: SortDay},
		{Type: SortEvent, Disabled: true},
		{Type: SortTime},
		{Type: SortPrice},
		{Type: SortOffers, Disabled: true},
	}
}

// EnabledSorts returns the selectable sort types in display order.
func EnabledSorts() []SortType {
	out := make([]SortType, 0, 3)
	for _, opt := range SortOptions() {
		if !opt.Disabled {
			out = append(out, opt.Type)
		}
	}
	return out
}

// ParseSort resolves a selectable sort name case-insensitively.
func ParseSort(raw string) (SortType, error) {
	s := SortType(strings.TrimSpace(strings.ToLower(raw)))
	if s == "" {
		return SortDay, nil
	}
	if !slices.Contains(EnabledSorts(), s) {
		return "", ErrInvalidSort
	}
	return s, nil
}

// SortPoints returns a stably sorted copy of points.
// Unknown sort types return the input order unchanged.
func SortPoints(points []Point, s SortType) []Point {
	out := slices.Clone(points)
	switch s {
	case SortDay:
		slices.SortStableFunc(out, func(a, b Point) int {
			return a.DateFrom.Compare(b.DateFrom)
		})
	case SortPrice:
		slices.SortStableFunc(out, func(a, b Point) int {
			return b.BasePrice - a.BasePrice
		})
	case SortTime:
		slices.SortStableFunc(out, func(a, b Point) int {
			da, db := a.Duration(), b.Duration()
			switch {
			case da > db:
				return -1
			case da < db:
				return 1
			default:
				return 0
			}
		})
	}
	return out
}

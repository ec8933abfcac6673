package tui

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/hylla/waypoint/internal/domain"
)

// Option configures a Model.
type Option func(*Model)

// WithLogger routes board diagnostics to logger.
func WithLogger(logger *log.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock overrides the clock used for filtering and the save blocker.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLocation sets the zone dates are shown and typed in.
func WithLocation(loc *time.Location) Option {
	return func(m *Model) {
		if loc != nil {
			m.loc = loc
		}
	}
}

// WithDefaultPointType sets the type a new point starts with.
func WithDefaultPointType(t domain.PointType) Option {
	return func(m *Model) {
		if t.Valid() {
			m.defaultType = t
		}
	}
}

// WithTitleMaxDestinations caps the destinations listed in the route title.
func WithTitleMaxDestinations(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.titleMax = n
		}
	}
}

// WithBlockLimits sets how long a save runs before "saving" shows and how long it then holds.
func WithBlockLimits(lower, upper time.Duration) Option {
	return func(m *Model) {
		m.blockLower = lower
		m.blockUpper = upper
	}
}

// WithShakeInterval sets the frame interval of the failed-save animation.
func WithShakeInterval(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.shakeInterval = d
		}
	}
}

// WithClipboard replaces the clipboard writer used by the yank key.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.clipboard = write
		}
	}
}

// Package uiblock throttles the visible "saving" state of the board so quick
// requests never flash an indicator and slow ones keep it long enough to read.
package uiblock

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// RevealMsg shows the indicator for the block started at Gen.
type RevealMsg struct {
	Gen int
}

// ReleaseMsg ends the block started at Gen after the upper hold elapsed.
type ReleaseMsg struct {
	Gen int
}

// Blocker gates input while a request is in flight.
//
// The indicator appears only once the request outlives lower. Once shown it
// stays until upper has passed since the block began.
type Blocker struct {
	lower time.Duration
	upper time.Duration
	now   func() time.Time

	gen       int
	blocked   bool
	visible   bool
	startedAt time.Time
}

// New constructs a blocker. A nil now uses time.Now.
func New(lower, upper time.Duration, now func() time.Time) Blocker {
	if lower < 0 {
		lower = 0
	}
	if upper < lower {
		upper = lower
	}
	if now == nil {
		now = time.Now
	}
	return Blocker{lower: lower, upper: upper, now: now}
}

// Blocked reports whether input should be ignored.
func (b Blocker) Blocked() bool {
	return b.blocked
}

// Visible reports whether the indicator is showing.
func (b Blocker) Visible() bool {
	return b.visible
}

// Block starts a new block and schedules the indicator reveal.
func (b *Blocker) Block() tea.Cmd {
	b.gen++
	b.blocked = true
	b.visible = false
	b.startedAt = b.now()
	if b.lower == 0 {
		b.visible = true
		return nil
	}
	gen := b.gen
	return tea.Tick(b.lower, func(time.Time) tea.Msg {
		return RevealMsg{Gen: gen}
	})
}

// Unblock ends the current block, possibly after a hold so a shown indicator
// stays up until upper.
func (b *Blocker) Unblock() tea.Cmd {
	if !b.blocked {
		return nil
	}
	elapsed := b.now().Sub(b.startedAt)
	if elapsed < b.lower || elapsed >= b.upper || !b.visible {
		b.release()
		return nil
	}
	gen := b.gen
	return tea.Tick(b.upper-elapsed, func(time.Time) tea.Msg {
		return ReleaseMsg{Gen: gen}
	})
}

// Update applies reveal and release ticks, ignoring ones from earlier blocks.
// It reports whether msg belonged to the blocker.
func (b *Blocker) Update(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case RevealMsg:
		if msg.Gen == b.gen && b.blocked {
			b.visible = true
		}
		return true
	case ReleaseMsg:
		if msg.Gen == b.gen {
			b.release()
		}
		return true
	default:
		return false
	}
}

func (b *Blocker) release() {
	b.gen++
	b.blocked = false
	b.visible = false
}

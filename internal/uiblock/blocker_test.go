package uiblock

import (
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestBlocker() (*Blocker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)}
	b := New(350*time.Millisecond, time.Second, clock.now)
	return &b, clock
}

func TestBlockerFastRequestNeverShowsIndicator(t *testing.T) {
	b, clock := newTestBlocker()
	if cmd := b.Block(); cmd == nil {
		t.Fatal("expected reveal tick")
	}
	if !b.Blocked() || b.Visible() {
		t.Fatalf("expected blocked and hidden, got blocked=%t visible=%t", b.Blocked(), b.Visible())
	}
	clock.advance(100 * time.Millisecond)
	if cmd := b.Unblock(); cmd != nil {
		t.Fatal("expected immediate release")
	}
	if b.Blocked() {
		t.Fatal("expected released")
	}
	b.Update(RevealMsg{Gen: 1})
	if b.Visible() {
		t.Fatal("stale reveal must be ignored")
	}
}

func TestBlockerHoldsVisibleIndicatorUntilUpper(t *testing.T) {
	b, clock := newTestBlocker()
	b.Block()
	clock.advance(400 * time.Millisecond)
	b.Update(RevealMsg{Gen: 1})
	if !b.Visible() {
		t.Fatal("expected indicator after lower limit")
	}
	if cmd := b.Unblock(); cmd == nil {
		t.Fatal("expected hold tick")
	}
	if !b.Blocked() || !b.Visible() {
		t.Fatal("expected block held")
	}
	b.Update(ReleaseMsg{Gen: 1})
	if b.Blocked() || b.Visible() {
		t.Fatal("expected release after hold")
	}
}

func TestBlockerReleasesImmediatelyPastUpper(t *testing.T) {
	b, clock := newTestBlocker()
	b.Block()
	clock.advance(400 * time.Millisecond)
	b.Update(RevealMsg{Gen: 1})
	clock.advance(2 * time.Second)
	if cmd := b.Unblock(); cmd != nil {
		t.Fatal("expected immediate release")
	}
	if b.Blocked() {
		t.Fatal("expected released")
	}
}

func TestBlockerZeroLimitsRevealAndReleaseSynchronously(t *testing.T) {
	b := New(0, 0, nil)
	if cmd := b.Block(); cmd != nil {
		t.Fatal("expected no tick with zero lower limit")
	}
	if !b.Visible() {
		t.Fatal("expected immediate indicator")
	}
	if cmd := b.Unblock(); cmd != nil {
		t.Fatal("expected no hold with zero upper limit")
	}
	if b.Blocked() {
		t.Fatal("expected released")
	}
}

func TestBlockerIgnoresForeignMessages(t *testing.T) {
	b, _ := newTestBlocker()
	if b.Update("other") {
		t.Fatal("expected foreign message unhandled")
	}
	if cmd := b.Unblock(); cmd != nil || b.Blocked() {
		t.Fatal("unblock without block must be a no-op")
	}
}

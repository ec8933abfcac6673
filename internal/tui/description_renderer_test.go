package tui

import (
	"strings"
	"testing"
)

func TestDescriptionRendererCachesPerWidth(t *testing.T) {
	r := newDescriptionRenderer()
	if got := r.render("   ", 40); got != "" {
		t.Fatalf("expected blank description to render empty, got %q", got)
	}

	first := r.render("Canals and bikes.", 40)
	if !strings.Contains(first, "Canals") {
		t.Fatalf("expected description text in output, got %q", first)
	}
	if again := r.render("Canals and bikes.", 40); again != first {
		t.Fatal("expected cached output for the same width")
	}
	if len(r.rendered) != 1 {
		t.Fatalf("expected one cached entry, got %d", len(r.rendered))
	}

	r.render("Lake city.", 60)
	if r.wrap != 60 || len(r.rendered) != 1 {
		t.Fatalf("expected cache reset on width change, wrap=%d entries=%d", r.wrap, len(r.rendered))
	}
	r.render("Lake city.", 4)
	if r.wrap != minDescriptionWrap {
		t.Fatalf("expected narrow widths clamped to %d, got %d", minDescriptionWrap, r.wrap)
	}
}

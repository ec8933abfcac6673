package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	// descriptionStyle is the glamour theme for destination blurbs.
	descriptionStyle = "dark"
	// descriptionCacheLimit caps how many rendered blurbs are kept for one wrap width.
	descriptionCacheLimit = 32
	minDescriptionWrap    = 24
)

// descriptionRenderer turns destination descriptions into wrapped terminal text.
// Output is cached per description until the wrap width moves.
type descriptionRenderer struct {
	style    string
	wrap     int
	term     *glamour.TermRenderer
	rendered map[string]string
}

func newDescriptionRenderer() *descriptionRenderer {
	return &descriptionRenderer{style: descriptionStyle}
}

// render styles one description. Failures fall back to the trimmed text.
func (r *descriptionRenderer) render(description string, width int) string {
	text := strings.TrimSpace(description)
	if text == "" {
		return ""
	}
	if err := r.ensure(max(minDescriptionWrap, width)); err != nil {
		return text
	}
	if out, ok := r.rendered[text]; ok {
		return out
	}

	out, err := r.term.Render(text)
	if err != nil {
		return text
	}
	out = strings.Trim(out, "\n")
	if len(r.rendered) >= descriptionCacheLimit {
		clear(r.rendered)
	}
	r.rendered[text] = out
	return out
}

// ensure rebuilds the glamour renderer and drops the cache when wrap changes.
func (r *descriptionRenderer) ensure(wrap int) error {
	if r.term != nil && r.wrap == wrap {
		return nil
	}
	term, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.style),
		glamour.WithWordWrap(wrap),
		glamour.WithPreservedNewLines(),
		glamour.WithEmoji(),
	)
	if err != nil {
		return err
	}
	r.term, r.wrap, r.rendered = term, wrap, map[string]string{}
	return nil
}

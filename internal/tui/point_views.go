package tui

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/hylla/waypoint/internal/domain"
)

// pointCard is the read-only row for one point.
type pointCard struct {
	point       domain.Point
	destination string
	offers      []domain.Offer
	loc         *time.Location
	disposed    bool
}

func newPointCard(p domain.Point, destinations []domain.Destination, groups []domain.OfferGroup, loc *time.Location) *pointCard {
	dest, _ := domain.FindDestination(destinations, p.DestinationID)
	return &pointCard{
		point:       p.Clone(),
		destination: dest.Name,
		offers:      domain.SelectedOffers(p, groups),
		loc:         loc,
	}
}

func (c *pointCard) dispose() {
	c.disposed = true
}

// View renders the card. busy marks a point with a mutation in flight.
func (c *pointCard) View(selected, busy bool, width int) string {
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	strong := lipgloss.NewStyle().Bold(true)
	star := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))

	p := c.point
	from, to := inLocation(p.DateFrom, c.loc), inLocation(p.DateTo, c.loc)
	name := c.destination
	if name == "" {
		name = "Unknown destination"
	}

	favorite := muted.Render("☆")
	if p.IsFavorite {
		favorite = star.Render("★")
	}
	head := fmt.Sprintf("%s  %s  %s — %s  %s  €%d  %s",
		muted.Render(domain.FormatDayMonth(from)),
		strong.Render(p.Type.Label()+" "+name),
		domain.FormatClock(from),
		domain.FormatClock(to),
		muted.Render(domain.FormatDuration(p.Duration())),
		p.BasePrice,
		favorite,
	)
	if busy {
		head += muted.Render("  …")
	}

	lines := []string{head}
	for _, offer := range c.offers {
		lines = append(lines, muted.Render(fmt.Sprintf("        + %s +€%d", offer.Title, offer.Price)))
	}

	cardStyle := lipgloss.NewStyle().Padding(0, 1).Width(max(20, width))
	if selected {
		cardStyle = cardStyle.
			BorderStyle(lipgloss.ThickBorder()).
			BorderLeft(true).
			BorderForeground(lipgloss.Color("62")).
			PaddingLeft(0)
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

// plainPointLine renders a point for the clipboard.
func plainPointLine(p domain.Point, destinations []domain.Destination, loc *time.Location) string {
	dest, _ := domain.FindDestination(destinations, p.DestinationID)
	from, to := inLocation(p.DateFrom, loc), inLocation(p.DateTo, loc)
	return fmt.Sprintf("%s %s %s %s-%s €%d",
		domain.FormatDayMonth(from), p.Type.Label(), dest.Name,
		domain.FormatClock(from), domain.FormatClock(to), p.BasePrice)
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// wrapIndex steps idx by delta within [0, n).
func wrapIndex(idx, delta, n int) int {
	if n <= 0 {
		return 0
	}
	return ((idx+delta)%n + n) % n
}

// fitLines trims rendered content to at most maxLines rows.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	if len(lines) <= maxLines {
		return content
	}
	return strings.Join(lines[:maxLines], "\n")
}

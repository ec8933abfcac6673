package tui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/hylla/waypoint/internal/domain"
)

// detailPanel is a section mounted into a form's details region.
type detailPanel interface {
	render(f *pointForm, width int) string
	dispose()
}

var panelHeading = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Bold(true)

// offerPanel lists the offers available for the form's current type.
type offerPanel struct {
	disposed bool
}

func newOfferPanel() *offerPanel {
	return &offerPanel{}
}

func (p *offerPanel) render(f *pointForm, _ int) string {
	if p.disposed || len(f.group.Offers) == 0 {
		return ""
	}
	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	lines := []string{panelHeading.Render("OFFERS")}
	for i, offer := range f.group.Offers {
		mark := "[ ]"
		if f.point.HasOffer(offer.ID) {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s +€%d", mark, offer.Title, offer.Price)
		if f.focus == fieldOffers && i == f.offerCursor {
			line = cursorStyle.Render("› " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (p *offerPanel) dispose() {
	p.disposed = true
}

// destinationPanel describes whatever destination the typed name resolves to.
type destinationPanel struct {
	md       *descriptionRenderer
	disposed bool
}

func newDestinationPanel(md *descriptionRenderer) *destinationPanel {
	return &destinationPanel{md: md}
}

func (p *destinationPanel) render(f *pointForm, width int) string {
	if p.disposed {
		return ""
	}
	dest, ok := resolveDestination(f.destination.Value(), f.destinations)
	if !ok || (strings.TrimSpace(dest.Description) == "" && len(dest.Pictures) == 0) {
		return ""
	}
	lines := []string{panelHeading.Render("DESTINATION")}
	if desc := strings.TrimSpace(dest.Description); desc != "" {
		if p.md != nil {
			desc = p.md.render(desc, width)
		}
		lines = append(lines, desc)
	}
	pictureStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	for _, pic := range dest.Pictures {
		lines = append(lines, pictureStyle.Render(fmt.Sprintf("▣ %s  %s", pic.Description, pic.Src)))
	}
	return strings.Join(lines, "\n")
}

func (p *destinationPanel) dispose() {
	p.disposed = true
}

// mountDetailPanels attaches the standard panels to a form.
func mountDetailPanels(f *pointForm, md *descriptionRenderer) {
	f.mount(newOfferPanel(), newDestinationPanel(md))
}

// lookupOfferGroup returns the offer group for a type, or an empty group.
func lookupOfferGroup(groups []domain.OfferGroup, t domain.PointType) domain.OfferGroup {
	group, ok := domain.FindOfferGroup(groups, t)
	if !ok {
		return domain.OfferGroup{Type: t}
	}
	return group
}

package domain

import "strings"

// DefaultTitleMaxDestinations is how many names the route title lists before collapsing.
const DefaultTitleMaxDestinations = 3

// TripSummary is the route header shown above the list.
type TripSummary struct {
	Title string
	Dates string
	Cost  int
}

// Summarize builds the route header for an already filtered point set.
// Points are ordered by day regardless of the active sort.
func Summarize(points []Point, destinations []Destination, groups []OfferGroup, maxNames int) TripSummary {
	if len(points) == 0 {
		return TripSummary{}
	}
	if maxNames <= 0 {
		maxNames = DefaultTitleMaxDestinations
	}
	sorted := SortPoints(points, SortDay)

	names := make([]string, 0, len(sorted))
	cost := 0
	for _, p := range sorted {
		dest, _ := FindDestination(destinations, p.DestinationID)
		names = append(names, dest.Name)
		cost += TotalPrice(p, groups)
	}

	title := strings.Join(names, " — ")
	if len(names) > maxNames {
		title = names[0] + " —...— " + names[len(names)-1]
	}

	first, last := sorted[0], sorted[len(sorted)-1]
	return TripSummary{
		Title: title,
		Dates: FormatDayMonth(first.DateFrom) + " — " + FormatDayMonth(last.DateTo),
		Cost:  cost,
	}
}

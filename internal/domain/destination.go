package domain

// Picture is one photo attached to a destination.
type Picture struct {
	Src         string `json:"src"`
	Description string `json:"description"`
}

// Destination is a place a point can lead to.
type Destination struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Pictures    []Picture `json:"pictures"`
}

// Offer is an optional extra that can be added to a point.
type Offer struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Price int    `json:"price"`
}

// OfferGroup lists the offers available for one point type.
type OfferGroup struct {
	Type   PointType `json:"type"`
	Offers []Offer   `json:"offers"`
}

// FindDestination returns the destination with the given id.
func FindDestination(destinations []Destination, id string) (Destination, bool) {
	for _, d := range destinations {
		if d.ID == id {
			return d, true
		}
	}
	return Destination{}, false
}

// FindOfferGroup returns the offer group for a point type.
func FindOfferGroup(groups []OfferGroup, pointType PointType) (OfferGroup, bool) {
	for _, g := range groups {
		if g.Type == pointType {
			return g, true
		}
	}
	return OfferGroup{}, false
}

// SelectedOffers returns the offers of the point's type that the point selected.
// Ids with no match in the group are skipped.
func SelectedOffers(p Point, groups []OfferGroup) []Offer {
	group, ok := FindOfferGroup(groups, p.Type)
	if !ok {
		return nil
	}
	out := make([]Offer, 0, len(p.OfferIDs))
	for _, offer := range group.Offers {
		if p.HasOffer(offer.ID) {
			out = append(out, offer)
		}
	}
	return out
}

// TotalPrice returns the base price plus the prices of every matched offer.
func TotalPrice(p Point, groups []OfferGroup) int {
	total := p.BasePrice
	for _, offer := range SelectedOffers(p, groups) {
		total += offer.Price
	}
	return total
}

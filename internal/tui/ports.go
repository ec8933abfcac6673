package tui

import (
	"context"

	"github.com/hylla/waypoint/internal/domain"
)

// PointStore is the reactive trip point store the board reads and mutates.
type PointStore interface {
	Init(context.Context) error
	Points() []domain.Point
	AddPoint(context.Context, domain.Point) (domain.Point, error)
	UpdatePoint(context.Context, domain.Point) (domain.Point, error)
	DeletePoint(context.Context, string) error
	Subscribe(func()) func()
}

// DestinationStore serves the destination catalogue.
type DestinationStore interface {
	Init(context.Context) error
	Destinations() []domain.Destination
}

// OfferStore serves offer groups keyed by point type.
type OfferStore interface {
	Init(context.Context) error
	OfferGroups() []domain.OfferGroup
}

// FilterStore owns the active filter selection.
type FilterStore interface {
	Filter() domain.FilterType
	SetFilter(domain.FilterType)
	Subscribe(func()) func()
}

// Stores bundles the collaborators the board needs.
type Stores struct {
	Points       PointStore
	Destinations DestinationStore
	Offers       OfferStore
	Filters      FilterStore
}

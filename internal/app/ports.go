package app

import (
	"context"

	"github.com/hylla/waypoint/internal/domain"
)

// Repository represents repository data used by this package.
type Repository interface {
	ListPoints(context.Context) ([]domain.Point, error)
	CreatePoint(context.Context, domain.Point) error
	UpdatePoint(context.Context, domain.Point) error
	DeletePoint(context.Context, string) error

	ListDestinations(context.Context) ([]domain.Destination, error)
	ListOfferGroups(context.Context) ([]domain.OfferGroup, error)
}

// IDGenerator returns unique identifiers for new entities.
type IDGenerator func() string

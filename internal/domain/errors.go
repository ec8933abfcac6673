package domain

import "errors"

var (
	ErrInvalidID          = errors.New("invalid id")
	ErrInvalidType        = errors.New("invalid point type")
	ErrInvalidDestination = errors.New("invalid destination")
	ErrInvalidDateRange   = errors.New("invalid date range")
	ErrInvalidPrice       = errors.New("invalid price")
	ErrInvalidOffer       = errors.New("invalid offer")
	ErrInvalidFilter      = errors.New("invalid filter")
	ErrInvalidSort        = errors.New("invalid sort")
)

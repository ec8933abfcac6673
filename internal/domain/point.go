package domain

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// PointType identifies the kind of trip point.
type PointType string

const (
	PointTypeTaxi        PointType = "taxi"
	PointTypeBus         PointType = "bus"
	PointTypeTrain       PointType = "train"
	PointTypeShip        PointType = "ship"
	PointTypeDrive       PointType = "drive"
	PointTypeFlight      PointType = "flight"
	PointTypeCheckIn     PointType = "check-in"
	PointTypeSightseeing PointType = "sightseeing"
	PointTypeRestaurant  PointType = "restaurant"
)

var validPointTypes = []PointType{
	PointTypeTaxi,
	PointTypeBus,
	PointTypeTrain,
	PointTypeShip,
	PointTypeDrive,
	PointTypeFlight,
	PointTypeCheckIn,
	PointTypeSightseeing,
	PointTypeRestaurant,
}

// PointTypes returns every known point type in display order.
func PointTypes() []PointType {
	return slices.Clone(validPointTypes)
}

// Valid reports whether the type is one of the known point types.
func (t PointType) Valid() bool {
	return slices.Contains(validPointTypes, t)
}

// Label returns the capitalized form used in titles.
func (t PointType) Label() string {
	s := string(t)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Point is one scheduled trip event.
type Point struct {
	ID            string    `validate:"required"`
	Type          PointType `validate:"required,pointtype"`
	DestinationID string    `validate:"required"`
	DateFrom      time.Time `validate:"required"`
	DateTo        time.Time `validate:"required,gtefield=DateFrom"`
	BasePrice     int       `validate:"gte=0"`
	OfferIDs      []string  `validate:"dive,required"`
	IsFavorite    bool
}

// PointInput holds the editable fields of a point.
type PointInput struct {
	ID            string
	Type          PointType
	DestinationID string
	DateFrom      time.Time
	DateTo        time.Time
	BasePrice     int
	OfferIDs      []string
	IsFavorite    bool
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("pointtype", func(fl validator.FieldLevel) bool {
		return PointType(fl.Field().String()).Valid()
	})
	return v
}

// NewPoint normalizes input and returns a validated point.
func NewPoint(in PointInput) (Point, error) {
	p := Point{
		ID:            strings.TrimSpace(in.ID),
		Type:          PointType(strings.TrimSpace(strings.ToLower(string(in.Type)))),
		DestinationID: strings.TrimSpace(in.DestinationID),
		DateFrom:      in.DateFrom,
		DateTo:        in.DateTo,
		BasePrice:     in.BasePrice,
		OfferIDs:      normalizeOfferIDs(in.OfferIDs),
		IsFavorite:    in.IsFavorite,
	}
	if err := p.Validate(); err != nil {
		return Point{}, err
	}
	return p, nil
}

// Validate checks the point and maps failures onto the package sentinels.
func (p Point) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	switch fieldErrs[0].StructField() {
	case "ID":
		return ErrInvalidID
	case "Type":
		return ErrInvalidType
	case "DestinationID":
		return ErrInvalidDestination
	case "DateFrom", "DateTo":
		return ErrInvalidDateRange
	case "BasePrice":
		return ErrInvalidPrice
	default:
		return ErrInvalidOffer
	}
}

// Duration returns the raw span between start and end.
func (p Point) Duration() time.Duration {
	return p.DateTo.Sub(p.DateFrom)
}

// HasOffer reports whether the offer id is selected on the point.
func (p Point) HasOffer(id string) bool {
	return slices.Contains(p.OfferIDs, id)
}

// Clone returns a copy that shares no slices with p.
func (p Point) Clone() Point {
	p.OfferIDs = slices.Clone(p.OfferIDs)
	return p
}

// ToggleOffer returns a copy with the offer id added or removed.
func (p Point) ToggleOffer(id string) Point {
	out := p.Clone()
	if idx := slices.Index(out.OfferIDs, id); idx >= 0 {
		out.OfferIDs = slices.Delete(out.OfferIDs, idx, idx+1)
		return out
	}
	out.OfferIDs = append(out.OfferIDs, id)
	return out
}

// normalizeOfferIDs trims, drops blanks, and de-duplicates while keeping order.
func normalizeOfferIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := map[string]struct{}{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

package domain

import (
	"math"
	"strings"
	"time"
)

// SpotCategory labels the kind of water at a spot.
type SpotCategory string

const (
	SpotBeach      SpotCategory = "beach"
	SpotCliff      SpotCategory = "cliff"
	SpotHarbor     SpotCategory = "harbor"
	SpotBreakwater SpotCategory = "breakwater"
	SpotOpenSea    SpotCategory = "open-sea"
	SpotLagoon     SpotCategory = "lagoon"
	SpotLake       SpotCategory = "lake"
	SpotRiver      SpotCategory = "river"
	SpotStream     SpotCategory = "stream"
	SpotCanal      SpotCategory = "canal"
	SpotReservoir  SpotCategory = "reservoir"
)

// SpotCategories lists the accepted labels in display order.
var SpotCategories = []SpotCategory{
	SpotBeach, SpotCliff, SpotHarbor, SpotBreakwater, SpotOpenSea, SpotLagoon,
	SpotLake, SpotRiver, SpotStream, SpotCanal, SpotReservoir,
}

// Valid reports whether c is empty or one of SpotCategories.
func (c SpotCategory) Valid() bool {
	if c == "" {
		return true
	}
	for _, known := range SpotCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Spot is a geocoded fishing location.
type Spot struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Notes     string       `json:"notes,omitempty"`
	Category  SpotCategory `json:"category,omitempty"`
	Lat       float64      `json:"lat"`
	Lng       float64      `json:"lng"`
	Photo     string       `json:"photo,omitempty"` // data URL, optional
	CreatedAt time.Time    `json:"createdAt"`
}

// SpotInput is a create request for a spot. The coordinates are pointers so
// that an absent value is told apart from 0.
type SpotInput struct {
	Name     string       `json:"name"`
	Notes    string       `json:"notes,omitempty"`
	Category SpotCategory `json:"category,omitempty"`
	Lat      *float64     `json:"lat"`
	Lng      *float64     `json:"lng"`
	Photo    string       `json:"photo,omitempty"`
}

// Spot converts the request, failing when either coordinate is absent. Range
// checks are left to Spot.Validate.
func (in SpotInput) Spot() (Spot, error) {
	switch {
	case in.Lat == nil:
		return Spot{}, invalid("lat", "is required")
	case in.Lng == nil:
		return Spot{}, invalid("lng", "is required")
	}
	return Spot{
		Name:     in.Name,
		Notes:    in.Notes,
		Category: in.Category,
		Lat:      *in.Lat,
		Lng:      *in.Lng,
		Photo:    in.Photo,
	}, nil
}

// Normalize trims free-text fields.
func (s Spot) Normalize() Spot {
	s.Name = strings.TrimSpace(s.Name)
	s.Notes = strings.TrimSpace(s.Notes)
	return s
}

// Validate checks the fields required on create.
func (s Spot) Validate() error {
	switch {
	case s.Name == "":
		return invalid("name", "is required")
	case !s.Category.Valid():
		return invalid("category", "unknown spot category")
	case !validCoord(s.Lat, 90):
		return invalid("lat", "must be between -90 and 90")
	case !validCoord(s.Lng, 180):
		return invalid("lng", "must be between -180 and 180")
	}
	return nil
}

func validCoord(v, limit float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= -limit && v <= limit
}

package domain

import (
	"math"
	"strings"
	"time"
)

// Catch is a record of a caught specimen.
//
// Weight is nil when it was not measured. Aggregates must skip nil weights
// rather than count them as zero.
type Catch struct {
	ID        string    `json:"id"`
	Date      Date      `json:"date"`
	Species   string    `json:"species"`
	Weight    *float64  `json:"weight,omitempty"` // kilograms
	Notes     string    `json:"notes,omitempty"`
	Photo     string    `json:"photo,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Normalize trims free-text fields.
func (c Catch) Normalize() Catch {
	c.Species = strings.TrimSpace(c.Species)
	c.Notes = strings.TrimSpace(c.Notes)
	return c
}

// Validate checks the fields required on create.
func (c Catch) Validate() error {
	switch {
	case c.Date.IsZero():
		return invalid("date", "is required")
	case c.Species == "":
		return invalid("species", "is required")
	case c.Weight != nil && (*c.Weight < 0 || math.IsNaN(*c.Weight) || math.IsInf(*c.Weight, 0)):
		return invalid("weight", "must be a non-negative number")
	}
	return nil
}

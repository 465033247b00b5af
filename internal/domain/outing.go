package domain

import (
	"strings"
	"time"
)

// Outing is a diary entry for a fishing trip.
type Outing struct {
	ID        string    `json:"id"`
	Date      Date      `json:"date"`
	Time      string    `json:"time,omitempty"`   // HH:MM, optional
	SpotID    string    `json:"spotId,omitempty"` // may dangle
	GearIDs   []string  `json:"gearIds"`          // entries may dangle
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Normalize trims free-text fields and drops blank gear ids.
func (o Outing) Normalize() Outing {
	o.Time = strings.TrimSpace(o.Time)
	o.SpotID = strings.TrimSpace(o.SpotID)
	o.Notes = strings.TrimSpace(o.Notes)
	ids := make([]string, 0, len(o.GearIDs))
	for _, id := range o.GearIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	o.GearIDs = ids
	return o
}

// Validate checks the fields required on create.
func (o Outing) Validate() error {
	switch {
	case o.Date.IsZero():
		return invalid("date", "is required")
	case o.Time != "" && !ValidClockTime(o.Time):
		return invalid("time", "must be HH:MM")
	}
	return nil
}

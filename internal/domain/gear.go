package domain

import (
	"strings"
	"time"
)

// GearCategory is the closed set of equipment kinds.
type GearCategory string

const (
	GearRod            GearCategory = "rod"
	GearReel           GearCategory = "reel"
	GearTerminalTackle GearCategory = "terminal-tackle"
)

// GearCategories lists the accepted categories in display order.
var GearCategories = []GearCategory{GearRod, GearReel, GearTerminalTackle}

// Valid reports whether c is one of GearCategories.
func (c GearCategory) Valid() bool {
	for _, known := range GearCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Environment is where a piece of gear is meant to be used.
type Environment string

const (
	EnvSea        Environment = "sea"
	EnvBoat       Environment = "boat"
	EnvFreshwater Environment = "freshwater"
)

// Environments lists the accepted environments in display order.
var Environments = []Environment{EnvSea, EnvBoat, EnvFreshwater}

// Valid reports whether e is empty or one of Environments.
func (e Environment) Valid() bool {
	if e == "" {
		return true
	}
	for _, known := range Environments {
		if e == known {
			return true
		}
	}
	return false
}

// techniques are suggested per environment. Technique stays free text.
var techniques = map[Environment][]string{
	EnvSea: {
		"Surfcasting",
		"Shore spinning",
		"Rock fishing",
		"Bolognese",
		"Waggler",
		"Beach ledgering",
		"Eging",
		"Light game",
		"Bottom fishing",
		"Big game",
	},
	EnvBoat: {
		"Trolling",
		"Bottom bouncing",
		"Vertical jigging",
		"Slow pitch jigging",
		"Drifting",
		"Boat spinning",
		"Live baiting",
		"Tataki",
		"Bottom fishing",
	},
	EnvFreshwater: {
		"Carpfishing",
		"Method feeder",
		"Spinning",
		"Fly fishing",
		"Bolognese",
		"Pole fishing",
		"Waggler",
		"Ledgering",
		"Streetfishing",
		"Trout area",
		"Tenkara",
		"Touch legering",
		"Catfishing",
	},
}

// Techniques returns the suggested techniques for env, or nil when env is
// unknown. The returned slice is a copy.
func Techniques(env Environment) []string {
	list := techniques[env]
	if list == nil {
		return nil
	}
	return append([]string(nil), list...)
}

// Gear is a piece of fishing equipment.
type Gear struct {
	ID          string       `json:"id"`
	Category    GearCategory `json:"category"`
	Name        string       `json:"name"`
	Subtype     string       `json:"subtype,omitempty"`
	Notes       string       `json:"notes,omitempty"`
	Environment Environment  `json:"environment,omitempty"`
	Technique   string       `json:"technique,omitempty"`
	Quantity    int          `json:"quantity"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Normalize trims free-text fields and defaults Quantity to 1.
func (g Gear) Normalize() Gear {
	g.Name = strings.TrimSpace(g.Name)
	g.Subtype = strings.TrimSpace(g.Subtype)
	g.Notes = strings.TrimSpace(g.Notes)
	g.Technique = strings.TrimSpace(g.Technique)
	if g.Quantity == 0 {
		g.Quantity = 1
	}
	return g
}

// Validate checks the fields required on create.
func (g Gear) Validate() error {
	switch {
	case !g.Category.Valid():
		return invalid("category", "must be one of rod, reel, terminal-tackle")
	case g.Name == "":
		return invalid("name", "is required")
	case !g.Environment.Valid():
		return invalid("environment", "must be one of sea, boat, freshwater")
	case g.Technique != "" && g.Environment == "":
		return invalid("technique", "requires an environment")
	case g.Quantity < 1:
		return invalid("quantity", "must be at least 1")
	}
	return nil
}

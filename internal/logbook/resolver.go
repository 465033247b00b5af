package logbook

import (
	"fmt"

	"github.com/claussann/FishingWebApp/internal/domain"
)

// Placeholders shown for references whose target no longer exists.
const (
	DeletedSpotName = "Deleted spot"
	DeletedGearName = "Deleted gear"
)

// RefState describes how a single reference resolved.
type RefState int

const (
	RefNone     RefState = iota // no reference set
	RefResolved                 // target exists
	RefDangling                 // target was deleted
)

func (s RefState) String() string {
	switch s {
	case RefResolved:
		return "resolved"
	case RefDangling:
		return "dangling"
	default:
		return "none"
	}
}

func (s RefState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *RefState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "resolved":
		*s = RefResolved
	case "dangling":
		*s = RefDangling
	case "none", "":
		*s = RefNone
	default:
		return fmt.Errorf("unknown reference state %q", text)
	}
	return nil
}

// Resolver maps spot and gear ids to display names. Build one per read from
// the current collections; it holds no state beyond that snapshot.
type Resolver struct {
	spots map[string]string
	gear  map[string]string
}

func NewResolver(spots []domain.Spot, gear []domain.Gear) *Resolver {
	r := &Resolver{
		spots: make(map[string]string, len(spots)),
		gear:  make(map[string]string, len(gear)),
	}
	for _, s := range spots {
		r.spots[s.ID] = s.Name
	}
	for _, g := range gear {
		r.gear[g.ID] = g.Name
	}
	return r
}

// SpotName resolves a single spot reference. A dangling id yields
// DeletedSpotName; an empty id yields "" with RefNone.
func (r *Resolver) SpotName(id string) (string, RefState) {
	if id == "" {
		return "", RefNone
	}
	if name, ok := r.spots[id]; ok {
		return name, RefResolved
	}
	return DeletedSpotName, RefDangling
}

// GearName resolves a single gear reference the same way SpotName does.
func (r *Resolver) GearName(id string) (string, RefState) {
	if id == "" {
		return "", RefNone
	}
	if name, ok := r.gear[id]; ok {
		return name, RefResolved
	}
	return DeletedGearName, RefDangling
}

// GearNames resolves each id independently. Dangling ids are dropped from the
// names and counted in missing; the order of resolved names is preserved.
func (r *Resolver) GearNames(ids []string) (names []string, missing int) {
	names = make([]string, 0, len(ids))
	for _, id := range ids {
		name, ok := r.gear[id]
		if !ok {
			missing++
			continue
		}
		names = append(names, name)
	}
	return names, missing
}

// ResolvedOuting is an outing joined with its display names.
type ResolvedOuting struct {
	domain.Outing
	SpotName    string   `json:"spotName"`
	SpotState   RefState `json:"spotState"`
	GearNames   []string `json:"gearNames"`
	MissingGear int      `json:"missingGear"`
}

// ResolveOuting joins o with the current spot and gear names.
func (r *Resolver) ResolveOuting(o domain.Outing) ResolvedOuting {
	spotName, state := r.SpotName(o.SpotID)
	gearNames, missing := r.GearNames(o.GearIDs)
	return ResolvedOuting{
		Outing:      o,
		SpotName:    spotName,
		SpotState:   state,
		GearNames:   gearNames,
		MissingGear: missing,
	}
}

package logbook

import (
	"sort"
	"strings"
	"time"

	"github.com/claussann/FishingWebApp/internal/domain"
)

// DefaultTopN is the length of the top spot and gear rankings.
const DefaultTopN = 5

// RankEntry is one row of a top-N ranking.
type RankEntry struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Deleted bool   `json:"deleted,omitempty"`
}

// Usage counts distinct referenced entities across all outings.
type Usage struct {
	Spots int `json:"spots"`
	Gear  int `json:"gear"`
}

// Totals are the record counts of each collection.
type Totals struct {
	Gear    int `json:"gear"`
	Spots   int `json:"spots"`
	Outings int `json:"outings"`
	Catches int `json:"catches"`
}

// CatchSummary aggregates the catch collection. Catches without a weight
// count towards Total but never towards Weighed, TotalWeight or Heaviest.
type CatchSummary struct {
	Total       int           `json:"total"`
	Weighed     int           `json:"weighed"`
	TotalWeight float64       `json:"totalWeight"`
	Heaviest    *domain.Catch `json:"heaviest,omitempty"`
	TopSpecies  []RankEntry   `json:"topSpecies"`
}

// AverageWeight returns the mean over weighed catches, false when none.
func (s CatchSummary) AverageWeight() (float64, bool) {
	if s.Weighed == 0 {
		return 0, false
	}
	return s.TotalWeight / float64(s.Weighed), true
}

// LatestOuting picks the outing with the greatest date. Ties go to the later
// CreatedAt, then to the later position in the collection. The bool is false
// when there are no outings.
func LatestOuting(outings []domain.Outing, r *Resolver) (ResolvedOuting, bool) {
	if len(outings) == 0 {
		return ResolvedOuting{}, false
	}
	best := 0
	for i := 1; i < len(outings); i++ {
		if !outings[i].Date.IsZero() && newerOuting(outings[i], outings[best]) {
			best = i
		}
	}
	return r.ResolveOuting(outings[best]), true
}

// newerOuting reports whether a sorts at or after b. Equal keys return true so
// that a later collection position wins the tie.
func newerOuting(a, b domain.Outing) bool {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c > 0
	}
	return !a.CreatedAt.Before(b.CreatedAt)
}

// SortNewestFirst returns a copy of outings ordered by date descending. The
// sort is stable, so equal dates keep collection order.
func SortNewestFirst(outings []domain.Outing) []domain.Outing {
	sorted := append([]domain.Outing(nil), outings...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Compare(sorted[j].Date) > 0
	})
	return sorted
}

// MonthlyHistogram counts outings per month of the given year. Index 0 is
// January. Outings from other years do not contribute.
func MonthlyHistogram(outings []domain.Outing, year int) [12]int {
	var months [12]int
	for _, o := range outings {
		if o.Date.IsZero() || o.Date.Year != year {
			continue
		}
		months[o.Date.Month-1]++
	}
	return months
}

// TopMonth returns the month of year with the most outings across all years.
// Ties go to the earliest month. The bool is false when there is no data.
func TopMonth(outings []domain.Outing) (time.Month, bool) {
	var months [12]int
	for _, o := range outings {
		if o.Date.IsZero() {
			continue
		}
		months[o.Date.Month-1]++
	}
	best, max := 0, 0
	for i, n := range months {
		if n > max {
			best, max = i, n
		}
	}
	if max == 0 {
		return 0, false
	}
	return time.Month(best + 1), true
}

// TopSpots ranks spots by the number of outings referencing them.
func TopSpots(outings []domain.Outing, r *Resolver, n int) []RankEntry {
	t := newTally()
	for _, o := range outings {
		t.add(o.SpotID)
	}
	return t.top(n, r.SpotName)
}

// TopGear ranks gear by the number of outings listing it.
func TopGear(outings []domain.Outing, r *Resolver, n int) []RankEntry {
	t := newTally()
	for _, o := range outings {
		for _, id := range o.GearIDs {
			t.add(id)
		}
	}
	return t.top(n, r.GearName)
}

// UniqueUsage counts distinct non-empty spot ids and distinct gear ids
// referenced by any outing, dangling references included.
func UniqueUsage(outings []domain.Outing) Usage {
	spots := make(map[string]struct{})
	gear := make(map[string]struct{})
	for _, o := range outings {
		if o.SpotID != "" {
			spots[o.SpotID] = struct{}{}
		}
		for _, id := range o.GearIDs {
			if id != "" {
				gear[id] = struct{}{}
			}
		}
	}
	return Usage{Spots: len(spots), Gear: len(gear)}
}

// SummarizeCatches aggregates catches; species are grouped case-insensitively
// and displayed with the first spelling seen.
func SummarizeCatches(catches []domain.Catch, n int) CatchSummary {
	summary := CatchSummary{Total: len(catches)}
	t := newTally()
	display := make(map[string]string)
	for i := range catches {
		c := catches[i]
		key := strings.ToLower(strings.TrimSpace(c.Species))
		if key != "" {
			if _, ok := display[key]; !ok {
				display[key] = strings.TrimSpace(c.Species)
			}
			t.add(key)
		}
		if c.Weight == nil {
			continue
		}
		summary.Weighed++
		summary.TotalWeight += *c.Weight
		if summary.Heaviest == nil || *c.Weight > *summary.Heaviest.Weight {
			summary.Heaviest = &catches[i]
		}
	}
	summary.TopSpecies = t.top(n, func(key string) (string, RefState) {
		return display[key], RefResolved
	})
	return summary
}

// tally counts ids while remembering first-seen order.
type tally struct {
	order  []string
	counts map[string]int
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(id string) {
	if id == "" {
		return
	}
	if _, seen := t.counts[id]; !seen {
		t.order = append(t.order, id)
	}
	t.counts[id]++
}

// top sorts by count descending, keeping first-seen order among equal counts,
// and resolves the first n ids to names.
func (t *tally) top(n int, resolve func(string) (string, RefState)) []RankEntry {
	ids := append([]string(nil), t.order...)
	sort.SliceStable(ids, func(i, j int) bool {
		return t.counts[ids[i]] > t.counts[ids[j]]
	})
	if n >= 0 && len(ids) > n {
		ids = ids[:n]
	}
	entries := make([]RankEntry, 0, len(ids))
	for _, id := range ids {
		name, state := resolve(id)
		entries = append(entries, RankEntry{
			ID:      id,
			Name:    name,
			Count:   t.counts[id],
			Deleted: state == RefDangling,
		})
	}
	return entries
}

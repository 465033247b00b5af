package logbook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/claussann/FishingWebApp/internal/domain"
	"github.com/claussann/FishingWebApp/internal/store"
)

// ErrNotFound is returned when a delete targets an id that is not stored.
var ErrNotFound = errors.New("record not found")

// Statistics is the statistics view for one calendar year.
type Statistics struct {
	Year     int          `json:"year"`
	Months   [12]int      `json:"months"`
	TopMonth time.Month   `json:"topMonth,omitempty"` // zero when there are no outings
	TopSpots []RankEntry  `json:"topSpots"`
	TopGear  []RankEntry  `json:"topGear"`
	Usage    Usage        `json:"usage"`
	Totals   Totals       `json:"totals"`
	Catches  CatchSummary `json:"catches"`
}

// Logbook is the entity lifecycle service over the four collections.
//
// Writes are serialised by a mutex so that concurrent API requests cannot
// interleave their read-modify-save cycles. Reads always load fresh data.
type Logbook struct {
	cols   *store.Collections
	logger *slog.Logger

	mu       sync.Mutex
	onChange func()
}

// New creates a Logbook over the given collections.
func New(cols *store.Collections, logger *slog.Logger) *Logbook {
	return &Logbook{cols: cols, logger: logger}
}

// OnChange registers fn to run after every successful write. Only the last
// registered function is kept.
func (l *Logbook) OnChange(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = fn
}

// CheckReadiness returns nil when the backing store is reachable.
func (l *Logbook) CheckReadiness(ctx context.Context) error {
	if err := l.cols.Ping(ctx); err != nil {
		return fmt.Errorf("store unavailable: %w", err)
	}
	return nil
}

// Exclusive runs fn while holding the write lock and fires the change hook
// when it succeeds. It is used for writes spanning several collections,
// such as a backup restore.
func (l *Logbook) Exclusive(fn func() error) error {
	l.mu.Lock()
	err := fn()
	hook := l.onChange
	l.mu.Unlock()
	if err != nil {
		return err
	}
	if hook != nil {
		hook()
	}
	return nil
}

func (l *Logbook) AddGear(ctx context.Context, g domain.Gear) (domain.Gear, error) {
	g = g.Normalize()
	if err := g.Validate(); err != nil {
		return domain.Gear{}, err
	}
	g.ID, g.CreatedAt = domain.NewID(), domain.Now()
	if err := l.Exclusive(func() error { return appendRecord(ctx, l.cols.Gear, g) }); err != nil {
		return domain.Gear{}, err
	}
	l.logger.Debug("gear added", "id", g.ID, "category", g.Category)
	return g, nil
}

func (l *Logbook) AddSpot(ctx context.Context, s domain.Spot) (domain.Spot, error) {
	s = s.Normalize()
	if err := s.Validate(); err != nil {
		return domain.Spot{}, err
	}
	s.ID, s.CreatedAt = domain.NewID(), domain.Now()
	if err := l.Exclusive(func() error { return appendRecord(ctx, l.cols.Spots, s) }); err != nil {
		return domain.Spot{}, err
	}
	l.logger.Debug("spot added", "id", s.ID)
	return s, nil
}

func (l *Logbook) AddOuting(ctx context.Context, o domain.Outing) (domain.Outing, error) {
	o = o.Normalize()
	if err := o.Validate(); err != nil {
		return domain.Outing{}, err
	}
	o.ID, o.CreatedAt = domain.NewID(), domain.Now()
	if err := l.Exclusive(func() error { return appendRecord(ctx, l.cols.Outings, o) }); err != nil {
		return domain.Outing{}, err
	}
	l.logger.Debug("outing added", "id", o.ID, "date", o.Date)
	return o, nil
}

func (l *Logbook) AddCatch(ctx context.Context, c domain.Catch) (domain.Catch, error) {
	c = c.Normalize()
	if err := c.Validate(); err != nil {
		return domain.Catch{}, err
	}
	c.ID, c.CreatedAt = domain.NewID(), domain.Now()
	if err := l.Exclusive(func() error { return appendRecord(ctx, l.cols.Catches, c) }); err != nil {
		return domain.Catch{}, err
	}
	l.logger.Debug("catch added", "id", c.ID, "species", c.Species)
	return c, nil
}

// DeleteGear removes a gear item. Outings keep their reference, which then
// dangles.
func (l *Logbook) DeleteGear(ctx context.Context, id string) error {
	return l.Exclusive(func() error {
		return removeRecord(ctx, l.cols.Gear, id, func(g domain.Gear) string { return g.ID })
	})
}

// DeleteSpot removes a spot. Outings keep their reference, which then dangles.
func (l *Logbook) DeleteSpot(ctx context.Context, id string) error {
	return l.Exclusive(func() error {
		return removeRecord(ctx, l.cols.Spots, id, func(s domain.Spot) string { return s.ID })
	})
}

func (l *Logbook) DeleteOuting(ctx context.Context, id string) error {
	return l.Exclusive(func() error {
		return removeRecord(ctx, l.cols.Outings, id, func(o domain.Outing) string { return o.ID })
	})
}

func (l *Logbook) DeleteCatch(ctx context.Context, id string) error {
	return l.Exclusive(func() error {
		return removeRecord(ctx, l.cols.Catches, id, func(c domain.Catch) string { return c.ID })
	})
}

// ListGear returns stored gear, filtered by category unless it is empty.
func (l *Logbook) ListGear(ctx context.Context, category domain.GearCategory) []domain.Gear {
	all := l.cols.Gear.Load(ctx)
	if category == "" {
		return all
	}
	filtered := make([]domain.Gear, 0, len(all))
	for _, g := range all {
		if g.Category == category {
			filtered = append(filtered, g)
		}
	}
	return filtered
}

func (l *Logbook) ListSpots(ctx context.Context) []domain.Spot {
	return l.cols.Spots.Load(ctx)
}

func (l *Logbook) ListCatches(ctx context.Context) []domain.Catch {
	return l.cols.Catches.Load(ctx)
}

// Diary returns every outing joined with its names, newest first.
func (l *Logbook) Diary(ctx context.Context) []ResolvedOuting {
	r := l.resolver(ctx)
	outings := SortNewestFirst(l.cols.Outings.Load(ctx))
	diary := make([]ResolvedOuting, 0, len(outings))
	for _, o := range outings {
		diary = append(diary, r.ResolveOuting(o))
	}
	return diary
}

// Latest returns the most recent outing, false when the diary is empty.
func (l *Logbook) Latest(ctx context.Context) (ResolvedOuting, bool) {
	return LatestOuting(l.cols.Outings.Load(ctx), l.resolver(ctx))
}

// Totals returns the record count of each collection.
func (l *Logbook) Totals(ctx context.Context) Totals {
	return Totals{
		Gear:    len(l.cols.Gear.Load(ctx)),
		Spots:   len(l.cols.Spots.Load(ctx)),
		Outings: len(l.cols.Outings.Load(ctx)),
		Catches: len(l.cols.Catches.Load(ctx)),
	}
}

// Statistics computes the statistics view for year from the current data.
func (l *Logbook) Statistics(ctx context.Context, year int) Statistics {
	gear := l.cols.Gear.Load(ctx)
	spots := l.cols.Spots.Load(ctx)
	outings := l.cols.Outings.Load(ctx)
	catches := l.cols.Catches.Load(ctx)
	r := NewResolver(spots, gear)

	stats := Statistics{
		Year:     year,
		Months:   MonthlyHistogram(outings, year),
		TopSpots: TopSpots(outings, r, DefaultTopN),
		TopGear:  TopGear(outings, r, DefaultTopN),
		Usage:    UniqueUsage(outings),
		Totals: Totals{
			Gear:    len(gear),
			Spots:   len(spots),
			Outings: len(outings),
			Catches: len(catches),
		},
		Catches: SummarizeCatches(catches, DefaultTopN),
	}
	if month, ok := TopMonth(outings); ok {
		stats.TopMonth = month
	}
	return stats
}

func (l *Logbook) resolver(ctx context.Context) *Resolver {
	return NewResolver(l.cols.Spots.Load(ctx), l.cols.Gear.Load(ctx))
}

func appendRecord[T any](ctx context.Context, c *store.Collection[T], rec T) error {
	records := append(c.Load(ctx), rec)
	return c.Save(ctx, records)
}

func removeRecord[T any](ctx context.Context, c *store.Collection[T], id string, idOf func(T) string) error {
	records := c.Load(ctx)
	kept := make([]T, 0, len(records))
	for _, rec := range records {
		if idOf(rec) != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(records) {
		return fmt.Errorf("%s %q: %w", c.Key(), id, ErrNotFound)
	}
	return c.Save(ctx, kept)
}

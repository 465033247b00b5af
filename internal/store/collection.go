package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/claussann/FishingWebApp/internal/domain"
	"github.com/claussann/FishingWebApp/internal/observability"
)

// Storage keys of the four collections.
const (
	KeyGear    = "gear"
	KeySpots   = "spots"
	KeyOutings = "outings"
	KeyCatches = "catches"
)

// Collection is a typed repository over one JSON array stored under a key.
// Load never fails: unreadable or corrupt data is treated as empty. Save
// always replaces the whole array.
type Collection[T any] struct {
	kv      KV
	key     string
	logger  *slog.Logger
	metrics *observability.Metrics
}

func NewCollection[T any](kv KV, key string, logger *slog.Logger, metrics *observability.Metrics) *Collection[T] {
	return &Collection[T]{kv: kv, key: key, logger: logger, metrics: metrics}
}

// Key returns the storage key of the collection.
func (c *Collection[T]) Key() string { return c.key }

// Load returns the stored records in stored order, or an empty slice.
func (c *Collection[T]) Load(ctx context.Context) []T {
	raw, ok, err := c.kv.Get(ctx, c.key)
	if err != nil {
		c.recordRecovery("read failed, using empty collection", err)
		return []T{}
	}
	if !ok || len(raw) == 0 {
		return []T{}
	}

	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		c.recordRecovery("corrupt collection, using empty collection", err)
		return []T{}
	}
	if records == nil {
		return []T{}
	}
	return records
}

// Save replaces the stored collection with records.
func (c *Collection[T]) Save(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err := c.kv.Set(ctx, c.key, data); err != nil {
		return fmt.Errorf("save %s: %w", c.key, err)
	}
	c.metrics.StoreWrites.WithLabelValues(c.key).Inc()
	c.metrics.CollectionSize.WithLabelValues(c.key).Set(float64(len(records)))
	return nil
}

func (c *Collection[T]) recordRecovery(msg string, err error) {
	c.logger.Warn(msg, "collection", c.key, "error", err)
	c.metrics.StoreReadRecoveries.WithLabelValues(c.key).Inc()
}

// Collections bundles the four typed repositories of the fishing log.
type Collections struct {
	Gear    *Collection[domain.Gear]
	Spots   *Collection[domain.Spot]
	Outings *Collection[domain.Outing]
	Catches *Collection[domain.Catch]
	kv      KV
}

// NewCollections wires the four collections onto one KV store.
func NewCollections(kv KV, logger *slog.Logger, metrics *observability.Metrics) *Collections {
	return &Collections{
		Gear:    NewCollection[domain.Gear](kv, KeyGear, logger, metrics),
		Spots:   NewCollection[domain.Spot](kv, KeySpots, logger, metrics),
		Outings: NewCollection[domain.Outing](kv, KeyOutings, logger, metrics),
		Catches: NewCollection[domain.Catch](kv, KeyCatches, logger, metrics),
		kv:      kv,
	}
}

// Ping reports whether the backing store is reachable.
func (c *Collections) Ping(ctx context.Context) error {
	return c.kv.Ping(ctx)
}

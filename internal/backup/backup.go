// Package backup exports the fishing log to a single JSON document and
// restores it again.
//
// A restore is a full replace of all four collections. There is no merge, no
// deduplication and no gating on the document version: the version is only
// shown in the preview. Callers must ask for confirmation before Apply.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/claussann/FishingWebApp/internal/domain"
	"github.com/claussann/FishingWebApp/internal/observability"
	"github.com/claussann/FishingWebApp/internal/store"
)

// SchemaVersion is written into every exported document.
const SchemaVersion = "3.0"

var (
	// ErrMalformedDocument means the input is not a JSON object.
	ErrMalformedDocument = errors.New("backup is not a JSON object")
	// ErrEmptyDocument means every collection in the input is empty or missing.
	ErrEmptyDocument = errors.New("backup contains no recognisable data")
)

// Document is the on-disk backup format.
type Document struct {
	ExportDate time.Time       `json:"exportDate"`
	Version    string          `json:"version"`
	Gear       []domain.Gear   `json:"gear"`
	Spots      []domain.Spot   `json:"spots"`
	Outings    []domain.Outing `json:"outings"`
	Catches    []domain.Catch  `json:"catches"`
}

// Skipped counts array elements that could not be decoded, per collection.
type Skipped struct {
	Gear    int `json:"gear"`
	Spots   int `json:"spots"`
	Outings int `json:"outings"`
	Catches int `json:"catches"`
}

// Total returns the number of skipped elements across all collections.
func (s Skipped) Total() int { return s.Gear + s.Spots + s.Outings + s.Catches }

// Snapshot is a validated backup ready to be applied.
type Snapshot struct {
	ExportDate time.Time // zero when missing or unparseable
	Version    string
	Gear       []domain.Gear
	Spots      []domain.Spot
	Outings    []domain.Outing
	Catches    []domain.Catch
	Skipped    Skipped
}

func (s Snapshot) empty() bool {
	return len(s.Gear) == 0 && len(s.Spots) == 0 && len(s.Outings) == 0 && len(s.Catches) == 0
}

// Summary is what a user sees before confirming a restore.
type Summary struct {
	ExportDate *time.Time `json:"exportDate,omitempty"`
	Version    string     `json:"version,omitempty"`
	Gear       int        `json:"gear"`
	Spots      int        `json:"spots"`
	Outings    int        `json:"outings"`
	Catches    int        `json:"catches"`
	Skipped    Skipped    `json:"skipped"`
}

// Preview summarises a snapshot without touching the store.
func Preview(s Snapshot) Summary {
	sum := Summary{
		Version: s.Version,
		Gear:    len(s.Gear),
		Spots:   len(s.Spots),
		Outings: len(s.Outings),
		Catches: len(s.Catches),
		Skipped: s.Skipped,
	}
	if !s.ExportDate.IsZero() {
		at := s.ExportDate
		sum.ExportDate = &at
	}
	return sum
}

// Encode writes doc as indented JSON.
func Encode(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	return nil
}

// Validate parses raw into a Snapshot. Missing or non-array collections are
// treated as empty and elements that do not decode are skipped and counted.
func Validate(raw []byte) (Snapshot, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Snapshot{}, ErrMalformedDocument
	}

	var snap Snapshot
	if v, ok := fields["exportDate"]; ok {
		_ = json.Unmarshal(v, &snap.ExportDate)
	}
	if v, ok := fields["version"]; ok {
		_ = json.Unmarshal(v, &snap.Version)
	}
	snap.Gear, snap.Skipped.Gear = decodeArray[domain.Gear](fields["gear"])
	snap.Spots, snap.Skipped.Spots = decodeArray[domain.Spot](fields["spots"])
	snap.Outings, snap.Skipped.Outings = decodeArray[domain.Outing](fields["outings"])
	snap.Catches, snap.Skipped.Catches = decodeArray[domain.Catch](fields["catches"])

	if snap.empty() {
		return Snapshot{}, ErrEmptyDocument
	}
	return snap, nil
}

func decodeArray[T any](raw json.RawMessage) (records []T, skipped int) {
	records = []T{}
	if len(raw) == 0 {
		return records, 0
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return records, 0
	}
	for _, elem := range elems {
		if bytes.Equal(bytes.TrimSpace(elem), []byte("null")) {
			skipped++
			continue
		}
		var rec T
		if err := json.Unmarshal(elem, &rec); err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped
}

// Codec reads and replaces the stored collections.
type Codec struct {
	cols    *store.Collections
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewCodec creates a Codec. A nil clock uses real time.
func NewCodec(cols *store.Collections, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Codec {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Codec{cols: cols, clock: clock, logger: logger, metrics: metrics}
}

// Export loads all four collections verbatim.
func (c *Codec) Export(ctx context.Context) Document {
	return Document{
		ExportDate: c.clock.Now().UTC(),
		Version:    SchemaVersion,
		Gear:       c.cols.Gear.Load(ctx),
		Spots:      c.cols.Spots.Load(ctx),
		Outings:    c.cols.Outings.Load(ctx),
		Catches:    c.cols.Catches.Load(ctx),
	}
}

// Check validates raw and records the rejection reason in metrics.
func (c *Codec) Check(raw []byte) (Snapshot, error) {
	snap, err := Validate(raw)
	switch {
	case errors.Is(err, ErrMalformedDocument):
		c.metrics.Imports.WithLabelValues("malformed").Inc()
	case errors.Is(err, ErrEmptyDocument):
		c.metrics.Imports.WithLabelValues("empty").Inc()
	case snap.Skipped.Total() > 0:
		c.logger.Warn("backup elements skipped", "skipped", snap.Skipped.Total())
	}
	return snap, err
}

// Apply overwrites every collection with the snapshot contents. Collections
// are written one after another; a failure part way leaves the earlier ones
// replaced.
func (c *Codec) Apply(ctx context.Context, s Snapshot) error {
	if err := c.cols.Gear.Save(ctx, s.Gear); err != nil {
		return c.applyFailed(err)
	}
	if err := c.cols.Spots.Save(ctx, s.Spots); err != nil {
		return c.applyFailed(err)
	}
	if err := c.cols.Outings.Save(ctx, s.Outings); err != nil {
		return c.applyFailed(err)
	}
	if err := c.cols.Catches.Save(ctx, s.Catches); err != nil {
		return c.applyFailed(err)
	}
	c.metrics.Imports.WithLabelValues("applied").Inc()
	c.logger.Info("backup restored",
		"gear", len(s.Gear),
		"spots", len(s.Spots),
		"outings", len(s.Outings),
		"catches", len(s.Catches),
	)
	return nil
}

func (c *Codec) applyFailed(err error) error {
	c.metrics.Imports.WithLabelValues("error").Inc()
	return fmt.Errorf("restore backup: %w", err)
}

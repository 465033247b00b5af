package backup

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claussann/FishingWebApp/internal/domain"
	"github.com/claussann/FishingWebApp/internal/observability"
	"github.com/claussann/FishingWebApp/internal/store"
)

var exportTime = time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)

func newTestCodec(t *testing.T) (*Codec, *store.Collections, *observability.Metrics) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()
	cols := store.NewCollections(store.NewMemoryKV(), logger, metrics)
	return NewCodec(cols, clockwork.NewFakeClockAt(exportTime), logger, metrics), cols, metrics
}

func seed(t *testing.T, cols *store.Collections) {
	t.Helper()
	ctx := context.Background()
	w := 2.4
	require.NoError(t, cols.Gear.Save(ctx, []domain.Gear{
		{ID: "g1", Category: domain.GearRod, Name: "Surf rod", Quantity: 1, CreatedAt: exportTime},
	}))
	require.NoError(t, cols.Spots.Save(ctx, []domain.Spot{
		{ID: "s1", Name: "Pier", Lat: 44.4, Lng: 8.9, CreatedAt: exportTime},
	}))
	require.NoError(t, cols.Outings.Save(ctx, []domain.Outing{
		{ID: "o1", Date: domain.NewDate(2024, time.June, 1), SpotID: "s1", GearIDs: []string{"g1", "gone"}, CreatedAt: exportTime},
	}))
	require.NoError(t, cols.Catches.Save(ctx, []domain.Catch{
		{ID: "c1", Date: domain.NewDate(2024, time.June, 1), Species: "Sea bass", Weight: &w, CreatedAt: exportTime},
		{ID: "c2", Date: domain.NewDate(2024, time.June, 1), Species: "Bream", CreatedAt: exportTime},
	}))
}

func TestExport_StampsDateAndVersion(t *testing.T) {
	codec, cols, _ := newTestCodec(t)
	seed(t, cols)

	doc := codec.Export(context.Background())
	assert.Equal(t, exportTime, doc.ExportDate)
	assert.Equal(t, SchemaVersion, doc.Version)
	assert.Len(t, doc.Gear, 1)
	assert.Len(t, doc.Catches, 2)
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	codec, cols, _ := newTestCodec(t)
	seed(t, cols)
	before := codec.Export(ctx)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, before))

	target, targetCols, metrics := newTestCodec(t)
	snap, err := target.Check(buf.Bytes())
	require.NoError(t, err)
	require.NoError(t, target.Apply(ctx, snap))

	assert.Equal(t, before.Gear, targetCols.Gear.Load(ctx))
	assert.Equal(t, before.Spots, targetCols.Spots.Load(ctx))
	assert.Equal(t, before.Outings, targetCols.Outings.Load(ctx))
	assert.Equal(t, before.Catches, targetCols.Catches.Load(ctx))
	assert.Nil(t, targetCols.Catches.Load(ctx)[1].Weight, "absent weight stays absent")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Imports.WithLabelValues("applied")))
}

func TestValidate_RejectsMalformed(t *testing.T) {
	for _, raw := range []string{``, `not json`, `[1,2]`, `"text"`, `null`, `42`} {
		_, err := Validate([]byte(raw))
		assert.ErrorIs(t, err, ErrMalformedDocument, "input %q", raw)
	}
}

func TestValidate_RejectsEmpty(t *testing.T) {
	for _, raw := range []string{
		`{}`,
		`{"gear":[],"spots":[],"outings":[],"catches":[]}`,
		`{"gear":"nope","spots":{"a":1},"version":"3.0"}`,
	} {
		_, err := Validate([]byte(raw))
		assert.ErrorIs(t, err, ErrEmptyDocument, "input %q", raw)
	}
}

func TestValidate_OneGearIsEnough(t *testing.T) {
	snap, err := Validate([]byte(`{"gear":[{"id":"g1","category":"rod","name":"Rod","quantity":1}]}`))
	require.NoError(t, err)
	require.Len(t, snap.Gear, 1)
	assert.Equal(t, "Rod", snap.Gear[0].Name)
	assert.NotNil(t, snap.Spots)
	assert.Empty(t, snap.Spots)
	assert.True(t, snap.ExportDate.IsZero())
}

func TestValidate_SkipsUndecodableElements(t *testing.T) {
	raw := `{
		"version": "9.9",
		"exportDate": "2024-06-15T18:00:00Z",
		"spots": [{"id":"s1","name":"Pier","lat":1,"lng":2}, "garbage", {"lat":"north"}],
		"outings": [{"id":"o1","date":"not-a-date"}]
	}`

	snap, err := Validate([]byte(raw))
	require.NoError(t, err)
	assert.Len(t, snap.Spots, 1)
	assert.Empty(t, snap.Outings)
	assert.Equal(t, Skipped{Spots: 2, Outings: 1}, snap.Skipped)
	assert.Equal(t, 3, snap.Skipped.Total())
	assert.Equal(t, "9.9", snap.Version, "version is advisory")
	assert.Equal(t, exportTime, snap.ExportDate)
}

func TestValidate_NullElementsAreSkipped(t *testing.T) {
	_, err := Validate([]byte(`{"gear":[null]}`))
	assert.ErrorIs(t, err, ErrEmptyDocument, "a null element is not a record")

	snap, err := Validate([]byte(`{"gear":[null, {"id":"g1","category":"rod","name":"Rod","quantity":1}], "catches":[ null ]}`))
	require.NoError(t, err)
	require.Len(t, snap.Gear, 1)
	assert.Equal(t, "g1", snap.Gear[0].ID)
	assert.Equal(t, Skipped{Gear: 1, Catches: 1}, snap.Skipped)
}

func TestCheck_CountsRejections(t *testing.T) {
	codec, _, metrics := newTestCodec(t)

	_, err := codec.Check([]byte(`nope`))
	require.Error(t, err)
	_, err = codec.Check([]byte(`{}`))
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Imports.WithLabelValues("malformed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Imports.WithLabelValues("empty")))
}

func TestApply_FullReplace(t *testing.T) {
	ctx := context.Background()
	codec, cols, _ := newTestCodec(t)
	seed(t, cols)

	snap, err := Validate([]byte(`{"spots":[{"id":"s9","name":"Lake","lat":45,"lng":9}]}`))
	require.NoError(t, err)
	require.NoError(t, codec.Apply(ctx, snap))

	assert.Empty(t, cols.Gear.Load(ctx))
	assert.Empty(t, cols.Outings.Load(ctx))
	assert.Empty(t, cols.Catches.Load(ctx))
	spots := cols.Spots.Load(ctx)
	require.Len(t, spots, 1)
	assert.Equal(t, "s9", spots[0].ID)
}

func TestPreview(t *testing.T) {
	snap := Snapshot{
		Version: "2.0",
		Gear:    []domain.Gear{{ID: "g1"}, {ID: "g2"}},
		Skipped: Skipped{Catches: 1},
	}

	sum := Preview(snap)
	assert.Nil(t, sum.ExportDate)
	assert.Equal(t, 2, sum.Gear)
	assert.Equal(t, "2.0", sum.Version)
	assert.Equal(t, 1, sum.Skipped.Catches)

	snap.ExportDate = exportTime
	require.NotNil(t, Preview(snap).ExportDate)
}

func TestWriteSnapshotAndPrune(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "backups")

	names, err := ListSnapshots(dir)
	require.NoError(t, err)
	assert.Empty(t, names)

	for i := 0; i < 3; i++ {
		doc := Document{ExportDate: exportTime.Add(time.Duration(i) * time.Hour), Version: SchemaVersion}
		path, err := WriteSnapshot(dir, doc)
		require.NoError(t, err)
		assert.FileExists(t, path)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	names, err = ListSnapshots(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"fishlog-backup-2024-06-15T18-00-00.000.json",
		"fishlog-backup-2024-06-15T19-00-00.000.json",
		"fishlog-backup-2024-06-15T20-00-00.000.json",
	}, names)

	removed, err := PruneSnapshots(dir, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	names, err = ListSnapshots(dir)
	require.NoError(t, err)
	assert.Len(t, names, 2)
	assert.Equal(t, "fishlog-backup-2024-06-15T19-00-00.000.json", names[0])
}

func TestWriteSnapshot_SameInstantKeepsBoth(t *testing.T) {
	dir := t.TempDir()
	at := exportTime.Add(250 * time.Millisecond)

	first, err := WriteSnapshot(dir, Document{ExportDate: at, Version: SchemaVersion, Gear: []domain.Gear{{ID: "g1"}}})
	require.NoError(t, err)
	second, err := WriteSnapshot(dir, Document{ExportDate: at, Version: SchemaVersion, Gear: []domain.Gear{{ID: "g2"}}})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	names, err := ListSnapshots(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"fishlog-backup-2024-06-15T18-00-00.250.json",
		"fishlog-backup-2024-06-15T18-00-00.251.json",
	}, names)

	raw, err := os.ReadFile(first)
	require.NoError(t, err)
	snap, err := Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, "g1", snap.Gear[0].ID, "the first snapshot is not overwritten")
}

func TestWriteFile_ReadableByValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	doc := Document{ExportDate: exportTime, Version: SchemaVersion, Gear: []domain.Gear{{ID: "g1", Name: "Rod", Quantity: 1}}}

	require.NoError(t, WriteFile(path, doc))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	snap, err := Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, doc.Gear, snap.Gear)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file is cleaned up")
}

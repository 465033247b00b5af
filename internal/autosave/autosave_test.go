package autosave

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claussann/FishingWebApp/internal/backup"
	"github.com/claussann/FishingWebApp/internal/domain"
	"github.com/claussann/FishingWebApp/internal/observability"
)

type countingSink struct {
	calls atomic.Int32
	err   error
	done  chan struct{}
}

func newCountingSink() *countingSink {
	return &countingSink{done: make(chan struct{}, 10)}
}

func (s *countingSink) Flush(context.Context) error {
	s.calls.Add(1)
	s.done <- struct{}{}
	return s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitFlush(t *testing.T, s *countingSink) {
	t.Helper()
	select {
	case <-s.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for flush")
	}
}

func TestDebouncer_CoalescesBursts(t *testing.T) {
	clk := clockwork.NewFakeClock()
	sink := newCountingSink()
	metrics := observability.NewMetricsForTesting()
	d := NewDebouncer(sink, clk, time.Second, discardLogger(), metrics)

	d.Trigger()
	clk.Advance(500 * time.Millisecond)
	d.Trigger()
	clk.Advance(500 * time.Millisecond)
	d.Trigger()
	assert.Zero(t, sink.calls.Load(), "no flush while changes keep arriving")

	clk.Advance(time.Second)
	waitFlush(t, sink)

	d.Close()
	assert.Equal(t, int32(1), sink.calls.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AutosaveFlushes.WithLabelValues("success")))
}

func TestDebouncer_CloseFlushesPending(t *testing.T) {
	sink := newCountingSink()
	d := NewDebouncer(sink, clockwork.NewFakeClock(), time.Minute, discardLogger(), observability.NewMetricsForTesting())

	d.Trigger()
	d.Close()
	assert.Equal(t, int32(1), sink.calls.Load())

	d.Trigger()
	d.Close()
	assert.Equal(t, int32(1), sink.calls.Load(), "triggers after close are ignored")
}

func TestDebouncer_CloseWithoutTriggerDoesNothing(t *testing.T) {
	sink := newCountingSink()
	d := NewDebouncer(sink, nil, 0, discardLogger(), observability.NewMetricsForTesting())

	d.Close()
	assert.Zero(t, sink.calls.Load())
	assert.Equal(t, DefaultDelay, d.delay)
}

func TestDebouncer_SinkErrorIsCounted(t *testing.T) {
	sink := newCountingSink()
	sink.err = errors.New("disk full")
	metrics := observability.NewMetricsForTesting()
	d := NewDebouncer(sink, clockwork.NewFakeClock(), time.Second, discardLogger(), metrics)

	d.Trigger()
	d.Close()
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AutosaveFlushes.WithLabelValues("error")))
}

type staticExporter backup.Document

func (e staticExporter) Export(context.Context) backup.Document { return backup.Document(e) }

func TestFileSink_WritesBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "autosave.json")
	doc := backup.Document{Version: backup.SchemaVersion, Spots: []domain.Spot{{ID: "s1", Name: "Pier"}}}

	require.NoError(t, NewFileSink(path, staticExporter(doc)).Flush(context.Background()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	snap, err := backup.Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, "Pier", snap.Spots[0].Name)
}

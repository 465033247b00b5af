// Package autosave writes a backup file shortly after the log changes.
//
// Autosave is a convenience copy of the data, not a durability mechanism: the
// store remains the source of truth and a lost flush loses nothing stored.
package autosave

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/claussann/FishingWebApp/internal/backup"
	"github.com/claussann/FishingWebApp/internal/observability"
)

// DefaultDelay is the idle time after the last change before a flush.
const DefaultDelay = time.Second

// Sink receives one flush.
type Sink interface {
	Flush(ctx context.Context) error
}

// Debouncer coalesces bursts of Trigger calls into a single Sink flush that
// runs once no trigger has arrived for the configured delay.
type Debouncer struct {
	sink    Sink
	clock   clockwork.Clock
	delay   time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics

	mu      sync.Mutex
	timer   clockwork.Timer
	pending bool
	closed  bool

	flushMu sync.Mutex
}

// NewDebouncer creates a Debouncer. A nil clock uses real time and a
// non-positive delay uses DefaultDelay.
func NewDebouncer(sink Sink, clock clockwork.Clock, delay time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Debouncer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{sink: sink, clock: clock, delay: delay, logger: logger, metrics: metrics}
}

// Trigger schedules a flush, restarting the idle delay. It never blocks on
// the flush itself.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.pending = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.clock.AfterFunc(d.delay, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.mu.Unlock()
	d.flush()
}

// Close cancels the timer and runs a pending flush before returning. Later
// triggers are ignored.
func (d *Debouncer) Close() {
	d.mu.Lock()
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
	}
	pending := d.pending
	d.pending = false
	d.mu.Unlock()

	if pending {
		d.flush()
	}
}

func (d *Debouncer) flush() {
	d.flushMu.Lock()
	defer d.flushMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := d.sink.Flush(ctx); err != nil {
		d.logger.Error("autosave failed", "error", err)
		d.metrics.AutosaveFlushes.WithLabelValues("error").Inc()
		return
	}
	d.metrics.AutosaveFlushes.WithLabelValues("success").Inc()
	d.logger.Debug("autosave written")
}

// Exporter produces the document to write.
type Exporter interface {
	Export(ctx context.Context) backup.Document
}

// FileSink writes the exported document to a fixed path.
type FileSink struct {
	path     string
	exporter Exporter
}

func NewFileSink(path string, exporter Exporter) *FileSink {
	return &FileSink{path: path, exporter: exporter}
}

func (s *FileSink) Flush(ctx context.Context) error {
	return backup.WriteFile(s.path, s.exporter.Export(ctx))
}

// Package scheduler runs periodic jobs while the API server is up.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/claussann/FishingWebApp/internal/backup"
)

// Scheduler wraps cron-based jobs.
type Scheduler struct {
	cron *cron.Cron
}

func New(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.Recover(cronLogger{logger}))),
	}
}

// ScheduleInterval registers job to run every interval, rounded down to
// whole seconds.
func (s *Scheduler) ScheduleInterval(interval time.Duration, job func()) (cron.EntryID, error) {
	seconds := int(interval.Seconds())
	if seconds <= 0 {
		return 0, fmt.Errorf("interval must be at least 1s, got %s", interval)
	}
	return s.cron.AddFunc(fmt.Sprintf("@every %ds", seconds), job)
}

// Jobs returns the number of registered jobs.
func (s *Scheduler) Jobs() int { return len(s.cron.Entries()) }

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// cronLogger adapts slog to the cron.Logger interface.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}

// Exporter produces the document written by a snapshot.
type Exporter interface {
	Export(ctx context.Context) backup.Document
}

// SnapshotJob writes a timestamped backup into a directory and prunes old
// ones.
type SnapshotJob struct {
	exporter Exporter
	dir      string
	keep     int
	logger   *slog.Logger
}

func NewSnapshotJob(exporter Exporter, dir string, keep int, logger *slog.Logger) *SnapshotJob {
	return &SnapshotJob{exporter: exporter, dir: dir, keep: keep, logger: logger}
}

// Run writes one snapshot. Failures are logged; the next tick tries again.
func (j *SnapshotJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	path, err := backup.WriteSnapshot(j.dir, j.exporter.Export(ctx))
	if err != nil {
		j.logger.Error("snapshot failed", "dir", j.dir, "error", err)
		return
	}
	removed, err := backup.PruneSnapshots(j.dir, j.keep)
	if err != nil {
		j.logger.Warn("snapshot prune failed", "dir", j.dir, "error", err)
	}
	j.logger.Info("snapshot written", "path", path, "pruned", removed)
}

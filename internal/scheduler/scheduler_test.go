package scheduler

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claussann/FishingWebApp/internal/backup"
	"github.com/claussann/FishingWebApp/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type tickingExporter struct {
	at time.Time
}

func (e *tickingExporter) Export(context.Context) backup.Document {
	e.at = e.at.Add(time.Minute)
	return backup.Document{
		ExportDate: e.at,
		Version:    backup.SchemaVersion,
		Gear:       []domain.Gear{{ID: "g1", Name: "Rod", Quantity: 1}},
	}
}

func TestScheduleInterval(t *testing.T) {
	s := New(discardLogger())

	_, err := s.ScheduleInterval(0, func() {})
	require.Error(t, err)
	_, err = s.ScheduleInterval(500*time.Millisecond, func() {})
	require.Error(t, err)

	_, err = s.ScheduleInterval(time.Hour, func() {})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Jobs())

	s.Start()
	s.Stop()
}

func TestSnapshotJob_WritesAndPrunes(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "backups")
	job := NewSnapshotJob(&tickingExporter{at: time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC)}, dir, 2, discardLogger())

	for i := 0; i < 4; i++ {
		job.Run()
	}

	names, err := backup.ListSnapshots(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"fishlog-backup-2024-06-01T06-03-00.000.json",
		"fishlog-backup-2024-06-01T06-04-00.000.json",
	}, names)
}

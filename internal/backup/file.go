package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const snapshotPrefix = "fishlog-backup-"

// WriteFile writes doc to path through a temporary file in the same
// directory, so readers never observe a half-written backup.
func WriteFile(path string, doc Document) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".fishlog-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := Encode(tmp, doc); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename backup: %w", err)
	}
	return nil
}

// SnapshotName returns the file name of a timestamped snapshot. Names sort in
// time order at millisecond resolution.
func SnapshotName(now time.Time) string {
	return snapshotPrefix + now.UTC().Format("2006-01-02T15-04-05.000") + ".json"
}

// maxNameProbes bounds the search for a free snapshot name.
const maxNameProbes = 1000

// WriteSnapshot writes doc into dir under a timestamped name derived from
// its export date and returns the full path. An existing snapshot is never
// overwritten: the timestamp in the name moves forward one millisecond at a
// time until the name is free.
func WriteSnapshot(dir string, doc Document) (string, error) {
	at := doc.ExportDate
	for i := 0; i < maxNameProbes; i++ {
		path := filepath.Join(dir, SnapshotName(at))
		_, err := os.Stat(path)
		if err == nil {
			at = at.Add(time.Millisecond)
			continue
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("stat snapshot: %w", err)
		}
		if err := WriteFile(path, doc); err != nil {
			return "", err
		}
		return path, nil
	}
	return "", fmt.Errorf("no free snapshot name in %s near %s", dir, SnapshotName(doc.ExportDate))
}

// ListSnapshots returns the snapshot file names in dir, oldest first.
// A missing directory yields an empty list.
func ListSnapshots(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	names := []string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), snapshotPrefix) || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// PruneSnapshots removes the oldest snapshots in dir until at most keep
// remain. keep <= 0 disables pruning.
func PruneSnapshots(dir string, keep int) (removed int, err error) {
	if keep <= 0 {
		return 0, nil
	}
	names, err := ListSnapshots(dir)
	if err != nil {
		return 0, err
	}
	for len(names) > keep {
		if err := os.Remove(filepath.Join(dir, names[0])); err != nil {
			return removed, fmt.Errorf("remove snapshot: %w", err)
		}
		names = names[1:]
		removed++
	}
	return removed, nil
}

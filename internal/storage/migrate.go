// ABOUTME: Data migration between lift storage backends.
// ABOUTME: Copies entries, sessions, exercises, and set logs from source to destination.
package storage

import (
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Entries   int
	Sessions  int
	Exercises int
	SetLogs   int
}

// MigrateData copies all data from src to dst storage, preserving IDs,
// positions, and completion state. The destination should be empty
// before calling this function.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	entries, err := src.ListEntries(0)
	if err != nil {
		return nil, fmt.Errorf("list source entries: %w", err)
	}
	for _, e := range entries {
		if err := dst.CreateEntry(e); err != nil {
			return nil, fmt.Errorf("create entry %s: %w", e.ID, err)
		}
		summary.Entries++
	}

	sessions, err := src.ListSessions(0)
	if err != nil {
		return nil, fmt.Errorf("list source sessions: %w", err)
	}
	for _, s := range sessions {
		// CreateSession writes the exercises in the same transaction.
		if err := dst.CreateSession(s); err != nil {
			return nil, fmt.Errorf("create session %s: %w", s.ID, err)
		}
		summary.Sessions++
		summary.Exercises += len(s.Exercises)

		for _, ex := range s.Exercises {
			logs, err := src.ListSetLogs(ex.ID)
			if err != nil {
				return nil, fmt.Errorf("list set logs for %s: %w", ex.ID, err)
			}
			for _, sl := range logs {
				if err := dst.LogSet(sl); err != nil {
					return nil, fmt.Errorf("log set %s: %w", sl.ID, err)
				}
				summary.SetLogs++
			}
		}
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}

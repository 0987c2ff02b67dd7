// ABOUTME: CLI command for copying data between storage backends.
// ABOUTME: Refuses to write into a destination that already holds data.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/lift/internal/config"
	"github.com/harperreed/lift/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateTo    string
	migrateToDir string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy data to another storage backend",
	Long: `Copy every entry, session, exercise, and logged set from the current
backend to another one. IDs, positions, and completion state are preserved.

The source is the configured backend (or --backend/--data-dir).
The destination must be empty.

EXAMPLES:

  lift migrate --to badger
  lift migrate --to sqlite --to-dir ~/backup/lift

AFTER MIGRATION:

  Point lift at the new backend in ~/.config/lift/config.json:
    {"backend": "badger"}`,
	RunE: func(cmd *cobra.Command, args []string) error {
		to := strings.ToLower(migrateTo)
		if to != config.BackendSQLite && to != config.BackendBadger {
			return fmt.Errorf("--to must be %q or %q", config.BackendSQLite, config.BackendBadger)
		}

		toDir := cfg.GetDataDir()
		if migrateToDir != "" {
			toDir = config.ExpandPath(migrateToDir)
		}

		srcPath := config.StoragePath(cfg.GetBackend(), cfg.GetDataDir())
		dstPath := config.StoragePath(to, toDir)
		if filepath.Clean(srcPath) == filepath.Clean(dstPath) {
			return fmt.Errorf("source and destination are the same: %s", dstPath)
		}
		if err := ensureEmptyDestination(to, dstPath); err != nil {
			return err
		}

		dst, err := config.OpenBackend(to, toDir)
		if err != nil {
			return fmt.Errorf("failed to open destination: %w", err)
		}
		defer dst.Close()

		summary, err := storage.MigrateData(repo, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "✓ Migrated %s → %s\n", cfg.GetBackend(), to)
		fmt.Fprintf(out, "  Entries:   %d\n", summary.Entries)
		fmt.Fprintf(out, "  Sessions:  %d\n", summary.Sessions)
		fmt.Fprintf(out, "  Exercises: %d\n", summary.Exercises)
		fmt.Fprintf(out, "  Sets:      %d\n", summary.SetLogs)
		fmt.Fprintf(out, "  Location:  %s\n", dstPath)
		return nil
	},
}

func ensureEmptyDestination(backend, path string) error {
	if backend == config.BackendBadger {
		nonEmpty, err := storage.IsDirNonEmpty(path)
		if err != nil {
			return err
		}
		if nonEmpty {
			return fmt.Errorf("destination %s already contains data", path)
		}
		return nil
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("destination %s already exists", path)
	} else if !os.IsNotExist(err) {
		return err
	}
	return nil
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend: sqlite or badger")
	migrateCmd.Flags().StringVar(&migrateToDir, "to-dir", "", "destination data directory (default: current data dir)")
	_ = migrateCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(migrateCmd)
}

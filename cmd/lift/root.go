// ABOUTME: Root Cobra command for lift CLI.
// ABOUTME: Loads config, sets up logging, and manages the storage lifecycle.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/harperreed/lift/internal/config"
	"github.com/harperreed/lift/internal/mcp"
	"github.com/harperreed/lift/internal/storage"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	cfg  *config.Config
	repo storage.Repository

	flagBackend string
	flagDataDir string
	flagVerbose bool
)

// skipStorage marks commands that never touch the repository.
const skipStorage = "skip-storage"

var rootCmd = &cobra.Command{
	Use:   "lift",
	Short: "Workout logger for lifting sessions",
	Long: `Lift is a CLI tool for logging strength training.

WHAT IT TRACKS:

  Entries    standalone exercises (name, sets, reps, weight, notes)
  Sessions   ordered lists of exercises with per-exercise completion
  Sets       actual reps and weight logged against a session exercise

QUICK START:

  $ lift add "Bench Press" --sets 4 --reps 8 --weight 135
  $ lift list
  $ lift done abc12345

SESSIONS:

  $ lift session new --template "PUSH A"     # Seed from a template
  $ lift session show abc12345               # Exercises with progress
  $ lift session check def67890              # Mark an exercise done
  $ lift session set def67890 8 135          # Log a set

TEMPLATES:

  $ lift template list --category push
  $ lift template show "PULL B"

INTEGRATIONS:

  lift mcp      Model Context Protocol server on stdio
  lift serve    JSON HTTP API on 127.0.0.1:8080

DATA STORAGE:

  SQLite at ~/.local/share/lift/lift.db by default. Use --backend badger
  (or "backend" in ~/.config/lift/config.json) to switch to Badger.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if flagBackend != "" {
			cfg.Backend = flagBackend
		}
		if flagDataDir != "" {
			cfg.DataDir = flagDataDir
		}
		setupLogging(cfg, flagVerbose)

		if needsNoStorage(cmd) {
			return nil
		}

		repo, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
		}
		slog.Debug("storage opened", "backend", cfg.GetBackend(), "path", config.StoragePath(cfg.GetBackend(), cfg.GetDataDir()))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeRepo()
	},
}

func closeRepo() error {
	if repo == nil {
		return nil
	}
	err := repo.Close()
	repo = nil
	return err
}

func needsNoStorage(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipStorage] == "true" {
			return true
		}
	}
	return false
}

func setupLogging(c *config.Config, verbose bool) {
	level := c.GetLogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func init() {
	mcp.Version = version

	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend: sqlite or badger")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.local/share/lift)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

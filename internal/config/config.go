// ABOUTME: Lift configuration management with backend selection.
// ABOUTME: Merges the JSON config file with LIFT_* environment overrides.

package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/harperreed/lift/internal/storage"
)

const (
	// BackendSQLite stores everything in a single lift.db file.
	BackendSQLite = "sqlite"
	// BackendBadger stores everything in a badger/ directory.
	BackendBadger = "badger"

	// DefaultAddr is where `lift serve` listens unless told otherwise.
	DefaultAddr = "127.0.0.1:8080"
)

// Config stores lift tool configuration.
// Values from the config file are overridden by LIFT_* environment variables.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default) or "badger".
	Backend string `json:"backend,omitempty" env:"LIFT_BACKEND"`

	// DataDir is the root directory for data storage.
	// SQLite puts lift.db here. Badger puts a badger/ folder here.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/lift.
	DataDir string `json:"data_dir,omitempty" env:"LIFT_DATA_DIR"`

	// LogLevel is one of debug, info, warn, error. Defaults to warn.
	LogLevel string `json:"log_level,omitempty" env:"LIFT_LOG_LEVEL"`

	// Addr is the listen address for the HTTP API.
	Addr string `json:"addr,omitempty" env:"LIFT_ADDR"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return strings.ToLower(c.Backend)
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetLogLevel parses LogLevel, defaulting to warn for empty or unknown values.
func (c *Config) GetLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// GetAddr returns the HTTP listen address.
func (c *Config) GetAddr() string {
	if c.Addr == "" {
		return DefaultAddr
	}
	return c.Addr
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage() (storage.Repository, error) {
	return OpenBackend(c.GetBackend(), c.GetDataDir())
}

// OpenBackend opens the named backend rooted at dataDir.
func OpenBackend(backend, dataDir string) (storage.Repository, error) {
	switch backend {
	case BackendSQLite:
		return storage.Open(filepath.Join(dataDir, "lift.db"))
	case BackendBadger:
		return storage.OpenBadger(filepath.Join(dataDir, "badger"))
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// StoragePath returns the file or directory a backend keeps its data in.
func StoragePath(backend, dataDir string) string {
	if backend == BackendBadger {
		return filepath.Join(dataDir, "badger")
	}
	return filepath.Join(dataDir, "lift.db")
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "lift", "config.json")
}

// Load reads config from disk and applies environment overrides.
func Load() (*Config, error) {
	cfg, err := loadFile(GetConfigPath())
	if err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// ABOUTME: Trainer configuration management with backend selection.
// ABOUTME: Loads a JSON config file, applies TRAINER_* environment overrides, and opens storage.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v6"
	"github.com/charmbracelet/log"
	"github.com/harperreed/trainer/internal/charm"
	"github.com/harperreed/trainer/internal/storage"
	"go.uber.org/multierr"
)

// Backend names accepted by OpenStorage.
const (
	BackendSQLite   = "sqlite"
	BackendMarkdown = "markdown"
	BackendCharm    = "charm"
)

// DefaultAddr is the HTTP listen address used by `trainer serve`.
const DefaultAddr = "127.0.0.1:8080"

// Config stores trainer configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default), "markdown", or "charm".
	Backend string `json:"backend,omitempty" env:"TRAINER_BACKEND"`

	// DataDir is the root directory for data storage.
	// SQLite puts trainer.db here. Markdown puts exercises/, profiles/, workouts/ and records/ here.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/trainer.
	DataDir string `json:"data_dir,omitempty" env:"TRAINER_DATA_DIR"`

	// UserID owns profiles, workouts and records created from this machine.
	UserID string `json:"user_id,omitempty" env:"TRAINER_USER"`

	// Timezone is an IANA name ("Europe/Berlin") or "Local". Day buckets and streaks use it.
	Timezone string `json:"timezone,omitempty" env:"TRAINER_TIMEZONE"`

	// WeekStart is the first day of a progress week, e.g. "sunday" or "monday".
	WeekStart string `json:"week_start,omitempty" env:"TRAINER_WEEK_START"`

	Addr     string `json:"addr,omitempty" env:"TRAINER_ADDR"`
	LogLevel string `json:"log_level,omitempty" env:"TRAINER_LOG_LEVEL"`
	LogFile  string `json:"log_file,omitempty" env:"TRAINER_LOG_FILE"`
	LogJSON  bool   `json:"log_json,omitempty" env:"TRAINER_LOG_JSON"`
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

// GetUserID returns the configured user, falling back to $USER and then "default".
func (c *Config) GetUserID() string {
	if c.UserID != "" {
		return c.UserID
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "default"
}

// GetAddr returns the HTTP listen address.
func (c *Config) GetAddr() string {
	if c.Addr == "" {
		return DefaultAddr
	}
	return c.Addr
}

// GetLogLevel returns the configured log level name, defaulting to "info".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "info"
	}
	return c.LogLevel
}

// Location resolves Timezone. Empty and "Local" mean the machine's zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// WeekDay parses WeekStart, defaulting to Sunday.
func (c *Config) WeekDay() (time.Weekday, error) {
	if c.WeekStart == "" {
		return time.Sunday, nil
	}
	day, ok := weekdays[strings.ToLower(strings.TrimSpace(c.WeekStart))]
	if !ok {
		return time.Sunday, fmt.Errorf("unknown week start %q", c.WeekStart)
	}
	return day, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs error

	switch c.GetBackend() {
	case BackendSQLite, BackendMarkdown, BackendCharm:
	default:
		errs = multierr.Append(errs, fmt.Errorf("unknown backend: %q", c.Backend))
	}
	if _, err := c.Location(); err != nil {
		errs = multierr.Append(errs, err)
	}
	if _, err := c.WeekDay(); err != nil {
		errs = multierr.Append(errs, err)
	}
	if _, err := log.ParseLevel(c.GetLogLevel()); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("log level %q: %w", c.LogLevel, err))
	}

	return errs
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
	backend := c.GetBackend()
	dataDir := c.GetDataDir()

	switch backend {
	case BackendSQLite:
		return storage.Open(filepath.Join(dataDir, storage.DBFileName))
	case BackendMarkdown:
		return storage.NewMarkdownStore(dataDir)
	case BackendCharm:
		return charm.InitClient(charm.Options{AutoSync: true})
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "trainer", "config.json")
}

// Load reads config from disk and applies TRAINER_* environment overrides.
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
		return nil, err
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

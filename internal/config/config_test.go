// ABOUTME: Tests for trainer configuration management.
// ABOUTME: Covers load, save, env overrides, defaults, backend selection, and path expansion.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGetBackend(t *testing.T) {
	tests := []struct {
		backend string
		want    string
	}{
		{"", "sqlite"},
		{"markdown", "markdown"},
		{"Charm", "charm"},
	}
	for _, tt := range tests {
		cfg := &Config{Backend: tt.backend}
		if got := cfg.GetBackend(); got != tt.want {
			t.Errorf("GetBackend() with %q = %q, want %q", tt.backend, got, tt.want)
		}
	}
}

func TestGetDataDir(t *testing.T) {
	home, _ := os.UserHomeDir()

	if got := (&Config{}).GetDataDir(); got == "" {
		t.Error("GetDataDir() returned empty string")
	}
	if got := (&Config{DataDir: "/tmp/trainer-test"}).GetDataDir(); got != "/tmp/trainer-test" {
		t.Errorf("GetDataDir() = %q, want %q", got, "/tmp/trainer-test")
	}
	if got, want := (&Config{DataDir: "~/trainer-data"}).GetDataDir(), filepath.Join(home, "trainer-data"); got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/tmp/foo", "/tmp/foo"},
		{"~", home},
		{"~/data/trainer", filepath.Join(home, "data/trainer")},
		{"data/trainer", "data/trainer"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDefaults(t *testing.T) {
	t.Setenv("USER", "casey")
	cfg := &Config{}

	if got := cfg.GetUserID(); got != "casey" {
		t.Errorf("GetUserID() = %q, want casey", got)
	}
	if got := cfg.GetAddr(); got != DefaultAddr {
		t.Errorf("GetAddr() = %q, want %q", got, DefaultAddr)
	}
	if got := cfg.GetLogLevel(); got != "info" {
		t.Errorf("GetLogLevel() = %q, want info", got)
	}

	t.Setenv("USER", "")
	if got := cfg.GetUserID(); got != "default" {
		t.Errorf("GetUserID() without $USER = %q, want default", got)
	}
}

func TestLocation(t *testing.T) {
	loc, err := (&Config{}).Location()
	if err != nil || loc != time.Local {
		t.Errorf("empty timezone: got %v, %v; want Local", loc, err)
	}

	loc, err = (&Config{Timezone: "Europe/Berlin"}).Location()
	if err != nil {
		t.Fatalf("Location() failed: %v", err)
	}
	if loc.String() != "Europe/Berlin" {
		t.Errorf("Location() = %s, want Europe/Berlin", loc)
	}

	if _, err := (&Config{Timezone: "Mars/Olympus"}).Location(); err == nil {
		t.Error("Expected error for unknown timezone")
	}
}

func TestWeekDay(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Weekday
		wantErr bool
	}{
		{"", time.Sunday, false},
		{"monday", time.Monday, false},
		{" Sat ", time.Saturday, false},
		{"someday", time.Sunday, true},
	}
	for _, tt := range tests {
		got, err := (&Config{WeekStart: tt.in}).WeekDay()
		if (err != nil) != tt.wantErr {
			t.Errorf("WeekDay(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("WeekDay(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	if err := (&Config{}).Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}

	cfg := &Config{Backend: "floppy", Timezone: "Mars/Olympus", WeekStart: "someday", LogLevel: "loud"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected validation errors")
	}
	for _, want := range []string{"floppy", "Mars/Olympus", "someday", "loud"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error %q does not mention %q", err, want)
		}
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg.Backend != "" || cfg.DataDir != "" {
		t.Errorf("Expected empty config, got %+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := &Config{
		Backend:   "markdown",
		DataDir:   "/tmp/trainer-data",
		UserID:    "alice",
		Timezone:  "UTC",
		WeekStart: "monday",
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Load() = %+v, want %+v", *loaded, *cfg)
	}
}

func TestLoadAppliesEnvironment(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if err := (&Config{Backend: "markdown", UserID: "alice"}).Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	t.Setenv("TRAINER_BACKEND", "sqlite")
	t.Setenv("TRAINER_LOG_JSON", "true")
	t.Setenv("TRAINER_WEEK_START", "monday")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Backend != "sqlite" {
		t.Errorf("Backend = %q, want env override sqlite", cfg.Backend)
	}
	if cfg.UserID != "alice" {
		t.Errorf("UserID = %q, want file value alice", cfg.UserID)
	}
	if !cfg.LogJSON || cfg.WeekStart != "monday" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "nonexistent"))

	if err := (&Config{Backend: "sqlite"}).Save(); err != nil {
		t.Fatalf("Save() should create directory: %v", err)
	}

	configDir := filepath.Join(tmpDir, "nonexistent", "trainer")
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		t.Error("Expected config directory to be created")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, "trainer")
	if err := os.MkdirAll(configDir, 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid JSON config")
	}
}

func TestGetConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	want := filepath.Join(tmpDir, "trainer", "config.json")
	if got := GetConfigPath(); got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestOpenStorageSQLite(t *testing.T) {
	tmpDir := t.TempDir()

	repo, err := (&Config{Backend: "sqlite", DataDir: tmpDir}).OpenStorage()
	if err != nil {
		t.Fatalf("OpenStorage() for sqlite failed: %v", err)
	}
	defer repo.Close()

	if _, err := os.Stat(filepath.Join(tmpDir, "trainer.db")); os.IsNotExist(err) {
		t.Error("Expected trainer.db to be created")
	}
}

func TestOpenStorageDefaultBackend(t *testing.T) {
	repo, err := (&Config{DataDir: t.TempDir()}).OpenStorage()
	if err != nil {
		t.Fatalf("OpenStorage() with default backend failed: %v", err)
	}
	defer repo.Close()
}

func TestOpenStorageMarkdown(t *testing.T) {
	repo, err := (&Config{Backend: "markdown", DataDir: t.TempDir()}).OpenStorage()
	if err != nil {
		t.Fatalf("OpenStorage() for markdown failed: %v", err)
	}
	defer repo.Close()
}

func TestOpenStorageInvalidBackend(t *testing.T) {
	if _, err := (&Config{Backend: "invalid", DataDir: "/tmp"}).OpenStorage(); err == nil {
		t.Error("Expected error for invalid backend")
	}
}

func TestConfigJSONOmitsEmpty(t *testing.T) {
	data, err := json.Marshal(&Config{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("Expected empty JSON object, got %s", string(data))
	}
}

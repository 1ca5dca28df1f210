// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Runs the root command end to end against a temporary SQLite data dir.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestParseTime(t *testing.T) {
	loc := time.FixedZone("test", 2*3600)
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"date and time with space", "2025-01-31 08:30", time.Date(2025, 1, 31, 8, 30, 0, 0, loc), false},
		{"date and time with T", "2025-01-31T08:30", time.Date(2025, 1, 31, 8, 30, 0, 0, loc), false},
		{"date only", "2025-01-31", time.Date(2025, 1, 31, 0, 0, 0, 0, loc), false},
		{"RFC3339", "2025-01-31T08:30:00Z", time.Date(2025, 1, 31, 8, 30, 0, 0, time.UTC), false},
		{"invalid format", "31-01-2025", time.Time{}, true},
		{"empty string", "", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTime(tt.input, loc)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestTruncateAndPad(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a very ...", truncate("a very long name", 10))
	assert.Equal(t, "ab   ", padRight("ab", 5))
	assert.Equal(t, "abcdef", padRight("abcdef", 3))
}

func TestFormatWeight(t *testing.T) {
	assert.Equal(t, "bodyweight", formatWeight(0))
	assert.Equal(t, "72.5 kg", formatWeight(72.5))
}

func TestFormatDelta(t *testing.T) {
	assert.Equal(t, "(+50%)", formatDelta(50))
	assert.Equal(t, "(-20%)", formatDelta(-20))
	assert.Equal(t, "(±0%)", formatDelta(0))
}

// resetFlags restores every flag to its default so commands can run again.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			var def []string
			if trimmed := strings.Trim(f.DefValue, "[]"); trimmed != "" {
				def = strings.Split(trimmed, ",")
			}
			_ = sv.Replace(def)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

type cliEnv struct {
	t       *testing.T
	dataDir string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("TRAINER_BACKEND", "")
	t.Setenv("TRAINER_TIMEZONE", "")
	t.Setenv("TRAINER_WEEK_START", "")
	t.Cleanup(func() { _ = teardown() })
	return &cliEnv{t: t, dataDir: t.TempDir()}
}

func (e *cliEnv) run(args ...string) (string, error) {
	e.t.Helper()
	resetFlags(rootCmd)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append([]string{"--data-dir", e.dataDir, "--user", "tester"}, args...))

	err := rootCmd.Execute()
	// Post-run is skipped when RunE fails.
	_ = teardown()
	return buf.String(), err
}

func (e *cliEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	require.NoError(e.t, err, out)
	return out
}

func TestProfileAndPlanFlow(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun("profile", "show")
	assert.Contains(t, out, "No profile for tester yet")

	out = env.mustRun("profile", "set",
		"--goal", "build_muscle", "--level", "intermediate",
		"--equipment", "barbell,bench", "--focus", "chest", "--time", "20", "--bench", "100")
	assert.Contains(t, out, "Saved profile for tester")

	out = env.mustRun("plan", "generate")
	assert.Contains(t, out, "Bench Press")
	assert.Contains(t, out, "4 x 8 @ 75 kg")
	assert.Contains(t, out, "Preview only")

	out = env.mustRun("plan", "list")
	assert.Contains(t, out, "No workouts found.")

	out = env.mustRun("plan", "generate", "--save")
	assert.Contains(t, out, "Saved workout")

	out = env.mustRun("plan", "list")
	assert.Contains(t, out, "intermediate")
	assert.NotContains(t, out, "No workouts found.")

	out = env.mustRun("streak")
	assert.Contains(t, out, "1 day")
}

func TestPlanOverrides(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun("plan", "generate", "--focus", "legs", "--time", "20")
	assert.Contains(t, out, "Squats")
	assert.Contains(t, out, "3 x 10 @ bodyweight")

	_, err := env.run("plan", "generate")
	assert.Error(t, err, "default profile has no focus areas")
}

func TestLogAndRecords(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun("log", "bench-press", "5", "100", "--unit", "kg")
	assert.Contains(t, out, "New max_weight record for bench-press: 100 kg")
	assert.Contains(t, out, "New one_rep_max record for bench-press: 113 kg")

	out = env.mustRun("log", "bench-press", "3", "90", "--unit", "kg")
	assert.Contains(t, out, "record stands at 100 kg")

	out = env.mustRun("record", "add", "running", "max_distance", "10", "--unit", "km")
	assert.Contains(t, out, "New max_distance record for running")

	out = env.mustRun("record", "list", "--exercise", "bench-press")
	assert.Contains(t, out, "max_weight")
	assert.NotContains(t, out, "running")

	out = env.mustRun("stats")
	assert.Contains(t, out, "Recent records")

	_, err := env.run("record", "add", "running", "max_speed", "10")
	assert.Error(t, err)

	_, err = env.run("log", "bench-press", "five")
	assert.Error(t, err)
}

func TestEstimate(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun("estimate", "100", "5")
	assert.Contains(t, out, "Estimated 1RM: 113")

	_, err := env.run("estimate", "100", "40")
	assert.Error(t, err)
}

func TestCatalogCommands(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun("catalog", "list", "--muscle", "chest")
	assert.Contains(t, out, "pushups")
	assert.NotContains(t, out, "deadlift")

	out = env.mustRun("catalog", "add", "landmine-press",
		"--name", "Landmine Press", "--muscles", "shoulders,chest", "--equipment", "barbell")
	assert.Contains(t, out, "Added Landmine Press")

	out = env.mustRun("catalog", "list", "--equipment", "barbell")
	assert.Contains(t, out, "landmine-press")
}

func TestExportImportRoundTrip(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("log", "deadlift", "3", "150")

	backup := filepath.Join(t.TempDir(), "backup.json")
	out := env.mustRun("export", "json", "-o", backup)
	assert.Contains(t, out, "Exported to")

	raw, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "deadlift")

	other := newCLIEnv(t)
	out = other.mustRun("import", backup)
	assert.Contains(t, out, "Imported from")

	out = other.mustRun("record", "list")
	assert.Contains(t, out, "deadlift")

	out = env.mustRun("export", "markdown")
	assert.Contains(t, out, "deadlift")

	_, err = env.run("export", "csv")
	assert.Error(t, err)
}

func TestMigrateToMarkdown(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("log", "squat", "5", "120")

	dest := filepath.Join(t.TempDir(), "md")
	out := env.mustRun("migrate", "--to", "markdown", "--to-dir", dest, "--dry-run")
	assert.Contains(t, out, "Dry run")
	nonEmpty, err := os.ReadDir(dest)
	assert.True(t, err != nil || len(nonEmpty) == 0)

	out = env.mustRun("migrate", "--to", "markdown", "--to-dir", dest)
	assert.Contains(t, out, "Migrated to markdown")

	_, err = env.run("migrate", "--to", "markdown", "--to-dir", dest)
	assert.Error(t, err, "destination is no longer empty")

	md := &cliEnv{t: t, dataDir: dest}
	out = md.mustRun("--backend", "markdown", "record", "list")
	assert.Contains(t, out, "squat")
}

func TestSyncRequiresCharmBackend(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run("sync", "status")
	assert.ErrorIs(t, err, errNotCharm)
}

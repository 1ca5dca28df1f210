// ABOUTME: Root Cobra command for trainer CLI.
// ABOUTME: Loads config, opens storage, and builds the coach service in PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/harperreed/trainer/internal/coach"
	"github.com/harperreed/trainer/internal/config"
	"github.com/harperreed/trainer/internal/logging"
	"github.com/harperreed/trainer/internal/metrics"
	"github.com/harperreed/trainer/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var (
	cfg            *config.Config
	repo           storage.Repository
	svc            *coach.Service
	logger         *log.Logger
	promRegistry   *prometheus.Registry
	metricsManager *metrics.Manager
	userID         string

	flagBackend string
	flagDataDir string
	flagUser    string
)

// skipSetup lists commands that never touch storage.
var skipSetup = map[string]bool{
	"help":          true,
	"version":       true,
	"install-skill": true,
	"completion":    true,
}

var rootCmd = &cobra.Command{
	Use:   "trainer",
	Short: "Workout planning and personal record tracker",
	Long: `Trainer generates workout plans from your fitness profile and tracks your
personal records and training progress.

QUICK START:

  $ trainer profile set --goal build_muscle --focus chest,back --equipment barbell,bench
  $ trainer plan generate --save        # Build and save today's workout
  $ trainer log bench-press 5 100       # Log a set of 5 reps at 100 kg
  $ trainer record list                 # See your personal records
  $ trainer progress --timeframe month  # Compare this month with last month
  $ trainer streak                      # Consecutive training days

GOALS:

  build_muscle        4 x 8 at 75% of your max
  increase_strength   5 x 5 at 85%
  lose_weight         3 x 15 at 65%
  improve_endurance   3 x 12 at 70%
  general             3 x 10 at 70%

STORAGE:

  sqlite (default)   ~/.local/share/trainer/trainer.db
  markdown           human-editable files with YAML frontmatter
  charm              Charm KV with encrypted cloud sync

  Choose with --backend, TRAINER_BACKEND, or "backend" in
  ~/.config/trainer/config.json.

MCP AND HTTP:

  Run 'trainer mcp' for the Model Context Protocol server, or
  'trainer serve' for the JSON API with Prometheus metrics.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if skipSetup[cmd.Name()] {
			return nil
		}
		return setup(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return teardown()
	},
}

func setup(cmd *cobra.Command) error {
	c, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if flagBackend != "" {
		c.Backend = flagBackend
	}
	if flagDataDir != "" {
		c.DataDir = flagDataDir
	}
	if flagUser != "" {
		c.UserID = flagUser
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	cfg = c

	logger = logging.New(logging.Options{
		Level:  c.GetLogLevel(),
		JSON:   c.LogJSON,
		File:   c.LogFile,
		Prefix: "trainer",
	})

	loc, _ := c.Location()
	weekStart, _ := c.WeekDay()

	repo, err = c.OpenStorage()
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", c.GetBackend(), err)
	}
	logger.Debug("storage opened", "backend", c.GetBackend(), "data_dir", c.GetDataDir())

	promRegistry = metrics.SetupPrometheus()
	metricsManager = metrics.NewManager(metrics.Namespace, metrics.Subsystem, promRegistry)

	userID = c.GetUserID()
	svc = coach.New(repo,
		coach.WithLocation(loc),
		coach.WithWeekStart(weekStart),
		coach.WithLogger(logger),
		coach.WithMetrics(metricsManager),
	)

	if _, err := svc.SeedCatalog(cmd.Context()); err != nil {
		return fmt.Errorf("failed to seed exercise catalog: %w", err)
	}
	return nil
}

func teardown() error {
	if repo == nil {
		return nil
	}
	err := repo.Close()
	repo = nil
	svc = nil
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend: sqlite, markdown, or charm")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.local/share/trainer)")
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "", "user the data belongs to (default $USER)")
}

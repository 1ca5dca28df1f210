// ABOUTME: CLI command for copying training data between storage backends.
// ABOUTME: Moves the catalog, profiles, workouts, and records from the active backend to another.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harperreed/trainer/internal/config"
	"github.com/harperreed/trainer/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateTo     string
	migrateToDir  string
	migrateDryRun bool
	migrateForce  bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy data to another storage backend",
	Long: `Copy all training data from the active backend to another one.

The destination must be empty unless --force is given. After migrating,
switch backends with "backend" in ~/.config/trainer/config.json or
TRAINER_BACKEND.

EXAMPLES:

  trainer migrate --to markdown --to-dir ~/notes/training --dry-run
  trainer migrate --to markdown --to-dir ~/notes/training
  trainer --backend markdown migrate --to sqlite`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		dstCfg := *cfg
		dstCfg.Backend = migrateTo
		if migrateToDir != "" {
			dstCfg.DataDir = migrateToDir
		}
		if dstCfg.GetBackend() == cfg.GetBackend() && dstCfg.GetDataDir() == cfg.GetDataDir() {
			return errors.New("source and destination are the same")
		}

		if !migrateForce {
			if err := checkDestinationEmpty(&dstCfg); err != nil {
				return err
			}
		}

		if migrateDryRun {
			data, err := storage.CollectAll(ctx, repo)
			if err != nil {
				return fmt.Errorf("failed to read source: %w", err)
			}
			warn(out, "Dry run, nothing written")
			fmt.Fprintf(out, "Would copy to %s at %s:\n", dstCfg.GetBackend(), dstCfg.GetDataDir())
			fmt.Fprintf(out, "  Exercises: %d\n  Profiles:  %d\n  Workouts:  %d\n  Records:   %d\n",
				len(data.Exercises), len(data.Profiles), len(data.Workouts), len(data.Records))
			return nil
		}

		dst, err := dstCfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open destination: %w", err)
		}
		defer dst.Close()

		sum, err := storage.MigrateData(ctx, repo, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		success(out, "Migrated to %s at %s", dstCfg.GetBackend(), dstCfg.GetDataDir())
		fmt.Fprintf(out, "  Exercises: %d\n  Profiles:  %d\n  Workouts:  %d\n  Records:   %d\n",
			sum.Exercises, sum.Profiles, sum.Workouts, sum.Records)
		return nil
	},
}

func checkDestinationEmpty(c *config.Config) error {
	switch c.GetBackend() {
	case config.BackendMarkdown:
		nonEmpty, err := storage.IsDirNonEmpty(c.GetDataDir())
		if err != nil {
			return fmt.Errorf("failed to check destination: %w", err)
		}
		if nonEmpty {
			return fmt.Errorf("destination %s is not empty (use --force to merge)", c.GetDataDir())
		}
	case config.BackendSQLite:
		path := filepath.Join(c.GetDataDir(), storage.DBFileName)
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("destination %s already exists (use --force to merge)", path)
		}
	}
	return nil
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend: sqlite, markdown, or charm")
	migrateCmd.Flags().StringVar(&migrateToDir, "to-dir", "", "destination data directory (default: same as source)")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "write into a non-empty destination")
	_ = migrateCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(migrateCmd)
}

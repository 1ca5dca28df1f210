// ABOUTME: CLI commands for exporting and importing training data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats over any backend.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/harperreed/trainer/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportSince  string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export training data",
	Long: `Export training data in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable)
  markdown   Workout and record report for the current user

EXAMPLES:

  trainer export json -o backup.json
  trainer export yaml
  trainer export markdown --since 2024-01-01`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var data []byte
		var err error

		switch args[0] {
		case "json":
			data, err = storage.ExportJSON(ctx, repo)
		case "yaml":
			data, err = storage.ExportYAML(ctx, repo)
		case "markdown", "md":
			var since *time.Time
			if exportSince != "" {
				t, perr := time.ParseInLocation("2006-01-02", exportSince, svc.Location())
				if perr != nil {
					return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
				}
				since = &t
			}
			var md string
			md, err = storage.ExportMarkdown(ctx, repo, userID, since)
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", args[0])
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			success(cmd.OutOrStdout(), "Exported to %s", exportOutput)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import training data from a JSON backup",
	Long: `Import training data from a JSON backup file.

Exercises and profiles are overwritten, workouts that already exist are
skipped, and records only replace weaker ones.

EXAMPLES:

  trainer import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		sum, err := storage.ImportJSON(cmd.Context(), repo, raw)
		out := cmd.OutOrStdout()
		if sum != nil {
			fmt.Fprintf(out, "  Exercises: %d\n  Profiles:  %d\n  Workouts:  %d\n  Records:   %d\n  Skipped:   %d\n",
				sum.Exercises, sum.Profiles, sum.Workouts, sum.Records, sum.Skipped)
		}
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		success(out, "Imported from %s", args[0])
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include workouts since date (YYYY-MM-DD, markdown only)")

	rootCmd.AddCommand(exportCmd, importCmd)
}

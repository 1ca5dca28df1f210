// ABOUTME: CLI commands for logging performances and viewing personal records.
// ABOUTME: Covers record add/list, quick set logging, and one-rep max estimates.
package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/trainer/internal/models"
	"github.com/harperreed/trainer/internal/records"
	"github.com/spf13/cobra"
)

var (
	recordUnit    string
	recordWorkout string
	recordAt      string

	recordListExercise string
	recordListLimit    int
)

var recordCmd = &cobra.Command{
	Use:     "record",
	Aliases: []string{"pr", "r"},
	Short:   "Track personal records",
}

var recordAddCmd = &cobra.Command{
	Use:   "add <exercise> <metric> <value>",
	Short: "Check a performance against your personal record",
	Long: `Check a single performance against your personal record and store it
if it is strictly better.

METRICS:

  max_weight     Heaviest weight lifted
  max_reps       Most reps in one set
  one_rep_max    Estimated one-rep max
  max_distance   Longest distance
  max_duration   Longest duration
  fastest_time   Best time

EXAMPLES:

  trainer record add deadlift max_weight 180
  trainer record add running max_distance 10 --unit km
  trainer record add squat max_weight 140 --workout a1b2c3d4 --at 2024-05-01`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		metric := models.MetricType(strings.ToLower(args[1]))
		value, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid value: %s", args[2])
		}

		entry := models.PerformanceEntry{
			UserID:     userID,
			ExerciseID: args[0],
			MetricType: metric,
			Value:      value,
			Unit:       recordUnit,
		}
		if entry.WorkoutID, err = svc.ResolveWorkoutID(cmd.Context(), userID, recordWorkout); err != nil {
			return fmt.Errorf("workout not found: %w", err)
		}
		if entry.AchievedAt, err = parseAt(recordAt); err != nil {
			return err
		}

		res, err := svc.RecordPerformance(cmd.Context(), entry)
		if err != nil {
			return fmt.Errorf("failed to record performance: %w", err)
		}
		printResult(cmd.OutOrStdout(), res)
		return nil
	},
}

var recordListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List personal records, newest first",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		prs, err := svc.Records(cmd.Context(), userID, recordListExercise, recordListLimit)
		if err != nil {
			return fmt.Errorf("failed to list records: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(prs) == 0 {
			fmt.Fprintln(out, "No personal records yet.")
			return nil
		}
		for _, r := range prs {
			printRecord(out, r)
		}
		return nil
	},
}

var logCmd = &cobra.Command{
	Use:   "log <exercise> <reps> [weight]",
	Short: "Log a set and update weight, reps, and 1RM records",
	Long: `Log a completed set. A weighted set is checked against your max_weight,
max_reps, and estimated one_rep_max records. Without a weight only max_reps
is checked.

EXAMPLES:

  trainer log bench-press 5 100
  trainer log pushups 30`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		reps, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid reps: %s", args[1])
		}
		var weight float64
		if len(args) == 3 {
			if weight, err = strconv.ParseFloat(args[2], 64); err != nil {
				return fmt.Errorf("invalid weight: %s", args[2])
			}
		}

		set := records.SetEntry{
			UserID:     userID,
			ExerciseID: args[0],
			Weight:     weight,
			Reps:       reps,
			Unit:       recordUnit,
		}
		if set.WorkoutID, err = svc.ResolveWorkoutID(cmd.Context(), userID, recordWorkout); err != nil {
			return fmt.Errorf("workout not found: %w", err)
		}
		if set.AchievedAt, err = parseAt(recordAt); err != nil {
			return err
		}

		results, err := svc.RecordSet(cmd.Context(), set)
		if err != nil {
			return fmt.Errorf("failed to log set: %w", err)
		}
		out := cmd.OutOrStdout()
		for _, res := range results {
			printResult(out, res)
		}
		return nil
	},
}

var estimateCmd = &cobra.Command{
	Use:   "estimate <weight> <reps>",
	Short: "Estimate a one-rep max with the Brzycki formula",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		weight, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid weight: %s", args[0])
		}
		reps, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid reps: %s", args[1])
		}

		est, err := svc.EstimateOneRepMax(weight, reps)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Estimated 1RM: %s\n", bold.Sprintf("%g", est))
		return nil
	},
}

// parseAt parses s in the configured zone; empty means now.
func parseAt(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := parseTime(s, svc.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time: %s (use YYYY-MM-DD or YYYY-MM-DD HH:MM)", s)
	}
	return t, nil
}

func printResult(w io.Writer, res *records.Result) {
	r := res.Record
	if res.IsNewRecord {
		success(w, "New %s record for %s: %g %s (+%g)", r.MetricType, r.ExerciseID, r.Value, r.Unit, res.Improvement)
		return
	}
	faint.Fprintf(w, "  %s %s: record stands at %g %s\n", r.ExerciseID, r.MetricType, r.Value, r.Unit)
}

func init() {
	for _, c := range []*cobra.Command{recordAddCmd, logCmd} {
		c.Flags().StringVar(&recordUnit, "unit", "", "unit of the value, e.g. kg or km")
		c.Flags().StringVarP(&recordWorkout, "workout", "w", "", "link to a saved workout (id or prefix)")
		c.Flags().StringVar(&recordAt, "at", "", "when it happened (default now)")
	}

	recordListCmd.Flags().StringVarP(&recordListExercise, "exercise", "e", "", "filter by exercise id")
	recordListCmd.Flags().IntVarP(&recordListLimit, "limit", "n", 20, "max number of results")

	recordCmd.AddCommand(recordAddCmd, recordListCmd)
	rootCmd.AddCommand(recordCmd, logCmd, estimateCmd)
}

// ABOUTME: CLI commands for generating and managing workout plans.
// ABOUTME: Saved plans become workouts that feed streaks and progress summaries.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/trainer/internal/models"
	"github.com/harperreed/trainer/internal/storage"
	"github.com/spf13/cobra"
)

var (
	planSave  bool
	planGoal  string
	planFocus []string
	planTime  int

	planListCategory string
	planListSince    string
	planListLimit    int
)

var planCmd = &cobra.Command{
	Use:     "plan",
	Aliases: []string{"workout", "w"},
	Short:   "Generate and manage workout plans",
}

var planGenerateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen", "g"},
	Short:   "Generate a workout plan from your profile",
	Long: `Generate a workout plan from your fitness profile. Flags override the
profile for this plan only.

Each focus area gets time/(areas x 10) exercises, picked in catalog order
from what your equipment allows. Bench, squat, and deadlift variants are
loaded from your known maxes; other lifts use 60% of your smallest max.

EXAMPLES:

  trainer plan generate                      # Preview
  trainer plan generate --save               # Save as a workout
  trainer plan generate --focus legs --time 40`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p, err := svc.ProfileOrDefault(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}

		flags := cmd.Flags()
		if flags.Changed("goal") {
			p.Goal = models.Goal(strings.ToLower(planGoal))
		}
		if flags.Changed("focus") {
			p.FocusAreas = planFocus
		}
		if flags.Changed("time") {
			p.TimeAvailable = planTime
		}

		out, err := svc.GeneratePlan(ctx, userID, p, planSave)
		if err != nil {
			return fmt.Errorf("failed to generate plan: %w", err)
		}

		w := cmd.OutOrStdout()
		printPlan(w, out.Plan)
		if out.Workout == nil {
			faint.Fprintln(w, "\nPreview only. Use --save to keep it.")
			return nil
		}

		fmt.Fprintln(w)
		success(w, "Saved workout %s", shortID(out.Workout))
		return nil
	},
}

var planListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved workouts",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := storage.WorkoutFilter{Category: planListCategory, Limit: planListLimit}
		if planListSince != "" {
			t, err := parseTime(planListSince, svc.Location())
			if err != nil {
				return fmt.Errorf("invalid date: %s (use YYYY-MM-DD)", planListSince)
			}
			filter.Since = &t
		}

		workouts, err := svc.Workouts(cmd.Context(), userID, filter)
		if err != nil {
			return fmt.Errorf("failed to list workouts: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(workouts) == 0 {
			fmt.Fprintln(out, "No workouts found.")
			return nil
		}

		for _, wk := range workouts {
			fmt.Fprintf(out, "%s %s %s %3d min %2d exercises\n",
				faint.Sprint(shortID(wk)),
				faint.Sprint(wk.CreatedAt.In(svc.Location()).Format("2006-01-02 15:04")),
				padRight(truncate(wk.Name, 36), 36),
				wk.DurationMinutes,
				len(wk.Exercises))
		}
		return nil
	},
}

var planShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved workout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wk, err := svc.Workout(cmd.Context(), userID, args[0])
		if err != nil {
			return fmt.Errorf("workout not found: %w", err)
		}

		out := cmd.OutOrStdout()
		faint.Fprintf(out, "%s  %s\n", wk.ID, wk.CreatedAt.In(svc.Location()).Format("Monday 2006-01-02 15:04"))
		printPlan(out, wk.Plan())
		if wk.Notes != nil && *wk.Notes != "" {
			fmt.Fprintf(out, "\n  %s\n", color.New(color.Italic).Sprint(*wk.Notes))
		}
		return nil
	},
}

var planDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a saved workout and the records set in it",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wk, err := svc.DeleteWorkout(cmd.Context(), userID, args[0])
		if err != nil {
			return fmt.Errorf("failed to delete workout: %w", err)
		}

		yellow.Fprintf(cmd.OutOrStdout(), "✗ Deleted %s %s\n", shortID(wk), wk.Name)
		return nil
	},
}

func init() {
	f := planGenerateCmd.Flags()
	f.BoolVarP(&planSave, "save", "s", false, "save the plan as a workout")
	f.StringVar(&planGoal, "goal", "", "override the profile goal")
	f.StringSliceVar(&planFocus, "focus", nil, "override the focus areas")
	f.IntVar(&planTime, "time", 0, "override the minutes available")

	planListCmd.Flags().StringVarP(&planListCategory, "category", "c", "", "filter by category")
	planListCmd.Flags().StringVar(&planListSince, "since", "", "only workouts since date (YYYY-MM-DD)")
	planListCmd.Flags().IntVarP(&planListLimit, "limit", "n", 20, "max number of results")

	planCmd.AddCommand(planGenerateCmd, planListCmd, planShowCmd, planDeleteCmd)
	rootCmd.AddCommand(planCmd)
}

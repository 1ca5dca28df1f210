// ABOUTME: CLI commands for training progress, streaks, and overall stats.
// ABOUTME: Windows are calendar weeks, months, or years in the configured time zone.
package main

import (
	"fmt"
	"sort"

	"github.com/harperreed/trainer/internal/coach"
	"github.com/harperreed/trainer/internal/progress"
	"github.com/spf13/cobra"
)

var progressTimeframe string

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Summarize training for this week, month, or year",
	Long: `Summarize the current calendar window and compare it with the previous one.

EXAMPLES:

  trainer progress                  # This week vs last week
  trainer progress -t month         # This month vs last month`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tf := progress.ParseTimeframe(progressTimeframe)
		sum, err := svc.Progress(cmd.Context(), userID, tf)
		if err != nil {
			return fmt.Errorf("failed to summarize progress: %w", err)
		}

		out := cmd.OutOrStdout()
		loc := svc.Location()
		bold.Fprintf(out, "This %s", tf)
		faint.Fprintf(out, "  %s to %s\n",
			sum.Start.In(loc).Format("2006-01-02"),
			sum.End.In(loc).AddDate(0, 0, -1).Format("2006-01-02"))

		fmt.Fprintf(out, "  Workouts   %d %s\n", sum.TotalWorkouts, formatDelta(sum.WorkoutCountDelta))
		fmt.Fprintf(out, "  Minutes    %d %s\n", sum.TotalDuration, formatDelta(sum.DurationDelta))
		fmt.Fprintf(out, "  Calories   %d\n", sum.TotalCalories)
		fmt.Fprintf(out, "  Average    %d min\n", sum.AvgDuration)

		if len(sum.WorkoutTypes) > 0 {
			categories := make([]string, 0, len(sum.WorkoutTypes))
			for c := range sum.WorkoutTypes {
				categories = append(categories, c)
			}
			sort.Strings(categories)
			fmt.Fprintln(out)
			for _, c := range categories {
				fmt.Fprintf(out, "  %s %d\n", padRight(c, 12), sum.WorkoutTypes[c])
			}
		}

		if len(sum.Days) > 0 {
			fmt.Fprintln(out)
			for _, d := range sum.Days {
				faint.Fprintf(out, "  %s", d.Date)
				fmt.Fprintf(out, "  %d workouts, %d min\n", d.Workouts, d.Duration)
			}
		}
		return nil
	},
}

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show consecutive training days",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := svc.Streak(cmd.Context(), userID)
		if err != nil {
			return fmt.Errorf("failed to compute streak: %w", err)
		}

		out := cmd.OutOrStdout()
		if n == 0 {
			warn(out, "No active streak. Train today to start one.")
			return nil
		}
		unit := "days"
		if n == 1 {
			unit = "day"
		}
		fmt.Fprintf(out, "🔥 %s %s\n", bold.Sprint(n), unit)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show streak, workout count, and recent records",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := svc.Stats(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to compute stats: %w", err)
		}
		recent, err := svc.RecentRecords(ctx, userID, coach.DefaultRecentRecords)
		if err != nil {
			return fmt.Errorf("failed to list records: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Streak          %d\n", st.Streak)
		fmt.Fprintf(out, "Total workouts  %d\n", st.TotalWorkouts)
		if st.LastWorkout != nil {
			fmt.Fprintf(out, "Last workout    %s\n", st.LastWorkout.In(svc.Location()).Format("2006-01-02 15:04"))
		}
		if len(recent) > 0 {
			fmt.Fprintln(out)
			bold.Fprintln(out, "Recent records")
			for _, r := range recent {
				printRecord(out, r)
			}
		}
		return nil
	},
}

func formatDelta(d int) string {
	switch {
	case d > 0:
		return green.Sprintf("(+%d%%)", d)
	case d < 0:
		return yellow.Sprintf("(%d%%)", d)
	default:
		return faint.Sprint("(±0%)")
	}
}

func init() {
	progressCmd.Flags().StringVarP(&progressTimeframe, "timeframe", "t", "week", "week, month, or year")
	rootCmd.AddCommand(progressCmd, streakCmd, statsCmd)
}

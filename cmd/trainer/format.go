// ABOUTME: Shared CLI helpers for time parsing and colored, aligned output.
// ABOUTME: All command output goes to the command's configured writer.
package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/trainer/internal/models"
)

var (
	faint  = color.New(color.Faint)
	bold   = color.New(color.Bold)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
)

func success(w io.Writer, format string, a ...any) {
	green.Fprintf(w, "✓ "+format+"\n", a...)
}

func warn(w io.Writer, format string, a ...any) {
	yellow.Fprintf(w, format+"\n", a...)
}

// parseTime accepts the common date and time layouts in loc.
func parseTime(s string, loc *time.Location) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.ParseInLocation(f, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func shortID(w *models.Workout) string {
	return w.ID.String()[:8]
}

// formatWeight renders 0 as "bodyweight".
func formatWeight(v float64) string {
	if v == 0 {
		return "bodyweight"
	}
	return fmt.Sprintf("%g kg", v)
}

func printPlan(w io.Writer, plan models.WorkoutPlan) {
	bold.Fprintln(w, plan.Name)
	faint.Fprintf(w, "  %s · %s · %d min · ~%d kcal\n", plan.Category, plan.Difficulty, plan.DurationMinutes, plan.Calories)
	if len(plan.Exercises) == 0 {
		fmt.Fprintln(w, "  No exercises fit the time available.")
		return
	}
	for _, e := range plan.Exercises {
		fmt.Fprintf(w, "  %2d. %s %d x %d @ %s\n",
			e.Order, padRight(e.ExerciseName, 28), e.Sets, e.Reps, formatWeight(e.Weight))
	}
}

func printRecord(w io.Writer, r *models.PersonalRecord) {
	fmt.Fprintf(w, "%s %s %s %g %s\n",
		faint.Sprint(r.AchievedAt.Format("2006-01-02")),
		padRight(r.ExerciseID, 22),
		padRight(string(r.MetricType), 12),
		r.Value, r.Unit)
}

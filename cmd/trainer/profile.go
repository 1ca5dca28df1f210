// ABOUTME: CLI commands for viewing and editing the fitness profile.
// ABOUTME: Only flags that are given change the stored profile.
package main

import (
	"fmt"
	"strings"

	"github.com/harperreed/trainer/internal/coach"
	"github.com/harperreed/trainer/internal/models"
	"github.com/spf13/cobra"
)

var (
	profileGoal      string
	profileLevel     string
	profileType      string
	profileEquipment []string
	profileFocus     []string
	profileTime      int
	profileBench     float64
	profileSquat     float64
	profileDeadlift  float64
)

var profileCmd = &cobra.Command{
	Use:     "profile",
	Aliases: []string{"p"},
	Short:   "Show or edit your fitness profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored fitness profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		p, err := svc.Profile(cmd.Context(), userID)
		if coach.IsNotFound(err) {
			warn(out, "No profile for %s yet. Showing defaults; save with 'trainer profile set'.", userID)
			p = models.NewFitnessProfile(userID, models.GoalGeneral)
		} else if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}

		printProfile(cmd, p)
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update the fitness profile",
	Long: `Update the fitness profile. Only the flags you pass are changed.

EXAMPLES:

  trainer profile set --goal increase_strength --time 60
  trainer profile set --equipment barbell,bench,dumbbells --focus chest,back
  trainer profile set --bench 100 --squat 140 --deadlift 180`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := svc.ProfileOrDefault(cmd.Context(), userID)
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}

		flags := cmd.Flags()
		if flags.Changed("goal") {
			p.Goal = models.Goal(strings.ToLower(profileGoal))
		}
		if flags.Changed("level") {
			p.ExperienceLevel = profileLevel
		}
		if flags.Changed("type") {
			p.WorkoutType = profileType
		}
		if flags.Changed("equipment") {
			p.Equipment = profileEquipment
		}
		if flags.Changed("focus") {
			p.FocusAreas = profileFocus
		}
		if flags.Changed("time") {
			p.TimeAvailable = profileTime
		}
		if flags.Changed("bench") {
			p.BenchPressMax = models.Float(profileBench)
		}
		if flags.Changed("squat") {
			p.SquatMax = models.Float(profileSquat)
		}
		if flags.Changed("deadlift") {
			p.DeadliftMax = models.Float(profileDeadlift)
		}

		if err := svc.SaveProfile(cmd.Context(), p); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}

		success(cmd.OutOrStdout(), "Saved profile for %s", p.UserID)
		printProfile(cmd, p)
		return nil
	},
}

func printProfile(cmd *cobra.Command, p *models.FitnessProfile) {
	out := cmd.OutOrStdout()
	maxOf := func(v *float64) string {
		if v == nil {
			return "-"
		}
		return fmt.Sprintf("%g", *v)
	}

	fmt.Fprintf(out, "  %s %s\n", padRight("user", 12), p.UserID)
	fmt.Fprintf(out, "  %s %s\n", padRight("goal", 12), p.Goal)
	fmt.Fprintf(out, "  %s %s\n", padRight("level", 12), p.ExperienceLevel)
	fmt.Fprintf(out, "  %s %s\n", padRight("type", 12), p.WorkoutType)
	fmt.Fprintf(out, "  %s %s\n", padRight("equipment", 12), strings.Join(p.Equipment, ", "))
	fmt.Fprintf(out, "  %s %s\n", padRight("focus", 12), strings.Join(p.FocusAreas, ", "))
	fmt.Fprintf(out, "  %s %d min\n", padRight("time", 12), p.TimeAvailable)
	fmt.Fprintf(out, "  %s bench %s · squat %s · deadlift %s\n",
		padRight("maxes", 12), maxOf(p.BenchPressMax), maxOf(p.SquatMax), maxOf(p.DeadliftMax))
}

func init() {
	f := profileSetCmd.Flags()
	f.StringVar(&profileGoal, "goal", "", "build_muscle, increase_strength, lose_weight, improve_endurance, or general")
	f.StringVar(&profileLevel, "level", "", "experience level (beginner, intermediate, advanced)")
	f.StringVar(&profileType, "type", "", "workout category, e.g. strength")
	f.StringSliceVar(&profileEquipment, "equipment", nil, "available equipment tags")
	f.StringSliceVar(&profileFocus, "focus", nil, "muscle groups to train")
	f.IntVar(&profileTime, "time", 0, "minutes available per workout")
	f.Float64Var(&profileBench, "bench", 0, "bench press max")
	f.Float64Var(&profileSquat, "squat", 0, "squat max")
	f.Float64Var(&profileDeadlift, "deadlift", 0, "deadlift max")

	profileCmd.AddCommand(profileShowCmd, profileSetCmd)
	rootCmd.AddCommand(profileCmd)
}

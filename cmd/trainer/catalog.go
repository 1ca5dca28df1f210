// ABOUTME: CLI commands for the exercise catalog.
// ABOUTME: Lists, adds, imports from YAML or JSON, and restores the default exercises.
package main

import (
	"fmt"
	"strings"

	"github.com/harperreed/trainer/internal/catalog"
	"github.com/harperreed/trainer/internal/models"
	"github.com/spf13/cobra"
)

var (
	catalogMuscle    string
	catalogEquipment string

	addExName        string
	addExDescription string
	addExCategory    string
	addExDifficulty  string
	addExMuscles     []string
	addExEquipment   []string
)

var catalogCmd = &cobra.Command{
	Use:     "catalog",
	Aliases: []string{"exercises", "ex"},
	Short:   "Manage the exercise catalog",
}

var catalogListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List exercises in catalog order",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		exercises, err := svc.Catalog(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list exercises: %w", err)
		}

		out := cmd.OutOrStdout()
		muscle := strings.ToLower(catalogMuscle)
		equipment := strings.ToLower(catalogEquipment)
		shown := 0
		for _, e := range exercises {
			if muscle != "" && !e.TargetsMuscle(muscle) {
				continue
			}
			if equipment != "" && !e.UsesAnyEquipment(models.EquipmentSet([]string{equipment})) {
				continue
			}
			fmt.Fprintf(out, "%s %s %s\n",
				padRight(e.ID, 24),
				padRight(e.Name, 28),
				faint.Sprintf("%s · %s", strings.Join(e.MuscleGroups, ","), strings.Join(e.Equipment, ",")))
			shown++
		}

		if shown == 0 {
			fmt.Fprintln(out, "No exercises found.")
		}
		return nil
	},
}

var catalogAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Add or replace an exercise",
	Long: `Add an exercise to the catalog. An existing ID is replaced in place.

EXAMPLES:

  trainer catalog add landmine-press --name "Landmine Press" \
    --muscles shoulders,chest --equipment barbell`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e := &models.Exercise{
			ID:           args[0],
			Name:         addExName,
			Description:  addExDescription,
			Category:     addExCategory,
			MuscleGroups: addExMuscles,
			Equipment:    addExEquipment,
			Difficulty:   addExDifficulty,
		}
		if err := svc.AddExercises(cmd.Context(), e); err != nil {
			return fmt.Errorf("failed to add exercise: %w", err)
		}

		success(cmd.OutOrStdout(), "Added %s (%s)", e.Name, e.ID)
		return nil
	},
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import exercises from a YAML or JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exercises, err := catalog.LoadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read catalog: %w", err)
		}
		if err := svc.AddExercises(cmd.Context(), exercises...); err != nil {
			return fmt.Errorf("failed to import catalog: %w", err)
		}

		success(cmd.OutOrStdout(), "Imported %d exercises from %s", len(exercises), args[0])
		return nil
	},
}

var catalogSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Restore the default exercises",
	Long: `Store every default exercise, replacing edited copies with the same ID.
Exercises you added yourself are kept. An empty catalog is seeded
automatically on first use.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults := catalog.Default()
		if err := svc.AddExercises(cmd.Context(), defaults...); err != nil {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}

		success(cmd.OutOrStdout(), "Seeded %d default exercises", len(defaults))
		return nil
	},
}

func init() {
	catalogListCmd.Flags().StringVarP(&catalogMuscle, "muscle", "m", "", "only exercises training this muscle group")
	catalogListCmd.Flags().StringVarP(&catalogEquipment, "equipment", "e", "", "only exercises using this equipment")

	f := catalogAddCmd.Flags()
	f.StringVar(&addExName, "name", "", "display name")
	f.StringVar(&addExDescription, "description", "", "how to perform it")
	f.StringVar(&addExCategory, "category", "strength", "category")
	f.StringVar(&addExDifficulty, "difficulty", "beginner", "difficulty")
	f.StringSliceVar(&addExMuscles, "muscles", nil, "muscle groups trained")
	f.StringSliceVar(&addExEquipment, "equipment", []string{"bodyweight"}, "equipment tags")

	catalogCmd.AddCommand(catalogListCmd, catalogAddCmd, catalogImportCmd, catalogSeedCmd)
	rootCmd.AddCommand(catalogCmd)
}

// ABOUTME: Workout plan generation from a fitness profile and exercise catalog.
// ABOUTME: Deterministic: identical inputs always produce an identical plan.
package planner

import (
	"errors"
	"fmt"

	"github.com/harperreed/trainer/internal/models"
)

var (
	// ErrNoEligibleExercises means the profile and catalog cannot produce a plan.
	ErrNoEligibleExercises = errors.New("no eligible exercises")

	// ErrInvalidProfile means the profile itself is malformed.
	ErrInvalidProfile = errors.New("invalid profile")
)

const (
	minutesPerExercise = 10
	caloriesPerMinute  = 8
)

// Generate builds a workout plan for profile from catalog.
func Generate(profile *models.FitnessProfile, catalog []*models.Exercise) (models.WorkoutPlan, error) {
	if profile == nil {
		return models.WorkoutPlan{}, fmt.Errorf("%w: missing profile", ErrInvalidProfile)
	}
	if profile.TimeAvailable < 0 {
		return models.WorkoutPlan{}, fmt.Errorf("%w: time available must not be negative", ErrInvalidProfile)
	}
	if err := ValidateMaxes(profile); err != nil {
		return models.WorkoutPlan{}, err
	}
	if len(profile.FocusAreas) == 0 {
		return models.WorkoutPlan{}, fmt.Errorf("%w: no focus areas", ErrNoEligibleExercises)
	}
	if len(EligibleExercises(catalog, profile.Equipment)) == 0 {
		return models.WorkoutPlan{}, fmt.Errorf("%w: nothing in the catalog uses %v", ErrNoEligibleExercises, profile.Equipment)
	}

	rx := PrescriptionFor(profile.Goal)
	perArea := profile.TimeAvailable / (len(profile.FocusAreas) * minutesPerExercise)

	plan := models.WorkoutPlan{
		Name:            fmt.Sprintf("%s %s Workout", profile.ExperienceLevel, profile.Goal.Label()),
		Category:        profile.WorkoutType,
		Difficulty:      profile.ExperienceLevel,
		DurationMinutes: profile.TimeAvailable,
		Calories:        profile.TimeAvailable * caloriesPerMinute,
		Exercises:       []models.PrescribedExercise{},
	}

	order := 1
	for _, area := range profile.FocusAreas {
		for _, e := range SelectExercises(catalog, area, profile.Equipment, perArea) {
			plan.Exercises = append(plan.Exercises, models.PrescribedExercise{
				ExerciseID:   e.ID,
				ExerciseName: e.Name,
				Sets:         rx.Sets,
				Reps:         rx.Reps,
				Weight:       TargetWeight(ReferenceMax(e.Name, profile), rx.Intensity),
				Order:        order,
			})
			order++
		}
	}

	return plan, nil
}

// ABOUTME: Workout plan, prescribed exercise, and persisted workout models.
// ABOUTME: A Workout is a generated plan saved for a user with a creation timestamp.
package models

import (
	"time"

	"github.com/google/uuid"
)

// PrescribedExercise is one ordered entry in a workout plan.
type PrescribedExercise struct {
	ExerciseID   string  `json:"exercise_id" yaml:"exercise_id"`
	ExerciseName string  `json:"exercise_name" yaml:"exercise_name"`
	Sets         int     `json:"sets" yaml:"sets"`
	Reps         int     `json:"reps" yaml:"reps"`
	Weight       float64 `json:"weight" yaml:"weight"`
	Order        int     `json:"order" yaml:"order"`
}

// WorkoutPlan is the output of the plan generator.
type WorkoutPlan struct {
	Name            string               `json:"name"`
	Category        string               `json:"category"`
	Difficulty      string               `json:"difficulty"`
	DurationMinutes int                  `json:"duration_minutes"`
	Calories        int                  `json:"calories"`
	Exercises       []PrescribedExercise `json:"exercises"`
}

// Workout is a persisted workout session owned by a user.
type Workout struct {
	ID              uuid.UUID            `json:"id"`
	UserID          string               `json:"user_id"`
	Name            string               `json:"name"`
	Category        string               `json:"category"`
	Difficulty      string               `json:"difficulty"`
	DurationMinutes int                  `json:"duration_minutes"`
	Calories        int                  `json:"calories"`
	Exercises       []PrescribedExercise `json:"exercises,omitempty"`
	Notes           *string              `json:"notes,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
}

// NewWorkout creates a new Workout with generated UUID and current timestamp.
func NewWorkout(userID, name string) *Workout {
	return &Workout{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now(),
	}
}

// NewWorkoutFromPlan creates a Workout carrying every field of the plan.
func NewWorkoutFromPlan(userID string, plan WorkoutPlan) *Workout {
	w := NewWorkout(userID, plan.Name)
	w.Category = plan.Category
	w.Difficulty = plan.Difficulty
	w.DurationMinutes = plan.DurationMinutes
	w.Calories = plan.Calories
	w.Exercises = append([]PrescribedExercise(nil), plan.Exercises...)
	return w
}

// WithDuration sets the duration in minutes.
func (w *Workout) WithDuration(minutes int) *Workout {
	w.DurationMinutes = minutes
	return w
}

// WithCalories sets the calorie estimate.
func (w *Workout) WithCalories(kcal int) *Workout {
	w.Calories = kcal
	return w
}

// WithCategory sets the workout category.
func (w *Workout) WithCategory(category string) *Workout {
	w.Category = category
	return w
}

// WithNotes sets notes on the workout.
func (w *Workout) WithNotes(notes string) *Workout {
	w.Notes = &notes
	return w
}

// WithCreatedAt sets a custom creation timestamp.
func (w *Workout) WithCreatedAt(t time.Time) *Workout {
	w.CreatedAt = t
	return w
}

// Plan returns the plan view of a persisted workout.
func (w *Workout) Plan() WorkoutPlan {
	return WorkoutPlan{
		Name:            w.Name,
		Category:        w.Category,
		Difficulty:      w.Difficulty,
		DurationMinutes: w.DurationMinutes,
		Calories:        w.Calories,
		Exercises:       append([]PrescribedExercise(nil), w.Exercises...),
	}
}

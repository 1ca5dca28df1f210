// ABOUTME: Fitness profile and goal enum used as plan generator input.
// ABOUTME: Known lift maxima are optional; nil means the lift has never been tested.
package models

import "strings"

// Goal is a trainee's primary fitness goal.
type Goal string

const (
	GoalBuildMuscle      Goal = "build_muscle"
	GoalIncreaseStrength Goal = "increase_strength"
	GoalLoseWeight       Goal = "lose_weight"
	GoalImproveEndurance Goal = "improve_endurance"
	GoalGeneral          Goal = "general"
)

// AllGoals lists the goals with dedicated prescriptions.
var AllGoals = []Goal{
	GoalBuildMuscle, GoalIncreaseStrength, GoalLoseWeight, GoalImproveEndurance,
}

// Label returns the goal with underscores replaced by spaces. An unset goal
// reads as "general".
func (g Goal) Label() string {
	if strings.TrimSpace(string(g)) == "" {
		return string(GoalGeneral)
	}
	return strings.ReplaceAll(string(g), "_", " ")
}

// FitnessProfile holds a user's training preferences and known maxima.
type FitnessProfile struct {
	UserID          string   `json:"user_id" yaml:"user_id"`
	Goal            Goal     `json:"goal" yaml:"goal"`
	ExperienceLevel string   `json:"experience_level" yaml:"experience_level"`
	WorkoutType     string   `json:"workout_type,omitempty" yaml:"workout_type,omitempty"`
	Equipment       []string `json:"equipment" yaml:"equipment"`
	FocusAreas      []string `json:"focus_areas" yaml:"focus_areas"`
	TimeAvailable   int      `json:"time_available" yaml:"time_available"`
	BenchPressMax   *float64 `json:"bench_press_max,omitempty" yaml:"bench_press_max,omitempty"`
	SquatMax        *float64 `json:"squat_max,omitempty" yaml:"squat_max,omitempty"`
	DeadliftMax     *float64 `json:"deadlift_max,omitempty" yaml:"deadlift_max,omitempty"`
}

// NewFitnessProfile creates a profile with the given goal and sensible defaults.
func NewFitnessProfile(userID string, goal Goal) *FitnessProfile {
	return &FitnessProfile{
		UserID:          userID,
		Goal:            goal,
		ExperienceLevel: "beginner",
		WorkoutType:     "strength",
		Equipment:       []string{"bodyweight"},
		TimeAvailable:   30,
	}
}

// WithMaxes sets the known lift maxima. Pass nil for an untested lift.
func (p *FitnessProfile) WithMaxes(bench, squat, deadlift *float64) *FitnessProfile {
	p.BenchPressMax = bench
	p.SquatMax = squat
	p.DeadliftMax = deadlift
	return p
}

// Float returns a pointer to v, for optional maxima.
func Float(v float64) *float64 {
	return &v
}

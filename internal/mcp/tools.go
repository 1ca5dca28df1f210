// ABOUTME: MCP tool implementations for the training coach.
// ABOUTME: Plans, workouts, personal records, progress, catalog, and profile tools.
package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/trainer/internal/coach"
	"github.com/harperreed/trainer/internal/models"
	"github.com/harperreed/trainer/internal/progress"
	"github.com/harperreed/trainer/internal/records"
	"github.com/harperreed/trainer/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultListLimit = 20

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "generate_plan",
		Description: "Generate a workout plan from the stored profile, with optional overrides; set persist to save it",
	}, s.handleGeneratePlan)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_workouts",
		Description: "List saved workouts, newest first, optionally filtered by category",
	}, s.handleListWorkouts)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_workout",
		Description: "Get a saved workout with its exercises",
	}, s.handleGetWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_workout",
		Description: "Delete a saved workout and the personal records set in it",
	}, s.handleDeleteWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "record_performance",
		Description: "Check a performance against the personal record and store it if it is a new best",
	}, s.handleRecordPerformance)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_set",
		Description: "Log a completed set; updates max weight, max reps, and estimated one-rep max records",
	}, s.handleLogSet)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_records",
		Description: "List personal records, most recent first, optionally for one exercise",
	}, s.handleListRecords)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "estimate_one_rep_max",
		Description: "Estimate a one-rep max from weight and reps (Brzycki, 1-36 reps)",
	}, s.handleEstimateOneRepMax)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "progress_summary",
		Description: "Summarize workouts for the current week, month, or year compared with the previous one",
	}, s.handleProgressSummary)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_streak",
		Description: "Get the consecutive-day workout streak and workout totals",
	}, s.handleGetStreak)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_exercises",
		Description: "List the exercise catalog, optionally filtered by muscle group or equipment",
	}, s.handleListExercises)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_profile",
		Description: "Get the stored fitness profile",
	}, s.handleGetProfile)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_profile",
		Description: "Update the fitness profile; omitted fields keep their current value",
	}, s.handleSetProfile)
}

// Tool input/output types

type profileFields struct {
	Goal            string   `json:"goal,omitempty" jsonschema:"build_muscle, increase_strength, lose_weight, improve_endurance, or general"`
	ExperienceLevel string   `json:"experience_level,omitempty" jsonschema:"beginner, intermediate, or advanced"`
	WorkoutType     string   `json:"workout_type,omitempty" jsonschema:"workout category, e.g. strength"`
	Equipment       []string `json:"equipment,omitempty" jsonschema:"available equipment tags, e.g. barbell, dumbbells, bodyweight"`
	FocusAreas      []string `json:"focus_areas,omitempty" jsonschema:"muscle groups to train, e.g. chest, legs, back"`
	TimeAvailable   int      `json:"time_available,omitempty" jsonschema:"minutes available"`
	BenchPressMax   *float64 `json:"bench_press_max,omitempty" jsonschema:"known bench press max"`
	SquatMax        *float64 `json:"squat_max,omitempty" jsonschema:"known squat max"`
	DeadliftMax     *float64 `json:"deadlift_max,omitempty" jsonschema:"known deadlift max"`
}

type generatePlanInput struct {
	Goal            string   `json:"goal,omitempty" jsonschema:"override the profile goal"`
	ExperienceLevel string   `json:"experience_level,omitempty" jsonschema:"override the experience level"`
	WorkoutType     string   `json:"workout_type,omitempty" jsonschema:"override the workout category"`
	Equipment       []string `json:"equipment,omitempty" jsonschema:"override the available equipment tags"`
	FocusAreas      []string `json:"focus_areas,omitempty" jsonschema:"override the muscle groups to train"`
	TimeAvailable   int      `json:"time_available,omitempty" jsonschema:"override the minutes available"`
	Persist         bool     `json:"persist,omitempty" jsonschema:"save the plan as a workout"`
}

func (in generatePlanInput) fields() profileFields {
	return profileFields{
		Goal:            in.Goal,
		ExperienceLevel: in.ExperienceLevel,
		WorkoutType:     in.WorkoutType,
		Equipment:       in.Equipment,
		FocusAreas:      in.FocusAreas,
		TimeAvailable:   in.TimeAvailable,
	}
}

type workoutSummary struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	DurationMinutes int       `json:"duration_minutes"`
	Exercises       int       `json:"exercises"`
	CreatedAt       time.Time `json:"created_at"`
}

type planOutput struct {
	Plan      models.WorkoutPlan `json:"plan"`
	WorkoutID string             `json:"workout_id,omitempty"`
	Message   string             `json:"message"`
}

type listWorkoutsInput struct {
	Category string `json:"category,omitempty" jsonschema:"filter by workout category"`
	Limit    int    `json:"limit,omitempty" jsonschema:"max results (default 20)"`
}

type workoutIDInput struct {
	ID string `json:"id" jsonschema:"workout ID or prefix"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type recordPerformanceInput struct {
	ExerciseID string  `json:"exercise_id" jsonschema:"exercise ID from the catalog"`
	MetricType string  `json:"metric_type" jsonschema:"one_rep_max, max_weight, max_reps, or max_time"`
	Value      float64 `json:"value" jsonschema:"achieved value, must be positive"`
	Unit       string  `json:"unit,omitempty" jsonschema:"unit, defaults to the metric's unit"`
	WorkoutID  string  `json:"workout_id,omitempty" jsonschema:"workout ID or prefix the performance belongs to"`
}

type logSetInput struct {
	ExerciseID string  `json:"exercise_id" jsonschema:"exercise ID from the catalog"`
	Weight     float64 `json:"weight,omitempty" jsonschema:"load lifted, 0 for bodyweight"`
	Reps       int     `json:"reps" jsonschema:"repetitions completed"`
	Unit       string  `json:"unit,omitempty" jsonschema:"weight unit, default kg"`
	WorkoutID  string  `json:"workout_id,omitempty" jsonschema:"workout ID or prefix the set belongs to"`
}

type listRecordsInput struct {
	ExerciseID string `json:"exercise_id,omitempty" jsonschema:"filter by exercise ID"`
	Limit      int    `json:"limit,omitempty" jsonschema:"max results (default 20)"`
}

type estimateInput struct {
	Weight float64 `json:"weight" jsonschema:"weight lifted"`
	Reps   int     `json:"reps" jsonschema:"repetitions completed (1-36)"`
}

type estimateOutput struct {
	OneRepMax float64 `json:"one_rep_max"`
	Message   string  `json:"message"`
}

type progressInput struct {
	Timeframe string `json:"timeframe,omitempty" jsonschema:"week, month, or year (default week)"`
}

type listExercisesInput struct {
	MuscleGroup string `json:"muscle_group,omitempty" jsonschema:"only exercises training this muscle group"`
	Equipment   string `json:"equipment,omitempty" jsonschema:"only exercises using this equipment tag"`
}

// Tool handlers

func (s *Server) handleGeneratePlan(ctx context.Context, req *mcp.CallToolRequest, input generatePlanInput) (*mcp.CallToolResult, planOutput, error) {
	profile, err := s.svc.ProfileOrDefault(ctx, s.userID)
	if err != nil {
		return nil, planOutput{}, fmt.Errorf("failed to load profile: %w", err)
	}
	input.fields().apply(profile)

	out, err := s.svc.GeneratePlan(ctx, s.userID, profile, input.Persist)
	if err != nil {
		return nil, planOutput{}, fmt.Errorf("failed to generate plan: %w", err)
	}

	result := planOutput{
		Plan:    out.Plan,
		Message: fmt.Sprintf("Generated %s with %d exercises", out.Plan.Name, len(out.Plan.Exercises)),
	}
	if out.Workout != nil {
		result.WorkoutID = out.Workout.ID.String()[:8]
		result.Message += fmt.Sprintf(" (saved as %s)", result.WorkoutID)
	}
	return nil, result, nil
}

func (s *Server) handleListWorkouts(ctx context.Context, req *mcp.CallToolRequest, input listWorkoutsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = defaultListLimit
	}

	workouts, err := s.svc.Workouts(ctx, s.userID, storage.WorkoutFilter{Category: input.Category, Limit: input.Limit})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list workouts: %w", err)
	}

	if len(workouts) == 0 {
		return nil, map[string]any{"message": "No workouts found."}, nil
	}

	out := make([]workoutSummary, len(workouts))
	for i, w := range workouts {
		out[i] = workoutSummary{
			ID:              w.ID.String()[:8],
			Name:            w.Name,
			Category:        w.Category,
			DurationMinutes: w.DurationMinutes,
			Exercises:       len(w.Exercises),
			CreatedAt:       w.CreatedAt,
		}
	}
	return nil, map[string]any{"workouts": out}, nil
}

func (s *Server) handleGetWorkout(ctx context.Context, req *mcp.CallToolRequest, input workoutIDInput) (*mcp.CallToolResult, any, error) {
	w, err := s.svc.Workout(ctx, s.userID, input.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get workout %s: %w", input.ID, err)
	}
	return nil, w, nil
}

func (s *Server) handleDeleteWorkout(ctx context.Context, req *mcp.CallToolRequest, input workoutIDInput) (*mcp.CallToolResult, simpleOutput, error) {
	w, err := s.svc.DeleteWorkout(ctx, s.userID, input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete workout: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted workout: %s (%s)", w.Name, w.ID.String()[:8]),
	}, nil
}

func (s *Server) handleRecordPerformance(ctx context.Context, req *mcp.CallToolRequest, input recordPerformanceInput) (*mcp.CallToolResult, any, error) {
	workoutID, err := s.svc.ResolveWorkoutID(ctx, s.userID, input.WorkoutID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve workout: %w", err)
	}

	res, err := s.svc.RecordPerformance(ctx, models.PerformanceEntry{
		UserID:     s.userID,
		ExerciseID: input.ExerciseID,
		MetricType: models.MetricType(input.MetricType),
		Value:      input.Value,
		Unit:       input.Unit,
		WorkoutID:  workoutID,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to record performance: %w", err)
	}

	return nil, map[string]any{"result": res, "message": describeResult(res)}, nil
}

func (s *Server) handleLogSet(ctx context.Context, req *mcp.CallToolRequest, input logSetInput) (*mcp.CallToolResult, any, error) {
	workoutID, err := s.svc.ResolveWorkoutID(ctx, s.userID, input.WorkoutID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve workout: %w", err)
	}

	results, err := s.svc.RecordSet(ctx, records.SetEntry{
		UserID:     s.userID,
		ExerciseID: input.ExerciseID,
		Weight:     input.Weight,
		Reps:       input.Reps,
		Unit:       input.Unit,
		WorkoutID:  workoutID,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to log set: %w", err)
	}

	lines := make([]string, len(results))
	for i, r := range results {
		lines[i] = describeResult(r)
	}
	return nil, map[string]any{"results": results, "message": strings.Join(lines, "; ")}, nil
}

func (s *Server) handleListRecords(ctx context.Context, req *mcp.CallToolRequest, input listRecordsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = defaultListLimit
	}

	recs, err := s.svc.Records(ctx, s.userID, input.ExerciseID, input.Limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list records: %w", err)
	}

	if len(recs) == 0 {
		return nil, map[string]any{"message": "No personal records yet."}, nil
	}
	return nil, map[string]any{"records": recs}, nil
}

func (s *Server) handleEstimateOneRepMax(ctx context.Context, req *mcp.CallToolRequest, input estimateInput) (*mcp.CallToolResult, estimateOutput, error) {
	v, err := s.svc.EstimateOneRepMax(input.Weight, input.Reps)
	if err != nil {
		return nil, estimateOutput{}, fmt.Errorf("failed to estimate one-rep max: %w", err)
	}

	return nil, estimateOutput{
		OneRepMax: v,
		Message:   fmt.Sprintf("%g x %d ≈ %g one-rep max", input.Weight, input.Reps, v),
	}, nil
}

func (s *Server) handleProgressSummary(ctx context.Context, req *mcp.CallToolRequest, input progressInput) (*mcp.CallToolResult, any, error) {
	summary, err := s.svc.Progress(ctx, s.userID, progress.ParseTimeframe(input.Timeframe))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to summarize progress: %w", err)
	}
	return nil, summary, nil
}

func (s *Server) handleGetStreak(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	stats, err := s.svc.Stats(ctx, s.userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute streak: %w", err)
	}

	return nil, map[string]any{
		"streak":         stats.Streak,
		"total_workouts": stats.TotalWorkouts,
		"last_workout":   stats.LastWorkout,
		"message":        fmt.Sprintf("%d day streak, %d workouts total", stats.Streak, stats.TotalWorkouts),
	}, nil
}

func (s *Server) handleListExercises(ctx context.Context, req *mcp.CallToolRequest, input listExercisesInput) (*mcp.CallToolResult, any, error) {
	exercises, err := s.svc.Catalog(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list exercises: %w", err)
	}

	muscle := strings.ToLower(strings.TrimSpace(input.MuscleGroup))
	equipment := strings.ToLower(strings.TrimSpace(input.Equipment))

	var out []*models.Exercise
	for _, e := range exercises {
		if muscle != "" && !e.TargetsMuscle(muscle) {
			continue
		}
		if equipment != "" && !e.UsesAnyEquipment(models.EquipmentSet([]string{equipment})) {
			continue
		}
		out = append(out, e)
	}

	if len(out) == 0 {
		return nil, map[string]any{"message": "No exercises found."}, nil
	}
	return nil, map[string]any{"exercises": out}, nil
}

func (s *Server) handleGetProfile(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	p, err := s.svc.Profile(ctx, s.userID)
	if err != nil {
		if coach.IsNotFound(err) {
			return nil, map[string]any{"message": "No profile yet. Use set_profile to create one."}, nil
		}
		return nil, nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return nil, p, nil
}

func (s *Server) handleSetProfile(ctx context.Context, req *mcp.CallToolRequest, input profileFields) (*mcp.CallToolResult, any, error) {
	p, err := s.svc.ProfileOrDefault(ctx, s.userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load profile: %w", err)
	}
	input.apply(p)

	if err := s.svc.SaveProfile(ctx, p); err != nil {
		return nil, nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return nil, p, nil
}

// apply overwrites the profile fields that are set.
func (f profileFields) apply(p *models.FitnessProfile) {
	if f.Goal != "" {
		p.Goal = models.Goal(strings.ToLower(f.Goal))
	}
	if f.ExperienceLevel != "" {
		p.ExperienceLevel = f.ExperienceLevel
	}
	if f.WorkoutType != "" {
		p.WorkoutType = f.WorkoutType
	}
	if len(f.Equipment) > 0 {
		p.Equipment = f.Equipment
	}
	if len(f.FocusAreas) > 0 {
		p.FocusAreas = f.FocusAreas
	}
	if f.TimeAvailable > 0 {
		p.TimeAvailable = f.TimeAvailable
	}
	if f.BenchPressMax != nil {
		p.BenchPressMax = f.BenchPressMax
	}
	if f.SquatMax != nil {
		p.SquatMax = f.SquatMax
	}
	if f.DeadliftMax != nil {
		p.DeadliftMax = f.DeadliftMax
	}
}

func describeResult(r *records.Result) string {
	rec := r.Record
	if r.IsNewRecord {
		return fmt.Sprintf("New %s record for %s: %g %s (+%g)", rec.MetricType, rec.ExerciseID, rec.Value, rec.Unit, r.Improvement)
	}
	return fmt.Sprintf("No new %s record for %s; best is %g %s", rec.MetricType, rec.ExerciseID, rec.Value, rec.Unit)
}

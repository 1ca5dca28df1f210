// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Handlers are called directly against a SQLite-backed coach service.
package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/trainer/internal/coach"
	"github.com/harperreed/trainer/internal/models"
	"github.com/harperreed/trainer/internal/records"
	"github.com/harperreed/trainer/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 8, 12, 0, 0, 0, time.UTC)

// setupTestServer creates a server over a seeded test database in a temp directory.
func setupTestServer(t *testing.T) *Server {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), storage.DBFileName))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	svc := coach.New(db,
		coach.WithLocation(time.UTC),
		coach.WithWeekStart(time.Monday),
		coach.WithClock(func() time.Time { return testNow }),
	)
	if _, err := svc.SeedCatalog(context.Background()); err != nil {
		t.Fatalf("SeedCatalog failed: %v", err)
	}

	server, err := NewServer(svc, Options{UserID: "alice"})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server
}

func TestNewServer(t *testing.T) {
	server := setupTestServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.svc == nil {
		t.Error("Expected non-nil service")
	}
	if server.userID != "alice" {
		t.Errorf("userID = %q, want alice", server.userID)
	}
}

func TestHandleGeneratePlan(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     generatePlanInput
		wantErr   string
		wantSaved bool
	}{
		{
			name:  "preview with focus override",
			input: generatePlanInput{FocusAreas: []string{"chest"}, Goal: "build_muscle"},
		},
		{
			name:      "persisted",
			input:     generatePlanInput{FocusAreas: []string{"legs"}, Persist: true},
			wantSaved: true,
		},
		{
			name:    "default profile has no focus areas",
			input:   generatePlanInput{},
			wantErr: "no eligible exercises",
		},
		{
			name:    "equipment nobody owns",
			input:   generatePlanInput{FocusAreas: []string{"chest"}, Equipment: []string{"trapeze"}},
			wantErr: "no eligible exercises",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := server.handleGeneratePlan(ctx, nil, tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, out.Plan.Exercises)
			assert.Equal(t, tt.wantSaved, out.WorkoutID != "")
		})
	}
}

func TestGeneratePlanUsesStoredProfile(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, _, err := server.handleSetProfile(ctx, nil, profileFields{
		Goal:          "increase_strength",
		FocusAreas:    []string{"chest"},
		Equipment:     []string{"barbell", "bench"},
		BenchPressMax: models.Float(100),
	})
	require.NoError(t, err)

	_, out, err := server.handleGeneratePlan(ctx, nil, generatePlanInput{})
	require.NoError(t, err)
	require.NotEmpty(t, out.Plan.Exercises)
	assert.Equal(t, "bench-press", out.Plan.Exercises[0].ExerciseID)
	assert.Equal(t, 85.0, out.Plan.Exercises[0].Weight)
	assert.Equal(t, 5, out.Plan.Exercises[0].Sets)
}

func TestWorkoutTools(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, listed, err := server.handleListWorkouts(ctx, nil, listWorkoutsInput{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"message": "No workouts found."}, listed)

	_, plan, err := server.handleGeneratePlan(ctx, nil, generatePlanInput{FocusAreas: []string{"chest"}, Persist: true})
	require.NoError(t, err)

	_, listed, err = server.handleListWorkouts(ctx, nil, listWorkoutsInput{Category: "STRENGTH"})
	require.NoError(t, err)
	summaries := listed.(map[string]any)["workouts"].([]workoutSummary)
	require.Len(t, summaries, 1)
	assert.Equal(t, plan.WorkoutID, summaries[0].ID)

	_, got, err := server.handleGetWorkout(ctx, nil, workoutIDInput{ID: plan.WorkoutID})
	require.NoError(t, err)
	assert.Equal(t, plan.Plan, got.(*models.Workout).Plan())

	_, msg, err := server.handleDeleteWorkout(ctx, nil, workoutIDInput{ID: plan.WorkoutID})
	require.NoError(t, err)
	assert.Contains(t, msg.Message, "Deleted workout")

	_, _, err = server.handleGetWorkout(ctx, nil, workoutIDInput{ID: plan.WorkoutID})
	require.Error(t, err)
	assert.True(t, coach.IsNotFound(err))
}

func TestHandleRecordPerformance(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, out, err := server.handleRecordPerformance(ctx, nil, recordPerformanceInput{
		ExerciseID: "deadlift", MetricType: "max_weight", Value: 150,
	})
	require.NoError(t, err)
	res := out.(map[string]any)["result"].(*records.Result)
	assert.True(t, res.IsNewRecord)
	assert.Contains(t, out.(map[string]any)["message"], "New max_weight record")

	_, out, err = server.handleRecordPerformance(ctx, nil, recordPerformanceInput{
		ExerciseID: "deadlift", MetricType: "max_weight", Value: 150,
	})
	require.NoError(t, err)
	assert.False(t, out.(map[string]any)["result"].(*records.Result).IsNewRecord)

	_, _, err = server.handleRecordPerformance(ctx, nil, recordPerformanceInput{
		ExerciseID: "deadlift", MetricType: "heaviest", Value: 150,
	})
	require.ErrorIs(t, err, records.ErrInvalidMetric)

	_, _, err = server.handleRecordPerformance(ctx, nil, recordPerformanceInput{
		ExerciseID: "deadlift", MetricType: "max_weight", Value: 160, WorkoutID: "0000",
	})
	assert.True(t, coach.IsNotFound(err))
}

func TestHandleLogSet(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, out, err := server.handleLogSet(ctx, nil, logSetInput{ExerciseID: "pull-ups", Reps: 12})
	require.NoError(t, err)
	results := out.(map[string]any)["results"].([]*records.Result)
	require.Len(t, results, 1)
	assert.Equal(t, models.MetricMaxReps, results[0].Record.MetricType)

	_, _, err = server.handleLogSet(ctx, nil, logSetInput{ExerciseID: "pull-ups", Reps: 0})
	require.ErrorIs(t, err, records.ErrInvalidReps)
}

func TestHandleListRecords(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, out, err := server.handleListRecords(ctx, nil, listRecordsInput{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"message": "No personal records yet."}, out)

	_, _, err = server.handleLogSet(ctx, nil, logSetInput{ExerciseID: "bench-press", Weight: 80, Reps: 8})
	require.NoError(t, err)

	_, out, err = server.handleListRecords(ctx, nil, listRecordsInput{ExerciseID: "bench-press", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, out.(map[string]any)["records"], 2)
}

func TestHandleEstimateOneRepMax(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		input   estimateInput
		want    float64
		wantErr bool
	}{
		{estimateInput{Weight: 100, Reps: 1}, 100, false},
		{estimateInput{Weight: 80, Reps: 8}, 99, false},
		{estimateInput{Weight: 100, Reps: 0}, 0, true},
		{estimateInput{Weight: -5, Reps: 3}, 0, true},
	}

	for _, tt := range tests {
		_, out, err := server.handleEstimateOneRepMax(ctx, nil, tt.input)
		if tt.wantErr {
			assert.Error(t, err, "%+v", tt.input)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, out.OneRepMax)
	}
}

func TestProgressAndStreakTools(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, _, err := server.handleGeneratePlan(ctx, nil, generatePlanInput{FocusAreas: []string{"back"}, Persist: true})
	require.NoError(t, err)

	_, out, err := server.handleProgressSummary(ctx, nil, progressInput{Timeframe: "week"})
	require.NoError(t, err)
	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"total_workouts":1`)

	_, streak, err := server.handleGetStreak(ctx, nil, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, 1, streak.(map[string]any)["streak"])
	assert.Equal(t, "1 day streak, 1 workouts total", streak.(map[string]any)["message"])
}

func TestHandleListExercises(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, out, err := server.handleListExercises(ctx, nil, listExercisesInput{})
	require.NoError(t, err)
	all := out.(map[string]any)["exercises"].([]*models.Exercise)

	_, out, err = server.handleListExercises(ctx, nil, listExercisesInput{MuscleGroup: "Chest", Equipment: "barbell"})
	require.NoError(t, err)
	chest := out.(map[string]any)["exercises"].([]*models.Exercise)
	assert.Less(t, len(chest), len(all))
	for _, e := range chest {
		assert.True(t, e.TargetsMuscle("chest"), e.ID)
	}

	_, out, err = server.handleListExercises(ctx, nil, listExercisesInput{MuscleGroup: "tail"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"message": "No exercises found."}, out)
}

func TestProfileTools(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, out, err := server.handleGetProfile(ctx, nil, struct{}{})
	require.NoError(t, err)
	assert.Contains(t, out.(map[string]any)["message"], "No profile yet")

	_, saved, err := server.handleSetProfile(ctx, nil, profileFields{
		Goal: "LOSE_WEIGHT", TimeAvailable: 45, FocusAreas: []string{"Legs"},
	})
	require.NoError(t, err)
	p := saved.(*models.FitnessProfile)
	assert.Equal(t, models.GoalLoseWeight, p.Goal)
	assert.Equal(t, []string{"legs"}, p.FocusAreas)
	assert.Equal(t, []string{"bodyweight"}, p.Equipment)

	_, _, err = server.handleSetProfile(ctx, nil, profileFields{SquatMax: models.Float(120)})
	require.NoError(t, err)

	_, out, err = server.handleGetProfile(ctx, nil, struct{}{})
	require.NoError(t, err)
	p = out.(*models.FitnessProfile)
	assert.Equal(t, 45, p.TimeAvailable)
	require.NotNil(t, p.SquatMax)
	assert.Equal(t, 120.0, *p.SquatMax)
}

func TestResources(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, _, err := server.handleLogSet(ctx, nil, logSetInput{ExerciseID: "deadlift", Weight: 140, Reps: 3})
	require.NoError(t, err)

	tests := []struct {
		uri     string
		handler func(context.Context, *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error)
		key     string
	}{
		{recordsURI, server.handleRecordsResource, "records"},
		{statsURI, server.handleStatsResource, "recent_records"},
		{weekProgressURI, server.handleWeekProgressResource, "days"},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			res, err := tt.handler(ctx, nil)
			require.NoError(t, err)
			require.Len(t, res.Contents, 1)
			assert.Equal(t, tt.uri, res.Contents[0].URI)
			assert.Equal(t, "application/json", res.Contents[0].MIMEType)

			var body map[string]any
			require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &body))
			assert.Contains(t, body, tt.key)
		})
	}
}

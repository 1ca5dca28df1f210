// ABOUTME: Export and import functionality for training data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats over any Repository.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/trainer/internal/models"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the schema version written into every export.
const ExportVersion = "1.0"

// ExportData represents the full export format for training data.
type ExportData struct {
	Version    string                   `json:"version" yaml:"version"`
	ExportedAt time.Time                `json:"exported_at" yaml:"exported_at"`
	Tool       string                   `json:"tool" yaml:"tool"`
	Exercises  []*models.Exercise       `json:"exercises" yaml:"exercises"`
	Profiles   []*models.FitnessProfile `json:"profiles" yaml:"profiles"`
	Workouts   []*models.Workout        `json:"workouts" yaml:"workouts"`
	Records    []*models.PersonalRecord `json:"records" yaml:"records"`
}

// ImportSummary counts what an import wrote.
type ImportSummary struct {
	Exercises int `json:"exercises"`
	Profiles  int `json:"profiles"`
	Workouts  int `json:"workouts"`
	Records   int `json:"records"`
	Skipped   int `json:"skipped"`
}

// CollectAll retrieves all data from repo for export.
func CollectAll(ctx context.Context, repo Repository) (*ExportData, error) {
	exercises, err := repo.ListExercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}

	profiles, err := repo.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	workouts, err := repo.ListWorkouts(ctx, WorkoutFilter{})
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	records, err := repo.ListPersonalRecords(ctx, RecordFilter{})
	if err != nil {
		return nil, fmt.Errorf("list personal records: %w", err)
	}

	return &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now(),
		Tool:       "trainer",
		Exercises:  exercises,
		Profiles:   profiles,
		Workouts:   workouts,
		Records:    records,
	}, nil
}

// Import writes data into repo. Exercises and profiles are upserted, workouts
// already present are skipped, and records only replace weaker ones.
// Per-item failures are collected and returned together.
func Import(ctx context.Context, repo Repository, data *ExportData) (*ImportSummary, error) {
	summary := &ImportSummary{}
	var errs error

	for _, e := range data.Exercises {
		if err := repo.SaveExercise(ctx, e); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("import exercise %s: %w", e.ID, err))
			continue
		}
		summary.Exercises++
	}

	for _, p := range data.Profiles {
		if err := repo.SaveProfile(ctx, p); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("import profile %s: %w", p.UserID, err))
			continue
		}
		summary.Profiles++
	}

	// Workouts go before records so record workout links resolve.
	for _, w := range data.Workouts {
		_, err := repo.GetWorkout(ctx, w.ID.String())
		if err == nil {
			summary.Skipped++
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			errs = multierr.Append(errs, fmt.Errorf("check workout %s: %w", w.ID, err))
			continue
		}
		if err := repo.CreateWorkout(ctx, w); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("import workout %s: %w", w.ID, err))
			continue
		}
		summary.Workouts++
	}

	for _, r := range data.Records {
		swap, err := repo.SwapRecordIfGreater(ctx, r)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("import record %s: %w", r.RecordKey, err))
			continue
		}
		if swap.Swapped {
			summary.Records++
		} else {
			summary.Skipped++
		}
	}

	return summary, errs
}

// ExportJSON exports all data as JSON.
func ExportJSON(ctx context.Context, repo Repository) ([]byte, error) {
	data, err := CollectAll(ctx, repo)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ImportJSON imports data from JSON bytes.
func ImportJSON(ctx context.Context, repo Repository, raw []byte) (*ImportSummary, error) {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	if data.Version != "" && data.Version != ExportVersion {
		return nil, fmt.Errorf("unsupported export version %q", data.Version)
	}
	return Import(ctx, repo, &data)
}

type yamlWorkout struct {
	ID              string                      `yaml:"id"`
	UserID          string                      `yaml:"user_id"`
	Name            string                      `yaml:"name"`
	Category        string                      `yaml:"category"`
	Difficulty      string                      `yaml:"difficulty"`
	CreatedAt       string                      `yaml:"created_at"`
	DurationMinutes int                         `yaml:"duration_minutes"`
	Calories        int                         `yaml:"calories"`
	Notes           string                      `yaml:"notes,omitempty"`
	Exercises       []models.PrescribedExercise `yaml:"exercises,omitempty"`
}

type yamlRecord struct {
	ExerciseID string  `yaml:"exercise_id"`
	Value      float64 `yaml:"value"`
	Unit       string  `yaml:"unit"`
	AchievedAt string  `yaml:"achieved_at"`
	WorkoutID  string  `yaml:"workout_id,omitempty"`
}

// ExportYAML exports all data as YAML with records grouped by user and metric type.
func ExportYAML(ctx context.Context, repo Repository) ([]byte, error) {
	data, err := CollectAll(ctx, repo)
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version    string                                        `yaml:"version"`
		ExportedAt string                                        `yaml:"exported_at"`
		Tool       string                                        `yaml:"tool"`
		Exercises  []*models.Exercise                            `yaml:"exercises"`
		Profiles   []*models.FitnessProfile                      `yaml:"profiles"`
		Workouts   []yamlWorkout                                 `yaml:"workouts"`
		Records    map[string]map[models.MetricType][]yamlRecord `yaml:"records"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Exercises:  data.Exercises,
		Profiles:   data.Profiles,
		Workouts:   make([]yamlWorkout, 0, len(data.Workouts)),
		Records:    make(map[string]map[models.MetricType][]yamlRecord),
	}

	for _, w := range data.Workouts {
		yw := yamlWorkout{
			ID:              w.ID.String()[:8],
			UserID:          w.UserID,
			Name:            w.Name,
			Category:        w.Category,
			Difficulty:      w.Difficulty,
			CreatedAt:       w.CreatedAt.Format(time.RFC3339),
			DurationMinutes: w.DurationMinutes,
			Calories:        w.Calories,
			Exercises:       w.Exercises,
		}
		if w.Notes != nil {
			yw.Notes = *w.Notes
		}
		yamlData.Workouts = append(yamlData.Workouts, yw)
	}

	for _, r := range data.Records {
		byMetric, ok := yamlData.Records[r.UserID]
		if !ok {
			byMetric = make(map[models.MetricType][]yamlRecord)
			yamlData.Records[r.UserID] = byMetric
		}
		yr := yamlRecord{
			ExerciseID: r.ExerciseID,
			Value:      r.Value,
			Unit:       r.Unit,
			AchievedAt: r.AchievedAt.Format(time.RFC3339),
		}
		if r.WorkoutID != nil {
			yr.WorkoutID = r.WorkoutID.String()[:8]
		}
		byMetric[r.MetricType] = append(byMetric[r.MetricType], yr)
	}

	return yaml.Marshal(yamlData)
}

// ExportMarkdown renders one user's workouts and records as a markdown report.
// A nil since includes everything.
func ExportMarkdown(ctx context.Context, repo Repository, userID string, since *time.Time) (string, error) {
	workouts, err := repo.ListWorkouts(ctx, WorkoutFilter{UserID: userID, Since: since})
	if err != nil {
		return "", fmt.Errorf("list workouts: %w", err)
	}

	records, err := repo.ListPersonalRecords(ctx, RecordFilter{UserID: userID})
	if err != nil {
		return "", fmt.Errorf("list personal records: %w", err)
	}

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Training Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("User: %s\n\n", userID))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	sb.WriteString("## Workouts\n\n")
	if len(workouts) == 0 {
		sb.WriteString("No workouts recorded.\n\n")
	} else {
		sb.WriteString("| Date | Name | Category | Duration | Calories | Exercises |\n")
		sb.WriteString("|------|------|----------|----------|----------|-----------|\n")
		for _, w := range workouts {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %d min | %d | %d |\n",
				w.CreatedAt.Format("2006-01-02 15:04"),
				w.Name, w.Category, w.DurationMinutes, w.Calories, len(w.Exercises)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Personal Records\n\n")
	if len(records) == 0 {
		sb.WriteString("No personal records yet.\n")
	} else {
		sb.WriteString("| Exercise | Metric | Value | Achieved |\n")
		sb.WriteString("|----------|--------|-------|----------|\n")
		for _, r := range records {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.2f %s | %s |\n",
				r.ExerciseID, r.MetricType, r.Value, r.Unit,
				r.AchievedAt.Format("2006-01-02")))
		}
	}

	return sb.String(), nil
}

// ABOUTME: MarkdownStore keeps training data as markdown files with YAML frontmatter.
// ABOUTME: Layout: exercises/, profiles/, workouts/YYYY/MM/, and records/<user>/ under the data dir.

package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/harperreed/trainer/internal/models"
	"gopkg.in/yaml.v3"
)

// MarkdownStore provides file-based storage for training data using markdown files.
type MarkdownStore struct {
	dataDir string

	// mu serializes writers; readers rely on atomic renames.
	mu sync.Mutex
}

// Compile-time check that MarkdownStore implements Repository.
var _ Repository = (*MarkdownStore)(nil)

// NewMarkdownStore creates a new markdown-backed store rooted at dataDir.
func NewMarkdownStore(dataDir string) (*MarkdownStore, error) {
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &MarkdownStore{dataDir: dataDir}, nil
}

// Close releases resources. For MarkdownStore this is a no-op.
func (s *MarkdownStore) Close() error {
	return nil
}

func (s *MarkdownStore) exercisesDir() string { return filepath.Join(s.dataDir, "exercises") }
func (s *MarkdownStore) profilesDir() string  { return filepath.Join(s.dataDir, "profiles") }
func (s *MarkdownStore) workoutsDir() string  { return filepath.Join(s.dataDir, "workouts") }
func (s *MarkdownStore) recordsDir() string   { return filepath.Join(s.dataDir, "records") }

func (s *MarkdownStore) exercisePath(id string) string {
	return filepath.Join(s.exercisesDir(), slugify(id)+".md")
}

func (s *MarkdownStore) profilePath(userID string) string {
	return filepath.Join(s.profilesDir(), fileKey(userID)+".md")
}

// workoutFilePath returns the path for a workout file based on date and name.
// Format: workouts/YYYY/MM/YYYY-MM-DD-<name>-<id_prefix>.md.
func (s *MarkdownStore) workoutFilePath(w *models.Workout) string {
	created := w.CreatedAt.UTC()
	return filepath.Join(s.workoutsDir(), created.Format("2006"), created.Format("01"),
		fmt.Sprintf("%s-%s-%s.md", created.Format("2006-01-02"), slugify(w.Name), w.ID.String()[:8]))
}

// recordPath returns records/<user key>/<exercise key>-<metric>.md.
func (s *MarkdownStore) recordPath(key models.RecordKey) string {
	return filepath.Join(s.recordsDir(), fileKey(key.UserID),
		fmt.Sprintf("%s-%s.md", fileKey(key.ExerciseID), key.MetricType))
}

// exerciseFrontmatter holds the YAML frontmatter of an exercise file.
type exerciseFrontmatter struct {
	ID           string   `yaml:"id"`
	Position     int      `yaml:"position"`
	Name         string   `yaml:"name"`
	Category     string   `yaml:"category"`
	MuscleGroups []string `yaml:"muscle_groups"`
	Equipment    []string `yaml:"equipment"`
	Difficulty   string   `yaml:"difficulty"`
}

// workoutFrontmatter holds the YAML frontmatter of a workout file.
type workoutFrontmatter struct {
	ID              string                      `yaml:"id"`
	UserID          string                      `yaml:"user_id"`
	Name            string                      `yaml:"name"`
	Category        string                      `yaml:"category"`
	Difficulty      string                      `yaml:"difficulty"`
	DurationMinutes int                         `yaml:"duration_minutes"`
	Calories        int                         `yaml:"calories"`
	CreatedAt       string                      `yaml:"created_at"`
	Exercises       []models.PrescribedExercise `yaml:"exercises,omitempty"`
}

// recordFrontmatter holds the YAML frontmatter of a personal record file.
type recordFrontmatter struct {
	ID         string  `yaml:"id"`
	UserID     string  `yaml:"user_id"`
	ExerciseID string  `yaml:"exercise_id"`
	MetricType string  `yaml:"metric_type"`
	Value      float64 `yaml:"value"`
	Unit       string  `yaml:"unit"`
	AchievedAt string  `yaml:"achieved_at"`
	WorkoutID  string  `yaml:"workout_id,omitempty"`
}

// readDocument reads path and decodes its frontmatter into v, returning the body.
func readDocument(path string, v any) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	header, body := parseFrontmatter(string(data))
	if header == "" {
		return "", fmt.Errorf("no frontmatter in %s", path)
	}
	if err := yaml.Unmarshal([]byte(header), v); err != nil {
		return "", fmt.Errorf("parse frontmatter in %s: %w", path, err)
	}
	return strings.TrimSpace(body), nil
}

// writeDocument renders v and body and writes the file atomically.
func writeDocument(path string, v any, body string) error {
	if body != "" {
		body = "\n" + body + "\n"
	}
	content, err := renderFrontmatter(v, body)
	if err != nil {
		return err
	}
	return atomicWrite(path, []byte(content))
}

// walkDocuments calls fn for every .md file under dir. A missing dir is empty.
func walkDocuments(dir string, fn func(path string) error) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		return fn(path)
	})
}

// --- Exercise catalog ---

func readExerciseFile(path string) (*models.Exercise, int, error) {
	var fm exerciseFrontmatter
	body, err := readDocument(path, &fm)
	if err != nil {
		return nil, 0, err
	}
	return &models.Exercise{
		ID:           fm.ID,
		Name:         fm.Name,
		Description:  body,
		Category:     fm.Category,
		MuscleGroups: fm.MuscleGroups,
		Equipment:    fm.Equipment,
		Difficulty:   fm.Difficulty,
	}, fm.Position, nil
}

// SaveExercise appends a new exercise to the catalog or rewrites an existing one in place.
func (s *MarkdownStore) SaveExercise(_ context.Context, e *models.Exercise) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.exercisePath(e.ID)
	position := 0

	existing, pos, err := readExerciseFile(path)
	switch {
	case err == nil && existing.ID != e.ID:
		return fmt.Errorf("save exercise: %s collides with %s", e.ID, existing.ID)
	case err == nil:
		position = pos
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("save exercise: %w", err)
	default:
		err := walkDocuments(s.exercisesDir(), func(p string) error {
			_, pos, err := readExerciseFile(p)
			if err != nil {
				return err
			}
			if pos > position {
				position = pos
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("save exercise: %w", err)
		}
		position++
	}

	fm := exerciseFrontmatter{
		ID:           e.ID,
		Position:     position,
		Name:         e.Name,
		Category:     e.Category,
		MuscleGroups: e.MuscleGroups,
		Equipment:    e.Equipment,
		Difficulty:   e.Difficulty,
	}
	return writeDocument(path, &fm, e.Description)
}

// GetExercise retrieves an exercise by its ID.
func (s *MarkdownStore) GetExercise(_ context.Context, id string) (*models.Exercise, error) {
	e, _, err := readExerciseFile(s.exercisePath(id))
	if errors.Is(err, fs.ErrNotExist) || (err == nil && e.ID != id) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get exercise: %w", err)
	}
	return e, nil
}

// ListExercises returns the whole catalog in insertion order.
func (s *MarkdownStore) ListExercises(_ context.Context) ([]*models.Exercise, error) {
	type positioned struct {
		exercise *models.Exercise
		position int
	}
	var all []positioned

	err := walkDocuments(s.exercisesDir(), func(path string) error {
		e, pos, err := readExerciseFile(path)
		if err != nil {
			return fmt.Errorf("read exercise file %s: %w", path, err)
		}
		all = append(all, positioned{e, pos})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].position != all[j].position {
			return all[i].position < all[j].position
		}
		return all[i].exercise.ID < all[j].exercise.ID
	})

	exercises := make([]*models.Exercise, 0, len(all))
	for _, p := range all {
		exercises = append(exercises, p.exercise)
	}
	return exercises, nil
}

// --- Profiles ---

// SaveProfile creates or replaces the profile for p.UserID.
func (s *MarkdownStore) SaveProfile(_ context.Context, p *models.FitnessProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeDocument(s.profilePath(p.UserID), p, "")
}

// GetProfile retrieves the profile for userID.
func (s *MarkdownStore) GetProfile(_ context.Context, userID string) (*models.FitnessProfile, error) {
	var p models.FitnessProfile
	_, err := readDocument(s.profilePath(userID), &p)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && p.UserID != userID) {
		return nil, notFound("profile " + userID)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

// ListProfiles returns every stored profile ordered by user ID.
func (s *MarkdownStore) ListProfiles(_ context.Context) ([]*models.FitnessProfile, error) {
	var profiles []*models.FitnessProfile
	err := walkDocuments(s.profilesDir(), func(path string) error {
		var p models.FitnessProfile
		if _, err := readDocument(path, &p); err != nil {
			return err
		}
		profiles = append(profiles, &p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].UserID < profiles[j].UserID })
	return profiles, nil
}

// --- Workouts ---

func readWorkoutFile(path string) (*models.Workout, error) {
	var fm workoutFrontmatter
	notes, err := readDocument(path, &fm)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(fm.ID)
	if err != nil {
		return nil, fmt.Errorf("parse workout ID %q: %w", fm.ID, err)
	}
	createdAt, err := parseFileTime(fm.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", fm.CreatedAt, err)
	}

	w := &models.Workout{
		ID:              id,
		UserID:          fm.UserID,
		Name:            fm.Name,
		Category:        fm.Category,
		Difficulty:      fm.Difficulty,
		DurationMinutes: fm.DurationMinutes,
		Calories:        fm.Calories,
		Exercises:       fm.Exercises,
		CreatedAt:       createdAt,
	}
	if notes != "" {
		w.Notes = &notes
	}
	return w, nil
}

// walkWorkoutFiles walks all workout markdown files and calls fn for each.
func (s *MarkdownStore) walkWorkoutFiles(fn func(path string, w *models.Workout) error) error {
	return walkDocuments(s.workoutsDir(), func(path string) error {
		w, err := readWorkoutFile(path)
		if err != nil {
			return fmt.Errorf("read workout file %s: %w", path, err)
		}
		return fn(path, w)
	})
}

// findWorkoutFile finds the file path for a workout by ID or prefix.
func (s *MarkdownStore) findWorkoutFile(idOrPrefix string) (string, *models.Workout, error) {
	full := isFullUUID(idOrPrefix)

	var foundPath string
	var foundWorkout *models.Workout
	matchCount := 0

	err := s.walkWorkoutFiles(func(path string, w *models.Workout) error {
		idStr := w.ID.String()
		if full {
			if idStr == idOrPrefix {
				foundPath, foundWorkout, matchCount = path, w, 1
				return filepath.SkipAll
			}
		} else if strings.HasPrefix(idStr, idOrPrefix) {
			foundPath, foundWorkout = path, w
			matchCount++
		}
		return nil
	})
	if err != nil {
		return "", nil, err
	}

	if matchCount == 0 {
		return "", nil, notFound(idOrPrefix)
	}
	if matchCount > 1 {
		return "", nil, ambiguous(idOrPrefix)
	}

	return foundPath, foundWorkout, nil
}

// CreateWorkout stores a new workout as a markdown file.
func (s *MarkdownStore) CreateWorkout(_ context.Context, w *models.Workout) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fm := workoutFrontmatter{
		ID:              w.ID.String(),
		UserID:          w.UserID,
		Name:            w.Name,
		Category:        w.Category,
		Difficulty:      w.Difficulty,
		DurationMinutes: w.DurationMinutes,
		Calories:        w.Calories,
		CreatedAt:       formatFileTime(w.CreatedAt),
		Exercises:       w.Exercises,
	}
	body := ""
	if w.Notes != nil {
		body = *w.Notes
	}
	return writeDocument(s.workoutFilePath(w), &fm, body)
}

// GetWorkout retrieves a workout by ID or ID prefix.
func (s *MarkdownStore) GetWorkout(_ context.Context, idOrPrefix string) (*models.Workout, error) {
	_, w, err := s.findWorkoutFile(idOrPrefix)
	return w, err
}

// ListWorkouts retrieves workouts matching filter, most recent first.
func (s *MarkdownStore) ListWorkouts(_ context.Context, filter WorkoutFilter) ([]*models.Workout, error) {
	var workouts []*models.Workout

	err := s.walkWorkoutFiles(func(path string, w *models.Workout) error {
		if filter.Matches(w) {
			workouts = append(workouts, w)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	sort.Slice(workouts, func(i, j int) bool {
		return workouts[i].CreatedAt.After(workouts[j].CreatedAt)
	})

	return applyLimit(workouts, filter.Limit), nil
}

// DeleteWorkout removes a workout file and any records set in that workout.
func (s *MarkdownStore) DeleteWorkout(_ context.Context, idOrPrefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, w, err := s.findWorkoutFile(idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete workout file: %w", err)
	}

	return walkDocuments(s.recordsDir(), func(p string) error {
		r, err := readRecordFile(p)
		if err != nil {
			return err
		}
		if r.WorkoutID != nil && *r.WorkoutID == w.ID {
			if err := os.Remove(p); err != nil {
				return fmt.Errorf("delete record file: %w", err)
			}
		}
		return nil
	})
}

// --- Personal records ---

func readRecordFile(path string) (*models.PersonalRecord, error) {
	var fm recordFrontmatter
	if _, err := readDocument(path, &fm); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(fm.ID)
	if err != nil {
		return nil, fmt.Errorf("parse record ID %q: %w", fm.ID, err)
	}
	achievedAt, err := parseFileTime(fm.AchievedAt)
	if err != nil {
		return nil, fmt.Errorf("parse achieved_at %q: %w", fm.AchievedAt, err)
	}

	r := &models.PersonalRecord{
		ID: id,
		RecordKey: models.RecordKey{
			UserID:     fm.UserID,
			ExerciseID: fm.ExerciseID,
			MetricType: models.MetricType(fm.MetricType),
		},
		Value:      fm.Value,
		Unit:       fm.Unit,
		AchievedAt: achievedAt,
	}
	if fm.WorkoutID != "" {
		wid, err := uuid.Parse(fm.WorkoutID)
		if err != nil {
			return nil, fmt.Errorf("parse record workout ID %q: %w", fm.WorkoutID, err)
		}
		r.WorkoutID = &wid
	}
	return r, nil
}

func writeRecordFile(path string, r *models.PersonalRecord) error {
	fm := recordFrontmatter{
		ID:         r.ID.String(),
		UserID:     r.UserID,
		ExerciseID: r.ExerciseID,
		MetricType: string(r.MetricType),
		Value:      r.Value,
		Unit:       r.Unit,
		AchievedAt: formatFileTime(r.AchievedAt),
	}
	if r.WorkoutID != nil {
		fm.WorkoutID = r.WorkoutID.String()
	}
	return writeDocument(path, &fm, "")
}

// GetPersonalRecord retrieves the current record for key.
func (s *MarkdownStore) GetPersonalRecord(_ context.Context, key models.RecordKey) (*models.PersonalRecord, error) {
	r, err := readRecordFile(s.recordPath(key))
	if errors.Is(err, fs.ErrNotExist) || (err == nil && r.RecordKey != key) {
		return nil, notFound("record " + key.String())
	}
	if err != nil {
		return nil, fmt.Errorf("get personal record: %w", err)
	}
	return r, nil
}

// ListPersonalRecords retrieves records matching filter, most recent first.
func (s *MarkdownStore) ListPersonalRecords(_ context.Context, filter RecordFilter) ([]*models.PersonalRecord, error) {
	var out []*models.PersonalRecord
	err := walkDocuments(s.recordsDir(), func(path string) error {
		r, err := readRecordFile(path)
		if err != nil {
			return fmt.Errorf("read record file %s: %w", path, err)
		}
		if filter.Matches(r) {
			out = append(out, r)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list personal records: %w", err)
	}

	sortRecords(out)
	return applyLimit(out, filter.Limit), nil
}

// SwapRecordIfGreater writes candidate when its key has no record or candidate
// strictly beats the stored value. An existing record keeps its ID.
func (s *MarkdownStore) SwapRecordIfGreater(_ context.Context, candidate *models.PersonalRecord) (*models.RecordSwap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.recordPath(candidate.RecordKey)
	prev, err := readRecordFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		prev = nil
	case err != nil:
		return nil, fmt.Errorf("read record %s: %w", candidate.RecordKey, err)
	case prev.RecordKey != candidate.RecordKey:
		return nil, fmt.Errorf("record file %s belongs to %s", path, prev.RecordKey)
	}

	if prev != nil && candidate.Value <= prev.Value {
		return &models.RecordSwap{Previous: prev, Current: prev}, nil
	}

	next := *candidate
	if prev != nil {
		next.ID = prev.ID
	}
	if err := writeRecordFile(path, &next); err != nil {
		return nil, fmt.Errorf("write record %s: %w", next.RecordKey, err)
	}
	return &models.RecordSwap{Previous: prev, Current: &next, Swapped: true}, nil
}

// sortRecords orders records newest first with a stable tiebreak.
func sortRecords(records []*models.PersonalRecord) {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.AchievedAt.Equal(b.AchievedAt) {
			return a.AchievedAt.After(b.AchievedAt)
		}
		if a.ExerciseID != b.ExerciseID {
			return a.ExerciseID < b.ExerciseID
		}
		return a.MetricType < b.MetricType
	})
}

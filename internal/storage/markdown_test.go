// ABOUTME: Tests for the markdown file backend's on-disk layout and frontmatter handling.
// ABOUTME: Backend-neutral behavior is covered by the shared repository suite.
package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harperreed/trainer/internal/models"
)

func TestMarkdownStoreFileLayout(t *testing.T) {
	store := setupTestMarkdownStore(t)
	w := seed(t, store)

	paths := []string{
		filepath.Join(store.dataDir, "exercises", "bench-press.md"),
		filepath.Join(store.dataDir, "profiles", fileKey("alice")+".md"),
		filepath.Join(store.dataDir, "workouts", "2024", "05",
			"2024-05-06-chest-build-muscle-workout-"+w.ID.String()[:8]+".md"),
		filepath.Join(store.dataDir, "records", fileKey("alice"), fileKey("bench-press")+"-max_weight.md"),
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			t.Errorf("expected file %s: %v", p, err)
			continue
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("%s has mode %v, want 0600", p, info.Mode().Perm())
		}
	}
}

func TestFileKey(t *testing.T) {
	if got := fileKey("Bench Press"); !strings.HasPrefix(got, "bench-press-") {
		t.Errorf("fileKey kept no readable slug: %q", got)
	}
	if fileKey("Alice") == fileKey("alice") {
		t.Error("case variants share a file key")
	}
	if fileKey("bench press") == fileKey("bench-press") {
		t.Error("punctuation variants share a file key")
	}
	if fileKey("alice") != fileKey("alice") {
		t.Error("fileKey is not deterministic")
	}
}

func TestMarkdownStoreWorkoutNotesInBody(t *testing.T) {
	store := setupTestMarkdownStore(t)
	w := seed(t, store)

	data, err := os.ReadFile(store.workoutFilePath(w))
	if err != nil {
		t.Fatalf("read workout file: %v", err)
	}

	header, body := parseFrontmatter(string(data))
	if !strings.Contains(header, "exercise_id: bench-press") {
		t.Errorf("frontmatter missing exercises:\n%s", header)
	}
	if strings.TrimSpace(body) != "heavy day" {
		t.Errorf("body = %q, want notes", body)
	}
}

func TestMarkdownStoreReadsHandEditedFiles(t *testing.T) {
	store := setupTestMarkdownStore(t)
	ctx := context.Background()

	content := "\ufeff---\nid: goblet-squat\nposition: 3\nname: Goblet Squat\ncategory: strength\n" +
		"muscle_groups: [legs, glutes]\nequipment: [dumbbells]\ndifficulty: beginner\n---\n\nHold the bell at the chest.\n"
	path := filepath.Join(store.dataDir, "exercises", "goblet-squat.md")
	if err := atomicWrite(path, []byte(content)); err != nil {
		t.Fatalf("atomicWrite failed: %v", err)
	}

	got, err := store.GetExercise(ctx, "goblet-squat")
	if err != nil {
		t.Fatalf("GetExercise failed: %v", err)
	}
	if got.Description != "Hold the bell at the chest." {
		t.Errorf("Description = %q", got.Description)
	}
	if !got.TargetsMuscle("legs") {
		t.Errorf("MuscleGroups = %v, want legs", got.MuscleGroups)
	}

	// New exercises are appended after the highest existing position.
	if err := store.SaveExercise(ctx, &models.Exercise{ID: "lunges", Name: "Lunges"}); err != nil {
		t.Fatalf("SaveExercise failed: %v", err)
	}
	_, pos, err := readExerciseFile(store.exercisePath("lunges"))
	if err != nil {
		t.Fatalf("readExerciseFile failed: %v", err)
	}
	if pos != 4 {
		t.Errorf("position = %d, want 4", pos)
	}
}

func TestMarkdownStoreIgnoresNonMarkdownFiles(t *testing.T) {
	store := setupTestMarkdownStore(t)
	seed(t, store)

	stray := filepath.Join(store.dataDir, "workouts", "README.txt")
	if err := os.WriteFile(stray, []byte("not a workout"), 0600); err != nil {
		t.Fatalf("write stray file: %v", err)
	}

	workouts, err := store.ListWorkouts(context.Background(), WorkoutFilter{})
	if err != nil {
		t.Fatalf("ListWorkouts failed: %v", err)
	}
	if len(workouts) != 1 {
		t.Errorf("expected 1 workout, got %d", len(workouts))
	}
}

func TestParseFrontmatter(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantHeader string
		wantBody   string
	}{
		{"with body", "---\na: 1\n---\n\nhello\n", "a: 1", "\nhello\n"},
		{"empty body", "---\na: 1\n---\n", "a: 1", ""},
		{"byte order mark", "\ufeff---\na: 1\n---\nbody", "a: 1", "body"},
		{"no frontmatter", "# Title\n", "", "# Title\n"},
		{"unterminated", "---\na: 1\n", "", "---\na: 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, body := parseFrontmatter(tt.content)
			if header != tt.wantHeader {
				t.Errorf("header = %q, want %q", header, tt.wantHeader)
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Chest Build Muscle Workout": "chest-build-muscle-workout",
		"bench-press":                "bench-press",
		"  Alice@Example.com ":       "alice-example-com",
		"!!!":                        "untitled",
	}
	for in, want := range tests {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

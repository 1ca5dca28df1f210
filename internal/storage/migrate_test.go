// ABOUTME: Tests for data migration between storage backends.
// ABOUTME: Covers sqlite-to-markdown, markdown-to-sqlite, and empty sources.
package storage

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMigrateDataSQLiteToMarkdown(t *testing.T) {
	ctx := context.Background()
	src := setupTestDB(t)
	w := seed(t, src)

	dst := setupTestMarkdownStore(t)
	summary, err := MigrateData(ctx, src, dst)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}

	want := MigrateSummary{Exercises: 1, Profiles: 1, Workouts: 1, Records: 1}
	if *summary != want {
		t.Errorf("summary = %+v, want %+v", *summary, want)
	}

	srcWorkout, err := src.GetWorkout(ctx, w.ID.String())
	if err != nil {
		t.Fatalf("source GetWorkout failed: %v", err)
	}
	dstWorkout, err := dst.GetWorkout(ctx, w.ID.String())
	if err != nil {
		t.Fatalf("destination GetWorkout failed: %v", err)
	}
	if diff := cmp.Diff(srcWorkout, dstWorkout); diff != "" {
		t.Errorf("workout mismatch after migration (-src +dst):\n%s", diff)
	}

	records, err := dst.ListPersonalRecords(ctx, RecordFilter{UserID: "alice"})
	if err != nil {
		t.Fatalf("ListPersonalRecords failed: %v", err)
	}
	if len(records) != 1 || records[0].WorkoutID == nil || *records[0].WorkoutID != w.ID {
		t.Errorf("record lost its workout link: %+v", records)
	}
}

func TestMigrateDataMarkdownToSQLite(t *testing.T) {
	ctx := context.Background()
	src := setupTestMarkdownStore(t)
	seed(t, src)

	dst := setupTestDB(t)
	summary, err := MigrateData(ctx, src, dst)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if summary.Workouts != 1 || summary.Records != 1 {
		t.Errorf("summary = %+v", *summary)
	}

	srcData, err := CollectAll(ctx, src)
	if err != nil {
		t.Fatalf("CollectAll(src) failed: %v", err)
	}
	dstData, err := CollectAll(ctx, dst)
	if err != nil {
		t.Fatalf("CollectAll(dst) failed: %v", err)
	}
	if diff := cmp.Diff(srcData.Profiles, dstData.Profiles); diff != "" {
		t.Errorf("profiles mismatch (-src +dst):\n%s", diff)
	}
	if diff := cmp.Diff(srcData.Exercises, dstData.Exercises); diff != "" {
		t.Errorf("exercises mismatch (-src +dst):\n%s", diff)
	}
}

func TestMigrateDataEmptySource(t *testing.T) {
	summary, err := MigrateData(context.Background(), setupTestMarkdownStore(t), setupTestDB(t))
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if *summary != (MigrateSummary{}) {
		t.Errorf("summary = %+v, want zero", *summary)
	}
}

// ABOUTME: Windowed progress summary: daily buckets, totals, type mix, and deltas.
// ABOUTME: Buckets are sparse and keyed by calendar date in the caller's time zone.
package progress

import (
	"math"
	"sort"
	"time"

	"github.com/harperreed/trainer/internal/models"
)

// OtherCategory labels workouts without a category.
const OtherCategory = "Other"

const dateLayout = "2006-01-02"

// DayBucket aggregates the workouts of one calendar date.
type DayBucket struct {
	Date     string `json:"date"`
	Workouts int    `json:"workouts"`
	Duration int    `json:"duration"`
	Calories int    `json:"calories"`
}

// Summary is the progress report for one window.
type Summary struct {
	Start             time.Time      `json:"start"`
	End               time.Time      `json:"end"`
	Days              []DayBucket    `json:"days"`
	TotalWorkouts     int            `json:"total_workouts"`
	TotalDuration     int            `json:"total_duration"`
	TotalCalories     int            `json:"total_calories"`
	AvgDuration       int            `json:"avg_duration"`
	WorkoutTypes      map[string]int `json:"workout_types"`
	WorkoutCountDelta int            `json:"workout_count_delta"`
	DurationDelta     int            `json:"duration_delta"`
}

// Summarize reports on current and compares it to previous. Workouts are
// bucketed by the date of CreatedAt in loc; no filtering by window is done.
func Summarize(current, previous []*models.Workout, window Window, loc *time.Location) Summary {
	s := Summary{
		Start:        window.Start,
		End:          window.End,
		Days:         []DayBucket{},
		WorkoutTypes: make(map[string]int),
	}

	byDate := make(map[string]*DayBucket)
	for _, w := range current {
		date := w.CreatedAt.In(loc).Format(dateLayout)
		b, ok := byDate[date]
		if !ok {
			b = &DayBucket{Date: date}
			byDate[date] = b
		}
		b.Workouts++
		b.Duration += w.DurationMinutes
		b.Calories += w.Calories

		category := w.Category
		if category == "" {
			category = OtherCategory
		}
		s.WorkoutTypes[category]++

		s.TotalWorkouts++
		s.TotalDuration += w.DurationMinutes
		s.TotalCalories += w.Calories
	}

	for _, b := range byDate {
		s.Days = append(s.Days, *b)
	}
	sort.Slice(s.Days, func(i, j int) bool {
		return s.Days[i].Date < s.Days[j].Date
	})

	if s.TotalWorkouts > 0 {
		s.AvgDuration = int(math.Round(float64(s.TotalDuration) / float64(s.TotalWorkouts)))
	}

	prevDuration := 0
	for _, w := range previous {
		prevDuration += w.DurationMinutes
	}
	s.WorkoutCountDelta = PercentChange(float64(len(previous)), float64(s.TotalWorkouts))
	s.DurationDelta = PercentChange(float64(prevDuration), float64(s.TotalDuration))

	return s
}

// PercentChange returns the rounded percentage change from previous to current.
// From zero it is 0 when current is also zero and 100 otherwise.
func PercentChange(previous, current float64) int {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return int(math.Round((current - previous) / previous * 100))
}

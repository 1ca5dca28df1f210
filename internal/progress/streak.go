// ABOUTME: Consecutive-day workout streak and overall workout stats.
// ABOUTME: Days are civil dates in an explicit time zone; same-day workouts count once.
package progress

import (
	"sort"
	"time"
)

// Streak counts consecutive calendar days with a workout, ending at the most
// recent workout day. The streak is 0 unless that day is today or yesterday.
// Workouts dated after today are ignored.
func Streak(dates []time.Time, now time.Time, loc *time.Location) int {
	today := civilDay(now, loc)
	days := distinctDaysDesc(dates, loc)
	for len(days) > 0 && days[0] > today {
		days = days[1:]
	}
	if len(days) == 0 {
		return 0
	}

	if today-days[0] > 1 {
		return 0
	}

	streak := 1
	cursor := days[0]
	for _, d := range days[1:] {
		if cursor-d != 1 {
			break
		}
		streak++
		cursor = d
	}
	return streak
}

// Stats is the at-a-glance workout overview.
type Stats struct {
	Streak        int        `json:"streak"`
	TotalWorkouts int        `json:"total_workouts"`
	LastWorkout   *time.Time `json:"last_workout,omitempty"`
}

// ComputeStats derives Stats from every workout timestamp a user has.
func ComputeStats(dates []time.Time, now time.Time, loc *time.Location) Stats {
	stats := Stats{
		Streak:        Streak(dates, now, loc),
		TotalWorkouts: len(dates),
	}
	for _, d := range dates {
		if stats.LastWorkout == nil || d.After(*stats.LastWorkout) {
			last := d
			stats.LastWorkout = &last
		}
	}
	return stats
}

// civilDay numbers the calendar date of t in loc. Consecutive dates differ
// by exactly one regardless of DST.
func civilDay(t time.Time, loc *time.Location) int64 {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

func distinctDaysDesc(dates []time.Time, loc *time.Location) []int64 {
	seen := make(map[int64]struct{}, len(dates))
	days := make([]int64, 0, len(dates))
	for _, t := range dates {
		d := civilDay(t, loc)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] > days[j] })
	return days
}

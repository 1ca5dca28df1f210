// ABOUTME: Calendar windows (week, month, year) for progress summaries.
// ABOUTME: Windows are half-open [Start, End) and computed in an explicit time zone.
package progress

import (
	"strings"
	"time"
)

// Timeframe names a calendar window length.
type Timeframe string

const (
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
	TimeframeYear  Timeframe = "year"
)

// ParseTimeframe maps s to a Timeframe, falling back to a week.
func ParseTimeframe(s string) Timeframe {
	switch Timeframe(strings.ToLower(strings.TrimSpace(s))) {
	case TimeframeMonth:
		return TimeframeMonth
	case TimeframeYear:
		return TimeframeYear
	default:
		return TimeframeWeek
	}
}

// Window is a half-open time range [Start, End).
type Window struct {
	Timeframe Timeframe `json:"timeframe"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}

// WindowFor returns the calendar window of tf containing now, in loc.
// Weeks begin on weekStart.
func WindowFor(tf Timeframe, now time.Time, loc *time.Location, weekStart time.Weekday) Window {
	now = now.In(loc)
	y, m, d := now.Date()

	var start time.Time
	switch tf {
	case TimeframeMonth:
		start = time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case TimeframeYear:
		start = time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	default:
		tf = TimeframeWeek
		offset := (int(now.Weekday()) - int(weekStart) + 7) % 7
		start = time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
	}

	return Window{Timeframe: tf, Start: start, End: advance(tf, start, 1)}
}

// Previous returns the window of the same timeframe immediately before w.
func (w Window) Previous() Window {
	return Window{Timeframe: w.Timeframe, Start: advance(w.Timeframe, w.Start, -1), End: w.Start}
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// advance moves start by n timeframes using calendar arithmetic, so DST
// transitions never shift the window boundary off midnight.
func advance(tf Timeframe, start time.Time, n int) time.Time {
	switch tf {
	case TimeframeMonth:
		return start.AddDate(0, n, 0)
	case TimeframeYear:
		return start.AddDate(n, 0, 0)
	default:
		return start.AddDate(0, 0, 7*n)
	}
}

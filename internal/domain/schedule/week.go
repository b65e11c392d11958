// Package schedule holds the calendar arithmetic of the board: week windows,
// day keys, timestamp parsing, relocation and overlap checks.
package schedule

import (
	"strings"
	"time"

	"github.com/diegoclair/shift-board/internal/domain"
)

// naive layouts carry no zone and are read in the board location
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	domain.DayKeyLayout,
}

// StartOfWeek returns midnight of the Sunday on or before t, in loc.
func StartOfWeek(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	offset := (int(local.Weekday()) - int(domain.WeekStartsOn) + domain.DaysPerWeek) % domain.DaysPerWeek
	y, m, d := local.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
}

// AddDays moves t by n calendar days keeping its wall-clock time.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// WeekDays returns the seven consecutive days starting at start.
func WeekDays(start time.Time) []time.Time {
	days := make([]time.Time, domain.DaysPerWeek)
	for i := range days {
		days[i] = AddDays(start, i)
	}
	return days
}

// DayKey identifies the calendar date of t in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(domain.DayKeyLayout)
}

// ParseDayKey returns midnight of the day named by key.
func ParseDayKey(key string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(domain.DayKeyLayout, strings.TrimSpace(key), loc)
}

// ParseTimestamp reads a backend timestamp. Values without a zone are read
// in loc. The bool is false when s is empty or matches no known layout.
func ParseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatTimestamp renders t the way the board writes start times.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

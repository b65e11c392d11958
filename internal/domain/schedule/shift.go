package schedule

import (
	"sort"
	"time"

	"github.com/diegoclair/shift-board/internal/domain"
	"github.com/diegoclair/shift-board/internal/domain/entity"
)

// DayColumn is one day of the displayed week.
type DayColumn struct {
	Key     string
	Date    time.Time
	Shifts  []entity.Shift
	Hovered bool
}

// Bounds returns the interval a shift occupies. The end falls back to one
// hour after start when it is missing, unparseable or not after start.
func Bounds(sh entity.Shift, loc *time.Location) (start, end time.Time, ok bool) {
	start, ok = ParseTimestamp(sh.StartTime, loc)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end = start.Add(domain.DefaultShiftDuration)
	if !sh.HasEnd() {
		return start, end, true
	}
	if e, ok := ParseTimestamp(sh.EndTime, loc); ok && e.After(start) {
		end = e
	}
	return start, end, true
}

// Relocate places sh on the calendar date of day, keeping its wall-clock
// start. An unparseable start lands at midnight. An explicit end keeps its
// own wall-clock time on the new date; when that would not be after the new
// start the original duration is kept instead, then the one-hour default.
func Relocate(sh entity.Shift, day time.Time, loc *time.Location) (start, end time.Time) {
	y, m, d := day.In(loc).Date()

	origStart, hasStart := ParseTimestamp(sh.StartTime, loc)
	var hh, mm, ss int
	if hasStart {
		hh, mm, ss = origStart.In(loc).Clock()
	}
	start = time.Date(y, m, d, hh, mm, ss, 0, loc)
	end = start.Add(domain.DefaultShiftDuration)

	if !sh.HasEnd() {
		return start, end
	}
	origEnd, ok := ParseTimestamp(sh.EndTime, loc)
	if !ok {
		return start, end
	}
	eh, em, es := origEnd.In(loc).Clock()
	if candidate := time.Date(y, m, d, eh, em, es, 0, loc); candidate.After(start) {
		return start, candidate
	}
	if hasStart && origEnd.After(origStart) {
		return start, start.Add(origEnd.Sub(origStart))
	}
	return start, end
}

// Overlaps reports whether [s1,e1) and [s2,e2) intersect. Touching
// boundaries do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// Conflicts lists the shifts starting on the day of newStart whose interval
// overlaps [newStart,newEnd). The moving shift itself is never reported.
func Conflicts(movingID int64, newStart, newEnd time.Time, shifts []entity.Shift, loc *time.Location) []entity.Shift {
	targetKey := DayKey(newStart, loc)

	var out []entity.Shift
	for _, other := range shifts {
		if other.ID == movingID {
			continue
		}
		s, e, ok := Bounds(other, loc)
		if !ok || DayKey(s, loc) != targetKey {
			continue
		}
		if Overlaps(newStart, newEnd, s, e) {
			out = append(out, other)
		}
	}
	return out
}

// Bucket groups shifts by the day key of their start. Every shift appears
// under exactly one key.
func Bucket(shifts []entity.Shift, loc *time.Location) map[string][]entity.Shift {
	buckets := make(map[string][]entity.Shift)
	for _, sh := range shifts {
		key := domain.UnknownDayKey
		if s, ok := ParseTimestamp(sh.StartTime, loc); ok {
			key = DayKey(s, loc)
		}
		buckets[key] = append(buckets[key], sh)
	}
	return buckets
}

// Columns lays shifts out over the week starting at weekStart, each column
// sorted by start time then id. Shifts outside the week are not shown.
func Columns(weekStart time.Time, shifts []entity.Shift, loc *time.Location) []DayColumn {
	buckets := Bucket(shifts, loc)

	columns := make([]DayColumn, 0, domain.DaysPerWeek)
	for _, day := range WeekDays(weekStart) {
		key := DayKey(day, loc)
		dayShifts := append([]entity.Shift(nil), buckets[key]...)
		sort.SliceStable(dayShifts, func(i, j int) bool {
			si, _ := ParseTimestamp(dayShifts[i].StartTime, loc)
			sj, _ := ParseTimestamp(dayShifts[j].StartTime, loc)
			if !si.Equal(sj) {
				return si.Before(sj)
			}
			return dayShifts[i].ID < dayShifts[j].ID
		})
		columns = append(columns, DayColumn{Key: key, Date: day, Shifts: dayShifts})
	}
	return columns
}

// IsWeekDay reports whether key names one of the seven days starting at weekStart.
func IsWeekDay(key string, weekStart time.Time, loc *time.Location) bool {
	for _, day := range WeekDays(weekStart) {
		if DayKey(day, loc) == key {
			return true
		}
	}
	return false
}

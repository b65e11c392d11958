package domain

import "time"

// WeekStartsOn is the first column of every board week
const WeekStartsOn = time.Sunday

// DaysPerWeek is the number of day buckets on the board
const DaysPerWeek = 7

// DefaultShiftDuration is assumed when a shift has no usable end time
const DefaultShiftDuration = time.Hour

// DayKeyLayout formats the calendar date that identifies a day bucket
const DayKeyLayout = "2006-01-02"

// UnknownDayKey buckets shifts whose start cannot be parsed
const UnknownDayKey = "unknown"

// WeekdayNames maps weekdays to the short names shown in column headers
var WeekdayNames = map[time.Weekday]string{
	time.Sunday:    "Sun",
	time.Monday:    "Mon",
	time.Tuesday:   "Tue",
	time.Wednesday: "Wed",
	time.Thursday:  "Thu",
	time.Friday:    "Fri",
	time.Saturday:  "Sat",
}

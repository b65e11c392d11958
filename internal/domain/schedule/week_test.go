package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestStartOfWeek(t *testing.T) {
	ny := mustLoad(t, "America/New_York")

	tests := []struct {
		name string
		t    time.Time
		loc  *time.Location
		want time.Time
	}{
		{
			name: "wednesday afternoon",
			t:    time.Date(2025, 10, 1, 15, 30, 0, 0, time.UTC),
			loc:  time.UTC,
			want: time.Date(2025, 9, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "sunday midnight is its own week",
			t:    time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC),
			loc:  time.UTC,
			want: time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "saturday last second",
			t:    time.Date(2025, 10, 4, 23, 59, 59, 0, time.UTC),
			loc:  time.UTC,
			want: time.Date(2025, 9, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "instant read in the board zone",
			t:    time.Date(2025, 10, 5, 2, 0, 0, 0, time.UTC),
			loc:  ny,
			want: time.Date(2025, 9, 28, 0, 0, 0, 0, ny),
		},
		{
			name: "week beginning on a dst change",
			t:    time.Date(2025, 11, 5, 12, 0, 0, 0, ny),
			loc:  ny,
			want: time.Date(2025, 11, 2, 0, 0, 0, 0, ny),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StartOfWeek(tt.t, tt.loc)

			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
			assert.Equal(t, time.Sunday, got.Weekday())
			h, m, s := got.Clock()
			assert.Zero(t, h+m+s)
		})
	}
}

func TestStartOfWeek_everyInstantOfAWeek(t *testing.T) {
	sunday := time.Date(2025, 9, 28, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7*24; i++ {
		instant := sunday.Add(time.Duration(i)*time.Hour + 59*time.Minute)
		got := StartOfWeek(instant, time.UTC)

		assert.True(t, sunday.Equal(got), "instant %s", instant)
		assert.False(t, got.After(instant))
		assert.True(t, instant.Before(got.AddDate(0, 0, 7)))
	}
}

func TestWeekDays(t *testing.T) {
	days := WeekDays(time.Date(2025, 9, 28, 0, 0, 0, 0, time.UTC))

	require.Len(t, days, 7)
	keys := make([]string, 0, len(days))
	for _, d := range days {
		keys = append(keys, DayKey(d, time.UTC))
	}
	assert.Equal(t, []string{
		"2025-09-28", "2025-09-29", "2025-09-30", "2025-10-01",
		"2025-10-02", "2025-10-03", "2025-10-04",
	}, keys)
}

func TestDayKey_usesBoardZone(t *testing.T) {
	tokyo := mustLoad(t, "Asia/Tokyo")
	instant := time.Date(2025, 10, 1, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-10-01", DayKey(instant, time.UTC))
	assert.Equal(t, "2025-10-02", DayKey(instant, tokyo))
}

func TestParseDayKey(t *testing.T) {
	got, err := ParseDayKey(" 2025-10-02 ", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 2, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDayKey("10/02/2025", time.UTC)
	assert.Error(t, err)
}

func TestParseTimestamp(t *testing.T) {
	ny := mustLoad(t, "America/New_York")

	tests := []struct {
		name   string
		input  string
		want   time.Time
		wantOK bool
	}{
		{name: "rfc3339 utc", input: "2025-10-01T14:00:00Z", want: time.Date(2025, 10, 1, 14, 0, 0, 0, time.UTC), wantOK: true},
		{name: "rfc3339 offset", input: "2025-10-01T14:00:00-04:00", want: time.Date(2025, 10, 1, 18, 0, 0, 0, time.UTC), wantOK: true},
		{name: "fractional seconds", input: "2025-10-01T14:00:00.250Z", want: time.Date(2025, 10, 1, 14, 0, 0, 250e6, time.UTC), wantOK: true},
		{name: "naive iso read in zone", input: "2025-10-01T14:00:00", want: time.Date(2025, 10, 1, 14, 0, 0, 0, ny), wantOK: true},
		{name: "sql style", input: "2025-10-01 09:30:00", want: time.Date(2025, 10, 1, 9, 30, 0, 0, ny), wantOK: true},
		{name: "empty", input: "", wantOK: false},
		{name: "garbage", input: "next tuesday", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.input, ny)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
			}
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	ny := mustLoad(t, "America/New_York")

	assert.Equal(t, "2025-10-02T18:00:00Z", FormatTimestamp(time.Date(2025, 10, 2, 14, 0, 0, 0, ny)))
}

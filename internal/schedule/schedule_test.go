package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSchedule(t *testing.T) {
	s := DefaultSchedule()

	assert.Equal(t, 24*60, s.PostEveryMinutes)
	assert.Equal(t, 8, s.StartHour)
	assert.Equal(t, 22, s.EndHour)
	assert.Len(t, s.Weekdays, 7)
}

func TestIsActiveAt(t *testing.T) {
	s := Schedule{
		StartHour: 9,
		EndHour:   18,
		Weekdays:  []string{"mon", "tue", "wed", "thu", "fri"},
	}

	// 2026-08-19 is a Wednesday.
	wed := func(hour int) time.Time {
		return time.Date(2026, 8, 19, hour, 30, 0, 0, time.UTC)
	}
	sat := time.Date(2026, 8, 22, 12, 0, 0, 0, time.UTC)

	assert.True(t, s.IsActiveAt(wed(9)))
	assert.True(t, s.IsActiveAt(wed(17)))
	assert.False(t, s.IsActiveAt(wed(8)))
	assert.False(t, s.IsActiveAt(wed(18)), "end hour is exclusive")
	assert.False(t, s.IsActiveAt(sat))
}

func TestPostEvery(t *testing.T) {
	s := Schedule{PostEveryMinutes: 90}
	assert.Equal(t, 90*time.Minute, s.PostEvery())

	assert.Equal(t, time.Duration(0), Schedule{}.PostEvery())
}

func TestParseHours(t *testing.T) {
	start, end, err := ParseHours("8-22")
	require.NoError(t, err)
	assert.Equal(t, 8, start)
	assert.Equal(t, 22, end)

	start, end, err = ParseHours(" 0 - 24 ")
	require.NoError(t, err)
	assert.Equal(t, 0, start)
	assert.Equal(t, 24, end)
}

func TestParseHours_Invalid(t *testing.T) {
	tests := []string{"22", "abc-10", "9-abc", "-1-10", "9-25", "18-9", "9-9"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, _, err := ParseHours(input)
			assert.Error(t, err)
		})
	}
}

func TestParseWeekdays_Range(t *testing.T) {
	days, err := ParseWeekdays("mon-fri")
	require.NoError(t, err)
	assert.Equal(t, []string{"mon", "tue", "wed", "thu", "fri"}, days)
}

func TestParseWeekdays_List(t *testing.T) {
	days, err := ParseWeekdays("Mon, wed ,FRI")
	require.NoError(t, err)
	assert.Equal(t, []string{"mon", "wed", "fri"}, days)
}

func TestParseWeekdays_Invalid(t *testing.T) {
	tests := []string{"funday", "fri-mon", "mon,blah"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := ParseWeekdays(input)
			assert.Error(t, err)
		})
	}
}

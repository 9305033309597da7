package keepsake

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysTogether(t *testing.T) {
	now := time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		since time.Time
		want  int
	}{
		{"unset", time.Time{}, 0},
		{"now", now, 0},
		{"future", now.Add(72 * time.Hour), 0},
		{"far future", now.AddDate(5, 0, 0), 0},
		{"almost a day", now.Add(-23 * time.Hour), 0},
		{"one day", now.Add(-24 * time.Hour), 1},
		{"midnight start", time.Date(2026, 10, 9, 0, 0, 0, 0, time.UTC), 10},
		{"leap year", time.Date(2024, 2, 29, 15, 30, 0, 0, time.UTC), 963},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DaysTogether(tc.since, now))
		})
	}
}

func TestDaysTogetherWholeDays(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	for k := 0; k < 2000; k += 37 {
		since := now.Add(-time.Duration(k) * 24 * time.Hour)
		require.Equal(t, k, DaysTogether(since, now), "k=%d", k)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2024-02-14 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 14, 0, 0, 0, 0, time.Local), d)

	d, err = ParseDate("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = ParseDate("14/02/2024")
	assert.Error(t, err)
}

func TestDateFormats(t *testing.T) {
	now := time.Date(2026, 3, 7, 9, 5, 0, 0, time.UTC)
	assert.Equal(t, "MAR 7, '26", PostmarkDate(now))
	assert.Equal(t, "MAR 7, 2026", StripDate(now))
	assert.Equal(t, "sealed at 09:05", SealTime(now))
	assert.Equal(t, "JAN 1, '05", PostmarkDate(time.Date(2005, 1, 1, 0, 0, 0, 0, time.UTC)))
}

package workcal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewHolidays(t *testing.T) {
	h, err := NewHolidays([]string{"2025-01-01", "2025-12-25"})
	require.NoError(t, err)
	assert.True(t, h.Contains(date(2025, 1, 1)))
	assert.False(t, h.Contains(date(2025, 1, 2)))

	_, err = NewHolidays([]string{"not-a-date"})
	assert.Error(t, err)
}

func TestCalendar_IsWorkday(t *testing.T) {
	c := New(Default2025(), DefaultWorkdayMinutes)

	// 2025-03-03 is a Monday.
	assert.True(t, c.IsWorkday(date(2025, 3, 3)))
	// Weekend.
	assert.False(t, c.IsWorkday(date(2025, 3, 1)))
	assert.False(t, c.IsWorkday(date(2025, 3, 2)))
	// Cincomarzada, a Wednesday.
	assert.False(t, c.IsWorkday(date(2025, 3, 5)))
	// Christmas.
	assert.False(t, c.IsWorkday(date(2025, 12, 25)))
}

func TestCalendar_NextWorkStart(t *testing.T) {
	c := New(Default2025(), DefaultWorkdayMinutes)

	// Saturday rolls to Monday midnight.
	sat := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, date(2025, 3, 3), c.NextWorkStart(sat))

	// A workday start is untouched.
	mon := time.Date(2025, 3, 3, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, mon, c.NextWorkStart(mon))
}

func TestCalendar_AddWorkMinutes(t *testing.T) {
	c := New(Default2025(), 465)

	t.Run("fits in one day", func(t *testing.T) {
		start := date(2025, 3, 3) // Monday
		end := c.AddWorkMinutes(start, 120)
		assert.Equal(t, start.Add(120*time.Minute), end)
	})

	t.Run("spills into next day", func(t *testing.T) {
		start := date(2025, 3, 3)
		end := c.AddWorkMinutes(start, 500)
		// 465 minutes on Monday, 35 on Tuesday.
		assert.Equal(t, date(2025, 3, 4).Add(35*time.Minute), end)
	})

	t.Run("skips holiday and weekend", func(t *testing.T) {
		// Tuesday 2025-03-04; Wednesday the 5th is Cincomarzada.
		start := date(2025, 3, 4)
		end := c.AddWorkMinutes(start, 465+60)
		assert.Equal(t, date(2025, 3, 6).Add(60*time.Minute), end)

		// Friday spilling over the weekend lands on Monday.
		start = date(2025, 3, 7)
		end = c.AddWorkMinutes(start, 465+30)
		assert.Equal(t, date(2025, 3, 10).Add(30*time.Minute), end)
	})

	t.Run("weekend start rolls forward", func(t *testing.T) {
		start := date(2025, 3, 1) // Saturday
		end := c.AddWorkMinutes(start, 60)
		assert.Equal(t, date(2025, 3, 3).Add(60*time.Minute), end)
	})

	t.Run("start past end of shift", func(t *testing.T) {
		start := date(2025, 3, 3).Add(465 * time.Minute)
		end := c.AddWorkMinutes(start, 10)
		assert.Equal(t, date(2025, 3, 4).Add(10*time.Minute), end)
	})
}

func TestCalendar_CountWorkdays(t *testing.T) {
	c := New(Default2025(), 465)

	t.Run("same day counts one", func(t *testing.T) {
		start := date(2025, 3, 3)
		assert.Equal(t, 1.0, c.CountWorkdays(start, start.Add(2*time.Hour)))
	})

	t.Run("same non-workday counts zero", func(t *testing.T) {
		start := date(2025, 3, 1)
		assert.Equal(t, 0.0, c.CountWorkdays(start, start.Add(2*time.Hour)))
	})

	t.Run("whole days", func(t *testing.T) {
		// Monday to Thursday midnight, Wednesday is a holiday.
		got := c.CountWorkdays(date(2025, 3, 3), date(2025, 3, 6))
		assert.Equal(t, 2.0, got)
	})

	t.Run("fractional final day", func(t *testing.T) {
		// Monday midnight to Tuesday 06:00 ends a quarter into the day.
		got := c.CountWorkdays(date(2025, 3, 3), date(2025, 3, 4).Add(6*time.Hour))
		assert.Equal(t, 1.25, got)
	})

	t.Run("never below one once past a day boundary", func(t *testing.T) {
		// Saturday to Sunday spans no workdays but still reports 1.
		got := c.CountWorkdays(date(2025, 3, 1), date(2025, 3, 2).Add(time.Hour))
		assert.Equal(t, 1.0, got)
	})
}

func TestCalendar_NonWorkBands(t *testing.T) {
	c := New(Default2025(), 465)

	// Monday 2025-03-03 through Friday 2025-03-07: the only non-workday
	// in range is Wednesday the 5th, plus Saturday from the trailing day.
	bands := c.NonWorkBands(date(2025, 3, 3), date(2025, 3, 7))
	require.Len(t, bands, 2)
	assert.Equal(t, date(2025, 3, 5).UnixMilli(), bands[0].FromMS)
	assert.Equal(t, date(2025, 3, 6).UnixMilli(), bands[0].ToMS)
	assert.Equal(t, date(2025, 3, 8).UnixMilli(), bands[1].FromMS)
}

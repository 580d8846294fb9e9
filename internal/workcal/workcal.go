// Package workcal implements the working calendar used by the
// scheduler: Monday to Friday, minus a configurable holiday set, with a
// fixed number of productive minutes per day counted from midnight.
package workcal

import (
	"fmt"
	"math"
	"time"
)

// DefaultWorkdayMinutes is the productive minutes in one shift.
const DefaultWorkdayMinutes = 465

// Holidays is a set of non-working dates. Time-of-day and timezone are
// ignored; only the calendar date matters.
type Holidays map[string]struct{}

const dateLayout = "2006-01-02"

func dateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// NewHolidays builds a holiday set from dates in YYYY-MM-DD form.
func NewHolidays(dates []string) (Holidays, error) {
	h := make(Holidays, len(dates))
	for _, d := range dates {
		if _, err := time.Parse(dateLayout, d); err != nil {
			return nil, fmt.Errorf("invalid holiday date %q: %w", d, err)
		}
		h[d] = struct{}{}
	}
	return h, nil
}

// Contains reports whether the date of t is a holiday.
func (h Holidays) Contains(t time.Time) bool {
	_, ok := h[dateKey(t)]
	return ok
}

// Dates returns the holiday dates in YYYY-MM-DD form, unsorted.
func (h Holidays) Dates() []string {
	out := make([]string, 0, len(h))
	for d := range h {
		out = append(out, d)
	}
	return out
}

// Default2025 returns the 2025 labour calendar for Zaragoza: national
// and Aragón holidays plus the two local ones.
func Default2025() Holidays {
	h, _ := NewHolidays([]string{
		"2025-01-01", // New Year
		"2025-01-06", // Epiphany
		"2025-01-29", // San Valero (local)
		"2025-03-05", // Cincomarzada (local)
		"2025-04-17", // Maundy Thursday
		"2025-04-18", // Good Friday
		"2025-04-23", // San Jorge (Aragón)
		"2025-05-01", // Labour Day
		"2025-08-15", // Assumption
		"2025-10-13", // Monday after National Day
		"2025-11-01", // All Saints
		"2025-12-06", // Constitution Day
		"2025-12-08", // Immaculate Conception
		"2025-12-25", // Christmas
	})
	return h
}

// Calendar answers workday questions for a given holiday set and shift
// length.
type Calendar struct {
	Holidays       Holidays
	WorkdayMinutes int
}

// New returns a calendar with the given holidays. A non-positive
// workdayMinutes falls back to DefaultWorkdayMinutes.
func New(holidays Holidays, workdayMinutes int) *Calendar {
	if workdayMinutes <= 0 {
		workdayMinutes = DefaultWorkdayMinutes
	}
	if holidays == nil {
		holidays = Default2025()
	}
	return &Calendar{Holidays: holidays, WorkdayMinutes: workdayMinutes}
}

// IsWorkday reports whether t falls on a working day: Monday to Friday
// and not a holiday.
func (c *Calendar) IsWorkday(t time.Time) bool {
	wd := t.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return !c.Holidays.Contains(t)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func nextMidnight(t time.Time) time.Time {
	return midnight(t).AddDate(0, 0, 1)
}

// NextWorkStart returns t if its date is a workday, otherwise midnight
// of the next workday.
func (c *Calendar) NextWorkStart(t time.Time) time.Time {
	for !c.IsWorkday(t) {
		t = nextMidnight(t)
	}
	return t
}

// AddWorkMinutes advances start by the given number of working minutes.
// The shift runs from midnight for WorkdayMinutes; the remainder of
// each calendar day and every non-workday are skipped.
func (c *Calendar) AddWorkMinutes(start time.Time, minutes float64) time.Time {
	cur := c.NextWorkStart(start)
	remaining := minutes

	for remaining > 0 {
		if !c.IsWorkday(cur) {
			cur = nextMidnight(cur)
			continue
		}
		endOfShift := midnight(cur).Add(time.Duration(c.WorkdayMinutes) * time.Minute)
		left := endOfShift.Sub(cur).Minutes()
		if left <= 0 {
			cur = nextMidnight(cur)
			continue
		}
		if remaining <= left {
			cur = cur.Add(time.Duration(remaining * float64(time.Minute)))
			remaining = 0
		} else {
			remaining -= left
			cur = nextMidnight(cur)
		}
	}
	return cur
}

// CountWorkdays counts working days from start (inclusive) to end
// (exclusive), adding a fraction of the final day when end falls
// mid-shift. A span inside a single day counts as one workday, and the
// result is never less than 1 for work that happened at all.
func (c *Calendar) CountWorkdays(start, end time.Time) float64 {
	if sameDate(start, end) {
		if c.IsWorkday(start) {
			return 1
		}
		return 0
	}

	var workdays float64
	cur := midnight(start)
	endDay := midnight(end)
	for cur.Before(endDay) {
		if c.IsWorkday(cur) {
			workdays++
		}
		cur = cur.AddDate(0, 0, 1)
	}

	if c.IsWorkday(endDay) && end.After(endDay) {
		workdays += end.Sub(endDay).Hours() / 24
	}

	if workdays <= 0 {
		return 1
	}
	return math.Round(workdays*100) / 100
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// Band marks one non-working day for chart shading, in epoch
// milliseconds.
type Band struct {
	FromMS int64 `json:"from"`
	ToMS   int64 `json:"to"`
}

// NonWorkBands returns one band per non-workday between start and end,
// inclusive, extending one day past end so the final day is covered.
func (c *Calendar) NonWorkBands(start, end time.Time) []Band {
	var bands []Band
	cur := midnight(start)
	last := midnight(end).AddDate(0, 0, 1)
	for !cur.After(last) {
		if !c.IsWorkday(cur) {
			bands = append(bands, Band{
				FromMS: cur.UnixMilli(),
				ToMS:   nextMidnight(cur).UnixMilli(),
			})
		}
		cur = cur.AddDate(0, 0, 1)
	}
	return bands
}

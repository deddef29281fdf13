// Package dates normalizes instants to calendar days in one fixed reference
// zone and builds contiguous day ranges for bucketing.
package dates

import "time"

const keyLayout = "2006-01-02"

// Calendar is a value type; the zero Calendar works in UTC.
type Calendar struct {
	loc *time.Location
}

func NewCalendar(loc *time.Location) Calendar {
	return Calendar{loc: loc}
}

func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// StartOfDay returns 00:00:00 of the day containing t.
func (c Calendar) StartOfDay(t time.Time) time.Time {
	t = t.In(c.Location())
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.Location())
}

// AddDays moves a day boundary by n calendar days.
func (c Calendar) AddDays(day time.Time, n int) time.Time {
	return c.StartOfDay(day).AddDate(0, 0, n)
}

func (c Calendar) SameDay(a, b time.Time) bool {
	return c.StartOfDay(a).Equal(c.StartOfDay(b))
}

// Key is a stable map key for the day containing t.
func (c Calendar) Key(t time.Time) string {
	return t.In(c.Location()).Format(keyLayout)
}

// Range returns n ascending day boundaries ending with the day that
// contains ref. n <= 0 yields an empty range.
func (c Calendar) Range(ref time.Time, n int) []time.Time {
	if n <= 0 {
		return []time.Time{}
	}
	today := c.StartOfDay(ref)
	out := make([]time.Time, n)
	for i := 0; i < n; i++ {
		out[i] = today.AddDate(0, 0, i-(n-1))
	}
	return out
}

// WindowStart is the first boundary of Range(ref, n).
func (c Calendar) WindowStart(ref time.Time, n int) time.Time {
	if n <= 0 {
		return c.StartOfDay(ref)
	}
	return c.AddDays(ref, -(n - 1))
}

// StartOfWeek returns Monday 00:00 of the week containing t.
func (c Calendar) StartOfWeek(t time.Time) time.Time {
	day := c.StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// DaysBetween counts whole calendar days from a to b.
func (c Calendar) DaysBetween(a, b time.Time) int {
	from, to := c.StartOfDay(a), c.StartOfDay(b)
	y1, m1, d1 := from.Date()
	y2, m2, d2 := to.Date()
	// Compare as UTC dates so DST shifts do not skew the count.
	u1 := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	u2 := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(u2.Sub(u1).Hours() / 24)
}

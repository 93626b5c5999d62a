package engine

import (
	"time"
)

// =============================================================================
// DATE POINT - Day-granularity date (the engine never reasons below a day)
// =============================================================================

// DatePoint is a calendar date. The zero value means "no date" (a document
// that was never uploaded). All comparisons normalize to midnight so that
// time-of-day never perturbs a day count.
type DatePoint struct {
	Time time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) DatePoint {
	return DatePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an arbitrary timestamp to its calendar date.
func DateOf(t time.Time) DatePoint {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a "2006-01-02" date string. Malformed input yields an
// *InvalidDateError; callers must not coerce it into a zero date.
func ParseDate(s string) (DatePoint, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return DatePoint{}, &InvalidDateError{Input: s, Reason: err.Error()}
	}
	return DateOf(t), nil
}

// Comparison
func (d DatePoint) Before(other DatePoint) bool { return d.normalize().Before(other.normalize()) }
func (d DatePoint) Equal(other DatePoint) bool  { return d.normalize().Equal(other.normalize()) }
func (d DatePoint) After(other DatePoint) bool  { return d.normalize().After(other.normalize()) }
func (d DatePoint) IsZero() bool                { return d.Time.IsZero() }

func (d DatePoint) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d DatePoint) AddDays(n int) DatePoint { return DatePoint{Time: d.normalize().AddDate(0, 0, n)} }

// Properties
func (d DatePoint) Year() int             { return d.Time.Year() }
func (d DatePoint) Month() time.Month     { return d.Time.Month() }
func (d DatePoint) Day() int              { return d.Time.Day() }
func (d DatePoint) Weekday() time.Weekday { return d.normalize().Weekday() }
func (d DatePoint) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d DatePoint) String() string { return d.normalize().Format("2006-01-02") }

// DaysBetween returns the signed number of calendar days from one date to
// another. Positive when to is after from.
func DaysBetween(from, to DatePoint) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}

// =============================================================================
// CLOCK - "today" is the engine's only implicit input, so it is injected
// =============================================================================

// Clock supplies the current wall time. Production code uses SystemClock;
// tests pin a FixedClock so every computation is deterministic.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }

// Today returns the clock's current date in the server's local timezone,
// normalized to midnight.
func Today(clock Clock) DatePoint {
	now := clock.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

/*
calendar.go - Business-day calendar

PURPOSE:
  Decides whether a calendar date is a working day and advances dates by
  business days. Used by the expiration calculator for the sections whose
  validity window is measured in business days (today only "Consulta
  DGIUR") rather than calendar days.

HOLIDAYS:
  The default calendar knows the five fixed Argentine national holidays
  that repeat on the same month/day every year. Movable feast days and
  per-year decree holidays are NOT modeled; inject a custom Calendar if
  a fuller list is needed.

SEE ALSO:
  - expiration.go: Only consumer of AddBusinessDays
*/
package engine

import "time"

// Calendar classifies dates as business days or not.
type Calendar interface {
	IsBusinessDay(d DatePoint) bool
}

// ArgentineCalendar excludes weekends and the fixed national holidays.
type ArgentineCalendar struct{}

// monthDay is a year-independent holiday key.
type monthDay struct {
	Month time.Month
	Day   int
}

var fixedHolidays = map[monthDay]bool{
	{time.January, 1}:   true, // Año Nuevo
	{time.May, 1}:       true, // Día del Trabajador
	{time.May, 25}:      true, // Revolución de Mayo
	{time.July, 9}:      true, // Día de la Independencia
	{time.December, 25}: true, // Navidad
}

func (ArgentineCalendar) IsBusinessDay(d DatePoint) bool {
	if d.IsWeekend() {
		return false
	}
	return !fixedHolidays[monthDay{Month: d.Month(), Day: d.Day()}]
}

// AddBusinessDays advances start by n business days: it steps one calendar
// day at a time and counts only days the calendar accepts. The start date
// itself is never counted ("N business days after start"). n <= 0 returns
// start unchanged.
func AddBusinessDays(cal Calendar, start DatePoint, n int) DatePoint {
	d := start
	for counted := 0; counted < n; {
		d = d.AddDays(1)
		if cal.IsBusinessDay(d) {
			counted++
		}
	}
	return d
}

// BusinessDaysBetween counts the business days in the inclusive range
// [start, end]. Returns 0 when end is before start.
func BusinessDaysBetween(cal Calendar, start, end DatePoint) int {
	if end.Before(start) {
		return 0
	}
	count := 0
	for d := start; !d.After(end); d = d.AddDays(1) {
		if cal.IsBusinessDay(d) {
			count++
		}
	}
	return count
}

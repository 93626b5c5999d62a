package engine_test

import (
	"testing"
	"time"

	"github.com/obratrack/compliance-engine/engine"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var cal = engine.ArgentineCalendar{}

func date(year int, month time.Month, day int) engine.DatePoint {
	return engine.NewDate(year, month, day)
}

// =============================================================================
// BUSINESS DAY CLASSIFICATION
// =============================================================================

func TestIsBusinessDay_WeekendsExcluded(t *testing.T) {
	// GIVEN: A Saturday and a Sunday
	// THEN: Neither is a business day

	saturday := date(2025, time.January, 4)
	sunday := date(2025, time.January, 5)

	if cal.IsBusinessDay(saturday) {
		t.Errorf("expected Saturday %s to not be a business day", saturday)
	}
	if cal.IsBusinessDay(sunday) {
		t.Errorf("expected Sunday %s to not be a business day", sunday)
	}
}

func TestIsBusinessDay_FixedHolidaysExcluded(t *testing.T) {
	// GIVEN: The five fixed holidays falling on weekdays in 2025
	// THEN: None is a business day, in any year

	holidays := []engine.DatePoint{
		date(2025, time.January, 1),  // Wednesday
		date(2025, time.May, 1),      // Thursday
		date(2025, time.July, 9),     // Wednesday
		date(2025, time.December, 25), // Thursday
		date(2026, time.July, 9),     // year-independent
	}

	for _, h := range holidays {
		if cal.IsBusinessDay(h) {
			t.Errorf("expected holiday %s to not be a business day", h)
		}
	}
}

func TestIsBusinessDay_OrdinaryWeekday(t *testing.T) {
	monday := date(2025, time.January, 6)
	if !cal.IsBusinessDay(monday) {
		t.Errorf("expected %s to be a business day", monday)
	}
}

// =============================================================================
// ADD BUSINESS DAYS
// =============================================================================

func TestAddBusinessDays_SkipsWeekend(t *testing.T) {
	// GIVEN: A Friday
	// WHEN: Adding 1 business day
	// THEN: Result is the following Monday

	friday := date(2025, time.January, 3)
	got := engine.AddBusinessDays(cal, friday, 1)
	want := date(2025, time.January, 6)

	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestAddBusinessDays_SkipsHoliday(t *testing.T) {
	// GIVEN: Dec 24 2025 (Wednesday); Dec 25 is a holiday
	// WHEN: Adding 1 business day
	// THEN: Result is Friday Dec 26

	got := engine.AddBusinessDays(cal, date(2025, time.December, 24), 1)
	want := date(2025, time.December, 26)

	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestAddBusinessDays_ZeroReturnsStart(t *testing.T) {
	saturday := date(2025, time.January, 4)
	if got := engine.AddBusinessDays(cal, saturday, 0); !got.Equal(saturday) {
		t.Errorf("expected start date %s, got %s", saturday, got)
	}
}

func TestAddBusinessDays_NeverLandsOnNonBusinessDay(t *testing.T) {
	// GIVEN: Arbitrary start dates
	// WHEN: Advancing by 1..40 business days
	// THEN: The result is always a business day

	starts := []engine.DatePoint{
		date(2025, time.January, 1),
		date(2025, time.April, 29),
		date(2025, time.December, 20),
	}

	for _, start := range starts {
		for n := 1; n <= 40; n++ {
			got := engine.AddBusinessDays(cal, start, n)
			if !cal.IsBusinessDay(got) {
				t.Fatalf("AddBusinessDays(%s, %d) landed on non-business day %s", start, n, got)
			}
		}
	}
}

// =============================================================================
// BUSINESS DAYS BETWEEN
// =============================================================================

func TestBusinessDaysBetween_SameDay(t *testing.T) {
	// Inclusive range: a single business day counts itself, a Saturday is 0

	monday := date(2025, time.January, 6)
	if got := engine.BusinessDaysBetween(cal, monday, monday); got != 1 {
		t.Errorf("expected 1 for business day, got %d", got)
	}

	saturday := date(2025, time.January, 4)
	if got := engine.BusinessDaysBetween(cal, saturday, saturday); got != 0 {
		t.Errorf("expected 0 for Saturday, got %d", got)
	}
}

func TestBusinessDaysBetween_FullWeek(t *testing.T) {
	// Monday through Sunday contains exactly 5 business days
	monday := date(2025, time.January, 6)
	sunday := date(2025, time.January, 12)

	if got := engine.BusinessDaysBetween(cal, monday, sunday); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
}

func TestBusinessDaysBetween_EndBeforeStart(t *testing.T) {
	if got := engine.BusinessDaysBetween(cal, date(2025, time.March, 10), date(2025, time.March, 1)); got != 0 {
		t.Errorf("expected 0 for inverted range, got %d", got)
	}
}

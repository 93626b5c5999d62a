/*
expiration.go - Expiration date calculator

PURPOSE:
  Turns (upload date, section, project subtype) into an absolute
  expiration date by resolving the applicable rule window and adding it
  in the rule's calculation mode. Output is always a plain date so that
  downstream comparisons stay deterministic.

FAILURE:
  A missing or unparseable upload date is an *InvalidDateError. Callers
  must propagate it - never coerce a bad date into "today" or zero.
*/
package engine

// Calculator computes expiration dates from the rule registry and a
// business-day calendar.
type Calculator struct {
	Registry *Registry
	Calendar Calendar
}

// NewCalculator wires a calculator. A nil calendar defaults to the
// Argentine fixed-holiday calendar.
func NewCalculator(registry *Registry, calendar Calendar) *Calculator {
	if calendar == nil {
		calendar = ArgentineCalendar{}
	}
	return &Calculator{Registry: registry, Calendar: calendar}
}

// ExpirationDate resolves the window for (sectionID, projectSubtype) and
// adds it to the upload date. Business-day rules advance through the
// calendar; everything else adds plain calendar days.
func (c *Calculator) ExpirationDate(upload DatePoint, sectionID, projectSubtype string) (DatePoint, error) {
	if upload.IsZero() {
		return DatePoint{}, &InvalidDateError{Reason: "missing upload date for section " + sectionID}
	}

	windowDays := c.Registry.ResolveWindowDays(sectionID, projectSubtype)

	if rule, ok := c.Registry.Rule(sectionID); ok && rule.CalculationMode == BusinessDays {
		return AddBusinessDays(c.Calendar, upload, windowDays), nil
	}
	return upload.AddDays(windowDays), nil
}

// ExpirationDateFromString parses the upload date and delegates to
// ExpirationDate. Convenience for callers holding wire-format dates.
func (c *Calculator) ExpirationDateFromString(uploadDate, sectionID, projectSubtype string) (DatePoint, error) {
	upload, err := ParseDate(uploadDate)
	if err != nil {
		return DatePoint{}, err
	}
	return c.ExpirationDate(upload, sectionID, projectSubtype)
}

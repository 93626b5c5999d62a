/*
errors.go - Centralized error types for the compliance engine

PURPOSE:
  All error types in one place. The engine has a single genuine failure
  mode: an invalid date input. Everything else is total - unknown section
  identifiers silently resolve to the 365-day fallback window and the
  cost calculator defines away its division-by-zero cases.

USAGE:
  Callers match with errors.Is / errors.As:

    if errors.Is(err, engine.ErrInvalidDate) {
        // reject the upload instead of storing a bogus date
    }
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDate is returned when a date input is malformed or missing
	// where one is required. Never recovered inside the engine.
	ErrInvalidDate = errors.New("invalid date")

	// ErrProjectNotFound is returned when a referenced project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrDocumentNotFound is returned when a referenced document doesn't exist.
	ErrDocumentNotFound = errors.New("document not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidDateError reports the offending input alongside the parse failure.
type InvalidDateError struct {
	Input  string
	Reason string
}

func (e *InvalidDateError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("invalid date: %s", e.Reason)
	}
	return fmt.Sprintf("invalid date %q: %s", e.Input, e.Reason)
}

func (e *InvalidDateError) Unwrap() error { return ErrInvalidDate }

/*
status.go - Deadline status classifiers

PURPOSE:
  Classifies a single document's deadline state from its reference date
  and "today". Each document family carries its own threshold policy and
  they are deliberately kept as separate functions dispatched through
  Classify - the three fixed-window families look similar but differ in
  warning bands and in whether days-remaining floors at zero, and those
  differences are inherited business policy.

FAMILIES:
  DomainReport      90-day validity from upload, floored, 10-day warning
  InsurancePolicy   explicit expiry date, floored, 30-day warning
  InhibitionReport  90-day validity from upload, SIGNED remaining, 15-day warning
  Generic           expiration computed by the rule engine, 30-day warning

LABELS:
  User-facing labels are Spanish and must match the existing UI copy
  verbatim ("No cargado", "Vencido", "No cargada", "Vencida",
  "Pendiente", "Vigente", "Por vencer").
*/
package engine

// Window and threshold constants, one block per family.
const (
	DomainReportWindowDays  = 90
	DomainReportWarningDays = 10

	InsuranceWarningDays = 30

	InhibitionWindowDays  = 90
	InhibitionWarningDays = 15

	GenericUrgentDays  = 7
	GenericWarningDays = 30
)

// DocumentFamily selects which threshold policy applies to a document.
type DocumentFamily string

const (
	FamilyDomainReport     DocumentFamily = "domain_report"
	FamilyInsurancePolicy  DocumentFamily = "insurance_policy"
	FamilyInhibitionReport DocumentFamily = "inhibition_report"
	FamilyGeneric          DocumentFamily = "generic"
)

// DeadlineState is the classified state of one document deadline.
type DeadlineState string

const (
	StateNone     DeadlineState = "none"
	StateValid    DeadlineState = "valid"
	StateExpiring DeadlineState = "expiring"
	StateExpired  DeadlineState = "expired"

	// Inhibition reports use their own state set.
	StatePendiente DeadlineState = "pendiente"
	StateVigente   DeadlineState = "vigente"
	StatePorVencer DeadlineState = "por_vencer"
	StateVencido   DeadlineState = "vencido"
)

// DeadlineStatus is the computed state for one document instance. It is a
// value recomputed on every read; the engine holds no state of its own.
type DeadlineStatus struct {
	Family         DocumentFamily
	State          DeadlineState
	Label          string
	DaysRemaining  *int // nil when no reference date exists
	ReferenceDate  DatePoint
	ExpirationDate DatePoint
}

// IsUrgent reports whether the status should surface in urgent rollups.
func (s DeadlineStatus) IsUrgent() bool {
	switch s.State {
	case StateExpiring, StateExpired, StatePorVencer, StateVencido:
		return true
	default:
		return false
	}
}

// Classify dispatches to the family-specific classifier. ref is the upload
// date for the fixed-window families and the expiry date for insurance
// policies and generic documents.
func Classify(family DocumentFamily, ref, today DatePoint) DeadlineStatus {
	switch family {
	case FamilyInsurancePolicy:
		return ClassifyInsurancePolicy(ref, today)
	case FamilyInhibitionReport:
		return ClassifyInhibitionReport(ref, today)
	case FamilyGeneric:
		return ClassifyGenericDocument(ref, today)
	default:
		return ClassifyDomainReport(ref, today)
	}
}

// =============================================================================
// DOMAIN REPORT - 90 calendar days from upload, floored at zero
// =============================================================================

// DomainReportDaysRemaining returns max(0, 90 - days since upload).
func DomainReportDaysRemaining(upload, today DatePoint) int {
	remaining := DomainReportWindowDays - DaysBetween(upload, today)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsDomainReportValid is false for a missing or expired report.
func IsDomainReportValid(upload, today DatePoint) bool {
	if upload.IsZero() {
		return false
	}
	return DomainReportDaysRemaining(upload, today) > 0
}

func ClassifyDomainReport(upload, today DatePoint) DeadlineStatus {
	if upload.IsZero() {
		return DeadlineStatus{Family: FamilyDomainReport, State: StateNone, Label: "No cargado"}
	}

	remaining := DomainReportDaysRemaining(upload, today)
	status := DeadlineStatus{
		Family:         FamilyDomainReport,
		DaysRemaining:  &remaining,
		ReferenceDate:  upload,
		ExpirationDate: upload.AddDays(DomainReportWindowDays),
	}

	switch {
	case remaining == 0:
		status.State = StateExpired
		status.Label = "Vencido"
	case remaining <= DomainReportWarningDays:
		status.State = StateExpiring
		status.Label = "Por vencer"
	default:
		status.State = StateValid
		status.Label = "Vigente"
	}
	return status
}

// =============================================================================
// INSURANCE POLICY - Explicit expiry date, floored, 30-day warning band
// =============================================================================

// InsuranceDaysRemaining returns max(0, days until the policy expires).
func InsuranceDaysRemaining(expiry, today DatePoint) int {
	remaining := DaysBetween(today, expiry)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func ClassifyInsurancePolicy(expiry, today DatePoint) DeadlineStatus {
	if expiry.IsZero() {
		return DeadlineStatus{Family: FamilyInsurancePolicy, State: StateNone, Label: "No cargada"}
	}

	remaining := InsuranceDaysRemaining(expiry, today)
	status := DeadlineStatus{
		Family:         FamilyInsurancePolicy,
		DaysRemaining:  &remaining,
		ReferenceDate:  expiry,
		ExpirationDate: expiry,
	}

	switch {
	case remaining == 0:
		status.State = StateExpired
		status.Label = "Vencida"
	case remaining <= InsuranceWarningDays:
		status.State = StateExpiring
		status.Label = "Por vencer"
	default:
		status.State = StateValid
		status.Label = "Vigente"
	}
	return status
}

// =============================================================================
// INHIBITION REPORT - 90 days from upload, SIGNED remaining, 15-day band
// =============================================================================

// InhibitionDaysRemaining returns 90 - days since upload. Unlike the
// other fixed-window families this is NOT floored: an inhibition report
// 100 days old reports -10.
func InhibitionDaysRemaining(upload, today DatePoint) int {
	return InhibitionWindowDays - DaysBetween(upload, today)
}

func ClassifyInhibitionReport(upload, today DatePoint) DeadlineStatus {
	if upload.IsZero() {
		return DeadlineStatus{Family: FamilyInhibitionReport, State: StatePendiente, Label: "No cargado"}
	}

	remaining := InhibitionDaysRemaining(upload, today)
	status := DeadlineStatus{
		Family:         FamilyInhibitionReport,
		DaysRemaining:  &remaining,
		ReferenceDate:  upload,
		ExpirationDate: upload.AddDays(InhibitionWindowDays),
	}

	switch {
	case remaining <= 0:
		status.State = StateVencido
		status.Label = "Vencido"
	case remaining <= InhibitionWarningDays:
		status.State = StatePorVencer
		status.Label = "Por vencer"
	default:
		status.State = StateVigente
		status.Label = "Vigente"
	}
	return status
}

// =============================================================================
// GENERIC DOCUMENT - Expiration computed by the rule engine
// =============================================================================

// ClassifyGenericDocument classifies a document whose expiration date was
// produced by the Calculator. Signed remaining; the 30-day generic
// warning band marks it expiring.
func ClassifyGenericDocument(expiration, today DatePoint) DeadlineStatus {
	if expiration.IsZero() {
		return DeadlineStatus{Family: FamilyGeneric, State: StateNone, Label: "No cargado"}
	}

	remaining := DaysBetween(today, expiration)
	status := DeadlineStatus{
		Family:         FamilyGeneric,
		DaysRemaining:  &remaining,
		ReferenceDate:  expiration,
		ExpirationDate: expiration,
	}

	switch {
	case remaining <= 0:
		status.State = StateExpired
		status.Label = "Vencido"
	case remaining <= GenericWarningDays:
		status.State = StateExpiring
		status.Label = "Por vencer"
	default:
		status.State = StateValid
		status.Label = "Vigente"
	}
	return status
}

// =============================================================================
// GENERIC PROJECT DEADLINE - Severity bands for the notification rollup
// =============================================================================

// Severity tags an alert for the notification consumer.
type Severity string

const (
	SeverityNone    Severity = ""
	SeverityUrgent  Severity = "urgent"
	SeverityWarning Severity = "warning"
)

// GenericAlertSeverity maps an arbitrary days-remaining figure (supplied
// by a project record) to an alert severity. Past-due and <= 7 days are
// urgent, <= 30 days is a warning, anything further out raises nothing.
func GenericAlertSeverity(daysRemaining int) Severity {
	switch {
	case daysRemaining <= GenericUrgentDays:
		return SeverityUrgent
	case daysRemaining <= GenericWarningDays:
		return SeverityWarning
	default:
		return SeverityNone
	}
}

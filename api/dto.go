/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal records and engine values from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/rules.go: RuleSetJSON is served as-is on the rules endpoints
*/
package api

import "github.com/shopspring/decimal"

// =============================================================================
// PROJECT TYPES
// =============================================================================

// ProjectDTO represents a project in API responses.
type ProjectDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Subtype       string `json:"subtype,omitempty"`
	DeadlineDate  string `json:"deadline_date,omitempty"`
	DaysRemaining *int   `json:"days_remaining,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
}

// CreateProjectRequest is the request to create a project.
type CreateProjectRequest struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name"`
	Subtype       string `json:"subtype,omitempty"`
	DeadlineDate  string `json:"deadline_date,omitempty"`
	DaysRemaining *int   `json:"days_remaining,omitempty"`
}

// =============================================================================
// DOCUMENT TYPES
// =============================================================================

// DocumentDTO represents a compliance document in API responses.
type DocumentDTO struct {
	ID         string `json:"id"`
	ProjectID  string `json:"project_id"`
	SectionID  string `json:"section_id"`
	Family     string `json:"family"`
	UploadDate string `json:"upload_date,omitempty"`
	ExpiryDate string `json:"expiry_date,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// CreateDocumentRequest is the request to attach a document to a project.
type CreateDocumentRequest struct {
	SectionID  string `json:"section_id"`
	Family     string `json:"family,omitempty"`
	UploadDate string `json:"upload_date,omitempty"`
	ExpiryDate string `json:"expiry_date,omitempty"`
}

// =============================================================================
// COMPLIANCE TYPES
// =============================================================================

// DeadlineStatusDTO is one document's computed deadline state.
type DeadlineStatusDTO struct {
	DocumentID     string `json:"document_id"`
	SectionID      string `json:"section_id"`
	Family         string `json:"family"`
	State          string `json:"state"`
	Label          string `json:"label"`
	DaysRemaining  *int   `json:"days_remaining,omitempty"`
	ReferenceDate  string `json:"reference_date,omitempty"`
	ExpirationDate string `json:"expiration_date,omitempty"`
}

// ComplianceDTO is the per-project deadline rollup.
type ComplianceDTO struct {
	ProjectID   string              `json:"project_id"`
	UrgentCount int                 `json:"urgent_count"`
	Documents   []DeadlineStatusDTO `json:"documents"`
}

// =============================================================================
// COST TYPES
// =============================================================================

// CostFiguresRequest replaces a project's cost figures. decimal.Decimal
// accepts both JSON numbers and strings.
type CostFiguresRequest struct {
	ProjectedTotal decimal.Decimal `json:"projected_total_cost"`
	PaidTotal      decimal.Decimal `json:"paid_total_cost"`
	PaidRubroA     decimal.Decimal `json:"paid_rubro_a"`
	PaidRubroB     decimal.Decimal `json:"paid_rubro_b"`
	PaidRubroC     decimal.Decimal `json:"paid_rubro_c"`
}

// RubroShareDTO is one rubro's slice of the paid total.
type RubroShareDTO struct {
	Paid       string `json:"paid"`
	Percentage int64  `json:"percentage"`
}

// TaxSummaryDTO is the cost/budget rollup for one project.
type TaxSummaryDTO struct {
	ProjectID      string                   `json:"project_id"`
	ProjectedTotal string                   `json:"projected_total"`
	PaidTotal      string                   `json:"paid_total"`
	RemainingTotal string                   `json:"remaining_total"`
	PercentagePaid int64                    `json:"percentage_paid"`
	Rubros         map[string]RubroShareDTO `json:"rubros"`
}

// =============================================================================
// NOTIFICATION TYPES
// =============================================================================

// AlertDTO is a computed or stored deadline alert.
type AlertDTO struct {
	ID            string `json:"id"`
	ProjectID     string `json:"project_id"`
	Severity      string `json:"severity"`
	Message       string `json:"message"`
	DaysRemaining *int   `json:"days_remaining,omitempty"`
	SweepDate     string `json:"sweep_date,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
}

// SweepResultDTO reports the outcome of a deadline sweep.
type SweepResultDTO struct {
	SweepDate string `json:"sweep_date"`
	Alerts    int    `json:"alerts"`
	Inserted  int    `json:"inserted"`
}

// =============================================================================
// SCENARIO TYPES
// =============================================================================

// ScenarioDTO describes a loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario by id.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

/*
handlers.go - HTTP API handlers for the compliance engine

PURPOSE:
  Exposes the deadline/cost engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates every computation
  to the engine packages - no deadline or cost arithmetic lives here.

ENDPOINTS:
  Projects:
    GET    /api/projects                    List projects
    POST   /api/projects                    Create project
    GET    /api/projects/{id}               Get project
    DELETE /api/projects/{id}               Delete project
    GET    /api/projects/{id}/compliance    Per-document deadline statuses
    GET    /api/projects/{id}/costs         Cost/tax summary
    PUT    /api/projects/{id}/costs         Replace cost figures

  Documents:
    GET    /api/projects/{id}/documents     List project documents
    POST   /api/projects/{id}/documents     Attach document
    DELETE /api/documents/{id}              Remove document

  Rules:
    GET    /api/rules                       Current expiration rule set
    POST   /api/rules                       Replace rule set

  Alerts:
    GET    /api/alerts                      Ranked urgent deadlines (computed)
    GET    /api/notifications               Stored sweep notifications
    POST   /api/admin/sweep                 Run a deadline sweep now

ERROR HANDLING:
  - 400: invalid body, malformed dates
  - 404: unknown project/document
  - 500: storage failures
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/obratrack/compliance-engine/costs"
	"github.com/obratrack/compliance-engine/engine"
	"github.com/obratrack/compliance-engine/factory"
	"github.com/obratrack/compliance-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store       *sqlite.Store
	RuleFactory *factory.RuleFactory
	Clock       engine.Clock

	// Current rule registry and the calculator built on it. Swapped
	// atomically when the rule set is replaced.
	mu         sync.RWMutex
	registry   *engine.Registry
	calculator *engine.Calculator

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store. Rules start from
// the built-in preset until LoadRules finds a stored configuration.
func NewHandler(store *sqlite.Store) *Handler {
	h := &Handler{
		Store:       store,
		RuleFactory: factory.NewRuleFactory(),
		Clock:       engine.SystemClock{},
	}
	h.setRegistry(factory.DefaultRegistry())
	return h
}

// LoadRules loads the stored rule set into the registry, if one exists.
func (h *Handler) LoadRules(ctx context.Context) error {
	record, err := h.Store.LoadLatestRuleSet(ctx)
	if err != nil {
		return err
	}
	if record == nil {
		return nil // keep the preset
	}
	registry, err := h.RuleFactory.ParseRuleSet(record.ConfigJSON)
	if err != nil {
		return err
	}
	h.setRegistry(registry)
	return nil
}

func (h *Handler) setRegistry(registry *engine.Registry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.registry = registry
	h.calculator = engine.NewCalculator(registry, engine.ArgentineCalendar{})
}

func (h *Handler) currentRules() (*engine.Registry, *engine.Calculator) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.registry, h.calculator
}

// =============================================================================
// PROJECT HANDLERS
// =============================================================================

// ListProjects returns all projects.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Store.ListProjects(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list projects", err)
		return
	}

	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = toProjectDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateProject creates a new project.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	record := sqlite.ProjectRecord{
		ID:            req.ID,
		Name:          req.Name,
		Subtype:       req.Subtype,
		DaysRemaining: req.DaysRemaining,
	}
	if req.DeadlineDate != "" {
		deadline, err := engine.ParseDate(req.DeadlineDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid deadline_date", err)
			return
		}
		t := deadline.Time
		record.DeadlineDate = &t
	}

	created, err := h.Store.CreateProject(r.Context(), record)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create project", err)
		return
	}
	writeJSON(w, http.StatusCreated, toProjectDTO(created))
}

// GetProject returns a single project.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toProjectDTO(*project))
}

// DeleteProject removes a project and its documents.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteProject(r.Context(), id); err != nil {
		writeError(w, http.StatusNotFound, "Project not found", engine.ErrProjectNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// COMPLIANCE HANDLERS
// =============================================================================

// GetProjectCompliance computes the deadline status of every document the
// project has and rolls them up into the per-project summary.
func (h *Handler) GetProjectCompliance(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadProject(w, r)
	if !ok {
		return
	}

	documents, err := h.Store.ListDocumentsByProject(r.Context(), project.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list documents", err)
		return
	}

	_, calculator := h.currentRules()
	today := engine.Today(h.Clock)

	statuses := make([]engine.DocumentStatus, 0, len(documents))
	sections := make(map[string]string, len(documents))
	for _, doc := range documents {
		status := h.classifyDocument(doc, project.Subtype, calculator, today)
		statuses = append(statuses, engine.DocumentStatus{DocumentID: doc.ID, Status: status})
		sections[doc.ID] = doc.SectionID
	}

	summary := engine.SummarizeProject(project.ID, statuses)

	dto := ComplianceDTO{
		ProjectID:   summary.ProjectID,
		UrgentCount: summary.UrgentCount,
		Documents:   make([]DeadlineStatusDTO, len(summary.Statuses)),
	}
	for i, s := range summary.Statuses {
		dto.Documents[i] = toStatusDTO(s, sections[s.DocumentID])
	}
	writeJSON(w, http.StatusOK, dto)
}

// classifyDocument picks the reference date per family and classifies.
func (h *Handler) classifyDocument(doc sqlite.DocumentRecord, projectSubtype string, calculator *engine.Calculator, today engine.DatePoint) engine.DeadlineStatus {
	family := engine.DocumentFamily(doc.Family)

	switch family {
	case engine.FamilyInsurancePolicy:
		return engine.ClassifyInsurancePolicy(datePointOf(doc.ExpiryDate), today)
	case engine.FamilyInhibitionReport:
		return engine.ClassifyInhibitionReport(datePointOf(doc.UploadDate), today)
	case engine.FamilyDomainReport:
		return engine.ClassifyDomainReport(datePointOf(doc.UploadDate), today)
	default:
		upload := datePointOf(doc.UploadDate)
		if upload.IsZero() {
			return engine.ClassifyGenericDocument(engine.DatePoint{}, today)
		}
		expiration, err := calculator.ExpirationDate(upload, doc.SectionID, projectSubtype)
		if err != nil {
			return engine.ClassifyGenericDocument(engine.DatePoint{}, today)
		}
		return engine.ClassifyGenericDocument(expiration, today)
	}
}

// =============================================================================
// COST HANDLERS
// =============================================================================

// GetProjectCosts returns the projected-vs-paid summary for a project.
func (h *Handler) GetProjectCosts(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadProject(w, r)
	if !ok {
		return
	}

	summary := costs.Summarize(costs.CostInput{
		ProjectedTotal: project.Projected,
		PaidTotal:      project.PaidTotal,
		PaidRubroA:     project.PaidRubroA,
		PaidRubroB:     project.PaidRubroB,
		PaidRubroC:     project.PaidRubroC,
	})

	writeJSON(w, http.StatusOK, toTaxSummaryDTO(project.ID, summary))
}

// UpdateProjectCosts replaces a project's cost figures.
func (h *Handler) UpdateProjectCosts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req CostFiguresRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	err := h.Store.UpdateProjectCosts(r.Context(), id,
		req.ProjectedTotal, req.PaidTotal, req.PaidRubroA, req.PaidRubroB, req.PaidRubroC)
	if err != nil {
		writeError(w, http.StatusNotFound, "Project not found", engine.ErrProjectNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// DOCUMENT HANDLERS
// =============================================================================

// ListDocuments returns a project's documents.
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadProject(w, r)
	if !ok {
		return
	}

	documents, err := h.Store.ListDocumentsByProject(r.Context(), project.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list documents", err)
		return
	}

	dtos := make([]DocumentDTO, len(documents))
	for i, d := range documents {
		dtos[i] = toDocumentDTO(d)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateDocument attaches a compliance document to a project.
func (h *Handler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadProject(w, r)
	if !ok {
		return
	}

	var req CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.SectionID == "" {
		writeError(w, http.StatusBadRequest, "section_id is required", nil)
		return
	}

	record := sqlite.DocumentRecord{
		ProjectID: project.ID,
		SectionID: req.SectionID,
		Family:    req.Family,
	}
	if record.Family == "" {
		record.Family = string(engine.FamilyGeneric)
	}

	if req.UploadDate != "" {
		upload, err := engine.ParseDate(req.UploadDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid upload_date", err)
			return
		}
		t := upload.Time
		record.UploadDate = &t
	}
	if req.ExpiryDate != "" {
		expiry, err := engine.ParseDate(req.ExpiryDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid expiry_date", err)
			return
		}
		t := expiry.Time
		record.ExpiryDate = &t
	}

	created, err := h.Store.CreateDocument(r.Context(), record)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create document", err)
		return
	}
	writeJSON(w, http.StatusCreated, toDocumentDTO(created))
}

// DeleteDocument removes a document.
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteDocument(r.Context(), id); err != nil {
		writeError(w, http.StatusNotFound, "Document not found", engine.ErrDocumentNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// RULE HANDLERS
// =============================================================================

// GetRules returns the current expiration rule set as JSON.
func (h *Handler) GetRules(w http.ResponseWriter, r *http.Request) {
	registry, _ := h.currentRules()
	writeJSON(w, http.StatusOK, h.RuleFactory.ToJSON(registry))
}

// UpdateRules replaces the expiration rule set. The new set is persisted
// and swapped into the running registry.
func (h *Handler) UpdateRules(w http.ResponseWriter, r *http.Request) {
	var rs factory.RuleSetJSON
	if err := json.NewDecoder(r.Body).Decode(&rs); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	registry, err := h.RuleFactory.FromJSON(rs)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rule set", err)
		return
	}

	configJSON, err := json.Marshal(rs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode rule set", err)
		return
	}
	if _, err := h.Store.SaveRuleSet(r.Context(), sqlite.RuleSetRecord{ConfigJSON: string(configJSON)}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save rule set", err)
		return
	}

	h.setRegistry(registry)
	writeJSON(w, http.StatusOK, h.RuleFactory.ToJSON(registry))
}

// =============================================================================
// ALERT / NOTIFICATION HANDLERS
// =============================================================================

// ListAlerts computes the ranked urgent deadlines on the fly.
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	today := engine.Today(h.Clock)
	alerts, err := h.computeAlerts(r.Context(), today)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute alerts", err)
		return
	}

	dtos := make([]AlertDTO, len(alerts))
	for i, a := range alerts {
		days := a.DaysRemaining
		dtos[i] = AlertDTO{
			ID:            a.ID,
			ProjectID:     a.ProjectID,
			Severity:      string(a.Severity),
			Message:       a.Message,
			DaysRemaining: &days,
			SweepDate:     a.SweepDate.String(),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListNotifications returns stored sweep notifications.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListNotifications(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list notifications", err)
		return
	}

	dtos := make([]AlertDTO, len(records))
	for i, n := range records {
		dtos[i] = AlertDTO{
			ID:        n.ID,
			ProjectID: n.ProjectID,
			Severity:  n.Severity,
			Message:   n.Message,
			SweepDate: n.SweepDate.Format("2006-01-02"),
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// TriggerSweep runs a deadline sweep immediately.
func (h *Handler) TriggerSweep(w http.ResponseWriter, r *http.Request) {
	result, err := h.Sweep(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Sweep failed", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Sweep computes alerts for every project and persists them. Safe to
// re-run: notification ids are deterministic per (project, day).
func (h *Handler) Sweep(ctx context.Context) (SweepResultDTO, error) {
	today := engine.Today(h.Clock)

	alerts, err := h.computeAlerts(ctx, today)
	if err != nil {
		return SweepResultDTO{}, err
	}

	records := make([]sqlite.NotificationRecord, len(alerts))
	for i, a := range alerts {
		records[i] = sqlite.NotificationRecord{
			ID:        a.ID,
			ProjectID: a.ProjectID,
			Severity:  string(a.Severity),
			Message:   a.Message,
			SweepDate: a.SweepDate.Time,
		}
	}

	inserted, err := h.Store.SaveNotifications(ctx, records)
	if err != nil {
		return SweepResultDTO{}, err
	}

	return SweepResultDTO{
		SweepDate: today.String(),
		Alerts:    len(alerts),
		Inserted:  inserted,
	}, nil
}

// computeAlerts loads every project's deadline figure and ranks the
// urgent ones.
func (h *Handler) computeAlerts(ctx context.Context, today engine.DatePoint) ([]engine.Alert, error) {
	projects, err := h.Store.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	deadlines := make([]engine.ProjectDeadline, 0, len(projects))
	for _, p := range projects {
		deadlines = append(deadlines, engine.ProjectDeadline{
			ProjectID:     p.ID,
			Name:          p.Name,
			DaysRemaining: effectiveDaysRemaining(p, today),
		})
	}
	return engine.RankUrgent(deadlines, today), nil
}

// effectiveDaysRemaining prefers the stored figure and falls back to
// deriving it from the deadline date. Nil when the project has neither.
func effectiveDaysRemaining(p sqlite.ProjectRecord, today engine.DatePoint) *int {
	if p.DaysRemaining != nil {
		return p.DaysRemaining
	}
	if p.DeadlineDate != nil {
		days := engine.DaysBetween(today, engine.DateOf(*p.DeadlineDate))
		return &days
	}
	return nil
}

// =============================================================================
// DTO CONVERSION / RESPONSE HELPERS
// =============================================================================

func (h *Handler) loadProject(w http.ResponseWriter, r *http.Request) (*sqlite.ProjectRecord, bool) {
	id := chi.URLParam(r, "id")

	project, err := h.Store.GetProject(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get project", err)
		return nil, false
	}
	if project == nil {
		writeError(w, http.StatusNotFound, "Project not found", engine.ErrProjectNotFound)
		return nil, false
	}
	return project, true
}

func toProjectDTO(p sqlite.ProjectRecord) ProjectDTO {
	dto := ProjectDTO{
		ID:            p.ID,
		Name:          p.Name,
		Subtype:       p.Subtype,
		DaysRemaining: p.DaysRemaining,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
	if p.DeadlineDate != nil {
		dto.DeadlineDate = p.DeadlineDate.Format("2006-01-02")
	}
	return dto
}

func toDocumentDTO(d sqlite.DocumentRecord) DocumentDTO {
	dto := DocumentDTO{
		ID:        d.ID,
		ProjectID: d.ProjectID,
		SectionID: d.SectionID,
		Family:    d.Family,
		CreatedAt: d.CreatedAt.Format(time.RFC3339),
	}
	if d.UploadDate != nil {
		dto.UploadDate = d.UploadDate.Format("2006-01-02")
	}
	if d.ExpiryDate != nil {
		dto.ExpiryDate = d.ExpiryDate.Format("2006-01-02")
	}
	return dto
}

func toStatusDTO(s engine.DocumentStatus, sectionID string) DeadlineStatusDTO {
	dto := DeadlineStatusDTO{
		DocumentID:    s.DocumentID,
		SectionID:     sectionID,
		Family:        string(s.Status.Family),
		State:         string(s.Status.State),
		Label:         s.Status.Label,
		DaysRemaining: s.Status.DaysRemaining,
	}
	if !s.Status.ReferenceDate.IsZero() {
		dto.ReferenceDate = s.Status.ReferenceDate.String()
	}
	if !s.Status.ExpirationDate.IsZero() {
		dto.ExpirationDate = s.Status.ExpirationDate.String()
	}
	return dto
}

func toTaxSummaryDTO(projectID string, s costs.TaxSummary) TaxSummaryDTO {
	rubros := make(map[string]RubroShareDTO, len(s.RubroBreakdown))
	for rubro, share := range s.RubroBreakdown {
		rubros[string(rubro)] = RubroShareDTO{
			Paid:       share.Paid.String(),
			Percentage: share.Percentage,
		}
	}
	return TaxSummaryDTO{
		ProjectID:      projectID,
		ProjectedTotal: s.ProjectedTotal.String(),
		PaidTotal:      s.PaidTotal.String(),
		RemainingTotal: s.RemainingTotal.String(),
		PercentagePaid: s.PercentagePaid,
		Rubros:         rubros,
	}
}

func datePointOf(t *time.Time) engine.DatePoint {
	if t == nil {
		return engine.DatePoint{}
	}
	return engine.DateOf(*t)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:
  Provides pre-built scenarios that populate the database with realistic
  data for testing and demos. Each scenario creates projects, documents,
  and cost figures that demonstrate specific engine behavior.

AVAILABLE SCENARIOS:
  obra-en-regla:     Project with every document current
  vencimientos:      Project with expiring and expired documents
  costos:            Projects with projected-vs-paid cost figures

NOTE:
  Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Shared helpers
  - factory/presets.go: Default rule set the scenarios rely on
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/obratrack/compliance-engine/engine"
	"github.com/obratrack/compliance-engine/store/sqlite"
	"github.com/shopspring/decimal"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "obra-en-regla",
		Name:        "Obra en regla",
		Description: "Project with all compliance documents current",
	},
	{
		ID:          "vencimientos",
		Name:        "Vencimientos",
		Description: "Projects with expiring and expired documents and deadlines",
	},
	{
		ID:          "costos",
		Name:        "Costos",
		Description: "Projects with projected-vs-paid cost breakdowns",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario resets the database and loads the requested scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "obra-en-regla":
		err = h.loadObraEnReglaScenario(ctx)
	case "vencimientos":
		err = h.loadVencimientosScenario(ctx)
	case "costos":
		err = h.loadCostosScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.ScenarioID})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadObraEnReglaScenario(ctx context.Context) error {
	today := engine.Today(h.Clock)

	project, err := h.Store.CreateProject(ctx, sqlite.ProjectRecord{
		ID:      "obra-regla",
		Name:    "Edificio Lavalle 1200",
		Subtype: "Obra Media",
	})
	if err != nil {
		return err
	}

	docs := []sqlite.DocumentRecord{
		{SectionID: "Alta Inicio de obra", Family: string(engine.FamilyGeneric), UploadDate: timePtr(today.AddDays(-30))},
		{SectionID: "Informe de dominio", Family: string(engine.FamilyDomainReport), UploadDate: timePtr(today.AddDays(-10))},
		{SectionID: "Póliza de seguro", Family: string(engine.FamilyInsurancePolicy), ExpiryDate: timePtr(today.AddDays(120))},
		{SectionID: "Informe de inhibición", Family: string(engine.FamilyInhibitionReport), UploadDate: timePtr(today.AddDays(-5))},
	}
	return h.createDocuments(ctx, project.ID, docs)
}

func (h *Handler) loadVencimientosScenario(ctx context.Context) error {
	today := engine.Today(h.Clock)

	urgentDays := 5
	overdueDays := -2
	warningDays := 20

	projects := []sqlite.ProjectRecord{
		{ID: "obra-urgente", Name: "Torre Belgrano", Subtype: "Obra Mayor", DaysRemaining: &urgentDays},
		{ID: "obra-vencida", Name: "PH Caballito", Subtype: "Micro obra", DaysRemaining: &overdueDays},
		{ID: "obra-atencion", Name: "Local Palermo", DaysRemaining: &warningDays},
	}
	for _, p := range projects {
		if _, err := h.Store.CreateProject(ctx, p); err != nil {
			return err
		}
	}

	docs := []sqlite.DocumentRecord{
		{SectionID: "Informe de dominio", Family: string(engine.FamilyDomainReport), UploadDate: timePtr(today.AddDays(-85))},
		{SectionID: "Póliza de seguro", Family: string(engine.FamilyInsurancePolicy), ExpiryDate: timePtr(today.AddDays(12))},
		{SectionID: "Informe de inhibición", Family: string(engine.FamilyInhibitionReport), UploadDate: timePtr(today.AddDays(-100))},
		{SectionID: "Consulta DGIUR", Family: string(engine.FamilyGeneric), UploadDate: timePtr(today.AddDays(-40))},
	}
	return h.createDocuments(ctx, "obra-urgente", docs)
}

func (h *Handler) loadCostosScenario(ctx context.Context) error {
	project, err := h.Store.CreateProject(ctx, sqlite.ProjectRecord{
		ID:   "obra-costos",
		Name: "Ampliación San Telmo",
	})
	if err != nil {
		return err
	}

	return h.Store.UpdateProjectCosts(ctx, project.ID,
		decimal.NewFromInt(100000), // projected
		decimal.NewFromInt(30000),  // paid
		decimal.NewFromInt(10000),  // rubro A
		decimal.NewFromInt(15000),  // rubro B
		decimal.NewFromInt(5000),   // rubro C
	)
}

func (h *Handler) createDocuments(ctx context.Context, projectID string, docs []sqlite.DocumentRecord) error {
	for _, d := range docs {
		d.ProjectID = projectID
		if _, err := h.Store.CreateDocument(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func timePtr(d engine.DatePoint) *time.Time {
	t := d.Time
	return &t
}

package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obratrack/compliance-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func timePtr(t time.Time) *time.Time { return &t }
func intPtr(n int) *int              { return &n }

// =============================================================================
// PROJECTS
// =============================================================================

func TestCreateAndGetProject(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.CreateProject(ctx, sqlite.ProjectRecord{
		Name:          "Edificio Lavalle 1200",
		Subtype:       "Obra Media",
		DeadlineDate:  timePtr(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)),
		DaysRemaining: intPtr(92),
		Projected:     decimal.NewFromInt(100000),
		PaidTotal:     decimal.NewFromInt(30000),
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID, "id should be generated when absent")

	got, err := store.GetProject(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Edificio Lavalle 1200", got.Name)
	assert.Equal(t, "Obra Media", got.Subtype)
	require.NotNil(t, got.DeadlineDate)
	assert.Equal(t, "2025-09-01", got.DeadlineDate.Format("2006-01-02"))
	require.NotNil(t, got.DaysRemaining)
	assert.Equal(t, 92, *got.DaysRemaining)
	assert.True(t, got.Projected.Equal(decimal.NewFromInt(100000)))
	assert.True(t, got.PaidTotal.Equal(decimal.NewFromInt(30000)))
}

func TestGetProject_Missing(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetProject(context.Background(), "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCreateProject_NullableFieldsStayNil(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.CreateProject(ctx, sqlite.ProjectRecord{Name: "Sin plazo"})
	require.NoError(t, err)

	got, err := store.GetProject(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.DeadlineDate)
	assert.Nil(t, got.DaysRemaining)
	assert.True(t, got.Projected.IsZero())
}

func TestListProjects_Ordered(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	for i, name := range []string{"Primero", "Segundo", "Tercero"} {
		_, err := store.CreateProject(ctx, sqlite.ProjectRecord{
			Name:      name,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	projects, err := store.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, "Primero", projects[0].Name)
	assert.Equal(t, "Tercero", projects[2].Name)
}

func TestUpdateProjectCosts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.CreateProject(ctx, sqlite.ProjectRecord{Name: "Obra"})
	require.NoError(t, err)

	err = store.UpdateProjectCosts(ctx, created.ID,
		decimal.NewFromInt(100000), decimal.NewFromInt(30000),
		decimal.NewFromInt(10000), decimal.NewFromInt(15000), decimal.NewFromInt(5000))
	require.NoError(t, err)

	got, err := store.GetProject(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.PaidRubroA.Equal(decimal.NewFromInt(10000)))
	assert.True(t, got.PaidRubroB.Equal(decimal.NewFromInt(15000)))
	assert.True(t, got.PaidRubroC.Equal(decimal.NewFromInt(5000)))
}

func TestUpdateProjectCosts_MissingProject(t *testing.T) {
	store := newTestStore(t)

	err := store.UpdateProjectCosts(context.Background(), "no-such-id",
		decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUpdateProjectDeadline(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.CreateProject(ctx, sqlite.ProjectRecord{Name: "Obra"})
	require.NoError(t, err)

	deadline := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.UpdateProjectDeadline(ctx, created.ID, &deadline, intPtr(15)))

	got, err := store.GetProject(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DeadlineDate)
	assert.Equal(t, "2025-12-01", got.DeadlineDate.Format("2006-01-02"))
	require.NotNil(t, got.DaysRemaining)
	assert.Equal(t, 15, *got.DaysRemaining)

	// Clearing the deadline nulls both columns
	require.NoError(t, store.UpdateProjectDeadline(ctx, created.ID, nil, nil))
	got, err = store.GetProject(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.DeadlineDate)
	assert.Nil(t, got.DaysRemaining)
}

func TestDeleteProject_CascadesDocuments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	project, err := store.CreateProject(ctx, sqlite.ProjectRecord{Name: "Obra"})
	require.NoError(t, err)
	_, err = store.CreateDocument(ctx, sqlite.DocumentRecord{
		ProjectID: project.ID,
		SectionID: "Informe de dominio",
		Family:    "domain_report",
	})
	require.NoError(t, err)

	require.NoError(t, store.DeleteProject(ctx, project.ID))

	docs, err := store.ListDocumentsByProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Empty(t, docs, "documents should cascade with the project")
}

// =============================================================================
// DOCUMENTS
// =============================================================================

func TestCreateAndListDocuments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	project, err := store.CreateProject(ctx, sqlite.ProjectRecord{Name: "Obra"})
	require.NoError(t, err)

	upload := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	doc, err := store.CreateDocument(ctx, sqlite.DocumentRecord{
		ProjectID:  project.ID,
		SectionID:  "Informe de inhibición",
		Family:     "inhibition_report",
		UploadDate: &upload,
	})
	require.NoError(t, err)
	require.NotEmpty(t, doc.ID)

	docs, err := store.ListDocumentsByProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Informe de inhibición", docs[0].SectionID)
	require.NotNil(t, docs[0].UploadDate)
	assert.Equal(t, "2025-05-01", docs[0].UploadDate.Format("2006-01-02"))
	assert.Nil(t, docs[0].ExpiryDate)
}

func TestDeleteDocument(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	project, err := store.CreateProject(ctx, sqlite.ProjectRecord{Name: "Obra"})
	require.NoError(t, err)
	doc, err := store.CreateDocument(ctx, sqlite.DocumentRecord{
		ProjectID: project.ID,
		SectionID: "Alta Inicio de obra",
		Family:    "generic",
	})
	require.NoError(t, err)

	require.NoError(t, store.DeleteDocument(ctx, doc.ID))
	assert.ErrorIs(t, store.DeleteDocument(ctx, doc.ID), sql.ErrNoRows)
}

// =============================================================================
// RULE SETS
// =============================================================================

func TestRuleSet_LatestWins(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	none, err := store.LoadLatestRuleSet(ctx)
	require.NoError(t, err)
	assert.Nil(t, none, "empty store has no rule set")

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	_, err = store.SaveRuleSet(ctx, sqlite.RuleSetRecord{
		ConfigJSON: `{"rules": []}`,
		CreatedAt:  base,
	})
	require.NoError(t, err)
	_, err = store.SaveRuleSet(ctx, sqlite.RuleSetRecord{
		ConfigJSON: `{"rules": [{"section_id": "X", "default_window_days": 10}]}`,
		CreatedAt:  base.Add(time.Hour),
	})
	require.NoError(t, err)

	latest, err := store.LoadLatestRuleSet(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Contains(t, latest.ConfigJSON, "section_id")
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

func TestSaveNotifications_Idempotent(t *testing.T) {
	// GIVEN: Alert records with deterministic ids
	// WHEN: Saving the same batch twice
	// THEN: The second save inserts nothing

	store := newTestStore(t)
	ctx := context.Background()

	records := []sqlite.NotificationRecord{
		{
			ID:        "alert-p1-2025-06-01",
			ProjectID: "p1",
			Severity:  "urgent",
			Message:   "¡Urgente! El proyecto \"Torre Belgrano\" vence en 5 días.",
			SweepDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:        "alert-p2-2025-06-01",
			ProjectID: "p2",
			Severity:  "warning",
			Message:   "Atención: El proyecto \"Local Palermo\" vence en 20 días.",
			SweepDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	inserted, err := store.SaveNotifications(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	inserted, err = store.SaveNotifications(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted, "rerun of the same sweep should be a no-op")

	all, err := store.ListNotifications(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListNotifications_RecentSweepFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.SaveNotifications(ctx, []sqlite.NotificationRecord{
		{ID: "alert-p1-2025-06-01", ProjectID: "p1", Severity: "urgent", Message: "m",
			SweepDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "alert-p1-2025-06-02", ProjectID: "p1", Severity: "urgent", Message: "m",
			SweepDate: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)

	all, err := store.ListNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "alert-p1-2025-06-02", all[0].ID)
}

// =============================================================================
// RESET
// =============================================================================

func TestReset_ClearsEverything(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	project, err := store.CreateProject(ctx, sqlite.ProjectRecord{Name: "Obra"})
	require.NoError(t, err)
	_, err = store.CreateDocument(ctx, sqlite.DocumentRecord{
		ProjectID: project.ID, SectionID: "AVO 1", Family: "generic"})
	require.NoError(t, err)
	_, err = store.SaveRuleSet(ctx, sqlite.RuleSetRecord{ConfigJSON: `{"rules": []}`})
	require.NoError(t, err)
	_, err = store.SaveNotifications(ctx, []sqlite.NotificationRecord{
		{ID: "alert-x-2025-06-01", ProjectID: project.ID, Severity: "urgent", Message: "m",
			SweepDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}})
	require.NoError(t, err)

	require.NoError(t, store.Reset(ctx))

	projects, err := store.ListProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)

	ruleSet, err := store.LoadLatestRuleSet(ctx)
	require.NoError(t, err)
	assert.Nil(t, ruleSet)

	notifications, err := store.ListNotifications(ctx)
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

/*
Package sqlite provides a SQLite-backed implementation of the persistence
collaborator.

PURPOSE:
  Stores the source records the deadline/cost engine recomputes from:
  projects, their compliance documents, the configured expiration rule
  set, and the notification records produced by the deadline sweep. The
  engine itself never touches this package - it is a pure function of
  the records loaded here.

KEY TABLES:
  projects:      Project records incl. deadline figure and cost totals
  documents:     Per-project compliance documents (section, dates)
  rule_sets:     Versioned JSON expiration-rule configuration
  notifications: Deadline alerts, keyed by the deterministic alert id

IDEMPOTENT NOTIFICATIONS:
  notifications.id is the engine's deterministic alert id
  (alert-{projectID}-{sweepDate}). SaveNotifications uses INSERT OR
  IGNORE, so re-running a sweep for the same day is a no-op.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency.
  Use ":memory:" for tests.

SEE ALSO:
  - engine/alerts.go: Produces the notification records stored here
  - api/handlers.go: Main consumer
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// Store implements the persistence collaborator using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Projects
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		subtype TEXT NOT NULL DEFAULT '',
		deadline_date TEXT,
		days_remaining INTEGER,
		projected_total_cost TEXT NOT NULL DEFAULT '0',
		paid_total_cost TEXT NOT NULL DEFAULT '0',
		paid_rubro_a TEXT NOT NULL DEFAULT '0',
		paid_rubro_b TEXT NOT NULL DEFAULT '0',
		paid_rubro_c TEXT NOT NULL DEFAULT '0',
		created_at TEXT NOT NULL
	);

	-- Documents
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		section_id TEXT NOT NULL,
		family TEXT NOT NULL,
		upload_date TEXT,
		expiry_date TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_documents_project
		ON documents(project_id);
	CREATE INDEX IF NOT EXISTS idx_documents_section
		ON documents(section_id);

	-- Expiration rule sets (versioned JSON config)
	CREATE TABLE IF NOT EXISTS rule_sets (
		id TEXT PRIMARY KEY,
		config_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Notifications
	-- id is the deterministic alert id; reruns of a sweep are no-ops.
	CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		severity TEXT NOT NULL,
		message TEXT NOT NULL,
		sweep_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_notifications_project
		ON notifications(project_id);
	CREATE INDEX IF NOT EXISTS idx_notifications_sweep_date
		ON notifications(sweep_date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RECORD TYPES
// =============================================================================

// ProjectRecord is a stored project.
type ProjectRecord struct {
	ID            string
	Name          string
	Subtype       string
	DeadlineDate  *time.Time
	DaysRemaining *int
	Projected     decimal.Decimal
	PaidTotal     decimal.Decimal
	PaidRubroA    decimal.Decimal
	PaidRubroB    decimal.Decimal
	PaidRubroC    decimal.Decimal
	CreatedAt     time.Time
}

// DocumentRecord is a stored compliance document.
type DocumentRecord struct {
	ID         string
	ProjectID  string
	SectionID  string
	Family     string
	UploadDate *time.Time
	ExpiryDate *time.Time
	CreatedAt  time.Time
}

// RuleSetRecord is a stored expiration-rule configuration.
type RuleSetRecord struct {
	ID         string
	ConfigJSON string
	CreatedAt  time.Time
}

// NotificationRecord is a stored deadline alert.
type NotificationRecord struct {
	ID        string
	ProjectID string
	Severity  string
	Message   string
	SweepDate time.Time
	CreatedAt time.Time
}

// =============================================================================
// PROJECT STORE
// =============================================================================

// CreateProject inserts a project. A missing id is generated.
func (s *Store) CreateProject(ctx context.Context, p ProjectRecord) (ProjectRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects
		(id, name, subtype, deadline_date, days_remaining,
		 projected_total_cost, paid_total_cost, paid_rubro_a, paid_rubro_b, paid_rubro_c, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Subtype,
		nullDate(p.DeadlineDate), nullInt(p.DaysRemaining),
		p.Projected.String(), p.PaidTotal.String(),
		p.PaidRubroA.String(), p.PaidRubroB.String(), p.PaidRubroC.String(),
		p.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return ProjectRecord{}, fmt.Errorf("failed to create project: %w", err)
	}
	return p, nil
}

// GetProject returns a project by id, or nil if it does not exist.
func (s *Store) GetProject(ctx context.Context, id string) (*ProjectRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, subtype, deadline_date, days_remaining,
		       projected_total_cost, paid_total_cost, paid_rubro_a, paid_rubro_b, paid_rubro_c, created_at
		FROM projects WHERE id = ?`, id)

	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &p, nil
}

// ListProjects returns all projects ordered by creation time.
func (s *Store) ListProjects(ctx context.Context) ([]ProjectRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, subtype, deadline_date, days_remaining,
		       projected_total_cost, paid_total_cost, paid_rubro_a, paid_rubro_b, paid_rubro_c, created_at
		FROM projects ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var out []ProjectRecord
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateProjectCosts replaces a project's cost figures.
func (s *Store) UpdateProjectCosts(ctx context.Context, id string, projected, paid, rubroA, rubroB, rubroC decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE projects
		SET projected_total_cost = ?, paid_total_cost = ?,
		    paid_rubro_a = ?, paid_rubro_b = ?, paid_rubro_c = ?
		WHERE id = ?`,
		projected.String(), paid.String(), rubroA.String(), rubroB.String(), rubroC.String(), id)
	if err != nil {
		return fmt.Errorf("failed to update project costs: %w", err)
	}
	return requireRow(res)
}

// UpdateProjectDeadline replaces a project's deadline figure.
func (s *Store) UpdateProjectDeadline(ctx context.Context, id string, deadline *time.Time, daysRemaining *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE projects SET deadline_date = ?, days_remaining = ? WHERE id = ?`,
		nullDate(deadline), nullInt(daysRemaining), id)
	if err != nil {
		return fmt.Errorf("failed to update project deadline: %w", err)
	}
	return requireRow(res)
}

// DeleteProject removes a project and (via foreign key) its documents.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return requireRow(res)
}

// =============================================================================
// DOCUMENT STORE
// =============================================================================

// CreateDocument inserts a document. A missing id is generated.
func (s *Store) CreateDocument(ctx context.Context, d DocumentRecord) (DocumentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, project_id, section_id, family, upload_date, expiry_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.ProjectID, d.SectionID, d.Family,
		nullDate(d.UploadDate), nullDate(d.ExpiryDate),
		d.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return DocumentRecord{}, fmt.Errorf("failed to create document: %w", err)
	}
	return d, nil
}

// GetDocument returns a document by id, or nil if it does not exist.
func (s *Store) GetDocument(ctx context.Context, id string) (*DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, section_id, family, upload_date, expiry_date, created_at
		FROM documents WHERE id = ?`, id)

	d, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &d, nil
}

// ListDocumentsByProject returns a project's documents ordered by creation.
func (s *Store) ListDocumentsByProject(ctx context.Context, projectID string) ([]DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, section_id, family, upload_date, expiry_date, created_at
		FROM documents WHERE project_id = ? ORDER BY created_at, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var out []DocumentRecord
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DeleteDocument removes a document.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return requireRow(res)
}

// =============================================================================
// RULE SET STORE
// =============================================================================

// SaveRuleSet stores a rule-set configuration. A missing id is generated.
func (s *Store) SaveRuleSet(ctx context.Context, r RuleSetRecord) (RuleSetRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rule_sets (id, config_json, created_at) VALUES (?, ?, ?)`,
		r.ID, r.ConfigJSON, r.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return RuleSetRecord{}, fmt.Errorf("failed to save rule set: %w", err)
	}
	return r, nil
}

// LoadLatestRuleSet returns the most recently stored rule set, or nil when
// none has been stored (callers fall back to the built-in preset).
func (s *Store) LoadLatestRuleSet(ctx context.Context) (*RuleSetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, config_json, created_at FROM rule_sets
		ORDER BY created_at DESC, id DESC LIMIT 1`)

	var r RuleSetRecord
	var createdAt string
	err := row.Scan(&r.ID, &r.ConfigJSON, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load rule set: %w", err)
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &r, nil
}

// =============================================================================
// NOTIFICATION STORE
// =============================================================================

// SaveNotifications persists alert records. Ids are deterministic, so
// records already stored by a previous identical sweep are ignored.
// Returns the number of newly inserted rows.
func (s *Store) SaveNotifications(ctx context.Context, records []NotificationRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inserted := 0
	for _, n := range records {
		createdAt := n.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		res, err := s.db.ExecContext(ctx, `
			INSERT OR IGNORE INTO notifications (id, project_id, severity, message, sweep_date, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			n.ID, n.ProjectID, n.Severity, n.Message,
			n.SweepDate.Format("2006-01-02"), createdAt.Format(time.RFC3339))
		if err != nil {
			return inserted, fmt.Errorf("failed to save notification %s: %w", n.ID, err)
		}
		if rows, _ := res.RowsAffected(); rows > 0 {
			inserted++
		}
	}
	return inserted, nil
}

// ListNotifications returns all notifications, most recent sweep first,
// insertion order within a sweep.
func (s *Store) ListNotifications(ctx context.Context) ([]NotificationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, severity, message, sweep_date, created_at
		FROM notifications ORDER BY sweep_date DESC, created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var out []NotificationRecord
	for rows.Next() {
		var n NotificationRecord
		var sweepDate, createdAt string
		if err := rows.Scan(&n.ID, &n.ProjectID, &n.Severity, &n.Message, &sweepDate, &createdAt); err != nil {
			return nil, err
		}
		n.SweepDate, _ = time.Parse("2006-01-02", sweepDate)
		n.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, n)
	}
	return out, rows.Err()
}

// =============================================================================
// MAINTENANCE
// =============================================================================

// Reset clears all data. Development/demo use only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"notifications", "documents", "projects", "rule_sets"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// SCAN / NULL HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (ProjectRecord, error) {
	var p ProjectRecord
	var deadline, createdAt sql.NullString
	var daysRemaining sql.NullInt64
	var projected, paid, rubroA, rubroB, rubroC string

	err := row.Scan(&p.ID, &p.Name, &p.Subtype, &deadline, &daysRemaining,
		&projected, &paid, &rubroA, &rubroB, &rubroC, &createdAt)
	if err != nil {
		return ProjectRecord{}, err
	}

	if deadline.Valid {
		if t, err := time.Parse("2006-01-02", deadline.String); err == nil {
			p.DeadlineDate = &t
		}
	}
	if daysRemaining.Valid {
		v := int(daysRemaining.Int64)
		p.DaysRemaining = &v
	}
	p.Projected = parseDecimal(projected)
	p.PaidTotal = parseDecimal(paid)
	p.PaidRubroA = parseDecimal(rubroA)
	p.PaidRubroB = parseDecimal(rubroB)
	p.PaidRubroC = parseDecimal(rubroC)
	if createdAt.Valid {
		p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt.String)
	}
	return p, nil
}

func scanDocument(row rowScanner) (DocumentRecord, error) {
	var d DocumentRecord
	var upload, expiry, createdAt sql.NullString

	err := row.Scan(&d.ID, &d.ProjectID, &d.SectionID, &d.Family, &upload, &expiry, &createdAt)
	if err != nil {
		return DocumentRecord{}, err
	}

	if upload.Valid {
		if t, err := time.Parse("2006-01-02", upload.String); err == nil {
			d.UploadDate = &t
		}
	}
	if expiry.Valid {
		if t, err := time.Parse("2006-01-02", expiry.String); err == nil {
			d.ExpiryDate = &t
		}
	}
	if createdAt.Valid {
		d.CreatedAt, _ = time.Parse(time.RFC3339, createdAt.String)
	}
	return d, nil
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func nullDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format("2006-01-02")
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func requireRow(res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

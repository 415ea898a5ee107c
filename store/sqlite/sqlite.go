/*
Package sqlite provides the SQLite-backed implementation of the workforce
ports.

PURPOSE:
  Implements PtoManagementPort, TrainingManagementPort and
  BackfillManagementPort over database/sql. In production the same patterns
  apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  pto_policies / training_policies:  versioned policy rows (valid_from,
                                     valid_to, is_current)
  pto_requests:                      request records with pinned policy version
  training_records:                  training lifecycle records
  backfill_assignments:              coverage assignments
  pto_balances / training_summaries: externally-fed read models

VERSIONED POLICY WRITES:
  Policy updates run in a transaction: the current row is closed
  (valid_to set, is_current cleared) and the next version inserted, so
  exactly one current row per organization survives any update.

CONFLICT-CHECKED WRITES:
  CreateBackfillAssignment re-checks the double-booking invariant inside
  the insert transaction, returning ErrAssignmentConflict when another
  blocking assignment overlaps. Dates are stored as ISO-8601 text, so
  lexicographic comparison in SQL matches date comparison.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/workforce.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - workforce/ports.go: the contracts implemented here
  - store/memory: in-memory implementation for tests and dev
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/admsmc/dykstra-funeral-website-sub009/workforce"
)

// Store implements all three workforce ports using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var (
	_ workforce.PtoManagementPort      = (*Store)(nil)
	_ workforce.TrainingManagementPort = (*Store)(nil)
	_ workforce.BackfillManagementPort = (*Store)(nil)
)

// New creates a store at the given path. Use ":memory:" for tests/dev.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pto_policies (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		business_key TEXT NOT NULL,
		version INTEGER NOT NULL,
		valid_from TEXT NOT NULL,
		valid_to TEXT,
		is_current INTEGER NOT NULL,
		min_advance_notice_days INTEGER NOT NULL,
		blackout_dates TEXT NOT NULL,
		max_consecutive_days INTEGER NOT NULL,
		max_concurrent INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_pto_policies_org_current ON pto_policies(org_id, is_current);

	CREATE TABLE IF NOT EXISTS training_policies (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		business_key TEXT NOT NULL,
		version INTEGER NOT NULL,
		valid_from TEXT NOT NULL,
		valid_to TEXT,
		is_current INTEGER NOT NULL,
		approval_above_cost TEXT NOT NULL,
		role_requirements TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_training_policies_org_current ON training_policies(org_id, is_current);

	CREATE TABLE IF NOT EXISTS pto_requests (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		employee_name TEXT NOT NULL,
		employee_role TEXT NOT NULL,
		pto_type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		requested_days INTEGER NOT NULL,
		reason TEXT NOT NULL,
		status TEXT NOT NULL,
		policy_version_id TEXT NOT NULL DEFAULT '',
		created_by TEXT NOT NULL,
		approved_by TEXT NOT NULL DEFAULT '',
		rejected_by TEXT NOT NULL DEFAULT '',
		rejection_reason TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_pto_requests_org_employee ON pto_requests(org_id, employee_id);
	CREATE INDEX IF NOT EXISTS idx_pto_requests_org_dates ON pto_requests(org_id, start_date, end_date);

	CREATE TABLE IF NOT EXISTS training_records (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		employee_name TEXT NOT NULL,
		employee_role TEXT NOT NULL,
		training_type TEXT NOT NULL,
		training_name TEXT NOT NULL,
		hours TEXT NOT NULL,
		cost TEXT NOT NULL,
		status TEXT NOT NULL,
		scheduled_date TEXT NOT NULL,
		start_date TEXT NOT NULL DEFAULT '',
		end_date TEXT NOT NULL DEFAULT '',
		cert_number TEXT NOT NULL DEFAULT '',
		expires_at TEXT NOT NULL DEFAULT '',
		required_for_role INTEGER NOT NULL,
		policy_version_id TEXT NOT NULL DEFAULT '',
		created_by TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_training_records_org ON training_records(org_id, status);

	CREATE TABLE IF NOT EXISTS backfill_assignments (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		absence_id TEXT NOT NULL,
		absence_type TEXT NOT NULL,
		absence_start TEXT NOT NULL,
		absence_end TEXT NOT NULL,
		absent_employee_id TEXT NOT NULL,
		absent_employee_name TEXT NOT NULL,
		absent_employee_role TEXT NOT NULL,
		backfill_employee_id TEXT NOT NULL,
		backfill_employee_name TEXT NOT NULL,
		backfill_employee_role TEXT NOT NULL,
		premium_type TEXT NOT NULL,
		premium_multiplier TEXT NOT NULL,
		estimated_hours TEXT NOT NULL,
		status TEXT NOT NULL,
		assigned_by TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_backfill_absence ON backfill_assignments(absence_id);
	CREATE INDEX IF NOT EXISTS idx_backfill_employee_window ON backfill_assignments(org_id, backfill_employee_id, absence_start, absence_end);

	CREATE TABLE IF NOT EXISTS pto_balances (
		org_id TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		available_days TEXT NOT NULL,
		PRIMARY KEY (org_id, employee_id)
	);

	CREATE TABLE IF NOT EXISTS training_summaries (
		org_id TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		hours_used TEXT NOT NULL,
		cost_spent TEXT NOT NULL,
		PRIMARY KEY (org_id, employee_id, year)
	);
	`
	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// =============================================================================
// ENCODING HELPERS
// =============================================================================

const timeLayout = time.RFC3339Nano

func encodeDate(d workforce.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func decodeDate(s string) workforce.Date {
	if s == "" {
		return workforce.Date{}
	}
	d, err := workforce.ParseDate(s)
	if err != nil {
		return workforce.Date{}
	}
	return d
}

func encodeTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func decodeTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

type blackoutRow struct {
	Name  string `json:"name"`
	Start string `json:"startDate"`
	End   string `json:"endDate"`
}

func encodeBlackouts(bs []workforce.BlackoutDate) (string, error) {
	rows := make([]blackoutRow, 0, len(bs))
	for _, b := range bs {
		rows = append(rows, blackoutRow{Name: b.Name, Start: b.Start.String(), End: b.End.String()})
	}
	data, err := json.Marshal(rows)
	return string(data), err
}

func decodeBlackouts(s string) ([]workforce.BlackoutDate, error) {
	var rows []blackoutRow
	if err := json.Unmarshal([]byte(s), &rows); err != nil {
		return nil, err
	}
	var out []workforce.BlackoutDate
	for _, r := range rows {
		out = append(out, workforce.BlackoutDate{
			Name:  r.Name,
			Start: decodeDate(r.Start),
			End:   decodeDate(r.End),
		})
	}
	return out, nil
}

type roleRequirementRow struct {
	AnnualTrainingHours  string `json:"annualTrainingHours"`
	AnnualTrainingBudget string `json:"annualTrainingBudget"`
}

func encodeRoleRequirements(reqs map[string]workforce.RoleRequirement) (string, error) {
	rows := make(map[string]roleRequirementRow, len(reqs))
	for role, r := range reqs {
		rows[role] = roleRequirementRow{
			AnnualTrainingHours:  r.AnnualTrainingHours.String(),
			AnnualTrainingBudget: r.AnnualTrainingBudget.String(),
		}
	}
	data, err := json.Marshal(rows)
	return string(data), err
}

func decodeRoleRequirements(s string) (map[string]workforce.RoleRequirement, error) {
	var rows map[string]roleRequirementRow
	if err := json.Unmarshal([]byte(s), &rows); err != nil {
		return nil, err
	}
	out := make(map[string]workforce.RoleRequirement, len(rows))
	for role, r := range rows {
		out[role] = workforce.RoleRequirement{
			AnnualTrainingHours:  workforce.MustParseMoney(r.AnnualTrainingHours),
			AnnualTrainingBudget: workforce.MustParseMoney(r.AnnualTrainingBudget),
		}
	}
	return out, nil
}

type execer interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
}

type querier interface {
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
}

// =============================================================================
// PTO POLICIES
// =============================================================================

const ptoPolicyColumns = `id, org_id, business_key, version, valid_from, valid_to, is_current,
	min_advance_notice_days, blackout_dates, max_consecutive_days, max_concurrent`

func scanPtoPolicy(row interface{ Scan(...any) error }) (workforce.PtoPolicy, error) {
	var p workforce.PtoPolicy
	var id, orgID, businessKey, validFrom, blackouts string
	var validTo sql.NullString
	var isCurrent int
	err := row.Scan(&id, &orgID, &businessKey, &p.Meta.Version, &validFrom, &validTo, &isCurrent,
		&p.MinAdvanceNoticeDays, &blackouts, &p.MaxConsecutivePtoDays, &p.MaxConcurrentOnPto)
	if err != nil {
		return p, err
	}
	p.Meta.ID = workforce.PolicyID(id)
	p.Meta.OrganizationID = workforce.OrganizationID(orgID)
	p.Meta.BusinessKey = businessKey
	p.Meta.ValidFrom = decodeTime(validFrom)
	if validTo.Valid {
		t := decodeTime(validTo.String)
		p.Meta.ValidTo = &t
	}
	p.Meta.IsCurrent = isCurrent == 1
	p.BlackoutDates, err = decodeBlackouts(blackouts)
	return p, err
}

func insertPtoPolicy(ctx context.Context, q execer, p workforce.PtoPolicy) error {
	blackouts, err := encodeBlackouts(p.BlackoutDates)
	if err != nil {
		return err
	}
	var validTo any
	if p.Meta.ValidTo != nil {
		validTo = encodeTime(*p.Meta.ValidTo)
	}
	isCurrent := 0
	if p.Meta.IsCurrent {
		isCurrent = 1
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO pto_policies (`+ptoPolicyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(p.Meta.ID), string(p.Meta.OrganizationID), p.Meta.BusinessKey, p.Meta.Version,
		encodeTime(p.Meta.ValidFrom), validTo, isCurrent,
		p.MinAdvanceNoticeDays, blackouts, p.MaxConsecutivePtoDays, p.MaxConcurrentOnPto)
	return err
}

func (s *Store) GetPtoPolicy(ctx context.Context, orgID workforce.OrganizationID) (workforce.PtoPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row := s.db.QueryRowContext(ctx, `
		SELECT `+ptoPolicyColumns+` FROM pto_policies
		WHERE org_id = ? AND is_current = 1`, string(orgID))
	p, err := scanPtoPolicy(row)
	if errors.Is(err, sql.ErrNoRows) {
		return workforce.PtoPolicy{}, workforce.ErrPolicyNotFound
	}
	return p, err
}

func (s *Store) GetPtoPolicyVersion(ctx context.Context, id workforce.PolicyID) (workforce.PtoPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row := s.db.QueryRowContext(ctx, `
		SELECT `+ptoPolicyColumns+` FROM pto_policies WHERE id = ?`, string(id))
	p, err := scanPtoPolicy(row)
	if errors.Is(err, sql.ErrNoRows) {
		return workforce.PtoPolicy{}, workforce.ErrPolicyNotFound
	}
	return p, err
}

func (s *Store) ListPtoPolicyVersions(ctx context.Context, orgID workforce.OrganizationID) ([]workforce.PtoPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+ptoPolicyColumns+` FROM pto_policies
		WHERE org_id = ? ORDER BY version ASC`, string(orgID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []workforce.PtoPolicy
	for rows.Next() {
		p, err := scanPtoPolicy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) CreatePtoPolicy(ctx context.Context, policy workforce.PtoPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insertPtoPolicy(ctx, s.db, policy)
}

func (s *Store) UpdatePtoPolicy(ctx context.Context, orgID workforce.OrganizationID, updated workforce.PtoPolicy) (workforce.PtoPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return workforce.PtoPolicy{}, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT `+ptoPolicyColumns+` FROM pto_policies
		WHERE org_id = ? AND is_current = 1`, string(orgID))
	current, err := scanPtoPolicy(row)
	if errors.Is(err, sql.ErrNoRows) {
		return workforce.PtoPolicy{}, workforce.ErrPolicyNotFound
	}
	if err != nil {
		return workforce.PtoPolicy{}, err
	}

	closed, next := current.Supersede(workforce.PolicyID(uuid.NewString()), updated, time.Now().UTC())

	if _, err := tx.ExecContext(ctx, `
		UPDATE pto_policies SET valid_to = ?, is_current = 0 WHERE id = ?`,
		encodeTime(*closed.Meta.ValidTo), string(closed.Meta.ID)); err != nil {
		return workforce.PtoPolicy{}, err
	}
	if err := insertPtoPolicy(ctx, tx, next); err != nil {
		return workforce.PtoPolicy{}, err
	}
	if err := tx.Commit(); err != nil {
		return workforce.PtoPolicy{}, err
	}
	return next, nil
}

// =============================================================================
// TRAINING POLICIES
// =============================================================================

const trainingPolicyColumns = `id, org_id, business_key, version, valid_from, valid_to, is_current,
	approval_above_cost, role_requirements`

func scanTrainingPolicy(row interface{ Scan(...any) error }) (workforce.TrainingPolicy, error) {
	var p workforce.TrainingPolicy
	var id, orgID, businessKey, validFrom, approvalAbove, roleReqs string
	var validTo sql.NullString
	var isCurrent int
	err := row.Scan(&id, &orgID, &businessKey, &p.Meta.Version, &validFrom, &validTo, &isCurrent,
		&approvalAbove, &roleReqs)
	if err != nil {
		return p, err
	}
	p.Meta.ID = workforce.PolicyID(id)
	p.Meta.OrganizationID = workforce.OrganizationID(orgID)
	p.Meta.BusinessKey = businessKey
	p.Meta.ValidFrom = decodeTime(validFrom)
	if validTo.Valid {
		t := decodeTime(validTo.String)
		p.Meta.ValidTo = &t
	}
	p.Meta.IsCurrent = isCurrent == 1
	p.ApprovalRequiredAboveCost = workforce.MustParseMoney(approvalAbove)
	p.RoleRequirements, err = decodeRoleRequirements(roleReqs)
	return p, err
}

func insertTrainingPolicy(ctx context.Context, q execer, p workforce.TrainingPolicy) error {
	roleReqs, err := encodeRoleRequirements(p.RoleRequirements)
	if err != nil {
		return err
	}
	var validTo any
	if p.Meta.ValidTo != nil {
		validTo = encodeTime(*p.Meta.ValidTo)
	}
	isCurrent := 0
	if p.Meta.IsCurrent {
		isCurrent = 1
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO training_policies (`+trainingPolicyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(p.Meta.ID), string(p.Meta.OrganizationID), p.Meta.BusinessKey, p.Meta.Version,
		encodeTime(p.Meta.ValidFrom), validTo, isCurrent,
		p.ApprovalRequiredAboveCost.String(), roleReqs)
	return err
}

func (s *Store) GetTrainingPolicy(ctx context.Context, orgID workforce.OrganizationID) (workforce.TrainingPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row := s.db.QueryRowContext(ctx, `
		SELECT `+trainingPolicyColumns+` FROM training_policies
		WHERE org_id = ? AND is_current = 1`, string(orgID))
	p, err := scanTrainingPolicy(row)
	if errors.Is(err, sql.ErrNoRows) {
		return workforce.TrainingPolicy{}, workforce.ErrPolicyNotFound
	}
	return p, err
}

func (s *Store) GetTrainingPolicyVersion(ctx context.Context, id workforce.PolicyID) (workforce.TrainingPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row := s.db.QueryRowContext(ctx, `
		SELECT `+trainingPolicyColumns+` FROM training_policies WHERE id = ?`, string(id))
	p, err := scanTrainingPolicy(row)
	if errors.Is(err, sql.ErrNoRows) {
		return workforce.TrainingPolicy{}, workforce.ErrPolicyNotFound
	}
	return p, err
}

func (s *Store) ListTrainingPolicyVersions(ctx context.Context, orgID workforce.OrganizationID) ([]workforce.TrainingPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+trainingPolicyColumns+` FROM training_policies
		WHERE org_id = ? ORDER BY version ASC`, string(orgID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []workforce.TrainingPolicy
	for rows.Next() {
		p, err := scanTrainingPolicy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) CreateTrainingPolicy(ctx context.Context, policy workforce.TrainingPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insertTrainingPolicy(ctx, s.db, policy)
}

func (s *Store) UpdateTrainingPolicy(ctx context.Context, orgID workforce.OrganizationID, updated workforce.TrainingPolicy) (workforce.TrainingPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return workforce.TrainingPolicy{}, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT `+trainingPolicyColumns+` FROM training_policies
		WHERE org_id = ? AND is_current = 1`, string(orgID))
	current, err := scanTrainingPolicy(row)
	if errors.Is(err, sql.ErrNoRows) {
		return workforce.TrainingPolicy{}, workforce.ErrPolicyNotFound
	}
	if err != nil {
		return workforce.TrainingPolicy{}, err
	}

	closed, next := current.Supersede(workforce.PolicyID(uuid.NewString()), updated, time.Now().UTC())

	if _, err := tx.ExecContext(ctx, `
		UPDATE training_policies SET valid_to = ?, is_current = 0 WHERE id = ?`,
		encodeTime(*closed.Meta.ValidTo), string(closed.Meta.ID)); err != nil {
		return workforce.TrainingPolicy{}, err
	}
	if err := insertTrainingPolicy(ctx, tx, next); err != nil {
		return workforce.TrainingPolicy{}, err
	}
	if err := tx.Commit(); err != nil {
		return workforce.TrainingPolicy{}, err
	}
	return next, nil
}

// =============================================================================
// PTO REQUESTS
// =============================================================================

const ptoRequestColumns = `id, org_id, employee_id, employee_name, employee_role, pto_type,
	start_date, end_date, requested_days, reason, status, policy_version_id,
	created_by, approved_by, rejected_by, rejection_reason, created_at, updated_at`

func scanPtoRequest(row interface{ Scan(...any) error }) (workforce.PtoRequest, error) {
	var r workforce.PtoRequest
	var id, orgID, empID, start, end, createdAt, updatedAt string
	err := row.Scan(&id, &orgID, &empID, &r.Employee.Name, &r.Employee.Role, &r.Type,
		&start, &end, &r.RequestedDays, &r.Reason, &r.Status, &r.PolicyVersionID,
		&r.CreatedBy, &r.ApprovedBy, &r.RejectedBy, &r.RejectionReason, &createdAt, &updatedAt)
	if err != nil {
		return r, err
	}
	r.ID = workforce.PtoRequestID(id)
	r.OrganizationID = workforce.OrganizationID(orgID)
	r.Employee.ID = workforce.EmployeeID(empID)
	r.StartDate = decodeDate(start)
	r.EndDate = decodeDate(end)
	r.CreatedAt = decodeTime(createdAt)
	r.UpdatedAt = decodeTime(updatedAt)
	return r, nil
}

func (s *Store) CreatePtoRequest(ctx context.Context, req workforce.PtoRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pto_requests (`+ptoRequestColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(req.ID), string(req.OrganizationID), string(req.Employee.ID),
		req.Employee.Name, req.Employee.Role, string(req.Type),
		encodeDate(req.StartDate), encodeDate(req.EndDate), req.RequestedDays,
		req.Reason, string(req.Status), string(req.PolicyVersionID),
		req.CreatedBy, req.ApprovedBy, req.RejectedBy, req.RejectionReason,
		encodeTime(req.CreatedAt), encodeTime(req.UpdatedAt))
	return err
}

func (s *Store) GetPtoRequest(ctx context.Context, id workforce.PtoRequestID) (workforce.PtoRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row := s.db.QueryRowContext(ctx, `
		SELECT `+ptoRequestColumns+` FROM pto_requests WHERE id = ?`, string(id))
	r, err := scanPtoRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return workforce.PtoRequest{}, workforce.ErrRequestNotFound
	}
	return r, err
}

func (s *Store) GetPtoRequestsByEmployee(ctx context.Context, orgID workforce.OrganizationID, employeeID workforce.EmployeeID) ([]workforce.PtoRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+ptoRequestColumns+` FROM pto_requests
		WHERE org_id = ? AND employee_id = ? ORDER BY start_date ASC, id ASC`,
		string(orgID), string(employeeID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPtoRequests(rows)
}

func (s *Store) GetConcurrentPtoRequests(ctx context.Context, orgID workforce.OrganizationID, window workforce.DateRange, role string) ([]workforce.PtoRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	// ISO date text compares lexicographically, so the half-open overlap
	// check runs directly in SQL.
	query := `
		SELECT ` + ptoRequestColumns + ` FROM pto_requests
		WHERE org_id = ? AND status IN ('draft', 'pending', 'approved')
		  AND start_date < ? AND ? < end_date`
	args := []any{string(orgID), encodeDate(window.End), encodeDate(window.Start)}
	if role != "" {
		query += ` AND employee_role = ?`
		args = append(args, role)
	}
	query += ` ORDER BY start_date ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPtoRequests(rows)
}

func collectPtoRequests(rows *sql.Rows) ([]workforce.PtoRequest, error) {
	var out []workforce.PtoRequest
	for rows.Next() {
		r, err := scanPtoRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) GetEmployeePtoBalance(ctx context.Context, orgID workforce.OrganizationID, employeeID workforce.EmployeeID) (workforce.PtoBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var days string
	err := s.db.QueryRowContext(ctx, `
		SELECT available_days FROM pto_balances WHERE org_id = ? AND employee_id = ?`,
		string(orgID), string(employeeID)).Scan(&days)
	if errors.Is(err, sql.ErrNoRows) {
		return workforce.PtoBalance{}, workforce.ErrBalanceNotFound
	}
	if err != nil {
		return workforce.PtoBalance{}, err
	}
	return workforce.PtoBalance{EmployeeID: employeeID, AvailableDays: workforce.MustParseMoney(days)}, nil
}

// SetEmployeePtoBalance upserts the externally-fed balance read model.
func (s *Store) SetEmployeePtoBalance(ctx context.Context, orgID workforce.OrganizationID, b workforce.PtoBalance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pto_balances (org_id, employee_id, available_days) VALUES (?, ?, ?)
		ON CONFLICT(org_id, employee_id) DO UPDATE SET available_days = excluded.available_days`,
		string(orgID), string(b.EmployeeID), b.AvailableDays.String())
	return err
}

func (s *Store) UpdatePtoRequest(ctx context.Context, req workforce.PtoRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx, `
		UPDATE pto_requests SET status = ?, policy_version_id = ?, approved_by = ?,
			rejected_by = ?, rejection_reason = ?, updated_at = ?
		WHERE id = ?`,
		string(req.Status), string(req.PolicyVersionID), req.ApprovedBy,
		req.RejectedBy, req.RejectionReason, encodeTime(req.UpdatedAt), string(req.ID))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return workforce.ErrRequestNotFound
	}
	return nil
}

func (s *Store) DeletePtoRequest(ctx context.Context, id workforce.PtoRequestID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var status string
	err := s.db.QueryRowContext(ctx, `SELECT status FROM pto_requests WHERE id = ?`, string(id)).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return workforce.ErrRequestNotFound
	}
	if err != nil {
		return err
	}
	if status != string(workforce.PtoDraft) {
		return &workforce.InvalidStateError{
			Entity: "pto_request", Transition: "delete",
			Current: status, Allowed: []string{string(workforce.PtoDraft)},
		}
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM pto_requests WHERE id = ?`, string(id))
	return err
}

// =============================================================================
// TRAINING RECORDS
// =============================================================================

const trainingRecordColumns = `id, org_id, employee_id, employee_name, employee_role,
	training_type, training_name, hours, cost, status, scheduled_date, start_date, end_date,
	cert_number, expires_at, required_for_role, policy_version_id, created_by, created_at, updated_at`

func scanTrainingRecord(row interface{ Scan(...any) error }) (workforce.TrainingRecord, error) {
	var t workforce.TrainingRecord
	var id, orgID, empID, hours, cost, scheduled, start, end, expiresAt, createdAt, updatedAt string
	var requiredForRole int
	err := row.Scan(&id, &orgID, &empID, &t.Employee.Name, &t.Employee.Role,
		&t.TrainingType, &t.TrainingName, &hours, &cost, &t.Status, &scheduled, &start, &end,
		&t.CertificationNumber, &expiresAt, &requiredForRole, &t.PolicyVersionID,
		&t.CreatedBy, &createdAt, &updatedAt)
	if err != nil {
		return t, err
	}
	t.ID = workforce.TrainingRecordID(id)
	t.OrganizationID = workforce.OrganizationID(orgID)
	t.Employee.ID = workforce.EmployeeID(empID)
	t.Hours = workforce.MustParseMoney(hours)
	t.Cost = workforce.MustParseMoney(cost)
	t.ScheduledDate = decodeDate(scheduled)
	t.StartDate = decodeDate(start)
	t.EndDate = decodeDate(end)
	if expiresAt != "" {
		d := decodeDate(expiresAt)
		t.ExpiresAt = &d
	}
	t.RequiredForRole = requiredForRole == 1
	t.CreatedAt = decodeTime(createdAt)
	t.UpdatedAt = decodeTime(updatedAt)
	return t, nil
}

func (s *Store) CreateTrainingRecord(ctx context.Context, rec workforce.TrainingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	requiredForRole := 0
	if rec.RequiredForRole {
		requiredForRole = 1
	}
	expiresAt := ""
	if rec.ExpiresAt != nil {
		expiresAt = encodeDate(*rec.ExpiresAt)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO training_records (`+trainingRecordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(rec.ID), string(rec.OrganizationID), string(rec.Employee.ID),
		rec.Employee.Name, rec.Employee.Role, rec.TrainingType, rec.TrainingName,
		rec.Hours.String(), rec.Cost.String(), string(rec.Status),
		encodeDate(rec.ScheduledDate), encodeDate(rec.StartDate), encodeDate(rec.EndDate),
		rec.CertificationNumber, expiresAt, requiredForRole, string(rec.PolicyVersionID),
		rec.CreatedBy, encodeTime(rec.CreatedAt), encodeTime(rec.UpdatedAt))
	return err
}

func (s *Store) GetTrainingRecord(ctx context.Context, id workforce.TrainingRecordID) (workforce.TrainingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row := s.db.QueryRowContext(ctx, `
		SELECT `+trainingRecordColumns+` FROM training_records WHERE id = ?`, string(id))
	t, err := scanTrainingRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return workforce.TrainingRecord{}, workforce.ErrTrainingNotFound
	}
	return t, err
}

func (s *Store) GetEmployeeTrainingSummary(ctx context.Context, orgID workforce.OrganizationID, employeeID workforce.EmployeeID, year int) (workforce.TrainingSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var hours, cost string
	err := s.db.QueryRowContext(ctx, `
		SELECT hours_used, cost_spent FROM training_summaries
		WHERE org_id = ? AND employee_id = ? AND year = ?`,
		string(orgID), string(employeeID), year).Scan(&hours, &cost)
	if errors.Is(err, sql.ErrNoRows) {
		return workforce.TrainingSummary{}, workforce.ErrTrainingNotFound
	}
	if err != nil {
		return workforce.TrainingSummary{}, err
	}
	return workforce.TrainingSummary{
		EmployeeID: employeeID,
		Year:       year,
		HoursUsed:  workforce.MustParseMoney(hours),
		CostSpent:  workforce.MustParseMoney(cost),
	}, nil
}

// SetEmployeeTrainingSummary upserts the externally-fed consumption read model.
func (s *Store) SetEmployeeTrainingSummary(ctx context.Context, orgID workforce.OrganizationID, sum workforce.TrainingSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO training_summaries (org_id, employee_id, year, hours_used, cost_spent)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(org_id, employee_id, year) DO UPDATE
		SET hours_used = excluded.hours_used, cost_spent = excluded.cost_spent`,
		string(orgID), string(sum.EmployeeID), sum.Year, sum.HoursUsed.String(), sum.CostSpent.String())
	return err
}

func (s *Store) UpdateTrainingRecord(ctx context.Context, rec workforce.TrainingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiresAt := ""
	if rec.ExpiresAt != nil {
		expiresAt = encodeDate(*rec.ExpiresAt)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE training_records SET status = ?, hours = ?, start_date = ?, end_date = ?,
			cert_number = ?, expires_at = ?, policy_version_id = ?, updated_at = ?
		WHERE id = ?`,
		string(rec.Status), rec.Hours.String(), encodeDate(rec.StartDate), encodeDate(rec.EndDate),
		rec.CertificationNumber, expiresAt, string(rec.PolicyVersionID),
		encodeTime(rec.UpdatedAt), string(rec.ID))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return workforce.ErrTrainingNotFound
	}
	return nil
}

func (s *Store) GetMultiDayTrainingsScheduled(ctx context.Context, orgID workforce.OrganizationID, window workforce.DateRange) ([]workforce.TrainingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+trainingRecordColumns+` FROM training_records
		WHERE org_id = ? AND status IN ('scheduled', 'in_progress')
		ORDER BY scheduled_date ASC, id ASC`, string(orgID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Span derivation (scheduled vs started) lives in the domain type, so
	// the multi-day and overlap filters run in Go.
	var out []workforce.TrainingRecord
	for rows.Next() {
		t, err := scanTrainingRecord(rows)
		if err != nil {
			return nil, err
		}
		span := t.Span()
		if workforce.IsMultiDay(span.Start, span.End) && window.Overlaps(span) {
			out = append(out, t)
		}
	}
	return out, rows.Err()
}

// =============================================================================
// BACKFILL ASSIGNMENTS
// =============================================================================

const assignmentColumns = `id, org_id, absence_id, absence_type, absence_start, absence_end,
	absent_employee_id, absent_employee_name, absent_employee_role,
	backfill_employee_id, backfill_employee_name, backfill_employee_role,
	premium_type, premium_multiplier, estimated_hours, status, assigned_by, created_at, updated_at`

func scanAssignment(row interface{ Scan(...any) error }) (workforce.BackfillAssignment, error) {
	var a workforce.BackfillAssignment
	var id, orgID, absStart, absEnd, absentID, backfillID string
	var multiplier, hours, createdAt, updatedAt string
	err := row.Scan(&id, &orgID, &a.Absence.AbsenceID, &a.Absence.Type, &absStart, &absEnd,
		&absentID, &a.AbsentEmployee.Name, &a.AbsentEmployee.Role,
		&backfillID, &a.BackfillEmployee.Name, &a.BackfillEmployee.Role,
		&a.PremiumType, &multiplier, &hours, &a.Status, &a.AssignedBy, &createdAt, &updatedAt)
	if err != nil {
		return a, err
	}
	a.ID = workforce.AssignmentID(id)
	a.OrganizationID = workforce.OrganizationID(orgID)
	a.Absence.Start = decodeDate(absStart)
	a.Absence.End = decodeDate(absEnd)
	a.AbsentEmployee.ID = workforce.EmployeeID(absentID)
	a.BackfillEmployee.ID = workforce.EmployeeID(backfillID)
	a.PremiumMultiplier = workforce.MustParseMoney(multiplier)
	a.EstimatedHours = workforce.MustParseMoney(hours)
	a.CreatedAt = decodeTime(createdAt)
	a.UpdatedAt = decodeTime(updatedAt)
	return a, nil
}

const blockingStatuses = `('pending_confirmation', 'confirmed')`

func conflictingIDs(ctx context.Context, q querier, orgID workforce.OrganizationID, employeeID workforce.EmployeeID, window workforce.DateRange) ([]workforce.AssignmentID, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id FROM backfill_assignments
		WHERE org_id = ? AND backfill_employee_id = ? AND status IN `+blockingStatuses+`
		  AND absence_start < ? AND ? < absence_end
		ORDER BY id ASC`,
		string(orgID), string(employeeID), encodeDate(window.End), encodeDate(window.Start))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []workforce.AssignmentID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, workforce.AssignmentID(id))
	}
	return ids, rows.Err()
}

func (s *Store) HasConflictingBackfills(ctx context.Context, orgID workforce.OrganizationID, employeeID workforce.EmployeeID, window workforce.DateRange) (bool, []workforce.AssignmentID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids, err := conflictingIDs(ctx, s.db, orgID, employeeID, window)
	return len(ids) > 0, ids, err
}

func (s *Store) GetBackfillAssignmentsByEmployee(ctx context.Context, orgID workforce.OrganizationID, employeeID workforce.EmployeeID) ([]workforce.BackfillAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+assignmentColumns+` FROM backfill_assignments
		WHERE org_id = ? AND backfill_employee_id = ? ORDER BY id ASC`,
		string(orgID), string(employeeID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAssignments(rows)
}

func (s *Store) CreateBackfillAssignment(ctx context.Context, assignment workforce.BackfillAssignment, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Write-time re-check keeps the insert conditional on the
	// double-booking invariant.
	ids, err := conflictingIDs(ctx, tx, assignment.OrganizationID, assignment.BackfillEmployee.ID, assignment.Window())
	if err != nil {
		return err
	}
	if len(ids) > 0 {
		return &workforce.ConflictError{
			EmployeeID: assignment.BackfillEmployee.ID,
			Window:     assignment.Window(),
			Existing:   ids,
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO backfill_assignments (`+assignmentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(assignment.ID), string(assignment.OrganizationID),
		assignment.Absence.AbsenceID, string(assignment.Absence.Type),
		encodeDate(assignment.Absence.Start), encodeDate(assignment.Absence.End),
		string(assignment.AbsentEmployee.ID), assignment.AbsentEmployee.Name, assignment.AbsentEmployee.Role,
		string(assignment.BackfillEmployee.ID), assignment.BackfillEmployee.Name, assignment.BackfillEmployee.Role,
		string(assignment.PremiumType), assignment.PremiumMultiplier.String(),
		assignment.EstimatedHours.String(), string(assignment.Status), assignment.AssignedBy,
		encodeTime(assignment.CreatedAt), encodeTime(assignment.UpdatedAt)); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) GetBackfillAssignment(ctx context.Context, id workforce.AssignmentID) (workforce.BackfillAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row := s.db.QueryRowContext(ctx, `
		SELECT `+assignmentColumns+` FROM backfill_assignments WHERE id = ?`, string(id))
	a, err := scanAssignment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return workforce.BackfillAssignment{}, workforce.ErrAssignmentNotFound
	}
	return a, err
}

func (s *Store) GetBackfillAssignmentsByAbsence(ctx context.Context, absenceID string) ([]workforce.BackfillAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+assignmentColumns+` FROM backfill_assignments
		WHERE absence_id = ? ORDER BY id ASC`, absenceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAssignments(rows)
}

func collectAssignments(rows *sql.Rows) ([]workforce.BackfillAssignment, error) {
	var out []workforce.BackfillAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func updateAssignment(ctx context.Context, q execer, assignment workforce.BackfillAssignment) error {
	res, err := q.ExecContext(ctx, `
		UPDATE backfill_assignments SET status = ?, updated_at = ? WHERE id = ?`,
		string(assignment.Status), encodeTime(assignment.UpdatedAt), string(assignment.ID))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return workforce.ErrAssignmentNotFound
	}
	return nil
}

func (s *Store) UpdateBackfillAssignment(ctx context.Context, assignment workforce.BackfillAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return updateAssignment(ctx, s.db, assignment)
}

func (s *Store) CancelBackfillAssignment(ctx context.Context, id workforce.AssignmentID) (workforce.BackfillAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT `+assignmentColumns+` FROM backfill_assignments WHERE id = ?`, string(id))
	a, err := scanAssignment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return workforce.BackfillAssignment{}, workforce.ErrAssignmentNotFound
	}
	if err != nil {
		return workforce.BackfillAssignment{}, err
	}

	cancelled, err := a.Cancel(time.Now().UTC())
	if err != nil {
		return workforce.BackfillAssignment{}, err
	}
	if err := updateAssignment(ctx, s.db, cancelled); err != nil {
		return workforce.BackfillAssignment{}, err
	}
	return cancelled, nil
}

func (s *Store) ReleaseBackfillsForWindow(ctx context.Context, orgID workforce.OrganizationID, window workforce.DateRange) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT `+assignmentColumns+` FROM backfill_assignments
		WHERE org_id = ? AND status IN `+blockingStatuses+`
		  AND absence_start < ? AND ? < absence_end
		ORDER BY id ASC`,
		string(orgID), encodeDate(window.End), encodeDate(window.Start))
	if err != nil {
		return 0, err
	}
	candidates, err := collectAssignments(rows)
	rows.Close()
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	released := 0
	for _, a := range candidates {
		next, err := a.Release(now)
		if err != nil {
			return 0, err
		}
		if err := updateAssignment(ctx, tx, next); err != nil {
			return 0, err
		}
		released++
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return released, nil
}

func (s *Store) DeleteBackfillAssignment(ctx context.Context, id workforce.AssignmentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var status string
	err := s.db.QueryRowContext(ctx, `SELECT status FROM backfill_assignments WHERE id = ?`, string(id)).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return workforce.ErrAssignmentNotFound
	}
	if err != nil {
		return err
	}
	if status == string(workforce.BackfillConfirmed) {
		return &workforce.InvalidStateError{
			Entity: "backfill_assignment", Transition: "delete",
			Current: status,
			Allowed: []string{string(workforce.BackfillSuggested), string(workforce.BackfillPendingConfirmation)},
		}
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM backfill_assignments WHERE id = ?`, string(id))
	return err
}

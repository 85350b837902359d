/*
Package sqlite provides the SQLite-backed implementation of engine.Store.

PURPOSE:
  Implements every repository interface the engine consumes. The same
  patterns apply to PostgreSQL - only dialect details differ.

KEY TABLES:
  employees:           HR master data (read-mostly)
  time_entries:        logged work intervals, breaks as JSON
  absences:            absence requests with lifecycle status
  holiday_types:       absence type catalog (soft-deactivated, never dropped)
  holiday_definitions: public-holiday calendar rows

OVERLAP GUARD:
  CreateExclusive is the authoritative non-overlap enforcement for
  absences (the conflict detector in the engine is only a pre-check).
  The SELECT for overlapping pending/approved rows and the INSERT run in
  one database transaction under the store's write lock, so two racing
  requests cannot both commit.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

MIGRATION:
  Schema is auto-migrated on New(), and the system holiday types are
  seeded idempotently. For production, use a proper migration tool
  (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - engine/store.go: interface definitions
  - engine/store/memory.go: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/erdemkoca/baunex-timekeeping/engine"
)

// Store implements engine.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (and migrates) a SQLite store. Use ":memory:" for tests.
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
	if err := store.seedHolidayTypes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed holiday types: %w", err)
	}

	logrus.WithField("path", dbPath).Debug("sqlite store ready")
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT,
		start_date TEXT NOT NULL,
		planned_weekly_hours TEXT NOT NULL,
		workdays_per_week INTEGER DEFAULT 5,
		workday_hours_override TEXT,
		vacation_days_per_year INTEGER DEFAULT 25
	);

	CREATE TABLE IF NOT EXISTS holiday_types (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		code TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL,
		factor TEXT NOT NULL DEFAULT '0',
		is_system_type BOOLEAN DEFAULT FALSE,
		active BOOLEAN DEFAULT TRUE,
		sort_order INTEGER DEFAULT 0,
		counts_against_vacation BOOLEAN DEFAULT FALSE
	);

	CREATE TABLE IF NOT EXISTS time_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id INTEGER NOT NULL REFERENCES employees(id),
		project_id INTEGER DEFAULT 0,
		date TEXT NOT NULL,
		start_minute INTEGER NOT NULL,
		end_minute INTEGER NOT NULL,
		breaks_json TEXT NOT NULL DEFAULT '[]',
		title TEXT,
		billable BOOLEAN DEFAULT FALSE,
		invoiced BOOLEAN DEFAULT FALSE,
		night_surcharge BOOLEAN DEFAULT FALSE,
		weekend_surcharge BOOLEAN DEFAULT FALSE,
		holiday_surcharge BOOLEAN DEFAULT FALSE,
		travel_minutes INTEGER DEFAULT 0,
		waiting_minutes INTEGER DEFAULT 0,
		disposal_cost TEXT NOT NULL DEFAULT '0',
		approved BOOLEAN DEFAULT FALSE,
		approver_id INTEGER DEFAULT 0,
		approved_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Hot path: per-employee date-range scans for balance computation
	CREATE INDEX IF NOT EXISTS idx_time_entries_employee_date
		ON time_entries(employee_id, date);

	CREATE TABLE IF NOT EXISTS absences (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id INTEGER NOT NULL REFERENCES employees(id),
		type_id INTEGER NOT NULL REFERENCES holiday_types(id),
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		reason TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		approver_id INTEGER DEFAULT 0,
		approved_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_absences_employee_status
		ON absences(employee_id, status);
	CREATE INDEX IF NOT EXISTS idx_absences_range
		ON absences(employee_id, start_date, end_date);

	CREATE TABLE IF NOT EXISTS holiday_definitions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		year INTEGER NOT NULL,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		kind TEXT,
		canton TEXT DEFAULT '',
		is_work_free BOOLEAN DEFAULT TRUE,
		active BOOLEAN DEFAULT TRUE,
		is_fixed BOOLEAN DEFAULT TRUE,
		is_editable BOOLEAN DEFAULT TRUE
	);

	CREATE INDEX IF NOT EXISTS idx_holiday_definitions_year
		ON holiday_definitions(year);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_holiday_definitions_unique
		ON holiday_definitions(date, name, canton);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) seedHolidayTypes() error {
	query := `
		INSERT INTO holiday_types
		(code, display_name, factor, is_system_type, active, sort_order, counts_against_vacation)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(code) DO NOTHING
	`
	for _, t := range engine.DefaultHolidayTypes() {
		if _, err := s.db.Exec(query,
			t.Code, t.DisplayName, t.Factor.String(),
			t.IsSystemType, t.Active, t.SortOrder, t.CountsAgainstVacation,
		); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// EMPLOYEES (engine.EmployeeStore)
// =============================================================================

const employeeColumns = `id, name, email, start_date, planned_weekly_hours,
	workdays_per_week, workday_hours_override, vacation_days_per_year`

func (s *Store) GetEmployee(ctx context.Context, id int64) (*engine.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id)

	emp, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, engine.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}
	return emp, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]engine.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+employeeColumns+` FROM employees ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *emp)
	}
	return out, rows.Err()
}

func (s *Store) SaveEmployee(ctx context.Context, e *engine.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var override *string
	if e.WorkdayHoursOverride != nil {
		v := e.WorkdayHoursOverride.Value.String()
		override = &v
	}

	if e.ID == 0 {
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO employees
			(name, email, start_date, planned_weekly_hours, workdays_per_week,
			 workday_hours_override, vacation_days_per_year)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			e.Name, e.Email, e.StartDate.String(), e.PlannedWeeklyHours.Value.String(),
			e.WorkdaysPerWeek, override, e.VacationDaysPerYear)
		if err != nil {
			return err
		}
		e.ID, err = res.LastInsertId()
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE employees SET name = ?, email = ?, start_date = ?,
			planned_weekly_hours = ?, workdays_per_week = ?,
			workday_hours_override = ?, vacation_days_per_year = ?
		WHERE id = ?`,
		e.Name, e.Email, e.StartDate.String(), e.PlannedWeeklyHours.Value.String(),
		e.WorkdaysPerWeek, override, e.VacationDaysPerYear, e.ID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(r rowScanner) (*engine.Employee, error) {
	var (
		e         engine.Employee
		email     sql.NullString
		startDate string
		planned   string
		override  sql.NullString
	)
	if err := r.Scan(&e.ID, &e.Name, &email, &startDate, &planned,
		&e.WorkdaysPerWeek, &override, &e.VacationDaysPerYear); err != nil {
		return nil, err
	}
	e.Email = email.String
	var err error
	if e.StartDate, err = engine.ParseDate(startDate); err != nil {
		return nil, err
	}
	e.PlannedWeeklyHours = parseHours(planned)
	if override.Valid {
		h := parseHours(override.String)
		e.WorkdayHoursOverride = &h
	}
	return &e, nil
}

// =============================================================================
// TIME ENTRIES (engine.TimeEntryStore)
// =============================================================================

const timeEntryColumns = `id, employee_id, project_id, date, start_minute, end_minute,
	breaks_json, title, billable, invoiced, night_surcharge, weekend_surcharge,
	holiday_surcharge, travel_minutes, waiting_minutes, disposal_cost,
	approved, approver_id, approved_at, created_at, updated_at`

func (s *Store) GetTimeEntry(ctx context.Context, id int64) (*engine.TimeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+timeEntryColumns+` FROM time_entries WHERE id = ?`, id)

	e, err := scanTimeEntry(row)
	if err == sql.ErrNoRows {
		return nil, engine.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Store) TimeEntriesInRange(ctx context.Context, employeeID int64, from, to engine.Date) ([]engine.TimeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+timeEntryColumns+`
		 FROM time_entries
		 WHERE employee_id = ? AND date >= ? AND date <= ?
		 ORDER BY date ASC, start_minute ASC`,
		employeeID, from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.TimeEntry
	for rows.Next() {
		e, err := scanTimeEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (s *Store) SaveTimeEntry(ctx context.Context, e *engine.TimeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	breaksJSON, err := json.Marshal(breaksToJSON(e.Breaks))
	if err != nil {
		return err
	}

	approvedAt := formatNullableTime(e.Approval.ApprovedAt)

	if e.ID == 0 {
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO time_entries
			(employee_id, project_id, date, start_minute, end_minute, breaks_json,
			 title, billable, invoiced, night_surcharge, weekend_surcharge,
			 holiday_surcharge, travel_minutes, waiting_minutes, disposal_cost,
			 approved, approver_id, approved_at, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.EmployeeID, e.ProjectID, e.Date.String(), int(e.Start), int(e.End),
			string(breaksJSON), e.Title, e.Billable, e.Invoiced,
			e.NightSurcharge, e.WeekendSurcharge, e.HolidaySurcharge,
			e.TravelMinutes, e.WaitingMinutes, e.DisposalCost.String(),
			e.Approval.Approved, e.Approval.ApproverID, approvedAt,
			e.CreatedAt.UTC().Format(time.RFC3339), e.UpdatedAt.UTC().Format(time.RFC3339))
		if err != nil {
			return err
		}
		e.ID, err = res.LastInsertId()
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE time_entries SET
			employee_id = ?, project_id = ?, date = ?, start_minute = ?,
			end_minute = ?, breaks_json = ?, title = ?, billable = ?,
			invoiced = ?, night_surcharge = ?, weekend_surcharge = ?,
			holiday_surcharge = ?, travel_minutes = ?, waiting_minutes = ?,
			disposal_cost = ?, approved = ?, approver_id = ?, approved_at = ?,
			updated_at = ?
		WHERE id = ?`,
		e.EmployeeID, e.ProjectID, e.Date.String(), int(e.Start), int(e.End),
		string(breaksJSON), e.Title, e.Billable, e.Invoiced,
		e.NightSurcharge, e.WeekendSurcharge, e.HolidaySurcharge,
		e.TravelMinutes, e.WaitingMinutes, e.DisposalCost.String(),
		e.Approval.Approved, e.Approval.ApproverID, approvedAt,
		e.UpdatedAt.UTC().Format(time.RFC3339), e.ID)
	return err
}

func (s *Store) DeleteTimeEntry(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM time_entries WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return engine.ErrNotFound
	}
	return nil
}

type breakJSON struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func breaksToJSON(breaks []engine.BreakInterval) []breakJSON {
	out := make([]breakJSON, len(breaks))
	for i, b := range breaks {
		out[i] = breakJSON{Start: int(b.Start), End: int(b.End)}
	}
	return out
}

func scanTimeEntry(r rowScanner) (*engine.TimeEntry, error) {
	var (
		e            engine.TimeEntry
		date         string
		startMinute  int
		endMinute    int
		breaksStr    string
		title        sql.NullString
		disposalCost string
		approvedAt   sql.NullString
		createdAt    string
		updatedAt    string
	)
	if err := r.Scan(&e.ID, &e.EmployeeID, &e.ProjectID, &date, &startMinute, &endMinute,
		&breaksStr, &title, &e.Billable, &e.Invoiced,
		&e.NightSurcharge, &e.WeekendSurcharge, &e.HolidaySurcharge,
		&e.TravelMinutes, &e.WaitingMinutes, &disposalCost,
		&e.Approval.Approved, &e.Approval.ApproverID, &approvedAt,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if e.Date, err = engine.ParseDate(date); err != nil {
		return nil, err
	}
	e.Start = engine.MinuteOfDay(startMinute)
	e.End = engine.MinuteOfDay(endMinute)
	e.Title = title.String
	e.DisposalCost = parseHours(disposalCost).Value

	var breaks []breakJSON
	if err := json.Unmarshal([]byte(breaksStr), &breaks); err != nil {
		return nil, fmt.Errorf("entry %d: corrupt breaks column: %w", e.ID, err)
	}
	for _, b := range breaks {
		e.Breaks = append(e.Breaks, engine.BreakInterval{
			Start: engine.MinuteOfDay(b.Start),
			End:   engine.MinuteOfDay(b.End),
		})
	}

	e.Approval.ApprovedAt = parseNullableTime(approvedAt)
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &e, nil
}

// =============================================================================
// ABSENCES (engine.AbsenceStore)
// =============================================================================

const absenceColumns = `id, employee_id, type_id, start_date, end_date, reason,
	status, approver_id, approved_at, created_at, updated_at`

func (s *Store) GetAbsence(ctx context.Context, id int64) (*engine.Absence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+absenceColumns+` FROM absences WHERE id = ?`, id)

	a, err := scanAbsence(row)
	if err == sql.ErrNoRows {
		return nil, engine.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Store) AbsencesByEmployee(ctx context.Context, employeeID int64, statuses ...engine.AbsenceStatus) ([]engine.Absence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + absenceColumns + ` FROM absences WHERE employee_id = ?`
	args := []any{employeeID}
	if len(statuses) > 0 {
		query += " AND status IN (?" + repeatPlaceholder(len(statuses)-1) + ")"
		for _, st := range statuses {
			args = append(args, string(st))
		}
	}
	query += " ORDER BY start_date ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.Absence
	for rows.Next() {
		a, err := scanAbsence(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// CreateExclusive re-runs the overlap check and inserts in one database
// transaction under the write lock. This closes the check-then-create
// race that the engine-level conflict detector cannot.
func (s *Store) CreateExclusive(ctx context.Context, a *engine.Absence) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT `+absenceColumns+`
		FROM absences
		WHERE employee_id = ? AND status IN ('pending', 'approved')
		  AND start_date <= ? AND ? <= end_date
		ORDER BY start_date ASC`,
		a.EmployeeID, a.EndDate.String(), a.StartDate.String())
	if err != nil {
		return err
	}
	var conflicts []engine.Absence
	for rows.Next() {
		c, scanErr := scanAbsence(rows)
		if scanErr != nil {
			rows.Close()
			return scanErr
		}
		conflicts = append(conflicts, *c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	if len(conflicts) > 0 {
		return &engine.OverlapError{
			EmployeeID: a.EmployeeID,
			Start:      a.StartDate,
			End:        a.EndDate,
			Conflicts:  conflicts,
		}
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO absences
		(employee_id, type_id, start_date, end_date, reason, status,
		 approver_id, approved_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.EmployeeID, a.TypeID, a.StartDate.String(), a.EndDate.String(),
		a.Reason, string(a.Status), a.ApproverID, formatNullableTime(a.ApprovedAt),
		a.CreatedAt.UTC().Format(time.RFC3339), a.UpdatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}
	if a.ID, err = res.LastInsertId(); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) SaveAbsence(ctx context.Context, a *engine.Absence) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE absences SET
			type_id = ?, start_date = ?, end_date = ?, reason = ?,
			status = ?, approver_id = ?, approved_at = ?, updated_at = ?
		WHERE id = ?`,
		a.TypeID, a.StartDate.String(), a.EndDate.String(), a.Reason,
		string(a.Status), a.ApproverID, formatNullableTime(a.ApprovedAt),
		a.UpdatedAt.UTC().Format(time.RFC3339), a.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return engine.ErrNotFound
	}
	return nil
}

func scanAbsence(r rowScanner) (*engine.Absence, error) {
	var (
		a          engine.Absence
		startDate  string
		endDate    string
		reason     sql.NullString
		status     string
		approvedAt sql.NullString
		createdAt  string
		updatedAt  string
	)
	if err := r.Scan(&a.ID, &a.EmployeeID, &a.TypeID, &startDate, &endDate,
		&reason, &status, &a.ApproverID, &approvedAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if a.StartDate, err = engine.ParseDate(startDate); err != nil {
		return nil, err
	}
	if a.EndDate, err = engine.ParseDate(endDate); err != nil {
		return nil, err
	}
	a.Reason = reason.String
	a.Status = engine.AbsenceStatus(status)
	a.ApprovedAt = parseNullableTime(approvedAt)
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	a.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &a, nil
}

// =============================================================================
// HOLIDAY TYPES (engine.HolidayTypeStore)
// =============================================================================

const holidayTypeColumns = `id, code, display_name, factor, is_system_type,
	active, sort_order, counts_against_vacation`

func (s *Store) GetHolidayType(ctx context.Context, id int64) (*engine.HolidayType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+holidayTypeColumns+` FROM holiday_types WHERE id = ?`, id)
	return oneHolidayType(row)
}

func (s *Store) GetHolidayTypeByCode(ctx context.Context, code string) (*engine.HolidayType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+holidayTypeColumns+` FROM holiday_types WHERE code = ?`, code)
	return oneHolidayType(row)
}

func oneHolidayType(row *sql.Row) (*engine.HolidayType, error) {
	t, err := scanHolidayType(row)
	if err == sql.ErrNoRows {
		return nil, engine.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) ListHolidayTypes(ctx context.Context, activeOnly bool) ([]engine.HolidayType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + holidayTypeColumns + ` FROM holiday_types`
	if activeOnly {
		query += " WHERE active = TRUE"
	}
	query += " ORDER BY sort_order, code"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.HolidayType
	for rows.Next() {
		t, err := scanHolidayType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (s *Store) SaveHolidayType(ctx context.Context, t *engine.HolidayType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == 0 {
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO holiday_types
			(code, display_name, factor, is_system_type, active, sort_order, counts_against_vacation)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.Code, t.DisplayName, t.Factor.String(),
			t.IsSystemType, t.Active, t.SortOrder, t.CountsAgainstVacation)
		if err != nil {
			return err
		}
		t.ID, err = res.LastInsertId()
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE holiday_types SET
			display_name = ?, factor = ?, active = ?, sort_order = ?,
			counts_against_vacation = ?
		WHERE id = ?`,
		t.DisplayName, t.Factor.String(), t.Active, t.SortOrder,
		t.CountsAgainstVacation, t.ID)
	return err
}

func scanHolidayType(r rowScanner) (*engine.HolidayType, error) {
	var (
		t      engine.HolidayType
		factor string
	)
	if err := r.Scan(&t.ID, &t.Code, &t.DisplayName, &factor,
		&t.IsSystemType, &t.Active, &t.SortOrder, &t.CountsAgainstVacation); err != nil {
		return nil, err
	}
	t.Factor = parseHours(factor).Value
	return &t, nil
}

// =============================================================================
// HOLIDAY DEFINITIONS (engine.HolidayDefinitionStore)
// =============================================================================

const holidayDefColumns = `id, year, date, name, kind, canton, is_work_free,
	active, is_fixed, is_editable`

func (s *Store) GetHolidayDefinition(ctx context.Context, id int64) (*engine.HolidayDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+holidayDefColumns+` FROM holiday_definitions WHERE id = ?`, id)

	d, err := scanHolidayDefinition(row)
	if err == sql.ErrNoRows {
		return nil, engine.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Store) HolidayDefinitionsByYear(ctx context.Context, year int) ([]engine.HolidayDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+holidayDefColumns+`
		 FROM holiday_definitions WHERE year = ? ORDER BY date ASC`, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.HolidayDefinition
	for rows.Next() {
		d, err := scanHolidayDefinition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (s *Store) SaveHolidayDefinition(ctx context.Context, d *engine.HolidayDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.ID == 0 {
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO holiday_definitions
			(year, date, name, kind, canton, is_work_free, active, is_fixed, is_editable)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			d.Year, d.Date.String(), d.Name, d.Kind, d.Canton,
			d.IsWorkFree, d.Active, d.IsFixed, d.IsEditable)
		if err != nil {
			return err
		}
		d.ID, err = res.LastInsertId()
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE holiday_definitions SET
			year = ?, date = ?, name = ?, kind = ?, canton = ?,
			is_work_free = ?, active = ?, is_fixed = ?, is_editable = ?
		WHERE id = ?`,
		d.Year, d.Date.String(), d.Name, d.Kind, d.Canton,
		d.IsWorkFree, d.Active, d.IsFixed, d.IsEditable, d.ID)
	return err
}

func (s *Store) DeleteHolidayDefinition(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM holiday_definitions WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return engine.ErrNotFound
	}
	return nil
}

func scanHolidayDefinition(r rowScanner) (*engine.HolidayDefinition, error) {
	var (
		d    engine.HolidayDefinition
		date string
		kind sql.NullString
	)
	if err := r.Scan(&d.ID, &d.Year, &date, &d.Name, &kind, &d.Canton,
		&d.IsWorkFree, &d.Active, &d.IsFixed, &d.IsEditable); err != nil {
		return nil, err
	}
	var err error
	if d.Date, err = engine.ParseDate(date); err != nil {
		return nil, err
	}
	d.Kind = kind.String
	return &d, nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all mutable data (tests and dev tooling only). Holiday
// types survive so the seeded system catalog stays intact.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"time_entries", "absences", "holiday_definitions", "employees"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func parseHours(v string) engine.Hours {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return engine.Hours{}
	}
	return engine.Hours{Value: d}
}

func formatNullableTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.UTC().Format(time.RFC3339)
	return &v
}

func parseNullableTime(v sql.NullString) *time.Time {
	if !v.Valid {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v.String)
	if err != nil {
		return nil
	}
	return &t
}

func repeatPlaceholder(n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += ", ?"
	}
	return out
}

// Package store provides an in-memory engine.Store for tests and dev.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/erdemkoca/baunex-timekeeping/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu sync.RWMutex

	employees   map[int64]engine.Employee
	entries     map[int64]engine.TimeEntry
	absences    map[int64]engine.Absence
	types       map[int64]engine.HolidayType
	definitions map[int64]engine.HolidayDefinition

	nextID int64
}

func NewMemory() *Memory {
	m := &Memory{
		employees:   make(map[int64]engine.Employee),
		entries:     make(map[int64]engine.TimeEntry),
		absences:    make(map[int64]engine.Absence),
		types:       make(map[int64]engine.HolidayType),
		definitions: make(map[int64]engine.HolidayDefinition),
		nextID:      1,
	}
	// Seed the system types like the SQLite migration does.
	for _, t := range engine.DefaultHolidayTypes() {
		t.ID = m.allocateID()
		m.types[t.ID] = t
	}
	return m
}

func (m *Memory) allocateID() int64 {
	id := m.nextID
	m.nextID++
	return id
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (m *Memory) GetEmployee(_ context.Context, id int64) (*engine.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.employees[id]
	if !ok {
		return nil, engine.ErrEmployeeNotFound
	}
	return &e, nil
}

func (m *Memory) ListEmployees(_ context.Context) ([]engine.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]engine.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) SaveEmployee(_ context.Context, e *engine.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e.ID == 0 {
		e.ID = m.allocateID()
	}
	m.employees[e.ID] = *e
	return nil
}

// =============================================================================
// TIME ENTRIES
// =============================================================================

func (m *Memory) GetTimeEntry(_ context.Context, id int64) (*engine.TimeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[id]
	if !ok {
		return nil, engine.ErrNotFound
	}
	return &e, nil
}

func (m *Memory) TimeEntriesInRange(_ context.Context, employeeID int64, from, to engine.Date) ([]engine.TimeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []engine.TimeEntry
	for _, e := range m.entries {
		if e.EmployeeID == employeeID && from.BeforeOrEqual(e.Date) && e.Date.BeforeOrEqual(to) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Start < out[j].Start
	})
	return out, nil
}

func (m *Memory) SaveTimeEntry(_ context.Context, e *engine.TimeEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e.ID == 0 {
		e.ID = m.allocateID()
	}
	m.entries[e.ID] = *e
	return nil
}

func (m *Memory) DeleteTimeEntry(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[id]; !ok {
		return engine.ErrNotFound
	}
	delete(m.entries, id)
	return nil
}

// =============================================================================
// ABSENCES
// =============================================================================

func (m *Memory) GetAbsence(_ context.Context, id int64) (*engine.Absence, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.absences[id]
	if !ok {
		return nil, engine.ErrNotFound
	}
	return &a, nil
}

func (m *Memory) AbsencesByEmployee(_ context.Context, employeeID int64, statuses ...engine.AbsenceStatus) ([]engine.Absence, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.absencesLocked(employeeID, statuses...), nil
}

func (m *Memory) absencesLocked(employeeID int64, statuses ...engine.AbsenceStatus) []engine.Absence {
	var out []engine.Absence
	for _, a := range m.absences {
		if a.EmployeeID != employeeID {
			continue
		}
		if len(statuses) > 0 && !containsStatus(statuses, a.Status) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out
}

// CreateExclusive holds the write lock across the overlap re-check and the
// insert, which is all the atomicity the in-memory store needs.
func (m *Memory) CreateExclusive(_ context.Context, a *engine.Absence) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var conflicts []engine.Absence
	for _, existing := range m.absencesLocked(a.EmployeeID, engine.AbsencePending, engine.AbsenceApproved) {
		if existing.Overlaps(a.StartDate, a.EndDate) {
			conflicts = append(conflicts, existing)
		}
	}
	if len(conflicts) > 0 {
		return &engine.OverlapError{
			EmployeeID: a.EmployeeID,
			Start:      a.StartDate,
			End:        a.EndDate,
			Conflicts:  conflicts,
		}
	}

	a.ID = m.allocateID()
	m.absences[a.ID] = *a
	return nil
}

func (m *Memory) SaveAbsence(_ context.Context, a *engine.Absence) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.absences[a.ID]; !ok {
		return engine.ErrNotFound
	}
	m.absences[a.ID] = *a
	return nil
}

// =============================================================================
// HOLIDAY TYPES
// =============================================================================

func (m *Memory) GetHolidayType(_ context.Context, id int64) (*engine.HolidayType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.types[id]
	if !ok {
		return nil, engine.ErrNotFound
	}
	return &t, nil
}

func (m *Memory) GetHolidayTypeByCode(_ context.Context, code string) (*engine.HolidayType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, t := range m.types {
		if t.Code == code {
			return &t, nil
		}
	}
	return nil, engine.ErrNotFound
}

func (m *Memory) ListHolidayTypes(_ context.Context, activeOnly bool) ([]engine.HolidayType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []engine.HolidayType
	for _, t := range m.types {
		if activeOnly && !t.Active {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (m *Memory) SaveHolidayType(_ context.Context, t *engine.HolidayType) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t.ID == 0 {
		t.ID = m.allocateID()
	}
	m.types[t.ID] = *t
	return nil
}

// =============================================================================
// HOLIDAY DEFINITIONS
// =============================================================================

func (m *Memory) GetHolidayDefinition(_ context.Context, id int64) (*engine.HolidayDefinition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.definitions[id]
	if !ok {
		return nil, engine.ErrNotFound
	}
	return &d, nil
}

func (m *Memory) HolidayDefinitionsByYear(_ context.Context, year int) ([]engine.HolidayDefinition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []engine.HolidayDefinition
	for _, d := range m.definitions {
		if d.Year == year {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *Memory) SaveHolidayDefinition(_ context.Context, d *engine.HolidayDefinition) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d.ID == 0 {
		d.ID = m.allocateID()
	}
	m.definitions[d.ID] = *d
	return nil
}

func (m *Memory) DeleteHolidayDefinition(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.definitions[id]; !ok {
		return engine.ErrNotFound
	}
	delete(m.definitions, id)
	return nil
}

// Reset clears all mutable data but keeps the seeded system types,
// matching the behavior of the SQLite store.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.employees = make(map[int64]engine.Employee)
	m.entries = make(map[int64]engine.TimeEntry)
	m.absences = make(map[int64]engine.Absence)
	m.definitions = make(map[int64]engine.HolidayDefinition)
	return nil
}

func containsStatus(statuses []engine.AbsenceStatus, s engine.AbsenceStatus) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}

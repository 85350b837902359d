/*
holidaytype.go - Absence type catalog administration

PURPOSE:
  Creation, activation, and deactivation of holiday types. Types are never
  hard-deleted; deactivation is the soft delete. System types are seeded by
  migration and immutable to normal admin flows.
*/
package engine

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

type HolidayTypeService struct {
	Store HolidayTypeStore
}

func NewHolidayTypeService(store HolidayTypeStore) *HolidayTypeService {
	return &HolidayTypeService{Store: store}
}

// Create adds a new, active non-system type.
func (s *HolidayTypeService) Create(ctx context.Context, t *HolidayType) (*HolidayType, error) {
	if t.Code == "" {
		return nil, &MissingFieldError{Field: "code"}
	}
	if t.DisplayName == "" {
		return nil, &MissingFieldError{Field: "displayName"}
	}
	if t.Factor.IsNegative() || t.Factor.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("%w: factor %s outside [0,1]", ErrInvalidHours, t.Factor)
	}

	if existing, err := s.Store.GetHolidayTypeByCode(ctx, t.Code); err == nil && existing != nil {
		return nil, fmt.Errorf("holiday type %q: %w", t.Code, ErrDuplicateCode)
	}

	t.ID = 0
	t.IsSystemType = false
	t.Active = true
	if err := s.Store.SaveHolidayType(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Update edits display fields of a non-system type.
func (s *HolidayTypeService) Update(ctx context.Context, t *HolidayType) (*HolidayType, error) {
	existing, err := s.Store.GetHolidayType(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	if existing.IsSystemType {
		return nil, fmt.Errorf("type %q: %w", existing.Code, ErrSystemType)
	}
	if t.Factor.IsNegative() || t.Factor.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("%w: factor %s outside [0,1]", ErrInvalidHours, t.Factor)
	}

	t.Code = existing.Code     // codes are immutable
	t.Active = existing.Active // activation changes go through Activate/Deactivate
	t.IsSystemType = false
	if err := s.Store.SaveHolidayType(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Deactivate soft-deletes a non-system type. Existing absences keep
// referencing it; it just stops being offered for new requests.
func (s *HolidayTypeService) Deactivate(ctx context.Context, id int64) (*HolidayType, error) {
	return s.setActive(ctx, id, false)
}

// Activate re-enables a previously deactivated type.
func (s *HolidayTypeService) Activate(ctx context.Context, id int64) (*HolidayType, error) {
	return s.setActive(ctx, id, true)
}

func (s *HolidayTypeService) setActive(ctx context.Context, id int64, active bool) (*HolidayType, error) {
	t, err := s.Store.GetHolidayType(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.IsSystemType {
		return nil, fmt.Errorf("type %q: %w", t.Code, ErrSystemType)
	}
	t.Active = active
	if err := s.Store.SaveHolidayType(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// DefaultHolidayTypes returns the system types seeded at migration.
func DefaultHolidayTypes() []HolidayType {
	zero := decimal.Zero
	one := decimal.NewFromInt(1)
	return []HolidayType{
		{Code: TypeVacation, DisplayName: "Vacation", Factor: zero, IsSystemType: true, Active: true, SortOrder: 1, CountsAgainstVacation: true},
		{Code: TypeSickness, DisplayName: "Sickness", Factor: zero, IsSystemType: true, Active: true, SortOrder: 2},
		{Code: TypeAccident, DisplayName: "Accident", Factor: zero, IsSystemType: true, Active: true, SortOrder: 3},
		{Code: TypeMilitary, DisplayName: "Military service", Factor: zero, IsSystemType: true, Active: true, SortOrder: 4},
		// Unpaid leave keeps the full expected hours: the day is off but
		// not credited, so it shows up as undertime.
		{Code: TypeUnpaidLeave, DisplayName: "Unpaid leave", Factor: one, IsSystemType: true, Active: true, SortOrder: 5},
	}
}

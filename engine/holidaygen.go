/*
holidaygen.go - Bulk generation of public-holiday calendar rows

PURPOSE:
  Generates a year's HolidayDefinition rows from national rules: fixed
  dates plus the Easter-derived movable feasts. Generated rows are
  ordinary calendar entries afterwards - individually editable and
  deletable, system-generated or not.
*/
package engine

import (
	"context"
	"time"
)

// holidayRule describes one generated holiday. Movable feasts carry an
// offset in days from Easter Sunday instead of a fixed month/day.
type holidayRule struct {
	name         string
	kind         string
	month        time.Month
	day          int
	easterOffset int
	movable      bool
	workFree     bool
}

var nationalHolidayRules = []holidayRule{
	{name: "New Year's Day", kind: "national", month: time.January, day: 1, workFree: true},
	{name: "Berchtold's Day", kind: "national", month: time.January, day: 2, workFree: true},
	{name: "Good Friday", kind: "religious", easterOffset: -2, movable: true, workFree: true},
	{name: "Easter Monday", kind: "religious", easterOffset: 1, movable: true, workFree: true},
	{name: "Labour Day", kind: "national", month: time.May, day: 1, workFree: true},
	{name: "Ascension Day", kind: "religious", easterOffset: 39, movable: true, workFree: true},
	{name: "Whit Monday", kind: "religious", easterOffset: 50, movable: true, workFree: true},
	{name: "National Day", kind: "national", month: time.August, day: 1, workFree: true},
	{name: "Christmas Day", kind: "religious", month: time.December, day: 25, workFree: true},
	{name: "St. Stephen's Day", kind: "religious", month: time.December, day: 26, workFree: true},
}

// EasterSunday computes the Gregorian Easter date using the anonymous
// Gauss algorithm.
func EasterSunday(year int) Date {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return NewDate(year, time.Month(month), day)
}

// HolidayDefinitionService generates and maintains the holiday calendar.
type HolidayDefinitionService struct {
	Store HolidayDefinitionStore
}

func NewHolidayDefinitionService(store HolidayDefinitionStore) *HolidayDefinitionService {
	return &HolidayDefinitionService{Store: store}
}

// GenerateYear creates the national holiday rows for a year, tagged with
// the given canton (empty = everywhere). Dates already present for that
// year are skipped, so regeneration never duplicates or clobbers manual
// edits.
func (s *HolidayDefinitionService) GenerateYear(ctx context.Context, year int, canton string) ([]HolidayDefinition, error) {
	existing, err := s.Store.HolidayDefinitionsByYear(ctx, year)
	if err != nil {
		return nil, err
	}
	occupied := make(map[string]bool, len(existing))
	for _, d := range existing {
		occupied[d.Date.String()] = true
	}

	easter := EasterSunday(year)
	var created []HolidayDefinition
	for _, rule := range nationalHolidayRules {
		var date Date
		if rule.movable {
			date = easter.AddDays(rule.easterOffset)
		} else {
			date = NewDate(year, rule.month, rule.day)
		}
		if occupied[date.String()] {
			continue
		}

		def := HolidayDefinition{
			Year:       year,
			Date:       date,
			Name:       rule.name,
			Kind:       rule.kind,
			Canton:     canton,
			IsWorkFree: rule.workFree,
			Active:     true,
			IsFixed:    !rule.movable,
			IsEditable: true,
		}
		if err := s.Store.SaveHolidayDefinition(ctx, &def); err != nil {
			return created, err
		}
		created = append(created, def)
	}
	return created, nil
}

// Update edits a single calendar row. Every row stays editable, including
// generated ones.
func (s *HolidayDefinitionService) Update(ctx context.Context, d *HolidayDefinition) (*HolidayDefinition, error) {
	existing, err := s.Store.GetHolidayDefinition(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	if d.Date.IsZero() {
		return nil, &MissingFieldError{Field: "date"}
	}
	if d.Name == "" {
		return nil, &MissingFieldError{Field: "name"}
	}
	d.Year = d.Date.Year()
	d.IsFixed = existing.IsFixed
	d.IsEditable = existing.IsEditable
	if err := s.Store.SaveHolidayDefinition(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Delete removes a calendar row.
func (s *HolidayDefinitionService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Store.GetHolidayDefinition(ctx, id); err != nil {
		return err
	}
	return s.Store.DeleteHolidayDefinition(ctx, id)
}

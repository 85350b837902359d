package engine_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erdemkoca/baunex-timekeeping/engine"
)

func TestHolidayTypeService_Create(t *testing.T) {
	m := newMemory(t)
	svc := engine.NewHolidayTypeService(m)
	ctx := context.Background()

	created, err := svc.Create(ctx, &engine.HolidayType{
		Code:        "training",
		DisplayName: "Training",
		Factor:      decimal.Zero,
		// client-sent flags get ignored
		IsSystemType: true,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.IsSystemType)
	assert.True(t, created.Active)
}

func TestHolidayTypeService_Create_Validation(t *testing.T) {
	m := newMemory(t)
	svc := engine.NewHolidayTypeService(m)
	ctx := context.Background()

	t.Run("missing code", func(t *testing.T) {
		_, err := svc.Create(ctx, &engine.HolidayType{DisplayName: "X"})
		assert.ErrorIs(t, err, engine.ErrMissingField)
	})

	t.Run("duplicate code", func(t *testing.T) {
		_, err := svc.Create(ctx, &engine.HolidayType{
			Code:        engine.TypeVacation,
			DisplayName: "Vacation again",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, engine.ErrDuplicateCode)
		assert.True(t, engine.IsClientError(err), "duplicate codes are a caller mistake")
	})

	t.Run("factor above one", func(t *testing.T) {
		_, err := svc.Create(ctx, &engine.HolidayType{
			Code:        "halfpaid",
			DisplayName: "Half paid",
			Factor:      decimal.NewFromFloat(1.5),
		})
		assert.ErrorIs(t, err, engine.ErrInvalidHours)
	})

	t.Run("negative factor", func(t *testing.T) {
		_, err := svc.Create(ctx, &engine.HolidayType{
			Code:        "negative",
			DisplayName: "Negative",
			Factor:      decimal.NewFromInt(-1),
		})
		assert.ErrorIs(t, err, engine.ErrInvalidHours)
	})
}

func TestHolidayTypeService_SystemTypesImmutable(t *testing.T) {
	m := newMemory(t)
	svc := engine.NewHolidayTypeService(m)
	ctx := context.Background()

	vacationID := typeIDByCode(t, m, engine.TypeVacation)

	_, err := svc.Update(ctx, &engine.HolidayType{ID: vacationID, DisplayName: "Holidays"})
	assert.ErrorIs(t, err, engine.ErrSystemType)

	_, err = svc.Deactivate(ctx, vacationID)
	assert.ErrorIs(t, err, engine.ErrSystemType)
}

func TestHolidayTypeService_UpdateKeepsCode(t *testing.T) {
	m := newMemory(t)
	svc := engine.NewHolidayTypeService(m)
	ctx := context.Background()

	created, err := svc.Create(ctx, &engine.HolidayType{
		Code:        "training",
		DisplayName: "Training",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, &engine.HolidayType{
		ID:          created.ID,
		Code:        "renamed",
		DisplayName: "Workshop",
		Active:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, "training", updated.Code)
	assert.Equal(t, "Workshop", updated.DisplayName)
}

func TestHolidayTypeService_UpdateKeepsActive(t *testing.T) {
	// GIVEN: An active custom type
	// WHEN: Updating only the display name (no active flag on the request)
	// THEN: The type stays in the active catalog

	m := newMemory(t)
	svc := engine.NewHolidayTypeService(m)
	ctx := context.Background()

	created, err := svc.Create(ctx, &engine.HolidayType{
		Code:        "training",
		DisplayName: "Training",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, &engine.HolidayType{
		ID:          created.ID,
		DisplayName: "Workshop",
	})
	require.NoError(t, err)
	assert.True(t, updated.Active, "renaming must not deactivate")

	active, err := m.ListHolidayTypes(ctx, true)
	require.NoError(t, err)
	found := false
	for _, ht := range active {
		if ht.ID == created.ID {
			found = true
		}
	}
	assert.True(t, found, "renamed type still listed among active types")
}

func TestHolidayTypeService_DeactivateActivate(t *testing.T) {
	m := newMemory(t)
	svc := engine.NewHolidayTypeService(m)
	ctx := context.Background()

	created, err := svc.Create(ctx, &engine.HolidayType{
		Code:        "sabbatical",
		DisplayName: "Sabbatical",
	})
	require.NoError(t, err)

	off, err := svc.Deactivate(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, off.Active)

	on, err := svc.Activate(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, on.Active)
}

func TestDefaultHolidayTypes(t *testing.T) {
	types := engine.DefaultHolidayTypes()
	require.Len(t, types, 5)

	byCode := make(map[string]engine.HolidayType)
	for _, ht := range types {
		assert.True(t, ht.IsSystemType)
		assert.True(t, ht.Active)
		byCode[ht.Code] = ht
	}

	assert.True(t, byCode[engine.TypeVacation].CountsAgainstVacation)
	assert.False(t, byCode[engine.TypeSickness].CountsAgainstVacation)
	assert.True(t, byCode[engine.TypeUnpaidLeave].Factor.Equal(decimal.NewFromInt(1)),
		"unpaid leave keeps full expected hours")
}

package packages_module

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"solarhub/commons/enums"
	"solarhub/database/dbtest"
	"solarhub/database/entities"
)

func validTemplate() entities.SystemPackageTemplate {
	return entities.SystemPackageTemplate{
		Name:                  "starter",
		DisplayName:           "Starter",
		Tier:                  enums.TIER_BUDGET,
		SolarSizingStrategy:   enums.SOLAR_FIXED_KW,
		SolarFixedKw:          ptr(3.3),
		BatterySizingStrategy: enums.BATTERY_NONE,
		PriceMultiplier:       0.95,
		SortOrder:             4,
	}
}

func failedFields(t *testing.T, err error) []string {
	t.Helper()
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs), "expected validation errors, got %v", err)
	fields := make([]string, len(verrs))
	for i, fe := range verrs {
		fields[i] = fe.Field()
	}
	return fields
}

func TestTemplateValidator(t *testing.T) {
	v := NewTemplateValidator()
	require.NoError(t, v.Struct(validTemplate()))

	tests := []struct {
		name   string
		mutate func(*entities.SystemPackageTemplate)
		field  string
	}{
		{"unknown solar strategy", func(tp *entities.SystemPackageTemplate) { tp.SolarSizingStrategy = "guess" }, "solarSizingStrategy"},
		{"fixed kw without size", func(tp *entities.SystemPackageTemplate) { tp.SolarFixedKw = nil }, "solarFixedKw"},
		{"coverage without percent", func(tp *entities.SystemPackageTemplate) {
			tp.SolarSizingStrategy = enums.SOLAR_COVERAGE_PERCENTAGE
			tp.SolarFixedKw = nil
		}, "solarCoveragePercent"},
		{"unknown battery strategy", func(tp *entities.SystemPackageTemplate) { tp.BatterySizingStrategy = "huge" }, "batterySizingStrategy"},
		{"fixed kwh without size", func(tp *entities.SystemPackageTemplate) { tp.BatterySizingStrategy = enums.BATTERY_FIXED_KWH }, "batteryFixedKwh"},
		{"coverage hours without hours", func(tp *entities.SystemPackageTemplate) { tp.BatterySizingStrategy = enums.BATTERY_COVERAGE_HOURS }, "batteryCoverageHours"},
		{"zero multiplier", func(tp *entities.SystemPackageTemplate) { tp.PriceMultiplier = 0 }, "PriceMultiplier"},
		{"unknown tier", func(tp *entities.SystemPackageTemplate) { tp.Tier = "platinum" }, "Tier"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tp := validTemplate()
			tt.mutate(&tp)
			assert.Equal(t, []string{tt.field}, failedFields(t, v.Struct(tp)))
		})
	}
}

func TestTemplateService_Lifecycle(t *testing.T) {
	c := newMemCache()
	svc := NewTemplateService(dbtest.New(t), c)
	ctx := context.Background()

	in := validTemplate()
	in.Active = false
	created, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.True(t, created.Active)

	update := validTemplate()
	update.DisplayName = "Starter Plus"
	updated, err := svc.Update(ctx, created.ID, update)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, updated.Active, "an update without active keeps the template active")

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Starter Plus", got.DisplayName)
	assert.True(t, got.Active)

	active, err := svc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)

	require.NoError(t, svc.Deactivate(ctx, created.ID))
	active, err = svc.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	update.DisplayName = "Starter Again"
	update.Active = true
	updated, err = svc.Update(ctx, created.ID, update)
	require.NoError(t, err)
	assert.False(t, updated.Active, "update does not reactivate a retired template")

	all, err := svc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].Active)
}

func TestTemplateService_ChangesFlushCachedPackages(t *testing.T) {
	c := newMemCache()
	svc := NewTemplateService(dbtest.New(t), c)
	ctx := context.Background()

	seed := func() {
		require.NoError(t, c.Set(ctx, cacheKey("a"), Result{Success: true}, time.Minute))
		require.NoError(t, c.Set(ctx, cacheKey("b"), Result{Success: true}, time.Minute))
		require.NoError(t, c.Set(ctx, "zones:6000", 1, time.Minute))
	}
	assertFlushed := func(step string) {
		_, a := c.items[cacheKey("a")]
		_, b := c.items[cacheKey("b")]
		_, other := c.items["zones:6000"]
		assert.False(t, a || b, step)
		assert.True(t, other, step)
	}

	seed()
	created, err := svc.Create(ctx, validTemplate())
	require.NoError(t, err)
	assertFlushed("create")

	seed()
	_, err = svc.Update(ctx, created.ID, validTemplate())
	require.NoError(t, err)
	assertFlushed("update")

	seed()
	require.NoError(t, svc.Deactivate(ctx, created.ID))
	assertFlushed("deactivate")
}

func TestTemplateService_Errors(t *testing.T) {
	svc := NewTemplateService(dbtest.New(t), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, validTemplate())
	require.NoError(t, err)

	_, err = svc.Create(ctx, validTemplate())
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))

	_, err = svc.Update(ctx, 999, validTemplate())
	assert.True(t, errors.Is(err, ErrTemplateNotFound))

	assert.True(t, errors.Is(svc.Deactivate(ctx, 999), ErrTemplateNotFound))

	bad := validTemplate()
	bad.Name = "other"
	bad.SolarFixedKw = nil
	_, err = svc.Create(ctx, bad)
	assert.Equal(t, []string{"solarFixedKw"}, failedFields(t, err))
}

package rebates_module

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarhub/database"
	"solarhub/database/dbtest"
	"solarhub/database/entities"
)

func dollars(t *testing.T, want float64, got interface{ InexactFloat64() float64 }) {
	t.Helper()
	assert.InDelta(t, want, got.InexactFloat64(), 0.001)
}

func TestCalculate_DefaultRules(t *testing.T) {
	zone := DefaultZoneRating(6000)
	r := Calculate(database.DefaultRebates("WA"), 6.6, 13.5, zone)

	dollars(t, 1900, r.FederalSolar)
	dollars(t, 4750, r.FederalBattery)
	dollars(t, 1755, r.StateBattery)
	dollars(t, 8405, r.Total)
	require.Len(t, r.Items, 3)
	assert.Equal(t, 50.0, r.Items[0].Stcs)
	assert.Equal(t, 125.0, r.Items[1].Stcs)
}

func TestCalculate_SmallBatteryMissesStateScheme(t *testing.T) {
	r := Calculate(database.DefaultRebates("WA"), 0, 4, DefaultZone)

	dollars(t, 0, r.FederalSolar)
	dollars(t, 1406, r.FederalBattery)
	dollars(t, 0, r.StateBattery)
}

func TestCalculate_CapsLargeBattery(t *testing.T) {
	r := Calculate(database.DefaultRebates("WA"), 0, 60, DefaultZone)

	dollars(t, 17670, r.FederalBattery)
	dollars(t, 5000, r.StateBattery)
}

func TestCalculate_NoSystemNoRebates(t *testing.T) {
	r := Calculate(database.DefaultRebates("WA"), 0, 0, DefaultZone)
	assert.True(t, r.Total.IsZero())
	assert.Empty(t, r.Items)
}

func TestApplyRule_FixedAndUnknown(t *testing.T) {
	fixed := entities.RebateConfig{Category: "state_battery", CalculationType: "fixed", FixedAmount: 1000, MinKwh: 5}
	amount, _ := ApplyRule(fixed, 0, 10, 1.382)
	dollars(t, 1000, amount)

	amount, _ = ApplyRule(fixed, 0, 4, 1.382)
	assert.True(t, amount.IsZero())

	unknown := entities.RebateConfig{Category: "federal_solar", CalculationType: "mystery"}
	amount, _ = ApplyRule(unknown, 6, 0, 1.382)
	assert.True(t, amount.IsZero())
}

func TestRebateService_UsesPostcodeZone(t *testing.T) {
	db := dbtest.New(t)
	_, err := database.SeedZoneRatings(db)
	require.NoError(t, err)
	svc := NewRebateService(db, NewZoneService(db), "WA")

	r, err := svc.Calculate(context.Background(), RebateRequest{SystemKw: 6.6, Postcode: "0810"})
	require.NoError(t, err)
	assert.Equal(t, "NT", r.Zone.State)
	dollars(t, 2014, r.FederalSolar)
}

func TestRebateService_ConfiguredRulesReplaceDefaults(t *testing.T) {
	db := dbtest.New(t)
	require.NoError(t, db.Create(&entities.RebateConfig{
		Region: "WA", Name: "Solar only", Category: "federal_solar", CalculationType: "stc_solar",
		StcPrice: 40, DeemingYears: 6, Active: true,
	}).Error)
	svc := NewRebateService(db, NewZoneService(db), "WA")

	r, err := svc.Calculate(context.Background(), RebateRequest{SystemKw: 6.6, BatteryKwh: 13.5})
	require.NoError(t, err)
	// floor(6.6 * 1.536 * 6) = 60 certificates
	dollars(t, 2400, r.FederalSolar)
	assert.True(t, r.FederalBattery.IsZero())
	assert.True(t, r.StateBattery.IsZero())

	summary := r.Summary()
	assert.Equal(t, 2400.0, summary.Total)
	assert.Len(t, summary.Items, 1)
}

func TestRebateService_UnknownRegionWithoutPostcode(t *testing.T) {
	db := dbtest.New(t)
	svc := NewRebateService(db, NewZoneService(db), "WA")

	r, err := svc.Calculate(context.Background(), RebateRequest{SystemKw: 6.6, Region: "XX"})
	require.NoError(t, err)
	assert.Equal(t, DefaultZone, r.Zone)
	// floor(6.6 * 1.382 * 5) = 45
	dollars(t, 1710, r.FederalSolar)
	dollars(t, 1710, r.Total)
}

package energy_module

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"solarhub/database"
	"solarhub/database/dbtest"
	"solarhub/database/entities"
)

func seededService(t *testing.T) *ConsumptionService {
	t.Helper()
	db := dbtest.New(t)
	require.NoError(t, database.Seed(db, "WA", zap.NewNop()))
	return NewConsumptionService(db, "WA", NewTimeOfUseService(db, "WA"))
}

func TestEstimateConsumption_FallbackCoefficients(t *testing.T) {
	result := EstimateConsumption(ConsumptionInput{HouseholdSize: 4}, newAssumptions())

	assert.Equal(t, 14.0, result.DailyConsumption)
	assert.Equal(t, 5110.0, result.AnnualConsumption)
	assert.Equal(t, "calculated", result.UsageSource)
	assert.Equal(t, "unknown", result.ConfidenceLevel)
	assert.Nil(t, result.BillBased)
	assert.Equal(t, 4.0, result.ComponentBreakdown.BaseAppliances)
	assert.Equal(t, 10.0, result.ComponentBreakdown.Hvac)
}

func TestEstimateConsumption_NoAirConditioning(t *testing.T) {
	result := EstimateConsumption(ConsumptionInput{HouseholdSize: 2, AcUsage: "none"}, newAssumptions())
	assert.Equal(t, 4.0, result.DailyConsumption)
	assert.Equal(t, 0.0, result.ComponentBreakdown.Hvac)
}

func TestEstimateConsumption_EvFallsBackToStandardVehicle(t *testing.T) {
	in := ConsumptionInput{HouseholdSize: 1, AcUsage: "none", PlanningEv: true, EvCount: 2, EvChargingMethod: "wall_charger_7kw"}
	result := EstimateConsumption(in, newAssumptions())

	// no charging hours, so each vehicle uses the standard daily figure
	assert.Equal(t, 18.0, result.Breakdown.Ev)
	assert.Equal(t, 22.0, result.DailyConsumption)
}

func TestEstimateConsumption_EvIgnoredWithoutVehicle(t *testing.T) {
	in := ConsumptionInput{HouseholdSize: 1, AcUsage: "none", EvCount: 2, EvChargingMethod: "wall_charger_7kw", EvChargingHours: 3}
	result := EstimateConsumption(in, newAssumptions())
	assert.Equal(t, 0.0, result.Breakdown.Ev)
}

func TestEstimateConsumption_BillConfidence(t *testing.T) {
	result := EstimateConsumption(ConsumptionInput{HouseholdSize: 4, BimonthlyBill: 300}, newAssumptions())

	require.NotNil(t, result.BillBased)
	assert.Equal(t, 15.2, result.BillBased.Daily)
	assert.Equal(t, 5561.0, result.BillBased.Annual)
	assert.Equal(t, -8.0, result.VariancePercentage)
	assert.Equal(t, "high", result.ConfidenceLevel)
	// the bill never replaces the estimate
	assert.Equal(t, 14.0, result.DailyConsumption)
}

func TestConfidence(t *testing.T) {
	assert.Equal(t, "high", confidence(-15))
	assert.Equal(t, "medium", confidence(15.1))
	assert.Equal(t, "medium", confidence(-30))
	assert.Equal(t, "low", confidence(30.5))
}

func TestOrganizeAssumptions_SkipsIncompleteRows(t *testing.T) {
	size, zero, kwh := 3, 0.0, 12.0
	tier := "heated"
	rows := []entities.ConsumptionAssumption{
		{AssumptionType: "baseline", HouseholdSize: &size, BaselineKwhPerDay: &kwh},
		{AssumptionType: "baseline", HouseholdSize: &size},
		{AssumptionType: "pool", PoolType: &tier, PoolKwhPerDay: &zero},
		{AssumptionType: "office", HomeOfficeKwhPerDay: &zero},
	}
	a := OrganizeAssumptions(rows)

	assert.Equal(t, 12.0, a.Baseline[3])
	v, ok := a.Pool["heated"]
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)
	assert.Equal(t, 0.0, a.Office)
}

func TestCalculateDailyConsumption_UsesSeededAssumptions(t *testing.T) {
	svc := seededService(t)

	result, err := svc.CalculateDailyConsumption(context.Background(), ConsumptionInput{
		HouseholdSize:       4,
		HasEv:               true,
		EvCount:             1,
		EvChargingMethod:    "wall_charger_7kw",
		EvChargingHours:     2,
		HasPool:             true,
		PoolHeated:          true,
		HomeOfficeCount:     2,
		HasElectricHotWater: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 74.5, result.DailyConsumption)
	assert.Equal(t, 27193.0, result.AnnualConsumption)
	assert.Equal(t, UsageBreakdown{Baseline: 32.5, Ev: 14, Pool: 25, Office: 3}, result.Breakdown)
}

func TestCalculateDailyConsumption_OtherRegionUsesFallbacks(t *testing.T) {
	db := dbtest.New(t)
	require.NoError(t, database.Seed(db, "WA", zap.NewNop()))
	svc := NewConsumptionService(db, "NSW", NewTimeOfUseService(db, "NSW"))

	result, err := svc.CalculateDailyConsumption(context.Background(), ConsumptionInput{HouseholdSize: 4})
	require.NoError(t, err)
	assert.Equal(t, 14.0, result.DailyConsumption)
}

func TestRecommend(t *testing.T) {
	recs := Recommend(RecommendationInput{DailyConsumption: 25}, DefaultPattern)

	assert.Equal(t, 7.5, recs.Solar.RecommendedKw)
	assert.Equal(t, 33.0, recs.Solar.EstimatedDailyGeneration)
	assert.Equal(t, 12045.0, recs.Solar.EstimatedAnnualGeneration)
	assert.Equal(t, Split{Daytime: 7.5, Evening: 11.3, Night: 6.3}, recs.TimeOfUse)
	assert.Equal(t, 25.0, recs.Battery.RecommendedKwh)
	assert.Equal(t, 17.5, recs.Battery.TotalBatteryNeeds)
	assert.Equal(t, 2954.0, recs.Financial.CurrentAnnualCost)
	assert.Equal(t, 2511.0, recs.Financial.EstimatedAnnualSavings)
	assert.Equal(t, 12.9, recs.Financial.EstimatedPaybackYears)
}

func TestRecommend_ZeroConsumptionHasNoPayback(t *testing.T) {
	recs := Recommend(RecommendationInput{}, DefaultPattern)
	assert.Equal(t, 0.0, recs.Solar.RecommendedKw)
	assert.Equal(t, 0.0, recs.Financial.EstimatedPaybackYears)
}

func TestDetailedBreakdown(t *testing.T) {
	svc := seededService(t)

	result, err := svc.DetailedBreakdown(context.Background(), ConsumptionInput{
		HouseholdSize:    4,
		HasEv:            true,
		EvCount:          1,
		EvChargingMethod: "wall_charger_7kw",
		EvChargingHours:  2,
		EvChargingTime:   "evening",
	})
	require.NoError(t, err)

	// 15 baseline + 10 moderate ac + 14 ev
	assert.Equal(t, 39.0, result.DailyConsumption)
	// base 25 split 30/45/25, ev charged in the evening
	assert.Equal(t, Split{Daytime: 7.5, Evening: 25.3, Night: 6.3}, result.TimeOfUse)
	assert.Equal(t, 15.0, result.Assumptions.BaselineRate)
	require.NotNil(t, result.Assumptions.ChargingPower)
	assert.Equal(t, 7.0, *result.Assumptions.ChargingPower)
	assert.Equal(t, 7.0, result.Assumptions.PoolRate)

	profile := result.Profile()
	require.NotNil(t, profile.TimeOfUse.Night)
	assert.Equal(t, 6.3, *profile.TimeOfUse.Night)
	assert.Equal(t, 14.0, profile.Breakdown.Ev)
}

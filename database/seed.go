package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"solarhub/commons/enums"
	"solarhub/database/entities"
)

// ZoneRatings is the canonical postcode range table published by the Clean Energy Regulator.
var ZoneRatings = []entities.PostcodeZoneRating{
	{Code: "wa-perth-metro", PostcodeStart: 6000, PostcodeEnd: 6199, Zone: 2, ZoneRating: 1.536, State: "WA", Description: "Perth Metro"},
	{Code: "wa-perth-outer", PostcodeStart: 6200, PostcodeEnd: 6299, Zone: 2, ZoneRating: 1.536, State: "WA", Description: "Perth Outer Suburbs"},
	{Code: "wa-southwest", PostcodeStart: 6300, PostcodeEnd: 6399, Zone: 2, ZoneRating: 1.536, State: "WA", Description: "Southwest WA"},
	{Code: "wa-south", PostcodeStart: 6400, PostcodeEnd: 6599, Zone: 2, ZoneRating: 1.536, State: "WA", Description: "South WA"},
	{Code: "wa-central", PostcodeStart: 6600, PostcodeEnd: 6799, Zone: 2, ZoneRating: 1.536, State: "WA", Description: "Central WA"},
	{Code: "wa-north", PostcodeStart: 6800, PostcodeEnd: 6999, Zone: 1, ZoneRating: 1.622, State: "WA", Description: "North WA - Higher solar zone"},

	{Code: "nsw-sydney", PostcodeStart: 2000, PostcodeEnd: 2249, Zone: 3, ZoneRating: 1.382, State: "NSW", Description: "Sydney Metro"},
	{Code: "nsw-central-coast", PostcodeStart: 2250, PostcodeEnd: 2299, Zone: 3, ZoneRating: 1.382, State: "NSW", Description: "Central Coast"},
	{Code: "nsw-newcastle", PostcodeStart: 2300, PostcodeEnd: 2349, Zone: 3, ZoneRating: 1.382, State: "NSW", Description: "Newcastle"},
	{Code: "nsw-north-coast", PostcodeStart: 2350, PostcodeEnd: 2499, Zone: 2, ZoneRating: 1.536, State: "NSW", Description: "North Coast - Higher solar"},
	{Code: "nsw-south", PostcodeStart: 2500, PostcodeEnd: 2599, Zone: 3, ZoneRating: 1.382, State: "NSW", Description: "South NSW"},
	{Code: "nsw-west", PostcodeStart: 2600, PostcodeEnd: 2899, Zone: 3, ZoneRating: 1.382, State: "NSW", Description: "Western NSW"},
	{Code: "nsw-far-west", PostcodeStart: 2900, PostcodeEnd: 2999, Zone: 2, ZoneRating: 1.536, State: "NSW", Description: "Far West - Higher solar"},

	{Code: "vic-melbourne", PostcodeStart: 3000, PostcodeEnd: 3199, Zone: 3, ZoneRating: 1.382, State: "VIC", Description: "Melbourne Metro"},
	{Code: "vic-geelong", PostcodeStart: 3200, PostcodeEnd: 3299, Zone: 3, ZoneRating: 1.382, State: "VIC", Description: "Geelong"},
	{Code: "vic-west", PostcodeStart: 3300, PostcodeEnd: 3499, Zone: 3, ZoneRating: 1.382, State: "VIC", Description: "Western Victoria"},
	{Code: "vic-north", PostcodeStart: 3500, PostcodeEnd: 3699, Zone: 3, ZoneRating: 1.382, State: "VIC", Description: "Northern Victoria"},
	{Code: "vic-east", PostcodeStart: 3700, PostcodeEnd: 3899, Zone: 3, ZoneRating: 1.382, State: "VIC", Description: "Eastern Victoria"},
	{Code: "vic-gippsland", PostcodeStart: 3900, PostcodeEnd: 3999, Zone: 4, ZoneRating: 1.185, State: "VIC", Description: "Gippsland - Lower solar"},

	{Code: "qld-brisbane", PostcodeStart: 4000, PostcodeEnd: 4199, Zone: 2, ZoneRating: 1.536, State: "QLD", Description: "Brisbane Metro"},
	{Code: "qld-gold-coast", PostcodeStart: 4200, PostcodeEnd: 4299, Zone: 2, ZoneRating: 1.536, State: "QLD", Description: "Gold Coast"},
	{Code: "qld-sunshine-coast", PostcodeStart: 4300, PostcodeEnd: 4399, Zone: 2, ZoneRating: 1.536, State: "QLD", Description: "Sunshine Coast"},
	{Code: "qld-north", PostcodeStart: 4400, PostcodeEnd: 4699, Zone: 1, ZoneRating: 1.622, State: "QLD", Description: "North Queensland - Highest solar"},
	{Code: "qld-central", PostcodeStart: 4700, PostcodeEnd: 4899, Zone: 1, ZoneRating: 1.622, State: "QLD", Description: "Central Queensland - Highest solar"},
	{Code: "qld-far-north", PostcodeStart: 4900, PostcodeEnd: 4999, Zone: 1, ZoneRating: 1.622, State: "QLD", Description: "Far North Queensland - Highest solar"},

	{Code: "sa-adelaide", PostcodeStart: 5000, PostcodeEnd: 5199, Zone: 3, ZoneRating: 1.382, State: "SA", Description: "Adelaide Metro"},
	{Code: "sa-south", PostcodeStart: 5200, PostcodeEnd: 5499, Zone: 3, ZoneRating: 1.382, State: "SA", Description: "South SA"},
	{Code: "sa-north", PostcodeStart: 5500, PostcodeEnd: 5799, Zone: 2, ZoneRating: 1.536, State: "SA", Description: "North SA - Higher solar"},
	{Code: "sa-outback", PostcodeStart: 5800, PostcodeEnd: 5999, Zone: 1, ZoneRating: 1.622, State: "SA", Description: "SA Outback - Highest solar"},

	{Code: "tas-hobart", PostcodeStart: 7000, PostcodeEnd: 7199, Zone: 4, ZoneRating: 1.185, State: "TAS", Description: "Hobart"},
	{Code: "tas-north", PostcodeStart: 7200, PostcodeEnd: 7299, Zone: 4, ZoneRating: 1.185, State: "TAS", Description: "Northern Tasmania"},
	{Code: "tas-west", PostcodeStart: 7300, PostcodeEnd: 7499, Zone: 4, ZoneRating: 1.185, State: "TAS", Description: "Western Tasmania"},

	{Code: "nt-darwin", PostcodeStart: 800, PostcodeEnd: 849, Zone: 1, ZoneRating: 1.622, State: "NT", Description: "Darwin - Highest solar"},
	{Code: "nt-central", PostcodeStart: 850, PostcodeEnd: 899, Zone: 1, ZoneRating: 1.622, State: "NT", Description: "Central NT - Highest solar"},
	{Code: "nt-south", PostcodeStart: 900, PostcodeEnd: 999, Zone: 1, ZoneRating: 1.622, State: "NT", Description: "Southern NT - Highest solar"},

	{Code: "act-canberra", PostcodeStart: 2600, PostcodeEnd: 2619, Zone: 3, ZoneRating: 1.382, State: "ACT", Description: "Canberra"},
	{Code: "act-outer", PostcodeStart: 2620, PostcodeEnd: 2629, Zone: 3, ZoneRating: 1.382, State: "ACT", Description: "ACT Outer"},
}

// SeedZoneRatings upserts ZoneRatings keyed on code and returns how many rows were written.
func SeedZoneRatings(db *gorm.DB) (int, error) {
	rows := make([]entities.PostcodeZoneRating, len(ZoneRatings))
	copy(rows, ZoneRatings)

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"postcode_start", "postcode_end", "zone", "zone_rating", "state", "description", "updated_at"}),
	}).Create(&rows).Error
	if err != nil {
		return 0, fmt.Errorf("seed zone ratings: %w", err)
	}
	return len(rows), nil
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func stringPtr(v string) *string  { return &v }

func defaultAssumptions(region string) []entities.ConsumptionAssumption {
	var rows []entities.ConsumptionAssumption
	baseline := []float64{8, 11, 13, 15, 17, 19, 21}
	hotWater := []float64{3, 4.5, 6, 7.5, 9, 10.5, 12}
	for i := range baseline {
		size := i + 1
		rows = append(rows,
			entities.ConsumptionAssumption{AssumptionType: enums.ASSUMPTION_BASELINE, HouseholdSize: intPtr(size), BaselineKwhPerDay: floatPtr(baseline[i])},
			entities.ConsumptionAssumption{AssumptionType: enums.ASSUMPTION_HOT_WATER, HouseholdSize: intPtr(size), HotWaterKwhPerDay: floatPtr(hotWater[i])},
		)
	}
	for tier, kwh := range map[string]float64{"minimal": 4, "moderate": 10, "heavy": 18} {
		rows = append(rows, entities.ConsumptionAssumption{AssumptionType: enums.ASSUMPTION_AC, AcTier: stringPtr(tier), AcAdjustmentKwhPerDay: floatPtr(kwh)})
	}
	rows = append(rows,
		entities.ConsumptionAssumption{AssumptionType: enums.ASSUMPTION_POOL, PoolType: stringPtr("unheated"), PoolKwhPerDay: floatPtr(7)},
		entities.ConsumptionAssumption{AssumptionType: enums.ASSUMPTION_POOL, PoolType: stringPtr("heated"), PoolKwhPerDay: floatPtr(25)},
		entities.ConsumptionAssumption{AssumptionType: enums.ASSUMPTION_EV, EvTier: stringPtr("standard"), EvKwhPerDay: floatPtr(9)},
		entities.ConsumptionAssumption{AssumptionType: enums.ASSUMPTION_EV_CHARGING, EvTier: stringPtr("standard_outlet"), EvKwhPerDay: floatPtr(2.4)},
		entities.ConsumptionAssumption{AssumptionType: enums.ASSUMPTION_EV_CHARGING, EvTier: stringPtr("wall_charger_7kw"), EvKwhPerDay: floatPtr(7)},
		entities.ConsumptionAssumption{AssumptionType: enums.ASSUMPTION_EV_CHARGING, EvTier: stringPtr("three_phase_11kw"), EvKwhPerDay: floatPtr(11)},
		entities.ConsumptionAssumption{AssumptionType: enums.ASSUMPTION_COOKING, CookingKwhPerDay: floatPtr(2)},
		entities.ConsumptionAssumption{AssumptionType: enums.ASSUMPTION_OFFICE, HomeOfficeKwhPerDay: floatPtr(1.5)},
	)
	for i := range rows {
		rows[i].Region = region
		rows[i].Active = true
	}
	return rows
}

func defaultTemplates() []entities.SystemPackageTemplate {
	return []entities.SystemPackageTemplate{
		{
			Name:                  "essential",
			DisplayName:           "Essential",
			Description:           "Covers most daytime usage with a small backup battery.",
			Tier:                  enums.TIER_BUDGET,
			Features:              []string{"Tier 1 panels", "Emergency evening backup"},
			SolarSizingStrategy:   enums.SOLAR_COVERAGE_PERCENTAGE,
			SolarCoveragePercent:  floatPtr(80),
			BatterySizingStrategy: enums.BATTERY_DYNAMIC_MULTIPLIER,
			PriceMultiplier:       1.0,
			IncludeWarranty:       true,
			Active:                true,
			SortOrder:             1,
		},
		{
			Name:                  "balanced",
			DisplayName:           "Balanced",
			Description:           "Full coverage with evening and partial overnight storage.",
			Tier:                  enums.TIER_MID,
			Badge:                 "Most Popular",
			HighlightColor:        "blue",
			Features:              []string{"Full daytime coverage", "Evening battery coverage", "App monitoring"},
			SolarSizingStrategy:   enums.SOLAR_COVERAGE_PERCENTAGE,
			SolarCoveragePercent:  floatPtr(100),
			BatterySizingStrategy: enums.BATTERY_DYNAMIC_MULTIPLIER,
			PriceMultiplier:       1.1,
			IncludeMonitoring:     true,
			IncludeWarranty:       true,
			Active:                true,
			SortOrder:             2,
		},
		{
			Name:                  "independence",
			DisplayName:           "Energy Independence",
			Description:           "Largest array the roof allows with full overnight storage.",
			Tier:                  enums.TIER_PREMIUM,
			Badge:                 "Best Value Long Term",
			HighlightColor:        "gold",
			Features:              []string{"Maximum roof coverage", "Full overnight battery", "Premium monitoring", "Annual maintenance"},
			SolarSizingStrategy:   enums.SOLAR_MAX_ROOF,
			BatterySizingStrategy: enums.BATTERY_DYNAMIC_MULTIPLIER,
			PriceMultiplier:       1.25,
			IncludeMonitoring:     true,
			IncludeWarranty:       true,
			IncludeMaintenance:    true,
			Active:                true,
			SortOrder:             3,
		},
	}
}

// DefaultRebates are the rules used for a region with nothing configured.
func DefaultRebates(region string) []entities.RebateConfig {
	rows := []entities.RebateConfig{
		{Name: "Small-scale Technology Certificates (solar)", Category: enums.REBATE_FEDERAL_SOLAR, CalculationType: enums.CALC_STC_SOLAR, StcPrice: 38, DeemingYears: 5},
		{Name: "Cheaper Home Batteries", Category: enums.REBATE_FEDERAL_BATTERY, CalculationType: enums.CALC_STC_BATTERY, StcPrice: 38, StcPerKwh: 9.3, MaxEligibleKwh: 50},
	}
	if region == "WA" {
		rows = append(rows, entities.RebateConfig{
			Name: "WA Residential Battery Scheme", Category: enums.REBATE_STATE_BATTERY, CalculationType: enums.CALC_PER_KWH,
			RatePerKwh: 130, MaxAmount: 5000, MinKwh: 5, MaxEligibleKwh: 50,
		})
	}
	for i := range rows {
		rows[i].Region = region
		rows[i].Active = true
	}
	return rows
}

func defaultInstallationPricing(region string) entities.InstallationPricing {
	return entities.InstallationPricing{
		Region:               region,
		BaseCalloutFee:       250,
		PanelInstallPerUnit:  45,
		AvgRailingPerKw:      2.5,
		RailingPerMeter:      18,
		InverterInstall:      350,
		BatteryInstallBase:   600,
		BatteryInstallPerKwh: 40,
		AvgCablingPerKw:      3,
		CablingPerMeter:      8,
		CommissioningFee:     200,
		TileRoofMultiplier:   1.15,
		MetalRoofMultiplier:  1.0,
		FlatRoofMultiplier:   1.1,
		TwoStoryMultiplier:   1.2,
		DifficultAccessMult:  1.25,
		ScaffoldingRequired:  800,
		AsbestosRemoval:      1500,
		Active:               true,
	}
}

// seedIfEmpty creates rows only when model has no row matching where.
func seedIfEmpty(tx *gorm.DB, model any, rows any, where string, args ...any) (bool, error) {
	var count int64
	if err := tx.Model(model).Where(where, args...).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	return true, tx.Create(rows).Error
}

// Seed loads reference data for region. Zone ratings are always upserted, the remaining
// tables are only filled when they have nothing configured yet so admin edits survive restarts.
func Seed(db *gorm.DB, region string, log *zap.Logger) error {
	return db.Transaction(func(tx *gorm.DB) error {
		n, err := SeedZoneRatings(tx)
		if err != nil {
			return err
		}
		log.Info("Seeded postcode zone ratings", zap.Int("count", n))

		assumptions := defaultAssumptions(region)
		templates := defaultTemplates()
		rebates := DefaultRebates(region)
		pricing := defaultInstallationPricing(region)
		steps := []struct {
			name  string
			model any
			rows  any
			where string
			args  []any
		}{
			{"consumption assumptions", &entities.ConsumptionAssumption{}, &assumptions, "region = ?", []any{region}},
			{"time of use pattern", &entities.TimeOfUsePattern{}, &entities.TimeOfUsePattern{Region: region, Daytime: 0.30, Evening: 0.45, Night: 0.25, Active: true}, "region = ?", []any{region}},
			{"package templates", &entities.SystemPackageTemplate{}, &templates, "1 = 1", nil},
			{"rebate configs", &entities.RebateConfig{}, &rebates, "region = ?", []any{region}},
			{"installation pricing", &entities.InstallationPricing{}, &pricing, "region = ?", []any{region}},
			{"solar pricing", &entities.SolarPricing{}, &entities.SolarPricing{CostPerKw: 1500, Active: true}, "1 = 1", nil},
		}
		for _, step := range steps {
			created, err := seedIfEmpty(tx, step.model, step.rows, step.where, step.args...)
			if err != nil {
				return fmt.Errorf("seed %s: %w", step.name, err)
			}
			if created {
				log.Info("Seeded defaults", zap.String("table", step.name), zap.String("region", region))
			}
		}
		return nil
	})
}

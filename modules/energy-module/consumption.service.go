package energy_module

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"solarhub/commons/enums"
	"solarhub/commons/logger"
	"solarhub/commons/numbers"
	"solarhub/database/entities"
)

const (
	// SynergyRate is the WA residential tariff in $/kWh used to turn bills into kWh.
	SynergyRate = 0.3237
	// GenerationPerKw is the Perth average daily yield of 1 kW of panels.
	GenerationPerKw = 4.4

	maxHouseholdSize = 7
	depthOfDischarge = 0.9
	solarSavingsRate = 0.85
)

type ConsumptionInput struct {
	HouseholdSize       int     `json:"householdSize" binding:"required,min=1"`
	HasEv               bool    `json:"hasEv"`
	PlanningEv          bool    `json:"planningEv"`
	EvCount             int     `json:"evCount" binding:"min=0"`
	EvChargingMethod    string  `json:"evChargingMethod"`
	EvChargingHours     float64 `json:"evChargingHours" binding:"gte=0,lte=24"`
	EvChargingTime      string  `json:"evChargingTime"`
	HasPool             bool    `json:"hasPool"`
	PoolHeated          bool    `json:"poolHeated"`
	HomeOfficeCount     int     `json:"homeOfficeCount" binding:"min=0"`
	AcUsage             string  `json:"acUsage" binding:"omitempty,oneof=none minimal moderate heavy"`
	HasElectricHotWater bool    `json:"hasElectricHotWater"`
	BimonthlyBill       float64 `json:"bimonthlyBill" binding:"gte=0"`
}

func (in ConsumptionInput) wantsEv() bool {
	return in.HasEv || in.PlanningEv
}

// Assumptions are the active coefficients for a region, keyed the way the estimator reads them.
type Assumptions struct {
	Baseline   map[int]float64
	Ac         map[string]float64
	Pool       map[string]float64
	Ev         map[string]float64
	EvCharging map[string]float64
	HotWater   map[int]float64
	Cooking    float64
	Office     float64
}

func newAssumptions() Assumptions {
	return Assumptions{
		Baseline:   map[int]float64{},
		Ac:         map[string]float64{},
		Pool:       map[string]float64{},
		Ev:         map[string]float64{},
		EvCharging: map[string]float64{},
		HotWater:   map[int]float64{},
	}
}

// OrganizeAssumptions indexes rows by type. Rows missing their key or carrying a zero value
// are skipped, except pool rows where zero is a valid figure.
func OrganizeAssumptions(rows []entities.ConsumptionAssumption) Assumptions {
	a := newAssumptions()
	for _, r := range rows {
		switch r.AssumptionType {
		case enums.ASSUMPTION_BASELINE:
			if r.HouseholdSize != nil && *r.HouseholdSize != 0 && positive(r.BaselineKwhPerDay) {
				a.Baseline[*r.HouseholdSize] = *r.BaselineKwhPerDay
			}
		case enums.ASSUMPTION_AC:
			if nonEmpty(r.AcTier) && positive(r.AcAdjustmentKwhPerDay) {
				a.Ac[*r.AcTier] = *r.AcAdjustmentKwhPerDay
			}
		case enums.ASSUMPTION_POOL:
			if nonEmpty(r.PoolType) && r.PoolKwhPerDay != nil {
				a.Pool[*r.PoolType] = *r.PoolKwhPerDay
			}
		case enums.ASSUMPTION_EV:
			if nonEmpty(r.EvTier) && positive(r.EvKwhPerDay) {
				a.Ev[*r.EvTier] = *r.EvKwhPerDay
			}
		case enums.ASSUMPTION_EV_CHARGING:
			// charger power in kW, stored in the ev columns
			if nonEmpty(r.EvTier) && positive(r.EvKwhPerDay) {
				a.EvCharging[*r.EvTier] = *r.EvKwhPerDay
			}
		case enums.ASSUMPTION_HOT_WATER:
			if r.HouseholdSize != nil && *r.HouseholdSize != 0 && positive(r.HotWaterKwhPerDay) {
				a.HotWater[*r.HouseholdSize] = *r.HotWaterKwhPerDay
			}
		case enums.ASSUMPTION_COOKING:
			if positive(r.CookingKwhPerDay) {
				a.Cooking = *r.CookingKwhPerDay
			}
		case enums.ASSUMPTION_OFFICE:
			if positive(r.HomeOfficeKwhPerDay) {
				a.Office = *r.HomeOfficeKwhPerDay
			}
		}
	}
	return a
}

func positive(v *float64) bool { return v != nil && *v != 0 }
func nonEmpty(v *string) bool  { return v != nil && *v != "" }

type UsageBreakdown struct {
	Baseline float64 `json:"baseline"`
	Ev       float64 `json:"ev"`
	Pool     float64 `json:"pool"`
	Office   float64 `json:"office"`
}

type ComponentBreakdown struct {
	BaseAppliances float64 `json:"baseAppliances"`
	Hvac           float64 `json:"hvac"`
	HotWater       float64 `json:"hotWater"`
	Ev             float64 `json:"ev"`
	Pool           float64 `json:"pool"`
	Office         float64 `json:"office"`
}

type EstimatedUsage struct {
	Baseline float64 `json:"baseline"`
	Ev       float64 `json:"ev"`
	Pool     float64 `json:"pool"`
	Office   float64 `json:"office"`
	Total    float64 `json:"total"`
}

type BillBasedUsage struct {
	Daily  float64 `json:"daily"`
	Annual float64 `json:"annual"`
}

type ConsumptionResult struct {
	DailyConsumption   float64            `json:"dailyConsumption"`
	AnnualConsumption  float64            `json:"annualConsumption"`
	UsageSource        string             `json:"usageSource"`
	VariancePercentage float64            `json:"variancePercentage"`
	ConfidenceLevel    string             `json:"confidenceLevel"`
	Breakdown          UsageBreakdown     `json:"breakdown"`
	ComponentBreakdown ComponentBreakdown `json:"componentBreakdown"`
	Estimated          EstimatedUsage     `json:"estimated"`
	BillBased          *BillBasedUsage    `json:"billBased"`
}

// EstimateConsumption turns household attributes into a daily figure. The estimate is always
// the reported consumption; a bill only feeds the confidence level.
func EstimateConsumption(in ConsumptionInput, a Assumptions) ConsumptionResult {
	size := min(in.HouseholdSize, maxHouseholdSize)
	baseAppliances := numbers.Or(a.Baseline[size], 4)

	acUsage := in.AcUsage
	if acUsage == "" {
		acUsage = "moderate"
	}
	ac, ok := a.Ac[acUsage]
	if !ok || ac == 0 {
		ac = 10
		if acUsage == "none" {
			ac = 0
		}
	}

	var hotWater float64
	if in.HasElectricHotWater {
		hotWater = numbers.Or(a.HotWater[size], 6)
	}
	baseline := baseAppliances + ac + hotWater

	var ev float64
	if in.wantsEv() {
		if in.EvChargingMethod != "" && in.EvChargingHours > 0 {
			ev = numbers.Or(a.EvCharging[in.EvChargingMethod], 2.4) * in.EvChargingHours * float64(in.EvCount)
		} else {
			ev = numbers.Or(a.Ev["standard"], 9) * float64(in.EvCount)
		}
	}

	var pool float64
	if in.HasPool {
		pool = a.Pool[poolType(in.PoolHeated)]
	}
	office := float64(in.HomeOfficeCount) * numbers.Or(a.Office, 1.5)

	estimated := baseline + ev + pool + office

	result := ConsumptionResult{
		DailyConsumption:  numbers.Round1(estimated),
		AnnualConsumption: numbers.Round(estimated * 365),
		UsageSource:       "calculated",
		ConfidenceLevel:   "unknown",
		Breakdown: UsageBreakdown{
			Baseline: numbers.Round1(baseline),
			Ev:       numbers.Round1(ev),
			Pool:     numbers.Round1(pool),
			Office:   numbers.Round1(office),
		},
		ComponentBreakdown: ComponentBreakdown{
			BaseAppliances: numbers.Round1(baseAppliances),
			Hvac:           numbers.Round1(ac),
			HotWater:       numbers.Round1(hotWater),
			Ev:             numbers.Round1(ev),
			Pool:           numbers.Round1(pool),
			Office:         numbers.Round1(office),
		},
		Estimated: EstimatedUsage{Baseline: baseline, Ev: ev, Pool: pool, Office: office, Total: estimated},
	}

	if in.BimonthlyBill > 0 {
		billDaily := in.BimonthlyBill * 6 / SynergyRate / 365
		variance := (estimated - billDaily) / billDaily * 100
		result.VariancePercentage = numbers.Round(variance)
		result.ConfidenceLevel = confidence(variance)
		result.BillBased = &BillBasedUsage{
			Daily:  numbers.Round1(billDaily),
			Annual: numbers.Round(billDaily * 365),
		}
	}
	return result
}

func poolType(heated bool) string {
	if heated {
		return "heated"
	}
	return "unheated"
}

func confidence(variance float64) string {
	switch v := math.Abs(variance); {
	case v <= 15:
		return "high"
	case v <= 30:
		return "medium"
	default:
		return "low"
	}
}

type RecommendationInput struct {
	DailyConsumption float64
	EvConsumption    float64
	HasEv            bool
	PlanningEv       bool
	EvChargingTime   string
}

type SolarRecommendation struct {
	RecommendedKw             float64 `json:"recommendedKw"`
	EstimatedDailyGeneration  float64 `json:"estimatedDailyGeneration"`
	EstimatedAnnualGeneration float64 `json:"estimatedAnnualGeneration"`
}

type BatteryRecommendation struct {
	RecommendedKwh    float64 `json:"recommendedKwh"`
	NighttimeLoad     float64 `json:"nighttimeLoad"`
	TotalBatteryNeeds float64 `json:"totalBatteryNeeds"`
}

type FinancialEstimate struct {
	CurrentAnnualCost      float64 `json:"currentAnnualCost"`
	EstimatedAnnualSavings float64 `json:"estimatedAnnualSavings"`
	EstimatedPaybackYears  float64 `json:"estimatedPaybackYears"`
}

type Recommendations struct {
	Solar     SolarRecommendation   `json:"solar"`
	Battery   BatteryRecommendation `json:"battery"`
	TimeOfUse Split                 `json:"timeOfUse"`
	Financial FinancialEstimate     `json:"financial"`
}

// Recommend sizes a system for the consumption: 25% headroom on solar rounded up to 0.5 kW,
// and a battery covering evening and night with a 10% buffer at 90% depth of discharge,
// rounded up to 5 kWh.
func Recommend(in RecommendationInput, p Pattern) Recommendations {
	systemKw := math.Ceil(in.DailyConsumption*1.25/GenerationPerKw*2) / 2
	dailyGeneration := systemKw * GenerationPerKw

	base := in.DailyConsumption - in.EvConsumption
	ev := 0.0
	if in.HasEv || in.PlanningEv {
		ev = in.EvConsumption
	}
	split := SplitTimeOfUse(base+ev, ev, in.EvChargingTime, p)

	batteryNeeds := split.Evening + split.Night
	batteryKwh := math.Ceil(batteryNeeds*1.1/depthOfDischarge/5) * 5

	annualCost := in.DailyConsumption * 365 * SynergyRate
	savings := annualCost * solarSavingsRate
	var payback float64
	if savings > 0 {
		payback = (systemKw*1000 + batteryKwh*1000) / savings
	}

	return Recommendations{
		Solar: SolarRecommendation{
			RecommendedKw:             systemKw,
			EstimatedDailyGeneration:  numbers.Round1(dailyGeneration),
			EstimatedAnnualGeneration: numbers.Round(dailyGeneration * 365),
		},
		Battery: BatteryRecommendation{
			RecommendedKwh:    batteryKwh,
			NighttimeLoad:     numbers.Round1(split.Night),
			TotalBatteryNeeds: numbers.Round1(batteryNeeds),
		},
		TimeOfUse: Split{
			Daytime: numbers.Round1(split.Daytime),
			Evening: numbers.Round1(split.Evening),
			Night:   numbers.Round1(split.Night),
		},
		Financial: FinancialEstimate{
			CurrentAnnualCost:      numbers.Round(annualCost),
			EstimatedAnnualSavings: numbers.Round(savings),
			EstimatedPaybackYears:  numbers.Round1(payback),
		},
	}
}

type AssumptionRates struct {
	BaselineRate  float64  `json:"baselineRate"`
	EvRate        float64  `json:"evRate"`
	PoolRate      float64  `json:"poolRate"`
	OfficeRate    float64  `json:"officeRate"`
	ChargingPower *float64 `json:"chargingPower"`
}

type DetailedBreakdown struct {
	ConsumptionResult
	Recommendations
	Assumptions AssumptionRates `json:"assumptions"`
}

type ConsumptionService struct {
	db        *gorm.DB
	region    string
	timeOfUse *TimeOfUseService
}

func NewConsumptionService(db *gorm.DB, region string, timeOfUse *TimeOfUseService) *ConsumptionService {
	return &ConsumptionService{db: db, region: region, timeOfUse: timeOfUse}
}

func (s *ConsumptionService) LoadAssumptions(ctx context.Context) (Assumptions, error) {
	var rows []entities.ConsumptionAssumption
	if err := s.db.WithContext(ctx).
		Where("active = ? AND region = ?", true, s.region).
		Find(&rows).Error; err != nil {
		return Assumptions{}, fmt.Errorf("load consumption assumptions: %w", err)
	}
	return OrganizeAssumptions(rows), nil
}

func (s *ConsumptionService) CalculateDailyConsumption(ctx context.Context, in ConsumptionInput) (ConsumptionResult, error) {
	a, err := s.LoadAssumptions(ctx)
	if err != nil {
		return ConsumptionResult{}, err
	}
	result := EstimateConsumption(in, a)
	logger.FromContext(ctx).Debug("consumption estimated",
		zap.Float64("daily", result.DailyConsumption),
		zap.Float64("ev", result.Breakdown.Ev),
		zap.String("confidence", result.ConfidenceLevel),
	)
	return result, nil
}

func (s *ConsumptionService) CalculateSystemRecommendations(ctx context.Context, in RecommendationInput) (Recommendations, error) {
	p, err := s.timeOfUse.GetPattern(ctx)
	if err != nil {
		return Recommendations{}, err
	}
	return Recommend(in, p), nil
}

// DetailedBreakdown combines the estimate, the sizing recommendation and the rates used.
func (s *ConsumptionService) DetailedBreakdown(ctx context.Context, in ConsumptionInput) (DetailedBreakdown, error) {
	a, err := s.LoadAssumptions(ctx)
	if err != nil {
		return DetailedBreakdown{}, err
	}
	p, err := s.timeOfUse.GetPattern(ctx)
	if err != nil {
		return DetailedBreakdown{}, err
	}

	consumption := EstimateConsumption(in, a)
	recs := Recommend(RecommendationInput{
		DailyConsumption: consumption.DailyConsumption,
		EvConsumption:    consumption.Breakdown.Ev,
		HasEv:            in.HasEv,
		PlanningEv:       in.PlanningEv,
		EvChargingTime:   in.EvChargingTime,
	}, p)

	size := min(in.HouseholdSize, maxHouseholdSize)
	rates := AssumptionRates{
		BaselineRate: numbers.Or(a.Baseline[size], 20),
		EvRate:       numbers.Or(a.Ev["standard"], 9),
		OfficeRate:   numbers.Or(a.Office, 1.5),
	}
	if in.PoolHeated {
		rates.PoolRate = numbers.Or(a.Pool["heated"], 25)
	} else {
		rates.PoolRate = numbers.Or(a.Pool["unheated"], 7)
	}
	if in.EvChargingMethod != "" {
		power := numbers.Or(a.EvCharging[in.EvChargingMethod], 2.4)
		rates.ChargingPower = &power
	}

	return DetailedBreakdown{ConsumptionResult: consumption, Recommendations: recs, Assumptions: rates}, nil
}

// Profile is the snapshot stored on a quote so package generation can reuse the split.
func (d DetailedBreakdown) Profile() *entities.EnergyProfile {
	daytime, evening, night := d.TimeOfUse.Daytime, d.TimeOfUse.Evening, d.TimeOfUse.Night
	return &entities.EnergyProfile{
		TimeOfUse: &entities.TimeOfUseProfile{Daytime: &daytime, Evening: &evening, Night: &night},
		Breakdown: &entities.UsageBreakdown{
			Baseline: d.Breakdown.Baseline,
			Ev:       d.Breakdown.Ev,
			Pool:     d.Breakdown.Pool,
			Office:   d.Breakdown.Office,
		},
	}
}

package packages_module

import (
	"math"

	"solarhub/commons/enums"
	"solarhub/commons/numbers"
	"solarhub/database/entities"
	products_module "solarhub/modules/products-module"
)

const (
	// GenerationPerKw is the Perth average daily yield of one kW of panels.
	GenerationPerKw = 4.4
	RetailRate      = 0.32
	FeedInTariff    = 0.05

	defaultDailyConsumption = 25
	defaultMaxPanels        = 40
	defaultCostPerKw        = 1500
	nighttimeHours          = 12
	efficiencyBuffer        = 1.1
	inverterHeadroom        = 1.2
)

// BatterySizes are the capacities dynamic sizing snaps to. The two largest are stacks of
// several units.
var BatterySizes = []float64{5, 9.6, 10.5, 13.5, 13.8, 17.2, 20.5, 27.6, 40.5, 50.2}

// Demand is the part of the customer's day a battery has to carry.
type Demand struct {
	Daily   float64
	Evening float64
	Night   float64
	Ev      float64
	// EvIncluded is set when the stored night figure already carries EV charging.
	EvIncluded bool
}

func (d Demand) Overnight() float64 {
	return d.Evening + d.Night
}

func DailyConsumption(q entities.CustomerQuote) float64 {
	return numbers.Or(q.DailyConsumption, numbers.Or(q.DailyUsage, defaultDailyConsumption))
}

// DemandFromQuote reads the stored energy profile, falling back to fixed shares of the daily
// consumption for anything the profile lacks.
func DemandFromQuote(q entities.CustomerQuote) Demand {
	d := Demand{Daily: DailyConsumption(q)}
	d.Night = d.Daily * 0.3
	d.Evening = d.Daily * 0.4

	var tou *entities.TimeOfUseProfile
	if q.EnergyProfile != nil {
		tou = q.EnergyProfile.TimeOfUse
		if b := q.EnergyProfile.Breakdown; b != nil {
			d.Ev = numbers.Or(b.Ev, b.EvCharging)
		}
	}
	if tou != nil {
		if tou.Night != nil {
			d.Night = *tou.Night
		}
		switch {
		case tou.Evening != nil:
			d.Evening = *tou.Evening
		case tou.EveningPeak != nil:
			d.Evening = *tou.EveningPeak
		}
	}

	d.EvIncluded = tou != nil && tou.Night != nil && d.Ev > 0
	if d.Ev > 0 && !d.EvIncluded {
		d.Night += d.Ev
	}
	return d
}

// DefaultPanel is the first recommended panel, else the first one.
func DefaultPanel(panels []products_module.CatalogItem) products_module.CatalogItem {
	for _, p := range panels {
		if p.IsRecommended {
			return p
		}
	}
	return panels[0]
}

// SolarKw sizes the array for a template, never beyond what the roof holds.
func SolarKw(t entities.SystemPackageTemplate, daily, maxRoofKw float64) float64 {
	var kw float64
	switch t.SolarSizingStrategy {
	case enums.SOLAR_COVERAGE_PERCENTAGE:
		pct := 100.0
		if t.SolarCoveragePercent != nil {
			pct = *t.SolarCoveragePercent
		}
		target := daily * (pct / 100)
		kw = math.Ceil(target/GenerationPerKw*2) / 2
	case enums.SOLAR_FIXED_KW:
		kw = maxRoofKw
		if t.SolarFixedKw != nil {
			kw = *t.SolarFixedKw
		}
	case enums.SOLAR_MAX_ROOF:
		kw = maxRoofKw
	}
	return min(kw, maxRoofKw)
}

func PanelCount(kw, wattage float64) int {
	return int(math.Floor(kw * 1000 / wattage))
}

// SnapBatterySize returns the smallest standard size covering target, or target rounded up
// when it is beyond all of them.
func SnapBatterySize(target float64) float64 {
	largest := BatterySizes[len(BatterySizes)-1]
	if target > largest {
		return math.Ceil(target)
	}
	for _, size := range BatterySizes {
		if size >= target {
			return size
		}
	}
	return largest
}

// BatteryTarget is the capacity a template asks for before a product is chosen.
func BatteryTarget(t entities.SystemPackageTemplate, d Demand) float64 {
	switch t.BatterySizingStrategy {
	case enums.BATTERY_FIXED_KWH:
		if t.BatteryFixedKwh != nil {
			return *t.BatteryFixedKwh
		}
		return 0
	case enums.BATTERY_DYNAMIC_MULTIPLIER:
		var target float64
		switch t.Tier {
		case enums.TIER_BUDGET:
			target = d.Evening * 0.6
		case enums.TIER_MID:
			target = d.Evening + d.Night*0.5
		case enums.TIER_PREMIUM:
			target = d.Overnight() * efficiencyBuffer
		}
		return SnapBatterySize(target)
	case enums.BATTERY_COVERAGE_HOURS:
		hours := float64(nighttimeHours)
		if t.BatteryCoverageHours != nil {
			hours = *t.BatteryCoverageHours
		}
		if hours >= nighttimeHours {
			return math.Ceil(d.Overnight() * efficiencyBuffer)
		}
		return math.Ceil(d.Overnight() / nighttimeHours * hours * efficiencyBuffer)
	case enums.BATTERY_FULL_OVERNIGHT:
		return math.Ceil(d.Overnight())
	}
	return 0
}

type BatteryChoice struct {
	Product *products_module.CatalogItem
	Count   int
	Kwh     float64
}

// SelectBattery picks batteries of the template's tier, or any battery when the tier has
// none. A target above the largest unit is met with several of the largest; otherwise the
// closest capacity wins, ties going to the unit that meets the target and then to a
// recommended one.
func SelectBattery(batteries []products_module.CatalogItem, tier string, kwh float64) BatteryChoice {
	if kwh <= 0 {
		return BatteryChoice{}
	}
	if len(batteries) == 0 {
		return BatteryChoice{Count: 1, Kwh: kwh}
	}

	pool := make([]products_module.CatalogItem, 0, len(batteries))
	for _, b := range batteries {
		if b.TierOrDefault() == tier {
			pool = append(pool, b)
		}
	}
	if len(pool) == 0 {
		pool = batteries
	}

	largest := pool[0]
	for _, b := range pool[1:] {
		if b.Capacity() > largest.Capacity() {
			largest = b
		}
	}
	if kwh > largest.Capacity() {
		count := int(math.Ceil(kwh / largest.Capacity()))
		return BatteryChoice{Product: &largest, Count: count, Kwh: largest.Capacity() * float64(count)}
	}

	best := pool[0]
	for _, b := range pool[1:] {
		bestDiff := math.Abs(best.Capacity() - kwh)
		diff := math.Abs(b.Capacity() - kwh)
		if diff < bestDiff {
			best = b
			continue
		}
		if diff != bestDiff {
			continue
		}
		bestMeets, meets := best.Capacity() >= kwh, b.Capacity() >= kwh
		switch {
		case meets && !bestMeets:
			best = b
		case bestMeets && !meets:
		case b.IsRecommended && !best.IsRecommended:
			best = b
		}
	}
	return BatteryChoice{Product: &best, Count: 1, Kwh: best.Capacity()}
}

// SelectInverter takes the first inverter rated between kw and 20 % above it, else the first.
func SelectInverter(inverters []products_module.CatalogItem, kw float64) *products_module.CatalogItem {
	if len(inverters) == 0 {
		return nil
	}
	for i := range inverters {
		c := inverters[i].Capacity()
		if c >= kw && c <= kw*inverterHeadroom {
			return &inverters[i]
		}
	}
	return &inverters[0]
}

func SelectPanel(panels []products_module.CatalogItem, tier string, fallback products_module.CatalogItem) products_module.CatalogItem {
	for _, p := range panels {
		if p.Tier == tier {
			return p
		}
	}
	return fallback
}

type Savings struct {
	DailyGeneration      float64
	DailySelfConsumption float64
	DailyExport          float64
	Annual               float64
}

// EstimateSavings values self-consumed generation at the retail rate and the rest at the
// feed-in tariff.
func EstimateSavings(kw, daily float64) Savings {
	gen := kw * GenerationPerKw
	self := min(gen, daily)
	export := max(0, gen-daily)
	return Savings{
		DailyGeneration:      gen,
		DailySelfConsumption: self,
		DailyExport:          export,
		Annual:               self*RetailRate*365 + export*FeedInTariff*365,
	}
}

package rebates_module

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"solarhub/commons/enums"
	"solarhub/commons/logger"
	"solarhub/commons/numbers"
	"solarhub/database"
	"solarhub/database/entities"
)

// regionPostcodes is a representative postcode per state, used to pick a zone when the
// customer's postcode is unknown.
var regionPostcodes = map[string]int{
	"WA": 6000, "NSW": 2000, "VIC": 3000, "QLD": 4000, "SA": 5000, "TAS": 7000, "NT": 800, "ACT": 2600,
}

type RebateRequest struct {
	SystemKw   float64 `json:"systemKw" binding:"gte=0"`
	BatteryKwh float64 `json:"batteryKwh" binding:"gte=0"`
	Region     string  `json:"region"`
	Postcode   string  `json:"postcode" binding:"omitempty,numeric"`
}

type RebateItem struct {
	Name     string
	Category string
	Amount   decimal.Decimal
	Stcs     float64
}

type Rebates struct {
	FederalSolar   decimal.Decimal
	FederalBattery decimal.Decimal
	StateBattery   decimal.Decimal
	Total          decimal.Decimal
	Zone           ZoneRating
	Items          []RebateItem
}

type RebateItemSummary struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Stcs     float64 `json:"stcs,omitempty"`
}

// RebateSummary is the whole-dollar view returned over HTTP.
type RebateSummary struct {
	FederalSolar   float64             `json:"federalSolar"`
	FederalBattery float64             `json:"federalBattery"`
	StateBattery   float64             `json:"stateBattery"`
	Total          float64             `json:"total"`
	Zone           ZoneRating          `json:"zone"`
	Items          []RebateItemSummary `json:"items"`
}

func (r Rebates) Summary() RebateSummary {
	items := make([]RebateItemSummary, len(r.Items))
	for i, it := range r.Items {
		items[i] = RebateItemSummary{Name: it.Name, Category: it.Category, Amount: numbers.Dollars(it.Amount), Stcs: it.Stcs}
	}
	return RebateSummary{
		FederalSolar:   numbers.Dollars(r.FederalSolar),
		FederalBattery: numbers.Dollars(r.FederalBattery),
		StateBattery:   numbers.Dollars(r.StateBattery),
		Total:          numbers.Dollars(r.Total),
		Zone:           r.Zone,
		Items:          items,
	}
}

// ApplyRule evaluates one rebate rule. Solar rules need a system, battery rules need a
// battery of at least MinKwh. The second value is the number of certificates created.
func ApplyRule(rule entities.RebateConfig, systemKw, batteryKwh, zoneRating float64) (decimal.Decimal, float64) {
	quantity := batteryKwh
	if rule.Category == enums.REBATE_FEDERAL_SOLAR {
		if systemKw <= 0 {
			return decimal.Zero, 0
		}
		quantity = systemKw
	} else if batteryKwh <= 0 || batteryKwh < rule.MinKwh {
		return decimal.Zero, 0
	}
	if rule.MaxEligibleKwh > 0 {
		quantity = math.Min(quantity, rule.MaxEligibleKwh)
	}

	var amount decimal.Decimal
	var stcs float64
	switch rule.CalculationType {
	case enums.CALC_STC_SOLAR:
		stcs = math.Floor(quantity * zoneRating * rule.DeemingYears)
		amount = decimal.NewFromFloat(stcs).Mul(decimal.NewFromFloat(rule.StcPrice))
	case enums.CALC_STC_BATTERY:
		stcs = math.Floor(quantity * rule.StcPerKwh)
		amount = decimal.NewFromFloat(stcs).Mul(decimal.NewFromFloat(rule.StcPrice))
	case enums.CALC_PER_KWH:
		amount = decimal.NewFromFloat(quantity).Mul(decimal.NewFromFloat(rule.RatePerKwh))
	case enums.CALC_FIXED:
		amount = decimal.NewFromFloat(rule.FixedAmount)
	default:
		return decimal.Zero, 0
	}

	if rule.MaxAmount > 0 {
		amount = decimal.Min(amount, decimal.NewFromFloat(rule.MaxAmount))
	}
	return amount, stcs
}

// Calculate sums the rules per category.
func Calculate(rules []entities.RebateConfig, systemKw, batteryKwh float64, zone ZoneRating) Rebates {
	r := Rebates{Zone: zone, Items: []RebateItem{}}
	for _, rule := range rules {
		amount, stcs := ApplyRule(rule, systemKw, batteryKwh, zone.ZoneRating)
		if amount.IsZero() {
			continue
		}
		switch rule.Category {
		case enums.REBATE_FEDERAL_SOLAR:
			r.FederalSolar = r.FederalSolar.Add(amount)
		case enums.REBATE_FEDERAL_BATTERY:
			r.FederalBattery = r.FederalBattery.Add(amount)
		case enums.REBATE_STATE_BATTERY:
			r.StateBattery = r.StateBattery.Add(amount)
		default:
			continue
		}
		r.Items = append(r.Items, RebateItem{Name: rule.Name, Category: rule.Category, Amount: amount, Stcs: stcs})
	}
	r.Total = r.FederalSolar.Add(r.FederalBattery).Add(r.StateBattery)
	return r
}

type RebateService struct {
	db            *gorm.DB
	zones         *ZoneService
	defaultRegion string
}

func NewRebateService(db *gorm.DB, zones *ZoneService, defaultRegion string) *RebateService {
	return &RebateService{db: db, zones: zones, defaultRegion: defaultRegion}
}

func (s *RebateService) rules(ctx context.Context, region string) ([]entities.RebateConfig, error) {
	var rows []entities.RebateConfig
	if err := s.db.WithContext(ctx).
		Where("region = ? AND active = ?", region, true).
		Order("id asc").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load rebate configs: %w", err)
	}
	if len(rows) == 0 {
		logger.FromContext(ctx).Debug("no rebate configs, using defaults", zap.String("region", region))
		return database.DefaultRebates(region), nil
	}
	return rows, nil
}

// zone prefers the customer's postcode and otherwise uses the region's capital.
func (s *RebateService) zone(ctx context.Context, region, postcode string) ZoneRating {
	if postcode != "" {
		if z, err := s.zones.ByPostcode(ctx, postcode); err == nil {
			return z
		}
	}
	if pc, ok := regionPostcodes[region]; ok {
		return DefaultZoneRating(pc)
	}
	return DefaultZone
}

// Calculate works out every rebate the system qualifies for.
func (s *RebateService) Calculate(ctx context.Context, req RebateRequest) (Rebates, error) {
	region := req.Region
	if region == "" {
		region = s.defaultRegion
	}
	rules, err := s.rules(ctx, region)
	if err != nil {
		return Rebates{}, err
	}
	zone := s.zone(ctx, region, req.Postcode)

	result := Calculate(rules, req.SystemKw, req.BatteryKwh, zone)
	logger.FromContext(ctx).Debug("rebates calculated",
		zap.Float64("systemKw", req.SystemKw),
		zap.Float64("batteryKwh", req.BatteryKwh),
		zap.Float64("zoneRating", zone.ZoneRating),
		zap.String("total", result.Total.StringFixed(2)),
	)
	return result, nil
}

package installation_module

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"solarhub/commons/logger"
	"solarhub/commons/numbers"
	"solarhub/commons/response"
	"solarhub/database/entities"
)

var ErrPricingNotConfigured = response.NotFound("Installation pricing not configured")

type Addon struct {
	Name             string  `json:"name" binding:"required"`
	InstallationCost float64 `json:"installationCost" binding:"gte=0"`
}

type EstimateRequest struct {
	SystemKw            float64 `json:"systemSizeKw" binding:"gt=0"`
	PanelCount          int     `json:"panelCount" binding:"gte=0"`
	BatteryKwh          float64 `json:"batterySizeKwh" binding:"gte=0"`
	Addons              []Addon `json:"selectedAddons" binding:"dive"`
	RoofType            string  `json:"roofType" binding:"omitempty,oneof=tile metal flat"`
	PropertyType        string  `json:"propertyType" binding:"omitempty,oneof=house townhouse apartment"`
	Stories             int     `json:"stories" binding:"gte=0"`
	DifficultAccess     bool    `json:"difficultAccess"`
	RequiresScaffolding bool    `json:"requiresScaffolding"`
	HasAsbestos         bool    `json:"hasAsbestos"`
}

type LineItem struct {
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Quantity    *float64 `json:"quantity,omitempty"`
	UnitCost    *float64 `json:"unitCost,omitempty"`
	Total       float64  `json:"total"`
}

type AddonCost struct {
	Name string  `json:"name"`
	Cost float64 `json:"cost"`
}

type Breakdown struct {
	BaseCalloutFee         float64     `json:"baseCalloutFee"`
	PanelInstallation      float64     `json:"panelInstallation"`
	RailingInstallation    float64     `json:"railingInstallation"`
	InverterInstallation   float64     `json:"inverterInstallation"`
	BatteryInstallation    float64     `json:"batteryInstallation"`
	CablingInstallation    float64     `json:"cablingInstallation"`
	Commissioning          float64     `json:"commissioning"`
	AddonInstallations     []AddonCost `json:"addonInstallations"`
	AddonInstallationTotal float64     `json:"addonInstallationTotal"`
	SolarInstallSubtotal   float64     `json:"solarInstallSubtotal"`
	BaseSubtotal           float64     `json:"baseSubtotal"`
	RoofTypeMultiplier     float64     `json:"roofTypeMultiplier"`
	RoofTypeAdjustment     float64     `json:"roofTypeAdjustment"`
	StoryMultiplier        float64     `json:"storyMultiplier"`
	StoryAdjustment        float64     `json:"storyAdjustment"`
	AccessMultiplier       float64     `json:"accessMultiplier"`
	AccessAdjustment       float64     `json:"accessAdjustment"`
	ScaffoldingCost        float64     `json:"scaffoldingCost"`
	AsbestosCost           float64     `json:"asbestosCost"`
	TotalInstallationCost  float64     `json:"totalInstallationCost"`
	ItemizedBreakdown      []LineItem  `json:"itemizedBreakdown"`
}

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func ptr(v float64) *float64 { return &v }

func percent(multiplier float64) string {
	return fmt.Sprintf("%.0f%%", numbers.Round((multiplier-1)*100))
}

// Estimate prices an installation. Roof, storey and access adjustments compound in that
// order on the running subtotal; scaffolding and asbestos are added after them.
func Estimate(p entities.InstallationPricing, req EstimateRequest) Breakdown {
	one := decimal.NewFromInt(1)

	callout := d(p.BaseCalloutFee)
	panels := decimal.NewFromInt(int64(req.PanelCount)).Mul(d(p.PanelInstallPerUnit))
	railingMeters := d(req.SystemKw).Mul(d(p.AvgRailingPerKw))
	railing := railingMeters.Mul(d(p.RailingPerMeter))
	inverter := d(p.InverterInstall)
	battery := decimal.Zero
	if req.BatteryKwh > 0 {
		battery = d(p.BatteryInstallBase).Add(d(req.BatteryKwh).Mul(d(p.BatteryInstallPerKwh)))
	}
	cablingMeters := d(req.SystemKw).Mul(d(p.AvgCablingPerKw))
	cabling := cablingMeters.Mul(d(p.CablingPerMeter))
	commissioning := d(p.CommissioningFee)

	addons := []AddonCost{}
	addonTotal := decimal.Zero
	for _, a := range req.Addons {
		if a.InstallationCost > 0 {
			addons = append(addons, AddonCost{Name: a.Name, Cost: a.InstallationCost})
			addonTotal = addonTotal.Add(d(a.InstallationCost))
		}
	}

	solarSubtotal := decimal.Sum(callout, panels, railing, inverter, battery, cabling, commissioning)
	baseSubtotal := solarSubtotal.Add(addonTotal)

	roofMultiplier := 1.0
	switch req.RoofType {
	case "tile":
		roofMultiplier = p.TileRoofMultiplier
	case "metal":
		roofMultiplier = p.MetalRoofMultiplier
	case "flat":
		roofMultiplier = p.FlatRoofMultiplier
	}
	roofAdj := baseSubtotal.Mul(d(roofMultiplier).Sub(one))

	storyMultiplier := 1.0
	if req.Stories >= 2 {
		storyMultiplier = p.TwoStoryMultiplier
	}
	storyAdj := baseSubtotal.Add(roofAdj).Mul(d(storyMultiplier).Sub(one))

	accessMultiplier := 1.0
	if req.DifficultAccess {
		accessMultiplier = p.DifficultAccessMult
	}
	accessAdj := baseSubtotal.Add(roofAdj).Add(storyAdj).Mul(d(accessMultiplier).Sub(one))

	scaffolding := decimal.Zero
	if req.RequiresScaffolding {
		scaffolding = d(p.ScaffoldingRequired)
	}
	asbestos := decimal.Zero
	if req.HasAsbestos {
		asbestos = d(p.AsbestosRemoval)
	}

	total := decimal.Sum(baseSubtotal, roofAdj, storyAdj, accessAdj, scaffolding, asbestos)

	items := []LineItem{
		{Category: "Base", Description: "Callout & Setup Fee", Total: callout.InexactFloat64()},
		{Category: "Solar", Description: "Panel Installation", Quantity: ptr(float64(req.PanelCount)), UnitCost: ptr(p.PanelInstallPerUnit), Total: panels.InexactFloat64()},
		{Category: "Solar", Description: "Railing & Mounting", Quantity: ptr(numbers.Round(railingMeters.InexactFloat64())), UnitCost: ptr(p.RailingPerMeter), Total: numbers.Dollars(railing)},
		{Category: "Solar", Description: "Inverter Installation", Total: inverter.InexactFloat64()},
	}
	if battery.IsPositive() {
		items = append(items, LineItem{Category: "Battery", Description: "Battery Installation", Quantity: ptr(req.BatteryKwh), UnitCost: ptr(p.BatteryInstallPerKwh), Total: numbers.Dollars(battery)})
	}
	items = append(items,
		LineItem{Category: "Solar", Description: "Cabling & Wiring", Quantity: ptr(numbers.Round(cablingMeters.InexactFloat64())), UnitCost: ptr(p.CablingPerMeter), Total: numbers.Dollars(cabling)},
		LineItem{Category: "Solar", Description: "Commissioning & Testing", Total: commissioning.InexactFloat64()},
	)
	for _, a := range addons {
		items = append(items, LineItem{Category: "Addon", Description: a.Name + " Installation", Total: a.Cost})
	}
	if roofAdj.IsPositive() {
		roof := strings.ToUpper(req.RoofType[:1]) + req.RoofType[1:]
		items = append(items, LineItem{Category: "Complexity", Description: fmt.Sprintf("%s Roof Adjustment (%s)", roof, percent(roofMultiplier)), Total: numbers.Dollars(roofAdj)})
	}
	if storyAdj.IsPositive() {
		items = append(items, LineItem{Category: "Complexity", Description: fmt.Sprintf("Two-Story Adjustment (%s)", percent(storyMultiplier)), Total: numbers.Dollars(storyAdj)})
	}
	if accessAdj.IsPositive() {
		items = append(items, LineItem{Category: "Complexity", Description: fmt.Sprintf("Difficult Access Adjustment (%s)", percent(accessMultiplier)), Total: numbers.Dollars(accessAdj)})
	}
	if scaffolding.IsPositive() {
		items = append(items, LineItem{Category: "Additional", Description: "Scaffolding Required", Total: scaffolding.InexactFloat64()})
	}
	if asbestos.IsPositive() {
		items = append(items, LineItem{Category: "Additional", Description: "Asbestos Removal", Total: asbestos.InexactFloat64()})
	}

	return Breakdown{
		BaseCalloutFee:         callout.InexactFloat64(),
		PanelInstallation:      panels.InexactFloat64(),
		RailingInstallation:    railing.InexactFloat64(),
		InverterInstallation:   inverter.InexactFloat64(),
		BatteryInstallation:    battery.InexactFloat64(),
		CablingInstallation:    cabling.InexactFloat64(),
		Commissioning:          commissioning.InexactFloat64(),
		AddonInstallations:     addons,
		AddonInstallationTotal: addonTotal.InexactFloat64(),
		SolarInstallSubtotal:   solarSubtotal.InexactFloat64(),
		BaseSubtotal:           baseSubtotal.InexactFloat64(),
		RoofTypeMultiplier:     roofMultiplier,
		RoofTypeAdjustment:     roofAdj.InexactFloat64(),
		StoryMultiplier:        storyMultiplier,
		StoryAdjustment:        storyAdj.InexactFloat64(),
		AccessMultiplier:       accessMultiplier,
		AccessAdjustment:       accessAdj.InexactFloat64(),
		ScaffoldingCost:        scaffolding.InexactFloat64(),
		AsbestosCost:           asbestos.InexactFloat64(),
		TotalInstallationCost:  numbers.Dollars(total),
		ItemizedBreakdown:      items,
	}
}

type InstallationService struct {
	db     *gorm.DB
	region string
}

func NewInstallationService(db *gorm.DB, region string) *InstallationService {
	return &InstallationService{db: db, region: region}
}

// Pricing returns the newest active configuration for the region.
func (s *InstallationService) Pricing(ctx context.Context) (entities.InstallationPricing, error) {
	var p entities.InstallationPricing
	err := s.db.WithContext(ctx).
		Where("region = ? AND active = ?", s.region, true).
		Order("created_at desc").Order("id desc").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p, ErrPricingNotConfigured
	}
	if err != nil {
		return p, fmt.Errorf("load installation pricing: %w", err)
	}
	return p, nil
}

func (s *InstallationService) Estimate(ctx context.Context, req EstimateRequest) (Breakdown, error) {
	p, err := s.Pricing(ctx)
	if err != nil {
		return Breakdown{}, err
	}
	b := Estimate(p, req)
	logger.FromContext(ctx).Debug("installation estimated",
		zap.Float64("systemKw", req.SystemKw),
		zap.Int("panels", req.PanelCount),
		zap.Float64("total", b.TotalInstallationCost),
	)
	return b, nil
}

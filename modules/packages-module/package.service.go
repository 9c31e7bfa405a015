package packages_module

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"solarhub/commons/cache"
	"solarhub/commons/enums"
	"solarhub/commons/logger"
	"solarhub/commons/metrics"
	"solarhub/commons/numbers"
	"solarhub/commons/response"
	"solarhub/database/entities"
	products_module "solarhub/modules/products-module"
	rebates_module "solarhub/modules/rebates-module"
)

var (
	ErrSessionRequired = response.BadRequest("Session ID is required")
	ErrQuoteNotFound   = response.NotFound("Quote not found")
	ErrRoofNotFound    = response.NotFound("Roof analysis not found")
	ErrNoTemplates     = response.NotFound("No active package templates found")
	ErrNoPanels        = response.NewHTTPError(http.StatusInternalServerError, "No panel products available", nil)
)

type InstallationCosts struct {
	Panel    float64 `json:"panel"`
	Battery  float64 `json:"battery"`
	Inverter float64 `json:"inverter"`
}

type Package struct {
	TemplateID     uint     `json:"templateId"`
	Name           string   `json:"name"`
	DisplayName    string   `json:"displayName"`
	Description    string   `json:"description"`
	Tier           string   `json:"tier"`
	Badge          string   `json:"badge"`
	HighlightColor string   `json:"highlightColor"`
	Features       []string `json:"features"`

	SolarKw             float64  `json:"solarKw"`
	PanelCount          int      `json:"panelCount"`
	PanelWattage        float64  `json:"panelWattage"`
	PanelBrand          string   `json:"panelBrand"`
	PanelModel          string   `json:"panelModel"`
	PanelProductID      *uint    `json:"panelProductId"`
	BatteryKwh          float64  `json:"batteryKwh"`
	BatteryCount        int      `json:"batteryCount"`
	BatteryBrand        *string  `json:"batteryBrand"`
	BatteryModel        *string  `json:"batteryModel"`
	BatteryProductID    *uint    `json:"batteryProductId"`
	BatteryUnitCapacity *float64 `json:"batteryUnitCapacity"`
	InverterBrand       *string  `json:"inverterBrand"`
	InverterModel       *string  `json:"inverterModel"`
	InverterCapacity    *float64 `json:"inverterCapacity"`
	InverterProductID   *uint    `json:"inverterProductId"`

	DailyGeneration      float64 `json:"dailyGeneration"`
	DailySelfConsumption float64 `json:"dailySelfConsumption"`
	DailyExport          float64 `json:"dailyExport"`
	CoveragePercent      float64 `json:"coveragePercent"`

	SolarCost             float64           `json:"solarCost"`
	BatteryCost           float64           `json:"batteryCost"`
	InverterCost          float64           `json:"inverterCost"`
	InstallationCost      float64           `json:"installationCost"`
	InstallationBreakdown InstallationCosts `json:"installationBreakdown"`
	TotalBeforeRebates    float64           `json:"totalBeforeRebates"`
	FederalSolarRebate    float64           `json:"federalSolarRebate"`
	FederalBatteryRebate  float64           `json:"federalBatteryRebate"`
	StateBatteryRebate    float64           `json:"stateBatteryRebate"`
	TotalRebates          float64           `json:"totalRebates"`
	TotalAfterRebates     float64           `json:"totalAfterRebates"`

	AnnualSavings float64 `json:"annualSavings"`
	PaybackYears  float64 `json:"paybackYears"`
	Year10Savings float64 `json:"year10Savings"`
	Year25Savings float64 `json:"year25Savings"`

	IncludeMonitoring  bool `json:"includeMonitoring"`
	IncludeWarranty    bool `json:"includeWarranty"`
	IncludeMaintenance bool `json:"includeMaintenance"`
}

type CustomerData struct {
	DailyConsumption float64 `json:"dailyConsumption"`
	MaxRoofKw        float64 `json:"maxRoofKw"`
	MaxPanels        int     `json:"maxPanels"`
}

type Result struct {
	Success      bool         `json:"success"`
	Packages     []Package    `json:"packages"`
	CustomerData CustomerData `json:"customerData"`
}

// catalog is everything a package can be built from.
type catalog struct {
	panels       []products_module.CatalogItem
	batteries    []products_module.CatalogItem
	inverters    []products_module.CatalogItem
	defaultPanel products_module.CatalogItem
	costPerKw    float64
}

const cacheKeyPrefix = "packages:"

func cacheKey(sessionID string) string {
	return cacheKeyPrefix + sessionID
}

type PackageService struct {
	db       *gorm.DB
	products *products_module.ProductService
	rebates  *rebates_module.RebateService
	cache    cache.Cache
	cacheTTL time.Duration
	region   string
}

func NewPackageService(db *gorm.DB, products *products_module.ProductService, rebates *rebates_module.RebateService, c cache.Cache, cacheTTL time.Duration, region string) *PackageService {
	return &PackageService{db: db, products: products, rebates: rebates, cache: c, cacheTTL: cacheTTL, region: region}
}

// Generate builds one package per active template for the session, serving a cached result
// when there is one.
func (s *PackageService) Generate(ctx context.Context, sessionID string) (res Result, err error) {
	log := logger.FromContext(ctx).With(zap.String("sessionId", sessionID))
	defer func() {
		if err != nil {
			metrics.RecordPackageFailure()
		}
	}()

	if sessionID == "" {
		return Result{}, ErrSessionRequired
	}

	hit, cerr := s.cache.Get(ctx, cacheKey(sessionID), &res)
	if cerr != nil {
		log.Warn("package cache read failed", zap.Error(cerr))
	}
	metrics.RecordCacheLookup(hit)
	if hit {
		log.Debug("packages served from cache")
		return res, nil
	}

	quote, roof, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return Result{}, err
	}

	var templates []entities.SystemPackageTemplate
	if err := s.db.WithContext(ctx).Where("active = ?", true).Order("sort_order asc").Order("id asc").Find(&templates).Error; err != nil {
		return Result{}, fmt.Errorf("load package templates: %w", err)
	}
	if len(templates) == 0 {
		return Result{}, ErrNoTemplates
	}

	cat, err := s.loadCatalog(ctx)
	if err != nil {
		return Result{}, err
	}

	demand := DemandFromQuote(quote)
	maxPanels := roof.MaxArrayPanelsCount
	if maxPanels == 0 {
		maxPanels = defaultMaxPanels
	}
	maxRoofKw := float64(maxPanels) * cat.defaultPanel.Wattage() / 1000

	log.Debug("customer demand",
		zap.Float64("daily", demand.Daily),
		zap.Float64("evening", demand.Evening),
		zap.Float64("night", demand.Night),
		zap.Float64("ev", demand.Ev),
		zap.Bool("evIncluded", demand.EvIncluded),
		zap.Int("maxPanels", maxPanels),
		zap.Float64("maxRoofKw", maxRoofKw),
	)

	packages := make([]Package, 0, len(templates))
	for _, t := range templates {
		p, err := s.build(ctx, t, quote, demand, maxRoofKw, cat)
		if err != nil {
			return Result{}, fmt.Errorf("build package %s: %w", t.Name, err)
		}
		packages = append(packages, p)
		metrics.RecordPackageGenerated(t.Tier)
	}

	res = Result{
		Success:  true,
		Packages: packages,
		CustomerData: CustomerData{
			DailyConsumption: demand.Daily,
			MaxRoofKw:        maxRoofKw,
			MaxPanels:        maxPanels,
		},
	}
	if err := s.cache.Set(ctx, cacheKey(sessionID), res, s.cacheTTL); err != nil {
		log.Warn("package cache write failed", zap.Error(err))
	}
	log.Info("packages generated", zap.Int("count", len(packages)))
	return res, nil
}

// Invalidate drops the cached packages of a session.
func (s *PackageService) Invalidate(ctx context.Context, sessionID string) {
	if err := s.cache.Delete(ctx, cacheKey(sessionID)); err != nil {
		logger.FromContext(ctx).Warn("package cache delete failed", zap.String("sessionId", sessionID), zap.Error(err))
	}
}

func (s *PackageService) loadSession(ctx context.Context, sessionID string) (entities.CustomerQuote, entities.RoofAnalysis, error) {
	db := s.db.WithContext(ctx)

	var quote entities.CustomerQuote
	err := db.Where("session_id = ?", sessionID).First(&quote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return quote, entities.RoofAnalysis{}, ErrQuoteNotFound
	}
	if err != nil {
		return quote, entities.RoofAnalysis{}, fmt.Errorf("load quote: %w", err)
	}

	var roof entities.RoofAnalysis
	err = db.Where("session_id = ?", sessionID).Order("created_at desc").Order("id desc").First(&roof).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return quote, roof, ErrRoofNotFound
	}
	if err != nil {
		return quote, roof, fmt.Errorf("load roof analysis: %w", err)
	}
	return quote, roof, nil
}

func (s *PackageService) loadCatalog(ctx context.Context) (catalog, error) {
	log := logger.FromContext(ctx)
	available := products_module.Filter{AvailableOnly: true}

	var cat catalog
	var err error
	if cat.panels, err = s.products.Catalog(ctx, enums.PRODUCT_PANEL, available); err != nil {
		return cat, err
	}
	if len(cat.panels) == 0 {
		return cat, ErrNoPanels
	}
	if cat.batteries, err = s.products.Catalog(ctx, enums.PRODUCT_BATTERY, available); err != nil {
		return cat, err
	}
	if len(cat.batteries) == 0 {
		log.Warn("no batteries available, packages will carry calculated battery sizes only")
	}
	if cat.inverters, err = s.products.Catalog(ctx, enums.PRODUCT_INVERTER, available); err != nil {
		return cat, err
	}
	if len(cat.inverters) == 0 {
		log.Warn("no inverters available")
	}
	cat.defaultPanel = DefaultPanel(cat.panels)

	var pricing entities.SolarPricing
	err = s.db.WithContext(ctx).Where("active = ?", true).Order("created_at desc").Order("id desc").First(&pricing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		cat.costPerKw = defaultCostPerKw
	case err != nil:
		return cat, fmt.Errorf("load solar pricing: %w", err)
	default:
		cat.costPerKw = numbers.Or(pricing.CostPerKw, defaultCostPerKw)
	}
	return cat, nil
}

func (s *PackageService) build(ctx context.Context, t entities.SystemPackageTemplate, quote entities.CustomerQuote, demand Demand, maxRoofKw float64, cat catalog) (Package, error) {
	log := logger.FromContext(ctx).With(zap.String("template", t.Name))

	kw := SolarKw(t, demand.Daily, maxRoofKw)
	panel := SelectPanel(cat.panels, t.Tier, cat.defaultPanel)
	panelCount := PanelCount(kw, cat.defaultPanel.Wattage())
	target := BatteryTarget(t, demand)
	battery := SelectBattery(cat.batteries, t.Tier, target)
	inverter := SelectInverter(cat.inverters, kw)

	log.Debug("package sized",
		zap.String("solarStrategy", t.SolarSizingStrategy),
		zap.Float64("solarKw", kw),
		zap.Int("panels", panelCount),
		zap.String("batteryStrategy", t.BatterySizingStrategy),
		zap.Float64("batteryTarget", target),
		zap.Float64("batteryKwh", battery.Kwh),
		zap.Int("batteryCount", battery.Count),
	)

	multiplier := decimal.NewFromFloat(t.PriceMultiplier)
	var solarCost, solarInstall, batteryCost, batteryInstall, inverterCost, inverterInstall decimal.Decimal

	if panel.Offer != nil {
		c, err := products_module.ProductCost(panel, float64(panelCount))
		if err != nil {
			return Package{}, err
		}
		solarCost, solarInstall = c.Product.Mul(multiplier), c.Installation
	} else {
		log.Warn("panel has no supplier offer, using per kW pricing", zap.Uint("productId", panel.ID))
		solarCost = decimal.NewFromFloat(kw).Mul(decimal.NewFromFloat(cat.costPerKw)).Mul(multiplier)
	}
	if battery.Product != nil && battery.Product.Offer != nil {
		c, err := products_module.ProductCost(*battery.Product, float64(battery.Count))
		if err != nil {
			return Package{}, err
		}
		batteryCost, batteryInstall = c.Product.Mul(multiplier), c.Installation
	}
	if inverter != nil && inverter.Offer != nil {
		c, err := products_module.ProductCost(*inverter, 1)
		if err != nil {
			return Package{}, err
		}
		inverterCost, inverterInstall = c.Product.Mul(multiplier), c.Installation
	}

	installation := decimal.Sum(solarInstall, batteryInstall, inverterInstall)
	totalBefore := decimal.Sum(solarCost, batteryCost, inverterCost, installation)

	rebates, err := s.rebates.Calculate(ctx, rebates_module.RebateRequest{
		SystemKw:   kw,
		BatteryKwh: battery.Kwh,
		Region:     s.region,
		Postcode:   quote.Postcode,
	})
	if err != nil {
		return Package{}, err
	}
	totalAfter := totalBefore.Sub(rebates.Total)

	savings := EstimateSavings(kw, demand.Daily)
	payback := 0.0
	if savings.Annual > 0 {
		payback = totalAfter.InexactFloat64() / savings.Annual
	}

	panelID := panel.ID
	p := Package{
		TemplateID:     t.ID,
		Name:           t.Name,
		DisplayName:    t.DisplayName,
		Description:    t.Description,
		Tier:           t.Tier,
		Badge:          t.Badge,
		HighlightColor: t.HighlightColor,
		Features:       t.Features,

		SolarKw:        kw,
		PanelCount:     panelCount,
		PanelWattage:   cat.defaultPanel.Wattage(),
		PanelBrand:     panel.Manufacturer,
		PanelModel:     panel.Name,
		PanelProductID: &panelID,
		BatteryKwh:     battery.Kwh,
		BatteryCount:   battery.Count,

		DailyGeneration:      numbers.Round1(savings.DailyGeneration),
		DailySelfConsumption: numbers.Round1(savings.DailySelfConsumption),
		DailyExport:          numbers.Round1(savings.DailyExport),
		CoveragePercent:      numbers.Round(savings.DailySelfConsumption / demand.Daily * 100),

		SolarCost:        numbers.Dollars(solarCost),
		BatteryCost:      numbers.Dollars(batteryCost),
		InverterCost:     numbers.Dollars(inverterCost),
		InstallationCost: numbers.Dollars(installation),
		InstallationBreakdown: InstallationCosts{
			Panel:    numbers.Dollars(solarInstall),
			Battery:  numbers.Dollars(batteryInstall),
			Inverter: numbers.Dollars(inverterInstall),
		},
		TotalBeforeRebates:   numbers.Dollars(totalBefore),
		FederalSolarRebate:   numbers.Dollars(rebates.FederalSolar),
		FederalBatteryRebate: numbers.Dollars(rebates.FederalBattery),
		StateBatteryRebate:   numbers.Dollars(rebates.StateBattery),
		TotalRebates:         numbers.Dollars(rebates.Total),
		TotalAfterRebates:    numbers.Dollars(totalAfter),

		AnnualSavings: numbers.Round(savings.Annual),
		PaybackYears:  numbers.Round1(payback),
		Year10Savings: numbers.Round(savings.Annual * 10),
		Year25Savings: numbers.Round(savings.Annual * 25),

		IncludeMonitoring:  t.IncludeMonitoring,
		IncludeWarranty:    t.IncludeWarranty,
		IncludeMaintenance: t.IncludeMaintenance,
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	if b := battery.Product; b != nil {
		id, brand, model, capacity := b.ID, b.Manufacturer, b.Name, b.Capacity()
		p.BatteryProductID, p.BatteryBrand, p.BatteryModel, p.BatteryUnitCapacity = &id, &brand, &model, &capacity
	}
	if inverter != nil {
		id, brand, model, capacity := inverter.ID, inverter.Manufacturer, inverter.Name, inverter.Capacity()
		p.InverterProductID, p.InverterBrand, p.InverterModel, p.InverterCapacity = &id, &brand, &model, &capacity
	}
	return p, nil
}

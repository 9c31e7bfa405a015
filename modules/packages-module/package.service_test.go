package packages_module

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"solarhub/commons/cache"
	"solarhub/commons/enums"
	"solarhub/database"
	"solarhub/database/dbtest"
	"solarhub/database/entities"
	energy_module "solarhub/modules/energy-module"
	products_module "solarhub/modules/products-module"
	rebates_module "solarhub/modules/rebates-module"
)

type memCache struct {
	items map[string][]byte
}

func newMemCache() *memCache { return &memCache{items: map[string][]byte{}} }

func (m *memCache) Get(_ context.Context, key string, dest any) (bool, error) {
	raw, ok := m.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.items[key] = raw
	return nil
}

func (m *memCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.items, k)
	}
	return nil
}

func (m *memCache) DeletePrefix(_ context.Context, prefix string) error {
	for k := range m.items {
		if strings.HasPrefix(k, prefix) {
			delete(m.items, k)
		}
	}
	return nil
}

const testSession = "session-1"

type fixture struct {
	db       *gorm.DB
	cache    *memCache
	packages *PackageService
	quotes   *QuoteService
}

func newServices(t *testing.T, db *gorm.DB, c cache.Cache) (*PackageService, *QuoteService) {
	t.Helper()
	zones := rebates_module.NewZoneService(db)
	packages := NewPackageService(db, products_module.NewProductService(db), rebates_module.NewRebateService(db, zones, "WA"), c, time.Minute, "WA")
	consumption := energy_module.NewConsumptionService(db, "WA", energy_module.NewTimeOfUseService(db, "WA"))
	return packages, NewQuoteService(db, consumption, packages)
}

// newFixture seeds the default templates and pricing, one 440 W panel with per-panel labor,
// one 13.5 kWh battery and three inverters.
func newFixture(t *testing.T) fixture {
	t.Helper()
	db := dbtest.New(t)
	require.NoError(t, database.Seed(db, "WA", zap.NewNop()))

	supplier := entities.Supplier{Name: "Solar Wholesale"}
	require.NoError(t, db.Create(&supplier).Error)
	labor := entities.LaborType{Name: "Panel installation", Code: "PANEL_INSTALL", BaseRate: 100, PerUnitRate: ptr(20.0)}
	require.NoError(t, db.Create(&labor).Error)

	addProduct := func(p entities.Product, unitCost float64) entities.Product {
		p.IsAvailable = true
		require.NoError(t, db.Create(&p).Error)
		require.NoError(t, db.Create(&entities.SupplierProduct{ProductID: p.ID, SupplierID: supplier.ID, UnitCost: unitCost, IsActive: true}).Error)
		return p
	}

	panel := addProduct(entities.Product{
		ProductType: enums.PRODUCT_PANEL, Name: "Aiko 440", Manufacturer: "Aiko", Tier: enums.TIER_MID, IsRecommended: true,
		Specifications: entities.ProductSpecifications{Wattage: 440},
	}, 200)
	require.NoError(t, db.Create(&entities.ProductInstallationRequirement{
		ProductID: panel.ID, LaborTypeID: labor.ID, IsRequired: true, QuantityMultiplier: 1,
	}).Error)
	addProduct(entities.Product{
		ProductType: enums.PRODUCT_BATTERY, Name: "Powerwall 3", Manufacturer: "Tesla", Tier: enums.TIER_MID,
		Specifications: entities.ProductSpecifications{CapacityKwh: 13.5},
	}, 8000)
	for i, inv := range []struct {
		name string
		kw   float64
		cost float64
	}{{"Fronius 5", 5, 1200}, {"Fronius 6.5", 6.5, 1500}, {"Fronius 15", 15, 3000}} {
		addProduct(entities.Product{
			ProductType: enums.PRODUCT_INVERTER, Name: inv.name, Manufacturer: "Fronius", SortOrder: i,
			Specifications: entities.ProductSpecifications{CapacityKw: inv.kw},
		}, inv.cost)
	}

	require.NoError(t, db.Create(&entities.CustomerQuote{SessionID: testSession, Postcode: "6000", HouseholdSize: 4, DailyConsumption: 25}).Error)
	require.NoError(t, db.Create(&entities.RoofAnalysis{SessionID: testSession, MaxArrayPanelsCount: 30}).Error)

	c := newMemCache()
	packages, quotes := newServices(t, db, c)
	return fixture{db: db, cache: c, packages: packages, quotes: quotes}
}

func TestGenerate_DefaultTemplates(t *testing.T) {
	f := newFixture(t)

	res, err := f.packages.Generate(context.Background(), testSession)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, CustomerData{DailyConsumption: 25, MaxRoofKw: 13.2, MaxPanels: 30}, res.CustomerData)
	require.Len(t, res.Packages, 3)

	essential, balanced, independence := res.Packages[0], res.Packages[1], res.Packages[2]

	assert.Equal(t, "essential", essential.Name)
	assert.Equal(t, 5.0, essential.SolarKw)
	assert.Equal(t, 11, essential.PanelCount)
	// budget wants 9.6 kWh and falls back to the only battery there is
	assert.Equal(t, 13.5, essential.BatteryKwh)
	assert.Equal(t, 1, essential.BatteryCount)
	assert.Equal(t, "Fronius 5", *essential.InverterModel)
	assert.Equal(t, 2200.0, essential.SolarCost)
	assert.Equal(t, 8000.0, essential.BatteryCost)
	assert.Equal(t, 1200.0, essential.InverterCost)
	assert.Equal(t, 320.0, essential.InstallationCost)
	assert.Equal(t, 11720.0, essential.TotalBeforeRebates)
	assert.Equal(t, 1444.0, essential.FederalSolarRebate)
	assert.Equal(t, 4750.0, essential.FederalBatteryRebate)
	assert.Equal(t, 1755.0, essential.StateBatteryRebate)
	assert.Equal(t, 3771.0, essential.TotalAfterRebates)
	assert.Equal(t, 22.0, essential.DailyGeneration)
	assert.Equal(t, 0.0, essential.DailyExport)
	assert.Equal(t, 88.0, essential.CoveragePercent)
	assert.Equal(t, 2570.0, essential.AnnualSavings)
	assert.Equal(t, 1.5, essential.PaybackYears)
	assert.Equal(t, 25696.0, essential.Year10Savings)
	assert.Equal(t, 64240.0, essential.Year25Savings)

	assert.Equal(t, "balanced", balanced.Name)
	assert.Equal(t, 6.0, balanced.SolarKw)
	assert.Equal(t, 13, balanced.PanelCount)
	// 13.8 kWh target is beyond one unit
	assert.Equal(t, 2, balanced.BatteryCount)
	assert.Equal(t, 27.0, balanced.BatteryKwh)
	assert.Equal(t, 13.5, *balanced.BatteryUnitCapacity)
	assert.Equal(t, "Fronius 6.5", *balanced.InverterModel)
	assert.Equal(t, 2860.0, balanced.SolarCost)
	assert.Equal(t, 17600.0, balanced.BatteryCost)
	assert.Equal(t, 1650.0, balanced.InverterCost)
	assert.Equal(t, InstallationCosts{Panel: 360}, balanced.InstallationBreakdown)
	assert.Equal(t, 22470.0, balanced.TotalBeforeRebates)
	assert.Equal(t, 14796.0, balanced.TotalRebates)
	assert.Equal(t, 7674.0, balanced.TotalAfterRebates)
	assert.Equal(t, 26.4, balanced.DailyGeneration)
	assert.Equal(t, 1.4, balanced.DailyExport)
	assert.Equal(t, 100.0, balanced.CoveragePercent)
	assert.Equal(t, 2946.0, balanced.AnnualSavings)
	assert.Equal(t, 2.6, balanced.PaybackYears)

	assert.Equal(t, "independence", independence.Name)
	assert.Equal(t, 13.2, independence.SolarKw)
	assert.Equal(t, 30, independence.PanelCount)
	assert.Equal(t, 27.0, independence.BatteryKwh)
	assert.Equal(t, "Fronius 15", *independence.InverterModel)
	assert.Equal(t, 31950.0, independence.TotalBeforeRebates)
	assert.Equal(t, 16886.0, independence.TotalRebates)
	assert.Equal(t, 15064.0, independence.TotalAfterRebates)
	assert.Equal(t, 3524.0, independence.AnnualSavings)
	assert.Equal(t, 4.3, independence.PaybackYears)
}

func TestGenerate_CachesUntilRoofChanges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.packages.Generate(ctx, testSession)
	require.NoError(t, err)
	assert.Contains(t, f.cache.items, cacheKey(testSession))

	// a cached result survives a catalog change
	require.NoError(t, f.db.Model(&entities.SupplierProduct{}).Where("1 = 1").Update("unit_cost", 1).Error)
	cached, err := f.packages.Generate(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	_, err = f.quotes.RecordRoofAnalysis(ctx, testSession, RoofRequest{MaxArrayPanelsCount: 10})
	require.NoError(t, err)
	assert.NotContains(t, f.cache.items, cacheKey(testSession))

	fresh, err := f.packages.Generate(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, 4.4, fresh.CustomerData.MaxRoofKw)
	assert.Equal(t, 4.4, fresh.Packages[2].SolarKw)
}

func TestGenerate_DeactivatedTemplateDropsCachedTier(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.packages.Generate(ctx, testSession)
	require.NoError(t, err)
	require.Len(t, first.Packages, 3)

	templates := NewTemplateService(f.db, f.cache)
	require.NoError(t, templates.Deactivate(ctx, first.Packages[0].TemplateID))
	assert.NotContains(t, f.cache.items, cacheKey(testSession))

	fresh, err := f.packages.Generate(ctx, testSession)
	require.NoError(t, err)
	require.Len(t, fresh.Packages, 2)
	assert.Equal(t, "balanced", fresh.Packages[0].Name)
}

func TestGenerate_PanelWithoutOfferUsesPerKwPricing(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Model(&entities.SupplierProduct{}).Where("1 = 1").Update("is_active", false).Error)

	res, err := f.packages.Generate(context.Background(), testSession)
	require.NoError(t, err)

	balanced := res.Packages[1]
	// 6 kW at 1500 per kW times 1.1
	assert.Equal(t, 9900.0, balanced.SolarCost)
	assert.Equal(t, 0.0, balanced.BatteryCost)
	assert.Equal(t, 0.0, balanced.InstallationCost)
	require.NotNil(t, balanced.BatteryModel)
}

func TestGenerate_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("session required", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.packages.Generate(ctx, "")
		assert.True(t, errors.Is(err, ErrSessionRequired))
	})

	t.Run("quote not found", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.packages.Generate(ctx, "missing")
		assert.True(t, errors.Is(err, ErrQuoteNotFound))
	})

	t.Run("roof not found", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.db.Where("session_id = ?", testSession).Delete(&entities.RoofAnalysis{}).Error)
		_, err := f.packages.Generate(ctx, testSession)
		assert.True(t, errors.Is(err, ErrRoofNotFound))
	})

	t.Run("no templates", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.db.Model(&entities.SystemPackageTemplate{}).Where("1 = 1").Update("active", false).Error)
		_, err := f.packages.Generate(ctx, testSession)
		assert.True(t, errors.Is(err, ErrNoTemplates))
	})

	t.Run("no panels", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.db.Model(&entities.Product{}).Where("product_type = ?", enums.PRODUCT_PANEL).Update("is_available", false).Error)
		_, err := f.packages.Generate(ctx, testSession)
		assert.True(t, errors.Is(err, ErrNoPanels))
	})
}

func TestGenerate_DatabaseFailure(t *testing.T) {
	db, mock := dbtest.NewMock(t)
	mock.ExpectQuery(`SELECT \* FROM "customer_quotes"`).WillReturnError(errors.New("connection reset"))

	packages, _ := newServices(t, db, cache.Nop{})
	_, err := packages.Generate(context.Background(), testSession)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load quote")
	assert.NoError(t, mock.ExpectationsWereMet())
}

package products_module

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"solarhub/commons/enums"
	"solarhub/commons/logger"
	"solarhub/database/entities"
)

var ErrNoActiveSupplier = errors.New("no active supplier")

const (
	defaultPanelWattage     = 440
	defaultBatteryCapacity  = 10
	defaultInverterCapacity = 10
)

// CatalogItem is a product with its cheapest active supplier offer, if any.
type CatalogItem struct {
	entities.Product
	Offer *entities.SupplierProduct `json:"offer"`
}

func (p CatalogItem) Wattage() float64 {
	if p.Specifications.Wattage > 0 {
		return p.Specifications.Wattage
	}
	return defaultPanelWattage
}

// Capacity is kWh for batteries and kW for inverters.
func (p CatalogItem) Capacity() float64 {
	s := p.Specifications
	switch {
	case s.Capacity > 0:
		return s.Capacity
	case p.ProductType == enums.PRODUCT_BATTERY && s.CapacityKwh > 0:
		return s.CapacityKwh
	case p.ProductType == enums.PRODUCT_INVERTER && s.CapacityKw > 0:
		return s.CapacityKw
	case p.ProductType == enums.PRODUCT_INVERTER:
		return defaultInverterCapacity
	}
	return defaultBatteryCapacity
}

func (p CatalogItem) TierOrDefault() string {
	if p.Tier == "" {
		return enums.TIER_MID
	}
	return p.Tier
}

type Filter struct {
	AvailableOnly bool
	Tier          string
}

type LaborLine struct {
	LaborType string
	LaborCode string
	Units     float64
	Cost      decimal.Decimal
}

type Cost struct {
	UnitPrice    decimal.Decimal
	Quantity     float64
	Product      decimal.Decimal
	Installation decimal.Decimal
	Labor        []LaborLine
	SupplierID   uint
}

func (c Cost) Total() decimal.Decimal {
	return c.Product.Add(c.Installation)
}

// ProductCost prices qty units at the offer's retail price, or its unit cost when no retail
// price is set, and adds the labor of every required installation step.
func ProductCost(item CatalogItem, qty float64) (Cost, error) {
	offer := item.Offer
	if offer == nil {
		return Cost{}, fmt.Errorf("%w for product %d (%s)", ErrNoActiveSupplier, item.ID, item.Name)
	}
	unit := offer.UnitCost
	if offer.RetailPrice != nil && *offer.RetailPrice > 0 {
		unit = *offer.RetailPrice
	}
	unitPrice := decimal.NewFromFloat(unit)
	quantity := decimal.NewFromFloat(qty)

	cost := Cost{
		UnitPrice:    unitPrice,
		Quantity:     qty,
		Product:      unitPrice.Mul(quantity),
		Installation: decimal.Zero,
		Labor:        []LaborLine{},
		SupplierID:   offer.SupplierID,
	}
	for _, req := range item.InstallationReqs {
		if !req.IsRequired {
			continue
		}
		labor := req.LaborType
		units := decimal.NewFromFloat(qty * req.QuantityMultiplier)

		line := decimal.NewFromFloat(labor.BaseRate)
		if labor.PerUnitRate != nil && *labor.PerUnitRate != 0 {
			line = line.Add(units.Mul(decimal.NewFromFloat(*labor.PerUnitRate)))
		}
		if labor.HourlyRate != nil && labor.EstimatedHours != nil && *labor.HourlyRate != 0 && *labor.EstimatedHours != 0 {
			line = line.Add(decimal.NewFromFloat(*labor.HourlyRate * *labor.EstimatedHours).Mul(units))
		}
		line = line.Add(decimal.NewFromFloat(req.AdditionalCost))

		cost.Installation = cost.Installation.Add(line)
		cost.Labor = append(cost.Labor, LaborLine{
			LaborType: labor.Name,
			LaborCode: labor.Code,
			Units:     units.InexactFloat64(),
			Cost:      line,
		})
	}
	return cost, nil
}

type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

func (s *ProductService) withOffers(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("SupplierProducts", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("unit_cost asc").Order("id asc")
		}).
		Preload("SupplierProducts.Supplier").
		Preload("InstallationReqs.LaborType")
}

func toItem(p entities.Product) CatalogItem {
	item := CatalogItem{Product: p}
	if len(p.SupplierProducts) > 0 {
		offer := p.SupplierProducts[0]
		item.Offer = &offer
	}
	return item
}

// Catalog lists products of one type, recommended first, then by sort order and name.
func (s *ProductService) Catalog(ctx context.Context, productType string, f Filter) ([]CatalogItem, error) {
	q := s.withOffers(ctx).Where("product_type = ?", productType)
	if f.AvailableOnly {
		q = q.Where("is_available = ?", true)
	}
	if f.Tier != "" {
		q = q.Where("tier = ?", f.Tier)
	}

	var products []entities.Product
	if err := q.Order("is_recommended desc").Order("sort_order asc").Order("name asc").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("load %s catalog: %w", productType, err)
	}

	items := make([]CatalogItem, len(products))
	for i, p := range products {
		items[i] = toItem(p)
	}
	logger.FromContext(ctx).Debug("catalog loaded", zap.String("type", productType), zap.Int("count", len(items)))
	return items, nil
}

func (s *ProductService) Get(ctx context.Context, id uint) (CatalogItem, error) {
	var p entities.Product
	if err := s.withOffers(ctx).First(&p, id).Error; err != nil {
		return CatalogItem{}, fmt.Errorf("load product %d: %w", id, err)
	}
	return toItem(p), nil
}

// CalculateCost loads a product and prices qty units of it.
func (s *ProductService) CalculateCost(ctx context.Context, id uint, qty float64) (CatalogItem, Cost, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return CatalogItem{}, Cost{}, err
	}
	cost, err := ProductCost(item, qty)
	if err != nil {
		logger.FromContext(ctx).Warn("No active supplier found for product",
			zap.Uint("productId", item.ID),
			zap.String("name", item.Name),
			zap.Bool("available", item.IsAvailable),
		)
		return item, Cost{}, err
	}
	return item, cost, nil
}

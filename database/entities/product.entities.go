package entities

import "time"

// ProductSpecifications holds the type-specific attributes. Batteries have been stored with
// either capacity or capacityKwh and inverters with capacity or capacityKw.
type ProductSpecifications struct {
	Wattage        float64 `json:"wattage,omitempty"`
	Efficiency     float64 `json:"efficiency,omitempty"`
	Capacity       float64 `json:"capacity,omitempty"`
	CapacityKwh    float64 `json:"capacityKwh,omitempty"`
	CapacityKw     float64 `json:"capacityKw,omitempty"`
	UsableCapacity float64 `json:"usableCapacity,omitempty"`
	Phases         int     `json:"phases,omitempty"`
	HasOptimizers  bool    `json:"hasOptimizers,omitempty"`
}

type Product struct {
	ID             uint                  `gorm:"column:id;primaryKey" json:"id"`
	ProductType    string                `gorm:"column:product_type;type:varchar(20);index;not null" json:"productType"`
	Sku            string                `gorm:"column:sku;type:varchar(100)" json:"sku,omitempty"`
	Name           string                `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Manufacturer   string                `gorm:"column:manufacturer;type:varchar(255)" json:"manufacturer"`
	Tier           string                `gorm:"column:tier;type:varchar(20)" json:"tier"`
	IsAvailable    bool                  `gorm:"column:is_available;index;not null" json:"isAvailable"`
	IsRecommended  bool                  `gorm:"column:is_recommended;not null" json:"isRecommended"`
	SortOrder      int                   `gorm:"column:sort_order;not null" json:"sortOrder"`
	WarrantyYears  int                   `gorm:"column:warranty_years" json:"warrantyYears"`
	Specifications ProductSpecifications `gorm:"column:specifications;type:text;serializer:json" json:"specifications"`
	CreatedAt      time.Time             `gorm:"column:created_at;type:timestamp;default:current_timestamp;not null" json:"createdAt"`
	UpdatedAt      time.Time             `gorm:"column:updated_at;type:timestamp;default:current_timestamp;not null" json:"updatedAt"`

	SupplierProducts []SupplierProduct                `gorm:"foreignKey:ProductID" json:"supplierProducts,omitempty"`
	InstallationReqs []ProductInstallationRequirement `gorm:"foreignKey:ProductID" json:"installationReqs,omitempty"`
}

type Supplier struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(255);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp;not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp;not null" json:"updatedAt"`
}

type SupplierProduct struct {
	ID            uint      `gorm:"column:id;primaryKey" json:"id"`
	ProductID     uint      `gorm:"column:product_id;index;not null" json:"productId"`
	SupplierID    uint      `gorm:"column:supplier_id;index;not null" json:"supplierId"`
	Sku           string    `gorm:"column:sku;type:varchar(100)" json:"sku,omitempty"`
	UnitCost      float64   `gorm:"column:unit_cost;not null" json:"unitCost"`
	RetailPrice   *float64  `gorm:"column:retail_price" json:"retailPrice,omitempty"`
	MarkupPercent float64   `gorm:"column:markup_percent" json:"markupPercent"`
	IsActive      bool      `gorm:"column:is_active;index;not null" json:"isActive"`
	CreatedAt     time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp;not null" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp;not null" json:"updatedAt"`

	Supplier Supplier `gorm:"foreignKey:SupplierID" json:"supplier"`
}

type LaborType struct {
	ID             uint      `gorm:"column:id;primaryKey" json:"id"`
	Name           string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Code           string    `gorm:"column:code;type:varchar(50);uniqueIndex;not null" json:"code"`
	BaseRate       float64   `gorm:"column:base_rate;not null" json:"baseRate"`
	PerUnitRate    *float64  `gorm:"column:per_unit_rate" json:"perUnitRate,omitempty"`
	HourlyRate     *float64  `gorm:"column:hourly_rate" json:"hourlyRate,omitempty"`
	EstimatedHours *float64  `gorm:"column:estimated_hours" json:"estimatedHours,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp;not null" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp;not null" json:"updatedAt"`
}

type ProductInstallationRequirement struct {
	ID                 uint      `gorm:"column:id;primaryKey" json:"id"`
	ProductID          uint      `gorm:"column:product_id;index;not null" json:"productId"`
	LaborTypeID        uint      `gorm:"column:labor_type_id;index;not null" json:"laborTypeId"`
	IsRequired         bool      `gorm:"column:is_required;not null" json:"isRequired"`
	QuantityMultiplier float64   `gorm:"column:quantity_multiplier;not null" json:"quantityMultiplier"`
	AdditionalCost     float64   `gorm:"column:additional_cost;not null" json:"additionalCost"`
	CreatedAt          time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp;not null" json:"createdAt"`

	LaborType LaborType `gorm:"foreignKey:LaborTypeID" json:"laborType"`
}

type SolarPricing struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	CostPerKw float64   `gorm:"column:cost_per_kw;not null" json:"costPerKw"`
	Active    bool      `gorm:"column:active;index;not null" json:"active"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp;index;not null" json:"createdAt"`
}

package entities

import "time"

type SystemPackageTemplate struct {
	ID                    uint      `gorm:"column:id;primaryKey" json:"id"`
	Name                  string    `gorm:"column:name;type:varchar(100);uniqueIndex;not null" json:"name" validate:"required,max=100"`
	DisplayName           string    `gorm:"column:display_name;type:varchar(255);not null" json:"displayName" validate:"required"`
	Description           string    `gorm:"column:description;type:text" json:"description"`
	Tier                  string    `gorm:"column:tier;type:varchar(20);not null" json:"tier" validate:"required,oneof=budget mid premium"`
	Badge                 string    `gorm:"column:badge;type:varchar(50)" json:"badge,omitempty"`
	HighlightColor        string    `gorm:"column:highlight_color;type:varchar(20)" json:"highlightColor,omitempty"`
	Features              []string  `gorm:"column:features;type:text;serializer:json" json:"features"`
	SolarSizingStrategy   string    `gorm:"column:solar_sizing_strategy;type:varchar(50);not null" json:"solarSizingStrategy" validate:"required"`
	SolarCoveragePercent  *float64  `gorm:"column:solar_coverage_percent" json:"solarCoveragePercent,omitempty" validate:"omitempty,gt=0"`
	SolarFixedKw          *float64  `gorm:"column:solar_fixed_kw" json:"solarFixedKw,omitempty" validate:"omitempty,gt=0"`
	BatterySizingStrategy string    `gorm:"column:battery_sizing_strategy;type:varchar(50);not null" json:"batterySizingStrategy" validate:"required"`
	BatteryFixedKwh       *float64  `gorm:"column:battery_fixed_kwh" json:"batteryFixedKwh,omitempty" validate:"omitempty,gt=0"`
	BatteryCoverageHours  *float64  `gorm:"column:battery_coverage_hours" json:"batteryCoverageHours,omitempty" validate:"omitempty,gt=0,lte=24"`
	PriceMultiplier       float64   `gorm:"column:price_multiplier;not null" json:"priceMultiplier" validate:"gt=0"`
	IncludeMonitoring     bool      `gorm:"column:include_monitoring;not null" json:"includeMonitoring"`
	IncludeWarranty       bool      `gorm:"column:include_warranty;not null" json:"includeWarranty"`
	IncludeMaintenance    bool      `gorm:"column:include_maintenance;not null" json:"includeMaintenance"`
	Active                bool      `gorm:"column:active;index;not null" json:"active"`
	SortOrder             int       `gorm:"column:sort_order;not null" json:"sortOrder"`
	CreatedAt             time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp;not null" json:"createdAt"`
	UpdatedAt             time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp;not null" json:"updatedAt"`
}

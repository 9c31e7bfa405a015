package entities

import "time"

// ConsumptionAssumption is one coefficient row. Which value column is meaningful depends on
// AssumptionType.
type ConsumptionAssumption struct {
	ID                    uint      `gorm:"column:id;primaryKey" json:"id"`
	Region                string    `gorm:"column:region;type:varchar(10);index;not null" json:"region"`
	AssumptionType        string    `gorm:"column:assumption_type;type:varchar(50);index;not null" json:"assumptionType"`
	HouseholdSize         *int      `gorm:"column:household_size" json:"householdSize,omitempty"`
	BaselineKwhPerDay     *float64  `gorm:"column:baseline_kwh_per_day" json:"baselineKwhPerDay,omitempty"`
	AcTier                *string   `gorm:"column:ac_tier;type:varchar(20)" json:"acTier,omitempty"`
	AcAdjustmentKwhPerDay *float64  `gorm:"column:ac_adjustment_kwh_per_day" json:"acAdjustmentKwhPerDay,omitempty"`
	PoolType              *string   `gorm:"column:pool_type;type:varchar(20)" json:"poolType,omitempty"`
	PoolKwhPerDay         *float64  `gorm:"column:pool_kwh_per_day" json:"poolKwhPerDay,omitempty"`
	EvTier                *string   `gorm:"column:ev_tier;type:varchar(20)" json:"evTier,omitempty"`
	EvKwhPerDay           *float64  `gorm:"column:ev_kwh_per_day" json:"evKwhPerDay,omitempty"`
	HotWaterKwhPerDay     *float64  `gorm:"column:hot_water_kwh_per_day" json:"hotWaterKwhPerDay,omitempty"`
	CookingKwhPerDay      *float64  `gorm:"column:cooking_kwh_per_day" json:"cookingKwhPerDay,omitempty"`
	HomeOfficeKwhPerDay   *float64  `gorm:"column:home_office_kwh_per_day" json:"homeOfficeKwhPerDay,omitempty"`
	Active                bool      `gorm:"column:active;index;not null" json:"active"`
	CreatedAt             time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp;not null" json:"createdAt"`
	UpdatedAt             time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp;not null" json:"updatedAt"`
}

type TimeOfUsePattern struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	Region    string    `gorm:"column:region;type:varchar(10);index;not null" json:"region"`
	Daytime   float64   `gorm:"column:daytime;not null" json:"daytime"`
	Evening   float64   `gorm:"column:evening;not null" json:"evening"`
	Night     float64   `gorm:"column:night;not null" json:"night"`
	Active    bool      `gorm:"column:active;index;not null" json:"active"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp;index;not null" json:"createdAt"`
}

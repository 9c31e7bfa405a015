package entities

import "time"

// EnergyProfile is the per-session snapshot of how the customer uses energy. Nil fields
// mean the value was never captured, which the package generator treats differently from zero.
type EnergyProfile struct {
	TimeOfUse *TimeOfUseProfile `json:"timeOfUse,omitempty"`
	Breakdown *UsageBreakdown   `json:"breakdown,omitempty"`
}

type TimeOfUseProfile struct {
	Daytime     *float64 `json:"daytime,omitempty"`
	Evening     *float64 `json:"evening,omitempty"`
	EveningPeak *float64 `json:"eveningPeak,omitempty"`
	Night       *float64 `json:"night,omitempty"`
}

type UsageBreakdown struct {
	Baseline   float64 `json:"baseline"`
	Ev         float64 `json:"ev"`
	EvCharging float64 `json:"evCharging,omitempty"`
	Pool       float64 `json:"pool"`
	Office     float64 `json:"office"`
}

type CustomerQuote struct {
	ID                  uint           `gorm:"column:id;primaryKey" json:"id"`
	SessionID           string         `gorm:"column:session_id;type:varchar(64);uniqueIndex;not null" json:"sessionId"`
	Postcode            string         `gorm:"column:postcode;type:varchar(10)" json:"postcode"`
	HouseholdSize       int            `gorm:"column:household_size;not null" json:"householdSize"`
	HasEv               bool           `gorm:"column:has_ev;not null" json:"hasEv"`
	PlanningEv          bool           `gorm:"column:planning_ev;not null" json:"planningEv"`
	EvCount             int            `gorm:"column:ev_count;not null" json:"evCount"`
	EvChargingMethod    string         `gorm:"column:ev_charging_method;type:varchar(50)" json:"evChargingMethod,omitempty"`
	EvChargingHours     float64        `gorm:"column:ev_charging_hours" json:"evChargingHours,omitempty"`
	EvChargingTime      string         `gorm:"column:ev_charging_time;type:varchar(50)" json:"evChargingTime,omitempty"`
	HasPool             bool           `gorm:"column:has_pool;not null" json:"hasPool"`
	PoolHeated          bool           `gorm:"column:pool_heated;not null" json:"poolHeated"`
	HomeOfficeCount     int            `gorm:"column:home_office_count;not null" json:"homeOfficeCount"`
	AcUsage             string         `gorm:"column:ac_usage;type:varchar(50)" json:"acUsage,omitempty"`
	HasElectricHotWater bool           `gorm:"column:has_electric_hot_water;not null" json:"hasElectricHotWater"`
	BimonthlyBill       float64        `gorm:"column:bimonthly_bill" json:"bimonthlyBill,omitempty"`
	DailyConsumption    float64        `gorm:"column:daily_consumption" json:"dailyConsumption"`
	DailyUsage          float64        `gorm:"column:daily_usage" json:"dailyUsage"`
	EnergyProfile       *EnergyProfile `gorm:"column:energy_profile;type:text;serializer:json" json:"energyProfile,omitempty"`
	CreatedAt           time.Time      `gorm:"column:created_at;type:timestamp;default:current_timestamp;not null" json:"createdAt"`
	UpdatedAt           time.Time      `gorm:"column:updated_at;type:timestamp;default:current_timestamp;not null" json:"updatedAt"`
}

type RoofAnalysis struct {
	ID                  uint      `gorm:"column:id;primaryKey" json:"id"`
	SessionID           string    `gorm:"column:session_id;type:varchar(64);index;not null" json:"sessionId"`
	MaxArrayPanelsCount int       `gorm:"column:max_array_panels_count" json:"maxArrayPanelsCount"`
	RoofAreaM2          float64   `gorm:"column:roof_area_m2" json:"roofAreaM2,omitempty"`
	SunshineHoursYear   float64   `gorm:"column:sunshine_hours_year" json:"sunshineHoursYear,omitempty"`
	CreatedAt           time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp;index;not null" json:"createdAt"`
}

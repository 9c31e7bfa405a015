package entities

import "time"

type RebateConfig struct {
	ID              uint      `gorm:"column:id;primaryKey" json:"id"`
	Region          string    `gorm:"column:region;type:varchar(10);index;not null" json:"region"`
	Name            string    `gorm:"column:name;type:varchar(255)" json:"name"`
	Category        string    `gorm:"column:category;type:varchar(50);not null" json:"category"`
	CalculationType string    `gorm:"column:calculation_type;type:varchar(50);not null" json:"calculationType"`
	StcPrice        float64   `gorm:"column:stc_price" json:"stcPrice"`
	DeemingYears    float64   `gorm:"column:deeming_years" json:"deemingYears"`
	StcPerKwh       float64   `gorm:"column:stc_per_kwh" json:"stcPerKwh"`
	RatePerKwh      float64   `gorm:"column:rate_per_kwh" json:"ratePerKwh"`
	FixedAmount     float64   `gorm:"column:fixed_amount" json:"fixedAmount"`
	MaxAmount       float64   `gorm:"column:max_amount" json:"maxAmount"`
	MinKwh          float64   `gorm:"column:min_kwh" json:"minKwh"`
	MaxEligibleKwh  float64   `gorm:"column:max_eligible_kwh" json:"maxEligibleKwh"`
	Active          bool      `gorm:"column:active;index;not null" json:"active"`
	CreatedAt       time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp;not null" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp;not null" json:"updatedAt"`
}

type PostcodeZoneRating struct {
	ID            uint      `gorm:"column:id;primaryKey" json:"id"`
	Code          string    `gorm:"column:code;type:varchar(50);uniqueIndex;not null" json:"code"`
	PostcodeStart int       `gorm:"column:postcode_start;index;not null" json:"postcodeStart"`
	PostcodeEnd   int       `gorm:"column:postcode_end;index;not null" json:"postcodeEnd"`
	Zone          int       `gorm:"column:zone;not null" json:"zone"`
	ZoneRating    float64   `gorm:"column:zone_rating;not null" json:"zoneRating"`
	State         string    `gorm:"column:state;type:varchar(10)" json:"state"`
	Description   string    `gorm:"column:description;type:varchar(255)" json:"description"`
	CreatedAt     time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp;not null" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp;not null" json:"updatedAt"`
}

package entities

import "time"

type InstallationPricing struct {
	ID                   uint      `gorm:"column:id;primaryKey" json:"id"`
	Region               string    `gorm:"column:region;type:varchar(10);index;not null" json:"region"`
	BaseCalloutFee       float64   `gorm:"column:base_callout_fee;not null" json:"baseCalloutFee"`
	PanelInstallPerUnit  float64   `gorm:"column:panel_install_per_unit;not null" json:"panelInstallPerUnit"`
	AvgRailingPerKw      float64   `gorm:"column:avg_railing_per_kw;not null" json:"avgRailingPerKw"`
	RailingPerMeter      float64   `gorm:"column:railing_per_meter;not null" json:"railingPerMeter"`
	InverterInstall      float64   `gorm:"column:inverter_install;not null" json:"inverterInstall"`
	BatteryInstallBase   float64   `gorm:"column:battery_install_base;not null" json:"batteryInstallBase"`
	BatteryInstallPerKwh float64   `gorm:"column:battery_install_per_kwh;not null" json:"batteryInstallPerKwh"`
	AvgCablingPerKw      float64   `gorm:"column:avg_cabling_per_kw;not null" json:"avgCablingPerKw"`
	CablingPerMeter      float64   `gorm:"column:cabling_per_meter;not null" json:"cablingPerMeter"`
	CommissioningFee     float64   `gorm:"column:commissioning_fee;not null" json:"commissioningFee"`
	TileRoofMultiplier   float64   `gorm:"column:tile_roof_multiplier;not null" json:"tileRoofMultiplier"`
	MetalRoofMultiplier  float64   `gorm:"column:metal_roof_multiplier;not null" json:"metalRoofMultiplier"`
	FlatRoofMultiplier   float64   `gorm:"column:flat_roof_multiplier;not null" json:"flatRoofMultiplier"`
	TwoStoryMultiplier   float64   `gorm:"column:two_story_multiplier;not null" json:"twoStoryMultiplier"`
	DifficultAccessMult  float64   `gorm:"column:difficult_access_mult;not null" json:"difficultAccessMult"`
	ScaffoldingRequired  float64   `gorm:"column:scaffolding_required;not null" json:"scaffoldingRequired"`
	AsbestosRemoval      float64   `gorm:"column:asbestos_removal;not null" json:"asbestosRemoval"`
	Active               bool      `gorm:"column:active;index;not null" json:"active"`
	CreatedAt            time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp;index;not null" json:"createdAt"`
	UpdatedAt            time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp;not null" json:"updatedAt"`
}

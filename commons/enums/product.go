package enums

const (
	PRODUCT_PANEL    = "PANEL"
	PRODUCT_BATTERY  = "BATTERY"
	PRODUCT_INVERTER = "INVERTER"
)

const (
	TIER_BUDGET  = "budget"
	TIER_MID     = "mid"
	TIER_PREMIUM = "premium"
)

package enums

const (
	REBATE_FEDERAL_SOLAR   = "federal_solar"
	REBATE_FEDERAL_BATTERY = "federal_battery"
	REBATE_STATE_BATTERY   = "state_battery"
)

const (
	CALC_STC_SOLAR   = "stc_solar"
	CALC_STC_BATTERY = "stc_battery"
	CALC_PER_KWH     = "per_kwh"
	CALC_FIXED       = "fixed"
)

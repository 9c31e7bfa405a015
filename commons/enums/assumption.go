package enums

const (
	ASSUMPTION_BASELINE    = "baseline"
	ASSUMPTION_AC          = "ac"
	ASSUMPTION_POOL        = "pool"
	ASSUMPTION_EV          = "ev"
	ASSUMPTION_EV_CHARGING = "ev_charging"
	ASSUMPTION_HOT_WATER   = "hotwater"
	ASSUMPTION_COOKING     = "cooking"
	ASSUMPTION_OFFICE      = "office"
)

const (
	CHARGING_MORNING = "morning"
	CHARGING_MIDDAY  = "midday"
	CHARGING_EVENING = "evening"
	CHARGING_NIGHT   = "night"
)

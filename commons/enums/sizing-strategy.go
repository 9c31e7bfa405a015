package enums

// Solar sizing strategies of a package template.
const (
	SOLAR_COVERAGE_PERCENTAGE = "coverage_percentage"
	SOLAR_FIXED_KW            = "fixed_kw"
	SOLAR_MAX_ROOF            = "max_roof"
)

// Battery sizing strategies of a package template.
const (
	BATTERY_NONE               = "none"
	BATTERY_FIXED_KWH          = "fixed_kwh"
	BATTERY_DYNAMIC_MULTIPLIER = "dynamic_multiplier"
	BATTERY_COVERAGE_HOURS     = "coverage_hours"
	BATTERY_FULL_OVERNIGHT     = "full_overnight"
)

func IsSolarStrategy(s string) bool {
	switch s {
	case SOLAR_COVERAGE_PERCENTAGE, SOLAR_FIXED_KW, SOLAR_MAX_ROOF:
		return true
	}
	return false
}

func IsBatteryStrategy(s string) bool {
	switch s {
	case BATTERY_NONE, BATTERY_FIXED_KWH, BATTERY_DYNAMIC_MULTIPLIER, BATTERY_COVERAGE_HOURS, BATTERY_FULL_OVERNIGHT:
		return true
	}
	return false
}

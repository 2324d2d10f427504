package plans

import (
	"os"
	"strconv"
)

// Tier is the user's subscription level.
type Tier string

const (
	Free  Tier = "free"
	Basic Tier = "basic"
	Pro   Tier = "pro"
)

// Defaults; overridable per tier through *_PLAN_TRIPS_LIMIT env vars.
const (
	defaultFreeLimit  = 1
	defaultBasicLimit = 10
	defaultProLimit   = 999 // effectively unlimited
)

// Monthly prices in cents, used by upgrade messaging and checkout.
var Prices = map[Tier]int{
	Free:  0,
	Basic: 1900,
	Pro:   4900,
}

// Valid reports whether s names a known tier.
func Valid(s string) bool {
	switch Tier(s) {
	case Free, Basic, Pro:
		return true
	}
	return false
}

// TripsPerMonth returns the monthly trip allowance for a tier.
// Unknown tiers fall back to the free allowance.
func TripsPerMonth(t Tier) int {
	switch t {
	case Pro:
		return envLimit("PRO_PLAN_TRIPS_LIMIT", defaultProLimit)
	case Basic:
		return envLimit("BASIC_PLAN_TRIPS_LIMIT", defaultBasicLimit)
	default:
		return envLimit("FREE_PLAN_TRIPS_LIMIT", defaultFreeLimit)
	}
}

func envLimit(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

package plans

import "testing"

func TestTripsPerMonth_Defaults(t *testing.T) {
	cases := map[Tier]int{Free: 1, Basic: 10, Pro: 999}
	for tier, want := range cases {
		if got := TripsPerMonth(tier); got != want {
			t.Errorf("TripsPerMonth(%s) = %d, want %d", tier, got, want)
		}
	}
}

func TestTripsPerMonth_UnknownTierGetsFreeAllowance(t *testing.T) {
	if got := TripsPerMonth(Tier("enterprise")); got != 1 {
		t.Fatalf("got %d", got)
	}
}

func TestTripsPerMonth_EnvOverride(t *testing.T) {
	t.Setenv("BASIC_PLAN_TRIPS_LIMIT", "25")
	if got := TripsPerMonth(Basic); got != 25 {
		t.Fatalf("got %d", got)
	}
}

func TestTripsPerMonth_IgnoresInvalidOverride(t *testing.T) {
	t.Setenv("PRO_PLAN_TRIPS_LIMIT", "-3")
	if got := TripsPerMonth(Pro); got != 999 {
		t.Fatalf("got %d", got)
	}
}

func TestValid(t *testing.T) {
	for _, s := range []string{"free", "basic", "pro"} {
		if !Valid(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	if Valid("platinum") {
		t.Error("platinum accepted")
	}
}

func TestPrices(t *testing.T) {
	if Prices[Free] != 0 || Prices[Basic] != 1900 || Prices[Pro] != 4900 {
		t.Fatalf("unexpected prices: %v", Prices)
	}
}

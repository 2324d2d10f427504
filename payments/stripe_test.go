package payments

import (
	"testing"

	stripe "github.com/stripe/stripe-go/v78"

	"travelbot-backend/plans"
)

func subWithPrice(priceID string) *stripe.Subscription {
	return &stripe.Subscription{
		Items: &stripe.SubscriptionItemList{
			Data: []*stripe.SubscriptionItem{{Price: &stripe.Price{ID: priceID}}},
		},
	}
}

func TestTierForSubscription_MetadataWins(t *testing.T) {
	sub := subWithPrice("price_basic_monthly")
	sub.Metadata = map[string]string{"plan": "pro"}
	if got := tierForSubscription(sub); got != plans.Pro {
		t.Fatalf("got %s", got)
	}
}

func TestTierForSubscription_MapsConfiguredPriceIDs(t *testing.T) {
	t.Setenv("STRIPE_PRO_PRICE_ID", "price_live_123")
	if got := tierForSubscription(subWithPrice("price_live_123")); got != plans.Pro {
		t.Fatalf("got %s", got)
	}
}

func TestTierForSubscription_FallsBackToNameHeuristic(t *testing.T) {
	if got := tierForSubscription(subWithPrice("price_something_pro_v2")); got != plans.Pro {
		t.Fatalf("got %s", got)
	}
	if got := tierForSubscription(subWithPrice("price_basic_legacy")); got != plans.Basic {
		t.Fatalf("got %s", got)
	}
}

func TestTierForSubscription_UnknownIsFree(t *testing.T) {
	if got := tierForSubscription(subWithPrice("price_mystery")); got != plans.Free {
		t.Fatalf("got %s", got)
	}
}

func TestPriceIDForPlan(t *testing.T) {
	t.Setenv("STRIPE_BASIC_PRICE_ID", "price_b")
	t.Setenv("STRIPE_PRO_PRICE_ID", "price_p")
	if got := priceIDForPlan("basic"); got != "price_b" {
		t.Fatalf("got %s", got)
	}
	if got := priceIDForPlan("pro"); got != "price_p" {
		t.Fatalf("got %s", got)
	}
}

func TestNewFromEnv_DisabledWithoutKey(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "")
	if svc := NewFromEnv(nil); svc != nil {
		t.Fatal("expected nil service without a key")
	}
}

package payments

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"

	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"github.com/stripe/stripe-go/v78/webhook"

	"travelbot-backend/plans"
	"travelbot-backend/users"
)

// Service wraps the Stripe client used for plan subscriptions. When
// STRIPE_SECRET_KEY is missing the service is nil and the payment
// endpoints report 503.
type Service struct {
	users         *users.Repository
	secretKey     string
	webhookSecret string
	sc            *client.API
}

var (
	ErrNotConfigured  = errors.New("stripe not configured")
	ErrNoSubscription = errors.New("user has no active subscription")
)

// NewFromEnv returns a configured service, or nil without credentials.
func NewFromEnv(userRepo *users.Repository) *Service {
	key := os.Getenv("STRIPE_SECRET_KEY")
	if key == "" {
		return nil
	}
	sc := &client.API{}
	sc.Init(key, nil)
	return &Service{
		users:         userRepo,
		secretKey:     key,
		webhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		sc:            sc,
	}
}

// CreateSubscription ensures a Stripe customer for the user and opens
// an incomplete subscription on the requested plan; the caller
// completes payment client-side with the returned client secret.
func (s *Service) CreateSubscription(userID, plan string) (subscriptionID, clientSecret string, err error) {
	if s == nil {
		return "", "", ErrNotConfigured
	}
	u, err := s.users.GetByID(userID)
	if err != nil {
		return "", "", err
	}
	if u == nil {
		return "", "", errors.New("user not found")
	}

	customerID := u.StripeCustomerID
	if customerID == "" {
		cp := &stripe.CustomerParams{}
		cp.AddMetadata("user_id", u.ID)
		cust, err := s.sc.Customers.New(cp)
		if err != nil {
			return "", "", err
		}
		customerID = cust.ID
		if err := s.users.SetStripeCustomerID(u.ID, customerID); err != nil {
			return "", "", err
		}
	}

	priceID := priceIDForPlan(plan)
	sp := &stripe.SubscriptionParams{
		Customer:        stripe.String(customerID),
		Items:           []*stripe.SubscriptionItemsParams{{Price: stripe.String(priceID)}},
		PaymentBehavior: stripe.String("default_incomplete"),
	}
	sp.AddMetadata("user_id", u.ID)
	sp.AddMetadata("plan", plan)
	sp.AddExpand("latest_invoice.payment_intent")

	sub, err := s.sc.Subscriptions.New(sp)
	if err != nil {
		log.Printf("[payments][subscribe_failed] user_id=%s plan=%s err=%v", userID, plan, err)
		return "", "", err
	}
	secret := ""
	if sub.LatestInvoice != nil && sub.LatestInvoice.PaymentIntent != nil {
		secret = sub.LatestInvoice.PaymentIntent.ClientSecret
	}
	return sub.ID, secret, nil
}

// HandleWebhook verifies the Stripe signature and applies
// subscription lifecycle events to the user's plan.
func (s *Service) HandleWebhook(payload []byte, signature string) error {
	if s == nil {
		return ErrNotConfigured
	}
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		return err
	}

	switch event.Type {
	case "customer.subscription.created", "customer.subscription.updated":
		return s.applySubscription(event.Data.Raw, false)
	case "customer.subscription.deleted":
		return s.applySubscription(event.Data.Raw, true)
	default:
		log.Printf("[payments][webhook_ignored] type=%s", event.Type)
		return nil
	}
}

func (s *Service) applySubscription(raw json.RawMessage, cancelled bool) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return err
	}
	userID := sub.Metadata["user_id"]
	if userID == "" {
		log.Printf("[payments][webhook_skip] reason=missing_user_metadata sub=%s", sub.ID)
		return nil
	}
	if cancelled {
		log.Printf("[payments][downgrade] user_id=%s sub=%s", userID, sub.ID)
		if err := s.users.SetPlan(userID, plans.Free); err != nil {
			return err
		}
		return s.users.SetStripeSubscriptionID(userID, "")
	}

	tier := tierForSubscription(&sub)
	log.Printf("[payments][plan_update] user_id=%s sub=%s plan=%s", userID, sub.ID, tier)
	if err := s.users.SetPlan(userID, tier); err != nil {
		return err
	}
	return s.users.SetStripeSubscriptionID(userID, sub.ID)
}

// CancelSubscription cancels at Stripe and downgrades the user.
func (s *Service) CancelSubscription(userID string) error {
	if s == nil {
		return ErrNotConfigured
	}
	u, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if u == nil {
		return errors.New("user not found")
	}
	if u.StripeSubscriptionID == "" {
		return ErrNoSubscription
	}
	if _, err := s.sc.Subscriptions.Cancel(u.StripeSubscriptionID, nil); err != nil {
		return err
	}
	if err := s.users.SetPlan(userID, plans.Free); err != nil {
		return err
	}
	return s.users.SetStripeSubscriptionID(userID, "")
}

func priceIDForPlan(plan string) string {
	switch plans.Tier(plan) {
	case plans.Pro:
		return envOr("STRIPE_PRO_PRICE_ID", "price_pro_monthly")
	default:
		return envOr("STRIPE_BASIC_PRICE_ID", "price_basic_monthly")
	}
}

// tierForSubscription maps the subscription's price back to a tier,
// preferring the explicit plan metadata when present.
func tierForSubscription(sub *stripe.Subscription) plans.Tier {
	if p := sub.Metadata["plan"]; plans.Valid(p) {
		return plans.Tier(p)
	}
	if sub.Items != nil {
		for _, item := range sub.Items.Data {
			if item.Price == nil {
				continue
			}
			switch item.Price.ID {
			case envOr("STRIPE_PRO_PRICE_ID", "price_pro_monthly"):
				return plans.Pro
			case envOr("STRIPE_BASIC_PRICE_ID", "price_basic_monthly"):
				return plans.Basic
			}
			id := strings.ToLower(item.Price.ID)
			if strings.Contains(id, "pro") {
				return plans.Pro
			}
			if strings.Contains(id, "basic") {
				return plans.Basic
			}
		}
	}
	return plans.Free
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

package users

import (
	"time"

	"travelbot-backend/plans"
)

// User is a chat contact identified by the SHA-256 hash of their
// WhatsApp number (or an opaque session id for the web chat harness).
// Rows are soft-state only; there is no delete path.
type User struct {
	ID                   string            `json:"id"`
	WhatsappHash         string            `json:"whatsappHash"`
	WhatsappNumber       string            `json:"whatsappNumber,omitempty"`
	Name                 string            `json:"name,omitempty"`
	Email                string            `json:"email,omitempty"`
	Plan                 plans.Tier        `json:"plan"`
	TripsThisMonth       int               `json:"tripsThisMonth"`
	StripeCustomerID     string            `json:"stripeCustomerId,omitempty"`
	StripeSubscriptionID string            `json:"stripeSubscriptionId,omitempty"`
	ReferralCode         string            `json:"referralCode,omitempty"`
	HasConsented         bool              `json:"hasConsented"`
	Preferences          map[string]string `json:"preferences,omitempty"`
	CreatedAt            time.Time         `json:"createdAt"`
	UpdatedAt            time.Time         `json:"updatedAt"`
}

// Stats is the aggregate view returned by GET /users/:id/stats.
type Stats struct {
	Plan           plans.Tier `json:"plan"`
	TripsThisMonth int        `json:"tripsThisMonth"`
	TotalTrips     int        `json:"totalTrips"`
	MemberSince    time.Time  `json:"memberSince"`
	ReferralCode   string     `json:"referralCode"`
}

package users

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"travelbot-backend/plans"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const userCols = `id, whatsapp_hash, COALESCE(whatsapp_number,''), COALESCE(name,''), COALESCE(email,''),
	plan, trips_this_month, COALESCE(stripe_customer_id,''), COALESCE(stripe_subscription_id,''),
	COALESCE(referral_code,''), has_consented, preferences, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var u User
	var prefs sql.NullString
	err := row.Scan(&u.ID, &u.WhatsappHash, &u.WhatsappNumber, &u.Name, &u.Email,
		&u.Plan, &u.TripsThisMonth, &u.StripeCustomerID, &u.StripeSubscriptionID,
		&u.ReferralCode, &u.HasConsented, &prefs, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if prefs.Valid && prefs.String != "" {
		_ = json.Unmarshal([]byte(prefs.String), &u.Preferences)
	}
	return &u, nil
}

// Create inserts a new user. ID and referral code are generated here;
// plan defaults to free with zero usage.
func (r *Repository) Create(u *User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Plan == "" {
		u.Plan = plans.Free
	}
	if u.ReferralCode == "" {
		u.ReferralCode = generateReferralCode()
	}
	var prefs any
	if len(u.Preferences) > 0 {
		b, err := json.Marshal(u.Preferences)
		if err != nil {
			return err
		}
		prefs = string(b)
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	_, err := r.db.Exec(`INSERT INTO users
		(id, whatsapp_hash, whatsapp_number, name, email, plan, trips_this_month, referral_code, has_consented, preferences)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		u.ID, u.WhatsappHash, nullable(u.WhatsappNumber), nullable(u.Name), nullable(u.Email),
		string(u.Plan), u.TripsThisMonth, u.ReferralCode, u.HasConsented, prefs)
	return err
}

func (r *Repository) GetByID(id string) (*User, error) {
	return scanUser(r.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id=? LIMIT 1`, id))
}

func (r *Repository) GetByWhatsappHash(hash string) (*User, error) {
	return scanUser(r.db.QueryRow(`SELECT `+userCols+` FROM users WHERE whatsapp_hash=? LIMIT 1`, hash))
}

// GiveConsent records the user's opt-in. Idempotent.
func (r *Repository) GiveConsent(id string) error {
	_, err := r.db.Exec(`UPDATE users SET has_consented=1 WHERE id=?`, id)
	return err
}

func (r *Repository) SetPlan(id string, tier plans.Tier) error {
	_, err := r.db.Exec(`UPDATE users SET plan=? WHERE id=?`, string(tier), id)
	return err
}

func (r *Repository) SetStripeCustomerID(id, customerID string) error {
	_, err := r.db.Exec(`UPDATE users SET stripe_customer_id=? WHERE id=?`, customerID, id)
	return err
}

func (r *Repository) SetStripeSubscriptionID(id, subscriptionID string) error {
	if subscriptionID == "" {
		_, err := r.db.Exec(`UPDATE users SET stripe_subscription_id=NULL WHERE id=?`, id)
		return err
	}
	_, err := r.db.Exec(`UPDATE users SET stripe_subscription_id=? WHERE id=?`, subscriptionID, id)
	return err
}

// CanCreateTrip reports whether the user is below their plan's
// monthly allowance. Read-only; creation must go through
// ConsumeTripSlot which re-checks under the same guard.
func (r *Repository) CanCreateTrip(id string) (bool, error) {
	u, err := r.GetByID(id)
	if err != nil {
		return false, err
	}
	if u == nil {
		return false, sql.ErrNoRows
	}
	return u.TripsThisMonth < plans.TripsPerMonth(u.Plan), nil
}

// ConsumeTripSlot increments the monthly counter only while it is
// still under the plan limit: a single guarded UPDATE, so two
// concurrent requests cannot overshoot the allowance.
func (r *Repository) ConsumeTripSlot(id string, limit int) (bool, error) {
	res, err := r.db.Exec(`UPDATE users SET trips_this_month = trips_this_month + 1
		WHERE id=? AND trips_this_month < ?`, id, limit)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ResetMonthlyTripCounts zeroes every user's counter. Called by the
// scheduler at each month boundary.
func (r *Repository) ResetMonthlyTripCounts() error {
	_, err := r.db.Exec(`UPDATE users SET trips_this_month = 0`)
	return err
}

func (r *Repository) GetStats(id string) (*Stats, error) {
	u, err := r.GetByID(id)
	if err != nil || u == nil {
		return nil, err
	}
	var total int
	if err := r.db.QueryRow(`SELECT COUNT(1) FROM trips WHERE user_id=?`, id).Scan(&total); err != nil {
		return nil, err
	}
	return &Stats{
		Plan:           u.Plan,
		TripsThisMonth: u.TripsThisMonth,
		TotalTrips:     total,
		MemberSince:    u.CreatedAt,
		ReferralCode:   u.ReferralCode,
	}, nil
}

func nullable(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func generateReferralCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "TRAVEL00"
	}
	return strings.ToUpper(hex.EncodeToString(b))
}

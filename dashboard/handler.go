package dashboard

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"travelbot-backend/auth"
	"travelbot-backend/expenses"
	"travelbot-backend/trips"
	"travelbot-backend/users"
)

// Handler serves the read-only dashboard consumed by the web frontend.
// Access is by signed token only, there is no session.
type Handler struct {
	tokens   *auth.Tokens
	users    *users.Repository
	trips    *trips.Repository
	expenses *expenses.Repository
}

func NewHandler(tokens *auth.Tokens, userRepo *users.Repository, tripRepo *trips.Repository, expenseRepo *expenses.Repository) *Handler {
	return &Handler{tokens: tokens, users: userRepo, trips: tripRepo, expenses: expenseRepo}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/dashboard/data/:token", h.data)
}

type stats struct {
	TotalTrips     int      `json:"totalTrips"`
	TotalBudget    float64  `json:"totalBudget"`
	TotalSpent     float64  `json:"totalSpent"`
	Savings        float64  `json:"savings"`
	SavingsPercent float64  `json:"savingsPercent"`
	NextTrip       any      `json:"nextTrip"`
}

func (h *Handler) data(c *gin.Context) {
	userID, err := h.tokens.VerifyDashboardToken(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}
	u, err := h.users.GetByID(userID)
	if err != nil || u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	tripList, err := h.trips.FindAll(userID)
	if err != nil {
		log.Printf("[dashboard][trips_failed] user_id=%s err=%v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load trips"})
		return
	}
	for i := range tripList {
		spent, err := h.trips.TotalSpent(tripList[i].ID)
		if err != nil {
			log.Printf("[dashboard][spent_failed] trip_id=%s err=%v", tripList[i].ID, err)
			continue
		}
		tripList[i].ActualSpent = spent
	}

	expenseList, err := h.expenses.FindByUser(userID)
	if err != nil {
		log.Printf("[dashboard][expenses_failed] user_id=%s err=%v", userID, err)
		expenseList = nil
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":             u.ID,
			"plan":           u.Plan,
			"tripsThisMonth": u.TripsThisMonth,
		},
		"trips":    tripList,
		"expenses": expenseList,
		"stats":    computeStats(tripList),
	})
}

// computeStats aggregates across every trip, cancelled ones included.
// Savings go negative when spending exceeds the combined budgets.
func computeStats(tripList []trips.Trip) stats {
	s := stats{TotalTrips: len(tripList)}
	for _, t := range tripList {
		s.TotalBudget += t.EstimatedBudget
		s.TotalSpent += t.ActualSpent
	}
	s.Savings = s.TotalBudget - s.TotalSpent
	if s.TotalBudget > 0 {
		s.SavingsPercent = s.Savings / s.TotalBudget * 100
	}
	s.NextTrip = nextTrip(tripList, time.Now())
	return s
}

// nextTrip picks the soonest upcoming, non-cancelled trip.
func nextTrip(tripList []trips.Trip, now time.Time) any {
	var next *trips.Trip
	for i := range tripList {
		t := &tripList[i]
		if t.Status == trips.StatusCancelled || t.StartDate.Before(now) {
			continue
		}
		if next == nil || t.StartDate.Before(next.StartDate) {
			next = t
		}
	}
	if next == nil {
		return nil
	}
	return gin.H{
		"id":          next.ID,
		"destination": next.Destination,
		"startDate":   next.StartDate,
		"daysUntil":   int(next.StartDate.Sub(now).Hours() / 24),
	}
}

package dashboard

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"travelbot-backend/trips"
)

func TestComputeStats_NegativeSavings(t *testing.T) {
	list := []trips.Trip{
		{EstimatedBudget: 2000, ActualSpent: 2500},
		{EstimatedBudget: 1000, ActualSpent: 600},
	}
	s := computeStats(list)
	if s.TotalTrips != 2 {
		t.Fatalf("totalTrips = %d", s.TotalTrips)
	}
	if s.TotalBudget != 3000 {
		t.Fatalf("totalBudget = %v", s.TotalBudget)
	}
	if s.TotalSpent != 3100 {
		t.Fatalf("totalSpent = %v", s.TotalSpent)
	}
	if s.Savings != -100 {
		t.Fatalf("savings = %v", s.Savings)
	}
	if s.SavingsPercent >= 0 {
		t.Fatalf("savingsPercent = %v, expected negative", s.SavingsPercent)
	}
}

func TestComputeStats_Empty(t *testing.T) {
	s := computeStats(nil)
	if s.TotalTrips != 0 || s.TotalBudget != 0 || s.Savings != 0 || s.SavingsPercent != 0 {
		t.Fatalf("unexpected stats for no trips: %+v", s)
	}
	if s.NextTrip != nil {
		t.Fatalf("nextTrip = %v", s.NextTrip)
	}
}

func TestNextTrip_PicksSoonestUpcoming(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	list := []trips.Trip{
		{ID: "past", Destination: "Lisbon", StartDate: now.AddDate(0, 0, -30)},
		{ID: "soon", Destination: "Paris", StartDate: now.AddDate(0, 0, 10)},
		{ID: "later", Destination: "Tokyo", StartDate: now.AddDate(0, 2, 0)},
		{ID: "cancelled", Destination: "Rome", StartDate: now.AddDate(0, 0, 5), Status: trips.StatusCancelled},
	}
	got := nextTrip(list, now)
	if got == nil {
		t.Fatal("expected a next trip")
	}
	m, ok := got.(gin.H)
	if !ok {
		t.Fatalf("unexpected type %T", got)
	}
	if m["id"] != "soon" {
		t.Fatalf("picked %v", m["id"])
	}
	if m["daysUntil"] != 10 {
		t.Fatalf("daysUntil = %v", m["daysUntil"])
	}
}

func TestNextTrip_NoneUpcoming(t *testing.T) {
	now := time.Now()
	list := []trips.Trip{{ID: "past", StartDate: now.AddDate(0, -1, 0)}}
	if got := nextTrip(list, now); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

package trips

import "time"

// Status values are caller-driven; the service never transitions a
// trip on its own (generating an itinerary leaves a draft a draft).
type Status string

const (
	StatusDraft      Status = "draft"
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusDraft, StatusPlanned, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Trip struct {
	ID              string            `json:"id"`
	UserID          string            `json:"userId"`
	Destination     string            `json:"destination"`
	StartDate       time.Time         `json:"startDate"`
	EndDate         time.Time         `json:"endDate"`
	NumberOfPeople  int               `json:"numberOfPeople"`
	EstimatedBudget float64           `json:"estimatedBudget,omitempty"`
	// ActualSpent is derived from the trip's expenses at read time;
	// it is never stored.
	ActualSpent   float64           `json:"actualSpent"`
	Itinerary     string            `json:"itinerary,omitempty"`
	ItineraryData map[string]any    `json:"itineraryData,omitempty"`
	Status        Status            `json:"status"`
	BookingLinks  map[string]string `json:"bookingLinks,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

type CreateTripInput struct {
	UserID          string  `json:"userId" binding:"required"`
	Destination     string  `json:"destination" binding:"required"`
	StartDate       string  `json:"startDate" binding:"required"`
	EndDate         string  `json:"endDate" binding:"required"`
	NumberOfPeople  int     `json:"numberOfPeople" binding:"required,min=1"`
	EstimatedBudget float64 `json:"estimatedBudget"`
}

type UpdateTripInput struct {
	Destination     *string           `json:"destination"`
	StartDate       *string           `json:"startDate"`
	EndDate         *string           `json:"endDate"`
	NumberOfPeople  *int              `json:"numberOfPeople"`
	EstimatedBudget *float64          `json:"estimatedBudget"`
	Status          *string           `json:"status"`
	BookingLinks    map[string]string `json:"bookingLinks"`
}

package trips

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"travelbot-backend/itinerary"
)

// Generator produces itineraries; satisfied by *itinerary.Generator.
type Generator interface {
	Generate(ctx context.Context, req itinerary.Request) (*itinerary.Response, error)
}

type Handler struct {
	repo *Repository
	gen  Generator
}

func NewHandler(repo *Repository, gen Generator) *Handler {
	return &Handler{repo: repo, gen: gen}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/trips", h.create)
	r.GET("/trips", h.findAll)
	r.GET("/trips/:id", h.findOne)
	r.PATCH("/trips/:id", h.update)
	r.POST("/trips/:id/generate-itinerary", h.generateItinerary)
	r.GET("/trips/:id/export/pdf", h.exportPDF)
}

func (h *Handler) create(c *gin.Context) {
	var in CreateTripInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	start, err1 := time.Parse("2006-01-02", in.StartDate)
	end, err2 := time.Parse("2006-01-02", in.EndDate)
	if err1 != nil || err2 != nil || end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dates must be YYYY-MM-DD with endDate >= startDate"})
		return
	}
	t := &Trip{
		UserID:          in.UserID,
		Destination:     in.Destination,
		StartDate:       start,
		EndDate:         end,
		NumberOfPeople:  in.NumberOfPeople,
		EstimatedBudget: in.EstimatedBudget,
	}
	if err := h.repo.Create(t); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *Handler) findAll(c *gin.Context) {
	out, err := h.repo.FindAll(c.Query("userId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	// Spend totals are derived on read.
	for i := range out {
		if spent, err := h.repo.TotalSpent(out[i].ID); err == nil {
			out[i].ActualSpent = spent
		}
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) findOne(c *gin.Context) {
	t, err := h.repo.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if t == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "trip not found"})
		return
	}
	if spent, err := h.repo.TotalSpent(t.ID); err == nil {
		t.ActualSpent = spent
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) update(c *gin.Context) {
	var in UpdateTripInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if in.Status != nil && !ValidStatus(*in.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}
	if in.StartDate != nil {
		if _, err := time.Parse("2006-01-02", *in.StartDate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "startDate must be YYYY-MM-DD"})
			return
		}
	}
	if in.EndDate != nil {
		if _, err := time.Parse("2006-01-02", *in.EndDate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "endDate must be YYYY-MM-DD"})
			return
		}
	}
	if err := h.repo.Update(c.Param("id"), &in); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	t, err := h.repo.GetByID(c.Param("id"))
	if err != nil || t == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "trip not found"})
		return
	}
	c.JSON(http.StatusOK, t)
}

// generateItinerary fills itinerary/itineraryData for an existing
// trip. The trip's status is deliberately left untouched.
func (h *Handler) generateItinerary(c *gin.Context) {
	t, err := h.repo.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if t == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "trip not found"})
		return
	}
	resp, err := h.gen.Generate(c.Request.Context(), itinerary.Request{
		Destination:    t.Destination,
		StartDate:      t.StartDate,
		EndDate:        t.EndDate,
		NumberOfPeople: t.NumberOfPeople,
		Budget:         t.EstimatedBudget,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to generate itinerary"})
		return
	}
	structured := map[string]any{
		"days":            resp.Structured.Days,
		"dailyActivities": resp.Structured.DailyActivities,
		"estimatedCosts":  resp.Structured.EstimatedCosts,
		"tips":            resp.Structured.Tips,
	}
	if err := h.repo.SaveItinerary(t.ID, resp.Text, structured); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	t.Itinerary = resp.Text
	t.ItineraryData = structured
	c.JSON(http.StatusOK, t)
}

// exportPDF returns the download URL for a rendered trip summary.
// Rendering itself is delegated to the export worker.
func (h *Handler) exportPDF(c *gin.Context) {
	t, err := h.repo.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if t == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "trip not found"})
		return
	}
	base := os.Getenv("EXPORT_BASE_URL")
	if base == "" {
		base = "https://api.travelbot.pro/exports"
	}
	c.JSON(http.StatusOK, gin.H{"url": base + "/" + t.ID + ".pdf"})
}

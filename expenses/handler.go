package expenses

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo *Repository
	ocr  *OCRService
}

func NewHandler(repo *Repository, ocr *OCRService) *Handler {
	return &Handler{repo: repo, ocr: ocr}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/expenses", h.create)
	r.GET("/expenses", h.findAll)
	r.GET("/expenses/:id", h.findOne)
	r.POST("/expenses/ocr", h.processReceipt)
}

func (h *Handler) create(c *gin.Context) {
	var in CreateExpenseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if !ValidCategory(in.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
		return
	}
	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	e := &Expense{
		TripID:      in.TripID,
		Amount:      in.Amount,
		Currency:    in.Currency,
		Category:    Category(in.Category),
		Description: in.Description,
		Date:        date,
		ReceiptURL:  in.ReceiptURL,
		OCRText:     in.OCRText,
	}
	if err := h.repo.Create(e); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *Handler) findAll(c *gin.Context) {
	out, err := h.repo.FindAll(c.Query("tripId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) findOne(c *gin.Context) {
	e, err := h.repo.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if e == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "expense not found"})
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) processReceipt(c *gin.Context) {
	var body struct {
		ImageURL string `json:"imageUrl" binding:"required"`
		TripID   string `json:"tripId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "imageUrl and tripId required"})
		return
	}
	e, err := h.ocr.ProcessReceipt(c.Request.Context(), body.ImageURL, body.TripID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to process receipt"})
		return
	}
	c.JSON(http.StatusCreated, e)
}

package payments

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"travelbot-backend/plans"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/payments/create-subscription", h.createSubscription)
	r.POST("/payments/cancel-subscription", h.cancelSubscription)
	r.POST("/payments/webhook", h.webhook)
}

type subscribeRequest struct {
	UserID string `json:"userId" binding:"required"`
	Plan   string `json:"plan" binding:"required"`
}

func (h *Handler) createSubscription(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !plans.Valid(req.Plan) || plans.Tier(req.Plan) == plans.Free {
		c.JSON(http.StatusBadRequest, gin.H{"error": "plan must be basic or pro"})
		return
	}
	subID, clientSecret, err := h.service.CreateSubscription(req.UserID, req.Plan)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payments are not configured"})
			return
		}
		log.Printf("[payments][create_failed] user_id=%s err=%v", req.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create subscription"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"subscriptionId": subID,
		"clientSecret":   clientSecret,
	})
}

type cancelRequest struct {
	UserID string `json:"userId" binding:"required"`
}

func (h *Handler) cancelSubscription(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.CancelSubscription(req.UserID); err != nil {
		switch {
		case errors.Is(err, ErrNotConfigured):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payments are not configured"})
		case errors.Is(err, ErrNoSubscription):
			c.JSON(http.StatusBadRequest, gin.H{"error": "no active subscription"})
		default:
			log.Printf("[payments][cancel_failed] user_id=%s err=%v", req.UserID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not cancel subscription"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// webhook receives Stripe events. Signature failures return 400 so
// Stripe retries only on real delivery problems.
func (h *Handler) webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read body"})
		return
	}
	sig := c.GetHeader("Stripe-Signature")
	if err := h.service.HandleWebhook(payload, sig); err != nil {
		if errors.Is(err, ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payments are not configured"})
			return
		}
		log.Printf("[payments][webhook_failed] err=%v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "webhook verification failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

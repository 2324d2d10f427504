package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"travelbot-backend/cache"
	"travelbot-backend/users"
)

// Sender delivers OTP codes over the active messaging transport.
type Sender interface {
	SendMessage(ctx context.Context, to, text string) error
}

type Handler struct {
	users  *users.Repository
	tokens *Tokens
	cache  *cache.Client
	sender Sender
}

const otpTTL = 5 * time.Minute

func NewHandler(userRepo *users.Repository, tokens *Tokens, cacheClient *cache.Client, sender Sender) *Handler {
	return &Handler{users: userRepo, tokens: tokens, cache: cacheClient, sender: sender}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/auth/login", h.login)
	r.POST("/auth/verify-otp", h.verifyOTP)
	r.POST("/auth/generate-dashboard-token", h.generateDashboardToken)
}

// login issues a one-time code to the user's WhatsApp number. The
// code lives in the cache for otpTTL.
func (h *Handler) login(c *gin.Context) {
	var body struct {
		WhatsappHash string `json:"whatsappHash" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "whatsappHash required"})
		return
	}
	// The cache is the OTP store here, not an optimization: without it
	// a code could never be verified, so refuse instead of pretending.
	if h.cache == nil {
		log.Printf("[auth][login_unavailable] reason=otp_store_not_configured")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "login is unavailable: code storage is not configured"})
		return
	}
	u, err := h.users.GetByWhatsappHash(body.WhatsappHash)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	otp := generateOTP()
	if err := h.cache.Set(c.Request.Context(), "otp:"+body.WhatsappHash, otp, otpTTL); err != nil {
		log.Printf("[auth][otp_store_failed] err=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue code"})
		return
	}
	if u.WhatsappNumber != "" && h.sender != nil {
		if err := h.sender.SendMessage(c.Request.Context(), u.WhatsappNumber,
			"🔐 Your TravelBot Pro login code: "+otp+"\n\nIt expires in 5 minutes."); err != nil {
			log.Printf("[auth][otp_send_failed] user_id=%s err=%v", u.ID, err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP sent to your WhatsApp", "userId": u.ID})
}

func (h *Handler) verifyOTP(c *gin.Context) {
	var body struct {
		WhatsappHash string `json:"whatsappHash" binding:"required"`
		OTP          string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "whatsappHash and otp required"})
		return
	}
	if h.cache == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "login is unavailable: code storage is not configured"})
		return
	}
	u, err := h.users.GetByWhatsappHash(body.WhatsappHash)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	stored, err := h.cache.Get(c.Request.Context(), "otp:"+body.WhatsappHash)
	if err != nil || stored != body.OTP {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired code"})
		return
	}
	_ = h.cache.Del(c.Request.Context(), "otp:"+body.WhatsappHash)

	token, err := h.tokens.GenerateAccessToken(u.ID, u.WhatsappHash)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"user":         gin.H{"id": u.ID, "name": u.Name, "plan": u.Plan},
	})
}

func (h *Handler) generateDashboardToken(c *gin.Context) {
	var body struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId required"})
		return
	}
	u, err := h.users.GetByID(body.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	token, err := h.tokens.GenerateDashboardToken(u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "dashboardUrl": DashboardURL(token)})
}

func generateOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "000000"
	}
	return fmt.Sprintf("%06d", n.Int64())
}

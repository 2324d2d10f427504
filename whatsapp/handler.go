package whatsapp

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"travelbot-backend/bot"
	"travelbot-backend/users"
)

// webhookPayload mirrors the Meta Cloud API webhook envelope down to
// the fields this service consumes.
type webhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		Changes []struct {
			Field string `json:"field"`
			Value struct {
				Messages []inboundMessage `json:"messages"`
				Statuses []map[string]any `json:"statuses"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type inboundMessage struct {
	From      string `json:"from"`
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Text      *struct {
		Body string `json:"body"`
	} `json:"text"`
}

type Handler struct {
	users    *users.Repository
	router   *bot.Router
	provider bot.Provider
}

func NewHandler(userRepo *users.Repository, router *bot.Router, provider bot.Provider) *Handler {
	return &Handler{users: userRepo, router: router, provider: provider}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/whatsapp/webhook", h.verifyWebhook)
	r.POST("/whatsapp/webhook", h.handleWebhook)
	r.GET("/whatsapp/health", h.health)
}

// verifyWebhook answers Meta's subscription handshake: echo the
// challenge back when the verify token matches.
func (h *Handler) verifyWebhook(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	verifyToken := os.Getenv("META_WEBHOOK_VERIFY_TOKEN")
	if verifyToken == "" {
		verifyToken = "my_verify_token"
	}
	if mode == "subscribe" && token == verifyToken {
		log.Printf("[whatsapp][webhook_verified]")
		c.String(http.StatusOK, challenge)
		return
	}
	log.Printf("[whatsapp][webhook_verify_failed] mode=%s", mode)
	c.JSON(http.StatusForbidden, gin.H{"error": "verification failed"})
}

func (h *Handler) handleWebhook(c *gin.Context) {
	var payload webhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false})
		return
	}
	if payload.Object != "whatsapp_business_account" {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}
			for _, msg := range change.Value.Messages {
				h.processMessage(c.Request.Context(), msg)
			}
			for range change.Value.Statuses {
				log.Printf("[whatsapp][status_update]")
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// processMessage runs one inbound message through the router and
// replies. Failures never propagate to the webhook response; the
// sender gets the apology text instead.
func (h *Handler) processMessage(ctx context.Context, msg inboundMessage) {
	if msg.Type != "text" || msg.Text == nil {
		log.Printf("[whatsapp][skip] type=%s", msg.Type)
		return
	}
	log.Printf("[whatsapp][inbound] from=%s chars=%d", msg.From, len(msg.Text.Body))

	user, err := h.findOrCreateUser(msg.From)
	if err != nil {
		log.Printf("[whatsapp][user_lookup_failed] err=%v", err)
		h.reply(ctx, msg.From, "Sorry, something went wrong while processing your message. Please try again in a few moments.")
		return
	}
	reply := h.router.Handle(ctx, user, msg.Text.Body)
	h.reply(ctx, msg.From, reply)
}

func (h *Handler) findOrCreateUser(phoneNumber string) (*users.User, error) {
	// Phone numbers are stored hashed; the raw number is kept only
	// for outbound delivery.
	hash := HashPhoneNumber(phoneNumber)
	u, err := h.users.GetByWhatsappHash(hash)
	if err != nil {
		return nil, err
	}
	if u != nil {
		return u, nil
	}
	u = &users.User{WhatsappHash: hash, WhatsappNumber: phoneNumber}
	if err := h.users.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (h *Handler) reply(ctx context.Context, to, text string) {
	if err := h.provider.SendMessage(ctx, to, text); err != nil {
		log.Printf("[whatsapp][reply_failed] to=%s err=%v", to, err)
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"service":    "whatsapp",
		"provider":   "meta",
		"configured": h.provider.IsConfigured(),
	})
}

// HashPhoneNumber hashes a phone number for storage; the hash is the
// user's identity everywhere except outbound delivery.
func HashPhoneNumber(phoneNumber string) string {
	sum := sha256.Sum256([]byte(phoneNumber))
	return hex.EncodeToString(sum[:])
}

package webchat

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"travelbot-backend/bot"
	"travelbot-backend/users"
)

type Handler struct {
	repo     *Repository
	users    *users.Repository
	router   *bot.Router
	provider *Provider
}

func NewHandler(repo *Repository, userRepo *users.Repository, router *bot.Router, provider *Provider) *Handler {
	return &Handler{repo: repo, users: userRepo, router: router, provider: provider}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/chat/send", h.send)
	r.GET("/chat/messages/:userId", h.messages)
	r.POST("/chat/mark-read/:userId", h.markRead)
	r.GET("/chat/health", h.health)
}

// send runs a web-chat message through the canonical bot router and
// returns the reply, persisting both sides of the exchange.
func (h *Handler) send(c *gin.Context) {
	var body struct {
		UserID  string `json:"userId" binding:"required"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId and message required"})
		return
	}
	if err := h.repo.Save(body.UserID, SenderUser, body.Message); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	user, err := h.findOrCreateUser(body.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	reply := h.router.Handle(c.Request.Context(), user, body.Message)

	if err := h.provider.SendMessage(c.Request.Context(), body.UserID, reply); err != nil {
		log.Printf("[webchat][persist_reply_failed] user_id=%s err=%v", body.UserID, err)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "response": reply})
}

// findOrCreateUser treats the web-chat session id as the contact
// hash. Web chat users consent implicitly by using the page.
func (h *Handler) findOrCreateUser(sessionID string) (*users.User, error) {
	u, err := h.users.GetByWhatsappHash(sessionID)
	if err != nil {
		return nil, err
	}
	if u != nil {
		return u, nil
	}
	u = &users.User{WhatsappHash: sessionID, HasConsented: true}
	if err := h.users.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (h *Handler) messages(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	msgs, err := h.repo.FindByUser(c.Param("userId"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (h *Handler) markRead(c *gin.Context) {
	if err := h.repo.MarkAsRead(c.Param("userId")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "webchat",
		"mode":    "development",
		"warning": "remove this module in production",
	})
}

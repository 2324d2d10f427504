package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

func jwtSecret() []byte {
	s := os.Getenv("JWT_SECRET")
	if s == "" {
		s = "dev-insecure-secret"
	}
	return []byte(s)
}

// Tokens issues and verifies the two token kinds the service uses:
// short-lived access tokens after OTP verification, and 30-day
// dashboard tokens embedded in chat replies.
type Tokens struct{}

func NewTokens() *Tokens { return &Tokens{} }

func (t *Tokens) GenerateAccessToken(userID, whatsappHash string) (string, error) {
	claims := jwt.MapClaims{
		"sub":           userID,
		"whatsapp_hash": whatsappHash,
		"exp":           time.Now().Add(12 * time.Hour).Unix(),
		"iat":           time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret())
}

// GenerateDashboardToken mints the signed, time-limited token that
// grants read access to one user's aggregate dashboard view.
func (t *Tokens) GenerateDashboardToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID,
		"scope": "dashboard",
		"exp":   time.Now().Add(30 * 24 * time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret())
}

// VerifyDashboardToken returns the user id a dashboard token was
// minted for, or ErrInvalidToken.
func (t *Tokens) VerifyDashboardToken(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	if scope, _ := claims["scope"].(string); scope != "dashboard" {
		return "", ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

// DashboardURL builds the frontend link embedded in chat replies.
func DashboardURL(token string) string {
	base := os.Getenv("FRONTEND_URL")
	if base == "" {
		base = "http://localhost:3000"
	}
	return base + "/dashboard/" + token
}

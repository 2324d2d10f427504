package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestDashboardToken_RoundTrip(t *testing.T) {
	tk := NewTokens()
	token, err := tk.GenerateDashboardToken("user-42")
	if err != nil {
		t.Fatal(err)
	}
	got, err := tk.VerifyDashboardToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if got != "user-42" {
		t.Fatalf("got %q", got)
	}
}

func TestVerifyDashboardToken_RejectsAccessToken(t *testing.T) {
	tk := NewTokens()
	token, err := tk.GenerateAccessToken("user-42", "hash")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tk.VerifyDashboardToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("access token accepted for dashboard: %v", err)
	}
}

func TestVerifyDashboardToken_RejectsGarbage(t *testing.T) {
	tk := NewTokens()
	if _, err := tk.VerifyDashboardToken("not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v", err)
	}
}

func TestVerifyDashboardToken_RejectsTamperedSignature(t *testing.T) {
	tk := NewTokens()
	token, err := tk.GenerateDashboardToken("user-42")
	if err != nil {
		t.Fatal(err)
	}
	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "." + "AAAA" + parts[2][4:]
	if _, err := tk.VerifyDashboardToken(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("tampered token accepted: %v", err)
	}
}

func TestDashboardURL(t *testing.T) {
	t.Setenv("FRONTEND_URL", "https://app.example.com")
	if got := DashboardURL("abc"); got != "https://app.example.com/dashboard/abc" {
		t.Fatalf("got %q", got)
	}
}

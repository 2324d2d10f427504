package whatsapp

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakeProvider struct {
	sent []string
}

func (f *fakeProvider) Name() string { return "fake" }
func (f *fakeProvider) SendMessage(ctx context.Context, to, text string) error {
	f.sent = append(f.sent, text)
	return nil
}
func (f *fakeProvider) IsConfigured() bool { return true }

func setupRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r)
	return r
}

func TestVerifyWebhook_EchoesChallenge(t *testing.T) {
	t.Setenv("META_WEBHOOK_VERIFY_TOKEN", "secret-token")
	h := NewHandler(nil, nil, &fakeProvider{})
	r := setupRouter(h)

	req := httptest.NewRequest(http.MethodGet,
		"/whatsapp/webhook?hub.mode=subscribe&hub.verify_token=secret-token&hub.challenge=12345", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "12345" {
		t.Fatalf("expected raw challenge, got %q", w.Body.String())
	}
}

func TestVerifyWebhook_WrongTokenForbidden(t *testing.T) {
	t.Setenv("META_WEBHOOK_VERIFY_TOKEN", "secret-token")
	h := NewHandler(nil, nil, &fakeProvider{})
	r := setupRouter(h)

	req := httptest.NewRequest(http.MethodGet,
		"/whatsapp/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestHandleWebhook_IgnoresForeignObjects(t *testing.T) {
	h := NewHandler(nil, nil, &fakeProvider{})
	r := setupRouter(h)

	body := []byte(`{"object":"instagram","entry":[]}`)
	req := httptest.NewRequest(http.MethodPost, "/whatsapp/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestHandleWebhook_MalformedBodyStill200(t *testing.T) {
	h := NewHandler(nil, nil, &fakeProvider{})
	r := setupRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/whatsapp/webhook", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("webhook must always answer 200, got %d", w.Code)
	}
}

func TestHandleWebhook_StatusOnlyPayload(t *testing.T) {
	prov := &fakeProvider{}
	h := NewHandler(nil, nil, prov)
	r := setupRouter(h)

	body := []byte(`{"object":"whatsapp_business_account","entry":[{"changes":[{"field":"messages","value":{"statuses":[{"status":"delivered"}]}}]}]}`)
	req := httptest.NewRequest(http.MethodPost, "/whatsapp/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(prov.sent) != 0 {
		t.Fatalf("status update triggered %d replies", len(prov.sent))
	}
}

func TestHashPhoneNumber_StableAndOpaque(t *testing.T) {
	a := HashPhoneNumber("5511999998888")
	b := HashPhoneNumber("5511999998888")
	if a != b {
		t.Fatal("hash is not deterministic")
	}
	if len(a) != 64 {
		t.Fatalf("unexpected hash length %d", len(a))
	}
	if a == "5511999998888" {
		t.Fatal("phone number stored in the clear")
	}
}

func TestSendMessage_NotConfigured(t *testing.T) {
	p := &MetaProvider{}
	if err := p.SendMessage(context.Background(), "5511999998888", "hi"); err != ErrNotConfigured {
		t.Fatalf("err = %v", err)
	}
}

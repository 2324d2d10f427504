package trips

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r)
	return r
}

// Malformed input must be rejected before it reaches the database;
// the handler never touches the repository for these requests.
func TestUpdate_RejectsMalformedDates(t *testing.T) {
	h := NewHandler(nil, nil)
	r := setupRouter(h)

	for _, body := range []string{
		`{"startDate":"13/05/2026"}`,
		`{"endDate":"2026-13-40"}`,
		`{"startDate":"next tuesday"}`,
	} {
		req := httptest.NewRequest(http.MethodPatch, "/trips/trip-1", bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d: %s", body, w.Code, w.Body.String())
		}
	}
}

func TestUpdate_RejectsUnknownStatus(t *testing.T) {
	h := NewHandler(nil, nil)
	r := setupRouter(h)

	req := httptest.NewRequest(http.MethodPatch, "/trips/trip-1", bytes.NewReader([]byte(`{"status":"teleported"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCreate_RejectsReversedDates(t *testing.T) {
	h := NewHandler(nil, nil)
	r := setupRouter(h)

	body := []byte(`{"userId":"u1","destination":"Paris","startDate":"2026-09-17","endDate":"2026-09-10","numberOfPeople":2}`)
	req := httptest.NewRequest(http.MethodPost, "/trips", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

package kit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestDecodeJSONRejectsBadBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("{nope"))
	rec := httptest.NewRecorder()

	var dst map[string]any
	if DecodeJSON(rec, req, &dst) {
		t.Fatalf("expected decode failure")
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error != "invalid json" {
		t.Fatalf("unexpected error %q", body.Error)
	}
}

func TestRouteLabelUsesPattern(t *testing.T) {
	var got string
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req)
			got = RouteLabel(req)
		})
	})
	r.Get("/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/orders/o_1", nil))
	if got != "/orders/{id}" {
		t.Fatalf("expected route pattern, got %q", got)
	}

	bare := httptest.NewRequest(http.MethodGet, "/plain", nil)
	if RouteLabel(bare) != "/plain" {
		t.Fatalf("expected raw path fallback")
	}
}

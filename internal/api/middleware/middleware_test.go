package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eslbridge/sign-translator/internal/logger"
)

func TestAPIKey(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		serverKey  string
		header     string
		wantStatus int
	}{
		{"valid key", "secret", "secret", http.StatusNoContent},
		{"missing header", "secret", "", http.StatusUnauthorized},
		{"wrong key", "secret", "guess", http.StatusUnauthorized},
		{"server without key", "", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/clips", nil)
			if tt.header != "" {
				req.Header.Set("X-API-Key", tt.header)
			}
			rec := httptest.NewRecorder()
			APIKey(tt.serverKey)(ok).ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequestLogPassesThroughStatus(t *testing.T) {
	h := RequestLog(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ehz-labs/ocr-api/internal/logger"
)

func TestRequestID_GeneratesID(t *testing.T) {
	var captured string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := r.Context().Value(logger.RequestIDKey).(string); ok {
			captured = id
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if captured == "" {
		t.Error("expected request ID in context")
	}
	if rr.Header().Get(RequestIDHeader) == "" {
		t.Error("expected request ID in response header")
	}
	if rr.Header().Get(RequestIDHeader) != captured {
		t.Error("header and context request IDs should match")
	}
}

func TestRequestID_PreservesIncomingID(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "client-supplied-id")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get(RequestIDHeader); got != "client-supplied-id" {
		t.Errorf("expected client-supplied-id, got %s", got)
	}
}

func TestRequestID_UniqueAcrossRequests(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	ids := map[string]bool{}
	for i := 0; i < 10; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		ids[rr.Header().Get(RequestIDHeader)] = true
	}

	if len(ids) != 10 {
		t.Errorf("expected 10 unique IDs, got %d", len(ids))
	}
}

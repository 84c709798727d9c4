package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ehz-labs/ocr-api/internal/config"
)

func TestLimitUploadSize_CapsBody(t *testing.T) {
	t.Setenv("MAX_FILE_SIZE_MB", "1")
	t.Setenv("MAX_BATCH_SIZE", "1")
	config.ResetForTest()
	defer config.ResetForTest()

	var readErr error
	handler := LimitUploadSize(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
		if readErr != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	// 1 MB file limit + 1 MB multipart overhead; a 3 MB body must be rejected
	big := bytes.Repeat([]byte("a"), 3<<20)
	req := httptest.NewRequest(http.MethodPost, "/extract-text", bytes.NewReader(big))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if readErr == nil {
		t.Error("expected oversized body read to fail")
	}
}

func TestLimitUploadSize_AllowsSmallBody(t *testing.T) {
	t.Setenv("MAX_FILE_SIZE_MB", "1")
	t.Setenv("MAX_BATCH_SIZE", "1")
	config.ResetForTest()
	defer config.ResetForTest()

	handler := LimitUploadSize(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/extract-text", bytes.NewReader(bytes.Repeat([]byte("a"), 1024)))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200 for small body, got %d", rr.Code)
	}
}

func TestLimitUploadSize_IgnoresGet(t *testing.T) {
	config.ResetForTest()
	defer config.ResetForTest()

	handler := LimitUploadSize(okHandler())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rr.Code)
	}
}

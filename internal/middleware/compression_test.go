package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
)

func textHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, body)
	})
}

func TestCompress_Brotli(t *testing.T) {
	body := strings.Repeat(`{"text":"hello world"}`, 100)
	handler := Compress(textHandler(body))

	req := httptest.NewRequest(http.MethodGet, "/extract-text", nil)
	req.Header.Set("Accept-Encoding", "br, gzip")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("Content-Encoding"); got != "br" {
		t.Fatalf("Content-Encoding = %q, want br", got)
	}

	decoded, err := io.ReadAll(brotli.NewReader(bytes.NewReader(rr.Body.Bytes())))
	if err != nil {
		t.Fatalf("decoding brotli body: %v", err)
	}
	if string(decoded) != body {
		t.Error("decompressed body does not match original")
	}
}

func TestCompress_Gzip(t *testing.T) {
	body := strings.Repeat(`{"text":"hello world"}`, 100)
	handler := Compress(textHandler(body))

	req := httptest.NewRequest(http.MethodGet, "/extract-text", nil)
	req.Header.Set("Accept-Encoding", "gzip")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", got)
	}

	gr, err := gzip.NewReader(bytes.NewReader(rr.Body.Bytes()))
	if err != nil {
		t.Fatalf("opening gzip body: %v", err)
	}
	decoded, err := io.ReadAll(gr)
	if err != nil {
		t.Fatalf("decoding gzip body: %v", err)
	}
	if string(decoded) != body {
		t.Error("decompressed body does not match original")
	}
}

func TestCompress_NoAcceptEncoding(t *testing.T) {
	body := `{"status":"ok"}`
	handler := Compress(textHandler(body))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if got := rr.Header().Get("Content-Encoding"); got != "" {
		t.Errorf("expected identity encoding, got %q", got)
	}
	if rr.Body.String() != body {
		t.Error("body should pass through unmodified")
	}
}

func TestCompress_SetsVary(t *testing.T) {
	handler := Compress(textHandler("ok"))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if got := rr.Header().Get("Vary"); got != "Accept-Encoding" {
		t.Errorf("Vary = %q, want Accept-Encoding", got)
	}
}

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"
)

// compressResponseWriter wraps http.ResponseWriter, deferring the
// Content-Encoding header until the first write so error paths that never
// write a body stay uncompressed.
type compressResponseWriter struct {
	io.Writer
	http.ResponseWriter
	encoding    string
	wroteHeader bool
}

func (w *compressResponseWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.Header().Set("Content-Encoding", w.encoding)
		w.Header().Del("Content-Length")
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *compressResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.Writer.Write(b)
}

var (
	// Pool writers to reduce allocations on the hot path
	gzPool = sync.Pool{
		New: func() interface{} {
			return gzip.NewWriter(io.Discard)
		},
	}
	brPool = sync.Pool{
		New: func() interface{} {
			return brotli.NewWriter(io.Discard)
		},
	}
)

// Compress returns a middleware that compresses responses with brotli or
// gzip based on the client's Accept-Encoding, preferring brotli.
func Compress(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Encoding")

		accept := r.Header.Get("Accept-Encoding")
		switch {
		case strings.Contains(accept, "br"):
			bw := brPool.Get().(*brotli.Writer)
			defer brPool.Put(bw)
			bw.Reset(w)
			defer bw.Close()

			next.ServeHTTP(&compressResponseWriter{Writer: bw, ResponseWriter: w, encoding: "br"}, r)
		case strings.Contains(accept, "gzip"):
			gz := gzPool.Get().(*gzip.Writer)
			defer gzPool.Put(gz)
			gz.Reset(w)
			defer gz.Close()

			next.ServeHTTP(&compressResponseWriter{Writer: gz, ResponseWriter: w, encoding: "gzip"}, r)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

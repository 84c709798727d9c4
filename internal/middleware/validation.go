package middleware

import (
	"net/http"

	"github.com/ehz-labs/ocr-api/internal/config"
)

// multipartOverhead allows for form boundaries and field headers on top of
// the raw image payload limit.
const multipartOverhead = 1 << 20

// LimitUploadSize returns a middleware that caps multipart upload bodies.
// The cap is the configured max file size times the batch size, since the
// batch endpoint carries several images in one body; individual files are
// checked precisely by the upload validator.
func LimitUploadSize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			cfg := config.Load()
			maxBody := cfg.MaxFileSizeBytes*int64(cfg.MaxBatchSize) + multipartOverhead
			r.Body = http.MaxBytesReader(w, r.Body, maxBody)
		}
		next.ServeHTTP(w, r)
	})
}

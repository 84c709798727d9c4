package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/ehz-labs/ocr-api/internal/apierr"
	"github.com/ehz-labs/ocr-api/internal/cache"
	"github.com/ehz-labs/ocr-api/internal/circuitbreaker"
	"github.com/ehz-labs/ocr-api/internal/logger"
	"github.com/ehz-labs/ocr-api/internal/metrics"
	"github.com/ehz-labs/ocr-api/internal/ocr"
	"github.com/ehz-labs/ocr-api/internal/textproc"
	"github.com/ehz-labs/ocr-api/internal/tracing"
	"github.com/ehz-labs/ocr-api/internal/upload"
)

// ExtractHandler serves single-image text extraction backed by the result cache.
type ExtractHandler struct {
	cache      cache.Cache
	recognizer ocr.Recognizer
}

// NewExtractHandler creates a new extract handler.
func NewExtractHandler(c cache.Cache, rec ocr.Recognizer) *ExtractHandler {
	return &ExtractHandler{cache: c, recognizer: rec}
}

// ExtractText handles single-image OCR requests.
// POST /extract-text
func (h *ExtractHandler) ExtractText(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, span := tracing.StartSpan(r.Context(), "handler.extract_text")
	defer span.End()

	file, header, err := r.FormFile("image")
	if err != nil {
		metrics.OCRRequestsTotal.WithLabelValues("extract", "rejected").Inc()
		apierr.WriteErrorWithContext(w, r, apierr.ValidationMissingField("image"))
		return
	}
	defer file.Close()

	resp, aerr := h.process(ctx, file, header)
	if aerr != nil {
		status := "rejected"
		if aerr.Status() >= http.StatusInternalServerError {
			status = "failed"
		}
		metrics.OCRRequestsTotal.WithLabelValues("extract", status).Inc()
		apierr.WriteErrorWithContext(w, r, aerr)
		return
	}

	resp.ProcessingTimeMs = time.Since(start).Milliseconds()
	metrics.OCRRequestsTotal.WithLabelValues("extract", "success").Inc()
	metrics.OCRRequestDuration.WithLabelValues("extract").Observe(time.Since(start).Seconds())

	logger.InfoContext(ctx, "Text extraction complete",
		"filename", header.Filename,
		"cached", resp.Cached,
		"has_text", resp.HasText,
		"duration_ms", resp.ProcessingTimeMs,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// process validates one uploaded file and extracts its text, consulting the
// result cache first. It is shared by the single and batch endpoints.
func (h *ExtractHandler) process(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*ExtractResponse, *apierr.Error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apierr.ValidationInvalidForm("could not read uploaded file")
	}

	content, meta, aerr := upload.Validate(header.Filename, header.Header.Get("Content-Type"), data)
	if aerr != nil {
		return nil, aerr
	}

	// Keys are derived from the validated bytes, so identical images share
	// one cache entry regardless of filename.
	key := cache.DeriveKey(content)

	if stored, ok := h.cache.Get(key); ok {
		var result ocr.Result
		if err := json.Unmarshal(stored, &result); err == nil {
			metrics.CacheHitsTotal.Inc()
			return responseFromResult(&result, meta, true), nil
		}
		// Unreadable entry, drop it and fall through to recognition
		h.cache.Delete(key)
	}
	metrics.CacheMissesTotal.Inc()

	result, err := h.recognizer.Recognize(ctx, content)
	if err != nil {
		if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
			return nil, apierr.OCRUnavailable()
		}
		logger.ErrorContext(ctx, "Text recognition failed", "error", err, "filename", header.Filename)
		return nil, apierr.OCRFailed("text recognition failed")
	}

	result.Text = textproc.Preprocess(result.Text)
	result.HasText = result.Text != ""

	if encoded, err := json.Marshal(result); err == nil {
		h.cache.Set(key, encoded, 0)
	}

	return responseFromResult(result, meta, false), nil
}

func responseFromResult(result *ocr.Result, meta *upload.Metadata, cached bool) *ExtractResponse {
	return &ExtractResponse{
		Success:           true,
		Text:              result.Text,
		Confidence:        result.Confidence,
		Language:          result.Language,
		DetectedLanguages: result.DetectedLanguages,
		HasText:           result.HasText,
		Cached:            cached,
		Metadata:          meta,
	}
}

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"sync"
	"time"

	"github.com/ehz-labs/ocr-api/internal/apierr"
	"github.com/ehz-labs/ocr-api/internal/config"
	"github.com/ehz-labs/ocr-api/internal/logger"
	"github.com/ehz-labs/ocr-api/internal/metrics"
	"github.com/ehz-labs/ocr-api/internal/tracing"
)

// batchConcurrency bounds how many images are recognized at once so a large
// batch cannot monopolize backend quota.
const batchConcurrency = 4

// BatchHandler serves multi-image extraction requests.
type BatchHandler struct {
	extract *ExtractHandler
}

// NewBatchHandler creates a new batch handler sharing the extract pipeline.
func NewBatchHandler(extract *ExtractHandler) *BatchHandler {
	return &BatchHandler{extract: extract}
}

// BatchExtract handles multi-image OCR requests. Files are processed
// concurrently and per-file failures do not fail the batch.
// POST /batch-extract
func (h *BatchHandler) BatchExtract(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, span := tracing.StartSpan(r.Context(), "handler.batch_extract")
	defer span.End()

	cfg := config.Load()

	if err := r.ParseMultipartForm(cfg.MaxFileSizeBytes); err != nil {
		metrics.OCRRequestsTotal.WithLabelValues("batch", "rejected").Inc()
		apierr.WriteErrorWithContext(w, r, apierr.ValidationInvalidForm("could not parse multipart form"))
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		metrics.OCRRequestsTotal.WithLabelValues("batch", "rejected").Inc()
		apierr.WriteErrorWithContext(w, r, apierr.BatchEmpty())
		return
	}
	if len(files) > cfg.MaxBatchSize {
		metrics.OCRRequestsTotal.WithLabelValues("batch", "rejected").Inc()
		apierr.WriteErrorWithContext(w, r, apierr.BatchTooLarge(
			fmt.Sprintf("batch of %d files exceeds the limit of %d", len(files), cfg.MaxBatchSize)))
		return
	}

	results := make([]BatchItemResult, len(files))
	sem := make(chan struct{}, batchConcurrency)
	var wg sync.WaitGroup

	for i, fh := range files {
		wg.Add(1)
		go func(i int, fh *multipart.FileHeader) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = h.processOne(ctx, fh)
		}(i, fh)
	}
	wg.Wait()

	succeeded := 0
	for _, res := range results {
		if res.Error == nil {
			succeeded++
			metrics.BatchImagesProcessed.WithLabelValues("success").Inc()
		} else {
			metrics.BatchImagesProcessed.WithLabelValues("failed").Inc()
		}
	}

	resp := BatchResponse{
		Success:   succeeded > 0,
		Total:     len(files),
		Succeeded: succeeded,
		Failed:    len(files) - succeeded,
		Results:   results,
	}

	metrics.OCRRequestsTotal.WithLabelValues("batch", "success").Inc()
	metrics.OCRRequestDuration.WithLabelValues("batch").Observe(time.Since(start).Seconds())

	logger.InfoContext(ctx, "Batch extraction complete",
		"total", resp.Total,
		"succeeded", resp.Succeeded,
		"failed", resp.Failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *BatchHandler) processOne(ctx context.Context, fh *multipart.FileHeader) BatchItemResult {
	file, err := fh.Open()
	if err != nil {
		return BatchItemResult{
			Filename: fh.Filename,
			Error:    &BatchItemError{Code: string(apierr.ErrValidationInvalidForm), Message: "could not open uploaded file"},
		}
	}
	defer file.Close()

	start := time.Now()
	resp, aerr := h.extract.process(ctx, file, fh)
	if aerr != nil {
		return BatchItemResult{
			Filename: fh.Filename,
			Error:    &BatchItemError{Code: string(aerr.Code), Message: aerr.Message},
		}
	}

	resp.ProcessingTimeMs = time.Since(start).Milliseconds()
	return BatchItemResult{Filename: fh.Filename, Result: resp}
}

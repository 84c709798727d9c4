package handlers

import (
	"github.com/ehz-labs/ocr-api/internal/upload"
)

// ExtractResponse is the payload returned for a single processed image.
type ExtractResponse struct {
	Success           bool             `json:"success"`
	Text              string           `json:"text"`
	Confidence        float64          `json:"confidence"`
	Language          string           `json:"language,omitempty"`
	DetectedLanguages []string         `json:"detected_languages,omitempty"`
	HasText           bool             `json:"has_text"`
	Cached            bool             `json:"cached"`
	ProcessingTimeMs  int64            `json:"processing_time_ms"`
	Metadata          *upload.Metadata `json:"metadata,omitempty"`
}

// BatchItemResult is the per-file outcome inside a batch response. Exactly
// one of Result or Error is set.
type BatchItemResult struct {
	Filename string           `json:"filename"`
	Result   *ExtractResponse `json:"result,omitempty"`
	Error    *BatchItemError  `json:"error,omitempty"`
}

// BatchItemError mirrors the structured error envelope for a single file
// that failed inside an otherwise successful batch.
type BatchItemError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BatchResponse is the payload returned by the batch endpoint.
type BatchResponse struct {
	Success   bool              `json:"success"`
	Total     int               `json:"total"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Results   []BatchItemResult `json:"results"`
}

package apierr

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ehz-labs/ocr-api/internal/logger"
)

// ErrorCode represents a structured error code
type ErrorCode string

// Error code constants organized by category
const (
	// FILE_ - Upload validation errors
	ErrFileInvalidFormat ErrorCode = "FILE_INVALID_FORMAT"
	ErrFileTooLarge      ErrorCode = "FILE_TOO_LARGE"
	ErrFileEmpty         ErrorCode = "FILE_EMPTY"
	ErrFileCorrupted     ErrorCode = "FILE_CORRUPTED"

	// OCR_ - Text recognition backend errors
	ErrOCRFailed      ErrorCode = "OCR_FAILED"
	ErrOCRUnavailable ErrorCode = "OCR_UNAVAILABLE"

	// BATCH_ - Batch processing errors
	ErrBatchEmpty    ErrorCode = "BATCH_EMPTY"
	ErrBatchTooLarge ErrorCode = "BATCH_TOO_LARGE"

	// VALIDATION_ - Request validation errors
	ErrValidationMissingField ErrorCode = "VALIDATION_MISSING_FIELD"
	ErrValidationInvalidForm  ErrorCode = "VALIDATION_INVALID_FORM"

	// RATE_LIMIT_ - Rate limiting errors
	ErrRateLimitGlobal ErrorCode = "RATE_LIMIT_GLOBAL"
	ErrRateLimitIP     ErrorCode = "RATE_LIMIT_IP"

	// SYSTEM_ - System and server errors
	ErrSystemInternal    ErrorCode = "SYSTEM_INTERNAL"
	ErrSystemUnavailable ErrorCode = "SYSTEM_UNAVAILABLE"
)

// Error represents a structured API error
type Error struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	status    int                    // HTTP status code (not serialized)
}

// ErrorResponse is the top-level error response wrapper
type ErrorResponse struct {
	Error *Error `json:"error"`
}

// New creates a new API error
func New(code ErrorCode, message string, status int) *Error {
	return &Error{
		Code:    code,
		Message: message,
		status:  status,
	}
}

// WithDetails adds details to the error
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	e.Details = details
	return e
}

// WithRequestID adds a request ID to the error
func (e *Error) WithRequestID(requestID string) *Error {
	e.RequestID = requestID
	return e
}

// Error implements the error interface
func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// Status returns the HTTP status code
func (e *Error) Status() int {
	return e.status
}

// WriteError writes a structured error response to the HTTP response writer
func WriteError(w http.ResponseWriter, err *Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Status())
	json.NewEncoder(w).Encode(ErrorResponse{Error: err})
}

// Helper functions for common errors

// FileInvalidFormat creates an unsupported file format error
func FileInvalidFormat(message string) *Error {
	if message == "" {
		message = "Unsupported file format. Please upload JPG, PNG, GIF, WebP, or BMP."
	}
	return New(ErrFileInvalidFormat, message, http.StatusUnsupportedMediaType)
}

// FileTooLarge creates a file size exceeded error
func FileTooLarge(message string) *Error {
	if message == "" {
		message = "File too large. Maximum size is 10MB."
	}
	return New(ErrFileTooLarge, message, http.StatusRequestEntityTooLarge)
}

// FileEmpty creates an empty upload error
func FileEmpty() *Error {
	return New(ErrFileEmpty, "File is empty. Please upload a valid image.", http.StatusBadRequest)
}

// FileCorrupted creates an invalid or corrupted image error
func FileCorrupted(message string) *Error {
	if message == "" {
		message = "Invalid or corrupted image file. Please try another image."
	}
	return New(ErrFileCorrupted, message, http.StatusBadRequest)
}

// OCRFailed creates a recognition backend failure error
func OCRFailed(message string) *Error {
	if message == "" {
		message = "Text recognition failed. Please try again or use a different image."
	}
	return New(ErrOCRFailed, message, http.StatusInternalServerError)
}

// OCRUnavailable creates a recognition backend unavailable error
func OCRUnavailable() *Error {
	return New(ErrOCRUnavailable, "Text recognition backend temporarily unavailable", http.StatusServiceUnavailable)
}

// BatchEmpty creates an empty batch error
func BatchEmpty() *Error {
	return New(ErrBatchEmpty, "No images provided. Please upload at least one image.", http.StatusBadRequest)
}

// BatchTooLarge creates a batch size exceeded error
func BatchTooLarge(message string) *Error {
	if message == "" {
		message = "Too many images. Maximum is 10 images per batch."
	}
	return New(ErrBatchTooLarge, message, http.StatusBadRequest)
}

// ValidationMissingField creates a missing field error
func ValidationMissingField(field string) *Error {
	return New(ErrValidationMissingField, "Missing required field: "+field, http.StatusBadRequest).
		WithDetails(map[string]interface{}{"field": field})
}

// ValidationInvalidForm creates a malformed multipart form error
func ValidationInvalidForm(message string) *Error {
	if message == "" {
		message = "Invalid multipart form data"
	}
	return New(ErrValidationInvalidForm, message, http.StatusBadRequest)
}

// RateLimitGlobal creates a global rate limit error
func RateLimitGlobal() *Error {
	return New(ErrRateLimitGlobal, "Rate limit exceeded - too many requests globally", http.StatusTooManyRequests)
}

// RateLimitIP creates an IP rate limit error
func RateLimitIP() *Error {
	return New(ErrRateLimitIP, "Rate limit exceeded - too many requests from your IP", http.StatusTooManyRequests)
}

// SystemInternal creates an internal server error
func SystemInternal(message string) *Error {
	if message == "" {
		message = "Unable to process request. Please try again or use a different image."
	}
	return New(ErrSystemInternal, message, http.StatusInternalServerError)
}

// SystemUnavailable creates a service unavailable error
func SystemUnavailable(message string) *Error {
	if message == "" {
		message = "Service unavailable"
	}
	return New(ErrSystemUnavailable, message, http.StatusServiceUnavailable)
}

// GetRequestID extracts the request ID from the context
func GetRequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(logger.RequestIDKey).(string); ok {
		return reqID
	}
	return ""
}

// WriteErrorWithContext writes a structured error response with request ID from context
func WriteErrorWithContext(w http.ResponseWriter, r *http.Request, err *Error) {
	if reqID := GetRequestID(r.Context()); reqID != "" {
		err = err.WithRequestID(reqID)
	}
	WriteError(w, err)
}

package ocr

import "context"

// Result holds the outcome of a text-recognition call.
type Result struct {
	Text              string   `json:"text"`
	Confidence        float64  `json:"confidence"`
	Language          string   `json:"language,omitempty"`
	DetectedLanguages []string `json:"detected_languages,omitempty"`
	HasText           bool     `json:"has_text"`
}

// Recognizer extracts text from validated image bytes. Implementations are
// called only on a cache miss; a returned error is never cached.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (*Result, error)
}

package ocr

import (
	"context"
	"sync"
)

// MockRecognizer is an in-memory Recognizer for tests.
type MockRecognizer struct {
	Result *Result
	Err    error

	mu    sync.Mutex
	calls int
}

func NewMockRecognizer(result *Result, err error) *MockRecognizer {
	return &MockRecognizer{Result: result, Err: err}
}

func (m *MockRecognizer) Recognize(ctx context.Context, image []byte) (*Result, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if m.Result != nil {
		return m.Result, nil
	}
	return &Result{Text: "mock text", Confidence: 0.99, HasText: true}, nil
}

// Calls reports how many times Recognize has been invoked.
func (m *MockRecognizer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

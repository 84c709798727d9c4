package upload

import (
	"bytes"
	"image"
	"testing"
)

func TestDetectCorruption_HealthyImage(t *testing.T) {
	pngBytes := encodePNG(t, 20, 20)

	check, err := DetectCorruption(pngBytes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if check.Corrupted() {
		t.Errorf("healthy image flagged corrupt: %v", check.Issues)
	}
	if check.Width != 20 || check.Height != 20 || check.Format != "png" {
		t.Errorf("unexpected metadata: %+v", check)
	}
}

func TestDetectCorruption_Unreadable(t *testing.T) {
	if _, err := DetectCorruption([]byte("not an image at all")); err == nil {
		t.Error("expected hard error for non-image bytes")
	}
}

func TestDetectCorruption_TruncatedPixelData(t *testing.T) {
	pngBytes := encodePNG(t, 32, 32)
	// Keep the header intact but drop the tail of the pixel data.
	truncated := pngBytes[:len(pngBytes)/2]

	check, err := DetectCorruption(truncated)
	if err != nil {
		t.Fatalf("header should still parse: %v", err)
	}
	if !check.Corrupted() {
		t.Error("expected truncated pixel data to be flagged")
	}
}

func TestAttemptRepair_ReEncodes(t *testing.T) {
	pngBytes := encodePNG(t, 10, 10)

	repaired, ok := AttemptRepair(pngBytes)
	if !ok {
		t.Fatal("expected repair of a decodable image to succeed")
	}
	// The result must still decode to the same dimensions.
	cfg, format, err := image.DecodeConfig(bytes.NewReader(repaired))
	if err != nil {
		t.Fatalf("repaired bytes do not decode: %v", err)
	}
	if cfg.Width != 10 || cfg.Height != 10 {
		t.Errorf("repair changed dimensions: %dx%d", cfg.Width, cfg.Height)
	}
	if format != "png" {
		t.Errorf("expected png after repair, got %s", format)
	}
}

func TestAttemptRepair_UndecodableFails(t *testing.T) {
	original := []byte("garbage")
	repaired, ok := AttemptRepair(original)
	if ok {
		t.Error("expected repair of garbage to fail")
	}
	if !bytes.Equal(repaired, original) {
		t.Error("failed repair must return the original bytes")
	}
}

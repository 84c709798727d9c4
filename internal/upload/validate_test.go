package upload

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"testing"

	"github.com/ehz-labs/ocr-api/internal/config"
)

// encodePNG builds a valid PNG of the given size for tests.
func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{uint8(x * 20), uint8(y * 20), 100, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestValidateExtension(t *testing.T) {
	tests := []struct {
		filename string
		ok       bool
	}{
		{"photo.jpg", true},
		{"photo.JPEG", true},
		{"scan.png", true},
		{"anim.gif", true},
		{"modern.webp", true},
		{"old.bmp", true},
		{"doc.pdf", false},
		{"archive.zip", false},
		{"", false},
		{"noextension", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			err := ValidateExtension(tt.filename)
			if tt.ok && err != nil {
				t.Errorf("expected %q to be accepted, got %v", tt.filename, err)
			}
			if !tt.ok && err == nil {
				t.Errorf("expected %q to be rejected", tt.filename)
			}
		})
	}
}

func TestValidateMIMEType(t *testing.T) {
	tests := []struct {
		contentType string
		ok          bool
	}{
		{"image/jpeg", true},
		{"image/png", true},
		{"image/webp", true},
		{"image/png; charset=binary", true},
		{"application/octet-stream", true}, // deferred to signature check
		{"text/html", false},
		{"application/pdf", false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			err := ValidateMIMEType(tt.contentType)
			if tt.ok && err != nil {
				t.Errorf("expected %q to be accepted, got %v", tt.contentType, err)
			}
			if !tt.ok && err == nil {
				t.Errorf("expected %q to be rejected", tt.contentType)
			}
		})
	}
}

func TestValidateSize(t *testing.T) {
	if err := ValidateSize(0, 10*1024*1024, 10); err == nil {
		t.Error("expected empty file to be rejected")
	}
	if err := ValidateSize(11*1024*1024, 10*1024*1024, 10); err == nil {
		t.Error("expected oversize file to be rejected")
	} else if err.Status() != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", err.Status())
	}
	if err := ValidateSize(1024, 10*1024*1024, 10); err != nil {
		t.Errorf("expected 1KB file to pass, got %v", err)
	}
}

func TestValidateSignature(t *testing.T) {
	pngBytes := encodePNG(t, 10, 10)

	format, err := ValidateSignature(pngBytes)
	if err != nil {
		t.Fatalf("expected valid PNG signature, got %v", err)
	}
	if format != "png" {
		t.Errorf("expected png, got %s", format)
	}

	if _, err := ValidateSignature([]byte("definitely not an image")); err == nil {
		t.Error("expected text bytes to be rejected")
	}
	if _, err := ValidateSignature([]byte{0xFF, 0xD8, 0xFF, 0xE0}); err != nil {
		t.Errorf("expected JPEG magic to match, got %v", err)
	}
}

func TestValidate_EndToEnd(t *testing.T) {
	config.ResetForTest()
	t.Cleanup(config.ResetForTest)

	pngBytes := encodePNG(t, 16, 12)

	content, meta, err := Validate("scan.png", "image/png", pngBytes)
	if err != nil {
		t.Fatalf("expected valid upload, got %v", err)
	}
	if !bytes.Equal(content, pngBytes) {
		t.Error("healthy image bytes should pass through unchanged")
	}
	if meta.Width != 16 || meta.Height != 12 {
		t.Errorf("unexpected dimensions %dx%d", meta.Width, meta.Height)
	}
	if meta.Format != "png" {
		t.Errorf("expected png format, got %s", meta.Format)
	}
}

func TestValidate_WrongExtensionRejectedBeforeDecode(t *testing.T) {
	config.ResetForTest()
	t.Cleanup(config.ResetForTest)

	pngBytes := encodePNG(t, 10, 10)
	if _, _, err := Validate("scan.pdf", "image/png", pngBytes); err == nil {
		t.Error("expected pdf extension to be rejected")
	}
}

func TestValidate_TinyImageRejected(t *testing.T) {
	config.ResetForTest()
	t.Cleanup(config.ResetForTest)

	tiny := encodePNG(t, 2, 2)
	if _, _, err := Validate("tiny.png", "image/png", tiny); err == nil {
		t.Error("expected 2x2 image to be rejected as corrupt")
	}
}

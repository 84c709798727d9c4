package upload

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/bmp"
	_ "golang.org/x/image/webp" // registers webp for image.Decode
)

// CorruptionCheck reports the outcome of decoding an image.
type CorruptionCheck struct {
	Width  int
	Height int
	Format string
	Issues []string
}

// Corrupted reports whether any integrity issue was found.
func (c *CorruptionCheck) Corrupted() bool {
	return len(c.Issues) > 0
}

// DetectCorruption decodes the image and collects integrity issues. A hard
// error means the bytes are not readable as an image at all; issues mean the
// header parsed but the pixel data or dimensions are suspect.
func DetectCorruption(content []byte) (*CorruptionCheck, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("decode image config: %w", err)
	}

	check := &CorruptionCheck{
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: format,
	}

	if cfg.Width == 0 || cfg.Height == 0 {
		check.Issues = append(check.Issues, "image has zero dimensions")
	}
	// Extremely small images are almost certainly corrupt headers.
	if cfg.Width < 3 && cfg.Height < 3 {
		check.Issues = append(check.Issues, fmt.Sprintf("image too small: %dx%d", cfg.Width, cfg.Height))
	}

	// Full decode exercises the pixel data, not just the header.
	if _, _, err := image.Decode(bytes.NewReader(content)); err != nil {
		check.Issues = append(check.Issues, fmt.Sprintf("pixel data corrupted: %v", err))
	}

	return check, nil
}

// AttemptRepair re-encodes the image through a standard encoder, which fixes
// minor container damage such as trailing garbage or odd palette setups.
// WebP has no Go encoder, so repaired WebP comes back as PNG. Returns the
// original bytes and false when the image cannot be decoded at all.
func AttemptRepair(content []byte) ([]byte, bool) {
	img, format, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return content, false
	}

	var out bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&out, img, &jpeg.Options{Quality: 90})
	case "gif":
		err = gif.Encode(&out, img, nil)
	case "bmp":
		err = bmp.Encode(&out, img)
	default:
		// png, webp, and anything else normalizes to PNG
		err = png.Encode(&out, img)
	}
	if err != nil {
		return content, false
	}
	return out.Bytes(), true
}

package upload

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ehz-labs/ocr-api/internal/apierr"
	"github.com/ehz-labs/ocr-api/internal/config"
)

// Metadata describes a validated image.
type Metadata struct {
	Width  int    `json:"image_width"`
	Height int    `json:"image_height"`
	Format string `json:"image_format"`
}

// Validate runs the full upload validation pipeline: extension, MIME type,
// size, magic-number signature, and image integrity with corruption repair.
// It returns the final image bytes (possibly repaired, which is what gets
// cached and sent to the recognition backend) and the image metadata.
func Validate(filename, contentType string, content []byte) ([]byte, *Metadata, *apierr.Error) {
	cfg := config.Load()

	if err := ValidateExtension(filename); err != nil {
		return nil, nil, err
	}
	if err := ValidateMIMEType(contentType); err != nil {
		return nil, nil, err
	}
	if err := ValidateSize(int64(len(content)), cfg.MaxFileSizeBytes, cfg.MaxFileSizeMB); err != nil {
		return nil, nil, err
	}
	if _, err := ValidateSignature(content); err != nil {
		return nil, nil, err
	}

	return validateIntegrity(content)
}

// ValidateExtension checks the filename against the allowed extensions.
func ValidateExtension(filename string) *apierr.Error {
	if filename == "" {
		return apierr.FileInvalidFormat("No filename provided.")
	}

	parts := strings.Split(strings.ToLower(filename), ".")
	ext := parts[len(parts)-1]
	if !config.AllowedExtensions[ext] {
		return apierr.FileInvalidFormat(
			fmt.Sprintf("Unsupported file type '.%s'. Supported: JPG, PNG, GIF, WebP, BMP", ext))
	}
	return nil
}

// ValidateMIMEType checks the Content-Type header. application/octet-stream
// is allowed through since curl and some browsers send it; the file signature
// check catches non-images.
func ValidateMIMEType(contentType string) *apierr.Error {
	if contentType == "application/octet-stream" {
		return nil
	}
	// Content-Type may carry parameters, e.g. "image/png; charset=binary"
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	if !config.AllowedMIMETypes[contentType] {
		return apierr.FileInvalidFormat(
			"Unsupported file type. Please upload a valid image file (JPG, PNG, GIF, WebP, or BMP).")
	}
	return nil
}

// ValidateSize rejects empty uploads and uploads above the configured limit.
func ValidateSize(size, maxBytes int64, maxMB int) *apierr.Error {
	if size == 0 {
		return apierr.FileEmpty()
	}
	if size > maxBytes {
		return apierr.FileTooLarge(fmt.Sprintf("File too large (%.1fMB). Maximum size is %dMB.",
			float64(size)/1024/1024, maxMB))
	}
	return nil
}

// ValidateSignature checks the file's magic number and returns the format it
// identifies.
func ValidateSignature(content []byte) (string, *apierr.Error) {
	for _, sig := range config.FileSignatures {
		if bytes.HasPrefix(content, sig.Magic) {
			return sig.Format, nil
		}
	}
	return "", apierr.FileInvalidFormat(
		"Invalid image file. Please upload a valid image (JPG, PNG, GIF, WebP, or BMP).")
}

// validateIntegrity decodes the image, attempts a repair when corruption is
// detected, and extracts metadata from the final bytes.
func validateIntegrity(content []byte) ([]byte, *Metadata, *apierr.Error) {
	check, err := DetectCorruption(content)
	if err != nil {
		return nil, nil, apierr.FileCorrupted("Unable to read image file. The file may be corrupted.")
	}

	if check.Corrupted() {
		repaired, ok := AttemptRepair(content)
		if !ok {
			return nil, nil, apierr.FileCorrupted(
				"Image file is corrupted and could not be repaired: " + strings.Join(check.Issues, ", "))
		}
		recheck, err := DetectCorruption(repaired)
		if err != nil || recheck.Corrupted() {
			return nil, nil, apierr.FileCorrupted("Image file is corrupted beyond repair.")
		}
		content = repaired
		check = recheck
	}

	return content, &Metadata{
		Width:  check.Width,
		Height: check.Height,
		Format: check.Format,
	}, nil
}

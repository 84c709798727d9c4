package handlers

import (
	"encoding/json"
	"net/http"
	"runtime"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// GetVersion reports the service build version.
// GET /version
func GetVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"service":    "ocr-api",
		"version":    Version,
		"go_version": runtime.Version(),
	})
}

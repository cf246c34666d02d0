package handler

import (
	"net/http"
	"time"
)

// Health reports liveness. No dependencies are probed; a process that can
// answer is considered healthy.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

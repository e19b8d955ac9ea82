package handler

import (
	"net/http"
	"time"
)

// HealthHandler handles the service health endpoint.
type HealthHandler struct {
	startedAt time.Time
}

func NewHealthHandler() *HealthHandler { return &HealthHandler{startedAt: time.Now()} }

func (h *HealthHandler) Status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "OK",
		"message":   "User service is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.startedAt).String(),
	})
}

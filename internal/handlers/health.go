package handlers

import (
	"net/http"
	"strconv"
	"time"
)

const version = "0.1.0"

// Check represents the status of a health check.
type Check struct {
	Status  string `json:"status"` // "pass" or "fail"
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string           `json:"status"` // "healthy" or "degraded"
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
	Timestamp string           `json:"timestamp"`
}

// Health handles the health check endpoint. The server keeps all state
// in memory, so the checks report live signaling counters rather than
// backing-store reachability.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]Check{
		"hub": {
			Status:  "pass",
			Message: strconv.Itoa(h.hub.RoomCount()) + " rooms",
		},
		"transport": {
			Status:  "pass",
			Message: strconv.Itoa(h.transport.Count()) + " connections",
		},
	}

	chat := Check{Status: "pass"}
	if h.responder == nil {
		chat = Check{Status: "fail", Message: "not configured"}
	}
	checks["chat"] = chat

	resp := HealthResponse{
		Status:    "healthy",
		Version:   version,
		Checks:    checks,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	h.JSON(w, http.StatusOK, resp)
}

// Root handles the root endpoint.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Server is running!"))
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/khushalshaarma/vedacode-signaling/internal/bot"
	"github.com/khushalshaarma/vedacode-signaling/internal/hub"
	"github.com/khushalshaarma/vedacode-signaling/internal/ws"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	hub       *hub.Hub
	transport *ws.Transport
	responder bot.Responder
	log       zerolog.Logger
}

// NewHandler creates a new Handler with the given dependencies.
// responder may be nil when no chat-completion key is configured.
func NewHandler(h *hub.Hub, transport *ws.Transport, responder bot.Responder, log zerolog.Logger) *Handler {
	return &Handler{hub: h, transport: transport, responder: responder, log: log}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}

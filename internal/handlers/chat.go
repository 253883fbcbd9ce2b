package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/khushalshaarma/vedacode-signaling/internal/metrics"
)

// ChatRequest represents the REST chat fallback request.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse represents the REST chat fallback response.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// Chat is the REST fallback for the chatbot widget, used when the
// websocket path is unavailable. It calls the same chat-completion
// collaborator as the user-message event.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Message == "" {
		h.Error(w, http.StatusBadRequest, "Message is required")
		return
	}

	if h.responder == nil {
		metrics.BotReplies.WithLabelValues("error").Inc()
		h.Error(w, http.StatusBadGateway, "Failed to contact AI")
		return
	}

	reply, err := h.responder.Reply(r.Context(), req.Message)
	if err != nil {
		metrics.BotReplies.WithLabelValues("error").Inc()
		h.log.Error().Err(err).Msg("chat completion failed")
		h.Error(w, http.StatusBadGateway, "Failed to contact AI")
		return
	}

	metrics.BotReplies.WithLabelValues("ok").Inc()
	h.JSON(w, http.StatusOK, ChatResponse{Reply: reply})
}

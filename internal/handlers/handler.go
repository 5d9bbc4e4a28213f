package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/parley-chat/parley/internal/chat"
	"github.com/parley-chat/parley/internal/store"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	log        zerolog.Logger
	registry   *chat.Registry
	history    store.HistoryStore
	sendBuffer int
}

// NewHandler creates a new Handler with the given dependencies. sendBuffer
// sizes the outbound channel of each session created for a new connection.
func NewHandler(log zerolog.Logger, registry *chat.Registry, history store.HistoryStore, sendBuffer int) *Handler {
	return &Handler{log: log, registry: registry, history: history, sendBuffer: sendBuffer}
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

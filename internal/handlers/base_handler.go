package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	logger *zap.Logger
}

// respondJSON sends a JSON response
func (h *BaseHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// respondMessage sends a {"message": ...} JSON response, used for both outcomes and errors
func (h *BaseHandler) respondMessage(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, MessageResponse{Message: message})
}

// MessageResponse is the body of every response that carries only a message
type MessageResponse struct {
	Message string `json:"message"`
}

package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Pinger checks that the database can be reached
type Pinger interface {
	PingContext(ctx context.Context) error
}

// SystemHandler serves the version and health endpoints
type SystemHandler struct {
	BaseHandler
	db         Pinger
	apiVersion string
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(db Pinger, apiVersion string, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{
		db:          db,
		apiVersion:  apiVersion,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all system handler routes
func (h *SystemHandler) RegisterRoutes(r chi.Router) {
	r.Get("/hello", h.Hello)
	r.Get("/health", h.Health)
}

// Hello handles GET /hello
// @Summary API version
// @Tags system
// @Produce plain
// @Success 200 {string} string "Hello World! v1.0"
// @Router /hello [get]
func (h *SystemHandler) Hello(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "Hello World! v%s", h.apiVersion)
}

// Health handles GET /health
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		h.logger.Warn("database ping failed", zap.Error(err))
		h.respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

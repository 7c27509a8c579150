package server

import (
	"encoding/json"
	"net/http"

	"tft-wrapped/internal/api"

	"github.com/rs/zerolog"
)

type rateLimitReporter interface {
	RateLimit() api.RateLimitInfo
}

type healthResponse struct {
	Status    string            `json:"status"`
	RateLimit api.RateLimitInfo `json:"backendRateLimit"`
}

// HealthHandler reports liveness plus the backend's last throttling headers.
type HealthHandler struct {
	backend rateLimitReporter
	logger  zerolog.Logger
}

func NewHealthHandler(backend *api.BackendClient, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{backend: backend, logger: logger}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(healthResponse{Status: "ok", RateLimit: h.backend.RateLimit()}); err != nil {
		h.logger.Warn().Err(err).Msg("failed to write health response")
	}
}

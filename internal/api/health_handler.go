package api

import (
	"net/http"

	"github.com/phrazzld/flashforge/internal/api/shared"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	// Generator is the generation circuit breaker state: closed, half-open or open.
	Generator string `json:"generator,omitempty"`
}

// HealthHandler reports liveness and the generation breaker state.
type HealthHandler struct {
	generatorState func() string
}

// NewHealthHandler creates a HealthHandler. generatorState may be nil.
func NewHealthHandler(generatorState func() string) *HealthHandler {
	return &HealthHandler{generatorState: generatorState}
}

// Health handles GET /health. It answers 200 even while the breaker is open
// so that load balancers keep routing sign-in and profile traffic.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	if h.generatorState != nil {
		resp.Generator = h.generatorState()
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/providervault/ai-service/internal/domain/entities"
	"github.com/providervault/ai-service/internal/infrastructure/observability"
	apperrors "github.com/providervault/ai-service/pkg/errors"
)

// NetworkQueries is the read-only provider network surface served over HTTP
type NetworkQueries interface {
	Stats(ctx context.Context) (*entities.NetworkStats, error)
	Specialties(ctx context.Context) ([]string, error)
	GetByNPI(ctx context.Context, npi string) (*entities.ProviderRecord, error)
	SpecialtyDistribution(ctx context.Context) ([]entities.SpecialtyCount, error)
	StateDistribution(ctx context.Context) ([]entities.StateCount, error)
}

// ServiceInfo identifies the running service in the banner
type ServiceInfo struct {
	Name    string
	Version string
}

// ProviderHandler handles the service banner, health and provider network endpoints
type ProviderHandler struct {
	network NetworkQueries
	info    ServiceInfo
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(network NetworkQueries, info ServiceInfo) *ProviderHandler {
	return &ProviderHandler{network: network, info: info}
}

// bannerEndpoints is listed by the root endpoint
var bannerEndpoints = []string{
	"/health",
	"/api/specialty/describe",
	"/api/specialty/related",
	"/api/providers/analyze",
	"/api/symptoms/recommend",
	"/api/search",
	"/api/faq",
	"/api/specialties",
	"/api/stats",
	"/api/providers/{npi}",
	"/api/distribution/specialties",
	"/api/distribution/states",
}

type statsResponse struct {
	entities.NetworkStats
	ConnectionStatus string `json:"connection_status"`
}

// Root handles GET /
func (h *ProviderHandler) Root(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   h.info.Name,
		"version":   h.info.Version,
		"endpoints": bannerEndpoints,
	})
}

// Health handles GET /health. The dataset must answer a stats query.
func (h *ProviderHandler) Health(w http.ResponseWriter, r *http.Request) {
	stats, err := h.network.Stats(r.Context())
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("Health check failed")
		respondWithError(w, http.StatusServiceUnavailable, fmt.Sprintf("Database error: %v", err))
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "healthy",
		"database":    "connected",
		"providers":   stats.TotalProviders,
		"specialties": stats.TotalSpecialties,
	})
}

// Stats handles GET /api/stats
func (h *ProviderHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.network.Stats(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, statsResponse{NetworkStats: *stats, ConnectionStatus: "Connected successfully!"})
}

// ListSpecialties handles GET /api/specialties
func (h *ProviderHandler) ListSpecialties(w http.ResponseWriter, r *http.Request) {
	specialties, err := h.network.Specialties(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"count":       len(specialties),
		"specialties": specialties,
	})
}

// GetProvider handles GET /api/providers/{npi}
func (h *ProviderHandler) GetProvider(w http.ResponseWriter, r *http.Request) {
	npi := r.PathValue("npi")
	if npi == "" {
		respondWithError(w, http.StatusBadRequest, "npi is required")
		return
	}

	provider, err := h.network.GetByNPI(r.Context(), npi)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, provider)
}

// SpecialtyDistribution handles GET /api/distribution/specialties
func (h *ProviderHandler) SpecialtyDistribution(w http.ResponseWriter, r *http.Request) {
	counts, err := h.network.SpecialtyDistribution(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"count":        len(counts),
		"distribution": counts,
	})
}

// StateDistribution handles GET /api/distribution/states
func (h *ProviderHandler) StateDistribution(w http.ResponseWriter, r *http.Request) {
	counts, err := h.network.StateDistribution(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"count":        len(counts),
		"distribution": counts,
	})
}

// respondWithAppError maps typed application errors onto status codes.
// Internal details are logged, not returned.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case apperrors.IsType(err, apperrors.ErrorTypeNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case apperrors.IsType(err, apperrors.ErrorTypeValidation):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		observability.LoggerFromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

package routes

import (
	"net/http"

	"github.com/providervault/ai-service/internal/api/handlers"
	"github.com/providervault/ai-service/internal/api/middleware"
	"github.com/providervault/ai-service/internal/domain/repositories"
	"github.com/providervault/ai-service/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	assistantHandler *handlers.AssistantHandler
	providerHandler  *handlers.ProviderHandler

	repo           repositories.ProviderRepository
	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router. repo backs the per-request loaders.
func NewRouter(
	assistantHandler *handlers.AssistantHandler,
	providerHandler *handlers.ProviderHandler,
	repo repositories.ProviderRepository,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		assistantHandler: assistantHandler,
		providerHandler:  providerHandler,
		repo:             repo,
		allowedOrigins:   allowedOrigins,
		metrics:          metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /{$}", r.providerHandler.Root)
	r.mux.HandleFunc("GET /health", r.providerHandler.Health)

	// Assistant tasks
	r.mux.HandleFunc("POST /api/specialty/describe", r.assistantHandler.DescribeSpecialty)
	r.mux.HandleFunc("POST /api/specialty/related", r.assistantHandler.RelatedSpecialties)
	r.mux.HandleFunc("POST /api/providers/analyze", r.assistantHandler.AnalyzeProviders)
	r.mux.HandleFunc("POST /api/symptoms/recommend", r.assistantHandler.RecommendBySymptoms)
	r.mux.HandleFunc("POST /api/search", r.assistantHandler.SemanticSearch)
	r.mux.HandleFunc("POST /api/faq", r.assistantHandler.Faq)

	// Provider network
	r.mux.HandleFunc("GET /api/specialties", r.providerHandler.ListSpecialties)
	r.mux.HandleFunc("GET /api/stats", r.providerHandler.Stats)
	r.mux.HandleFunc("GET /api/providers/{npi}", r.providerHandler.GetProvider)
	r.mux.HandleFunc("GET /api/distribution/specialties", r.providerHandler.SpecialtyDistribution)
	r.mux.HandleFunc("GET /api/distribution/states", r.providerHandler.StateDistribution)

	// Observability sits directly on the mux so the matched route pattern is
	// visible after dispatch. CORS wraps everything so preflights never reach
	// the handlers.
	var handler http.Handler = r.mux
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.LoadersMiddleware(r.repo)(handler)
	handler = middleware.ResponseOptimization(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}

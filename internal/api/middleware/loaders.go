package middleware

import (
	"net/http"

	"github.com/providervault/ai-service/internal/application/loaders"
	"github.com/providervault/ai-service/internal/domain/repositories"
)

// LoadersMiddleware attaches fresh request-scoped loaders to every request
func LoadersMiddleware(repo repositories.ProviderRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := loaders.WithLoaders(r.Context(), loaders.NewLoaders(repo))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

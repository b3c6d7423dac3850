package loaders

import (
	"context"
	"fmt"

	"github.com/graph-gophers/dataloader/v7"
	"golang.org/x/sync/errgroup"

	"github.com/providervault/ai-service/internal/domain/entities"
	"github.com/providervault/ai-service/internal/domain/repositories"
	apperrors "github.com/providervault/ai-service/pkg/errors"
)

type ctxKey string

const loadersKey ctxKey = "dataloaders"

const (
	// SpecialtyCandidateLimit is the number of providers loaded per specialty.
	SpecialtyCandidateLimit = 20

	maxSpecialtyConcurrency = 4
)

// Loaders holds the request-scoped provider loaders
type Loaders struct {
	SpecialtyLoader *dataloader.Loader[string, []entities.ProviderRecord]
	ProviderLoader  *dataloader.Loader[string, *entities.ProviderRecord]
}

// NewLoaders creates a new instance of Loaders
func NewLoaders(repo repositories.ProviderRepository) *Loaders {
	return &Loaders{
		SpecialtyLoader: dataloader.NewBatchedLoader(func(ctx context.Context, keys []string) []*dataloader.Result[[]entities.ProviderRecord] {
			results := make([]*dataloader.Result[[]entities.ProviderRecord], len(keys))

			// There is no multi-specialty query; each key is its own lookup.
			// Results are slotted by key index so callers see key order.
			g, gCtx := errgroup.WithContext(ctx)
			g.SetLimit(maxSpecialtyConcurrency)
			for i, key := range keys {
				g.Go(func() error {
					providers, err := repo.ListBySpecialty(gCtx, key, SpecialtyCandidateLimit)
					if err != nil {
						results[i] = &dataloader.Result[[]entities.ProviderRecord]{Error: err}
						return nil
					}
					results[i] = &dataloader.Result[[]entities.ProviderRecord]{Data: providers}
					return nil
				})
			}
			_ = g.Wait()

			return results
		}),
		ProviderLoader: dataloader.NewBatchedLoader(func(ctx context.Context, keys []string) []*dataloader.Result[*entities.ProviderRecord] {
			results := make([]*dataloader.Result[*entities.ProviderRecord], len(keys))
			providers, err := repo.GetByNPIs(ctx, keys)

			byNPI := make(map[string]*entities.ProviderRecord, len(providers))
			if err == nil {
				for i := range providers {
					byNPI[providers[i].NPI] = &providers[i]
				}
			}

			for i, key := range keys {
				if err != nil {
					results[i] = &dataloader.Result[*entities.ProviderRecord]{Error: err}
				} else if p, ok := byNPI[key]; ok {
					results[i] = &dataloader.Result[*entities.ProviderRecord]{Data: p}
				} else {
					results[i] = &dataloader.Result[*entities.ProviderRecord]{Error: apperrors.NewNotFoundError(fmt.Sprintf("provider %s not found", key))}
				}
			}
			return results
		}),
	}
}

// For returns the loaders attached to ctx, or nil.
func For(ctx context.Context) *Loaders {
	l, _ := ctx.Value(loadersKey).(*Loaders)
	return l
}

// WithLoaders returns a new context with the loaders attached
func WithLoaders(ctx context.Context, loaders *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, loaders)
}

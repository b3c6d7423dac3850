package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/providervault/ai-service/internal/domain/entities"
	"github.com/providervault/ai-service/internal/domain/providers"
	"github.com/providervault/ai-service/internal/domain/repositories"
	"github.com/providervault/ai-service/internal/infrastructure/observability"
)

// CachedProviderAdapter wraps a ProviderRepository with a read-through cache.
// The dataset is read-only to this service, so entries only expire.
type CachedProviderAdapter struct {
	adapter repositories.ProviderRepository
	cache   providers.CacheProvider
	metrics *observability.Metrics
}

// NewCachedProviderAdapter creates a new cached provider adapter
func NewCachedProviderAdapter(adapter repositories.ProviderRepository, cache providers.CacheProvider, metrics *observability.Metrics) repositories.ProviderRepository {
	return &CachedProviderAdapter{
		adapter: adapter,
		cache:   cache,
		metrics: metrics,
	}
}

// Cache TTLs (in seconds)
const (
	providerByNPITTL = 600
	providerListTTL  = 300
	aggregateTTL     = 900
)

func providerCacheKey(npi string) string {
	return fmt.Sprintf("provider:%s", npi)
}

func specialtyListCacheKey(specialty string, limit int) string {
	return fmt.Sprintf("providers:specialty:%s:%d", specialty, limit)
}

func stateListCacheKey(state string, limit int) string {
	return fmt.Sprintf("providers:state:%s:%d", state, limit)
}

const (
	specialtiesCacheKey           = "specialties"
	statsCacheKey                 = "stats"
	specialtyDistributionCacheKey = "distribution:specialty"
	stateDistributionCacheKey     = "distribution:state"
)

// GetByNPI retrieves a provider by NPI with caching
func (a *CachedProviderAdapter) GetByNPI(ctx context.Context, npi string) (*entities.ProviderRecord, error) {
	return readThrough(ctx, a, providerCacheKey(npi), providerByNPITTL, func() (*entities.ProviderRecord, error) {
		return a.adapter.GetByNPI(ctx, npi)
	})
}

// GetByNPIs is not cached; it backs the per-request loader which already
// deduplicates keys.
func (a *CachedProviderAdapter) GetByNPIs(ctx context.Context, npis []string) ([]entities.ProviderRecord, error) {
	return a.adapter.GetByNPIs(ctx, npis)
}

// ListBySpecialty retrieves providers by specialty with caching
func (a *CachedProviderAdapter) ListBySpecialty(ctx context.Context, specialty string, limit int) ([]entities.ProviderRecord, error) {
	return readThrough(ctx, a, specialtyListCacheKey(specialty, limit), providerListTTL, func() ([]entities.ProviderRecord, error) {
		return a.adapter.ListBySpecialty(ctx, specialty, limit)
	})
}

// ListByState retrieves providers by state with caching
func (a *CachedProviderAdapter) ListByState(ctx context.Context, state string, limit int) ([]entities.ProviderRecord, error) {
	return readThrough(ctx, a, stateListCacheKey(state, limit), providerListTTL, func() ([]entities.ProviderRecord, error) {
		return a.adapter.ListByState(ctx, state, limit)
	})
}

// ListSpecialties returns the distinct specialties with caching
func (a *CachedProviderAdapter) ListSpecialties(ctx context.Context) ([]string, error) {
	return readThrough(ctx, a, specialtiesCacheKey, aggregateTTL, func() ([]string, error) {
		return a.adapter.ListSpecialties(ctx)
	})
}

// SpecialtyDistribution returns provider counts per specialty with caching
func (a *CachedProviderAdapter) SpecialtyDistribution(ctx context.Context) ([]entities.SpecialtyCount, error) {
	return readThrough(ctx, a, specialtyDistributionCacheKey, aggregateTTL, func() ([]entities.SpecialtyCount, error) {
		return a.adapter.SpecialtyDistribution(ctx)
	})
}

// StateDistribution returns provider counts per state with caching
func (a *CachedProviderAdapter) StateDistribution(ctx context.Context) ([]entities.StateCount, error) {
	return readThrough(ctx, a, stateDistributionCacheKey, aggregateTTL, func() ([]entities.StateCount, error) {
		return a.adapter.StateDistribution(ctx)
	})
}

// Stats returns aggregate counts with caching
func (a *CachedProviderAdapter) Stats(ctx context.Context) (*entities.NetworkStats, error) {
	return readThrough(ctx, a, statsCacheKey, aggregateTTL, func() (*entities.NetworkStats, error) {
		return a.adapter.Stats(ctx)
	})
}

// readThrough serves key from the cache, falling back to load on a miss or an
// undecodable entry. Cache failures never fail the read.
func readThrough[T any](ctx context.Context, a *CachedProviderAdapter, key string, ttl int, load func() (T, error)) (T, error) {
	logger := observability.LoggerFromContext(ctx)

	if cached, err := a.cache.Get(ctx, key); err == nil {
		var value T
		if err := json.Unmarshal(cached, &value); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, key)
			return value, nil
		}
		logger.Warn().Err(err).Str("cache_key", key).Msg("Failed to decode cached value")
	}
	observability.RecordCacheMiss(ctx, a.metrics, key)

	value, err := load()
	if err != nil {
		return value, err
	}

	if data, err := json.Marshal(value); err == nil {
		if err := a.cache.Set(ctx, key, data, ttl); err != nil {
			logger.Warn().Err(err).Str("cache_key", key).Msg("Failed to populate cache")
		}
	}
	return value, nil
}

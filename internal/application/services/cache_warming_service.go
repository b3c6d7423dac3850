package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/providervault/ai-service/internal/domain/repositories"
	"github.com/providervault/ai-service/internal/infrastructure/observability"
)

// CacheWarmingService keeps the network-wide aggregates hot in the cached
// provider repository. Every request path that grounds a completion in the
// specialty list or the network stats reads these.
type CacheWarmingService struct {
	repo repositories.ProviderRepository
}

// NewCacheWarmingService creates a new cache warming service. repo should be
// the cached repository; warming an uncached one only issues queries.
func NewCacheWarmingService(repo repositories.ProviderRepository) *CacheWarmingService {
	return &CacheWarmingService{repo: repo}
}

// WarmCache loads every aggregate once. Each failure is logged and the rest
// still run; the joined error is returned.
func (s *CacheWarmingService) WarmCache(ctx context.Context) error {
	logger := observability.LoggerFromContext(ctx)
	start := time.Now()

	steps := []struct {
		name string
		load func(context.Context) error
	}{
		{"specialties", func(ctx context.Context) error {
			_, err := s.repo.ListSpecialties(ctx)
			return err
		}},
		{"stats", func(ctx context.Context) error {
			_, err := s.repo.Stats(ctx)
			return err
		}},
		{"specialty_distribution", func(ctx context.Context) error {
			_, err := s.repo.SpecialtyDistribution(ctx)
			return err
		}},
		{"state_distribution", func(ctx context.Context) error {
			_, err := s.repo.StateDistribution(ctx)
			return err
		}},
	}

	var errs []error
	for _, step := range steps {
		if err := step.load(ctx); err != nil {
			logger.Warn().Err(err).Str("aggregate", step.name).Msg("Failed to warm cache")
			errs = append(errs, fmt.Errorf("warm %s: %w", step.name, err))
		}
	}

	logger.Info().
		Dur("duration", time.Since(start)).
		Int("failed", len(errs)).
		Msg("Cache warming completed")
	return errors.Join(errs...)
}

// StartPeriodicWarming warms once synchronously, then every interval until
// ctx is cancelled. A non-positive interval only does the initial warm.
func (s *CacheWarmingService) StartPeriodicWarming(ctx context.Context, interval time.Duration) {
	logger := observability.LoggerFromContext(ctx)

	if err := s.WarmCache(ctx); err != nil {
		logger.Warn().Err(err).Msg("Initial cache warming incomplete")
	}
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.Info().Msg("Stopping cache warming service")
				return
			case <-ticker.C:
				if err := s.WarmCache(ctx); err != nil {
					logger.Warn().Err(err).Msg("Periodic cache warming incomplete")
				}
			}
		}
	}()
	logger.Info().Dur("interval", interval).Msg("Started periodic cache warming")
}

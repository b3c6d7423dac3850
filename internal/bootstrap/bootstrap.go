// Package bootstrap wires configuration into the repository, completion
// gateway and services shared by the HTTP server and the CLI.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/providervault/ai-service/internal/adapters/cache"
	"github.com/providervault/ai-service/internal/adapters/database"
	"github.com/providervault/ai-service/internal/application/prompts"
	"github.com/providervault/ai-service/internal/application/services"
	"github.com/providervault/ai-service/internal/domain/providers"
	"github.com/providervault/ai-service/internal/domain/repositories"
	"github.com/providervault/ai-service/internal/infrastructure/clients/gemini"
	"github.com/providervault/ai-service/internal/infrastructure/clients/openai"
	"github.com/providervault/ai-service/internal/infrastructure/clients/postgres"
	"github.com/providervault/ai-service/internal/infrastructure/clients/redis"
	"github.com/providervault/ai-service/internal/infrastructure/observability"
	"github.com/providervault/ai-service/pkg/config"
)

const cacheKeyPrefix = "provider-vault"

// App holds the wired service graph
type App struct {
	Repository repositories.ProviderRepository
	Assistant  *services.AssistantService
	Network    *services.ProviderService
	Model      string

	// Warmer is set only when the repository is cached.
	Warmer *services.CacheWarmingService

	closers []func() error
}

// New connects to the dataset, optionally wraps it with the Redis cache, and
// builds the services. metrics may be nil.
func New(ctx context.Context, cfg *config.Config, metrics *observability.Metrics) (*App, error) {
	logger := observability.LoggerFromContext(ctx)
	app := &App{}

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL client: %w", err)
	}
	app.closers = append(app.closers, pgClient.Close)

	var repo repositories.ProviderRepository = database.NewProviderAdapter(pgClient, metrics)
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			// The cache only saves round trips; run without it.
			logger.Warn().Err(err).Msg("Redis unavailable, provider repository running without cache")
		} else {
			app.closers = append(app.closers, redisClient.Close)
			repo = database.NewCachedProviderAdapter(repo, cache.NewRedisAdapter(redisClient, cacheKeyPrefix), metrics)
			app.Warmer = services.NewCacheWarmingService(repo)
			logger.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Provider repository wrapped with cache")
		}
	}

	gateway, model, err := NewCompletionProvider(ctx, &cfg.Completion)
	if err != nil {
		app.Close()
		return nil, err
	}
	logger.Info().Str("provider", cfg.Completion.Provider).Str("model", model).Msg("Completion gateway initialized")

	app.Repository = repo
	app.Model = model
	app.Assistant = services.NewAssistantService(gateway, repo, prompts.NewBuilder(model, &cfg.Completion), &cfg.Completion)
	app.Network = services.NewProviderService(repo)
	return app, nil
}

// NewCompletionProvider builds the configured completion gateway and reports
// the model it targets.
func NewCompletionProvider(ctx context.Context, cfg *config.CompletionConfig) (providers.CompletionProvider, string, error) {
	switch cfg.Provider {
	case "openai":
		client, err := openai.NewClient(cfg)
		if err != nil {
			return nil, "", fmt.Errorf("failed to initialize OpenAI client: %w", err)
		}
		return client, client.Model(), nil
	case "gemini":
		client, err := gemini.NewClient(ctx, cfg, "")
		if err != nil {
			return nil, "", fmt.Errorf("failed to initialize Gemini client: %w", err)
		}
		return client, client.Model(), nil
	default:
		return nil, "", fmt.Errorf("unknown completion provider %q", cfg.Provider)
	}
}

// Close releases the connections opened by New, newest first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

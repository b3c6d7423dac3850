package repositories

import (
	"context"

	"github.com/providervault/ai-service/internal/domain/entities"
)

// ProviderRepository defines read-only access to the provider dataset
type ProviderRepository interface {
	// GetByNPI retrieves a single provider by its identifier
	GetByNPI(ctx context.Context, npi string) (*entities.ProviderRecord, error)

	// GetByNPIs retrieves the providers matching any of the identifiers
	GetByNPIs(ctx context.Context, npis []string) ([]entities.ProviderRecord, error)

	// ListBySpecialty retrieves providers whose specialty equals the given name exactly
	ListBySpecialty(ctx context.Context, specialty string, limit int) ([]entities.ProviderRecord, error)

	// ListByState retrieves providers in a two-letter region
	ListByState(ctx context.Context, state string, limit int) ([]entities.ProviderRecord, error)

	// ListSpecialties returns the distinct specialty names, sorted
	ListSpecialties(ctx context.Context) ([]string, error)

	// SpecialtyDistribution returns provider counts per specialty, most common first
	SpecialtyDistribution(ctx context.Context) ([]entities.SpecialtyCount, error)

	// StateDistribution returns provider counts per state, most common first
	StateDistribution(ctx context.Context) ([]entities.StateCount, error)

	// Stats returns aggregate counts over the dataset
	Stats(ctx context.Context) (*entities.NetworkStats, error)
}

package services

import (
	"context"
	"fmt"

	"github.com/providervault/ai-service/internal/application/loaders"
	"github.com/providervault/ai-service/internal/domain/entities"
	"github.com/providervault/ai-service/internal/domain/repositories"
	apperrors "github.com/providervault/ai-service/pkg/errors"
)

// npiLength is the fixed length of a National Provider Identifier.
const npiLength = 10

// ProviderService serves the read-only network queries exposed next to the
// assistant tasks.
type ProviderService struct {
	repo repositories.ProviderRepository
}

// NewProviderService creates a new provider service
func NewProviderService(repo repositories.ProviderRepository) *ProviderService {
	return &ProviderService{repo: repo}
}

// Stats returns aggregate counts over the provider dataset
func (s *ProviderService) Stats(ctx context.Context) (*entities.NetworkStats, error) {
	return s.repo.Stats(ctx)
}

// Specialties returns the distinct specialty names
func (s *ProviderService) Specialties(ctx context.Context) ([]string, error) {
	return s.repo.ListSpecialties(ctx)
}

// GetByNPI retrieves one provider through the request's loaders when present.
// A malformed NPI is a validation error and never reaches the repository.
func (s *ProviderService) GetByNPI(ctx context.Context, npi string) (*entities.ProviderRecord, error) {
	if !validNPI(npi) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid npi %q: must be %d digits", npi, npiLength))
	}
	if ldrs := loaders.For(ctx); ldrs != nil {
		return ldrs.ProviderLoader.Load(ctx, npi)()
	}
	return s.repo.GetByNPI(ctx, npi)
}

// SpecialtyDistribution returns provider counts per specialty
func (s *ProviderService) SpecialtyDistribution(ctx context.Context) ([]entities.SpecialtyCount, error) {
	return s.repo.SpecialtyDistribution(ctx)
}

// StateDistribution returns provider counts per state
func (s *ProviderService) StateDistribution(ctx context.Context) ([]entities.StateCount, error) {
	return s.repo.StateDistribution(ctx)
}

func validNPI(npi string) bool {
	if len(npi) != npiLength {
		return false
	}
	for _, r := range npi {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

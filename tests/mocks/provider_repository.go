package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/providervault/ai-service/internal/domain/entities"
)

// MockProviderRepository is a testify mock of repositories.ProviderRepository
type MockProviderRepository struct {
	mock.Mock
}

// NewMockProviderRepository creates a mock that asserts its expectations on cleanup.
func NewMockProviderRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockProviderRepository {
	m := &MockProviderRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockProviderRepository) GetByNPI(ctx context.Context, npi string) (*entities.ProviderRecord, error) {
	args := m.Called(ctx, npi)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ProviderRecord), args.Error(1)
}

func (m *MockProviderRepository) GetByNPIs(ctx context.Context, npis []string) ([]entities.ProviderRecord, error) {
	args := m.Called(ctx, npis)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ProviderRecord), args.Error(1)
}

func (m *MockProviderRepository) ListBySpecialty(ctx context.Context, specialty string, limit int) ([]entities.ProviderRecord, error) {
	args := m.Called(ctx, specialty, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ProviderRecord), args.Error(1)
}

func (m *MockProviderRepository) ListByState(ctx context.Context, state string, limit int) ([]entities.ProviderRecord, error) {
	args := m.Called(ctx, state, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ProviderRecord), args.Error(1)
}

func (m *MockProviderRepository) ListSpecialties(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockProviderRepository) SpecialtyDistribution(ctx context.Context) ([]entities.SpecialtyCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.SpecialtyCount), args.Error(1)
}

func (m *MockProviderRepository) StateDistribution(ctx context.Context) ([]entities.StateCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.StateCount), args.Error(1)
}

func (m *MockProviderRepository) Stats(ctx context.Context) (*entities.NetworkStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.NetworkStats), args.Error(1)
}

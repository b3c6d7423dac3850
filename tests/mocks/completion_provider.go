package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/providervault/ai-service/internal/domain/entities"
)

// MockCompletionProvider is a testify mock of providers.CompletionProvider
type MockCompletionProvider struct {
	mock.Mock
}

// NewMockCompletionProvider creates a mock that asserts its expectations on cleanup.
func NewMockCompletionProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCompletionProvider {
	m := &MockCompletionProvider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCompletionProvider) Complete(ctx context.Context, req entities.CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

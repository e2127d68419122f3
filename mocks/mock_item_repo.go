package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ChrononAI/chronon-web-sub001/internal/domain"
)

// MockItemRepo is a mock implementation of port.ItemRepository.
type MockItemRepo struct {
	mock.Mock
}

func (m *MockItemRepo) GetItems(ctx context.Context) ([]domain.ItemCatalogEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ItemCatalogEntry), args.Error(1)
}

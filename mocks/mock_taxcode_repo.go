package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ChrononAI/chronon-web-sub001/internal/domain"
)

// MockTaxCodeRepo is a mock implementation of port.TaxCodeRepository.
type MockTaxCodeRepo struct {
	mock.Mock
}

func (m *MockTaxCodeRepo) SearchTDSCodes(ctx context.Context, term string) ([]domain.TDSCodeRecord, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TDSCodeRecord), args.Error(1)
}

func (m *MockTaxCodeRepo) SearchTaxCodes(ctx context.Context, term string) ([]domain.GSTCodeRecord, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GSTCodeRecord), args.Error(1)
}

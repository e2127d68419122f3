package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ChrononAI/chronon-web-sub001/internal/domain"
	"github.com/ChrononAI/chronon-web-sub001/internal/service"
	"github.com/ChrononAI/chronon-web-sub001/mocks"
)

func TestCodeService_SearchTDSCodes(t *testing.T) {
	ctx := context.Background()

	t.Run("short_term_short_circuits", func(t *testing.T) {
		codes := &mocks.MockTaxCodeRepo{}
		svc := service.NewCodeService(codes, &mocks.MockItemRepo{}, 3)

		assert.Empty(t, svc.SearchTDSCodes(ctx, "ab"))
		assert.Empty(t, svc.SearchTDSCodes(ctx, "  a  "))
		codes.AssertNotCalled(t, "SearchTDSCodes", mock.Anything, mock.Anything)
	})

	t.Run("term_is_trimmed", func(t *testing.T) {
		codes := &mocks.MockTaxCodeRepo{}
		codes.On("SearchTDSCodes", mock.Anything, "194C").
			Return([]domain.TDSCodeRecord{{Code: "194C", Percentage: 2}}, nil).Once()
		svc := service.NewCodeService(codes, &mocks.MockItemRepo{}, 3)

		records := svc.SearchTDSCodes(ctx, "  194C  ")
		require.Len(t, records, 1)
		assert.Equal(t, "194C", records[0].Code)
		codes.AssertExpectations(t)
	})

	t.Run("failure_degrades_to_empty", func(t *testing.T) {
		codes := &mocks.MockTaxCodeRepo{}
		codes.On("SearchTDSCodes", mock.Anything, "194C").
			Return(nil, errors.New("connection refused"))
		svc := service.NewCodeService(codes, &mocks.MockItemRepo{}, 3)

		assert.Empty(t, svc.SearchTDSCodes(ctx, "194C"))
	})
}

func TestCodeService_SearchGSTCodes(t *testing.T) {
	ctx := context.Background()

	t.Run("short_term_short_circuits", func(t *testing.T) {
		codes := &mocks.MockTaxCodeRepo{}
		svc := service.NewCodeService(codes, &mocks.MockItemRepo{}, 3)

		assert.Empty(t, svc.SearchGSTCodes(ctx, "gs"))
		codes.AssertNotCalled(t, "SearchTaxCodes", mock.Anything, mock.Anything)
	})

	t.Run("passes_through_results", func(t *testing.T) {
		codes := &mocks.MockTaxCodeRepo{}
		codes.On("SearchTaxCodes", mock.Anything, "G18").
			Return([]domain.GSTCodeRecord{{Code: "G18", IGSTPercentage: 18}}, nil).Once()
		svc := service.NewCodeService(codes, &mocks.MockItemRepo{}, 3)

		records := svc.SearchGSTCodes(ctx, "G18")
		require.Len(t, records, 1)
		assert.Equal(t, 18.0, records[0].IGSTPercentage)
	})
}

func TestCodeService_GetItems(t *testing.T) {
	items := &mocks.MockItemRepo{}
	items.On("GetItems", mock.Anything).
		Return([]domain.ItemCatalogEntry{{Code: "ITEM-001", Description: "Consulting"}}, nil).Once()
	svc := service.NewCodeService(&mocks.MockTaxCodeRepo{}, items, 3)

	entries, err := svc.GetItems(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ITEM-001", entries[0].Code)
}

package service_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrononAI/chronon-web-sub001/internal/domain"
	"github.com/ChrononAI/chronon-web-sub001/internal/lineitems"
	"github.com/ChrononAI/chronon-web-sub001/internal/service"
	"github.com/ChrononAI/chronon-web-sub001/mocks"
)

func newSessionService() service.SessionService {
	catalog := []domain.ItemCatalogEntry{{Code: "ITEM-001", Description: "Consulting"}}
	return service.NewSessionService(&mocks.MockTaxCodeRepo{}, catalog, lineitems.Config{
		Debounce: time.Hour,
	})
}

func TestSessionService_Lifecycle(t *testing.T) {
	svc := newSessionService()

	id, engine := svc.Open()
	require.NotNil(t, engine)

	got, err := svc.Get(id)
	require.NoError(t, err)
	assert.Same(t, engine, got)

	require.NoError(t, svc.Close(id))
	_, err = svc.Get(id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// Closing tears the engine down as well.
	_, err = engine.AddRow()
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
}

func TestSessionService_SessionsAreIsolated(t *testing.T) {
	svc := newSessionService()

	_, a := svc.Open()
	_, b := svc.Open()

	_, err := a.AddRow()
	require.NoError(t, err)
	assert.Len(t, a.Rows(), 1)
	assert.Empty(t, b.Rows())
}

func TestSessionService_UnknownSession(t *testing.T) {
	svc := newSessionService()
	_, err := svc.Get(uuid.New())
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, svc.Close(uuid.New()), domain.ErrSessionNotFound)
}

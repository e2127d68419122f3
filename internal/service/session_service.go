package service

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/ChrononAI/chronon-web-sub001/internal/domain"
	"github.com/ChrononAI/chronon-web-sub001/internal/lineitems"
	"github.com/ChrononAI/chronon-web-sub001/internal/port"
)

// SessionService manages one line-item engine per invoice editing session.
// Engines are constructed with the catalog loaded at start-up and torn down
// explicitly; no state is shared between sessions.
type SessionService interface {
	Open() (uuid.UUID, *lineitems.Engine)
	Get(sessionID uuid.UUID) (*lineitems.Engine, error)
	Close(sessionID uuid.UUID) error
}

type sessionService struct {
	mu       sync.Mutex
	codes    port.TaxCodeRepository
	catalog  []domain.ItemCatalogEntry
	cfg      lineitems.Config
	sessions map[uuid.UUID]*lineitems.Engine
}

// NewSessionService creates a new SessionService. The catalog is fetched once
// by the caller at start-up and reused for every session.
func NewSessionService(codes port.TaxCodeRepository, catalog []domain.ItemCatalogEntry, cfg lineitems.Config) SessionService {
	return &sessionService{
		codes:    codes,
		catalog:  catalog,
		cfg:      cfg,
		sessions: make(map[uuid.UUID]*lineitems.Engine),
	}
}

func (s *sessionService) Open() (uuid.UUID, *lineitems.Engine) {
	engine := lineitems.New(s.codes, s.catalog, s.cfg)
	id := uuid.New()
	s.mu.Lock()
	s.sessions[id] = engine
	s.mu.Unlock()
	log.Printf("sessionService.Open: session %s opened (catalog size %d)", id, len(s.catalog))
	return id, engine
}

func (s *sessionService) Get(sessionID uuid.UUID) (*lineitems.Engine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	engine, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return engine, nil
}

func (s *sessionService) Close(sessionID uuid.UUID) error {
	s.mu.Lock()
	engine, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()
	if !ok {
		return domain.ErrSessionNotFound
	}
	engine.Close()
	log.Printf("sessionService.Close: session %s closed", sessionID)
	return nil
}

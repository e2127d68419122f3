package service

import (
	"context"
	"log"
	"strings"

	"github.com/ChrononAI/chronon-web-sub001/internal/domain"
	"github.com/ChrononAI/chronon-web-sub001/internal/port"
)

// CodeService exposes the tax-code search APIs and the item catalog to the
// editing surface's dropdowns.
type CodeService interface {
	SearchTDSCodes(ctx context.Context, term string) []domain.TDSCodeRecord
	SearchGSTCodes(ctx context.Context, term string) []domain.GSTCodeRecord
	GetItems(ctx context.Context) ([]domain.ItemCatalogEntry, error)
}

type codeService struct {
	codes        port.TaxCodeRepository
	items        port.ItemRepository
	minSearchLen int
}

// NewCodeService creates a new CodeService implementation.
func NewCodeService(codes port.TaxCodeRepository, items port.ItemRepository, minSearchLen int) CodeService {
	if minSearchLen <= 0 {
		minSearchLen = 3
	}
	return &codeService{codes: codes, items: items, minSearchLen: minSearchLen}
}

// SearchTDSCodes looks up TDS codes by partial text. Terms below the minimum
// length short-circuit to an empty result without touching the repository,
// and lookup failures degrade to an empty result: search never blocks editing.
func (s *codeService) SearchTDSCodes(ctx context.Context, term string) []domain.TDSCodeRecord {
	term = strings.TrimSpace(term)
	if len(term) < s.minSearchLen {
		return []domain.TDSCodeRecord{}
	}
	records, err := s.codes.SearchTDSCodes(ctx, term)
	if err != nil {
		log.Printf("codeService.SearchTDSCodes: lookup %q failed: %v", term, err)
		return []domain.TDSCodeRecord{}
	}
	return records
}

// SearchGSTCodes is the GST counterpart of SearchTDSCodes.
func (s *codeService) SearchGSTCodes(ctx context.Context, term string) []domain.GSTCodeRecord {
	term = strings.TrimSpace(term)
	if len(term) < s.minSearchLen {
		return []domain.GSTCodeRecord{}
	}
	records, err := s.codes.SearchTaxCodes(ctx, term)
	if err != nil {
		log.Printf("codeService.SearchGSTCodes: lookup %q failed: %v", term, err)
		return []domain.GSTCodeRecord{}
	}
	return records
}

func (s *codeService) GetItems(ctx context.Context) ([]domain.ItemCatalogEntry, error) {
	return s.items.GetItems(ctx)
}

package port

import (
	"context"

	"github.com/ChrononAI/chronon-web-sub001/internal/domain"
)

// TDSCodeSearcher is the external TDS-code search API consumed by the engine.
type TDSCodeSearcher interface {
	SearchTDSCodes(ctx context.Context, term string) ([]domain.TDSCodeRecord, error)
}

// GSTCodeSearcher is the external GST-code search API consumed by the engine.
type GSTCodeSearcher interface {
	SearchTaxCodes(ctx context.Context, term string) ([]domain.GSTCodeRecord, error)
}

// TaxCodeRepository provides master-data access for both tax-code types.
type TaxCodeRepository interface {
	TDSCodeSearcher
	GSTCodeSearcher
}

// ItemRepository loads the item catalog. GetItems resolves each entry's
// default code references so callers receive the referenced records inline.
type ItemRepository interface {
	GetItems(ctx context.Context) ([]domain.ItemCatalogEntry, error)
}

package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ChrononAI/chronon-web-sub001/internal/domain"
	"github.com/ChrononAI/chronon-web-sub001/internal/port"
)

const searchResultLimit = 25

type taxCodeRepo struct {
	db *sqlx.DB
}

// NewTaxCodeRepo creates a new PostgreSQL-backed TaxCodeRepository.
func NewTaxCodeRepo(db *sqlx.DB) port.TaxCodeRepository {
	return &taxCodeRepo{db: db}
}

func (r *taxCodeRepo) SearchTDSCodes(ctx context.Context, term string) ([]domain.TDSCodeRecord, error) {
	var records []domain.TDSCodeRecord
	err := r.db.SelectContext(ctx, &records,
		`SELECT code, percentage, description
		 FROM tds_codes
		 WHERE code ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%'
		 ORDER BY code
		 LIMIT $2`,
		term, searchResultLimit)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *taxCodeRepo) SearchTaxCodes(ctx context.Context, term string) ([]domain.GSTCodeRecord, error) {
	var records []domain.GSTCodeRecord
	err := r.db.SelectContext(ctx, &records,
		`SELECT code, igst_percentage, cgst_percentage, sgst_percentage, utgst_percentage, description
		 FROM gst_codes
		 WHERE code ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%'
		 ORDER BY code
		 LIMIT $2`,
		term, searchResultLimit)
	if err != nil {
		return nil, err
	}
	return records, nil
}

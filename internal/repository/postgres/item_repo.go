package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ChrononAI/chronon-web-sub001/internal/domain"
	"github.com/ChrononAI/chronon-web-sub001/internal/port"
)

type itemRepo struct {
	db *sqlx.DB
}

// NewItemRepo creates a new PostgreSQL-backed ItemRepository.
func NewItemRepo(db *sqlx.DB) port.ItemRepository {
	return &itemRepo{db: db}
}

type itemRow struct {
	Code            string   `db:"code"`
	Description     string   `db:"description"`
	DefaultTDSCode  *string  `db:"default_tds_code"`
	DefaultGSTCode  *string  `db:"default_gst_code"`
	TDSPercentage   *float64 `db:"tds_percentage"`
	TDSDescription  *string  `db:"tds_description"`
	IGSTPercentage  *float64 `db:"igst_percentage"`
	CGSTPercentage  *float64 `db:"cgst_percentage"`
	SGSTPercentage  *float64 `db:"sgst_percentage"`
	UTGSTPercentage *float64 `db:"utgst_percentage"`
	GSTDescription  *string  `db:"gst_description"`
}

// GetItems loads the full catalog with each entry's default code records
// joined in, so callers can register those records without further lookups.
func (r *itemRepo) GetItems(ctx context.Context) ([]domain.ItemCatalogEntry, error) {
	var rows []itemRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT i.code, i.description, i.default_tds_code, i.default_gst_code,
		        t.percentage AS tds_percentage, t.description AS tds_description,
		        g.igst_percentage, g.cgst_percentage, g.sgst_percentage, g.utgst_percentage,
		        g.description AS gst_description
		 FROM items i
		 LEFT JOIN tds_codes t ON t.code = i.default_tds_code
		 LEFT JOIN gst_codes g ON g.code = i.default_gst_code
		 ORDER BY i.code`)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.ItemCatalogEntry, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		entry := domain.ItemCatalogEntry{
			Code:           row.Code,
			Description:    row.Description,
			DefaultTDSCode: row.DefaultTDSCode,
			DefaultGSTCode: row.DefaultGSTCode,
		}
		if row.DefaultTDSCode != nil && row.TDSPercentage != nil {
			entry.DefaultTDS = &domain.TDSCodeRecord{
				Code:        *row.DefaultTDSCode,
				Percentage:  *row.TDSPercentage,
				Description: deref(row.TDSDescription),
			}
		}
		if row.DefaultGSTCode != nil && row.IGSTPercentage != nil {
			entry.DefaultGST = &domain.GSTCodeRecord{
				Code:            *row.DefaultGSTCode,
				IGSTPercentage:  *row.IGSTPercentage,
				CGSTPercentage:  derefF(row.CGSTPercentage),
				SGSTPercentage:  derefF(row.SGSTPercentage),
				UTGSTPercentage: derefF(row.UTGSTPercentage),
				Description:     deref(row.GSTDescription),
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefF(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

package lineitems

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/ChrononAI/chronon-web-sub001/internal/domain"
)

// Expected column order on the first sheet, after one header row.
const (
	importColDescription = iota
	importColQuantity
	importColRate
	importColTDSCode
	importColGSTCode
	importColNetAmount
)

// ImportXLSX bulk-populates rows from a spreadsheet of line items. The
// imported values also become each row's baseline snapshot, so the editing
// surface can highlight what was changed after import. Imported codes are
// typed text, not selections: they go through the same debounced lookup as
// keyboard input. Returns the number of rows imported.
func (e *Engine) ImportXLSX(r io.Reader) (int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrImportFailed, err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	cells, err := f.GetRows(sheet)
	if err != nil {
		return 0, fmt.Errorf("%w: reading sheet %q: %v", domain.ErrImportFailed, sheet, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return 0, domain.ErrSessionClosed
	}

	imported := 0
	for i, cols := range cells {
		if i == 0 {
			continue // header
		}
		if isBlankRow(cols) {
			continue
		}
		e.importRowLocked(cols)
		imported++
	}
	if imported > 0 {
		e.recalcLocked()
	}
	log.Printf("lineitems.Engine: imported %d line items from sheet %q", imported, sheet)
	return imported, nil
}

func (e *Engine) importRowLocked(cols []string) {
	cell := func(idx int) string {
		if idx < len(cols) {
			return strings.TrimSpace(cols[idx])
		}
		return ""
	}

	row := domain.LineItemRow{
		ID:              uuid.New(),
		ItemDescription: cell(importColDescription),
		Rate:            cell(importColRate),
		TDSCode:         cell(importColTDSCode),
		GSTCode:         cell(importColGSTCode),
		NetAmount:       cell(importColNetAmount),
	}
	// Quantity keeps the same entry rule as typing: digits only, else blank.
	if q := cell(importColQuantity); digitsOnly(q) {
		row.Quantity = q
	}
	e.rows = append(e.rows, row)

	e.baseline[row.ID] = map[domain.RowField]string{
		domain.FieldItemDescription: cell(importColDescription),
		domain.FieldQuantity:        cell(importColQuantity),
		domain.FieldRate:            cell(importColRate),
		domain.FieldTDSCode:         cell(importColTDSCode),
		domain.FieldGSTCode:         cell(importColGSTCode),
		domain.FieldNetAmount:       cell(importColNetAmount),
	}

	e.scheduleSearch(row.ID, taxTypeTDS, row.TDSCode)
	e.scheduleSearch(row.ID, taxTypeGST, row.GSTCode)
}

func isBlankRow(cols []string) bool {
	for _, c := range cols {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

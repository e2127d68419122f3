package lineitems

import (
	"github.com/google/uuid"

	"github.com/ChrononAI/chronon-web-sub001/internal/domain"
)

// SetBaseline records an original snapshot of field values for a row,
// typically the values extracted from an imported source document.
func (e *Engine) SetBaseline(rowID uuid.UUID, values map[domain.RowField]string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return domain.ErrSessionClosed
	}
	if e.rowByID(rowID) == nil {
		return domain.ErrRowNotFound
	}
	snapshot := make(map[domain.RowField]string, len(values))
	for field, v := range values {
		snapshot[field] = v
	}
	e.baseline[rowID] = snapshot
	return nil
}

// IsChangedFromBaseline reports whether value differs from the baseline
// snapshot for the given row field. Rows without a snapshot, and fields the
// snapshot does not cover, are never "changed". This feeds presentation
// (highlighting) only and has no effect on recompute decisions.
func (e *Engine) IsChangedFromBaseline(rowID uuid.UUID, field domain.RowField, value string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	snapshot, ok := e.baseline[rowID]
	if !ok {
		return false
	}
	original, ok := snapshot[field]
	if !ok {
		return false
	}
	return original != value
}

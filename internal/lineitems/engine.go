// Package lineitems implements the invoice line-item tax computation engine:
// an ordered store of editable rows whose derived TDS/GST amounts are kept
// consistent with quantity, rate and the resolved tax-code records, with
// debounced, cached lookups against the tax-code master data.
package lineitems

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ChrononAI/chronon-web-sub001/internal/domain"
	"github.com/ChrononAI/chronon-web-sub001/internal/port"
)

// Config holds engine tuning knobs.
type Config struct {
	Debounce      time.Duration
	MinSearchLen  int
	CacheSize     int
	SearchTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Debounce <= 0 {
		c.Debounce = 300 * time.Millisecond
	}
	if c.MinSearchLen <= 0 {
		c.MinSearchLen = 3
	}
	if c.CacheSize <= 0 {
		c.CacheSize = 512
	}
	if c.SearchTimeout <= 0 {
		c.SearchTimeout = 5 * time.Second
	}
	return c
}

// Engine owns one invoice editing session: the row collection, both code
// caches, the debounce scheduler and the catalog. All state is per-instance;
// nothing is shared across sessions. Every mutation is serialized behind one
// mutex, which stands in for the single-threaded event loop the editing
// surface runs on.
type Engine struct {
	mu     sync.Mutex
	cfg    Config
	codes  port.TaxCodeRepository
	sched  *Scheduler
	closed bool

	rows     []domain.LineItemRow
	baseline map[uuid.UUID]map[domain.RowField]string

	tdsCache *CodeCache[domain.TDSCodeRecord]
	gstCache *CodeCache[domain.GSTCodeRecord]
	catalog  map[string]domain.ItemCatalogEntry

	// seq guards against out-of-order search responses: a response only
	// lands when it is still the newest issued lookup for its key.
	seq map[string]uint64
}

// New creates an engine session. The catalog is provided once and never
// refetched; records referenced by catalog default codes are pre-registered
// in the caches so selecting an item computes amounts in the same step.
func New(codes port.TaxCodeRepository, catalog []domain.ItemCatalogEntry, cfg Config) *Engine {
	e := &Engine{
		cfg:      cfg.withDefaults(),
		codes:    codes,
		sched:    NewScheduler(),
		baseline: make(map[uuid.UUID]map[domain.RowField]string),
		tdsCache: NewCodeCache[domain.TDSCodeRecord](cfg.withDefaults().CacheSize),
		gstCache: NewCodeCache[domain.GSTCodeRecord](cfg.withDefaults().CacheSize),
		catalog:  make(map[string]domain.ItemCatalogEntry, len(catalog)),
		seq:      make(map[string]uint64),
	}
	for _, entry := range catalog {
		e.catalog[entry.Code] = entry
		if entry.DefaultTDS != nil {
			e.tdsCache.Put(entry.DefaultTDS.Code, *entry.DefaultTDS)
		}
		if entry.DefaultGST != nil {
			e.gstCache.Put(entry.DefaultGST.Code, *entry.DefaultGST)
		}
	}
	return e
}

// Close tears the session down, cancelling all pending debounce timers.
// Further mutations fail with ErrSessionClosed.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.sched.Stop()
}

// AddRow appends a fresh empty row and returns a copy of it.
func (e *Engine) AddRow() (domain.LineItemRow, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return domain.LineItemRow{}, domain.ErrSessionClosed
	}
	row := domain.LineItemRow{ID: uuid.New()}
	e.rows = append(e.rows, row)
	return row, nil
}

// RemoveRow deletes a row, its baseline snapshot and any pending timers so
// no debounced callback fires against a defunct row.
func (e *Engine) RemoveRow(rowID uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return domain.ErrSessionClosed
	}
	for i := range e.rows {
		if e.rows[i].ID == rowID {
			e.rows = append(e.rows[:i], e.rows[i+1:]...)
			delete(e.baseline, rowID)
			e.sched.CancelPrefix(rowID.String() + "/")
			return nil
		}
	}
	return domain.ErrRowNotFound
}

// Rows returns the rows in insertion order. The slice is a copy.
func (e *Engine) Rows() []domain.LineItemRow {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.LineItemRow, len(e.rows))
	copy(out, e.rows)
	return out
}

// Row returns a copy of one row.
func (e *Engine) Row(rowID uuid.UUID) (domain.LineItemRow, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if row := e.rowByID(rowID); row != nil {
		return *row, nil
	}
	return domain.LineItemRow{}, domain.ErrRowNotFound
}

// UpdateField is the single mutation point for row fields. Quantity accepts
// digits only. Changing quantity, rate or either code field triggers the
// reactive recompute pass; changing a code field additionally (re)starts that
// row's debounced code search.
func (e *Engine) UpdateField(rowID uuid.UUID, field domain.RowField, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return domain.ErrSessionClosed
	}
	if !field.Valid() {
		return domain.ErrInvalidField
	}
	row := e.rowByID(rowID)
	if row == nil {
		return domain.ErrRowNotFound
	}

	switch field {
	case domain.FieldQuantity:
		if value != "" && !digitsOnly(value) {
			return domain.ErrInvalidQuantity
		}
		row.Quantity = value
		e.recalcLocked()
	case domain.FieldRate:
		row.Rate = value
		e.recalcLocked()
	case domain.FieldTDSCode:
		row.TDSCode = value
		e.scheduleSearch(rowID, taxTypeTDS, value)
		e.recalcLocked()
	case domain.FieldGSTCode:
		row.GSTCode = value
		e.scheduleSearch(rowID, taxTypeGST, value)
		e.recalcLocked()
	case domain.FieldItemDescription:
		row.ItemDescription = value
	case domain.FieldNetAmount:
		row.NetAmount = value
	case domain.FieldTDSAmount:
		row.TDSAmount = value
	case domain.FieldIGST:
		row.IGST = value
	case domain.FieldCGST:
		row.CGST = value
	case domain.FieldSGST:
		row.SGST = value
	case domain.FieldUTGST:
		row.UTGST = value
	}
	return nil
}

// SelectTDSCode applies an explicitly chosen search result: the record is
// cached, the row's code text is set and the TDS amount is recomputed
// immediately from the record itself, independent of the cache.
func (e *Engine) SelectTDSCode(rowID uuid.UUID, rec domain.TDSCodeRecord) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return domain.ErrSessionClosed
	}
	row := e.rowByID(rowID)
	if row == nil {
		return domain.ErrRowNotFound
	}
	row.TDSCode = rec.Code
	e.tdsCache.Put(rec.Code, rec)
	e.sched.Cancel(searchKey(rowID, taxTypeTDS))
	applyWrites(row, recomputeTDS(row, &rec))
	e.recalcLocked()
	return nil
}

// SelectGSTCode is the GST counterpart of SelectTDSCode; all four component
// amounts are written from the selected record's percentages.
func (e *Engine) SelectGSTCode(rowID uuid.UUID, rec domain.GSTCodeRecord) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return domain.ErrSessionClosed
	}
	row := e.rowByID(rowID)
	if row == nil {
		return domain.ErrRowNotFound
	}
	row.GSTCode = rec.Code
	e.gstCache.Put(rec.Code, rec)
	e.sched.Cancel(searchKey(rowID, taxTypeGST))
	applyWrites(row, recomputeGST(row, &rec))
	e.recalcLocked()
	return nil
}

// SelectItem applies a catalog entry to a row: the description is taken from
// the catalog, and default tax codes fill in only where the row has none set.
// A user-set code is never overwritten.
func (e *Engine) SelectItem(rowID uuid.UUID, itemCode string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return domain.ErrSessionClosed
	}
	row := e.rowByID(rowID)
	if row == nil {
		return domain.ErrRowNotFound
	}
	entry, ok := e.catalog[itemCode]
	if !ok {
		return domain.ErrItemNotFound
	}
	row.ItemDescription = entry.Description
	if strings.TrimSpace(row.TDSCode) == "" && entry.DefaultTDSCode != nil {
		row.TDSCode = *entry.DefaultTDSCode
	}
	if strings.TrimSpace(row.GSTCode) == "" && entry.DefaultGSTCode != nil {
		row.GSTCode = *entry.DefaultGSTCode
	}
	e.recalcLocked()
	return nil
}

// Recalculate runs one reactive recompute pass over all rows and returns the
// number of derived fields that were written. With no intervening input
// change a second pass writes nothing.
func (e *Engine) Recalculate() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.recalcLocked()
}

// recalcLocked re-derives every row whose code currently has a cache entry,
// in table order. Rows have no cross-row dependencies.
func (e *Engine) recalcLocked() int {
	writes := 0
	for i := range e.rows {
		row := &e.rows[i]
		var tds *domain.TDSCodeRecord
		if code := strings.TrimSpace(row.TDSCode); code != "" {
			if rec, ok := e.tdsCache.Get(code); ok {
				tds = &rec
			}
		}
		var gst *domain.GSTCodeRecord
		if code := strings.TrimSpace(row.GSTCode); code != "" {
			if rec, ok := e.gstCache.Get(code); ok {
				gst = &rec
			}
		}
		writes += applyWrites(row, Recompute(row, tds, gst))
	}
	return writes
}

func (e *Engine) rowByID(rowID uuid.UUID) *domain.LineItemRow {
	for i := range e.rows {
		if e.rows[i].ID == rowID {
			return &e.rows[i]
		}
	}
	return nil
}

type taxType string

const (
	taxTypeTDS taxType = "tds"
	taxTypeGST taxType = "gst"
)

func searchKey(rowID uuid.UUID, typ taxType) string {
	return rowID.String() + "/" + string(typ)
}

// scheduleSearch debounces a code lookup for one (row, tax-type) pair. Terms
// shorter than the minimum cancel any pending lookup and never hit the
// search API.
func (e *Engine) scheduleSearch(rowID uuid.UUID, typ taxType, term string) {
	key := searchKey(rowID, typ)
	term = strings.TrimSpace(term)
	if len(term) < e.cfg.MinSearchLen {
		e.sched.Cancel(key)
		return
	}
	e.sched.Schedule(key, e.cfg.Debounce, func() {
		e.runSearch(key, typ, term)
	})
}

// runSearch issues the lookup on the timer goroutine. A lookup failure is
// logged and swallowed: editing never blocks on search, and the next
// keystroke retries naturally. Responses superseded by a newer lookup for
// the same key are discarded entirely, cache write included.
func (e *Engine) runSearch(key string, typ taxType, term string) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.seq[key]++
	issued := e.seq[key]
	e.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.SearchTimeout)
	defer cancel()

	switch typ {
	case taxTypeTDS:
		recs, err := e.codes.SearchTDSCodes(ctx, term)
		if err != nil {
			log.Printf("lineitems.Engine: tds code search %q failed: %v", term, err)
			return
		}
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.closed || e.seq[key] != issued {
			return
		}
		for _, rec := range recs {
			e.tdsCache.Put(rec.Code, rec)
		}
		e.recalcLocked()
	case taxTypeGST:
		recs, err := e.codes.SearchTaxCodes(ctx, term)
		if err != nil {
			log.Printf("lineitems.Engine: gst code search %q failed: %v", term, err)
			return
		}
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.closed || e.seq[key] != issued {
			return
		}
		for _, rec := range recs {
			e.gstCache.Put(rec.Code, rec)
		}
		e.recalcLocked()
	}
}

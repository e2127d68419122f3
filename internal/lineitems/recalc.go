package lineitems

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ChrononAI/chronon-web-sub001/internal/domain"
)

// epsilon is the write-back tolerance: a derived value replaces the stored
// one only when they differ by more than this. Without the guard a recompute
// pass wired as a reaction to row changes would re-trigger itself forever.
var epsilon = decimal.NewFromFloat(0.01)

var hundred = decimal.NewFromInt(100)

// FieldWrite is one derived-field update produced by a recompute.
type FieldWrite struct {
	Field domain.RowField
	Value string
}

// parseQuantity parses a quantity as a non-negative integer, blank or
// invalid input counting as zero.
func parseQuantity(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" || !digitsOnly(s) {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// parseAmount parses a decimal field, blank or invalid input counting as zero.
func parseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// baseAmount returns quantity × rate, the common multiplicand for every
// derived tax amount on a row.
func baseAmount(row *domain.LineItemRow) decimal.Decimal {
	return parseQuantity(row.Quantity).Mul(parseAmount(row.Rate))
}

// deriveAmount computes round2(base × pct / 100) as a fixed-point string,
// half-up to 2 decimals.
func deriveAmount(base decimal.Decimal, pct float64) string {
	return base.Mul(decimal.NewFromFloat(pct)).Div(hundred).Round(2).StringFixed(2)
}

// needsWrite applies the epsilon guard: true when the newly derived value
// differs from the stored one by more than 0.01.
func needsWrite(current, derived string) bool {
	return parseAmount(derived).Sub(parseAmount(current)).Abs().GreaterThan(epsilon)
}

// Recompute derives the TDS amount and the four GST component amounts for a
// row from the supplied code records. A nil record leaves that tax type's
// amounts untouched, since the row's code may simply not have resolved yet.
// Only fields that actually need to change are returned.
func Recompute(row *domain.LineItemRow, tds *domain.TDSCodeRecord, gst *domain.GSTCodeRecord) []FieldWrite {
	if tds == nil && gst == nil {
		return nil
	}
	base := baseAmount(row)
	var writes []FieldWrite
	add := func(field domain.RowField, current string, pct float64) {
		if derived := deriveAmount(base, pct); needsWrite(current, derived) {
			writes = append(writes, FieldWrite{Field: field, Value: derived})
		}
	}
	if tds != nil {
		add(domain.FieldTDSAmount, row.TDSAmount, tds.Percentage)
	}
	if gst != nil {
		add(domain.FieldIGST, row.IGST, gst.IGSTPercentage)
		add(domain.FieldCGST, row.CGST, gst.CGSTPercentage)
		add(domain.FieldSGST, row.SGST, gst.SGSTPercentage)
		add(domain.FieldUTGST, row.UTGST, gst.UTGSTPercentage)
	}
	return writes
}

// recomputeTDS derives the TDS amount unconditionally, bypassing the epsilon
// guard. Used on explicit selection, where the user picked the record and the
// derived field must reflect it even when the stored text is blank.
func recomputeTDS(row *domain.LineItemRow, tds *domain.TDSCodeRecord) []FieldWrite {
	return []FieldWrite{{Field: domain.FieldTDSAmount, Value: deriveAmount(baseAmount(row), tds.Percentage)}}
}

// recomputeGST derives all four GST component amounts unconditionally.
func recomputeGST(row *domain.LineItemRow, gst *domain.GSTCodeRecord) []FieldWrite {
	base := baseAmount(row)
	return []FieldWrite{
		{Field: domain.FieldIGST, Value: deriveAmount(base, gst.IGSTPercentage)},
		{Field: domain.FieldCGST, Value: deriveAmount(base, gst.CGSTPercentage)},
		{Field: domain.FieldSGST, Value: deriveAmount(base, gst.SGSTPercentage)},
		{Field: domain.FieldUTGST, Value: deriveAmount(base, gst.UTGSTPercentage)},
	}
}

// applyWrites mutates the row with the given derived-field updates and
// returns how many fields changed.
func applyWrites(row *domain.LineItemRow, writes []FieldWrite) int {
	for _, w := range writes {
		switch w.Field {
		case domain.FieldTDSAmount:
			row.TDSAmount = w.Value
		case domain.FieldIGST:
			row.IGST = w.Value
		case domain.FieldCGST:
			row.CGST = w.Value
		case domain.FieldSGST:
			row.SGST = w.Value
		case domain.FieldUTGST:
			row.UTGST = w.Value
		}
	}
	return len(writes)
}

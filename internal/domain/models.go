package domain

import (
	"github.com/google/uuid"
)

// TDSCodeRecord is one entry of the TDS withholding-code master list.
type TDSCodeRecord struct {
	Code        string  `db:"code" json:"code"`
	Percentage  float64 `db:"percentage" json:"percentage"`
	Description string  `db:"description" json:"description"`
}

// GSTCodeRecord is one entry of the GST tax-code master list. The four
// component percentages are independent; the engine derives all four from the
// same base without enforcing mutual exclusivity.
type GSTCodeRecord struct {
	Code            string  `db:"code" json:"code"`
	IGSTPercentage  float64 `db:"igst_percentage" json:"igst_percentage"`
	CGSTPercentage  float64 `db:"cgst_percentage" json:"cgst_percentage"`
	SGSTPercentage  float64 `db:"sgst_percentage" json:"sgst_percentage"`
	UTGSTPercentage float64 `db:"utgst_percentage" json:"utgst_percentage"`
	Description     string  `db:"description" json:"description"`
}

// ItemCatalogEntry is a catalog item that may carry default tax codes.
// DefaultTDS/DefaultGST hold the referenced code records when the catalog is
// loaded with its joins, so selecting the item never needs a fresh lookup.
type ItemCatalogEntry struct {
	Code           string         `db:"code" json:"code"`
	Description    string         `db:"description" json:"description"`
	DefaultTDSCode *string        `db:"default_tds_code" json:"default_tds_code,omitempty"`
	DefaultGSTCode *string        `db:"default_gst_code" json:"default_gst_code,omitempty"`
	DefaultTDS     *TDSCodeRecord `db:"-" json:"-"`
	DefaultGST     *GSTCodeRecord `db:"-" json:"-"`
}

// LineItemRow is one editable row of an invoice. Numeric fields are kept as
// text the way the editing surface holds them; the derived tax amounts are
// 2-decimal fixed-point strings. NetAmount is display-only here and is never
// recomputed by the engine.
type LineItemRow struct {
	ID              uuid.UUID `json:"id"`
	ItemDescription string    `json:"item_description"`
	Quantity        string    `json:"quantity"`
	Rate            string    `json:"rate"`
	TDSCode         string    `json:"tds_code"`
	GSTCode         string    `json:"gst_code"`
	TDSAmount       string    `json:"tds_amount"`
	IGST            string    `json:"igst"`
	CGST            string    `json:"cgst"`
	SGST            string    `json:"sgst"`
	UTGST           string    `json:"utgst"`
	NetAmount       string    `json:"net_amount"`
}

// RowField names a mutable LineItemRow field in the update contract.
type RowField string

const (
	FieldItemDescription RowField = "item_description"
	FieldQuantity        RowField = "quantity"
	FieldRate            RowField = "rate"
	FieldTDSCode         RowField = "tds_code"
	FieldGSTCode         RowField = "gst_code"
	FieldTDSAmount       RowField = "tds_amount"
	FieldIGST            RowField = "igst"
	FieldCGST            RowField = "cgst"
	FieldSGST            RowField = "sgst"
	FieldUTGST           RowField = "utgst"
	FieldNetAmount       RowField = "net_amount"
)

// Valid reports whether f names a known row field.
func (f RowField) Valid() bool {
	switch f {
	case FieldItemDescription, FieldQuantity, FieldRate, FieldTDSCode,
		FieldGSTCode, FieldTDSAmount, FieldIGST, FieldCGST, FieldSGST,
		FieldUTGST, FieldNetAmount:
		return true
	}
	return false
}

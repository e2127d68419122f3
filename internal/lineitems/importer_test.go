package lineitems_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ChrononAI/chronon-web-sub001/internal/domain"
	"github.com/ChrononAI/chronon-web-sub001/mocks"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := []interface{}{"Description", "Quantity", "Rate", "TDS Code", "GST Code", "Net Amount"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportXLSX_PopulatesRowsAndBaseline(t *testing.T) {
	e := newTestEngine(&mocks.MockTaxCodeRepo{}, nil, neverDebounce)
	defer e.Close()

	buf := buildWorkbook(t, [][]interface{}{
		{"Laptop", "2", "45000", "", "", "90000"},
		{"Freight", "1", "1200.50", "T94C", "G18", "1200.50"},
	})

	imported, err := e.ImportXLSX(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, imported)

	rows := e.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "Laptop", rows[0].ItemDescription)
	assert.Equal(t, "2", rows[0].Quantity)
	assert.Equal(t, "45000", rows[0].Rate)
	assert.Equal(t, "T94C", rows[1].TDSCode)
	assert.Equal(t, "G18", rows[1].GSTCode)
	assert.Equal(t, "1200.50", rows[1].NetAmount)

	// Imported values are the baseline for changed-highlighting.
	assert.False(t, e.IsChangedFromBaseline(rows[0].ID, domain.FieldQuantity, "2"))
	assert.True(t, e.IsChangedFromBaseline(rows[0].ID, domain.FieldQuantity, "3"))
}

func TestImportXLSX_SkipsBlankRows(t *testing.T) {
	e := newTestEngine(&mocks.MockTaxCodeRepo{}, nil, neverDebounce)
	defer e.Close()

	buf := buildWorkbook(t, [][]interface{}{
		{"Laptop", "2", "45000", "", "", ""},
		{"", "", "", "", "", ""},
		{"Mouse", "5", "400", "", "", ""},
	})

	imported, err := e.ImportXLSX(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, imported)
	require.Len(t, e.Rows(), 2)
}

func TestImportXLSX_InvalidQuantityBlanked(t *testing.T) {
	e := newTestEngine(&mocks.MockTaxCodeRepo{}, nil, neverDebounce)
	defer e.Close()

	buf := buildWorkbook(t, [][]interface{}{
		{"Laptop", "two", "45000", "", "", ""},
	})

	_, err := e.ImportXLSX(buf)
	require.NoError(t, err)

	rows := e.Rows()
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Quantity)
	// The raw imported text is still the baseline.
	assert.False(t, e.IsChangedFromBaseline(rows[0].ID, domain.FieldQuantity, "two"))
}

func TestImportXLSX_ImportedCodesResolveViaSearch(t *testing.T) {
	repo := &mocks.MockTaxCodeRepo{}
	repo.On("SearchTDSCodes", mock.Anything, "T94C").
		Return([]domain.TDSCodeRecord{{Code: "T94C", Percentage: 10}}, nil).Once()

	e := newTestEngine(repo, nil, fastDebounce)
	defer e.Close()

	buf := buildWorkbook(t, [][]interface{}{
		{"Consulting", "5", "200", "T94C", "", "1000"},
	})
	_, err := e.ImportXLSX(buf)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		rows := e.Rows()
		return len(rows) == 1 && rows[0].TDSAmount == "100.00"
	}, time.Second, time.Millisecond)
}

func TestImportXLSX_NotASpreadsheet(t *testing.T) {
	e := newTestEngine(&mocks.MockTaxCodeRepo{}, nil, neverDebounce)
	defer e.Close()

	_, err := e.ImportXLSX(strings.NewReader("definitely not xlsx"))
	assert.ErrorIs(t, err, domain.ErrImportFailed)
	assert.Empty(t, e.Rows())
}

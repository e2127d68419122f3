// Command seedcodes converts the tax-code master workbook into a SQL seed
// file covering the TDS_Master, GST_Master and Item_Master sheets.
// Usage: go run ./cmd/seedcodes [workbook.xlsx]
// Output: db/seeds/master_data.sql
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const batchSize = 500

type tdsCode struct {
	code        string
	percentage  float64
	description string
}

type gstCode struct {
	code        string
	igst        float64
	cgst        float64
	sgst        float64
	utgst       float64
	description string
}

type item struct {
	code           string
	description    string
	defaultTDSCode string // empty = NULL
	defaultGSTCode string // empty = NULL
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	xlsxPath := "Tax Code Master.xlsx"
	if len(os.Args) > 1 {
		xlsxPath = os.Args[1]
	}
	outPath := "db/seeds/master_data.sql"

	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	tdsCodes, err := parseTDSSheet(f)
	if err != nil {
		return fmt.Errorf("parse TDS sheet: %w", err)
	}
	log.Printf("TDS sheet: %d entries", len(tdsCodes))

	gstCodes, err := parseGSTSheet(f)
	if err != nil {
		return fmt.Errorf("parse GST sheet: %w", err)
	}
	log.Printf("GST sheet: %d entries", len(gstCodes))

	items, err := parseItemSheet(f)
	if err != nil {
		return fmt.Errorf("parse item sheet: %w", err)
	}
	log.Printf("item sheet: %d entries", len(items))

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	w := func(s string) error { _, werr := fmt.Fprintln(out, s); return werr }

	for _, line := range []string{
		"-- Tax-code and item-catalog seed data generated from the master workbook.",
		fmt.Sprintf("-- %d TDS codes, %d GST codes, %d items in batches of %d.",
			len(tdsCodes), len(gstCodes), len(items), batchSize),
		"BEGIN;",
		"",
	} {
		if werr := w(line); werr != nil {
			return fmt.Errorf("write header: %w", werr)
		}
	}

	if err := writeTDSInserts(w, tdsCodes); err != nil {
		return err
	}
	if err := writeGSTInserts(w, gstCodes); err != nil {
		return err
	}
	if err := writeItemInserts(w, items); err != nil {
		return err
	}

	if err := w("COMMIT;"); err != nil {
		return fmt.Errorf("write footer: %w", err)
	}
	log.Printf("wrote %s", outPath)
	return nil
}

func parseTDSSheet(f *excelize.File) ([]tdsCode, error) {
	rows, err := f.GetRows("TDS_Master")
	if err != nil {
		return nil, err
	}
	var out []tdsCode
	seen := make(map[string]bool)
	for i, cols := range rows {
		if i == 0 || len(cols) < 2 {
			continue
		}
		code := strings.TrimSpace(cols[0])
		if code == "" || seen[code] {
			continue
		}
		pct, err := strconv.ParseFloat(strings.TrimSpace(cols[1]), 64)
		if err != nil {
			log.Printf("TDS_Master row %d: bad percentage %q, skipping", i+1, cols[1])
			continue
		}
		seen[code] = true
		out = append(out, tdsCode{code: code, percentage: pct, description: cell(cols, 2)})
	}
	return out, nil
}

func parseGSTSheet(f *excelize.File) ([]gstCode, error) {
	rows, err := f.GetRows("GST_Master")
	if err != nil {
		return nil, err
	}
	var out []gstCode
	seen := make(map[string]bool)
	for i, cols := range rows {
		if i == 0 || len(cols) < 5 {
			continue
		}
		code := strings.TrimSpace(cols[0])
		if code == "" || seen[code] {
			continue
		}
		pcts := make([]float64, 4)
		bad := false
		for j := 0; j < 4; j++ {
			pct, err := strconv.ParseFloat(strings.TrimSpace(cols[j+1]), 64)
			if err != nil {
				log.Printf("GST_Master row %d: bad percentage %q, skipping", i+1, cols[j+1])
				bad = true
				break
			}
			pcts[j] = pct
		}
		if bad {
			continue
		}
		seen[code] = true
		out = append(out, gstCode{
			code: code, igst: pcts[0], cgst: pcts[1], sgst: pcts[2], utgst: pcts[3],
			description: cell(cols, 5),
		})
	}
	return out, nil
}

func parseItemSheet(f *excelize.File) ([]item, error) {
	rows, err := f.GetRows("Item_Master")
	if err != nil {
		return nil, err
	}
	var out []item
	seen := make(map[string]bool)
	for i, cols := range rows {
		if i == 0 || len(cols) < 2 {
			continue
		}
		code := strings.TrimSpace(cols[0])
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, item{
			code:           code,
			description:    cell(cols, 1),
			defaultTDSCode: cell(cols, 2),
			defaultGSTCode: cell(cols, 3),
		})
	}
	return out, nil
}

func cell(cols []string, idx int) string {
	if idx < len(cols) {
		return strings.TrimSpace(cols[idx])
	}
	return ""
}

func writeTDSInserts(w func(string) error, codes []tdsCode) error {
	for start := 0; start < len(codes); start += batchSize {
		end := start + batchSize
		if end > len(codes) {
			end = len(codes)
		}
		if err := w("INSERT INTO tds_codes (code, percentage, description) VALUES"); err != nil {
			return err
		}
		for i, c := range codes[start:end] {
			sep := ","
			if start+i == end-1 {
				sep = ""
			}
			line := fmt.Sprintf("  (%s, %g, %s)%s", quote(c.code), c.percentage, quote(c.description), sep)
			if err := w(line); err != nil {
				return err
			}
		}
		if err := w("ON CONFLICT (code) DO NOTHING;"); err != nil {
			return err
		}
		if err := w(""); err != nil {
			return err
		}
	}
	return nil
}

func writeGSTInserts(w func(string) error, codes []gstCode) error {
	for start := 0; start < len(codes); start += batchSize {
		end := start + batchSize
		if end > len(codes) {
			end = len(codes)
		}
		if err := w("INSERT INTO gst_codes (code, igst_percentage, cgst_percentage, sgst_percentage, utgst_percentage, description) VALUES"); err != nil {
			return err
		}
		for i, c := range codes[start:end] {
			sep := ","
			if start+i == end-1 {
				sep = ""
			}
			line := fmt.Sprintf("  (%s, %g, %g, %g, %g, %s)%s",
				quote(c.code), c.igst, c.cgst, c.sgst, c.utgst, quote(c.description), sep)
			if err := w(line); err != nil {
				return err
			}
		}
		if err := w("ON CONFLICT (code) DO NOTHING;"); err != nil {
			return err
		}
		if err := w(""); err != nil {
			return err
		}
	}
	return nil
}

func writeItemInserts(w func(string) error, items []item) error {
	for start := 0; start < len(items); start += batchSize {
		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}
		if err := w("INSERT INTO items (code, description, default_tds_code, default_gst_code) VALUES"); err != nil {
			return err
		}
		for i, it := range items[start:end] {
			sep := ","
			if start+i == end-1 {
				sep = ""
			}
			line := fmt.Sprintf("  (%s, %s, %s, %s)%s",
				quote(it.code), quote(it.description), quoteOrNull(it.defaultTDSCode), quoteOrNull(it.defaultGSTCode), sep)
			if err := w(line); err != nil {
				return err
			}
		}
		if err := w("ON CONFLICT (code) DO NOTHING;"); err != nil {
			return err
		}
		if err := w(""); err != nil {
			return err
		}
	}
	return nil
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteOrNull(s string) string {
	if s == "" {
		return "NULL"
	}
	return quote(s)
}

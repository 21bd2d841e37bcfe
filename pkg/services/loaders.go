package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dev-shahrooz/Smart-Pricing/pkg/models"
)

var (
	bomColumns      = []string{"product_code", "part_name", "quantity", "unit_price_usd"}
	salesColumns    = []string{"month", "product_code", "price", "units_sold"}
	dateLayouts     = []string{"2006-01-02", time.RFC3339, "2006/01/02", "2006-1-2", "20060102"}
	minFXLoaderRows = MinFXHistory
)

// readRows returns the raw rows of a CSV upload or the first sheet of an XLSX upload.
func readRows(filename string, r io.Reader) ([][]string, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx":
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, invalid(filename, 0, "", fmt.Sprintf("cannot open workbook: %v", err))
		}
		defer f.Close()
		rows, err := f.GetRows(f.GetSheetName(0))
		if err != nil {
			return nil, invalid(filename, 0, "", fmt.Sprintf("cannot read first sheet: %v", err))
		}
		return rows, nil
	case ".csv", "":
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1
		cr.TrimLeadingSpace = true
		rows, err := cr.ReadAll()
		if err != nil {
			return nil, invalid(filename, 0, "", fmt.Sprintf("malformed CSV: %v", err))
		}
		return rows, nil
	default:
		return nil, invalid(filename, 0, "", fmt.Sprintf("unsupported file type %q, upload .csv or .xlsx", ext))
	}
}

// LoadBOM parses a bill of materials. Every row must carry a product code, a part name,
// an integer quantity and a numeric USD unit price.
func LoadBOM(filename string, r io.Reader) ([]models.BomItem, error) {
	const src = "bom"
	rows, err := readRows(filename, r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, invalid(src, 0, "", "file is empty")
	}

	idx, err := requireColumns(src, normalizeHeader(rows[0]), bomColumns)
	if err != nil {
		return nil, err
	}

	items := make([]models.BomItem, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 2
		if isBlank(row) {
			continue
		}
		code := cell(row, idx[0])
		part := cell(row, idx[1])
		if code == "" {
			return nil, invalid(src, rowNum, "product_code", "is empty")
		}
		if part == "" {
			return nil, invalid(src, rowNum, "part_name", "is empty")
		}
		qty, err := parseInt(cell(row, idx[2]))
		if err != nil {
			return nil, invalid(src, rowNum, "quantity", "must be an integer")
		}
		if qty < 0 {
			return nil, invalid(src, rowNum, "quantity", "must not be negative")
		}
		price, err := parseNumber(cell(row, idx[3]))
		if err != nil {
			return nil, invalid(src, rowNum, "unit_price_usd", "must be numeric")
		}
		if price < 0 {
			return nil, invalid(src, rowNum, "unit_price_usd", "must not be negative")
		}
		items = append(items, models.BomItem{ProductCode: code, PartName: part, Quantity: qty, UnitPriceUSD: price})
	}
	if len(items) == 0 {
		return nil, invalid(src, 0, "", "no BOM rows found")
	}
	return items, nil
}

// GroupBOM keys items by product code, keeping file order within each product.
func GroupBOM(items []models.BomItem) map[string][]models.BomItem {
	out := make(map[string][]models.BomItem)
	for _, item := range items {
		out[item.ProductCode] = append(out[item.ProductCode], item)
	}
	return out
}

// LoadSales parses month,product_code,price,units_sold rows. The header row is optional.
func LoadSales(filename string, r io.Reader) (map[string][]models.SalesRecord, error) {
	const src = "sales"
	rows, err := readRows(filename, r)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]models.SalesRecord)
	count := 0
	for i, row := range rows {
		rowNum := i + 1
		if isBlank(row) {
			continue
		}
		if i == 0 && equalHeader(normalizeHeader(row), salesColumns) {
			continue
		}
		if len(row) != len(salesColumns) {
			return nil, invalid(src, rowNum, "", fmt.Sprintf("expected %d columns, got %d", len(salesColumns), len(row)))
		}
		month := strings.TrimSpace(row[0])
		if month == "" {
			return nil, invalid(src, rowNum, "month", "is empty")
		}
		code := strings.TrimSpace(row[1])
		if code == "" {
			return nil, invalid(src, rowNum, "product_code", "is empty")
		}
		price, err := parseInt(row[2])
		if err != nil {
			return nil, invalid(src, rowNum, "price", "must be an integer")
		}
		units, err := parseInt(row[3])
		if err != nil {
			return nil, invalid(src, rowNum, "units_sold", "must be an integer")
		}
		if price < 0 {
			return nil, invalid(src, rowNum, "price", "must not be negative")
		}
		if units < 0 {
			return nil, invalid(src, rowNum, "units_sold", "must not be negative")
		}
		out[code] = append(out[code], models.SalesRecord{
			Month:       month,
			ProductCode: code,
			Price:       price,
			UnitsSold:   units,
		})
		count++
	}
	if count == 0 {
		return nil, invalid(src, 0, "", "no sales rows found")
	}
	return out, nil
}

// LoadFXHistory parses date,rate rows (usd_irr is accepted for rate) and returns them
// sorted ascending by date. Duplicate dates are kept.
func LoadFXHistory(filename string, r io.Reader) ([]models.FxHistoryPoint, error) {
	const src = "fx history"
	rows, err := readRows(filename, r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, invalid(src, 0, "", "file is empty")
	}

	header := normalizeHeader(rows[0])
	dateIdx := findIndex(header, []string{"date"})
	rateIdx := findIndex(header, []string{"rate", "usd_irr"})
	if dateIdx == -1 || rateIdx == -1 {
		return nil, invalid(src, 1, "", "columns date and rate are required")
	}

	points := make([]models.FxHistoryPoint, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 2
		if isBlank(row) {
			continue
		}
		dt, ok := parseAnyDate(cell(row, dateIdx), dateLayouts)
		if !ok {
			return nil, invalid(src, rowNum, "date", "must be YYYY-MM-DD")
		}
		rate, err := parseNumber(cell(row, rateIdx))
		if err != nil {
			return nil, invalid(src, rowNum, "rate", "must be numeric")
		}
		if rate <= 0 {
			return nil, invalid(src, rowNum, "rate", "must be positive")
		}
		points = append(points, models.FxHistoryPoint{Date: dt, Rate: rate})
	}
	if len(points) < minFXLoaderRows {
		return nil, invalid(src, 0, "", fmt.Sprintf("need at least %d rows, got %d", minFXLoaderRows, len(points)))
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}

// LoadComponentPurchases parses purchase history for component price training.
// Rows with an unreadable date, part name or price are dropped.
func LoadComponentPurchases(filename string, r io.Reader) ([]models.ComponentPurchase, error) {
	const src = "component purchases"
	rows, err := readRows(filename, r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, invalid(src, 0, "", "file is empty")
	}

	header := normalizeHeader(rows[0])
	dateIdx := findIndex(header, []string{"date"})
	partIdx := findIndex(header, []string{"part_name"})
	priceIdx := findIndex(header, []string{"unit_price_usd"})
	qtyIdx := findIndex(header, []string{"qty", "quantity"})
	sourceIdx := findIndex(header, []string{"source"})
	if dateIdx == -1 || partIdx == -1 || priceIdx == -1 {
		return nil, invalid(src, 1, "", "columns date, part_name and unit_price_usd are required")
	}

	var out []models.ComponentPurchase
	for _, row := range rows[1:] {
		dt, ok := parseAnyDate(cell(row, dateIdx), dateLayouts)
		if !ok {
			continue
		}
		part := cell(row, partIdx)
		if part == "" {
			continue
		}
		price, err := parseNumber(cell(row, priceIdx))
		if err != nil {
			continue
		}
		qty, _ := parseNumber(cell(row, qtyIdx))
		out = append(out, models.ComponentPurchase{
			Date:         dt,
			PartName:     part,
			UnitPriceUSD: price,
			Qty:          qty,
			Source:       cell(row, sourceIdx),
		})
	}
	return out, nil
}

func requireColumns(src string, header, required []string) ([]int, error) {
	idx := make([]int, len(required))
	var missing []string
	for i, col := range required {
		idx[i] = findIndex(header, []string{col})
		if idx[i] == -1 {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, invalid(src, 1, "", "missing columns: "+strings.Join(missing, ", "))
	}
	return idx, nil
}

func equalHeader(header, want []string) bool {
	if len(header) != len(want) {
		return false
	}
	for i := range want {
		if header[i] != want[i] {
			return false
		}
	}
	return true
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseInt accepts integers, including spreadsheet renderings such as "3.0".
func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return int(f), nil
}

// thousandsGrouped matches numbers written with comma thousands separators, e.g. 58,000.5.
var thousandsGrouped = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// parseNumber accepts plain decimals and comma thousands grouping. Any other comma, such as
// a decimal comma in "1,5", is rejected rather than guessed.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		if !thousandsGrouped.MatchString(s) {
			return 0, fmt.Errorf("ambiguous number: %q", s)
		}
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not finite: %q", s)
	}
	return v, nil
}

func parseAnyDate(s string, layouts []string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return day(t), true
		}
	}
	// try the date part if a time is included
	if i := strings.IndexAny(s, " T"); i > 0 {
		part := s[:i]
		for _, layout := range layouts {
			if t, err := time.Parse(layout, part); err == nil {
				return day(t), true
			}
		}
	}
	return time.Time{}, false
}

func normalizeHeader(hdr []string) []string {
	out := make([]string, len(hdr))
	for i, v := range hdr {
		// Remove UTF-8 BOM if present, then trim and lowercase
		v = strings.TrimPrefix(v, "\ufeff")
		out[i] = strings.ToLower(strings.TrimSpace(v))
	}
	return out
}

func findIndex(hdr []string, candidates []string) int {
	for i, v := range hdr {
		for _, c := range candidates {
			if v == c {
				return i
			}
		}
	}
	return -1
}

func day(t time.Time) time.Time { return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC) }

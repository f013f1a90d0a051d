package dataset

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"forestcli/internal/errors"
)

// RawRow is one data row as read from an input file, before any
// validation or type conversion. Line is the 1-based position in the
// source file, used in diagnostics.
type RawRow struct {
	Line   int
	Region string
	Year   string
	Area   string
}

// columnIndices maps the three required columns to their positions in
// the input header.
type columnIndices struct {
	region int
	year   int
	area   int
}

// ReadRaw loads the raw observation rows from a CSV or Excel file.
// The format is chosen by extension; anything that is not .xlsx or
// .xlsm is treated as CSV.
//
// It fails with a FILE_NOT_FOUND error when the path does not exist,
// a SCHEMA error when the header cannot be mapped to the region, year
// and area columns, and an EMPTY_INPUT error when the file has a
// header but no data rows.
func ReadRaw(path string) ([]RawRow, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.NewFileNotFoundError(path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readRawExcel(path)
	default:
		return readRawCSV(path)
	}
}

// readRawCSV reads raw rows from a CSV file.
func readRawCSV(path string) ([]RawRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open input file", err).
			WithContext("path", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // rows are validated individually

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewSchemaError("failed to parse CSV input", err).
			WithContext("path", path)
	}

	return rawRowsFromCells(rows, path)
}

// readRawExcel reads raw rows from the first sheet of an Excel workbook.
func readRawExcel(path string) ([]RawRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewSchemaError("failed to open Excel workbook", err).
			WithContext("path", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewEmptyInputError("workbook has no sheets").
			WithContext("path", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.NewSchemaError("failed to read worksheet rows", err).
			WithContext("path", path).
			WithContext("sheet", sheets[0])
	}

	return rawRowsFromCells(rows, path)
}

// rawRowsFromCells maps untyped sheet cells to RawRows using the header.
func rawRowsFromCells(rows [][]string, path string) ([]RawRow, error) {
	if len(rows) == 0 {
		return nil, errors.NewEmptyInputError("input file is empty").
			WithContext("path", path)
	}

	header := rows[0]
	if len(header) > 0 {
		// Strip UTF-8 BOM that Excel prepends to CSV exports.
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	if len(rows) == 1 {
		return nil, errors.NewEmptyInputError("input has a header but no data rows").
			WithContext("path", path)
	}

	raw := make([]RawRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		raw = append(raw, RawRow{
			Line:   i + 2, // 1-based, after the header
			Region: cellAt(row, cols.region),
			Year:   cellAt(row, cols.year),
			Area:   cellAt(row, cols.area),
		})
	}

	return raw, nil
}

// mapColumns locates the region, year and area columns in the header.
// Matching is case-insensitive and tolerates the spellings seen in the
// wild: "Region", "Year", "Forest_Area_Hectares", "Forest_Cover_ha".
func mapColumns(header []string) (columnIndices, error) {
	cols := columnIndices{region: -1, year: -1, area: -1}

	for i, name := range header {
		lower := strings.ToLower(strings.TrimSpace(name))
		switch {
		case cols.region < 0 && strings.Contains(lower, "region"):
			cols.region = i
		case cols.year < 0 && strings.Contains(lower, "year"):
			cols.year = i
		case cols.area < 0 && (strings.Contains(lower, "area") ||
			strings.Contains(lower, "cover") ||
			strings.Contains(lower, "hectare")):
			cols.area = i
		}
	}

	var missing []string
	if cols.region < 0 {
		missing = append(missing, ColumnRegion)
	}
	if cols.year < 0 {
		missing = append(missing, ColumnYear)
	}
	if cols.area < 0 {
		missing = append(missing, ColumnArea)
	}

	if len(missing) > 0 {
		return cols, errors.NewSchemaError(
			fmt.Sprintf("header is missing required columns: %s", strings.Join(missing, ", ")), nil).
			WithContext("header", strings.Join(header, ","))
	}

	return cols, nil
}

// cellAt returns the trimmed cell value, or "" when the row is shorter
// than the header. Excel readers drop trailing empty cells.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// LoadRecords reads an already-cleaned table from a CSV file. Malformed
// rows are skipped with a warning so one bad line does not sink a
// report run; the analyzer rejects the table if nothing valid remains.
func LoadRecords(path string) ([]Record, error) {
	raw, err := ReadRaw(path)
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, row := range raw {
		rec, err := parseRecord(row)
		if err != nil {
			slog.Warn("skipping malformed row",
				slog.String("file", filepath.Base(path)),
				slog.Int("line", row.Line),
				slog.String("error", err.Error()))
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, errors.NewEmptyInputError("no valid data rows in input").
			WithContext("path", path)
	}

	return records, nil
}

// parseRecord converts a raw row into a typed record.
func parseRecord(row RawRow) (Record, error) {
	if row.Region == "" {
		return Record{}, errors.NewRowValidationError(row.Line, "region is empty")
	}

	year, err := strconv.Atoi(row.Year)
	if err != nil {
		return Record{}, errors.NewRowValidationError(row.Line,
			fmt.Sprintf("year %q is not an integer", row.Year))
	}

	area, err := parseArea(row.Area)
	if err != nil {
		return Record{}, errors.NewRowValidationError(row.Line,
			fmt.Sprintf("area %q is not a valid number", row.Area))
	}
	if area < 0 {
		return Record{}, errors.NewRowValidationError(row.Line,
			fmt.Sprintf("area %v is negative", area))
	}

	return Record{Region: row.Region, Year: year, AreaHectares: area}, nil
}

// parseArea parses an area cell, rejecting NaN and infinities, which
// strconv.ParseFloat would otherwise accept.
func parseArea(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}

	return v, nil
}

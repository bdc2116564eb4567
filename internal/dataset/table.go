// internal/dataset/table.go
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "ticket-classifier/internal/common/errors"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

// DetectFormat picks the dataset format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported dataset format %q", filepath.Ext(path))
}

// Table is a header row plus data rows, as read from a sheet or CSV file.
type Table struct {
	Header []string
	Rows   [][]string
}

// ReadTable reads the named sheet (or the first one) of an xlsx file, or a CSV file.
// Fully blank rows are skipped.
func ReadTable(path, sheet string) (*Table, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, apperrors.NewInputReadFailedError(path, err)
	}

	var rows [][]string
	switch format {
	case FormatXLSX:
		rows, err = readSheet(path, sheet)
	case FormatCSV:
		rows, err = readCSV(path)
	default:
		err = fmt.Errorf("%s files are not tabular", format)
	}
	if err != nil {
		return nil, apperrors.NewInputReadFailedError(path, err)
	}
	return newTable(rows), nil
}

func readSheet(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	return f.GetRows(sheet)
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return parseCSV(file)
}

func parseCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader.ReadAll()
}

func newTable(rows [][]string) *Table {
	t := &Table{}
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		if t.Header == nil {
			t.Header = row
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	if len(t.Header) > 0 {
		t.Header[0] = strings.TrimPrefix(t.Header[0], "\ufeff")
	}
	return t
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Column returns the index of the first header matching any name, compared
// case-insensitively after trimming, or -1.
func (t *Table) Column(names ...string) int {
	for _, name := range names {
		for i, h := range t.Header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
	}
	return -1
}

// Cell returns the value at col in row, or "" when the row is short or col is -1.
func Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

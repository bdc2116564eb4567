// internal/dataset/writer.go
package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "ticket-classifier/internal/common/errors"
	"ticket-classifier/internal/models"
)

// ClassifiedColumns is the header of the classified ticket table.
var ClassifiedColumns = []string{
	"ticket_id",
	"description",
	"cleaned_description",
	"assigned_category",
	"matched_categories",
}

// Artifact is a rendered output file that has not been written yet.
type Artifact struct {
	Path string
	Data []byte
}

// Write replaces the file at a.Path through a temporary file in the same directory.
func (a Artifact) Write() error {
	dir := filepath.Dir(a.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.NewOutputWriteFailedError(a.Path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(a.Path)+".*")
	if err != nil {
		return apperrors.NewOutputWriteFailedError(a.Path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(a.Data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return apperrors.NewOutputWriteFailedError(a.Path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return apperrors.NewOutputWriteFailedError(a.Path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return apperrors.NewOutputWriteFailedError(a.Path, err)
	}
	if err := os.Rename(tmpName, a.Path); err != nil {
		os.Remove(tmpName)
		return apperrors.NewOutputWriteFailedError(a.Path, err)
	}
	return nil
}

// classifiedRecord renders one result in ClassifiedColumns order.
func classifiedRecord(r models.ClassificationResult) []string {
	return []string{
		r.TicketID,
		r.Description,
		r.NormalizedDescription,
		r.AssignedCategory,
		FormatCategoryList(r.MatchedCategories),
	}
}

// RenderClassified encodes results as xlsx or CSV, chosen by the path extension.
func RenderClassified(path string, results []models.ClassificationResult) (Artifact, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return Artifact{}, apperrors.NewOutputWriteFailedError(path, err)
	}

	var data []byte
	switch format {
	case FormatXLSX:
		data, err = renderXLSX(results)
	case FormatCSV:
		data, err = renderCSV(results)
	default:
		err = fmt.Errorf("cannot write classified tickets as %s", format)
	}
	if err != nil {
		return Artifact{}, apperrors.NewOutputWriteFailedError(path, err)
	}
	return Artifact{Path: path, Data: data}, nil
}

func renderXLSX(results []models.ClassificationResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := setRow(f, sheet, 1, ClassifiedColumns); err != nil {
		return nil, err
	}
	for i, r := range results {
		if err := setRow(f, sheet, i+2, classifiedRecord(r)); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return f.SetSheetRow(sheet, cell, &row)
}

func renderCSV(results []models.ClassificationResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(ClassifiedColumns); err != nil {
		return nil, err
	}
	for _, r := range results {
		if err := w.Write(classifiedRecord(r)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteClassified renders and writes the classified ticket table.
func WriteClassified(path string, results []models.ClassificationResult) error {
	a, err := RenderClassified(path, results)
	if err != nil {
		return err
	}
	return a.Write()
}

// FormatCategoryList renders matched categories as a bracketed list of quoted
// names, for example ['Billing', 'Technical'].
func FormatCategoryList(categories []string) string {
	quoted := make([]string, len(categories))
	for i, c := range categories {
		quoted[i] = quoteName(c)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func quoteName(s string) string {
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		return `"` + strings.ReplaceAll(s, `\`, `\\`) + `"`
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(s) + "'"
}

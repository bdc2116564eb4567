// internal/dataset/dataset_test.go
package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ticket-classifier/internal/classification"
	apperrors "ticket-classifier/internal/common/errors"
	"ticket-classifier/internal/common/logger"
	"ticket-classifier/internal/models"
)

// ==========================
// Test Helpers
// ==========================

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeWorkbook(t *testing.T, name string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, f.SaveAs(path))
	return path
}

// ==========================
// Tables
// ==========================

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path     string
		expected Format
		wantErr  bool
	}{
		{path: "tickets.xlsx", expected: FormatXLSX},
		{path: "TICKETS.XLSM", expected: FormatXLSX},
		{path: "tickets.csv", expected: FormatCSV},
		{path: "keywords.yml", expected: FormatYAML},
		{path: "keywords.yaml", expected: FormatYAML},
		{path: "tickets.txt", wantErr: true},
		{path: "tickets", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			f, err := DetectFormat(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f)
		})
	}
}

func TestReadTable_CSV(t *testing.T) {
	path := writeFile(t, "t.csv", "\ufeffTicket_ID,Description\n\n1,\"Hello, world\"\n2\n,,\n")

	table, err := ReadTable(path, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"Ticket_ID", "Description"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, 0, table.Column("ticket_id"))
	assert.Equal(t, 1, table.Column(" DESCRIPTION "))
	assert.Equal(t, -1, table.Column("category"))
	assert.Equal(t, "Hello, world", Cell(table.Rows[0], 1))
	assert.Equal(t, "", Cell(table.Rows[1], 1))
	assert.Equal(t, "", Cell(table.Rows[1], -1))
}

func TestReadTable_Errors(t *testing.T) {
	_, err := ReadTable(filepath.Join(t.TempDir(), "missing.xlsx"), "")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInputReadFailed))

	_, err = ReadTable("notes.txt", "")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInputReadFailed))

	path := writeWorkbook(t, "t.xlsx", [][]interface{}{{"ticket_id", "description"}})
	_, err = ReadTable(path, "NoSuchSheet")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInputReadFailed))
}

// ==========================
// Tickets
// ==========================

func TestLoadTickets_XLSX(t *testing.T) {
	path := writeWorkbook(t, "tickets.xlsx", [][]interface{}{
		{"ticket_id", "description"},
		{"T1", "Invoice #123 is wrong"},
		{"", "no id here"},
		{" T3 ", "  "},
	})

	tickets, err := LoadTickets(path, "", logger.NewTestLogger(t))
	require.NoError(t, err)

	assert.Equal(t, []models.Ticket{
		{ID: "T1", Description: "Invoice #123 is wrong"},
		{ID: "", Description: "no id here"},
		{ID: "T3", Description: "  "},
	}, tickets)
}

func TestLoadTickets_IDColumnAlias(t *testing.T) {
	path := writeFile(t, "tickets.csv", "id,description\n7,app crash\n")

	tickets, err := LoadTickets(path, "", logger.NewNoOpLogger())
	require.NoError(t, err)
	assert.Equal(t, []models.Ticket{{ID: "7", Description: "app crash"}}, tickets)
}

func TestLoadTickets_MissingDescriptionColumn(t *testing.T) {
	path := writeFile(t, "tickets.csv", "ticket_id,subject\n1,hello\n")

	tickets, err := LoadTickets(path, "", logger.NewNoOpLogger())
	require.NoError(t, err)
	assert.Equal(t, []models.Ticket{{ID: "1", Description: ""}}, tickets)
}

// ==========================
// Keywords
// ==========================

func TestLoadTickets_BlankRowsDoNotCountAsDataRows(t *testing.T) {
	path := writeFile(t, "tickets.csv", "ticket_id,description\n,first\n,,\n\n,second\n")

	tickets, err := LoadTickets(path, "", logger.NewNoOpLogger())
	require.NoError(t, err)
	require.Len(t, tickets, 2)

	results, _ := classification.New(classification.NewKeywordMap(), classification.DefaultOptions()).ClassifyAll(tickets)
	assert.Equal(t, "row_0", results[0].TicketID)
	assert.Equal(t, "row_1", results[1].TicketID)
	assert.Equal(t, "second", results[1].Description)
}

func TestLoadKeywordMap_ReservedCategorySkipped(t *testing.T) {
	path := writeFile(t, "keywords.csv", "category,keywords\nOthers,misc\nBilling,invoice\n")

	km, err := LoadKeywordMap(path, "", logger.NewNoOpLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"Billing"}, km.Categories())
	assert.Contains(t, SkippedCategoryReason("Others"), "reserved")
	assert.Equal(t, "blank category, row skipped", SkippedCategoryReason(" "))
}

func TestLoadKeywordMap_XLSX(t *testing.T) {
	path := writeWorkbook(t, "category_keywords.xlsx", [][]interface{}{
		{"category", "keywords"},
		{"Billing", "Invoice, payment ,refund"},
		{"", "orphan"},
		{"Technical", "error,crash"},
		{"Empty"},
	})

	km, err := LoadKeywordMap(path, "", logger.NewTestLogger(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"Billing", "Technical", "Empty"}, km.Categories())
	assert.Equal(t, []string{"invoice", "payment", "refund"}, km.Keywords("Billing"))
	assert.Empty(t, km.Keywords("Empty"))
}

func TestLoadKeywordMap_CSVRequiresCategoryColumn(t *testing.T) {
	path := writeFile(t, "kw.csv", "name,keywords\nBilling,invoice\n")

	_, err := LoadKeywordMap(path, "", logger.NewNoOpLogger())
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInputReadFailed))
}

func TestLoadKeywordMap_YAML(t *testing.T) {
	path := writeFile(t, "keywords.yaml", strings.Join([]string{
		"Technical:",
		"  - Error",
		"  - crash",
		"Billing: invoice, payment",
		"Shipping:",
		"Account: [login, password reset]",
	}, "\n"))

	km, err := LoadKeywordMap(path, "", logger.NewNoOpLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{"Technical", "Billing", "Shipping", "Account"}, km.Categories())
	assert.Equal(t, []string{"error", "crash"}, km.Keywords("Technical"))
	assert.Equal(t, []string{"invoice", "payment"}, km.Keywords("Billing"))
	assert.Empty(t, km.Keywords("Shipping"))
	assert.Equal(t, []string{"login", "password reset"}, km.Keywords("Account"))
}

func TestLoadKeywordMap_YAMLErrors(t *testing.T) {
	tests := map[string]string{
		"not a mapping": "- a\n- b\n",
		"nested map":    "Billing:\n  a: b\n",
		"bad syntax":    "Billing: [unclosed\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, "kw.yaml", content)
			_, err := LoadKeywordMap(path, "", logger.NewNoOpLogger())
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInputReadFailed))
		})
	}
}

func TestLoadKeywordMap_EmptyYAML(t *testing.T) {
	path := writeFile(t, "kw.yaml", "")

	km, err := LoadKeywordMap(path, "", logger.NewNoOpLogger())
	require.NoError(t, err)
	assert.Equal(t, 0, km.Len())
}

// ==========================
// Outputs
// ==========================

func sampleResults() []models.ClassificationResult {
	return []models.ClassificationResult{
		{
			TicketID:              "T1",
			Description:           "Invoice error",
			NormalizedDescription: "invoice error",
			AssignedCategory:      "Billing",
			MatchedCategories:     []string{"Billing", "Technical"},
		},
		{
			TicketID:              "row_1",
			Description:           "hello",
			NormalizedDescription: "hello",
			AssignedCategory:      models.FallbackCategory,
			MatchedCategories:     []string{},
		},
	}
}

func TestFormatCategoryList(t *testing.T) {
	assert.Equal(t, "[]", FormatCategoryList(nil))
	assert.Equal(t, "['Billing']", FormatCategoryList([]string{"Billing"}))
	assert.Equal(t, "['Billing', 'Technical']", FormatCategoryList([]string{"Billing", "Technical"}))
	assert.Equal(t, `["Customer's Account"]`, FormatCategoryList([]string{"Customer's Account"}))
	assert.Equal(t, `['a\'b"c']`, FormatCategoryList([]string{`a'b"c`}))
}

func TestWriteClassified_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "tickets_classified.xlsx")
	require.NoError(t, WriteClassified(path, sampleResults()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetList()[0])
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, ClassifiedColumns, rows[0])
	assert.Equal(t, []string{"T1", "Invoice error", "invoice error", "Billing", "['Billing', 'Technical']"}, rows[1])
	assert.Equal(t, []string{"row_1", "hello", "hello", "Others", "[]"}, rows[2])
}

func TestWriteClassified_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickets_classified.csv")
	require.NoError(t, WriteClassified(path, sampleResults()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"ticket_id,description,cleaned_description,assigned_category,matched_categories\n"+
			"T1,Invoice error,invoice error,Billing,\"['Billing', 'Technical']\"\n"+
			"row_1,hello,hello,Others,[]\n",
		string(data))

	table, err := ReadTable(path, "")
	require.NoError(t, err)
	assert.Len(t, table.Rows, 2)
}

func TestRenderClassified_UnsupportedFormat(t *testing.T) {
	_, err := RenderClassified("out.yaml", sampleResults())
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeOutputWriteFailed))
}

func TestArtifactWrite_ReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "summary.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	require.NoError(t, Artifact{Path: path, Data: []byte("new")}.Write())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestArtifactWrite_Failure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := Artifact{Path: filepath.Join(blocker, "summary.json"), Data: []byte("{}")}.Write()
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeOutputWriteFailed))
}

func TestEncodeSummary(t *testing.T) {
	s := models.NewSummary()
	s.Record(models.ClassificationResult{TicketID: "1", AssignedCategory: "R&D", MatchedCategories: []string{"R&D"}})
	s.Record(models.ClassificationResult{TicketID: "2", Description: "café <b>", AssignedCategory: models.FallbackCategory})

	data, err := EncodeSummary(s)
	require.NoError(t, err)

	assert.Equal(t, `{
  "total_tickets": 2,
  "counts_per_category": {
    "R&D": 1,
    "Others": 1
  },
  "unclassified_count": 1,
  "unclassified_tickets": [
    {
      "ticket_id": "2",
      "description": "café <b>"
    }
  ]
}`, string(data))
}

func TestEncodeSummary_ZeroValue(t *testing.T) {
	data, err := EncodeSummary(models.Summary{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total_tickets":0,"counts_per_category":{},"unclassified_count":0,"unclassified_tickets":[]}`, string(data))
}

func TestWriteSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	require.NoError(t, WriteSummary(path, models.NewSummary()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{\n  \"total_tickets\": 0"))
}

// ==========================
// Inputs
// ==========================

func TestCheckInputs(t *testing.T) {
	present := writeFile(t, "tickets.xlsx", "")
	missingA := filepath.Join(t.TempDir(), "a.xlsx")
	missingB := filepath.Join(t.TempDir(), "b.xlsx")

	assert.NoError(t, CheckInputs(present))

	err := CheckInputs(present, missingA, missingB)
	require.Error(t, err)
	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeMissingInput, stdErr.Code)
	assert.Equal(t, []string{missingA, missingB}, stdErr.Metadata["paths"])
}

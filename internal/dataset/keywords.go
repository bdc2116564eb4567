// internal/dataset/keywords.go
package dataset

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"ticket-classifier/internal/classification"
	apperrors "ticket-classifier/internal/common/errors"
	"ticket-classifier/internal/common/logger"
	"ticket-classifier/internal/common/metrics"
	"ticket-classifier/internal/models"
)

const datasetKeywords = "keywords"

// LoadKeywordMap reads the category keyword dataset from an xlsx, CSV or YAML
// file. Category order in the file is the match priority.
func LoadKeywordMap(path, sheet string, log logger.Logger) (*classification.KeywordMap, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, apperrors.NewInputReadFailedError(path, err)
	}

	var km *classification.KeywordMap
	if format == FormatYAML {
		km, err = loadKeywordYAML(path, log)
	} else {
		km, err = loadKeywordTable(path, sheet, log)
	}
	if err != nil {
		return nil, err
	}

	log.Info("keyword map loaded", map[string]interface{}{
		"path":       path,
		"categories": km.Len(),
		"keywords":   km.KeywordCount(),
	})
	return km, nil
}

func loadKeywordTable(path, sheet string, log logger.Logger) (*classification.KeywordMap, error) {
	table, err := ReadTable(path, sheet)
	if err != nil {
		return nil, err
	}

	catCol := table.Column("category")
	kwCol := table.Column("keywords")
	if catCol < 0 {
		return nil, apperrors.NewInputReadFailedError(path, fmt.Errorf("keyword dataset has no category column"))
	}

	km := classification.NewKeywordMap()
	for i, row := range table.Rows {
		category := Cell(row, catCol)
		cell := Cell(row, kwCol)
		if !km.SetCell(category, cell) {
			MalformedKeywordRow(log, i, SkippedCategoryReason(category))
			continue
		}
		if strings.TrimSpace(cell) == "" {
			MalformedKeywordRow(log, i, ReasonNoKeywords)
		}
	}
	return km, nil
}

// loadKeywordYAML reads a mapping of category to a keyword list or a
// comma-separated string, keeping document order.
func loadKeywordYAML(path string, log logger.Logger) (*classification.KeywordMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewInputReadFailedError(path, err)
	}

	km := classification.NewKeywordMap()

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.NewInputReadFailedError(path, err)
	}
	if len(doc.Content) == 0 {
		return km, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, apperrors.NewInputReadFailedError(path, fmt.Errorf("expected a mapping of category to keywords at line %d", root.Line))
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		row := i / 2

		var keywords []string
		switch value.Kind {
		case yaml.SequenceNode:
			if err := value.Decode(&keywords); err != nil {
				return nil, apperrors.NewInputReadFailedError(path, fmt.Errorf("category %q: %w", key.Value, err))
			}
		case yaml.ScalarNode:
			if value.Tag != "!!null" {
				keywords = strings.Split(value.Value, ",")
			}
		default:
			return nil, apperrors.NewInputReadFailedError(path, fmt.Errorf("category %q: keywords must be a list or a string", key.Value))
		}

		if !km.Set(key.Value, keywords) {
			MalformedKeywordRow(log, row, SkippedCategoryReason(key.Value))
			continue
		}
		if len(km.Keywords(strings.TrimSpace(key.Value))) == 0 {
			MalformedKeywordRow(log, row, ReasonNoKeywords)
		}
	}
	return km, nil
}

const ReasonNoKeywords = "category has no keywords"

// SkippedCategoryReason explains why a keyword row with this category was not declared.
func SkippedCategoryReason(category string) string {
	if classification.IsReservedCategory(category) {
		return fmt.Sprintf("category %q is reserved for unmatched tickets, row skipped", models.FallbackCategory)
	}
	return "blank category, row skipped"
}

// MalformedKeywordRow logs and counts a keyword row that was skipped or degraded.
func MalformedKeywordRow(log logger.Logger, row int, reason string) {
	metrics.MalformedRows.WithLabelValues(datasetKeywords).Inc()
	log.Warn("malformed keyword row", map[string]interface{}{"row": row, "reason": reason})
}

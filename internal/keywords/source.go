// internal/keywords/source.go
package keywords

import (
	"context"

	"ticket-classifier/internal/classification"
	"ticket-classifier/internal/common/logger"
	"ticket-classifier/internal/dataset"
)

// Source loads the category keyword map. Implementations return categories in
// match priority order.
type Source interface {
	Load(ctx context.Context) (*classification.KeywordMap, error)
	Name() string
}

// FileSource reads the keyword map from an xlsx, CSV or YAML file on every Load.
type FileSource struct {
	Path   string
	Sheet  string
	logger logger.Logger
}

func NewFileSource(path, sheet string, log logger.Logger) *FileSource {
	return &FileSource{Path: path, Sheet: sheet, logger: log}
}

func (s *FileSource) Load(ctx context.Context) (*classification.KeywordMap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := dataset.CheckInputs(s.Path); err != nil {
		return nil, err
	}
	return dataset.LoadKeywordMap(s.Path, s.Sheet, s.logger)
}

func (s *FileSource) Name() string {
	return "file:" + s.Path
}

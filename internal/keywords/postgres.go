// internal/keywords/postgres.go
package keywords

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"ticket-classifier/internal/classification"
	apperrors "ticket-classifier/internal/common/errors"
	"ticket-classifier/internal/common/logger"
	"ticket-classifier/internal/dataset"
)

// LoadCategoriesQuery reads categories in priority order. keywords is a
// comma-separated cell, the same shape as the spreadsheet column.
const LoadCategoriesQuery = `
		SELECT category, keywords
		FROM ticket_categories
		ORDER BY position, id`

// PostgresSource reads the keyword map from the ticket_categories table.
type PostgresSource struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresSource(db *sql.DB, log logger.Logger) *PostgresSource {
	return &PostgresSource{db: db, logger: log}
}

func (s *PostgresSource) Name() string {
	return "postgres:ticket_categories"
}

func (s *PostgresSource) Load(ctx context.Context) (*classification.KeywordMap, error) {
	rows, err := s.db.QueryContext(ctx, LoadCategoriesQuery)
	if err != nil {
		return nil, s.queryError(ctx, err)
	}
	defer rows.Close()

	km := classification.NewKeywordMap()
	for row := 0; rows.Next(); row++ {
		var category, cell sql.NullString
		if err := rows.Scan(&category, &cell); err != nil {
			return nil, s.queryError(ctx, err)
		}
		if !km.SetCell(category.String, cell.String) {
			dataset.MalformedKeywordRow(s.logger, row, dataset.SkippedCategoryReason(category.String))
			continue
		}
		if len(km.Keywords(strings.TrimSpace(category.String))) == 0 {
			dataset.MalformedKeywordRow(s.logger, row, dataset.ReasonNoKeywords)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, s.queryError(ctx, err)
	}
	return km, nil
}

func (s *PostgresSource) queryError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewQueryTimeoutError(LoadCategoriesQuery, err)
	}
	return apperrors.NewQueryExecutionFailedError(LoadCategoriesQuery, err)
}

// internal/report/report.go
package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"ticket-classifier/internal/classification"
	"ticket-classifier/internal/common/config"
	apperrors "ticket-classifier/internal/common/errors"
	"ticket-classifier/internal/common/logger"
	"ticket-classifier/internal/common/metrics"
	"ticket-classifier/internal/common/validation"
	"ticket-classifier/internal/dataset"
	"ticket-classifier/internal/keywords"
	"ticket-classifier/internal/models"
)

const (
	statusSuccess = "success"
	statusFailure = "failure"
)

// Result is the outcome of one batch run.
type Result struct {
	RunID   string
	Results []models.ClassificationResult
	Summary models.Summary
	Elapsed time.Duration
}

// Run classifies the configured ticket dataset and writes both output files.
// Inputs are checked before anything is read, and both outputs are rendered
// before either is written, so a failed run leaves no partial output.
func Run(ctx context.Context, cfg *config.Config, src keywords.Source, log logger.Logger, out io.Writer) (*Result, error) {
	start := time.Now()
	runID := uuid.New().String()
	log = log.WithFields(map[string]interface{}{"runId": runID})

	res, err := run(ctx, cfg, src, log, out)
	elapsed := time.Since(start)
	if err != nil {
		metrics.RecordRun(statusFailure, elapsed)
		log.Error("classification run failed", map[string]interface{}{
			"error":    err.Error(),
			"category": errorCategory(err),
		})
		return nil, err
	}

	res.RunID = runID
	res.Elapsed = elapsed
	metrics.RecordRun(statusSuccess, elapsed)
	metrics.RecordSummary(res.Summary)

	log.Info("classification run finished", map[string]interface{}{
		"total":        res.Summary.TotalTickets,
		"unclassified": res.Summary.UnclassifiedCount,
		"categories":   res.Summary.CountsPerCategory.Len(),
		"durationMs":   elapsed.Milliseconds(),
	})
	return res, nil
}

func run(ctx context.Context, cfg *config.Config, src keywords.Source, log logger.Logger, out io.Writer) (*Result, error) {
	required := []string{cfg.Input.TicketsPath}
	if cfg.Input.KeywordSource == config.KeywordSourceFile {
		required = append(required, cfg.Input.KeywordsPath)
	}
	if err := dataset.CheckInputs(required...); err != nil {
		return nil, err
	}

	tickets, err := dataset.LoadTickets(cfg.Input.TicketsPath, cfg.Input.TicketsSheet, log)
	if err != nil {
		return nil, err
	}

	km, err := src.Load(ctx)
	if err != nil {
		if _, ok := apperrors.AsStandardError(err); !ok {
			err = apperrors.NewKeywordSourceFailedError(src.Name(), err)
		}
		return nil, err
	}
	if km.Len() == 0 {
		log.Warn("keyword map is empty, every ticket will be unclassified", map[string]interface{}{
			"source": src.Name(),
		})
	}

	results, summary := classification.New(km, cfg.Classifier.Options()).ClassifyAll(tickets)

	if err := ValidateSummary(summary); err != nil {
		return nil, err
	}

	classified, err := dataset.RenderClassified(cfg.Output.ClassifiedPath, results)
	if err != nil {
		return nil, err
	}
	summaryFile, err := dataset.RenderSummary(cfg.Output.SummaryPath, summary)
	if err != nil {
		return nil, err
	}

	for _, a := range []dataset.Artifact{classified, summaryFile} {
		if err := a.Write(); err != nil {
			return nil, err
		}
	}

	fmt.Fprintf(out, "Saved classified tickets -> %s\n", cfg.Output.ClassifiedPath)
	fmt.Fprintf(out, "Saved summary -> %s\n", cfg.Output.SummaryPath)
	PrintSummary(out, summary)

	return &Result{Results: results, Summary: summary}, nil
}

// ValidateSummary checks the summary document against the published schema.
func ValidateSummary(s models.Summary) error {
	result, err := validation.SummarySchema.ValidateDocument(s)
	if err != nil {
		return apperrors.NewSummaryValidationFailedError(err.Error())
	}
	if !result.Valid {
		return apperrors.NewSummaryValidationFailedError(result.Error())
	}
	return nil
}

func errorCategory(err error) string {
	if stdErr, ok := apperrors.AsStandardError(err); ok {
		return apperrors.GetErrorCategory(stdErr.Code)
	}
	return "OTHER"
}

// internal/workers/classification/classify-batch/handler.go
package classifybatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"ticket-classifier/internal/classification"
	"ticket-classifier/internal/common/config"
	"ticket-classifier/internal/common/errors"
	"ticket-classifier/internal/common/logger"
	"ticket-classifier/internal/common/metrics"
	"ticket-classifier/internal/common/observability"
	"ticket-classifier/internal/common/validation"
	"ticket-classifier/internal/keywords"
	"ticket-classifier/internal/models"
)

const TaskType = "classify-batch"

type Handler struct {
	config       *Config
	source       keywords.Source
	errorHandler *errors.ErrorHandler
	obs          *observability.Observability
	logger       logger.Logger
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Source        keywords.Source
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := opts.CustomConfig
	if cfg == nil {
		cfg = ConfigFrom(opts.AppConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Source == nil {
		return nil, fmt.Errorf("%s requires a keyword source", TaskType)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:       cfg,
		source:       opts.Source,
		errorHandler: errors.NewErrorHandler(log),
		obs:          opts.Observability,
		logger:       log,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Debug("processing job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	output, err := h.process(ctx, job)
	if err != nil {
		stdErr := errors.Normalize(err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
		h.record(ctx, "failure", start, nil)
		h.errorHandler.HandleJobError(ctx, client, job, stdErr)
		return
	}

	h.completeJob(ctx, client, job, output)
	h.record(ctx, "success", start, &output.Summary)
}

func (h *Handler) process(ctx context.Context, job entities.Job) (*Output, error) {
	input, err := ParseInput(job.GetVariables())
	if err != nil {
		return nil, err
	}
	return h.Execute(ctx, input)
}

// ParseInput validates raw job variables against the batch schema and decodes them.
func ParseInput(variables string) (*Input, error) {
	result, err := validation.ClassifyBatchInputSchema.ValidateJSON([]byte(variables))
	if err != nil {
		return nil, errors.NewInvalidJobInputError(err.Error())
	}
	if !result.Valid {
		return nil, errors.NewInvalidJobInputError(result.Error())
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(variables)))
	dec.UseNumber()
	var input Input
	if err := dec.Decode(&input); err != nil {
		return nil, errors.NewInvalidJobInputError(err.Error())
	}
	return &input, nil
}

// Execute classifies every ticket of the batch in order and validates the summary.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInvalidJobInputError("input cannot be nil")
	}

	if h.config.MaxBatchSize > 0 && len(input.Tickets) > h.config.MaxBatchSize {
		return nil, errors.NewInvalidJobInputError(fmt.Sprintf("batch of %d tickets exceeds the limit of %d", len(input.Tickets), h.config.MaxBatchSize))
	}

	km, err := h.source.Load(ctx)
	if err != nil {
		if _, ok := errors.AsStandardError(err); !ok {
			err = errors.NewKeywordSourceFailedError(h.source.Name(), err)
		}
		return nil, err
	}

	opts := h.config.Options()
	if input.PreferFirstMatch != nil {
		opts.PreferFirstMatch = *input.PreferFirstMatch
	}

	tickets := make([]models.Ticket, len(input.Tickets))
	for i, t := range input.Tickets {
		tickets[i] = models.Ticket{
			ID:          strings.TrimSpace(classification.TextValue(t.TicketID)),
			Description: classification.TextValue(t.Description),
		}
	}

	results, summary := classification.New(km, opts).ClassifyAll(tickets)

	check, err := validation.SummarySchema.ValidateDocument(summary)
	if err != nil {
		return nil, errors.NewSummaryValidationFailedError(err.Error())
	}
	if !check.Valid {
		return nil, errors.NewSummaryValidationFailedError(check.Error())
	}

	return &Output{
		RunID:   uuid.New().String(),
		Results: results,
		Summary: summary,
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.GetKey()).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	h.logger.Info("batch classified", map[string]interface{}{
		"jobKey":       job.GetKey(),
		"runId":        output.RunID,
		"total":        output.Summary.TotalTickets,
		"unclassified": output.Summary.UnclassifiedCount,
	})
}

func (h *Handler) record(ctx context.Context, status string, start time.Time, summary *models.Summary) {
	elapsed := time.Since(start)
	if status == "success" {
		metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	}
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(elapsed.Seconds())
	if summary != nil {
		metrics.RecordSummary(*summary)
	}
	if h.obs != nil {
		h.obs.RecordJobProcessed(ctx, TaskType, status)
		h.obs.RecordJobDuration(ctx, TaskType, elapsed, status)
		if summary != nil {
			h.obs.RecordTickets(ctx, TaskType, summary.TotalTickets-summary.UnclassifiedCount, summary.UnclassifiedCount)
		}
	}
}

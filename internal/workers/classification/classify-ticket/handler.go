// internal/workers/classification/classify-ticket/handler.go
package classifyticket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

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

const TaskType = "classify-ticket"

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

	input, err := ParseInput(job.GetVariables())
	if err == nil {
		var output *Output
		output, err = h.Execute(ctx, input)
		if err == nil {
			h.completeJob(ctx, client, job, output)
			h.record(ctx, "success", start)
			return
		}
	}

	stdErr := errors.Normalize(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.record(ctx, "failure", start)
	h.errorHandler.HandleJobError(ctx, client, job, stdErr)
}

// ParseInput validates raw job variables against the input schema and decodes
// them. Numbers are kept in their JSON text form.
func ParseInput(variables string) (*Input, error) {
	if strings.TrimSpace(variables) == "" {
		variables = "{}"
	}

	result, err := validation.ClassifyTicketInputSchema.ValidateJSON([]byte(variables))
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

// Execute loads the keyword map and classifies one ticket.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInvalidJobInputError("input cannot be nil")
	}

	km, err := h.source.Load(ctx)
	if err != nil {
		if _, ok := errors.AsStandardError(err); !ok {
			err = errors.NewKeywordSourceFailedError(h.source.Name(), err)
		}
		return nil, err
	}

	ticket := models.Ticket{
		ID:          strings.TrimSpace(classification.TextValue(input.TicketID)),
		Description: classification.TextValue(input.Description),
	}
	if ticket.ID == "" {
		ticket.ID = models.PositionalID(input.RowIndex)
	}

	r := classification.New(km, h.config.Options()).Classify(ticket)

	return &Output{
		TicketID:              r.TicketID,
		NormalizedDescription: r.NormalizedDescription,
		AssignedCategory:      r.AssignedCategory,
		MatchedCategories:     r.MatchedCategories,
		Unclassified:          r.Unclassified(),
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

	h.logger.Info("ticket classified", map[string]interface{}{
		"jobKey":           job.GetKey(),
		"ticketId":         output.TicketID,
		"assignedCategory": output.AssignedCategory,
	})
}

func (h *Handler) record(ctx context.Context, status string, start time.Time) {
	elapsed := time.Since(start)
	if status == "success" {
		metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	}
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(elapsed.Seconds())
	if h.obs != nil {
		h.obs.RecordJobProcessed(ctx, TaskType, status)
		h.obs.RecordJobDuration(ctx, TaskType, elapsed, status)
	}
}

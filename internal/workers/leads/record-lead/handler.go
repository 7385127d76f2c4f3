// internal/workers/leads/record-lead/handler.go
package recordlead

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"pump-advisor/internal/advisor/conversation"
	"pump-advisor/internal/common/errors"
	"pump-advisor/internal/common/logger"
	"pump-advisor/internal/common/metrics"
	"pump-advisor/internal/common/zoho"
)

const (
	TaskType = "record-pump-lead"
)

// CRM is the part of the Zoho client the worker needs.
type CRM interface {
	CreateLead(ctx context.Context, lead *zoho.Lead) (string, error)
}

type Handler struct {
	config       *Config
	db           *sql.DB
	crm          CRM
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
	now          func() time.Time
}

// NewHandler builds the worker. crm may be nil when the CRM integration is off.
func NewHandler(config *Config, db *sql.DB, crm CRM, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		db:           db,
		crm:          crm,
		logger:       l,
		errorHandler: errors.NewErrorHandler(l),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.ErrCodeInvalidLeadInput)).Inc()
		h.errorHandler.HandleJobError(ctx, client, job,
			errors.NewInvalidLeadInputError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.Normalize(err).Code)).Inc()
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.SessionID == "" {
		return nil, errors.NewInvalidLeadInputError("sessionId is required")
	}
	if input.Recommendation.ComputedAt.IsZero() {
		return nil, errors.NewInvalidLeadInputError("recommendation.computedAt is required")
	}

	rec := input.Recommendation
	sum := summarize(rec)
	recordedAt := h.now()

	// A redelivered job finds the row from the earlier attempt.
	var leadID, crmID string
	err := h.db.QueryRowContext(ctx, `
		SELECT id, COALESCE(crm_id, '') FROM pump_leads
		WHERE session_id = $1 AND computed_at = $2`,
		input.SessionID, rec.ComputedAt).Scan(&leadID, &crmID)
	switch {
	case err == nil:
		if crmID != "" || h.crm == nil {
			return nil, errors.NewDuplicateLeadError(leadID)
		}
		h.logger.Info("lead already stored, resuming CRM sync", map[string]interface{}{
			"leadId": leadID,
		})
	case stderrors.Is(err, sql.ErrNoRows):
		leadID, err = h.insertLead(ctx, input, sum, recordedAt)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.NewDatabaseInsertFailedError(fmt.Errorf("duplicate check failed: %w", err))
	}

	if h.crm != nil {
		crmID, err = h.crm.CreateLead(ctx, &zoho.Lead{
			LastName:     "Advisor chat " + shortID(input.SessionID),
			City:         input.Location,
			Source:       h.config.LeadSource,
			Description:  conversation.Summary(input.Data),
			UsageType:    input.UsageType,
			PumpModel:    sum.pumpModel,
			PanelsNeeded: sum.panels,
			Qualified:    rec.IsValid,
		})
		if err != nil {
			return nil, errors.NewCRMSyncFailedError(err)
		}
		if _, err := h.db.ExecContext(ctx,
			`UPDATE pump_leads SET crm_id = $1 WHERE id = $2`, crmID, leadID); err != nil {
			h.logger.Warn("crm id update failed", map[string]interface{}{
				"error":  err.Error(),
				"leadId": leadID,
				"crmId":  crmID,
			})
		}
	}

	h.logger.Info("lead recorded", map[string]interface{}{
		"leadId":    leadID,
		"sessionId": input.SessionID,
		"outcome":   rec.Outcome(),
		"crmId":     crmID,
	})

	return &Output{
		LeadID:       leadID,
		CRMID:        crmID,
		Qualified:    rec.IsValid,
		Outcome:      rec.Outcome(),
		PumpModel:    sum.pumpModel,
		PanelsNeeded: sum.panels,
		DailyGallons: sum.dailyGallons,
		RecordedAt:   recordedAt,
	}, nil
}

func (h *Handler) insertLead(ctx context.Context, input *Input, sum summary, recordedAt time.Time) (string, error) {
	leadID := uuid.New().String()

	dataJSON, err := json.Marshal(input.Data)
	if err != nil {
		return "", errors.NewDatabaseInsertFailedError(fmt.Errorf("marshal data: %w", err))
	}
	recJSON, err := json.Marshal(input.Recommendation)
	if err != nil {
		return "", errors.NewDatabaseInsertFailedError(fmt.Errorf("marshal recommendation: %w", err))
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO pump_leads (
			id, session_id, location, usage_type, outcome, qualified,
			pump_model, panels_needed, daily_gallons, data, recommendation,
			computed_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		leadID,
		input.SessionID,
		input.Location,
		input.UsageType,
		input.Recommendation.Outcome(),
		input.Recommendation.IsValid,
		sum.pumpModel,
		sum.panels,
		sum.dailyGallons,
		dataJSON,
		recJSON,
		input.Recommendation.ComputedAt,
		recordedAt,
	)
	if err != nil {
		return "", errors.NewDatabaseInsertFailedError(fmt.Errorf("insert failed: %w", err))
	}

	auditJSON, err := json.Marshal(map[string]interface{}{
		"sessionId": input.SessionID,
		"outcome":   input.Recommendation.Outcome(),
		"pumpModel": sum.pumpModel,
	})
	if err != nil {
		auditJSON = []byte("{}")
	}
	if _, err := h.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"lead_recorded", "pump_lead", leadID, auditJSON, recordedAt,
	); err != nil {
		h.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":  err.Error(),
			"leadId": leadID,
		})
	}

	return leadID, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

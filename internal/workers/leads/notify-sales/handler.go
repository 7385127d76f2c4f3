// internal/workers/leads/notify-sales/handler.go
package notifysales

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"pump-advisor/internal/common/errors"
	"pump-advisor/internal/common/logger"
	"pump-advisor/internal/common/metrics"
)

const (
	TaskType = "notify-sales"
)

type EmailSender interface {
	SendText(ctx context.Context, to, subject, body string) (string, error)
}

type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

// Handler tells the sales team about qualified leads. Email always goes
// out when enabled; large systems also page by SMS.
type Handler struct {
	config       *Config
	email        EmailSender
	sms          SMSSender
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
	now          func() time.Time
}

func NewHandler(config *Config, email EmailSender, sms SMSSender, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		email:        email,
		sms:          sms,
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
	if input.LeadID == "" {
		return nil, errors.NewInvalidLeadInputError("leadId is required")
	}

	out := &Output{
		NotificationID: uuid.New().String(),
		Status:         StatusDisabled,
		SentAt:         h.now().Format(time.RFC3339),
	}

	if !input.Qualified {
		h.logger.Info("lead not qualified, no notification", map[string]interface{}{
			"leadId":  input.LeadID,
			"outcome": input.Outcome,
		})
		out.Status = StatusSkipped
		return out, nil
	}

	if h.config.EmailEnabled && h.email != nil && h.config.SalesEmail != "" {
		id, err := h.email.SendText(ctx, h.config.SalesEmail, emailSubject(input), emailBody(input))
		if err != nil {
			return nil, errors.NewNotificationSendFailedError("email", err)
		}
		out.EmailMessageID = id
		out.Status = StatusSent
	}

	if h.wantsSMS(input) {
		id, err := h.sms.SendSMS(ctx, h.config.SalesPhone, smsText(input))
		if err != nil {
			// best effort once the email is out
			h.logger.Warn("sales SMS failed", map[string]interface{}{
				"error":  err.Error(),
				"leadId": input.LeadID,
			})
		} else {
			out.SMSMessageID = id
			out.Status = StatusSent
		}
	}

	h.logger.Info("sales notified", map[string]interface{}{
		"leadId":         input.LeadID,
		"status":         out.Status,
		"notificationId": out.NotificationID,
		"sms":            out.SMSMessageID != "",
	})
	return out, nil
}

func (h *Handler) wantsSMS(input *Input) bool {
	return h.config.SMSEnabled &&
		h.sms != nil &&
		h.config.SalesPhone != "" &&
		input.PanelsNeeded >= h.config.SMSPanelThreshold
}

func emailSubject(in *Input) string {
	return fmt.Sprintf("New pump lead: %s, %d panels (%s)", in.PumpModel, in.PanelsNeeded, orUnknown(in.Location))
}

func emailBody(in *Input) string {
	var b strings.Builder
	b.WriteString("A new qualified lead came in through the pump advisor.\n\n")
	fmt.Fprintf(&b, "Lead: %s\n", in.LeadID)
	fmt.Fprintf(&b, "Session: %s\n", in.SessionID)
	if in.CRMID != "" {
		fmt.Fprintf(&b, "CRM record: %s\n", in.CRMID)
	}
	fmt.Fprintf(&b, "Location: %s\n", orUnknown(in.Location))
	fmt.Fprintf(&b, "Usage: %s\n", orUnknown(in.UsageType))
	fmt.Fprintf(&b, "Daily water need: %.0f gallons\n", in.DailyGallons)
	fmt.Fprintf(&b, "Pump: %s\n", in.PumpModel)
	fmt.Fprintf(&b, "Solar panels: %d\n", in.PanelsNeeded)
	return b.String()
}

func smsText(in *Input) string {
	return fmt.Sprintf("Pump lead %s: %s with %d panels in %s",
		in.LeadID, in.PumpModel, in.PanelsNeeded, orUnknown(in.Location))
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
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

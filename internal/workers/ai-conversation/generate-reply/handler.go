// internal/workers/ai-conversation/generate-reply/handler.go
package generatereply

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "pump-advisor/internal/common/errors"
	"pump-advisor/internal/common/metrics"
	"pump-advisor/internal/models"
)

const (
	Name = "generate-reply"
)

var (
	ErrReplyTimeout = errors.New("REPLY_TIMEOUT")
	ErrReplyFailed  = errors.New("REPLY_GENERATION_FAILED")
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Handler calls the text generation service with bounded retries.
type Handler struct {
	config   *Config
	client   *http.Client
	logger   Logger
	sleep    func(ctx context.Context, d time.Duration) error
	complete func(ctx context.Context, input *Input) (string, error)
}

// NewHandler talks to the generation service over its JSON HTTP API.
func NewHandler(config *Config, log Logger) *Handler {
	h := &Handler{
		config: config,
		// deadlines come from the caller's context
		client: &http.Client{},
		logger: log.With(map[string]interface{}{"component": Name}),
		sleep:  sleepCtx,
	}
	h.complete = h.call
	return h
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// backoff is 100ms, 200ms, 400ms... before the 2nd, 3rd, 4th attempt.
func backoff(attempt int) time.Duration {
	return time.Duration(100*(1<<(attempt-1))) * time.Millisecond
}

// Generate implements the chat reply generator. Failures are returned as
// REPLY_TIMEOUT or REPLY_GENERATION_FAILED standard errors.
func (h *Handler) Generate(ctx context.Context, systemContext string, transcript []models.Turn) (string, error) {
	input := &Input{SystemContext: systemContext, Messages: toMessages(transcript, h.config.MaxTranscriptTurns)}

	start := time.Now()
	out, err := h.Execute(ctx, input)
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}
	metrics.ReplyDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, ErrReplyTimeout) {
			return "", apperrors.NewReplyTimeoutError()
		}
		return "", apperrors.NewReplyGenerationFailedError(err)
	}
	return out.Reply, nil
}

func toMessages(transcript []models.Turn, limit int) []Message {
	if limit > 0 && len(transcript) > limit {
		transcript = transcript[len(transcript)-limit:]
	}
	msgs := make([]Message, 0, len(transcript))
	for _, t := range transcript {
		msgs = append(msgs, Message{Role: t.Role, Content: t.Content})
	}
	return msgs
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	attempts := h.config.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if err := h.sleep(ctx, backoff(attempt-1)); err != nil {
				return nil, ErrReplyTimeout
			}
		}

		reply, err := h.complete(ctx, input)
		if err == nil {
			metrics.ReplyAttempts.WithLabelValues("ok").Inc()
			h.logger.Info("reply generated", map[string]interface{}{
				"attempts": attempt,
				"length":   len(reply),
			})
			return &Output{Reply: reply, Attempts: attempt}, nil
		}

		lastErr = err
		metrics.ReplyAttempts.WithLabelValues("failed").Inc()
		if ctx.Err() != nil {
			return nil, ErrReplyTimeout
		}
		h.logger.Warn("reply attempt failed", map[string]interface{}{
			"attempt": attempt,
			"error":   err.Error(),
		})
	}

	h.logger.Error("reply generation exhausted retries", map[string]interface{}{
		"attempts": attempts,
		"error":    lastErr.Error(),
	})
	return nil, fmt.Errorf("%w: %v", ErrReplyFailed, lastErr)
}

func (h *Handler) call(ctx context.Context, input *Input) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:       h.config.Model,
		System:      input.SystemContext,
		Messages:    input.Messages,
		MaxTokens:   h.config.MaxTokens,
		Temperature: h.config.Temperature,
	})
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(h.config.GenAIBaseURL, "/") + "/api/ai/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if h.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.config.APIKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	if strings.TrimSpace(out.Text) == "" {
		return "", errors.New("empty reply")
	}
	return strings.TrimSpace(out.Text), nil
}

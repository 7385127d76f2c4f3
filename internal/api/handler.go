// internal/api/handler.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"pump-advisor/internal/advisor/catalog"
	"pump-advisor/internal/advisor/chat"
	"pump-advisor/internal/common/errors"
	"pump-advisor/internal/common/logger"
	"pump-advisor/internal/common/validation"
)

type Config struct {
	AllowedOrigins []string
	MaxBodyBytes   int64
	PeakSunHours   float64
	Version        string
}

// ReadinessCheck is one dependency probed by /ready.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Handler struct {
	chat    *chat.Service
	catalog *catalog.Catalog
	config  Config
	checks  []ReadinessCheck
	logger  logger.Logger
	now     func() time.Time
}

func NewHandler(svc *chat.Service, cat *catalog.Catalog, cfg Config, checks []ReadinessCheck, log logger.Logger) *Handler {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 64 << 10
	}
	return &Handler{
		chat:    svc,
		catalog: cat,
		config:  cfg,
		checks:  checks,
		logger:  log.Named("api"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error writes the standard error envelope.
func Error(w http.ResponseWriter, status int, code, message, details string) {
	JSON(w, status, map[string]errorBody{
		"error": {Code: code, Message: message, Details: details},
	})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := errors.Normalize(err)
	status := errors.HTTPStatus(stdErr.Code)

	fields := map[string]interface{}{
		"path":      r.URL.Path,
		"errorCode": string(stdErr.Code),
		"details":   stdErr.Details,
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", fields)
	} else {
		h.logger.Debug("request rejected", fields)
	}

	details := stdErr.Details
	if status >= http.StatusInternalServerError {
		details = ""
	}
	Error(w, status, string(stdErr.Code), stdErr.Message, details)
}

// decode reads a bounded body, validates it against schema and unmarshals
// it into v. An empty body is treated as an empty object.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, schema *validation.Schema, v interface{}) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.NewMessageTooLargeError(int(tooLarge.Limit)+1, int(tooLarge.Limit))
		}
		return errors.NewInvalidInputError(fmt.Sprintf("read body: %v", err))
	}
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}

	result, err := schema.ValidateBytes(body)
	if err != nil {
		return errors.NewInvalidInputError("body is not valid JSON")
	}
	if !result.Valid {
		return errors.NewInvalidInputError(result.Summary())
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.NewInvalidInputError(fmt.Sprintf("decode body: %v", err))
	}
	return nil
}

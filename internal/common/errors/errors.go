// internal/common/errors/errors.go
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type ErrorCode string

const (
	// client errors, raised before any session state is touched
	ErrCodeInvalidInput     ErrorCode = "INVALID_INPUT"
	ErrCodeMessageTooLarge  ErrorCode = "MESSAGE_TOO_LARGE"
	ErrCodeSessionNotFound  ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeInvalidLeadInput ErrorCode = "INVALID_LEAD_INPUT"

	ErrCodeSessionStoreFailed ErrorCode = "SESSION_STORE_FAILED"
	ErrCodeCatalogLoadFailed  ErrorCode = "CATALOG_LOAD_FAILED"

	ErrCodeReplyGenerationFailed ErrorCode = "REPLY_GENERATION_FAILED"
	ErrCodeReplyTimeout          ErrorCode = "REPLY_TIMEOUT"
	ErrCodeWebSearchTimeout      ErrorCode = "WEB_SEARCH_TIMEOUT"
	ErrCodeKnowledgeSearchFailed ErrorCode = "KNOWLEDGE_SEARCH_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeDuplicateLead            ErrorCode = "DUPLICATE_LEAD"
	ErrCodeCRMSyncFailed            ErrorCode = "CRM_SYNC_FAILED"
	ErrCodeNotificationSendFailed   ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeLeadPublishFailed        ErrorCode = "LEAD_PUBLISH_FAILED"
)

type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// BPMNError is what a job worker throws back to the lead process.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid chat request", details, false)
}

func NewMessageTooLargeError(length, limit int) *StandardError {
	return newError(ErrCodeMessageTooLarge, "Message exceeds the maximum length",
		fmt.Sprintf("length: %d, limit: %d", length, limit), false)
}

func NewSessionNotFoundError(sessionID string) *StandardError {
	return newError(ErrCodeSessionNotFound, "Session not found",
		fmt.Sprintf("sessionId: %s", sessionID), false)
}

func NewInvalidLeadInputError(details string) *StandardError {
	return newError(ErrCodeInvalidLeadInput, "Lead payload failed validation", details, false)
}

func NewSessionStoreFailedError(err error) *StandardError {
	return newError(ErrCodeSessionStoreFailed, "Session store error", err.Error(), true)
}

func NewCatalogLoadFailedError(source string, err error) *StandardError {
	return newError(ErrCodeCatalogLoadFailed, "Pump catalog could not be loaded",
		fmt.Sprintf("source: %s, error: %s", source, err.Error()), false)
}

func NewReplyGenerationFailedError(err error) *StandardError {
	return newError(ErrCodeReplyGenerationFailed, "Reply generation failed after retries", err.Error(), true)
}

func NewReplyTimeoutError() *StandardError {
	return newError(ErrCodeReplyTimeout, "Reply generation timeout",
		"text generation call exceeded its deadline", true)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true)
}

func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Database insert operation failed", err.Error(), true)
}

func NewDuplicateLeadError(leadID string) *StandardError {
	return newError(ErrCodeDuplicateLead, "Lead already recorded",
		fmt.Sprintf("leadId: %s", leadID), false)
}

func NewCRMSyncFailedError(err error) *StandardError {
	return newError(ErrCodeCRMSyncFailed, "CRM lead sync failed", err.Error(), true)
}

func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()), true)
}

func NewLeadPublishFailedError(err error) *StandardError {
	return newError(ErrCodeLeadPublishFailed, "Lead could not be published", err.Error(), true)
}

func NewExternalServiceError(service string, err error) *StandardError {
	return newError("EXTERNAL_SERVICE_ERROR", fmt.Sprintf("External service '%s' error", service), err.Error(), true)
}

// As extracts a *StandardError from an error chain.
func As(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidLeadInput:         "INVALID_LEAD_INPUT",
	ErrCodeDatabaseConnectionFailed: "DATABASE_CONNECTION_FAILED",
	ErrCodeDatabaseInsertFailed:     "DATABASE_INSERT_FAILED",
	ErrCodeDuplicateLead:            "DUPLICATE_LEAD",
	ErrCodeCRMSyncFailed:            "CRM_SYNC_FAILED",
	ErrCodeNotificationSendFailed:   "NOTIFICATION_SEND_FAILED",
	ErrCodeCatalogLoadFailed:        "CATALOG_LOAD_FAILED",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeCRMSyncFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeSessionStoreFailed,
		ErrCodeLeadPublishFailed:
		return 3

	case ErrCodeReplyGenerationFailed:
		return 2

	case ErrCodeReplyTimeout:
		return 1

	default:
		return 0
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "TOO_LARGE"):
		return "VALIDATION"
	case strings.Contains(codeStr, "SESSION"):
		return "SESSION"
	case strings.Contains(codeStr, "CATALOG"):
		return "CATALOG"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "LEAD"):
		return "DATABASE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "REPLY"):
		return "AI"
	case strings.Contains(codeStr, "NOTIFICATION") || strings.Contains(codeStr, "CRM"):
		return "INTEGRATION"
	default:
		return "OTHER"
	}
}

// HTTPStatus maps an error code onto the status the chat API answers with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidInput, ErrCodeInvalidLeadInput:
		return http.StatusBadRequest
	case ErrCodeMessageTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrCodeSessionNotFound:
		return http.StatusNotFound
	case ErrCodeReplyGenerationFailed, ErrCodeReplyTimeout:
		return http.StatusBadGateway
	case ErrCodeSessionStoreFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

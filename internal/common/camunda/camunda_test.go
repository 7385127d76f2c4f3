// internal/common/camunda/camunda_test.go
package camunda

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pump-advisor/internal/common/errors"
	"pump-advisor/internal/common/logger"
	"pump-advisor/internal/models"
)

// ==========================
// Retry Tests
// ==========================

func newRetryClient(maxRetries int) *Client {
	return &Client{config: &ClientConfig{
		RetryConfig: &RetryConfig{MaxRetries: maxRetries, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond},
	}}
}

func TestExecuteWithRetry(t *testing.T) {
	tests := []struct {
		name      string
		failures  []error
		wantCalls int
		wantCode  errors.ErrorCode
		retryable bool
	}{
		{name: "succeeds first time", wantCalls: 1},
		{
			name:      "transient then success",
			failures:  []error{stderrors.New("rpc error: code = Unavailable")},
			wantCalls: 2,
		},
		{
			name:      "permanent error is not retried",
			failures:  []error{stderrors.New("rpc error: code = NotFound desc = process not found")},
			wantCalls: 1,
			wantCode:  errors.ErrCodeLeadPublishFailed,
		},
		{
			name: "transient errors exhaust retries",
			failures: []error{
				stderrors.New("connection refused"),
				stderrors.New("connection refused"),
				stderrors.New("connection refused"),
			},
			wantCalls: 3,
			wantCode:  "EXTERNAL_SERVICE_ERROR",
			retryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			result, err := newRetryClient(2).ExecuteWithRetry(context.Background(), func(context.Context) (interface{}, error) {
				calls++
				if calls <= len(tt.failures) {
					return nil, tt.failures[calls-1]
				}
				return int64(42), nil
			}, "test-op")

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, int64(42), result)
				return
			}
			stdErr, ok := errors.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, stdErr.Code)
			assert.Equal(t, tt.retryable, stdErr.Retryable)
			assert.Contains(t, stdErr.Details, "test-op")
		})
	}
}

func TestExecuteWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &Client{config: &ClientConfig{
		RetryConfig: &RetryConfig{MaxRetries: 3, BaseDelay: time.Hour, MaxDelay: time.Hour},
	}}
	_, err := client.ExecuteWithRetry(ctx, func(context.Context) (interface{}, error) {
		return nil, stderrors.New("deadline exceeded")
	}, "op")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRetryableZeebeError(t *testing.T) {
	assert.True(t, isRetryableZeebeError(stderrors.New("rpc error: code = DeadlineExceeded desc = context deadline exceeded")))
	assert.True(t, isRetryableZeebeError(stderrors.New("RESOURCE_EXHAUSTED")))
	assert.False(t, isRetryableZeebeError(stderrors.New("invalid argument")))
}

// ==========================
// Lead Starter Tests
// ==========================

type fakeCreator struct {
	processID string
	vars      map[string]interface{}
	key       int64
	err       error
}

func (f *fakeCreator) CreateInstance(_ context.Context, processID string, vars map[string]interface{}) (int64, error) {
	f.processID = processID
	f.vars = vars
	return f.key, f.err
}

func finishedSession() *models.Session {
	s := models.NewSession("s-1", time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC))
	s.Data.UsageType = models.UsageLivestock
	s.Data.Location = models.Some("Amarillo, TX")
	s.Data.Recommendation = &models.RecommendationResult{IsValid: true}
	return s
}

func TestLeadStarter_PublishLead(t *testing.T) {
	creator := &fakeCreator{key: 2251799813685249}
	starter := NewLeadStarter(creator, "", logger.NewTestLogger(t))

	ref, err := starter.PublishLead(context.Background(), finishedSession())
	require.NoError(t, err)

	assert.Equal(t, "2251799813685249", ref)
	assert.Equal(t, DefaultLeadProcessID, creator.processID)
	assert.Equal(t, "s-1", creator.vars["sessionId"])
	assert.Equal(t, "Amarillo, TX", creator.vars["location"])
	assert.Equal(t, "livestock", creator.vars["usageType"])
	assert.Equal(t, models.RecommendationResult{IsValid: true}, creator.vars["recommendation"])
}

func TestLeadStarter_PublishLead_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode errors.ErrorCode
	}{
		{"plain error is wrapped", stderrors.New("boom"), errors.ErrCodeLeadPublishFailed},
		{"standard error kept", errors.NewExternalServiceError("zeebe", stderrors.New("down")), "EXTERNAL_SERVICE_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			starter := NewLeadStarter(&fakeCreator{err: tt.err}, "custom", logger.NewTestLogger(t))
			_, err := starter.PublishLead(context.Background(), finishedSession())
			stdErr, ok := errors.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, stdErr.Code)
		})
	}
}

func TestLeadVariables_NoRecommendation(t *testing.T) {
	s := models.NewSession("s-2", time.Now())
	vars := LeadVariables(s)
	_, ok := vars["recommendation"]
	assert.False(t, ok)
	assert.Equal(t, "", vars["location"])
}

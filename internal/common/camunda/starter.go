// internal/common/camunda/starter.go
package camunda

import (
	"context"
	"strconv"

	"pump-advisor/internal/common/errors"
	"pump-advisor/internal/common/logger"
	"pump-advisor/internal/models"
)

const DefaultLeadProcessID = "pump-lead-intake"

type InstanceCreator interface {
	CreateInstance(ctx context.Context, processID string, variables map[string]interface{}) (int64, error)
}

// LeadStarter hands finished intakes to the lead process. The returned
// reference is the process instance key.
type LeadStarter struct {
	creator   InstanceCreator
	processID string
	logger    logger.Logger
}

func NewLeadStarter(creator InstanceCreator, processID string, log logger.Logger) *LeadStarter {
	if processID == "" {
		processID = DefaultLeadProcessID
	}
	return &LeadStarter{
		creator:   creator,
		processID: processID,
		logger:    log.WithFields(map[string]interface{}{"processId": processID}),
	}
}

func (s *LeadStarter) PublishLead(ctx context.Context, sess *models.Session) (string, error) {
	vars := LeadVariables(sess)
	key, err := s.creator.CreateInstance(ctx, s.processID, vars)
	if err != nil {
		if _, ok := errors.As(err); ok {
			return "", err
		}
		return "", errors.NewLeadPublishFailedError(err)
	}

	s.logger.Info("lead process started", map[string]interface{}{
		"sessionId":          sess.ID,
		"processInstanceKey": key,
	})
	return strconv.FormatInt(key, 10), nil
}

// LeadVariables is the payload the record-pump-lead job reads.
func LeadVariables(sess *models.Session) map[string]interface{} {
	vars := map[string]interface{}{
		"sessionId": sess.ID,
		"location":  sess.Data.Location.OrElse(""),
		"usageType": string(sess.Data.UsageType),
		"data":      sess.Data,
	}
	if sess.Data.Recommendation != nil {
		vars["recommendation"] = *sess.Data.Recommendation
	}
	return vars
}

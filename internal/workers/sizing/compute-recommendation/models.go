// internal/workers/sizing/compute-recommendation/models.go
package computerecommendation

import "pump-advisor/internal/models"

type Input struct {
	SessionID string               `json:"sessionId"`
	Data      models.CollectedData `json:"data"`
}

type Output struct {
	Recommendation models.RecommendationResult `json:"recommendation"`
	Outcome        string                      `json:"outcome"`
	Qualified      bool                        `json:"qualified"`
}

// internal/workers/leads/record-lead/models.go
package recordlead

import (
	"time"

	"pump-advisor/internal/models"
)

// Input is the lead payload the advisor publishes when a session reaches
// a recommendation.
type Input struct {
	SessionID      string                      `json:"sessionId"`
	Location       string                      `json:"location"`
	UsageType      string                      `json:"usageType"`
	Data           models.CollectedData        `json:"data"`
	Recommendation models.RecommendationResult `json:"recommendation"`
}

type Output struct {
	LeadID       string    `json:"leadId"`
	CRMID        string    `json:"crmId,omitempty"`
	Qualified    bool      `json:"qualified"`
	Outcome      string    `json:"outcome"`
	PumpModel    string    `json:"pumpModel,omitempty"`
	PanelsNeeded int       `json:"panelsNeeded"`
	DailyGallons float64   `json:"dailyGallons"`
	RecordedAt   time.Time `json:"recordedAt"`
}

// summary flattens the optional parts of a recommendation.
type summary struct {
	pumpModel    string
	panels       int
	dailyGallons float64
}

func summarize(r models.RecommendationResult) summary {
	var s summary
	if r.PumpDetails != nil {
		s.pumpModel = r.PumpDetails.Model
	}
	if r.SolarConfig != nil {
		s.panels = r.SolarConfig.PanelsNeeded
	}
	if r.WaterRequirements != nil {
		s.dailyGallons = r.WaterRequirements.DailyGallons
	}
	return s
}

// internal/models/recommendation.go
package models

import "time"

type ReasonCode string

const (
	ReasonSandyWater     ReasonCode = "SANDY_WATER"
	ReasonCasingTooSmall ReasonCode = "CASING_TOO_SMALL"
	ReasonNoSuitablePump ReasonCode = "NO_SUITABLE_PUMP"
)

type WaterRequirements struct {
	DailyGallons float64 `json:"dailyGallons"`
	RequiredGPM  float64 `json:"requiredGPM"`
	PeakSunHours float64 `json:"peakSunHours"`
}

type PumpDetails struct {
	Model         string  `json:"model"`
	Stages        int     `json:"stages"`
	Voltage       int     `json:"voltage"`
	MaxFlow       float64 `json:"maxFlow"`
	MaxHead       float64 `json:"maxHead"`
	FlowAtTDH     float64 `json:"flowAtTDH"`
	PowerRequired int     `json:"powerRequired"`
}

type SystemDetails struct {
	TotalDynamicHead  float64 `json:"totalDynamicHead"`
	StaticWaterLevel  float64 `json:"staticWaterLevel"`
	DrawdownLevel     float64 `json:"drawdownLevel"`
	DrawdownEstimated bool    `json:"drawdownEstimated"`
	ElevationGain     float64 `json:"elevationGain"`
	FrictionLoss      float64 `json:"frictionLoss"`
	PipeLength        float64 `json:"pipeLength"`
	PipeSize          float64 `json:"pipeSize"`
	CustomHead        bool    `json:"customHead"`
	DirectToTank      bool    `json:"directToTank"`
	HasStorageTank    bool    `json:"hasStorageTank"`
}

type SolarConfig struct {
	PowerRequired      int     `json:"powerRequired"`
	PanelsNeeded       int     `json:"panelsNeeded"`
	PanelWattage       int     `json:"panelWattage"`
	TotalWattage       int     `json:"totalWattage"`
	Voltage            int     `json:"voltage"`
	SeriesPairs        int     `json:"seriesPairs"`
	Wiring             string  `json:"wiring"`
	DailyOutputGallons float64 `json:"dailyOutputGallons"`
}

// RecommendationResult is either a full sizing (IsValid) or a rejection
// carrying a reason code and a customer-facing message.
type RecommendationResult struct {
	IsValid           bool               `json:"isValid"`
	WaterRequirements *WaterRequirements `json:"waterRequirements,omitempty"`
	PumpDetails       *PumpDetails       `json:"pumpDetails,omitempty"`
	System            *SystemDetails     `json:"system,omitempty"`
	SolarConfig       *SolarConfig       `json:"solarConfig,omitempty"`
	ReasonCode        ReasonCode         `json:"reasonCode,omitempty"`
	Message           string             `json:"message,omitempty"`
	DegradedCatalog   bool               `json:"degradedCatalog,omitempty"`
	ComputedAt        time.Time          `json:"computedAt"`
}

// Outcome is a low-cardinality label for metrics.
func (r RecommendationResult) Outcome() string {
	if r.IsValid {
		return "valid"
	}
	return string(r.ReasonCode)
}

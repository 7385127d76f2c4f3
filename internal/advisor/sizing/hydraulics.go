// internal/advisor/sizing/hydraulics.go
package sizing

import (
	"pump-advisor/internal/advisor/extract"
	"pump-advisor/internal/models"
)

// FrictionFactor feeds a simplified friction proxy, not Hazen-Williams.
// Pump selection is calibrated against it, so keep the formula as is.
const FrictionFactor = 0.02

// FrictionLoss is zero when either pipe length or size is unknown.
func FrictionLoss(pipeLength, pipeSize, gpm float64) float64 {
	if pipeLength <= 0 || pipeSize <= 0 {
		return 0
	}
	return FrictionFactor * (pipeLength / pipeSize) * gpm * gpm
}

// Hydraulics resolves the hydraulic inputs and computes total dynamic head.
// An unanswered or estimated drawdown is derived from the static level.
func Hydraulics(data models.CollectedData, requiredGPM float64) models.SystemDetails {
	static := data.StaticWaterLevel.OrElse(0)

	drawdown, measured := data.DrawdownLevel.Get()
	estimated := data.DrawdownEstimated
	if !measured || estimated {
		drawdown = extract.EstimateDrawdown(static)
		estimated = true
	}

	sys := models.SystemDetails{
		StaticWaterLevel:  static,
		DrawdownLevel:     drawdown,
		DrawdownEstimated: estimated,
		ElevationGain:     data.ElevationGain.OrElse(0),
		PipeLength:        data.PipeLength.OrElse(0),
		PipeSize:          data.PipeSize.OrElse(0),
		DirectToTank:      data.DirectToTank.OrElse(false),
		HasStorageTank:    data.HasStorageTank.OrElse(false),
	}

	if data.HasCustomHead() {
		sys.CustomHead = true
		sys.TotalDynamicHead = data.CustomHead.OrElse(0)
		return sys
	}

	sys.FrictionLoss = FrictionLoss(sys.PipeLength, sys.PipeSize, requiredGPM)
	sys.TotalDynamicHead = sys.StaticWaterLevel + sys.DrawdownLevel + sys.ElevationGain + sys.FrictionLoss
	return sys
}

// internal/advisor/sizing/compute.go
package sizing

import (
	"time"

	"pump-advisor/internal/models"
)

// Catalog is the read side of the pump table.
type Catalog interface {
	Models() []models.PumpModel
	Degraded() bool
}

type Options struct {
	PeakSunHours float64
	Now          func() time.Time
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now().UTC()
	}
	return o.Now()
}

// ResolvePeakSunHours prefers a figure fetched for the user's location.
func ResolvePeakSunHours(data models.CollectedData, fallback float64) float64 {
	if psh, ok := data.PeakSunHours.Get(); ok && psh > 0 {
		return psh
	}
	if fallback > 0 {
		return fallback
	}
	return DefaultPeakSunHours
}

// Compute runs demand, hydraulics, selection and solar sizing. It has no
// side effects and never fails; rejections are reported in the result.
func Compute(data models.CollectedData, catalog Catalog, opts Options) models.RecommendationResult {
	result := models.RecommendationResult{
		DegradedCatalog: catalog.Degraded(),
		ComputedAt:      opts.now(),
	}

	if reason, msg, rejected := Disqualify(data); rejected {
		result.ReasonCode = reason
		result.Message = msg
		return result
	}

	psh := ResolvePeakSunHours(data, opts.PeakSunHours)
	water := Demand(data, psh)
	system := Hydraulics(data, water.RequiredGPM)

	sel, ok := SelectPump(catalog.Models(), system.TotalDynamicHead, water.RequiredGPM)
	if !ok {
		result.ReasonCode = models.ReasonNoSuitablePump
		result.Message = noSuitablePumpMessage(water.RequiredGPM, system.TotalDynamicHead)
		return result
	}

	solar := Solar(sel.Model, psh)
	result.IsValid = true
	result.WaterRequirements = &water
	result.System = &system
	result.PumpDetails = &models.PumpDetails{
		Model:         sel.Model.Name,
		Stages:        sel.Model.Stages,
		Voltage:       sel.Model.Voltage,
		MaxFlow:       sel.Model.MaxFlow,
		MaxHead:       sel.Model.MaxHead,
		FlowAtTDH:     sel.FlowAtTDH,
		PowerRequired: sel.Model.PowerDraw(),
	}
	result.SolarConfig = &solar
	return result
}

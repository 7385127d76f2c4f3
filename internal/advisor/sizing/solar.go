// internal/advisor/sizing/solar.go
package sizing

import (
	"fmt"
	"math"

	"pump-advisor/internal/models"
)

const (
	PanelWattage  = 100
	SystemVoltage = 48
	panelVoltage  = 24
)

// Solar sizes the array for a pump. Panels pair into 24V series strings to
// reach the 48V bus, so an odd count is bumped up by one.
func Solar(model models.PumpModel, peakSunHours float64) models.SolarConfig {
	power := model.PowerDraw()
	panels := int(math.Ceil(float64(power) / PanelWattage))
	if panels%2 != 0 {
		panels++
	}
	pairs := panels / 2

	return models.SolarConfig{
		PowerRequired: power,
		PanelsNeeded:  panels,
		PanelWattage:  PanelWattage,
		TotalWattage:  panels * PanelWattage,
		Voltage:       SystemVoltage,
		SeriesPairs:   pairs,
		Wiring: fmt.Sprintf("%d x %dW %dV panels wired as %d series pair(s), pairs in parallel, for a %dV bus",
			panels, PanelWattage, panelVoltage, pairs, SystemVoltage),
		// nameplate flow, i.e. the best case
		DailyOutputGallons: model.MaxFlow * peakSunHours * 60,
	}
}

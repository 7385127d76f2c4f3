// internal/advisor/sizing/selector.go
package sizing

import (
	"fmt"

	"pump-advisor/internal/models"
)

// MinCasingSize is the smallest casing, in inches, a standard pump fits.
const MinCasingSize = 5.0

// Disqualify returns the reason a well cannot take a standard pump, if any.
// An unanswered casing question does not disqualify.
func Disqualify(data models.CollectedData) (models.ReasonCode, string, bool) {
	if data.SandyWater.OrElse(false) {
		return models.ReasonSandyWater,
			"Sandy or silty water wears out a standard submersible pump quickly. " +
				"A sales engineer will follow up with a sand separator or a sand-tolerant pump option.",
			true
	}
	if casing, ok := data.WellCasingSize.Get(); ok && casing < MinCasingSize {
		return models.ReasonCasingTooSmall,
			fmt.Sprintf("Your %.4g-inch well casing is smaller than the %.0f-inch minimum our standard pumps need. "+
				"A sales engineer will follow up with slim-line options.", casing, MinCasingSize),
			true
	}
	return "", "", false
}

type Selection struct {
	Model     models.PumpModel
	FlowAtTDH float64
}

// SelectPump picks the qualifying model with the fewest stages; the first
// one in catalog order wins a tie.
func SelectPump(catalog []models.PumpModel, tdh, requiredGPM float64) (Selection, bool) {
	var (
		best  Selection
		found bool
	)
	for _, m := range catalog {
		if m.MaxHead < tdh {
			continue
		}
		flow := m.FlowAt(tdh)
		if flow < requiredGPM {
			continue
		}
		if !found || m.Stages < best.Model.Stages {
			best = Selection{Model: m, FlowAtTDH: flow}
			found = true
		}
	}
	return best, found
}

func noSuitablePumpMessage(requiredGPM, tdh float64) string {
	return fmt.Sprintf("Delivering %.2f GPM against %.0f ft of total dynamic head is beyond our standard pump range. "+
		"A sales engineer will put together a custom system for you.", requiredGPM, tdh)
}

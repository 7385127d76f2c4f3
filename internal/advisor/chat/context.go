// internal/advisor/chat/context.go
package chat

import (
	"fmt"
	"strings"

	"pump-advisor/internal/advisor/conversation"
	"pump-advisor/internal/models"
)

const persona = "You are a friendly solar water pump sizing assistant for a pump dealer. " +
	"Ask one question at a time, keep answers short, and never invent numbers that are not given below."

// BuildContext renders the session state the reply generator works from.
func BuildContext(sess *models.Session) string {
	var parts []string
	parts = append(parts, persona)
	parts = append(parts, fmt.Sprintf("\nCurrent stage: %s", sess.Stage))

	switch sess.Stage {
	case models.StageSummary:
		parts = append(parts, "\nRead this summary back to the user and ask them to confirm or correct it:")
		parts = append(parts, conversation.Summary(sess.Data))
	case models.StageRecommendation:
		parts = append(parts, recommendationText(sess.Data.Recommendation))
	default:
		parts = append(parts, fmt.Sprintf("Next question: %s", conversation.NextQuestion(sess.Stage)))
	}

	if snippet := sess.Facts[FactLocal]; snippet != "" && sess.Stage != models.StageRecommendation {
		parts = append(parts, fmt.Sprintf("\nA local fact you may mention once: %s", snippet))
	}
	if snippet := sess.Facts[FactSolar]; snippet != "" {
		parts = append(parts, fmt.Sprintf("Solar data for the site: %s", snippet))
	}
	if snippet := sess.Facts[FactPumpInfo]; snippet != "" && sess.Stage == models.StageRecommendation {
		parts = append(parts, fmt.Sprintf("About the pump: %s", snippet))
	}

	return strings.Join(parts, "\n")
}

func recommendationText(rec *models.RecommendationResult) string {
	if rec == nil {
		return "\nNo recommendation is available yet."
	}
	if !rec.IsValid {
		return fmt.Sprintf("\nThe system cannot be sized (%s). Explain this to the user: %s",
			rec.ReasonCode, rec.Message)
	}

	var b strings.Builder
	b.WriteString("\nPresent this recommendation:\n")
	fmt.Fprintf(&b, "- Daily water need: %.0f gallons (%.2f GPM over %.1f sun hours)\n",
		rec.WaterRequirements.DailyGallons, rec.WaterRequirements.RequiredGPM, rec.WaterRequirements.PeakSunHours)
	fmt.Fprintf(&b, "- Total dynamic head: %.1f ft\n", rec.System.TotalDynamicHead)
	fmt.Fprintf(&b, "- Pump: %s, %d stages, %d W, %.2f GPM at this head\n",
		rec.PumpDetails.Model, rec.PumpDetails.Stages, rec.PumpDetails.PowerRequired, rec.PumpDetails.FlowAtTDH)
	fmt.Fprintf(&b, "- Solar: %d x %d W panels (%d W), %s\n",
		rec.SolarConfig.PanelsNeeded, rec.SolarConfig.PanelWattage, rec.SolarConfig.TotalWattage, rec.SolarConfig.Wiring)
	fmt.Fprintf(&b, "- Expected daily output: %.0f gallons", rec.SolarConfig.DailyOutputGallons)
	if rec.DegradedCatalog {
		b.WriteString("\nThe pump table was unavailable; tell the user a specialist will confirm the model.")
	}
	return b.String()
}

// internal/api/sizing.go
package api

import (
	"net/http"

	"pump-advisor/internal/advisor/sizing"
	"pump-advisor/internal/common/metrics"
	"pump-advisor/internal/models"
)

// Recommend sizes a system from a complete set of answers without a
// conversation.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	data := models.NewCollectedData()
	if err := h.decode(w, r, recommendationSchema, &data); err != nil {
		h.writeError(w, r, err)
		return
	}
	if data.UsageType == "" {
		data.UsageType = models.UsageUnknown
	}
	// callers cannot inject a precomputed result
	data.Recommendation = nil

	rec := sizing.Compute(data, h.catalog, sizing.Options{
		PeakSunHours: h.config.PeakSunHours,
		Now:          h.now,
	})
	metrics.Recommendations.WithLabelValues(rec.Outcome()).Inc()

	JSON(w, http.StatusOK, rec)
}

type catalogView struct {
	Source   string             `json:"source"`
	Degraded bool               `json:"degraded"`
	Models   []models.PumpModel `json:"models"`
}

func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, catalogView{
		Source:   h.catalog.Source(),
		Degraded: h.catalog.Degraded(),
		Models:   h.catalog.Models(),
	})
}

// internal/api/health.go
package api

import "net/http"

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.config.Version,
	})
}

// Ready probes every configured dependency and answers 503 if any fails.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for _, c := range h.checks {
		if err := c.Check(r.Context()); err != nil {
			results[c.Name] = err.Error()
			status = http.StatusServiceUnavailable
			h.logger.Warn("readiness check failed", map[string]interface{}{
				"check": c.Name,
				"error": err.Error(),
			})
			continue
		}
		results[c.Name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	JSON(w, status, map[string]interface{}{
		"status": state,
		"checks": results,
	})
}

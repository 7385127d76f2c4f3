// internal/advisor/chat/lookups.go
package chat

import (
	"context"
	"fmt"

	"pump-advisor/internal/advisor/extract"
	"pump-advisor/internal/common/metrics"
	"pump-advisor/internal/models"
)

func (s *Service) lookup(ctx context.Context, source FactLookup, kind, query string) (string, bool) {
	if source == nil {
		return "", false
	}
	ctx, cancel := context.WithTimeout(ctx, s.opts.LookupTimeout)
	defer cancel()

	snippet, ok := source.Lookup(ctx, query)
	outcome := "hit"
	if !ok || snippet == "" {
		outcome = "miss"
		ok = false
	}
	metrics.FactLookups.WithLabelValues(kind, outcome).Inc()
	return snippet, ok
}

// lookupLocationFacts runs whenever the location is given or changed. Facts
// about a previous location are dropped first.
func (s *Service) lookupLocationFacts(ctx context.Context, sess *models.Session) {
	location := sess.Data.Location.OrElse("")
	sess.Data.PeakSunHours = models.None[float64]()
	delete(sess.Facts, FactSolar)
	delete(sess.Facts, FactLocal)

	if snippet, ok := s.lookup(ctx, s.deps.Web, FactSolar,
		fmt.Sprintf("average peak sun hours per day %s", location)); ok {
		sess.SetFact(FactSolar, snippet)
		if psh, ok := extract.PeakSunHours(snippet).Get(); ok {
			sess.Data.PeakSunHours = models.Some(psh)
		}
	}

	if snippet, ok := s.lookup(ctx, s.deps.Web, FactLocal,
		fmt.Sprintf("%s history ranching water wells", location)); ok {
		sess.SetFact(FactLocal, snippet)
	}
}

// pumpInfo prefers the internal knowledge base over the web.
func (s *Service) pumpInfo(ctx context.Context, model string) (string, bool) {
	if snippet, ok := s.lookup(ctx, s.deps.Knowledge, "knowledge", model); ok {
		return snippet, true
	}
	return s.lookup(ctx, s.deps.Web, FactPumpInfo, fmt.Sprintf("Grundfos %s solar submersible pump", model))
}

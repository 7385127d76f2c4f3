// internal/advisor/conversation/machine.go
package conversation

import (
	"pump-advisor/internal/advisor/extract"
	"pump-advisor/internal/advisor/sizing"
	"pump-advisor/internal/models"
)

type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
}

// Machine advances sessions through the intake dialogue. It holds no
// per-session state and may be shared.
type Machine struct {
	catalog sizing.Catalog
	opts    sizing.Options
	log     Logger
}

func NewMachine(catalog sizing.Catalog, opts sizing.Options, log Logger) *Machine {
	return &Machine{catalog: catalog, opts: opts, log: log}
}

// Advance applies one user message to the session in place. Unrecognised
// input never blocks progress: data-collecting stages always move on.
func (m *Machine) Advance(s *models.Session, text string) {
	from := s.Stage
	if from == "" {
		from = models.StageGreeting
		s.Stage = from
	}

	switch from {
	case models.StageSummary:
		m.confirmOrCorrect(s, text)
	case models.StageRecommendation:
		m.revise(s, text)
	default:
		m.collect(s, text)
	}

	if s.Stage != from {
		m.log.Debug("Stage advanced", map[string]interface{}{
			"sessionId": s.ID,
			"from":      string(from),
			"to":        string(s.Stage),
		})
	}
}

func (m *Machine) collect(s *models.Session, text string) {
	stage := s.Stage

	p := extract.Overrides(stage, text).Merge(extract.ForStage(stage, text, s.Data))
	if p == (models.Partial{}) {
		m.log.Debug("Nothing extracted", map[string]interface{}{
			"sessionId": s.ID,
			"stage":     string(stage),
		})
	}
	s.Data.Apply(p)
	s.MarkAnswered(stage)

	// an estimated drawdown follows the static level it was derived from
	if p.StaticWaterLevel.IsSet() && !p.DrawdownLevel.IsSet() && s.Data.DrawdownEstimated {
		s.Data.DrawdownLevel = models.Some(extract.EstimateDrawdown(s.Data.StaticWaterLevel.OrElse(0)))
	}

	next := Next(stage, s.Data)
	if next.UsageSpecific() && s.Data.HasCustomFlow() && s.Data.HasCustomHead() {
		s.Data.UsageType = models.UsageOther
		next = models.StageWellDepth
	}

	// after a correction, skip questions that already have answers
	for next != models.StageSummary && s.Answered[next] {
		next = Next(next, s.Data)
	}
	s.Stage = next
}

func (m *Machine) confirmOrCorrect(s *models.Session, text string) {
	if extract.Affirmative(text) {
		s.Stage = models.StageRecommendation
		rec := sizing.Compute(s.Data, m.catalog, m.opts)
		s.Data.Recommendation = &rec

		m.log.Info("Recommendation computed", map[string]interface{}{
			"sessionId": s.ID,
			"outcome":   rec.Outcome(),
			"usageType": string(s.Data.UsageType),
			"degraded":  rec.DegradedCatalog,
		})
		return
	}
	m.jumpBack(s, text)
}

// revise lets the user reopen a finished session by naming what to change.
// The recommendation is dropped and recomputed only after re-confirmation.
func (m *Machine) revise(s *models.Session, text string) {
	if target, ok := CorrectionTarget(text, s.Data.UsageType); ok {
		s.Data.Recommendation = nil
		s.Stage = target
	}
}

func (m *Machine) jumpBack(s *models.Session, text string) {
	if target, ok := CorrectionTarget(text, s.Data.UsageType); ok {
		s.Stage = target
	}
}

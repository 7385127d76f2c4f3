// internal/advisor/chat/service.go
package chat

import (
	"context"
	stderrors "errors"
	"hash/fnv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"pump-advisor/internal/advisor/conversation"
	"pump-advisor/internal/advisor/session"
	"pump-advisor/internal/common/errors"
	"pump-advisor/internal/common/logger"
	"pump-advisor/internal/common/metrics"
	"pump-advisor/internal/common/observability"
	"pump-advisor/internal/models"
)

// FactLookup fetches a short snippet for a query. Failures and timeouts
// report ok == false; they never fail the turn.
type FactLookup interface {
	Lookup(ctx context.Context, query string) (snippet string, ok bool)
}

// ReplyGenerator turns the conversation state into the assistant's next
// message.
type ReplyGenerator interface {
	Generate(ctx context.Context, systemContext string, transcript []models.Turn) (string, error)
}

// LeadPublisher hands a finished intake to the sales process and returns
// a reference for it.
type LeadPublisher interface {
	PublishLead(ctx context.Context, s *models.Session) (string, error)
}

type Options struct {
	MaxMessageLength int
	LookupTimeout    time.Duration
	TurnTimeout      time.Duration
}

type Deps struct {
	Store     session.Store
	Machine   *conversation.Machine
	Web       FactLookup
	Knowledge FactLookup
	Replies   ReplyGenerator
	Leads     LeadPublisher
	Obs       *observability.Observability
	Log       logger.Logger
	Clock     session.Clock
}

type TurnResult struct {
	SessionID      string                       `json:"sessionId"`
	Reply          string                       `json:"reply"`
	Stage          models.Stage                 `json:"stage"`
	Data           models.CollectedData         `json:"data"`
	Recommendation *models.RecommendationResult `json:"recommendation,omitempty"`
	Created        bool                         `json:"created"`
}

// fact keys stored on the session
const (
	FactSolar    = "solar"
	FactLocal    = "local"
	FactPumpInfo = "pumpInfo"
)

const lockStripes = 64

type Service struct {
	deps  Deps
	opts  Options
	log   logger.Logger
	locks [lockStripes]sync.Mutex
}

func NewService(deps Deps, opts Options) *Service {
	if deps.Clock == nil {
		deps.Clock = session.SystemClock
	}
	if opts.MaxMessageLength <= 0 {
		opts.MaxMessageLength = 2000
	}
	if opts.LookupTimeout <= 0 {
		opts.LookupTimeout = 5 * time.Second
	}
	if opts.TurnTimeout <= 0 {
		opts.TurnTimeout = 60 * time.Second
	}
	return &Service{
		deps: deps,
		opts: opts,
		log:  deps.Log.Named("chat"),
	}
}

// lock serialises turns for one session id.
func (s *Service) lock(id string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	m := &s.locks[h.Sum32()%lockStripes]
	m.Lock()
	return m.Unlock
}

func (s *Service) validate(sessionID, message string) error {
	if strings.TrimSpace(sessionID) == "" {
		return errors.NewInvalidInputError("sessionId is required")
	}
	if strings.TrimSpace(message) == "" {
		return errors.NewInvalidInputError("message is required")
	}
	if n := utf8.RuneCountInString(message); n > s.opts.MaxMessageLength {
		return errors.NewMessageTooLargeError(n, s.opts.MaxMessageLength)
	}
	return nil
}

// Open creates an empty session, or returns the existing one for id.
func (s *Service) Open(ctx context.Context, id string) (*models.Session, bool, error) {
	if strings.TrimSpace(id) == "" {
		return nil, false, errors.NewInvalidInputError("sessionId is required")
	}
	existing, err := s.deps.Store.Get(ctx, id)
	if err == nil {
		return existing, false, nil
	}
	if !stderrors.Is(err, session.ErrNotFound) {
		return nil, false, errors.NewSessionStoreFailedError(err)
	}

	sess := models.NewSession(id, s.deps.Clock())
	if err := s.deps.Store.Save(ctx, sess); err != nil {
		return nil, false, errors.NewSessionStoreFailedError(err)
	}
	return sess, true, nil
}

// Get returns a session or a SESSION_NOT_FOUND error.
func (s *Service) Get(ctx context.Context, id string) (*models.Session, error) {
	sess, err := s.deps.Store.Get(ctx, id)
	if stderrors.Is(err, session.ErrNotFound) {
		return nil, errors.NewSessionNotFoundError(id)
	}
	if err != nil {
		return nil, errors.NewSessionStoreFailedError(err)
	}
	return sess, nil
}

// HandleTurn applies one user message. Malformed input is rejected before
// any state is read. When the reply cannot be generated the session still
// keeps the user turn and the new stage.
func (s *Service) HandleTurn(ctx context.Context, sessionID, message string) (*TurnResult, error) {
	start := time.Now()
	result, err := s.handleTurn(ctx, sessionID, message)

	status := "ok"
	if err != nil {
		status = "error"
		if stdErr, ok := errors.As(err); ok {
			status = string(stdErr.Code)
		}
	}
	s.deps.Obs.RecordTurn(ctx, time.Since(start), status)
	return result, err
}

func (s *Service) handleTurn(ctx context.Context, sessionID, message string) (*TurnResult, error) {
	if err := s.validate(sessionID, message); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.TurnTimeout)
	defer cancel()

	unlock := s.lock(sessionID)
	defer unlock()

	sess, created, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	prevLocation := sess.Data.Location.OrElse("")
	prevRec := sess.Data.Recommendation

	sess.AddTurn(models.RoleUser, message, s.deps.Clock())
	s.deps.Machine.Advance(sess, message)
	if err := s.deps.Store.Save(ctx, sess); err != nil {
		return nil, errors.NewSessionStoreFailedError(err)
	}
	metrics.ChatTurns.WithLabelValues(string(sess.Stage)).Inc()

	if loc, ok := sess.Data.Location.Get(); ok && loc != prevLocation {
		s.lookupLocationFacts(ctx, sess)
	}
	if rec := sess.Data.Recommendation; rec != nil && rec != prevRec {
		s.onRecommendation(ctx, sess, rec)
	}

	reply, err := s.deps.Replies.Generate(ctx, BuildContext(sess), sess.Transcript)
	if err != nil {
		s.log.Error("Reply generation failed", map[string]interface{}{
			"sessionId": sess.ID,
			"stage":     string(sess.Stage),
			"error":     err.Error(),
		})
		// keep the facts gathered this turn
		if saveErr := s.deps.Store.Save(ctx, sess); saveErr != nil {
			s.log.Warn("Session save after reply failure failed", map[string]interface{}{
				"sessionId": sess.ID,
				"error":     saveErr.Error(),
			})
		}
		if stdErr, ok := errors.As(err); ok {
			return nil, stdErr
		}
		return nil, errors.NewReplyGenerationFailedError(err)
	}

	sess.AddTurn(models.RoleAssistant, reply, s.deps.Clock())
	if err := s.deps.Store.Save(ctx, sess); err != nil {
		return nil, errors.NewSessionStoreFailedError(err)
	}

	return &TurnResult{
		SessionID:      sess.ID,
		Reply:          reply,
		Stage:          sess.Stage,
		Data:           sess.Data,
		Recommendation: sess.Data.Recommendation,
		Created:        created,
	}, nil
}

func (s *Service) load(ctx context.Context, id string) (*models.Session, bool, error) {
	sess, err := s.deps.Store.Get(ctx, id)
	switch {
	case err == nil:
		return sess, false, nil
	case stderrors.Is(err, session.ErrNotFound):
		s.log.Info("Session created", map[string]interface{}{"sessionId": id})
		return models.NewSession(id, s.deps.Clock()), true, nil
	default:
		return nil, false, errors.NewSessionStoreFailedError(err)
	}
}

func (s *Service) onRecommendation(ctx context.Context, sess *models.Session, rec *models.RecommendationResult) {
	metrics.Recommendations.WithLabelValues(rec.Outcome()).Inc()

	if rec.IsValid && rec.PumpDetails != nil {
		if info, ok := s.pumpInfo(ctx, rec.PumpDetails.Model); ok {
			sess.SetFact(FactPumpInfo, info)
		}
	}

	if s.deps.Leads == nil {
		return
	}
	leadID, err := s.deps.Leads.PublishLead(ctx, sess)
	if err != nil {
		s.log.Warn("Lead publish failed", map[string]interface{}{
			"sessionId": sess.ID,
			"error":     err.Error(),
		})
		return
	}
	sess.LeadID = leadID
	s.log.Info("Lead published", map[string]interface{}{
		"sessionId": sess.ID,
		"leadId":    leadID,
		"outcome":   rec.Outcome(),
	})
}

// internal/advisor/chat/service_test.go
package chat

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pump-advisor/internal/advisor/catalog"
	"pump-advisor/internal/advisor/conversation"
	"pump-advisor/internal/advisor/session"
	"pump-advisor/internal/advisor/sizing"
	"pump-advisor/internal/common/errors"
	"pump-advisor/internal/common/logger"
	"pump-advisor/internal/models"
)

// ==========================
// Fakes
// ==========================

type fakeLookup struct {
	mu      sync.Mutex
	answers map[string]string
	queries []string
}

func (f *fakeLookup) Lookup(_ context.Context, query string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	for prefix, answer := range f.answers {
		if strings.Contains(query, prefix) {
			return answer, true
		}
	}
	return "", false
}

type fakeReplies struct {
	err      error
	contexts []string
}

func (f *fakeReplies) Generate(_ context.Context, systemContext string, transcript []models.Turn) (string, error) {
	f.contexts = append(f.contexts, systemContext)
	if f.err != nil {
		return "", f.err
	}
	return "reply " + transcript[len(transcript)-1].Content, nil
}

type fakeLeads struct {
	published []string
	err       error
}

func (f *fakeLeads) PublishLead(_ context.Context, s *models.Session) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.published = append(f.published, s.ID)
	return "lead-" + s.ID, nil
}

type failingStore struct{ session.Store }

func (failingStore) Get(context.Context, string) (*models.Session, error) {
	return nil, stderrors.New("redis down")
}

type fixture struct {
	svc       *Service
	store     *session.MemoryStore
	web       *fakeLookup
	knowledge *fakeLookup
	replies   *fakeReplies
	leads     *fakeLeads
}

var fixedNow = func() time.Time { return time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC) }

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		store: session.NewMemoryStore(24*time.Hour, fixedNow),
		web: &fakeLookup{answers: map[string]string{
			"peak sun hours": "Amarillo averages 6.2 peak sun hours per day.",
			"history":        "Amarillo grew up around cattle ranching.",
		}},
		knowledge: &fakeLookup{answers: map[string]string{
			"SQF": "The SQF series runs directly from DC solar panels.",
		}},
		replies: &fakeReplies{},
		leads:   &fakeLeads{},
	}
	log := logger.NewTestLogger(t)
	f.svc = NewService(Deps{
		Store:     f.store,
		Machine:   conversation.NewMachine(catalog.Builtin(), sizing.Options{Now: fixedNow}, log),
		Web:       f.web,
		Knowledge: f.knowledge,
		Replies:   f.replies,
		Leads:     f.leads,
		Log:       log,
		Clock:     fixedNow,
	}, Options{MaxMessageLength: 50})
	return f
}

func (f *fixture) turns(t *testing.T, id string, msgs ...string) *TurnResult {
	var last *TurnResult
	for _, msg := range msgs {
		res, err := f.svc.HandleTurn(context.Background(), id, msg)
		require.NoError(t, err, msg)
		last = res
	}
	return last
}

// ==========================
// Input validation
// ==========================

func TestHandleTurn_RejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name      string
		sessionID string
		message   string
		code      errors.ErrorCode
	}{
		{"missing session", "  ", "hello", errors.ErrCodeInvalidInput},
		{"blank message", "s1", " \n\t", errors.ErrCodeInvalidInput},
		{"too long", "s1", strings.Repeat("é", 51), errors.ErrCodeMessageTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.HandleTurn(context.Background(), tt.sessionID, tt.message)

			stdErr, ok := errors.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, stdErr.Code)

			n, _ := f.store.Count(context.Background())
			assert.Zero(t, n)
		})
	}
}

func TestHandleTurn_MessageAtLimitAccepted(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.HandleTurn(context.Background(), "s1", strings.Repeat("é", 50))
	assert.NoError(t, err)
}

// ==========================
// Turn handling
// ==========================

func TestHandleTurn_CreatesUnknownSession(t *testing.T) {
	f := newFixture(t)

	res := f.turns(t, "new-id", "hello")
	assert.True(t, res.Created)
	assert.Equal(t, models.StageUsageType, res.Stage)
	assert.Equal(t, "reply hello", res.Reply)

	stored, err := f.store.Get(context.Background(), "new-id")
	require.NoError(t, err)
	require.Len(t, stored.Transcript, 2)
	assert.Equal(t, models.RoleUser, stored.Transcript[0].Role)
	assert.Equal(t, models.RoleAssistant, stored.Transcript[1].Role)

	res = f.turns(t, "new-id", "cattle")
	assert.False(t, res.Created)
	assert.Contains(t, f.replies.contexts[1], "Next question: "+conversation.NextQuestion(models.StageLocation))
}

func TestHandleTurn_LocationLookupsRunOnce(t *testing.T) {
	f := newFixture(t)

	f.turns(t, "s1", "hi", "beef cattle", "Amarillo, Texas", "beef")
	assert.Len(t, f.web.queries, 2)

	stored, err := f.store.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, models.Some(6.2), stored.Data.PeakSunHours)
	assert.Contains(t, stored.Facts[FactLocal], "cattle ranching")
	assert.Contains(t, f.replies.contexts[2], "A local fact you may mention once")
}

func TestHandleTurn_LocationChangeRefreshesFacts(t *testing.T) {
	f := newFixture(t)
	f.web.answers = map[string]string{
		"per day Amarillo": "Amarillo averages 6.2 peak sun hours per day.",
		"per day Seattle":  "Seattle averages 3.1 peak sun hours per day.",
	}

	f.turns(t, "s1", "hi", "household", "Amarillo")
	stored, err := f.store.Get(context.Background(), "s1")
	require.NoError(t, err)
	require.Equal(t, models.Some(6.2), stored.Data.PeakSunHours)

	stored.Stage = models.StageSummary
	require.NoError(t, f.store.Save(context.Background(), stored))

	res := f.turns(t, "s1", "the location is wrong", "Seattle")
	assert.Equal(t, models.Some(3.1), res.Data.PeakSunHours)

	stored, err = f.store.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Contains(t, stored.Facts[FactSolar], "Seattle")

	// a miss falls back to the default instead of keeping Seattle's figure
	stored.Stage = models.StageSummary
	require.NoError(t, f.store.Save(context.Background(), stored))

	res = f.turns(t, "s1", "change the location", "Nowhere")
	assert.False(t, res.Data.PeakSunHours.IsSet())

	stored, err = f.store.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.NotContains(t, stored.Facts, FactSolar)
}

func TestHandleTurn_LookupMissesDegrade(t *testing.T) {
	f := newFixture(t)
	f.web.answers = nil

	res := f.turns(t, "s1", "hi", "household", "Nowhere")
	assert.Equal(t, models.StagePeopleCount, res.Stage)
	assert.False(t, res.Data.PeakSunHours.IsSet())
}

func TestHandleTurn_FullIntakePublishesLead(t *testing.T) {
	f := newFixture(t)

	res := f.turns(t, "s1",
		"hi", "dairy cows", "Amarillo, Texas", "dairy", "20", "200 ft", "100 ft", "not sure",
		"20 feet up into a storage tank", "300 feet of 1-1/4 inch pipe", "yes", "clean", "6 inch")
	require.Equal(t, models.StageSummary, res.Stage)
	assert.Contains(t, f.replies.contexts[len(f.replies.contexts)-1], "- Usage: livestock")
	assert.Empty(t, f.leads.published)

	res = f.turns(t, "s1", "yes")
	require.Equal(t, models.StageRecommendation, res.Stage)
	require.NotNil(t, res.Recommendation)
	assert.True(t, res.Recommendation.IsValid)
	assert.Equal(t, 6.2, res.Recommendation.WaterRequirements.PeakSunHours)
	assert.Equal(t, []string{"s1"}, f.leads.published)
	assert.Contains(t, f.replies.contexts[len(f.replies.contexts)-1], "About the pump: The SQF series")

	stored, err := f.store.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "lead-s1", stored.LeadID)

	// small talk afterwards does not republish
	f.turns(t, "s1", "thanks")
	assert.Len(t, f.leads.published, 1)
}

func TestHandleTurn_LeadFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.leads.err = stderrors.New("broker unavailable")

	sess := models.NewSession("s1", fixedNow())
	sess.Stage = models.StageSummary
	sess.Data.UsageType = models.UsageOther
	sess.Data.CustomGPD = models.Some(500.0)
	sess.Data.CustomHead = models.Some(100.0)
	require.NoError(t, f.store.Save(context.Background(), sess))

	res := f.turns(t, "s1", "yes")
	assert.Equal(t, models.StageRecommendation, res.Stage)
	assert.Empty(t, res.Data.Recommendation.ReasonCode)
}

func TestHandleTurn_ReplyFailureKeepsState(t *testing.T) {
	f := newFixture(t)
	f.replies.err = stderrors.New("upstream 503")

	_, err := f.svc.HandleTurn(context.Background(), "s1", "hello")
	stdErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeReplyGenerationFailed, stdErr.Code)

	stored, err := f.store.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, models.StageUsageType, stored.Stage)
	require.Len(t, stored.Transcript, 1)
	assert.Equal(t, "hello", stored.Transcript[0].Content)
}

func TestHandleTurn_ReplyErrorCodePreserved(t *testing.T) {
	f := newFixture(t)
	f.replies.err = errors.NewReplyTimeoutError()

	_, err := f.svc.HandleTurn(context.Background(), "s1", "hello")
	stdErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeReplyTimeout, stdErr.Code)
}

func TestHandleTurn_StoreFailure(t *testing.T) {
	log := logger.NewTestLogger(t)
	svc := NewService(Deps{
		Store:   failingStore{},
		Machine: conversation.NewMachine(catalog.Builtin(), sizing.Options{}, log),
		Replies: &fakeReplies{},
		Log:     log,
	}, Options{})

	_, err := svc.HandleTurn(context.Background(), "s1", "hello")
	stdErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeSessionStoreFailed, stdErr.Code)
}

func TestHandleTurn_ConcurrentTurnsForOneSession(t *testing.T) {
	f := newFixture(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.HandleTurn(context.Background(), "shared", "hello")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := f.store.Get(context.Background(), "shared")
	require.NoError(t, err)
	assert.Len(t, stored.Transcript, 20)
}

// ==========================
// Session access
// ==========================

func TestOpenAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Get(ctx, "abc")
	stdErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeSessionNotFound, stdErr.Code)

	sess, created, err := f.svc.Open(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.StageGreeting, sess.Stage)

	_, created, err = f.svc.Open(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, created)

	got, err := f.svc.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", got.ID)
}

func TestBuildContext_Rejection(t *testing.T) {
	sess := models.NewSession("s1", fixedNow())
	sess.Stage = models.StageRecommendation
	sess.Data.Recommendation = &models.RecommendationResult{
		ReasonCode: models.ReasonSandyWater,
		Message:    "Sandy wells need a specialist.",
	}

	ctx := BuildContext(sess)
	assert.Contains(t, ctx, "SANDY_WATER")
	assert.Contains(t, ctx, "Sandy wells need a specialist.")
	assert.NotContains(t, ctx, "Next question")
}

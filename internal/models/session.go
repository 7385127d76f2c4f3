// internal/models/session.go
package models

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is one conversation. It is owned by the session store and only
// mutated while a turn for it is being processed.
type Session struct {
	ID         string            `json:"id"`
	Transcript []Turn            `json:"transcript"`
	Stage      Stage             `json:"stage"`
	Data       CollectedData     `json:"data"`
	Answered   map[Stage]bool    `json:"answered,omitempty"`
	Facts      map[string]string `json:"facts,omitempty"`
	LeadID     string            `json:"leadId,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	LastAccess time.Time         `json:"lastAccess"`
}

func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:         id,
		Stage:      StageGreeting,
		Data:       NewCollectedData(),
		Answered:   map[Stage]bool{},
		Facts:      map[string]string{},
		CreatedAt:  now,
		LastAccess: now,
	}
}

func (s *Session) AddTurn(role, content string, at time.Time) {
	s.Transcript = append(s.Transcript, Turn{Role: role, Content: content, Timestamp: at})
}

// Expired reports whether the session has been idle longer than ttl.
func (s *Session) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.LastAccess) > ttl
}

// MarkAnswered records that the user has replied to a stage's question.
func (s *Session) MarkAnswered(stage Stage) {
	if s.Answered == nil {
		s.Answered = map[Stage]bool{}
	}
	s.Answered[stage] = true
}

func (s *Session) Touch(now time.Time) {
	s.LastAccess = now
}

// Clone returns a deep copy so stores never hand out shared state.
func (s *Session) Clone() *Session {
	c := *s
	c.Transcript = append([]Turn(nil), s.Transcript...)
	c.Facts = make(map[string]string, len(s.Facts))
	for k, v := range s.Facts {
		c.Facts[k] = v
	}
	c.Answered = make(map[Stage]bool, len(s.Answered))
	for k, v := range s.Answered {
		c.Answered[k] = v
	}
	if s.Data.Recommendation != nil {
		rec := *s.Data.Recommendation
		c.Data.Recommendation = &rec
	}
	return &c
}

func (s *Session) SetFact(key, value string) {
	if s.Facts == nil {
		s.Facts = map[string]string{}
	}
	s.Facts[key] = value
}

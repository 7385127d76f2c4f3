// internal/api/sessions.go
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pump-advisor/internal/advisor/conversation"
	"pump-advisor/internal/models"
)

type createSessionRequest struct {
	SessionID string `json:"sessionId"`
}

type chatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

type sessionView struct {
	SessionID      string                       `json:"sessionId"`
	Stage          models.Stage                 `json:"stage"`
	NextQuestion   string                       `json:"nextQuestion"`
	Data           models.CollectedData         `json:"data"`
	Transcript     []models.Turn                `json:"transcript"`
	Recommendation *models.RecommendationResult `json:"recommendation,omitempty"`
	LeadID         string                       `json:"leadId,omitempty"`
	CreatedAt      time.Time                    `json:"createdAt"`
	LastAccess     time.Time                    `json:"lastAccess"`
}

func newSessionView(s *models.Session) sessionView {
	transcript := s.Transcript
	if transcript == nil {
		transcript = []models.Turn{}
	}
	return sessionView{
		SessionID:      s.ID,
		Stage:          s.Stage,
		NextQuestion:   conversation.NextQuestion(s.Stage),
		Data:           s.Data,
		Transcript:     transcript,
		Recommendation: s.Data.Recommendation,
		LeadID:         s.LeadID,
		CreatedAt:      s.CreatedAt,
		LastAccess:     s.LastAccess,
	}
}

// CreateSession opens a conversation. A missing id is generated; an
// existing id is returned unchanged with 200.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := h.decode(w, r, createSessionSchema, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}

	sess, created, err := h.chat.Open(r.Context(), req.SessionID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		h.logger.Info("session opened", map[string]interface{}{"sessionId": sess.ID})
	}
	JSON(w, status, newSessionView(sess))
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.chat.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, newSessionView(sess))
}

// Chat applies one user message and returns the assistant reply.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := h.decode(w, r, chatSchema, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.chat.HandleTurn(r.Context(), req.SessionID, req.Message)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, result)
}

package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/jonathan/pathgenie/internal/chat"
	"github.com/jonathan/pathgenie/internal/questionnaire"
	"github.com/jonathan/pathgenie/internal/session"
	"github.com/jonathan/pathgenie/internal/types"
)

const maxBodyBytes = 1 << 20

// ---------------------------------------------------------------------
// Session Handlers
// ---------------------------------------------------------------------

// SessionResponse is a session plus the question it is currently on.
type SessionResponse struct {
	*session.Session
	CurrentQuestion *types.Question `json:"current_question,omitempty"`
	QuestionNumber  int             `json:"question_number,omitempty"`
	TotalQuestions  int             `json:"total_questions"`
	Progress        float64         `json:"progress"`
	CanAdvance      bool            `json:"can_advance"`
}

func (s *Server) sessionResponse(sess *session.Session) SessionResponse {
	resp := SessionResponse{
		Session:        sess,
		TotalQuestions: s.manager.Catalog().Len(),
	}
	if sess.Step != session.StepQuestionnaire {
		return resp
	}
	ctrl, err := questionnaire.Restore(s.manager.Catalog(), sess.Questionnaire)
	if err != nil {
		return resp
	}
	q := ctrl.Current()
	resp.CurrentQuestion = &q
	resp.QuestionNumber = ctrl.Index() + 1
	resp.Progress = ctrl.Progress()
	resp.CanAdvance = ctrl.CanAdvance()
	return resp
}

// decodeJSON decodes a JSON request body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return &ErrValidation{Field: "body", Message: "Invalid request body: " + err.Error()}
	}
	return nil
}

func (s *Server) handleQuestions(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"questions": s.manager.Catalog().Questions(),
	})
}

func (s *Server) handleSuggestions(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"suggestions": chat.SuggestedQuestions(),
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req types.StartSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, err)
		return
	}

	sess, err := s.manager.Start(r.Context(), req.Email)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, s.sessionResponse(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.sessionResponse(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Restart(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.sessionResponse(sess))
}

func (s *Server) handleBegin(w http.ResponseWriter, r *http.Request) {
	var req types.StartSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, err)
		return
	}

	sess, err := s.manager.Begin(r.Context(), r.PathValue("id"), req.Email)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.sessionResponse(sess))
}

// ---------------------------------------------------------------------
// Questionnaire Handlers
// ---------------------------------------------------------------------

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req types.AnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, err)
		return
	}

	sess, err := s.manager.Answer(r.Context(), r.PathValue("id"), r.PathValue("question_id"), req.Value)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.sessionResponse(sess))
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req types.ToggleRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, err)
		return
	}

	sess, err := s.manager.Toggle(r.Context(), r.PathValue("id"), r.PathValue("question_id"), req.Value)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.sessionResponse(sess))
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Next(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.sessionResponse(sess))
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Back(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.sessionResponse(sess))
}

package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jonathan/pathgenie/internal/chat"
	"github.com/jonathan/pathgenie/internal/report"
	"github.com/jonathan/pathgenie/internal/session"
	"github.com/jonathan/pathgenie/internal/types"
)

// ---------------------------------------------------------------------
// Results Handlers
// ---------------------------------------------------------------------

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	view, err := s.manager.View(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, view)
}

func (s *Server) handleToggleCard(w http.ResponseWriter, r *http.Request) {
	rank, err := strconv.Atoi(r.PathValue("rank"))
	if err != nil {
		s.fail(w, &ErrValidation{Field: "rank", Message: "must be an integer"})
		return
	}

	id := r.PathValue("id")
	if _, err := s.manager.ToggleCard(r.Context(), id, rank); err != nil {
		s.fail(w, err)
		return
	}
	view, err := s.manager.View(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, view)
}

// ChatResponse carries the assistant reply and the full conversation.
type ChatResponse struct {
	Reply        types.Turn   `json:"reply"`
	Conversation []types.Turn `json:"conversation"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, err)
		return
	}

	id := r.PathValue("id")
	reply, err := s.manager.Chat(r.Context(), id, req.Message)
	if err != nil {
		s.fail(w, err)
		return
	}

	sess, err := s.manager.Get(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ChatResponse{Reply: reply, Conversation: sess.Conversation})
}

func (s *Server) handleResetChat(w http.ResponseWriter, r *http.Request) {
	if _, err := s.manager.ResetChat(r.Context(), r.PathValue("id")); err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"conversation": []types.Turn{},
		"suggestions":  chat.SuggestedQuestions(),
	})
}

// ShareResponse identifies a shared result.
type ShareResponse struct {
	ID        string `json:"id"`
	Path      string `json:"path"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	shared, err := s.manager.Share(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}

	resp := ShareResponse{ID: shared.ID, Path: "/shared/" + shared.ID}
	if !shared.ExpiresAt.IsZero() {
		resp.ExpiresAt = shared.ExpiresAt.Format(time.RFC3339)
	}
	s.jsonResponse(w, http.StatusCreated, resp)
}

func (s *Server) handleGetShared(w http.ResponseWriter, r *http.Request) {
	if s.shared == nil {
		s.fail(w, session.ErrSharingDisabled)
		return
	}

	shared, err := s.shared.GetShared(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, shared)
}

// ---------------------------------------------------------------------
// Report Handlers
// ---------------------------------------------------------------------

func (s *Server) handleSessionReport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	if sess.Result == nil {
		s.fail(w, &session.StepError{Op: "download a report", Step: sess.Step})
		return
	}
	s.reportResponse(w, sess.Result, sess.Email)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req types.ReportRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, err)
		return
	}
	if err := req.Results.Validate(0); err != nil {
		s.fail(w, &ErrValidation{Field: "results", Message: err.Error()})
		return
	}
	req.Results.SortByRank()
	s.reportResponse(w, req.Results, req.Email)
}

func (s *Server) reportResponse(w http.ResponseWriter, result *types.AnalysisResult, email string) {
	html, err := report.Render(result, email)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

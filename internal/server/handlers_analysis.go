package server

import (
	"context"
	"log"
	"net/http"

	"github.com/jonathan/pathgenie/internal/analysis"
	"github.com/jonathan/pathgenie/internal/session"
)

// AnalysisErrorResponse is returned when analysis fails. The session is back
// on the questionnaire with every answer kept.
type AnalysisErrorResponse struct {
	Error   string          `json:"error"`
	Session SessionResponse `json:"session"`
}

// handleAnalyze runs the analysis and responds once it completes
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Analyze(r.Context(), r.PathValue("id"))
	if err != nil {
		if sess != nil {
			status := HTTPStatus(err)
			s.jsonResponse(w, status, AnalysisErrorResponse{
				Error:   errorMessage(err, status),
				Session: s.sessionResponse(sess),
			})
			return
		}
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.sessionResponse(sess))
}

// handleAnalyzeStream runs the analysis and streams stage labels via SSE
// until the result is ready.
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// Reject requests that cannot start before switching to a stream.
	current, err := s.manager.Get(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	if s.manager.Analyzing(current) {
		s.fail(w, session.ErrAnalysisInProgress)
		return
	}
	if current.Step != session.StepAnalysis {
		s.fail(w, &session.StepError{Op: "analyze", Step: current.Step})
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	stageCtx, stopStages := context.WithCancel(r.Context())
	stagesDone := make(chan struct{})
	total := len(analysis.Stages())
	go func() {
		defer close(stagesDone)
		analysis.RunStages(stageCtx, s.stageInterval, func(i int, label string) {
			if err := sse.WriteStage(i, total, label); err != nil {
				log.Printf("Error writing SSE event: %v", err)
			}
		})
	}()

	sess, err := s.manager.Analyze(r.Context(), id)
	stopStages()
	<-stagesDone

	if err != nil {
		status := HTTPStatus(err)
		log.Printf("[analysis] stream for %s failed: %v", id, err)
		var view any
		if sess != nil {
			view = s.sessionResponse(sess)
		}
		sse.WriteError(status, errorMessage(err, status), view)
		return
	}

	sse.WriteComplete(s.sessionResponse(sess))
}

package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/pathgenie/internal/analysis"
	"github.com/jonathan/pathgenie/internal/chat"
	"github.com/jonathan/pathgenie/internal/questionnaire"
	"github.com/jonathan/pathgenie/internal/session"
	"github.com/jonathan/pathgenie/internal/store"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		fieldErrs     validator.ValidationErrors
		invalidAnswer *questionnaire.InvalidAnswerError
		unanswered    *questionnaire.ValidationError
		unknownQ      *questionnaire.UnknownQuestionError
		unknownCard   *session.UnknownCardError
		stepErr       *session.StepError
		analysisErr   *analysis.Error
	)

	switch {
	case errors.As(err, &validationErr), errors.As(err, &fieldErrs),
		errors.As(err, &invalidAnswer), errors.Is(err, chat.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.As(err, &unanswered):
		return http.StatusUnprocessableEntity
	case errors.As(err, &unknownQ), errors.As(err, &unknownCard),
		errors.Is(err, session.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &stepErr), errors.Is(err, session.ErrAnalysisInProgress),
		errors.Is(err, session.ErrSessionChanged),
		errors.Is(err, chat.ErrBusy), errors.Is(err, questionnaire.ErrFrozen):
		return http.StatusConflict
	case errors.Is(err, session.ErrSharingDisabled):
		return http.StatusServiceUnavailable
	case errors.As(err, &analysisErr):
		switch analysisErr.Kind {
		case analysis.KindRateLimited:
			return http.StatusTooManyRequests
		case analysis.KindQuotaExceeded:
			return http.StatusPaymentRequired
		default:
			return http.StatusBadGateway
		}
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage returns the client-facing message for an error.
func errorMessage(err error, status int) string {
	var (
		analysisErr *analysis.Error
		fieldErrs   validator.ValidationErrors
	)
	switch {
	case errors.As(err, &analysisErr):
		return analysisErr.UserMessage()
	case errors.As(err, &fieldErrs):
		fields := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", strings.ToLower(fe.Field()), fe.Tag()))
		}
		return "invalid field: " + strings.Join(fields, ", ")
	case status == http.StatusInternalServerError:
		return "Internal server error"
	default:
		return err.Error()
	}
}

// fail writes the error response for err.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
	}

	body := map[string]any{"error": errorMessage(err, status)}
	var unanswered *questionnaire.ValidationError
	if errors.As(err, &unanswered) {
		body["question_id"] = unanswered.QuestionID
	}
	s.jsonResponse(w, status, body)
}

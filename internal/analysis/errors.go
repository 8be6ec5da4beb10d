package analysis

import (
	"errors"
	"fmt"

	"github.com/jonathan/pathgenie/internal/llm"
)

// ErrorKind classifies why an analysis produced no result.
type ErrorKind string

// Error kinds
const (
	KindRateLimited       ErrorKind = "rate_limited"
	KindQuotaExceeded     ErrorKind = "quota_exceeded"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindServiceError      ErrorKind = "service_error"
)

// Error is returned by Analyze whenever no usable result was produced.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("analysis failed (%s): %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("analysis failed (%s): %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// UserMessage is the text shown to the student for this failure.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindRateLimited:
		return "Rate limit exceeded. Please try again in a moment."
	case KindQuotaExceeded:
		return "AI usage limit reached. Please try again later."
	case KindMalformedResponse:
		return "The analysis came back incomplete. Please try again."
	default:
		return "Failed to analyze your profile. Please try again."
	}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var aerr *Error
	return errors.As(err, &aerr) && aerr.Kind == kind
}

// fromClientError maps a completion client failure onto the analysis taxonomy.
func fromClientError(err error) *Error {
	var apiErr *llm.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case llm.KindRateLimited:
			return &Error{Kind: KindRateLimited, Message: "completion service rate limit", Cause: err}
		case llm.KindQuotaExceeded:
			return &Error{Kind: KindQuotaExceeded, Message: "completion service quota exhausted", Cause: err}
		}
		return &Error{Kind: KindServiceError, Message: "completion service unavailable", Cause: err}
	}
	if errors.Is(err, llm.ErrNoStructuredOutput) {
		return &Error{Kind: KindMalformedResponse, Message: "no structured response", Cause: err}
	}
	return &Error{Kind: KindServiceError, Message: "completion request failed", Cause: err}
}

package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrNoStructuredOutput is returned when the service answered without the requested JSON payload.
var ErrNoStructuredOutput = errors.New("no structured response from AI")

// ErrorKind classifies completion service failures.
type ErrorKind string

// Error kinds
const (
	KindRateLimited   ErrorKind = "rate_limited"
	KindQuotaExceeded ErrorKind = "quota_exceeded"
	KindUnavailable   ErrorKind = "unavailable"
)

// APIError represents a failed call to the completion service.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Cause      error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("AI service error: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("AI service error: %s", msg)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// kindForStatus maps an HTTP status to an error kind. 429 is a rate limit,
// 402 means the usage quota (credits) is exhausted.
func kindForStatus(code int, message string) ErrorKind {
	switch code {
	case http.StatusTooManyRequests:
		if isQuotaMessage(message) {
			return KindQuotaExceeded
		}
		return KindRateLimited
	case http.StatusPaymentRequired:
		return KindQuotaExceeded
	default:
		return KindUnavailable
	}
}

func isQuotaMessage(message string) bool {
	m := strings.ToLower(message)
	return strings.Contains(m, "quota") || strings.Contains(m, "billing") || strings.Contains(m, "credits")
}

// classifyGeminiError converts an SDK error into an *APIError.
// The SDK reports gRPC status codes; REST transports surface *googleapi.Error.
func classifyGeminiError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &APIError{
			Kind:       kindForStatus(gerr.Code, gerr.Message),
			StatusCode: gerr.Code,
			Message:    "failed to generate content",
			Cause:      err,
		}
	}

	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.ResourceExhausted:
			kind := KindRateLimited
			if isQuotaMessage(st.Message()) {
				kind = KindQuotaExceeded
			}
			return &APIError{Kind: kind, StatusCode: http.StatusTooManyRequests, Message: "failed to generate content", Cause: err}
		case codes.PermissionDenied:
			if isQuotaMessage(st.Message()) {
				return &APIError{Kind: KindQuotaExceeded, StatusCode: http.StatusPaymentRequired, Message: "failed to generate content", Cause: err}
			}
		}
	}

	return &APIError{Kind: KindUnavailable, Message: "failed to generate content", Cause: err}
}

package questionnaire

import (
	"errors"
	"fmt"
)

// ErrFrozen is returned when an answer is written after the questionnaire was submitted.
var ErrFrozen = errors.New("answers are frozen")

// ValidationError reports that the current required question has no answer.
// It blocks the transition; controller state is unchanged.
type ValidationError struct {
	QuestionID string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("question %q requires an answer", e.QuestionID)
}

// UnknownQuestionError reports an answer for an id that is not in the catalog.
type UnknownQuestionError struct {
	QuestionID string
}

func (e *UnknownQuestionError) Error() string {
	return fmt.Sprintf("unknown question: %s", e.QuestionID)
}

// InvalidAnswerError reports a value that does not fit the question kind.
type InvalidAnswerError struct {
	QuestionID string
	Message    string
}

func (e *InvalidAnswerError) Error() string {
	return fmt.Sprintf("invalid answer for %s: %s", e.QuestionID, e.Message)
}

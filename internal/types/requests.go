package types

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// validate is shared; validator.Validate caches struct metadata and is safe for concurrent use.
var validate = validator.New()

// StartSessionRequest starts a questionnaire for the given email.
type StartSessionRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// AnswerRequest sets the answer of one question. Value is a string,
// a list of strings or an integer depending on the question kind.
type AnswerRequest struct {
	Value json.RawMessage `json:"value" validate:"required"`
}

// ToggleRequest adds or removes one option of a multi-select answer.
type ToggleRequest struct {
	Value string `json:"value" validate:"required"`
}

// ChatRequest is one follow-up message of the chat panel.
type ChatRequest struct {
	Message string `json:"message" validate:"max=4000"`
}

// ReportRequest asks for a rendered report of an analysis result.
type ReportRequest struct {
	Email   string          `json:"email" validate:"omitempty,email"`
	Results *AnalysisResult `json:"results" validate:"required"`
}

// Validate validates the StartSessionRequest using the validator.
func (r *StartSessionRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the AnswerRequest using the validator.
func (r *AnswerRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the ToggleRequest using the validator.
func (r *ToggleRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the ChatRequest using the validator.
func (r *ChatRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the ReportRequest using the validator.
func (r *ReportRequest) Validate() error {
	return validate.Struct(r)
}

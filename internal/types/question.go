// Package types provides type definitions for structured data used throughout the career quiz.
//
//nolint:revive // types is a standard Go package name pattern
package types

// QuestionKind identifies how a question is answered.
type QuestionKind string

// Question kinds
const (
	KindText        QuestionKind = "text"
	KindSelect      QuestionKind = "select"
	KindMultiSelect QuestionKind = "multi-select"
	KindRating      QuestionKind = "rating"
	KindTextarea    QuestionKind = "textarea"
)

// Rating bounds (inclusive)
const (
	MinRating = 1
	MaxRating = 10
)

// Valid reports whether k is one of the known question kinds.
func (k QuestionKind) Valid() bool {
	switch k {
	case KindText, KindSelect, KindMultiSelect, KindRating, KindTextarea:
		return true
	}
	return false
}

// HasOptions reports whether answers for this kind are picked from a fixed option list.
func (k QuestionKind) HasOptions() bool {
	return k == KindSelect || k == KindMultiSelect
}

// IsText reports whether the kind takes free text.
func (k QuestionKind) IsText() bool {
	return k == KindText || k == KindTextarea
}

// Difficulty groups questions into warm-up, intermediate and advanced sections.
type Difficulty string

// Difficulty levels
const (
	DifficultyBasic        Difficulty = "basic"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Option is one selectable value of a select or multi-select question.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Question is a single, immutable questionnaire entry.
type Question struct {
	ID          string       `json:"id" yaml:"id"`
	Category    string       `json:"category" yaml:"category"`
	Prompt      string       `json:"question" yaml:"question"`
	Kind        QuestionKind `json:"type" yaml:"type"`
	Options     []Option     `json:"options,omitempty" yaml:"options,omitempty"`
	Required    bool         `json:"required" yaml:"required"`
	Placeholder string       `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	HelperText  string       `json:"helper_text,omitempty" yaml:"helper_text,omitempty"`
	Difficulty  Difficulty   `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
}

// HasOption reports whether value is one of the question's option values.
func (q *Question) HasOption(value string) bool {
	for _, opt := range q.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// OptionLabel returns the display label for value, or value itself when unknown.
func (q *Question) OptionLabel(value string) string {
	for _, opt := range q.Options {
		if opt.Value == value {
			return opt.Label
		}
	}
	return value
}

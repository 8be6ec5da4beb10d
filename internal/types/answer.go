package types

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Answer is a tagged union holding the value given to one question.
// Exactly one of Text, Choices or Rating is meaningful, selected by Kind:
// text, textarea and select use Text; multi-select uses Choices; rating uses Rating.
type Answer struct {
	Kind    QuestionKind `json:"kind"`
	Text    string       `json:"text,omitempty"`
	Choices []string     `json:"choices,omitempty"`
	Rating  int          `json:"rating,omitempty"`
}

// TextAnswer builds an answer for a text or textarea question.
func TextAnswer(kind QuestionKind, text string) Answer {
	return Answer{Kind: kind, Text: text}
}

// SelectAnswer builds an answer for a single-select question.
func SelectAnswer(value string) Answer {
	return Answer{Kind: KindSelect, Text: value}
}

// MultiSelectAnswer builds an answer for a multi-select question.
func MultiSelectAnswer(values ...string) Answer {
	return Answer{Kind: KindMultiSelect, Choices: slices.Clone(values)}
}

// RatingAnswer builds an answer for a rating question.
func RatingAnswer(n int) Answer {
	return Answer{Kind: KindRating, Rating: n}
}

// IsEmpty reports whether the answer carries no usable value.
// Text is trimmed for this check only; stored text keeps its whitespace.
func (a Answer) IsEmpty() bool {
	switch a.Kind {
	case KindMultiSelect:
		return len(a.Choices) == 0
	case KindRating:
		return a.Rating < MinRating || a.Rating > MaxRating
	default:
		return strings.TrimSpace(a.Text) == ""
	}
}

// Clone returns a deep copy of the answer.
func (a Answer) Clone() Answer {
	a.Choices = slices.Clone(a.Choices)
	return a
}

// String renders the answer the way it is shown to the completion service:
// list values joined by ", ", ratings as their number.
func (a Answer) String() string {
	switch a.Kind {
	case KindMultiSelect:
		return strings.Join(a.Choices, ", ")
	case KindRating:
		if a.Rating == 0 {
			return ""
		}
		return strconv.Itoa(a.Rating)
	default:
		return a.Text
	}
}

// DecodeAnswer converts a raw JSON value (string, string list or number)
// into an Answer for a question of the given kind.
func DecodeAnswer(kind QuestionKind, raw json.RawMessage) (Answer, error) {
	switch kind {
	case KindMultiSelect:
		var values []string
		if err := json.Unmarshal(raw, &values); err != nil {
			return Answer{}, fmt.Errorf("multi-select answer must be a list of strings: %w", err)
		}
		return MultiSelectAnswer(values...), nil
	case KindRating:
		var n int
		if err := json.Unmarshal(raw, &n); err != nil {
			return Answer{}, fmt.Errorf("rating answer must be an integer: %w", err)
		}
		return RatingAnswer(n), nil
	case KindSelect:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Answer{}, fmt.Errorf("select answer must be a string: %w", err)
		}
		return SelectAnswer(s), nil
	case KindText, KindTextarea:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Answer{}, fmt.Errorf("text answer must be a string: %w", err)
		}
		return TextAnswer(kind, s), nil
	default:
		return Answer{}, fmt.Errorf("unknown question kind %q", kind)
	}
}

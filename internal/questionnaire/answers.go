// Package questionnaire walks the question catalog, collects answers and
// gates each step on required questions being answered.
package questionnaire

import (
	"fmt"
	"maps"
	"slices"

	"github.com/jonathan/pathgenie/internal/catalog"
	"github.com/jonathan/pathgenie/internal/types"
)

// Answers maps question ids to answers. Every key is a catalog question id;
// a missing key means the question is unanswered.
type Answers struct {
	catalog *catalog.Catalog
	values  map[string]types.Answer
	frozen  bool
}

// NewAnswers creates an empty answer store for the catalog.
func NewAnswers(c *catalog.Catalog) *Answers {
	return &Answers{
		catalog: c,
		values:  make(map[string]types.Answer),
	}
}

// Set overwrites the answer for id after checking it against the question kind.
func (a *Answers) Set(id string, answer types.Answer) error {
	if a.frozen {
		return ErrFrozen
	}
	q, ok := a.catalog.Get(id)
	if !ok {
		return &UnknownQuestionError{QuestionID: id}
	}
	if err := checkAnswer(q, answer); err != nil {
		return err
	}
	a.values[id] = answer.Clone()
	return nil
}

// Toggle adds value to a multi-select answer, or removes it when already selected.
func (a *Answers) Toggle(id, value string) error {
	if a.frozen {
		return ErrFrozen
	}
	q, ok := a.catalog.Get(id)
	if !ok {
		return &UnknownQuestionError{QuestionID: id}
	}
	if q.Kind != types.KindMultiSelect {
		return &InvalidAnswerError{QuestionID: id, Message: fmt.Sprintf("toggle needs a multi-select question, got %s", q.Kind)}
	}
	if !q.HasOption(value) {
		return &InvalidAnswerError{QuestionID: id, Message: fmt.Sprintf("%q is not an option", value)}
	}

	current := a.values[id].Choices
	if i := slices.Index(current, value); i >= 0 {
		current = slices.Delete(slices.Clone(current), i, i+1)
	} else {
		current = append(slices.Clone(current), value)
	}
	a.values[id] = types.MultiSelectAnswer(current...)
	return nil
}

// Get returns the answer for id, if any.
func (a *Answers) Get(id string) (types.Answer, bool) {
	v, ok := a.values[id]
	if !ok {
		return types.Answer{}, false
	}
	return v.Clone(), true
}

// IsAnswered reports whether q counts as answered. Optional questions always do.
func (a *Answers) IsAnswered(q types.Question) bool {
	if !q.Required {
		return true
	}
	v, ok := a.values[q.ID]
	return ok && !v.IsEmpty()
}

// Len returns the number of stored answers.
func (a *Answers) Len() int {
	return len(a.values)
}

// IDs returns the answered question ids in catalog order.
func (a *Answers) IDs() []string {
	ids := make([]string, 0, len(a.values))
	for _, q := range a.catalog.Questions() {
		if _, ok := a.values[q.ID]; ok {
			ids = append(ids, q.ID)
		}
	}
	return ids
}

// Freeze makes the store read-only.
func (a *Answers) Freeze() {
	a.frozen = true
}

// Frozen reports whether the store is read-only.
func (a *Answers) Frozen() bool {
	return a.frozen
}

// Snapshot returns a frozen deep copy of the store.
func (a *Answers) Snapshot() *Answers {
	s := &Answers{
		catalog: a.catalog,
		values:  make(map[string]types.Answer, len(a.values)),
		frozen:  true,
	}
	for k, v := range a.values {
		s.values[k] = v.Clone()
	}
	return s
}

// Map returns a copy of the raw id → answer mapping.
func (a *Answers) Map() map[string]types.Answer {
	out := maps.Clone(a.values)
	for k, v := range out {
		out[k] = v.Clone()
	}
	if out == nil {
		out = make(map[string]types.Answer)
	}
	return out
}

func (a *Answers) unfreeze() {
	a.frozen = false
}

// checkAnswer verifies that answer matches the kind and options of q.
func checkAnswer(q types.Question, answer types.Answer) error {
	if answer.Kind != q.Kind {
		return &InvalidAnswerError{QuestionID: q.ID, Message: fmt.Sprintf("expected %s answer, got %s", q.Kind, answer.Kind)}
	}

	switch q.Kind {
	case types.KindSelect:
		if answer.Text != "" && !q.HasOption(answer.Text) {
			return &InvalidAnswerError{QuestionID: q.ID, Message: fmt.Sprintf("%q is not an option", answer.Text)}
		}
	case types.KindMultiSelect:
		seen := make(map[string]bool, len(answer.Choices))
		for _, v := range answer.Choices {
			if !q.HasOption(v) {
				return &InvalidAnswerError{QuestionID: q.ID, Message: fmt.Sprintf("%q is not an option", v)}
			}
			if seen[v] {
				return &InvalidAnswerError{QuestionID: q.ID, Message: fmt.Sprintf("%q selected twice", v)}
			}
			seen[v] = true
		}
	case types.KindRating:
		if answer.Rating < types.MinRating || answer.Rating > types.MaxRating {
			return &InvalidAnswerError{QuestionID: q.ID, Message: fmt.Sprintf("rating must be %d-%d, got %d", types.MinRating, types.MaxRating, answer.Rating)}
		}
	}
	return nil
}

package questionnaire

import (
	"fmt"

	"github.com/jonathan/pathgenie/internal/catalog"
	"github.com/jonathan/pathgenie/internal/types"
)

// Controller is a linear state machine over the catalog.
// The index always stays within [0, N-1].
type Controller struct {
	catalog  *catalog.Catalog
	index    int
	answers  *Answers
	finished bool
}

// State is the serializable form of a Controller.
type State struct {
	Index    int                     `json:"current_index"`
	Answers  map[string]types.Answer `json:"answers"`
	Finished bool                    `json:"finished"`
}

// New starts a questionnaire at the first question with no answers.
func New(c *catalog.Catalog) *Controller {
	return &Controller{
		catalog: c,
		answers: NewAnswers(c),
	}
}

// Restore rebuilds a controller from a saved state, re-validating every answer.
func Restore(c *catalog.Catalog, s State) (*Controller, error) {
	if s.Index < 0 || s.Index >= c.Len() {
		return nil, fmt.Errorf("current_index %d out of range 0-%d", s.Index, c.Len()-1)
	}
	ctrl := New(c)
	for id, a := range s.Answers {
		if err := ctrl.answers.Set(id, a); err != nil {
			return nil, fmt.Errorf("failed to restore answer: %w", err)
		}
	}
	ctrl.index = s.Index
	if s.Finished {
		ctrl.finished = true
		ctrl.answers.Freeze()
	}
	return ctrl, nil
}

// State returns the serializable state of the controller.
func (c *Controller) State() State {
	return State{
		Index:    c.index,
		Answers:  c.answers.Map(),
		Finished: c.finished,
	}
}

// Current returns the question at the current index.
func (c *Controller) Current() types.Question {
	return c.catalog.At(c.index)
}

// Index returns the 0-based current position.
func (c *Controller) Index() int {
	return c.index
}

// Total returns the number of questions.
func (c *Controller) Total() int {
	return c.catalog.Len()
}

// Progress returns the completion percentage shown in the progress bar.
func (c *Controller) Progress() float64 {
	return float64(c.index+1) / float64(c.catalog.Len()) * 100
}

// IsLast reports whether the current question is the final one.
func (c *Controller) IsLast() bool {
	return c.index == c.catalog.Len()-1
}

// Finished reports whether the questionnaire was submitted.
func (c *Controller) Finished() bool {
	return c.finished
}

// CanAdvance reports whether the current question is answered well enough to move on.
func (c *Controller) CanAdvance() bool {
	return c.answers.IsAnswered(c.Current())
}

// SetAnswer overwrites the answer for a question.
func (c *Controller) SetAnswer(id string, answer types.Answer) error {
	return c.answers.Set(id, answer)
}

// Toggle flips one option of a multi-select answer.
func (c *Controller) Toggle(id, value string) error {
	return c.answers.Toggle(id, value)
}

// Answer returns the stored answer for id.
func (c *Controller) Answer(id string) (types.Answer, bool) {
	return c.answers.Get(id)
}

// Advance moves to the next question. A required, unanswered current question
// yields a *ValidationError and leaves the state unchanged. On the last question
// the answers are frozen and finished is true.
func (c *Controller) Advance() (finished bool, err error) {
	if c.finished {
		return true, nil
	}
	current := c.Current()
	if !c.answers.IsAnswered(current) {
		return false, &ValidationError{QuestionID: current.ID}
	}
	if c.IsLast() {
		c.answers.Freeze()
		c.finished = true
		return true, nil
	}
	c.index++
	return false, nil
}

// Retreat moves to the previous question; it is a no-op on the first one.
func (c *Controller) Retreat() {
	if c.finished {
		return
	}
	if c.index > 0 {
		c.index--
	}
}

// Answers returns a read-only snapshot of the collected answers.
func (c *Controller) Answers() *Answers {
	return c.answers.Snapshot()
}

// Reopen returns a submitted questionnaire to editable state at its last
// question, keeping every answer. Used when analysis fails.
func (c *Controller) Reopen() {
	c.finished = false
	c.answers.unfreeze()
}

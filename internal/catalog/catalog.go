// Package catalog provides the ordered, immutable list of quiz questions.
// The default catalog is stored as YAML and embedded at compile time.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sync"

	"github.com/jonathan/pathgenie/internal/types"
	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var defaultQuestions []byte

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Catalog is an ordered set of questions indexed by id.
type Catalog struct {
	questions []types.Question
	index     map[string]int
}

// Default returns the embedded catalog. It is decoded once and shared.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Load(bytes.NewReader(defaultQuestions))
	})
	return defaultCatalog, defaultErr
}

// MustDefault returns the embedded catalog, panicking if it is invalid.
// Use this at initialization time only.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(fmt.Sprintf("failed to load question catalog: %v", err))
	}
	return c
}

// Load decodes a YAML list of questions and validates it.
func Load(r io.Reader) (*Catalog, error) {
	var questions []types.Question
	if err := yaml.NewDecoder(r).Decode(&questions); err != nil {
		return nil, fmt.Errorf("failed to parse question catalog: %w", err)
	}
	return New(questions)
}

// New builds a catalog from questions in the given order.
func New(questions []types.Question) (*Catalog, error) {
	c := &Catalog{
		questions: make([]types.Question, len(questions)),
		index:     make(map[string]int, len(questions)),
	}
	copy(c.questions, questions)
	for i, q := range c.questions {
		c.index[q.ID] = i
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks ids are unique and non-empty, kinds are known, and option
// lists match the question kind.
func (c *Catalog) Validate() error {
	if len(c.questions) == 0 {
		return fmt.Errorf("catalog has no questions")
	}

	seen := make(map[string]bool, len(c.questions))
	for i, q := range c.questions {
		if q.ID == "" {
			return fmt.Errorf("question %d has no id", i)
		}
		if seen[q.ID] {
			return fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = true

		if !q.Kind.Valid() {
			return fmt.Errorf("question %q has unknown type %q", q.ID, q.Kind)
		}
		if q.Kind.HasOptions() {
			if len(q.Options) == 0 {
				return fmt.Errorf("question %q of type %s has no options", q.ID, q.Kind)
			}
			values := make(map[string]bool, len(q.Options))
			for _, opt := range q.Options {
				if values[opt.Value] {
					return fmt.Errorf("question %q has duplicate option %q", q.ID, opt.Value)
				}
				values[opt.Value] = true
			}
		} else if len(q.Options) > 0 {
			return fmt.Errorf("question %q of type %s must not have options", q.ID, q.Kind)
		}
	}
	return nil
}

// Len returns the number of questions.
func (c *Catalog) Len() int {
	return len(c.questions)
}

// At returns the question at position i.
func (c *Catalog) At(i int) types.Question {
	return c.questions[i]
}

// Get returns the question with the given id.
func (c *Catalog) Get(id string) (types.Question, bool) {
	i, ok := c.index[id]
	if !ok {
		return types.Question{}, false
	}
	return c.questions[i], true
}

// IndexOf returns the position of the question with the given id, or -1.
func (c *Catalog) IndexOf(id string) int {
	if i, ok := c.index[id]; ok {
		return i
	}
	return -1
}

// Questions returns a copy of the questions in catalog order.
func (c *Catalog) Questions() []types.Question {
	out := make([]types.Question, len(c.questions))
	copy(out, c.questions)
	return out
}

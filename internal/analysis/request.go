// Package analysis turns a finished questionnaire into ranked career
// recommendations through the completion service.
package analysis

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/jonathan/pathgenie/internal/catalog"
	"github.com/jonathan/pathgenie/internal/llm"
	"github.com/jonathan/pathgenie/internal/prompts"
	"github.com/jonathan/pathgenie/internal/questionnaire"
	"github.com/jonathan/pathgenie/internal/schemas"
	"github.com/jonathan/pathgenie/internal/types"
)

var responseSchema = sync.OnceValues(func() (*llm.Schema, error) {
	return llm.ParseSchema(schemas.AnalysisResultSchema())
})

// RenderAnswerSummary lists the answered questions in catalog order, one
// "<question>: <answer>" line each. Empty answers are left out.
func RenderAnswerSummary(c *catalog.Catalog, answers *questionnaire.Answers) string {
	lines := make([]string, 0, c.Len())
	for _, q := range c.Questions() {
		a, ok := answers.Get(q.ID)
		if !ok || a.IsEmpty() {
			continue
		}
		lines = append(lines, q.Prompt+": "+a.String())
	}
	return strings.Join(lines, "\n")
}

// BuildRequest assembles the structured completion request for a set of answers.
func BuildRequest(c *catalog.Catalog, answers *questionnaire.Answers) (llm.StructuredRequest, error) {
	schema, err := responseSchema()
	if err != nil {
		return llm.StructuredRequest{}, fmt.Errorf("failed to load analysis schema: %w", err)
	}

	system, err := prompts.Render(prompts.Analysis, "system", map[string]string{
		"Count": strconv.Itoa(types.ExpectedRecommendations),
	})
	if err != nil {
		return llm.StructuredRequest{}, err
	}

	user, err := prompts.Render(prompts.Analysis, "user", map[string]string{
		"AnswerSummary": RenderAnswerSummary(c, answers),
	})
	if err != nil {
		return llm.StructuredRequest{}, err
	}

	return llm.StructuredRequest{
		Tier:            llm.TierStandard,
		System:          system,
		Prompt:          user,
		ToolName:        prompts.MustGet(prompts.Analysis, "tool-name"),
		ToolDescription: prompts.MustGet(prompts.Analysis, "tool-description"),
		Schema:          schema,
	}, nil
}

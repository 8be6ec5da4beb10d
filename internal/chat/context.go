// Package chat runs the follow-up conversation about an analysis result.
package chat

import (
	"fmt"
	"strings"

	"github.com/jonathan/pathgenie/internal/prompts"
	"github.com/jonathan/pathgenie/internal/types"
)

const whyFitsExcerpt = 150

var suggestedQuestions = []string{
	"How do I prepare for interviews in my top career?",
	"What certifications should I get first?",
	"Compare my top 2 career options",
	"What's the day-to-day like in this role?",
}

// SuggestedQuestions returns the starter prompts offered on an empty conversation.
func SuggestedQuestions() []string {
	out := make([]string, len(suggestedQuestions))
	copy(out, suggestedQuestions)
	return out
}

// BuildContext summarizes an analysis result for the advisor.
func BuildContext(result *types.AnalysisResult) string {
	lines := make([]string, 0, len(result.Recommendations))
	for _, r := range result.Recommendations {
		lines = append(lines, fmt.Sprintf("#%d %s (%d%% fit) - %s", r.Rank, r.CareerTitle, r.FitScore, excerpt(r.WhyFits, whyFitsExcerpt)))
	}

	return prompts.Format(prompts.MustGet(prompts.Chat, "context"), map[string]string{
		"TopRecommendation":     result.Summary.TopRecommendation,
		"ConfidenceLevel":       string(result.Summary.ConfidenceLevel),
		"ConfidenceExplanation": result.Summary.ConfidenceExplanation,
		"Recommendations":       strings.Join(lines, "\n"),
	})
}

// SystemPrompt is the advisor persona followed by the result context.
func SystemPrompt(result *types.AnalysisResult) string {
	return prompts.Format(prompts.MustGet(prompts.Chat, "system"), map[string]string{
		"Context": BuildContext(result),
	})
}

// FallbackReply is appended when the advisor could not answer.
func FallbackReply() string {
	return prompts.MustGet(prompts.Chat, "fallback")
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Package results derives the presentation model of an analysis: fit tiers,
// chart series and per-card expansion state.
package results

import (
	"math"
	"strings"

	"github.com/jonathan/pathgenie/internal/types"
)

// DefaultDimensionScore is used when no keyword matches an outlook string.
const DefaultDimensionScore = 50

type keywordScore struct {
	keyword string
	score   int
}

// Tables are ordered; the first keyword contained in the text wins, so
// "Very High" has to precede "High".
var (
	growthScores = []keywordScore{
		{"Very High", 95},
		{"High", 80},
		{"Moderate", 60},
		{"Low", 40},
	}
	workLifeScores = []keywordScore{
		{"Excellent", 95},
		{"Good", 80},
		{"Moderate", 60},
		{"Poor", 40},
	}
	jobAvailabilityScores = []keywordScore{
		{"Very High", 95},
		{"High", 80},
		{"Moderate", 60},
		{"Low", 40},
	}
)

func scoreByKeyword(text string, table []keywordScore) int {
	for _, ks := range table {
		if strings.Contains(text, ks.keyword) {
			return ks.score
		}
	}
	return DefaultDimensionScore
}

// GrowthScore maps a growth potential description to 0-100.
func GrowthScore(text string) int {
	return scoreByKeyword(text, growthScores)
}

// WorkLifeScore maps a work-life balance description to 0-100.
func WorkLifeScore(text string) int {
	return scoreByKeyword(text, workLifeScores)
}

// JobAvailabilityScore maps a job availability description to 0-100.
func JobAvailabilityScore(text string) int {
	return scoreByKeyword(text, jobAvailabilityScores)
}

// SkillMatch is the rounded share of skills the student already has.
// A recommendation listing no skills at all scores 0.
func SkillMatch(rec types.Recommendation) int {
	have := len(rec.SkillsYouHave)
	total := have + len(rec.SkillsToDevelop)
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(have) / float64(total) * 100))
}

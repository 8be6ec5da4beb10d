//nolint:revive // types is a standard Go package name pattern
package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleResult() *AnalysisResult {
	return &AnalysisResult{
		Recommendations: []Recommendation{
			{Rank: 2, CareerTitle: "Full-Stack Developer", FitScore: 81},
			{Rank: 1, CareerTitle: "Machine Learning Engineer", FitScore: 92},
			{Rank: 4, CareerTitle: "DevOps Engineer", FitScore: 68},
			{Rank: 3, CareerTitle: "Data Analyst", FitScore: 74},
		},
		Summary: Summary{
			TopRecommendation: "Machine Learning Engineer",
			ConfidenceLevel:   ConfidenceHigh,
		},
	}
}

func TestAnalysisResult_SortByRank(t *testing.T) {
	r := sampleResult()
	r.SortByRank()

	for i, rec := range r.Recommendations {
		assert.Equal(t, i+1, rec.Rank)
	}
}

func TestAnalysisResult_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, sampleResult().Validate(ExpectedRecommendations))
	})

	t.Run("any count when expected is zero", func(t *testing.T) {
		r := sampleResult()
		r.Recommendations = r.Recommendations[1:2]
		assert.NoError(t, r.Validate(0))
	})

	t.Run("empty", func(t *testing.T) {
		r := sampleResult()
		r.Recommendations = nil
		assert.ErrorContains(t, r.Validate(0), "must not be empty")
	})

	t.Run("wrong count", func(t *testing.T) {
		r := sampleResult()
		r.Recommendations = r.Recommendations[:3]
		assert.ErrorContains(t, r.Validate(ExpectedRecommendations), "expected 4")
	})

	t.Run("duplicate rank", func(t *testing.T) {
		r := sampleResult()
		r.Recommendations[2].Rank = 1
		assert.ErrorContains(t, r.Validate(ExpectedRecommendations), "duplicated")
	})

	t.Run("gap in ranks", func(t *testing.T) {
		r := sampleResult()
		r.Recommendations[2].Rank = 5
		assert.ErrorContains(t, r.Validate(ExpectedRecommendations), "out of range")
	})

	t.Run("fit score out of range", func(t *testing.T) {
		r := sampleResult()
		r.Recommendations[0].FitScore = 101
		assert.ErrorContains(t, r.Validate(ExpectedRecommendations), "fit_score")
	})

	t.Run("bad confidence", func(t *testing.T) {
		r := sampleResult()
		r.Summary.ConfidenceLevel = "Certain"
		assert.ErrorContains(t, r.Validate(ExpectedRecommendations), "confidence_level")
	})
}

func TestAnalysisResult_CloneIsDeep(t *testing.T) {
	r := sampleResult()
	r.Recommendations[0].SkillsYouHave = []string{"Go"}
	r.Recommendations[0].NextSteps = []string{"Build an API"}

	c := r.Clone()
	c.Recommendations[0].CareerTitle = "changed"
	c.Recommendations[0].SkillsYouHave[0] = "changed"
	c.Recommendations[0].NextSteps[0] = "changed"

	assert.Equal(t, "Full-Stack Developer", r.Recommendations[0].CareerTitle)
	assert.Equal(t, []string{"Go"}, r.Recommendations[0].SkillsYouHave)
	assert.Equal(t, []string{"Build an API"}, r.Recommendations[0].NextSteps)
	assert.Equal(t, r.Summary, c.Summary)
}

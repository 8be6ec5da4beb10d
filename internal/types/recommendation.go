package types

import (
	"fmt"
	"slices"
	"sort"
)

// ExpectedRecommendations is the number of recommendations requested from the completion service.
const ExpectedRecommendations = 4

// ConfidenceLevel expresses how consistent the questionnaire answers were.
type ConfidenceLevel string

// Confidence levels
const (
	ConfidenceHigh   ConfidenceLevel = "High"
	ConfidenceMedium ConfidenceLevel = "Medium"
	ConfidenceLow    ConfidenceLevel = "Low"
)

// Valid reports whether c is one of High, Medium or Low.
func (c ConfidenceLevel) Valid() bool {
	return c == ConfidenceHigh || c == ConfidenceMedium || c == ConfidenceLow
}

// CareerOutlook holds the free-text market outlook of a career.
type CareerOutlook struct {
	SalaryEntry       string `json:"salary_entry"`
	SalaryExperienced string `json:"salary_experienced"`
	GrowthPotential   string `json:"growth_potential"`
	WorkLifeBalance   string `json:"work_life_balance"`
	JobAvailability   string `json:"job_availability"`
}

// Recommendation is one ranked career suggestion.
type Recommendation struct {
	Rank            int           `json:"rank"`
	CareerTitle     string        `json:"career_title"`
	FitScore        int           `json:"fit_score"`
	WhyFits         string        `json:"why_fits"`
	RoleDescription string        `json:"role_description"`
	SkillsYouHave   []string      `json:"skills_you_have"`
	SkillsToDevelop []string      `json:"skills_to_develop"`
	CareerOutlook   CareerOutlook `json:"career_outlook"`
	NextSteps       []string      `json:"next_steps"`
}

// Summary is the overall verdict of an analysis.
type Summary struct {
	TopRecommendation     string          `json:"top_recommendation"`
	ConfidenceLevel       ConfidenceLevel `json:"confidence_level"`
	ConfidenceExplanation string          `json:"confidence_explanation"`
}

// AnalysisResult is the complete structured output of one profile analysis.
type AnalysisResult struct {
	Recommendations []Recommendation `json:"recommendations"`
	Summary         Summary          `json:"summary"`
}

// Clone returns a deep copy of the result.
func (r AnalysisResult) Clone() AnalysisResult {
	recs := make([]Recommendation, len(r.Recommendations))
	for i, rec := range r.Recommendations {
		rec.SkillsYouHave = slices.Clone(rec.SkillsYouHave)
		rec.SkillsToDevelop = slices.Clone(rec.SkillsToDevelop)
		rec.NextSteps = slices.Clone(rec.NextSteps)
		recs[i] = rec
	}
	r.Recommendations = recs
	return r
}

// SortByRank orders recommendations by rank ascending.
func (r *AnalysisResult) SortByRank() {
	sort.SliceStable(r.Recommendations, func(i, j int) bool {
		return r.Recommendations[i].Rank < r.Recommendations[j].Rank
	})
}

// Validate checks the result invariants: exactly expected recommendations
// (any non-zero count when expected is 0), ranks unique and contiguous from 1,
// fit scores within 0-100 and a known confidence level.
func (r *AnalysisResult) Validate(expected int) error {
	if len(r.Recommendations) == 0 {
		return fmt.Errorf("recommendations must not be empty")
	}
	if expected > 0 && len(r.Recommendations) != expected {
		return fmt.Errorf("expected %d recommendations, got %d", expected, len(r.Recommendations))
	}

	seen := make(map[int]bool, len(r.Recommendations))
	for i, rec := range r.Recommendations {
		if rec.Rank < 1 || rec.Rank > len(r.Recommendations) {
			return fmt.Errorf("recommendations[%d].rank %d out of range 1-%d", i, rec.Rank, len(r.Recommendations))
		}
		if seen[rec.Rank] {
			return fmt.Errorf("recommendations[%d].rank %d is duplicated", i, rec.Rank)
		}
		seen[rec.Rank] = true
		if rec.FitScore < 0 || rec.FitScore > 100 {
			return fmt.Errorf("recommendations[%d].fit_score %d out of range 0-100", i, rec.FitScore)
		}
		if rec.CareerTitle == "" {
			return fmt.Errorf("recommendations[%d].career_title is empty", i)
		}
	}

	if !r.Summary.ConfidenceLevel.Valid() {
		return fmt.Errorf("summary.confidence_level %q is not one of High, Medium, Low", r.Summary.ConfidenceLevel)
	}
	return nil
}

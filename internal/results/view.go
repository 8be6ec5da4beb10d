package results

import "github.com/jonathan/pathgenie/internal/types"

const teaserLength = 120

// CardState tracks which recommendation cards are expanded, keyed by rank.
// Cards start collapsed and toggle independently.
type CardState map[int]bool

// Toggle flips the expansion of the card with the given rank.
func (s CardState) Toggle(rank int) {
	if s[rank] {
		delete(s, rank)
		return
	}
	s[rank] = true
}

// Expanded reports whether the card with the given rank is expanded.
func (s CardState) Expanded(rank int) bool {
	return s[rank]
}

// Card is one recommendation as shown on the results page.
type Card struct {
	types.Recommendation
	Tier       FitTier `json:"tier"`
	SkillMatch int     `json:"skill_match"`
	Teaser     string  `json:"teaser"`
	Featured   bool    `json:"featured"`
	Expanded   bool    `json:"expanded"`
}

// View is the complete results page model.
type View struct {
	Summary        types.Summary `json:"summary"`
	ConfidenceTier FitTier       `json:"confidence_tier"`
	Cards          []Card        `json:"cards"`
	FitComparison  []BarPoint    `json:"fit_comparison"`
	Dimensions     RadarChart    `json:"dimensions"`
}

// Teaser is the collapsed-card preview of why a career fits.
func Teaser(whyFits string) string {
	r := []rune(whyFits)
	if len(r) > teaserLength {
		r = r[:teaserLength]
	}
	return string(r) + "..."
}

// NewView builds the results page for an analysis. Recommendations are
// shown in the order given, which is rank order for validated results.
func NewView(result *types.AnalysisResult, state CardState) View {
	v := View{
		Summary:        result.Summary,
		ConfidenceTier: ConfidenceTier(result.Summary.ConfidenceLevel),
		Cards:          make([]Card, 0, len(result.Recommendations)),
		FitComparison:  BarSeries(result.Recommendations),
		Dimensions:     RadarSeries(result.Recommendations),
	}

	for i, rec := range result.Recommendations {
		v.Cards = append(v.Cards, Card{
			Recommendation: rec,
			Tier:           Tier(rec.FitScore),
			SkillMatch:     SkillMatch(rec),
			Teaser:         Teaser(rec.WhyFits),
			Featured:       i == 0,
			Expanded:       state.Expanded(rec.Rank),
		})
	}
	return v
}

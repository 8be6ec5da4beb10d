package results

import (
	"strings"
	"testing"

	"github.com/jonathan/pathgenie/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(rank int, title string, fit int) types.Recommendation {
	return types.Recommendation{
		Rank:            rank,
		CareerTitle:     title,
		FitScore:        fit,
		WhyFits:         "Because you like it",
		SkillsYouHave:   []string{"Go"},
		SkillsToDevelop: []string{"Kubernetes", "Terraform"},
		CareerOutlook: types.CareerOutlook{
			GrowthPotential: "Very High",
			WorkLifeBalance: "Good",
			JobAvailability: "Moderate",
		},
	}
}

func sampleResult() *types.AnalysisResult {
	return &types.AnalysisResult{
		Recommendations: []types.Recommendation{
			rec(1, "Machine Learning Engineer", 92),
			rec(2, "Backend Developer", 81),
			rec(3, "Data Analyst", 70),
			rec(4, "QA Engineer", 64),
		},
		Summary: types.Summary{
			TopRecommendation:     "Machine Learning Engineer",
			ConfidenceLevel:       types.ConfidenceMedium,
			ConfidenceExplanation: "Mixed signals",
		},
	}
}

func TestTier(t *testing.T) {
	tests := []struct {
		score int
		want  FitTier
	}{
		{100, TierHigh},
		{85, TierHigh},
		{84, TierMedium},
		{70, TierMedium},
		{69, TierLow},
		{0, TierLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Tier(tt.score), "score %d", tt.score)
	}
}

func TestConfidenceTier(t *testing.T) {
	assert.Equal(t, TierHigh, ConfidenceTier(types.ConfidenceHigh))
	assert.Equal(t, TierMedium, ConfidenceTier(types.ConfidenceMedium))
	assert.Equal(t, TierLow, ConfidenceTier(types.ConfidenceLow))
}

func TestSkillMatch(t *testing.T) {
	tests := []struct {
		name    string
		have    []string
		develop []string
		want    int
	}{
		{"none listed", nil, nil, 0},
		{"all known", []string{"a", "b"}, nil, 100},
		{"none known", nil, []string{"a"}, 0},
		{"one of three rounds down", []string{"a"}, []string{"b", "c"}, 33},
		{"two of three rounds up", []string{"a", "b"}, []string{"c"}, 67},
		{"half", []string{"a"}, []string{"b"}, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SkillMatch(types.Recommendation{SkillsYouHave: tt.have, SkillsToDevelop: tt.develop})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeywordScores(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) int
		text string
		want int
	}{
		{"very high wins over high", GrowthScore, "Very High growth", 95},
		{"high", GrowthScore, "High demand in fintech", 80},
		{"moderate", GrowthScore, "Moderate", 60},
		{"low", GrowthScore, "Low", 40},
		{"case sensitive", GrowthScore, "very high", 50},
		{"no keyword", GrowthScore, "Stable", 50},
		{"empty", GrowthScore, "", 50},
		{"first table entry wins", GrowthScore, "Low to High", 80},
		{"excellent", WorkLifeScore, "Excellent, remote friendly", 95},
		{"good", WorkLifeScore, "Good", 80},
		{"poor", WorkLifeScore, "Poor during launches", 40},
		{"work life unknown", WorkLifeScore, "Varies", 50},
		{"jobs very high", JobAvailabilityScore, "Very High", 95},
		{"jobs moderate", JobAvailabilityScore, "Moderate in tier-2 cities", 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.text))
		})
	}
}

func TestBarLabel(t *testing.T) {
	assert.Equal(t, "Data Analyst", BarLabel("Data Analyst"))
	assert.Equal(t, "Cloud Architect", BarLabel("Cloud Architect"), "exactly 15 characters is kept")
	assert.Equal(t, "Machine Learni…", BarLabel("Machine Learning Engineer"))
	assert.Equal(t, "ÉÉÉÉÉÉÉÉÉÉÉÉÉÉ…", BarLabel(strings.Repeat("É", 16)))
}

func TestBarSeries(t *testing.T) {
	recs := sampleResult().Recommendations
	recs = append(recs, rec(5, "SRE", 60), rec(6, "PM", 55))

	bars := BarSeries(recs)
	require.Len(t, bars, 6)
	assert.Equal(t, "Machine Learni…", bars[0].Name)
	assert.Equal(t, "Machine Learning Engineer", bars[0].FullName)
	assert.Equal(t, 92, bars[0].Score)
	assert.Equal(t, Palette[0], bars[0].Color)
	assert.Equal(t, Palette[0], bars[5].Color, "palette cycles")
}

func TestTopN(t *testing.T) {
	recs := sampleResult().Recommendations
	assert.Len(t, TopN(recs, 3), 3)
	assert.Len(t, TopN(recs[:2], 3), 2)
	assert.Empty(t, TopN(recs, -1))
}

func TestRadarSeries(t *testing.T) {
	chart := RadarSeries(sampleResult().Recommendations)

	assert.Equal(t, []string{"Machine Learning Engineer", "Backend Developer", "Data Analyst"}, chart.Careers)
	require.Len(t, chart.Points, len(Dimensions))

	byDim := map[string][]int{}
	for _, p := range chart.Points {
		require.Len(t, p.Values, 3)
		byDim[p.Dimension] = p.Values
	}
	assert.Equal(t, []int{92, 81, 70}, byDim[DimensionFit])
	assert.Equal(t, []int{33, 33, 33}, byDim[DimensionSkills])
	assert.Equal(t, []int{95, 95, 95}, byDim[DimensionGrowth])
	assert.Equal(t, []int{80, 80, 80}, byDim[DimensionWorkLife])
	assert.Equal(t, []int{60, 60, 60}, byDim[DimensionJobAvailability])
}

func TestRadarSeries_FewerThanThree(t *testing.T) {
	chart := RadarSeries(sampleResult().Recommendations[:1])
	assert.Len(t, chart.Careers, 1)
	for _, p := range chart.Points {
		assert.Len(t, p.Values, 1)
	}
}

func TestCardState(t *testing.T) {
	s := CardState{}
	assert.False(t, s.Expanded(1))

	s.Toggle(1)
	s.Toggle(3)
	assert.True(t, s.Expanded(1))
	assert.False(t, s.Expanded(2))
	assert.True(t, s.Expanded(3))

	s.Toggle(1)
	assert.False(t, s.Expanded(1))
	assert.True(t, s.Expanded(3), "cards toggle independently")
}

func TestTeaser(t *testing.T) {
	assert.Equal(t, "short...", Teaser("short"))
	long := strings.Repeat("x", 200)
	assert.Equal(t, strings.Repeat("x", 120)+"...", Teaser(long))
}

func TestNewView(t *testing.T) {
	state := CardState{}
	state.Toggle(2)

	v := NewView(sampleResult(), state)

	assert.Equal(t, TierMedium, v.ConfidenceTier)
	assert.Equal(t, "Machine Learning Engineer", v.Summary.TopRecommendation)
	require.Len(t, v.Cards, 4)

	assert.True(t, v.Cards[0].Featured)
	assert.False(t, v.Cards[1].Featured)
	assert.Equal(t, TierHigh, v.Cards[0].Tier)
	assert.Equal(t, TierMedium, v.Cards[1].Tier)
	assert.Equal(t, TierMedium, v.Cards[2].Tier)
	assert.Equal(t, TierLow, v.Cards[3].Tier)

	assert.False(t, v.Cards[0].Expanded)
	assert.True(t, v.Cards[1].Expanded)
	assert.Equal(t, 33, v.Cards[0].SkillMatch)

	assert.Len(t, v.FitComparison, 4)
	assert.Len(t, v.Dimensions.Careers, 3)
}

func TestNewView_NilState(t *testing.T) {
	v := NewView(sampleResult(), nil)
	for _, c := range v.Cards {
		assert.False(t, c.Expanded)
	}
}

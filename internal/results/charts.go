package results

import "github.com/jonathan/pathgenie/internal/types"

// ComparisonSize is how many recommendations the radar chart compares.
const ComparisonSize = 3

const (
	barLabelLimit = 15
	barLabelKeep  = 14
)

// Palette holds the series colors, cycled by position.
var Palette = []string{
	"hsl(234, 85%, 60%)",
	"hsl(174, 72%, 45%)",
	"hsl(36, 95%, 55%)",
	"hsl(152, 60%, 45%)",
	"hsl(260, 80%, 60%)",
}

// Radar dimensions, in chart order.
const (
	DimensionFit             = "Fit Score"
	DimensionSkills          = "Skills Match"
	DimensionGrowth          = "Growth"
	DimensionWorkLife        = "Work-Life"
	DimensionJobAvailability = "Job Availability"
)

// Dimensions lists the radar axes.
var Dimensions = []string{
	DimensionFit,
	DimensionSkills,
	DimensionGrowth,
	DimensionWorkLife,
	DimensionJobAvailability,
}

// BarPoint is one bar of the fit score comparison.
type BarPoint struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Score    int    `json:"score"`
	Color    string `json:"color"`
}

// RadarPoint holds one dimension's value for each compared career.
type RadarPoint struct {
	Dimension string `json:"dimension"`
	Values    []int  `json:"values"`
}

// RadarChart compares the top careers across all dimensions.
type RadarChart struct {
	Careers []string     `json:"careers"`
	Colors  []string     `json:"colors"`
	Points  []RadarPoint `json:"points"`
}

// TopN returns the first n recommendations, or all of them when fewer exist.
func TopN(recs []types.Recommendation, n int) []types.Recommendation {
	if n < 0 {
		n = 0
	}
	if len(recs) < n {
		n = len(recs)
	}
	return recs[:n]
}

// BarLabel shortens a career title for the bar axis.
func BarLabel(title string) string {
	r := []rune(title)
	if len(r) <= barLabelLimit {
		return title
	}
	return string(r[:barLabelKeep]) + "…"
}

// BarSeries returns one bar per recommendation, in input order.
func BarSeries(recs []types.Recommendation) []BarPoint {
	out := make([]BarPoint, 0, len(recs))
	for i, rec := range recs {
		out = append(out, BarPoint{
			Name:     BarLabel(rec.CareerTitle),
			FullName: rec.CareerTitle,
			Score:    rec.FitScore,
			Color:    Palette[i%len(Palette)],
		})
	}
	return out
}

// DimensionScore returns a recommendation's value on one radar axis.
func DimensionScore(rec types.Recommendation, dimension string) int {
	switch dimension {
	case DimensionFit:
		return rec.FitScore
	case DimensionSkills:
		return SkillMatch(rec)
	case DimensionGrowth:
		return GrowthScore(rec.CareerOutlook.GrowthPotential)
	case DimensionWorkLife:
		return WorkLifeScore(rec.CareerOutlook.WorkLifeBalance)
	case DimensionJobAvailability:
		return JobAvailabilityScore(rec.CareerOutlook.JobAvailability)
	default:
		return DefaultDimensionScore
	}
}

// RadarSeries compares the first three recommendations on every dimension.
func RadarSeries(recs []types.Recommendation) RadarChart {
	top := TopN(recs, ComparisonSize)

	chart := RadarChart{
		Careers: make([]string, len(top)),
		Colors:  make([]string, len(top)),
		Points:  make([]RadarPoint, 0, len(Dimensions)),
	}
	for i, rec := range top {
		chart.Careers[i] = rec.CareerTitle
		chart.Colors[i] = Palette[i%len(Palette)]
	}

	for _, dim := range Dimensions {
		p := RadarPoint{Dimension: dim, Values: make([]int, len(top))}
		for i, rec := range top {
			p.Values[i] = DimensionScore(rec, dim)
		}
		chart.Points = append(chart.Points, p)
	}
	return chart
}

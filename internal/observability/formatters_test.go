package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jonathan/pathgenie/internal/results"
	"github.com/jonathan/pathgenie/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleView(expanded ...int) *results.View {
	result := &types.AnalysisResult{
		Summary: types.Summary{
			TopRecommendation:     "Data Scientist",
			ConfidenceLevel:       types.ConfidenceHigh,
			ConfidenceExplanation: "Your answers consistently point toward analytical work.",
		},
		Recommendations: []types.Recommendation{
			{
				Rank:            1,
				CareerTitle:     "Data Scientist",
				FitScore:        88,
				WhyFits:         "You enjoy statistics and storytelling with data.",
				RoleDescription: "Builds models that answer business questions.",
				SkillsYouHave:   []string{"Python"},
				SkillsToDevelop: []string{"SQL", "Statistics"},
				CareerOutlook: types.CareerOutlook{
					SalaryEntry:       "6-10 LPA",
					SalaryExperienced: "20-35 LPA",
					GrowthPotential:   "Very High",
					WorkLifeBalance:   "Good",
					JobAvailability:   "High",
				},
				NextSteps: []string{"Take a statistics course", "Publish a Kaggle notebook"},
			},
			{Rank: 2, CareerTitle: "Machine Learning Engineer", FitScore: 74, WhyFits: "You like building systems."},
		},
	}
	state := results.CardState{}
	for _, rank := range expanded {
		state.Toggle(rank)
	}
	v := results.NewView(result, state)
	return &v
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSummary(sampleView())
	output := buf.String()

	assert.Contains(t, output, "YOUR CAREER MATCHES")
	assert.Contains(t, output, "Data Scientist")
	assert.Contains(t, output, "High")
	assert.Contains(t, output, "analytical work.")
}

func TestPrintSummary_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSummary(nil)
	p.PrintView(nil)

	assert.Empty(t, buf.String())
}

func TestPrintCard_Collapsed(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCard(sampleView().Cards[0])
	output := buf.String()

	assert.Contains(t, output, "#1 Data Scientist")
	assert.Contains(t, output, "TOP MATCH")
	assert.Contains(t, output, "Fit: 88% (high)")
	assert.Contains(t, output, "Skills match: 33%")
	assert.NotContains(t, output, "Next steps")
}

func TestPrintCard_Expanded(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCard(sampleView(1).Cards[0])
	output := buf.String()

	assert.Contains(t, output, "Skills to develop")
	assert.Contains(t, output, "• Statistics")
	assert.Contains(t, output, "6-10 LPA → 20-35 LPA")
	assert.Contains(t, output, "2. Publish a Kaggle notebook")
}

func TestPrintCard_NotFeatured(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCard(sampleView().Cards[1])

	assert.Contains(t, buf.String(), "#2 Machine Learning Engineer")
	assert.NotContains(t, buf.String(), "TOP MATCH")
}

func TestPrintFitComparison(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintFitComparison(sampleView().FitComparison)
	output := buf.String()

	assert.Contains(t, output, "FIT SCORE COMPARISON")
	assert.Contains(t, output, "Machine Learni…")
	assert.Contains(t, output, " 88%")
	assert.Contains(t, output, strings.Repeat("█", 26)+strings.Repeat("░", 4))
}

func TestPrintDimensions(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDimensions(sampleView().Dimensions)
	output := buf.String()

	assert.Contains(t, output, "A = Data Scientist")
	assert.Contains(t, output, "B = Machine Learning Engineer")
	assert.Contains(t, output, "Fit Score")
	assert.Contains(t, output, "Job Availability")
}

func TestPrintStageAndTurn(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintStage(0, 4, "Analyzing your profile...")
	p.PrintTurn(types.Turn{Role: types.RoleUser, Content: "Which path pays more?"})
	p.PrintTurn(types.Turn{Role: types.RoleAssistant, Content: "Data science, usually."})

	assert.Equal(t, "[1/4] Analyzing your profile...\nYou: Which path pays more?\nPathGenie: Data science, usually.\n", buf.String())
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("x", 100))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[3], strings.Repeat("x", boxWidth-7)+"...")
	assert.NotContains(t, lines[3], strings.Repeat("x", boxWidth-6))
}

func TestWrap(t *testing.T) {
	assert.Equal(t, "", wrap("   ", 10))
	assert.Equal(t, "one two\nthree\n", wrap("one two three", 8))
	assert.Equal(t, "averyveryverylongword\n", wrap("averyveryverylongword", 5))
}

func TestBar(t *testing.T) {
	assert.Equal(t, strings.Repeat("░", barWidth), bar(-5))
	assert.Equal(t, strings.Repeat("█", barWidth), bar(150))
	assert.Equal(t, strings.Repeat("█", 15)+strings.Repeat("░", 15), bar(50))
}

// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/pathgenie/internal/results"
	"github.com/jonathan/pathgenie/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// barWidth is the number of cells of a full (100%) bar
	barWidth = 30
)

// Printer handles formatted output for the terminal
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// writeList appends up to limit items as bullets.
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	for _, item := range items[:min(len(items), limit)] {
		sb.WriteString(fmt.Sprintf("  • %s\n", item))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

// PrintSummary outputs the top recommendation and how confident the analysis is.
func (p *Printer) PrintSummary(view *results.View) {
	if view == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Top pick:    %s\n", view.Summary.TopRecommendation))
	sb.WriteString(fmt.Sprintf("Confidence:  %s\n", view.Summary.ConfidenceLevel))
	if view.Summary.ConfidenceExplanation != "" {
		sb.WriteString("\n")
		sb.WriteString(wrap(view.Summary.ConfidenceExplanation, boxWidth-4))
	}

	p.printBox("YOUR CAREER MATCHES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCard outputs one recommendation. Collapsed cards show the teaser only.
func (p *Printer) PrintCard(card results.Card) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Fit: %d%% (%s)   Skills match: %d%%\n", card.FitScore, card.Tier, card.SkillMatch))
	sb.WriteString("\n")

	if !card.Expanded {
		sb.WriteString(wrap(card.Teaser, boxWidth-4))
	} else {
		sb.WriteString(wrap(card.WhyFits, boxWidth-4))
		sb.WriteString("\n")
		if card.RoleDescription != "" {
			sb.WriteString(wrap(card.RoleDescription, boxWidth-4))
			sb.WriteString("\n")
		}
		writeList(&sb, "Skills you have", card.SkillsYouHave, maxItemsToShow)
		writeList(&sb, "Skills to develop", card.SkillsToDevelop, maxItemsToShow)

		o := card.CareerOutlook
		sb.WriteString("Outlook:\n")
		if o.SalaryEntry != "" || o.SalaryExperienced != "" {
			sb.WriteString(fmt.Sprintf("  Salary:     %s → %s\n", o.SalaryEntry, o.SalaryExperienced))
		}
		sb.WriteString(fmt.Sprintf("  Growth:     %s\n", o.GrowthPotential))
		sb.WriteString(fmt.Sprintf("  Work-life:  %s\n", o.WorkLifeBalance))
		sb.WriteString(fmt.Sprintf("  Jobs:       %s\n", o.JobAvailability))

		if len(card.NextSteps) > 0 {
			sb.WriteString("Next steps:\n")
			for i, step := range card.NextSteps {
				sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, step))
			}
		}
	}

	title := fmt.Sprintf("#%d %s", card.Rank, card.CareerTitle)
	if card.Featured {
		title += "  ★ TOP MATCH"
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFitComparison outputs the fit scores as horizontal bars.
func (p *Printer) PrintFitComparison(bars []results.BarPoint) {
	if len(bars) == 0 {
		return
	}

	var sb strings.Builder
	for _, b := range bars {
		sb.WriteString(fmt.Sprintf("%-15s %s %3d%%\n", b.Name, bar(b.Score), b.Score))
	}
	p.printBox("FIT SCORE COMPARISON", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDimensions outputs the radar chart as a table of scores per career.
func (p *Printer) PrintDimensions(chart results.RadarChart) {
	if len(chart.Careers) == 0 {
		return
	}

	var sb strings.Builder
	for i, career := range chart.Careers {
		sb.WriteString(fmt.Sprintf("%c = %s\n", 'A'+i, career))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("%-17s", ""))
	for i := range chart.Careers {
		sb.WriteString(fmt.Sprintf("%5c", 'A'+i))
	}
	sb.WriteString("\n")
	for _, point := range chart.Points {
		sb.WriteString(fmt.Sprintf("%-17s", point.Dimension))
		for _, v := range point.Values {
			sb.WriteString(fmt.Sprintf("%5d", v))
		}
		sb.WriteString("\n")
	}

	p.printBox("CAREER COMPARISON", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintView outputs the whole results page.
func (p *Printer) PrintView(view *results.View) {
	if view == nil {
		return
	}
	p.PrintSummary(view)
	for _, card := range view.Cards {
		p.PrintCard(card)
	}
	p.PrintFitComparison(view.FitComparison)
	p.PrintDimensions(view.Dimensions)
}

// PrintStage outputs one analysis progress line.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintStage(index, total int, label string) {
	fmt.Fprintf(p.out, "[%d/%d] %s\n", index+1, total, label)
}

// PrintTurn outputs one chat message.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintTurn(turn types.Turn) {
	who := "You"
	if turn.Role == types.RoleAssistant {
		who = "PathGenie"
	}
	fmt.Fprintf(p.out, "%s: %s\n", who, turn.Content)
}

func bar(score int) string {
	score = max(0, min(score, 100))
	filled := score * barWidth / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// wrap breaks text into lines no longer than width runes, ending with a newline.
func wrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var sb strings.Builder
	line := 0
	for _, w := range words {
		n := len([]rune(w))
		if line > 0 && line+1+n > width {
			sb.WriteString("\n")
			line = 0
		}
		if line > 0 {
			sb.WriteString(" ")
			line++
		}
		sb.WriteString(w)
		line += n
	}
	sb.WriteString("\n")
	return sb.String()
}

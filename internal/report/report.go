// Package report renders an analysis result as a standalone HTML document.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/jonathan/pathgenie/internal/types"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Filename is the suggested download name of a report.
const Filename = "PathGenie-Career-Report.html"

// Title is the document title of a report.
const Title = "PathGenie Career Report"

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

var page = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 760px; margin: 2rem auto; padding: 0 1rem; color: #1f2937; line-height: 1.6; }
h1 { color: #7c3aed; }
h2 { border-bottom: 1px solid #e5e7eb; padding-bottom: .25rem; margin-top: 2rem; }
table { border-collapse: collapse; }
td, th { border: 1px solid #e5e7eb; padding: .35rem .75rem; text-align: left; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// Markdown builds the Markdown source of a report. An empty email omits the recipient line.
func Markdown(result *types.AnalysisResult, email string) string {
	var sb strings.Builder

	sb.WriteString("# " + Title + "\n\n")
	if email = strings.TrimSpace(email); email != "" {
		fmt.Fprintf(&sb, "Prepared for %s\n\n", EscapeMarkdown(email))
	}

	s := result.Summary
	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "**Top recommendation:** %s\n\n", inline(s.TopRecommendation))
	fmt.Fprintf(&sb, "**Confidence:** %s\n\n", inline(string(s.ConfidenceLevel)))
	if s.ConfidenceExplanation != "" {
		sb.WriteString(EscapeMarkdown(s.ConfidenceExplanation) + "\n\n")
	}

	for _, rec := range result.Recommendations {
		writeRecommendation(&sb, rec)
	}
	return sb.String()
}

func writeRecommendation(sb *strings.Builder, rec types.Recommendation) {
	fmt.Fprintf(sb, "## %d. %s (%d%% fit)\n\n", rec.Rank, inline(rec.CareerTitle), rec.FitScore)
	if rec.WhyFits != "" {
		sb.WriteString(EscapeMarkdown(rec.WhyFits) + "\n\n")
	}
	if rec.RoleDescription != "" {
		sb.WriteString("### What you'd do\n\n")
		sb.WriteString(EscapeMarkdown(rec.RoleDescription) + "\n\n")
	}
	writeList(sb, "Skills you have", rec.SkillsYouHave, "- ")
	writeList(sb, "Skills to develop", rec.SkillsToDevelop, "- ")

	o := rec.CareerOutlook
	sb.WriteString("### Career outlook\n\n")
	sb.WriteString("| | |\n|---|---|\n")
	for _, row := range [][2]string{
		{"Entry salary", o.SalaryEntry},
		{"Experienced salary", o.SalaryExperienced},
		{"Growth potential", o.GrowthPotential},
		{"Work-life balance", o.WorkLifeBalance},
		{"Job availability", o.JobAvailability},
	} {
		fmt.Fprintf(sb, "| %s | %s |\n", row[0], inline(row[1]))
	}
	sb.WriteString("\n")

	writeList(sb, "Next steps", rec.NextSteps, "1. ")
}

func writeList(sb *strings.Builder, heading string, items []string, marker string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "### %s\n\n", heading)
	for _, item := range items {
		sb.WriteString(marker + inline(item) + "\n")
	}
	sb.WriteString("\n")
}

// Render converts an analysis result into a complete HTML page.
func Render(result *types.AnalysisResult, email string) (string, error) {
	if result == nil {
		return "", &RenderError{Message: "no analysis result to render"}
	}

	var body bytes.Buffer
	if err := markdown.Convert([]byte(Markdown(result, email)), &body); err != nil {
		return "", &RenderError{Message: "failed to convert markdown", Cause: err}
	}

	var out strings.Builder
	err := page.Execute(&out, struct {
		Title string
		Body  template.HTML
	}{
		Title: Title,
		Body:  template.HTML(body.String()), //nolint:gosec // goldmark omits raw HTML and all text is escaped
	})
	if err != nil {
		return "", &RenderError{Message: "failed to execute page template", Cause: err}
	}
	return out.String(), nil
}

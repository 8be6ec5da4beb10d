package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/pathgenie/internal/report"
	"github.com/jonathan/pathgenie/internal/types"
	"github.com/spf13/cobra"
)

var (
	reportOutput string
	reportEmail  string
)

var reportCmd = &cobra.Command{
	Use:   "report <result.json>",
	Short: "Render an analysis result as an HTML report",
	Long:  `Reads an analysis result (the JSON returned by the results endpoints) and writes the downloadable HTML report.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", report.Filename, "Path of the HTML file to write")
	reportCmd.Flags().StringVar(&reportEmail, "email", "", "Email shown in the report header")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	result, err := loadResult(args[0])
	if err != nil {
		return err
	}
	if err := writeReport(reportOutput, result, reportEmail); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", reportOutput)
	return nil
}

// loadResult reads and checks an analysis result file. Recommendations are sorted by rank.
func loadResult(path string) (*types.AnalysisResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var result types.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := result.Validate(0); err != nil {
		return nil, fmt.Errorf("invalid result in %s: %w", path, err)
	}
	result.SortByRank()
	return &result, nil
}

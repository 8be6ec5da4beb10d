package main

import (
	"github.com/jonathan/pathgenie/internal/catalog"
	"github.com/spf13/cobra"
)

var questionsNoColor bool

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List the quiz questions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := catalog.Default()
		if err != nil {
			return err
		}
		t := newTerminal(cmd.InOrStdin(), cmd.OutOrStdout(), !questionsNoColor && stdoutIsTerminal())
		printQuestions(t, c)
		return nil
	},
}

func init() {
	questionsCmd.Flags().BoolVar(&questionsNoColor, "no-color", false, "Disable colored output")
	rootCmd.AddCommand(questionsCmd)
}

func printQuestions(t *terminal, c *catalog.Catalog) {
	category := ""
	for i, q := range c.Questions() {
		if q.Category != category {
			category = q.Category
			t.println(t.heading, "\n%s", category)
		}
		required := ""
		if q.Required {
			required = " *"
		}
		t.println(t.prompt, "%2d. %s%s", i+1, q.Prompt, required)
		t.println(t.hint, "    %s (%s)", q.ID, q.Kind)
		for _, opt := range q.Options {
			t.println(t.hint, "      - %s", opt.Label)
		}
	}
}

// Package main provides the PathGenie command line: the HTTP API server and
// a terminal version of the career quiz.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "pathgenie",
	Short:        "PathGenie career guidance",
	Long:         "PathGenie asks students about their interests and skills and recommends four ranked career paths, with a chat assistant for follow-up questions.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json file (values override the environment)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

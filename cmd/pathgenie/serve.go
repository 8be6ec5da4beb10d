package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/pathgenie/internal/server"
	"github.com/jonathan/pathgenie/internal/store"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the quiz, analysis, results, chat, sharing and report endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to PORT or 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	port := a.cfg.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}

	cfg := server.Config{
		Port:    port,
		Manager: a.manager,
	}
	if a.shared != nil {
		cfg.Shared = store.NewCached(a.shared)
	}

	return server.New(cfg).Run(ctx)
}

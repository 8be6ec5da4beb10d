package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/pathgenie/internal/config"
	"github.com/jonathan/pathgenie/internal/results"
	"github.com/jonathan/pathgenie/internal/store"
	"github.com/spf13/cobra"
)

var (
	showExpand  bool
	showNoColor bool
)

var showCmd = &cobra.Command{
	Use:   "show <share-id>",
	Short: "Print a shared result",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showExpand, "expand", false, "Show every recommendation in full")
	showCmd.Flags().BoolVar(&showNoColor, "no-color", false, "Disable colored output")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	shared, err := openShared(ctx, cfg)
	if err != nil {
		return err
	}
	if shared == nil {
		return errors.New("no shared result store is configured (set DATABASE_URL or SQLITE_PATH)")
	}
	defer shared.Close() //nolint:errcheck

	t := newTerminal(cmd.InOrStdin(), cmd.OutOrStdout(), !showNoColor && stdoutIsTerminal())
	return showShared(ctx, t, shared, args[0], showExpand)
}

func showShared(ctx context.Context, t *terminal, s store.Store, id string, expand bool) error {
	shared, err := s.GetShared(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("shared result %s: %w", id, err)
		}
		return err
	}

	state := results.CardState{}
	if expand {
		for _, rec := range shared.Result.Recommendations {
			state.Toggle(rec.Rank)
		}
	}

	if shared.Email != "" {
		t.println(t.hint, "Shared by %s on %s", shared.Email, shared.CreatedAt.Format("2 Jan 2006"))
	}
	view := results.NewView(&shared.Result, state)
	t.printer.PrintView(&view)
	return nil
}

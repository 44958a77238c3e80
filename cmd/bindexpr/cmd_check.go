package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/dhamidi/bindexpr/config"
	"github.com/dhamidi/bindexpr/format"
	"github.com/dhamidi/bindexpr/layout"
)

func newCheckCmd() *cobra.Command {
	var outputFormat string
	var watch bool

	cmd := &cobra.Command{
		Use:   "check [dir]",
		Short: "Check the binding expressions of every layout file in a project",
		Long: `Check the binding expressions of every layout file under dir.

Layout files are selected by the include and exclude patterns of the
[check] section of bindexpr.toml, found in dir or one of its parents.
Without a configuration file every layout*/*.xml outside build
directories is checked.

With --watch the command keeps running and reports files as they change.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			cfg, err := config.Find(dir)
			if err != nil {
				return err
			}
			enc, ok := format.NewEncoder(outputFormat, cmd.OutOrStdout())
			if !ok {
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			if watch {
				return watchLayouts(ctx, dir, cfg.Check, enc)
			}
			return checkLayouts(ctx, dir, cfg.Check, enc)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "lines", "output format (lines, json)")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep checking files as they change")

	return cmd
}

func checkLayouts(ctx context.Context, dir string, cfg config.Check, enc format.Encoder) error {
	reports, err := layout.Scan(ctx, dir, cfg)
	if err != nil {
		return err
	}
	failed := 0
	for _, r := range reports {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		if r.HasErrors() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d layout files have errors", failed, len(reports))
	}
	return nil
}

func watchLayouts(ctx context.Context, dir string, cfg config.Check, enc format.Encoder) error {
	w, err := layout.NewWatcher(dir, cfg)
	if err != nil {
		return err
	}
	w.Start(ctx)
	defer w.Stop()

	for r := range w.Reports() {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	}
	return nil
}

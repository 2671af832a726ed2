package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/dsx/internal/browse"
	"github.com/desertthunder/dsx/internal/formatter"
	"github.com/desertthunder/dsx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Browse fetches the listing and renders it in the requested --format.
//
// Failures are reported with the same status text the interactive overlay shows.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	if r.portal == nil {
		return fmt.Errorf("%w: portal not initialized", shared.ErrServiceUnavailable)
	}

	format := cmd.String("format")
	if err := formatter.Supported(format); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout())
	defer cancel()

	modal := browse.NewModal(r.portal)
	status, err := modal.Open(ctx)
	if err != nil {
		r.logger.Error("listing failed", "error", err)
		return fmt.Errorf("%s: %w", status.Message, err)
	}
	defer modal.Close()

	cards := modal.Cards()
	if q := cmd.String("match"); q != "" {
		cards = browse.Match(cards, q, int(cmd.Int("distance")))
		r.logger.Debug("filtered listing", "query", q, "matches", len(cards))
	}

	out, err := formatter.Render(cards, format)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

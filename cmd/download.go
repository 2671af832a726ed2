package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/desertthunder/dsx/internal/formatter"
	"github.com/desertthunder/dsx/internal/shared"
	"github.com/desertthunder/dsx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Download fetches every file id argument into --output and writes a manifest next to them.
//
// Individual failures are recorded in the manifest; the command only fails when nothing was downloaded.
func (r *Runner) Download(ctx context.Context, cmd *cli.Command) error {
	if r.engine == nil {
		return fmt.Errorf("%w: download engine not initialized", shared.ErrServiceUnavailable)
	}

	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one file id", shared.ErrMissingArgument)
	}

	format := cmd.String("format")
	if format != formatter.FormatJSON && format != formatter.FormatYAML {
		return fmt.Errorf("%w: manifest format must be json or yaml, got %q", shared.ErrInvalidFlag, format)
	}

	outputDir := cmd.String("output")
	if outputDir == "" {
		outputDir = r.config.UI.DownloadDir
	}

	opts := tasks.BulkDownloadOpts{
		OutputDir:  outputDir,
		Format:     format,
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate"),
	}

	logger := shared.WithLogger(r.logger, "dir", opts.OutputDir)
	logger.Info("starting download", "files", len(ids), "workers", opts.NumWorkers)
	r.writePlain("Downloading %d file(s) to %s\n\n", len(ids), opts.OutputDir)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.DownloadFile:
				if update.Data != nil {
					r.writePlain("   %s\n", update.Message)
				}
			case tasks.WriteManifest:
				r.writePlain("\n📝 %s\n", update.Message)
			}
		}
	}()

	manifest, err := r.engine.BulkDownload(ctx, progressCh, ids, opts)
	close(progressCh)
	<-done

	if err != nil {
		logger.Error("download failed", "error", err)
		return err
	}
	logger.Debug("download finished", "succeeded", manifest.Succeeded, "failed", manifest.Failed)

	r.writePlain("\n")
	r.writePlainHeader("Download Complete!")
	r.writePlain("Succeeded: %d/%d\n", manifest.Succeeded, manifest.Total)
	r.writePlain("Manifest: %s\n", filepath.Join(manifest.OutputDirectory, tasks.ManifestName+"."+format))

	if manifest.Failed > 0 {
		r.writePlain("\nFailed to download %d file(s):\n", manifest.Failed)
		for _, res := range manifest.Results {
			if !res.Success {
				r.writePlain("  ✗ %s: %s\n", res.FileID, res.Error)
			}
		}
	}

	if manifest.Succeeded == 0 {
		return fmt.Errorf("%w: no files downloaded", shared.ErrNotFound)
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/desertthunder/dsx/internal/models"
	"github.com/desertthunder/dsx/internal/shared"
	"github.com/desertthunder/dsx/internal/tasks"
	"github.com/desertthunder/dsx/internal/widget"
	"github.com/urfave/cli/v3"
)

// Upload stages the file at the path argument, attaches --tag values in order and submits it.
func (r *Runner) Upload(ctx context.Context, cmd *cli.Command) error {
	if r.engine == nil {
		return fmt.Errorf("%w: upload engine not initialized", shared.ErrServiceUnavailable)
	}

	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	f, err := widget.FileFromPath(path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	w := widget.New()
	w.SelectFile(f)
	for _, tag := range cmd.StringSlice("tag") {
		if _, ok := w.AddTag(tag); !ok {
			r.logger.Debug("skipping tag", "tag", tag)
		}
	}

	sub, err := w.BeginSubmit(r.uploadMetadata(cmd, f.Name))
	if err != nil {
		return err
	}

	r.logger.Info("uploading", "file", sub.FileName, "size", sub.Size, "tags", sub.Tags)
	r.writePlain("Uploading %s (%s)\n", sub.FileName, shared.FormatBytes(sub.Size))
	if len(sub.Tags) > 0 {
		r.writePlain("Tags: %s\n", strings.Join(sub.Tags, ", "))
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		last := -10
		for update := range progressCh {
			switch update.Phase {
			case tasks.SendUpload:
				pct := int(update.Percent() * 100)
				if pct/10 != last/10 {
					r.writePlain("   %s\n", update.Message)
					last = pct
				}
			default:
				r.writePlain("%s\n", update.Message)
			}
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout())
	defer cancel()

	result, err := r.engine.Upload(ctx, progressCh, sub)
	close(progressCh)
	<-done

	status := w.FinishSubmit(result, err)
	if err != nil {
		r.logger.Error(status.Message)
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	r.writePlain("\n")
	r.writePlainHeader("Upload Complete!")
	r.writePlain("%s\n", status.Message)
	r.writePlain("File ID: %s\n", result.FileID)
	if r.portal != nil {
		r.writePlain("Download: %s\n", r.portal.DownloadURL(result.FileID))
	}
	return nil
}

func (r *Runner) uploadMetadata(cmd *cli.Command, fileName string) models.Metadata {
	md := models.Metadata{
		Title:       cmd.String("title"),
		Description: cmd.String("description"),
		DatasetType: r.config.Upload.DatasetType,
		ShareLevel:  r.config.Upload.ShareLevel,
		Version:     r.config.Upload.Version,
		Authors:     cmd.StringSlice("author"),
		Teams:       cmd.StringSlice("team"),
	}
	if md.Title == "" {
		md.Title = strings.TrimSuffix(fileName, filepath.Ext(fileName))
	}
	if v := cmd.String("type"); v != "" {
		md.DatasetType = v
	}
	if v := cmd.String("share"); v != "" {
		md.ShareLevel = v
	}
	if v := cmd.String("dataset-version"); v != "" {
		md.Version = v
	}
	return md
}

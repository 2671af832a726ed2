package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/dsx/internal/models"
	"github.com/desertthunder/dsx/internal/services"
	"github.com/desertthunder/dsx/internal/shared"
)

// Engine defines the portal operations that report progress.
type Engine interface {
	// Upload submits one staged file and its tags.
	Upload(ctx context.Context, progress chan<- ProgressUpdate, sub models.Submission) (*models.UploadResult, error)

	// BulkDownload fetches every id into opts.OutputDir and writes a manifest.
	BulkDownload(ctx context.Context, progress chan<- ProgressUpdate, ids []string, opts BulkDownloadOpts) (*models.DownloadManifest, error)
}

// PortalEngine implements [Engine] on top of a [services.Portal].
type PortalEngine struct {
	portal services.Portal
}

func NewPortalEngine(portal services.Portal) *PortalEngine {
	return &PortalEngine{portal: portal}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *PortalEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Upload submits sub and streams byte counts to progress while the body is written.
func (e *PortalEngine) Upload(ctx context.Context, progress chan<- ProgressUpdate, sub models.Submission) (*models.UploadResult, error) {
	if e.portal == nil {
		return nil, fmt.Errorf("%w: portal not initialized", shared.ErrServiceUnavailable)
	}
	if sub.Open == nil {
		return nil, shared.ErrNothingStaged
	}

	e.sendProgress(progress, prepareUploadUpdate(sub))

	res, err := e.portal.Upload(ctx, sub, func(sent, total int64) {
		e.sendProgress(progress, sendUploadUpdate(sent, total))
	})
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, completeUploadUpdate(res, sub.Size))
	return res, nil
}

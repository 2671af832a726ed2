// package services defines the portal client used by the CLI and TUI
package services

import (
	"context"
	"io"

	"github.com/desertthunder/dsx/internal/models"
)

// Lister fetches the dataset listing.
type Lister interface {
	ListFiles(ctx context.Context) ([]models.DatasetRecord, error)
}

// Uploader submits a staged file with its tags.
type Uploader interface {
	Upload(ctx context.Context, sub models.Submission, progress models.ProgressFunc) (*models.UploadResult, error)
}

// Portal is the full collaborator contract of the dataset portal.
type Portal interface {
	Lister
	Uploader

	// Download copies the content of a dataset into w and returns the number of bytes written.
	Download(ctx context.Context, fileID string, w io.Writer) (int64, error)

	// DownloadURL returns the navigable retrieval link for a dataset.
	DownloadURL(fileID string) string
}

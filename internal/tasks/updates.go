package tasks

import (
	"fmt"

	"github.com/desertthunder/dsx/internal/models"
	"github.com/desertthunder/dsx/internal/shared"
)

// ProgressUpdate represents a progress event during a long-running operation.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int64  // Bytes sent, or files finished
	Total   int64  // Expected bytes or files; 0 when unknown
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Percent is Step over Total in [0, 1].
func (u ProgressUpdate) Percent() float64 {
	if u.Total <= 0 {
		return 0
	}
	return min(float64(u.Step)/float64(u.Total), 1)
}

// Operation phase enumeration
type Phase int

const (
	PrepareUpload Phase = iota
	SendUpload
	CompleteUpload
	DownloadFile
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case PrepareUpload:
		return "prepare_upload"
	case SendUpload:
		return "send_upload"
	case CompleteUpload:
		return "complete_upload"
	case DownloadFile:
		return "download_file"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func prepareUploadUpdate(sub models.Submission) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PrepareUpload,
		Total:   sub.Size,
		Message: fmt.Sprintf("Preparing %s (%d tags)...", sub.FileName, len(sub.Tags)),
	}
}

func sendUploadUpdate(sent, total int64) ProgressUpdate {
	msg := fmt.Sprintf("Uploading %s...", shared.FormatBytes(sent))
	if total > 0 {
		msg = fmt.Sprintf("Uploading %s of %s...", shared.FormatBytes(sent), shared.FormatBytes(total))
	}
	return ProgressUpdate{Phase: SendUpload, Step: sent, Total: total, Message: msg}
}

func completeUploadUpdate(res *models.UploadResult, size int64) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CompleteUpload,
		Step:    size,
		Total:   size,
		Message: fmt.Sprintf("Uploaded as %s", res.FileID),
		Data:    res,
	}
}

func downloadStartedUpdate(step, total int, id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadFile,
		Step:    int64(step),
		Total:   int64(total),
		Message: fmt.Sprintf("[%d/%d] Downloading: %s...", step, total, id),
	}
}

func downloadCompletedUpdate(step, total int, out models.DownloadOutcome) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadFile,
		Step:    int64(step),
		Total:   int64(total),
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%s)", step, total, out.FileID, shared.FormatBytes(out.Bytes)),
		Data:    out,
	}
}

func downloadFailedUpdate(step, total int, out models.DownloadOutcome) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadFile,
		Step:    int64(step),
		Total:   int64(total),
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %s", step, total, out.FileID, out.Error),
		Data:    out,
	}
}

func writeManifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{Phase: WriteManifest, Message: fmt.Sprintf("Writing manifest %s...", path)}
}

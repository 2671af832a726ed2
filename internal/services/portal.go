package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/dsx/internal/models"
	"github.com/desertthunder/dsx/internal/shared"
	"golang.org/x/time/rate"
)

const (
	listPath   = "/files/"
	filePath   = "/file/"
	uploadPath = "/upload/"
	healthPath = "/health"
)

// progressInterval bounds how often upload progress is reported while bytes flow.
const progressInterval = 100 * time.Millisecond

// PortalService implements [Portal] against the REST endpoints of the dataset portal.
type PortalService struct {
	api    *APIService
	logger *log.Logger
}

var _ Portal = (*PortalService)(nil)

// NewPortalService creates a PortalService using api for transport.
func NewPortalService(api *APIService, logger *log.Logger) *PortalService {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &PortalService{api: api, logger: logger}
}

// ListFiles fetches GET /files/.
//
// Transport failures wrap [shared.ErrServiceUnavailable], a non-2xx status wraps [shared.ErrAPIRequest].
// A body that is not JSON, a body without a files field, or a record without a file_id are all errors.
func (p *PortalService) ListFiles(ctx context.Context) ([]models.DatasetRecord, error) {
	resp, err := p.api.Get(ctx, listPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, resp.Detail())
	}

	var listing models.Listing
	if err := json.Unmarshal(resp.Body, &listing); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}
	if listing.Files == nil {
		return nil, fmt.Errorf("%w: missing files field", shared.ErrMalformedResponse)
	}

	files := *listing.Files
	for i, rec := range files {
		if rec.FileID == "" {
			return nil, fmt.Errorf("%w: record %d has no file_id", shared.ErrMalformedResponse, i)
		}
	}

	p.logger.Debug("listed datasets", "count", len(files))
	return files, nil
}

// DownloadURL returns {base}/file/{file_id}.
func (p *PortalService) DownloadURL(fileID string) string {
	return p.api.URL(filePath + url.PathEscape(fileID))
}

// Download streams GET /file/{file_id} into w.
func (p *PortalService) Download(ctx context.Context, fileID string, w io.Writer) (int64, error) {
	if fileID == "" {
		return 0, fmt.Errorf("%w: file id is empty", shared.ErrMissingArgument)
	}

	resp, err := p.api.Stream(ctx, filePath+url.PathEscape(fileID))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return 0, fmt.Errorf("%w: %s", shared.ErrNotFound, fileID)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return 0, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to write download: %w", err)
	}

	p.logger.Debug("downloaded dataset", "file_id", fileID, "bytes", n)
	return n, nil
}

// Upload sends a multipart POST /upload/ carrying the file, its tags in order, and the metadata fields.
//
// The body is streamed through a pipe so the file is never buffered whole.
func (p *PortalService) Upload(ctx context.Context, sub models.Submission, progress models.ProgressFunc) (*models.UploadResult, error) {
	if sub.Open == nil || sub.FileName == "" {
		return nil, shared.ErrNothingStaged
	}

	src, err := sub.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", sub.FileName, err)
	}
	defer src.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	done := make(chan struct{})
	go func() {
		defer close(done)
		pw.CloseWithError(writeSubmission(mw, sub, newProgressReader(src, sub.Size, progress)))
	}()

	resp, err := p.api.Post(ctx, uploadPath, mw.FormDataContentType(), pr)
	pr.Close()
	<-done
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: status %d: %s", shared.ErrUploadFailed, resp.StatusCode, resp.Detail())
	}

	var result models.UploadResult
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}

	p.logger.Info("uploaded dataset", "file", sub.FileName, "file_id", result.FileID, "tags", len(sub.Tags))
	return &result, nil
}

// Health calls GET /health and returns the raw response.
func (p *PortalService) Health(ctx context.Context) (*APIResponse, error) {
	resp, err := p.api.Get(ctx, healthPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	return resp, nil
}

func writeSubmission(mw *multipart.Writer, sub models.Submission, content io.Reader) error {
	md := sub.Metadata
	fields := []struct {
		name   string
		values []string
	}{
		{"title", nonEmpty(md.Title)},
		{"description", nonEmpty(md.Description)},
		{"dataset_type", nonEmpty(md.DatasetType)},
		{"share_level", nonEmpty(md.ShareLevel)},
		{"version", nonEmpty(md.Version)},
		{"tags", sub.Tags},
		{"authors", md.Authors},
		{"teams", md.Teams},
	}
	for _, f := range fields {
		for _, v := range f.values {
			if err := mw.WriteField(f.name, v); err != nil {
				return fmt.Errorf("failed to write field %s: %w", f.name, err)
			}
		}
	}

	part, err := mw.CreateFormFile("file", sub.FileName)
	if err != nil {
		return fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("failed to copy file content: %w", err)
	}
	return mw.Close()
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

// progressReader reports bytes read, throttled to one report per progressInterval plus a final one at EOF.
type progressReader struct {
	r      io.Reader
	sent   int64
	total  int64
	report models.ProgressFunc
	every  *rate.Sometimes
}

func newProgressReader(r io.Reader, total int64, report models.ProgressFunc) io.Reader {
	if report == nil {
		return r
	}
	return &progressReader{
		r:      r,
		total:  total,
		report: report,
		every:  &rate.Sometimes{First: 1, Interval: progressInterval},
	}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.sent += int64(n)
	if err == io.EOF {
		p.report(p.sent, p.total)
	} else if n > 0 {
		p.every.Do(func() { p.report(p.sent, p.total) })
	}
	return n, err
}

package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/desertthunder/dsx/internal/formatter"
	"github.com/desertthunder/dsx/internal/models"
	"github.com/desertthunder/dsx/internal/shared"
	"golang.org/x/time/rate"
)

const ManifestName = "download_manifest"

// BulkDownloadOpts contains configuration for bulk dataset downloads.
type BulkDownloadOpts struct {
	OutputDir  string  // Destination directory (created if missing)
	Format     string  // Manifest format: json or yaml
	NumWorkers int     // Concurrent workers (default: 3, max: 8)
	RateLimit  float64 // Requests per second (default: 5)
}

// BulkDownload fetches ids concurrently with rate limiting and progress tracking.
//
// Each dataset is written to OutputDir under its file ID. Repeated ids are downloaded once.
// Failures are recorded in the manifest and do not stop the run.
func (e *PortalEngine) BulkDownload(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []string,
	opts BulkDownloadOpts,
) (*models.DownloadManifest, error) {
	if e.portal == nil {
		return nil, fmt.Errorf("%w: portal not initialized", shared.ErrServiceUnavailable)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one file id", shared.ErrMissingArgument)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	if opts.NumWorkers > 8 {
		opts.NumWorkers = 8
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	queued, clashes := uniqueTargets(ids)
	total := len(queued) + len(clashes)
	manifest := &models.DownloadManifest{
		Total:           total,
		OutputDirectory: opts.OutputDir,
		Results:         make([]models.DownloadOutcome, 0, total),
	}

	completed := 0
	for _, res := range clashes {
		completed++
		manifest.Failed++
		manifest.Results = append(manifest.Results, res)
		e.sendProgress(prog, downloadFailedUpdate(completed, total, res))
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan string, len(queued))
	results := make(chan models.DownloadOutcome, len(queued))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.downloadWorker(ctx, &wg, limiter, jobs, results, opts.OutputDir)
	}

	for i, id := range queued {
		e.sendProgress(prog, downloadStartedUpdate(i+1, len(queued), id))
		jobs <- id
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		completed++
		manifest.Results = append(manifest.Results, res)
		if res.Success {
			manifest.Succeeded++
			e.sendProgress(prog, downloadCompletedUpdate(completed, total, res))
		} else {
			manifest.Failed++
			e.sendProgress(prog, downloadFailedUpdate(completed, total, res))
		}
	}

	ext := "json"
	if opts.Format == "yaml" {
		ext = "yaml"
	}
	manifestPath := filepath.Join(opts.OutputDir, ManifestName+"."+ext)
	e.sendProgress(prog, writeManifestUpdate(manifestPath))
	if err := formatter.WriteManifest(manifest, ext, manifestPath); err != nil {
		return manifest, fmt.Errorf("download completed but failed to write manifest: %w", err)
	}
	return manifest, nil
}

// uniqueTargets drops repeated ids and fails any id whose file name was already claimed by an earlier id,
// so no two workers ever write the same path.
func uniqueTargets(ids []string) ([]string, []models.DownloadOutcome) {
	var queued []string
	var clashes []models.DownloadOutcome
	seen := make(map[string]bool, len(ids))
	names := make(map[string]string, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		name := filepath.Base(id)
		if owner, ok := names[name]; ok {
			clashes = append(clashes, models.DownloadOutcome{
				FileID: id,
				Error:  fmt.Sprintf("%s would overwrite the download of %s", name, owner),
			})
			continue
		}
		names[name] = id
		queued = append(queued, id)
	}
	return queued, clashes
}

func (e *PortalEngine) downloadWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan string,
	results chan<- models.DownloadOutcome,
	dir string,
) {
	defer wg.Done()

	for id := range jobs {
		out := models.DownloadOutcome{FileID: id}
		if err := limiter.Wait(ctx); err != nil {
			out.Error = err.Error()
			results <- out
			continue
		}
		path, n, err := e.downloadOne(ctx, id, dir)
		out.Path = path
		out.Bytes = n
		if err != nil {
			out.Error = err.Error()
		} else {
			out.Success = true
		}
		results <- out
	}
}

func (e *PortalEngine) downloadOne(ctx context.Context, id, dir string) (string, int64, error) {
	path := filepath.Join(dir, filepath.Base(id))
	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create %s: %w", path, err)
	}

	n, err := e.portal.Download(ctx, id, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", n, err
	}
	return path, n, nil
}

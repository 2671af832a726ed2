// package testing contains shared testing utilities
package testing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/dsx/internal/models"
	"github.com/desertthunder/dsx/internal/shared"
)

// FakePortal is an in-memory test double for services.Portal
type FakePortal struct {
	mu        sync.Mutex
	Records   []models.DatasetRecord
	Content   map[string][]byte
	ListErr   error
	UploadErr error
	Uploaded  []UploadedFile
	ListCalls int
	// Gate, when set, blocks ListFiles until a value is received.
	Gate chan struct{}
}

// UploadedFile records a submission received by [FakePortal].
type UploadedFile struct {
	Name    string
	Tags    []string
	Meta    models.Metadata
	Content []byte
}

func (f *FakePortal) ListFiles(ctx context.Context) ([]models.DatasetRecord, error) {
	f.mu.Lock()
	f.ListCalls++
	gate := f.Gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return append([]models.DatasetRecord{}, f.Records...), nil
}

func (f *FakePortal) Upload(ctx context.Context, sub models.Submission, progress models.ProgressFunc) (*models.UploadResult, error) {
	if f.UploadErr != nil {
		return nil, f.UploadErr
	}
	rc, err := sub.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	if progress != nil {
		progress(int64(len(data)), sub.Size)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.Uploaded = append(f.Uploaded, UploadedFile{Name: sub.FileName, Tags: sub.Tags, Meta: sub.Metadata, Content: data})
	id := fmt.Sprintf("%s_%d", sub.FileName, len(f.Uploaded))
	return &models.UploadResult{Message: "Upload successful", FileID: id}, nil
}

func (f *FakePortal) Download(ctx context.Context, fileID string, w io.Writer) (int64, error) {
	f.mu.Lock()
	data, ok := f.Content[fileID]
	f.mu.Unlock()
	if !ok {
		return 0, fmt.Errorf("%w: %s", shared.ErrNotFound, fileID)
	}
	n, err := w.Write(data)
	return int64(n), err
}

func (f *FakePortal) DownloadURL(fileID string) string {
	return "http://portal.test/file/" + fileID
}

// PortalServer is an httptest server speaking the portal's REST contract.
type PortalServer struct {
	*httptest.Server
	mu       sync.Mutex
	Records  []models.DatasetRecord
	Content  map[string][]byte
	Token    string
	Uploads  []UploadedFile
	ListBody string // raw body override for GET /files/
	Status   int    // status override for GET /files/
}

// NewPortalServer starts a [PortalServer]. When token is non-empty every request except /token must carry it.
func NewPortalServer(t *testing.T, token string, records ...models.DatasetRecord) *PortalServer {
	t.Helper()
	ps := &PortalServer{Records: records, Content: map[string][]byte{}, Token: token}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", ps.handleToken)
	mux.HandleFunc("GET /files/", ps.authed(ps.handleList))
	mux.HandleFunc("GET /file/{id}", ps.authed(ps.handleFile))
	mux.HandleFunc("POST /upload/", ps.authed(ps.handleUpload))
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "authenticated": r.Header.Get("Authorization") != ""})
	})

	ps.Server = httptest.NewServer(mux)
	t.Cleanup(ps.Close)
	return ps
}

func (ps *PortalServer) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ps.Token != "" && r.Header.Get("Authorization") != "Bearer "+ps.Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
			return
		}
		next(w, r)
	}
}

func (ps *PortalServer) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil || r.Form.Get("grant_type") != "password" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unsupported_grant_type"})
		return
	}
	if r.Form.Get("username") == "" || r.Form.Get("password") != "secret" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_grant"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"access_token": ps.Token, "token_type": "bearer"})
}

func (ps *PortalServer) handleList(w http.ResponseWriter, r *http.Request) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.Status != 0 && ps.Status != http.StatusOK {
		writeJSON(w, ps.Status, map[string]string{"detail": "listing unavailable"})
		return
	}
	if ps.ListBody != "" {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, ps.ListBody)
		return
	}
	files := ps.Records
	if files == nil {
		files = []models.DatasetRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": files})
}

func (ps *PortalServer) handleFile(w http.ResponseWriter, r *http.Request) {
	ps.mu.Lock()
	data, ok := ps.Content[r.PathValue("id")]
	ps.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "File not found"})
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(data)
}

func (ps *PortalServer) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
		return
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "file is required"})
		return
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, f); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": err.Error()})
		return
	}

	up := UploadedFile{
		Name:    hdr.Filename,
		Tags:    r.MultipartForm.Value["tags"],
		Content: buf.Bytes(),
		Meta: models.Metadata{
			Title:       r.FormValue("title"),
			Description: r.FormValue("description"),
			DatasetType: r.FormValue("dataset_type"),
			ShareLevel:  r.FormValue("share_level"),
			Version:     r.FormValue("version"),
			Authors:     r.MultipartForm.Value["authors"],
			Teams:       r.MultipartForm.Value["teams"],
		},
	}

	ps.mu.Lock()
	ps.Uploads = append(ps.Uploads, up)
	id := strings.TrimSuffix(hdr.Filename, ".csv") + "_20240101_000000"
	ps.Content[id] = up.Content
	ps.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"message": "Upload successful", "file_id": id})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// WriteTempFile writes content to name inside a fresh temp dir and returns the path.
func WriteTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := t.TempDir() + string(os.PathSeparator) + name
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

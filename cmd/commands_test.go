package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/desertthunder/dsx/internal/browse"
	"github.com/desertthunder/dsx/internal/models"
	"github.com/desertthunder/dsx/internal/services"
	"github.com/desertthunder/dsx/internal/shared"
	tu "github.com/desertthunder/dsx/internal/testing"
	"github.com/urfave/cli/v3"
)

const testToken = "tok123"

func records() []models.DatasetRecord {
	return []models.DatasetRecord{
		{FileID: "soil_20240101_000000", Title: "Soil Moisture", Description: "Weekly probes", Tags: []string{"soil", "field"}},
		{FileID: "raw_20240102_000000"},
	}
}

// newPortalRunner wires a Runner to a real portal client talking to ps.
func newPortalRunner(t *testing.T, ps *tu.PortalServer) (*Runner, *bytes.Buffer) {
	t.Helper()
	config := shared.DefaultConfig()
	config.Portal.BaseURL = ps.URL
	config.Auth.Token = ps.Token
	config.UI.DownloadDir = t.TempDir()

	client, err := services.NewHTTPClient(context.Background(), services.FromConfig(config), &http.Client{Timeout: config.Timeout()})
	if err != nil {
		t.Fatalf("NewHTTPClient failed: %v", err)
	}

	logger := shared.NewLogger(io.Discard)
	api := services.NewAPIService(ps.URL, client)
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config:     config,
		Portal:     services.NewPortalService(api, logger),
		API:        api,
		HTTPClient: &http.Client{},
		Logger:     logger,
		Output:     output,
	})
	return runner, output
}

func run(r *Runner, args ...string) error {
	app := &cli.Command{
		Name:      "dsx",
		Flags:     []cli.Flag{debugFlag()},
		Before:    r.before,
		Commands:  r.register(),
		Writer:    io.Discard,
		ErrWriter: io.Discard,
	}
	return app.Run(context.Background(), append([]string{"dsx"}, args...))
}

func TestUploadCommand(t *testing.T) {
	t.Run("uploads file with ordered unique tags", func(t *testing.T) {
		ps := tu.NewPortalServer(t, testToken)
		runner, output := newPortalRunner(t, ps)
		path := tu.WriteTempFile(t, "soil.csv", "depth,moisture\n10,0.31\n")

		err := run(runner, "upload", "--tag", "soil", "--tag", "field", "--tag", "soil", "--tag", " ", "--author", "ana", path)
		if err != nil {
			t.Fatalf("upload failed: %v", err)
		}

		if len(ps.Uploads) != 1 {
			t.Fatalf("expected 1 upload, got %d", len(ps.Uploads))
		}
		up := ps.Uploads[0]
		if up.Name != "soil.csv" {
			t.Errorf("expected soil.csv, got %s", up.Name)
		}
		if !slices.Equal(up.Tags, []string{"soil", "field"}) {
			t.Errorf("expected tags [soil field], got %v", up.Tags)
		}
		if up.Meta.Title != "soil" {
			t.Errorf("expected title from file stem, got %q", up.Meta.Title)
		}
		if up.Meta.DatasetType != runner.config.Upload.DatasetType {
			t.Errorf("expected default dataset type %q, got %q", runner.config.Upload.DatasetType, up.Meta.DatasetType)
		}
		if !slices.Equal(up.Meta.Authors, []string{"ana"}) {
			t.Errorf("expected authors [ana], got %v", up.Meta.Authors)
		}
		if string(up.Content) != "depth,moisture\n10,0.31\n" {
			t.Errorf("unexpected content %q", up.Content)
		}

		out := output.String()
		for _, want := range []string{"Upload Complete!", "File ID: soil_20240101_000000", ps.URL + "/file/soil_20240101_000000"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, out)
			}
		}
	})

	t.Run("flags override metadata defaults", func(t *testing.T) {
		ps := tu.NewPortalServer(t, testToken)
		runner, _ := newPortalRunner(t, ps)
		path := tu.WriteTempFile(t, "soil.csv", "x")

		err := run(runner, "upload", "--title", "Soil", "--type", "survey", "--share", "team", "--dataset-version", "2", path)
		if err != nil {
			t.Fatalf("upload failed: %v", err)
		}

		meta := ps.Uploads[0].Meta
		if meta.Title != "Soil" || meta.DatasetType != "survey" || meta.ShareLevel != "team" || meta.Version != "2" {
			t.Errorf("unexpected metadata %+v", meta)
		}
	})

	t.Run("missing path", func(t *testing.T) {
		ps := tu.NewPortalServer(t, testToken)
		runner, _ := newPortalRunner(t, ps)

		if err := run(runner, "upload"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("file does not exist", func(t *testing.T) {
		ps := tu.NewPortalServer(t, testToken)
		runner, _ := newPortalRunner(t, ps)

		err := run(runner, "upload", filepath.Join(t.TempDir(), "nope.csv"))
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if len(ps.Uploads) != 0 {
			t.Error("expected nothing uploaded")
		}
	})

	t.Run("rejected by portal", func(t *testing.T) {
		ps := tu.NewPortalServer(t, testToken)
		runner, _ := newPortalRunner(t, ps)
		ps.Token = "rotated"
		path := tu.WriteTempFile(t, "soil.csv", "x")

		if err := run(runner, "upload", path); !errors.Is(err, shared.ErrUploadFailed) {
			t.Errorf("expected ErrUploadFailed, got %v", err)
		}
	})
}

func TestBrowseCommand(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		ps := tu.NewPortalServer(t, testToken, records()...)
		runner, output := newPortalRunner(t, ps)

		if err := run(runner, "browse"); err != nil {
			t.Fatalf("browse failed: %v", err)
		}

		out := output.String()
		for _, want := range []string{"Soil Moisture", "Weekly probes", "raw_20240102_000000", browse.NoDescription, ps.URL + "/file/raw_20240102_000000"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, out)
			}
		}
		if strings.Index(out, "Soil Moisture") > strings.Index(out, "raw_20240102_000000") {
			t.Error("expected listing order to be kept")
		}
	})

	t.Run("json", func(t *testing.T) {
		ps := tu.NewPortalServer(t, testToken, records()...)
		runner, output := newPortalRunner(t, ps)

		if err := run(runner, "browse", "--format", "json"); err != nil {
			t.Fatalf("browse failed: %v", err)
		}

		var cards []browse.Card
		if err := json.Unmarshal(output.Bytes(), &cards); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if len(cards) != 2 {
			t.Fatalf("expected 2 cards, got %d", len(cards))
		}
		if cards[1].Title != "raw_20240102_000000" {
			t.Errorf("expected file id as fallback title, got %q", cards[1].Title)
		}
	})

	t.Run("csv", func(t *testing.T) {
		ps := tu.NewPortalServer(t, testToken, records()...)
		runner, output := newPortalRunner(t, ps)

		if err := run(runner, "browse", "-f", "csv"); err != nil {
			t.Fatalf("browse failed: %v", err)
		}
		if !strings.HasPrefix(output.String(), "FileID,Title,Description,Tags,DownloadURL\n") {
			t.Errorf("expected CSV header, got:\n%s", output.String())
		}
		if !strings.Contains(output.String(), "soil;field") {
			t.Errorf("expected joined tags, got:\n%s", output.String())
		}
	})

	t.Run("empty listing shows placeholder", func(t *testing.T) {
		ps := tu.NewPortalServer(t, testToken)
		runner, output := newPortalRunner(t, ps)

		if err := run(runner, "browse"); err != nil {
			t.Fatalf("browse failed: %v", err)
		}
		if !strings.Contains(output.String(), browse.NoDatasets) {
			t.Errorf("expected placeholder, got %q", output.String())
		}
	})

	t.Run("match filters with typos", func(t *testing.T) {
		ps := tu.NewPortalServer(t, testToken, records()...)
		runner, output := newPortalRunner(t, ps)

		if err := run(runner, "browse", "--match", "sioll"); err != nil {
			t.Fatalf("browse failed: %v", err)
		}
		if !strings.Contains(output.String(), "Soil Moisture") {
			t.Errorf("expected Soil Moisture, got:\n%s", output.String())
		}
		if strings.Contains(output.String(), "raw_20240102_000000") {
			t.Errorf("expected raw dataset to be filtered out, got:\n%s", output.String())
		}
	})

	t.Run("non-OK status", func(t *testing.T) {
		ps := tu.NewPortalServer(t, testToken, records()...)
		ps.Status = http.StatusInternalServerError
		runner, output := newPortalRunner(t, ps)

		err := run(runner, "browse")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if !strings.Contains(err.Error(), browse.FailedToLoad) {
			t.Errorf("expected %q in error, got %v", browse.FailedToLoad, err)
		}
		if output.Len() != 0 {
			t.Errorf("expected no listing output, got %q", output.String())
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		ps := tu.NewPortalServer(t, testToken)
		ps.ListBody = `{"files": [`
		runner, _ := newPortalRunner(t, ps)

		err := run(runner, "browse")
		if !errors.Is(err, shared.ErrMalformedResponse) {
			t.Fatalf("expected ErrMalformedResponse, got %v", err)
		}
		if !strings.Contains(err.Error(), "Error loading files: ") {
			t.Errorf("expected error status text, got %v", err)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		ps := tu.NewPortalServer(t, testToken)
		runner, _ := newPortalRunner(t, ps)

		if err := run(runner, "browse", "--format", "xml"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestDownloadCommand(t *testing.T) {
	t.Run("downloads and records failures", func(t *testing.T) {
		ps := tu.NewPortalServer(t, testToken, records()...)
		ps.Content["soil_20240101_000000"] = []byte("depth,moisture\n")
		runner, output := newPortalRunner(t, ps)
		dir := filepath.Join(t.TempDir(), "out")

		err := run(runner, "download", "-o", dir, "--workers", "2", "--rate", "100", "soil_20240101_000000", "missing_id")
		if err != nil {
			t.Fatalf("download failed: %v", err)
		}

		if got := tu.MustReadFile(t, filepath.Join(dir, "soil_20240101_000000")); got != "depth,moisture\n" {
			t.Errorf("unexpected file content %q", got)
		}
		if _, err := os.Stat(filepath.Join(dir, "missing_id")); !os.IsNotExist(err) {
			t.Error("expected failed download to leave no file")
		}

		var manifest models.DownloadManifest
		if err := json.Unmarshal([]byte(tu.MustReadFile(t, filepath.Join(dir, "download_manifest.json"))), &manifest); err != nil {
			t.Fatalf("manifest is not JSON: %v", err)
		}
		if manifest.Total != 2 || manifest.Succeeded != 1 || manifest.Failed != 1 {
			t.Errorf("unexpected manifest counts %+v", manifest)
		}

		out := output.String()
		for _, want := range []string{"Succeeded: 1/2", "Failed to download 1 file(s)", "✗ missing_id"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, out)
			}
		}
	})

	t.Run("defaults to configured download dir", func(t *testing.T) {
		ps := tu.NewPortalServer(t, testToken)
		ps.Content["a"] = []byte("A")
		runner, _ := newPortalRunner(t, ps)

		if err := run(runner, "download", "--format", "yaml", "a"); err != nil {
			t.Fatalf("download failed: %v", err)
		}
		dir := runner.config.UI.DownloadDir
		if got := tu.MustReadFile(t, filepath.Join(dir, "a")); got != "A" {
			t.Errorf("unexpected content %q", got)
		}
		if _, err := os.Stat(filepath.Join(dir, "download_manifest.yaml")); err != nil {
			t.Errorf("expected yaml manifest: %v", err)
		}
	})

	t.Run("nothing downloaded", func(t *testing.T) {
		ps := tu.NewPortalServer(t, testToken)
		runner, _ := newPortalRunner(t, ps)

		if err := run(runner, "download", "ghost"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("no ids", func(t *testing.T) {
		ps := tu.NewPortalServer(t, testToken)
		runner, _ := newPortalRunner(t, ps)

		if err := run(runner, "download"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("bad manifest format", func(t *testing.T) {
		ps := tu.NewPortalServer(t, testToken)
		runner, _ := newPortalRunner(t, ps)

		if err := run(runner, "download", "--format", "csv", "a"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestAuthCommands(t *testing.T) {
	t.Run("status reports authenticated", func(t *testing.T) {
		ps := tu.NewPortalServer(t, testToken)
		runner, output := newPortalRunner(t, ps)

		if err := run(runner, "auth", "status"); err != nil {
			t.Fatalf("auth status failed: %v", err)
		}
		out := output.String()
		if !strings.Contains(out, "Service is healthy") || !strings.Contains(out, "✓ Authenticated") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("status with unreachable portal", func(t *testing.T) {
		ps := tu.NewPortalServer(t, testToken)
		runner, _ := newPortalRunner(t, ps)
		ps.Close()

		if err := run(runner, "auth", "status"); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("login prints token", func(t *testing.T) {
		ps := tu.NewPortalServer(t, testToken)
		runner, output := newPortalRunner(t, ps)

		if err := run(runner, "auth", "login", "-u", "ana", "-p", "secret"); err != nil {
			t.Fatalf("auth login failed: %v", err)
		}
		out := output.String()
		if !strings.Contains(out, "Token: "+testToken) || !strings.Contains(out, shared.EnvToken+"="+testToken) {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("login as JSON", func(t *testing.T) {
		ps := tu.NewPortalServer(t, testToken)
		runner, output := newPortalRunner(t, ps)

		if err := run(runner, "auth", "login", "--json", "-u", "ana", "-p", "secret"); err != nil {
			t.Fatalf("auth login failed: %v", err)
		}
		var body map[string]string
		if err := json.Unmarshal(output.Bytes(), &body); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if body["access_token"] != testToken {
			t.Errorf("expected %s, got %v", testToken, body)
		}
	})

	t.Run("login with wrong password", func(t *testing.T) {
		ps := tu.NewPortalServer(t, testToken)
		runner, _ := newPortalRunner(t, ps)

		if err := run(runner, "auth", "login", "-u", "ana", "-p", "nope"); !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("login without credentials", func(t *testing.T) {
		ps := tu.NewPortalServer(t, testToken)
		runner, _ := newPortalRunner(t, ps)
		runner.config.Auth.Username = ""
		runner.config.Auth.Password = ""

		if err := run(runner, "auth", "login"); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})
}

func TestDebugFlag(t *testing.T) {
	t.Run("enables debug logs", func(t *testing.T) {
		ps := tu.NewPortalServer(t, testToken, records()...)
		runner, _ := newPortalRunner(t, ps)
		logs := &bytes.Buffer{}
		runner.SetLogger(shared.NewLogger(logs))

		if err := run(runner, "--debug", "browse", "--match", "soil"); err != nil {
			t.Fatalf("browse failed: %v", err)
		}
		if !strings.Contains(logs.String(), "filtered listing") {
			t.Errorf("expected debug entry, got:\n%s", logs.String())
		}
	})

	t.Run("info level by default", func(t *testing.T) {
		ps := tu.NewPortalServer(t, testToken, records()...)
		runner, _ := newPortalRunner(t, ps)
		logs := &bytes.Buffer{}
		runner.SetLogger(shared.NewLogger(logs))

		if err := run(runner, "browse", "--match", "soil"); err != nil {
			t.Fatalf("browse failed: %v", err)
		}
		if strings.Contains(logs.String(), "filtered listing") {
			t.Errorf("expected no debug entries, got:\n%s", logs.String())
		}
	})
}

func TestAPIGetCommand(t *testing.T) {
	t.Run("prints JSON body", func(t *testing.T) {
		ps := tu.NewPortalServer(t, testToken, records()...)
		runner, output := newPortalRunner(t, ps)

		if err := run(runner, "api", "get", "/files/"); err != nil {
			t.Fatalf("api get failed: %v", err)
		}
		if !strings.Contains(output.String(), `"file_id": "soil_20240101_000000"`) {
			t.Errorf("expected pretty JSON, got:\n%s", output.String())
		}
	})

	t.Run("non-OK status", func(t *testing.T) {
		ps := tu.NewPortalServer(t, testToken)
		runner, _ := newPortalRunner(t, ps)

		err := run(runner, "api", "get", "/file/ghost")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if !strings.Contains(err.Error(), "File not found") {
			t.Errorf("expected portal detail in error, got %v", err)
		}
	})
}

func TestSetupConfigCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{Output: output, Logger: shared.NewLogger(io.Discard)})

	if err := run(runner, "setup", "config", "-c", path); err != nil {
		t.Fatalf("setup config failed: %v", err)
	}
	if _, err := shared.LoadConfig(path); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
	if !strings.Contains(output.String(), "Config written to "+path) {
		t.Errorf("unexpected output:\n%s", output.String())
	}

	if err := run(runner, "setup", "config", "-c", path); err == nil {
		t.Error("expected error when config already exists")
	}
}

package shared

import (
	"errors"
	"os/exec"
	"testing"
)

func TestOpenBrowser(t *testing.T) {
	origRuntime, origStart := getRuntime, startCmd
	t.Cleanup(func() {
		getRuntime, startCmd = origRuntime, origStart
	})

	var started *exec.Cmd
	startCmd = func(cmd *exec.Cmd) error {
		started = cmd
		return nil
	}

	tc := []struct {
		name    string
		goos    string
		link    string
		wantBin string
		wantErr bool
	}{
		{name: "darwin", goos: "darwin", link: "http://x/file/1", wantBin: "open"},
		{name: "linux", goos: "linux", link: "https://x/file/1", wantBin: "xdg-open"},
		{name: "windows", goos: "windows", link: "http://x/file/1", wantBin: "rundll32"},
		{name: "unsupported platform", goos: "plan9", link: "http://x/file/1", wantErr: true},
		{name: "non http scheme", goos: "linux", link: "file:///etc/passwd", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			started = nil
			getRuntime = func() string { return tt.goos }

			err := OpenBrowser(tt.link)
			if (err != nil) != tt.wantErr {
				t.Fatalf("OpenBrowser() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if started != nil {
					t.Error("no command should be started on error")
				}
				return
			}
			if started == nil || started.Args[0] != tt.wantBin {
				t.Errorf("expected %s to be started, got %v", tt.wantBin, started)
			}
			if started.Args[len(started.Args)-1] != tt.link {
				t.Errorf("expected link as last argument, got %v", started.Args)
			}
		})
	}

	t.Run("start failure is wrapped", func(t *testing.T) {
		getRuntime = func() string { return "linux" }
		startCmd = func(*exec.Cmd) error { return errors.New("boom") }

		if err := OpenBrowser("http://x"); err == nil {
			t.Error("expected error when command fails to start")
		}
	})
}

package widget

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/desertthunder/dsx/internal/models"
)

// File is a handle on a file the user picked or dropped.
type File struct {
	Name string
	Path string
	Size int64
	Open models.Opener
}

// FileFromPath stats path and returns a [File] that opens it lazily.
//
// Only existence is checked: type and size are not constrained.
func FileFromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("cannot stage %s: %w", path, err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("cannot stage %s: is a directory", path)
	}

	return File{
		Name: filepath.Base(path),
		Path: path,
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

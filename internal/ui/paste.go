package ui

import (
	"net/url"
	"strings"

	"github.com/desertthunder/dsx/internal/widget"
)

// droppedPaths splits the text a terminal pastes when files are dragged onto it.
//
// Paths may be separated by spaces or newlines, quoted, backslash-escaped, or given as file:// URIs.
func droppedPaths(s string) []string {
	var (
		paths []string
		cur   strings.Builder
		quote rune
		esc   bool
	)

	flush := func() {
		if cur.Len() == 0 {
			return
		}
		p := cur.String()
		cur.Reset()
		if strings.HasPrefix(p, "file://") {
			if u, err := url.Parse(p); err == nil {
				p = u.Path
			}
		}
		paths = append(paths, p)
	}

	for _, r := range s {
		switch {
		case esc:
			cur.WriteRune(r)
			esc = false
		case r == '\\' && quote != '\'':
			esc = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return paths
}

// droppedFiles resolves pasted paths to stageable files, skipping anything that is not a regular file.
func droppedFiles(s string) []widget.File {
	var files []widget.File
	for _, p := range droppedPaths(s) {
		if f, err := widget.FileFromPath(p); err == nil {
			files = append(files, f)
		}
	}
	return files
}

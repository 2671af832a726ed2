package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/dsx/internal/browse"
	"github.com/desertthunder/dsx/internal/models"
	"github.com/desertthunder/dsx/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgListingFetched MsgKind = iota
	MsgUploadProgress
	MsgUploadComplete
	MsgDownloadComplete
	MsgLinkOpened
	MsgStatusExpired
	MsgCueExpired
)

type uploadOutcome struct {
	result *models.UploadResult
	err    error
}

type downloadOutcome struct {
	fileID string
	path   string
	bytes  int64
	err    error
}

type linkOutcome struct {
	url string
	err error
}

// listingFetchedMsg is the constructor for [MsgListingFetched]
func listingFetchedMsg(r browse.Result) Msg {
	return Msg{kind: MsgListingFetched, data: r}
}

// uploadProgressMsg is the constructor for [MsgUploadProgress]
func uploadProgressMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgUploadProgress, data: update}
}

// uploadCompleteMsg is the constructor for [MsgUploadComplete]
func uploadCompleteMsg(result *models.UploadResult, err error) Msg {
	return Msg{kind: MsgUploadComplete, data: uploadOutcome{result, err}}
}

// downloadCompleteMsg is the constructor for [MsgDownloadComplete]
func downloadCompleteMsg(fileID, path string, n int64, err error) Msg {
	return Msg{kind: MsgDownloadComplete, data: downloadOutcome{fileID, path, n, err}}
}

// linkOpenedMsg is the constructor for [MsgLinkOpened]
func linkOpenedMsg(url string, err error) Msg {
	return Msg{kind: MsgLinkOpened, data: linkOutcome{url, err}}
}

// statusExpiredMsg is the constructor for [MsgStatusExpired]
func statusExpiredMsg(id int) Msg {
	return Msg{kind: MsgStatusExpired, data: id}
}

// cueExpiredMsg is the constructor for [MsgCueExpired]
func cueExpiredMsg(tag string) Msg {
	return Msg{kind: MsgCueExpired, data: tag}
}

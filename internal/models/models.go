// package models defines the data model for the dataset portal client
package models

import (
	"io"
)

// DatasetRecord is a previously uploaded item. FileID is the only guaranteed key.
type DatasetRecord struct {
	FileID      string   `json:"file_id" yaml:"file_id"`
	Title       string   `json:"title,omitempty" yaml:"title,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Listing is the body of GET /files/.
//
// Files is a pointer so that a body without the field can be told apart from an empty list.
type Listing struct {
	Files *[]DatasetRecord `json:"files"`
}

// Opener returns a fresh reader over a staged file's content.
type Opener func() (io.ReadCloser, error)

// ProgressFunc receives the number of bytes sent so far and the expected total (0 when unknown).
type ProgressFunc func(sent, total int64)

// Metadata mirrors the portal's upload form fields other than the file and tags.
type Metadata struct {
	Title       string
	Description string
	DatasetType string
	ShareLevel  string
	Version     string
	Authors     []string
	Teams       []string
}

// Submission is the payload of a single upload.
type Submission struct {
	FileName string
	Size     int64
	Open     Opener
	Tags     []string
	Metadata Metadata
}

// UploadResult is the body returned by POST /upload/.
type UploadResult struct {
	Message string `json:"message"`
	FileID  string `json:"file_id"`
}

// StatusKind classifies a [Status].
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusError
)

func (k StatusKind) String() string {
	switch k {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "info"
	}
}

// Status is a transient notification shown to the user.
type Status struct {
	Kind    StatusKind
	Message string
}

// InfoStatus is the constructor for an informational [Status]
func InfoStatus(msg string) Status { return Status{Kind: StatusInfo, Message: msg} }

// SuccessStatus is the constructor for a success [Status]
func SuccessStatus(msg string) Status { return Status{Kind: StatusSuccess, Message: msg} }

// ErrorStatus is the constructor for an error [Status]
func ErrorStatus(msg string) Status { return Status{Kind: StatusError, Message: msg} }

// IsZero reports whether there is nothing to show.
func (s Status) IsZero() bool { return s.Message == "" }

// DownloadOutcome is the result of fetching one dataset during a bulk download.
type DownloadOutcome struct {
	FileID  string `json:"file_id" yaml:"file_id"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
	Bytes   int64  `json:"bytes" yaml:"bytes"`
	Success bool   `json:"success" yaml:"success"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// DownloadManifest summarizes a bulk download and is written next to the files.
//
// Results are in completion order, not the order the ids were given.
type DownloadManifest struct {
	Total           int               `json:"total" yaml:"total"`
	Succeeded       int               `json:"succeeded" yaml:"succeeded"`
	Failed          int               `json:"failed" yaml:"failed"`
	OutputDirectory string            `json:"output_directory" yaml:"output_directory"`
	Results         []DownloadOutcome `json:"results" yaml:"results"`
}

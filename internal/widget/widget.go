package widget

import (
	"fmt"

	"github.com/desertthunder/dsx/internal/models"
	"github.com/desertthunder/dsx/internal/shared"
)

// Step is the progress indicator position. Steps below the current value render as active.
type Step int

const (
	StepEmpty Step = iota
	StepFileStaged
	StepSubmitting
	StepDone
)

// StepLabels names the indicator segments; segment i is active when Step > i.
var StepLabels = []string{"Select file", "Upload", "Done"}

func (s Step) String() string {
	switch s {
	case StepEmpty:
		return "empty"
	case StepFileStaged:
		return "file_staged"
	case StepSubmitting:
		return "submitting"
	case StepDone:
		return "done"
	default:
		return ""
	}
}

// Widget is the upload widget state. The zero value is not usable; call [New].
type Widget struct {
	file       *File
	tags       TagSet
	step       Step
	dragActive bool
	cue        string
	inFlight   *File
}

// New returns an empty widget.
func New() *Widget {
	return &Widget{step: StepEmpty}
}

// SelectFile replaces any staged file with f and moves the indicator to [StepFileStaged].
func (w *Widget) SelectFile(f File) {
	staged := f
	w.file = &staged
	w.step = StepFileStaged
}

// RemoveFile clears the staged file and resets the indicator, whatever the prior state.
func (w *Widget) RemoveFile() {
	w.file = nil
	w.step = StepEmpty
}

// AddTag trims text and appends it to the tag set unless empty or duplicate.
//
// The added tag, and only that tag, carries the success cue until [Widget.ClearCue].
func (w *Widget) AddTag(text string) (string, bool) {
	tag, added := w.tags.Add(text)
	if added {
		w.cue = tag
	}
	return tag, added
}

// RemoveTag drops tag from the set.
func (w *Widget) RemoveTag(tag string) bool {
	removed := w.tags.Remove(tag)
	if removed && w.cue == tag {
		w.cue = ""
	}
	return removed
}

// RemoveLastTag drops the most recently added tag.
func (w *Widget) RemoveLastTag() (string, bool) {
	last, ok := w.tags.Last()
	if !ok {
		return "", false
	}
	return last, w.RemoveTag(last)
}

// ClearCue ends the success cue.
func (w *Widget) ClearCue() { w.cue = "" }

// Cue returns the tag currently carrying the success cue.
func (w *Widget) Cue() (string, bool) { return w.cue, w.cue != "" }

func (w *Widget) Staged() (File, bool) {
	if w.file == nil {
		return File{}, false
	}
	return *w.file, true
}

func (w *Widget) Tags() []string { return w.tags.Items() }
func (w *Widget) Step() Step     { return w.step }

// Payload builds the submission for the staged file and current tags.
func (w *Widget) Payload(md models.Metadata) (models.Submission, error) {
	if w.file == nil {
		return models.Submission{}, shared.ErrNothingStaged
	}
	return models.Submission{
		FileName: w.file.Name,
		Size:     w.file.Size,
		Open:     w.file.Open,
		Tags:     w.tags.Items(),
		Metadata: md,
	}, nil
}

// BeginSubmit marks the staged file as being uploaded and returns its payload.
func (w *Widget) BeginSubmit(md models.Metadata) (models.Submission, error) {
	if w.inFlight != nil {
		return models.Submission{}, shared.ErrUploadInProgress
	}
	sub, err := w.Payload(md)
	if err != nil {
		return sub, err
	}
	w.inFlight = w.file
	w.step = StepSubmitting
	return sub, nil
}

// FinishSubmit records the outcome of the upload started by [Widget.BeginSubmit] and returns the status to show.
//
// On success the submitted file and all tags are cleared. If the user replaced or removed the
// file while the request was in flight, the newer state is kept and only the status is reported.
func (w *Widget) FinishSubmit(result *models.UploadResult, err error) models.Status {
	submitted := w.inFlight
	w.inFlight = nil
	current := submitted != nil && w.file == submitted

	if err != nil {
		if current {
			w.step = StepFileStaged
		}
		return models.ErrorStatus(fmt.Sprintf("Upload failed: %v", err))
	}

	if current {
		w.file = nil
		w.tags.Reset()
		w.cue = ""
		w.step = StepDone
	}

	msg := "Upload successful"
	if result != nil && result.FileID != "" {
		msg = fmt.Sprintf("Upload successful: %s", result.FileID)
	}
	return models.SuccessStatus(msg)
}

// TagView is one rendered tag.
type TagView struct {
	Text string
	Cued bool
}

// View is everything a renderer needs.
type View struct {
	FileName    string
	FileSize    int64
	FileVisible bool
	DragActive  bool
	Step        Step
	Tags        []TagView
}

// View snapshots the widget for rendering.
func (w *Widget) View() View {
	v := View{
		DragActive: w.dragActive,
		Step:       w.step,
	}
	if w.file != nil {
		v.FileName = w.file.Name
		v.FileSize = w.file.Size
		v.FileVisible = true
	}
	for _, t := range w.tags.items {
		v.Tags = append(v.Tags, TagView{Text: t, Cued: t == w.cue})
	}
	return v
}

// Active reports whether indicator segment i is lit.
func (v View) Active(i int) bool {
	return i < int(v.Step)
}

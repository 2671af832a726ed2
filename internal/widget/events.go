package widget

// Target identifies which element a pointer or drag event landed on.
type Target int

const (
	// TargetZone is the drop zone element itself.
	TargetZone Target = iota
	// TargetNested is any control nested inside the drop zone.
	TargetNested
)

// Event is a host event translated for the widget.
type Event interface {
	event()
}

type (
	DragEnter struct{}
	DragOver  struct{}
	// DragLeave clears the active state only when Target is the zone itself.
	DragLeave struct{ Target Target }
	// Drop stages Files[0]; an empty drop changes nothing but the drag state.
	Drop struct{ Files []File }
	// PickerChange is the native file picker reporting a selection.
	PickerChange struct{ Files []File }
	// ZoneClick is a click somewhere inside the drop zone.
	ZoneClick struct{ Target Target }
	// RemoveClick is the remove-file control.
	RemoveClick struct{}
	// AddTagClick is the add-tag button with the current tag field text.
	AddTagClick struct{ Text string }
	// TagKey is a key press in the tag field.
	TagKey struct {
		Key  string
		Text string
	}
)

func (DragEnter) event()    {}
func (DragOver) event()     {}
func (DragLeave) event()    {}
func (Drop) event()         {}
func (PickerChange) event() {}
func (ZoneClick) event()    {}
func (RemoveClick) event()  {}
func (AddTagClick) event()  {}
func (TagKey) event()       {}

// Effect tells the host how to finish handling a native event.
type Effect struct {
	PreventDefault  bool
	StopPropagation bool
	OpenPicker      bool
	ResetFileInput  bool
	ClearTagInput   bool
	Rerender        bool
}

// Dispatch applies ev and reports the effect on the host event.
func (w *Widget) Dispatch(ev Event) Effect {
	switch ev := ev.(type) {
	case DragEnter, DragOver:
		changed := !w.dragActive
		w.dragActive = true
		return Effect{PreventDefault: true, Rerender: changed}

	case DragLeave:
		if ev.Target != TargetZone || !w.dragActive {
			return Effect{PreventDefault: true}
		}
		w.dragActive = false
		return Effect{PreventDefault: true, Rerender: true}

	case Drop:
		w.dragActive = false
		if len(ev.Files) > 0 {
			w.SelectFile(ev.Files[0])
		}
		return Effect{PreventDefault: true, Rerender: true}

	case PickerChange:
		if len(ev.Files) == 0 {
			return Effect{}
		}
		w.SelectFile(ev.Files[0])
		return Effect{Rerender: true}

	case ZoneClick:
		if ev.Target != TargetZone {
			return Effect{}
		}
		return Effect{OpenPicker: true}

	case RemoveClick:
		w.RemoveFile()
		return Effect{StopPropagation: true, ResetFileInput: true, Rerender: true}

	case AddTagClick:
		_, added := w.AddTag(ev.Text)
		return Effect{ClearTagInput: added, Rerender: added}

	case TagKey:
		if ev.Key != "enter" {
			return Effect{}
		}
		_, added := w.AddTag(ev.Text)
		return Effect{PreventDefault: true, ClearTagInput: added, Rerender: added}
	}

	return Effect{}
}

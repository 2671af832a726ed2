// Package ui implements the interactive terminal host using bubbletea's Elm architecture.
//
// The TUI has three views:
//  1. [MainView] : the upload widget (drop zone, step indicator, tag field)
//  2. [PickerView] : the native file picker, opened from the drop zone
//  3. [BrowseView] : the dataset listing overlay
//
// Terminal events are translated into [widget.Event] values and dispatched to
// the widget; the returned [widget.Effect] decides what the host does next
// (open the picker, reset it, clear the tag field). A bracketed paste of file
// paths, which is what most terminals emit when files are dragged onto them,
// is treated as a drop. Mouse clicks are hit-tested against the last rendered
// layout to tell the drop zone from the remove control and the overlay panel
// from its backdrop.
//
// Network calls run as [tea.Cmd] functions. Upload progress flows through a
// channel from the [tasks.PortalEngine] and is drained one update at a time.
// Statuses expire after the configured delay.
package ui

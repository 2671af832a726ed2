// Package widget implements the upload widget as a rendering-free state machine.
//
// A [Widget] owns at most one staged [File], an ordered [TagSet] and a [Step]
// for the progress indicator. Hosts translate their native events into
// [Event] values and pass them to [Widget.Dispatch]; the returned [Effect]
// tells the host what to do with the native event (stop propagation, prevent
// default, open the file picker, clear the tag field) and whether to redraw.
// [Widget.View] is the only read path for rendering.
//
// Step transitions:
//
//	Empty      --SelectFile-->  FileStaged
//	any        --RemoveFile-->  Empty
//	FileStaged --BeginSubmit--> Submitting
//	Submitting --FinishSubmit(ok)-->   Done (file and tags cleared)
//	Submitting --FinishSubmit(fail)--> FileStaged
package widget

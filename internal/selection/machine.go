// Package selection implements the file selection lifecycle: picker sessions,
// dropped files, image validation and reset.
package selection

import (
	"errors"
	"strings"
)

// State is the logical selection state.
type State int

const (
	// Empty means no file is held and the upload prompt is shown.
	Empty State = iota
	// PickerOpen means a picker session is considered open.
	PickerOpen
	// Selected means a valid image file is held.
	Selected
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case PickerOpen:
		return "picker-open"
	case Selected:
		return "selected"
	default:
		return "unknown"
	}
}

// Gesture identifies the affordance that asked for a picker.
type Gesture int

const (
	// GestureUpload is the "Browse Files" button on the empty prompt.
	GestureUpload Gesture = iota
	// GestureDropZone is a click on the drop zone itself.
	GestureDropZone
	// GestureChangeFile is the "Change File" button shown once a file is selected.
	GestureChangeFile
)

// Source identifies how a file arrived.
type Source int

const (
	// SourcePicker is a picker change event.
	SourcePicker Source = iota
	// SourceDrop is a drop onto the drop zone.
	SourceDrop
)

var (
	// ErrNotImage is returned when a candidate file does not report an image MIME type.
	ErrNotImage = errors.New("please select an image file")

	// ErrNoFile is returned by operations that need a held file.
	ErrNoFile = errors.New("no file selected")
)

// File is a user-chosen file.
type File struct {
	// Name is the display name.
	Name string
	// Path is the location the file was read from, if any.
	Path string
	// MIMEType is the reported content type.
	MIMEType string
	// Content is the raw file data.
	Content []byte
}

// IsImage reports whether the file reports an image MIME type.
func (f *File) IsImage() bool {
	return f != nil && strings.HasPrefix(strings.ToLower(strings.TrimSpace(f.MIMEType)), "image/")
}

// Machine owns the selected file and the picker-open flag. The zero value is
// an Empty machine. Machine is not safe for concurrent use; callers serialise
// access through a single owner.
type Machine struct {
	file         *File
	dialogOpen   bool
	highlight    bool
	previewReady bool

	// inputValue mirrors the picker's remembered value. Choosing the same
	// path again does not produce a change event until it is cleared.
	inputValue string

	previewToken uint64
	settleToken  uint64
}

// State returns the current logical state. An open picker takes precedence
// over a held file.
func (m *Machine) State() State {
	switch {
	case m.dialogOpen:
		return PickerOpen
	case m.file != nil:
		return Selected
	default:
		return Empty
	}
}

// File returns the held file, or nil.
func (m *Machine) File() *File {
	return m.file
}

// DialogOpen reports whether a picker session is considered open.
func (m *Machine) DialogOpen() bool {
	return m.dialogOpen
}

// Highlighted reports whether the drop zone shows its drag highlight.
func (m *Machine) Highlighted() bool {
	return m.highlight
}

// PreviewReady reports whether the held file's preview has been decoded.
func (m *Machine) PreviewReady() bool {
	return m.file != nil && m.previewReady
}

// ExtractEnabled reports whether the extraction trigger is available.
func (m *Machine) ExtractEnabled() bool {
	return m.PreviewReady()
}

// ShowsChangeFile reports whether the prompt has been swapped for the
// selected file name and its change affordance.
func (m *Machine) ShowsChangeFile() bool {
	return m.PreviewReady()
}

// OpenPicker asks for a picker session. It returns true when the caller
// should launch the picker, and false when the gesture is a no-op because a
// session is already open or the gesture's affordance is not on screen.
func (m *Machine) OpenPicker(g Gesture) bool {
	switch g {
	case GestureUpload:
		if m.ShowsChangeFile() {
			return false
		}
	case GestureChangeFile:
		if !m.ShowsChangeFile() {
			return false
		}
	case GestureDropZone:
	default:
		return false
	}

	if m.dialogOpen {
		return false
	}
	m.dialogOpen = true
	// A pending refocus settle belongs to the previous session.
	m.settleToken++
	return true
}

// ClickDropZone handles a click inside the drop zone. Only clicks whose
// target is the zone itself open a picker; clicks on children are ignored.
func (m *Machine) ClickDropZone(direct bool) bool {
	if !direct {
		return false
	}
	return m.OpenPicker(GestureDropZone)
}

// Choose offers a file from the picker or a drop. A nil file is a picker
// that reported no files. On success it returns a non-zero preview token
// that must be passed to PreviewDecoded or PreviewFailed. On ErrNotImage the
// machine has reverted to Empty.
func (m *Machine) Choose(src Source, f *File) (uint64, error) {
	switch src {
	case SourcePicker:
		m.dialogOpen = false
		if f == nil {
			return 0, nil
		}
		if f.Path != "" && f.Path == m.inputValue {
			// The picker remembers this value; no change event fires.
			return 0, nil
		}
		m.inputValue = f.Path
	case SourceDrop:
		m.highlight = false
		if f == nil {
			return 0, nil
		}
	}

	if !f.IsImage() {
		m.clearSelection()
		return 0, ErrNotImage
	}

	m.file = f
	m.previewReady = false
	m.previewToken++
	return m.previewToken, nil
}

// PreviewDecoded marks the preview for token as ready. It returns false when
// the token is stale because the selection changed or was reset meanwhile.
func (m *Machine) PreviewDecoded(token uint64) bool {
	if m.file == nil || token != m.previewToken {
		return false
	}
	m.previewReady = true
	return true
}

// PreviewFailed reverts to Empty when the current file could not be decoded.
// Stale tokens are ignored and return false.
func (m *Machine) PreviewFailed(token uint64) bool {
	if m.file == nil || token != m.previewToken {
		return false
	}
	m.clearSelection()
	return true
}

// WindowFocused records a refocus and returns the token to hand back to
// FocusSettled after the settling delay.
func (m *Machine) WindowFocused() uint64 {
	m.settleToken++
	return m.settleToken
}

// FocusSettled clears the picker flag if no newer picker session or refocus
// has happened since token was issued.
func (m *Machine) FocusSettled(token uint64) bool {
	if token != m.settleToken || !m.dialogOpen {
		return false
	}
	m.dialogOpen = false
	return true
}

// DragEnter shows the drop highlight. Logical state is unchanged.
func (m *Machine) DragEnter() {
	m.highlight = true
}

// DragLeave removes the drop highlight. Logical state is unchanged.
func (m *Machine) DragLeave() {
	m.highlight = false
}

// InputValue returns the picker's remembered value.
func (m *Machine) InputValue() string {
	return m.inputValue
}

// Reset returns to Empty, clears the picker flag and forgets the picker
// value so the same file can be chosen again. Calling it repeatedly is
// harmless.
func (m *Machine) Reset() {
	m.clearSelection()
	m.dialogOpen = false
	m.settleToken++
}

func (m *Machine) clearSelection() {
	m.file = nil
	m.previewReady = false
	m.highlight = false
	m.inputValue = ""
	m.previewToken++
}

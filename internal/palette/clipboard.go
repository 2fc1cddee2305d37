package palette

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Clipboard accepts plain text.
type Clipboard interface {
	WriteText(text string) error
}

// SystemClipboard writes to the desktop clipboard.
type SystemClipboard struct{}

// WriteText copies text to the system clipboard.
func (SystemClipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard unavailable on this system")
	}
	return clipboard.WriteAll(text)
}

// ClipboardFunc adapts a function to Clipboard.
type ClipboardFunc func(text string) error

// WriteText calls f(text).
func (f ClipboardFunc) WriteText(text string) error {
	return f(text)
}

// Package clipboard copies text to the system clipboard.
package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no clipboard tool is installed.
var ErrUnavailable = errors.New("clipboard unavailable")

// Writer copies text somewhere. The TUI accepts one so tests can swap it.
type Writer interface {
	Write(text string) error
}

// System writes to the OS clipboard.
type System struct{}

// Write copies text to the system clipboard.
func (System) Write(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	return clipboard.WriteAll(text)
}

// Available checks if clipboard functionality is available.
func Available() bool {
	return !clipboard.Unsupported
}

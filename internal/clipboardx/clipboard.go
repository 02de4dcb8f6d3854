// Package clipboardx wraps the system clipboard behind a small interface
// so the vault service can copy secrets without depending on a concrete
// clipboard implementation.
package clipboardx

import "github.com/atotto/clipboard"

// System writes to the operating system clipboard.
type System struct{}

// Write places text on the clipboard.
func (System) Write(text string) error {
	return clipboard.WriteAll(text)
}

// Clear overwrites the clipboard with an empty string.
func (System) Clear() error {
	return clipboard.WriteAll("")
}

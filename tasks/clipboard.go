package tasks

import "github.com/atotto/clipboard"

// SystemClipboard writes to the clipboard of the machine running the
// composer.
type SystemClipboard struct{}

func (SystemClipboard) WriteText(text string) error {
	return clipboard.WriteAll(text)
}

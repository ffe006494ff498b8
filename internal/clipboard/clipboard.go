package clipboard

import (
	"github.com/atotto/clipboard"
)

// Paste reads text from the system clipboard
func Paste() (string, error) {
	return clipboard.ReadAll()
}

// Copy writes text to the system clipboard
func Copy(text string) error {
	return clipboard.WriteAll(text)
}

// WriteOutput is the output-sink contract used after composing the
// reconciled text: it reports success rather than an error because callers
// only ever react by showing or skipping a status message.
func WriteOutput(text string) bool {
	return clipboard.WriteAll(text) == nil
}

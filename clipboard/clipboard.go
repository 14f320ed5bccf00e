// Package clipboard implements [parley.Clipboard] on the system clipboard.
package clipboard

import (
	"github.com/atotto/clipboard"
	"github.com/mkwiat/parley"
)

// System writes to the OS clipboard.
type System struct{}

// Interface compliance check.
var _ parley.Clipboard = System{}

// Write copies text to the system clipboard.
func (System) Write(text string) error {
	return clipboard.WriteAll(text)
}

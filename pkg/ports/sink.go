// Package ports defines interfaces for the collaborators of the decoder and player.
package ports

import (
	"image"
)

// DisplaySink receives the frame that should currently be on screen.
// It is called only when the displayed image changes.
type DisplaySink interface {
	// Display shows img. A nil img clears the display.
	Display(img image.Image)
}

// DisplayFunc is a function adapter for DisplaySink.
type DisplayFunc func(img image.Image)

// Display implements DisplaySink.
func (f DisplayFunc) Display(img image.Image) {
	f(img)
}

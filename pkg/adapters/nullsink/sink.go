// Package nullsink provides a display sink that discards every frame.
package nullsink

import (
	"image"
	"sync/atomic"

	"github.com/user/gifplay/pkg/ports"
)

// Sink is a no-op implementation of ports.DisplaySink. It only counts
// what it is given, for headless playback and benchmarks.
type Sink struct {
	shown  atomic.Int64
	clears atomic.Int64
}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// Display discards img.
func (s *Sink) Display(img image.Image) {
	if img == nil {
		s.clears.Add(1)
		return
	}
	s.shown.Add(1)
}

// Shown returns the number of frames discarded.
func (s *Sink) Shown() int {
	return int(s.shown.Load())
}

// Clears returns the number of clear requests.
func (s *Sink) Clears() int {
	return int(s.clears.Load())
}

// Ensure Sink implements ports.DisplaySink
var _ ports.DisplaySink = (*Sink)(nil)

// Package logsink provides a display sink decorator that logs and counts
// every display change before forwarding it.
package logsink

import (
	"image"
	"sync"

	"github.com/user/gifplay/pkg/frame"
	"github.com/user/gifplay/pkg/ports"
)

// Sink forwards to an inner sink, logging each change at debug level.
type Sink struct {
	inner  ports.DisplaySink
	logger ports.Logger

	mu     sync.Mutex
	frames frame.List
	shown  int
	clears int
}

// New wraps inner. A nil inner only logs.
func New(inner ports.DisplaySink, logger ports.Logger) *Sink {
	return &Sink{
		inner:  inner,
		logger: logger.WithComponent("display"),
	}
}

// SetFrames sets the list used to name displayed images by index.
func (s *Sink) SetFrames(frames frame.List) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = frames
}

// Display logs img and forwards it.
func (s *Sink) Display(img image.Image) {
	s.mu.Lock()
	if img == nil {
		s.clears++
		s.logger.Debug("Display cleared")
	} else {
		s.shown++
		if i := s.frames.IndexOf(img); i >= 0 {
			s.logger.Debug("Displayed frame %d (%s)", i, s.frames[i].Duration)
		} else {
			s.logger.Debug("Displayed frame %d (%s)", i, "unknown")
		}
	}
	s.mu.Unlock()

	if s.inner != nil {
		s.inner.Display(img)
	}
}

// Shown returns the number of images displayed.
func (s *Sink) Shown() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shown
}

// Clears returns the number of clears.
func (s *Sink) Clears() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clears
}

// Ensure Sink implements ports.DisplaySink
var _ ports.DisplaySink = (*Sink)(nil)

package mocks

import (
	"image"
	"sync"

	"github.com/user/gifplay/pkg/ports"
)

// DisplaySink is a mock implementation of ports.DisplaySink that records
// every call.
type DisplaySink struct {
	mu sync.RWMutex

	Shown   []image.Image
	Current image.Image
	Clears  int
}

// NewDisplaySink creates a new mock DisplaySink.
func NewDisplaySink() *DisplaySink {
	return &DisplaySink{}
}

func (m *DisplaySink) Display(img image.Image) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Current = img
	if img == nil {
		m.Clears++
		return
	}
	m.Shown = append(m.Shown, img)
}

// Calls returns the number of non-clearing Display calls.
func (m *DisplaySink) Calls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Shown)
}

// Last returns the image currently displayed.
func (m *DisplaySink) Last() image.Image {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Current
}

var _ ports.DisplaySink = (*DisplaySink)(nil)

// Package frame defines decoded animation frames and the rules for
// resolving their display durations.
package frame

import (
	"image"
	"reflect"
	"time"
)

const (
	// DefaultDuration is used when a frame carries no usable delay, and
	// replaces any delay at or below MinDuration.
	DefaultDuration = 100 * time.Millisecond

	// MinDuration is the largest delay treated as malformed. Near-zero
	// delays are throttled to DefaultDuration rather than honoured.
	MinDuration = 10 * time.Millisecond
)

// Frame is one decoded bitmap and how long it stays on screen.
type Frame struct {
	Image    image.Image
	Duration time.Duration
}

// Equal reports whether f and g hold the same image handle and duration.
// Pixel content is never compared.
func (f Frame) Equal(g Frame) bool {
	return SameImage(f.Image, g.Image) && f.Duration == g.Duration
}

// SameImage reports whether a and b are the same image handle. Two nil
// images are the same; values of non-comparable dynamic types never are.
func SameImage(a, b image.Image) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

// List is the ordered result of one decode. A nil List means no frames
// were installed; an empty non-nil List means the decode found nothing
// playable. Lists are never modified after construction.
type List []Frame

// Len returns the number of frames.
func (l List) Len() int {
	return len(l)
}

// IndexOf returns the index of the frame whose image is img, or -1.
func (l List) IndexOf(img image.Image) int {
	if img == nil {
		return -1
	}
	for i, f := range l {
		if SameImage(f.Image, img) {
			return i
		}
	}
	return -1
}

// TotalDuration returns the sum of all frame durations.
func (l List) TotalDuration() time.Duration {
	var total time.Duration
	for _, f := range l {
		total += f.Duration
	}
	return total
}

// Durations returns the frame durations in order.
func (l List) Durations() []time.Duration {
	d := make([]time.Duration, len(l))
	for i, f := range l {
		d[i] = f.Duration
	}
	return d
}

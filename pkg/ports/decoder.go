package ports

import (
	"image"
	"time"
)

// ImageSource gives indexed access to the sub-images of an opened
// multi-frame container.
type ImageSource interface {
	// Count returns the number of sub-images found in the container,
	// including ones that may later fail to decode.
	Count() int

	// ImageAt materializes the sub-image at index i as a full
	// logical-screen bitmap. Each successful call returns a distinct image.
	ImageAt(i int) (image.Image, error)

	// PropertiesAt returns the timing metadata of sub-image i.
	PropertiesAt(i int) FrameProperties

	// Size returns the logical screen dimensions.
	Size() (width, height int)

	// LoopCount reports the container's repeat setting:
	// 0 loops forever, -1 plays once, n > 0 repeats n times.
	LoopCount() int
}

// FrameProperties holds the optional per-frame delay metadata of a container.
type FrameProperties struct {
	// UnclampedDelay is the delay exactly as authored, if present.
	UnclampedDelay *time.Duration

	// Delay is the delay after the container's conventional viewer clamp,
	// if present.
	Delay *time.Duration
}

// SourceOpener opens raw container bytes as an ImageSource.
type SourceOpener interface {
	// Open parses the container structure. It fails only when the bytes
	// cannot be read as a container at all.
	Open(data []byte) (ImageSource, error)
}

// SourceOpenerFunc is a function adapter for SourceOpener.
type SourceOpenerFunc func(data []byte) (ImageSource, error)

// Open implements SourceOpener.
func (f SourceOpenerFunc) Open(data []byte) (ImageSource, error) {
	return f(data)
}

// Package gifsource provides a ports.ImageSource over raw GIF data.
//
// Sub-images are read one block at a time so that a corrupt frame does not
// prevent the remaining frames from being read. Each frame is composited
// onto the logical screen following the GIF disposal rules.
package gifsource

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	gif "github.com/NathanBaulch/gifx"
	"golang.org/x/image/draw"

	"github.com/user/gifplay/pkg/frame"
	"github.com/user/gifplay/pkg/ports"
)

var (
	// ErrNotGIF is returned when the data does not start with a GIF signature.
	ErrNotGIF = errors.New("gifsource: not a GIF stream")
	// ErrTruncatedHeader is returned when the logical screen descriptor or
	// global color table is cut short.
	ErrTruncatedHeader = errors.New("gifsource: truncated header")
)

// subImage is one image block of the stream. err is set when the block
// could not be decoded.
type subImage struct {
	image    *image.Paletted
	err      error
	delay    time.Duration
	hasDelay bool
	disposal byte
}

// Source is an opened GIF stream. A Source is not safe for concurrent use.
type Source struct {
	width     int
	height    int
	loopCount int
	images    []subImage

	// Compositing state. next is the index of the sub-image that will be
	// composited next onto canvas.
	canvas *image.RGBA
	next   int
	prev   composited
}

// composited records what the last successfully drawn sub-image needs
// undone before the following one is drawn.
type composited struct {
	valid    bool
	rect     image.Rectangle
	disposal byte
	saved    *image.RGBA
}

// Open parses data as a GIF stream. Only an unreadable signature or screen
// descriptor is an error; a stream that ends early yields the sub-images
// found so far.
func Open(data []byte) (*Source, error) {
	if len(data) < 6 {
		return nil, ErrNotGIF
	}
	if v := string(data[:6]); v != "GIF87a" && v != "GIF89a" {
		return nil, ErrNotGIF
	}

	r := bytes.NewReader(data)
	hdr, err := gif.NewDecoder(r).ReadHeader()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncatedHeader, err)
	}
	n := len(data) - r.Len()

	// The decoder rejects frames reaching past the logical screen. Hand it
	// the largest screen instead; frames are cropped when composited.
	screen := append([]byte(nil), data[:n]...)
	screen[6], screen[7], screen[8], screen[9] = 0xff, 0xff, 0xff, 0xff

	s := &Source{
		width:     hdr.Config.Width,
		height:    hdr.Config.Height,
		loopCount: -1,
	}
	s.read(screen, data[n:])
	s.reset()
	return s, nil
}

// read decodes the blocks of body, the stream following the screen
// descriptor. A decoder that fails inside a block is left at an unknown
// position, so reading resumes with a fresh decoder after that block.
func (s *Source) read(screen, body []byte) {
	for pos := 0; pos < len(body); {
		stream := make([]byte, 0, len(screen)+len(body)-pos)
		stream = append(append(stream, screen...), body[pos:]...)
		r := bytes.NewReader(stream)
		dec := gif.NewDecoder(r)
		if _, err := dec.ReadHeader(); err != nil {
			return
		}

		base := pos - len(screen)
		for {
			start := base + int(r.Size()) - r.Len()
			blk, err := readBlock(dec)
			if err == io.EOF {
				return
			}
			if err != nil {
				next, isImage := nextBlock(body, start)
				if isImage {
					s.images = append(s.images, subImage{err: err})
				}
				pos = next
				break
			}

			switch b := blk.(type) {
			case *gif.ApplicationNetscape:
				s.loopCount = b.LoopCount
			case *gif.UnknownApplication:
				if b.Identifier == "ANIMEXTS1.0" && len(b.SubBlocks) > 0 {
					if sb := b.SubBlocks[0]; len(sb) == 3 && sb[0] == 1 {
						s.loopCount = int(sb[1]) | int(sb[2])<<8
					}
				}
			case *gif.Frame:
				s.images = append(s.images, subImage{
					image:    b.Image,
					delay:    b.DelayTime,
					hasDelay: b.DelayTime > 0 || body[start] == sExtension,
					disposal: b.DisposalMethod,
				})
			}
		}
	}
}

// readBlock reads the next block from dec. Broken streams found in the
// wild can make the decoder panic.
func readBlock(dec *gif.Decoder) (blk any, err error) {
	defer func() {
		if r := recover(); r != nil {
			blk, err = nil, fmt.Errorf("gif: decode panic: %v", r)
		}
	}()
	return dec.ReadBlock()
}

// Opener implements ports.SourceOpener for GIF data.
type Opener struct{}

// NewOpener creates a new Opener.
func NewOpener() *Opener {
	return &Opener{}
}

// Open implements ports.SourceOpener.
func (o *Opener) Open(data []byte) (ports.ImageSource, error) {
	s, err := Open(data)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Count returns the number of sub-images in the stream, including those
// that failed to decode.
func (s *Source) Count() int {
	return len(s.images)
}

// Size returns the logical screen dimensions.
func (s *Source) Size() (width, height int) {
	return s.width, s.height
}

// LoopCount follows the image/gif convention: 0 loops forever, -1 shows
// each frame once and n > 0 repeats the animation n times after the first
// pass.
func (s *Source) LoopCount() int {
	return s.loopCount
}

// PropertiesAt returns the delay metadata of sub-image i. Both fields are
// nil when the sub-image has no graphic control extension.
func (s *Source) PropertiesAt(i int) ports.FrameProperties {
	if i < 0 || i >= len(s.images) || !s.images[i].hasDelay {
		return ports.FrameProperties{}
	}
	raw := s.images[i].delay
	clamped := raw
	if clamped <= frame.MinDuration {
		clamped = frame.DefaultDuration
	}
	return ports.FrameProperties{UnclampedDelay: &raw, Delay: &clamped}
}

// ImageAt returns sub-image i composited onto the logical screen. Frames
// are composited in order; asking for an earlier index than the last one
// returned recomposites from the start.
func (s *Source) ImageAt(i int) (image.Image, error) {
	if i < 0 || i >= len(s.images) {
		return nil, fmt.Errorf("gifsource: frame index %d out of range [0, %d)", i, len(s.images))
	}
	if i < s.next {
		s.reset()
	}
	for s.next < i {
		// Failures of intermediate frames are reported when they are
		// requested directly.
		_ = s.composite(s.next)
		s.next++
	}
	err := s.composite(i)
	s.next = i + 1
	if err != nil {
		return nil, err
	}
	out := image.NewRGBA(s.canvas.Bounds())
	copy(out.Pix, s.canvas.Pix)
	return out, nil
}

func (s *Source) reset() {
	s.canvas = image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	s.next = 0
	s.prev = composited{}
}

// composite draws sub-image i onto the canvas, cropped to the logical
// screen. The canvas is left untouched when the sub-image failed to decode.
func (s *Source) composite(i int) error {
	sub := s.images[i]
	if sub.err != nil {
		return fmt.Errorf("gifsource: frame %d: %w", i, sub.err)
	}

	if s.prev.valid {
		switch s.prev.disposal {
		case gif.DisposalBackground:
			draw.Draw(s.canvas, s.prev.rect, image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			if s.prev.saved != nil {
				draw.Draw(s.canvas, s.prev.rect, s.prev.saved, s.prev.rect.Min, draw.Src)
			}
		}
	}

	rect := sub.image.Bounds().Intersect(s.canvas.Bounds())
	var saved *image.RGBA
	if sub.disposal == gif.DisposalPrevious {
		saved = image.NewRGBA(rect)
		draw.Draw(saved, rect, s.canvas, rect.Min, draw.Src)
	}
	draw.Draw(s.canvas, rect, sub.image, rect.Min, draw.Over)

	s.prev = composited{valid: true, rect: rect, disposal: sub.disposal, saved: saved}
	return nil
}

var (
	_ ports.ImageSource  = (*Source)(nil)
	_ ports.SourceOpener = (*Opener)(nil)
)

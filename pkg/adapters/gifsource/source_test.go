package gifsource

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	gif "github.com/NathanBaulch/gifx"

	"github.com/user/gifplay/pkg/mocks"
)

var (
	red         = color.RGBA{R: 0xff, A: 0xff}
	green       = color.RGBA{G: 0xff, A: 0xff}
	blue        = color.RGBA{B: 0xff, A: 0xff}
	transparent = color.RGBA{}
)

func rgbaAt(t *testing.T, img image.Image, x, y int) color.RGBA {
	t.Helper()
	m, ok := img.(*image.RGBA)
	if !ok {
		t.Fatalf("expected *image.RGBA, got %T", img)
	}
	return m.RGBAAt(x, y)
}

// imageBlock returns the offsets of sub-image i's image descriptor and of
// the end of its data.
func imageBlock(t *testing.T, data []byte, i int) (start, end int) {
	t.Helper()
	r := bytes.NewReader(data)
	if _, err := gif.NewDecoder(r).ReadHeader(); err != nil {
		t.Fatalf("ReadHeader failed: %v", err)
	}
	pos := len(data) - r.Len()
	for n := 0; ; pos = end {
		var isImage bool
		end, isImage = nextBlock(data, pos)
		if !isImage {
			if end >= len(data) {
				t.Fatalf("sub-image %d not found", i)
			}
			continue
		}
		if n == i {
			for data[pos] == sExtension {
				pos = skipSubBlocks(data, pos+2)
			}
			return pos, end
		}
		n++
	}
}

// corruptFrame makes sub-image i undecodable by writing an invalid LZW
// minimum code size.
func corruptFrame(t *testing.T, data []byte, i int) []byte {
	t.Helper()
	out := append([]byte(nil), data...)
	start, _ := imageBlock(t, out, i)
	off := start + 10
	if flags := out[start+9]; flags&fColorTable != 0 {
		off += 3 * (1 << (1 + uint(flags&fColorTableSize)))
	}
	out[off] = 0x0f
	return out
}

func TestOpen_NotGIF(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{name: "empty", data: nil, want: ErrNotGIF},
		{name: "png signature", data: []byte("\x89PNG\r\n\x1a\n0000000"), want: ErrNotGIF},
		{name: "truncated screen", data: []byte("GIF89a\x04\x00"), want: ErrTruncatedHeader},
		{name: "truncated color table", data: []byte("GIF89a\x04\x00\x04\x00\x80\x00\x00\x00\x00"), want: ErrTruncatedHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSource_CountSizeLoop(t *testing.T) {
	data := mocks.SolidGIF(0, 10, 20, 30)
	s, err := Open(data)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if s.Count() != 3 {
		t.Errorf("expected 3 sub-images, got %d", s.Count())
	}
	if w, h := s.Size(); w != 4 || h != 4 {
		t.Errorf("expected 4x4, got %dx%d", w, h)
	}
	if s.LoopCount() != 0 {
		t.Errorf("expected loop count 0, got %d", s.LoopCount())
	}

	once, err := Open(mocks.SolidGIF(-1, 10, 20))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if once.LoopCount() != -1 {
		t.Errorf("expected loop count -1 without loop extension, got %d", once.LoopCount())
	}
}

func TestSource_PropertiesAt(t *testing.T) {
	s, err := Open(mocks.SolidGIF(0, 7, 1, 0))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	tests := []struct {
		index     int
		unclamped time.Duration
		delay     time.Duration
	}{
		{index: 0, unclamped: 70 * time.Millisecond, delay: 70 * time.Millisecond},
		{index: 1, unclamped: 10 * time.Millisecond, delay: 100 * time.Millisecond},
		{index: 2, unclamped: 0, delay: 100 * time.Millisecond},
	}
	for _, tt := range tests {
		p := s.PropertiesAt(tt.index)
		if p.UnclampedDelay == nil || p.Delay == nil {
			t.Fatalf("frame %d: expected delay metadata", tt.index)
		}
		if *p.UnclampedDelay != tt.unclamped {
			t.Errorf("frame %d: expected unclamped %v, got %v", tt.index, tt.unclamped, *p.UnclampedDelay)
		}
		if *p.Delay != tt.delay {
			t.Errorf("frame %d: expected delay %v, got %v", tt.index, tt.delay, *p.Delay)
		}
	}

	if p := s.PropertiesAt(5); p.UnclampedDelay != nil || p.Delay != nil {
		t.Error("expected no metadata for out of range index")
	}
}

func TestSource_ImageAtDistinctHandles(t *testing.T) {
	s, err := Open(mocks.SolidGIF(0, 10, 10))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	a, err := s.ImageAt(0)
	if err != nil {
		t.Fatalf("ImageAt(0) failed: %v", err)
	}
	b, err := s.ImageAt(0)
	if err != nil {
		t.Fatalf("ImageAt(0) again failed: %v", err)
	}
	if a == b {
		t.Error("expected each call to return a distinct image")
	}
	if got := rgbaAt(t, a, 1, 1); got != red {
		t.Errorf("expected red, got %v", got)
	}
	c, err := s.ImageAt(1)
	if err != nil {
		t.Fatalf("ImageAt(1) failed: %v", err)
	}
	if got := rgbaAt(t, c, 1, 1); got != green {
		t.Errorf("expected green, got %v", got)
	}
	if _, err := s.ImageAt(2); err == nil {
		t.Error("expected error for out of range index")
	}
}

func TestSource_Compositing(t *testing.T) {
	data := mocks.EncodeGIF(4, 4, 0,
		mocks.GIFFrame{Index: 1, DelayCS: 10},
		mocks.GIFFrame{Rect: image.Rect(2, 2, 4, 4), Index: 3, DelayCS: 10},
	)
	s, err := Open(data)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	img, err := s.ImageAt(1)
	if err != nil {
		t.Fatalf("ImageAt failed: %v", err)
	}
	if got := rgbaAt(t, img, 0, 0); got != red {
		t.Errorf("expected previous frame to show through at (0,0), got %v", got)
	}
	if got := rgbaAt(t, img, 3, 3); got != blue {
		t.Errorf("expected blue at (3,3), got %v", got)
	}
}

func TestSource_DisposalBackground(t *testing.T) {
	data := mocks.EncodeGIF(4, 4, 0,
		mocks.GIFFrame{Index: 1, DelayCS: 10, Disposal: gif.DisposalBackground},
		mocks.GIFFrame{Rect: image.Rect(2, 2, 4, 4), Index: 3, DelayCS: 10},
	)
	s, err := Open(data)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	img, err := s.ImageAt(1)
	if err != nil {
		t.Fatalf("ImageAt failed: %v", err)
	}
	if got := rgbaAt(t, img, 0, 0); got != transparent {
		t.Errorf("expected cleared pixel at (0,0), got %v", got)
	}
	if got := rgbaAt(t, img, 3, 3); got != blue {
		t.Errorf("expected blue at (3,3), got %v", got)
	}
}

func TestSource_DisposalPrevious(t *testing.T) {
	data := mocks.EncodeGIF(4, 4, 0,
		mocks.GIFFrame{Index: 1, DelayCS: 10},
		mocks.GIFFrame{Rect: image.Rect(0, 0, 2, 2), Index: 2, DelayCS: 10, Disposal: gif.DisposalPrevious},
		mocks.GIFFrame{Rect: image.Rect(2, 2, 4, 4), Index: 3, DelayCS: 10},
	)
	s, err := Open(data)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	mid, err := s.ImageAt(1)
	if err != nil {
		t.Fatalf("ImageAt(1) failed: %v", err)
	}
	if got := rgbaAt(t, mid, 0, 0); got != green {
		t.Errorf("expected green at (0,0) in frame 1, got %v", got)
	}
	last, err := s.ImageAt(2)
	if err != nil {
		t.Fatalf("ImageAt(2) failed: %v", err)
	}
	if got := rgbaAt(t, last, 0, 0); got != red {
		t.Errorf("expected restored red at (0,0) in frame 2, got %v", got)
	}
}

func TestSource_CorruptFrameIsIsolated(t *testing.T) {
	data := corruptFrame(t, mocks.SolidGIF(0, 10, 10, 10), 1)
	s, err := Open(data)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if s.Count() != 3 {
		t.Fatalf("expected 3 sub-images, got %d", s.Count())
	}
	if _, err := s.ImageAt(0); err != nil {
		t.Errorf("frame 0: unexpected error: %v", err)
	}
	if _, err := s.ImageAt(1); err == nil {
		t.Error("frame 1: expected decode error")
	}
	img, err := s.ImageAt(2)
	if err != nil {
		t.Fatalf("frame 2: unexpected error: %v", err)
	}
	if got := rgbaAt(t, img, 0, 0); got != blue {
		t.Errorf("expected blue, got %v", got)
	}
}

func TestSource_TruncatedStream(t *testing.T) {
	data := mocks.SolidGIF(0, 10, 10)
	start, end := imageBlock(t, data, 1)
	// Cut inside the second frame's image block.
	s, err := Open(data[:(start+end)/2])
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if s.Count() != 2 {
		t.Fatalf("expected 2 sub-images, got %d", s.Count())
	}
	if _, err := s.ImageAt(0); err != nil {
		t.Errorf("frame 0: unexpected error: %v", err)
	}
	if _, err := s.ImageAt(1); err == nil {
		t.Error("frame 1: expected decode error for truncated data")
	}
}

func TestSource_FrameLargerThanScreen(t *testing.T) {
	data := mocks.EncodeGIF(3, 3, 0,
		mocks.GIFFrame{Rect: image.Rect(0, 0, 4, 4), Index: 1, DelayCS: 10},
		mocks.GIFFrame{Rect: image.Rect(0, 0, 4, 4), Index: 2, DelayCS: 10},
	)
	s, err := Open(data)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if s.Count() != 2 {
		t.Fatalf("expected 2 sub-images, got %d", s.Count())
	}
	for i, want := range []color.RGBA{red, green} {
		img, err := s.ImageAt(i)
		if err != nil {
			t.Fatalf("frame %d: unexpected error: %v", i, err)
		}
		if b := img.Bounds(); b != image.Rect(0, 0, 3, 3) {
			t.Errorf("frame %d: expected bounds cropped to the screen, got %v", i, b)
		}
		if got := rgbaAt(t, img, 2, 2); got != want {
			t.Errorf("frame %d: expected %v at (2,2), got %v", i, want, got)
		}
	}
}

func TestSource_AnimExtsLoopCount(t *testing.T) {
	data := bytes.Replace(mocks.SolidGIF(3, 10, 10), []byte("NETSCAPE2.0"), []byte("ANIMEXTS1.0"), 1)
	s, err := Open(data)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if s.LoopCount() != 3 {
		t.Errorf("expected loop count 3, got %d", s.LoopCount())
	}
	if s.Count() != 2 {
		t.Errorf("expected 2 sub-images, got %d", s.Count())
	}
}

func TestNextBlock(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		next    int
		isImage bool
	}{
		{name: "comment", data: []byte{0x21, 0xfe, 0x02, 'h', 'i', 0x00, 0x3b}, next: 6},
		{name: "graphic control then image", data: []byte{
			0x21, 0xf9, 0x04, 0x00, 0x0a, 0x00, 0x00, 0x00,
			0x2c, 0, 0, 0, 0, 1, 0, 1, 0, 0x00, 0x02, 0x02, 0x4c, 0x01, 0x00,
			0x3b,
		}, next: 23, isImage: true},
		{name: "cut descriptor", data: []byte{0x2c, 0, 0, 0}, next: 4, isImage: true},
		{name: "trailer", data: []byte{0x3b, 0x00}, next: 2},
		{name: "unknown introducer", data: []byte{0x00, 0x2c}, next: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, isImage := nextBlock(tt.data, 0)
			if next != tt.next || isImage != tt.isImage {
				t.Errorf("expected (%d, %v), got (%d, %v)", tt.next, tt.isImage, next, isImage)
			}
		})
	}
}

func TestSource_NoFrames(t *testing.T) {
	// Header, screen descriptor without color table, trailer.
	s, err := Open([]byte("GIF89a\x04\x00\x04\x00\x00\x00\x00\x3b"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if s.Count() != 0 {
		t.Errorf("expected no sub-images, got %d", s.Count())
	}
}

func TestOpener(t *testing.T) {
	src, err := NewOpener().Open(mocks.SolidGIF(0, 10))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if src.Count() != 1 {
		t.Errorf("expected 1 sub-image, got %d", src.Count())
	}
	if _, err := NewOpener().Open([]byte("nope")); !errors.Is(err, ErrNotGIF) {
		t.Errorf("expected ErrNotGIF, got %v", err)
	}
}

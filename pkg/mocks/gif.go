package mocks

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
)

// GIFPalette is the palette used by GIF fixtures. Index 0 is transparent.
var GIFPalette = color.Palette{
	color.RGBA{},
	color.RGBA{R: 0xff, A: 0xff},
	color.RGBA{G: 0xff, A: 0xff},
	color.RGBA{B: 0xff, A: 0xff},
	color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
}

// GIFFrame describes one frame of a GIF fixture.
type GIFFrame struct {
	Rect     image.Rectangle // zero means the full screen
	Index    uint8           // palette index filling the frame
	DelayCS  int
	Disposal byte
}

// EncodeGIF builds an animated GIF of the given screen size. Frame i is
// filled with palette index frames[i].Index.
func EncodeGIF(width, height, loopCount int, frames ...GIFFrame) []byte {
	g := &gif.GIF{
		LoopCount: loopCount,
		Config: image.Config{
			ColorModel: GIFPalette,
			Width:      width,
			Height:     height,
		},
	}
	for _, f := range frames {
		r := f.Rect
		if r.Empty() {
			r = image.Rect(0, 0, width, height)
		}
		m := image.NewPaletted(r, GIFPalette)
		for i := range m.Pix {
			m.Pix[i] = f.Index
		}
		g.Image = append(g.Image, m)
		g.Delay = append(g.Delay, f.DelayCS)
		g.Disposal = append(g.Disposal, f.Disposal)
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// SolidGIF builds a full-screen animated GIF with one frame per delay,
// cycling through the opaque palette colors.
func SolidGIF(loopCount int, delaysCS ...int) []byte {
	frames := make([]GIFFrame, len(delaysCS))
	for i, d := range delaysCS {
		frames[i] = GIFFrame{Index: uint8(1 + i%(len(GIFPalette)-1)), DelayCS: d}
	}
	return EncodeGIF(4, 4, loopCount, frames...)
}

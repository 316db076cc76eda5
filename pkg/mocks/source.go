package mocks

import (
	"fmt"
	"image"

	"github.com/user/gifplay/pkg/ports"
)

// ImageSource is a mock implementation of ports.ImageSource.
type ImageSource struct {
	Images []image.Image
	Props  []ports.FrameProperties
	Errs   map[int]error
	Width  int
	Height int
	Loop   int
}

func (m *ImageSource) Count() int {
	return len(m.Images)
}

func (m *ImageSource) ImageAt(i int) (image.Image, error) {
	if err, ok := m.Errs[i]; ok {
		return nil, err
	}
	if i < 0 || i >= len(m.Images) {
		return nil, fmt.Errorf("index %d out of range", i)
	}
	return m.Images[i], nil
}

func (m *ImageSource) PropertiesAt(i int) ports.FrameProperties {
	if i < 0 || i >= len(m.Props) {
		return ports.FrameProperties{}
	}
	return m.Props[i]
}

func (m *ImageSource) Size() (int, int) {
	return m.Width, m.Height
}

func (m *ImageSource) LoopCount() int {
	return m.Loop
}

// Opener returns a ports.SourceOpener that always yields m, or err when
// err is non-nil.
func (m *ImageSource) Opener(err error) ports.SourceOpener {
	return ports.SourceOpenerFunc(func(data []byte) (ports.ImageSource, error) {
		if err != nil {
			return nil, err
		}
		return m, nil
	})
}

var _ ports.ImageSource = (*ImageSource)(nil)

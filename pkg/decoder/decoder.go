// Package decoder turns raw container bytes into a frame.List.
package decoder

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/gifplay/pkg/frame"
	"github.com/user/gifplay/pkg/pipeline"
	"github.com/user/gifplay/pkg/ports"
)

// ErrUnreadableSource is returned when the bytes cannot be opened as a
// container at all. No frames are produced in that case.
var ErrUnreadableSource = errors.New("decoder: unreadable source")

// Decoder decodes containers into frame lists. A sub-image that fails to
// decode is logged and left out; it never fails the whole decode.
type Decoder struct {
	opener ports.SourceOpener
	logger ports.Logger
}

// New creates a new Decoder reading containers through opener.
func New(opener ports.SourceOpener, logger ports.Logger) *Decoder {
	return &Decoder{
		opener: opener,
		logger: logger.WithComponent("decoder"),
	}
}

// Decode returns the frames of data in container order. The result is
// empty, not nil, when the container holds no decodable sub-image.
func (d *Decoder) Decode(data []byte) (frame.List, error) {
	result, err := d.Execute(context.Background(), pipeline.DecodeInput{Data: data})
	if err != nil {
		return nil, err
	}
	return result.Frames, nil
}

// Execute implements pipeline.Stage. It stops early with ctx.Err() when
// ctx is cancelled between sub-images.
func (d *Decoder) Execute(ctx context.Context, input pipeline.DecodeInput) (pipeline.DecodeResult, error) {
	name := input.Name
	if name == "" {
		name = "<bytes>"
	}

	src, err := d.opener.Open(input.Data)
	if err != nil {
		d.logger.Warn("Cannot read %s: %s", name, err)
		return pipeline.DecodeResult{}, fmt.Errorf("%w: %w", ErrUnreadableSource, err)
	}

	n := src.Count()
	width, height := src.Size()
	result := pipeline.DecodeResult{
		Frames:    make(frame.List, 0, n),
		SubImages: n,
		Screen:    pipeline.Dimension{Width: width, Height: height},
		LoopCount: src.LoopCount(),
	}
	d.logger.Debug("Decoding %s: %d sub-images, %dx%d", name, n, width, height)

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return pipeline.DecodeResult{}, ctx.Err()
		default:
		}

		img, err := src.ImageAt(i)
		if err != nil {
			d.logger.Warn("Skipping frame %d of %s: %s", i, name, err)
			result.Skipped = append(result.Skipped, i)
			continue
		}

		props := src.PropertiesAt(i)
		if frame.IsThrottled(props.UnclampedDelay, props.Delay) {
			d.logger.Debug("Frame %d delay throttled to %s", i, frame.DefaultDuration)
			result.Throttled++
		}
		result.Frames = append(result.Frames, frame.Frame{
			Image:    img,
			Duration: frame.ResolveDuration(props.UnclampedDelay, props.Delay),
		})
	}

	d.logger.Debug("Decoded %d of %d frames", len(result.Frames), n)
	return result, nil
}

// Ensure Decoder implements pipeline.Stage
var _ pipeline.Stage[pipeline.DecodeInput, pipeline.DecodeResult] = (*Decoder)(nil)

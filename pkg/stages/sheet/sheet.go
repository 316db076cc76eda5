// Package sheet implements the contact sheet rendering stage.
package sheet

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync"
	"time"

	"github.com/user/gifplay/pkg/pipeline"
	"github.com/user/gifplay/pkg/ports"
)

// ErrLayoutMismatch is returned when the layout has fewer cells than there
// are frames.
var ErrLayoutMismatch = errors.New("sheet: layout has fewer cells than frames")

// Stage draws every frame of a list as a labelled thumbnail, followed by a
// timeline whose segments are proportional to frame durations.
type Stage struct {
	renderer   ports.Renderer
	logger     ports.Logger
	numWorkers int
}

// NewStage creates a new sheet stage. Thumbnails are scaled by numWorkers
// goroutines; zero or less uses one per CPU.
func NewStage(renderer ports.Renderer, logger ports.Logger, numWorkers int) *Stage {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Stage{
		renderer:   renderer,
		logger:     logger.WithComponent("sheet"),
		numWorkers: numWorkers,
	}
}

// Label returns the caption of frame i.
func Label(i int, d time.Duration) string {
	return fmt.Sprintf("#%d · %d ms", i, d.Milliseconds())
}

// fitLabel returns Label(i, d) when it fits in width, or just the frame
// number otherwise.
func fitLabel(canvas ports.Canvas, i int, d time.Duration, width int, style ports.TextStyle) string {
	label := Label(i, d)
	if w, _ := canvas.MeasureText(label, style); w <= float64(width) {
		return label
	}
	return fmt.Sprintf("#%d", i)
}

// Execute renders the sheet.
func (s *Stage) Execute(ctx context.Context, input pipeline.SheetInput) (pipeline.SheetResult, error) {
	if len(input.Layout.Cells) < len(input.Frames) {
		return pipeline.SheetResult{}, ErrLayoutMismatch
	}

	s.logger.Debug("Rendering sheet of %d frames with %d workers", len(input.Frames), s.numWorkers)

	thumbs, err := s.scaleParallel(ctx, input)
	if err != nil {
		return pipeline.SheetResult{}, err
	}

	theme := input.Theme
	canvas := s.renderer.CreateCanvas(input.Layout.Canvas.Width, input.Layout.Canvas.Height, theme.BackgroundColor)
	style := ports.TextStyle{
		FontSize: theme.FontSize,
		FontPath: theme.FontPath,
		Color:    theme.TextColor,
		Align:    ports.AlignCenter,
	}

	for i, f := range input.Frames {
		cell := input.Layout.Cells[i]
		canvas.DrawImage(thumbs[i], cell.X, cell.Y)
		canvas.DrawRectStroke(cell.X, cell.Y, cell.Width, cell.Height, theme.BorderColor, 1)
		if cell.Label.Height > 0 {
			canvas.DrawText(fitLabel(canvas, i, f.Duration, cell.Label.Width, style),
				cell.Label.X+cell.Label.Width/2, cell.Label.Y+cell.Label.Height/2, style)
		}
	}

	total := input.Frames.TotalDuration()
	if area := input.Layout.TimelineArea; area.Width > 0 && area.Height > 0 {
		drawTimeline(canvas, area, input.Frames.Durations(), theme)
	}

	return pipeline.SheetResult{
		Image:         canvas.ToImage(),
		TotalDuration: total,
	}, nil
}

// Segments splits width into one span per duration, proportional to the
// durations. The spans are contiguous and cover width exactly.
func Segments(width int, durations []time.Duration) []int {
	var total time.Duration
	for _, d := range durations {
		total += d
	}
	spans := make([]int, len(durations))
	if total <= 0 {
		return spans
	}

	var cum time.Duration
	prev := 0
	for i, d := range durations {
		cum += d
		next := int(int64(width) * int64(cum) / int64(total))
		spans[i] = next - prev
		prev = next
	}
	return spans
}

func drawTimeline(canvas ports.Canvas, area pipeline.Rectangle, durations []time.Duration, theme pipeline.SheetTheme) {
	canvas.DrawRectStroke(area.X, area.Y, area.Width, area.Height, theme.BorderColor, 1)
	if len(theme.TimelineColors) == 0 {
		return
	}
	x := area.X
	for i, w := range Segments(area.Width, durations) {
		if w > 0 {
			canvas.DrawRect(x, area.Y, w, area.Height, theme.TimelineColors[i%len(theme.TimelineColors)])
		}
		x += w
	}
}

// indexedThumb holds a thumbnail with its frame index.
type indexedThumb struct {
	index int
	image image.Image
}

// scaleParallel resizes every frame to its cell using a worker pool.
func (s *Stage) scaleParallel(ctx context.Context, input pipeline.SheetInput) ([]image.Image, error) {
	numFrames := len(input.Frames)
	jobs := make(chan int, numFrames)
	results := make(chan indexedThumb, numFrames)
	errChan := make(chan error, s.numWorkers)

	var wg sync.WaitGroup
	for w := 0; w < s.numWorkers; w++ {
		wg.Add(1)
		go s.worker(ctx, &wg, input, jobs, results, errChan)
	}

	for i := 0; i < numFrames; i++ {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
		close(errChan)
	}()

	thumbs := make([]image.Image, numFrames)
	done := 0
	for r := range results {
		thumbs[r.index] = r.image
		done++
	}

	if err := <-errChan; err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil && done < numFrames {
		return nil, err
	}
	return thumbs, nil
}

// worker scales frames from the jobs channel.
func (s *Stage) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	input pipeline.SheetInput,
	jobs <-chan int,
	results chan<- indexedThumb,
	errChan chan<- error,
) {
	defer wg.Done()

	for idx := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		img := input.Frames[idx].Image
		if img == nil {
			select {
			case errChan <- fmt.Errorf("scale frame %d: no image", idx):
			default:
			}
			return
		}

		cell := input.Layout.Cells[idx]
		results <- indexedThumb{
			index: idx,
			image: s.renderer.ResizeImage(img, cell.Width, cell.Height),
		}
	}
}

// Ensure Stage implements pipeline.Stage
var _ pipeline.Stage[pipeline.SheetInput, pipeline.SheetResult] = (*Stage)(nil)

package pipeline

import (
	"image"
	"image/color"
	"time"

	"github.com/user/gifplay/pkg/frame"
)

// =============================================================================
// Common Types
// =============================================================================

// Dimension represents width and height.
type Dimension struct {
	Width  int
	Height int
}

// Rectangle represents a rectangular area.
type Rectangle struct {
	X      int
	Y      int
	Width  int
	Height int
}

// =============================================================================
// Decode Stage Types
// =============================================================================

// DecodeInput contains the raw container bytes to decode.
type DecodeInput struct {
	Data []byte
	Name string // Source name used in log messages
}

// DecodeResult contains the decoded frames and decode statistics.
type DecodeResult struct {
	Frames frame.List

	// SubImages is the number of sub-images found in the container.
	SubImages int

	// Skipped lists the indices of sub-images that failed to decode.
	Skipped []int

	// Throttled counts frames whose authored delay was replaced by
	// frame.DefaultDuration.
	Throttled int

	// Screen is the logical screen size.
	Screen Dimension

	// LoopCount is the container's repeat setting (see ports.ImageSource).
	LoopCount int
}

// =============================================================================
// Layout Stage Types
// =============================================================================

// LayoutInput contains parameters for the contact sheet grid.
type LayoutInput struct {
	Frames         int       // Number of cells
	Screen         Dimension // Logical screen size of the animation
	Columns        int       // Number of columns (default: 4)
	CellWidth      int       // Thumbnail width (default: 160)
	Gap            int       // Gap between cells (default: 12)
	Padding        int       // Padding around the sheet (default: 20)
	LabelHeight    int       // Height of the caption under each cell (default: 20)
	TimelineHeight int       // Height of the duration timeline (default: 16)
}

// DefaultLayoutInput returns LayoutInput with default values.
func DefaultLayoutInput() LayoutInput {
	return LayoutInput{
		Columns:        4,
		CellWidth:      160,
		Gap:            12,
		Padding:        20,
		LabelHeight:    20,
		TimelineHeight: 16,
	}
}

// LayoutResult contains the calculated sheet dimensions and positions.
type LayoutResult struct {
	// Canvas is the total sheet size.
	Canvas Dimension

	// Cells contains the thumbnail rectangles in frame order.
	Cells []Cell

	// TimelineArea is the rectangle for the duration timeline.
	TimelineArea Rectangle
}

// Cell is one thumbnail slot with its caption area.
type Cell struct {
	Rectangle
	Label Rectangle
}

// =============================================================================
// Sheet Stage Types
// =============================================================================

// SheetInput contains parameters for contact sheet rendering.
type SheetInput struct {
	Frames frame.List
	Layout LayoutResult
	Theme  SheetTheme
}

// SheetTheme defines contact sheet styling.
type SheetTheme struct {
	BackgroundColor color.Color
	BorderColor     color.Color
	TextColor       color.Color
	TimelineColors  []color.Color
	FontSize        float64
	FontPath        string
}

// DefaultSheetTheme returns a default contact sheet theme.
func DefaultSheetTheme() SheetTheme {
	return SheetTheme{
		BackgroundColor: color.RGBA{R: 30, G: 30, B: 30, A: 255},
		BorderColor:     color.RGBA{R: 80, G: 80, B: 80, A: 255},
		TextColor:       color.RGBA{R: 220, G: 220, B: 220, A: 255},
		TimelineColors: []color.Color{
			color.RGBA{R: 76, G: 175, B: 80, A: 255},
			color.RGBA{R: 100, G: 180, B: 255, A: 255},
		},
		FontSize: 12,
	}
}

// SheetResult contains the rendered contact sheet.
type SheetResult struct {
	Image         image.Image
	TotalDuration time.Duration
}

// Package layout implements the contact sheet layout stage.
package layout

import (
	"context"
	"errors"

	"github.com/user/gifplay/pkg/pipeline"
)

// ErrInvalidLayout is returned for non-positive columns or cell width.
var ErrInvalidLayout = errors.New("layout: columns and cell width must be positive")

// Stage calculates the grid of a contact sheet.
// This is a pure function with no external dependencies.
type Stage struct{}

// NewStage creates a new layout stage.
func NewStage() *Stage {
	return &Stage{}
}

// Execute calculates the layout based on the input parameters.
func (s *Stage) Execute(ctx context.Context, input pipeline.LayoutInput) (pipeline.LayoutResult, error) {
	if input.Columns <= 0 || input.CellWidth <= 0 {
		return pipeline.LayoutResult{}, ErrInvalidLayout
	}
	return ComputeLayout(input), nil
}

// ComputeLayout places input.Frames cells row by row. Cells keep the aspect
// ratio of the logical screen and have a caption strip below them. The
// timeline, if any, spans the content width under the grid.
func ComputeLayout(input pipeline.LayoutInput) pipeline.LayoutResult {
	columns := input.Columns
	if input.Frames < columns {
		columns = input.Frames
	}
	if columns < 1 {
		columns = 1
	}
	rows := (input.Frames + columns - 1) / columns

	cellHeight := input.CellWidth
	if input.Screen.Width > 0 && input.Screen.Height > 0 {
		cellHeight = (input.CellWidth*input.Screen.Height + input.Screen.Width/2) / input.Screen.Width
		if cellHeight < 1 {
			cellHeight = 1
		}
	}
	rowHeight := cellHeight + input.LabelHeight

	cells := make([]pipeline.Cell, input.Frames)
	for i := range cells {
		col, row := i%columns, i/columns
		x := input.Padding + col*(input.CellWidth+input.Gap)
		y := input.Padding + row*(rowHeight+input.Gap)
		cells[i] = pipeline.Cell{
			Rectangle: pipeline.Rectangle{X: x, Y: y, Width: input.CellWidth, Height: cellHeight},
			Label:     pipeline.Rectangle{X: x, Y: y + cellHeight, Width: input.CellWidth, Height: input.LabelHeight},
		}
	}

	contentWidth := columns*input.CellWidth + (columns-1)*input.Gap
	contentHeight := 0
	if rows > 0 {
		contentHeight = rows*rowHeight + (rows-1)*input.Gap
	}

	var timeline pipeline.Rectangle
	if input.TimelineHeight > 0 {
		if contentHeight > 0 {
			contentHeight += input.Gap
		}
		timeline = pipeline.Rectangle{
			X:      input.Padding,
			Y:      input.Padding + contentHeight,
			Width:  contentWidth,
			Height: input.TimelineHeight,
		}
		contentHeight += input.TimelineHeight
	}

	return pipeline.LayoutResult{
		Canvas: pipeline.Dimension{
			Width:  contentWidth + input.Padding*2,
			Height: contentHeight + input.Padding*2,
		},
		Cells:        cells,
		TimelineArea: timeline,
	}
}

// Ensure Stage implements pipeline.Stage
var _ pipeline.Stage[pipeline.LayoutInput, pipeline.LayoutResult] = (*Stage)(nil)

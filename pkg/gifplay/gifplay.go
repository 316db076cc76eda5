// Package gifplay provides a high-level API for decoding, playing and
// inspecting animated GIFs.
package gifplay

import (
	"context"
	"fmt"

	"github.com/user/gifplay/pkg/adapters/filesink"
	"github.com/user/gifplay/pkg/adapters/ggrenderer"
	"github.com/user/gifplay/pkg/adapters/gifsource"
	"github.com/user/gifplay/pkg/adapters/nullsink"
	"github.com/user/gifplay/pkg/config"
	"github.com/user/gifplay/pkg/decoder"
	"github.com/user/gifplay/pkg/orchestrator"
	"github.com/user/gifplay/pkg/pipeline"
	"github.com/user/gifplay/pkg/ports"
	"github.com/user/gifplay/pkg/stages/layout"
	"github.com/user/gifplay/pkg/stages/sheet"
)

// NewDecoder returns a decoder reading GIF containers.
func NewDecoder(logger ports.Logger) *decoder.Decoder {
	return decoder.New(gifsource.NewOpener(), logger)
}

// NewSink returns the display sink for cfg: a PNG writer when an output
// directory is set, otherwise a sink that discards frames.
func NewSink(cfg config.Config, fs ports.FileSystem, logger ports.Logger) ports.DisplaySink {
	if cfg.OutputDir == "" {
		return nullsink.New()
	}
	return filesink.New(cfg.OutputDir, fs, ggrenderer.New(),
		filesink.WithMaxWidth(cfg.MaxWidth),
		filesink.WithLogger(logger),
	)
}

// NewOrchestrator wires a GIF decoder, fs and sink into an orchestrator.
func NewOrchestrator(fs ports.FileSystem, sink ports.DisplaySink, logger ports.Logger, opts ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(NewDecoder(logger), fs, sink, logger, opts...)
}

// RenderSheet lays out decoded frames on a grid and renders the contact
// sheet with the ggrenderer canvas.
func RenderSheet(ctx context.Context, decoded pipeline.DecodeResult, cfg config.SheetConfig, logger ports.Logger) (pipeline.SheetResult, error) {
	grid, err := layout.NewStage().Execute(ctx, cfg.ToLayoutInput(len(decoded.Frames), decoded.Screen))
	if err != nil {
		return pipeline.SheetResult{}, fmt.Errorf("layout stage: %w", err)
	}

	result, err := sheet.NewStage(ggrenderer.New(), logger, cfg.Workers).Execute(ctx, pipeline.SheetInput{
		Frames: decoded.Frames,
		Layout: grid,
		Theme:  cfg.ToSheetTheme(),
	})
	if err != nil {
		return pipeline.SheetResult{}, fmt.Errorf("sheet stage: %w", err)
	}
	return result, nil
}

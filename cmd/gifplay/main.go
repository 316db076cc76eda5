// Package main provides the CLI entry point for gifplay.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"

	"github.com/user/gifplay/pkg/adapters/filesink"
	"github.com/user/gifplay/pkg/adapters/ggrenderer"
	"github.com/user/gifplay/pkg/adapters/logger"
	"github.com/user/gifplay/pkg/adapters/osfilesystem"
	"github.com/user/gifplay/pkg/config"
	"github.com/user/gifplay/pkg/gifplay"
	"github.com/user/gifplay/pkg/orchestrator"
	"github.com/user/gifplay/pkg/ports"
	"github.com/user/gifplay/pkg/stages/sheet"
	"github.com/user/gifplay/pkg/summarizer"
)

// Globals are flags shared by every subcommand.
type Globals struct {
	Config   string `short:"c" type:"existingfile" help:"YAML config file with default settings."`
	LogLevel string `short:"l" help:"Log level (debug, info, warn, error)."`
	Quiet    bool   `short:"Q" help:"Suppress all log output."`
}

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Globals

	Play    PlayCmd    `cmd:"" help:"Play a GIF against its frame timing."`
	Info    InfoCmd    `cmd:"" help:"Show the decoded frames of a GIF."`
	Sheet   SheetCmd   `cmd:"" help:"Render a contact sheet of every frame."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// PlayCmd defines the play subcommand.
type PlayCmd struct {
	Input string `arg:"" type:"existingfile" help:"GIF file to play."`

	// Playback options (override config)
	Loop        bool          `help:"Wrap around after the last frame."`
	FPS         *float64      `name:"fps" help:"Clock rate in ticks per second (default: 60)."`
	KeepLast    bool          `help:"Leave the last frame displayed when playback ends."`
	MaxDuration time.Duration `help:"Stop after this long (e.g. 10s)."`
	OutroMs     *int          `help:"Hold the last frame of a non-looping GIF in milliseconds."`

	// Reload
	Watch bool `short:"w" help:"Reload when the file changes."`

	// Output
	Out      *string `short:"o" help:"Directory to write every displayed frame as PNG."`
	MaxWidth *int    `help:"Downscale written frames wider than this."`
	Summary  *string `short:"s" help:"Output playback summary to file (Markdown format)."`
}

// InfoCmd defines the info subcommand.
type InfoCmd struct {
	Input string `arg:"" type:"existingfile" help:"GIF file to inspect."`
}

// SheetCmd defines the sheet subcommand.
type SheetCmd struct {
	Input  string `arg:"" type:"existingfile" help:"GIF file to render."`
	Output string `short:"o" required:"" help:"Output file path (.png, or .jpg/.jpeg for JPEG)."`

	Columns   *int    `help:"Number of columns (min: 1)."`
	CellWidth *int    `help:"Thumbnail width in pixels."`
	Workers   *int    `help:"Number of thumbnail workers (default: one per CPU)."`
	FontPath  *string `help:"TrueType font for frame labels."`
}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("gifplay"),
		kong.Description("Decode animated GIFs and play them with per-frame timing."),
		kong.UsageOnError(),
	)

	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// load returns the file config, or the defaults when no file is given.
func (g *Globals) load() (config.Config, error) {
	if g.Config == "" {
		return config.Defaults(), nil
	}
	cfg, err := config.LoadFromFile(g.Config)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// logger creates the console logger. Flags take precedence over the config.
func (g *Globals) logger(cfg config.Config) ports.Logger {
	if g.Quiet {
		return logger.NewNoop()
	}
	level := cfg.LogLevel
	if g.LogLevel != "" {
		level = g.LogLevel
	}
	return logger.NewConsole(ports.ParseLogLevel(level))
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(log ports.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// Run executes the play command.
func (cmd *PlayCmd) Run(g *Globals) error {
	base, err := g.load()
	if err != nil {
		return err
	}
	cfg := cmd.buildConfig(base)
	log := g.logger(cfg)

	ctx, cancel := signalContext(log)
	defer cancel()

	// Create adapters
	fs := osfilesystem.New()
	sink := gifplay.NewSink(cfg, fs, log)
	orch := gifplay.NewOrchestrator(fs, sink, log)

	result, err := orch.Run(ctx, cfg.ToOrchestratorConfig(cmd.Input))
	if err != nil {
		return err
	}

	if fsink, ok := sink.(*filesink.Sink); ok {
		if err := fsink.Err(); err != nil {
			log.Error("Failed to write output: %s", err)
			return fmt.Errorf("write frames: %w", err)
		}
	}

	if cfg.SummaryPath != "" {
		if err := writeSummary(fs, cmd.Input, cfg, result); err != nil {
			log.Error("Failed to write summary: %s", err)
			return err
		}
		log.Info("Summary saved to %s", cfg.SummaryPath)
	}

	return nil
}

// buildConfig applies flag overrides on top of the file config.
func (cmd *PlayCmd) buildConfig(base config.Config) config.Config {
	builder := gifplay.NewConfigBuilderFrom(base)

	if cmd.Loop {
		builder.WithLoop(true)
	}
	if cmd.FPS != nil {
		builder.WithFPS(*cmd.FPS)
	}
	if cmd.KeepLast {
		builder.WithKeepLast(true)
	}
	if cmd.MaxDuration > 0 {
		builder.WithMaxDuration(cmd.MaxDuration)
	}
	if cmd.OutroMs != nil {
		builder.WithOutroMs(*cmd.OutroMs)
	}
	if cmd.Watch {
		builder.WithWatch(true)
	}
	if cmd.Out != nil {
		builder.WithOutputDir(*cmd.Out)
	}
	if cmd.MaxWidth != nil {
		builder.WithMaxWidth(*cmd.MaxWidth)
	}
	if cmd.Summary != nil {
		builder.WithSummaryPath(*cmd.Summary)
	}

	return builder.Build()
}

func writeSummary(fs ports.FileSystem, input string, cfg config.Config, result orchestrator.RunResult) error {
	builder := summarizer.NewBuilder().WithRun(result)
	if info, err := os.Stat(input); err == nil {
		builder.WithFileSize(info.Size())
	}
	builder.WithSettings(summarizer.Settings{
		Loop:        cfg.Loop,
		FPS:         cfg.FPS,
		KeepLast:    cfg.KeepLast,
		MaxDuration: time.Duration(cfg.MaxDurationMs) * time.Millisecond,
		OutroMs:     cfg.OutroMs,
		Watch:       cfg.Watch,
		Output:      cfg.OutputDir,
	})

	formatter := summarizer.NewMarkdownFormatter(
		summarizer.WithTranslator(l10n.T),
		summarizer.WithVersion(version),
	)
	return summarizer.NewWriter(formatter, fs).Write(cfg.SummaryPath, builder.Build())
}

// Run executes the info command.
func (cmd *InfoCmd) Run(g *Globals) error {
	base, err := g.load()
	if err != nil {
		return err
	}
	log := g.logger(base)

	orch := gifplay.NewOrchestrator(osfilesystem.New(), nil, log)
	decoded, err := orch.Decode(context.Background(), orchestrator.Config{InputPath: cmd.Input})
	if err != nil {
		return err
	}

	fmt.Println(l10n.F("%s: %dx%d, %d sub-images, %d frames", cmd.Input,
		decoded.Screen.Width, decoded.Screen.Height, decoded.SubImages, len(decoded.Frames)))
	fmt.Println(l10n.F("Repeat: %s", repeatLabel(decoded.LoopCount)))
	for i, f := range decoded.Frames {
		fmt.Println(sheet.Label(i, f.Duration))
	}
	fmt.Println(l10n.F("Total: %d ms", decoded.Frames.TotalDuration().Milliseconds()))
	if len(decoded.Skipped) > 0 {
		fmt.Println(l10n.F("Skipped sub-images: %v", decoded.Skipped))
	}
	if decoded.Throttled > 0 {
		fmt.Println(l10n.F("Throttled delays: %d", decoded.Throttled))
	}
	return nil
}

func repeatLabel(loopCount int) string {
	switch {
	case loopCount == 0:
		return l10n.T("forever")
	case loopCount < 0:
		return l10n.T("once")
	default:
		return l10n.F("%d times", loopCount)
	}
}

// Run executes the sheet command.
func (cmd *SheetCmd) Run(g *Globals) error {
	base, err := g.load()
	if err != nil {
		return err
	}
	cfg := cmd.buildConfig(base)
	log := g.logger(cfg)

	ctx, cancel := signalContext(log)
	defer cancel()

	fs := osfilesystem.New()
	orch := gifplay.NewOrchestrator(fs, nil, log)
	decoded, err := orch.Decode(ctx, orchestrator.Config{InputPath: cmd.Input})
	if err != nil {
		return err
	}

	result, err := gifplay.RenderSheet(ctx, decoded, cfg.Sheet, log)
	if err != nil {
		return err
	}

	format, quality := imageFormat(cmd.Output)
	data, err := ggrenderer.New().EncodeImage(result.Image, format, quality)
	if err != nil {
		return fmt.Errorf("encode sheet: %w", err)
	}
	if err := fs.WriteFile(cmd.Output, data); err != nil {
		log.Error("Failed to write output: %s", err)
		return fmt.Errorf("write sheet: %w", err)
	}

	log.Info("Contact sheet saved to %s", cmd.Output)
	return nil
}

// imageFormat picks the sheet encoding from the output extension. Anything
// other than JPEG is written as PNG.
func imageFormat(path string) (ports.ImageFormat, int) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return ports.FormatJPEG, 90
	default:
		return ports.FormatPNG, 0
	}
}

// buildConfig applies flag overrides on top of the file config.
func (cmd *SheetCmd) buildConfig(base config.Config) config.Config {
	builder := gifplay.NewConfigBuilderFrom(base)

	if cmd.Columns != nil {
		builder.WithColumns(*cmd.Columns)
	}
	if cmd.CellWidth != nil {
		builder.WithCellWidth(*cmd.CellWidth)
	}
	if cmd.Workers != nil {
		builder.WithWorkers(*cmd.Workers)
	}
	if cmd.FontPath != nil {
		builder.WithFontPath(*cmd.FontPath)
	}

	return builder.Build()
}

// Run executes the version command.
func (cmd *VersionCmd) Run() error {
	fmt.Println(l10n.F("gifplay version %s", version))
	return nil
}

package gifplay

import (
	"time"

	"github.com/user/gifplay/pkg/config"
)

// Limits applied by ConfigBuilder.Build.
const (
	MaxFPS       = 240
	MinCellWidth = 16
)

// ConfigBuilder provides a fluent interface for building a config.Config.
type ConfigBuilder struct {
	config config.Config
}

// NewConfigBuilder creates a new ConfigBuilder with default values.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		config: config.Defaults(),
	}
}

// NewConfigBuilderFrom creates a new ConfigBuilder starting from base,
// typically loaded with config.LoadFromFile.
func NewConfigBuilderFrom(base config.Config) *ConfigBuilder {
	return &ConfigBuilder{
		config: base,
	}
}

// Build returns the final Config, applying validation and constraints.
func (b *ConfigBuilder) Build() config.Config {
	cfg := b.config

	// Clock rate falls back to 60 Hz and is capped
	if cfg.FPS <= 0 {
		cfg.FPS = 60
	}
	if cfg.FPS > MaxFPS {
		cfg.FPS = MaxFPS
	}

	if cfg.MaxDurationMs < 0 {
		cfg.MaxDurationMs = 0
	}
	if cfg.OutroMs < 0 {
		cfg.OutroMs = 0
	}
	if cfg.DebounceMs < 0 {
		cfg.DebounceMs = 0
	}
	if cfg.MaxWidth < 0 {
		cfg.MaxWidth = 0
	}

	if cfg.Sheet.Columns < 1 {
		cfg.Sheet.Columns = 1
	}
	if cfg.Sheet.CellWidth < MinCellWidth {
		cfg.Sheet.CellWidth = MinCellWidth
	}

	return cfg
}

// WithLoop sets whether playback wraps around after the last frame.
func (b *ConfigBuilder) WithLoop(loop bool) *ConfigBuilder {
	b.config.Loop = loop
	return b
}

// WithFPS sets the clock rate. Values of zero or less use 60.
func (b *ConfigBuilder) WithFPS(fps float64) *ConfigBuilder {
	b.config.FPS = fps
	return b
}

// WithKeepLast leaves the last frame displayed when the session ends.
func (b *ConfigBuilder) WithKeepLast(keep bool) *ConfigBuilder {
	b.config.KeepLast = keep
	return b
}

// WithMaxDuration ends the session after d. Zero means no limit.
func (b *ConfigBuilder) WithMaxDuration(d time.Duration) *ConfigBuilder {
	b.config.MaxDurationMs = int(d.Milliseconds())
	return b
}

// WithOutroMs sets how long the last frame of a non-looping animation is
// held before the session ends.
func (b *ConfigBuilder) WithOutroMs(ms int) *ConfigBuilder {
	b.config.OutroMs = ms
	return b
}

// WithWatch enables reloading when the input file changes.
func (b *ConfigBuilder) WithWatch(watch bool) *ConfigBuilder {
	b.config.Watch = watch
	return b
}

// WithDebounce sets how long file events settle before a reload.
func (b *ConfigBuilder) WithDebounce(d time.Duration) *ConfigBuilder {
	b.config.DebounceMs = int(d.Milliseconds())
	return b
}

// WithOutputDir writes every displayed frame as a PNG into dir.
func (b *ConfigBuilder) WithOutputDir(dir string) *ConfigBuilder {
	b.config.OutputDir = dir
	return b
}

// WithMaxWidth downscales written frames wider than width.
func (b *ConfigBuilder) WithMaxWidth(width int) *ConfigBuilder {
	b.config.MaxWidth = width
	return b
}

// WithSummaryPath writes a Markdown summary to path.
func (b *ConfigBuilder) WithSummaryPath(path string) *ConfigBuilder {
	b.config.SummaryPath = path
	return b
}

// WithColumns sets the number of contact sheet columns.
// Values below 1 will be forced to 1.
func (b *ConfigBuilder) WithColumns(columns int) *ConfigBuilder {
	b.config.Sheet.Columns = columns
	return b
}

// WithCellWidth sets the contact sheet thumbnail width.
func (b *ConfigBuilder) WithCellWidth(width int) *ConfigBuilder {
	b.config.Sheet.CellWidth = width
	return b
}

// WithWorkers sets the number of thumbnail workers. Zero uses one per CPU.
func (b *ConfigBuilder) WithWorkers(workers int) *ConfigBuilder {
	b.config.Sheet.Workers = workers
	return b
}

// WithFontPath sets the TrueType font used for sheet labels.
func (b *ConfigBuilder) WithFontPath(path string) *ConfigBuilder {
	b.config.Sheet.FontPath = path
	return b
}

// WithLogLevel sets the log level name.
func (b *ConfigBuilder) WithLogLevel(level string) *ConfigBuilder {
	b.config.LogLevel = level
	return b
}

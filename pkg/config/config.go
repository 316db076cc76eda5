// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"image/color"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/user/gifplay/pkg/orchestrator"
	"github.com/user/gifplay/pkg/pipeline"
)

// Config represents the full configuration for gifplay.
type Config struct {
	// Playback
	Loop          bool    `yaml:"loop"`
	FPS           float64 `yaml:"fps"`
	KeepLast      bool    `yaml:"keep_last"`
	MaxDurationMs int     `yaml:"max_duration_ms"`
	OutroMs       int     `yaml:"outro_ms"`

	// Reload
	Watch      bool `yaml:"watch"`
	DebounceMs int  `yaml:"debounce_ms"`

	// Output
	OutputDir   string `yaml:"output"`
	MaxWidth    int    `yaml:"max_width"`
	SummaryPath string `yaml:"summary"`

	// Contact sheet
	Sheet SheetConfig `yaml:"sheet"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

// SheetConfig represents contact sheet layout and styling.
type SheetConfig struct {
	Columns        int         `yaml:"columns"`
	CellWidth      int         `yaml:"cell_width"`
	Gap            int         `yaml:"gap"`
	Padding        int         `yaml:"padding"`
	LabelHeight    int         `yaml:"label_height"`
	TimelineHeight int         `yaml:"timeline_height"`
	Workers        int         `yaml:"workers"`
	FontPath       string      `yaml:"font_path"`
	FontSize       float64     `yaml:"font_size"`
	Theme          ThemeConfig `yaml:"theme"`
}

// ThemeConfig represents theming options.
type ThemeConfig struct {
	BackgroundColor string   `yaml:"background_color"`
	BorderColor     string   `yaml:"border_color"`
	TextColor       string   `yaml:"text_color"`
	TimelineColors  []string `yaml:"timeline_colors"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	layout := pipeline.DefaultLayoutInput()
	return Config{
		// Playback
		FPS: 60,

		// Reload
		DebounceMs: 50,

		// Contact sheet
		Sheet: SheetConfig{
			Columns:        layout.Columns,
			CellWidth:      layout.CellWidth,
			Gap:            layout.Gap,
			Padding:        layout.Padding,
			LabelHeight:    layout.LabelHeight,
			TimelineHeight: layout.TimelineHeight,
			FontSize:       12,
			Theme: ThemeConfig{
				BackgroundColor: "#1e1e1e",
				BorderColor:     "#505050",
				TextColor:       "#dcdcdc",
				TimelineColors:  []string{"#4caf50", "#64b4ff"},
			},
		},

		LogLevel: "info",
	}
}

// LoadFromFile loads configuration from a YAML file. Keys missing from the
// file keep their default values.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// ParseColor parses a "#rrggbb" hex color string. Malformed input yields
// black.
func ParseColor(hex string) color.Color {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 {
		return color.Black
	}
	return color.RGBA{
		R: hexByte(hex[0], hex[1]),
		G: hexByte(hex[2], hex[3]),
		B: hexByte(hex[4], hex[5]),
		A: 255,
	}
}

func hexByte(hi, lo byte) uint8 {
	return hexValue(hi)<<4 | hexValue(lo)
}

func hexValue(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}

// ToOrchestratorConfig converts Config to orchestrator.Config for input.
func (c Config) ToOrchestratorConfig(input string) orchestrator.Config {
	return orchestrator.Config{
		InputPath:   input,
		Loop:        c.Loop,
		FPS:         c.FPS,
		KeepLast:    c.KeepLast,
		MaxDuration: time.Duration(c.MaxDurationMs) * time.Millisecond,
		OutroMs:     c.OutroMs,
		Watch:       c.Watch,
		Debounce:    time.Duration(c.DebounceMs) * time.Millisecond,
	}
}

// ToLayoutInput converts the sheet settings to a layout stage input.
func (s SheetConfig) ToLayoutInput(frames int, screen pipeline.Dimension) pipeline.LayoutInput {
	return pipeline.LayoutInput{
		Frames:         frames,
		Screen:         screen,
		Columns:        s.Columns,
		CellWidth:      s.CellWidth,
		Gap:            s.Gap,
		Padding:        s.Padding,
		LabelHeight:    s.LabelHeight,
		TimelineHeight: s.TimelineHeight,
	}
}

// ToSheetTheme converts the theme settings to a sheet stage theme.
func (s SheetConfig) ToSheetTheme() pipeline.SheetTheme {
	theme := pipeline.DefaultSheetTheme()
	if s.Theme.BackgroundColor != "" {
		theme.BackgroundColor = ParseColor(s.Theme.BackgroundColor)
	}
	if s.Theme.BorderColor != "" {
		theme.BorderColor = ParseColor(s.Theme.BorderColor)
	}
	if s.Theme.TextColor != "" {
		theme.TextColor = ParseColor(s.Theme.TextColor)
	}
	if len(s.Theme.TimelineColors) > 0 {
		colors := make([]color.Color, len(s.Theme.TimelineColors))
		for i, hex := range s.Theme.TimelineColors {
			colors[i] = ParseColor(hex)
		}
		theme.TimelineColors = colors
	}
	if s.FontSize > 0 {
		theme.FontSize = s.FontSize
	}
	theme.FontPath = s.FontPath
	return theme
}

package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/user/gifplay/pkg/orchestrator"
	"github.com/user/gifplay/pkg/pipeline"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gifplay.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.FPS != 60 {
		t.Errorf("expected FPS 60, got %v", cfg.FPS)
	}
	if cfg.DebounceMs != 50 {
		t.Errorf("expected DebounceMs 50, got %d", cfg.DebounceMs)
	}
	if cfg.Loop {
		t.Error("expected Loop to default to false")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected log level info, got %q", cfg.LogLevel)
	}
	if cfg.Sheet.Columns != 4 || cfg.Sheet.CellWidth != 160 {
		t.Errorf("unexpected sheet defaults: %+v", cfg.Sheet)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
loop: true
fps: 30
max_duration_ms: 5000
watch: true
output: frames
sheet:
  columns: 6
  theme:
    timeline_colors: ["#ff0000"]
`)

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if !cfg.Loop {
		t.Error("expected loop true")
	}
	if cfg.FPS != 30 {
		t.Errorf("expected FPS 30, got %v", cfg.FPS)
	}
	if cfg.MaxDurationMs != 5000 {
		t.Errorf("expected max duration 5000, got %d", cfg.MaxDurationMs)
	}
	if cfg.OutputDir != "frames" {
		t.Errorf("expected output 'frames', got %q", cfg.OutputDir)
	}
	if cfg.Sheet.Columns != 6 {
		t.Errorf("expected 6 columns, got %d", cfg.Sheet.Columns)
	}
	if diff := cmp.Diff([]string{"#ff0000"}, cfg.Sheet.Theme.TimelineColors); diff != "" {
		t.Errorf("timeline colors mismatch (-want +got):\n%s", diff)
	}

	// Keys absent from the file keep their defaults
	if cfg.DebounceMs != 50 {
		t.Errorf("expected default debounce, got %d", cfg.DebounceMs)
	}
	if cfg.Sheet.CellWidth != 160 {
		t.Errorf("expected default cell width, got %d", cfg.Sheet.CellWidth)
	}
	if cfg.Sheet.Theme.BorderColor != "#505050" {
		t.Errorf("expected default border color, got %q", cfg.Sheet.Theme.BorderColor)
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoadFromFile_Invalid(t *testing.T) {
	path := writeConfig(t, "fps: [not a number\n")

	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.Color
	}{
		{"#ff8000", color.RGBA{R: 255, G: 128, B: 0, A: 255}},
		{"1E1E1E", color.RGBA{R: 30, G: 30, B: 30, A: 255}},
		{"#abc", color.Black},
		{"", color.Black},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseColor(tt.in)
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestToOrchestratorConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Loop = true
	cfg.KeepLast = true
	cfg.MaxDurationMs = 1500
	cfg.OutroMs = 250
	cfg.Watch = true

	got := cfg.ToOrchestratorConfig("anim.gif")
	want := orchestrator.Config{
		InputPath:   "anim.gif",
		Loop:        true,
		FPS:         60,
		KeepLast:    true,
		MaxDuration: 1500 * time.Millisecond,
		OutroMs:     250,
		Watch:       true,
		Debounce:    50 * time.Millisecond,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestSheetConfig_ToLayoutInput(t *testing.T) {
	screen := pipeline.Dimension{Width: 320, Height: 240}
	got := Defaults().Sheet.ToLayoutInput(7, screen)

	want := pipeline.DefaultLayoutInput()
	want.Frames = 7
	want.Screen = screen
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("layout input mismatch (-want +got):\n%s", diff)
	}
}

func TestSheetConfig_ToSheetTheme(t *testing.T) {
	sheet := Defaults().Sheet
	sheet.Theme.TimelineColors = []string{"#ff0000", "#00ff00", "#0000ff"}
	sheet.FontPath = "/fonts/label.ttf"
	sheet.FontSize = 14

	theme := sheet.ToSheetTheme()

	if theme.BackgroundColor != (color.RGBA{R: 30, G: 30, B: 30, A: 255}) {
		t.Errorf("unexpected background %v", theme.BackgroundColor)
	}
	if len(theme.TimelineColors) != 3 {
		t.Fatalf("expected 3 timeline colors, got %d", len(theme.TimelineColors))
	}
	if theme.TimelineColors[1] != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("unexpected timeline color %v", theme.TimelineColors[1])
	}
	if theme.FontPath != "/fonts/label.ttf" || theme.FontSize != 14 {
		t.Errorf("unexpected font settings %q %v", theme.FontPath, theme.FontSize)
	}
}

func TestSheetConfig_ToSheetThemeEmptyKeepsDefaults(t *testing.T) {
	theme := SheetConfig{}.ToSheetTheme()
	def := pipeline.DefaultSheetTheme()

	if theme.TextColor != def.TextColor {
		t.Errorf("expected default text color, got %v", theme.TextColor)
	}
	if theme.FontSize != def.FontSize {
		t.Errorf("expected default font size, got %v", theme.FontSize)
	}
}

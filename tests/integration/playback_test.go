// Package integration contains integration tests for the gifplay pipeline.
package integration

import (
	"bytes"
	"context"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/user/gifplay/pkg/adapters/ggrenderer"
	"github.com/user/gifplay/pkg/adapters/osfilesystem"
	"github.com/user/gifplay/pkg/gifplay"
	"github.com/user/gifplay/pkg/mocks"
	"github.com/user/gifplay/pkg/orchestrator"
	"github.com/user/gifplay/pkg/ports"
	"github.com/user/gifplay/pkg/summarizer"
)

func writeGIF(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// TestDecodeToFrameFiles plays a GIF on the real display link and writes
// every displayed frame through the file sink.
func TestDecodeToFrameFiles(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "anim.gif")
	writeGIF(t, input, mocks.SolidGIF(0, 2, 4, 2))

	cfg := gifplay.NewConfigBuilder().
		WithFPS(500).
		WithKeepLast(true).
		WithOutputDir(filepath.Join(dir, "frames")).
		Build()

	log := mocks.NewLogger()
	fs := osfilesystem.New()
	sink := gifplay.NewSink(cfg, fs, log)
	orch := gifplay.NewOrchestrator(fs, sink, log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := orch.Run(ctx, cfg.ToOrchestratorConfig(input))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Reason != orchestrator.ReasonFinished {
		t.Fatalf("expected finished, got %s", result.Reason)
	}
	if result.Displayed != 3 {
		t.Errorf("expected 3 displayed images, got %d", result.Displayed)
	}
	if result.LastFrame != 2 {
		t.Errorf("expected last frame 2, got %d", result.LastFrame)
	}
	// The last frame arrives after the first two durations (20ms + 40ms).
	if result.Elapsed < 50*time.Millisecond {
		t.Errorf("playback finished too early: %s", result.Elapsed)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "frames"))
	if err != nil {
		t.Fatalf("failed to read frames dir: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 frame files, got %d", len(entries))
	}

	want := []color.Color{mocks.GIFPalette[1], mocks.GIFPalette[2], mocks.GIFPalette[3]}
	for i, e := range entries {
		data, err := os.ReadFile(filepath.Join(dir, "frames", e.Name()))
		if err != nil {
			t.Fatalf("failed to read %s: %v", e.Name(), err)
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("failed to decode %s: %v", e.Name(), err)
		}
		if got := color.RGBAModel.Convert(img.At(1, 1)); got != want[i] {
			t.Errorf("frame %d: expected %v, got %v", i, want[i], got)
		}
	}
}

// TestSummaryAndSheet writes the Markdown summary and contact sheet of a
// finished session.
func TestSummaryAndSheet(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "anim.gif")
	writeGIF(t, input, mocks.SolidGIF(-1, 1, 1))

	cfg := gifplay.NewConfigBuilder().WithFPS(500).WithColumns(2).WithCellWidth(32).Build()
	log := mocks.NewLogger()
	fs := osfilesystem.New()
	orch := gifplay.NewOrchestrator(fs, gifplay.NewSink(cfg, fs, log), log)
	ctx := context.Background()

	result, err := orch.Run(ctx, cfg.ToOrchestratorConfig(input))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	summaryPath := filepath.Join(dir, "out", "summary.md")
	summary := summarizer.NewBuilder().WithRun(result).Build()
	if err := summarizer.NewWriter(summarizer.NewMarkdownFormatter(), fs).Write(summaryPath, summary); err != nil {
		t.Fatalf("summary write failed: %v", err)
	}
	text, err := os.ReadFile(summaryPath)
	if err != nil {
		t.Fatalf("failed to read summary: %v", err)
	}
	for _, check := range []string{"# Playback Summary", "**Repeat**: once", "| 1 | 100 ms | 100 ms |", "**Result**: finished"} {
		if !strings.Contains(string(text), check) {
			t.Errorf("expected summary to contain %q", check)
		}
	}

	decoded, err := orch.Decode(ctx, cfg.ToOrchestratorConfig(input))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	sheet, err := gifplay.RenderSheet(ctx, decoded, cfg.Sheet, log)
	if err != nil {
		t.Fatalf("RenderSheet failed: %v", err)
	}
	data, err := ggrenderer.New().EncodeImage(sheet.Image, ports.FormatPNG, 0)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	sheetPath := filepath.Join(dir, "out", "sheet.png")
	if err := fs.WriteFile(sheetPath, data); err != nil {
		t.Fatalf("sheet write failed: %v", err)
	}
	if ok, _ := fs.Exists(sheetPath); !ok {
		t.Error("expected sheet file to exist")
	}
}

// TestWatchReload replaces the GIF on disk while it plays and waits for the
// session to pick up the new frames.
func TestWatchReload(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping file watcher test in short mode")
	}

	dir := t.TempDir()
	input := filepath.Join(dir, "anim.gif")
	writeGIF(t, input, mocks.SolidGIF(0, 2, 2, 2))

	cfg := gifplay.NewConfigBuilder().
		WithFPS(200).
		WithLoop(true).
		WithWatch(true).
		WithDebounce(20 * time.Millisecond).
		Build()

	log := mocks.NewLogger()
	sink := mocks.NewDisplaySink()
	orch := gifplay.NewOrchestrator(osfilesystem.New(), sink, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type out struct {
		result orchestrator.RunResult
		err    error
	}
	done := make(chan out, 1)
	go func() {
		r, err := orch.Run(ctx, cfg.ToOrchestratorConfig(input))
		done <- out{r, err}
	}()

	waitFor(t, "first frame", func() bool { return sink.Calls() > 0 })
	writeGIF(t, input, mocks.SolidGIF(0, 3, 3))
	waitFor(t, "reload", func() bool {
		for _, e := range log.Entries(ports.LevelInfo) {
			if strings.HasPrefix(e.Message, "Reloaded") {
				return true
			}
		}
		return false
	})
	cancel()

	select {
	case res := <-done:
		if res.err != nil {
			t.Fatalf("Run failed: %v", res.err)
		}
		if res.result.Reason != orchestrator.ReasonCancelled {
			t.Errorf("expected cancelled, got %s", res.result.Reason)
		}
		if res.result.Reloads < 1 {
			t.Errorf("expected at least one reload, got %d", res.result.Reloads)
		}
		if res.result.FrameCount != 2 {
			t.Errorf("expected 2 frames after reload, got %d", res.result.FrameCount)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

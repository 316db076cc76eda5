package summarizer

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/user/gifplay/pkg/orchestrator"
	"github.com/user/gifplay/pkg/pipeline"
)

func TestNewSummary(t *testing.T) {
	before := time.Now()
	summary := NewSummary()
	after := time.Now()

	if summary.GeneratedAt.Before(before) || summary.GeneratedAt.After(after) {
		t.Errorf("GeneratedAt should be between %v and %v, got %v",
			before, after, summary.GeneratedAt)
	}
	if summary.Playback.LastFrame != -1 {
		t.Errorf("expected LastFrame -1, got %d", summary.Playback.LastFrame)
	}
}

func TestBuilder_WithDurations(t *testing.T) {
	ms := time.Millisecond
	summary := NewBuilder().
		WithDurations([]time.Duration{100 * ms, 200 * ms, 100 * ms}).
		Build()

	want := []FrameInfo{
		{Index: 0, StartsAt: 0, Duration: 100 * ms},
		{Index: 1, StartsAt: 100 * ms, Duration: 200 * ms},
		{Index: 2, StartsAt: 300 * ms, Duration: 100 * ms},
	}
	if diff := cmp.Diff(want, summary.Frames); diff != "" {
		t.Errorf("timeline mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_WithDurationsEmpty(t *testing.T) {
	summary := NewBuilder().WithDurations(nil).Build()
	if len(summary.Frames) != 0 {
		t.Errorf("expected no frames, got %d", len(summary.Frames))
	}
}

func TestBuilder_WithRun(t *testing.T) {
	ms := time.Millisecond
	run := orchestrator.RunResult{
		InputPath:     "anim.gif",
		Screen:        pipeline.Dimension{Width: 40, Height: 30},
		LoopCount:     0,
		SubImages:     4,
		FrameCount:    3,
		Skipped:       []int{2},
		Throttled:     1,
		Durations:     []time.Duration{100 * ms, 100 * ms, 100 * ms},
		TotalDuration: 300 * ms,
		Loop:          true,
		Reason:        orchestrator.ReasonMaxDuration,
		Elapsed:       2 * time.Second,
		Displayed:     20,
		LastFrame:     1,
		Reloads:       2,
	}

	summary := NewBuilder().
		WithFileSize(2048).
		WithRun(run).
		Build()

	wantSource := SourceInfo{
		Path:      "anim.gif",
		FileSize:  2048,
		Width:     40,
		Height:    30,
		LoopCount: 0,
		SubImages: 4,
		Skipped:   []int{2},
		Throttled: 1,
	}
	if diff := cmp.Diff(wantSource, summary.Source); diff != "" {
		t.Errorf("source mismatch (-want +got):\n%s", diff)
	}

	wantPlayback := PlaybackInfo{
		Reason:        "max-duration",
		Elapsed:       2 * time.Second,
		TotalDuration: 300 * ms,
		Displayed:     20,
		LastFrame:     1,
		Reloads:       2,
	}
	if diff := cmp.Diff(wantPlayback, summary.Playback); diff != "" {
		t.Errorf("playback mismatch (-want +got):\n%s", diff)
	}

	if len(summary.Frames) != 3 {
		t.Errorf("expected 3 frames, got %d", len(summary.Frames))
	}
	if !summary.Settings.Loop {
		t.Error("expected Loop setting from the run")
	}
}

func TestBuilder_WithSettings(t *testing.T) {
	settings := Settings{
		Loop:        true,
		FPS:         30,
		KeepLast:    true,
		MaxDuration: 5 * time.Second,
		OutroMs:     500,
		Watch:       true,
		Output:      "frames",
	}
	summary := NewBuilder().WithSettings(settings).Build()

	if diff := cmp.Diff(settings, summary.Settings); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

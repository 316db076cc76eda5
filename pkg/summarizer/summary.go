// Package summarizer provides summary generation for playback sessions.
package summarizer

import (
	"time"

	"github.com/user/gifplay/pkg/orchestrator"
)

// Summary contains all data collected during a playback session.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Decoded source
	Source SourceInfo

	// Frame timeline in display order
	Frames []FrameInfo

	// Session results
	Playback PlaybackInfo

	// Session configuration
	Settings Settings
}

// SourceInfo describes the decoded container.
type SourceInfo struct {
	Path      string
	FileSize  int64
	Width     int
	Height    int
	LoopCount int // 0 forever, -1 once, n > 0 repeats
	SubImages int
	Skipped   []int
	Throttled int
}

// FrameInfo is one row of the frame timeline.
type FrameInfo struct {
	Index    int
	StartsAt time.Duration
	Duration time.Duration
}

// PlaybackInfo contains the outcome of the session.
type PlaybackInfo struct {
	Reason        string
	Elapsed       time.Duration
	TotalDuration time.Duration // one pass through every frame
	Displayed     int
	LastFrame     int // -1 when nothing was shown
	Reloads       int
}

// Settings contains the playback configuration.
type Settings struct {
	Loop        bool
	FPS         float64
	KeepLast    bool
	MaxDuration time.Duration
	OutroMs     int
	Watch       bool
	Output      string // where frames were written, empty when discarded
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
		Playback:    PlaybackInfo{LastFrame: -1},
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithSource sets source information.
func (b *Builder) WithSource(source SourceInfo) *Builder {
	b.summary.Source = source
	return b
}

// WithDurations builds the frame timeline from per-frame durations.
func (b *Builder) WithDurations(durations []time.Duration) *Builder {
	frames := make([]FrameInfo, len(durations))
	var at time.Duration
	for i, d := range durations {
		frames[i] = FrameInfo{Index: i, StartsAt: at, Duration: d}
		at += d
	}
	b.summary.Frames = frames
	return b
}

// WithPlayback sets session results.
func (b *Builder) WithPlayback(playback PlaybackInfo) *Builder {
	b.summary.Playback = playback
	return b
}

// WithSettings sets the playback configuration.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithRun fills source, timeline and playback from a finished session.
func (b *Builder) WithRun(r orchestrator.RunResult) *Builder {
	size := b.summary.Source.FileSize
	b.summary.Source = SourceInfo{
		Path:      r.InputPath,
		FileSize:  size,
		Width:     r.Screen.Width,
		Height:    r.Screen.Height,
		LoopCount: r.LoopCount,
		SubImages: r.SubImages,
		Skipped:   r.Skipped,
		Throttled: r.Throttled,
	}
	b.summary.Playback = PlaybackInfo{
		Reason:        string(r.Reason),
		Elapsed:       r.Elapsed,
		TotalDuration: r.TotalDuration,
		Displayed:     r.Displayed,
		LastFrame:     r.LastFrame,
		Reloads:       r.Reloads,
	}
	b.summary.Settings.Loop = r.Loop
	return b.WithDurations(r.Durations)
}

// WithFileSize records the size of the source file in bytes.
func (b *Builder) WithFileSize(size int64) *Builder {
	b.summary.Source.FileSize = size
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}

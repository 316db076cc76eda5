// Package orchestrator runs a playback session: it decodes a source, plays
// it on a run loop until the session ends, and reports what happened.
package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/user/gifplay/pkg/adapters/filewatch"
	"github.com/user/gifplay/pkg/adapters/logsink"
	"github.com/user/gifplay/pkg/pipeline"
	"github.com/user/gifplay/pkg/player"
	"github.com/user/gifplay/pkg/ports"
	"github.com/user/gifplay/pkg/runloop"
)

// Config contains all configuration for a playback session.
type Config struct {
	// Input
	InputPath string

	// Playback
	Loop     bool
	FPS      float64 // clock rate; 0 uses runloop.DefaultInterval
	KeepLast bool    // leave the last frame displayed when the session ends

	// MaxDuration ends the session after this long. Zero means no limit.
	MaxDuration time.Duration

	// OutroMs holds the last frame of a non-looping animation before the
	// session ends.
	OutroMs int

	// Watch re-decodes the input whenever the file changes.
	Watch    bool
	Debounce time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		FPS:      60,
		Debounce: filewatch.DefaultDebounce,
	}
}

// Interval returns the clock interval for the configured FPS.
func (c Config) Interval() time.Duration {
	if c.FPS <= 0 {
		return runloop.DefaultInterval
	}
	return time.Duration(float64(time.Second) / c.FPS)
}

// Reason describes why a session ended.
type Reason string

const (
	ReasonFinished    Reason = "finished"
	ReasonCancelled   Reason = "cancelled"
	ReasonMaxDuration Reason = "max-duration"
	ReasonEmpty       Reason = "empty"
)

// Watch is a running source watcher.
type Watch interface {
	Changes() <-chan filewatch.Change
	Close() error
}

// WatchFunc starts watching path.
type WatchFunc func(ctx context.Context, path string, debounce time.Duration) (Watch, error)

// ClockFunc creates the clock that drives the player on loop.
type ClockFunc func(loop *runloop.Loop, interval time.Duration) ports.Clock

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock replaces the display-link clock.
func WithClock(fn ClockFunc) Option {
	return func(o *Orchestrator) {
		o.newClock = fn
	}
}

// WithWatcher replaces the fsnotify source watcher.
func WithWatcher(fn WatchFunc) Option {
	return func(o *Orchestrator) {
		o.watch = fn
	}
}

// Orchestrator coordinates decoding and playback.
type Orchestrator struct {
	decodeStage pipeline.Stage[pipeline.DecodeInput, pipeline.DecodeResult]
	fs          ports.FileSystem
	sink        ports.DisplaySink
	logger      ports.Logger

	newClock ClockFunc
	watch    WatchFunc
}

// New creates a new Orchestrator.
func New(
	decodeStage pipeline.Stage[pipeline.DecodeInput, pipeline.DecodeResult],
	fs ports.FileSystem,
	sink ports.DisplaySink,
	logger ports.Logger,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		decodeStage: decodeStage,
		fs:          fs,
		sink:        sink,
		logger:      logger,
	}
	o.newClock = func(loop *runloop.Loop, interval time.Duration) ports.Clock {
		return runloop.NewDisplayLink(loop, interval, o.logger)
	}
	o.watch = func(ctx context.Context, path string, debounce time.Duration) (Watch, error) {
		return filewatch.New(ctx, path, debounce, o.logger)
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Decode reads and decodes the configured input without playing it.
func (o *Orchestrator) Decode(ctx context.Context, config Config) (pipeline.DecodeResult, error) {
	data, err := o.fs.ReadFile(config.InputPath)
	if err != nil {
		o.logger.Error("Cannot read %s: %s", config.InputPath, err)
		return pipeline.DecodeResult{}, fmt.Errorf("read input: %w", err)
	}
	decoded, err := o.decodeStage.Execute(ctx, pipeline.DecodeInput{
		Data: data,
		Name: filepath.Base(config.InputPath),
	})
	if err != nil {
		o.logger.Error("Failed to decode %s: %s", config.InputPath, err)
		return pipeline.DecodeResult{}, fmt.Errorf("decode stage: %w", err)
	}
	return decoded, nil
}

// Run plays the configured input until it finishes, ctx is cancelled,
// MaxDuration passes, or nothing is playable. Cancellation ends the session
// normally; only read and decode failures are returned as errors.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	// 1. Watch before the first read so an edit made while decoding is
	// still reported
	var changes <-chan filewatch.Change
	if config.Watch {
		w, err := o.watch(ctx, config.InputPath, config.Debounce)
		if err != nil {
			return RunResult{}, fmt.Errorf("watch input: %w", err)
		}
		defer w.Close()
		changes = w.Changes()
		o.logger.Info("Watching %s for changes", config.InputPath)
	}

	// 2. Decode off the loop
	decoded, err := o.Decode(ctx, config)
	if err != nil {
		return RunResult{}, err
	}
	result := newRunResult(config, decoded)

	// 3. Start the loop that owns the player
	loop := runloop.New(0)
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		loop.Run(context.Background())
	}()
	defer func() {
		loop.Close()
		<-loopDone
	}()

	display := logsink.New(o.sink, o.logger)
	stopped := make(chan struct{}, 1)
	p := player.New(display,
		player.WithLoop(config.Loop),
		player.WithLogger(o.logger),
		player.WithStopHandler(func() {
			select {
			case stopped <- struct{}{}:
			default:
			}
		}),
	)
	clock := o.newClock(loop, config.Interval())

	install := func(frames pipeline.DecodeResult) error {
		return loop.Do(context.Background(), func() {
			display.SetFrames(frames.Frames)
			p.Configure(frames.Frames)
			p.Start()
			p.Attach(clock)
		})
	}
	if err := install(decoded); err != nil {
		return RunResult{}, fmt.Errorf("start playback: %w", err)
	}
	o.logger.Info("Playing %s (%d frames, %s per loop)...",
		config.InputPath, len(decoded.Frames), decoded.Frames.TotalDuration())

	// 4. Wait for the session to end
	started := time.Now()
	var maxC, outroC <-chan time.Time
	if config.MaxDuration > 0 {
		timer := time.NewTimer(config.MaxDuration)
		defer timer.Stop()
		maxC = timer.C
	}
	outro := time.NewTimer(time.Duration(config.OutroMs) * time.Millisecond)
	outro.Stop()
	defer outro.Stop()
	if len(decoded.Frames) == 0 && !config.Watch {
		result.Reason = ReasonEmpty
	}

	for result.Reason == "" {
		select {
		case <-ctx.Done():
			result.Reason = ReasonCancelled

		case <-maxC:
			result.Reason = ReasonMaxDuration

		case <-stopped:
			if config.OutroMs <= 0 {
				result.Reason = ReasonFinished
				break
			}
			outro.Reset(time.Duration(config.OutroMs) * time.Millisecond)
			outroC = outro.C

		case <-outroC:
			result.Reason = ReasonFinished

		case c, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			if c.Err != nil {
				o.logger.Warn("Watcher error: %s", c.Err)
				continue
			}
			reloaded, err := o.Decode(ctx, config)
			if err != nil {
				o.logger.Warn("Reload failed, keeping current frames: %s", err)
				continue
			}
			if err := install(reloaded); err != nil {
				return RunResult{}, fmt.Errorf("reload playback: %w", err)
			}
			// A stop from the previous frames no longer applies.
			select {
			case <-stopped:
			default:
			}
			outro.Stop()
			outroC = nil
			result.apply(reloaded)
			result.Reloads++
			o.logger.Info("Reloaded %s: %d frames", config.InputPath, len(reloaded.Frames))
		}
	}
	result.Elapsed = time.Since(started)

	// 5. Release the clock and the display
	err = loop.Do(context.Background(), func() {
		p.Detach()
		p.Stop()
		result.LastFrame = p.Current()
		if !config.KeepLast {
			p.Clear()
		}
	})
	if err != nil {
		return RunResult{}, fmt.Errorf("stop playback: %w", err)
	}
	result.Displayed = display.Shown()

	if result.Reason == ReasonFinished {
		o.logger.Info("Playback finished after %s", result.Elapsed.Round(time.Millisecond))
	} else {
		o.logger.Info("Playback stopped: %s", result.Reason)
	}

	return result, nil
}

// RunResult contains the results of a playback session for summary
// generation.
type RunResult struct {
	// Source information
	InputPath string
	Screen    pipeline.Dimension
	LoopCount int

	// Decode information, from the last successful decode
	SubImages     int
	FrameCount    int
	Skipped       []int
	Throttled     int
	Durations     []time.Duration
	TotalDuration time.Duration

	// Playback information
	Loop      bool
	Reason    Reason
	Elapsed   time.Duration
	Displayed int // images sent to the display, including repeats
	LastFrame int // index shown when the session ended, -1 for none
	Reloads   int
}

func newRunResult(config Config, decoded pipeline.DecodeResult) RunResult {
	r := RunResult{
		InputPath: config.InputPath,
		Loop:      config.Loop,
		LastFrame: -1,
	}
	r.apply(decoded)
	return r
}

func (r *RunResult) apply(decoded pipeline.DecodeResult) {
	r.Screen = decoded.Screen
	r.LoopCount = decoded.LoopCount
	r.SubImages = decoded.SubImages
	r.FrameCount = len(decoded.Frames)
	r.Skipped = decoded.Skipped
	r.Throttled = decoded.Throttled
	r.Durations = decoded.Frames.Durations()
	r.TotalDuration = decoded.Frames.TotalDuration()
}

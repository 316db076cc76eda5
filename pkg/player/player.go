// Package player schedules the frames of a frame.List against a clock so
// each frame stays on screen for its own duration.
//
// A Player is not safe for concurrent use. Every method, including the
// tick callback registered by Attach, must run on the single goroutine that
// owns the player, typically a runloop.Loop.
package player

import (
	"time"

	"github.com/user/gifplay/pkg/adapters/logger"
	"github.com/user/gifplay/pkg/frame"
	"github.com/user/gifplay/pkg/ports"
)

// State is the run state of a Player.
type State int

const (
	// Unconfigured means no frame list is installed.
	Unconfigured State = iota
	// Stopped means a list is installed but ticks do not advance it.
	Stopped
	// Playing means ticks consume the current frame's budget.
	Playing
	// Paused keeps the position and budget until Resume.
	Paused
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Unconfigured:
		return "unconfigured"
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// Option configures a Player.
type Option func(*Player)

// WithLoop sets whether playback wraps to the first frame after the last.
func WithLoop(loop bool) Option {
	return func(p *Player) {
		p.loop = loop
	}
}

// WithLogger sets the logger. Player logs at debug level only.
func WithLogger(l ports.Logger) Option {
	return func(p *Player) {
		p.logger = l.WithComponent("player")
	}
}

// WithStopHandler sets a function called when non-looping playback stops
// on its last frame. It is not called for explicit Stop calls.
func WithStopHandler(fn func()) Option {
	return func(p *Player) {
		p.onStop = fn
	}
}

// Player displays frames of a list on a sink, advancing on clock ticks.
type Player struct {
	sink   ports.DisplaySink
	logger ports.Logger
	onStop func()

	frames frame.List
	state  State
	loop   bool

	// displayed is the frame last emitted to the sink. A nil Image means
	// nothing is shown. index is its position in frames, or -1.
	displayed frame.Frame
	index     int
	remaining time.Duration

	last    time.Duration
	hasLast bool

	sub ports.Subscription
}

// New creates a stopped player with no frames that shows frames on sink.
func New(sink ports.DisplaySink, opts ...Option) *Player {
	p := &Player{
		sink:   sink,
		logger: logger.NewNoop(),
		index:  -1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Configure installs frames, replacing any previous list, and shows the
// first frame immediately. The player is left Stopped; call Start to play.
// An empty list clears the display.
func (p *Player) Configure(frames frame.List) {
	p.frames = frames
	p.index = -1
	p.hasLast = false
	p.state = Stopped

	if len(frames) == 0 {
		p.display(-1)
	} else {
		p.display(0)
		p.remaining = frames[0].Duration
	}
	p.logger.Debug("Configured %d frames", len(frames))
}

// Start plays from the first frame. It does nothing while already playing
// or when no frames are installed.
func (p *Player) Start() {
	if p.state == Playing || len(p.frames) == 0 {
		return
	}
	p.display(0)
	p.remaining = p.frames[0].Duration
	p.hasLast = false
	p.state = Playing
	p.logger.Debug("Playback started")
}

// Stop halts playback on the current frame.
func (p *Player) Stop() {
	if p.state != Playing && p.state != Paused {
		return
	}
	p.state = Stopped
	p.logger.Debug("Playback stopped at frame %d", p.index)
}

// Pause suspends playback keeping the current frame and its budget.
func (p *Player) Pause() {
	if p.state != Playing {
		return
	}
	p.state = Paused
	p.logger.Debug("Playback paused at frame %d", p.index)
}

// Resume continues paused playback. Time spent paused is not counted
// against the current frame.
func (p *Player) Resume() {
	if p.state != Paused {
		return
	}
	p.hasLast = false
	p.state = Playing
	p.logger.Debug("Playback resumed at frame %d", p.index)
}

// Tick handles a clock timestamp. The first tick after Start or Resume only
// records now. Later ticks subtract the elapsed time from the current
// frame's budget and advance at most one frame when it runs out, however
// long the gap between ticks was.
func (p *Player) Tick(now time.Duration) {
	if p.state != Playing || p.index < 0 {
		return
	}
	if !p.hasLast {
		p.last = now
		p.hasLast = true
		return
	}

	elapsed := now - p.last
	if elapsed < 0 {
		elapsed = 0
	}
	p.last = now

	p.remaining -= elapsed
	if p.remaining <= 0 {
		p.advance()
	}
}

// advance moves to the next frame, stopping on the last one unless looping.
func (p *Player) advance() {
	n := len(p.frames)
	next := (p.index + 1) % n

	if !p.loop && next == n-1 {
		p.display(next)
		p.remaining = 0
		p.state = Stopped
		p.logger.Debug("Reached last frame %d, stopping", next)
		if p.onStop != nil {
			p.onStop()
		}
		return
	}

	p.display(next)
	// An identical frame leaves the budget untouched, so re-arm it here.
	if p.remaining <= 0 {
		p.remaining = p.frames[next].Duration
	}
	p.logger.Debug("Advanced to frame %d", next)
}

// ShowFrame displays frame i of the installed list without changing the run
// state. An index outside the list clears the display.
func (p *Player) ShowFrame(i int) {
	if i < 0 || i >= len(p.frames) {
		i = -1
	}
	p.display(i)
}

// display sets the shown frame to frames[i], or to nothing when i < 0.
// The sink is only called when the frame actually changes, and only a
// change resets the budget.
func (p *Player) display(i int) {
	if i < 0 {
		p.index = -1
		p.remaining = 0
		if p.displayed.Image != nil {
			p.displayed = frame.Frame{}
			p.sink.Display(nil)
		}
		return
	}

	f := p.frames[i]
	p.index = i
	if f.Equal(p.displayed) {
		return
	}
	p.displayed = f
	p.remaining = f.Duration
	p.sink.Display(f.Image)
}

// Clear removes the display and the installed list. It is valid in any
// state and leaves the player Unconfigured. The clock stays attached.
func (p *Player) Clear() {
	p.display(-1)
	p.frames = nil
	p.hasLast = false
	p.state = Unconfigured
	p.logger.Debug("Cleared")
}

// Loop reports whether playback wraps after the last frame.
func (p *Player) Loop() bool {
	return p.loop
}

// SetLoop sets whether playback wraps after the last frame.
func (p *Player) SetLoop(loop bool) {
	p.loop = loop
}

// Attach subscribes the player to clock, replacing any earlier
// subscription.
func (p *Player) Attach(clock ports.Clock) {
	p.Detach()
	p.sub = clock.Subscribe(p.Tick)
	p.logger.Debug("Attached to clock")
}

// Detach cancels the clock subscription, if any.
func (p *Player) Detach() {
	if p.sub == nil {
		return
	}
	p.sub.Cancel()
	p.sub = nil
	p.logger.Debug("Detached from clock")
}

// Attached reports whether the player holds a clock subscription.
func (p *Player) Attached() bool {
	return p.sub != nil
}

// State returns the run state.
func (p *Player) State() State {
	return p.state
}

// Current returns the index of the displayed frame, or -1 when none is.
func (p *Player) Current() int {
	return p.index
}

// Remaining returns the budget left for the displayed frame.
func (p *Player) Remaining() time.Duration {
	return p.remaining
}

// Frames returns the installed list, nil when unconfigured.
func (p *Player) Frames() frame.List {
	return p.frames
}

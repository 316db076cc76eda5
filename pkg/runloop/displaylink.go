package runloop

import (
	"context"
	"time"

	"github.com/user/gifplay/pkg/ports"
)

// DefaultInterval is the tick interval of a 60 Hz display.
const DefaultInterval = time.Second / 60

// DisplayLink is a ports.Clock that ticks at a fixed interval and runs its
// subscribers on a Loop. Timestamps are monotonic durations since the link
// was created. A tick that finds the loop queue full is dropped.
type DisplayLink struct {
	loop     *Loop
	interval time.Duration
	origin   time.Time
	logger   ports.Logger
}

// NewDisplayLink creates a display link ticking every interval onto loop.
// An interval of zero or less uses DefaultInterval.
func NewDisplayLink(loop *Loop, interval time.Duration, logger ports.Logger) *DisplayLink {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &DisplayLink{
		loop:     loop,
		interval: interval,
		origin:   time.Now(),
		logger:   logger.WithComponent("displaylink"),
	}
}

// Interval returns the tick interval.
func (d *DisplayLink) Interval() time.Duration {
	return d.interval
}

// Subscribe starts a ticker delivering to fn until the subscription is
// cancelled. Each subscription owns its own ticker.
func (d *DisplayLink) Subscribe(fn ports.TickFunc) ports.Subscription {
	ctx, cancel := context.WithCancel(context.Background())
	sub := &linkSubscription{cancel: cancel, stopped: make(chan struct{})}

	go func() {
		defer close(sub.stopped)
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-d.loop.Done():
				return
			case t := <-ticker.C:
				now := t.Sub(d.origin)
				queued := d.loop.TryPost(func() {
					// Ticks queued before Cancel must not reach fn.
					if ctx.Err() == nil {
						fn(now)
					}
				})
				if !queued {
					d.logger.Debug("Dropped clock tick: run loop busy")
				}
			}
		}
	}()

	return sub
}

type linkSubscription struct {
	cancel  context.CancelFunc
	stopped chan struct{}
}

// Cancel stops the ticker and waits for its goroutine to exit.
func (s *linkSubscription) Cancel() {
	s.cancel()
	<-s.stopped
}

var _ ports.Clock = (*DisplayLink)(nil)

// Package runloop provides the single goroutine that owns a player and a
// display-link clock that delivers ticks onto it.
package runloop

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned when work is posted to a loop that has stopped.
var ErrClosed = errors.New("runloop: closed")

// DefaultQueueSize is the number of pending functions a Loop buffers.
const DefaultQueueSize = 64

// Loop runs posted functions one at a time, in the order they were posted,
// on the goroutine that called Run. Code that must not run concurrently
// with itself, such as every method of a player, is posted to one Loop.
type Loop struct {
	queue     chan func()
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a loop buffering up to size pending functions. A size of
// zero or less uses DefaultQueueSize.
func New(size int) *Loop {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Loop{
		queue: make(chan func(), size),
		done:  make(chan struct{}),
	}
}

// Run executes posted functions until ctx is done or Close is called.
// It returns ctx.Err() when stopped by ctx and nil when closed. Functions
// still queued when the loop stops are discarded.
func (l *Loop) Run(ctx context.Context) error {
	defer l.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case fn := <-l.queue:
			fn()
		}
	}
}

// Post queues fn, blocking while the queue is full.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.done:
		return ErrClosed
	default:
	}
	select {
	case l.queue <- fn:
		return nil
	case <-l.done:
		return ErrClosed
	}
}

// TryPost queues fn unless the queue is full or the loop has stopped.
// It reports whether fn was queued.
func (l *Loop) TryPost(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	default:
		return false
	}
}

// Do runs fn on the loop and waits for it to return.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if err := l.Post(func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		// fn may have completed just before the loop stopped.
		select {
		case <-finished:
			return nil
		default:
			return ErrClosed
		}
	}
}

// Close stops the loop. It is safe to call more than once.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
	})
}

// Done returns a channel closed once the loop has stopped.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

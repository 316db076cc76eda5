package mocks

import (
	"sync"
	"time"

	"github.com/user/gifplay/pkg/ports"
)

// Clock is a manually driven ports.Clock. Fire delivers a timestamp to
// every active subscriber.
type Clock struct {
	mu   sync.Mutex
	subs map[*subscription]struct{}
}

// NewClock creates a new mock Clock.
func NewClock() *Clock {
	return &Clock{subs: make(map[*subscription]struct{})}
}

type subscription struct {
	clock *Clock
	fn    ports.TickFunc
}

func (s *subscription) Cancel() {
	s.clock.mu.Lock()
	defer s.clock.mu.Unlock()
	delete(s.clock.subs, s)
}

func (m *Clock) Subscribe(fn ports.TickFunc) ports.Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &subscription{clock: m, fn: fn}
	m.subs[s] = struct{}{}
	return s
}

// Fire calls every active subscriber with now.
func (m *Clock) Fire(now time.Duration) {
	m.mu.Lock()
	fns := make([]ports.TickFunc, 0, len(m.subs))
	for s := range m.subs {
		fns = append(fns, s.fn)
	}
	m.mu.Unlock()
	for _, fn := range fns {
		fn(now)
	}
}

// Active returns the number of active subscriptions.
func (m *Clock) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

var _ ports.Clock = (*Clock)(nil)

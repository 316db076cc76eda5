package ports

import "time"

// TickFunc handles one clock tick. now is a monotonic timestamp measured
// from an arbitrary fixed origin; successive values never decrease.
type TickFunc func(now time.Duration)

// Clock is a periodic callback source, typically paced by the display
// refresh interval.
type Clock interface {
	// Subscribe registers fn to be called on every tick until the returned
	// Subscription is cancelled.
	Subscribe(fn TickFunc) Subscription
}

// Subscription is a clock registration.
type Subscription interface {
	// Cancel releases the registration. It is safe to call more than once.
	Cancel()
}

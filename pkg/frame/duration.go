package frame

import "time"

// ResolveDuration picks a frame's display duration from its optional
// delay metadata. An unclamped delay wins when it is positive, otherwise
// the standard delay is used when present, otherwise DefaultDuration.
// A resolved value at or below MinDuration becomes DefaultDuration.
func ResolveDuration(unclamped, delay *time.Duration) time.Duration {
	var d time.Duration
	switch {
	case unclamped != nil && *unclamped > 0:
		d = *unclamped
	case delay != nil:
		d = *delay
	default:
		return DefaultDuration
	}
	if d <= MinDuration {
		return DefaultDuration
	}
	return d
}

// IsThrottled reports whether ResolveDuration replaced the authored delay
// because it was at or below MinDuration.
func IsThrottled(unclamped, delay *time.Duration) bool {
	switch {
	case unclamped != nil && *unclamped > 0:
		return *unclamped <= MinDuration
	case delay != nil:
		return *delay <= MinDuration
	default:
		return false
	}
}

// Centiseconds converts a GIF delay in hundredths of a second to a duration.
func Centiseconds(cs int) time.Duration {
	return time.Duration(cs) * 10 * time.Millisecond
}

package infra

import (
	"math"
	"math/rand"
	"time"
)

// Backoff returns the reconnect delay for the given attempt: base doubled
// per attempt, capped at max. Attempt counting starts at 0.
func Backoff(attempt int, base, max time.Duration) time.Duration {
	if base <= 0 {
		base = time.Second
	}
	if max <= 0 {
		max = time.Minute
	}
	delay := time.Duration(float64(base) * math.Pow(2, float64(attempt)))
	if delay > max || delay <= 0 {
		delay = max
	}
	return delay
}

// Jitter spreads a delay by ±20% so reconnecting clients do not hammer
// the feed in lockstep.
func Jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	spread := float64(d) * 0.2
	offset := (rand.Float64()*2 - 1) * spread
	return time.Duration(float64(d) + offset)
}

package infra

import (
	"testing"
	"time"
)

func TestBackoff(t *testing.T) {
	base := 1 * time.Second
	max := 60 * time.Second

	t.Run("doubles per attempt", func(t *testing.T) {
		want := []time.Duration{
			1 * time.Second,
			2 * time.Second,
			4 * time.Second,
			8 * time.Second,
		}
		for attempt, expected := range want {
			if got := Backoff(attempt, base, max); got != expected {
				t.Errorf("Backoff(%d) = %v, want %v", attempt, got, expected)
			}
		}
	})

	t.Run("caps at max", func(t *testing.T) {
		if got := Backoff(10, base, max); got != max {
			t.Errorf("Backoff(10) = %v, want cap %v", got, max)
		}
		// Large attempts must not overflow past the cap
		if got := Backoff(100, base, max); got != max {
			t.Errorf("Backoff(100) = %v, want cap %v", got, max)
		}
	})

	t.Run("zero config falls back to defaults", func(t *testing.T) {
		if got := Backoff(0, 0, 0); got != time.Second {
			t.Errorf("Backoff with zero config = %v, want 1s", got)
		}
	})
}

func TestJitter(t *testing.T) {
	d := 10 * time.Second
	lo := 8 * time.Second
	hi := 12 * time.Second

	for i := 0; i < 100; i++ {
		got := Jitter(d)
		if got < lo || got > hi {
			t.Fatalf("Jitter(%v) = %v, want within [%v, %v]", d, got, lo, hi)
		}
	}

	if got := Jitter(0); got != 0 {
		t.Errorf("Jitter(0) = %v, want 0", got)
	}
}

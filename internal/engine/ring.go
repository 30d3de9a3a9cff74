package engine

// Ring is a fixed-capacity insertion-order buffer. When full, pushing
// evicts the oldest entry; ingestion never blocks on a full history.
type Ring[T any] struct {
	buf   []T
	head  int // index of the oldest entry
	count int
}

// NewRing creates a ring with the given capacity. Capacity must be
// positive; the constructor is only reached through validated config.
func NewRing[T any](capacity int) *Ring[T] {
	return &Ring[T]{buf: make([]T, capacity)}
}

// Push appends v, evicting the oldest entry when full.
func (r *Ring[T]) Push(v T) {
	if r.count < len(r.buf) {
		r.buf[(r.head+r.count)%len(r.buf)] = v
		r.count++
		return
	}
	r.buf[r.head] = v
	r.head = (r.head + 1) % len(r.buf)
}

// Len returns the number of retained entries.
func (r *Ring[T]) Len() int {
	return r.count
}

// Cap returns the configured capacity.
func (r *Ring[T]) Cap() int {
	return len(r.buf)
}

// Items returns the retained entries in arrival order, oldest first.
// The returned slice is a fresh copy and never aliases the ring.
func (r *Ring[T]) Items() []T {
	out := make([]T, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	return out
}

// ItemsNewestFirst returns the retained entries most-recent-first,
// the order the dashboard lists them in.
func (r *Ring[T]) ItemsNewestFirst() []T {
	out := make([]T, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.buf[(r.head+r.count-1-i+len(r.buf))%len(r.buf)]
	}
	return out
}

package rugplay

import (
	"fmt"
	"sync"
	"time"
)

// ConnState is the coarse connection state surfaced to the renderer.
type ConnState int

const (
	StateReconnecting ConnState = iota // also the initial state, before first connect
	StateConnected
	StateFailed // startup attempts exhausted, no connection ever made
)

func (s ConnState) String() string {
	switch s {
	case StateConnected:
		return "Connected"
	case StateFailed:
		return "Failed"
	default:
		return "Reconnecting"
	}
}

// Status is a copy-out view of the connection state machine:
// Connected -> Reconnecting(attempt, delay) -> Connected | Failed.
type Status struct {
	State     ConnState
	Attempt   int           // reconnect attempt counter, 0 while connected
	NextDelay time.Duration // backoff delay before the next dial
}

func (s Status) String() string {
	if s.State == StateReconnecting {
		return fmt.Sprintf("Reconnecting (attempt %d, next in %s)", s.Attempt, s.NextDelay)
	}
	return s.State.String()
}

// statusVar holds the current Status behind a mutex. The transport
// goroutine writes, the render loop reads.
type statusVar struct {
	mu  sync.RWMutex
	cur Status
}

func (v *statusVar) set(s Status) {
	v.mu.Lock()
	v.cur = s
	v.mu.Unlock()
}

func (v *statusVar) get() Status {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.cur
}

package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety: the transport goroutine writes
// while the render loop reads snapshots for the status line.
type Metrics struct {
	// Counters
	framesReceived  atomic.Uint64
	eventsApplied   atomic.Uint64
	decodeErrors    atomic.Uint64
	eventsDropped   atomic.Uint64
	reconnects      atomic.Uint64
	commandsApplied atomic.Uint64

	// Gauges
	connected atomic.Int32 // 1 = connected, 0 = not
}

// RecordFrame records one raw frame received from the feed.
func (m *Metrics) RecordFrame() {
	m.framesReceived.Add(1)
}

// RecordEventApplied records one event folded into engine state.
func (m *Metrics) RecordEventApplied() {
	m.eventsApplied.Add(1)
}

// RecordDecodeError records one dropped malformed frame.
func (m *Metrics) RecordDecodeError() {
	m.decodeErrors.Add(1)
}

// RecordEventDropped records one event evicted from the hand-off queue.
func (m *Metrics) RecordEventDropped() {
	m.eventsDropped.Add(1)
}

// RecordReconnect records one reconnection attempt.
func (m *Metrics) RecordReconnect() {
	m.reconnects.Add(1)
}

// RecordCommand records one applied user command.
func (m *Metrics) RecordCommand() {
	m.commandsApplied.Add(1)
}

// SetConnected sets the connection gauge.
func (m *Metrics) SetConnected(connected bool) {
	if connected {
		m.connected.Store(1)
	} else {
		m.connected.Store(0)
	}
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	FramesReceived  uint64
	EventsApplied   uint64
	DecodeErrors    uint64
	EventsDropped   uint64
	Reconnects      uint64
	CommandsApplied uint64
	Connected       bool
	Timestamp       time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		FramesReceived:  m.framesReceived.Load(),
		EventsApplied:   m.eventsApplied.Load(),
		DecodeErrors:    m.decodeErrors.Load(),
		EventsDropped:   m.eventsDropped.Load(),
		Reconnects:      m.reconnects.Load(),
		CommandsApplied: m.commandsApplied.Load(),
		Connected:       m.connected.Load() == 1,
		Timestamp:       time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.framesReceived.Store(0)
	m.eventsApplied.Store(0)
	m.decodeErrors.Store(0)
	m.eventsDropped.Store(0)
	m.reconnects.Store(0)
	m.commandsApplied.Store(0)
	m.connected.Store(0)
}

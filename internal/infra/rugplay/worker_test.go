package rugplay

import (
	"testing"
	"time"

	"rugwatch/internal/event"
	"rugwatch/internal/infra"
)

func testWorker(inboxSize int) (*Worker, *infra.Metrics) {
	m := &infra.Metrics{}
	w := &Worker{
		inbox:   make(chan event.Event, inboxSize),
		metrics: m,
		coin:    "@global",
	}
	return w, m
}

func TestPush_DropOldestWhenFull(t *testing.T) {
	w, m := testWorker(2)

	first := &event.TradeEvent{}
	second := &event.TradeEvent{}
	third := &event.TradeEvent{}

	w.push(first)
	w.push(second)
	w.push(third) // full: first must be evicted

	if got := len(w.inbox); got != 2 {
		t.Fatalf("inbox length = %d, want 2", got)
	}

	if ev := <-w.inbox; ev != second {
		t.Error("oldest event should have been dropped, not the newest")
	}
	if ev := <-w.inbox; ev != third {
		t.Error("newest event must survive")
	}

	if snap := m.Snapshot(); snap.EventsDropped != 1 {
		t.Errorf("EventsDropped = %d, want 1", snap.EventsDropped)
	}
}

func TestPush_NeverBlocks(t *testing.T) {
	w, _ := testWorker(1)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			w.push(&event.TradeEvent{})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("push blocked with a full inbox and no consumer")
	}
}

func TestStatus_InitialAndTransitions(t *testing.T) {
	w, _ := testWorker(1)

	if got := w.Status().State; got != StateReconnecting {
		t.Errorf("initial state = %v, want Reconnecting", got)
	}

	w.status.set(Status{State: StateConnected})
	if !w.IsConnected() {
		t.Error("IsConnected should be true after Connected")
	}

	w.status.set(Status{State: StateReconnecting, Attempt: 3, NextDelay: 4 * time.Second})
	st := w.Status()
	if st.State != StateReconnecting || st.Attempt != 3 {
		t.Errorf("status = %+v", st)
	}
	if st.String() != "Reconnecting (attempt 3, next in 4s)" {
		t.Errorf("String() = %q", st.String())
	}

	w.status.set(Status{State: StateFailed, Attempt: 5})
	if got := w.Status().State.String(); got != "Failed" {
		t.Errorf("State.String() = %q, want Failed", got)
	}
}

func TestSetCoin_RememberedForReconnect(t *testing.T) {
	w, _ := testWorker(1)

	// No live connection: the write fails silently but the coin is
	// remembered for the next handshake.
	w.SetCoin("MEME")

	w.coinMu.RLock()
	defer w.coinMu.RUnlock()
	if w.coin != "MEME" {
		t.Errorf("coin = %q, want MEME", w.coin)
	}
}

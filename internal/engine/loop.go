package engine

import (
	"context"
	"log/slog"
	"time"

	"rugwatch/internal/event"
	"rugwatch/internal/infra"
)

// Loop is the single consumer of engine state. Every tick it drains all
// pending feed events, applies queued user commands, then renders one
// snapshot. Events drained on a tick are always applied before that
// tick's commands, so a scroll issued this tick sees the just-applied
// events.
type Loop struct {
	engine   *Engine
	events   <-chan event.Event
	commands chan Command
	tick     time.Duration
	metrics  *infra.Metrics

	// render draws one snapshot; it runs on the loop goroutine.
	render func(Snapshot)

	// observer sees each event before it is returned to the pool.
	// It must not retain the event.
	observer func(event.Event)
}

// LoopOption configures optional loop behavior.
type LoopOption func(*Loop)

// WithEventObserver registers a side-channel consumer of applied
// events, e.g. a metadata catalog. The observer runs on the loop
// goroutine and must copy anything it keeps.
func WithEventObserver(fn func(event.Event)) LoopOption {
	return func(l *Loop) { l.observer = fn }
}

// NewLoop wires the engine to its event source and renderer.
func NewLoop(e *Engine, events <-chan event.Event, commandBuffer int, tick time.Duration, metrics *infra.Metrics, render func(Snapshot), opts ...LoopOption) *Loop {
	l := &Loop{
		engine:   e,
		events:   events,
		commands: make(chan Command, commandBuffer),
		tick:     tick,
		metrics:  metrics,
		render:   render,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Commands returns the queue the input mapper feeds. Sends must not
// block the input goroutine; a full queue drops the command.
func (l *Loop) Commands() chan<- Command {
	return l.commands
}

// Run drives the tick loop until a Quit command or ctx cancellation.
// This MUST be run in a single goroutine: it is the engine's only
// mutator.
func (l *Loop) Run(ctx context.Context) error {
	slog.Info("Render loop started", slog.Duration("tick", l.tick))

	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Render loop stopping...")
			return ctx.Err()
		case <-ticker.C:
			l.drainEvents()
			if quit := l.drainCommands(); quit {
				slog.Info("Quit command received")
				return nil
			}
			if l.render != nil {
				l.render(l.engine.Snapshot())
			}
		}
	}
}

// drainEvents applies every pending event in arrival order, then
// returns pooled events for reuse.
func (l *Loop) drainEvents() {
	for {
		select {
		case ev := <-l.events:
			l.engine.ApplyEvent(ev)
			l.metrics.RecordEventApplied()
			if l.observer != nil {
				l.observer(ev)
			}
			event.Release(ev)
		default:
			return
		}
	}
}

func (l *Loop) drainCommands() (quit bool) {
	for {
		select {
		case cmd := <-l.commands:
			l.metrics.RecordCommand()
			if l.engine.ApplyCommand(cmd) {
				return true
			}
		default:
			return false
		}
	}
}

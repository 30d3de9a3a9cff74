package rugplay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"rugwatch/internal/domain"
	"rugwatch/internal/event"
	"rugwatch/internal/infra"

	"github.com/gorilla/websocket"
)

// Worker owns the single logical connection to the rugplay feed. It
// dials, performs the subscription handshake, reads frames, decodes
// them, and pushes events into the bounded inbox. On disconnect it
// retries forever with capped exponential backoff; data lost during an
// outage is lost.
type Worker struct {
	url             string
	channels        []string
	handshake       time.Duration
	readTimeout     time.Duration
	backoffBase     time.Duration
	backoffMax      time.Duration
	startupAttempts int // 0 = never give up, even before the first connect

	inbox   chan event.Event
	metrics *infra.Metrics

	conn    *websocket.Conn
	mu      sync.RWMutex
	writeMu sync.Mutex

	coinMu sync.RWMutex
	coin   string // current set_coin target, re-issued on reconnect

	status statusVar
	fatal  chan error

	everConnected bool
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// NewWorker creates a feed worker. Decoded events go to inbox; the
// worker never closes inbox.
func NewWorker(cfg *infra.Config, inbox chan event.Event, metrics *infra.Metrics) *Worker {
	return &Worker{
		url:             cfg.Feed.WSURL,
		channels:        cfg.Feed.Channels,
		handshake:       time.Duration(cfg.Feed.HandshakeSec) * time.Second,
		readTimeout:     time.Duration(cfg.Feed.ReadTimeoutSec) * time.Second,
		backoffBase:     time.Duration(cfg.Feed.BackoffBaseMS) * time.Millisecond,
		backoffMax:      time.Duration(cfg.Feed.BackoffMaxSec) * time.Second,
		startupAttempts: cfg.Feed.StartupAttempts,
		inbox:           inbox,
		metrics:         metrics,
		coin:            cfg.Feed.DefaultCoin,
		fatal:           make(chan error, 1),
	}
}

// Connect starts the connection loop in its own goroutine.
func (w *Worker) Connect(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.connectionLoop(ctx)
	return nil
}

// Status returns a copy of the current connection status.
func (w *Worker) Status() Status {
	return w.status.get()
}

// Fatal delivers the terminal error if the startup attempt budget is
// exhausted without ever connecting. The channel never fires once a
// connection has succeeded.
func (w *Worker) Fatal() <-chan error {
	return w.fatal
}

func (w *Worker) connectionLoop(ctx context.Context) {
	defer w.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Feed worker panic recovered", slog.Any("panic", r))
		}
	}()

	attempt := 0
	for {
		select {
		case <-ctx.Done():
			slog.Info("Feed connection loop stopped")
			return
		default:
		}

		if err := w.connect(ctx); err != nil {
			delay := infra.Jitter(infra.Backoff(attempt, w.backoffBase, w.backoffMax))
			attempt++
			w.metrics.RecordReconnect()

			if !w.everConnected && w.startupAttempts > 0 && attempt >= w.startupAttempts {
				w.status.set(Status{State: StateFailed, Attempt: attempt})
				w.fatal <- domain.NewFatalNetworkError("connect",
					fmt.Errorf("%w after %d attempts: %v", domain.ErrConnectionFailed, attempt, err))
				return
			}

			w.status.set(Status{State: StateReconnecting, Attempt: attempt, NextDelay: delay})
			slog.Warn("Feed connection failed",
				slog.Any("error", err),
				slog.Int("attempt", attempt),
				slog.Duration("next_delay", delay),
			)

			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
				continue
			}
		}

		// Connection successful, reset the attempt counter
		attempt = 0
		w.everConnected = true
		w.status.set(Status{State: StateConnected})
		w.metrics.SetConnected(true)

		// Read frames until the connection drops
		w.readLoop(ctx)

		w.metrics.SetConnected(false)
		w.status.set(Status{State: StateReconnecting, Attempt: 0})
	}
}

// connect dials the feed and performs the subscription handshake.
func (w *Worker) connect(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: w.handshake,
	}

	header := make(http.Header)
	header.Add("User-Agent", infra.DefaultUserAgent)

	conn, _, err := dialer.DialContext(ctx, w.url, header)
	if err != nil {
		return domain.NewNetworkError("dial", err)
	}

	w.mu.Lock()
	w.conn = conn
	w.mu.Unlock()

	if err := w.subscribe(); err != nil {
		w.closeConnection()
		return domain.NewNetworkError("subscribe", err)
	}

	slog.Info("Feed connected",
		slog.String("url", w.url),
		slog.Int("channels", len(w.channels)),
	)
	return nil
}

// subscribe re-issues the full handshake: one subscribe frame per
// channel, then set_coin for the currently tracked coin. Called on
// every successful (re)connect; nothing is replayed beyond this.
func (w *Worker) subscribe() error {
	for _, ch := range w.channels {
		msg := subscribeMessage{Type: "subscribe", Channel: ch}
		b, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		if err := w.threadSafeWrite(websocket.TextMessage, b); err != nil {
			return err
		}
	}

	w.coinMu.RLock()
	coin := w.coin
	w.coinMu.RUnlock()

	return w.sendSetCoin(coin)
}

// SetCoin switches the feed's price_update stream to the given coin and
// remembers it for the next reconnect handshake. A write failure is not
// fatal; the coin still takes effect on reconnect.
func (w *Worker) SetCoin(symbol string) {
	w.coinMu.Lock()
	w.coin = symbol
	w.coinMu.Unlock()

	if err := w.sendSetCoin(symbol); err != nil {
		slog.Warn("set_coin write failed", slog.String("coin", symbol), slog.Any("error", err))
	}
}

func (w *Worker) sendSetCoin(symbol string) error {
	if symbol == "" {
		return nil
	}
	b, err := json.Marshal(setCoinMessage{Type: "set_coin", CoinSymbol: symbol})
	if err != nil {
		return err
	}
	return w.threadSafeWrite(websocket.TextMessage, b)
}

func (w *Worker) threadSafeWrite(messageType int, data []byte) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	w.mu.RLock()
	conn := w.conn
	w.mu.RUnlock()

	if conn == nil {
		return errors.New("connection is nil")
	}

	return conn.WriteMessage(messageType, data)
}

func (w *Worker) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.closeConnection()
			return
		default:
		}

		w.mu.RLock()
		conn := w.conn
		w.mu.RUnlock()

		if conn == nil {
			return
		}

		conn.SetReadDeadline(time.Now().Add(w.readTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("Feed read error", slog.Any("error", err))
			}
			w.closeConnection()
			return
		}

		w.handleFrame(message)
	}
}

// handleFrame decodes one frame and hands the event to the engine side.
func (w *Worker) handleFrame(frame []byte) {
	w.metrics.RecordFrame()

	ev, err := Decode(frame)
	if err != nil {
		w.metrics.RecordDecodeError()
		slog.Debug("Dropped feed frame", slog.Any("error", err))
		return
	}

	// Keepalive stays inside the transport
	if _, ok := ev.(*event.PingEvent); ok {
		b, _ := json.Marshal(pongMessage{Type: "pong"})
		if err := w.threadSafeWrite(websocket.TextMessage, b); err != nil {
			slog.Debug("Pong write failed", slog.Any("error", err))
		}
		return
	}

	w.push(ev)
}

// push delivers an event into the bounded inbox. When the consumer side
// falls behind, the oldest undelivered event is evicted so the feed
// reader never blocks (freshness over completeness).
func (w *Worker) push(ev event.Event) {
	select {
	case w.inbox <- ev:
		return
	default:
	}

	select {
	case old := <-w.inbox:
		event.Release(old)
		w.metrics.RecordEventDropped()
	default:
	}

	select {
	case w.inbox <- ev:
	default:
		event.Release(ev)
		w.metrics.RecordEventDropped()
	}
}

func (w *Worker) closeConnection() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
}

// Disconnect stops the connection loop and closes the socket.
func (w *Worker) Disconnect() {
	if w.cancel != nil {
		w.cancel()
	}
	w.closeConnection()
	w.wg.Wait()
	w.metrics.SetConnected(false)
	slog.Info("Feed disconnected")
}

// IsConnected returns connection status
func (w *Worker) IsConnected() bool {
	return w.Status().State == StateConnected
}

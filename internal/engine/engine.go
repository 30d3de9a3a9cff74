package engine

import (
	"fmt"
	"log/slog"
	"strings"

	"rugwatch/internal/domain"
	"rugwatch/internal/event"

	"github.com/shopspring/decimal"
)

// Engine owns all mutable view state: trade history, per-coin price
// history, filters, and cursors. It is mutated by exactly one goroutine
// (the run loop); ApplyEvent and ApplyCommand are the only mutators and
// Snapshot is the only read surface.
//
// Event application does not deduplicate: the feed carries no event
// identifiers, so an identical event delivered twice appends twice.
type Engine struct {
	trades   *Ring[domain.Trade]
	prices   map[string]*Ring[domain.PriceUpdate]
	priceCap int

	// allPrices interleaves updates across coins, shown when the
	// tracked target is the whole market rather than one coin.
	allPrices *Ring[domain.PriceUpdate]

	threshold    decimal.Decimal
	coinFilter   string
	traderFilter string

	activePage  Page
	activeTab   Tab
	scroll      map[View]int
	viewport    map[View]int
	trackedCoin string

	// onSelectCoin lets the transport re-point the feed's price stream
	// when the user tracks a new coin. May be nil in tests.
	onSelectCoin func(symbol string)

	// onToggleFavorite hands a favorite toggle for the tracked coin to
	// the persistence side. May be nil in tests.
	onToggleFavorite func(symbol string)
}

// Option configures an Engine.
type Option func(*Engine)

// WithSelectCoinHook registers a callback invoked when a SelectCoin
// command is applied.
func WithSelectCoinHook(fn func(symbol string)) Option {
	return func(e *Engine) { e.onSelectCoin = fn }
}

// WithFavoriteHook registers a callback invoked when a ToggleFavorite
// command is applied to a concrete tracked coin.
func WithFavoriteHook(fn func(symbol string)) Option {
	return func(e *Engine) { e.onToggleFavorite = fn }
}

// NewEngine creates an engine with the given history capacities and
// large-trade threshold. Non-positive capacities are a configuration
// fault and abort startup.
func NewEngine(tradeCapacity, priceCapacity int, threshold decimal.Decimal, opts ...Option) (*Engine, error) {
	if tradeCapacity <= 0 {
		return nil, &domain.ConfigError{Field: "trade_capacity", Err: fmt.Errorf("must be positive, got %d", tradeCapacity)}
	}
	if priceCapacity <= 0 {
		return nil, &domain.ConfigError{Field: "price_capacity", Err: fmt.Errorf("must be positive, got %d", priceCapacity)}
	}
	if threshold.IsNegative() {
		return nil, &domain.ConfigError{Field: "large_trade_threshold", Err: fmt.Errorf("must not be negative")}
	}

	e := &Engine{
		trades:    NewRing[domain.Trade](tradeCapacity),
		prices:    make(map[string]*Ring[domain.PriceUpdate]),
		priceCap:  priceCapacity,
		allPrices: NewRing[domain.PriceUpdate](priceCapacity),
		threshold: threshold,
		scroll:    make(map[View]int),
		viewport:  make(map[View]int),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// ApplyEvent folds one decoded feed event into state. Ingestion is
// never filtered; filters apply at query time only.
func (e *Engine) ApplyEvent(ev event.Event) {
	switch t := ev.(type) {
	case *event.TradeEvent:
		// The large channel rebroadcasts trades already carried on the
		// all channel; appending both would double every large trade.
		// The threshold classifies, so the rebroadcast adds nothing.
		if t.Channel == event.ChannelLiveTrade {
			return
		}
		e.trades.Push(t.Trade)
	case *event.PriceUpdateEvent:
		ring, ok := e.prices[t.Update.CoinSymbol]
		if !ok {
			ring = NewRing[domain.PriceUpdate](e.priceCap)
			e.prices[t.Update.CoinSymbol] = ring
		}
		ring.Push(t.Update)
		e.allPrices.Push(t.Update)
	default:
		slog.Warn("Unknown event type", slog.Any("type", ev.EventType()))
	}
}

// ApplyCommand applies one user command. It returns true when the
// command asks the application to quit.
func (e *Engine) ApplyCommand(cmd Command) (quit bool) {
	switch c := cmd.(type) {
	case SwitchPage:
		if e.activePage == PageTradeMonitor {
			e.activePage = PagePriceTracker
		} else {
			e.activePage = PageTradeMonitor
		}
	case SwitchTab:
		if e.activeTab == TabAllTrades {
			e.activeTab = TabLargeTrades
		} else {
			e.activeTab = TabAllTrades
		}
	case SetCoinFilter:
		e.coinFilter = c.Symbol
		e.scroll[e.activeTradeView()] = 0
	case SetTraderFilter:
		e.traderFilter = c.Name
		e.scroll[e.activeTradeView()] = 0
	case ScrollBy:
		e.scroll[c.View] = e.clampOffset(c.View, e.scroll[c.View]+c.Delta)
	case SelectCoin:
		e.trackedCoin = c.Symbol
		e.scroll[ViewPriceTracker] = 0
		if e.onSelectCoin != nil && c.Symbol != "" {
			e.onSelectCoin(c.Symbol)
		}
	case ToggleFavorite:
		// Favorites are per-coin; nothing to mark when tracking the
		// whole market.
		if e.onToggleFavorite != nil && e.trackedCoin != "" && e.trackedCoin != GlobalTarget {
			e.onToggleFavorite(e.trackedCoin)
		}
	case Quit:
		return true
	}
	return false
}

// SetViewport records a view's visible row count, fed back from the
// renderer's last layout. Offsets are re-clamped against it.
func (e *Engine) SetViewport(v View, height int) {
	if height < 0 {
		height = 0
	}
	e.viewport[v] = height
	e.scroll[v] = e.clampOffset(v, e.scroll[v])
}

func (e *Engine) activeTradeView() View {
	if e.activeTab == TabLargeTrades {
		return ViewLargeTrades
	}
	return ViewAllTrades
}

// clampOffset clamps into [0, max(0, length-viewport)].
func (e *Engine) clampOffset(v View, offset int) int {
	max := e.viewLen(v) - e.viewport[v]
	if max < 0 {
		max = 0
	}
	if offset > max {
		offset = max
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

func (e *Engine) viewLen(v View) int {
	switch v {
	case ViewAllTrades:
		return len(e.filteredTrades(TabAllTrades))
	case ViewLargeTrades:
		return len(e.filteredTrades(TabLargeTrades))
	case ViewPriceTracker:
		return len(e.trackedPrices())
	}
	return 0
}

// filteredTrades returns retained trades matching the tab and the
// current filters, most-recent-first. Matching is case-insensitive
// substring; an empty filter matches everything. Filtering is evaluated
// over the retained window only and never mutates history.
func (e *Engine) filteredTrades(tab Tab) []domain.Trade {
	items := e.trades.ItemsNewestFirst()
	out := make([]domain.Trade, 0, len(items))
	for _, tr := range items {
		if tab == TabLargeTrades && !tr.IsLarge(e.threshold) {
			continue
		}
		if !matchFilter(tr.CoinSymbol, e.coinFilter) {
			continue
		}
		if !matchFilter(tr.Trader, e.traderFilter) {
			continue
		}
		out = append(out, tr)
	}
	return out
}

// trackedPrices returns the tracked coin's price history,
// most-recent-first. The GlobalTarget shows updates across all coins
// interleaved; no tracked coin means an empty list.
func (e *Engine) trackedPrices() []domain.PriceUpdate {
	switch e.trackedCoin {
	case "":
		return nil
	case GlobalTarget:
		return e.allPrices.ItemsNewestFirst()
	}
	ring, ok := e.prices[e.trackedCoin]
	if !ok {
		return nil
	}
	return ring.ItemsNewestFirst()
}

func matchFilter(value, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(filter))
}

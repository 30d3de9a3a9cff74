package engine

import (
	"rugwatch/internal/domain"

	"github.com/shopspring/decimal"
)

// Snapshot is an isolated, read-only view of engine state handed to the
// renderer for one tick. All slices are fresh copies; the renderer never
// observes state the engine is concurrently mutating.
type Snapshot struct {
	ActivePage Page
	ActiveTab  Tab

	CoinFilter   string
	TraderFilter string
	Threshold    decimal.Decimal
	TrackedCoin  string

	// Trades for the active tab, filtered, most-recent-first.
	Trades []domain.Trade
	// Total retained trades before filtering, for the status line.
	TradeTotal int
	// LargeCount is the number of retained trades at or above the
	// threshold, before coin/trader filtering.
	LargeCount int

	// Tracked coin's price history, most-recent-first, and its latest
	// tick (nil when nothing is tracked or no tick has arrived).
	Prices      []domain.PriceUpdate
	LatestPrice *domain.PriceUpdate

	// Scroll offsets per view, already clamped.
	ScrollOffsets map[View]int
}

// Snapshot builds the render view for this tick. It deep-copies
// everything it exposes.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		ActivePage:    e.activePage,
		ActiveTab:     e.activeTab,
		CoinFilter:    e.coinFilter,
		TraderFilter:  e.traderFilter,
		Threshold:     e.threshold,
		TrackedCoin:   e.trackedCoin,
		Trades:        e.filteredTrades(e.activeTab),
		TradeTotal:    e.trades.Len(),
		Prices:        e.trackedPrices(),
		ScrollOffsets: make(map[View]int, len(e.scroll)),
	}

	for _, tr := range e.trades.Items() {
		if tr.IsLarge(e.threshold) {
			snap.LargeCount++
		}
	}

	if len(snap.Prices) > 0 {
		latest := snap.Prices[0]
		snap.LatestPrice = &latest
	}

	for v := range e.scroll {
		snap.ScrollOffsets[v] = e.clampOffset(v, e.scroll[v])
	}

	return snap
}

// TrackedCoin returns the currently tracked coin symbol.
func (e *Engine) TrackedCoin() string {
	return e.trackedCoin
}

// Filters returns the current filter values for session persistence.
func (e *Engine) Filters() (coin, trader string) {
	return e.coinFilter, e.traderFilter
}

// Threshold returns the configured large-trade threshold.
func (e *Engine) Threshold() decimal.Decimal {
	return e.threshold
}

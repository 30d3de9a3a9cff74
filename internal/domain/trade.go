package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of a trade as reported by the feed.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Trade represents one executed trade received from the feed.
// Trades are immutable once constructed; identity is arrival order,
// the feed provides no unique event IDs.
type Trade struct {
	CoinSymbol string          `json:"coin_symbol"` // e.g. "TEST"
	CoinName   string          `json:"coin_name"`
	CoinIcon   string          `json:"coin_icon"` // icon URL from the feed
	Trader     string          `json:"trader"`    // feed username
	TraderID   string          `json:"trader_id"`
	Side       Side            `json:"side"`
	Amount     decimal.Decimal `json:"amount"` // coin quantity
	Price      decimal.Decimal `json:"price"`  // unit price
	Value      decimal.Decimal `json:"value"`  // total value of the trade
	Timestamp  time.Time       `json:"timestamp"`
}

// IsLarge reports whether the trade meets the large-trade threshold.
func (t *Trade) IsLarge(threshold decimal.Decimal) bool {
	return t.Value.GreaterThanOrEqual(threshold)
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceUpdate represents one price tick for a coin from the feed.
// The latest update for a coin supersedes prior ones for display,
// but never erases retained history entries.
type PriceUpdate struct {
	CoinSymbol string          `json:"coin_symbol"`
	Price      decimal.Decimal `json:"price"`
	Change24h  decimal.Decimal `json:"change_24h"` // 24h change (%)
	MarketCap  decimal.Decimal `json:"market_cap"`
	Volume24h  decimal.Decimal `json:"volume_24h"`
	Timestamp  time.Time       `json:"timestamp"`
}

// ChangeDirection returns "positive", "negative", or "neutral"
func (p *PriceUpdate) ChangeDirection() string {
	if p.Change24h.IsPositive() {
		return "positive"
	}
	if p.Change24h.IsNegative() {
		return "negative"
	}
	return "neutral"
}

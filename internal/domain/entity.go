package domain

import (
	"time"
)

// CoinInfo represents metadata for a coin observed on the feed
type CoinInfo struct {
	Symbol     string    `gorm:"primaryKey" json:"symbol"`
	Name       string    `json:"name"`
	IconURL    string    `json:"icon_url"`
	IconPath   string    `json:"icon_path"`
	IsFavorite bool      `json:"is_favorite" gorm:"index"` // User favorite status
	LastSeenAt time.Time `json:"last_seen_at"`             // Last time the feed mentioned this coin
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SessionPref represents user-specific session preferences (Key-Value)
type SessionPref struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Well-known SessionPref keys.
const (
	PrefTrackedCoin    = "tracked_coin"
	PrefCoinFilter     = "coin_filter"
	PrefTraderFilter   = "trader_filter"
	PrefLargeThreshold = "large_trade_threshold"
)

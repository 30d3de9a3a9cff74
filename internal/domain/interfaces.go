package domain

import "time"

// CoinRepository defines how coin metadata observed on the feed is
// persisted. Satisfied by the SQLite storage layer; consumers accept
// the interface so tests can substitute an in-memory fake.
type CoinRepository interface {
	RecordCoinSeen(symbol, name, iconURL string, seenAt time.Time) error
	GetCoin(symbol string) (*CoinInfo, error)
	UpsertCoin(coin *CoinInfo) error
	ToggleFavorite(symbol string) (bool, error)
}

package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"rugwatch/internal/domain"
	"rugwatch/internal/event"
	"rugwatch/internal/infra/storage"
)

func setupCatalog(t *testing.T) (*Catalog, *storage.Storage) {
	st, err := storage.NewStorageAt(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return NewCatalog(st, nil), st
}

func waitForCoin(t *testing.T, st *storage.Storage, symbol string) *domain.CoinInfo {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		coin, err := st.GetCoin(symbol)
		if err != nil {
			t.Fatalf("GetCoin failed: %v", err)
		}
		if coin != nil {
			return coin
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("coin %s never persisted", symbol)
	return nil
}

func TestCatalog_PersistsTradeMetadata(t *testing.T) {
	c, st := setupCatalog(t)
	c.Start(context.Background())
	defer c.Stop()

	c.Observe(&event.TradeEvent{Trade: domain.Trade{
		CoinSymbol: "MOON",
		CoinName:   "Moon Coin",
		CoinIcon:   "https://cdn.example.com/moon.png",
		Side:       domain.SideBuy,
		Value:      decimal.NewFromInt(100),
		Timestamp:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}})

	coin := waitForCoin(t, st, "MOON")
	if coin.Name != "Moon Coin" {
		t.Errorf("name = %q, want Moon Coin", coin.Name)
	}
	if coin.IconURL != "https://cdn.example.com/moon.png" {
		t.Errorf("icon URL = %q", coin.IconURL)
	}
}

func TestCatalog_PriceUpdateRefreshesSighting(t *testing.T) {
	c, st := setupCatalog(t)
	c.Start(context.Background())
	defer c.Stop()

	seen := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.Observe(&event.PriceUpdateEvent{Update: domain.PriceUpdate{
		CoinSymbol: "DOGE2",
		Price:      decimal.NewFromInt(1),
		Timestamp:  seen,
	}})

	coin := waitForCoin(t, st, "DOGE2")
	if !coin.LastSeenAt.Equal(seen) {
		t.Errorf("last seen = %v, want %v", coin.LastSeenAt, seen)
	}
}

func TestCatalog_ThrottlesRepeatSightings(t *testing.T) {
	c, _ := setupCatalog(t)
	// not started: jobs stay queued so they can be counted

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		c.Observe(&event.TradeEvent{Trade: domain.Trade{
			CoinSymbol: "MOON",
			Timestamp:  base.Add(time.Duration(i) * time.Second),
		}})
	}
	if got := len(c.jobs); got != 1 {
		t.Errorf("queued writes = %d, want 1", got)
	}

	// past the throttle window a new write goes through
	c.Observe(&event.TradeEvent{Trade: domain.Trade{
		CoinSymbol: "MOON",
		Timestamp:  base.Add(catalogWriteInterval),
	}})
	if got := len(c.jobs); got != 2 {
		t.Errorf("queued writes after interval = %d, want 2", got)
	}
}

func TestCatalog_IgnoresEmptySymbolsAndPings(t *testing.T) {
	c, _ := setupCatalog(t)

	c.Observe(&event.PingEvent{})
	c.Observe(&event.TradeEvent{Trade: domain.Trade{CoinSymbol: ""}})
	if got := len(c.jobs); got != 0 {
		t.Errorf("queued writes = %d, want 0", got)
	}
}

func TestCatalog_ToggleFavoritePersists(t *testing.T) {
	c, st := setupCatalog(t)
	if err := st.UpsertCoin(&domain.CoinInfo{Symbol: "MOON", Name: "Moon Coin"}); err != nil {
		t.Fatalf("UpsertCoin failed: %v", err)
	}
	c.Start(context.Background())
	defer c.Stop()

	c.ToggleFavorite("MOON")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		coin, err := st.GetCoin("MOON")
		if err != nil {
			t.Fatalf("GetCoin failed: %v", err)
		}
		if coin.IsFavorite {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("favorite flag never persisted")
}

func TestCatalog_ToggleFavoriteEmptySymbolIgnored(t *testing.T) {
	c, _ := setupCatalog(t)

	c.ToggleFavorite("")
	if got := len(c.favorites); got != 0 {
		t.Errorf("queued toggles = %d, want 0", got)
	}
}

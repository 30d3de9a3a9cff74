package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"rugwatch/internal/domain"
	"rugwatch/internal/engine"
	"rugwatch/internal/infra"
	"rugwatch/internal/infra/storage"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config     *infra.Config
	Storage    *storage.Storage
	Downloader *infra.IconDownloader
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization (DB, Dir, etc.)
func (b *Bootstrap) Initialize(configPath string) error {
	// 1. Load Config
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)
	slog.Info("Bootstrapping",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version))

	// 3. Initialize Storage (DB)
	store, err := storage.NewStorage()
	if err != nil {
		return err
	}
	b.Storage = store
	slog.Info("Database initialized")

	// 4. Initialize Icon Downloader
	downloader, err := infra.NewIconDownloader()
	if err != nil {
		return err
	}
	b.Downloader = downloader

	return nil
}

// SessionPrefs is the view state restored across runs.
type SessionPrefs struct {
	TrackedCoin  string
	CoinFilter   string
	TraderFilter string
	Threshold    decimal.Decimal // zero means no override
}

// RestorePrefs loads the previous session's view state. Missing or
// unparsable values fall back to zero values; the caller applies
// config defaults.
func (b *Bootstrap) RestorePrefs() (SessionPrefs, error) {
	raw, err := b.Storage.LoadPrefs()
	if err != nil {
		return SessionPrefs{}, err
	}

	prefs := SessionPrefs{
		TrackedCoin:  raw[domain.PrefTrackedCoin],
		CoinFilter:   raw[domain.PrefCoinFilter],
		TraderFilter: raw[domain.PrefTraderFilter],
	}
	if v := raw[domain.PrefLargeThreshold]; v != "" {
		if d, err := decimal.NewFromString(v); err == nil && d.IsPositive() {
			prefs.Threshold = d
		} else {
			slog.Warn("Ignoring invalid stored threshold", slog.String("value", v))
		}
	}
	return prefs, nil
}

// SavePrefs persists the current session's view state for the next
// run. The threshold is deliberately not written back: it belongs to
// the config file, and the stored override (PrefLargeThreshold) is
// only ever set by hand.
func (b *Bootstrap) SavePrefs(s engine.Snapshot) {
	pairs := map[string]string{
		domain.PrefTrackedCoin:  s.TrackedCoin,
		domain.PrefCoinFilter:   s.CoinFilter,
		domain.PrefTraderFilter: s.TraderFilter,
	}
	for key, value := range pairs {
		if err := b.Storage.SavePref(key, value); err != nil {
			slog.Warn("Failed to save preference",
				slog.String("key", key), slog.Any("error", err))
		}
	}
}

// WarmIconCache re-downloads missing icons for coins already in the
// database, in the background.
func (b *Bootstrap) WarmIconCache(ctx context.Context) {
	coins, err := b.Storage.GetAllCoins()
	if err != nil {
		slog.Warn("Failed to list coins for icon warmup", slog.Any("error", err))
		return
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, 5) // Limit concurrent downloads

	for _, coin := range coins {
		if coin.IconPath != "" || coin.IconURL == "" {
			continue
		}
		wg.Add(1)
		go func(coin domain.CoinInfo) {
			defer wg.Done()
			select {
			case <-ctx.Done():
				return
			case semaphore <- struct{}{}: // Acquire
			}
			defer func() { <-semaphore }() // Release

			path, err := b.Downloader.DownloadIcon(coin.Symbol, coin.IconURL)
			if err != nil {
				slog.Debug("Icon warmup failed",
					slog.String("symbol", coin.Symbol), slog.Any("error", err))
				return
			}
			coin.IconPath = path
			if err := b.Storage.UpsertCoin(&coin); err != nil {
				slog.Warn("Failed to save icon path",
					slog.String("symbol", coin.Symbol), slog.Any("error", err))
			}
		}(coin)
	}

	wg.Wait()
}

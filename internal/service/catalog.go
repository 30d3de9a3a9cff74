package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"rugwatch/internal/domain"
	"rugwatch/internal/event"
	"rugwatch/internal/infra"
)

// writes for the same symbol closer together than this are skipped
const catalogWriteInterval = 30 * time.Second

type coinMeta struct {
	symbol  string
	name    string
	iconURL string
	seenAt  time.Time
}

// Catalog records coin metadata observed on the live feed into the
// local database and warms the icon cache. Observe runs on the render
// loop goroutine and never blocks; persistence happens on a dedicated
// worker goroutine.
type Catalog struct {
	storage domain.CoinRepository
	icons   *infra.IconDownloader

	jobs      chan coinMeta
	favorites chan string

	// lastWrite is touched only from the Observe caller's goroutine
	lastWrite map[string]time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCatalog creates a catalog. icons may be nil to disable icon
// caching.
func NewCatalog(st domain.CoinRepository, icons *infra.IconDownloader) *Catalog {
	return &Catalog{
		storage:   st,
		icons:     icons,
		jobs:      make(chan coinMeta, 256),
		favorites: make(chan string, 16),
		lastWrite: make(map[string]time.Time),
	}
}

// Start launches the persistence worker.
func (c *Catalog) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	c.wg.Add(1)
	go c.worker(ctx)
}

// Stop shuts the worker down and waits for in-flight writes.
func (c *Catalog) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
}

// Observe extracts coin metadata from a feed event and enqueues it for
// persistence. Trades carry name and icon URL; price updates only
// refresh the last-seen time. A full queue drops the note, the next
// sighting of the coin will catch up.
func (c *Catalog) Observe(ev event.Event) {
	var meta coinMeta
	switch e := ev.(type) {
	case *event.TradeEvent:
		meta = coinMeta{
			symbol:  e.Trade.CoinSymbol,
			name:    e.Trade.CoinName,
			iconURL: e.Trade.CoinIcon,
			seenAt:  e.Trade.Timestamp,
		}
	case *event.PriceUpdateEvent:
		meta = coinMeta{
			symbol: e.Update.CoinSymbol,
			seenAt: e.Update.Timestamp,
		}
	default:
		return
	}
	if meta.symbol == "" {
		return
	}

	if last, ok := c.lastWrite[meta.symbol]; ok && meta.seenAt.Sub(last) < catalogWriteInterval {
		return
	}

	select {
	case c.jobs <- meta:
		c.lastWrite[meta.symbol] = meta.seenAt
	default:
		// queue full, skip
	}
}

// ToggleFavorite flips the persisted favorite flag for a coin. Called
// from the render loop goroutine; it never blocks, a full queue drops
// the toggle.
func (c *Catalog) ToggleFavorite(symbol string) {
	if symbol == "" {
		return
	}
	select {
	case c.favorites <- symbol:
	default:
	}
}

func (c *Catalog) worker(ctx context.Context) {
	defer c.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case meta := <-c.jobs:
			c.persist(meta)
		case symbol := <-c.favorites:
			if fav, err := c.storage.ToggleFavorite(symbol); err != nil {
				slog.Warn("Failed to toggle favorite",
					slog.String("symbol", symbol),
					slog.Any("error", err))
			} else {
				slog.Info("Favorite toggled",
					slog.String("symbol", symbol),
					slog.Bool("favorite", fav))
			}
		}
	}
}

func (c *Catalog) persist(meta coinMeta) {
	if err := c.storage.RecordCoinSeen(meta.symbol, meta.name, meta.iconURL, meta.seenAt); err != nil {
		slog.Warn("Failed to record coin metadata",
			slog.String("symbol", meta.symbol),
			slog.Any("error", err))
		return
	}

	if c.icons == nil || meta.iconURL == "" {
		return
	}
	coin, err := c.storage.GetCoin(meta.symbol)
	if err != nil || coin == nil || coin.IconPath != "" {
		return
	}
	path, err := c.icons.DownloadIcon(meta.symbol, meta.iconURL)
	if err != nil {
		slog.Debug("Icon download failed",
			slog.String("symbol", meta.symbol),
			slog.Any("error", err))
		return
	}
	coin.IconPath = path
	if err := c.storage.UpsertCoin(coin); err != nil {
		slog.Warn("Failed to save icon path",
			slog.String("symbol", meta.symbol),
			slog.Any("error", err))
	}
}

package event

import (
	"rugwatch/internal/domain"
)

// Type discriminates decoded feed events.
type Type string

const (
	TypeTrade       Type = "trade"
	TypePriceUpdate Type = "price_update"
	TypePing        Type = "ping"
)

// Event is a decoded feed message. The decoder produces events, the
// engine loop consumes them in arrival order.
type Event interface {
	EventType() Type
}

// Feed channels a trade frame can arrive on. The large channel is a
// rebroadcast: every trade it carries is also on the all channel.
const (
	ChannelAllTrades = "all-trades"
	ChannelLiveTrade = "live-trade"
)

// TradeEvent carries one executed trade from the feed.
type TradeEvent struct {
	Trade   domain.Trade
	Channel string // ChannelAllTrades or ChannelLiveTrade
}

func (e *TradeEvent) EventType() Type { return TypeTrade }

// PriceUpdateEvent carries one price tick from the feed.
type PriceUpdateEvent struct {
	Update domain.PriceUpdate
}

func (e *PriceUpdateEvent) EventType() Type { return TypePriceUpdate }

// PingEvent is a keepalive probe from the feed. The transport answers it
// with a pong frame; it is never forwarded to the engine.
type PingEvent struct{}

func (e *PingEvent) EventType() Type { return TypePing }

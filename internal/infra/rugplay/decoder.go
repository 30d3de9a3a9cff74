package rugplay

import (
	"encoding/json"
	"strings"
	"time"

	"rugwatch/internal/domain"
	"rugwatch/internal/event"

	"github.com/shopspring/decimal"
)

// Feed frame discriminators.
const (
	msgTypeAllTrades   = event.ChannelAllTrades
	msgTypeLiveTrade   = event.ChannelLiveTrade
	msgTypePriceUpdate = "price_update"
	msgTypePing        = "ping"
)

// Decode parses one raw feed frame into a typed event. It is stateless
// and, except for stamping frames that omit a timestamp with the
// receive time, the same frame always yields the same event or error.
// Malformed or unknown frames return a *domain.DecodeError; the caller
// drops the frame and keeps reading.
func Decode(frame []byte) (event.Event, error) {
	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, domain.NewDecodeError("malformed json: "+err.Error(), frame)
	}

	switch env.Type {
	case msgTypePing:
		return &event.PingEvent{}, nil
	case msgTypeAllTrades, msgTypeLiveTrade:
		return decodeTrade(frame, env.Type)
	case msgTypePriceUpdate:
		return decodePrice(frame)
	case "":
		return nil, domain.NewDecodeError("missing type discriminator", frame)
	default:
		err := domain.NewDecodeError("unknown message type: "+env.Type, frame)
		err.Err = domain.ErrUnknownMessageType
		return nil, err
	}
}

func decodeTrade(frame []byte, channel string) (event.Event, error) {
	var msg tradeMessage
	if err := json.Unmarshal(frame, &msg); err != nil {
		return nil, domain.NewDecodeError("malformed trade: "+err.Error(), frame)
	}

	d := msg.Data
	switch {
	case d == nil:
		return nil, domain.NewDecodeError("trade missing data", frame)
	case d.CoinSymbol == "":
		return nil, domain.NewDecodeError("trade missing coinSymbol", frame)
	case d.Username == "":
		return nil, domain.NewDecodeError("trade missing username", frame)
	case d.Price == nil:
		return nil, domain.NewDecodeError("trade missing price", frame)
	case d.TotalValue == nil:
		return nil, domain.NewDecodeError("trade missing totalValue", frame)
	}

	var side domain.Side
	switch strings.ToUpper(d.Type) {
	case "BUY":
		side = domain.SideBuy
	case "SELL":
		side = domain.SideSell
	default:
		return nil, domain.NewDecodeError("unknown trade side: "+d.Type, frame)
	}

	amount := decimal.Zero
	if d.Amount != nil {
		amount = decimal.NewFromFloat(*d.Amount)
	}

	ev := event.AcquireTradeEvent()
	ev.Channel = channel
	ev.Trade = domain.Trade{
		CoinSymbol: d.CoinSymbol,
		CoinName:   d.CoinName,
		CoinIcon:   d.CoinIcon,
		Trader:     d.Username,
		TraderID:   d.UserID,
		Side:       side,
		Amount:     amount,
		Price:      decimal.NewFromFloat(*d.Price),
		Value:      decimal.NewFromFloat(*d.TotalValue),
		Timestamp:  frameTime(d.Timestamp),
	}
	return ev, nil
}

func decodePrice(frame []byte) (event.Event, error) {
	var msg priceMessage
	if err := json.Unmarshal(frame, &msg); err != nil {
		return nil, domain.NewDecodeError("malformed price_update: "+err.Error(), frame)
	}

	switch {
	case msg.CoinSymbol == "":
		return nil, domain.NewDecodeError("price_update missing coinSymbol", frame)
	case msg.CurrentPrice == nil:
		return nil, domain.NewDecodeError("price_update missing currentPrice", frame)
	}

	ev := event.AcquirePriceUpdateEvent()
	ev.Update = domain.PriceUpdate{
		CoinSymbol: msg.CoinSymbol,
		Price:      decimal.NewFromFloat(*msg.CurrentPrice),
		Change24h:  optDecimal(msg.Change24h),
		MarketCap:  optDecimal(msg.MarketCap),
		Volume24h:  optDecimal(msg.Volume24h),
		Timestamp:  frameTime(msg.Timestamp),
	}
	return ev, nil
}

// frameTime converts a feed epoch-millisecond stamp, falling back to the
// local receive time when the feed omits it.
func frameTime(ms int64) time.Time {
	if ms <= 0 {
		return time.Now()
	}
	return time.UnixMilli(ms)
}

func optDecimal(f *float64) decimal.Decimal {
	if f == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*f)
}

package event

import (
	"sync"

	"rugwatch/internal/domain"
)

// Pools for high-frequency event allocation. The decoder acquires an
// event per frame; the engine loop copies the payload into history and
// releases the event after applying it.
//
// Usage:
//
//	ev := AcquireTradeEvent()
//	ev.Trade = trade
//	// ... send through the pipeline ...
//	ReleaseTradeEvent(ev)  // Return to pool after processing
var tradePool = sync.Pool{
	New: func() interface{} {
		return &TradeEvent{}
	},
}

// AcquireTradeEvent gets a TradeEvent from the pool.
// The returned event has zero values and must be initialized.
func AcquireTradeEvent() *TradeEvent {
	return tradePool.Get().(*TradeEvent)
}

// ReleaseTradeEvent returns a TradeEvent to the pool.
// The event is reset to zero values before being pooled.
func ReleaseTradeEvent(ev *TradeEvent) {
	if ev == nil {
		return
	}
	ev.Trade = domain.Trade{}
	ev.Channel = ""

	tradePool.Put(ev)
}

// PriceUpdateEvent pool
var priceUpdatePool = sync.Pool{
	New: func() interface{} {
		return &PriceUpdateEvent{}
	},
}

// AcquirePriceUpdateEvent gets a PriceUpdateEvent from the pool.
func AcquirePriceUpdateEvent() *PriceUpdateEvent {
	return priceUpdatePool.Get().(*PriceUpdateEvent)
}

// ReleasePriceUpdateEvent returns a PriceUpdateEvent to the pool.
func ReleasePriceUpdateEvent(ev *PriceUpdateEvent) {
	if ev == nil {
		return
	}
	ev.Update = domain.PriceUpdate{}

	priceUpdatePool.Put(ev)
}

// Release returns any pooled event type to its pool. Non-pooled events
// are ignored.
func Release(ev Event) {
	switch e := ev.(type) {
	case *TradeEvent:
		ReleaseTradeEvent(e)
	case *PriceUpdateEvent:
		ReleasePriceUpdateEvent(e)
	}
}

// Warmup pre-allocates event objects to reduce GC pressure at startup.
// It acquires and releases a batch of events.
func Warmup() {
	const batchSize = 1000

	tradeEvs := make([]*TradeEvent, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		tradeEvs = append(tradeEvs, AcquireTradeEvent())
	}
	for _, ev := range tradeEvs {
		ReleaseTradeEvent(ev)
	}

	priceEvs := make([]*PriceUpdateEvent, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		priceEvs = append(priceEvs, AcquirePriceUpdateEvent())
	}
	for _, ev := range priceEvs {
		ReleasePriceUpdateEvent(ev)
	}
}

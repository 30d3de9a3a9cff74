package rugplay

// Wire types for the rugplay.com websocket feed. Every frame carries a
// "type" discriminator; unknown extra fields are ignored for forward
// compatibility.

// envelope is used for the first-pass discriminator probe.
type envelope struct {
	Type string `json:"type"`
}

// tradeData is the nested payload of all-trades / live-trade frames.
// Numeric fields are pointers so a missing field is distinguishable
// from a legitimate zero.
type tradeData struct {
	Type       string   `json:"type"` // BUY or SELL
	Username   string   `json:"username"`
	UserImage  string   `json:"userImage"`
	UserID     string   `json:"userId"`
	Amount     *float64 `json:"amount"`
	CoinSymbol string   `json:"coinSymbol"`
	CoinName   string   `json:"coinName"`
	CoinIcon   string   `json:"coinIcon"`
	TotalValue *float64 `json:"totalValue"`
	Price      *float64 `json:"price"`
	Timestamp  int64    `json:"timestamp"` // epoch milliseconds
}

// tradeMessage is a trade frame: {"type":"all-trades","data":{...}}.
type tradeMessage struct {
	Type string     `json:"type"`
	Data *tradeData `json:"data"`
}

// priceMessage is a flat price_update frame.
type priceMessage struct {
	Type         string   `json:"type"`
	CoinSymbol   string   `json:"coinSymbol"`
	CurrentPrice *float64 `json:"currentPrice"`
	MarketCap    *float64 `json:"marketCap"`
	Change24h    *float64 `json:"change24h"`
	Volume24h    *float64 `json:"volume24h"`
	Timestamp    int64    `json:"timestamp"`
}

// subscribeMessage is the outbound channel subscription.
type subscribeMessage struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
}

// setCoinMessage selects which coin's price updates the feed pushes.
// "@global" subscribes to all coins.
type setCoinMessage struct {
	Type       string `json:"type"`
	CoinSymbol string `json:"coinSymbol"`
}

// pongMessage answers a feed ping.
type pongMessage struct {
	Type string `json:"type"`
}

package engine

// GlobalTarget is the feed's pseudo-symbol for tracking every coin's
// price updates at once.
const GlobalTarget = "@global"

// Page is a top-level dashboard page.
type Page int

const (
	PageTradeMonitor Page = iota
	PagePriceTracker
)

func (p Page) String() string {
	if p == PagePriceTracker {
		return "Price Tracker"
	}
	return "Trade Monitor"
}

// Tab selects which trade list the Trade Monitor shows.
type Tab int

const (
	TabAllTrades Tab = iota
	TabLargeTrades
)

func (t Tab) String() string {
	if t == TabLargeTrades {
		return "Large Trades"
	}
	return "All Trades"
}

// View identifies a scrollable list. Each view owns its own offset;
// switching pages or tabs never resets another view's position.
type View int

const (
	ViewAllTrades View = iota
	ViewLargeTrades
	ViewPriceTracker
)

// Command is a state-mutating user intent. The set is closed: the input
// mapper produces exactly these and nothing else.
type Command interface {
	isCommand()
}

// SwitchPage toggles between Trade Monitor and Price Tracker.
type SwitchPage struct{}

// SwitchTab toggles between All Trades and Large Trades.
type SwitchTab struct{}

// SetCoinFilter narrows trade queries to coins matching Symbol.
// An empty Symbol clears the filter.
type SetCoinFilter struct {
	Symbol string
}

// SetTraderFilter narrows trade queries to traders matching Name.
// An empty Name clears the filter.
type SetTraderFilter struct {
	Name string
}

// ScrollBy moves a view's offset by Delta rows; the result is clamped.
type ScrollBy struct {
	View  View
	Delta int
}

// SelectCoin sets the tracked coin for the Price Tracker.
type SelectCoin struct {
	Symbol string
}

// ToggleFavorite flips the persisted favorite flag of the tracked
// coin. Ignored while tracking the whole market.
type ToggleFavorite struct{}

// Quit tears the application down.
type Quit struct{}

func (SwitchPage) isCommand()      {}
func (SwitchTab) isCommand()       {}
func (SetCoinFilter) isCommand()   {}
func (SetTraderFilter) isCommand() {}
func (ScrollBy) isCommand()        {}
func (SelectCoin) isCommand()      {}
func (ToggleFavorite) isCommand()  {}
func (Quit) isCommand()            {}

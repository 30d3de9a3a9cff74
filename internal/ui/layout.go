package ui

// Rect is a rectangular screen region in cell coordinates.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the point (x, y) falls inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Layout is the geometry of the last-rendered frame, handed back to the
// input mapper so mouse clicks can be resolved to logical targets. A
// layout rendered before a resize is stale and clicks against it are
// dropped rather than mis-mapped.
type Layout struct {
	Width, Height int

	PageTabs  Rect // top band: Trade Monitor | Price Tracker
	FilterBar Rect // trades page: coin filter (left) | trader filter (right)
	TradeTabs Rect // trades page: All Trades | Large Trades
	CoinBox   Rect // price tracker: tracked-coin selection band
	List      Rect // scrollable list area; List.H is the viewport height

	// ListRows maps visible list rows (0 = top row inside List) to the
	// coin symbol rendered on that row, for click-to-select.
	ListRows []string
}

// Stale reports whether the layout was rendered for a different
// terminal size than the current one.
func (l Layout) Stale(width, height int) bool {
	return l.Width != width || l.Height != height
}

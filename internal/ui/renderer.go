package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"rugwatch/internal/domain"
	"rugwatch/internal/engine"
	"rugwatch/internal/infra"
)

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiDim    = "\x1b[2m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
	ansiInvert = "\x1b[7m"

	ansiClear = "\x1b[2J\x1b[H"
)

// chrome rows: page tabs, filter/coin band, trade tabs or header,
// column header, status line
const chromeRows = 5

// Frame is everything the renderer needs for one draw: the engine
// snapshot plus ambient state the engine does not own.
type Frame struct {
	Snapshot engine.Snapshot

	ConnStatus string
	Connected  bool
	Metrics    infra.MetricsSnapshot

	// Modal text-entry state, drawn in the filter/coin band while the
	// user is typing.
	InputMode   string
	InputBuffer string
}

// Renderer draws a full frame to out on every tick and reports the
// geometry of what it drew.
type Renderer struct {
	out    io.Writer
	width  int
	height int
}

func NewRenderer(out io.Writer, width, height int) *Renderer {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	return &Renderer{out: out, width: width, height: height}
}

// Resize updates the target terminal size for subsequent frames.
func (r *Renderer) Resize(width, height int) {
	if width > 0 {
		r.width = width
	}
	if height > 0 {
		r.height = height
	}
}

// Viewport returns the list-area height for the current size, so the
// engine can clamp scroll offsets before the next snapshot.
func (r *Renderer) Viewport() int {
	v := r.height - chromeRows
	if v < 1 {
		v = 1
	}
	return v
}

// Render draws the frame and returns the layout geometry used.
func (r *Renderer) Render(f Frame) Layout {
	var b strings.Builder
	b.WriteString(ansiClear)

	layout := Layout{Width: r.width, Height: r.height}
	layout.PageTabs = Rect{X: 0, Y: 0, W: r.width, H: 1}
	r.writePageTabs(&b, f.Snapshot.ActivePage)

	listTop := chromeRows - 1
	switch f.Snapshot.ActivePage {
	case engine.PageTradeMonitor:
		layout.FilterBar = Rect{X: 0, Y: 1, W: r.width, H: 1}
		layout.TradeTabs = Rect{X: 0, Y: 2, W: r.width, H: 1}
		r.writeFilterBar(&b, f)
		r.writeTradeTabs(&b, f.Snapshot.ActiveTab)
		r.writeTradeHeader(&b)
		layout.List = Rect{X: 0, Y: listTop, W: r.width, H: r.Viewport()}
		layout.ListRows = r.writeTrades(&b, f.Snapshot, layout.List.H)
	case engine.PagePriceTracker:
		layout.CoinBox = Rect{X: 0, Y: 1, W: r.width, H: 1}
		r.writeCoinBox(&b, f)
		r.writePriceSummary(&b, f.Snapshot)
		r.writePriceHeader(&b)
		layout.List = Rect{X: 0, Y: listTop, W: r.width, H: r.Viewport()}
		layout.ListRows = r.writePrices(&b, f.Snapshot, layout.List.H)
	}

	r.writeStatusLine(&b, f)
	io.WriteString(r.out, b.String())
	return layout
}

func (r *Renderer) writePageTabs(b *strings.Builder, page engine.Page) {
	left, right := "  Trade Monitor  ", "  Price Tracker  "
	switch page {
	case engine.PageTradeMonitor:
		left = ansiInvert + left + ansiReset
	case engine.PagePriceTracker:
		right = ansiInvert + right + ansiReset
	}
	fmt.Fprintf(b, "%s%s\r\n", left, right)
}

func (r *Renderer) writeFilterBar(b *strings.Builder, f Frame) {
	if f.InputMode != "" {
		fmt.Fprintf(b, "%s%s: %s_%s\r\n", ansiYellow, f.InputMode, f.InputBuffer, ansiReset)
		return
	}
	coin := f.Snapshot.CoinFilter
	if coin == "" {
		coin = "(all)"
	}
	trader := f.Snapshot.TraderFilter
	if trader == "" {
		trader = "(all)"
	}
	fmt.Fprintf(b, " coin [c]: %-20s trader [t]: %-20s\r\n", coin, trader)
}

func (r *Renderer) writeTradeTabs(b *strings.Builder, tab engine.Tab) {
	left, right := "  All Trades  ", "  Large Trades  "
	switch tab {
	case engine.TabAllTrades:
		left = ansiInvert + left + ansiReset
	case engine.TabLargeTrades:
		right = ansiInvert + right + ansiReset
	}
	fmt.Fprintf(b, "%s%s\r\n", left, right)
}

func (r *Renderer) writeTradeHeader(b *strings.Builder) {
	fmt.Fprintf(b, "%s%-8s %-10s %-5s %14s %14s %12s  %s%s\r\n",
		ansiBold, "TIME", "COIN", "SIDE", "AMOUNT", "PRICE", "VALUE", "TRADER", ansiReset)
}

func (r *Renderer) writeTrades(b *strings.Builder, s engine.Snapshot, viewport int) []string {
	view := engine.ViewAllTrades
	if s.ActiveTab == engine.TabLargeTrades {
		view = engine.ViewLargeTrades
	}
	offset := s.ScrollOffsets[view]
	rows := make([]string, 0, viewport)
	for i := 0; i < viewport; i++ {
		idx := offset + i
		if idx >= len(s.Trades) {
			b.WriteString("\r\n")
			continue
		}
		t := s.Trades[idx]
		color := ansiGreen
		if t.Side == domain.SideSell {
			color = ansiRed
		}
		fmt.Fprintf(b, "%-8s %-10s %s%-5s%s %14s %14s %12s  %s\r\n",
			t.Timestamp.Format("15:04:05"), clip(t.CoinSymbol, 10),
			color, t.Side, ansiReset,
			formatAmount(t.Amount), formatMoney(t.Price), formatMoney(t.Value),
			clip(t.Trader, 20))
		rows = append(rows, t.CoinSymbol)
	}
	return rows
}

func (r *Renderer) writeCoinBox(b *strings.Builder, f Frame) {
	if f.InputMode != "" {
		fmt.Fprintf(b, "%s%s: %s_%s\r\n", ansiYellow, f.InputMode, f.InputBuffer, ansiReset)
		return
	}
	fmt.Fprintf(b, " tracked coin [s]: %s%s%s\r\n", ansiCyan, f.Snapshot.TrackedCoin, ansiReset)
}

func (r *Renderer) writePriceSummary(b *strings.Builder, s engine.Snapshot) {
	if s.LatestPrice == nil {
		b.WriteString(" waiting for price data...\r\n")
		return
	}
	p := s.LatestPrice
	color := ansiDim
	switch p.ChangeDirection() {
	case "positive":
		color = ansiGreen
	case "negative":
		color = ansiRed
	}
	fmt.Fprintf(b, " %s  price %s  24h %s%s%%%s  mcap %s  vol %s\r\n",
		p.CoinSymbol, formatMoney(p.Price),
		color, p.Change24h.StringFixed(2), ansiReset,
		formatMoney(p.MarketCap), formatMoney(p.Volume24h))
}

func (r *Renderer) writePriceHeader(b *strings.Builder) {
	fmt.Fprintf(b, "%s%-8s %-10s %14s %10s %14s %14s%s\r\n",
		ansiBold, "TIME", "COIN", "PRICE", "24H%", "MCAP", "VOLUME", ansiReset)
}

func (r *Renderer) writePrices(b *strings.Builder, s engine.Snapshot, viewport int) []string {
	offset := s.ScrollOffsets[engine.ViewPriceTracker]
	rows := make([]string, 0, viewport)
	for i := 0; i < viewport; i++ {
		idx := offset + i
		if idx >= len(s.Prices) {
			b.WriteString("\r\n")
			continue
		}
		p := s.Prices[idx]
		color := ansiDim
		switch p.ChangeDirection() {
		case "positive":
			color = ansiGreen
		case "negative":
			color = ansiRed
		}
		fmt.Fprintf(b, "%-8s %-10s %14s %s%9s%%%s %14s %14s\r\n",
			p.Timestamp.Format("15:04:05"), clip(p.CoinSymbol, 10),
			formatMoney(p.Price),
			color, p.Change24h.StringFixed(2), ansiReset,
			formatMoney(p.MarketCap), formatMoney(p.Volume24h))
		rows = append(rows, p.CoinSymbol)
	}
	return rows
}

func (r *Renderer) writeStatusLine(b *strings.Builder, f Frame) {
	color := ansiRed
	if f.Connected {
		color = ansiGreen
	}
	s := f.Snapshot
	fmt.Fprintf(b, "%s%s●%s %s %s| trades %d (large %d) | frames %d | dropped %d | q quit  p page  tab  ↑↓ scroll%s",
		ansiDim, color, ansiReset, f.ConnStatus, ansiDim,
		s.TradeTotal, s.LargeCount,
		f.Metrics.FramesReceived, f.Metrics.EventsDropped, ansiReset)
}

// formatMoney renders a dollar value with K/M/B abbreviation for
// large magnitudes and six significant decimals for sub-dollar prices.
func formatMoney(d decimal.Decimal) string {
	abs := d.Abs()
	switch {
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000_000_000)):
		return "$" + d.Div(decimal.NewFromInt(1_000_000_000)).StringFixed(2) + "B"
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000_000)):
		return "$" + d.Div(decimal.NewFromInt(1_000_000)).StringFixed(2) + "M"
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000)):
		return "$" + d.Div(decimal.NewFromInt(1_000)).StringFixed(2) + "K"
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1)):
		return "$" + d.StringFixed(2)
	default:
		return "$" + d.StringFixed(6)
	}
}

func formatAmount(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1_000_000)) {
		return d.Div(decimal.NewFromInt(1_000_000)).StringFixed(2) + "M"
	}
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1_000)) {
		return d.Div(decimal.NewFromInt(1_000)).StringFixed(2) + "K"
	}
	return d.StringFixed(2)
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}

package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"rugwatch/internal/domain"
	"rugwatch/internal/engine"
)

func sampleSnapshot() engine.Snapshot {
	return engine.Snapshot{
		ActivePage: engine.PageTradeMonitor,
		ActiveTab:  engine.TabAllTrades,
		Trades: []domain.Trade{
			{
				CoinSymbol: "MOON",
				Trader:     "whale42",
				Side:       domain.SideBuy,
				Amount:     decimal.NewFromInt(1500),
				Price:      decimal.NewFromFloat(0.042),
				Value:      decimal.NewFromInt(63),
				Timestamp:  time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC),
			},
			{
				CoinSymbol: "DOGE2",
				Trader:     "paperhands",
				Side:       domain.SideSell,
				Amount:     decimal.NewFromInt(10),
				Price:      decimal.NewFromInt(2),
				Value:      decimal.NewFromInt(20),
				Timestamp:  time.Date(2025, 6, 1, 12, 30, 46, 0, time.UTC),
			},
		},
		TradeTotal:    2,
		ScrollOffsets: map[engine.View]int{},
	}
}

func TestRender_TradeMonitorLayout(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, 100, 20)

	layout := r.Render(Frame{Snapshot: sampleSnapshot(), ConnStatus: "Connected", Connected: true})

	if layout.Width != 100 || layout.Height != 20 {
		t.Fatalf("layout size = %dx%d, want 100x20", layout.Width, layout.Height)
	}
	if layout.PageTabs.Y != 0 || layout.PageTabs.H != 1 {
		t.Errorf("page tabs at y=%d h=%d, want y=0 h=1", layout.PageTabs.Y, layout.PageTabs.H)
	}
	if layout.List.H != r.Viewport() {
		t.Errorf("list height %d != viewport %d", layout.List.H, r.Viewport())
	}
	if len(layout.ListRows) != 2 {
		t.Fatalf("list rows = %d, want 2", len(layout.ListRows))
	}
	if layout.ListRows[0] != "MOON" || layout.ListRows[1] != "DOGE2" {
		t.Errorf("list rows = %v", layout.ListRows)
	}

	out := buf.String()
	for _, want := range []string{"MOON", "DOGE2", "whale42", "Trade Monitor", "All Trades"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRender_ScrollOffsetSkipsRows(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, 100, 20)

	snap := sampleSnapshot()
	snap.ScrollOffsets[engine.ViewAllTrades] = 1
	layout := r.Render(Frame{Snapshot: snap})

	if len(layout.ListRows) != 1 || layout.ListRows[0] != "DOGE2" {
		t.Fatalf("list rows = %v, want [DOGE2]", layout.ListRows)
	}
	if strings.Contains(buf.String(), "MOON") {
		t.Error("scrolled-out row still rendered")
	}
}

func TestRender_PriceTrackerLayout(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, 100, 20)

	price := domain.PriceUpdate{
		CoinSymbol: "MOON",
		Price:      decimal.NewFromFloat(0.05),
		Change24h:  decimal.NewFromFloat(-3.2),
		MarketCap:  decimal.NewFromInt(2_500_000),
		Volume24h:  decimal.NewFromInt(90_000),
		Timestamp:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	snap := engine.Snapshot{
		ActivePage:    engine.PagePriceTracker,
		TrackedCoin:   "MOON",
		Prices:        []domain.PriceUpdate{price},
		LatestPrice:   &price,
		ScrollOffsets: map[engine.View]int{},
	}
	layout := r.Render(Frame{Snapshot: snap})

	if layout.CoinBox.H != 1 {
		t.Errorf("coin box h = %d, want 1", layout.CoinBox.H)
	}
	if len(layout.ListRows) != 1 || layout.ListRows[0] != "MOON" {
		t.Errorf("list rows = %v", layout.ListRows)
	}
	out := buf.String()
	for _, want := range []string{"MOON", "$2.50M", "-3.20"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRender_InputModeShownInBand(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, 100, 20)

	r.Render(Frame{
		Snapshot:    sampleSnapshot(),
		InputMode:   "coin filter",
		InputBuffer: "moo",
	})
	if !strings.Contains(buf.String(), "coin filter: moo_") {
		t.Error("input editor not rendered in filter band")
	}
}

func TestLayout_Stale(t *testing.T) {
	l := Layout{Width: 100, Height: 20}
	if l.Stale(100, 20) {
		t.Error("same size reported stale")
	}
	if !l.Stale(80, 20) {
		t.Error("resized width not reported stale")
	}
}

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		in   decimal.Decimal
		want string
	}{
		{decimal.NewFromFloat(0.000042), "$0.000042"},
		{decimal.NewFromFloat(12.5), "$12.50"},
		{decimal.NewFromInt(4_200), "$4.20K"},
		{decimal.NewFromInt(3_000_000), "$3.00M"},
		{decimal.NewFromInt(7_500_000_000), "$7.50B"},
	}
	for _, tc := range cases {
		if got := formatMoney(tc.in); got != tc.want {
			t.Errorf("formatMoney(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

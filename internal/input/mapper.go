package input

import (
	"strings"

	"rugwatch/internal/engine"
	"rugwatch/internal/ui"
)

// Mode is the mapper's modal state. Outside ModeNormal, printable keys
// feed a text buffer instead of acting as shortcuts.
type Mode int

const (
	ModeNormal Mode = iota
	ModeCoinFilter
	ModeTraderFilter
	ModeCoinSelect
)

func (m Mode) String() string {
	switch m {
	case ModeCoinFilter:
		return "coin filter"
	case ModeTraderFilter:
		return "trader filter"
	case ModeCoinSelect:
		return "select coin"
	default:
		return ""
	}
}

// Mapper translates decoded terminal events into engine commands. It
// owns the text-entry editor state; the engine only ever sees the
// committed result. The mapper tracks the active page and tab from
// the last snapshot so shortcuts stay context sensitive.
type Mapper struct {
	mode   Mode
	buffer []rune

	page engine.Page
	tab  engine.Tab

	coinFilter   string
	traderFilter string
}

func NewMapper() *Mapper {
	return &Mapper{}
}

// Observe records view state from the latest snapshot. Called once per
// rendered frame, before any events from that frame are mapped.
func (m *Mapper) Observe(s engine.Snapshot) {
	m.page = s.ActivePage
	m.tab = s.ActiveTab
	m.coinFilter = s.CoinFilter
	m.traderFilter = s.TraderFilter
}

// Mode returns the current editor mode for rendering.
func (m *Mapper) Mode() Mode { return m.mode }

// Buffer returns the in-progress editor text for rendering.
func (m *Mapper) Buffer() string { return string(m.buffer) }

// HandleKey maps a key press to a command. A nil command with ok=true
// means the event was consumed without producing a command (editor
// state changed); ok=false means the event meant nothing here.
func (m *Mapper) HandleKey(ev KeyEvent) (engine.Command, bool) {
	if ev.Key == KeyCtrlC {
		return engine.Quit{}, true
	}
	if m.mode != ModeNormal {
		return m.handleEditorKey(ev)
	}
	return m.handleNormalKey(ev)
}

func (m *Mapper) handleNormalKey(ev KeyEvent) (engine.Command, bool) {
	switch ev.Key {
	case KeyTab:
		if m.page == engine.PageTradeMonitor {
			return engine.SwitchTab{}, true
		}
		return nil, false
	case KeyUp:
		return engine.ScrollBy{View: m.activeView(), Delta: -1}, true
	case KeyDown:
		return engine.ScrollBy{View: m.activeView(), Delta: 1}, true
	case KeyRune:
		switch ev.Rune {
		case 'q', 'Q':
			return engine.Quit{}, true
		case 'p', 'P':
			return engine.SwitchPage{}, true
		case 'c', 'C':
			if m.page == engine.PageTradeMonitor {
				m.enterMode(ModeCoinFilter, m.coinFilter)
				return nil, true
			}
		case 't', 'T':
			if m.page == engine.PageTradeMonitor {
				m.enterMode(ModeTraderFilter, m.traderFilter)
				return nil, true
			}
		case 's', 'S':
			if m.page == engine.PagePriceTracker {
				m.enterMode(ModeCoinSelect, "")
				return nil, true
			}
		case 'f', 'F':
			if m.page == engine.PagePriceTracker {
				return engine.ToggleFavorite{}, true
			}
		}
	}
	return nil, false
}

func (m *Mapper) handleEditorKey(ev KeyEvent) (engine.Command, bool) {
	switch ev.Key {
	case KeyEscape:
		m.leaveMode()
		return nil, true
	case KeyEnter:
		return m.commit(), true
	case KeyBackspace:
		if len(m.buffer) > 0 {
			m.buffer = m.buffer[:len(m.buffer)-1]
		}
		return nil, true
	case KeyRune:
		m.buffer = append(m.buffer, ev.Rune)
		return nil, true
	}
	return nil, false
}

func (m *Mapper) commit() engine.Command {
	text := strings.TrimSpace(string(m.buffer))
	mode := m.mode
	m.leaveMode()
	switch mode {
	case ModeCoinFilter:
		return engine.SetCoinFilter{Symbol: text}
	case ModeTraderFilter:
		return engine.SetTraderFilter{Name: text}
	case ModeCoinSelect:
		if text == "" {
			return nil
		}
		if strings.EqualFold(text, engine.GlobalTarget) {
			return engine.SelectCoin{Symbol: engine.GlobalTarget}
		}
		return engine.SelectCoin{Symbol: strings.ToUpper(text)}
	}
	return nil
}

func (m *Mapper) enterMode(mode Mode, seed string) {
	m.mode = mode
	m.buffer = []rune(seed)
}

func (m *Mapper) leaveMode() {
	m.mode = ModeNormal
	m.buffer = nil
}

// HandleMouse maps a mouse event against the geometry of the frame the
// user was looking at. Events against a layout rendered for a
// different terminal size are dropped rather than resolved to the
// wrong target.
func (m *Mapper) HandleMouse(ev MouseEvent, layout ui.Layout, termW, termH int) (engine.Command, bool) {
	if layout.Stale(termW, termH) {
		return nil, false
	}

	switch ev.Kind {
	case MouseWheelUp:
		return engine.ScrollBy{View: m.activeView(), Delta: -1}, true
	case MouseWheelDown:
		return engine.ScrollBy{View: m.activeView(), Delta: 1}, true
	case MouseLeftClick:
		return m.handleClick(ev, layout)
	}
	return nil, false
}

func (m *Mapper) handleClick(ev MouseEvent, layout ui.Layout) (engine.Command, bool) {
	switch {
	case layout.PageTabs.Contains(ev.X, ev.Y):
		if m.clickedOtherPage(ev.X, layout) {
			return engine.SwitchPage{}, true
		}
		return nil, false
	case layout.TradeTabs.Contains(ev.X, ev.Y):
		if m.clickedOtherTab(ev.X, layout) {
			return engine.SwitchTab{}, true
		}
		return nil, false
	case layout.FilterBar.Contains(ev.X, ev.Y):
		// left half is the coin filter, right half the trader filter
		if ev.X < layout.FilterBar.W/2 {
			m.enterMode(ModeCoinFilter, m.coinFilter)
		} else {
			m.enterMode(ModeTraderFilter, m.traderFilter)
		}
		return nil, true
	case layout.CoinBox.Contains(ev.X, ev.Y):
		m.enterMode(ModeCoinSelect, "")
		return nil, true
	case layout.List.Contains(ev.X, ev.Y):
		row := ev.Y - layout.List.Y
		if row >= 0 && row < len(layout.ListRows) {
			return engine.SelectCoin{Symbol: layout.ListRows[row]}, true
		}
		return nil, false
	}
	return nil, false
}

// clickedOtherPage reports whether the click landed on the inactive
// page tab. Tabs split the band down the middle.
func (m *Mapper) clickedOtherPage(x int, layout ui.Layout) bool {
	onLeft := x < layout.PageTabs.W/2
	if onLeft {
		return m.page != engine.PageTradeMonitor
	}
	return m.page != engine.PagePriceTracker
}

func (m *Mapper) clickedOtherTab(x int, layout ui.Layout) bool {
	onLeft := x < layout.TradeTabs.W/2
	if onLeft {
		return m.tab != engine.TabAllTrades
	}
	return m.tab != engine.TabLargeTrades
}

func (m *Mapper) activeView() engine.View {
	if m.page == engine.PagePriceTracker {
		return engine.ViewPriceTracker
	}
	if m.tab == engine.TabLargeTrades {
		return engine.ViewLargeTrades
	}
	return engine.ViewAllTrades
}

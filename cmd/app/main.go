package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"rugwatch/internal/app"
	"rugwatch/internal/engine"
	"rugwatch/internal/event"
	"rugwatch/internal/infra"
	"rugwatch/internal/infra/rugplay"
	"rugwatch/internal/input"
	"rugwatch/internal/service"
	"rugwatch/internal/ui"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	// 1. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap failed: %v\n", err)
		os.Exit(1)
	}

	// 2. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Background icon warmup for coins seen in earlier sessions
	go bootstrap.WarmIconCache(ctx)

	cfg := bootstrap.Config
	metrics := &infra.Metrics{}
	event.Warmup()

	// 4. Restore previous session's view state
	prefs, err := bootstrap.RestorePrefs()
	if err != nil {
		slog.Warn("Failed to restore session preferences", slog.Any("error", err))
	}
	threshold := cfg.Engine.LargeTradeThreshold
	if prefs.Threshold.IsPositive() {
		threshold = prefs.Threshold
	}

	// 5. Feed transport
	inbox := make(chan event.Event, cfg.Engine.EventBuffer)
	worker := rugplay.NewWorker(cfg, inbox, metrics)

	// 6. Coin metadata catalog
	catalog := service.NewCatalog(bootstrap.Storage, bootstrap.Downloader)
	catalog.Start(ctx)
	defer catalog.Stop()

	// 7. View-state engine
	eng, err := engine.NewEngine(cfg.Engine.TradeCapacity, cfg.Engine.PriceCapacity, threshold,
		engine.WithSelectCoinHook(worker.SetCoin),
		engine.WithFavoriteHook(catalog.ToggleFavorite))
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine init failed: %v\n", err)
		os.Exit(1)
	}
	if prefs.CoinFilter != "" {
		eng.ApplyCommand(engine.SetCoinFilter{Symbol: prefs.CoinFilter})
	}
	if prefs.TraderFilter != "" {
		eng.ApplyCommand(engine.SetTraderFilter{Name: prefs.TraderFilter})
	}
	tracked := prefs.TrackedCoin
	if tracked == "" {
		tracked = cfg.Feed.DefaultCoin
	}
	eng.ApplyCommand(engine.SelectCoin{Symbol: tracked})

	// 8. Terminal + renderer
	terminal, err := ui.OpenTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "terminal init failed: %v\n", err)
		os.Exit(1)
	}

	width, height := terminal.Size()
	renderer := ui.NewRenderer(terminal.Out(), width, height)
	mapper := input.NewMapper()

	// shared between the render loop and the input goroutine
	var (
		mu     sync.Mutex
		layout ui.Layout
	)

	render := func(snap engine.Snapshot) {
		w, h := terminal.Size()
		renderer.Resize(w, h)
		for _, v := range []engine.View{engine.ViewAllTrades, engine.ViewLargeTrades, engine.ViewPriceTracker} {
			eng.SetViewport(v, renderer.Viewport())
		}

		mu.Lock()
		defer mu.Unlock()
		mapper.Observe(snap)
		layout = renderer.Render(ui.Frame{
			Snapshot:    snap,
			ConnStatus:  worker.Status().String(),
			Connected:   worker.IsConnected(),
			Metrics:     metrics.Snapshot(),
			InputMode:   mapper.Mode().String(),
			InputBuffer: mapper.Buffer(),
		})
	}

	loop := engine.NewLoop(eng, inbox, cfg.Engine.CommandBuffer,
		cfg.TickInterval(), metrics, render,
		engine.WithEventObserver(catalog.Observe))

	// 9. Input goroutine feeds the command queue
	go readInput(terminal, mapper, &mu, &layout, loop.Commands())

	// 10. Connect the feed; a startup failure before the first
	// successful connect is fatal
	if err := worker.Connect(ctx); err != nil {
		terminal.Restore()
		fmt.Fprintf(os.Stderr, "feed connect failed: %v\n", err)
		os.Exit(1)
	}
	defer worker.Disconnect()

	fatal := make(chan error, 1)
	go func() {
		if err := <-worker.Fatal(); err != nil {
			slog.Error("Feed connection failed permanently", slog.Any("error", err))
			fatal <- err
			stop()
		}
	}()

	// 11. Run the dashboard until quit or signal
	runErr := loop.Run(ctx)

	// 12. Persist session state for the next run
	bootstrap.SavePrefs(eng.Snapshot())

	terminal.Restore()
	select {
	case err := <-fatal:
		fmt.Fprintf(os.Stderr, "feed connection failed: %v\n", err)
		os.Exit(1)
	default:
	}
	if runErr != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "render loop failed: %v\n", runErr)
		os.Exit(1)
	}
}

// readInput parses raw terminal bytes into events, maps them to
// commands and queues them for the render loop. A full queue drops
// the command rather than blocking the terminal read.
func readInput(terminal *ui.Terminal, mapper *input.Mapper, mu *sync.Mutex, layout *ui.Layout, commands chan<- engine.Command) {
	buf := make([]byte, 0, 128)
	chunk := make([]byte, 64)

	for {
		n, err := terminal.In().Read(chunk)
		if err != nil {
			return
		}
		buf = append(buf, chunk[:n]...)

		for len(buf) > 0 {
			ev, consumed := input.ParseSequence(buf)
			if consumed == 0 {
				break // incomplete escape sequence, wait for more bytes
			}
			buf = buf[consumed:]
			if ev == nil {
				continue
			}

			mu.Lock()
			var cmd engine.Command
			switch e := ev.(type) {
			case input.KeyEvent:
				cmd, _ = mapper.HandleKey(e)
			case input.MouseEvent:
				w, h := terminal.Size()
				cmd, _ = mapper.HandleMouse(e, *layout, w, h)
			}
			mu.Unlock()

			if cmd == nil {
				continue
			}
			select {
			case commands <- cmd:
			default:
				// queue full, drop
			}
		}
	}
}

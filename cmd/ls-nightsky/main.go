// Command ls-nightsky draws an animated night sky in the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-nightsky/internal/backdrop"
	"github.com/litescript/ls-nightsky/internal/chime"
	"github.com/litescript/ls-nightsky/internal/config"
	"github.com/litescript/ls-nightsky/internal/frame"
	"github.com/litescript/ls-nightsky/internal/logging"
	"github.com/litescript/ls-nightsky/internal/raster"
	"github.com/litescript/ls-nightsky/internal/state"
	"github.com/litescript/ls-nightsky/internal/tcellhost"
	"github.com/litescript/ls-nightsky/internal/ui"
)

// CLI flags for headless mode
var (
	summaryMode  bool
	eventsMode   bool
	snapshotPath string
	frameCount   int
	sizeSpec     string
	seed         uint64
)

const (
	defaultFrames = 600
	maxFrames     = 100000
	maxSide       = 8192
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Config file (default: user config dir, if present)")
	backendName := flag.String("backend", config.BackendBubbleTea, "Terminal backend (bubbletea, tcell)")
	fps := flag.Int("fps", 60, "Frames per second")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	logFile := flag.String("log-file", "", "Write logs to file (interactive mode logs nowhere otherwise)")
	chimeMode := flag.Bool("chime", false, "Play a tone for each shooting star")
	noNebula := flag.Bool("no-nebula", false, "Disable the nebula glows")
	noCard := flag.Bool("no-card", false, "Hide the content card")
	flag.BoolVar(&summaryMode, "summary", false, "Run headless and print a text summary")
	flag.BoolVar(&eventsMode, "events", false, "Run headless and print the event log")
	flag.StringVar(&snapshotPath, "snapshot", "", "Run headless and write a PNG to this path")
	flag.IntVar(&frameCount, "frames", defaultFrames, "Frames to simulate in headless mode")
	flag.StringVar(&sizeSpec, "size", "800x600", "Surface size in headless mode (WxH)")
	flag.Uint64Var(&seed, "seed", 0, "Random seed for headless mode (0 = random)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flags given explicitly override the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.Display.Backend = *backendName
		case "fps":
			cfg.Display.FPS = *fps
		case "chime":
			cfg.Audio.Chime = *chimeMode
		case "no-nebula":
			cfg.Display.Nebula = !*noNebula
		case "no-card":
			cfg.Display.Card = !*noCard
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Validate frame count
	if frameCount < 0 {
		frameCount = 0
	} else if frameCount > maxFrames {
		frameCount = maxFrames
	}

	headless := summaryMode || eventsMode || snapshotPath != ""

	// Set up logging
	level := logging.ParseLevel(*logLevel)
	logger := logging.Discard()
	switch {
	case *logFile != "":
		logger, err = logging.NewFile(level, *logFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Close()
	case headless:
		logger = logging.New(level)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	stats := state.NewManager(state.DefaultConfig())

	if headless {
		if err := runHeadless(cfg, stats, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: stdout is not a terminal; use -snapshot or -summary for headless output")
		os.Exit(1)
	}

	opts := []backdrop.Option{backdrop.WithStats(stats)}
	if cfg.Audio.Chime {
		player, err := chime.Open(cfg.Audio.Volume)
		if err != nil {
			// Audio is optional; keep animating without it.
			logger.Warn("chime disabled: %v", err)
		} else {
			defer player.Close()
			opts = append(opts, backdrop.WithObserver(player))
		}
	}
	b := backdrop.New(cfg.Backdrop(), logger, opts...)

	switch cfg.Display.Backend {
	case config.BackendTcell:
		err = runTcell(ctx, cfg, b, stats, logger)
	default:
		err = runBubbleTea(ctx, cfg, b, stats)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path, false)
	}
	return config.Load(config.DefaultPath(), true)
}

func runBubbleTea(ctx context.Context, cfg config.Config, b *backdrop.Backdrop, stats *state.Manager) error {
	model := ui.New(b, stats, ui.Options{
		FPS:        cfg.Display.FPS,
		CellWidth:  cfg.Display.CellWidth,
		CellHeight: cfg.Display.CellHeight,
		Card:       cfg.Display.Card,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	// Run TUI (blocks until quit)
	_, err := p.Run()
	b.Unmount()
	return err
}

func runTcell(ctx context.Context, cfg config.Config, b *backdrop.Backdrop, stats *state.Manager, logger *logging.Logger) error {
	h, err := tcellhost.Open(tcellhost.Options{
		FPS:        cfg.Display.FPS,
		CellWidth:  cfg.Display.CellWidth,
		CellHeight: cfg.Display.CellHeight,
		Status:     cfg.Display.Card,
	}, stats, logger)
	if err != nil {
		return err
	}
	defer h.Close()
	return h.Run(ctx, b)
}

// runHeadless simulates frameCount frames on an off-screen surface and
// writes the requested outputs.
func runHeadless(cfg config.Config, stats *state.Manager, logger *logging.Logger) error {
	width, height, err := parseSize(sizeSpec)
	if err != nil {
		return err
	}

	opts := []backdrop.Option{backdrop.WithStats(stats)}
	if seed != 0 {
		opts = append(opts, backdrop.WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))))
	}
	b := backdrop.New(cfg.Backdrop(), logger, opts...)

	canvas := raster.NewCanvas(0, 0)
	host := frame.NewManual(width, height, canvas)
	if !b.Mount(host) {
		return errors.New("backdrop could not be mounted")
	}
	defer b.Unmount()

	host.Run(frameCount)
	logger.Debug("simulated %d frames at %dx%d", frameCount, width, height)

	if snapshotPath != "" {
		img := raster.Compose(canvas.Image(), width, height, b.Layers()...)
		if err := raster.SavePNG(snapshotPath, img); err != nil {
			return err
		}
		logger.Info("wrote %s", snapshotPath)
	}

	snap := stats.Snapshot()
	if summaryMode {
		state.WriteSummary(os.Stdout, snap)
	}
	if eventsMode {
		if summaryMode {
			fmt.Println()
		}
		state.WriteEvents(os.Stdout, snap.Events, 10)
	}
	return nil
}

// parseSize parses "WxH".
func parseSize(s string) (int, int, error) {
	var w, h int
	if _, err := fmt.Sscanf(s, "%dx%d", &w, &h); err != nil {
		return 0, 0, fmt.Errorf("invalid size %q: want WxH", s)
	}
	if w <= 0 || h <= 0 || w > maxSide || h > maxSide {
		return 0, 0, fmt.Errorf("invalid size %q: sides must be in 1..%d", s, maxSide)
	}
	return w, h, nil
}

// Package tcellhost runs the backdrop directly on a tcell screen, without
// Bubble Tea. Frames and terminal events are serialized on a frame.Loop.
package tcellhost

import (
	"context"
	"fmt"
	"sort"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-nightsky/internal/backdrop"
	"github.com/litescript/ls-nightsky/internal/frame"
	"github.com/litescript/ls-nightsky/internal/logging"
	"github.com/litescript/ls-nightsky/internal/raster"
	"github.com/litescript/ls-nightsky/internal/state"
	"github.com/litescript/ls-nightsky/internal/version"
)

// Options controls the host.
type Options struct {
	FPS        int
	CellWidth  int
	CellHeight int
	Status     bool // draw the status line on the bottom row
}

// Host is a frame.Host backed by a tcell screen.
type Host struct {
	screen tcell.Screen
	loop   *frame.Loop
	canvas *raster.Canvas
	stats  *state.Manager
	opts   Options
	log    *logging.Logger

	cols, rows   int
	listeners    map[int]func(int, int)
	nextListener int
}

// Open initializes the terminal screen and returns a host for it.
func Open(opts Options, stats *state.Manager, logger *logging.Logger) (*Host, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	return New(screen, opts, stats, logger), nil
}

// New wraps an initialized screen.
func New(screen tcell.Screen, opts Options, stats *state.Manager, logger *logging.Logger) *Host {
	if logger == nil {
		logger = logging.Discard()
	}
	if opts.CellWidth <= 0 {
		opts.CellWidth = 8
	}
	if opts.CellHeight <= 0 {
		opts.CellHeight = 16
	}
	h := &Host{
		screen:    screen,
		loop:      frame.NewLoop(opts.FPS),
		canvas:    raster.NewCanvas(0, 0),
		stats:     stats,
		opts:      opts,
		log:       logger.Named("tcell"),
		listeners: make(map[int]func(int, int)),
	}
	h.cols, h.rows = screen.Size()
	return h
}

// Close restores the terminal.
func (h *Host) Close() {
	h.screen.Fini()
}

// Viewport implements frame.Host.
func (h *Host) Viewport() (int, int) {
	return h.cols * h.opts.CellWidth, h.rows * h.opts.CellHeight
}

// AcquireSurface implements frame.Host.
func (h *Host) AcquireSurface() (frame.Surface, error) {
	if h.screen == nil {
		return nil, frame.ErrSurfaceUnavailable
	}
	return h.canvas, nil
}

// OnResize implements frame.Host.
func (h *Host) OnResize(fn func(int, int)) func() {
	h.nextListener++
	key := h.nextListener
	h.listeners[key] = fn
	return func() { delete(h.listeners, key) }
}

// RequestFrame implements frame.Host.
func (h *Host) RequestFrame(fn func()) frame.ID {
	return h.loop.RequestFrame(fn)
}

// CancelFrame implements frame.Host.
func (h *Host) CancelFrame(id frame.ID) {
	h.loop.CancelFrame(id)
}

// Run mounts b and animates it until ctx is done or a quit key is pressed.
func (h *Host) Run(ctx context.Context, b *backdrop.Backdrop) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if !b.Mount(h) {
		h.log.Warn("backdrop unavailable, showing status only")
	}
	defer b.Unmount()

	go h.pollEvents(cancel)

	h.draw(b)
	return h.loop.Run(ctx, func() { h.draw(b) })
}

// pollEvents forwards terminal events to the loop goroutine. It returns
// when the screen is finalized.
func (h *Host) pollEvents(quit func()) {
	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			return
		}
		if !h.loop.Post(func() {
			if h.handleEvent(ev) {
				quit()
			}
		}) {
			return
		}
	}
}

// handleEvent applies one terminal event and reports whether it asks to quit.
func (h *Host) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return true
		}
	case *tcell.EventResize:
		cols, rows := ev.Size()
		h.resize(cols, rows)
		h.screen.Sync()
	}
	return false
}

func (h *Host) resize(cols, rows int) {
	if cols == h.cols && rows == h.rows {
		return
	}
	h.cols, h.rows = cols, rows
	w, ht := h.Viewport()

	keys := make([]int, 0, len(h.listeners))
	for k := range h.listeners {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		if fn, ok := h.listeners[k]; ok {
			fn(w, ht)
		}
	}
}

// draw paints the sampled backdrop and the status line, then shows the
// screen.
func (h *Host) draw(b *backdrop.Backdrop) {
	var grid raster.Grid
	if b.Mounted() {
		grid = raster.Sample(h.canvas.Image(), h.cols, h.rows,
			h.opts.CellWidth, h.opts.CellHeight, b.Layers()...)
	} else {
		grid = raster.Sample(nil, h.cols, h.rows, h.opts.CellWidth, h.opts.CellHeight)
	}

	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			c := grid.At(col, row)
			style := tcell.StyleDefault.Foreground(rgb(c.Top)).Background(rgb(c.Bottom))
			h.screen.SetContent(col, row, '▀', nil, style)
		}
	}
	if h.opts.Status && grid.Rows > 0 {
		h.drawStatus(grid)
	}
	h.screen.Show()
}

func (h *Host) drawStatus(grid raster.Grid) {
	text := " ls-nightsky v" + version.Version
	if h.stats != nil {
		snap := h.stats.Snapshot()
		text += fmt.Sprintf(" · %d stars · ☄ %d · %d seen", snap.Stars, snap.Meteors, snap.Spawned)
	}
	text += " · q quit "

	row := grid.Rows - 1
	fg := tcell.NewRGBColor(0xCB, 0xD5, 0xE1)
	col := 0
	for _, r := range text {
		if col >= grid.Cols {
			break
		}
		bg := rgb(grid.At(col, row).Bottom)
		h.screen.SetContent(col, row, r, nil, tcell.StyleDefault.Foreground(fg).Background(bg))
		col++
	}
}

func rgb(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

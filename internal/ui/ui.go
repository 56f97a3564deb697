// Package ui runs the backdrop inside a Bubble Tea program and draws the
// content card on top of it.
package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-nightsky/internal/backdrop"
	"github.com/litescript/ls-nightsky/internal/frame"
	"github.com/litescript/ls-nightsky/internal/raster"
	"github.com/litescript/ls-nightsky/internal/state"
)

// Options controls how the backdrop maps onto the terminal.
type Options struct {
	FPS        int
	CellWidth  int // surface pixels per column
	CellHeight int // surface pixels per row; each row shows two samples
	Card       bool
}

// DefaultOptions returns the standard terminal mapping.
func DefaultOptions() Options {
	return Options{
		FPS:        frame.DefaultFPS,
		CellWidth:  8,
		CellHeight: 16,
		Card:       true,
	}
}

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	backdrop *backdrop.Backdrop
	stats    *state.Manager

	host   *teaHost
	canvas *raster.Canvas
	opts   Options

	// UI state
	width    int
	height   int
	ready    bool
	started  bool
	quitting bool
	animTick int
}

// New creates the root model. The backdrop is mounted on the first window
// size message.
func New(b *backdrop.Backdrop, stats *state.Manager, opts Options) Model {
	def := DefaultOptions()
	if opts.CellWidth <= 0 {
		opts.CellWidth = def.CellWidth
	}
	if opts.CellHeight <= 0 {
		opts.CellHeight = def.CellHeight
	}
	canvas := raster.NewCanvas(0, 0)
	return Model{
		backdrop: b,
		stats:    stats,
		host:     newTeaHost(opts.FPS, canvas),
		canvas:   canvas,
		opts:     opts,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("ls-nightsky")
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.backdrop.Unmount()
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		m.host.Resize(msg.Width*m.opts.CellWidth, msg.Height*m.opts.CellHeight)
		if !m.started {
			m.started = true
			m.backdrop.Mount(m.host)
		}

	case frameMsg:
		if m.host.fire(msg) > 0 {
			m.animTick++
		}
	}

	if m.quitting {
		return m, nil
	}
	return m, m.host.schedule()
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	var grid raster.Grid
	if m.backdrop.Mounted() {
		grid = raster.Sample(m.canvas.Image(), m.width, m.height,
			m.opts.CellWidth, m.opts.CellHeight, m.backdrop.Layers()...)
	} else {
		grid = raster.Sample(nil, m.width, m.height, m.opts.CellWidth, m.opts.CellHeight)
	}

	var overlay []string
	if m.opts.Card && m.stats != nil {
		overlay = strings.Split(renderCard(m.stats.Snapshot(), m.animTick), "\n")
	}
	return renderGrid(grid, overlay)
}

// renderGrid draws the cells as upper half blocks and places overlay, if it
// fits, in the middle of the grid.
func renderGrid(grid raster.Grid, overlay []string) string {
	if grid.Cols == 0 || grid.Rows == 0 {
		return ""
	}

	ow := 0
	for _, line := range overlay {
		if w := lipgloss.Width(line); w > ow {
			ow = w
		}
	}
	oh := len(overlay)
	if ow > grid.Cols || oh > grid.Rows {
		ow, oh = 0, 0
	}
	x0 := (grid.Cols - ow) / 2
	y0 := (grid.Rows - oh) / 2

	hexes := make([][2]string, len(grid.Cells))
	for i, c := range grid.Cells {
		hexes[i] = [2]string{c.Top.Clamped().Hex(), c.Bottom.Clamped().Hex()}
	}

	var b strings.Builder
	for row := 0; row < grid.Rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		cells := hexes[row*grid.Cols : (row+1)*grid.Cols]
		if oh > 0 && row >= y0 && row < y0+oh {
			line := overlay[row-y0]
			b.WriteString(renderCells(cells[:x0]))
			b.WriteString(line)
			b.WriteString(renderCells(cells[x0+lipgloss.Width(line):]))
			continue
		}
		b.WriteString(renderCells(cells))
	}
	return b.String()
}

// renderCells renders a run of cells, merging neighbors with equal colors
// into one styled span.
func renderCells(cells [][2]string) string {
	var b strings.Builder
	for i := 0; i < len(cells); {
		j := i + 1
		for j < len(cells) && cells[j] == cells[i] {
			j++
		}
		style := lipgloss.NewStyle().
			Foreground(lipgloss.Color(cells[i][0])).
			Background(lipgloss.Color(cells[i][1]))
		b.WriteString(style.Render(strings.Repeat("▀", j-i)))
		i = j
	}
	return b.String()
}

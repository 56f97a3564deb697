package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-nightsky/internal/frame"
)

// frameMsg fires when a frame interval elapses.
type frameMsg struct {
	seq uint64
}

// teaHost adapts Bubble Tea's message loop to frame.Host. Frame requests
// are collected in a manual host and flushed by a single outstanding
// tea.Tick, so every callback runs inside Update.
type teaHost struct {
	*frame.Manual

	interval time.Duration
	seq      uint64
	inFlight bool
}

func newTeaHost(fps int, surface frame.Surface) *teaHost {
	if fps <= 0 {
		fps = frame.DefaultFPS
	}
	return &teaHost{
		Manual:   frame.NewManual(0, 0, surface),
		interval: time.Second / time.Duration(fps),
	}
}

// schedule returns a tick command when frames are pending and no tick is
// already outstanding.
func (h *teaHost) schedule() tea.Cmd {
	if h.inFlight || h.Pending() == 0 {
		return nil
	}
	h.inFlight = true
	h.seq++
	seq := h.seq
	return tea.Tick(h.interval, func(time.Time) tea.Msg {
		return frameMsg{seq: seq}
	})
}

// fire runs the frames due for msg and returns how many ran. Stale ticks
// are ignored.
func (h *teaHost) fire(msg frameMsg) int {
	if !h.inFlight || msg.seq != h.seq {
		return 0
	}
	h.inFlight = false
	return h.Step()
}

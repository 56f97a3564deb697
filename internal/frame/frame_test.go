package frame

import (
	"context"
	"errors"
	"testing"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
)

type nullSurface struct{ w, h int }

func (s *nullSurface) Size() (int, int)                                             { return s.w, s.h }
func (s *nullSurface) Clear()                                                       {}
func (s *nullSurface) FillCircle(_, _, _ float64, _ colorful.Color, _ float64)      {}
func (s *nullSurface) StrokeLine(_, _, _, _, _ float64, _ colorful.Color, _ float64) {}
func (s *nullSurface) Resize(w, h int)                                              { s.w, s.h = w, h }

var _ Host = (*Manual)(nil)

func TestManual_StepRunsInOrder(t *testing.T) {
	m := NewManual(10, 10, &nullSurface{})

	var order []int
	m.RequestFrame(func() { order = append(order, 1) })
	m.RequestFrame(func() { order = append(order, 2) })

	if ran := m.Step(); ran != 2 {
		t.Fatalf("Step ran %d, want 2", ran)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("order = %v, want [1 2]", order)
	}
	if m.Pending() != 0 {
		t.Errorf("pending = %d, want 0", m.Pending())
	}
}

func TestManual_RequestDuringStepWaits(t *testing.T) {
	m := NewManual(10, 10, &nullSurface{})

	count := 0
	var loop func()
	loop = func() {
		count++
		m.RequestFrame(loop)
	}
	m.RequestFrame(loop)

	m.Step()
	if count != 1 {
		t.Fatalf("count = %d after one step, want 1", count)
	}
	if m.Run(9) != 9 || count != 10 {
		t.Errorf("count = %d after ten steps, want 10", count)
	}
}

func TestManual_Cancel(t *testing.T) {
	m := NewManual(10, 10, &nullSurface{})

	ran := false
	id := m.RequestFrame(func() { ran = true })
	m.CancelFrame(id)
	m.CancelFrame(id)
	m.CancelFrame(999)

	if m.Step() != 0 || ran {
		t.Error("canceled frame ran")
	}
}

func TestManual_CancelFromEarlierCallback(t *testing.T) {
	m := NewManual(10, 10, &nullSurface{})

	ran := false
	var second ID
	m.RequestFrame(func() { m.CancelFrame(second) })
	second = m.RequestFrame(func() { ran = true })

	if got := m.Step(); got != 1 {
		t.Errorf("ran %d callbacks, want 1", got)
	}
	if ran {
		t.Error("frame canceled mid-step still ran")
	}
}

func TestManual_ResizeListeners(t *testing.T) {
	m := NewManual(10, 10, &nullSurface{})

	var got [2]int
	calls := 0
	cancel := m.OnResize(func(w, h int) {
		got = [2]int{w, h}
		calls++
	})

	m.Resize(40, 30)
	if got != [2]int{40, 30} || calls != 1 {
		t.Errorf("listener saw %v (%d calls)", got, calls)
	}
	if w, h := m.Viewport(); w != 40 || h != 30 {
		t.Errorf("viewport = %dx%d", w, h)
	}

	cancel()
	m.Resize(5, 5)
	if calls != 1 {
		t.Error("listener called after cancel")
	}
	if m.Listeners() != 0 {
		t.Errorf("listeners = %d, want 0", m.Listeners())
	}
}

func TestManual_AcquireSurface(t *testing.T) {
	if _, err := NewManual(1, 1, nil).AcquireSurface(); !errors.Is(err, ErrSurfaceUnavailable) {
		t.Errorf("nil surface err = %v, want ErrSurfaceUnavailable", err)
	}

	boom := errors.New("boom")
	m := NewManual(1, 1, &nullSurface{})
	m.FailSurface(boom)
	if _, err := m.AcquireSurface(); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestLoop_RunsFramesAndPostedEvents(t *testing.T) {
	l := NewLoop(200)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	frames := 0
	var tick func()
	tick = func() {
		frames++
		if frames == 5 {
			cancel()
			return
		}
		l.RequestFrame(tick)
	}
	l.RequestFrame(tick)

	posted := make(chan struct{})
	if !l.Post(func() { close(posted) }) {
		t.Fatal("Post before Run returned false")
	}

	redraws := 0
	if err := l.Run(ctx, func() { redraws++ }); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if frames != 5 {
		t.Errorf("frames = %d, want 5", frames)
	}
	if redraws != 5 {
		t.Errorf("redraws = %d, want 5", redraws)
	}
	select {
	case <-posted:
	default:
		t.Error("posted event never ran")
	}
	if l.Post(func() {}) {
		t.Error("Post after Run returned true")
	}
}

func TestLoop_CanceledFrameNeverRuns(t *testing.T) {
	l := NewLoop(500)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	ran := false
	id := l.RequestFrame(func() { ran = true })
	l.CancelFrame(id)

	_ = l.Run(ctx, nil)
	if ran {
		t.Error("canceled frame ran")
	}
	if l.Refreshes() == 0 {
		t.Error("loop never refreshed")
	}
}

func TestNewLoop_DefaultFPS(t *testing.T) {
	if got := NewLoop(0).Interval(); got != time.Second/DefaultFPS {
		t.Errorf("interval = %v, want %v", got, time.Second/DefaultFPS)
	}
}

package state

import (
	"sync"
	"testing"
	"time"

	"github.com/litescript/ls-nightsky/internal/sky"
)

// fakeClock advances only when told to.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestManager(maxEvents int) (*Manager, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 8, 12, 22, 0, 0, 0, time.UTC)}
	cfg := DefaultConfig()
	cfg.Clock = clock.Now
	if maxEvents > 0 {
		cfg.MaxEvents = maxEvents
	}
	return NewManager(cfg), clock
}

func TestNewManager(t *testing.T) {
	m := NewManager(DefaultConfig())
	if m == nil {
		t.Fatal("NewManager returned nil")
	}

	snap := m.Snapshot()
	if snap.Ticks != 0 || snap.Stars != 0 || len(snap.Events) != 0 {
		t.Errorf("fresh snapshot = %+v, want zero values", snap)
	}
}

func TestNewManager_ZeroConfig(t *testing.T) {
	m := NewManager(Config{})
	for i := 0; i < 60; i++ {
		m.MeteorSpawned(sky.ShootingStar{})
	}
	if got := len(m.RecentEvents(100)); got != 50 {
		t.Errorf("events = %d, want default cap 50", got)
	}
}

func TestManager_RecordFrame(t *testing.T) {
	m, _ := newTestManager(0)

	m.RecordFrame(42, 0.672, 60, 2)

	snap := m.Snapshot()
	if snap.Ticks != 42 || snap.Elapsed != 0.672 || snap.Stars != 60 || snap.Meteors != 2 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestManager_MeasuredFPS(t *testing.T) {
	m, clock := newTestManager(0)

	// 30 frames land just short of the window; the 31st closes it.
	for i := 0; i < 31; i++ {
		clock.Advance(time.Second / 30)
		m.RecordFrame(uint64(i+1), 0, 0, 0)
	}

	if fps := m.Snapshot().FPS; fps < 29.9 || fps > 30.1 {
		t.Errorf("fps = %v, want ~30", fps)
	}
	if up, want := m.Snapshot().Uptime, 31*(time.Second/30); up != want {
		t.Errorf("uptime = %v, want %v", up, want)
	}
}

func TestManager_ObserverCounts(t *testing.T) {
	m, _ := newTestManager(0)

	m.StarsRegenerated(60, 800, 600)
	m.MeteorSpawned(sky.ShootingStar{X: 10, Y: 20, MaxAge: 80})
	m.MeteorSpawned(sky.ShootingStar{X: 30, Y: 40, MaxAge: 70})
	m.MeteorExpired(sky.ShootingStar{X: 50, Y: 60, MaxAge: 70})
	m.StarsRegenerated(15, 400, 300)

	snap := m.Snapshot()
	if snap.Spawned != 2 || snap.Expired != 1 || snap.Regenerations != 2 {
		t.Errorf("totals = spawned %d expired %d regen %d", snap.Spawned, snap.Expired, snap.Regenerations)
	}
	if snap.Stars != 15 || snap.Width != 400 || snap.Height != 300 {
		t.Errorf("surface = %d stars %dx%d, want 15 stars 400x300", snap.Stars, snap.Width, snap.Height)
	}

	wantTypes := []EventType{EventRegenerated, EventMeteor, EventMeteor, EventMeteorFaded, EventRegenerated}
	if len(snap.Events) != len(wantTypes) {
		t.Fatalf("events = %d, want %d", len(snap.Events), len(wantTypes))
	}
	for i, want := range wantTypes {
		if snap.Events[i].Type != want {
			t.Errorf("event %d type = %q, want %q", i, snap.Events[i].Type, want)
		}
	}
	if e := snap.Events[1]; e.X != 10 || e.Y != 20 || e.MaxAge != 80 {
		t.Errorf("meteor event = %+v", e)
	}
}

func TestManager_EventRingBuffer(t *testing.T) {
	m, clock := newTestManager(5)

	for i := 0; i < 12; i++ {
		clock.Advance(time.Minute)
		m.MeteorSpawned(sky.ShootingStar{MaxAge: 60 + i})
	}

	events := m.RecentEvents(100)
	if len(events) != 5 {
		t.Fatalf("events count = %d, want 5 (max)", len(events))
	}

	for i := 1; i < len(events); i++ {
		if events[i].Timestamp.Before(events[i-1].Timestamp) {
			t.Errorf("events not in chronological order at index %d", i)
		}
	}
	if events[4].MaxAge != 71 || events[0].MaxAge != 67 {
		t.Errorf("kept MaxAge %d..%d, want 67..71", events[0].MaxAge, events[4].MaxAge)
	}

	last := m.RecentEvents(2)
	if len(last) != 2 || last[1].MaxAge != 71 {
		t.Errorf("RecentEvents(2) = %+v", last)
	}
}

func TestManager_Snapshot_IsCopy(t *testing.T) {
	m, _ := newTestManager(0)
	m.MeteorSpawned(sky.ShootingStar{MaxAge: 60})

	snap := m.Snapshot()
	snap.Events[0].MaxAge = 1

	if m.Snapshot().Events[0].MaxAge != 60 {
		t.Error("Snapshot modification affected manager state")
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m := NewManager(DefaultConfig())

	var wg sync.WaitGroup
	iterations := 100

	// Writer goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			m.RecordFrame(uint64(i), float64(i)*0.016, 60, i%3)
			m.MeteorSpawned(sky.ShootingStar{MaxAge: 60})
			m.MeteorExpired(sky.ShootingStar{MaxAge: 60})
		}
	}()

	// Reader goroutines
	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				_ = m.Snapshot()
				_ = m.RecentEvents(5)
			}
		}()
	}

	wg.Wait()
}

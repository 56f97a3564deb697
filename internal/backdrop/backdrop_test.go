package backdrop

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/litescript/ls-nightsky/internal/frame"
	"github.com/litescript/ls-nightsky/internal/nebula"
	"github.com/litescript/ls-nightsky/internal/raster"
	"github.com/litescript/ls-nightsky/internal/sky"
	"github.com/litescript/ls-nightsky/internal/state"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

func mountAt(t *testing.T, w, h int, cfg Config, opts ...Option) (*Backdrop, *frame.Manual, *raster.Canvas) {
	t.Helper()
	canvas := raster.NewCanvas(0, 0)
	host := frame.NewManual(w, h, canvas)
	b := New(cfg, nil, opts...)
	if !b.Mount(host) {
		t.Fatal("Mount returned false")
	}
	return b, host, canvas
}

func TestMount_SizesSurfaceAndSchedules(t *testing.T) {
	b, host, canvas := mountAt(t, 800, 600, DefaultConfig(), WithRand(seeded(1)))

	if w, h := canvas.Size(); w != 800 || h != 600 {
		t.Errorf("surface = %dx%d, want 800x600", w, h)
	}
	if stars, _ := b.Engine().Counts(); stars != 60 {
		t.Errorf("stars = %d, want 60", stars)
	}
	if host.Pending() != 1 {
		t.Errorf("pending frames = %d, want 1", host.Pending())
	}
	if host.Listeners() != 1 {
		t.Errorf("resize listeners = %d, want 1", host.Listeners())
	}
	if !b.Mounted() {
		t.Error("Mounted() = false")
	}

	// Mounting twice is a no-op.
	if !b.Mount(host) || host.Listeners() != 1 {
		t.Error("second Mount re-subscribed")
	}
}

func TestMount_SurfaceUnavailable(t *testing.T) {
	host := frame.NewManual(800, 600, nil)
	host.FailSurface(errors.New("no context"))

	b := New(DefaultConfig(), nil)
	if b.Mount(host) {
		t.Fatal("Mount succeeded without a surface")
	}
	if host.Pending() != 0 || host.Listeners() != 0 {
		t.Errorf("unmounted backdrop left %d frames and %d listeners", host.Pending(), host.Listeners())
	}
	if b.Engine() != nil || b.Surface() != nil {
		t.Error("engine or surface set after failed mount")
	}

	b.Unmount()
	if len(b.Layers()) == 0 {
		t.Error("Layers should still report the gradient")
	}
}

func TestFrameLoop_TicksAndReschedules(t *testing.T) {
	frames := 0
	b, host, _ := mountAt(t, 400, 300, DefaultConfig(), WithRand(seeded(2)), OnFrame(func() { frames++ }))

	host.Run(10)

	if got := b.Engine().Ticks(); got != 10 {
		t.Errorf("ticks = %d, want 10", got)
	}
	if frames != 10 {
		t.Errorf("OnFrame calls = %d, want 10", frames)
	}
	if host.Pending() != 1 {
		t.Errorf("pending = %d, want exactly one outstanding frame", host.Pending())
	}
}

func TestResize_RegeneratesStarsOnly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sky.SpawnChance = 1
	b, host, canvas := mountAt(t, 800, 600, cfg, WithRand(seeded(3)))

	host.Run(3)
	meteors := b.Engine().ShootingStars()
	if len(meteors) != 3 {
		t.Fatalf("meteors = %d, want 3", len(meteors))
	}

	host.Resize(400, 300)

	if stars, _ := b.Engine().Counts(); stars != 15 {
		t.Errorf("stars after resize = %d, want 15", stars)
	}
	if w, h := canvas.Size(); w != 400 || h != 300 {
		t.Errorf("surface after resize = %dx%d, want 400x300", w, h)
	}
	after := b.Engine().ShootingStars()
	for i := range meteors {
		if after[i] != meteors[i] {
			t.Errorf("meteor %d changed: %+v -> %+v", i, meteors[i], after[i])
		}
	}

	// The loop kept running through the resize.
	host.Step()
	if got := b.Engine().Ticks(); got != 4 {
		t.Errorf("ticks = %d, want 4", got)
	}
}

func TestUnmount_StopsEverything(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sky.SpawnChance = 0.5
	b, host, _ := mountAt(t, 800, 600, cfg, WithRand(seeded(4)))
	host.Run(20)

	b.Unmount()

	e := b.Engine()
	elapsed, ticks := e.Elapsed(), e.Ticks()
	stars, meteors := e.Stars(), e.ShootingStars()

	if host.Pending() != 0 {
		t.Errorf("pending frames after unmount = %d", host.Pending())
	}
	if host.Listeners() != 0 {
		t.Errorf("resize listeners after unmount = %d", host.Listeners())
	}

	host.Run(60)
	host.Resize(100, 100)

	if e.Elapsed() != elapsed || e.Ticks() != ticks {
		t.Errorf("time advanced after unmount: %v/%d -> %v/%d", elapsed, ticks, e.Elapsed(), e.Ticks())
	}
	if len(e.Stars()) != len(stars) || len(e.ShootingStars()) != len(meteors) {
		t.Error("populations changed after unmount")
	}
	for i := range meteors {
		if e.ShootingStars()[i] != meteors[i] {
			t.Errorf("meteor %d moved after unmount", i)
		}
	}

	b.Unmount()
}

func TestUnmount_FromFrameHook(t *testing.T) {
	var b *Backdrop
	calls := 0
	b, host, _ := mountAt(t, 200, 200, DefaultConfig(), OnFrame(func() {
		calls++
		if calls == 3 {
			b.Unmount()
		}
	}))

	host.Run(10)
	if calls != 3 {
		t.Errorf("frames = %d, want 3", calls)
	}
	if host.Pending() != 0 {
		t.Errorf("pending = %d after unmount in hook", host.Pending())
	}
}

func TestStats_Recorded(t *testing.T) {
	stats := state.NewManager(state.DefaultConfig())
	cfg := DefaultConfig()
	cfg.Sky.SpawnChance = 1
	_, host, _ := mountAt(t, 800, 600, cfg, WithRand(seeded(5)), WithStats(stats))

	host.Run(5)
	host.Resize(400, 300)

	snap := stats.Snapshot()
	if snap.Ticks != 5 {
		t.Errorf("ticks = %d, want 5", snap.Ticks)
	}
	if snap.Spawned != 5 || snap.Meteors != 5 {
		t.Errorf("spawned = %d meteors = %d, want 5 and 5", snap.Spawned, snap.Meteors)
	}
	if snap.Regenerations != 2 || snap.Stars != 15 {
		t.Errorf("regenerations = %d stars = %d, want 2 and 15", snap.Regenerations, snap.Stars)
	}
}

type spawnCounter struct {
	sky.NopObserver
	n int
}

func (s *spawnCounter) MeteorSpawned(sky.ShootingStar) { s.n++ }

func TestWithObserver(t *testing.T) {
	counter := &spawnCounter{}
	cfg := DefaultConfig()
	cfg.Sky.SpawnChance = 1
	_, host, _ := mountAt(t, 100, 100, cfg, WithObserver(counter), WithStats(nil))

	host.Run(4)
	if counter.n != 4 {
		t.Errorf("observer saw %d spawns, want 4", counter.n)
	}
}

func TestLayers(t *testing.T) {
	b, host, _ := mountAt(t, 100, 100, DefaultConfig())
	if got := len(b.Layers()); got != 2 {
		t.Fatalf("layers = %d, want gradient and nebula", got)
	}
	if _, ok := b.Layers()[1].(*nebula.Field); !ok {
		t.Errorf("second layer = %T, want *nebula.Field", b.Layers()[1])
	}

	host.Run(5)

	cfg := DefaultConfig()
	cfg.Nebula = false
	plain, _, _ := mountAt(t, 100, 100, cfg)
	if got := len(plain.Layers()); got != 1 {
		t.Errorf("layers without nebula = %d, want 1", got)
	}
}

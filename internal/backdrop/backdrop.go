// Package backdrop mounts the sky engine into a host: it owns the surface
// size, regenerates the star field on resize and keeps the frame loop
// running until unmounted.
package backdrop

import (
	"github.com/litescript/ls-nightsky/internal/frame"
	"github.com/litescript/ls-nightsky/internal/logging"
	"github.com/litescript/ls-nightsky/internal/nebula"
	"github.com/litescript/ls-nightsky/internal/raster"
	"github.com/litescript/ls-nightsky/internal/sky"
	"github.com/litescript/ls-nightsky/internal/state"
)

// Config holds backdrop configuration.
type Config struct {
	Sky    sky.Config
	FPS    int  // host refresh rate, used to pace the nebula fade-in
	Nebula bool // draw the nebula glows
}

// DefaultConfig returns the standard backdrop.
func DefaultConfig() Config {
	return Config{
		Sky:    sky.DefaultConfig(),
		FPS:    frame.DefaultFPS,
		Nebula: true,
	}
}

// Option configures a Backdrop.
type Option func(*Backdrop)

// WithRand sets the engine's randomness source.
func WithRand(rnd sky.Rand) Option {
	return func(b *Backdrop) { b.rnd = rnd }
}

// WithObserver adds an engine observer.
func WithObserver(o sky.Observer) Option {
	return func(b *Backdrop) { b.observers = append(b.observers, o) }
}

// WithStats records every frame and population change into m.
func WithStats(m *state.Manager) Option {
	return func(b *Backdrop) {
		if m == nil {
			return
		}
		b.stats = m
		b.observers = append(b.observers, m)
	}
}

// OnFrame registers fn to run after each tick, before the next frame is
// requested. Hosts use it to repaint.
func OnFrame(fn func()) Option {
	return func(b *Backdrop) { b.onFrame = fn }
}

// Backdrop is the animated sky behind the content view. It is used from the
// host's dispatch goroutine only.
type Backdrop struct {
	cfg       Config
	log       *logging.Logger
	rnd       sky.Rand
	observers []sky.Observer
	stats     *state.Manager
	onFrame   func()

	host     frame.Host
	surface  frame.Surface
	engine   *sky.Engine
	nebula   *nebula.Field
	gradient raster.Gradient

	unsubscribe func()
	pending     frame.ID
	mounted     bool
}

// New creates an unmounted backdrop.
func New(cfg Config, logger *logging.Logger, opts ...Option) *Backdrop {
	if logger == nil {
		logger = logging.Discard()
	}
	if cfg.FPS <= 0 {
		cfg.FPS = frame.DefaultFPS
	}
	b := &Backdrop{
		cfg:      cfg,
		log:      logger.Named("backdrop"),
		gradient: raster.NightGradient(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Mount sizes the surface to the host viewport, generates the star field,
// subscribes to resizes and requests the first frame. If the host cannot
// provide a surface, Mount logs it and leaves the backdrop unmounted; the
// result is simply no animation.
func (b *Backdrop) Mount(host frame.Host) bool {
	if b.mounted || host == nil {
		return b.mounted
	}

	surface, err := host.AcquireSurface()
	if err != nil || surface == nil {
		b.log.Debug("surface unavailable, backdrop disabled: %v", err)
		return false
	}

	b.host = host
	b.surface = surface

	opts := []sky.Option{sky.WithObserver(sky.Observers(b.observers...))}
	if b.rnd != nil {
		opts = append(opts, sky.WithRand(b.rnd))
	}
	b.engine = sky.NewEngine(surface, b.cfg.Sky, opts...)
	if b.cfg.Nebula {
		b.nebula = nebula.New(b.cfg.FPS, nebula.DefaultBlobs())
	}

	w, h := host.Viewport()
	b.resize(w, h)

	b.unsubscribe = host.OnResize(b.onResize)
	b.pending = host.RequestFrame(b.tick)
	b.mounted = true

	stars, _ := b.engine.Counts()
	b.log.Debug("mounted at %dx%d with %d stars", w, h, stars)
	return true
}

// Unmount removes the resize listener and cancels the pending frame. It is
// safe to call more than once.
func (b *Backdrop) Unmount() {
	if !b.mounted {
		return
	}
	b.mounted = false

	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
	if b.pending != 0 {
		b.host.CancelFrame(b.pending)
		b.pending = 0
	}
	b.engine.Close()

	b.log.Debug("unmounted after %d ticks", b.engine.Ticks())
}

func (b *Backdrop) onResize(width, height int) {
	if !b.mounted {
		return
	}
	b.resize(width, height)
	stars, _ := b.engine.Counts()
	b.log.Debug("resized to %dx%d, %d stars", width, height, stars)
}

func (b *Backdrop) resize(width, height int) {
	b.surface.Resize(width, height)
	b.engine.Resize(width, height)
}

func (b *Backdrop) tick() {
	b.pending = 0
	if !b.mounted {
		return
	}

	b.engine.Tick()
	if b.nebula != nil {
		b.nebula.Step()
	}
	if b.stats != nil {
		stars, meteors := b.engine.Counts()
		b.stats.RecordFrame(b.engine.Ticks(), b.engine.Elapsed(), stars, meteors)
	}
	if b.onFrame != nil {
		b.onFrame()
	}

	// onFrame may have unmounted us.
	if b.mounted {
		b.pending = b.host.RequestFrame(b.tick)
	}
}

// Mounted reports whether the backdrop is running.
func (b *Backdrop) Mounted() bool { return b.mounted }

// Engine returns the sky engine, or nil before a successful Mount.
func (b *Backdrop) Engine() *sky.Engine { return b.engine }

// Surface returns the mounted surface, or nil.
func (b *Backdrop) Surface() frame.Surface { return b.surface }

// Layers returns the backdrop layers drawn underneath the star surface,
// bottom first.
func (b *Backdrop) Layers() []raster.Layer {
	layers := []raster.Layer{b.gradient}
	if b.nebula != nil {
		layers = append(layers, b.nebula)
	}
	return layers
}

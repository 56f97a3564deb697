package sky

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Surface is the 2D raster region the engine paints into.
type Surface interface {
	Size() (width, height int)
	Clear()
	FillCircle(x, y, radius float64, c colorful.Color, alpha float64)
	StrokeLine(x0, y0, x1, y1, width float64, c colorful.Color, alpha float64)
}

// Observer is notified of population changes. Calls happen on the tick
// goroutine and must not block.
type Observer interface {
	StarsRegenerated(count, width, height int)
	MeteorSpawned(ss ShootingStar)
	MeteorExpired(ss ShootingStar)
}

// NopObserver ignores all notifications.
type NopObserver struct{}

func (NopObserver) StarsRegenerated(int, int, int) {}
func (NopObserver) MeteorSpawned(ShootingStar)      {}
func (NopObserver) MeteorExpired(ShootingStar)      {}

// Config holds the simulation constants.
type Config struct {
	AreaPerStar float64 // square pixels per ambient star
	SpawnChance float64 // per-tick shooting star probability
	TimeStep    float64 // elapsed-time units added per tick
}

// DefaultConfig returns the standard night-sky tuning.
func DefaultConfig() Config {
	return Config{
		AreaPerStar: DefaultAreaPerStar,
		SpawnChance: 0.003,
		TimeStep:    0.016, // ~60fps
	}
}

// Engine owns both star populations, the surface size and the elapsed-time
// accumulator. It is not safe for concurrent use: Tick and Resize must be
// called from the same goroutine.
type Engine struct {
	cfg      Config
	rnd      Rand
	surface  Surface
	observer Observer

	width, height int
	elapsed       float64
	ticks         uint64

	stars    []Star
	shooting []ShootingStar

	closed bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the randomness source. Defaults to math/rand/v2.
func WithRand(rnd Rand) Option {
	return func(e *Engine) {
		if rnd != nil {
			e.rnd = rnd
		}
	}
}

// WithObserver registers a population observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// NewEngine creates an engine drawing onto surface. The star field is empty
// until the first Resize.
func NewEngine(surface Surface, cfg Config, opts ...Option) *Engine {
	def := DefaultConfig()
	if cfg.AreaPerStar <= 0 {
		cfg.AreaPerStar = def.AreaPerStar
	}
	if cfg.SpawnChance < 0 {
		cfg.SpawnChance = 0
	}
	if cfg.TimeStep <= 0 {
		cfg.TimeStep = def.TimeStep
	}

	e := &Engine{
		cfg:      cfg,
		rnd:      globalRand{},
		surface:  surface,
		observer: NopObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resize records the new surface size and replaces the ambient star
// population. Shooting stars in flight are left as they are.
func (e *Engine) Resize(width, height int) {
	if e.closed {
		return
	}
	e.width = width
	e.height = height
	e.stars = generate(width, height, e.cfg.AreaPerStar, e.rnd)
	e.observer.StarsRegenerated(len(e.stars), width, height)
}

// Tick advances the simulation by one frame and draws it. It is a no-op once
// the engine is closed or when it has no surface.
func (e *Engine) Tick() {
	if e == nil || e.closed || e.surface == nil {
		return
	}

	e.elapsed += e.cfg.TimeStep
	e.ticks++

	e.surface.Clear()

	for i := range e.stars {
		s := &e.stars[i]
		s.twinkle()
		e.drawStar(*s)
	}

	// Spawn is decided before the update pass but the newcomer joins after
	// it, so a meteor spends its first tick at age 0.
	var spawned *ShootingStar
	if e.rnd.Float64() < e.cfg.SpawnChance {
		ss := newShootingStar(e.width, e.height, e.rnd)
		spawned = &ss
	}

	kept := e.shooting[:0]
	for _, ss := range e.shooting {
		ss.advance()
		fade := ss.Fade()
		if fade <= 0 {
			e.observer.MeteorExpired(ss)
			continue
		}
		e.drawShootingStar(ss, fade)
		kept = append(kept, ss)
	}
	e.shooting = kept

	if spawned != nil {
		e.shooting = append(e.shooting, *spawned)
		e.drawShootingStar(*spawned, spawned.Fade())
		e.observer.MeteorSpawned(*spawned)
	}
}

func (e *Engine) drawStar(s Star) {
	alpha := s.RenderOpacity(e.elapsed)
	if s.HasGlow() {
		e.surface.FillCircle(s.X, s.Y, s.Size*glowRadiusScale, s.Color, alpha*glowAlphaScale)
	}
	e.surface.FillCircle(s.X, s.Y, s.Size, s.Color, alpha)
}

func (e *Engine) drawShootingStar(ss ShootingStar, fade float64) {
	tx, ty := ss.Tail()
	e.surface.StrokeLine(ss.X, ss.Y, tx, ty, trailWidth, MeteorColor, fade)
	e.surface.FillCircle(ss.X, ss.Y, headRadius, MeteorColor, fade)
}

// Close detaches the surface. Later Tick and Resize calls do nothing.
func (e *Engine) Close() {
	e.closed = true
	e.surface = nil
}

// Closed reports whether Close has been called.
func (e *Engine) Closed() bool { return e.closed }

// Size returns the surface size the stars were generated for.
func (e *Engine) Size() (width, height int) { return e.width, e.height }

// Elapsed returns the accumulated simulation time.
func (e *Engine) Elapsed() float64 { return e.elapsed }

// Ticks returns the number of ticks simulated.
func (e *Engine) Ticks() uint64 { return e.ticks }

// Config returns the engine's simulation constants.
func (e *Engine) Config() Config { return e.cfg }

// Counts returns the ambient and shooting star population sizes.
func (e *Engine) Counts() (stars, meteors int) {
	return len(e.stars), len(e.shooting)
}

// Stars returns a copy of the ambient star population.
func (e *Engine) Stars() []Star {
	out := make([]Star, len(e.stars))
	copy(out, e.stars)
	return out
}

// ShootingStars returns a copy of the shooting stars in flight.
func (e *Engine) ShootingStars() []ShootingStar {
	out := make([]ShootingStar, len(e.shooting))
	copy(out, e.shooting)
	return out
}

type multiObserver []Observer

// Observers fans notifications out to every non-nil observer in order.
func Observers(obs ...Observer) Observer {
	var m multiObserver
	for _, o := range obs {
		if o != nil {
			m = append(m, o)
		}
	}
	if len(m) == 0 {
		return NopObserver{}
	}
	if len(m) == 1 {
		return m[0]
	}
	return m
}

func (m multiObserver) StarsRegenerated(count, width, height int) {
	for _, o := range m {
		o.StarsRegenerated(count, width, height)
	}
}

func (m multiObserver) MeteorSpawned(ss ShootingStar) {
	for _, o := range m {
		o.MeteorSpawned(ss)
	}
}

func (m multiObserver) MeteorExpired(ss ShootingStar) {
	for _, o := range m {
		o.MeteorExpired(ss)
	}
}

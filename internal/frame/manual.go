package frame

import "sort"

// Manual is a host whose frames run only when Step is called. It backs the
// headless snapshot mode and the tests.
type Manual struct {
	width, height int
	surface       Surface
	surfaceErr    error

	listeners    map[int]func(int, int)
	nextListener int

	frames queue
}

// NewManual creates a manual host with the given viewport and surface.
// A nil surface makes AcquireSurface fail.
func NewManual(width, height int, surface Surface) *Manual {
	return &Manual{
		width:     width,
		height:    height,
		surface:   surface,
		listeners: make(map[int]func(int, int)),
	}
}

// FailSurface makes AcquireSurface return err.
func (m *Manual) FailSurface(err error) {
	m.surfaceErr = err
}

// Viewport implements Host.
func (m *Manual) Viewport() (int, int) {
	return m.width, m.height
}

// AcquireSurface implements Host.
func (m *Manual) AcquireSurface() (Surface, error) {
	if m.surfaceErr != nil {
		return nil, m.surfaceErr
	}
	if m.surface == nil {
		return nil, ErrSurfaceUnavailable
	}
	return m.surface, nil
}

// OnResize implements Host.
func (m *Manual) OnResize(fn func(int, int)) func() {
	m.nextListener++
	key := m.nextListener
	m.listeners[key] = fn
	return func() { delete(m.listeners, key) }
}

// RequestFrame implements Host.
func (m *Manual) RequestFrame(fn func()) ID {
	return m.frames.request(fn)
}

// CancelFrame implements Host.
func (m *Manual) CancelFrame(id ID) {
	m.frames.cancel(id)
}

// Resize changes the viewport and notifies listeners.
func (m *Manual) Resize(width, height int) {
	m.width = width
	m.height = height
	keys := make([]int, 0, len(m.listeners))
	for k := range m.listeners {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		if fn, ok := m.listeners[k]; ok {
			fn(width, height)
		}
	}
}

// Step runs every frame requested before the call, in request order.
// Requests made during the step wait for the next one. It returns the
// number of callbacks run.
func (m *Manual) Step() int {
	return m.frames.run()
}

// Run steps n times and returns the total callbacks run.
func (m *Manual) Run(n int) int {
	total := 0
	for i := 0; i < n; i++ {
		total += m.Step()
	}
	return total
}

// Pending returns the number of outstanding frame requests.
func (m *Manual) Pending() int { return m.frames.len() }

// Listeners returns the number of registered resize listeners.
func (m *Manual) Listeners() int { return len(m.listeners) }

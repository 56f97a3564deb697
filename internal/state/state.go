// Package state provides thread-safe animation statistics shared between the
// frame loop and the view.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-nightsky/internal/sky"
)

// EventType represents the type of sky event.
type EventType string

const (
	EventRegenerated EventType = "REGENERATED"
	EventMeteor      EventType = "METEOR"
	EventMeteorFaded EventType = "METEOR_FADED"
)

// Event is a notable change in the sky.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Tick      uint64    `json:"tick"`
	Stars     int       `json:"stars,omitempty"`
	Width     int       `json:"width,omitempty"`
	Height    int       `json:"height,omitempty"`
	X         float64   `json:"x,omitempty"`
	Y         float64   `json:"y,omitempty"`
	MaxAge    int       `json:"max_age,omitempty"`
}

// Config holds configuration for the state manager.
type Config struct {
	MaxEvents int
	// FPSWindow is how long frames are counted before the measured rate
	// is updated.
	FPSWindow time.Duration
	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxEvents: 50,
		FPSWindow: time.Second,
		Clock:     time.Now,
	}
}

// Manager collects sky statistics. Observer methods are called from the frame
// goroutine; Snapshot may be called from anywhere.
type Manager struct {
	mu sync.RWMutex

	clock     func() time.Time
	startedAt time.Time

	// Latest frame
	ticks   uint64
	elapsed float64
	stars   int
	meteors int
	width   int
	height  int

	// Totals
	spawned       int
	expired       int
	regenerations int

	// Measured frame rate
	fpsWindow    time.Duration
	windowStart  time.Time
	windowFrames int
	fps          float64

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int
}

var _ sky.Observer = (*Manager)(nil)

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	window := cfg.FPSWindow
	if window <= 0 {
		window = time.Second
	}
	now := clock()
	return &Manager{
		clock:       clock,
		startedAt:   now,
		fpsWindow:   window,
		windowStart: now,
		maxEvents:   maxEvents,
		events:      make([]Event, 0, maxEvents),
	}
}

// RecordFrame stores the population sizes after a tick.
func (m *Manager) RecordFrame(ticks uint64, elapsed float64, stars, meteors int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ticks = ticks
	m.elapsed = elapsed
	m.stars = stars
	m.meteors = meteors

	m.windowFrames++
	now := m.clock()
	if span := now.Sub(m.windowStart); span >= m.fpsWindow {
		m.fps = float64(m.windowFrames) / span.Seconds()
		m.windowFrames = 0
		m.windowStart = now
	}
}

// StarsRegenerated implements sky.Observer.
func (m *Manager) StarsRegenerated(count, width, height int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.regenerations++
	m.stars = count
	m.width = width
	m.height = height
	m.addEvent(Event{
		Type:      EventRegenerated,
		Timestamp: m.clock(),
		Tick:      m.ticks,
		Stars:     count,
		Width:     width,
		Height:    height,
	})
}

// MeteorSpawned implements sky.Observer.
func (m *Manager) MeteorSpawned(ss sky.ShootingStar) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.spawned++
	m.addEvent(Event{
		Type:      EventMeteor,
		Timestamp: m.clock(),
		Tick:      m.ticks,
		X:         ss.X,
		Y:         ss.Y,
		MaxAge:    ss.MaxAge,
	})
}

// MeteorExpired implements sky.Observer.
func (m *Manager) MeteorExpired(ss sky.ShootingStar) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.expired++
	m.addEvent(Event{
		Type:      EventMeteorFaded,
		Timestamp: m.clock(),
		Tick:      m.ticks,
		X:         ss.X,
		Y:         ss.Y,
		MaxAge:    ss.MaxAge,
	})
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Ticks         uint64
	Elapsed       float64
	Stars         int
	Meteors       int
	Width         int
	Height        int
	Spawned       int
	Expired       int
	Regenerations int
	FPS           float64
	Uptime        time.Duration
	Events        []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		Ticks:         m.ticks,
		Elapsed:       m.elapsed,
		Stars:         m.stars,
		Meteors:       m.meteors,
		Width:         m.width,
		Height:        m.height,
		Spawned:       m.spawned,
		Expired:       m.expired,
		Regenerations: m.regenerations,
		FPS:           m.fps,
		Uptime:        m.clock().Sub(m.startedAt),
		Events:        m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

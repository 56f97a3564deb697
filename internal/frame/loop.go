package frame

import (
	"context"
	"time"
)

// DefaultFPS is the frame rate used when none is configured.
const DefaultFPS = 60

// Loop runs frame callbacks on a fixed refresh interval and serializes
// events posted from other goroutines onto the same goroutine.
//
// RequestFrame and CancelFrame must be called from the goroutine running Run,
// from a posted func, or before Run starts.
type Loop struct {
	interval time.Duration
	events   chan func()
	done     chan struct{}
	frames   queue
	ticks    uint64
}

// NewLoop creates a loop refreshing fps times per second.
func NewLoop(fps int) *Loop {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Loop{
		interval: time.Second / time.Duration(fps),
		events:   make(chan func(), 64),
		done:     make(chan struct{}),
	}
}

// Interval returns the refresh period.
func (l *Loop) Interval() time.Duration { return l.interval }

// RequestFrame schedules fn for the next refresh.
func (l *Loop) RequestFrame(fn func()) ID {
	return l.frames.request(fn)
}

// CancelFrame drops a pending request.
func (l *Loop) CancelFrame(id ID) {
	l.frames.cancel(id)
}

// Pending returns the number of outstanding frame requests.
func (l *Loop) Pending() int { return l.frames.len() }

// Refreshes returns how many refresh intervals have elapsed in Run.
func (l *Loop) Refreshes() uint64 { return l.ticks }

// Post queues fn to run on the loop goroutine. It reports false if the loop
// has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.events <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Run dispatches events and refreshes until ctx is done. afterFrame, if not
// nil, is called after each refresh that ran at least one callback.
func (l *Loop) Run(ctx context.Context, afterFrame func()) error {
	defer close(l.done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-l.events:
			fn()
		case <-ticker.C:
			l.ticks++
			if l.frames.run() > 0 && afterFrame != nil {
				afterFrame()
			}
		}
	}
}

// Package frame defines what the backdrop needs from its host (a resizable
// surface, resize notifications and next-frame callbacks) and provides two
// hosts: Manual, stepped explicitly, and Loop, driven by a ticker.
package frame

import (
	"errors"

	"github.com/litescript/ls-nightsky/internal/sky"
)

// ErrSurfaceUnavailable is returned when a host cannot provide a surface.
var ErrSurfaceUnavailable = errors.New("surface unavailable")

// ID identifies a pending frame request. The zero ID is never issued.
type ID uint64

// Surface is a sky surface whose size the owner controls.
type Surface interface {
	sky.Surface
	Resize(width, height int)
}

// Host is the environment a backdrop is mounted into. All callbacks are
// invoked on the host's single dispatch goroutine.
type Host interface {
	// Viewport returns the drawable size in surface pixels.
	Viewport() (width, height int)
	// AcquireSurface returns the surface to draw into.
	AcquireSurface() (Surface, error)
	// OnResize registers fn for viewport changes and returns a function
	// that removes it.
	OnResize(fn func(width, height int)) (cancel func())
	// RequestFrame schedules fn to run once before the next repaint.
	RequestFrame(fn func()) ID
	// CancelFrame drops a pending request. Unknown IDs are ignored.
	CancelFrame(id ID)
}

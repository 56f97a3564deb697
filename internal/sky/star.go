// Package sky implements the animated night-sky engine: a field of twinkling
// ambient stars plus short-lived shooting stars, simulated and drawn one tick
// at a time onto a Surface.
package sky

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Twinkle bounds. Opacity is stored clamped to this range after every tick.
const (
	MinOpacity = 0.2
	MaxOpacity = 1.0
)

// Star generation ranges.
const (
	minTwinkleRate = 0.01
	maxTwinkleRate = 0.03
	minStarSize    = 0.5
	maxStarSize    = 3.5
)

// Glow halo for large stars
const (
	glowSizeThreshold = 2.0
	glowRadiusScale   = 2.5
	glowAlphaScale    = 0.2
)

// Palette is the fixed set of ambient star colors:
// white, warm gold, pale blue, lavender, pale green.
var Palette = []colorful.Color{
	mustHex("#ffffff"),
	mustHex("#ffd700"),
	mustHex("#87ceeb"),
	mustHex("#dda0dd"),
	mustHex("#98fb98"),
}

// Star is a persistent background particle. Position, size, color and
// pulse phase never change after creation; opacity and twinkle rate do.
type Star struct {
	X, Y        float64
	Opacity     float64
	TwinkleRate float64 // signed per-tick opacity delta
	Size        float64 // radius in surface pixels
	Color       colorful.Color
	PulsePhase  float64 // radians, [0, 2π)
}

// twinkle applies one tick of the slow bounce. The direction flips on the
// unclamped value, then the stored opacity is clamped so overshoot never
// accumulates.
func (s *Star) twinkle() {
	s.Opacity += s.TwinkleRate
	if s.Opacity > MaxOpacity || s.Opacity < MinOpacity {
		s.TwinkleRate = -s.TwinkleRate
	}
	s.Opacity = math.Max(MinOpacity, math.Min(MaxOpacity, s.Opacity))
}

// Pulse returns the fast sinusoidal brightness factor in [0.4, 1.0] at the
// given elapsed engine time.
func (s Star) Pulse(elapsed float64) float64 {
	return math.Sin(elapsed*2+s.PulsePhase)*0.3 + 0.7
}

// RenderOpacity is the alpha the star is drawn with at the given time.
func (s Star) RenderOpacity(elapsed float64) float64 {
	return s.Opacity * s.Pulse(elapsed)
}

// HasGlow reports whether the star gets a halo.
func (s Star) HasGlow() bool {
	return s.Size > glowSizeThreshold
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Package nebula renders the soft colored glows that sit between the sky
// gradient and the stars. The glows fade in with a critically damped spring
// and then breathe slowly.
package nebula

import (
	"math"

	"github.com/charmbracelet/harmonica"
	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	// TargetOpacity is where the fade-in settles.
	TargetOpacity = 0.3

	// blobAlpha is each glow's own strength before the fade-in opacity.
	blobAlpha = 0.10

	// Spring tuning: settles in roughly three seconds.
	springFrequency = 1.6
	springDamping   = 1.0

	// pulsePeriod is the breathing cycle in seconds.
	pulsePeriod = 2.0
)

// Blob is one glow. Center is given as fractions of the surface size and
// Radius as a fraction of its shorter side.
type Blob struct {
	CX, CY float64
	Radius float64
	Color  colorful.Color
	Delay  float64 // pulse offset in seconds
}

// DefaultBlobs are purple upper-left, blue lower-right and pink center.
func DefaultBlobs() []Blob {
	return []Blob{
		{CX: 0.25, CY: 0.25, Radius: 0.25, Color: hex("#a855f7"), Delay: 0},
		{CX: 0.75, CY: 0.75, Radius: 0.20, Color: hex("#3b82f6"), Delay: 2},
		{CX: 0.50, CY: 0.50, Radius: 0.17, Color: hex("#ec4899"), Delay: 4},
	}
}

// Field animates a set of blobs. Step it once per frame; Shade reads it.
type Field struct {
	blobs  []Blob
	spring harmonica.Spring
	dt     float64

	opacity  float64
	velocity float64
	elapsed  float64
}

// New creates a field stepped at fps frames per second.
func New(fps int, blobs []Blob) *Field {
	if fps <= 0 {
		fps = 60
	}
	return &Field{
		blobs:  blobs,
		spring: harmonica.NewSpring(harmonica.FPS(fps), springFrequency, springDamping),
		dt:     1 / float64(fps),
	}
}

// Step advances the fade-in and the pulse clock by one frame.
func (f *Field) Step() {
	f.opacity, f.velocity = f.spring.Update(f.opacity, f.velocity, TargetOpacity)
	f.elapsed += f.dt
}

// Opacity returns the current fade-in level.
func (f *Field) Opacity() float64 { return f.opacity }

// Elapsed returns seconds simulated so far.
func (f *Field) Elapsed() float64 { return f.elapsed }

// Shade blends every blob's glow over base at surface point x, y.
func (f *Field) Shade(base colorful.Color, x, y, width, height float64) colorful.Color {
	if f == nil || f.opacity <= 0 || width <= 0 || height <= 0 {
		return base
	}
	short := math.Min(width, height)

	c := base
	for _, b := range f.blobs {
		r := b.Radius * short
		if r <= 0 {
			continue
		}
		dx := x - b.CX*width
		dy := y - b.CY*height
		d2 := (dx*dx + dy*dy) / (r * r)
		if d2 > 4 {
			continue
		}
		falloff := math.Exp(-2 * d2)
		a := blobAlpha * f.opacity * falloff * f.pulse(b.Delay)
		c = c.BlendRgb(b.Color, math.Min(1, a))
	}
	return c
}

// pulse breathes between 0.5 and 1.0.
func (f *Field) pulse(delay float64) float64 {
	return 0.75 + 0.25*math.Cos(2*math.Pi*(f.elapsed-delay)/pulsePeriod)
}

func hex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

package sky

import colorful "github.com/lucasb-eyer/go-colorful"

// Shooting star spawn ranges.
const (
	spawnHeightFraction = 0.3 // meteors start in the top 30% of the surface
	minVX, maxVX        = -4.0, 4.0
	minVY, maxVY        = 2.0, 6.0
	minMaxAge           = 60
	maxMaxAge           = 100 // inclusive
)

// Shooting star rendering.
const (
	trailLength = 10.0 // trail = velocity scaled by this many ticks
	trailWidth  = 2.0
	headRadius  = 2.0
)

// MeteorColor is the trail and head color of every shooting star.
var MeteorColor = colorful.Color{R: 1, G: 1, B: 1}

// ShootingStar is a transient streak with linear motion and a fixed lifespan
// measured in ticks.
type ShootingStar struct {
	X, Y   float64
	VX, VY float64
	Age    int
	MaxAge int
}

// Fade is the remaining-lifetime fraction, used as render alpha. The star
// is alive while Fade > 0.
func (ss ShootingStar) Fade() float64 {
	if ss.MaxAge <= 0 {
		return 0
	}
	return 1 - float64(ss.Age)/float64(ss.MaxAge)
}

// Alive reports whether the star should stay in the population.
func (ss ShootingStar) Alive() bool {
	return ss.Fade() > 0
}

// Tail returns the far end of the motion-blur trail.
func (ss ShootingStar) Tail() (x, y float64) {
	return ss.X - ss.VX*trailLength, ss.Y - ss.VY*trailLength
}

func (ss *ShootingStar) advance() {
	ss.X += ss.VX
	ss.Y += ss.VY
	ss.Age++
}

// newShootingStar draws a meteor high in a width x height frame.
func newShootingStar(width, height int, rnd Rand) ShootingStar {
	return ShootingStar{
		X:      rnd.Float64() * float64(width),
		Y:      rnd.Float64() * float64(height) * spawnHeightFraction,
		VX:     minVX + rnd.Float64()*(maxVX-minVX),
		VY:     minVY + rnd.Float64()*(maxVY-minVY),
		MaxAge: minMaxAge + int(rnd.Float64()*float64(maxMaxAge-minMaxAge+1)),
	}
}

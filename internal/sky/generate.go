package sky

import (
	"math"
	"math/rand/v2"
)

// DefaultAreaPerStar is the surface area, in square pixels, allotted to each
// ambient star.
const DefaultAreaPerStar = 8000.0

// Rand is the randomness source used by generation and spawning.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
}

// globalRand draws from the math/rand/v2 top-level source.
type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// StarCount returns how many stars a width x height surface holds.
func StarCount(width, height int, areaPerStar float64) int {
	if width <= 0 || height <= 0 || areaPerStar <= 0 {
		return 0
	}
	return int(math.Floor(float64(width) * float64(height) / areaPerStar))
}

// Generate builds a fresh ambient star population for a width x height
// surface using the default density.
func Generate(width, height int, rnd Rand) []Star {
	return generate(width, height, DefaultAreaPerStar, rnd)
}

func generate(width, height int, areaPerStar float64, rnd Rand) []Star {
	n := StarCount(width, height, areaPerStar)
	if n == 0 {
		return nil
	}
	if rnd == nil {
		rnd = globalRand{}
	}

	stars := make([]Star, n)
	for i := range stars {
		stars[i] = Star{
			X:           rnd.Float64() * float64(width),
			Y:           rnd.Float64() * float64(height),
			Opacity:     rnd.Float64(),
			TwinkleRate: minTwinkleRate + rnd.Float64()*(maxTwinkleRate-minTwinkleRate),
			Size:        minStarSize + rnd.Float64()*(maxStarSize-minStarSize),
			Color:       Palette[int(rnd.Float64()*float64(len(Palette)))%len(Palette)],
			PulsePhase:  rnd.Float64() * 2 * math.Pi,
		}
	}
	return stars
}

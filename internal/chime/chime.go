// Package chime plays a short tone whenever a shooting star appears.
package chime

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/litescript/ls-nightsky/internal/sky"
)

const (
	sampleRate = beep.SampleRate(44100)
	toneLength = 120 * time.Millisecond
	baseFreq   = 660.0 // Hz, shifted by the meteor's heading
	minGap     = 150 * time.Millisecond
)

// Player turns meteor spawns into tones. It implements sky.Observer.
type Player struct {
	sky.NopObserver

	mu     sync.Mutex
	play   func(beep.Streamer)
	volume float64
	last   time.Time
	now    func() time.Time
	played int
}

// Open initializes the speaker. volume is in [0, 1].
func Open(volume float64) (*Player, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	return newPlayer(volume, func(s beep.Streamer) { speaker.Play(s) }), nil
}

func newPlayer(volume float64, play func(beep.Streamer)) *Player {
	return &Player{
		play:   play,
		volume: math.Max(0, math.Min(1, volume)),
		now:    time.Now,
	}
}

// Close stops the speaker.
func (p *Player) Close() {
	speaker.Close()
}

// Played returns how many tones have been started.
func (p *Player) Played() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played
}

// MeteorSpawned starts a tone. Meteors heading right sound slightly higher.
// Tones closer together than minGap are dropped.
func (p *Player) MeteorSpawned(ss sky.ShootingStar) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.volume == 0 {
		return
	}
	now := p.now()
	if !p.last.IsZero() && now.Sub(p.last) < minGap {
		return
	}

	tone, err := generators.SineTone(sampleRate, Frequency(ss))
	if err != nil {
		return
	}
	p.last = now
	p.played++
	p.play(p.shape(beep.Take(sampleRate.N(toneLength), tone)))
}

// shape attenuates the tone to the configured volume.
func (p *Player) shape(s beep.Streamer) beep.Streamer {
	return &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   math.Log2(p.volume),
		Silent:   p.volume == 0,
	}
}

// Frequency maps a meteor's horizontal velocity to a pitch around baseFreq.
func Frequency(ss sky.ShootingStar) float64 {
	return baseFreq * math.Pow(2, ss.VX/24)
}

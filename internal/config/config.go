// Package config loads ls-nightsky settings from an optional TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/litescript/ls-nightsky/internal/backdrop"
	"github.com/litescript/ls-nightsky/internal/sky"
)

// Backends
const (
	BackendBubbleTea = "bubbletea"
	BackendTcell     = "tcell"
)

// Limits applied by Validate.
const (
	MinFPS = 1
	MaxFPS = 240
)

// Display controls the terminal host.
type Display struct {
	Backend    string `toml:"backend"`
	FPS        int    `toml:"fps"`
	CellWidth  int    `toml:"cell_width"`
	CellHeight int    `toml:"cell_height"`
	Nebula     bool   `toml:"nebula"`
	Card       bool   `toml:"card"`
}

// Sky holds the simulation constants.
type Sky struct {
	AreaPerStar float64 `toml:"area_per_star"`
	SpawnChance float64 `toml:"spawn_chance"`
	TimeStep    float64 `toml:"time_step"`
}

// Audio controls the meteor chime.
type Audio struct {
	Chime  bool    `toml:"chime"`
	Volume float64 `toml:"volume"`
}

// Config is the full configuration.
type Config struct {
	Display Display `toml:"display"`
	Sky     Sky     `toml:"sky"`
	Audio   Audio   `toml:"audio"`
}

// Default returns the built-in configuration.
func Default() Config {
	s := sky.DefaultConfig()
	return Config{
		Display: Display{
			Backend:    BackendBubbleTea,
			FPS:        60,
			CellWidth:  8,
			CellHeight: 16,
			Nebula:     true,
			Card:       true,
		},
		Sky: Sky{
			AreaPerStar: s.AreaPerStar,
			SpawnChance: s.SpawnChance,
			TimeStep:    s.TimeStep,
		},
		Audio: Audio{
			Chime:  false,
			Volume: 0.2,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/ls-nightsky/config.toml (or the
// platform equivalent).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ls-nightsky", "config.toml")
}

// Load reads path over the defaults. A missing file is not an error when
// optional is true.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Default(), fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}

	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects unusable values and clamps the rest into range.
func (c *Config) Validate() error {
	switch c.Display.Backend {
	case BackendBubbleTea, BackendTcell:
	case "":
		c.Display.Backend = BackendBubbleTea
	default:
		return fmt.Errorf("unknown backend %q", c.Display.Backend)
	}

	if c.Display.FPS < MinFPS {
		c.Display.FPS = MinFPS
	} else if c.Display.FPS > MaxFPS {
		c.Display.FPS = MaxFPS
	}
	if c.Display.CellWidth < 1 {
		c.Display.CellWidth = 1
	}
	// Two half-block samples per row.
	if c.Display.CellHeight < 2 {
		c.Display.CellHeight = 2
	}

	if c.Sky.AreaPerStar <= 0 {
		return fmt.Errorf("area_per_star must be positive, got %v", c.Sky.AreaPerStar)
	}
	if c.Sky.SpawnChance < 0 || c.Sky.SpawnChance > 1 {
		return fmt.Errorf("spawn_chance must be in [0, 1], got %v", c.Sky.SpawnChance)
	}
	if c.Sky.TimeStep <= 0 {
		return fmt.Errorf("time_step must be positive, got %v", c.Sky.TimeStep)
	}

	if c.Audio.Volume < 0 {
		c.Audio.Volume = 0
	} else if c.Audio.Volume > 1 {
		c.Audio.Volume = 1
	}
	return nil
}

// Backdrop converts the configuration into backdrop settings.
func (c Config) Backdrop() backdrop.Config {
	return backdrop.Config{
		Sky: sky.Config{
			AreaPerStar: c.Sky.AreaPerStar,
			SpawnChance: c.Sky.SpawnChance,
			TimeStep:    c.Sky.TimeStep,
		},
		FPS:    c.Display.FPS,
		Nebula: c.Display.Nebula,
	}
}

// Package config provides YAML-based playfield configuration loading and
// difficulty management for diggy.
package config

import (
	"fmt"

	"github.com/vovakirdan/diggy/internal/games/diggy/core"
)

// DiggyConfig contains all configuration for a diggy session.
type DiggyConfig struct {
	Grid       GridConfig       `yaml:"grid"`
	Spawn      []SpawnConfig    `yaml:"spawn"`
	Session    SessionConfig    `yaml:"session"`
	Render     RenderConfig     `yaml:"render"`
	Audio      AudioConfig      `yaml:"audio"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// GridConfig defines the playfield dimensions and scroll behavior.
type GridConfig struct {
	Width           int `yaml:"width"`
	Height          int `yaml:"height"`
	DecoWidth       int `yaml:"deco_width"`
	InitialOffset   int `yaml:"initial_offset"`
	InitialDepth    int `yaml:"initial_depth"`
	ScrollThreshold int `yaml:"scroll_threshold"` // Depth after which every dig scrolls
}

// SpawnConfig assigns a weight to a cell. Cell is a name ("gold") or an id.
type SpawnConfig struct {
	Weight float64 `yaml:"weight"`
	Cell   string  `yaml:"cell"`
}

// SessionConfig defines player health and scoring.
type SessionConfig struct {
	Health       int            `yaml:"health"`
	MaxHealth    int            `yaml:"max_health"`
	HazardDamage int            `yaml:"hazard_damage"`
	PowerUpHeal  int            `yaml:"powerup_heal"`
	Scores       map[string]int `yaml:"scores"` // Points per cleared cell name
}

// RenderConfig defines mesh rendering parameters.
type RenderConfig struct {
	AtlasTiles int    `yaml:"atlas_tiles"` // Atlas is AtlasTiles x AtlasTiles
	Templates  string `yaml:"templates"`   // Optional YAML template set path
}

// AudioConfig defines sound output.
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Volume     float64 `yaml:"volume"` // 0.0 = silent, 1.0 = full
	SampleRate int     `yaml:"sample_rate"`
}

// SpawnEntries converts the spawn list to playfield entries.
func (c DiggyConfig) SpawnEntries() ([]core.SpawnEntry, error) {
	entries := make([]core.SpawnEntry, 0, len(c.Spawn))
	for i, s := range c.Spawn {
		cell, ok := core.ParseCell(s.Cell)
		if !ok || cell == core.Decoration {
			return nil, &core.ConfigError{
				Field:   fmt.Sprintf("spawn[%d].cell", i),
				Message: fmt.Sprintf("unknown cell %q", s.Cell),
			}
		}
		entries = append(entries, core.SpawnEntry{Weight: s.Weight, Cell: cell})
	}
	return entries, nil
}

// ControllerConfig returns the playfield configuration described by c.
func (c DiggyConfig) ControllerConfig() (core.Config, error) {
	entries, err := c.SpawnEntries()
	if err != nil {
		return core.Config{}, err
	}
	return core.Config{
		Width:           c.Grid.Width,
		Height:          c.Grid.Height,
		DecoWidth:       c.Grid.DecoWidth,
		InitialOffset:   c.Grid.InitialOffset,
		InitialDepth:    c.Grid.InitialDepth,
		ScrollThreshold: c.Grid.ScrollThreshold,
		Spawn:           entries,
	}, nil
}

// ScoreFor returns the points awarded for clearing cell.
func (c DiggyConfig) ScoreFor(cell core.Cell) int {
	return c.Session.Scores[cell.String()]
}

// Validate checks everything that would otherwise fail mid-session.
// A spawn list with no positive weight is an error here even though the
// playfield itself could fall back to dirt.
func (c DiggyConfig) Validate() error {
	cc, err := c.ControllerConfig()
	if err != nil {
		return err
	}
	if err := cc.Validate(); err != nil {
		return err
	}
	if _, err := core.NewSpawnTable(cc.Spawn, nil); err != nil {
		return err
	}

	for name := range c.Session.Scores {
		if cell, ok := core.ParseCell(name); !ok || cell.String() != name {
			return &core.ConfigError{Field: "session.scores", Message: fmt.Sprintf("unknown cell %q", name)}
		}
	}

	switch {
	case c.Session.Health <= 0:
		return &core.ConfigError{Field: "session.health", Message: fmt.Sprintf("must be positive, got %d", c.Session.Health)}
	case c.Session.MaxHealth < c.Session.Health:
		return &core.ConfigError{Field: "session.max_health", Message: fmt.Sprintf("must be at least health %d, got %d", c.Session.Health, c.Session.MaxHealth)}
	case c.Session.HazardDamage < 0:
		return &core.ConfigError{Field: "session.hazard_damage", Message: "must not be negative"}
	case c.Session.PowerUpHeal < 0:
		return &core.ConfigError{Field: "session.powerup_heal", Message: "must not be negative"}
	case c.Render.AtlasTiles < 3:
		return &core.ConfigError{Field: "render.atlas_tiles", Message: fmt.Sprintf("need room for 8 tiles, got %d per row", c.Render.AtlasTiles)}
	case c.Audio.Volume < 0 || c.Audio.Volume > 1:
		return &core.ConfigError{Field: "audio.volume", Message: fmt.Sprintf("must be within [0, 1], got %v", c.Audio.Volume)}
	case c.Audio.Enabled && c.Audio.SampleRate <= 0:
		return &core.ConfigError{Field: "audio.sample_rate", Message: fmt.Sprintf("must be positive, got %d", c.Audio.SampleRate)}
	}
	return nil
}

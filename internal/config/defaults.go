package config

import (
	_ "embed"
)

//go:embed defaults/diggy.yaml
var defaultDiggyYAML []byte

// DefaultDiggyConfig returns the default diggy configuration.
func DefaultDiggyConfig() DiggyConfig {
	return DiggyConfig{
		Grid: GridConfig{
			Width:           3,
			Height:          12,
			DecoWidth:       3,
			InitialOffset:   0,
			InitialDepth:    0,
			ScrollThreshold: 4,
		},
		Spawn: []SpawnConfig{
			{Weight: 8, Cell: "dirt"},
			{Weight: 6, Cell: "gold"},
			{Weight: 2, Cell: "diamond"},
			{Weight: 3, Cell: "hazard"},
			{Weight: 1, Cell: "powerup"},
		},
		Session: SessionConfig{
			Health:       3,
			MaxHealth:    5,
			HazardDamage: 1,
			PowerUpHeal:  1,
			Scores: map[string]int{
				"dirt":    1,
				"gold":    10,
				"diamond": 50,
				"powerup": 5,
			},
		},
		Render: RenderConfig{
			AtlasTiles: 4,
		},
		Audio: AudioConfig{
			Enabled:    true,
			Volume:     0.6,
			SampleRate: 44100,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "depth",
				MaxAt: 200,
			},
			Scaling: ScalingConfig{
				DamageMultiplier: 1.0,
				ScoreMultiplier:  1.0,
			},
		},
	}
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads diggy configuration. Files are decoded over the defaults, so a
// partial file only overrides the keys it sets.
// Search order: customPath -> ~/.diggy/configs/diggy.yaml -> ./configs/diggy.yaml -> embedded default
func Load(customPath string) (DiggyConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DiggyConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return DiggyConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("diggy.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "diggy.yaml")); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultDiggyYAML)
	if err != nil {
		return DefaultDiggyConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes YAML over the hard-coded defaults.
func Parse(data []byte) (DiggyConfig, error) {
	cfg := DefaultDiggyConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DiggyConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".diggy", "configs", filename)
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *DiggyConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust the row mix and survivability
	switch preset {
	case DifficultyEasy:
		scaleSpawn(cfg, "hazard", 0.5)
		scaleSpawn(cfg, "powerup", 2)
		cfg.Session.Health = 5
	case DifficultyHard:
		scaleSpawn(cfg, "hazard", 2)
		scaleSpawn(cfg, "powerup", 0.5)
		cfg.Session.Health = 2
	}
	if cfg.Session.MaxHealth < cfg.Session.Health {
		cfg.Session.MaxHealth = cfg.Session.Health
	}
}

func scaleSpawn(cfg *DiggyConfig, cell string, factor float64) {
	for i := range cfg.Spawn {
		if cfg.Spawn[i].Cell == cell {
			cfg.Spawn[i].Weight *= factor
		}
	}
}

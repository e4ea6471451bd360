package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSpawnWeight is reported when a spawn table cannot make a weighted draw.
	ErrNoSpawnWeight = errors.New("spawn table has no positive weight")

	// ErrStepInProgress is returned when a dig arrives while a step is running.
	ErrStepInProgress = errors.New("dig step already in progress")
)

// ConfigError describes an invalid playfield configuration value.
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config: %s: %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func configErr(field, format string, args ...any) error {
	return &ConfigError{Field: field, Message: fmt.Sprintf(format, args...)}
}

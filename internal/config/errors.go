package config

import (
	"errors"
)

var (
	// ErrInvalidConfig wraps validation failures of a loaded Config.
	ErrInvalidConfig = errors.New("invalid crewboard config")
	// ErrLoadConfig wraps failures reading a configuration source.
	ErrLoadConfig = errors.New("load crewboard config")
)

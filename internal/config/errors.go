package config

import "errors"

var (
	// ErrInvalidConfig wraps every validation failure.
	ErrInvalidConfig = errors.New("config: invalid")
	// ErrLoadConfig wraps failures reading a config source (file, dotenv, env).
	ErrLoadConfig = errors.New("config: load failed")
)

package config

import (
	"errors"
	"fmt"
	"time"
)

// ValidationError contains details about what failed validation.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config.%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// validateConfig checks all config values for validity.
// Returns nil if valid, or joined errors for all validation failures.
func validateConfig(cfg *Config) error {
	var errs []error

	switch cfg.Runtime.Type {
	case RuntimeAuto, RuntimeDocker, RuntimePodman:
	default:
		errs = append(errs, &ValidationError{
			Field:   "runtime.type",
			Value:   cfg.Runtime.Type,
			Message: "must be one of: auto, docker, podman",
		})
	}

	switch cfg.Invoke.OnExit {
	case "", "leave", "stop", "remove":
	default:
		errs = append(errs, &ValidationError{
			Field:   "invoke.on_exit",
			Value:   cfg.Invoke.OnExit,
			Message: "must be one of: leave, stop, remove",
		})
	}

	if len(cfg.Invoke.Runscript) == 0 {
		errs = append(errs, &ValidationError{
			Field:   "invoke.runscript",
			Value:   cfg.Invoke.Runscript,
			Message: "must not be empty",
		})
	}

	if d, err := time.ParseDuration(cfg.Invoke.StopGrace); err != nil {
		errs = append(errs, &ValidationError{
			Field:   "invoke.stop_grace",
			Value:   cfg.Invoke.StopGrace,
			Message: fmt.Sprintf("invalid duration: %v", err),
		})
	} else if d <= 0 {
		errs = append(errs, &ValidationError{
			Field:   "invoke.stop_grace",
			Value:   cfg.Invoke.StopGrace,
			Message: "must be positive",
		})
	}

	if d, err := time.ParseDuration(cfg.Invoke.Timeout); err != nil {
		errs = append(errs, &ValidationError{
			Field:   "invoke.timeout",
			Value:   cfg.Invoke.Timeout,
			Message: fmt.Sprintf("invalid duration: %v", err),
		})
	} else if d < 0 {
		errs = append(errs, &ValidationError{
			Field:   "invoke.timeout",
			Value:   cfg.Invoke.Timeout,
			Message: "must not be negative",
		})
	}

	if cfg.StateDir == "" {
		errs = append(errs, &ValidationError{
			Field:   "state_dir",
			Value:   cfg.StateDir,
			Message: "must not be empty",
		})
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		errs = append(errs, &ValidationError{
			Field:   "log_level",
			Value:   cfg.LogLevel,
			Message: "must be one of: debug, info, warn, error",
		})
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

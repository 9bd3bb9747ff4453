package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// RuntimeType names a supported container runtime.
type RuntimeType string

const (
	// RuntimeAuto probes for an available runtime at startup.
	RuntimeAuto RuntimeType = "auto"

	RuntimeDocker RuntimeType = "docker"
	RuntimePodman RuntimeType = "podman"
)

// RuntimeConfig holds runtime selection and invocation settings.
type RuntimeConfig struct {
	// Type selects the runtime: "auto" (default), "docker", or "podman"
	Type RuntimeType `yaml:"type"`

	// Command overrides the runtime binary path or name
	Command string `yaml:"command,omitempty"`

	// ExtraArgs are passed to every run invocation verbatim
	ExtraArgs []string `yaml:"extra_args,omitempty"`
}

// InvokeConfig holds per-invocation defaults.
type InvokeConfig struct {
	// Runscript wraps composed commands; default is /bin/bash -c
	Runscript []string `yaml:"runscript,omitempty"`

	// User is the uid:gid identity inside containers; empty means the
	// invoking process identity
	User string `yaml:"user,omitempty"`

	// OnExit is the default end-of-job directive: "leave", "stop",
	// or "remove" (empty leaves it per-invocation)
	OnExit string `yaml:"on_exit,omitempty"`

	// StopGrace bounds the graceful phase of stop-then-kill cleanup
	StopGrace string `yaml:"stop_grace"`

	// Timeout bounds each runtime interaction (0s = unbounded)
	Timeout string `yaml:"timeout"`
}

// Config holds all configuration for the container invocation layer.
// It is immutable after creation via LoadConfig().
type Config struct {
	// Runtime contains runtime selection and invocation settings
	Runtime RuntimeConfig `yaml:"runtime"`

	// Invoke contains per-invocation defaults
	Invoke InvokeConfig `yaml:"invoke"`

	// StateDir is where durable job state (the deferred-cleanup
	// registry) lives. Relative paths are resolved from the working
	// directory LoadConfig is given.
	StateDir string `yaml:"state_dir"`

	// JSONEvents forces line-delimited JSON event output even on a TTY
	JSONEvents bool `yaml:"json_events"`

	// LogLevel controls log verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`
}

// StopGraceDuration parses the stop grace period as a Duration.
func (c *Config) StopGraceDuration() (time.Duration, error) {
	return time.ParseDuration(c.Invoke.StopGrace)
}

// InvokeTimeoutDuration parses the invocation timeout as a Duration.
func (c *Config) InvokeTimeoutDuration() (time.Duration, error) {
	return time.ParseDuration(c.Invoke.Timeout)
}

// LoadConfig loads configuration from dir. It applies defaults, then
// file values from .gantry.yaml, then environment overrides, then
// validates. A missing config file is not an error.
func LoadConfig(dir string) (*Config, error) {
	cfg := DefaultConfig()

	configPath := filepath.Join(dir, ".gantry.yaml")
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if !filepath.IsAbs(cfg.StateDir) {
		cfg.StateDir = filepath.Join(dir, cfg.StateDir)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

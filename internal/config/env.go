package config

import "os"

// envOverrides maps environment variables to config field setters.
var envOverrides = []struct {
	envVar string
	apply  func(*Config, string)
}{
	{
		envVar: "GANTRY_RUNTIME",
		apply: func(c *Config, v string) {
			c.Runtime.Type = RuntimeType(v)
		},
	},
	{
		envVar: "GANTRY_RUNTIME_CMD",
		apply: func(c *Config, v string) {
			c.Runtime.Command = v
		},
	},
	{
		envVar: "GANTRY_STATE_DIR",
		apply: func(c *Config, v string) {
			c.StateDir = v
		},
	},
	{
		envVar: "GANTRY_STOP_GRACE",
		apply: func(c *Config, v string) {
			c.Invoke.StopGrace = v
		},
	},
	{
		envVar: "GANTRY_LOG_LEVEL",
		apply: func(c *Config, v string) {
			c.LogLevel = v
		},
	},
}

// applyEnvOverrides modifies config in place with environment variable values.
func applyEnvOverrides(cfg *Config) {
	for _, override := range envOverrides {
		if val := os.Getenv(override.envVar); val != "" {
			override.apply(cfg, val)
		}
	}
}

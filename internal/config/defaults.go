package config

const (
	DefaultStopGrace     = "30s"
	DefaultInvokeTimeout = "0s" // unbounded
	DefaultStateDir      = ".gantry/"
	DefaultLogLevel      = "info"
)

// DefaultRunscript wraps composed commands in a shell so pipelines and
// the failure guard work.
func DefaultRunscript() []string {
	return []string{"/bin/bash", "-c"}
}

// DefaultConfig returns a Config with all default values applied.
func DefaultConfig() *Config {
	return &Config{
		Runtime: RuntimeConfig{
			Type: RuntimeAuto,
		},
		Invoke: InvokeConfig{
			Runscript: DefaultRunscript(),
			StopGrace: DefaultStopGrace,
			Timeout:   DefaultInvokeTimeout,
		},
		StateDir: DefaultStateDir,
		LogLevel: DefaultLogLevel,
	}
}

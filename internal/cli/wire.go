package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gantryd/gantry/internal/config"
	"github.com/gantryd/gantry/internal/container"
	"github.com/gantryd/gantry/internal/events"
	"github.com/gantryd/gantry/internal/jobdefer"
)

// Runtime holds all wired components
type Runtime struct {
	Config *config.Config
	Client container.Client
	Events *events.Bus
	Store  *jobdefer.Store
}

// WireRuntime assembles the container client, event bus, and durable
// deferred-action store from config.
func WireRuntime(cfg *config.Config) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	runtime, err := resolveRuntime(cfg)
	if err != nil {
		return nil, err
	}
	client := container.NewCLIClient(runtime)

	// Events go to stderr so they never interleave with captured
	// container output on stdout.
	bus := events.NewBus()
	if events.IsJSONMode(cfg.JSONEvents, os.Stderr) {
		bus.Subscribe(events.JSONEmitterHandler(events.NewJSONEmitter(os.Stderr)))
	}

	if err := os.MkdirAll(cfg.StateDir, 0755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	store, err := jobdefer.OpenStore(filepath.Join(cfg.StateDir, "defer.db"))
	if err != nil {
		return nil, fmt.Errorf("open deferred-action store: %w", err)
	}

	return &Runtime{
		Config: cfg,
		Client: client,
		Events: bus,
		Store:  store,
	}, nil
}

// resolveRuntime maps the configured runtime type to a binary name,
// probing when set to auto.
func resolveRuntime(cfg *config.Config) (string, error) {
	if cfg.Runtime.Command != "" {
		return cfg.Runtime.Command, nil
	}
	if cfg.Runtime.Type == config.RuntimeAuto {
		return container.DetectRuntime()
	}
	return string(cfg.Runtime.Type), nil
}

// Close releases the runtime's resources.
func (r *Runtime) Close() error {
	if r.Store != nil {
		return r.Store.Close()
	}
	return nil
}

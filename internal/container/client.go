package container

import (
	"context"
	"time"
)

// Client is the capability interface for a container runtime.
// Implementations must be safe for concurrent use; the runtime daemon
// is the only shared mutable resource and owns its own locking.
//
// Methods that look up a container by name return a NotFoundError
// (unwrapping to ErrNotFound) when the runtime does not know the name,
// and a DaemonError (unwrapping to ErrUnavailable) when the runtime
// cannot be reached. Callers must not conflate the two.
type Client interface {
	// Runtime returns the runtime name (e.g., "docker" or "podman").
	Runtime() string

	// Run starts a container from the image's default entry point.
	// Blocks and returns captured output unless opts.Detach is set,
	// in which case it returns as soon as the container is started.
	Run(ctx context.Context, opts RunOptions) ([]byte, error)

	// Exec runs opts.Argv in a fresh container. Blocking semantics
	// match Run. A non-zero exit surfaces as an ExecError.
	Exec(ctx context.Context, opts ExecOptions) ([]byte, error)

	// Status reports whether the named container is running.
	Status(ctx context.Context, name string) (Status, error)

	// Stop requests graceful termination, escalating after grace.
	Stop(ctx context.Context, name string, grace time.Duration) error

	// Kill requests immediate termination.
	Kill(ctx context.Context, name string) error

	// Remove deletes the container. With force, a running container
	// is killed first.
	Remove(ctx context.Context, name string, force bool) error
}

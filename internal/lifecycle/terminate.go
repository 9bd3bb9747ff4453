package lifecycle

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gantryd/gantry/internal/container"
)

// ForceKill repeatedly requests immediate termination until the runtime
// reports the container not running. A container the runtime no longer
// knows counts as success, so the call is idempotent and safe against a
// concurrent removal. Daemon-communication errors propagate.
func ForceKill(ctx context.Context, client container.Client, name string) error {
	for {
		if err := ctx.Err(); err != nil {
			return &container.DaemonError{Op: "kill", Err: err}
		}

		st, err := client.Status(ctx, name)
		if err != nil {
			if container.IsNotFound(err) {
				log.Debug("container already absent", "container", name)
				return nil
			}
			return err
		}
		if !st.Running {
			return nil
		}

		if err := client.Kill(ctx, name); err != nil {
			if container.IsNotFound(err) {
				log.Debug("container removed during kill", "container", name)
				return nil
			}
			return err
		}
	}
}

// StopThenKill requests graceful termination, waits out the grace
// period, and falls back to ForceKill if the container is still
// running. It shares ForceKill's idempotency: an absent container is
// success.
func StopThenKill(ctx context.Context, client container.Client, name string, grace time.Duration) error {
	if err := client.Stop(ctx, name, grace); err != nil {
		if container.IsNotFound(err) {
			log.Debug("container already absent", "container", name)
			return nil
		}
		return err
	}

	st, err := client.Status(ctx, name)
	if err != nil {
		if container.IsNotFound(err) {
			return nil
		}
		return err
	}
	if !st.Running {
		return nil
	}

	log.Warn("container survived graceful stop, escalating", "container", name, "grace", grace)
	return ForceKill(ctx, client, name)
}

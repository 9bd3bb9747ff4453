// Package jobdefer models the job framework's completion hook: cleanup
// actions registered during a job's main body that must run exactly
// once after it ends, whatever the outcome. The surrounding engine
// normally supplies this mechanism; keeping it behind a small registry
// interface lets the invoker run against a real scheduler or a test
// registry interchangeably.
package jobdefer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gantryd/gantry/internal/container"
	"github.com/gantryd/gantry/internal/events"
	"github.com/gantryd/gantry/internal/lifecycle"
)

// Action is one deferred cleanup: terminate the named container when
// the owning job completes.
type Action struct {
	// Job identifies the owning job.
	Job string

	// Container is the container name the action targets.
	Container string

	// Kind selects the terminator behavior.
	Kind lifecycle.ActionKind

	// Grace bounds the stop phase of stop-then-kill.
	Grace time.Duration
}

// Execute runs the action against the runtime. Absent containers are
// success; the terminator guarantees idempotency.
func (a Action) Execute(ctx context.Context, client container.Client) error {
	switch a.Kind {
	case lifecycle.KindForceKill:
		return lifecycle.ForceKill(ctx, client, a.Container)
	case lifecycle.KindStopThenKill:
		return lifecycle.StopThenKill(ctx, client, a.Container, a.Grace)
	case lifecycle.KindNone:
		return nil
	default:
		return fmt.Errorf("unknown deferred action kind %d", int(a.Kind))
	}
}

// Registry accepts deferred actions. Registration must complete before
// the runtime is asked to do anything irrevocable, so cleanup survives
// an invocation that fails halfway.
type Registry interface {
	Defer(a Action) error
}

// ErrCompleted is returned when an action is registered after the
// completion hook has already fired.
var ErrCompleted = errors.New("job already completed")

// BusObserver bridges a registry's OnExecuted hook onto an event bus,
// emitting cleanup.executed or cleanup.failed per action.
func BusObserver(bus *events.Bus) func(Action, error) {
	return func(a Action, err error) {
		if err != nil {
			bus.Emit(events.NewEvent(events.CleanupFailed, a.Container).
				WithJob(a.Job).WithError(err))
			return
		}
		bus.Emit(events.NewEvent(events.CleanupExecuted, a.Container).
			WithJob(a.Job).WithPayload(a.Kind.String()))
	}
}

// Completion is the in-memory completion hook: an ordered run-once
// registry. Actions run in reverse registration order, mirroring defer
// semantics. Safe for concurrent Defer.
type Completion struct {
	mu      sync.Mutex
	actions []Action
	done    bool

	// OnExecuted, when set, observes each action after it runs.
	OnExecuted func(Action, error)
}

// NewCompletion creates an empty completion hook.
func NewCompletion() *Completion {
	return &Completion{}
}

// Defer registers an action to run at job completion.
func (c *Completion) Defer(a Action) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return ErrCompleted
	}
	c.actions = append(c.actions, a)
	return nil
}

// Len returns the number of registered, not-yet-run actions.
func (c *Completion) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return 0
	}
	return len(c.actions)
}

// RunAll executes every registered action at most once, newest first.
// A second call is a no-op. Failures do not stop the remaining
// actions; they are joined into the returned error.
func (c *Completion) RunAll(ctx context.Context, client container.Client) error {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return nil
	}
	c.done = true
	actions := c.actions
	c.actions = nil
	c.mu.Unlock()

	var failures []error
	for i := len(actions) - 1; i >= 0; i-- {
		a := actions[i]
		err := a.Execute(ctx, client)
		if err != nil {
			log.Error("deferred cleanup failed", "job", a.Job, "container", a.Container, "action", a.Kind, "err", err)
			failures = append(failures, err)
		}
		if c.OnExecuted != nil {
			c.OnExecuted(a, err)
		}
	}
	return errors.Join(failures...)
}

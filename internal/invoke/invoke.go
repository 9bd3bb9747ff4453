// Package invoke orchestrates a single job-scoped container
// invocation: resolving identity, name, and mounts, composing the
// command, registering deferred cleanup with the job completion hook,
// and calling the runtime client.
package invoke

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gantryd/gantry/internal/compose"
	"github.com/gantryd/gantry/internal/container"
	"github.com/gantryd/gantry/internal/events"
	"github.com/gantryd/gantry/internal/jobdefer"
	"github.com/gantryd/gantry/internal/lifecycle"
)

// DefaultStopGrace bounds the stop phase of deferred stop-then-kill
// actions.
const DefaultStopGrace = 30 * time.Second

// Request describes one container invocation.
type Request struct {
	// Image is the container image reference.
	Image string

	// Command is what to run: empty for the image's default entry
	// point, a single stage, or a pipeline.
	Command compose.Command

	// Runscript overrides the default shell -c wrapper for composed
	// commands.
	Runscript []string

	// JobID identifies the owning job; it prefixes generated container
	// names and scopes deferred cleanup.
	JobID string

	// Name overrides the generated container name.
	Name string

	// WorkDir is the host working directory; defaults to the current
	// directory. It is bind-mounted at /data inside the container.
	WorkDir string

	// Mounts are additional bind mounts, applied after the default
	// working-directory mount in the order given.
	Mounts []Mount

	// User is the uid:gid identity inside the container; defaults to
	// the current process identity.
	User string

	// Directive controls container disposition when the job ends.
	Directive lifecycle.Directive

	// Remove requests removal on exit where the directive leaves it
	// caller-controlled.
	Remove bool

	// Detach starts the container without waiting. With no capture
	// flags set the call returns a live handle immediately.
	Detach bool

	// CaptureStdout and CaptureStderr ask a detached invocation to
	// block and collect output anyway. Non-detached invocations always
	// capture stdout; CaptureStderr folds stderr in.
	CaptureStdout bool
	CaptureStderr bool

	// OutFile, when set, receives the captured output of a blocking
	// invocation in addition to Result.Output.
	OutFile string

	// Timeout bounds the runtime interaction. Elapsing means the
	// outcome is unknown, not failed. Zero means no bound.
	Timeout time.Duration

	// ExtraArgs are passed to the runtime verbatim.
	ExtraArgs []string
}

// Result is what an invocation yields: captured output for blocking
// calls, a live handle for detached ones.
type Result struct {
	// Name is the container name the invocation ran under.
	Name string

	// Output holds captured output; nil for detached invocations.
	Output []byte

	// Handle is non-nil only when the call detached without capture.
	Handle *Handle
}

// Handle is a live reference to a started container, jointly owned by
// the caller and whatever deferred cleanup was registered for it. It
// must not be reused after the container is removed.
type Handle struct {
	name   string
	client container.Client
}

// Name returns the container name.
func (h *Handle) Name() string { return h.name }

// Status probes the container's current state.
func (h *Handle) Status(ctx context.Context) (lifecycle.State, error) {
	return lifecycle.Probe(ctx, h.client, h.name)
}

// Kill force-kills the container.
func (h *Handle) Kill(ctx context.Context) error {
	return lifecycle.ForceKill(ctx, h.client, h.name)
}

// Stop stops the container gracefully, escalating after grace.
func (h *Handle) Stop(ctx context.Context, grace time.Duration) error {
	return lifecycle.StopThenKill(ctx, h.client, h.name, grace)
}

// Option configures an Invoker.
type Option func(*Invoker)

// WithStopGrace sets the grace period baked into deferred
// stop-then-kill actions.
func WithStopGrace(d time.Duration) Option {
	return func(inv *Invoker) { inv.stopGrace = d }
}

// WithBus attaches a lifecycle event bus.
func WithBus(bus *events.Bus) Option {
	return func(inv *Invoker) { inv.bus = bus }
}

// Invoker runs containers for jobs. It holds no mutable state shared
// between invocations; concurrent jobs may share one Invoker.
type Invoker struct {
	client    container.Client
	registry  jobdefer.Registry
	stopGrace time.Duration
	bus       *events.Bus
}

// New creates an Invoker using the supplied runtime client and job
// completion registry.
func New(client container.Client, registry jobdefer.Registry, opts ...Option) *Invoker {
	inv := &Invoker{client: client, registry: registry, stopGrace: DefaultStopGrace}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Invoke runs one container invocation. Construction and policy errors
// fail before the runtime client is touched, and the deferred cleanup
// action is registered before the runtime call so cleanup is
// guaranteed even when invocation itself fails. Runtime errors are
// logged with the attempted command, then returned unmodified:
// downstream retry logic depends on accurate failure signaling.
func (inv *Invoker) Invoke(ctx context.Context, req Request) (*Result, error) {
	if err := req.Command.Validate(); err != nil {
		return nil, err
	}
	cleanup, err := lifecycle.Resolve(req.Directive, req.Remove)
	if err != nil {
		return nil, err
	}

	user := req.User
	if user == "" {
		user = fmt.Sprintf("%d:%d", os.Getuid(), os.Getgid())
	}

	jobLabel := req.JobID
	if jobLabel == "" {
		jobLabel = "gantry"
	}
	name := req.Name
	if name == "" {
		name = ContainerName(jobLabel)
	}

	workDir := req.WorkDir
	if workDir == "" {
		if workDir, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
	}

	// Cleanup registration precedes the runtime call.
	if cleanup.Kind != lifecycle.KindNone {
		action := jobdefer.Action{
			Job:       req.JobID,
			Container: name,
			Kind:      cleanup.Kind,
			Grace:     inv.stopGrace,
		}
		if err := inv.registry.Defer(action); err != nil {
			return nil, fmt.Errorf("register deferred cleanup: %w", err)
		}
		inv.bus.Emit(events.NewEvent(events.CleanupRegistered, name).
			WithJob(req.JobID).WithPayload(cleanup.Kind.String()))
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	// A detached invocation that asks for capture blocks like a
	// foreground one; only detach without capture returns early.
	detachNow := req.Detach && !req.CaptureStdout && !req.CaptureStderr

	runOpts := container.RunOptions{
		Image:         req.Image,
		Name:          name,
		User:          user,
		WorkDir:       DefaultDataMount,
		Mounts:        mergeMounts(workDir, req.Mounts),
		Detach:        detachNow,
		Remove:        cleanup.RemoveNow,
		CaptureStderr: req.CaptureStderr,
		ExtraArgs:     req.ExtraArgs,
	}

	argv := req.Command.Argv(req.Runscript)
	inv.bus.Emit(events.NewEvent(events.InvokeStarted, name).
		WithJob(req.JobID).WithPayload(req.Image))

	var out []byte
	if argv == nil {
		out, err = inv.client.Run(ctx, runOpts)
	} else {
		out, err = inv.client.Exec(ctx, container.ExecOptions{RunOptions: runOpts, Argv: argv})
	}
	if err != nil {
		log.Error("container invocation failed",
			"container", name,
			"image", req.Image,
			"command", req.Command.String(),
			"runscript", req.Runscript,
			"detach", detachNow,
			"err", err)
		inv.bus.Emit(events.NewEvent(events.InvokeFailed, name).
			WithJob(req.JobID).WithError(err))
		return nil, err
	}

	if detachNow {
		inv.bus.Emit(events.NewEvent(events.InvokeDetached, name).WithJob(req.JobID))
		return &Result{Name: name, Handle: &Handle{name: name, client: inv.client}}, nil
	}

	if req.OutFile != "" {
		if err := os.WriteFile(req.OutFile, out, 0644); err != nil {
			return nil, fmt.Errorf("write output file: %w", err)
		}
	}

	inv.bus.Emit(events.NewEvent(events.InvokeCompleted, name).WithJob(req.JobID))
	return &Result{Name: name, Output: out}, nil
}

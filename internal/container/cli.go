package container

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ExecCommandFunc is the function signature for creating exec.Cmd.
// This allows injection of mock implementations for testing.
type ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

// CLIOption configures a CLIClient.
type CLIOption func(*CLIClient)

// WithExecCommand overrides how runtime commands are constructed.
func WithExecCommand(f ExecCommandFunc) CLIOption {
	return func(c *CLIClient) { c.execCommand = f }
}

// CLIClient implements Client by shelling out to the docker or podman CLI.
// Both runtimes share a command surface for the operations used here; the
// binary name is the only difference.
type CLIClient struct {
	runtime     string // "docker" or "podman"
	execCommand ExecCommandFunc
}

// NewCLIClient creates a Client backed by the given runtime binary.
// Use DetectRuntime() to find an available runtime first.
func NewCLIClient(runtime string, opts ...CLIOption) *CLIClient {
	c := &CLIClient{runtime: runtime, execCommand: exec.CommandContext}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Runtime returns the runtime binary name.
func (c *CLIClient) Runtime() string { return c.runtime }

// Run starts a container from the image's default entry point.
func (c *CLIClient) Run(ctx context.Context, opts RunOptions) ([]byte, error) {
	return c.invoke(ctx, opts, nil)
}

// Exec runs opts.Argv in a fresh container.
func (c *CLIClient) Exec(ctx context.Context, opts ExecOptions) ([]byte, error) {
	return c.invoke(ctx, opts.RunOptions, opts.Argv)
}

func (c *CLIClient) invoke(ctx context.Context, opts RunOptions, argv []string) ([]byte, error) {
	args := []string{"run", "--name", opts.Name}
	if opts.Detach {
		args = append(args, "-d")
	}
	if opts.Remove {
		args = append(args, "--rm")
	}
	if opts.User != "" {
		args = append(args, "-u", opts.User)
	}
	if opts.WorkDir != "" {
		args = append(args, "-w", opts.WorkDir)
	}
	for _, m := range opts.Mounts {
		args = append(args, "-v", m)
	}
	args = append(args, opts.ExtraArgs...)

	// Image and command come last
	args = append(args, opts.Image)
	args = append(args, argv...)

	cmd := c.execCommand(ctx, c.runtime, args...)

	var out []byte
	var err error
	if opts.CaptureStderr {
		out, err = cmd.CombinedOutput()
	} else {
		out, err = cmd.Output()
	}
	if err != nil {
		return out, c.classify(ctx, "run", opts.Name, err, true)
	}
	return out, nil
}

// Status reports whether the named container is running.
func (c *CLIClient) Status(ctx context.Context, name string) (Status, error) {
	cmd := c.execCommand(ctx, c.runtime, "inspect", "--format", "{{.State.Running}}", name)
	out, err := cmd.Output()
	if err != nil {
		return Status{}, c.classify(ctx, "inspect", name, err, false)
	}
	return Status{Running: strings.TrimSpace(string(out)) == "true"}, nil
}

// Stop requests graceful termination with the given grace period.
func (c *CLIClient) Stop(ctx context.Context, name string, grace time.Duration) error {
	secs := int(grace.Seconds())
	cmd := c.execCommand(ctx, c.runtime, "stop", "-t", strconv.Itoa(secs), name)
	if _, err := cmd.Output(); err != nil {
		return c.classify(ctx, "stop", name, err, false)
	}
	return nil
}

// Kill requests immediate termination.
func (c *CLIClient) Kill(ctx context.Context, name string) error {
	cmd := c.execCommand(ctx, c.runtime, "kill", name)
	if _, err := cmd.Output(); err != nil {
		return c.classify(ctx, "kill", name, err, false)
	}
	return nil
}

// Remove deletes the container, killing it first when force is set.
func (c *CLIClient) Remove(ctx context.Context, name string, force bool) error {
	args := []string{"rm"}
	if force {
		args = append(args, "-f")
	}
	args = append(args, name)
	cmd := c.execCommand(ctx, c.runtime, args...)
	if _, err := cmd.Output(); err != nil {
		return c.classify(ctx, "rm", name, err, false)
	}
	return nil
}

// classify maps a CLI failure onto the error taxonomy. The context is
// consulted first: an expired deadline means the outcome is unknown, so
// the error must say "unavailable", never "failed".
func (c *CLIClient) classify(ctx context.Context, op, name string, err error, isRun bool) error {
	if ctx.Err() != nil {
		return &DaemonError{Op: op, Err: ctx.Err()}
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		// Binary missing, pipe failure, etc. — never talked to the daemon.
		return &DaemonError{Op: op, Err: err}
	}

	stderr := string(exitErr.Stderr)
	lower := strings.ToLower(stderr)
	switch {
	case strings.Contains(lower, "no such container"),
		strings.Contains(lower, "no such object"),
		strings.Contains(lower, "no container with name"),
		// kill racing a container that just exited
		strings.Contains(lower, "is not running"):
		return &NotFoundError{Name: name}
	case strings.Contains(lower, "cannot connect"),
		strings.Contains(lower, "connection refused"),
		strings.Contains(lower, "daemon running"):
		return &DaemonError{Op: op, Err: fmt.Errorf("%s", strings.TrimSpace(stderr))}
	}

	if isRun {
		return &ExecError{Name: name, ExitCode: exitErr.ExitCode(), Stderr: strings.TrimSpace(stderr)}
	}
	return &DaemonError{Op: op, Err: fmt.Errorf("%s", strings.TrimSpace(stderr))}
}

// Verify CLIClient implements Client interface
var _ Client = (*CLIClient)(nil)

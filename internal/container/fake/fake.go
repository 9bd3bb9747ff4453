// Package fake provides a scripted in-memory Client for tests.
// It records every call so tests can assert which runtime operations
// ran (and, as importantly, which did not).
package fake

import (
	"context"
	"sync"
	"time"

	"github.com/gantryd/gantry/internal/container"
)

// Call records one method invocation against the fake runtime.
type Call struct {
	Method string
	Name   string
}

// Client is an in-memory container.Client. The zero value is usable;
// NewClient is provided for symmetry with the real constructor.
type Client struct {
	mu         sync.Mutex
	containers map[string]bool // name -> running
	calls      []Call

	// Error injection. When set, the corresponding method returns the
	// error without touching fake state.
	RunErr    error
	ExecErr   error
	StatusErr error
	StopErr   error
	KillErr   error
	RemoveErr error

	// RunOutput is returned from Run and Exec.
	RunOutput []byte

	// IgnoreStop keeps containers running after Stop, forcing callers
	// down their escalation path.
	IgnoreStop bool

	// KillsBeforeExit is the number of Kill calls a running container
	// absorbs before it actually stops.
	KillsBeforeExit int

	// LastOpts holds the options of the most recent Run or Exec.
	LastOpts container.RunOptions
}

// NewClient creates an empty fake runtime.
func NewClient() *Client {
	return &Client{containers: make(map[string]bool)}
}

// Add seeds a container in the given running state.
func (c *Client) Add(name string, running bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.containers == nil {
		c.containers = make(map[string]bool)
	}
	c.containers[name] = running
}

// Calls returns how many times method was invoked.
func (c *Client) Calls(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, call := range c.calls {
		if call.Method == method {
			n++
		}
	}
	return n
}

// TotalCalls returns the number of recorded runtime interactions.
func (c *Client) TotalCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

// Exists reports whether the fake runtime knows the name.
func (c *Client) Exists(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.containers[name]
	return ok
}

// IsRunning reports whether the named container is running.
func (c *Client) IsRunning(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.containers[name]
}

func (c *Client) record(method, name string) {
	c.calls = append(c.calls, Call{Method: method, Name: name})
}

// Runtime identifies the fake.
func (c *Client) Runtime() string { return "fake" }

// Run starts a container from its entry point.
func (c *Client) Run(ctx context.Context, opts container.RunOptions) ([]byte, error) {
	return c.start("Run", opts, c.RunErr)
}

// Exec runs a command in a fresh container.
func (c *Client) Exec(ctx context.Context, opts container.ExecOptions) ([]byte, error) {
	return c.start("Exec", opts.RunOptions, c.ExecErr)
}

func (c *Client) start(method string, opts container.RunOptions, inject error) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record(method, opts.Name)
	c.LastOpts = opts
	if inject != nil {
		return nil, inject
	}
	if c.containers == nil {
		c.containers = make(map[string]bool)
	}
	if opts.Detach {
		c.containers[opts.Name] = true
	} else if opts.Remove {
		delete(c.containers, opts.Name)
	} else {
		c.containers[opts.Name] = false
	}
	return c.RunOutput, nil
}

// Status reports the container state, or NotFoundError for unknown names.
func (c *Client) Status(ctx context.Context, name string) (container.Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("Status", name)
	if c.StatusErr != nil {
		return container.Status{}, c.StatusErr
	}
	running, ok := c.containers[name]
	if !ok {
		return container.Status{}, &container.NotFoundError{Name: name}
	}
	return container.Status{Running: running}, nil
}

// Stop gracefully stops the container unless IgnoreStop is set.
func (c *Client) Stop(ctx context.Context, name string, grace time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("Stop", name)
	if c.StopErr != nil {
		return c.StopErr
	}
	if _, ok := c.containers[name]; !ok {
		return &container.NotFoundError{Name: name}
	}
	if !c.IgnoreStop {
		c.containers[name] = false
	}
	return nil
}

// Kill stops the container once KillsBeforeExit is exhausted.
func (c *Client) Kill(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("Kill", name)
	if c.KillErr != nil {
		return c.KillErr
	}
	if _, ok := c.containers[name]; !ok {
		return &container.NotFoundError{Name: name}
	}
	if c.KillsBeforeExit > 0 {
		c.KillsBeforeExit--
		return nil
	}
	c.containers[name] = false
	return nil
}

// Remove forgets the container.
func (c *Client) Remove(ctx context.Context, name string, force bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("Remove", name)
	if c.RemoveErr != nil {
		return c.RemoveErr
	}
	if _, ok := c.containers[name]; !ok {
		return &container.NotFoundError{Name: name}
	}
	delete(c.containers, name)
	return nil
}

// Verify Client implements container.Client interface
var _ container.Client = (*Client)(nil)

package container

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the sentinel error wrapped by NotFoundError.
	ErrNotFound = errors.New("container not found")

	// ErrUnavailable is the sentinel error wrapped by DaemonError.
	ErrUnavailable = errors.New("container runtime unavailable")
)

// NotFoundError reports that the runtime does not know the given name.
// Cleanup paths treat it as success; direct lookups treat it as an error.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("container %q not found", e.Name)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// DaemonError reports that the runtime daemon could not be reached or
// did not answer in time. A DaemonError wrapping context.DeadlineExceeded
// means the outcome of the operation is unknown, not that it failed.
type DaemonError struct {
	Op  string
	Err error
}

func (e *DaemonError) Error() string {
	return fmt.Sprintf("container runtime %s: %v", e.Op, e.Err)
}

func (e *DaemonError) Unwrap() error { return e.Err }

// Is makes DaemonError match ErrUnavailable in addition to its cause.
func (e *DaemonError) Is(target error) bool { return target == ErrUnavailable }

// ExecError reports a container command that ran and exited non-zero,
// or that the runtime rejected outright.
type ExecError struct {
	Name     string
	ExitCode int
	Stderr   string
}

func (e *ExecError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("container %q exited with code %d: %s", e.Name, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("container %q exited with code %d", e.Name, e.ExitCode)
}

// IsNotFound reports whether err is a not-found lookup failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

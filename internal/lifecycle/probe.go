package lifecycle

import (
	"context"
	"fmt"

	"github.com/gantryd/gantry/internal/container"
)

// State is the probed disposition of a named container.
type State int

const (
	// An unambiguous 0-value, returned alongside an error.
	StateUnknown State = iota
	// The runtime reports the container as running.
	StateRunning
	// The container exists but is not running.
	StateStopped
	// The runtime does not know the name. A normal return value, not
	// an error.
	StateAbsent
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "UNKNOWN"
	case StateRunning:
		return "RUNNING"
	case StateStopped:
		return "STOPPED"
	case StateAbsent:
		return "ABSENT"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Probe reports whether the named container is running, stopped, or
// absent. Absent means the runtime answered and does not know the
// name; daemon-communication failures return StateUnknown and the
// error, so callers never conflate "absent" with "could not ask".
func Probe(ctx context.Context, client container.Client, name string) (State, error) {
	st, err := client.Status(ctx, name)
	if err != nil {
		if container.IsNotFound(err) {
			return StateAbsent, nil
		}
		return StateUnknown, err
	}
	if st.Running {
		return StateRunning, nil
	}
	return StateStopped, nil
}

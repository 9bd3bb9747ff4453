// Package lifecycle maps cleanup directives onto deferred terminator
// actions and provides the standalone kill/stop/status operations for
// named containers.
package lifecycle

import (
	"errors"
	"fmt"
)

// Directive controls what happens to a container when its owning job
// ends.
type Directive int

const (
	// Unset lets the removal flag on the request decide.
	Unset Directive = iota

	// Leave keeps the container untouched, even if still running.
	Leave

	// GracefulStop sends a stop request at job completion, escalating
	// to a kill if the container ignores it.
	GracefulStop

	// ForceRemove kills the container at job completion and removes it
	// immediately on exit.
	ForceRemove
)

// ErrInvalidDirective is returned for directives outside the
// enumeration. It surfaces before any runtime interaction.
var ErrInvalidDirective = errors.New("invalid lifecycle directive")

func (d Directive) String() string {
	switch d {
	case Unset:
		return "unset"
	case Leave:
		return "leave"
	case GracefulStop:
		return "stop"
	case ForceRemove:
		return "remove"
	default:
		return fmt.Sprintf("directive(%d)", int(d))
	}
}

// ParseDirective maps the CLI/config spelling onto a Directive.
func ParseDirective(s string) (Directive, error) {
	switch s {
	case "", "unset":
		return Unset, nil
	case "leave":
		return Leave, nil
	case "stop":
		return GracefulStop, nil
	case "remove":
		return ForceRemove, nil
	default:
		return Unset, fmt.Errorf("%w: %q (must be leave, stop, or remove)", ErrInvalidDirective, s)
	}
}

// Validate rejects out-of-enumeration values.
func (d Directive) Validate() error {
	if d < Unset || d > ForceRemove {
		return fmt.Errorf("%w: %d", ErrInvalidDirective, int(d))
	}
	return nil
}

// ActionKind identifies a deferred terminator action.
type ActionKind int

const (
	// KindNone registers nothing.
	KindNone ActionKind = iota

	// KindForceKill kills the container until it is gone.
	KindForceKill

	// KindStopThenKill stops gracefully, killing only if the container
	// keeps running.
	KindStopThenKill
)

func (k ActionKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindForceKill:
		return "force-kill"
	case KindStopThenKill:
		return "stop-then-kill"
	default:
		return fmt.Sprintf("action(%d)", int(k))
	}
}

// Cleanup is a resolved policy: at most one deferred action, plus
// whether the runtime should remove the container as soon as it exits.
type Cleanup struct {
	Kind      ActionKind
	RemoveNow bool
}

// Resolve applies the lifecycle policy table. removeRequested is the
// caller's direct removal request, honored only where the directive
// leaves removal caller-controlled.
func Resolve(d Directive, removeRequested bool) (Cleanup, error) {
	if err := d.Validate(); err != nil {
		return Cleanup{}, err
	}

	switch d {
	case Leave:
		return Cleanup{Kind: KindNone, RemoveNow: false}, nil
	case GracefulStop:
		return Cleanup{Kind: KindStopThenKill, RemoveNow: removeRequested}, nil
	case ForceRemove:
		return Cleanup{Kind: KindForceKill, RemoveNow: true}, nil
	default: // Unset
		if removeRequested {
			return Cleanup{Kind: KindForceKill, RemoveNow: true}, nil
		}
		return Cleanup{Kind: KindNone, RemoveNow: false}, nil
	}
}

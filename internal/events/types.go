// Package events carries the container lifecycle event stream the
// surrounding engine consumes: invocations, cleanup registration, and
// cleanup execution.
package events

import (
	"time"
)

// Event represents a single occurrence in a container's lifecycle.
type Event struct {
	// Time is when the event occurred (set by the bus on emit)
	Time time.Time `json:"time"`

	// Type identifies what happened
	Type EventType `json:"type"`

	// Job is the owning job identifier (empty for standalone calls)
	Job string `json:"job,omitempty"`

	// Container is the container name this event relates to
	Container string `json:"container,omitempty"`

	// Payload contains event-specific data (type varies by event)
	Payload any `json:"payload,omitempty"`

	// Error contains the error message if this is a failure event
	Error string `json:"error,omitempty"`
}

// EventType is a string constant identifying the event category
type EventType string

// Invocation lifecycle events
const (
	InvokeStarted   EventType = "invoke.started"
	InvokeCompleted EventType = "invoke.completed"
	InvokeDetached  EventType = "invoke.detached"
	InvokeFailed    EventType = "invoke.failed"
)

// Deferred cleanup events
const (
	CleanupRegistered EventType = "cleanup.registered"
	CleanupExecuted   EventType = "cleanup.executed"
	CleanupFailed     EventType = "cleanup.failed"
)

// Standalone terminator events
const (
	ContainerKilled  EventType = "container.killed"
	ContainerStopped EventType = "container.stopped"
)

// NewEvent creates an event for the given container
func NewEvent(eventType EventType, container string) Event {
	return Event{
		Type:      eventType,
		Container: container,
	}
}

// WithJob attaches the owning job identifier
func (e Event) WithJob(job string) Event {
	e.Job = job
	return e
}

// WithPayload attaches event-specific data
func (e Event) WithPayload(payload any) Event {
	e.Payload = payload
	return e
}

// WithError attaches an error message
func (e Event) WithError(err error) Event {
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

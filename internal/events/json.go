package events

import (
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/term"
)

// IsJSONMode returns true if JSON event output should be enabled:
// either the explicit forceJSON flag is set, or dst (the file the
// emitter will write to) is not a terminal.
func IsJSONMode(forceJSON bool, dst *os.File) bool {
	if forceJSON {
		return true
	}
	if dst != nil {
		return !term.IsTerminal(int(dst.Fd()))
	}
	return true
}

// JSONEmitter writes events as JSON lines to a writer.
// Thread-safe for concurrent Emit calls.
type JSONEmitter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONEmitter creates a JSON emitter that writes newline-delimited
// events to w.
func NewJSONEmitter(w io.Writer) *JSONEmitter {
	return &JSONEmitter{enc: json.NewEncoder(w)}
}

// Emit writes the event as one JSON line.
func (e *JSONEmitter) Emit(event Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enc.Encode(event)
}

// JSONEmitterHandler returns a Handler that emits events as JSON lines.
// Use this to subscribe the emitter to an event bus. Write errors are
// logged, not propagated.
func JSONEmitterHandler(emitter *JSONEmitter) Handler {
	return func(e Event) {
		if err := emitter.Emit(e); err != nil {
			log.Warn("failed to emit JSON event", "err", err)
		}
	}
}

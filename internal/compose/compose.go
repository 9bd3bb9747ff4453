// Package compose builds the command strings sent to a container
// runtime. It is pure string construction: nothing here executes or
// validates commands against an image.
package compose

import (
	"errors"
	"regexp"
	"strings"
)

// PipefailGuard makes a pipeline fail when any stage fails, not just
// the last one.
const PipefailGuard = "set -eo pipefail && "

// DefaultRunscript wraps composed commands for the runtime when the
// caller does not override it.
var DefaultRunscript = []string{"/bin/bash", "-c"}

// ErrEmptyStage is returned for pipelines containing a stage with no
// arguments.
var ErrEmptyStage = errors.New("pipeline stage has no arguments")

// Command is what a container should run: nothing (the image's default
// entry point), a single argument list, or a pipe-chain of them. The
// variant is fixed at construction; flat and nested parameters cannot
// be mixed.
type Command struct {
	stages [][]string
}

// None is the empty command; the runtime starts the image's default
// entry point.
func None() Command {
	return Command{}
}

// SingleStage builds a one-stage command from a flat argument list.
func SingleStage(args ...string) Command {
	return Command{stages: [][]string{args}}
}

// Pipeline builds a pipe-chained command, one stage per argument list.
func Pipeline(stages ...[]string) Command {
	return Command{stages: stages}
}

// IsEmpty reports whether there is nothing to run.
func (c Command) IsEmpty() bool {
	if len(c.stages) == 0 {
		return true
	}
	return len(c.stages) == 1 && len(c.stages[0]) == 0
}

// IsPipeline reports whether the command chains two or more stages.
func (c Command) IsPipeline() bool {
	return len(c.stages) > 1
}

// Stages returns a copy of the underlying argument lists.
func (c Command) Stages() [][]string {
	out := make([][]string, len(c.stages))
	for i, s := range c.stages {
		out[i] = append([]string(nil), s...)
	}
	return out
}

// Validate rejects pipelines with empty stages. Detecting this before
// any runtime interaction keeps malformed requests from ever reaching
// the daemon.
func (c Command) Validate() error {
	if !c.IsPipeline() {
		return nil
	}
	for _, stage := range c.stages {
		if len(stage) == 0 {
			return ErrEmptyStage
		}
	}
	return nil
}

// String returns the composed command string. Every token is
// shell-quoted; pipeline stages are joined with " | " and prefixed
// with the pipefail guard. Empty commands compose to "".
func (c Command) String() string {
	if c.IsEmpty() {
		return ""
	}

	joined := make([]string, len(c.stages))
	for i, stage := range c.stages {
		quoted := make([]string, len(stage))
		for j, arg := range stage {
			if j == 0 {
				quoted[j] = quoteCommandWord(arg)
			} else {
				quoted[j] = Quote(arg)
			}
		}
		joined[i] = strings.Join(quoted, " ")
	}

	if c.IsPipeline() {
		return PipefailGuard + strings.Join(joined, " | ")
	}
	return joined[0]
}

// Argv resolves the full command line sent to the runtime: the
// runscript (DefaultRunscript when nil) followed by the composed
// string. Empty commands resolve to nil so the runtime falls back to
// the image's entry point.
func (c Command) Argv(runscript []string) []string {
	if c.IsEmpty() {
		return nil
	}
	if runscript == nil {
		runscript = DefaultRunscript
	}
	return append(append([]string(nil), runscript...), c.String())
}

// Quote wraps a token in single quotes, escaping embedded single
// quotes. Unconditional quoting keeps the composed string splittable
// back into the original tokens regardless of their content.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

var safeCommandWord = regexp.MustCompile(`^[A-Za-z0-9_@%+=:,./-]+$`)

// quoteCommandWord leaves shell-safe command names bare so composed
// strings read the way an operator would type them; anything else gets
// the same unconditional quoting as arguments.
func quoteCommandWord(s string) string {
	if safeCommandWord.MatchString(s) {
		return s
	}
	return Quote(s)
}

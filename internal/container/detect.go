package container

import (
	"context"
	"errors"
	"os/exec"
	"time"
)

// ErrNoRuntime is returned when no usable container runtime is found.
var ErrNoRuntime = errors.New("no container runtime found (need docker or podman)")

// candidateRuntimes are probed in preference order.
var candidateRuntimes = []string{"docker", "podman"}

// detectProbeTimeout bounds each `version` probe. A docker CLI whose
// daemon is down can hang far longer than a failed lookup.
const detectProbeTimeout = 10 * time.Second

// DetectRuntime probes for a usable container runtime. A binary on
// PATH is not enough: some hosts ship a CLI with no reachable daemon,
// so each candidate must answer `version` before it is chosen.
func DetectRuntime() (string, error) {
	for _, bin := range candidateRuntimes {
		if runtimeUsable(bin) {
			return bin, nil
		}
	}
	return "", ErrNoRuntime
}

func runtimeUsable(bin string) bool {
	if _, err := exec.LookPath(bin); err != nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), detectProbeTimeout)
	defer cancel()
	return exec.CommandContext(ctx, bin, "version").Run() == nil
}

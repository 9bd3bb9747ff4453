package invoke

import (
	"fmt"
	"strings"
)

// Mount is one bind mount: a host directory exposed at a container
// path. Mode is the runtime's mount mode ("rw", "ro"); empty means the
// runtime default.
type Mount struct {
	Host      string
	Container string
	Mode      string
}

func (m Mount) String() string {
	s := m.Host + ":" + m.Container
	if m.Mode != "" {
		s += ":" + m.Mode
	}
	return s
}

// ParseMount parses a "host:container[:mode]" mount specification.
func ParseMount(s string) (Mount, error) {
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 2:
		if parts[0] == "" || parts[1] == "" {
			break
		}
		return Mount{Host: parts[0], Container: parts[1]}, nil
	case 3:
		if parts[0] == "" || parts[1] == "" || parts[2] == "" {
			break
		}
		return Mount{Host: parts[0], Container: parts[1], Mode: parts[2]}, nil
	}
	return Mount{}, fmt.Errorf("invalid mount %q (want host:container[:mode])", s)
}

// DefaultDataMount is where a job's working directory appears inside
// the container when no explicit mounts override it.
const DefaultDataMount = "/data"

// mergeMounts resolves the bind mounts for an invocation: the default
// working-directory mount first, then the request's mounts in their
// given order. Later entries win on conflict under every supported
// runtime, so the ordering rule is the whole merge policy.
func mergeMounts(workDir string, extra []Mount) []string {
	mounts := make([]string, 0, len(extra)+1)
	mounts = append(mounts, Mount{Host: workDir, Container: DefaultDataMount, Mode: "rw"}.String())
	for _, m := range extra {
		mounts = append(mounts, m.String())
	}
	return mounts
}

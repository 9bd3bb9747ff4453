package container

// Status reports the observed state of a named container.
type Status struct {
	// Running is true while the runtime reports the container as running.
	Running bool
}

// RunOptions specifies how a container is started from an image's
// default entry point.
type RunOptions struct {
	// Image is the container image reference (e.g., "alpine:3.20")
	Image string

	// Name is the container name. Required; callers without a name
	// generate one first so cleanup can be registered against it.
	Name string

	// User is the uid:gid (or user name) the container runs as
	User string

	// WorkDir is the working directory inside the container
	WorkDir string

	// Mounts are bind mounts, pre-rendered as "host:container:mode"
	Mounts []string

	// Detach starts the container without waiting for it to exit
	Detach bool

	// Remove asks the runtime to remove the container once it exits
	Remove bool

	// CaptureStderr includes stderr in the returned output
	CaptureStderr bool

	// ExtraArgs are passed to the runtime verbatim, before the image
	ExtraArgs []string
}

// ExecOptions specifies a command executed in a fresh container.
// Argv is the resolved command line (runscript plus composed command
// string); composition happens upstream, the client sends it as-is.
type ExecOptions struct {
	RunOptions

	Argv []string
}

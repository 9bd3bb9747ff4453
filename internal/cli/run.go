package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/gantryd/gantry/internal/compose"
	"github.com/gantryd/gantry/internal/config"
	"github.com/gantryd/gantry/internal/invoke"
	"github.com/gantryd/gantry/internal/jobdefer"
	"github.com/gantryd/gantry/internal/lifecycle"
)

// RunOptions holds flags for the run command
type RunOptions struct {
	Job           string
	Name          string
	Pipe          string
	WorkDir       string
	User          string
	Volumes       []string
	OnExit        string
	Remove        bool
	Detach        bool
	CaptureStdout bool
	CaptureStderr bool
	Output        string
	Timeout       time.Duration
	ExtraArgs     []string
}

// NewRunCmd creates the run command
func NewRunCmd(app *App) *cobra.Command {
	opts := RunOptions{}

	cmd := &cobra.Command{
		Use:   "run <image> [-- command args...]",
		Short: "Run a containerized command for a job",
		Long: `Run a command in a container owned by a job. Without a command the
image's entry point runs. Cleanup is registered before the container
starts and executed when the job completes, so the container cannot
outlive its job even if invocation fails partway.

Use --pipe to run a shell pipeline:

  gantry run ubuntu:24.04 --pipe "zcat input.gz | sort | uniq -c"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), args[0], args[1:], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Job, "job", "", "Owning job ID (generated when empty)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "Container name (generated when empty)")
	cmd.Flags().StringVar(&opts.Pipe, "pipe", "", "Shell pipeline to run instead of a command")
	cmd.Flags().StringVarP(&opts.WorkDir, "workdir", "w", "", "Host working directory mounted at /data")
	cmd.Flags().StringVarP(&opts.User, "user", "u", "", "uid:gid inside the container")
	cmd.Flags().StringArrayVarP(&opts.Volumes, "volume", "V", nil, "Extra bind mount host:container[:mode]")
	cmd.Flags().StringVar(&opts.OnExit, "on-exit", "", "Disposition at job end: leave, stop, or remove")
	cmd.Flags().BoolVar(&opts.Remove, "rm", false, "Remove the container on exit")
	cmd.Flags().BoolVarP(&opts.Detach, "detach", "d", false, "Start without waiting")
	cmd.Flags().BoolVar(&opts.CaptureStdout, "capture-stdout", false, "Block and capture stdout even when detached")
	cmd.Flags().BoolVar(&opts.CaptureStderr, "capture-stderr", false, "Fold stderr into captured output")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write captured output to a file")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "Bound on the runtime interaction (0 = config default)")
	cmd.Flags().StringArrayVar(&opts.ExtraArgs, "runtime-arg", nil, "Extra argument passed to the runtime verbatim")

	return cmd
}

// Run executes one invocation as a standalone job. Deferred cleanup
// runs when this command exits, except for detached containers, which
// stay pending in the durable store until `gantry reap`.
func (a *App) Run(ctx context.Context, image string, argv []string, opts RunOptions) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	rt, err := WireRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	req, err := buildRequest(cfg, image, argv, opts)
	if err != nil {
		return err
	}

	registry, err := jobdefer.NewDurable(rt.Store, req.JobID)
	if err != nil {
		return err
	}
	registry.OnExecuted = jobdefer.BusObserver(rt.Events)

	grace, err := cfg.StopGraceDuration()
	if err != nil {
		return err
	}
	inv := invoke.New(rt.Client, registry,
		invoke.WithStopGrace(grace),
		invoke.WithBus(rt.Events))

	res, err := inv.Invoke(ctx, req)
	if err != nil {
		return err
	}

	if res.Handle != nil {
		fmt.Printf("%s\t%s\n", req.JobID, res.Name)
		return nil
	}

	if len(res.Output) > 0 {
		fmt.Print(string(res.Output))
	}
	return registry.RunAll(ctx, rt.Client)
}

// buildRequest translates command-line flags into an invocation
// request, filling gaps from config defaults.
func buildRequest(cfg *config.Config, image string, argv []string, opts RunOptions) (invoke.Request, error) {
	var command compose.Command
	switch {
	case opts.Pipe != "" && len(argv) > 0:
		return invoke.Request{}, fmt.Errorf("--pipe and a positional command are mutually exclusive")
	case opts.Pipe != "":
		parsed, err := compose.Parse(opts.Pipe)
		if err != nil {
			return invoke.Request{}, fmt.Errorf("parse pipeline: %w", err)
		}
		command = parsed
	case len(argv) > 0:
		command = compose.SingleStage(argv...)
	default:
		command = compose.None()
	}

	onExit := opts.OnExit
	if onExit == "" {
		onExit = cfg.Invoke.OnExit
	}
	directive, err := lifecycle.ParseDirective(onExit)
	if err != nil {
		return invoke.Request{}, err
	}

	mounts := make([]invoke.Mount, 0, len(opts.Volumes))
	for _, v := range opts.Volumes {
		m, err := invoke.ParseMount(v)
		if err != nil {
			return invoke.Request{}, err
		}
		mounts = append(mounts, m)
	}

	job := opts.Job
	if job == "" {
		job = ulid.Make().String()
	}

	user := opts.User
	if user == "" {
		user = cfg.Invoke.User
	}

	timeout := opts.Timeout
	if timeout == 0 {
		if timeout, err = cfg.InvokeTimeoutDuration(); err != nil {
			return invoke.Request{}, err
		}
	}

	return invoke.Request{
		Image:         image,
		Command:       command,
		Runscript:     cfg.Invoke.Runscript,
		JobID:         job,
		Name:          opts.Name,
		WorkDir:       opts.WorkDir,
		Mounts:        mounts,
		User:          user,
		Directive:     directive,
		Remove:        opts.Remove,
		Detach:        opts.Detach,
		CaptureStdout: opts.CaptureStdout,
		CaptureStderr: opts.CaptureStderr,
		OutFile:       opts.Output,
		Timeout:       timeout,
		ExtraArgs:     append(cfg.Runtime.ExtraArgs, opts.ExtraArgs...),
	}, nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gantryd/gantry/internal/jobdefer"
)

// NewReapCmd creates the reap command
func NewReapCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reap <job-id>...",
		Short: "Execute a job's pending deferred cleanup",
		Long: `Execute the deferred cleanup actions recorded for a job. Detached
containers and jobs interrupted mid-run leave their actions pending in
the durable store; reap runs them and marks them done. Actions that
fail stay pending so reap can be retried.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}
			rt, err := WireRuntime(cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			for _, job := range args {
				registry, err := jobdefer.NewDurable(rt.Store, job)
				if err != nil {
					return err
				}
				registry.OnExecuted = jobdefer.BusObserver(rt.Events)
				n := registry.Len()
				if err := registry.RunAll(cmd.Context(), rt.Client); err != nil {
					return fmt.Errorf("reap %s: %w", job, err)
				}
				fmt.Printf("%s: %d action(s) executed\n", job, n)
			}
			return nil
		},
	}

	return cmd
}

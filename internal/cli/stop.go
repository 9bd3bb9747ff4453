package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/gantryd/gantry/internal/events"
	"github.com/gantryd/gantry/internal/lifecycle"
)

// NewStopCmd creates the stop command
func NewStopCmd(app *App) *cobra.Command {
	var grace time.Duration

	cmd := &cobra.Command{
		Use:   "stop <container>...",
		Short: "Stop containers gracefully",
		Long: `Stop containers, giving each up to the grace period to exit before
escalating to a force-kill.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}
			if grace == 0 {
				if grace, err = cfg.StopGraceDuration(); err != nil {
					return err
				}
			}
			rt, err := WireRuntime(cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			for _, name := range args {
				if err := lifecycle.StopThenKill(cmd.Context(), rt.Client, name, grace); err != nil {
					return err
				}
				rt.Events.Emit(events.NewEvent(events.ContainerStopped, name))
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&grace, "grace", 0, "Grace period before escalating (0 = config default)")

	return cmd
}

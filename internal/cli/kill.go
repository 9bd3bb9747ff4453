package cli

import (
	"github.com/spf13/cobra"

	"github.com/gantryd/gantry/internal/events"
	"github.com/gantryd/gantry/internal/lifecycle"
)

// NewKillCmd creates the kill command
func NewKillCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kill <container>...",
		Short: "Force-kill containers",
		Long: `Kill containers immediately, retrying until the runtime reports them
stopped. A container that is already gone counts as success.`,
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

			for _, name := range args {
				if err := lifecycle.ForceKill(cmd.Context(), rt.Client, name); err != nil {
					return err
				}
				rt.Events.Emit(events.NewEvent(events.ContainerKilled, name))
			}
			return nil
		},
	}

	return cmd
}

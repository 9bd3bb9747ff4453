package cli

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gantryd/gantry/internal/cli/tui"
)

// NewWatchCmd creates the watch command
func NewWatchCmd(app *App) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch <container>...",
		Short: "Watch container states live",
		Long: `Poll the given containers and display their states in a live
terminal view. Press q to quit.`,
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

			model := tui.NewModel(rt.Client, args, interval)
			p := tea.NewProgram(model, tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", time.Second, "Poll interval")

	return cmd
}

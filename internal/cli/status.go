package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gantryd/gantry/internal/container"
	"github.com/gantryd/gantry/internal/lifecycle"
)

// StatusOptions holds flags for the status command
type StatusOptions struct {
	JSON bool
}

// NewStatusCmd creates the status command
func NewStatusCmd(app *App) *cobra.Command {
	opts := StatusOptions{}

	cmd := &cobra.Command{
		Use:   "status <container>...",
		Short: "Show container states",
		Long: `Probe each container and print its state: RUNNING, STOPPED, or
ABSENT. A daemon that cannot be reached reports UNKNOWN and a non-zero
exit.`,
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

			rows, probeErr := probeAll(cmd.Context(), rt.Client, args)

			if opts.JSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(rows); err != nil {
					return err
				}
			} else {
				for _, row := range rows {
					fmt.Println(FormatStateLine(row.Name, row.State))
				}
			}
			return probeErr
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output as JSON instead of formatted text")

	return cmd
}

// probeAll probes every name and reports each failure; one unreachable
// container does not mask another.
func probeAll(ctx context.Context, client container.Client, names []string) ([]statusRow, error) {
	var probeErrs []error
	rows := make([]statusRow, 0, len(names))
	for _, name := range names {
		state, err := lifecycle.Probe(ctx, client, name)
		if err != nil {
			probeErrs = append(probeErrs, fmt.Errorf("%s: %w", name, err))
		}
		rows = append(rows, statusRow{Name: name, State: state})
	}
	return rows, errors.Join(probeErrs...)
}

type statusRow struct {
	Name  string          `json:"name"`
	State lifecycle.State `json:"-"`
}

// MarshalJSON emits the state's string form.
func (r statusRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name  string `json:"name"`
		State string `json:"state"`
	}{r.Name, r.State.String()})
}

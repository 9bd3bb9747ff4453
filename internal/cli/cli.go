package cli

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gantryd/gantry/internal/config"
)

// App represents the CLI application with all wired dependencies
type App struct {
	rootCmd *cobra.Command

	// Global flags
	verbose bool
	json    bool

	// Version information
	version string
	commit  string
	date    string
}

// New creates a new CLI application
func New() *App {
	app := &App{}
	app.setupRootCmd()
	return app
}

// Execute runs the CLI application
func (a *App) Execute() error {
	return a.rootCmd.Execute()
}

// SetVersion sets the version string for the version command
func (a *App) SetVersion(version, commit, date string) {
	a.version = version
	a.commit = commit
	a.date = date
}

// setupRootCmd configures the root Cobra command
func (a *App) setupRootCmd() {
	a.rootCmd = &cobra.Command{
		Use:   "gantry",
		Short: "Job-scoped container invocation manager",
		Long: `Gantry runs containerized commands on behalf of workflow jobs,
tracking each container's lifecycle so nothing outlives its job.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if a.verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}

	a.rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false,
		"Verbose output")
	a.rootCmd.PersistentFlags().BoolVar(&a.json, "json", false,
		"Emit line-delimited JSON events")

	a.rootCmd.AddCommand(NewRunCmd(a))
	a.rootCmd.AddCommand(NewKillCmd(a))
	a.rootCmd.AddCommand(NewStopCmd(a))
	a.rootCmd.AddCommand(NewStatusCmd(a))
	a.rootCmd.AddCommand(NewReapCmd(a))
	a.rootCmd.AddCommand(NewWatchCmd(a))
	a.rootCmd.AddCommand(NewVersionCmd(a))
}

// loadConfig loads configuration from the working directory, applying
// the log level it carries.
func (a *App) loadConfig() (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadConfig(wd)
	if err != nil {
		return nil, err
	}
	if !a.verbose {
		if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
			log.SetLevel(lvl)
		}
	}
	if a.json {
		cfg.JSONEvents = true
	}
	return cfg, nil
}

package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// NewRootCmd creates the top-level "taxis" command and registers all
// subcommands against the provided App. Configuration is loaded once per
// invocation before any subcommand runs.
func NewRootCmd(app *App) *cobra.Command {
	var configPath, logLevel string

	root := &cobra.Command{
		Use:           "taxis",
		Short:         "Classify learner queries into a learning-activity taxonomy",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.Bootstrap(configPath, logLevel, cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "YAML config file (default taxis.yaml, or $TAXIS_CONFIG)")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(
		newClassifyCmd(app),
		newDedupCmd(app),
		newCategoriesCmd(app),
		newEvaluateCmd(app),
		newRunsCmd(app),
		newLangCmd(app),
	)

	return root
}

// flagChanged reports whether the user set name on the command line, so
// config values are only overridden by explicit flags.
func flagChanged(fs *pflag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	return f != nil && f.Changed
}

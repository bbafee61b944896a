package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/hangar/pkg/logging"
)

// Execute runs the hangar CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// rootFlags are the persistent flags that feed Config.
type rootFlags struct {
	configFile    string
	verbose       bool
	quiet         bool
	noColor       bool
	format        string
	logLevel      string
	dataDir       string
	xwingData2Dir string
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	flags := &rootFlags{}
	rootCmd := &cobra.Command{
		Use:     "hangar",
		Short:   "X-Wing collection inventory",
		Version: a.version,
		Long: `Hangar turns a record of owned X-Wing 2nd Edition products and loose
items into a per-item inventory: how many of every ship, pilot and upgrade
card you own, and which products they came from.

Names are resolved against versioned reference data, including the
historical and alternative names older collection exports use. Names that
cannot be resolved are reported, never guessed.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setupCommand(cmd, flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: "reference", Title: "Reference Data Commands:"})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "config file (default is $HOME/.hangar.yaml)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	pf.BoolVar(&flags.noColor, "no-color", false, "disable colored output")
	pf.StringVarP(&flags.format, "format", "o", "", "output format: table, wide, json, yaml")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	pf.StringVar(&flags.dataDir, "data", "", "reference data directory (default is the embedded snapshot)")
	pf.StringVar(&flags.xwingData2Dir, "xwing-data2", "", "xwing-data2 checkout to take ships, pilots and upgrades from")

	// --output is kept as an alias of --format
	pf.StringVar(&flags.format, "output", "", "")
	_ = pf.MarkHidden("output")

	rootCmd.SetVersionTemplate("hangar {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs. It reloads the config
// when --config is given, applies flags on top and rebuilds the logger.
func (a *App) setupCommand(cmd *cobra.Command, flags *rootFlags) error {
	if flags.configFile != "" {
		config, err := LoadConfigFile(flags.configFile)
		if err != nil {
			return err
		}
		a.config = config
	}

	a.config.UpdateFromFlags(flags.verbose, flags.quiet, flags.noColor, flags.format, flags.logLevel)
	if flags.dataDir != "" {
		a.config.DataDir = flags.dataDir
	}
	if flags.xwingData2Dir != "" {
		a.config.XWingData2Dir = flags.xwingData2Dir
	}

	logger := NewLogger(a.config)
	a.logger = &logger
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))

	a.logger.Debug().
		Str("command", cmd.CommandPath()).
		Str("config_file", a.config.ConfigFile).
		Msg("Command starting")
	return nil
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}

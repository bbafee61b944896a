package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/hangar/cmd/hangar/cmd/completion"
	"github.com/agentstation/hangar/cmd/hangar/cmd/convert"
	"github.com/agentstation/hangar/cmd/hangar/cmd/inventory"
	"github.com/agentstation/hangar/cmd/hangar/cmd/list"
	"github.com/agentstation/hangar/cmd/hangar/cmd/resolve"
	"github.com/agentstation/hangar/cmd/hangar/cmd/serve"
	"github.com/agentstation/hangar/cmd/hangar/cmd/validate"
	"github.com/agentstation/hangar/cmd/hangar/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(inventory.NewCommand(a, a.inventorySettings))
	rootCmd.AddCommand(resolve.NewCommand(a))
	rootCmd.AddCommand(convert.NewCommand(a))
	rootCmd.AddCommand(serve.NewCommand(a, a.serveSettings))

	// Reference data commands
	rootCmd.AddCommand(list.NewCommand(a))
	rootCmd.AddCommand(validate.NewCommand(a))

	rootCmd.AddCommand(version.NewCommand(a))
	rootCmd.AddCommand(completion.NewCommand())
}

// inventorySettings are read when the command runs, after --config.
func (a *App) inventorySettings() inventory.Settings {
	return inventory.Settings{
		Export:  a.config.Export,
		Strict:  a.config.Strict,
		Workers: a.config.Workers,
	}
}

func (a *App) serveSettings() serve.Settings {
	return serve.Settings{
		Host:     a.config.ServerHost,
		Port:     a.config.ServerPort,
		CacheTTL: a.config.ServerCacheTTL,
	}
}

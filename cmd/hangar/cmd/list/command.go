// Package list provides commands for browsing reference data.
package list

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/hangar/cmd/application"
)

// NewCommand creates the list command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list [resource]",
		Aliases: []string{"ls"},
		GroupID: "reference",
		Short:   "List reference data",
		Long: `List displays the reference data collections are resolved against.

Available subcommands:
  items      - ships, pilots and upgrades
  bundles    - products and their contents
  aliases    - historical and alternative names`,
		Example: `  hangar list items --kind pilot --faction rebelalliance
  hangar list items pilot:lukeskywalker
  hangar list bundles --contains upgrade:r2d2
  hangar list aliases --target bundle`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return fmt.Errorf("unknown resource: %s", args[0])
		},
	}

	cmd.AddCommand(NewItemsCommand(app))
	cmd.AddCommand(NewBundlesCommand(app))
	cmd.AddCommand(NewAliasesCommand(app))

	return cmd
}

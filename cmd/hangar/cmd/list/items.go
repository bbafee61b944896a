package list

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/hangar/cmd/application"
	"github.com/agentstation/hangar/internal/cmd/output"
	"github.com/agentstation/hangar/internal/cmd/table"
	"github.com/agentstation/hangar/internal/server/filter"
	"github.com/agentstation/hangar/pkg/catalog"
)

// ItemDetail is the structured output of a single item.
type ItemDetail struct {
	*catalog.Item `yaml:",inline"`
	Sources []catalog.Source `json:"sources" yaml:"sources"`
}

// NewItemsCommand creates the list items subcommand.
func NewItemsCommand(app application.Application) *cobra.Command {
	var (
		kind  string
		f     filter.ItemFilter
		limit int
	)
	cmd := &cobra.Command{
		Use:     "items [kind:xws]",
		Aliases: []string{"item"},
		Short:   "List ships, pilots and upgrades",
		Args:    cobra.MaximumNArgs(1),
		Example: `  hangar list items --kind ship
  hangar list items --kind pilot --min-initiative 5
  hangar list items --restriction faction:rebelalliance -o wide
  hangar list items upgrade:r2d2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return showItem(cmd, app, args[0])
			}
			if kind != "" {
				k, err := catalog.ParseKind(kind)
				if err != nil {
					return err
				}
				f.Kind = k
			}
			return listItems(cmd, app, f, limit)
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "ship, pilot or upgrade")
	cmd.Flags().StringVar(&f.Faction, "faction", "", "faction xws, e.g. rebelalliance")
	cmd.Flags().StringVar(&f.Ship, "ship", "", "ship xws of pilots")
	cmd.Flags().StringVar(&f.Slot, "slot", "", "upgrade slot, e.g. Astromech")
	cmd.Flags().StringVarP(&f.NameContains, "search", "s", "", "substring of name or xws")
	cmd.Flags().StringVar(&f.Restriction, "restriction", "", "restriction tag, e.g. size:small")
	cmd.Flags().IntVar(&f.MinInitiative, "min-initiative", 0, "minimum pilot initiative")
	cmd.Flags().IntVar(&f.MaxInitiative, "max-initiative", 0, "maximum pilot initiative")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "limit number of results")

	return cmd
}

func listItems(cmd *cobra.Command, app application.Application, f filter.ItemFilter, limit int) error {
	format, err := output.Resolve(app.OutputFormat())
	if err != nil {
		return err
	}
	data, err := app.Reference()
	if err != nil {
		return err
	}

	items := f.Apply(data.Store.Items())
	total := len(items)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	if items == nil {
		items = []*catalog.Item{}
	}

	app.Logger().Debug().
		Int("matched", total).
		Int("shown", len(items)).
		Msg("Listed items")
	return output.Write(cmd.OutOrStdout(), format, items, func(wide bool) []table.Data {
		return []table.Data{table.ItemsToTableData(items, wide)}
	})
}

func showItem(cmd *cobra.Command, app application.Application, idText string) error {
	id, err := catalog.ParseItemID(idText)
	if err != nil {
		return err
	}
	format, err := output.Resolve(app.OutputFormat())
	if err != nil {
		return err
	}
	data, err := app.Reference()
	if err != nil {
		return err
	}
	item, err := data.Store.ItemByID(id)
	if err != nil {
		return err
	}

	detail := ItemDetail{Item: item, Sources: data.Manifest.Sources(id)}
	if detail.Sources == nil {
		detail.Sources = []catalog.Source{}
	}
	return output.Write(cmd.OutOrStdout(), format, detail, func(bool) []table.Data {
		return table.ItemDetailToTableData(item, detail.Sources)
	})
}

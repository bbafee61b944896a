package list

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/hangar/cmd/application"
	"github.com/agentstation/hangar/internal/cmd/output"
	"github.com/agentstation/hangar/internal/cmd/table"
	"github.com/agentstation/hangar/internal/server/filter"
	"github.com/agentstation/hangar/pkg/catalog"
)

// NewBundlesCommand creates the list bundles subcommand.
func NewBundlesCommand(app application.Application) *cobra.Command {
	var (
		wave     int
		contains string
		f        filter.BundleFilter
	)
	cmd := &cobra.Command{
		Use:     "bundles [sku]",
		Aliases: []string{"bundle", "products"},
		Short:   "List products and their contents",
		Args:    cobra.MaximumNArgs(1),
		Example: `  hangar list bundles --wave 1
  hangar list bundles --contains pilot:wedgeantilles
  hangar list bundles SWZ01`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return showBundle(cmd, app, args[0])
			}
			if cmd.Flags().Changed("wave") {
				f.Wave = &wave
			}
			if contains != "" {
				id, err := catalog.ParseItemID(contains)
				if err != nil {
					return err
				}
				f.Contains = &id
			}
			return listBundles(cmd, app, f)
		},
	}

	cmd.Flags().IntVar(&wave, "wave", 0, "release wave")
	cmd.Flags().StringVarP(&f.NameContains, "search", "s", "", "substring of name or SKU")
	cmd.Flags().StringVar(&contains, "contains", "", "item id (kind:xws) the bundle must contain")

	return cmd
}

func listBundles(cmd *cobra.Command, app application.Application, f filter.BundleFilter) error {
	format, err := output.Resolve(app.OutputFormat())
	if err != nil {
		return err
	}
	data, err := app.Reference()
	if err != nil {
		return err
	}

	bundles := f.Apply(data.Manifest.Bundles())
	if bundles == nil {
		bundles = []*catalog.Bundle{}
	}
	return output.Write(cmd.OutOrStdout(), format, bundles, func(wide bool) []table.Data {
		return []table.Data{table.BundlesToTableData(bundles, wide)}
	})
}

func showBundle(cmd *cobra.Command, app application.Application, sku string) error {
	format, err := output.Resolve(app.OutputFormat())
	if err != nil {
		return err
	}
	data, err := app.Reference()
	if err != nil {
		return err
	}
	b, err := data.Manifest.BundleByID(sku)
	if err != nil {
		return err
	}

	return output.Write(cmd.OutOrStdout(), format, b, func(wide bool) []table.Data {
		items := make([]*catalog.Item, 0, len(b.Contents))
		counts := make([]int, 0, len(b.Contents))
		for _, c := range b.Contents {
			item, err := data.Store.ItemByID(c.Item)
			if err != nil {
				continue
			}
			items = append(items, item)
			counts = append(counts, c.Count)
		}
		return []table.Data{
			table.BundlesToTableData([]*catalog.Bundle{b}, true),
			table.ContentsToTableData(items, counts),
		}
	})
}

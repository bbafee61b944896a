// Package resolve provides the resolve command.
package resolve

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/hangar/cmd/application"
	"github.com/agentstation/hangar/internal/cmd/output"
	"github.com/agentstation/hangar/internal/cmd/table"
	"github.com/agentstation/hangar/pkg/alias"
	"github.com/agentstation/hangar/pkg/catalog"
	"github.com/agentstation/hangar/pkg/errors"
)

// NewCommand creates the resolve command.
func NewCommand(app application.Application) *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:     "resolve <name>...",
		GroupID: "core",
		Short:   "Show how a raw name resolves",
		Long: `Resolve looks a raw name up the way collection entries are resolved:
exact display name, exact alias, canonical id (xws or SKU), then the
normalized alias. It prints the canonical id and which rule matched, or
why the name could not be resolved.`,
		Example: `  hangar resolve "Luke Skywalker" --target pilot
  hangar resolve "Core Set" -t bundle
  hangar resolve "Black Squadron Pilot" -t pilot -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, args, target)
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "what the name refers to: bundle, ship, pilot or upgrade (required)")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.RegisterFlagCompletionFunc("target", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		targets := catalog.Targets()
		names := make([]string, len(targets))
		for i, t := range targets {
			names[i] = t.String()
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func run(cmd *cobra.Command, app application.Application, names []string, targetName string) error {
	target, err := catalog.ParseTarget(targetName)
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

	resolutions := make([]alias.Resolution, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return errors.NewValidationError("name", name, "name is required")
		}
		res := data.Resolver.Resolve(name, target)
		app.Logger().Debug().
			Str("raw", name).
			Str("status", string(res.Status)).
			Str("via", string(res.Via)).
			Msg("Resolved name")
		resolutions = append(resolutions, res)
	}

	var out any = resolutions
	if len(resolutions) == 1 {
		out = resolutions[0]
	}
	return output.Write(cmd.OutOrStdout(), format, out, func(bool) []table.Data {
		tables := make([]table.Data, len(resolutions))
		for i, res := range resolutions {
			tables[i] = table.ResolutionToTableData(res)
		}
		return tables
	})
}

package list

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/hangar/cmd/application"
	"github.com/agentstation/hangar/internal/cmd/output"
	"github.com/agentstation/hangar/internal/cmd/table"
	"github.com/agentstation/hangar/pkg/alias"
	"github.com/agentstation/hangar/pkg/catalog"
	"github.com/agentstation/hangar/pkg/errors"
)

// NewAliasesCommand creates the list aliases subcommand.
func NewAliasesCommand(app application.Application) *cobra.Command {
	var target, annotation string
	cmd := &cobra.Command{
		Use:     "aliases",
		Aliases: []string{"alias"},
		Short:   "List historical and alternative names",
		Args:    cobra.NoArgs,
		Example: `  hangar list aliases --target pilot
  hangar list aliases --annotation retired`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listAliases(cmd, app, target, annotation)
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "bundle, ship, pilot or upgrade")
	cmd.Flags().StringVar(&annotation, "annotation", "", "superseded, ambiguous-pre-version, historical-quirk or retired")

	return cmd
}

func listAliases(cmd *cobra.Command, app application.Application, targetName, annotationName string) error {
	var target catalog.Target
	if targetName != "" {
		t, err := catalog.ParseTarget(targetName)
		if err != nil {
			return err
		}
		target = t
	}
	annotation := alias.Annotation(annotationName)
	if annotationName != "" && (annotation == alias.AnnotationNone || !annotation.IsValid()) {
		return errors.NewValidationError("annotation", annotationName,
			"want superseded, ambiguous-pre-version, historical-quirk or retired")
	}

	format, err := output.Resolve(app.OutputFormat())
	if err != nil {
		return err
	}
	data, err := app.Reference()
	if err != nil {
		return err
	}

	entries := []alias.Entry{}
	for _, e := range data.Aliases.Entries() {
		if target != "" && e.Target != target {
			continue
		}
		if annotationName != "" && e.Annotation != annotation {
			continue
		}
		entries = append(entries, e)
	}
	return output.Write(cmd.OutOrStdout(), format, entries, func(bool) []table.Data {
		return []table.Data{table.AliasesToTableData(entries)}
	})
}

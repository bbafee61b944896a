// Package validate provides the validate command.
package validate

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/hangar/cmd/application"
	"github.com/agentstation/hangar/internal/cmd/alerts"
	"github.com/agentstation/hangar/internal/cmd/output"
	"github.com/agentstation/hangar/pkg/collection"
	"github.com/agentstation/hangar/pkg/errors"
	"github.com/agentstation/hangar/pkg/reference"
)

// Report is the structured output of validate.
type Report struct {
	Reference   reference.Version  `json:"reference" yaml:"reference"`
	Items       int                `json:"items" yaml:"items"`
	Bundles     int                `json:"bundles" yaml:"bundles"`
	Aliases     int                `json:"aliases" yaml:"aliases"`
	Collections []CollectionReport `json:"collections,omitempty" yaml:"collections,omitempty"`
}

// CollectionReport lists what is wrong with one collection record.
type CollectionReport struct {
	Collection string   `json:"collection" yaml:"collection"`
	Entries    int      `json:"entries" yaml:"entries"`
	Invalid    []string `json:"invalid" yaml:"invalid"`
	Unresolved []string `json:"unresolved" yaml:"unresolved"`
}

// OK reports whether the collection has neither invalid nor unresolved entries.
func (r CollectionReport) OK() bool {
	return len(r.Invalid) == 0 && len(r.Unresolved) == 0
}

// NewCommand creates the validate command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "validate [collection]...",
		GroupID: "reference",
		Short:   "Validate reference data and collection records",
		Long: `Validate loads the reference data and reports every inconsistency:
bundles that reference unknown items, duplicate ids and conflicting aliases.

Collection records given as arguments are checked too: every entry must have
a valid count and a name that resolves to exactly one id. The command fails
when anything is wrong.`,
		Example: `  hangar validate
  hangar validate --data ./reference
  hangar validate collection.yaml yasb-export.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, args)
		},
	}
}

func run(cmd *cobra.Command, app application.Application, paths []string) error {
	format, err := output.Resolve(app.OutputFormat())
	if err != nil {
		return err
	}
	stderr := alerts.NewFormatWriter(cmd.ErrOrStderr(), output.FormatTable)

	data, err := app.Reference()
	if err != nil {
		var loadErr *errors.LoadError
		if errors.As(err, &loadErr) {
			a := alerts.NewError(fmt.Sprintf("%s reference data is inconsistent", loadErr.Source)).WithDetails(loadErr.Problems...)
			_ = stderr.WriteAlert(a)
		}
		return err
	}

	report := Report{
		Reference: data.Version,
		Items:     data.Store.Len(),
		Bundles:   data.Manifest.Len(),
		Aliases:   data.Aliases.Len(),
	}
	failed := 0
	for _, path := range paths {
		cr, err := checkCollection(data, path)
		if err != nil {
			return err
		}
		if !cr.OK() {
			failed++
		}
		report.Collections = append(report.Collections, cr)
	}

	if format.IsTable() {
		if err := writePlain(cmd.OutOrStdout(), report); err != nil {
			return err
		}
	} else if err := output.Write(cmd.OutOrStdout(), format, report, nil); err != nil {
		return err
	}

	if failed > 0 {
		return errors.NewValidationError("collection", failed, fmt.Sprintf("%d of %d collections have problems", failed, len(paths)))
	}
	return nil
}

func checkCollection(data *reference.Data, path string) (CollectionReport, error) {
	cr := CollectionReport{Collection: path, Invalid: []string{}, Unresolved: []string{}}
	in, err := collection.Load(path)
	var invalid collection.InvalidEntries
	if errors.As(err, &invalid) {
		for _, v := range invalid {
			cr.Invalid = append(cr.Invalid, v.Error())
		}
	} else if err != nil {
		return cr, err
	}

	cr.Entries = in.Len() + len(invalid)
	for _, e := range in.Entries() {
		res := data.Resolver.Resolve(e.Raw, e.Target)
		if !res.Resolved() {
			cr.Unresolved = append(cr.Unresolved, fmt.Sprintf("%s %q: %s", e.Target, e.Raw, res.Status))
		}
	}
	return cr, nil
}

func writePlain(w io.Writer, r Report) error {
	out := alerts.NewFormatWriter(w, output.FormatTable)
	summary := fmt.Sprintf("Reference data %s: %d items, %d bundles, %d aliases",
		r.Reference.String(), r.Items, r.Bundles, r.Aliases)
	if err := out.WriteAlert(alerts.NewSuccess(summary)); err != nil {
		return err
	}
	for _, cr := range r.Collections {
		if cr.OK() {
			if err := out.WriteAlert(alerts.NewSuccess(fmt.Sprintf("%s: %d entries resolve", cr.Collection, cr.Entries))); err != nil {
				return err
			}
			continue
		}
		details := append(append([]string{}, cr.Invalid...), cr.Unresolved...)
		a := alerts.NewError(fmt.Sprintf("%s: %d invalid, %d unresolved", cr.Collection, len(cr.Invalid), len(cr.Unresolved))).
			WithDetails(details...)
		if err := out.WriteAlert(a); err != nil {
			return err
		}
	}
	return nil
}

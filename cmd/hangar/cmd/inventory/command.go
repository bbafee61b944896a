// Package inventory provides the inventory command: aggregate one or more
// collection records into per-item totals.
package inventory

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"

	"github.com/agentstation/hangar/cmd/application"
	"github.com/agentstation/hangar/internal/cmd/alerts"
	"github.com/agentstation/hangar/internal/cmd/hints"
	"github.com/agentstation/hangar/internal/cmd/output"
	"github.com/agentstation/hangar/internal/cmd/table"
	"github.com/agentstation/hangar/internal/export"
	"github.com/agentstation/hangar/pkg/catalog"
	"github.com/agentstation/hangar/pkg/collection"
	"github.com/agentstation/hangar/pkg/constants"
	"github.com/agentstation/hangar/pkg/diagnostics"
	"github.com/agentstation/hangar/pkg/errors"
	"github.com/agentstation/hangar/pkg/inventory"
	"github.com/agentstation/hangar/pkg/logging"
)

// StdinName is the collection argument that reads standard input.
const StdinName = "-"

// Settings are the configured defaults for flags that were not given.
type Settings struct {
	Export  string
	Strict  bool
	Workers int
}

// Report is the structured output for one collection.
type Report struct {
	Collection  string                   `json:"collection" yaml:"collection"`
	Reference   string                   `json:"reference" yaml:"reference"`
	Summary     inventory.Summary        `json:"summary" yaml:"summary"`
	Bundles     []inventory.OwnedBundle  `json:"bundles" yaml:"bundles"`
	Lines       []inventory.Line         `json:"lines" yaml:"lines"`
	Diagnostics []diagnostics.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
	Invalid     []string                 `json:"invalid,omitempty" yaml:"invalid,omitempty"`

	result *inventory.Result
}

type options struct {
	export  string
	strict  bool
	workers int
	merge   bool
	format  string
	kind    string
}

// NewCommand creates the inventory command.
func NewCommand(app application.Application, settings func() Settings) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:     "inventory <collection>...",
		Aliases: []string{"inv"},
		GroupID: "core",
		Short:   "Aggregate collection records into per-item totals",
		Long: `Inventory expands every owned product into its contents, adds loose
items and prints the total owned count of every ship, pilot and upgrade.

A collection is a native record (YAML or JSON) or a YASB collection export.
Use "-" to read one from standard input. Several collections are aggregated
concurrently and reported one after another, or combined with --merge.

Names that cannot be resolved are reported on stderr and left out of the
totals. With --strict, invalid entries or unresolved names fail the command.`,
		Example: `  hangar inventory collection.yaml
  hangar inventory yasb-export.json -o wide
  hangar inventory a.yaml b.yaml --merge --export inventory.xlsx
  cat collection.json | hangar inventory - -o json
  hangar inventory collection.yaml --export runs.sqlite --strict`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := settings()
			if !cmd.Flags().Changed("export") {
				opts.export = s.Export
			}
			if !cmd.Flags().Changed("strict") {
				opts.strict = s.Strict
			}
			if !cmd.Flags().Changed("workers") {
				opts.workers = s.Workers
			}
			return run(cmd, app, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.export, "export", "", "also write the result to a file (.csv, .xlsx, .md, .sqlite)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail when any entry is invalid or unresolved")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", constants.DefaultWorkers, "collections aggregated concurrently")
	cmd.Flags().BoolVar(&opts.merge, "merge", false, "combine all collections into one before aggregating")
	cmd.Flags().StringVar(&opts.format, "input-format", "auto", "collection format: auto, yaml, json, toml, yasb")
	cmd.Flags().StringVarP(&opts.kind, "kind", "k", "", "only print lines of this kind (ship, pilot, upgrade)")

	return cmd
}

// loaded is one collection read from disk.
type loaded struct {
	name    string
	input   *collection.Input
	invalid collection.InvalidEntries
}

func run(cmd *cobra.Command, app application.Application, args []string, opts *options) error {
	ctx := cmd.Context()
	logger := app.Logger()

	if opts.workers < 1 || opts.workers > constants.MaxWorkers {
		return errors.NewValidationError("workers", opts.workers,
			fmt.Sprintf("must be between 1 and %d", constants.MaxWorkers))
	}
	format, err := collection.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	outFormat, err := output.Resolve(app.OutputFormat())
	if err != nil {
		return err
	}
	if i := slices.Index(args, StdinName); i >= 0 && slices.Contains(args[i+1:], StdinName) {
		return errors.NewValidationError("collection", StdinName, "standard input can be read only once")
	}
	var kind catalog.Kind
	if opts.kind != "" {
		if kind, err = catalog.ParseKind(opts.kind); err != nil {
			return err
		}
	}

	data, err := app.Reference()
	if err != nil {
		return err
	}
	agg, err := app.Aggregator()
	if err != nil {
		return err
	}
	ctx = logging.WithReference(ctx, data.Version.String())

	inputs, err := loadAll(ctx, cmd.InOrStdin(), args, format, opts.workers)
	if err != nil {
		return err
	}
	if opts.merge && len(inputs) > 1 {
		inputs = []loaded{merge(inputs)}
	}

	reports := make([]*Report, len(inputs))
	p := pool.New().WithContext(ctx).WithMaxGoroutines(opts.workers)
	for i, in := range inputs {
		p.Go(func(ctx context.Context) error {
			start := time.Now()
			result := agg.Aggregate(in.input)
			reports[i] = newReport(in, data.Version.String(), result)
			logging.FromContext(logging.WithCollection(ctx, in.name)).Info().
				Int("entries", result.Entries).
				Int("lines", len(result.Lines)).
				Int("warnings", reports[i].Summary.Warnings).
				Dur("elapsed", time.Since(start)).
				Msg("Aggregated collection")
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return err
	}

	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	for i, report := range reports {
		if err := writeReport(stdout, stderr, outFormat, report, kind, len(reports) > 1, i); err != nil {
			return err
		}
		if opts.export != "" {
			path := exportPath(opts.export, report.Collection, len(reports) > 1)
			if err := export.WriteFile(ctx, path, &export.Snapshot{
				Collections: collectionNames(inputs, i, opts.merge, args),
				Version:     report.Reference,
				Result:      report.result,
			}); err != nil {
				return err
			}
			logger.Info().Str("path", path).Msg("Exported inventory")
		}
	}

	if opts.strict {
		return strictCheck(reports)
	}
	return nil
}

// loadAll reads the collections with at most workers files open at once.
// A collection that cannot be read or decoded fails the whole run;
// entries with invalid counts are kept for reporting.
func loadAll(ctx context.Context, stdin io.Reader, args []string, format collection.Format, workers int) ([]loaded, error) {
	inputs := make([]loaded, len(args))
	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(workers)
	for i, name := range args {
		p.Go(func(ctx context.Context) error {
			in, err := load(stdin, name, format)
			var invalid collection.InvalidEntries
			if errors.As(err, &invalid) {
				err = nil
			}
			if err != nil {
				return err
			}
			logging.FromContext(ctx).Debug().
				Str("collection", name).
				Int("entries", in.Len()).
				Int("invalid", len(invalid)).
				Msg("Loaded collection")
			inputs[i] = loaded{name: name, input: in, invalid: invalid}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return inputs, nil
}

func load(stdin io.Reader, name string, format collection.Format) (*collection.Input, error) {
	if name == StdinName {
		return collection.Decode(stdin, format)
	}
	if format == collection.FormatAuto {
		return collection.Load(name)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.WrapIO("open", name, err)
	}
	defer func() { _ = f.Close() }()
	return collection.Decode(f, format)
}

func merge(inputs []loaded) loaded {
	names := make([]string, len(inputs))
	out := loaded{input: collection.NewInput()}
	for i, in := range inputs {
		names[i] = in.name
		out.input.Merge(in.input)
		out.invalid = append(out.invalid, in.invalid...)
	}
	out.name = strings.Join(names, "+")
	return out
}

func newReport(in loaded, version string, result *inventory.Result) *Report {
	r := &Report{
		Collection:  in.name,
		Reference:   version,
		Summary:     result.Summary(),
		Bundles:     nonNil(result.Bundles),
		Lines:       nonNil(result.Lines),
		Diagnostics: nonNil(result.Diagnostics),
		result:      result,
	}
	for _, v := range in.invalid {
		r.Invalid = append(r.Invalid, v.Error())
	}
	return r
}

func writeReport(stdout, stderr io.Writer, format output.Format, r *Report, kind catalog.Kind, multi bool, index int) error {
	lines := r.Lines
	if kind != "" {
		lines = nonNil(r.result.LinesOfKind(kind))
	}

	if !format.IsTable() {
		out := *r
		out.Lines = lines
		return output.Write(stdout, format, out, nil)
	}

	if multi {
		if index > 0 {
			if _, err := fmt.Fprintln(stdout); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(stdout, "== %s ==\n", r.Collection); err != nil {
			return err
		}
	}

	diags := alerts.NewFormatWriter(stderr, output.FormatTable)
	for _, msg := range r.Invalid {
		if err := diags.WriteAlert(alerts.NewError(msg)); err != nil {
			return err
		}
	}
	verbose := format == output.FormatWide
	if err := alerts.WriteDiagnostics(diags, r.Diagnostics, verbose); err != nil {
		return err
	}
	if err := hints.Write(stderr, hints.ForDiagnostics(r.Diagnostics)); err != nil {
		return err
	}

	return output.Write(stdout, format, r, func(wide bool) []table.Data {
		tables := []table.Data{}
		if len(r.Bundles) > 0 && kind == "" {
			tables = append(tables, table.OwnedBundlesToTableData(r.Bundles))
		}
		tables = append(tables,
			table.LinesToTableData(lines, wide),
			table.SummaryToTableData(r.Summary),
		)
		return tables
	})
}

// exportPath gives every collection of a multi-collection run its own
// file, except SQLite databases which hold many runs.
func exportPath(path, collectionName string, multi bool) string {
	if !multi || strings.EqualFold(filepath.Ext(path), ".sqlite") || strings.EqualFold(filepath.Ext(path), ".db") {
		return path
	}
	stem := strings.TrimSuffix(filepath.Base(collectionName), filepath.Ext(collectionName))
	if collectionName == StdinName {
		stem = "stdin"
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-" + stem + ext
}

func collectionNames(inputs []loaded, i int, merged bool, args []string) []string {
	if merged && len(args) > 1 {
		return args
	}
	return []string{inputs[i].name}
}

func strictCheck(reports []*Report) error {
	var problems []string
	for _, r := range reports {
		if len(r.Invalid) == 0 && r.Summary.Warnings == 0 {
			continue
		}
		problems = append(problems, fmt.Sprintf("%s: %d invalid, %d unresolved",
			r.Collection, len(r.Invalid), r.Summary.Unresolved))
	}
	if len(problems) == 0 {
		return nil
	}
	return errors.NewValidationError("collection", len(problems), "strict mode: "+strings.Join(problems, "; "))
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

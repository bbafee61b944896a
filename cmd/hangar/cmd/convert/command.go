// Package convert provides the convert command, which rewrites a
// collection record in another format.
package convert

import (
	"io"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/agentstation/hangar/cmd/application"
	"github.com/agentstation/hangar/internal/cmd/alerts"
	"github.com/agentstation/hangar/internal/cmd/output"
	"github.com/agentstation/hangar/pkg/alias"
	"github.com/agentstation/hangar/pkg/catalog"
	"github.com/agentstation/hangar/pkg/collection"
	"github.com/agentstation/hangar/pkg/constants"
	"github.com/agentstation/hangar/pkg/errors"
	"github.com/agentstation/hangar/pkg/reference"
)

type options struct {
	to        string
	from      string
	out       string
	canonical bool
}

// NewCommand creates the convert command.
func NewCommand(app application.Application) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:     "convert <collection>",
		GroupID: "core",
		Short:   "Convert a collection record between formats",
		Long: `Convert reads a native or YASB collection record and writes it as native
YAML, native JSON or a YASB collection export.

With --canonical every name that resolves is replaced by its current display
name (items) or SKU (bundles), merging entries that turn out to be the same.
Names that do not resolve are kept as they are and reported on stderr.`,
		Example: `  hangar convert yasb-export.json --to yaml
  hangar convert collection.yaml --to yasb -O export.json
  hangar convert old.json --to yaml --canonical`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.to, "to", "yaml", "target format: yaml, json, toml or yasb")
	cmd.Flags().StringVar(&opts.from, "from", "auto", "source format: auto, yaml, json, toml or yasb")
	cmd.Flags().StringVarP(&opts.out, "out", "O", "", "write to a file instead of stdout")
	cmd.Flags().BoolVar(&opts.canonical, "canonical", false, "replace resolvable names by canonical ones")

	return cmd
}

func run(cmd *cobra.Command, app application.Application, path string, opts *options) error {
	to, err := collection.ParseFormat(opts.to)
	if err != nil {
		return err
	}
	if to == collection.FormatAuto {
		return errors.NewValidationError("to", opts.to, "a target format is required")
	}
	from, err := collection.ParseFormat(opts.from)
	if err != nil {
		return err
	}

	in, err := read(cmd.InOrStdin(), path, from)
	diags := alerts.NewFormatWriter(cmd.ErrOrStderr(), output.FormatTable)
	var invalid collection.InvalidEntries
	if errors.As(err, &invalid) {
		for _, v := range invalid {
			if err := diags.WriteAlert(alerts.NewWarning("dropped " + v.Error())); err != nil {
				return err
			}
		}
	} else if err != nil {
		return err
	}

	if opts.canonical {
		data, err := app.Reference()
		if err != nil {
			return err
		}
		var unresolved []alias.Resolution
		in, unresolved = Canonicalize(in, data)
		for _, res := range unresolved {
			if err := diags.WriteAlert(alerts.NewWarning(string(res.Status) + " " + res.Target.String() + " " + strconv.Quote(res.Raw) + " kept as is")); err != nil {
				return err
			}
		}
	}

	app.Logger().Debug().
		Str("collection", path).
		Str("to", string(to)).
		Int("entries", in.Len()).
		Msg("Converting collection")

	if opts.out == "" {
		return write(cmd.OutOrStdout(), in, to)
	}
	f, err := os.OpenFile(opts.out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create", opts.out, err)
	}
	if err := write(f, in, to); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.WrapIO("close", opts.out, err)
	}
	return nil
}

func read(stdin io.Reader, path string, format collection.Format) (*collection.Input, error) {
	if path == "-" {
		return collection.Decode(stdin, format)
	}
	if format == collection.FormatAuto {
		return collection.Load(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()
	return collection.Decode(f, format)
}

func write(w io.Writer, in *collection.Input, to collection.Format) error {
	switch to {
	case collection.FormatYASB:
		return output.NewFormatter(output.FormatJSON).Format(w, collection.ToYASB(in))
	case collection.FormatJSON:
		return output.NewFormatter(output.FormatJSON).Format(w, in)
	case collection.FormatTOML:
		return toml.NewEncoder(w).Encode(in)
	default:
		return output.NewFormatter(output.FormatYAML).Format(w, in)
	}
}

// Canonicalize returns a copy of in with every resolvable name replaced by
// the current display name or SKU. Counts of names that resolve to the
// same id are summed. Unresolved entries are kept and returned.
func Canonicalize(in *collection.Input, data *reference.Data) (*collection.Input, []alias.Resolution) {
	out := collection.NewInput()
	var unresolved []alias.Resolution
	for _, e := range in.Entries() {
		res := data.Resolver.Resolve(e.Raw, e.Target)
		name := e.Raw
		if res.Resolved() {
			name = canonicalName(res, data)
		} else {
			unresolved = append(unresolved, res)
		}
		if e.Target == catalog.TargetBundle {
			out.AddBundle(name, e.Count)
		} else {
			kind, _ := e.Target.Kind()
			out.AddLoose(kind, name, e.Count)
		}
	}
	return out, unresolved
}

// canonicalName is the SKU of a bundle, or the display name of an item
// when that name alone resolves back to it, or else its xws id.
func canonicalName(res alias.Resolution, data *reference.Data) string {
	if res.Bundle != "" {
		return res.Bundle
	}
	item, err := data.Store.ItemByID(*res.Item)
	if err != nil {
		return res.Item.XWS
	}
	if back := data.Resolver.Resolve(item.Name, res.Target); back.Resolved() && *back.Item == *res.Item {
		return item.Name
	}
	return item.ID.XWS
}

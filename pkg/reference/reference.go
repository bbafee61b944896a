// Package reference loads the versioned reference data a collection is
// resolved against: items, bundles and aliases. Data is read from any
// fs.FS, so the embedded snapshot, a directory on disk and test fixtures
// all go through the same code.
//
// Layout:
//
//	version.yaml   optional {version, released}
//	items.yaml     ships, pilots and upgrades (or an xwing-data2 checkout)
//	bundles.yaml   products and their contents
//	aliases.yaml   optional historical and alternative names
package reference

import (
	"io/fs"
	"os"

	"github.com/rs/zerolog"

	"github.com/agentstation/hangar/internal/embedded"
	"github.com/agentstation/hangar/pkg/alias"
	"github.com/agentstation/hangar/pkg/catalog"
	"github.com/agentstation/hangar/pkg/errors"
	"github.com/agentstation/hangar/pkg/logging"
)

// File names inside a reference data directory.
const (
	VersionFile = "version.yaml"
	ItemsFile   = "items.yaml"
	BundlesFile = "bundles.yaml"
	AliasesFile = "aliases.yaml"
)

// Version identifies a reference data snapshot.
type Version struct {
	Version  string `json:"version" yaml:"version"`
	Released string `json:"released,omitempty" yaml:"released,omitempty"`
	Items    string `json:"items,omitempty" yaml:"items,omitempty"` // "xwing-data2 <version>" when items came from a checkout
}

// String returns the version, or "unversioned".
func (v Version) String() string {
	if v.Version == "" {
		return "unversioned"
	}
	return v.Version
}

// Data is a loaded, consistent reference data set. All fields are
// read-only and safe to share between goroutines.
type Data struct {
	Version  Version
	Store    *catalog.Store
	Manifest *catalog.Manifest
	Aliases  *alias.Table
	Resolver *alias.Resolver
}

type options struct {
	xwingData2 fs.FS
	logger     *zerolog.Logger
}

// Option configures Load.
type Option func(*options)

// WithXWingData2 takes ships, pilots and upgrades from an xwing-data2
// checkout instead of items.yaml.
func WithXWingData2(fsys fs.FS) Option {
	return func(o *options) {
		o.xwingData2 = fsys
	}
}

// WithLogger sets the logger used while loading.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Load reads reference data from fsys. Malformed files produce an
// *errors.ParseError, inconsistent data an *errors.LoadError.
func Load(fsys fs.FS, opts ...Option) (*Data, error) {
	o := &options{logger: logging.Default()}
	for _, opt := range opts {
		opt(o)
	}

	var data Data
	if err := readOptional(fsys, VersionFile, &data.Version); err != nil {
		return nil, err
	}

	var items []catalog.Item
	var err error
	if o.xwingData2 != nil {
		var xwdVersion string
		items, xwdVersion, err = loadXWingData2(o.xwingData2)
		data.Version.Items = "xwing-data2 " + xwdVersion
	} else {
		items, err = loadItems(fsys)
	}
	if err != nil {
		return nil, err
	}

	bundles, err := loadBundles(fsys)
	if err != nil {
		return nil, err
	}

	data.Store, data.Manifest, err = catalog.Load(items, bundles)
	if err != nil {
		return nil, err
	}

	var entries []alias.Entry
	if err := readOptional(fsys, AliasesFile, &entries); err != nil {
		return nil, err
	}
	data.Aliases, err = alias.NewTable(entries)
	if err != nil {
		return nil, err
	}
	if err := data.Aliases.Verify(data.Store, data.Manifest); err != nil {
		return nil, err
	}

	data.Resolver = alias.NewResolver(data.Store, data.Manifest, data.Aliases)

	o.logger.Debug().
		Str("version", data.Version.String()).
		Int("items", data.Store.Len()).
		Int("bundles", data.Manifest.Len()).
		Int("aliases", data.Aliases.Len()).
		Msg("Loaded reference data")
	return &data, nil
}

// FromPath loads reference data from a directory.
func FromPath(dir string, opts ...Option) (*Data, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.WrapIO("open", dir, err)
	}
	if !info.IsDir() {
		return nil, &errors.ConfigError{Component: "reference", Message: dir + " is not a directory"}
	}
	return Load(os.DirFS(dir), opts...)
}

// Embedded loads the reference data snapshot compiled into the binary.
func Embedded(opts ...Option) (*Data, error) {
	sub, err := fs.Sub(embedded.FS, embedded.Root)
	if err != nil {
		return nil, errors.WrapResource("load", "reference data", "embedded", err)
	}
	return Load(sub, opts...)
}

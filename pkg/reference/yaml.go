package reference

import (
	"fmt"
	"io/fs"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/hangar/pkg/catalog"
	"github.com/agentstation/hangar/pkg/errors"
)

// itemDoc is one entry of items.yaml.
type itemDoc struct {
	Type         string               `yaml:"type"`
	XWS          string               `yaml:"xws"`
	Name         string               `yaml:"name"`
	Faction      string               `yaml:"faction,omitempty"`
	Ship         string               `yaml:"ship,omitempty"`
	Initiative   int                  `yaml:"initiative,omitempty"`
	Slot         string               `yaml:"slot,omitempty"`
	Restrictions catalog.Restrictions `yaml:"restrictions,omitempty"`
}

// contentDoc is one row of a bundle's contents in bundles.yaml.
type contentDoc struct {
	Type  string `yaml:"type"`
	XWS   string `yaml:"xws"`
	Count int    `yaml:"count"`
}

// bundleDoc is one entry of bundles.yaml.
type bundleDoc struct {
	SKU      string       `yaml:"sku"`
	Name     string       `yaml:"name"`
	Wave     int          `yaml:"wave"`
	Quirk    string       `yaml:"quirk,omitempty"`
	Contents []contentDoc `yaml:"contents,omitempty"`
}

func loadItems(fsys fs.FS) ([]catalog.Item, error) {
	var docs []itemDoc
	if err := readRequired(fsys, ItemsFile, &docs); err != nil {
		return nil, err
	}

	items := make([]catalog.Item, 0, len(docs))
	var problems []string
	for i, d := range docs {
		kind, err := catalog.ParseKind(d.Type)
		if err != nil {
			problems = append(problems, fmt.Sprintf("item %d (%q): %v", i, d.XWS, err))
			continue
		}
		items = append(items, catalog.Item{
			ID:           catalog.NewItemID(kind, d.XWS),
			Name:         d.Name,
			Faction:      d.Faction,
			Ship:         d.Ship,
			Initiative:   d.Initiative,
			Slot:         d.Slot,
			Restrictions: d.Restrictions,
		})
	}
	if len(problems) > 0 {
		return nil, errors.NewLoadError("items", problems...)
	}
	return items, nil
}

func loadBundles(fsys fs.FS) ([]catalog.Bundle, error) {
	var docs []bundleDoc
	if err := readRequired(fsys, BundlesFile, &docs); err != nil {
		return nil, err
	}

	bundles := make([]catalog.Bundle, 0, len(docs))
	var problems []string
	for _, d := range docs {
		b := catalog.Bundle{SKU: d.SKU, Name: d.Name, Wave: d.Wave, Quirk: d.Quirk}
		for _, c := range d.Contents {
			kind, err := catalog.ParseKind(c.Type)
			if err != nil {
				problems = append(problems, fmt.Sprintf("bundle %s: %v", d.SKU, err))
				continue
			}
			b.Contents = append(b.Contents, catalog.Content{Item: catalog.NewItemID(kind, c.XWS), Count: c.Count})
		}
		bundles = append(bundles, b)
	}
	if len(problems) > 0 {
		return nil, errors.NewLoadError("bundles", problems...)
	}
	return bundles, nil
}

func readRequired(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return errors.WrapIO("read", name, err)
	}
	return decode(name, data, v)
}

// readOptional decodes name into v, leaving v untouched when the file is absent.
func readOptional(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return errors.WrapIO("read", name, err)
	}
	return decode(name, data, v)
}

func decode(name string, data []byte, v any) error {
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return errors.NewParseError("yaml", name, yaml.FormatError(err, false, true), err)
	}
	return nil
}

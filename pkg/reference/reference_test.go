package reference

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/hangar/pkg/alias"
	"github.com/agentstation/hangar/pkg/catalog"
	"github.com/agentstation/hangar/pkg/errors"
	"github.com/agentstation/hangar/pkg/logging"
)

const testItems = `
- type: ship
  xws: t65xwing
  name: T-65 X-wing
  faction: rebelalliance
- type: pilot
  xws: lukeskywalker
  name: Luke Skywalker
  faction: rebelalliance
  ship: t65xwing
  initiative: 5
- type: upgrade
  xws: r2d2
  name: R2-D2
  slot: Astromech
  restrictions:
    factions: [rebelalliance]
`

const testBundles = `
- sku: SWZ06
  name: T-65 X-Wing Expansion Pack
  wave: 1
  contents:
    - {type: ship, xws: t65xwing, count: 1}
    - {type: pilot, xws: lukeskywalker, count: 1}
    - {type: upgrade, xws: r2d2, count: 1}
`

const testAliases = `
- raw: X-Wing Pack
  target: bundle
  id: SWZ06
- raw: xwing
  target: ship
  annotation: retired
  note: 1.0 ship record
`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		VersionFile: {Data: []byte("version: 2.1.0\nreleased: \"2025-01-01\"\n")},
		ItemsFile:   {Data: []byte(testItems)},
		BundlesFile: {Data: []byte(testBundles)},
		AliasesFile: {Data: []byte(testAliases)},
	}
}

func TestLoad(t *testing.T) {
	data, err := Load(testFS())
	require.NoError(t, err)

	assert.Equal(t, "2.1.0", data.Version.String())
	assert.Equal(t, "2025-01-01", data.Version.Released)
	assert.Equal(t, 3, data.Store.Len())
	assert.Equal(t, 1, data.Manifest.Len())
	assert.Equal(t, 2, data.Aliases.Len())

	r2, err := data.Store.ItemByID(catalog.NewItemID(catalog.KindUpgrade, "r2d2"))
	require.NoError(t, err)
	assert.Equal(t, "Astromech", r2.Slot)
	assert.Equal(t, []string{"rebelalliance"}, r2.Restrictions.Factions)

	res := data.Resolver.Resolve("X-Wing Pack", catalog.TargetBundle)
	assert.Equal(t, alias.StatusResolved, res.Status)
	assert.Equal(t, "SWZ06", res.Bundle)

	res = data.Resolver.Resolve("xwing", catalog.TargetShip)
	assert.Equal(t, alias.StatusRetired, res.Status)
}

func TestLoadOptionalFiles(t *testing.T) {
	fsys := testFS()
	delete(fsys, VersionFile)
	delete(fsys, AliasesFile)

	data, err := Load(fsys)
	require.NoError(t, err)
	assert.Equal(t, "unversioned", data.Version.String())
	assert.Equal(t, 0, data.Aliases.Len())

	res := data.Resolver.Resolve("Luke Skywalker", catalog.TargetPilot)
	assert.True(t, res.Resolved())
}

func TestLoadMissingRequired(t *testing.T) {
	for _, name := range []string{ItemsFile, BundlesFile} {
		t.Run(name, func(t *testing.T) {
			fsys := testFS()
			delete(fsys, name)

			_, err := Load(fsys)
			require.Error(t, err)
			var ioErr *errors.IOError
			require.True(t, errors.As(err, &ioErr))
			assert.Equal(t, name, ioErr.Path)
		})
	}
}

func TestLoadParseError(t *testing.T) {
	fsys := testFS()
	fsys[BundlesFile] = &fstest.MapFile{Data: []byte("- sku: SWZ06\n  colour: red\n")}

	_, err := Load(fsys)
	require.Error(t, err)
	var parseErr *errors.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "yaml", parseErr.Format)
	assert.Equal(t, BundlesFile, parseErr.File)
}

func TestLoadInconsistent(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		data    string
		source  string
		problem string
	}{
		{
			name:    "unknown item type",
			file:    ItemsFile,
			data:    "- {type: crew, xws: chewbacca, name: Chewbacca}\n",
			source:  "items",
			problem: "chewbacca",
		},
		{
			name:    "bundle references missing item",
			file:    BundlesFile,
			data:    "- {sku: SWZ06, name: Pack, wave: 1, contents: [{type: pilot, xws: wedgeantilles, count: 1}]}\n",
			source:  "catalog",
			problem: "wedgeantilles",
		},
		{
			name:    "alias to missing bundle",
			file:    AliasesFile,
			data:    "- {raw: Old Pack, target: bundle, id: SWZ99}\n",
			source:  "aliases",
			problem: "SWZ99",
		},
		{
			name:    "conflicting aliases",
			file:    AliasesFile,
			data:    "- {raw: Luke, target: pilot, id: lukeskywalker}\n- {raw: Luke, target: pilot, annotation: retired}\n",
			source:  "aliases",
			problem: "Luke",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := testFS()
			fsys[tt.file] = &fstest.MapFile{Data: []byte(tt.data)}

			_, err := Load(fsys)
			require.Error(t, err)
			assert.True(t, errors.IsLoadError(err))
			var loadErr *errors.LoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, tt.source, loadErr.Source)
			assert.Contains(t, loadErr.Error(), tt.problem)
		})
	}
}

func TestLoadLogs(t *testing.T) {
	logger := logging.NewTestLogger(t)

	_, err := Load(testFS(), WithLogger(logger.Logger))
	require.NoError(t, err)
	logger.AssertContains(t, "Loaded reference data")
}

func TestLoadXWingData2(t *testing.T) {
	xwd := fstest.MapFS{
		"data/manifest.json": {Data: []byte(`{
			"version": "1.87.0",
			"pilots": [
				{"faction": "rebelalliance", "ships": ["data/pilots/rebel-alliance/t-65-x-wing.json"]},
				{"faction": "scumandvillainy", "ships": ["./data/pilots/scum-and-villainy/t-65-x-wing.json"]}
			],
			"upgrades": ["data/upgrades/astromech.json"]
		}`)},
		"data/pilots/rebel-alliance/t-65-x-wing.json": {Data: []byte(`{
			"name": "T-65 X-wing", "xws": "t65xwing", "faction": "Rebel Alliance",
			"pilots": [
				{"name": "Luke Skywalker", "xws": "lukeskywalker", "initiative": 5},
				{"name": "Unreleased", "xws": ""}
			]
		}`)},
		"data/pilots/scum-and-villainy/t-65-x-wing.json": {Data: []byte(`{
			"name": "T-65 X-wing", "xws": "t65xwing", "pilots": []
		}`)},
		"data/upgrades/astromech.json": {Data: []byte(`[
			{"name": "R2-D2", "xws": "r2d2", "sides": [{"type": "Astromech"}],
			 "restrictions": [{"factions": ["rebelalliance"]}, {"sizes": ["Small"]}]}
		]`)},
	}

	fsys := testFS()
	delete(fsys, ItemsFile)

	data, err := Load(fsys, WithXWingData2(xwd))
	require.NoError(t, err)
	assert.Equal(t, "xwing-data2 1.87.0", data.Version.Items)
	assert.Equal(t, 3, data.Store.Len())

	ship, err := data.Store.ItemByID(catalog.NewItemID(catalog.KindShip, "t65xwing"))
	require.NoError(t, err)
	assert.Equal(t, "Rebel Alliance", ship.Faction)

	r2, err := data.Store.ItemByID(catalog.NewItemID(catalog.KindUpgrade, "r2d2"))
	require.NoError(t, err)
	assert.Equal(t, "Astromech", r2.Slot)
	assert.Equal(t, []string{"rebelalliance"}, r2.Restrictions.Factions)
	assert.Equal(t, []string{"Small"}, r2.Restrictions.Sizes)
}

func TestLoadXWingData2Empty(t *testing.T) {
	xwd := fstest.MapFS{
		"data/manifest.json": {Data: []byte(`{"version": "0.0.1"}`)},
	}
	_, err := Load(testFS(), WithXWingData2(xwd))
	require.Error(t, err)
	assert.True(t, errors.IsLoadError(err))
}

func TestLoadXWingData2BadJSON(t *testing.T) {
	xwd := fstest.MapFS{
		"data/manifest.json": {Data: []byte(`{"version": `)},
	}
	_, err := Load(testFS(), WithXWingData2(xwd))
	var parseErr *errors.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "json", parseErr.Format)
}

func TestFromPath(t *testing.T) {
	dir := t.TempDir()
	for name, f := range testFS() {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), f.Data, 0o644))
	}

	data, err := FromPath(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, data.Store.Len())

	_, err = FromPath(filepath.Join(dir, "missing"))
	var ioErr *errors.IOError
	assert.True(t, errors.As(err, &ioErr))

	_, err = FromPath(filepath.Join(dir, ItemsFile))
	var cfgErr *errors.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestEmbedded(t *testing.T) {
	data, err := Embedded()
	require.NoError(t, err)

	assert.NotEqual(t, "unversioned", data.Version.String())
	assert.NotZero(t, data.Store.Len())
	assert.NotZero(t, data.Manifest.Len())
	assert.NotZero(t, data.Aliases.Len())

	for _, b := range data.Manifest.Bundles() {
		for _, c := range b.Contents {
			assert.True(t, data.Store.Has(c.Item), "%s lists unknown %s", b.SKU, c.Item)
		}
	}

	tests := []struct {
		raw    string
		target catalog.Target
		status alias.Status
		id     string
	}{
		{"Core Set", catalog.TargetBundle, alias.StatusResolved, "SWZ01"},
		{"T-65 X-Wing Expansion Pack", catalog.TargetBundle, alias.StatusResolved, "SWZ06"},
		{"Luke Skywalker", catalog.TargetPilot, alias.StatusResolved, "pilot:lukeskywalker"},
		{"garvendreis-xwing", catalog.TargetPilot, alias.StatusResolved, "pilot:garvendreis-t65xwing"},
		{"Black Squadron Ace", catalog.TargetPilot, alias.StatusAmbiguous, ""},
		{"E-Wing", catalog.TargetShip, alias.StatusRetired, ""},
		{"E-wing", catalog.TargetShip, alias.StatusResolved, "ship:ewing"},
		{"tiefighter", catalog.TargetShip, alias.StatusRetired, ""},
		{"rey", catalog.TargetUpgrade, alias.StatusResolved, "upgrade:rey-gunner"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			res := data.Resolver.Resolve(tt.raw, tt.target)
			assert.Equal(t, tt.status, res.Status)
			if tt.id != "" {
				assert.Equal(t, tt.id, res.ID())
			}
		})
	}
}

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/hangar/pkg/errors"
)

func TestLoad(t *testing.T) {
	store, manifest := TestCatalog(t)

	assert.Equal(t, 11, store.Len())
	assert.Equal(t, 3, manifest.Len())

	luke, err := store.ItemByID(NewItemID(KindPilot, "lukeskywalker"))
	require.NoError(t, err)
	assert.Equal(t, "Luke Skywalker", luke.Name)
	assert.Equal(t, 5, luke.Initiative)

	core, err := manifest.BundleByID("SWZ01")
	require.NoError(t, err)
	assert.Equal(t, 10, core.ItemCount())
}

func TestLoadNotFound(t *testing.T) {
	store, manifest := TestCatalog(t)

	_, err := store.ItemByID(NewItemID(KindShip, "millenniumfalcon"))
	assert.True(t, errors.IsNotFound(err))

	_, err = manifest.BundleByID("SWZ999")
	assert.True(t, errors.IsNotFound(err))
	assert.Contains(t, err.Error(), "SWZ999")
}

func TestLoadOrdering(t *testing.T) {
	store, manifest := TestCatalog(t)

	items := store.Items()
	require.NotEmpty(t, items)
	for i := 1; i < len(items); i++ {
		assert.LessOrEqual(t, compareItems(items[i-1], items[i]), 0, "items out of order at %d", i)
	}
	assert.Equal(t, KindShip, items[0].ID.Kind)
	assert.Equal(t, KindUpgrade, items[len(items)-1].ID.Kind)

	var skus []string
	for _, b := range manifest.Bundles() {
		skus = append(skus, b.SKU)
	}
	assert.Equal(t, []string{"SWZ01", "SWZ06", "SWZ25"}, skus)

	assert.Len(t, store.ItemsOfKind(KindPilot), 5)
}

func TestByName(t *testing.T) {
	store, manifest := TestCatalog(t)

	assert.Equal(t, []ItemID{
		NewItemID(KindPilot, "blacksquadronace"),
		NewItemID(KindPilot, "blacksquadronace-t70xwing"),
	}, store.ByName(KindPilot, "Black Squadron Ace"))
	assert.Empty(t, store.ByName(KindUpgrade, "Black Squadron Ace"))
	assert.Equal(t, []string{"SWZ06"}, manifest.ByName("T-65 X-Wing Expansion Pack"))

	// Callers cannot mutate the index through the returned slice.
	ids := store.ByName(KindPilot, "Black Squadron Ace")
	ids[0] = ItemID{}
	assert.Equal(t, "blacksquadronace", store.ByName(KindPilot, "Black Squadron Ace")[0].XWS)
}

func TestSources(t *testing.T) {
	_, manifest := TestCatalog(t)

	assert.Equal(t, []Source{
		{SKU: "SWZ01", Name: "Star Wars: X-Wing Second Edition Core Set", Wave: 0, Count: 1},
		{SKU: "SWZ06", Name: "T-65 X-Wing Expansion Pack", Wave: 1, Count: 1},
	}, manifest.Sources(NewItemID(KindUpgrade, "r2d2")))
	assert.Empty(t, manifest.Sources(NewItemID(KindUpgrade, "chewbacca")))
}

func TestLoadMergesRepeatedContentRows(t *testing.T) {
	items := TestItems(t)
	bundles := []Bundle{{
		SKU:  "SWZ100",
		Name: "Repeated Rows",
		Contents: []Content{
			{Item: NewItemID(KindUpgrade, "r2d2"), Count: 1},
			{Item: NewItemID(KindUpgrade, "r2d2"), Count: 2},
		},
	}}
	_, manifest, err := Load(items, bundles)
	require.NoError(t, err)
	assert.Equal(t, 3, manifest.Sources(NewItemID(KindUpgrade, "r2d2"))[0].Count)
}

func TestLoadEmptyBundle(t *testing.T) {
	_, manifest, err := Load(TestItems(t), []Bundle{{SKU: "SWZ0", Name: "Unreleased"}})
	require.NoError(t, err)
	b, err := manifest.BundleByID("SWZ0")
	require.NoError(t, err)
	assert.Zero(t, b.ItemCount())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		items   func([]Item) []Item
		bundles func([]Bundle) []Bundle
		want    string
	}{
		{
			name:  "duplicate item",
			items: func(in []Item) []Item { return append(in, in[0]) },
			want:  "duplicate item id ship:t65xwing",
		},
		{
			name: "invalid kind",
			items: func(in []Item) []Item {
				return append(in, Item{ID: ItemID{Kind: "card", XWS: "x"}, Name: "X"})
			},
			want: `invalid kind "card"`,
		},
		{
			name:  "empty xws",
			items: func(in []Item) []Item { return append(in, Item{ID: ItemID{Kind: KindShip}, Name: "Nameless"}) },
			want:  "empty xws id",
		},
		{
			name:    "duplicate sku",
			bundles: func(in []Bundle) []Bundle { return append(in, Bundle{SKU: "SWZ01", Name: "Again"}) },
			want:    "duplicate bundle sku SWZ01",
		},
		{
			name: "dangling reference",
			bundles: func(in []Bundle) []Bundle {
				return append(in, Bundle{SKU: "SWZ02", Name: "Falcon", Contents: []Content{
					{Item: NewItemID(KindShip, "modifiedyt1300lightfreighter"), Count: 1},
				}})
			},
			want: "bundle SWZ02: unknown item ship:modifiedyt1300lightfreighter",
		},
		{
			name: "zero count",
			bundles: func(in []Bundle) []Bundle {
				in[0].Contents = append(in[0].Contents, Content{Item: NewItemID(KindUpgrade, "chewbacca"), Count: 0})
				return in
			},
			want: "has count 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, bundles := TestItems(t), TestBundles(t)
			if tt.items != nil {
				items = tt.items(items)
			}
			if tt.bundles != nil {
				bundles = tt.bundles(bundles)
			}
			store, manifest, err := Load(items, bundles)
			require.Error(t, err)
			assert.Nil(t, store)
			assert.Nil(t, manifest)
			assert.True(t, errors.IsLoadError(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadReportsAllProblems(t *testing.T) {
	items := append(TestItems(t), TestItems(t)[0], TestItems(t)[1])
	_, _, err := Load(items, nil)

	var loadErr *errors.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Len(t, loadErr.Problems, 2)
}

func TestParseKindAndTarget(t *testing.T) {
	k, err := ParseKind(" Pilot ")
	require.NoError(t, err)
	assert.Equal(t, KindPilot, k)

	_, err = ParseKind("crew")
	assert.True(t, errors.IsValidationError(err))

	target, err := ParseTarget("BUNDLE")
	require.NoError(t, err)
	assert.Equal(t, TargetBundle, target)
	_, ok := target.Kind()
	assert.False(t, ok)

	k, ok = TargetUpgrade.Kind()
	assert.True(t, ok)
	assert.Equal(t, KindUpgrade, k)
	assert.Equal(t, TargetShip, KindShip.Target())
	assert.Less(t, TargetBundle.Order(), TargetShip.Order())
}

func TestItemIDText(t *testing.T) {
	id, err := ParseItemID("upgrade:r2d2")
	require.NoError(t, err)
	assert.Equal(t, NewItemID(KindUpgrade, "r2d2"), id)
	assert.Equal(t, "upgrade:r2d2", id.String())

	var parsed ItemID
	require.NoError(t, parsed.UnmarshalText([]byte("ship:t70xwing")))
	assert.Equal(t, NewItemID(KindShip, "t70xwing"), parsed)

	for _, bad := range []string{"r2d2", "upgrade:", "crew:r2d2"} {
		_, err := ParseItemID(bad)
		assert.Error(t, err, bad)
	}
}

func TestRestrictionTags(t *testing.T) {
	r := Restrictions{
		Factions:  []string{"rebelalliance", "rebelalliance"},
		Sizes:     []string{"Small"},
		ForceSide: []string{"light"},
	}
	assert.Equal(t, []string{"faction:rebelalliance", "force:light", "size:Small"}, r.Tags())
	assert.True(t, Restrictions{}.IsZero())
	assert.False(t, r.IsZero())
}

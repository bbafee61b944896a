package inventory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/hangar/pkg/alias"
	"github.com/agentstation/hangar/pkg/catalog"
	"github.com/agentstation/hangar/pkg/collection"
	"github.com/agentstation/hangar/pkg/constants"
	"github.com/agentstation/hangar/pkg/diagnostics"
	"github.com/agentstation/hangar/pkg/logging"
)

func testAggregator(t *testing.T) *Aggregator {
	t.Helper()
	store, manifest := catalog.TestCatalog(t)
	table := alias.TestTable(t)
	return NewAggregator(store, manifest, alias.NewResolver(store, manifest, table), WithLogger(logging.NewNopLogger()))
}

func input(bundles map[string]int, loose map[catalog.Kind]map[string]int) *collection.Input {
	in := collection.NewInput()
	for name, n := range bundles {
		in.AddBundle(name, n)
	}
	for kind, names := range loose {
		for name, n := range names {
			in.AddLoose(kind, name, n)
		}
	}
	return in
}

func TestAggregateBundleExpansion(t *testing.T) {
	torpedoes := catalog.NewItemID(catalog.KindUpgrade, "protontorpedoes")
	store, manifest, err := catalog.Load(catalog.TestItems(t), []catalog.Bundle{{
		SKU:      "SWZ90",
		Name:     "Torpedo Pack",
		Wave:     4,
		Contents: []catalog.Content{{Item: torpedoes, Count: 2}},
	}})
	require.NoError(t, err)

	result := Aggregate(input(map[string]int{"Torpedo Pack": 3}, nil), store, manifest, alias.NewResolver(store, manifest, nil))

	assert.Empty(t, result.Diagnostics)
	require.Len(t, result.Lines, 1)
	assert.Equal(t, Line{
		ID:    torpedoes,
		Name:  "Proton Torpedoes",
		Total: 6,
		Sources: []Source{
			{Origin: "SWZ90", Bundle: "Torpedo Pack", Wave: 4, Owned: 3, PerUnit: 2, Quantity: 6},
		},
	}, result.Lines[0])
	assert.Equal(t, []OwnedBundle{{SKU: "SWZ90", Name: "Torpedo Pack", Wave: 4, Owned: 3, Items: 6}}, result.Bundles)
}

func TestAggregateUnknownBundle(t *testing.T) {
	result := testAggregator(t).Aggregate(input(map[string]int{"Millennium Falcon": 1}, nil))

	assert.Empty(t, result.Lines)
	assert.Empty(t, result.Bundles)
	require.Len(t, result.Diagnostics, 1)
	d := result.Diagnostics[0]
	assert.Equal(t, diagnostics.ReasonUnknownName, d.Reason)
	assert.Equal(t, diagnostics.SeverityWarning, d.Severity)
	assert.Equal(t, catalog.TargetBundle, d.Subject)
	assert.Equal(t, "Millennium Falcon", d.Raw)
	assert.Equal(t, 1, d.Count)
}

func TestAggregateLooseItem(t *testing.T) {
	result := testAggregator(t).Aggregate(input(nil, map[catalog.Kind]map[string]int{
		catalog.KindPilot: {"Wedge Antilles": 5},
	}))

	assert.Empty(t, result.Diagnostics)
	require.Len(t, result.Lines, 1)
	assert.Equal(t, 5, result.Lines[0].Total)
	assert.Equal(t, []Source{{Origin: OriginLoose, Owned: 5, PerUnit: 1, Quantity: 5}}, result.Lines[0].Sources)
}

func TestAggregateAmbiguousNeverPicksAWinner(t *testing.T) {
	result := testAggregator(t).Aggregate(input(nil, map[catalog.Kind]map[string]int{
		catalog.KindPilot: {"Black Squadron Ace": 2, "Black Squadron Pilot": 1},
	}))

	assert.Empty(t, result.Lines)
	require.Len(t, result.Diagnostics, 2)
	for _, d := range result.Diagnostics {
		assert.Equal(t, diagnostics.ReasonAmbiguous, d.Reason)
		assert.Equal(t, []string{"pilot:blacksquadronace", "pilot:blacksquadronace-t70xwing"}, d.Candidates)
	}
	assert.Equal(t, 3, result.Summary().UnresolvedCount)
}

func TestAggregateRetired(t *testing.T) {
	result := testAggregator(t).Aggregate(input(nil, map[catalog.Kind]map[string]int{
		catalog.KindShip: {"X-Wing": 1},
	}))

	assert.Empty(t, result.Lines)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, diagnostics.ReasonRetired, result.Diagnostics[0].Reason)
	assert.Equal(t, "1.0 ship record; not counted", result.Diagnostics[0].Message)
}

func TestAggregateConservation(t *testing.T) {
	agg := testAggregator(t)
	_, manifest := catalog.TestCatalog(t)

	for _, b := range manifest.Bundles() {
		for _, c := range []int{1, 2, 7} {
			t.Run(fmt.Sprintf("%s x%d", b.SKU, c), func(t *testing.T) {
				result := agg.Aggregate(input(map[string]int{b.Name: c}, nil))
				assert.Empty(t, result.Diagnostics)
				assert.Equal(t, c*b.ItemCount(), result.Summary().Items)
			})
		}
	}
}

func TestAggregateCombinesSources(t *testing.T) {
	result := testAggregator(t).Aggregate(input(
		map[string]int{"Core Set": 2, "T-65 X-Wing Expansion Pack": 1},
		map[catalog.Kind]map[string]int{catalog.KindUpgrade: {"R2-D2": 1}},
	))
	assert.Empty(t, result.Diagnostics)

	line, ok := result.Line(catalog.NewItemID(catalog.KindUpgrade, "r2d2"))
	require.True(t, ok)
	assert.Equal(t, 4, line.Total)
	assert.Equal(t, []string{"SWZ01", "SWZ06", OriginLoose}, origins(line))
	assert.Equal(t,
		"Star Wars: X-Wing Second Edition Core Set:SWZ01:wave0:2, T-65 X-Wing Expansion Pack:SWZ06:wave1:1, loose:1",
		line.SourcesString())

	tie, ok := result.Line(catalog.NewItemID(catalog.KindShip, "tielnfighter"))
	require.True(t, ok)
	assert.Equal(t, 4, tie.Total)

	_, ok = result.Line(catalog.NewItemID(catalog.KindUpgrade, "chewbacca"))
	assert.False(t, ok)
}

func TestAggregateLineOrder(t *testing.T) {
	result := testAggregator(t).Aggregate(input(map[string]int{"Core Set": 1, "T-70 X-Wing Expansion Pack": 1}, nil))

	var got []string
	for _, l := range result.Lines {
		got = append(got, l.ID.String())
	}
	assert.Equal(t, []string{
		"ship:t65xwing",
		"ship:t70xwing",
		"ship:tielnfighter",
		"pilot:academypilot",
		"pilot:blacksquadronace",
		"pilot:blacksquadronace-t70xwing",
		"pilot:lukeskywalker",
		"upgrade:protontorpedoes",
		"upgrade:r2d2",
	}, got)
	assert.Len(t, result.LinesOfKind(catalog.KindPilot), 4)
}

func TestAggregateDuplicateEntries(t *testing.T) {
	result := testAggregator(t).Aggregate(input(
		map[string]int{"Core Set": 1, "Star Wars: X-Wing Second Edition Core Set": 2},
		map[catalog.Kind]map[string]int{catalog.KindPilot: {"Luke Skywalker": 1, "lukeskywalker": 2}},
	))

	require.Len(t, result.Diagnostics, 2)
	bundleDiag, pilotDiag := result.Diagnostics[0], result.Diagnostics[1]
	assert.Equal(t, diagnostics.ReasonDuplicateEntry, bundleDiag.Reason)
	assert.Equal(t, diagnostics.SeverityInfo, bundleDiag.Severity)
	assert.Equal(t, "Star Wars: X-Wing Second Edition Core Set", bundleDiag.Raw)
	assert.Contains(t, bundleDiag.Message, `"Core Set"`)
	assert.Equal(t, "lukeskywalker", pilotDiag.Raw)

	luke, ok := result.Line(catalog.NewItemID(catalog.KindPilot, "lukeskywalker"))
	require.True(t, ok)
	// 3 core sets with one Luke each, plus 3 loose.
	assert.Equal(t, 6, luke.Total)
	assert.Equal(t, []Source{
		{Origin: "SWZ01", Bundle: "Star Wars: X-Wing Second Edition Core Set", Owned: 3, PerUnit: 1, Quantity: 3},
		{Origin: OriginLoose, Owned: 3, PerUnit: 1, Quantity: 3},
	}, luke.Sources)

	require.Len(t, result.Bundles, 1)
	assert.Equal(t, 3, result.Bundles[0].Owned)
	assert.Equal(t, 30, result.Bundles[0].Items)
}

func TestAggregateHistoricalQuirkIsCounted(t *testing.T) {
	result := testAggregator(t).Aggregate(input(map[string]int{"X-Wing Expansion Pack": 1}, nil))

	require.Len(t, result.Diagnostics, 1)
	d := result.Diagnostics[0]
	assert.Equal(t, diagnostics.ReasonHistoricalQuirk, d.Reason)
	assert.Equal(t, diagnostics.SeverityInfo, d.Severity)
	assert.Equal(t, "first printing lists an extra card", d.Message)
	assert.Equal(t, 5, result.Summary().Items)
	assert.False(t, result.HasWarnings())
}

func TestAggregateZeroCounts(t *testing.T) {
	result := testAggregator(t).Aggregate(input(
		map[string]int{"Millennium Falcon": 0, "Core Set": 0},
		map[catalog.Kind]map[string]int{catalog.KindUpgrade: {"R2-D2": 0}},
	))

	assert.Empty(t, result.Lines)
	assert.Empty(t, result.Diagnostics)
	assert.Equal(t, 3, result.Entries)
}

func TestAggregateIsIdempotent(t *testing.T) {
	agg := testAggregator(t)
	in := input(
		map[string]int{"Core Set": 1, "Wave 9 Mystery Box": 2, "X-Wing Expansion Pack": 1},
		map[catalog.Kind]map[string]int{
			catalog.KindPilot:   {"Black Squadron Ace": 1, "Wedge Antilles": 2},
			catalog.KindUpgrade: {"rey": 1, "R2-D2": 1},
		},
	)

	first := agg.Aggregate(in)
	second := agg.Aggregate(in)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Aggregate() not idempotent (-first +second):\n%s", diff)
	}
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	in := input(map[string]int{"Core Set": 1}, map[catalog.Kind]map[string]int{catalog.KindPilot: {"Wedge Antilles": 2}})
	before := in.Entries()
	testAggregator(t).Aggregate(in)
	assert.Equal(t, before, in.Entries())
}

func TestAggregateConcurrent(t *testing.T) {
	agg := testAggregator(t)
	// Names that miss the display-name index go through normalization.
	in := input(
		map[string]int{"Core Set": 2, "Unknown Box": 1, "Bóx Ünknown (Wave 9)": 1},
		map[catalog.Kind]map[string]int{
			catalog.KindPilot:   {"wedgeantilles": 1, "Sabé": 1, "Pilote Inconnú (T-70)": 2},
			catalog.KindUpgrade: {"Prötön Törpedoes": 1},
		},
	)
	want := agg.Aggregate(in)

	var wg sync.WaitGroup
	results := make([][]*Result, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				results[i] = append(results[i], agg.Aggregate(in))
			}
		}()
	}
	wg.Wait()

	for _, runs := range results {
		for _, got := range runs {
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("concurrent Aggregate() differs (-want +got):\n%s", diff)
			}
		}
	}
}

func TestAggregateOversizedCount(t *testing.T) {
	agg := testAggregator(t)
	in := collection.NewInput()
	in.AddBundle("Core Set", 1<<62)
	in.AddLoose(catalog.KindPilot, "Wedge Antilles", constants.MaxCount+1)
	in.AddLoose(catalog.KindUpgrade, "Proton Torpedoes", 2)

	result := agg.Aggregate(in)
	assert.Empty(t, result.Bundles)
	require.Len(t, result.Lines, 1)
	assert.Equal(t, 2, result.Lines[0].Total)

	require.Len(t, result.Diagnostics, 2)
	for _, d := range result.Diagnostics {
		assert.Equal(t, diagnostics.ReasonCountTooLarge, d.Reason)
		assert.Equal(t, diagnostics.SeverityWarning, d.Severity)
	}
	assert.Equal(t, 2, result.Summary().Unresolved)
}

func TestAggregateNeverFails(t *testing.T) {
	agg := testAggregator(t)
	in := collection.NewInput()
	for i := range 50 {
		in.AddBundle(fmt.Sprintf("bundle-%d", i), i%3)
		in.AddLoose(catalog.Kinds()[i%3], fmt.Sprintf("item %d", i), i%4)
	}

	result := agg.Aggregate(in)
	require.NotNil(t, result)
	assert.Empty(t, result.Lines)
	for _, d := range result.Diagnostics {
		assert.Equal(t, diagnostics.ReasonUnknownName, d.Reason)
		assert.Positive(t, d.Count)
	}
}

func TestAggregateLogsWithLogger(t *testing.T) {
	store, manifest := catalog.TestCatalog(t)
	tl := logging.NewTestLogger(t)
	agg := NewAggregator(store, manifest, alias.NewResolver(store, manifest, nil), WithLogger(tl.Logger))

	agg.Aggregate(input(map[string]int{"Core Set": 1}, nil))

	tl.AssertContains(t, "Resolved collection entry")
	tl.AssertContains(t, `"status":"unknown"`)
	tl.AssertContains(t, "Aggregated collection")
}

func TestSummary(t *testing.T) {
	result := testAggregator(t).Aggregate(input(
		map[string]int{"Core Set": 1, "Nope": 4},
		map[catalog.Kind]map[string]int{catalog.KindPilot: {"Black Squadron Ace": 2}},
	))

	assert.Equal(t, Summary{
		Entries:         3,
		Unresolved:      2,
		UnresolvedCount: 6,
		Lines:           7,
		Items:           10,
		Warnings:        2,
		Infos:           0,
	}, result.Summary())
	assert.True(t, result.HasWarnings())
}

func origins(l Line) []string {
	out := make([]string, len(l.Sources))
	for i, s := range l.Sources {
		out[i] = s.Origin
	}
	return out
}

package catalog

import "testing"

// TestItems returns a small, consistent set of items covering every kind,
// including two pilots that share a display name.
func TestItems(t testing.TB) []Item {
	t.Helper()
	rebels := Restrictions{Factions: []string{"rebelalliance"}}
	return []Item{
		{ID: NewItemID(KindShip, "t65xwing"), Name: "T-65 X-wing", Faction: "rebelalliance"},
		{ID: NewItemID(KindShip, "t70xwing"), Name: "T-70 X-wing", Faction: "resistance"},
		{ID: NewItemID(KindShip, "tielnfighter"), Name: "TIE/ln Fighter", Faction: "galacticempire"},
		{ID: NewItemID(KindPilot, "lukeskywalker"), Name: "Luke Skywalker", Faction: "rebelalliance", Ship: "t65xwing", Initiative: 5},
		{ID: NewItemID(KindPilot, "wedgeantilles"), Name: "Wedge Antilles", Faction: "rebelalliance", Ship: "t65xwing", Initiative: 4},
		{ID: NewItemID(KindPilot, "blacksquadronace"), Name: "Black Squadron Ace", Faction: "galacticempire", Ship: "tielnfighter", Initiative: 3},
		{ID: NewItemID(KindPilot, "blacksquadronace-t70xwing"), Name: "Black Squadron Ace", Faction: "resistance", Ship: "t70xwing", Initiative: 3},
		{ID: NewItemID(KindPilot, "academypilot"), Name: "Academy Pilot", Faction: "galacticempire", Ship: "tielnfighter", Initiative: 1},
		{ID: NewItemID(KindUpgrade, "r2d2"), Name: "R2-D2", Slot: "Astromech", Restrictions: rebels},
		{ID: NewItemID(KindUpgrade, "protontorpedoes"), Name: "Proton Torpedoes", Slot: "Torpedo"},
		{ID: NewItemID(KindUpgrade, "chewbacca"), Name: "Chewbacca", Slot: "Crew", Restrictions: rebels},
	}
}

// TestBundles returns bundles whose contents all reference TestItems.
// SWZ01 holds 10 items, SWZ06 holds 5 and SWZ25 holds 2.
func TestBundles(t testing.TB) []Bundle {
	t.Helper()
	return []Bundle{
		{
			SKU:  "SWZ01",
			Name: "Star Wars: X-Wing Second Edition Core Set",
			Contents: []Content{
				{Item: NewItemID(KindShip, "t65xwing"), Count: 1},
				{Item: NewItemID(KindShip, "tielnfighter"), Count: 2},
				{Item: NewItemID(KindPilot, "lukeskywalker"), Count: 1},
				{Item: NewItemID(KindPilot, "blacksquadronace"), Count: 2},
				{Item: NewItemID(KindPilot, "academypilot"), Count: 2},
				{Item: NewItemID(KindUpgrade, "r2d2"), Count: 1},
				{Item: NewItemID(KindUpgrade, "protontorpedoes"), Count: 1},
			},
		},
		{
			SKU:  "SWZ06",
			Name: "T-65 X-Wing Expansion Pack",
			Wave: 1,
			Contents: []Content{
				{Item: NewItemID(KindShip, "t65xwing"), Count: 1},
				{Item: NewItemID(KindPilot, "lukeskywalker"), Count: 1},
				{Item: NewItemID(KindPilot, "wedgeantilles"), Count: 1},
				{Item: NewItemID(KindUpgrade, "r2d2"), Count: 1},
				{Item: NewItemID(KindUpgrade, "protontorpedoes"), Count: 1},
			},
		},
		{
			SKU:  "SWZ25",
			Name: "T-70 X-Wing Expansion Pack",
			Wave: 2,
			Contents: []Content{
				{Item: NewItemID(KindShip, "t70xwing"), Count: 1},
				{Item: NewItemID(KindPilot, "blacksquadronace-t70xwing"), Count: 1},
			},
		},
	}
}

// TestCatalog loads TestItems and TestBundles, failing the test on error.
func TestCatalog(t testing.TB) (*Store, *Manifest) {
	t.Helper()
	store, manifest, err := Load(TestItems(t), TestBundles(t))
	if err != nil {
		t.Fatalf("failed to load test catalog: %v", err)
	}
	return store, manifest
}

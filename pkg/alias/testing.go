package alias

import (
	"testing"

	"github.com/agentstation/hangar/pkg/catalog"
)

// TestEntries returns alias entries consistent with catalog.TestItems and
// catalog.TestBundles.
func TestEntries(t testing.TB) []Entry {
	t.Helper()
	return []Entry{
		{Raw: "Core Set", Target: catalog.TargetBundle, ID: "SWZ01"},
		{Raw: "X-Wing Expansion Pack", Target: catalog.TargetBundle, ID: "SWZ06", Annotation: AnnotationQuirk, Note: "first printing lists an extra card"},
		{Raw: "lukeskywalker-xwing", Target: catalog.TargetPilot, ID: "lukeskywalker", Annotation: AnnotationSuperseded},
		{Raw: "Black Squadron Pilot", Target: catalog.TargetPilot, ID: "blacksquadronace", Annotation: AnnotationAmbiguous},
		{Raw: "Black Squadron Pilot", Target: catalog.TargetPilot, ID: "blacksquadronace-t70xwing", Annotation: AnnotationAmbiguous},
		{Raw: "T-70 X-Wing", Target: catalog.TargetShip, Annotation: AnnotationRetired, Note: "legacy capitalization"},
		{Raw: "xwing", Target: catalog.TargetShip, Annotation: AnnotationRetired, Note: "1.0 ship record"},
		{Raw: "rey", Target: catalog.TargetUpgrade, ID: "chewbacca"},
	}
}

// TestTable builds a Table from TestEntries, failing the test on error.
func TestTable(t testing.TB) *Table {
	t.Helper()
	table, err := NewTable(TestEntries(t))
	if err != nil {
		t.Fatalf("failed to build test alias table: %v", err)
	}
	return table
}

// TestResolver builds a Resolver over the test catalog and TestTable.
func TestResolver(t testing.TB) *Resolver {
	t.Helper()
	store, manifest := catalog.TestCatalog(t)
	return NewResolver(store, manifest, TestTable(t))
}

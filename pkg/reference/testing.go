package reference

import (
	"testing"

	"github.com/agentstation/hangar/pkg/alias"
	"github.com/agentstation/hangar/pkg/catalog"
)

// TestVersion is the version of TestData.
const TestVersion = "test-1"

// TestData assembles reference data from catalog.TestCatalog and
// alias.TestTable.
func TestData(t testing.TB) *Data {
	t.Helper()
	store, manifest := catalog.TestCatalog(t)
	table := alias.TestTable(t)
	return &Data{
		Version:  Version{Version: TestVersion},
		Store:    store,
		Manifest: manifest,
		Aliases:  table,
		Resolver: alias.NewResolver(store, manifest, table),
	}
}

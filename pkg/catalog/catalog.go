// Package catalog holds the versioned reference data that collections are
// resolved against: the Store of canonical ships, pilots and upgrades, and
// the Manifest of bundles and what each one contains.
//
// Both are built once by Load and never change afterwards, so a single
// Store and Manifest can back any number of concurrent aggregations.
//
// Example usage:
//
//	store, manifest, err := catalog.Load(items, bundles)
//	if err != nil {
//	    log.Fatal(err) // *errors.LoadError listing every inconsistency
//	}
//
//	core, _ := manifest.BundleByID("SWZ01")
//	for _, c := range core.Contents {
//	    item, _ := store.ItemByID(c.Item)
//	    fmt.Printf("%dx %s\n", c.Count, item.Name)
//	}
package catalog

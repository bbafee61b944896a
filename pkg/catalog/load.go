package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agentstation/hangar/pkg/errors"
)

// Load builds the item store and the bundle manifest. It reports every
// inconsistency it finds in a single *errors.LoadError: duplicate ids,
// invalid kinds, empty ids or names, contents with a count below one and
// contents that reference items missing from the store.
func Load(items []Item, bundles []Bundle) (*Store, *Manifest, error) {
	var problems []string
	problem := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	store := &Store{
		items:  make(map[ItemID]*Item, len(items)),
		byName: make(map[Kind]map[string][]ItemID),
	}
	for i := range items {
		item := items[i]
		item.Name = strings.TrimSpace(item.Name)
		switch {
		case !item.ID.Kind.IsValid():
			problem("item %d (%q): invalid kind %q", i, item.ID.XWS, item.ID.Kind)
			continue
		case item.ID.XWS == "":
			problem("item %d (%q): empty xws id", i, item.Name)
			continue
		case item.Name == "":
			problem("item %s: empty name", item.ID)
			continue
		}
		if _, dup := store.items[item.ID]; dup {
			problem("duplicate item id %s", item.ID)
			continue
		}
		store.items[item.ID] = &item
		if store.byName[item.ID.Kind] == nil {
			store.byName[item.ID.Kind] = make(map[string][]ItemID)
		}
		store.byName[item.ID.Kind][item.Name] = append(store.byName[item.ID.Kind][item.Name], item.ID)
		store.sorted = append(store.sorted, &item)
	}
	slices.SortFunc(store.sorted, compareItems)
	for _, names := range store.byName {
		for _, ids := range names {
			slices.SortFunc(ids, ItemID.Compare)
		}
	}

	manifest := &Manifest{
		bundles: make(map[string]*Bundle, len(bundles)),
		byName:  make(map[string][]string),
		sources: make(map[ItemID][]Source),
	}
	for i := range bundles {
		b := bundles[i]
		b.SKU = strings.TrimSpace(b.SKU)
		b.Name = strings.TrimSpace(b.Name)
		if b.SKU == "" {
			problem("bundle %d (%q): empty sku", i, b.Name)
			continue
		}
		if b.Name == "" {
			problem("bundle %s: empty name", b.SKU)
			continue
		}
		if _, dup := manifest.bundles[b.SKU]; dup {
			problem("duplicate bundle sku %s", b.SKU)
			continue
		}

		b.Contents = slices.Clone(b.Contents)
		perItem := make(map[ItemID]int)
		var order []ItemID
		for _, c := range b.Contents {
			if c.Count < 1 {
				problem("bundle %s: %s has count %d (want >= 1)", b.SKU, c.Item, c.Count)
				continue
			}
			if !store.Has(c.Item) {
				problem("bundle %s: unknown item %s", b.SKU, c.Item)
				continue
			}
			if _, seen := perItem[c.Item]; !seen {
				order = append(order, c.Item)
			}
			perItem[c.Item] += c.Count
		}

		manifest.bundles[b.SKU] = &b
		manifest.byName[b.Name] = append(manifest.byName[b.Name], b.SKU)
		manifest.sorted = append(manifest.sorted, &b)
		for _, id := range order {
			manifest.sources[id] = append(manifest.sources[id], Source{
				SKU:   b.SKU,
				Name:  b.Name,
				Wave:  b.Wave,
				Count: perItem[id],
			})
		}
	}
	slices.SortFunc(manifest.sorted, func(a, b *Bundle) int { return strings.Compare(a.SKU, b.SKU) })
	for _, skus := range manifest.byName {
		slices.Sort(skus)
	}
	for _, srcs := range manifest.sources {
		slices.SortFunc(srcs, func(a, b Source) int { return strings.Compare(a.SKU, b.SKU) })
	}

	if len(problems) > 0 {
		return nil, nil, errors.NewLoadError("catalog", problems...)
	}
	return store, manifest, nil
}

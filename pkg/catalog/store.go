package catalog

import (
	"slices"
	"strings"

	"github.com/agentstation/hangar/pkg/errors"
)

// Store is the read-only catalog of canonical items. It is built once by
// Load and is safe for concurrent readers.
type Store struct {
	items  map[ItemID]*Item
	byName map[Kind]map[string][]ItemID
	sorted []*Item
}

// ItemByID returns the item with the given id.
func (s *Store) ItemByID(id ItemID) (*Item, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, &errors.NotFoundError{Resource: "item", ID: id.String()}
	}
	return item, nil
}

// Has reports whether the store contains id.
func (s *Store) Has(id ItemID) bool {
	_, ok := s.items[id]
	return ok
}

// Len returns the number of items.
func (s *Store) Len() int {
	return len(s.items)
}

// Items returns all items ordered by kind, display name and xws.
func (s *Store) Items() []*Item {
	return slices.Clone(s.sorted)
}

// ItemsOfKind returns the items of one kind in display order.
func (s *Store) ItemsOfKind(k Kind) []*Item {
	var out []*Item
	for _, item := range s.sorted {
		if item.ID.Kind == k {
			out = append(out, item)
		}
	}
	return out
}

// ByName returns the ids of every item of kind k whose display name is
// exactly name. More than one id means the name is ambiguous.
func (s *Store) ByName(k Kind, name string) []ItemID {
	return slices.Clone(s.byName[k][name])
}

// Manifest is the read-only catalog of bundles and their contents.
type Manifest struct {
	bundles map[string]*Bundle
	byName  map[string][]string
	sources map[ItemID][]Source
	sorted  []*Bundle
}

// BundleByID returns the bundle with the given SKU.
func (m *Manifest) BundleByID(sku string) (*Bundle, error) {
	b, ok := m.bundles[sku]
	if !ok {
		return nil, &errors.NotFoundError{Resource: "bundle", ID: sku}
	}
	return b, nil
}

// Has reports whether the manifest contains sku.
func (m *Manifest) Has(sku string) bool {
	_, ok := m.bundles[sku]
	return ok
}

// Len returns the number of bundles.
func (m *Manifest) Len() int {
	return len(m.bundles)
}

// Bundles returns all bundles ordered by SKU.
func (m *Manifest) Bundles() []*Bundle {
	return slices.Clone(m.sorted)
}

// ByName returns the SKUs of every bundle whose display name is exactly name.
func (m *Manifest) ByName(name string) []string {
	return slices.Clone(m.byName[name])
}

// Sources returns the bundles that contain id, ordered by SKU.
func (m *Manifest) Sources(id ItemID) []Source {
	return slices.Clone(m.sources[id])
}

func compareItems(a, b *Item) int {
	if c := a.ID.Kind.Order() - b.ID.Kind.Order(); c != 0 {
		return c
	}
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return strings.Compare(a.ID.XWS, b.ID.XWS)
}

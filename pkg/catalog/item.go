package catalog

import (
	"fmt"
	"slices"
	"strings"
)

// ItemID is the stable canonical identifier of an item. XWS ids are only
// unique within a kind, so the kind is part of the identity.
type ItemID struct {
	Kind Kind   `json:"kind" yaml:"kind"`
	XWS  string `json:"xws" yaml:"xws"`
}

// NewItemID returns the id of the item of kind k with xws id xws.
func NewItemID(k Kind, xws string) ItemID {
	return ItemID{Kind: k, XWS: xws}
}

// String renders the id as kind:xws.
func (id ItemID) String() string {
	return string(id.Kind) + ":" + id.XWS
}

// ParseItemID parses the kind:xws form.
func ParseItemID(s string) (ItemID, error) {
	kind, xws, ok := strings.Cut(s, ":")
	if !ok || xws == "" {
		return ItemID{}, fmt.Errorf("invalid item id %q (want kind:xws)", s)
	}
	k, err := ParseKind(kind)
	if err != nil {
		return ItemID{}, err
	}
	return ItemID{Kind: k, XWS: xws}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (id ItemID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ItemID) UnmarshalText(b []byte) error {
	parsed, err := ParseItemID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Compare orders ids by kind, then xws.
func (id ItemID) Compare(other ItemID) int {
	if c := id.Kind.Order() - other.Kind.Order(); c != 0 {
		return c
	}
	return strings.Compare(id.XWS, other.XWS)
}

// Item is a canonical ship, pilot or upgrade. Items are immutable once loaded.
type Item struct {
	ID           ItemID       `json:"id" yaml:"id"`                                         // Canonical identity
	Name         string       `json:"name" yaml:"name"`                                     // Display name, not unique across history
	Faction      string       `json:"faction,omitempty" yaml:"faction,omitempty"`           // Faction xws (ships and pilots)
	Ship         string       `json:"ship,omitempty" yaml:"ship,omitempty"`                 // Owning ship xws (pilots)
	Initiative   int          `json:"initiative,omitempty" yaml:"initiative,omitempty"`     // Pilot initiative
	Slot         string       `json:"slot,omitempty" yaml:"slot,omitempty"`                 // Upgrade slot type
	Restrictions Restrictions `json:"restrictions,omitempty" yaml:"restrictions,omitempty"` // Equip restrictions (upgrades)
}

// Restrictions limit what an upgrade can be equipped on.
type Restrictions struct {
	Factions  []string `json:"factions,omitempty" yaml:"factions,omitempty"`
	Sizes     []string `json:"sizes,omitempty" yaml:"sizes,omitempty"`
	Ships     []string `json:"ships,omitempty" yaml:"ships,omitempty"`
	Arcs      []string `json:"arcs,omitempty" yaml:"arcs,omitempty"`
	Keywords  []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	ForceSide []string `json:"force_side,omitempty" yaml:"force_side,omitempty"`
}

// IsZero reports whether no restriction is set.
func (r Restrictions) IsZero() bool {
	return len(r.Tags()) == 0
}

// Tags flattens the restrictions into sorted, de-duplicated "group:value" tags.
func (r Restrictions) Tags() []string {
	var tags []string
	add := func(group string, values []string) {
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				tags = append(tags, group+":"+v)
			}
		}
	}
	add("faction", r.Factions)
	add("size", r.Sizes)
	add("ship", r.Ships)
	add("arc", r.Arcs)
	add("keyword", r.Keywords)
	add("force", r.ForceSide)

	slices.Sort(tags)
	return slices.Compact(tags)
}

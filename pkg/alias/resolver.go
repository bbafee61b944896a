package alias

import (
	"strings"

	"github.com/agentstation/hangar/pkg/catalog"
)

// Status is the outcome of resolving one raw name.
type Status string

// Resolution outcomes.
const (
	StatusResolved  Status = "resolved"
	StatusUnknown   Status = "unknown"
	StatusAmbiguous Status = "ambiguous"
	StatusRetired   Status = "retired"
)

// Via records which rule resolved a name.
type Via string

// Resolution rules, in the order they are tried.
const (
	ViaDisplayName Via = "display-name"
	ViaAlias       Via = "alias"
	ViaCanonicalID Via = "canonical-id"
)

// Resolution is the result of Resolve. Exactly one of Item and Bundle is
// set when Status is StatusResolved.
type Resolution struct {
	Raw        string          `json:"raw" yaml:"raw"`
	Target     catalog.Target  `json:"target" yaml:"target"`
	Status     Status          `json:"status" yaml:"status"`
	Item       *catalog.ItemID `json:"item,omitempty" yaml:"item,omitempty"`
	Bundle     string          `json:"bundle,omitempty" yaml:"bundle,omitempty"`
	Via        Via             `json:"via,omitempty" yaml:"via,omitempty"`
	Annotation Annotation      `json:"annotation,omitempty" yaml:"annotation,omitempty"`
	Quirk      string          `json:"quirk,omitempty" yaml:"quirk,omitempty"`
	Note       string          `json:"note,omitempty" yaml:"note,omitempty"`
	Candidates []string        `json:"candidates,omitempty" yaml:"candidates,omitempty"`
}

// Resolved reports whether the name resolved to exactly one id.
func (r Resolution) Resolved() bool {
	return r.Status == StatusResolved
}

// ID returns the resolved SKU or kind:xws id, or "" when unresolved.
func (r Resolution) ID() string {
	switch {
	case r.Bundle != "":
		return r.Bundle
	case r.Item != nil:
		return r.Item.String()
	default:
		return ""
	}
}

// Resolver maps raw collection names to canonical ids. It only reads its
// stores, so one Resolver may be shared by concurrent aggregations.
type Resolver struct {
	store    *catalog.Store
	manifest *catalog.Manifest
	table    *Table
	skus     map[string]string
}

// NewResolver returns a resolver over the given reference data. table may
// be nil when no aliases are known.
func NewResolver(store *catalog.Store, manifest *catalog.Manifest, table *Table) *Resolver {
	skus := make(map[string]string, manifest.Len())
	for _, b := range manifest.Bundles() {
		skus[Normalize(b.SKU)] = b.SKU
	}
	return &Resolver{store: store, manifest: manifest, table: table, skus: skus}
}

// Resolve maps raw to a canonical id of the given target. The rules are
// tried in order:
//
//  1. exact display name; a unique hit wins
//  2. alias entry registered for exactly raw
//  3. canonical id derived from raw with Normalize, unless step 1 found
//     several display-name hits
//  4. alias entry registered for the normalized form of raw
//
// A name that still matches several display names is ambiguous. The
// resolver never picks one of several candidates.
func (r *Resolver) Resolve(raw string, target catalog.Target) Resolution {
	res := Resolution{Raw: raw, Target: target, Status: StatusUnknown}
	name := strings.TrimSpace(raw)
	if name == "" || !target.IsValid() {
		return res
	}

	hits := r.byDisplayName(name, target)
	if len(hits) == 1 {
		return r.resolved(res, hits[0], ViaDisplayName, AnnotationNone, "")
	}

	if out, ok := r.fromAliases(res, r.table.Lookup(name, target)); ok {
		return out
	}
	if len(hits) == 0 {
		if id, ok := r.byCanonicalID(name, target); ok {
			return r.resolved(res, id, ViaCanonicalID, AnnotationNone, "")
		}
	}
	if out, ok := r.fromAliases(res, r.table.LookupNormalized(name, target)); ok {
		return out
	}

	if len(hits) > 1 {
		res.Status = StatusAmbiguous
		res.Via = ViaDisplayName
		res.Candidates = r.candidates(target, hits)
	}
	return res
}

func (r *Resolver) byDisplayName(name string, target catalog.Target) []string {
	if target == catalog.TargetBundle {
		return r.manifest.ByName(name)
	}
	kind, _ := target.Kind()
	var ids []string
	for _, id := range r.store.ByName(kind, name) {
		ids = append(ids, id.XWS)
	}
	return ids
}

func (r *Resolver) byCanonicalID(name string, target catalog.Target) (string, bool) {
	n := Normalize(name)
	if n == "" {
		return "", false
	}
	if target == catalog.TargetBundle {
		sku, ok := r.skus[n]
		return sku, ok
	}
	kind, _ := target.Kind()
	return n, r.store.Has(catalog.NewItemID(kind, n))
}

func (r *Resolver) fromAliases(res Resolution, entries []Entry) (Resolution, bool) {
	if len(entries) == 0 {
		return res, false
	}
	res.Via = ViaAlias
	res.Note = entries[0].Note

	if entries[0].Annotation == AnnotationRetired {
		res.Status = StatusRetired
		res.Annotation = AnnotationRetired
		return res, true
	}

	ids := distinctIDs(entries)
	if len(ids) > 1 {
		res.Status = StatusAmbiguous
		res.Annotation = entries[0].Annotation
		res.Candidates = r.candidates(res.Target, ids)
		return res, true
	}

	quirk := ""
	if entries[0].Annotation == AnnotationQuirk {
		quirk = entries[0].Note
		if quirk == "" {
			quirk = "resolved through a historical alias"
		}
	}
	return r.resolved(res, ids[0], ViaAlias, entries[0].Annotation, quirk), true
}

func (r *Resolver) resolved(res Resolution, id string, via Via, annotation Annotation, quirk string) Resolution {
	res.Status = StatusResolved
	res.Via = via
	res.Annotation = annotation
	res.Candidates = nil
	if res.Target == catalog.TargetBundle {
		res.Bundle = id
		if b, err := r.manifest.BundleByID(id); err == nil && quirk == "" {
			quirk = b.Quirk
		}
	} else {
		kind, _ := res.Target.Kind()
		item := catalog.NewItemID(kind, id)
		res.Item = &item
	}
	res.Quirk = quirk
	return res
}

func (r *Resolver) candidates(target catalog.Target, ids []string) []string {
	out := make([]string, 0, len(ids))
	kind, isItem := target.Kind()
	for _, id := range ids {
		if isItem {
			id = catalog.NewItemID(kind, id).String()
		}
		out = append(out, id)
	}
	return out
}

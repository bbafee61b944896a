package alias

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agentstation/hangar/pkg/catalog"
	"github.com/agentstation/hangar/pkg/errors"
)

// Annotation qualifies an alias entry.
type Annotation string

// Annotations.
const (
	// AnnotationNone is a plain rename.
	AnnotationNone Annotation = ""
	// AnnotationSuperseded marks a name replaced by a newer printing.
	AnnotationSuperseded Annotation = "superseded"
	// AnnotationAmbiguous marks a name that historically meant several
	// items. It is the only way one name may map to more than one id.
	AnnotationAmbiguous Annotation = "ambiguous-pre-version"
	// AnnotationQuirk marks a resolvable name whose data needs a manual check.
	AnnotationQuirk Annotation = "historical-quirk"
	// AnnotationRetired marks a legacy name with no current equivalent.
	AnnotationRetired Annotation = "retired"
)

// IsValid reports whether a is a known annotation.
func (a Annotation) IsValid() bool {
	switch a {
	case AnnotationNone, AnnotationSuperseded, AnnotationAmbiguous, AnnotationQuirk, AnnotationRetired:
		return true
	}
	return false
}

// Entry maps a historical or alternative name to a canonical id. ID is a
// SKU for bundle targets and an xws id for item targets.
type Entry struct {
	Raw        string         `json:"raw" yaml:"raw"`
	Target     catalog.Target `json:"target" yaml:"target"`
	ID         string         `json:"id,omitempty" yaml:"id,omitempty"`
	Annotation Annotation     `json:"annotation,omitempty" yaml:"annotation,omitempty"`
	Note       string         `json:"note,omitempty" yaml:"note,omitempty"`
}

type key struct {
	target catalog.Target
	name   string
}

// Table is the immutable alias table. Entries are indexed twice: by the
// exact raw name and by its normalized form.
type Table struct {
	exact      map[key][]Entry
	normalized map[key][]Entry
	entries    []Entry
}

// NewTable validates entries and builds a table. Identical entries are
// merged. A name that maps to different ids for one target is an error
// unless every entry for it is annotated ambiguous-pre-version.
func NewTable(entries []Entry) (*Table, error) {
	var problems []string
	problem := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	t := &Table{
		exact:      make(map[key][]Entry),
		normalized: make(map[key][]Entry),
	}
	for i, e := range entries {
		e.Raw = strings.TrimSpace(e.Raw)
		e.ID = strings.TrimSpace(e.ID)
		switch {
		case e.Raw == "":
			problem("alias %d: empty raw name", i)
			continue
		case !e.Target.IsValid():
			problem("alias %q: invalid target %q", e.Raw, e.Target)
			continue
		case !e.Annotation.IsValid():
			problem("alias %q: invalid annotation %q", e.Raw, e.Annotation)
			continue
		case e.ID == "" && e.Annotation != AnnotationRetired:
			problem("alias %q (%s): missing id", e.Raw, e.Target)
			continue
		case e.ID != "" && e.Annotation == AnnotationRetired:
			problem("alias %q (%s): retired alias must not name an id", e.Raw, e.Target)
			continue
		}

		k := key{target: e.Target, name: e.Raw}
		if slices.ContainsFunc(t.exact[k], func(o Entry) bool { return o.ID == e.ID && o.Annotation == e.Annotation }) {
			continue
		}
		t.exact[k] = append(t.exact[k], e)
		nk := key{target: e.Target, name: indexKey(e.Raw)}
		if nk.name != "" {
			t.normalized[nk] = append(t.normalized[nk], e)
		}
		t.entries = append(t.entries, e)
	}

	for _, index := range []map[key][]Entry{t.exact, t.normalized} {
		for k, es := range index {
			if msg := conflict(es); msg != "" {
				problem("alias %q (%s): %s", k.name, k.target, msg)
			}
		}
	}
	if len(problems) > 0 {
		slices.Sort(problems)
		problems = slices.Compact(problems)
		return nil, errors.NewLoadError("aliases", problems...)
	}

	slices.SortFunc(t.entries, compareEntries)
	for _, index := range []map[key][]Entry{t.exact, t.normalized} {
		for _, es := range index {
			slices.SortFunc(es, compareEntries)
		}
	}
	return t, nil
}

// indexKey is the normalized index key of an alias name. Names already
// written as derived ids (lowercase letters, digits and hyphens) are used
// as is, so "corranhorn-xwing" matches the name "Corran Horn (X-Wing)".
func indexKey(raw string) string {
	if isDerivedID(raw) {
		return raw
	}
	return Normalize(raw)
}

func isDerivedID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}

// conflict describes why a group of entries sharing one name is invalid.
func conflict(es []Entry) string {
	ids := distinctIDs(es)
	retired := slices.ContainsFunc(es, func(e Entry) bool { return e.Annotation == AnnotationRetired })
	switch {
	case retired && len(ids) > 0:
		return fmt.Sprintf("retired but also maps to %s", strings.Join(ids, ", "))
	case len(ids) > 1 && !allAnnotated(es, AnnotationAmbiguous):
		return fmt.Sprintf("maps to %s without %s annotation", strings.Join(ids, ", "), AnnotationAmbiguous)
	case len(ids) == 1 && !allAnnotated(es, es[0].Annotation):
		return "listed with different annotations"
	}
	return ""
}

func distinctIDs(es []Entry) []string {
	var ids []string
	for _, e := range es {
		if e.ID != "" && !slices.Contains(ids, e.ID) {
			ids = append(ids, e.ID)
		}
	}
	slices.Sort(ids)
	return ids
}

func allAnnotated(es []Entry, a Annotation) bool {
	for _, e := range es {
		if e.Annotation != a {
			return false
		}
	}
	return true
}

func compareEntries(a, b Entry) int {
	if c := a.Target.Order() - b.Target.Order(); c != 0 {
		return c
	}
	if c := strings.Compare(a.Raw, b.Raw); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// Lookup returns the entries registered for exactly raw.
func (t *Table) Lookup(raw string, target catalog.Target) []Entry {
	if t == nil {
		return nil
	}
	return slices.Clone(t.exact[key{target: target, name: strings.TrimSpace(raw)}])
}

// LookupNormalized returns the entries whose normalized name equals the
// normalized form of raw.
func (t *Table) LookupNormalized(raw string, target catalog.Target) []Entry {
	if t == nil {
		return nil
	}
	n := Normalize(raw)
	if n == "" {
		return nil
	}
	return slices.Clone(t.normalized[key{target: target, name: n}])
}

// Entries returns every entry ordered by target, raw name and id.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	return slices.Clone(t.entries)
}

// Len returns the number of distinct entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Verify checks that every alias points at an existing bundle or item.
func (t *Table) Verify(store *catalog.Store, manifest *catalog.Manifest) error {
	var problems []string
	for _, e := range t.Entries() {
		if e.Annotation == AnnotationRetired {
			continue
		}
		if e.Target == catalog.TargetBundle {
			if !manifest.Has(e.ID) {
				problems = append(problems, fmt.Sprintf("alias %q: unknown bundle %s", e.Raw, e.ID))
			}
			continue
		}
		kind, _ := e.Target.Kind()
		if id := catalog.NewItemID(kind, e.ID); !store.Has(id) {
			problems = append(problems, fmt.Sprintf("alias %q: unknown item %s", e.Raw, id))
		}
	}
	if len(problems) > 0 {
		return errors.NewLoadError("aliases", problems...)
	}
	return nil
}

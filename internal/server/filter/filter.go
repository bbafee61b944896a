// Package filter provides query parameter parsing and filtering for API endpoints.
package filter

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/agentstation/hangar/pkg/catalog"
	"github.com/agentstation/hangar/pkg/errors"
)

// Pagination defaults.
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Page holds pagination parameters.
type Page struct {
	Limit  int
	Offset int
}

// ItemFilter contains all filter criteria for items.
type ItemFilter struct {
	Kind         catalog.Kind
	Faction      string
	Ship         string
	Slot         string
	Name         string
	NameContains string
	Restriction  string // any restriction tag, e.g. "faction:rebelalliance"

	// Initiative bounds select pilots only; zero means unbounded.
	MinInitiative int
	MaxInitiative int

	Page
}

// ParseItemFilter extracts item filter parameters from an HTTP request.
// An unknown kind or a malformed number is a validation error.
func ParseItemFilter(r *http.Request) (ItemFilter, error) {
	q := r.URL.Query()

	f := ItemFilter{
		Faction:      q.Get("faction"),
		Ship:         q.Get("ship"),
		Slot:         q.Get("slot"),
		Name:         q.Get("name"),
		NameContains: q.Get("name_contains"),
		Restriction:  q.Get("restriction"),
	}

	if k := q.Get("kind"); k != "" {
		kind, err := catalog.ParseKind(k)
		if err != nil {
			return f, err
		}
		f.Kind = kind
	}

	var err error
	if f.MinInitiative, err = parseInt(q.Get("min_initiative"), "min_initiative", 0); err != nil {
		return f, err
	}
	if f.MaxInitiative, err = parseInt(q.Get("max_initiative"), "max_initiative", 0); err != nil {
		return f, err
	}
	if f.Page, err = ParsePage(r); err != nil {
		return f, err
	}
	return f, nil
}

// Apply returns the items matching f, in input order, before pagination.
func (f ItemFilter) Apply(items []*catalog.Item) []*catalog.Item {
	var results []*catalog.Item
	for _, item := range items {
		if f.matches(item) {
			results = append(results, item)
		}
	}
	return results
}

func (f ItemFilter) matches(item *catalog.Item) bool {
	switch {
	case f.Kind != "" && item.ID.Kind != f.Kind:
		return false
	case f.Faction != "" && !strings.EqualFold(item.Faction, f.Faction):
		return false
	case f.Ship != "" && !strings.EqualFold(item.Ship, f.Ship):
		return false
	case f.Slot != "" && !strings.EqualFold(item.Slot, f.Slot):
		return false
	case f.Name != "" && !strings.EqualFold(item.Name, f.Name):
		return false
	case f.NameContains != "" && !containsFold(item.Name, f.NameContains) && !containsFold(item.ID.XWS, f.NameContains):
		return false
	case f.Restriction != "" && !slices.ContainsFunc(item.Restrictions.Tags(), func(tag string) bool { return strings.EqualFold(tag, f.Restriction) }):
		return false
	case f.MinInitiative > 0 && item.Initiative < f.MinInitiative:
		return false
	case f.MaxInitiative > 0 && (item.ID.Kind != catalog.KindPilot || item.Initiative > f.MaxInitiative):
		return false
	}
	return true
}

// BundleFilter contains filter criteria for bundles.
type BundleFilter struct {
	Wave         *int
	NameContains string
	Contains     *catalog.ItemID // only bundles holding this item

	Page
}

// ParseBundleFilter extracts bundle filter parameters from an HTTP request.
func ParseBundleFilter(r *http.Request) (BundleFilter, error) {
	q := r.URL.Query()
	f := BundleFilter{NameContains: q.Get("name_contains")}

	if w := q.Get("wave"); w != "" {
		wave, err := parseInt(w, "wave", 0)
		if err != nil {
			return f, err
		}
		f.Wave = &wave
	}
	if c := q.Get("contains"); c != "" {
		id, err := catalog.ParseItemID(c)
		if err != nil {
			return f, errors.WrapValidation("contains", err)
		}
		f.Contains = &id
	}

	var err error
	if f.Page, err = ParsePage(r); err != nil {
		return f, err
	}
	return f, nil
}

// Apply returns the bundles matching f, in input order, before pagination.
func (f BundleFilter) Apply(bundles []*catalog.Bundle) []*catalog.Bundle {
	var results []*catalog.Bundle
	for _, b := range bundles {
		if f.matches(b) {
			results = append(results, b)
		}
	}
	return results
}

func (f BundleFilter) matches(b *catalog.Bundle) bool {
	if f.Wave != nil && b.Wave != *f.Wave {
		return false
	}
	if f.NameContains != "" && !containsFold(b.Name, f.NameContains) && !containsFold(b.SKU, f.NameContains) {
		return false
	}
	if f.Contains != nil && !slices.ContainsFunc(b.Contents, func(c catalog.Content) bool { return c.Item == *f.Contains }) {
		return false
	}
	return true
}

// Paginate returns the page of s selected by p.
func Paginate[T any](s []T, p Page) []T {
	if p.Offset >= len(s) {
		return []T{}
	}
	end := min(p.Offset+p.Limit, len(s))
	return s[p.Offset:end]
}

// ParsePage reads limit and offset. Limits outside 1..MaxLimit are clamped.
func ParsePage(r *http.Request) (Page, error) {
	q := r.URL.Query()
	limit, err := parseInt(q.Get("limit"), "limit", DefaultLimit)
	if err != nil {
		return Page{}, err
	}
	offset, err := parseInt(q.Get("offset"), "offset", 0)
	if err != nil {
		return Page{}, err
	}
	if limit <= 0 || limit > MaxLimit {
		limit = min(max(limit, DefaultLimit), MaxLimit)
	}
	return Page{Limit: limit, Offset: offset}, nil
}

// parseInt parses a non-negative integer or returns def when s is empty.
func parseInt(s, field string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0, errors.NewValidationError(field, s, "must be a non-negative integer")
	}
	return i, nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

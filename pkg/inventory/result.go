package inventory

import (
	"fmt"
	"strings"

	"github.com/agentstation/hangar/pkg/catalog"
	"github.com/agentstation/hangar/pkg/diagnostics"
)

// OriginLoose is the Source origin of items owned outside any bundle.
const OriginLoose = "loose"

// Source is one contribution to a line's total.
type Source struct {
	Origin   string `json:"origin" yaml:"origin"`                     // Bundle SKU or "loose"
	Bundle   string `json:"bundle,omitempty" yaml:"bundle,omitempty"` // Bundle display name
	Wave     int    `json:"wave,omitempty" yaml:"wave,omitempty"`
	Owned    int    `json:"owned" yaml:"owned"`       // Copies of the bundle, or loose count
	PerUnit  int    `json:"per_unit" yaml:"per_unit"` // Copies of the item per bundle; 1 for loose
	Quantity int    `json:"quantity" yaml:"quantity"` // Owned * PerUnit
}

// IsLoose reports whether the source is loose ownership.
func (s Source) IsLoose() bool {
	return s.Origin == OriginLoose
}

// String renders the source as name:sku:waveN:count, or loose:count.
func (s Source) String() string {
	if s.IsLoose() {
		return fmt.Sprintf("%s:%d", OriginLoose, s.Quantity)
	}
	return fmt.Sprintf("%s:%s:wave%d:%d", s.Bundle, s.Origin, s.Wave, s.Quantity)
}

// Line is the inventory total of one canonical item.
type Line struct {
	ID      catalog.ItemID `json:"id" yaml:"id"`
	Name    string         `json:"name" yaml:"name"`
	Faction string         `json:"faction,omitempty" yaml:"faction,omitempty"`
	Total   int            `json:"total" yaml:"total"`
	Sources []Source       `json:"sources" yaml:"sources"`
}

// SourcesString joins the sources with ", ".
func (l Line) SourcesString() string {
	parts := make([]string, len(l.Sources))
	for i, s := range l.Sources {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}

// OwnedBundle is a resolved bundle entry, summed over duplicate entries.
type OwnedBundle struct {
	SKU   string `json:"sku" yaml:"sku"`
	Name  string `json:"name" yaml:"name"`
	Wave  int    `json:"wave" yaml:"wave"`
	Owned int    `json:"owned" yaml:"owned"`
	Items int    `json:"items" yaml:"items"` // Owned times the bundle's item count
}

// Result is the outcome of one aggregation.
type Result struct {
	Entries     int                      `json:"entries" yaml:"entries"` // Collection entries processed
	Bundles     []OwnedBundle            `json:"bundles" yaml:"bundles"`
	Lines       []Line                   `json:"lines" yaml:"lines"`
	Diagnostics []diagnostics.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
}

// LinesOfKind returns the lines for one kind.
func (r *Result) LinesOfKind(k catalog.Kind) []Line {
	var out []Line
	for _, l := range r.Lines {
		if l.ID.Kind == k {
			out = append(out, l)
		}
	}
	return out
}

// Line returns the line for id, if any.
func (r *Result) Line(id catalog.ItemID) (Line, bool) {
	for _, l := range r.Lines {
		if l.ID == id {
			return l, true
		}
	}
	return Line{}, false
}

// Summary condenses a result for logs and reports.
type Summary struct {
	Entries         int `json:"entries" yaml:"entries"`
	Unresolved      int `json:"unresolved" yaml:"unresolved"`             // Entries left out of the totals
	UnresolvedCount int `json:"unresolved_count" yaml:"unresolved_count"` // Owned quantity left out
	Lines           int `json:"lines" yaml:"lines"`
	Items           int `json:"items" yaml:"items"` // Sum of all totals
	Warnings        int `json:"warnings" yaml:"warnings"`
	Infos           int `json:"infos" yaml:"infos"`
}

// Summary computes the summary of r.
func (r *Result) Summary() Summary {
	s := Summary{Entries: r.Entries, Lines: len(r.Lines)}
	for _, l := range r.Lines {
		s.Items += l.Total
	}
	for _, d := range r.Diagnostics {
		if d.IsWarning() {
			s.Unresolved++
			s.UnresolvedCount += d.Count
		}
	}
	s.Warnings, s.Infos = diagnostics.Count(r.Diagnostics)
	return s
}

// HasWarnings reports whether any entry was left out of the totals.
func (r *Result) HasWarnings() bool {
	for _, d := range r.Diagnostics {
		if d.IsWarning() {
			return true
		}
	}
	return false
}

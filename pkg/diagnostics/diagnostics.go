// Package diagnostics collects the non-fatal findings of an aggregation run:
// names that could not be resolved, names that were ambiguous, and resolved
// entries worth a manual check.
package diagnostics

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agentstation/hangar/pkg/catalog"
)

// Severity of a diagnostic.
type Severity string

// Severities.
const (
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Reason is the stable code explaining a diagnostic.
type Reason string

// Reason codes.
const (
	// ReasonUnknownName: the name matches no display name, alias or canonical id.
	ReasonUnknownName Reason = "unknown-name"
	// ReasonAmbiguous: the name maps to more than one canonical id.
	ReasonAmbiguous Reason = "ambiguous"
	// ReasonRetired: the name is a legacy record with no current equivalent.
	ReasonRetired Reason = "retired"
	// ReasonHistoricalQuirk: resolved, but the data is known to be partial or odd.
	ReasonHistoricalQuirk Reason = "historical-quirk"
	// ReasonDuplicateEntry: several raw names resolved to one id and were summed.
	ReasonDuplicateEntry Reason = "duplicate-entry"
	// ReasonCountTooLarge: the entry count exceeds the supported maximum.
	ReasonCountTooLarge Reason = "count-too-large"
)

// Reasons returns every reason code.
func Reasons() []Reason {
	return []Reason{ReasonUnknownName, ReasonAmbiguous, ReasonRetired, ReasonHistoricalQuirk, ReasonDuplicateEntry, ReasonCountTooLarge}
}

// Severity returns the severity a reason is always reported with.
func (r Reason) Severity() Severity {
	switch r {
	case ReasonHistoricalQuirk, ReasonDuplicateEntry:
		return SeverityInfo
	default:
		return SeverityWarning
	}
}

// Counted reports whether entries with this reason are included in totals.
func (r Reason) Counted() bool {
	return r.Severity() == SeverityInfo
}

// Describe explains the reason in one line.
func (r Reason) Describe() string {
	switch r {
	case ReasonUnknownName:
		return "name matches no display name, alias or canonical id; not counted"
	case ReasonAmbiguous:
		return "name maps to more than one canonical id; not counted"
	case ReasonRetired:
		return "legacy name with no current equivalent; not counted"
	case ReasonHistoricalQuirk:
		return "resolved from partial or legacy data; counted, verify manually"
	case ReasonDuplicateEntry:
		return "several names resolved to the same id; counts were summed"
	case ReasonCountTooLarge:
		return "count exceeds the supported maximum; not counted"
	default:
		return "unknown reason"
	}
}

// Diagnostic is one finding about one collection entry.
type Diagnostic struct {
	Severity   Severity       `json:"severity" yaml:"severity"`
	Subject    catalog.Target `json:"subject" yaml:"subject"`
	Raw        string         `json:"raw" yaml:"raw"`
	Reason     Reason         `json:"reason" yaml:"reason"`
	Message    string         `json:"message" yaml:"message"`
	Candidates []string       `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	Count      int            `json:"count" yaml:"count"` // Owned quantity affected
}

// String renders the diagnostic as one plain line.
func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s %q", d.Severity, d.Reason, d.Subject, d.Raw)
	if d.Message != "" {
		b.WriteString(": ")
		b.WriteString(d.Message)
	}
	if len(d.Candidates) > 0 {
		fmt.Fprintf(&b, " (candidates: %s)", strings.Join(d.Candidates, ", "))
	}
	return b.String()
}

// IsWarning reports whether the diagnostic is a warning.
func (d Diagnostic) IsWarning() bool {
	return d.Severity == SeverityWarning
}

// Collector accumulates diagnostics for one aggregation run. It is not
// safe for concurrent use.
type Collector struct {
	items []Diagnostic
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add records d. An empty severity is filled in from the reason.
func (c *Collector) Add(d Diagnostic) {
	if d.Severity == "" {
		d.Severity = d.Reason.Severity()
	}
	d.Candidates = slices.Clone(d.Candidates)
	c.items = append(c.items, d)
}

// Warn records a warning.
func (c *Collector) Warn(subject catalog.Target, raw string, reason Reason, count int, message string, candidates ...string) {
	c.Add(Diagnostic{
		Severity:   SeverityWarning,
		Subject:    subject,
		Raw:        raw,
		Reason:     reason,
		Message:    message,
		Candidates: candidates,
		Count:      count,
	})
}

// Info records an informational diagnostic.
func (c *Collector) Info(subject catalog.Target, raw string, reason Reason, count int, message string) {
	c.Add(Diagnostic{
		Severity: SeverityInfo,
		Subject:  subject,
		Raw:      raw,
		Reason:   reason,
		Message:  message,
		Count:    count,
	})
}

// Len returns the number of diagnostics recorded.
func (c *Collector) Len() int {
	return len(c.items)
}

// List returns a copy of the diagnostics grouped by subject (bundles, ships,
// pilots, upgrades) and then raw name. Diagnostics for the same subject and
// name keep their insertion order.
func (c *Collector) List() []Diagnostic {
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	slices.SortStableFunc(out, func(a, b Diagnostic) int {
		if o := a.Subject.Order() - b.Subject.Order(); o != 0 {
			return o
		}
		return strings.Compare(a.Raw, b.Raw)
	})
	return out
}

// Count tallies diagnostics by severity.
func Count(ds []Diagnostic) (warnings, infos int) {
	for _, d := range ds {
		if d.IsWarning() {
			warnings++
		} else {
			infos++
		}
	}
	return warnings, infos
}

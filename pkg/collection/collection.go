// Package collection models a personal collection record: how many of each
// bundle the owner bought and how many loose ships, pilots and upgrades they
// hold outside of bundles. Names are kept exactly as written; mapping them
// to canonical ids is the resolver's job.
package collection

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/agentstation/hangar/pkg/catalog"
	"github.com/agentstation/hangar/pkg/constants"
	"github.com/agentstation/hangar/pkg/errors"
)

// Raw is a collection record before validation. Counts are kept as written
// because exporters disagree on whether they are numbers or strings.
type Raw struct {
	Bundles map[string]string            // raw bundle name -> count
	Loose   map[string]map[string]string // kind -> raw item name -> count
}

// Input is a validated collection record. Every count is >= 0.
type Input struct {
	Bundles map[string]int                  `json:"bundles" yaml:"bundles" toml:"bundles"`
	Loose   map[catalog.Kind]map[string]int `json:"loose" yaml:"loose" toml:"loose"`
}

// Entry is one line of a collection record.
type Entry struct {
	Target catalog.Target `json:"target" yaml:"target"`
	Raw    string         `json:"raw" yaml:"raw"`
	Count  int            `json:"count" yaml:"count"`
}

// NewInput returns an empty input.
func NewInput() *Input {
	return &Input{
		Bundles: make(map[string]int),
		Loose:   make(map[catalog.Kind]map[string]int),
	}
}

// AddBundle records count copies of the named bundle.
func (in *Input) AddBundle(name string, count int) {
	in.Bundles[name] += count
}

// AddLoose records count loose copies of the named item.
func (in *Input) AddLoose(kind catalog.Kind, name string, count int) {
	if in.Loose[kind] == nil {
		in.Loose[kind] = make(map[string]int)
	}
	in.Loose[kind][name] += count
}

// Merge adds every count of other to in.
func (in *Input) Merge(other *Input) {
	for name, n := range other.Bundles {
		in.AddBundle(name, n)
	}
	for kind, names := range other.Loose {
		for name, n := range names {
			in.AddLoose(kind, name, n)
		}
	}
}

// Len returns the number of entries.
func (in *Input) Len() int {
	n := len(in.Bundles)
	for _, names := range in.Loose {
		n += len(names)
	}
	return n
}

// Entries returns every entry in processing order: bundles by name, then
// loose items by kind (ships, pilots, upgrades) and name.
func (in *Input) Entries() []Entry {
	entries := make([]Entry, 0, in.Len())
	for _, name := range slices.Sorted(maps.Keys(in.Bundles)) {
		entries = append(entries, Entry{Target: catalog.TargetBundle, Raw: name, Count: in.Bundles[name]})
	}
	for _, kind := range catalog.Kinds() {
		names := in.Loose[kind]
		for _, name := range slices.Sorted(maps.Keys(names)) {
			entries = append(entries, Entry{Target: kind.Target(), Raw: name, Count: names[name]})
		}
	}
	return entries
}

// InvalidEntries lists the collection entries rejected by Parse.
type InvalidEntries []*errors.ValidationError

// Error implements the error interface.
func (e InvalidEntries) Error() string {
	if len(e) == 1 {
		return "invalid collection entry: " + e[0].Error()
	}
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return fmt.Sprintf("%d invalid collection entries: %s", len(e), strings.Join(msgs, "; "))
}

// Unwrap exposes the individual validation errors to errors.Is and errors.As.
func (e InvalidEntries) Unwrap() []error {
	errs := make([]error, len(e))
	for i, v := range e {
		errs[i] = v
	}
	return errs
}

// Parse validates raw. Entries with a negative, fractional or non-numeric
// count, an empty or overlong name, or an unknown loose kind are rejected.
// Parse always returns the Input built from the valid entries; when any
// entry was rejected the error is an InvalidEntries.
func Parse(raw Raw) (*Input, error) {
	in := NewInput()
	var invalid InvalidEntries

	for _, name := range slices.Sorted(maps.Keys(raw.Bundles)) {
		field := fmt.Sprintf("bundles[%q]", name)
		n, err := parseEntry(field, name, raw.Bundles[name])
		if err != nil {
			invalid = append(invalid, err)
			continue
		}
		in.AddBundle(name, n)
	}

	for _, kindName := range slices.Sorted(maps.Keys(raw.Loose)) {
		kind, err := catalog.ParseKind(kindName)
		if err != nil {
			invalid = append(invalid, &errors.ValidationError{
				Field:   fmt.Sprintf("loose[%q]", kindName),
				Value:   kindName,
				Message: "unknown item kind (want ship, pilot or upgrade)",
			})
			continue
		}
		names := raw.Loose[kindName]
		for _, name := range slices.Sorted(maps.Keys(names)) {
			field := fmt.Sprintf("loose.%s[%q]", kind, name)
			n, err := parseEntry(field, name, names[name])
			if err != nil {
				invalid = append(invalid, err)
				continue
			}
			in.AddLoose(kind, name, n)
		}
	}

	if len(invalid) > 0 {
		return in, invalid
	}
	return in, nil
}

func parseEntry(field, name, count string) (int, *errors.ValidationError) {
	switch {
	case strings.TrimSpace(name) == "":
		return 0, &errors.ValidationError{Field: field, Value: name, Message: "empty name"}
	case len(name) > constants.MaxNameLength:
		return 0, &errors.ValidationError{Field: field, Value: name,
			Message: fmt.Sprintf("name longer than %d bytes", constants.MaxNameLength)}
	}

	n, err := strconv.Atoi(strings.TrimSpace(count))
	if err != nil {
		return 0, &errors.ValidationError{Field: field, Value: count,
			Message: fmt.Sprintf("count %q is not a whole number", count)}
	}
	if n < 0 {
		return 0, &errors.ValidationError{Field: field, Value: n,
			Message: fmt.Sprintf("count %d is negative", n)}
	}
	if n > constants.MaxCount {
		return 0, &errors.ValidationError{Field: field, Value: n,
			Message: fmt.Sprintf("count %d exceeds %d", n, constants.MaxCount)}
	}
	return n, nil
}

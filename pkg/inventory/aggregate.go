// Package inventory turns a collection record into per-item totals. Each
// bundle entry is expanded through the manifest, each loose entry counts
// once, and every contribution is kept as a Source so totals can be traced
// back to what was bought.
package inventory

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/hangar/pkg/alias"
	"github.com/agentstation/hangar/pkg/catalog"
	"github.com/agentstation/hangar/pkg/collection"
	"github.com/agentstation/hangar/pkg/constants"
	"github.com/agentstation/hangar/pkg/diagnostics"
	"github.com/agentstation/hangar/pkg/logging"
)

// Resolver maps a raw name to a canonical id.
type Resolver interface {
	Resolve(raw string, target catalog.Target) alias.Resolution
}

// Aggregator aggregates collections against one set of reference data. It
// holds no per-run state and may be used from many goroutines.
type Aggregator struct {
	store    *catalog.Store
	manifest *catalog.Manifest
	resolver Resolver
	logger   *zerolog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *Aggregator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAggregator returns an aggregator over the given reference data.
func NewAggregator(store *catalog.Store, manifest *catalog.Manifest, resolver Resolver, opts ...Option) *Aggregator {
	a := &Aggregator{
		store:    store,
		manifest: manifest,
		resolver: resolver,
		logger:   logging.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate is a convenience for NewAggregator(store, manifest, resolver).Aggregate(in).
func Aggregate(in *collection.Input, store *catalog.Store, manifest *catalog.Manifest, resolver Resolver) *Result {
	return NewAggregator(store, manifest, resolver).Aggregate(in)
}

// Aggregate computes the inventory of in. It never fails: entries that
// cannot be resolved are reported as diagnostics and contribute nothing.
// Entries with a zero count contribute nothing and are not resolved.
func (a *Aggregator) Aggregate(in *collection.Input) *Result {
	run := &run{
		Aggregator: a,
		collector:  diagnostics.NewCollector(),
		lines:      make(map[catalog.ItemID]*Line),
		bundles:    make(map[string]*OwnedBundle),
		seen:       make(map[string]string),
	}

	entries := in.Entries()
	for _, e := range entries {
		if e.Count == 0 {
			continue
		}
		run.entry(e)
	}

	result := &Result{
		Entries:     len(entries),
		Bundles:     run.sortedBundles(),
		Lines:       run.sortedLines(),
		Diagnostics: run.collector.List(),
	}
	summary := result.Summary()
	a.logger.Debug().
		Int("entries", summary.Entries).
		Int("lines", summary.Lines).
		Int("items", summary.Items).
		Int("warnings", summary.Warnings).
		Msg("Aggregated collection")
	return result
}

// run holds the state of one Aggregate call.
type run struct {
	*Aggregator
	collector *diagnostics.Collector
	lines     map[catalog.ItemID]*Line
	bundles   map[string]*OwnedBundle
	seen      map[string]string // resolved id -> first raw name
}

func (r *run) entry(e collection.Entry) {
	// Parse bounds counts, but merged or hand-built inputs may not be.
	if e.Count > constants.MaxCount {
		r.collector.Warn(e.Target, e.Raw, diagnostics.ReasonCountTooLarge, e.Count,
			fmt.Sprintf("count %d exceeds %d; not counted", e.Count, constants.MaxCount))
		return
	}

	res := r.resolver.Resolve(e.Raw, e.Target)
	r.logger.Debug().
		Str("raw", e.Raw).
		Str("target", e.Target.String()).
		Str("status", string(res.Status)).
		Str("id", res.ID()).
		Str("via", string(res.Via)).
		Msg("Resolved collection entry")

	switch res.Status {
	case alias.StatusResolved:
	case alias.StatusAmbiguous:
		r.collector.Warn(e.Target, e.Raw, diagnostics.ReasonAmbiguous, e.Count,
			fmt.Sprintf("name matches %d %s ids; not counted", len(res.Candidates), e.Target),
			res.Candidates...)
		return
	case alias.StatusRetired:
		msg := "legacy name with no current equivalent; not counted"
		if res.Note != "" {
			msg = res.Note + "; not counted"
		}
		r.collector.Warn(e.Target, e.Raw, diagnostics.ReasonRetired, e.Count, msg)
		return
	default:
		r.collector.Warn(e.Target, e.Raw, diagnostics.ReasonUnknownName, e.Count,
			fmt.Sprintf("no %s named %q; not counted", e.Target, e.Raw))
		return
	}

	key := e.Target.String() + ":" + res.ID()
	if first, dup := r.seen[key]; dup {
		r.collector.Info(e.Target, e.Raw, diagnostics.ReasonDuplicateEntry, e.Count,
			fmt.Sprintf("same %s as %q (%s); counts summed", e.Target, first, res.ID()))
	} else {
		r.seen[key] = e.Raw
	}
	if res.Quirk != "" {
		r.collector.Info(e.Target, e.Raw, diagnostics.ReasonHistoricalQuirk, e.Count, res.Quirk)
	}

	if e.Target == catalog.TargetBundle {
		r.bundle(res.Bundle, e.Count)
		return
	}
	r.add(*res.Item, Source{Origin: OriginLoose, Owned: e.Count, PerUnit: 1})
}

func (r *run) bundle(sku string, count int) {
	b, err := r.manifest.BundleByID(sku)
	if err != nil {
		// The resolver only returns SKUs from the manifest.
		r.logger.Error().Err(err).Str("sku", sku).Msg("Resolved bundle missing from manifest")
		return
	}

	owned, ok := r.bundles[sku]
	if !ok {
		owned = &OwnedBundle{SKU: b.SKU, Name: b.Name, Wave: b.Wave}
		r.bundles[sku] = owned
	}
	owned.Owned += count
	owned.Items += count * b.ItemCount()

	perUnit := make(map[catalog.ItemID]int, len(b.Contents))
	var order []catalog.ItemID
	for _, c := range b.Contents {
		if _, ok := perUnit[c.Item]; !ok {
			order = append(order, c.Item)
		}
		perUnit[c.Item] += c.Count
	}
	for _, id := range order {
		r.add(id, Source{
			Origin:  b.SKU,
			Bundle:  b.Name,
			Wave:    b.Wave,
			Owned:   count,
			PerUnit: perUnit[id],
		})
	}
}

// add records src against id, merging with an earlier source of the same origin.
func (r *run) add(id catalog.ItemID, src Source) {
	src.Quantity = src.Owned * src.PerUnit
	if src.Quantity <= 0 {
		return
	}

	line, ok := r.lines[id]
	if !ok {
		line = &Line{ID: id, Name: id.XWS}
		if item, err := r.store.ItemByID(id); err == nil {
			line.Name = item.Name
			line.Faction = item.Faction
		}
		r.lines[id] = line
	}
	line.Total += src.Quantity

	for i := range line.Sources {
		if line.Sources[i].Origin == src.Origin {
			line.Sources[i].Owned += src.Owned
			line.Sources[i].Quantity += src.Quantity
			return
		}
	}
	line.Sources = append(line.Sources, src)
}

func (r *run) sortedLines() []Line {
	out := make([]Line, 0, len(r.lines))
	for _, l := range r.lines {
		slices.SortFunc(l.Sources, compareSources)
		out = append(out, *l)
	}
	slices.SortFunc(out, func(a, b Line) int {
		if c := a.ID.Kind.Order() - b.ID.Kind.Order(); c != 0 {
			return c
		}
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID.XWS, b.ID.XWS)
	})
	return out
}

func (r *run) sortedBundles() []OwnedBundle {
	out := make([]OwnedBundle, 0, len(r.bundles))
	for _, b := range r.bundles {
		out = append(out, *b)
	}
	slices.SortFunc(out, func(a, b OwnedBundle) int {
		return strings.Compare(a.SKU, b.SKU)
	})
	return out
}

// compareSources orders bundles by SKU with loose ownership last.
func compareSources(a, b Source) int {
	switch {
	case a.IsLoose() && !b.IsLoose():
		return 1
	case !a.IsLoose() && b.IsLoose():
		return -1
	default:
		return strings.Compare(a.Origin, b.Origin)
	}
}

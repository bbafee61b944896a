package collection

import (
	"encoding/json"
	"maps"
	"slices"
	"strconv"

	"github.com/agentstation/hangar/pkg/catalog"
	"github.com/agentstation/hangar/pkg/errors"
)

const yasbRootKey = "collection"

// YASB is the collection export of the YASB squad builder. Expansions are
// keyed by display name; singletons are grouped by kind. Counts are strings.
type YASB struct {
	Collection YASBCollection `json:"collection"`
}

// YASBCollection is the body of a YASB export.
type YASBCollection struct {
	Expansions map[string]any            `json:"expansions"`
	Singletons map[string]map[string]any `json:"singletons,omitempty"`
}

func decodeYASB(data []byte) (Raw, error) {
	var doc YASB
	if err := json.Unmarshal(data, &doc); err != nil {
		return Raw{}, errors.WrapParse("yasb", "", err)
	}
	raw := Raw{Bundles: stringCounts(doc.Collection.Expansions)}
	if len(doc.Collection.Singletons) > 0 {
		raw.Loose = make(map[string]map[string]string, len(doc.Collection.Singletons))
		for kind, names := range doc.Collection.Singletons {
			raw.Loose[kind] = stringCounts(names)
		}
	}
	return raw, nil
}

// ToYASB renders an input in the YASB export shape, so a record can be
// imported back into the squad builder. Zero counts are dropped.
func ToYASB(in *Input) YASB {
	out := YASB{Collection: YASBCollection{
		Expansions: make(map[string]any, len(in.Bundles)),
		Singletons: make(map[string]map[string]any),
	}}
	for _, name := range slices.Sorted(maps.Keys(in.Bundles)) {
		if n := in.Bundles[name]; n > 0 {
			out.Collection.Expansions[name] = strconv.Itoa(n)
		}
	}
	for _, kind := range catalog.Kinds() {
		for name, n := range in.Loose[kind] {
			if n <= 0 {
				continue
			}
			if out.Collection.Singletons[kind.String()] == nil {
				out.Collection.Singletons[kind.String()] = make(map[string]any)
			}
			out.Collection.Singletons[kind.String()][name] = strconv.Itoa(n)
		}
	}
	return out
}

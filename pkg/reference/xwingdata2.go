package reference

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/agentstation/hangar/pkg/catalog"
	"github.com/agentstation/hangar/pkg/errors"
)

// xwingData2Manifest is the subset of data/manifest.json used here.
type xwingData2Manifest struct {
	Version string `json:"version"`
	Pilots  []struct {
		Faction string   `json:"faction"`
		Ships   []string `json:"ships"`
	} `json:"pilots"`
	Upgrades []string `json:"upgrades"`
}

type xwingData2Ship struct {
	Name    string `json:"name"`
	XWS     string `json:"xws"`
	Faction string `json:"faction"`
	Pilots  []struct {
		Name       string `json:"name"`
		XWS        string `json:"xws"`
		Initiative int    `json:"initiative"`
	} `json:"pilots"`
}

type xwingData2Upgrade struct {
	Name  string `json:"name"`
	XWS   string `json:"xws"`
	Sides []struct {
		Type string `json:"type"`
	} `json:"sides"`
	Restrictions []catalog.Restrictions `json:"restrictions"`
}

const xwingData2ManifestPath = "data/manifest.json"

// loadXWingData2 reads ships, pilots and upgrades from an xwing-data2
// checkout. Ships listed under several factions are kept once, with the
// first faction seen. Cards without an xws id are skipped.
func loadXWingData2(fsys fs.FS) ([]catalog.Item, string, error) {
	var manifest xwingData2Manifest
	if err := readJSON(fsys, xwingData2ManifestPath, &manifest); err != nil {
		return nil, "", err
	}

	var items []catalog.Item
	seenShips := make(map[string]bool)
	for _, faction := range manifest.Pilots {
		for _, p := range faction.Ships {
			var ship xwingData2Ship
			if err := readJSON(fsys, p, &ship); err != nil {
				return nil, "", err
			}
			factionID := ship.Faction
			if factionID == "" {
				factionID = faction.Faction
			}
			if ship.XWS != "" && !seenShips[ship.XWS] {
				seenShips[ship.XWS] = true
				items = append(items, catalog.Item{
					ID:      catalog.NewItemID(catalog.KindShip, ship.XWS),
					Name:    ship.Name,
					Faction: factionID,
				})
			}
			for _, pilot := range ship.Pilots {
				if pilot.XWS == "" {
					continue
				}
				items = append(items, catalog.Item{
					ID:         catalog.NewItemID(catalog.KindPilot, pilot.XWS),
					Name:       pilot.Name,
					Faction:    factionID,
					Ship:       ship.XWS,
					Initiative: pilot.Initiative,
				})
			}
		}
	}

	for _, p := range manifest.Upgrades {
		var upgrades []xwingData2Upgrade
		if err := readJSON(fsys, p, &upgrades); err != nil {
			return nil, "", err
		}
		for _, u := range upgrades {
			if u.XWS == "" {
				continue
			}
			item := catalog.Item{
				ID:           catalog.NewItemID(catalog.KindUpgrade, u.XWS),
				Name:         u.Name,
				Restrictions: mergeRestrictions(u.Restrictions),
			}
			if len(u.Sides) > 0 {
				item.Slot = u.Sides[0].Type
			}
			items = append(items, item)
		}
	}

	if len(items) == 0 {
		return nil, "", errors.NewLoadError("xwing-data2", fmt.Sprintf("%s lists no ships or upgrades", xwingData2ManifestPath))
	}
	return items, manifest.Version, nil
}

// mergeRestrictions folds the alternative restriction groups of a card into one.
func mergeRestrictions(groups []catalog.Restrictions) catalog.Restrictions {
	var out catalog.Restrictions
	for _, g := range groups {
		out.Factions = append(out.Factions, g.Factions...)
		out.Sizes = append(out.Sizes, g.Sizes...)
		out.Ships = append(out.Ships, g.Ships...)
		out.Arcs = append(out.Arcs, g.Arcs...)
		out.Keywords = append(out.Keywords, g.Keywords...)
		out.ForceSide = append(out.ForceSide, g.ForceSide...)
	}
	return out
}

func readJSON(fsys fs.FS, name string, v any) error {
	name = path.Clean(strings.TrimPrefix(name, "./"))
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return errors.WrapIO("read", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.NewParseError("json", name, err.Error(), err)
	}
	return nil
}

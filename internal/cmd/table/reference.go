package table

import (
	"strconv"
	"strings"

	"github.com/agentstation/hangar/pkg/alias"
	"github.com/agentstation/hangar/pkg/catalog"
)

// ItemsToTableData converts catalog items to table format.
func ItemsToTableData(items []*catalog.Item, wide bool) Data {
	headers := []string{"KIND", "XWS", "NAME", "FACTION"}
	if wide {
		headers = append(headers, "SHIP", "INITIATIVE", "SLOT", "RESTRICTIONS")
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		row := []string{item.ID.Kind.String(), item.ID.XWS, item.Name, orDash(item.Faction)}
		if wide {
			initiative := "-"
			if item.ID.Kind == catalog.KindPilot {
				initiative = strconv.Itoa(item.Initiative)
			}
			row = append(row,
				orDash(item.Ship),
				initiative,
				orDash(item.Slot),
				orDash(strings.Join(item.Restrictions.Tags(), ", ")),
			)
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows}
}

// BundlesToTableData converts catalog bundles to table format.
func BundlesToTableData(bundles []*catalog.Bundle, wide bool) Data {
	headers := []string{"SKU", "NAME", "WAVE", "ITEMS"}
	align := []Align{AlignDefault, AlignDefault, AlignCenter, AlignRight}
	if wide {
		headers = append(headers, "QUIRK")
		align = append(align, AlignDefault)
	}

	rows := make([][]string, 0, len(bundles))
	for _, b := range bundles {
		row := []string{b.SKU, b.Name, strconv.Itoa(b.Wave), strconv.Itoa(b.ItemCount())}
		if wide {
			row = append(row, orDash(truncate(b.Quirk, 60)))
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// AliasesToTableData converts alias entries to table format.
func AliasesToTableData(entries []alias.Entry) Data {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Raw,
			e.Target.String(),
			orDash(e.ID),
			orDash(string(e.Annotation)),
			orDash(truncate(e.Note, 50)),
		})
	}
	return Data{
		Headers: []string{"NAME", "TARGET", "ID", "ANNOTATION", "NOTE"},
		Rows:    rows,
	}
}

// ItemDetailToTableData converts one item and the bundles containing it
// to a key-value table followed by a sources table.
func ItemDetailToTableData(item *catalog.Item, sources []catalog.Source) []Data {
	rows := [][]string{
		{"ID", item.ID.String()},
		{"Name", item.Name},
		{"Faction", orDash(item.Faction)},
	}
	switch item.ID.Kind {
	case catalog.KindPilot:
		rows = append(rows, []string{"Ship", orDash(item.Ship)}, []string{"Initiative", strconv.Itoa(item.Initiative)})
	case catalog.KindUpgrade:
		rows = append(rows, []string{"Slot", orDash(item.Slot)})
	}
	rows = append(rows, []string{"Restrictions", orDash(strings.Join(item.Restrictions.Tags(), ", "))})

	sourceRows := make([][]string, 0, len(sources))
	for _, s := range sources {
		sourceRows = append(sourceRows, []string{s.SKU, s.Name, strconv.Itoa(s.Wave), strconv.Itoa(s.Count)})
	}
	return []Data{
		{Headers: []string{"PROPERTY", "VALUE"}, Rows: rows},
		{
			Headers:         []string{"SKU", "BUNDLE", "WAVE", "COUNT"},
			Rows:            sourceRows,
			ColumnAlignment: []Align{AlignDefault, AlignDefault, AlignCenter, AlignRight},
		},
	}
}

// ContentsToTableData lists the items of a bundle with their per-bundle
// counts. counts[i] belongs to items[i].
func ContentsToTableData(items []*catalog.Item, counts []int) Data {
	rows := make([][]string, 0, len(items))
	for i, item := range items {
		rows = append(rows, []string{item.ID.Kind.String(), item.ID.XWS, item.Name, strconv.Itoa(counts[i])})
	}
	return Data{
		Headers:         []string{"KIND", "XWS", "NAME", "COUNT"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignDefault, AlignDefault, AlignDefault, AlignRight},
	}
}

package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	md "github.com/nao1215/markdown"

	"github.com/agentstation/hangar/pkg/catalog"
	"github.com/agentstation/hangar/pkg/inventory"
)

var kindTitles = map[catalog.Kind]string{
	catalog.KindShip:    "Ships",
	catalog.KindPilot:   "Pilots",
	catalog.KindUpgrade: "Upgrades",
}

// WriteMarkdown writes a report with a summary, the owned bundles, one
// table per kind and the diagnostics.
func WriteMarkdown(w io.Writer, snap *Snapshot) error {
	r := snap.Result
	summary := r.Summary()
	doc := md.NewMarkdown(w)

	doc.H1("Hangar inventory")
	doc.BulletList(
		"Collections: "+snap.collections(),
		"Reference data: "+snap.Version,
		"Generated: "+snap.createdAt().Format("2006-01-02 15:04 MST"),
	)

	doc.H2("Summary")
	doc.Table(md.TableSet{
		Header: []string{"Entries", "Unresolved", "Lines", "Items", "Warnings", "Infos"},
		Rows: [][]string{{
			strconv.Itoa(summary.Entries),
			strconv.Itoa(summary.Unresolved),
			strconv.Itoa(summary.Lines),
			strconv.Itoa(summary.Items),
			strconv.Itoa(summary.Warnings),
			strconv.Itoa(summary.Infos),
		}},
	})

	if len(r.Bundles) > 0 {
		doc.H2("Bundles")
		rows := make([][]string, 0, len(r.Bundles))
		for _, b := range r.Bundles {
			rows = append(rows, []string{
				md.Code(b.SKU), escapeCell(b.Name), strconv.Itoa(b.Wave),
				strconv.Itoa(b.Owned), strconv.Itoa(b.Items),
			})
		}
		doc.Table(md.TableSet{Header: []string{"SKU", "Name", "Wave", "Owned", "Items"}, Rows: rows})
	}

	for _, kind := range catalog.Kinds() {
		lines := r.LinesOfKind(kind)
		if len(lines) == 0 {
			continue
		}
		doc.H2(kindTitles[kind])
		rows := make([][]string, 0, len(lines))
		for _, l := range lines {
			rows = append(rows, lineRow(l))
		}
		doc.Table(md.TableSet{Header: []string{"XWS", "Name", "Faction", "Total", "Sources"}, Rows: rows})
	}

	if len(r.Diagnostics) > 0 {
		doc.H2("Diagnostics")
		items := make([]string, 0, len(r.Diagnostics))
		for _, d := range r.Diagnostics {
			items = append(items, fmt.Sprintf("%s %s %s: %s",
				md.Bold(string(d.Severity)), md.Code(string(d.Reason)), escapeCell(strconv.Quote(d.Raw)), d.Message))
		}
		doc.BulletList(items...)
	}

	return doc.Build()
}

func lineRow(l inventory.Line) []string {
	sources := make([]string, len(l.Sources))
	for i, s := range l.Sources {
		sources[i] = escapeCell(s.String())
	}
	faction := l.Faction
	if faction == "" {
		faction = "-"
	}
	return []string{md.Code(l.ID.XWS), escapeCell(l.Name), faction, strconv.Itoa(l.Total), strings.Join(sources, "<br>")}
}

// escapeCell keeps a value from breaking a table row.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

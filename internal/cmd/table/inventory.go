package table

import (
	"strconv"
	"strings"

	"github.com/agentstation/hangar/pkg/alias"
	"github.com/agentstation/hangar/pkg/diagnostics"
	"github.com/agentstation/hangar/pkg/inventory"
)

// LinesToTableData converts inventory lines to table format. Wide tables
// add the faction and the full source breakdown.
func LinesToTableData(lines []inventory.Line, wide bool) Data {
	headers := []string{"KIND", "XWS", "NAME", "TOTAL"}
	align := []Align{AlignDefault, AlignDefault, AlignDefault, AlignRight}
	if wide {
		headers = append(headers, "FACTION", "SOURCES")
		align = append(align, AlignDefault, AlignDefault)
	} else {
		headers = append(headers, "FROM")
		align = append(align, AlignDefault)
	}

	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		row := []string{l.ID.Kind.String(), l.ID.XWS, l.Name, FormatNumber(l.Total)}
		if wide {
			row = append(row, orDash(l.Faction), l.SourcesString())
		} else {
			row = append(row, sourceOrigins(l.Sources))
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// sourceOrigins lists the SKUs (or "loose") a line's total comes from.
func sourceOrigins(sources []inventory.Source) string {
	origins := make([]string, len(sources))
	for i, s := range sources {
		origins[i] = s.Origin
	}
	return strings.Join(origins, ", ")
}

// OwnedBundlesToTableData converts the resolved bundles of a result to table format.
func OwnedBundlesToTableData(bundles []inventory.OwnedBundle) Data {
	rows := make([][]string, 0, len(bundles))
	for _, b := range bundles {
		rows = append(rows, []string{b.SKU, b.Name, strconv.Itoa(b.Wave), strconv.Itoa(b.Owned), FormatNumber(b.Items)})
	}
	return Data{
		Headers:         []string{"SKU", "NAME", "WAVE", "OWNED", "ITEMS"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignDefault, AlignDefault, AlignCenter, AlignRight, AlignRight},
	}
}

// DiagnosticsToTableData converts diagnostics to table format.
func DiagnosticsToTableData(ds []diagnostics.Diagnostic) Data {
	rows := make([][]string, 0, len(ds))
	for _, d := range ds {
		rows = append(rows, []string{
			string(d.Severity),
			string(d.Reason),
			d.Subject.String(),
			d.Raw,
			strconv.Itoa(d.Count),
			truncate(d.Message, 60),
			orDash(strings.Join(d.Candidates, ", ")),
		})
	}
	return Data{
		Headers:         []string{"SEVERITY", "REASON", "SUBJECT", "NAME", "COUNT", "MESSAGE", "CANDIDATES"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignDefault, AlignDefault, AlignDefault, AlignDefault, AlignRight, AlignDefault, AlignDefault},
	}
}

// SummaryToTableData converts a result summary to a key-value table.
func SummaryToTableData(s inventory.Summary) Data {
	return Data{
		Headers: []string{"PROPERTY", "VALUE"},
		Rows: [][]string{
			{"Entries", strconv.Itoa(s.Entries)},
			{"Unresolved entries", strconv.Itoa(s.Unresolved)},
			{"Unresolved quantity", FormatNumber(s.UnresolvedCount)},
			{"Lines", strconv.Itoa(s.Lines)},
			{"Items", FormatNumber(s.Items)},
			{"Warnings", strconv.Itoa(s.Warnings)},
			{"Infos", strconv.Itoa(s.Infos)},
		},
		ColumnAlignment: []Align{AlignDefault, AlignRight},
	}
}

// ResolutionToTableData converts a single resolution to a key-value table.
func ResolutionToTableData(res alias.Resolution) Data {
	rows := [][]string{
		{"Name", res.Raw},
		{"Target", res.Target.String()},
		{"Status", string(res.Status)},
		{"ID", orDash(res.ID())},
		{"Via", orDash(string(res.Via))},
	}
	if res.Annotation != "" {
		rows = append(rows, []string{"Annotation", string(res.Annotation)})
	}
	if res.Quirk != "" {
		rows = append(rows, []string{"Quirk", res.Quirk})
	}
	if res.Note != "" {
		rows = append(rows, []string{"Note", res.Note})
	}
	if len(res.Candidates) > 0 {
		rows = append(rows, []string{"Candidates", strings.Join(res.Candidates, ", ")})
	}
	return Data{Headers: []string{"PROPERTY", "VALUE"}, Rows: rows}
}

package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/agentstation/hangar/pkg/catalog"
	"github.com/agentstation/hangar/pkg/inventory"
)

// Sheet names of the exported workbook, in order.
const (
	SheetBundles     = "Bundles"
	SheetShips       = "Ships"
	SheetPilots      = "Pilots"
	SheetUpgrades    = "Upgrades"
	SheetDiagnostics = "Diagnostics"
)

var kindSheets = []struct {
	kind  catalog.Kind
	sheet string
}{
	{catalog.KindShip, SheetShips},
	{catalog.KindPilot, SheetPilots},
	{catalog.KindUpgrade, SheetUpgrades},
}

const tableStyle = "TableStyleMedium2"

// sheet is the contents of one worksheet before it is written.
type sheet struct {
	name   string
	header []any
	widths []float64
	rows   [][]any
}

// WriteXLSX writes a workbook with a Bundles sheet, one sheet per item
// kind and a Diagnostics sheet. Each non-empty sheet is an Excel table.
func WriteXLSX(w io.Writer, snap *Snapshot) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:       "Hangar inventory",
		Description: fmt.Sprintf("Collections: %s; reference data %s", snap.collections(), snap.Version),
		Creator:     "hangar",
		Created:     snap.createdAt().Format("2006-01-02T15:04:05Z"),
	}); err != nil {
		return err
	}

	sheets := []sheet{bundleSheet(snap.Result)}
	for _, ks := range kindSheets {
		sheets = append(sheets, lineSheet(ks.sheet, snap.Result.LinesOfKind(ks.kind)))
	}
	sheets = append(sheets, diagnosticSheet(snap.Result))

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return err
		}
		if err := writeSheet(f, s); err != nil {
			return fmt.Errorf("sheet %s: %w", s.name, err)
		}
	}
	f.SetActiveSheet(0)
	return f.Write(w)
}

func bundleSheet(r *inventory.Result) sheet {
	s := sheet{
		name:   SheetBundles,
		header: []any{"SKU", "Name", "Wave", "Owned", "Items"},
		widths: []float64{16, 48, 8, 8, 8},
	}
	for _, b := range r.Bundles {
		s.rows = append(s.rows, []any{b.SKU, b.Name, b.Wave, b.Owned, b.Items})
	}
	return s
}

func lineSheet(name string, lines []inventory.Line) sheet {
	s := sheet{
		name:   name,
		header: []any{"XWS", "Name", "Faction", "Total", "Sources"},
		widths: []float64{28, 32, 18, 8, 80},
	}
	for _, l := range lines {
		s.rows = append(s.rows, []any{l.ID.XWS, l.Name, l.Faction, l.Total, l.SourcesString()})
	}
	return s
}

func diagnosticSheet(r *inventory.Result) sheet {
	s := sheet{
		name:   SheetDiagnostics,
		header: []any{"Severity", "Reason", "Subject", "Name", "Count", "Message", "Candidates"},
		widths: []float64{10, 18, 10, 32, 8, 60, 40},
	}
	for _, d := range r.Diagnostics {
		s.rows = append(s.rows, []any{
			string(d.Severity), string(d.Reason), d.Subject.String(), d.Raw, d.Count,
			d.Message, strings.Join(d.Candidates, ", "),
		})
	}
	return s
}

func writeSheet(f *excelize.File, s sheet) error {
	if err := f.SetSheetRow(s.name, "A1", &s.header); err != nil {
		return err
	}
	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return err
		}
	}
	for i, width := range s.widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(s.name, col, col, width); err != nil {
			return err
		}
	}
	if err := f.SetPanes(s.name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	// A table needs at least one data row.
	if len(s.rows) == 0 {
		return nil
	}
	end, err := excelize.CoordinatesToCellName(len(s.header), len(s.rows)+1)
	if err != nil {
		return err
	}
	return f.AddTable(s.name, &excelize.Table{
		Range:     "A1:" + end,
		Name:      s.name + "Table",
		StyleName: tableStyle,
	})
}

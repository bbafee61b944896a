package export

import (
	"encoding/csv"
	"io"
	"strconv"
)

var csvHeader = []string{"kind", "xws", "name", "faction", "total", "sources"}

// WriteCSV writes one row per inventory line, in result order.
func WriteCSV(w io.Writer, snap *Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, l := range snap.Result.Lines {
		if err := cw.Write([]string{
			l.ID.Kind.String(),
			l.ID.XWS,
			l.Name,
			l.Faction,
			strconv.Itoa(l.Total),
			l.SourcesString(),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

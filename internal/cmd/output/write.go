package output

import (
	"io"

	"github.com/agentstation/hangar/internal/cmd/table"
)

// Write formats data for w. Table formats render toTable(wide) instead of
// data itself; structured formats encode data as is.
func Write(w io.Writer, format Format, data any, toTable func(wide bool) []table.Data) error {
	formatter := NewFormatter(format)
	if format.IsTable() && toTable != nil {
		return formatter.Format(w, toTable(format == FormatWide))
	}
	return formatter.Format(w, data)
}

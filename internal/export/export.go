// Package export writes inventory results to files: CSV, an XLSX
// workbook, a Markdown report or an SQLite snapshot.
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agentstation/hangar/pkg/constants"
	"github.com/agentstation/hangar/pkg/errors"
	"github.com/agentstation/hangar/pkg/inventory"
	"github.com/agentstation/hangar/pkg/logging"
)

// Format is an export file format.
type Format string

const (
	// FormatCSV writes one row per inventory line.
	FormatCSV Format = "csv"
	// FormatXLSX writes a workbook with one sheet per kind.
	FormatXLSX Format = "xlsx"
	// FormatMarkdown writes a human readable report.
	FormatMarkdown Format = "md"
	// FormatSQLite appends a run to an SQLite database.
	FormatSQLite Format = "sqlite"
)

// Formats returns every export format.
func Formats() []Format {
	return []Format{FormatCSV, FormatXLSX, FormatMarkdown, FormatSQLite}
}

// ParseFormat parses a format name. "markdown", "db" and "sqlite3" are
// accepted as synonyms.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "sqlite", "sqlite3", "db":
		return FormatSQLite, nil
	default:
		return "", errors.NewValidationError("format", s,
			fmt.Sprintf("unsupported export format %q: must be one of csv, xlsx, md, sqlite", s))
	}
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", errors.NewValidationError("export", path, "file has no extension to infer a format from")
	}
	return ParseFormat(ext)
}

// Snapshot is an inventory result plus the context it was computed in.
type Snapshot struct {
	Collections []string  // Input file names
	Version     string    // Reference data version
	CreatedAt   time.Time // Defaults to now when zero
	Result      *inventory.Result
}

func (s *Snapshot) createdAt() time.Time {
	if s.CreatedAt.IsZero() {
		return time.Now().UTC()
	}
	return s.CreatedAt.UTC()
}

func (s *Snapshot) collections() string {
	if len(s.Collections) == 0 {
		return "-"
	}
	return strings.Join(s.Collections, ", ")
}

// Write writes snap to w in a stream format. SQLite needs a file; use WriteFile.
func Write(w io.Writer, format Format, snap *Snapshot) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, snap)
	case FormatXLSX:
		return WriteXLSX(w, snap)
	case FormatMarkdown:
		return WriteMarkdown(w, snap)
	case FormatSQLite:
		return errors.NewValidationError("format", format, "sqlite exports must be written to a file")
	default:
		return errors.NewValidationError("format", format, fmt.Sprintf("unsupported export format %q", format))
	}
}

// WriteFile writes snap to path in the format its extension names.
// SQLite databases are appended to; other files are replaced.
func WriteFile(ctx context.Context, path string, snap *Snapshot) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	logger := logging.FromContext(ctx)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}

	if format == FormatSQLite {
		if err := WriteSQLite(ctx, path, snap); err != nil {
			return err
		}
	} else {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions)
		if err != nil {
			return errors.WrapIO("create", path, err)
		}
		if err := Write(f, format, snap); err != nil {
			_ = f.Close()
			return errors.WrapResource("export", string(format), path, err)
		}
		if err := f.Close(); err != nil {
			return errors.WrapIO("close", path, err)
		}
	}

	logger.Debug().
		Str("path", path).
		Str("format", string(format)).
		Int("lines", len(snap.Result.Lines)).
		Msg("Exported inventory")
	return nil
}

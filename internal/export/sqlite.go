package export

import (
	"context"
	"database/sql"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/agentstation/hangar/pkg/errors"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TEXT NOT NULL,
    collections TEXT NOT NULL,
    reference_version TEXT NOT NULL,
    entries INTEGER NOT NULL,
    lines INTEGER NOT NULL,
    items INTEGER NOT NULL,
    warnings INTEGER NOT NULL,
    infos INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS bundles (
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    sku TEXT NOT NULL,
    name TEXT NOT NULL,
    wave INTEGER NOT NULL,
    owned INTEGER NOT NULL,
    items INTEGER NOT NULL,
    PRIMARY KEY (run_id, sku)
);

CREATE TABLE IF NOT EXISTS lines (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    kind TEXT NOT NULL,
    xws TEXT NOT NULL,
    name TEXT NOT NULL,
    faction TEXT,
    total INTEGER NOT NULL,
    UNIQUE (run_id, kind, xws)
);

CREATE TABLE IF NOT EXISTS sources (
    line_id INTEGER NOT NULL REFERENCES lines(id) ON DELETE CASCADE,
    origin TEXT NOT NULL,
    bundle TEXT,
    wave INTEGER,
    owned INTEGER NOT NULL,
    per_unit INTEGER NOT NULL,
    quantity INTEGER NOT NULL,
    PRIMARY KEY (line_id, origin)
);

CREATE TABLE IF NOT EXISTS diagnostics (
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    seq INTEGER NOT NULL,
    severity TEXT NOT NULL,
    reason TEXT NOT NULL,
    subject TEXT NOT NULL,
    raw TEXT NOT NULL,
    count INTEGER NOT NULL,
    message TEXT NOT NULL,
    candidates TEXT,
    PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_lines_item ON lines(kind, xws);
`

var sqlitePragmas = []string{
	"PRAGMA foreign_keys = ON",
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
}

// WriteSQLite appends snap as a new run to the database at path, creating
// the schema if needed. The whole run is written in one transaction.
func WriteSQLite(ctx context.Context, path string, snap *Snapshot) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return errors.WrapResource("open", "database", path, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(ctx); err != nil {
		return errors.WrapResource("open", "database", path, err)
	}
	for _, pragma := range sqlitePragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return errors.WrapResource("configure", "database", path, err)
		}
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return errors.WrapResource("migrate", "database", path, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WrapResource("begin", "transaction", path, err)
	}
	if _, err := insertRun(ctx, tx, snap); err != nil {
		_ = tx.Rollback()
		return errors.WrapResource("export", "run", path, err)
	}
	if err := tx.Commit(); err != nil {
		return errors.WrapResource("commit", "transaction", path, err)
	}
	return nil
}

func insertRun(ctx context.Context, tx *sql.Tx, snap *Snapshot) (int64, error) {
	r := snap.Result
	summary := r.Summary()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (created_at, collections, reference_version, entries, lines, items, warnings, infos)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.createdAt().Format("2006-01-02T15:04:05Z"), strings.Join(snap.Collections, ","), snap.Version,
		summary.Entries, summary.Lines, summary.Items, summary.Warnings, summary.Infos)
	if err != nil {
		return 0, err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, b := range r.Bundles {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO bundles (run_id, sku, name, wave, owned, items) VALUES (?, ?, ?, ?, ?, ?)`,
			runID, b.SKU, b.Name, b.Wave, b.Owned, b.Items); err != nil {
			return 0, err
		}
	}

	for _, l := range r.Lines {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO lines (run_id, kind, xws, name, faction, total) VALUES (?, ?, ?, ?, ?, ?)`,
			runID, l.ID.Kind.String(), l.ID.XWS, l.Name, nullString(l.Faction), l.Total)
		if err != nil {
			return 0, err
		}
		lineID, err := res.LastInsertId()
		if err != nil {
			return 0, err
		}
		for _, s := range l.Sources {
			var bundle sql.NullString
			var wave sql.NullInt64
			if !s.IsLoose() {
				bundle = nullString(s.Bundle)
				wave = sql.NullInt64{Int64: int64(s.Wave), Valid: true}
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO sources (line_id, origin, bundle, wave, owned, per_unit, quantity) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				lineID, s.Origin, bundle, wave, s.Owned, s.PerUnit, s.Quantity); err != nil {
				return 0, err
			}
		}
	}

	for i, d := range r.Diagnostics {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO diagnostics (run_id, seq, severity, reason, subject, raw, count, message, candidates)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, i, string(d.Severity), string(d.Reason), d.Subject.String(), d.Raw, d.Count, d.Message,
			nullString(strings.Join(d.Candidates, ","))); err != nil {
			return 0, err
		}
	}
	return runID, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

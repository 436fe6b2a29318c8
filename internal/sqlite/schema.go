// Package sqlite reads and writes the collection database embedded in a
// package: one col row carrying the JSON documents, plus the notes, cards,
// revlog and graves tables in the legacy schema 11 layout.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema DDL for the five collection tables. Statements are idempotent so
// saving into an existing database keeps its layout.
const (
	createCol = `CREATE TABLE IF NOT EXISTS col (
    id INTEGER PRIMARY KEY,
    crt INTEGER NOT NULL,
    mod INTEGER NOT NULL,
    scm INTEGER NOT NULL,
    ver INTEGER NOT NULL,
    dty INTEGER NOT NULL,
    usn INTEGER NOT NULL,
    ls INTEGER NOT NULL,
    conf TEXT NOT NULL,
    models TEXT NOT NULL,
    decks TEXT NOT NULL,
    dconf TEXT NOT NULL,
    tags TEXT NOT NULL
);`

	createNotes = `CREATE TABLE IF NOT EXISTS notes (
    id INTEGER PRIMARY KEY,
    guid TEXT NOT NULL,
    mid INTEGER NOT NULL,
    mod INTEGER NOT NULL,
    usn INTEGER NOT NULL,
    tags TEXT NOT NULL,
    flds TEXT NOT NULL,
    sfld INTEGER NOT NULL,
    csum INTEGER NOT NULL,
    flags INTEGER NOT NULL,
    data TEXT NOT NULL
);`

	createCards = `CREATE TABLE IF NOT EXISTS cards (
    id INTEGER PRIMARY KEY,
    nid INTEGER NOT NULL,
    did INTEGER NOT NULL,
    ord INTEGER NOT NULL,
    mod INTEGER NOT NULL,
    usn INTEGER NOT NULL,
    type INTEGER NOT NULL,
    queue INTEGER NOT NULL,
    due INTEGER NOT NULL,
    ivl INTEGER NOT NULL,
    factor INTEGER NOT NULL,
    reps INTEGER NOT NULL,
    lapses INTEGER NOT NULL,
    left INTEGER NOT NULL,
    odue INTEGER NOT NULL,
    odid INTEGER NOT NULL,
    flags INTEGER NOT NULL,
    data TEXT NOT NULL
);`

	createRevlog = `CREATE TABLE IF NOT EXISTS revlog (
    id INTEGER PRIMARY KEY,
    cid INTEGER NOT NULL,
    usn INTEGER NOT NULL,
    ease INTEGER NOT NULL,
    ivl INTEGER NOT NULL,
    lastIvl INTEGER NOT NULL,
    factor INTEGER NOT NULL,
    time INTEGER NOT NULL,
    type INTEGER NOT NULL
);`

	createGraves = `CREATE TABLE IF NOT EXISTS graves (
    usn INTEGER NOT NULL,
    oid INTEGER NOT NULL,
    type INTEGER NOT NULL
);`
)

// Index DDL matching what desktop clients create.
const (
	idxNotesUsn   = `CREATE INDEX IF NOT EXISTS ix_notes_usn ON notes (usn);`
	idxCardsUsn   = `CREATE INDEX IF NOT EXISTS ix_cards_usn ON cards (usn);`
	idxRevlogUsn  = `CREATE INDEX IF NOT EXISTS ix_revlog_usn ON revlog (usn);`
	idxCardsNid   = `CREATE INDEX IF NOT EXISTS ix_cards_nid ON cards (nid);`
	idxCardsSched = `CREATE INDEX IF NOT EXISTS ix_cards_sched ON cards (did, queue, due);`
	idxRevlogCid  = `CREATE INDEX IF NOT EXISTS ix_revlog_cid ON revlog (cid);`
	idxNotesCsum  = `CREATE INDEX IF NOT EXISTS ix_notes_csum ON notes (csum);`
)

// schemaDDL lists all CREATE TABLE statements.
var schemaDDL = []string{
	createCol,
	createNotes,
	createCards,
	createRevlog,
	createGraves,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxNotesUsn,
	idxCardsUsn,
	idxRevlogUsn,
	idxCardsNid,
	idxCardsSched,
	idxRevlogCid,
	idxNotesCsum,
}

// recordTables are cleared before a save rewrites them.
var recordTables = []string{"col", "notes", "cards", "revlog", "graves"}

func createSchema(ctx context.Context, tx *sql.Tx) error {
	for _, stmt := range schemaDDL {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	for _, stmt := range indexDDL {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

func clearTables(ctx context.Context, tx *sql.Tx) error {
	for _, table := range recordTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

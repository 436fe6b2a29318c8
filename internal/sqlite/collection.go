package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/acp/internal/document"
	"github.com/mesh-intelligence/acp/internal/logging"
	"github.com/mesh-intelligence/acp/pkg/types"
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Option configures Load and Save.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger for debug output. The default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = logging.NewComponentLogger(o.logger, "sqlite")
	return o
}

// Load reads the collection database at path into memory.
func Load(ctx context.Context, path string, opts ...Option) (*types.Collection, error) {
	o := newOptions(opts)

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: collection database %s", types.ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: stat %s: %w", types.ErrIO, path, err)
	}

	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	col, err := loadCol(ctx, db)
	if err != nil {
		return nil, err
	}
	if col.Notes, err = queryRows(ctx, db, selectColumns("notes", noteColumns), scanNote); err != nil {
		return nil, storageError("query notes", err)
	}
	if col.Cards, err = queryRows(ctx, db, selectColumns("cards", cardColumns), scanCard); err != nil {
		return nil, storageError("query cards", err)
	}
	if col.ReviewLogs, err = queryRows(ctx, db, selectColumns("revlog", revlogColumns), scanReviewLog); err != nil {
		return nil, storageError("query revlog", err)
	}
	if col.Graves, err = queryRows(ctx, db, selectColumns("graves", graveColumns), scanGrave); err != nil {
		return nil, storageError("query graves", err)
	}

	o.logger.Debug("collection loaded",
		logging.String("path", path),
		logging.Int("models", col.Models.Len()),
		logging.Int("decks", col.Decks.Len()),
		logging.Int("notes", len(col.Notes)),
		logging.Int("cards", len(col.Cards)),
		logging.Int("revlog", len(col.ReviewLogs)),
		logging.Int("graves", len(col.Graves)),
	)
	return col, nil
}

func loadCol(ctx context.Context, db *sql.DB) (*types.Collection, error) {
	var (
		col                        types.Collection
		conf, models, decks, dconf string
	)
	var rows int
	if err := db.QueryRowContext(ctx, "SELECT count(*) FROM col").Scan(&rows); err != nil {
		return nil, storageError("count col rows", err)
	}
	switch {
	case rows == 0:
		return nil, fmt.Errorf("%w: col table is empty", types.ErrNotFound)
	case rows > 1:
		return nil, fmt.Errorf("%w: col table has %d rows, want 1", types.ErrStorage, rows)
	}

	row := db.QueryRowContext(ctx, selectColumns("col", colColumns))
	err := row.Scan(&col.ID, &col.Created, &col.Modified, &col.SchemaModified, &col.Version,
		&col.Dirty, &col.USN, &col.LastSync, &conf, &models, &decks, &dconf, &col.Tags)
	if err != nil {
		return nil, storageError("query col", err)
	}

	if col.Config, err = document.ParseSyncConfig(conf); err != nil {
		return nil, fmt.Errorf("col.conf: %w", err)
	}
	if col.Models, err = document.ParseModels(models); err != nil {
		return nil, fmt.Errorf("col.models: %w", err)
	}
	if col.Decks, err = document.ParseDecks(decks); err != nil {
		return nil, fmt.Errorf("col.decks: %w", err)
	}
	if col.DeckConfigs, err = document.ParseDeckConfigs(dconf); err != nil {
		return nil, fmt.Errorf("col.dconf: %w", err)
	}
	return &col, nil
}

// Save writes col to the database at path, creating it if needed. Every
// table is cleared and rewritten inside one transaction: on any failure the
// database keeps its previous contents.
func Save(ctx context.Context, col *types.Collection, path string, opts ...Option) error {
	o := newOptions(opts)

	// Serialize the documents before touching the database.
	conf, err := document.MarshalSyncConfig(col.Config)
	if err != nil {
		return fmt.Errorf("col.conf: %w", err)
	}
	models, err := document.MarshalModels(&col.Models)
	if err != nil {
		return fmt.Errorf("col.models: %w", err)
	}
	decks, err := document.MarshalDecks(&col.Decks)
	if err != nil {
		return fmt.Errorf("col.decks: %w", err)
	}
	dconf, err := document.MarshalDeckConfigs(&col.DeckConfigs)
	if err != nil {
		return fmt.Errorf("col.dconf: %w", err)
	}

	db, err := openDB(path, writePragmas...)
	if err != nil {
		return err
	}
	defer db.Close()

	var tx *sql.Tx
	if err := retryOnBusy(ctx, func() error {
		var beginErr error
		tx, beginErr = db.BeginTx(ctx, nil)
		return beginErr
	}); err != nil {
		return storageError("begin save transaction", err)
	}
	defer tx.Rollback()

	if err := createSchema(ctx, tx); err != nil {
		return storageError("create schema", err)
	}
	if err := clearTables(ctx, tx); err != nil {
		return storageError("clear tables", err)
	}

	err = insertRows(ctx, tx, "col", colColumns, 1, func(int) ([]any, error) {
		return []any{col.ID, col.Created, col.Modified, col.SchemaModified, col.Version,
			col.Dirty, col.USN, col.LastSync, conf, models, decks, dconf, col.Tags}, nil
	})
	if err != nil {
		return storageError("save col", err)
	}
	err = insertRows(ctx, tx, "notes", noteColumns, len(col.Notes), func(i int) ([]any, error) {
		return noteArgs(col.Notes[i]), nil
	})
	if err != nil {
		return storageError("save notes", err)
	}
	err = insertRows(ctx, tx, "cards", cardColumns, len(col.Cards), func(i int) ([]any, error) {
		return cardArgs(col.Cards[i]), nil
	})
	if err != nil {
		return storageError("save cards", err)
	}
	err = insertRows(ctx, tx, "revlog", revlogColumns, len(col.ReviewLogs), func(i int) ([]any, error) {
		return reviewLogArgs(col.ReviewLogs[i])
	})
	if err != nil {
		return storageError("save revlog", err)
	}
	err = insertRows(ctx, tx, "graves", graveColumns, len(col.Graves), func(i int) ([]any, error) {
		return graveArgs(col.Graves[i]), nil
	})
	if err != nil {
		return storageError("save graves", err)
	}

	if err := tx.Commit(); err != nil {
		return storageError("commit save transaction", err)
	}

	o.logger.Debug("collection saved",
		logging.String("path", path),
		logging.Int("notes", len(col.Notes)),
		logging.Int("cards", len(col.Cards)),
		logging.Int("revlog", len(col.ReviewLogs)),
		logging.Int("graves", len(col.Graves)),
	)
	return nil
}

// writePragmas apply on Save only; setting the journal mode rewrites the
// file header.
var writePragmas = []string{"PRAGMA journal_mode = DELETE"}

// openDB opens the database at path with a busy timeout plus any extra
// pragmas.
func openDB(path string, extra ...string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, storageError("open sqlite db", err)
	}
	// One connection keeps the transaction and its pragmas on the same handle.
	db.SetMaxOpenConns(1)

	pragmas := append([]string{"PRAGMA busy_timeout = 5000"}, extra...)
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, storageError(fmt.Sprintf("apply pragma %q", pragma), err)
		}
	}
	return db, nil
}

// storageError tags err as a storage failure unless it already carries a
// kind, such as an answer that cannot be encoded.
func storageError(op string, err error) error {
	if types.Kind(err) != "Unknown" {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", types.ErrStorage, op, err)
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

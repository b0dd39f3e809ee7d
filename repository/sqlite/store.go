// Package sqlite stores the ledger in a single SQLite file for small
// single-process deployments.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"casinobot/events"
	"casinobot/service"

	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"
)

const schema = `
CREATE TABLE IF NOT EXISTS ledger_entries (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    account_id      INTEGER NOT NULL,
    opening_balance TEXT NOT NULL,
    delta           TEXT NOT NULL,
    reason          TEXT NOT NULL DEFAULT '',
    kind            TEXT NOT NULL,
    metadata        TEXT,
    created_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_ledger_entries_account ON ledger_entries (account_id, id);

CREATE TABLE IF NOT EXISTS stock_positions (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    account_id INTEGER NOT NULL,
    symbol     TEXT NOT NULL,
    shares     TEXT NOT NULL,
    cost       TEXT NOT NULL,
    created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_stock_positions_account ON stock_positions (account_id, symbol);

CREATE TABLE IF NOT EXISTS game_results (
    session_id TEXT PRIMARY KEY,
    kind       TEXT NOT NULL,
    detail     TEXT NOT NULL,
    ended_at   INTEGER NOT NULL
);
`

// DB wraps the SQLite handle
type DB struct {
	*sql.DB
}

// Open opens (creating if needed) the database file and applies the schema.
// Transactions begin IMMEDIATE so a writer holds the file lock from its
// first read, which keeps read-then-append sequences serialized.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_txlock=immediate&_busy_timeout=5000&_foreign_keys=on", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply sqlite schema: %w", err)
	}

	log.WithField("path", path).Info("SQLite ledger opened")
	return &DB{DB: db}, nil
}

// NewUnitOfWorkFactory creates units of work over the database
func NewUnitOfWorkFactory(db *DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{db: db, eventBus: eventBus}
}

type unitOfWorkFactory struct {
	db       *DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

type unitOfWork struct {
	db               *DB
	tx               *sql.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	u.tx = tx
	u.ctx = ctx
	return nil
}

func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	if err := u.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	u.tx = nil
	return u.transactionalBus.Flush(u.ctx)
}

func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}
	err := u.tx.Rollback()
	u.tx = nil
	u.transactionalBus.Discard()
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

func (u *unitOfWork) mustTx() *sql.Tx {
	if u.tx == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.tx
}

func (u *unitOfWork) LedgerRepository() service.LedgerRepository {
	return &ledgerRepository{tx: u.mustTx()}
}

func (u *unitOfWork) StockRepository() service.StockRepository {
	return &stockRepository{tx: u.mustTx()}
}

func (u *unitOfWork) GameResultRepository() service.GameResultRepository {
	return &gameResultRepository{tx: u.mustTx()}
}

func (u *unitOfWork) EventBus() service.EventPublisher {
	return u.transactionalBus
}

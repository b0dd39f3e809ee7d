package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"casinobot/database"
	"casinobot/models"

	"github.com/jackc/pgx/v5"
)

// LedgerRepository implements the LedgerRepository interface on postgres
type LedgerRepository struct {
	q queryable
}

// NewLedgerRepository creates a ledger repository outside any unit of work.
// Lock has no lasting effect without a transaction.
func NewLedgerRepository(db *database.DB) *LedgerRepository {
	return &LedgerRepository{q: db.Pool}
}

func newLedgerRepositoryWithTx(tx queryable) *LedgerRepository {
	return &LedgerRepository{q: tx}
}

// Lock takes a transaction-scoped advisory lock keyed by the account ID
func (r *LedgerRepository) Lock(ctx context.Context, account models.AccountID) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(account)); err != nil {
		return fmt.Errorf("failed to lock account %d: %w", account, err)
	}
	return nil
}

// Latest returns the newest entry for the account, or nil when it has none
func (r *LedgerRepository) Latest(ctx context.Context, account models.AccountID) (*models.LedgerEntry, error) {
	query := `
		SELECT id, account_id, opening_balance, delta, reason, kind, metadata, created_at
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY id DESC
		LIMIT 1
	`

	entry, err := scanLedgerEntry(r.q.QueryRow(ctx, query, int64(account)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest ledger entry for account %d: %w", account, err)
	}
	return entry, nil
}

// Append inserts an entry. Entry IDs grow in write order per account because
// writers hold the account lock.
func (r *LedgerRepository) Append(ctx context.Context, entry *models.LedgerEntry) error {
	metadata, err := marshalMetadata(entry.Metadata)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO ledger_entries (account_id, opening_balance, delta, reason, kind, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, clock_timestamp())
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		int64(entry.AccountID),
		entry.OpeningBalance,
		entry.Delta,
		entry.Reason,
		string(entry.Kind),
		metadata,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry for account %d: %w", entry.AccountID, err)
	}
	return nil
}

// History returns the newest entries first
func (r *LedgerRepository) History(ctx context.Context, account models.AccountID, limit int) ([]*models.LedgerEntry, error) {
	query := `
		SELECT id, account_id, opening_balance, delta, reason, kind, metadata, created_at
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, int64(account), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger history for account %d: %w", account, err)
	}
	defer rows.Close()

	var entries []*models.LedgerEntry
	for rows.Next() {
		entry, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}
	return entries, nil
}

func scanLedgerEntry(row pgx.Row) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	var accountID int64
	var kind string
	var metadataJSON []byte

	err := row.Scan(
		&entry.ID,
		&accountID,
		&entry.OpeningBalance,
		&entry.Delta,
		&entry.Reason,
		&kind,
		&metadataJSON,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.AccountID = models.AccountID(accountID)
	entry.Kind = models.EntryKind(kind)
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &entry.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ledger metadata: %w", err)
		}
	}
	return &entry, nil
}

func marshalMetadata(metadata map[string]any) ([]byte, error) {
	if len(metadata) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ledger metadata: %w", err)
	}
	return data, nil
}

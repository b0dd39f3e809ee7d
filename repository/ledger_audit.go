package repository

import (
	"context"
	"fmt"

	"casinobot/database"
	"casinobot/models"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AuditAccount replays an account's whole ledger inside one repeatable-read
// transaction and reports entries that do not chain onto their predecessor.
func AuditAccount(ctx context.Context, db *database.DB, account models.AccountID, startingBalance decimal.Decimal) (*models.AuditReport, error) {
	var report *models.AuditReport

	err := db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SET TRANSACTION ISOLATION LEVEL REPEATABLE READ READ ONLY`); err != nil {
			return fmt.Errorf("failed to set isolation level: %w", err)
		}

		query := `
			SELECT id, account_id, opening_balance, delta, reason, kind, metadata, created_at
			FROM ledger_entries
			WHERE account_id = $1
			ORDER BY id ASC
		`
		rows, err := tx.Query(ctx, query, int64(account))
		if err != nil {
			return fmt.Errorf("failed to read ledger for account %d: %w", account, err)
		}
		defer rows.Close()

		var entries []*models.LedgerEntry
		for rows.Next() {
			entry, err := scanLedgerEntry(rows)
			if err != nil {
				return fmt.Errorf("failed to scan ledger entry: %w", err)
			}
			entries = append(entries, entry)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate ledger entries: %w", err)
		}

		report = models.VerifyChain(account, startingBalance, entries)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"casinobot/models"

	"github.com/shopspring/decimal"
)

// Amounts are stored as decimal text; sums happen in Go to stay exact.

type ledgerRepository struct {
	tx *sql.Tx
}

// Lock is a no-op; IMMEDIATE transactions already hold the write lock
func (r *ledgerRepository) Lock(ctx context.Context, account models.AccountID) error {
	return nil
}

const ledgerColumns = `id, account_id, opening_balance, delta, reason, kind, metadata, created_at`

func (r *ledgerRepository) Latest(ctx context.Context, account models.AccountID) (*models.LedgerEntry, error) {
	row := r.tx.QueryRowContext(ctx,
		`SELECT `+ledgerColumns+` FROM ledger_entries WHERE account_id = ? ORDER BY id DESC LIMIT 1`,
		int64(account))

	entry, err := scanLedgerEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read latest entry for account %d: %w", account, err)
	}
	return entry, nil
}

func (r *ledgerRepository) Append(ctx context.Context, entry *models.LedgerEntry) error {
	var metadata sql.NullString
	if len(entry.Metadata) > 0 {
		raw, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode entry metadata: %w", err)
		}
		metadata = sql.NullString{String: string(raw), Valid: true}
	}

	now := time.Now().UTC()
	res, err := r.tx.ExecContext(ctx,
		`INSERT INTO ledger_entries (account_id, opening_balance, delta, reason, kind, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		int64(entry.AccountID), entry.OpeningBalance.String(), entry.Delta.String(),
		entry.Reason, string(entry.Kind), metadata, now.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to append entry for account %d: %w", entry.AccountID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read entry id: %w", err)
	}
	entry.ID = id
	entry.CreatedAt = now
	return nil
}

func (r *ledgerRepository) History(ctx context.Context, account models.AccountID, limit int) ([]*models.LedgerEntry, error) {
	rows, err := r.tx.QueryContext(ctx,
		`SELECT `+ledgerColumns+` FROM ledger_entries WHERE account_id = ? ORDER BY id DESC LIMIT ?`,
		int64(account), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history for account %d: %w", account, err)
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
	return entries, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLedgerEntry(row scanner) (*models.LedgerEntry, error) {
	var (
		entry     models.LedgerEntry
		account   int64
		kind      string
		metadata  sql.NullString
		createdAt int64
	)
	if err := row.Scan(&entry.ID, &account, &entry.OpeningBalance, &entry.Delta,
		&entry.Reason, &kind, &metadata, &createdAt); err != nil {
		return nil, err
	}
	entry.AccountID = models.AccountID(account)
	entry.Kind = models.EntryKind(kind)
	entry.CreatedAt = time.Unix(0, createdAt).UTC()
	if metadata.Valid {
		if err := json.Unmarshal([]byte(metadata.String), &entry.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode entry metadata: %w", err)
		}
	}
	return &entry, nil
}

type stockRepository struct {
	tx *sql.Tx
}

func (r *stockRepository) Insert(ctx context.Context, position *models.StockPosition) error {
	now := time.Now().UTC()
	res, err := r.tx.ExecContext(ctx,
		`INSERT INTO stock_positions (account_id, symbol, shares, cost, created_at) VALUES (?, ?, ?, ?, ?)`,
		int64(position.AccountID), position.Symbol, position.Shares.String(), position.Cost.String(), now.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to insert stock position for account %d: %w", position.AccountID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read position id: %w", err)
	}
	position.ID = id
	position.CreatedAt = now
	return nil
}

func (r *stockRepository) Holding(ctx context.Context, account models.AccountID, symbol string) (*models.Holding, error) {
	positions, err := r.query(ctx, `WHERE account_id = ? AND symbol = ?`, int64(account), symbol)
	if err != nil {
		return nil, err
	}
	holding := &models.Holding{Symbol: symbol}
	for _, p := range positions {
		holding.Shares = holding.Shares.Add(p.Shares)
		holding.Cost = holding.Cost.Add(p.Cost)
	}
	return holding, nil
}

func (r *stockRepository) Holdings(ctx context.Context, account models.AccountID) ([]*models.Holding, error) {
	positions, err := r.query(ctx, `WHERE account_id = ?`, int64(account))
	if err != nil {
		return nil, err
	}
	return sumHoldings(positions), nil
}

func (r *stockRepository) History(ctx context.Context, account models.AccountID, limit int) ([]*models.StockPosition, error) {
	return r.query(ctx, `WHERE account_id = ? ORDER BY id DESC LIMIT ?`, int64(account), limit)
}

func (r *stockRepository) MarketHoldings(ctx context.Context) ([]*models.Holding, error) {
	positions, err := r.query(ctx, ``)
	if err != nil {
		return nil, err
	}
	holdings := sumHoldings(positions)
	sort.SliceStable(holdings, func(i, j int) bool {
		return holdings[i].Shares.GreaterThan(holdings[j].Shares)
	})
	return holdings, nil
}

func (r *stockRepository) query(ctx context.Context, where string, args ...any) ([]*models.StockPosition, error) {
	rows, err := r.tx.QueryContext(ctx,
		`SELECT id, account_id, symbol, shares, cost, created_at FROM stock_positions `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock positions: %w", err)
	}
	defer rows.Close()

	var positions []*models.StockPosition
	for rows.Next() {
		var (
			p         models.StockPosition
			account   int64
			createdAt int64
		)
		if err := rows.Scan(&p.ID, &account, &p.Symbol, &p.Shares, &p.Cost, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan stock position: %w", err)
		}
		p.AccountID = models.AccountID(account)
		p.CreatedAt = time.Unix(0, createdAt).UTC()
		positions = append(positions, &p)
	}
	return positions, rows.Err()
}

func sumHoldings(positions []*models.StockPosition) []*models.Holding {
	bySymbol := make(map[string]*models.Holding)
	for _, p := range positions {
		h, ok := bySymbol[p.Symbol]
		if !ok {
			h = &models.Holding{Symbol: p.Symbol, Shares: decimal.Zero, Cost: decimal.Zero}
			bySymbol[p.Symbol] = h
		}
		h.Shares = h.Shares.Add(p.Shares)
		h.Cost = h.Cost.Add(p.Cost)
	}

	out := make([]*models.Holding, 0, len(bySymbol))
	for _, h := range bySymbol {
		if !h.Shares.IsZero() {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

type gameResultRepository struct {
	tx *sql.Tx
}

func (r *gameResultRepository) Save(ctx context.Context, result *models.GameResult) error {
	detail, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode game result: %w", err)
	}
	_, err = r.tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO game_results (session_id, kind, detail, ended_at) VALUES (?, ?, ?, ?)`,
		result.SessionID.String(), string(result.Kind), string(detail), result.EndedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save game result %s: %w", result.SessionID, err)
	}
	return nil
}

func (r *gameResultRepository) Recent(ctx context.Context, kind models.GameKind, limit int) ([]*models.GameResult, error) {
	rows, err := r.tx.QueryContext(ctx,
		`SELECT detail FROM game_results WHERE kind = ? ORDER BY ended_at DESC LIMIT ?`, string(kind), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game results: %w", err)
	}
	defer rows.Close()

	var results []*models.GameResult
	for rows.Next() {
		var detail string
		if err := rows.Scan(&detail); err != nil {
			return nil, fmt.Errorf("failed to scan game result: %w", err)
		}
		var result models.GameResult
		if err := json.Unmarshal([]byte(detail), &result); err != nil {
			return nil, fmt.Errorf("failed to decode game result: %w", err)
		}
		results = append(results, &result)
	}
	return results, rows.Err()
}

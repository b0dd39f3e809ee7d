package repository

import (
	"context"
	"fmt"

	"casinobot/database"
	"casinobot/models"

	"github.com/shopspring/decimal"
)

// StockRepository implements the StockRepository interface on postgres
type StockRepository struct {
	q queryable
}

// NewStockRepository creates a new stock repository
func NewStockRepository(db *database.DB) *StockRepository {
	return &StockRepository{q: db.Pool}
}

func newStockRepositoryWithTx(tx queryable) *StockRepository {
	return &StockRepository{q: tx}
}

// Insert records a signed share movement
func (r *StockRepository) Insert(ctx context.Context, position *models.StockPosition) error {
	query := `
		INSERT INTO stock_positions (account_id, symbol, shares, cost)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		int64(position.AccountID),
		position.Symbol,
		position.Shares,
		position.Cost,
	).Scan(&position.ID, &position.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert stock position for account %d: %w", position.AccountID, err)
	}
	return nil
}

// Holding sums the shares and cost of one symbol
func (r *StockRepository) Holding(ctx context.Context, account models.AccountID, symbol string) (*models.Holding, error) {
	query := `
		SELECT COALESCE(SUM(shares), 0), COALESCE(SUM(cost), 0)
		FROM stock_positions
		WHERE account_id = $1 AND symbol = $2
	`

	holding := &models.Holding{Symbol: symbol}
	if err := r.q.QueryRow(ctx, query, int64(account), symbol).Scan(&holding.Shares, &holding.Cost); err != nil {
		return nil, fmt.Errorf("failed to sum %s holding for account %d: %w", symbol, account, err)
	}
	return holding, nil
}

// Holdings returns every symbol the account still holds
func (r *StockRepository) Holdings(ctx context.Context, account models.AccountID) ([]*models.Holding, error) {
	query := `
		SELECT symbol, SUM(shares), SUM(cost)
		FROM stock_positions
		WHERE account_id = $1
		GROUP BY symbol
		HAVING SUM(shares) <> 0
		ORDER BY symbol
	`
	return r.queryHoldings(ctx, query, int64(account))
}

// MarketHoldings sums shares per symbol across every account
func (r *StockRepository) MarketHoldings(ctx context.Context) ([]*models.Holding, error) {
	query := `
		SELECT symbol, SUM(shares), SUM(cost)
		FROM stock_positions
		GROUP BY symbol
		HAVING SUM(shares) <> 0
		ORDER BY SUM(shares) DESC, symbol
	`
	return r.queryHoldings(ctx, query)
}

// History returns the newest position rows first
func (r *StockRepository) History(ctx context.Context, account models.AccountID, limit int) ([]*models.StockPosition, error) {
	query := `
		SELECT id, account_id, symbol, shares, cost, created_at
		FROM stock_positions
		WHERE account_id = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, int64(account), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get stock history for account %d: %w", account, err)
	}
	defer rows.Close()

	var positions []*models.StockPosition
	for rows.Next() {
		var p models.StockPosition
		var accountID int64
		if err := rows.Scan(&p.ID, &accountID, &p.Symbol, &p.Shares, &p.Cost, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stock position: %w", err)
		}
		p.AccountID = models.AccountID(accountID)
		positions = append(positions, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stock positions: %w", err)
	}
	return positions, nil
}

func (r *StockRepository) queryHoldings(ctx context.Context, query string, args ...any) ([]*models.Holding, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get holdings: %w", err)
	}
	defer rows.Close()

	var holdings []*models.Holding
	for rows.Next() {
		h := &models.Holding{Shares: decimal.Zero, Cost: decimal.Zero}
		if err := rows.Scan(&h.Symbol, &h.Shares, &h.Cost); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holdings: %w", err)
	}
	return holdings, nil
}

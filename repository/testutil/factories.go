package testutil

import (
	"time"

	"casinobot/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTestEntry builds an unsaved ledger entry
func CreateTestEntry(account models.AccountID, opening, delta int64, kind models.EntryKind) *models.LedgerEntry {
	return &models.LedgerEntry{
		AccountID:      account,
		OpeningBalance: decimal.NewFromInt(opening),
		Delta:          decimal.NewFromInt(delta),
		Reason:         "test entry",
		Kind:           kind,
		Metadata:       map[string]any{"test": true},
	}
}

// CreateTestPosition builds an unsaved stock position
func CreateTestPosition(account models.AccountID, symbol string, shares, cost int64) *models.StockPosition {
	return &models.StockPosition{
		AccountID: account,
		Symbol:    symbol,
		Shares:    decimal.NewFromInt(shares),
		Cost:      decimal.NewFromInt(cost),
	}
}

// CreateTestGameResult builds a finished cups result
func CreateTestGameResult(player models.AccountID, wagered, paid int64) *models.GameResult {
	ended := time.Now().UTC().Truncate(time.Millisecond)
	return &models.GameResult{
		SessionID: uuid.New(),
		Kind:      models.GameKindCups,
		Players:   []models.AccountID{player},
		Status:    models.SessionStatusWin,
		Wagered:   decimal.NewFromInt(wagered),
		PaidOut:   decimal.NewFromInt(paid),
		Escrow:    []models.Stake{{Account: player, Amount: decimal.NewFromInt(wagered)}},
		Payouts:   []models.Stake{{Account: player, Amount: decimal.NewFromInt(paid)}},
		StartedAt: ended.Add(-time.Minute),
		EndedAt:   ended,
	}
}

package service

import (
	"context"

	"casinobot/events"
	"casinobot/models"

	"github.com/shopspring/decimal"
)

// LedgerRepository defines access to the append-only ledger
type LedgerRepository interface {
	// Lock serializes writers to one account until the unit of work ends
	Lock(ctx context.Context, account models.AccountID) error

	// Latest returns the most recent entry for an account, or nil when it has none
	Latest(ctx context.Context, account models.AccountID) (*models.LedgerEntry, error)

	// Append writes a new entry and fills in its ID and CreatedAt
	Append(ctx context.Context, entry *models.LedgerEntry) error

	// History returns the newest entries for an account first
	History(ctx context.Context, account models.AccountID, limit int) ([]*models.LedgerEntry, error)
}

// StockRepository defines access to stock position rows
type StockRepository interface {
	// Insert records a signed share movement
	Insert(ctx context.Context, position *models.StockPosition) error

	// Holding sums one symbol for an account; a symbol never traded sums to zero
	Holding(ctx context.Context, account models.AccountID, symbol string) (*models.Holding, error)

	// Holdings returns every symbol with a non-zero share total for an account
	Holdings(ctx context.Context, account models.AccountID) ([]*models.Holding, error)

	// History returns the newest position rows for an account first
	History(ctx context.Context, account models.AccountID, limit int) ([]*models.StockPosition, error)

	// MarketHoldings sums every account's shares per symbol
	MarketHoldings(ctx context.Context) ([]*models.Holding, error)
}

// GameResultRepository stores archived game results
type GameResultRepository interface {
	Save(ctx context.Context, result *models.GameResult) error
	Recent(ctx context.Context, kind models.GameKind, limit int) ([]*models.GameResult, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes published events
	Commit() error

	// Rollback rolls back the transaction; it is a no-op after Commit
	Rollback() error

	LedgerRepository() LedgerRepository
	StockRepository() StockRepository
	GameResultRepository() GameResultRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// BalanceService is the typed account balance API
type BalanceService interface {
	// Balance returns the derived balance of an account
	Balance(ctx context.Context, account models.AccountID) (decimal.Decimal, error)

	// Add credits an account; a zero amount writes nothing
	Add(ctx context.Context, account models.AccountID, amount decimal.Decimal, reason string) (decimal.Decimal, error)

	// Subtract debits an account without checking funds; a zero amount writes nothing
	Subtract(ctx context.Context, account models.AccountID, amount decimal.Decimal, reason string) (decimal.Decimal, error)

	// Debit subtracts only when the account holds at least amount
	Debit(ctx context.Context, account models.AccountID, amount decimal.Decimal, reason string) (decimal.Decimal, error)

	// Set forces the balance to amount by appending the difference
	Set(ctx context.Context, account models.AccountID, amount decimal.Decimal, reason string) (decimal.Decimal, error)

	// Compare returns -1, 0 or 1 as the balance is below, equal to or above threshold
	Compare(ctx context.Context, account models.AccountID, threshold decimal.Decimal) (int, error)

	// HasAtLeast reports whether the balance covers amount
	HasAtLeast(ctx context.Context, account models.AccountID, amount decimal.Decimal) (bool, error)

	// History returns recent ledger entries for an account
	History(ctx context.Context, account models.AccountID, limit int) ([]*models.LedgerEntry, error)
}

// TransferService moves currency between players
type TransferService interface {
	Pay(ctx context.Context, from, to models.AccountID, amount decimal.Decimal) (*models.TransferResult, error)
}

// AdminService exposes privileged balance operations
type AdminService interface {
	SetBalance(ctx context.Context, actor, target models.AccountID, amount decimal.Decimal) (decimal.Decimal, error)
	GiveBalance(ctx context.Context, actor, target models.AccountID, amount decimal.Decimal) (decimal.Decimal, error)
}

// PortfolioService trades simulated stock positions against the ledger
type PortfolioService interface {
	Buy(ctx context.Context, account models.AccountID, symbol string, shares decimal.Decimal, unitPrice decimal.Decimal) (*models.TradeResult, error)
	Sell(ctx context.Context, account models.AccountID, symbol string, shares decimal.Decimal, unitPrice decimal.Decimal) (*models.TradeResult, error)
	Portfolio(ctx context.Context, account models.AccountID) ([]*models.Holding, error)
	History(ctx context.Context, account models.AccountID, limit int) ([]*models.StockPosition, error)
	MarketHoldings(ctx context.Context) ([]*models.Holding, error)
}

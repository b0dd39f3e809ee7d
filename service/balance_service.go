package service

import (
	"context"

	"casinobot/models"

	"github.com/shopspring/decimal"
)

type balanceService struct {
	ledgerWriter
}

// NewBalanceService creates a balance service over the ledger.
// Accounts without history hold startingBalance.
func NewBalanceService(uowFactory UnitOfWorkFactory, startingBalance decimal.Decimal) BalanceService {
	return &balanceService{
		ledgerWriter: ledgerWriter{uowFactory: uowFactory, startingBalance: startingBalance},
	}
}

func (s *balanceService) Balance(ctx context.Context, account models.AccountID) (decimal.Decimal, error) {
	return s.balance(ctx, account)
}

func (s *balanceService) Add(ctx context.Context, account models.AccountID, amount decimal.Decimal, reason string) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return s.change(ctx, posting{account: account, delta: amount, reason: reason, kind: models.EntryKindAdjustment})
}

func (s *balanceService) Subtract(ctx context.Context, account models.AccountID, amount decimal.Decimal, reason string) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return s.change(ctx, posting{account: account, delta: amount.Neg(), reason: reason, kind: models.EntryKindAdjustment})
}

func (s *balanceService) Debit(ctx context.Context, account models.AccountID, amount decimal.Decimal, reason string) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return s.change(ctx, posting{account: account, delta: amount.Neg(), reason: reason, kind: models.EntryKindAdjustment, requireFunds: true})
}

func (s *balanceService) Set(ctx context.Context, account models.AccountID, amount decimal.Decimal, reason string) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	if !account.Valid() {
		return decimal.Zero, ErrInvalidAccount
	}

	balances, err := s.post(ctx, posting{account: account, target: &amount, reason: reason, kind: models.EntryKindAdminSet})
	if err != nil {
		return decimal.Zero, err
	}
	return balances[account], nil
}

func (s *balanceService) Compare(ctx context.Context, account models.AccountID, threshold decimal.Decimal) (int, error) {
	balance, err := s.balance(ctx, account)
	if err != nil {
		return 0, err
	}
	return balance.Cmp(threshold), nil
}

func (s *balanceService) HasAtLeast(ctx context.Context, account models.AccountID, amount decimal.Decimal) (bool, error) {
	cmp, err := s.Compare(ctx, account, amount)
	if err != nil {
		return false, err
	}
	return cmp >= 0, nil
}

func (s *balanceService) History(ctx context.Context, account models.AccountID, limit int) ([]*models.LedgerEntry, error) {
	if !account.Valid() {
		return nil, ErrInvalidAccount
	}
	if limit <= 0 {
		limit = 10
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, infraError("begin transaction", err)
	}
	defer uow.Rollback()

	entries, err := uow.LedgerRepository().History(ctx, account, limit)
	if err != nil {
		return nil, infraError("read ledger history", err)
	}
	return entries, nil
}

// change posts a single signed delta. Zero is a no-op that still reports the balance.
func (s *balanceService) change(ctx context.Context, p posting) (decimal.Decimal, error) {
	if !p.account.Valid() {
		return decimal.Zero, ErrInvalidAccount
	}
	if p.delta.IsZero() {
		return s.balance(ctx, p.account)
	}
	balances, err := s.post(ctx, p)
	if err != nil {
		return decimal.Zero, err
	}
	return balances[p.account], nil
}

package service

import (
	"context"
	"sort"

	"casinobot/events"
	"casinobot/models"

	"github.com/shopspring/decimal"
)

// posting is one requested change to an account balance
type posting struct {
	account      models.AccountID
	delta        decimal.Decimal
	target       *decimal.Decimal // when set, delta is computed as target - balance
	reason       string
	kind         models.EntryKind
	metadata     map[string]any
	requireFunds bool
}

// applyPostings appends ledger entries for the postings inside an open unit of work.
// Every account touched is locked in ascending order before any balance is read,
// so concurrent writers to the same account serialize and cannot deadlock.
// Zero deltas are skipped. The returned map holds the resulting balance of every
// touched account.
func applyPostings(ctx context.Context, uow UnitOfWork, startingBalance decimal.Decimal, postings []posting) (map[models.AccountID]decimal.Decimal, error) {
	ledger := uow.LedgerRepository()

	accounts := make([]models.AccountID, 0, len(postings))
	seen := make(map[models.AccountID]bool, len(postings))
	for _, p := range postings {
		if !p.account.Valid() {
			return nil, ErrInvalidAccount
		}
		if !seen[p.account] {
			seen[p.account] = true
			accounts = append(accounts, p.account)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i] < accounts[j] })

	balances := make(map[models.AccountID]decimal.Decimal, len(accounts))
	for _, account := range accounts {
		if err := ledger.Lock(ctx, account); err != nil {
			return nil, infraError("lock account", err)
		}
		latest, err := ledger.Latest(ctx, account)
		if err != nil {
			return nil, infraError("read balance", err)
		}
		balances[account] = balanceOf(latest, startingBalance)
	}

	for _, p := range postings {
		before := balances[p.account]
		delta := p.delta
		if p.target != nil {
			delta = p.target.Sub(before)
		}
		if delta.IsZero() {
			continue
		}
		if p.requireFunds && before.Add(delta).IsNegative() {
			return nil, &InsufficientFundsError{Account: p.account, Balance: before, Requested: delta.Neg()}
		}

		entry := &models.LedgerEntry{
			AccountID:      p.account,
			OpeningBalance: before,
			Delta:          delta,
			Reason:         p.reason,
			Kind:           p.kind,
			Metadata:       p.metadata,
		}
		if err := ledger.Append(ctx, entry); err != nil {
			return nil, infraError("append ledger entry", err)
		}
		balances[p.account] = entry.Balance()

		uow.EventBus().Publish(events.BalanceChangeEvent{
			AccountID:  entry.AccountID,
			EntryID:    entry.ID,
			OldBalance: before,
			NewBalance: entry.Balance(),
			Delta:      delta,
			Kind:       entry.Kind,
			Reason:     entry.Reason,
		})
	}

	return balances, nil
}

// balanceOf derives the current balance from the latest entry
func balanceOf(latest *models.LedgerEntry, startingBalance decimal.Decimal) decimal.Decimal {
	if latest == nil {
		return startingBalance
	}
	return latest.Balance()
}

// ledgerWriter runs postings in their own unit of work
type ledgerWriter struct {
	uowFactory      UnitOfWorkFactory
	startingBalance decimal.Decimal
}

func (w *ledgerWriter) post(ctx context.Context, postings ...posting) (map[models.AccountID]decimal.Decimal, error) {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, infraError("begin transaction", err)
	}
	defer uow.Rollback()

	balances, err := applyPostings(ctx, uow, w.startingBalance, postings)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, infraError("commit transaction", err)
	}
	return balances, nil
}

func (w *ledgerWriter) balance(ctx context.Context, account models.AccountID) (decimal.Decimal, error) {
	if !account.Valid() {
		return decimal.Zero, ErrInvalidAccount
	}

	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return decimal.Zero, infraError("begin transaction", err)
	}
	defer uow.Rollback()

	latest, err := uow.LedgerRepository().Latest(ctx, account)
	if err != nil {
		return decimal.Zero, infraError("read balance", err)
	}
	return balanceOf(latest, w.startingBalance), nil
}

package service

import (
	"context"

	"casinobot/models"

	"github.com/shopspring/decimal"
)

// EscrowService moves wagered funds between players and game sessions.
// With house mirroring every leg is matched by the opposite entry on the
// house account in the same transaction, so the house balance tracks how
// the games are doing.
type EscrowService struct {
	ledgerWriter
	house  models.AccountID
	mirror bool
}

// NewEscrowService creates an escrow service. Pass mirror=false for
// player-versus-player games where the house is not a counterparty.
func NewEscrowService(uowFactory UnitOfWorkFactory, startingBalance decimal.Decimal, house models.AccountID, mirror bool) *EscrowService {
	return &EscrowService{
		ledgerWriter: ledgerWriter{uowFactory: uowFactory, startingBalance: startingBalance},
		house:        house,
		mirror:       mirror && house.Valid(),
	}
}

// Balance returns the player's current balance
func (s *EscrowService) Balance(ctx context.Context, account models.AccountID) (decimal.Decimal, error) {
	return s.balance(ctx, account)
}

// Hold debits a stake from its owner, failing with ErrInsufficientFunds
// before anything is written when the balance does not cover it.
func (s *EscrowService) Hold(ctx context.Context, stake models.Stake, reason string) error {
	if !stake.Amount.IsPositive() {
		return nil
	}

	postings := []posting{{
		account:      stake.Account,
		delta:        stake.Amount.Neg(),
		reason:       reason,
		kind:         models.EntryKindEscrow,
		requireFunds: true,
	}}
	if s.mirror && stake.Account != s.house {
		postings = append(postings, posting{
			account:  s.house,
			delta:    stake.Amount,
			reason:   reason,
			kind:     models.EntryKindHouse,
			metadata: map[string]any{"player": stake.Account.String()},
		})
	}

	_, err := s.post(ctx, postings...)
	return err
}

// Pay credits every non-zero stake in one transaction
func (s *EscrowService) Pay(ctx context.Context, credits []models.Stake, reason string) error {
	return s.credit(ctx, credits, reason, models.EntryKindSettlement)
}

// Refund returns held stakes to their owners
func (s *EscrowService) Refund(ctx context.Context, stakes []models.Stake, reason string) error {
	return s.credit(ctx, stakes, reason, models.EntryKindRefund)
}

func (s *EscrowService) credit(ctx context.Context, credits []models.Stake, reason string, kind models.EntryKind) error {
	var postings []posting
	for _, c := range credits {
		if !c.Amount.IsPositive() {
			continue
		}
		postings = append(postings, posting{
			account: c.Account,
			delta:   c.Amount,
			reason:  reason,
			kind:    kind,
		})
		if s.mirror && c.Account != s.house {
			postings = append(postings, posting{
				account:  s.house,
				delta:    c.Amount.Neg(),
				reason:   reason,
				kind:     models.EntryKindHouse,
				metadata: map[string]any{"player": c.Account.String()},
			})
		}
	}
	if len(postings) == 0 {
		return nil
	}

	_, err := s.post(ctx, postings...)
	return err
}

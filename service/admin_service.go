package service

import (
	"context"
	"fmt"

	"casinobot/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type adminService struct {
	ledgerWriter
	owners map[models.AccountID]bool
}

// NewAdminService creates the privileged balance service.
// Only the given owner accounts may use it.
func NewAdminService(uowFactory UnitOfWorkFactory, startingBalance decimal.Decimal, owners []int64) AdminService {
	allowed := make(map[models.AccountID]bool, len(owners))
	for _, id := range owners {
		allowed[models.AccountID(id)] = true
	}
	return &adminService{
		ledgerWriter: ledgerWriter{uowFactory: uowFactory, startingBalance: startingBalance},
		owners:       allowed,
	}
}

func (s *adminService) SetBalance(ctx context.Context, actor, target models.AccountID, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := s.authorize(actor, target); err != nil {
		return decimal.Zero, err
	}
	if amount.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}

	balances, err := s.post(ctx, posting{
		account:  target,
		target:   &amount,
		reason:   fmt.Sprintf("Balance set by %d", actor),
		kind:     models.EntryKindAdminSet,
		metadata: map[string]any{"actor": actor.String()},
	})
	if err != nil {
		return decimal.Zero, err
	}

	log.WithFields(log.Fields{
		"actor":  actor,
		"target": target,
		"amount": amount.String(),
	}).Warn("Balance set by owner")
	return balances[target], nil
}

func (s *adminService) GiveBalance(ctx context.Context, actor, target models.AccountID, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := s.authorize(actor, target); err != nil {
		return decimal.Zero, err
	}
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}

	balances, err := s.post(ctx, posting{
		account:  target,
		delta:    amount,
		reason:   fmt.Sprintf("Gift from %d", actor),
		kind:     models.EntryKindAdminGive,
		metadata: map[string]any{"actor": actor.String()},
	})
	if err != nil {
		return decimal.Zero, err
	}

	log.WithFields(log.Fields{
		"actor":  actor,
		"target": target,
		"amount": amount.String(),
	}).Warn("Balance given by owner")
	return balances[target], nil
}

func (s *adminService) authorize(actor, target models.AccountID) error {
	if !target.Valid() {
		return ErrInvalidAccount
	}
	if !s.owners[actor] {
		return ErrNotPermitted
	}
	return nil
}

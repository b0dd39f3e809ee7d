package service

import (
	"context"
	"fmt"

	"casinobot/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type transferService struct {
	ledgerWriter
}

// NewTransferService creates a new transfer service
func NewTransferService(uowFactory UnitOfWorkFactory, startingBalance decimal.Decimal) TransferService {
	return &transferService{
		ledgerWriter: ledgerWriter{uowFactory: uowFactory, startingBalance: startingBalance},
	}
}

// Pay moves amount from one player to another. Both legs commit together.
func (s *transferService) Pay(ctx context.Context, from, to models.AccountID, amount decimal.Decimal) (*models.TransferResult, error) {
	if !from.Valid() || !to.Valid() {
		return nil, ErrInvalidAccount
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if from == to {
		return nil, ErrSelfTransfer
	}

	balances, err := s.post(ctx,
		posting{
			account:      from,
			delta:        amount.Neg(),
			reason:       fmt.Sprintf("Payment to %d", to),
			kind:         models.EntryKindPaymentOut,
			metadata:     map[string]any{"recipient": to.String()},
			requireFunds: true,
		},
		posting{
			account:  to,
			delta:    amount,
			reason:   fmt.Sprintf("Payment from %d", from),
			kind:     models.EntryKindPaymentIn,
			metadata: map[string]any{"sender": from.String()},
		},
	)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"from":   from,
		"to":     to,
		"amount": amount.String(),
	}).Info("Payment completed")

	return &models.TransferResult{
		From:          from,
		To:            to,
		Amount:        amount,
		SenderBalance: balances[from],
	}, nil
}

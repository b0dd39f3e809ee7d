package service

import (
	"errors"
	"fmt"

	"casinobot/models"

	"github.com/shopspring/decimal"
)

// Domain errors. They are reported to the user and never leave a partial write.
var (
	ErrInvalidAccount     = models.ErrInvalidAccount
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrSelfTransfer       = errors.New("cannot pay yourself")
	ErrNotPermitted       = errors.New("not permitted")
	ErrInvalidSymbol      = errors.New("invalid stock symbol")
	ErrInsufficientShares = errors.New("insufficient shares")
)

// InfraError wraps a persistence failure. Callers may retry the operation.
type InfraError struct {
	Op  string
	Err error
}

func (e *InfraError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *InfraError) Unwrap() error {
	return e.Err
}

// Retryable is always true; domain errors are never wrapped in InfraError
func (e *InfraError) Retryable() bool {
	return true
}

// IsRetryable reports whether err was caused by infrastructure rather than the request
func IsRetryable(err error) bool {
	var infra *InfraError
	return errors.As(err, &infra)
}

func infraError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &InfraError{Op: op, Err: err}
}

// InsufficientFundsError carries the balance that was too low
type InsufficientFundsError struct {
	Account   models.AccountID
	Balance   decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for %d: have %s, need %s", e.Account, e.Balance, e.Requested)
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

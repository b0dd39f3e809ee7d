package service

import (
	"context"
	"errors"
	"testing"

	"casinobot/events"
	"casinobot/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var startingBalance = decimal.NewFromInt(500)

func entryWithBalance(account models.AccountID, balance int64) *models.LedgerEntry {
	return &models.LedgerEntry{
		ID:             1,
		AccountID:      account,
		OpeningBalance: decimal.NewFromInt(balance),
		Delta:          decimal.Zero,
		Kind:           models.EntryKindAdjustment,
	}
}

func setupBalanceMocks() (*MockUnitOfWorkFactory, *MockUnitOfWork, *MockLedgerRepository, *MockEventPublisher) {
	mockFactory := new(MockUnitOfWorkFactory)
	mockUoW := new(MockUnitOfWork)
	mockLedger := new(MockLedgerRepository)
	mockPublisher := new(MockEventPublisher)

	mockUoW.SetRepositories(mockLedger, nil, nil)
	mockUoW.SetEventBus(mockPublisher)
	mockFactory.On("Create").Return(mockUoW)
	return mockFactory, mockUoW, mockLedger, mockPublisher
}

func TestBalanceService_Balance_NoHistory(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockLedger, _ := setupBalanceMocks()

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockLedger.On("Latest", ctx, models.AccountID(123)).Return(nil, nil)

	service := NewBalanceService(mockFactory, startingBalance)
	balance, err := service.Balance(ctx, 123)

	require.NoError(t, err)
	assert.True(t, balance.Equal(startingBalance))
	mockLedger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	mockUoW.AssertExpectations(t)
}

func TestBalanceService_Add_AppendsEntryAndPublishes(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockLedger, mockPublisher := setupBalanceMocks()

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockLedger.On("Lock", ctx, models.AccountID(123)).Return(nil)
	mockLedger.On("Latest", ctx, models.AccountID(123)).Return(entryWithBalance(123, 200), nil)
	mockLedger.On("Append", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.AccountID == 123 &&
			e.OpeningBalance.Equal(decimal.NewFromInt(200)) &&
			e.Delta.Equal(decimal.NewFromInt(25)) &&
			e.Reason == "bonus"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.LedgerEntry).ID = 77
	}).Return(nil)
	mockPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		change, ok := e.(events.BalanceChangeEvent)
		return ok && change.EntryID == 77 && change.NewBalance.Equal(decimal.NewFromInt(225))
	})).Return()

	service := NewBalanceService(mockFactory, startingBalance)
	balance, err := service.Add(ctx, 123, decimal.NewFromInt(25), "bonus")

	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(225)))
	mockUoW.AssertExpectations(t)
	mockLedger.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestBalanceService_Add_ZeroWritesNothing(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockLedger, mockPublisher := setupBalanceMocks()

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockLedger.On("Latest", ctx, models.AccountID(123)).Return(entryWithBalance(123, 40), nil)

	service := NewBalanceService(mockFactory, startingBalance)
	balance, err := service.Add(ctx, 123, decimal.Zero, "nothing")

	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(40)))
	mockLedger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
	mockPublisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestBalanceService_Debit_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockLedger, mockPublisher := setupBalanceMocks()

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockLedger.On("Lock", ctx, models.AccountID(123)).Return(nil)
	mockLedger.On("Latest", ctx, models.AccountID(123)).Return(entryWithBalance(123, 5), nil)

	service := NewBalanceService(mockFactory, startingBalance)
	_, err := service.Debit(ctx, 123, decimal.NewFromInt(10), "too much")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientFunds))
	assert.False(t, IsRetryable(err))

	var funds *InsufficientFundsError
	require.True(t, errors.As(err, &funds))
	assert.True(t, funds.Balance.Equal(decimal.NewFromInt(5)))

	mockLedger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
	mockPublisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestBalanceService_Subtract_AllowsNegative(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockLedger, mockPublisher := setupBalanceMocks()

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockLedger.On("Lock", ctx, models.AccountID(123)).Return(nil)
	mockLedger.On("Latest", ctx, models.AccountID(123)).Return(entryWithBalance(123, 5), nil)
	mockLedger.On("Append", ctx, mock.Anything).Return(nil)
	mockPublisher.On("Publish", mock.Anything).Return()

	service := NewBalanceService(mockFactory, startingBalance)
	balance, err := service.Subtract(ctx, 123, decimal.NewFromInt(10), "penalty")

	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(-5)))
}

func TestBalanceService_Set_SameBalanceWritesNothing(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockLedger, mockPublisher := setupBalanceMocks()

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockLedger.On("Lock", ctx, models.AccountID(123)).Return(nil)
	mockLedger.On("Latest", ctx, models.AccountID(123)).Return(entryWithBalance(123, 300), nil)

	service := NewBalanceService(mockFactory, startingBalance)
	balance, err := service.Set(ctx, 123, decimal.NewFromInt(300), "reset")

	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(300)))
	mockLedger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	mockPublisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestBalanceService_InfrastructureErrorIsRetryable(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockLedger, _ := setupBalanceMocks()

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockLedger.On("Lock", ctx, models.AccountID(123)).Return(nil)
	mockLedger.On("Latest", ctx, models.AccountID(123)).Return(nil, errors.New("connection reset"))

	service := NewBalanceService(mockFactory, startingBalance)
	_, err := service.Add(ctx, 123, decimal.NewFromInt(1), "retry me")

	require.Error(t, err)
	assert.True(t, IsRetryable(err))
	assert.Contains(t, err.Error(), "read balance")
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestBalanceService_RejectsBadInput(t *testing.T) {
	ctx := context.Background()
	mockFactory := new(MockUnitOfWorkFactory)
	service := NewBalanceService(mockFactory, startingBalance)

	_, err := service.Add(ctx, 123, decimal.NewFromInt(-1), "negative")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = service.Debit(ctx, 0, decimal.NewFromInt(1), "no account")
	assert.ErrorIs(t, err, ErrInvalidAccount)

	_, err = service.Set(ctx, 123, decimal.NewFromInt(-10), "negative set")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	mockFactory.AssertNotCalled(t, "Create")
}

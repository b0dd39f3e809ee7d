package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"casinobot/events"
	"casinobot/models"
	"casinobot/repository/memory"
	"casinobot/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var starting = decimal.NewFromInt(500)

func newFactory(bus *events.Bus) service.UnitOfWorkFactory {
	return memory.NewUnitOfWorkFactory(memory.NewStore(), bus)
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestTransferService_Pay(t *testing.T) {
	ctx := context.Background()
	factory := newFactory(events.NewBus())
	transfers := service.NewTransferService(factory, starting)
	balances := service.NewBalanceService(factory, starting)

	t.Run("moves funds atomically", func(t *testing.T) {
		result, err := transfers.Pay(ctx, 10, 11, dec(120))
		require.NoError(t, err)
		assert.True(t, result.SenderBalance.Equal(dec(380)))

		recipient, err := balances.Balance(ctx, 11)
		require.NoError(t, err)
		assert.True(t, recipient.Equal(dec(620)))

		history, err := balances.History(ctx, 10, 1)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, "Payment to 11", history[0].Reason)
		assert.Equal(t, models.EntryKindPaymentOut, history[0].Kind)
	})

	t.Run("insufficient funds writes nothing", func(t *testing.T) {
		_, err := transfers.Pay(ctx, 10, 11, dec(10_000))
		require.ErrorIs(t, err, service.ErrInsufficientFunds)

		recipient, err := balances.Balance(ctx, 11)
		require.NoError(t, err)
		assert.True(t, recipient.Equal(dec(620)))
	})

	t.Run("rejects bad requests", func(t *testing.T) {
		_, err := transfers.Pay(ctx, 10, 10, dec(1))
		assert.ErrorIs(t, err, service.ErrSelfTransfer)
		_, err = transfers.Pay(ctx, 10, 11, dec(0))
		assert.ErrorIs(t, err, service.ErrInvalidAmount)
		_, err = transfers.Pay(ctx, 10, 0, dec(1))
		assert.ErrorIs(t, err, service.ErrInvalidAccount)
	})
}

func TestAdminService(t *testing.T) {
	ctx := context.Background()
	factory := newFactory(events.NewBus())
	admin := service.NewAdminService(factory, starting, []int64{999})
	balances := service.NewBalanceService(factory, starting)

	_, err := admin.SetBalance(ctx, 5, 6, dec(1000))
	assert.ErrorIs(t, err, service.ErrNotPermitted)

	balance, err := admin.SetBalance(ctx, 999, 6, dec(1000))
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec(1000)))

	balance, err = admin.GiveBalance(ctx, 999, 6, dec(50))
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec(1050)))

	history, err := balances.History(ctx, 6, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.EntryKindAdminGive, history[0].Kind)
	assert.Equal(t, models.EntryKindAdminSet, history[1].Kind)
	assert.True(t, history[1].Delta.Equal(dec(500)))
}

func TestEscrowService_ConservesFundsWithHouse(t *testing.T) {
	ctx := context.Background()
	factory := newFactory(events.NewBus())
	escrow := service.NewEscrowService(factory, starting, 1, true)
	balances := service.NewBalanceService(factory, starting)

	total := func() decimal.Decimal {
		sum := decimal.Zero
		for _, a := range []models.AccountID{1, 20, 21} {
			b, err := balances.Balance(ctx, a)
			require.NoError(t, err)
			sum = sum.Add(b)
		}
		return sum
	}
	before := total()

	require.NoError(t, escrow.Hold(ctx, models.Stake{Account: 20, Amount: dec(10)}, "Slots game"))
	require.NoError(t, escrow.Hold(ctx, models.Stake{Account: 21, Amount: dec(30)}, "Slots game"))
	require.NoError(t, escrow.Pay(ctx, []models.Stake{{Account: 20, Amount: dec(25)}}, "Slots game"))
	require.NoError(t, escrow.Refund(ctx, []models.Stake{{Account: 21, Amount: dec(30)}}, "Slots game"))

	assert.True(t, total().Equal(before), "house mirroring must conserve the total")

	err := escrow.Hold(ctx, models.Stake{Account: 20, Amount: dec(10_000)}, "Slots game")
	var funds *service.InsufficientFundsError
	require.True(t, errors.As(err, &funds))
	assert.True(t, funds.Balance.Equal(dec(515)))
}

func TestEscrowService_NoMirrorLeavesHouseAlone(t *testing.T) {
	ctx := context.Background()
	factory := newFactory(events.NewBus())
	escrow := service.NewEscrowService(factory, starting, 1, false)
	balances := service.NewBalanceService(factory, starting)

	require.NoError(t, escrow.Hold(ctx, models.Stake{Account: 30, Amount: dec(50)}, "Connect Four"))
	require.NoError(t, escrow.Hold(ctx, models.Stake{Account: 31, Amount: dec(50)}, "Connect Four"))
	require.NoError(t, escrow.Pay(ctx, []models.Stake{{Account: 31, Amount: dec(100)}}, "Connect Four"))

	house, err := balances.HasAtLeast(ctx, 1, starting)
	require.NoError(t, err)
	assert.True(t, house)

	winner, err := balances.Balance(ctx, 31)
	require.NoError(t, err)
	assert.True(t, winner.Equal(dec(550)))
}

func TestPortfolioService(t *testing.T) {
	ctx := context.Background()
	bus := events.NewBus()
	factory := newFactory(bus)
	portfolio := service.NewPortfolioService(factory, starting, dec(100))

	var mu sync.Mutex
	var trades []events.StockTradeEvent
	bus.Subscribe(events.EventTypeStockTrade, func(ctx context.Context, e events.Event) {
		mu.Lock()
		defer mu.Unlock()
		trades = append(trades, e.(events.StockTradeEvent))
	})

	t.Run("buy charges price times multiplier", func(t *testing.T) {
		result, err := portfolio.Buy(ctx, 40, "msft", dec(2), decimal.RequireFromString("1.5"))
		require.NoError(t, err)
		assert.Equal(t, "MSFT", result.Symbol)
		assert.True(t, result.Total.Equal(dec(300)))
		assert.True(t, result.NewBalance.Equal(dec(200)))
		assert.True(t, result.Holding.Equal(dec(2)))
	})

	t.Run("cannot oversell", func(t *testing.T) {
		_, err := portfolio.Sell(ctx, 40, "MSFT", dec(3), dec(1))
		assert.ErrorIs(t, err, service.ErrInsufficientShares)
	})

	t.Run("cannot overspend", func(t *testing.T) {
		_, err := portfolio.Buy(ctx, 40, "MSFT", dec(10), dec(1))
		assert.ErrorIs(t, err, service.ErrInsufficientFunds)
	})

	t.Run("sell credits proceeds", func(t *testing.T) {
		result, err := portfolio.Sell(ctx, 40, "MSFT", dec(2), dec(2))
		require.NoError(t, err)
		assert.True(t, result.NewBalance.Equal(dec(600)))
		assert.True(t, result.Holding.IsZero())

		holdings, err := portfolio.Portfolio(ctx, 40)
		require.NoError(t, err)
		assert.Empty(t, holdings)

		history, err := portfolio.History(ctx, 40, 0)
		require.NoError(t, err)
		assert.Len(t, history, 2)
	})

	t.Run("rejects malformed trades", func(t *testing.T) {
		_, err := portfolio.Buy(ctx, 40, "not a symbol", dec(1), dec(1))
		assert.ErrorIs(t, err, service.ErrInvalidSymbol)
		_, err = portfolio.Buy(ctx, 40, "AAPL", decimal.RequireFromString("0.5"), dec(1))
		assert.ErrorIs(t, err, service.ErrInvalidAmount)
	})

	bus.Wait()
	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, trades, 2)
}

func TestPortfolioService_SellFee(t *testing.T) {
	ctx := context.Background()
	portfolio := service.NewPortfolioService(newFactory(events.NewBus()), starting, dec(100),
		service.WithSellFee(decimal.RequireFromString("0.04")))

	_, err := portfolio.Buy(ctx, 41, "AAPL", dec(1), dec(1))
	require.NoError(t, err)

	// 3.33 * 100 = 333, fee ceil(13.32) = 14
	_, err = portfolio.Buy(ctx, 41, "TSLA", dec(1), decimal.RequireFromString("1"))
	require.NoError(t, err)
	result, err := portfolio.Sell(ctx, 41, "AAPL", dec(1), decimal.RequireFromString("3.33"))
	require.NoError(t, err)

	assert.True(t, result.Total.Equal(dec(333)))
	assert.True(t, result.Fee.Equal(dec(14)))
	assert.True(t, result.NewBalance.Equal(dec(300+319)))

	// Buying is never charged
	bought, err := portfolio.Buy(ctx, 41, "AAPL", dec(1), dec(1))
	require.NoError(t, err)
	assert.True(t, bought.Fee.IsZero())
}

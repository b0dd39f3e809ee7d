package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"casinobot/events"
	"casinobot/models"
	"casinobot/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLedgerRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	factory := NewUnitOfWorkFactory(openTestDB(t), events.NewBus())

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	ledger := uow.LedgerRepository()

	latest, err := ledger.Latest(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, latest)

	entry := &models.LedgerEntry{
		AccountID:      42,
		OpeningBalance: decimal.NewFromInt(500),
		Delta:          decimal.RequireFromString("-12.50"),
		Reason:         "Slots game",
		Kind:           models.EntryKindEscrow,
		Metadata:       map[string]any{"session": "abc"},
	}
	require.NoError(t, ledger.Append(ctx, entry))
	require.NoError(t, uow.Commit())

	uow = factory.Create()
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	latest, err = uow.LedgerRepository().Latest(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, entry.ID, latest.ID)
	assert.True(t, latest.Balance().Equal(decimal.RequireFromString("487.5")))
	assert.Equal(t, "abc", latest.Metadata["session"])
}

func TestBalanceService_OnSQLite(t *testing.T) {
	ctx := context.Background()
	factory := NewUnitOfWorkFactory(openTestDB(t), events.NewBus())
	balances := service.NewBalanceService(factory, decimal.NewFromInt(500))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := balances.Add(ctx, 9, decimal.NewFromInt(5), "concurrent")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	balance, err := balances.Balance(ctx, 9)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(550)), "got %s", balance)

	history, err := balances.History(ctx, 9, 100)
	require.NoError(t, err)
	assert.Len(t, history, 10)
	for i := 0; i+1 < len(history); i++ {
		assert.True(t, history[i].OpeningBalance.Equal(history[i+1].Balance()), "chain broken at %d", history[i].ID)
	}
}

func TestPortfolioService_OnSQLite(t *testing.T) {
	ctx := context.Background()
	factory := NewUnitOfWorkFactory(openTestDB(t), events.NewBus())
	portfolio := service.NewPortfolioService(factory, decimal.NewFromInt(500), decimal.NewFromInt(1))

	_, err := portfolio.Buy(ctx, 5, "aapl", decimal.NewFromInt(3), decimal.NewFromInt(100))
	require.NoError(t, err)
	result, err := portfolio.Sell(ctx, 5, "AAPL", decimal.NewFromInt(1), decimal.NewFromInt(110))
	require.NoError(t, err)
	assert.True(t, result.NewBalance.Equal(decimal.NewFromInt(310)))
	assert.True(t, result.Holding.Equal(decimal.NewFromInt(2)))

	holdings, err := portfolio.Portfolio(ctx, 5)
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, "AAPL", holdings[0].Symbol)
}

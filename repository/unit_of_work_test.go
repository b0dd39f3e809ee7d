package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"casinobot/events"
	"casinobot/models"
	"casinobot/repository/testutil"
	"casinobot/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_RollbackDiscardsWrites(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	bus := events.NewBus()
	factory := NewUnitOfWorkFactory(testDB.DB, bus)
	ctx := context.Background()

	var mu sync.Mutex
	var received []events.Event
	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, e events.Event) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, e)
	})

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.LedgerRepository().Append(ctx, testutil.CreateTestEntry(4001, 500, 5, models.EntryKindAdjustment)))
	uow.EventBus().Publish(events.BalanceChangeEvent{AccountID: 4001})
	require.NoError(t, uow.Rollback())
	bus.Wait()

	latest, err := NewLedgerRepository(testDB.DB).Latest(ctx, 4001)
	require.NoError(t, err)
	assert.Nil(t, latest)

	mu.Lock()
	assert.Empty(t, received)
	mu.Unlock()

	assert.Panics(t, func() { factory.Create().LedgerRepository() })
}

func TestBalanceService_ConcurrentWritersSerialize(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())
	balances := service.NewBalanceService(factory, decimal.NewFromInt(500))
	ctx := context.Background()

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers*2)
	for i := 0; i < writers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := balances.Add(ctx, 4002, decimal.NewFromInt(3), "concurrent add")
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := balances.Debit(ctx, 4002, decimal.NewFromInt(1), "concurrent debit")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	balance, err := balances.Balance(ctx, 4002)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(500+writers*2)), "got %s", balance)

	report, err := AuditAccount(ctx, testDB.DB, 4002, decimal.NewFromInt(500))
	require.NoError(t, err)
	assert.True(t, report.Consistent())
	assert.Equal(t, writers*2, report.Entries)
}

func TestEscrowService_HouseMirrorIsAtomic(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())
	escrow := service.NewEscrowService(factory, decimal.NewFromInt(500), 1, true)
	balances := service.NewBalanceService(factory, decimal.NewFromInt(500))
	ctx := context.Background()

	stake := models.Stake{Account: 4003, Amount: decimal.NewFromInt(600)}
	err := escrow.Hold(ctx, stake, "Cups game")
	require.True(t, errors.Is(err, service.ErrInsufficientFunds))

	house, err := balances.Balance(ctx, 1)
	require.NoError(t, err)
	assert.True(t, house.Equal(decimal.NewFromInt(500)), "house must be untouched when the player leg fails")

	stake.Amount = decimal.NewFromInt(10)
	require.NoError(t, escrow.Hold(ctx, stake, "Cups game"))
	require.NoError(t, escrow.Pay(ctx, []models.Stake{{Account: 4003, Amount: decimal.NewFromInt(20)}}, "Cups game"))

	player, err := balances.Balance(ctx, 4003)
	require.NoError(t, err)
	house, err = balances.Balance(ctx, 1)
	require.NoError(t, err)
	assert.True(t, player.Equal(decimal.NewFromInt(510)))
	assert.True(t, house.Equal(decimal.NewFromInt(490)))
}

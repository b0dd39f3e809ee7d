package repository

import (
	"context"
	"testing"

	"casinobot/models"
	"casinobot/repository/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	repo := NewLedgerRepository(testDB.DB)
	ctx := context.Background()

	t.Run("no history", func(t *testing.T) {
		latest, err := repo.Latest(ctx, 1001)
		require.NoError(t, err)
		assert.Nil(t, latest)
	})

	t.Run("append and read back", func(t *testing.T) {
		first := testutil.CreateTestEntry(1002, 500, -10, models.EntryKindEscrow)
		require.NoError(t, repo.Append(ctx, first))
		assert.NotZero(t, first.ID)
		assert.False(t, first.CreatedAt.IsZero())

		second := testutil.CreateTestEntry(1002, 490, 20, models.EntryKindSettlement)
		second.Metadata = nil
		require.NoError(t, repo.Append(ctx, second))

		latest, err := repo.Latest(ctx, 1002)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, second.ID, latest.ID)
		assert.True(t, latest.Balance().Equal(decimal.NewFromInt(510)))
		assert.Equal(t, models.EntryKindSettlement, latest.Kind)
		assert.Nil(t, latest.Metadata)

		history, err := repo.History(ctx, 1002, 10)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, second.ID, history[0].ID)
		assert.Equal(t, true, history[1].Metadata["test"])
	})

	t.Run("fractional amounts survive", func(t *testing.T) {
		e := testutil.CreateTestEntry(1003, 500, 0, models.EntryKindAdjustment)
		e.Delta = decimal.RequireFromString("12.34")
		require.NoError(t, repo.Append(ctx, e))

		latest, err := repo.Latest(ctx, 1003)
		require.NoError(t, err)
		assert.True(t, latest.Balance().Equal(decimal.RequireFromString("512.34")))
	})

	t.Run("entries cannot be rewritten", func(t *testing.T) {
		e := testutil.CreateTestEntry(1004, 500, 5, models.EntryKindAdjustment)
		require.NoError(t, repo.Append(ctx, e))

		_, err := testDB.DB.Exec(ctx, `UPDATE ledger_entries SET delta = 1000 WHERE id = $1`, e.ID)
		assert.Error(t, err)

		_, err = testDB.DB.Exec(ctx, `DELETE FROM ledger_entries WHERE id = $1`, e.ID)
		assert.Error(t, err)
	})

	t.Run("audit detects a broken chain", func(t *testing.T) {
		require.NoError(t, repo.Append(ctx, testutil.CreateTestEntry(1005, 500, -100, models.EntryKindEscrow)))
		require.NoError(t, repo.Append(ctx, testutil.CreateTestEntry(1005, 400, 50, models.EntryKindSettlement)))

		report, err := AuditAccount(ctx, testDB.DB, 1005, decimal.NewFromInt(500))
		require.NoError(t, err)
		assert.True(t, report.Consistent())
		assert.Equal(t, 2, report.Entries)

		broken := testutil.CreateTestEntry(1005, 999, 1, models.EntryKindAdjustment)
		require.NoError(t, repo.Append(ctx, broken))

		report, err = AuditAccount(ctx, testDB.DB, 1005, decimal.NewFromInt(500))
		require.NoError(t, err)
		assert.Equal(t, []int64{broken.ID}, report.Breaks)
	})
}

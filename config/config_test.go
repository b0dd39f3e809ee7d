package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("LEDGER_BACKEND", "")
	t.Setenv("STARTING_BALANCE", "")

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, BackendPostgres, cfg.LedgerBackend)
	assert.True(t, cfg.StartingBalance.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, GameLimits{PerUser: 1, Global: 5}, cfg.CupsLimits)
	assert.Equal(t, GameLimits{PerUser: 1, Global: 2}, cfg.SlotsLimits)
	assert.Equal(t, GameLimits{PerUser: 1, Global: 4}, cfg.ConnectFourLimits)
	assert.Equal(t, 90*time.Second, cfg.ConnectFourTurnTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("STARTING_BALANCE", "1000.50")
	t.Setenv("OWNER_IDS", "42, 43,,x")
	t.Setenv("STOCK_PRICES", "aapl=190.5, msft=410")
	t.Setenv("CUPS_TIMEOUT", "5s")
	t.Setenv("SLOTS_TIMEOUT", "nonsense")
	t.Setenv("LEDGER_BACKEND", "sqlite")

	cfg, err := load()
	require.NoError(t, err)

	assert.True(t, cfg.StartingBalance.Equal(decimal.RequireFromString("1000.50")))
	assert.Equal(t, []int64{42, 43}, cfg.OwnerIDs)
	assert.True(t, cfg.IsOwner(43))
	assert.False(t, cfg.IsOwner(44))
	assert.True(t, cfg.StockPrices["AAPL"].Equal(decimal.RequireFromString("190.5")))
	assert.True(t, cfg.StockPrices["MSFT"].Equal(decimal.NewFromInt(410)))
	assert.Equal(t, 5*time.Second, cfg.CupsTimeout)
	assert.Equal(t, 60*time.Second, cfg.SlotsTimeout)
	assert.Equal(t, BackendSQLite, cfg.LedgerBackend)
}

func TestLoad_Validation(t *testing.T) {
	t.Run("token required outside test", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("DISCORD_TOKEN", "")
		_, err := load()
		assert.ErrorContains(t, err, "DISCORD_TOKEN")
	})

	t.Run("database url required for postgres", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("DISCORD_TOKEN", "token")
		t.Setenv("LEDGER_BACKEND", "postgres")
		t.Setenv("DATABASE_URL", "")
		_, err := load()
		assert.ErrorContains(t, err, "DATABASE_URL")
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "test")
		t.Setenv("LEDGER_BACKEND", "mongo")
		_, err := load()
		assert.ErrorContains(t, err, "LEDGER_BACKEND")
	})

	t.Run("bad stock price", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "test")
		t.Setenv("STOCK_PRICES", "AAPL")
		_, err := load()
		assert.Error(t, err)
	})
}

func TestGetDatabaseURL(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://u:p@host:5432/", DatabaseName: "casino"}
	assert.Equal(t, "postgres://u:p@host:5432/casino?sslmode=disable", cfg.GetDatabaseURL())
}

func TestSetTestConfig(t *testing.T) {
	t.Cleanup(ResetConfig)

	cfg := NewTestConfig()
	cfg.HouseAccountID = 77
	SetTestConfig(cfg)

	assert.Same(t, cfg, Get())
	assert.Equal(t, int64(77), Get().HouseAccountID)
}

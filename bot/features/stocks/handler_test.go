package stocks

import (
	"context"
	"testing"

	"casinobot/market"
	"casinobot/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatTrade(t *testing.T) {
	sell := &models.TradeResult{
		Symbol:     "ACME",
		Shares:     decimal.NewFromInt(3),
		UnitPrice:  decimal.NewFromFloat(1.11),
		Total:      decimal.NewFromInt(333),
		Fee:        decimal.NewFromInt(14),
		NewBalance: decimal.NewFromInt(619),
	}
	out := FormatTrade(sell, false)
	assert.Contains(t, out, "Sold 3 shares of **ACME**")
	assert.Contains(t, out, "(fee 14)")
	assert.Contains(t, out, "619")

	sell.Fee = decimal.Zero
	assert.NotContains(t, FormatTrade(sell, false), "fee")
	assert.Contains(t, FormatTrade(sell, true), "Bought 3 shares")
}

func TestFormatHoldings(t *testing.T) {
	assert.Equal(t, "none", FormatHoldings(nil, "none"))

	holdings := []*models.Holding{
		{Symbol: "ACME", Shares: decimal.NewFromInt(2), Cost: decimal.NewFromInt(200)},
		{Symbol: "GONE", Shares: decimal.Zero, Cost: decimal.Zero},
	}
	assert.Equal(t, "**ACME** 2 shares (cost 200)", FormatHoldings(holdings, "none"))
}

func TestFormatPrices(t *testing.T) {
	q := market.NewFixedQuoter(map[string]decimal.Decimal{
		"zeta": decimal.NewFromInt(5),
		"ACME": decimal.NewFromFloat(1.5),
	})
	assert.Equal(t, "**ACME** 1.50\n**ZETA** 5", FormatPrices(context.Background(), q))
	assert.Equal(t, "No prices configured.", FormatPrices(context.Background(), market.NewFixedQuoter(nil)))
}

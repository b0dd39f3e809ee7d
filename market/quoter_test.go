package market

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedQuoter(t *testing.T) {
	q := NewFixedQuoter(map[string]decimal.Decimal{
		"msft": decimal.NewFromInt(410),
		"AAPL": decimal.RequireFromString("190.5"),
		"FREE": decimal.Zero,
	})

	assert.Equal(t, []string{"AAPL", "MSFT"}, q.Symbols())

	price, err := q.Quote(context.Background(), " msft ")
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromInt(410)))

	_, err = q.Quote(context.Background(), "FREE")
	assert.ErrorIs(t, err, ErrUnknownSymbol)
	_, err = q.Quote(context.Background(), "GME")
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

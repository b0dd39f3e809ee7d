// Package market provides the share prices used by stock trades.
package market

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrUnknownSymbol = errors.New("no price for symbol")

// Quoter returns the current unit price of a symbol
type Quoter interface {
	Quote(ctx context.Context, symbol string) (decimal.Decimal, error)
	Symbols() []string
}

// FixedQuoter serves a configured price table
type FixedQuoter struct {
	prices map[string]decimal.Decimal
}

// NewFixedQuoter copies prices, dropping symbols without a positive price
func NewFixedQuoter(prices map[string]decimal.Decimal) *FixedQuoter {
	q := &FixedQuoter{prices: make(map[string]decimal.Decimal, len(prices))}
	for symbol, price := range prices {
		if price.IsPositive() {
			q.prices[strings.ToUpper(symbol)] = price
		}
	}
	return q
}

func (q *FixedQuoter) Quote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	price, ok := q.prices[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w %s", ErrUnknownSymbol, symbol)
	}
	return price, nil
}

// Symbols lists the quoted symbols in order
func (q *FixedQuoter) Symbols() []string {
	symbols := make([]string, 0, len(q.prices))
	for symbol := range q.prices {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

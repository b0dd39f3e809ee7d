package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockPosition is one signed movement of shares for an account.
// Buys are positive, sells negative.
type StockPosition struct {
	ID        int64           `db:"id"`
	AccountID AccountID       `db:"account_id"`
	Symbol    string          `db:"symbol"`
	Shares    decimal.Decimal `db:"shares"`
	Cost      decimal.Decimal `db:"cost"`
	CreatedAt time.Time       `db:"created_at"`
}

// Holding is the summed position of one symbol
type Holding struct {
	Symbol string
	Shares decimal.Decimal
	Cost   decimal.Decimal
}

// TradeResult is returned to the caller after a buy or sell
type TradeResult struct {
	Symbol     string
	Shares     decimal.Decimal
	UnitPrice  decimal.Decimal
	Total      decimal.Decimal
	Fee        decimal.Decimal // charged on sales, already taken from the credit
	NewBalance decimal.Decimal
	Holding    decimal.Decimal
}

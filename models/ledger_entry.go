package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind classifies why a ledger entry was written
type EntryKind string

const (
	EntryKindAdjustment EntryKind = "adjustment"
	EntryKindAdminSet   EntryKind = "admin_set"
	EntryKindAdminGive  EntryKind = "admin_give"
	EntryKindPaymentOut EntryKind = "payment_out"
	EntryKindPaymentIn  EntryKind = "payment_in"
	EntryKindEscrow     EntryKind = "escrow"
	EntryKindSettlement EntryKind = "settlement"
	EntryKindRefund     EntryKind = "refund"
	EntryKindHouse      EntryKind = "house"
	EntryKindStockBuy   EntryKind = "stock_buy"
	EntryKindStockSell  EntryKind = "stock_sell"
)

// LedgerEntry is an immutable balance change for one account.
// The balance after the entry is OpeningBalance + Delta.
type LedgerEntry struct {
	ID             int64           `db:"id"`
	AccountID      AccountID       `db:"account_id"`
	OpeningBalance decimal.Decimal `db:"opening_balance"`
	Delta          decimal.Decimal `db:"delta"`
	Reason         string          `db:"reason"`
	Kind           EntryKind       `db:"kind"`
	Metadata       map[string]any  `db:"metadata"`
	CreatedAt      time.Time       `db:"created_at"`
}

// Balance returns the account balance once this entry is applied
func (e *LedgerEntry) Balance() decimal.Decimal {
	return e.OpeningBalance.Add(e.Delta)
}

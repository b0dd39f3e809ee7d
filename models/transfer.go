package models

import "github.com/shopspring/decimal"

// TransferResult is returned after a payment between players
type TransferResult struct {
	From          AccountID
	To            AccountID
	Amount        decimal.Decimal
	SenderBalance decimal.Decimal
}

package models

import "github.com/shopspring/decimal"

// Stake is an amount of currency owned by an account while a game holds it
type Stake struct {
	Account AccountID       `json:"account"`
	Amount  decimal.Decimal `json:"amount"`
}

// TotalStake sums the amounts of the given stakes
func TotalStake(stakes []Stake) decimal.Decimal {
	total := decimal.Zero
	for _, s := range stakes {
		total = total.Add(s.Amount)
	}
	return total
}

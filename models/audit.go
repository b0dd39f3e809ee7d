package models

import "github.com/shopspring/decimal"

// AuditReport summarizes a replay of one account's ledger
type AuditReport struct {
	Account AccountID
	Entries int
	Balance decimal.Decimal
	// Breaks lists entries whose opening balance differs from the balance left by the previous entry
	Breaks []int64
}

// Consistent reports whether every entry chained onto its predecessor
func (r *AuditReport) Consistent() bool {
	return len(r.Breaks) == 0
}

// VerifyChain replays entries in write order, oldest first
func VerifyChain(account AccountID, startingBalance decimal.Decimal, entries []*LedgerEntry) *AuditReport {
	report := &AuditReport{Account: account, Balance: startingBalance}
	for _, entry := range entries {
		if !entry.OpeningBalance.Equal(report.Balance) {
			report.Breaks = append(report.Breaks, entry.ID)
		}
		report.Balance = entry.Balance()
		report.Entries++
	}
	return report
}

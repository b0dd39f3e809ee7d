package cmd

import (
	"context"
	"fmt"

	"casinobot/config"
	"casinobot/database"
	"casinobot/models"
	"casinobot/repository"

	log "github.com/sirupsen/logrus"
)

// Audit replays one account's ledger and reports whether every entry chains
// onto the one before it
func Audit(ctx context.Context, rawAccount string) error {
	cfg := config.Get()
	SetupLogging(cfg)

	account, err := models.ParseAccountID(rawAccount)
	if err != nil {
		return fmt.Errorf("invalid account %q: %w", rawAccount, err)
	}
	if cfg.LedgerBackend != config.BackendPostgres {
		return fmt.Errorf("audit needs the postgres ledger, not %q", cfg.LedgerBackend)
	}

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	report, err := repository.AuditAccount(ctx, db, account, cfg.StartingBalance)
	if err != nil {
		return err
	}

	logger := log.WithFields(log.Fields{
		"account": report.Account,
		"entries": report.Entries,
		"balance": report.Balance.String(),
	})
	if !report.Consistent() {
		logger.WithField("breaks", report.Breaks).Error("Ledger chain is broken")
		return fmt.Errorf("account %s has %d broken entries", account, len(report.Breaks))
	}
	logger.Info("Ledger chain is consistent")
	return nil
}

package balance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"casinobot/bot/common"
	"casinobot/models"
	"casinobot/service"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const (
	defaultHistory = 10
	maxHistory     = 25
)

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	actor, err := common.Actor(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	opts := common.NewOptions(i.ApplicationCommandData().Options)
	target := actor
	if _, ok := opts["user"]; ok {
		if target, err = opts.Account("user"); err != nil {
			common.RespondWithError(s, i, "Invalid user.")
			return
		}
	}

	balance, err := f.balances.Balance(ctx, target)
	if err != nil {
		log.Errorf("Error getting balance for %s: %v", target, err)
		common.RespondWithError(s, i, "Unable to retrieve balance. Please try again.")
		return
	}

	common.RespondWithMessage(s, i, fmt.Sprintf("%s has %s", target.Mention(), common.FormatCoins(balance)))
}

func (f *Feature) handleHistory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	actor, err := common.Actor(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	limit := common.NewOptions(i.ApplicationCommandData().Options).Int("limit", defaultHistory)
	limit = min(max(limit, 1), maxHistory)

	entries, err := f.balances.History(ctx, actor, int(limit))
	if err != nil {
		log.Errorf("Error getting history for %s: %v", actor, err)
		common.RespondWithError(s, i, "Unable to retrieve history. Please try again.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Ledger history",
		Description: FormatHistory(entries),
		Color:       common.ColorInfo,
	}
	if err := common.RespondWithEmbed(s, i, embed, nil, true); err != nil {
		log.Errorf("Error responding to history command: %v", err)
	}
}

// FormatHistory renders ledger entries newest first, one per line
func FormatHistory(entries []*models.LedgerEntry) string {
	if len(entries) == 0 {
		return "No transactions yet."
	}
	var b strings.Builder
	for _, e := range entries {
		sign := "+"
		if e.Delta.IsNegative() {
			sign = ""
		}
		fmt.Fprintf(&b, "%s `%s%s` → `%s` %s\n",
			common.FormatDiscordTimestamp(e.CreatedAt, "R"),
			sign, common.FormatAmount(e.Delta),
			common.FormatAmount(e.Balance()),
			e.Reason)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

type adminOperation func(ctx context.Context, actor, target models.AccountID, amount decimal.Decimal) (decimal.Decimal, error)

func (f *Feature) handleAdmin(s *discordgo.Session, i *discordgo.InteractionCreate, op adminOperation, verb string) {
	ctx := context.Background()

	actor, err := common.Actor(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	opts := common.NewOptions(i.ApplicationCommandData().Options)
	target, err := opts.Account("user")
	if err != nil {
		common.RespondWithError(s, i, "Invalid user.")
		return
	}
	amount, err := opts.Amount("amount")
	if err != nil {
		common.RespondWithError(s, i, "Invalid amount.")
		return
	}

	balance, err := op(ctx, actor, target, amount)
	switch {
	case errors.Is(err, service.ErrNotPermitted):
		common.RespondWithError(s, i, "You are not allowed to do that.")
		return
	case errors.Is(err, service.ErrInvalidAmount), errors.Is(err, service.ErrInvalidAccount):
		common.RespondWithError(s, i, "Invalid request.")
		return
	case err != nil:
		log.Errorf("Error running admin balance command for %s: %v", target, err)
		common.RespondWithError(s, i, "Unable to update balance. Please try again.")
		return
	}

	common.RespondWithMessage(s, i, fmt.Sprintf("✅ %s %s %s. New balance: %s",
		actor.Mention(), verb, target.Mention(), common.FormatCoins(balance)))
}

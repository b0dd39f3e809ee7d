package transfer

import (
	"context"
	"errors"
	"fmt"

	"casinobot/bot/common"
	"casinobot/models"
	"casinobot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handlePay(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	from, err := common.Actor(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	opts := common.NewOptions(i.ApplicationCommandData().Options)
	to, err := opts.Account("user")
	if err != nil {
		common.RespondWithError(s, i, "Invalid recipient user.")
		return
	}
	amount, err := opts.Amount("amount")
	if err != nil {
		common.RespondWithError(s, i, "Invalid amount.")
		return
	}

	result, err := f.transferService.Pay(ctx, from, to, amount)
	if err != nil {
		if msg, ok := payErrorMessage(err); ok {
			common.RespondWithError(s, i, msg)
			return
		}
		log.Errorf("Error processing payment from %s to %s: %v", from, to, err)
		common.RespondWithError(s, i, "Transfer failed. Please try again.")
		return
	}

	common.RespondWithMessage(s, i, FormatTransfer(result))
}

// payErrorMessage maps the refusals a player can cause to a reply
func payErrorMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrSelfTransfer):
		return "You cannot pay yourself.", true
	case errors.Is(err, service.ErrInvalidAmount):
		return "Amount must be positive.", true
	case errors.Is(err, service.ErrInsufficientFunds):
		return "You do not have enough to cover that payment.", true
	case errors.Is(err, service.ErrInvalidAccount):
		return "Invalid recipient user.", true
	}
	return "", false
}

// FormatTransfer renders a completed payment
func FormatTransfer(r *models.TransferResult) string {
	return fmt.Sprintf("✅ %s paid %s %s. Remaining balance: %s",
		r.From.Mention(), r.To.Mention(),
		common.FormatCoins(r.Amount), common.FormatCoins(r.SenderBalance))
}

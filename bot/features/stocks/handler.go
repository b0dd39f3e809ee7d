package stocks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"casinobot/bot/common"
	"casinobot/market"
	"casinobot/models"
	"casinobot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleTrade(s *discordgo.Session, i *discordgo.InteractionCreate, raw []*discordgo.ApplicationCommandInteractionDataOption, buying bool) {
	ctx := context.Background()

	actor, err := common.Actor(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	opts := common.NewOptions(raw)
	symbol, err := service.NormalizeSymbol(opts.String("symbol", ""))
	if err != nil {
		common.RespondWithError(s, i, "Invalid stock symbol.")
		return
	}
	shares, err := opts.Amount("shares")
	if err != nil || !shares.IsPositive() {
		common.RespondWithError(s, i, "Shares must be positive.")
		return
	}
	price, err := f.quoter.Quote(ctx, symbol)
	if err != nil {
		if errors.Is(err, market.ErrUnknownSymbol) {
			common.RespondWithError(s, i, fmt.Sprintf("No price available for %s.", symbol))
			return
		}
		log.Errorf("Error quoting %s: %v", symbol, err)
		common.RespondWithError(s, i, "Unable to get a price. Please try again.")
		return
	}

	trade := f.portfolio.Sell
	if buying {
		trade = f.portfolio.Buy
	}
	result, err := trade(ctx, actor, symbol, shares, price)
	switch {
	case errors.Is(err, service.ErrInsufficientFunds):
		common.RespondWithError(s, i, "You do not have enough to buy that many shares.")
		return
	case errors.Is(err, service.ErrInsufficientShares):
		common.RespondWithError(s, i, fmt.Sprintf("You do not hold that many shares of %s.", symbol))
		return
	case errors.Is(err, service.ErrInvalidAmount), errors.Is(err, service.ErrInvalidSymbol):
		common.RespondWithError(s, i, "Invalid trade.")
		return
	case err != nil:
		log.Errorf("Error trading %s for %s: %v", symbol, actor, err)
		common.RespondWithError(s, i, "Trade failed. Please try again.")
		return
	}

	common.RespondWithMessage(s, i, FormatTrade(result, buying))
}

func (f *Feature) handlePortfolio(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	actor, err := common.Actor(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	holdings, err := f.portfolio.Portfolio(ctx, actor)
	if err != nil {
		log.Errorf("Error getting portfolio for %s: %v", actor, err)
		common.RespondWithError(s, i, "Unable to retrieve portfolio. Please try again.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Portfolio",
		Description: FormatHoldings(holdings, "You do not own any shares."),
		Color:       common.ColorInfo,
	}
	if err := common.RespondWithEmbed(s, i, embed, nil, true); err != nil {
		log.Errorf("Error responding to portfolio command: %v", err)
	}
}

func (f *Feature) handleMarket(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	holdings, err := f.portfolio.MarketHoldings(ctx)
	if err != nil {
		log.Errorf("Error getting market holdings: %v", err)
		common.RespondWithError(s, i, "Unable to retrieve the market. Please try again.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "Market",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Prices", Value: FormatPrices(ctx, f.quoter)},
			{Name: "Held by players", Value: FormatHoldings(holdings, "Nobody owns any shares.")},
		},
		Color: common.ColorInfo,
	}
	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to market command: %v", err)
	}
}

// FormatTrade renders a completed buy or sell
func FormatTrade(r *models.TradeResult, buying bool) string {
	if buying {
		return fmt.Sprintf("📈 Bought %s shares of **%s** at %s for %s. Balance: %s",
			r.Shares, r.Symbol, common.FormatAmount(r.UnitPrice),
			common.FormatCoins(r.Total), common.FormatCoins(r.NewBalance))
	}
	msg := fmt.Sprintf("📉 Sold %s shares of **%s** at %s for %s",
		r.Shares, r.Symbol, common.FormatAmount(r.UnitPrice), common.FormatCoins(r.Total))
	if r.Fee.IsPositive() {
		msg += fmt.Sprintf(" (fee %s)", common.FormatAmount(r.Fee))
	}
	return msg + fmt.Sprintf(". Balance: %s", common.FormatCoins(r.NewBalance))
}

// FormatHoldings lists one symbol per line, or empty when there are none
func FormatHoldings(holdings []*models.Holding, empty string) string {
	var b strings.Builder
	for _, h := range holdings {
		if !h.Shares.IsPositive() {
			continue
		}
		fmt.Fprintf(&b, "**%s** %s shares (cost %s)\n", h.Symbol, h.Shares, common.FormatAmount(h.Cost))
	}
	if b.Len() == 0 {
		return empty
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// FormatPrices lists the quoted symbols and their unit prices
func FormatPrices(ctx context.Context, q market.Quoter) string {
	var b strings.Builder
	for _, symbol := range q.Symbols() {
		price, err := q.Quote(ctx, symbol)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "**%s** %s\n", symbol, common.FormatAmount(price))
	}
	if b.Len() == 0 {
		return "No prices configured."
	}
	return strings.TrimSuffix(b.String(), "\n")
}


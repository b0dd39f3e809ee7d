package stocks

import (
	"casinobot/market"
	"casinobot/service"

	"github.com/bwmarrin/discordgo"
)

// Feature trades shares against the configured price table
type Feature struct {
	portfolio service.PortfolioService
	quoter    market.Quoter
}

func New(portfolio service.PortfolioService, quoter market.Quoter) *Feature {
	return &Feature{
		portfolio: portfolio,
		quoter:    quoter,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}
	sub := options[0]
	switch sub.Name {
	case "buy":
		f.handleTrade(s, i, sub.Options, true)
	case "sell":
		f.handleTrade(s, i, sub.Options, false)
	case "portfolio":
		f.handlePortfolio(s, i)
	case "market":
		f.handleMarket(s, i)
	}
}

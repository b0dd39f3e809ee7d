package bot

import (
	"github.com/bwmarrin/discordgo"
)

var (
	minAmount = 0.01
	minOne    = 1.0
	minSides  = 2.0
	maxDice   = 500.0
	maxLimit  = 25.0
)

func userOption(description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: description,
		Required:    required,
	}
}

func amountOption(name, description string, required bool, min *float64) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionNumber,
		Name:        name,
		Description: description,
		Required:    required,
		MinValue:    min,
	}
}

func tradeOptions() []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "symbol",
			Description: "Ticker symbol",
			Required:    true,
		},
		amountOption("shares", "Number of shares", true, &minAmount),
	}
}

// Commands lists every slash command the bot registers
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "balance",
			Description: "Check a balance",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("User to check (defaults to you)", false),
			},
		},
		{
			Name:        "history",
			Description: "Show your recent ledger entries",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "limit",
					Description: "How many entries to show",
					MinValue:    &minOne,
					MaxValue:    maxLimit,
				},
			},
		},
		{
			Name:        "pay",
			Description: "Pay another player",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("User to pay", true),
				amountOption("amount", "Amount to pay", true, &minAmount),
			},
		},
		{
			Name:        "set-balance",
			Description: "Set a player's balance (owners only)",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("User to update", true),
				amountOption("amount", "New balance", true, nil),
			},
		},
		{
			Name:        "give-balance",
			Description: "Add to a player's balance (owners only)",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("User to credit", true),
				amountOption("amount", "Amount to add", true, nil),
			},
		},
		{
			Name:        "roll",
			Description: "Roll dice",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "dice",
					Description: "How many dice (default 1)",
					MinValue:    &minOne,
					MaxValue:    maxDice,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "sides",
					Description: "Sides per die (default 6)",
					MinValue:    &minSides,
				},
			},
		},
		{
			Name:        "flip",
			Description: "Flip a coin",
		},
		{
			Name:        "cups",
			Description: "Find the coin under the cups, double or nothing",
			Options: []*discordgo.ApplicationCommandOption{
				amountOption("bet", "Amount to bet (default 10)", false, &minOne),
			},
		},
		{
			Name:        "slots",
			Description: "Load credit into the slot machine",
			Options: []*discordgo.ApplicationCommandOption{
				amountOption("credit", "Credit to load (default 10)", false, &minOne),
			},
		},
		{
			Name:        "connect4",
			Description: "Challenge anyone to connect four",
			Options: []*discordgo.ApplicationCommandOption{
				amountOption("bet", "Amount each player stakes (default friendly)", false, nil),
			},
		},
		{
			Name:        "stocks",
			Description: "Trade shares",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "buy",
					Description: "Buy shares",
					Options:     tradeOptions(),
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "sell",
					Description: "Sell shares",
					Options:     tradeOptions(),
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "portfolio",
					Description: "Show your holdings",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "market",
					Description: "Show prices and what players hold",
				},
			},
		},
	}
}

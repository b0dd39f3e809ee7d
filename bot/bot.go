package bot

import (
	"fmt"
	"strings"

	"casinobot/bot/features/balance"
	"casinobot/bot/features/chance"
	"casinobot/bot/features/games"
	"casinobot/bot/features/stocks"
	"casinobot/bot/features/transfer"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string // Commands register globally when empty
}

// Features are the command handlers the bot routes to
type Features struct {
	Balance  *balance.Feature
	Transfer *transfer.Feature
	Chance   *chance.Feature
	Games    *games.Feature
	Stocks   *stocks.Feature
}

// CommandHandler answers one slash command interaction
type CommandHandler interface {
	HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate)
}

type Bot struct {
	config   Config
	session  *discordgo.Session
	features Features
	routes   map[string]CommandHandler
}

// Session is the underlying discord connection, opened by New
func (b *Bot) Session() *discordgo.Session {
	return b.session
}

func New(config Config, features Features) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	bot := &Bot{
		config:   config,
		session:  dg,
		features: features,
		routes:   Routes(features),
	}

	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleComponents)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// Routes maps each registered command name to its feature
func Routes(f Features) map[string]CommandHandler {
	routes := make(map[string]CommandHandler)
	add := func(h CommandHandler, names ...string) {
		for _, name := range names {
			routes[name] = h
		}
	}
	add(f.Balance, "balance", "history", "set-balance", "give-balance")
	add(f.Transfer, "pay")
	add(f.Chance, "roll", "flip")
	add(f.Games, "cups", "slots", "connect4")
	add(f.Stocks, "stocks")
	return routes
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	handler, ok := b.routes[name]
	if !ok {
		log.Warnf("Unhandled command %q", name)
		return
	}
	handler.HandleCommand(s, i)
}

// handleComponents passes game button presses on; other components are not ours
func (b *Bot) handleComponents(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	if strings.HasPrefix(i.MessageComponentData().CustomID, games.CustomIDPrefix) {
		b.features.Games.HandleComponent(s, i)
	}
}

func (b *Bot) registerCommands() error {
	for _, cmd := range Commands() {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}
	log.Infof("Registered %d commands", len(Commands()))
	return nil
}

package games

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"casinobot/admission"
	"casinobot/bot/common"
	"casinobot/interaction"
	"casinobot/wager"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Timeouts bound how long each game waits for input
type Timeouts struct {
	Cups             time.Duration
	Slots            time.Duration
	ConnectFourLobby time.Duration
	ConnectFourTurn  time.Duration
}

// Feature starts interactive wager games and routes their button presses
type Feature struct {
	table    *wager.Table
	house    wager.Ledger // games against the house
	players  wager.Ledger // games between players
	inputs   *interaction.Dispatcher
	timeouts Timeouts
}

func New(table *wager.Table, house, players wager.Ledger, inputs *interaction.Dispatcher, timeouts Timeouts) *Feature {
	return &Feature{
		table:    table,
		house:    house,
		players:  players,
		inputs:   inputs,
		timeouts: timeouts,
	}
}

// defaultBet is staked when a house game is started without an amount
var defaultBet = decimal.NewFromInt(10)

func amountOrDefault(opts common.Options, name string) (decimal.Decimal, error) {
	amount, err := opts.Amount(name)
	if errors.Is(err, common.ErrMissingOption) {
		return defaultBet, nil
	}
	return amount, err
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// HandleCommand handles /cups, /slots and /connect4
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	actor, err := common.Actor(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	opts := common.NewOptions(i.ApplicationCommandData().Options)

	var (
		rules  wager.Rules
		ledger = f.house
	)
	switch i.ApplicationCommandData().Name {
	case "cups":
		bet, err := amountOrDefault(opts, "bet")
		if err == nil {
			rules, err = wager.NewCups(actor, bet, newRand(), f.timeouts.Cups)
		}
		if err != nil {
			common.RespondWithError(s, i, "The bet must be at least 1.")
			return
		}
	case "slots":
		credit, err := amountOrDefault(opts, "credit")
		if err == nil {
			rules, err = wager.NewSlots(actor, credit, newRand(), f.timeouts.Slots)
		}
		if err != nil {
			common.RespondWithError(s, i, "Load at least 1 credit into the machine.")
			return
		}
	case "connect4":
		bet, err := opts.Amount("bet")
		if errors.Is(err, common.ErrMissingOption) {
			bet, err = decimal.Zero, nil
		}
		if err == nil {
			rules, err = wager.NewConnectFour(actor, bet, f.timeouts.ConnectFourLobby, f.timeouts.ConnectFourTurn)
		}
		if err != nil {
			common.RespondWithError(s, i, "The bet cannot be negative.")
			return
		}
		ledger = f.players
	default:
		return
	}

	session := wager.NewSession(rules)
	session.GuildID = i.GuildID

	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring %s command: %v", rules.Kind(), err)
		return
	}

	err = f.table.Open(context.Background(), actor, session, ledger, newSurface(s, i.Interaction), nil)
	if err != nil {
		message := "Unable to start the game. Please try again."
		if errors.Is(err, admission.ErrUserBusy) || errors.Is(err, admission.ErrGameFull) {
			message = err.Error()
		}
		embed := &discordgo.MessageEmbed{Title: rules.Reason(), Description: "❌ " + message, Color: common.ColorNeutral}
		if _, editErr := common.EditResponse(s, i.Interaction, embed, []discordgo.MessageComponent{}); editErr != nil {
			log.Errorf("Error reporting refused %s game: %v", rules.Kind(), editErr)
		}
	}
}

// HandleComponent passes a session button press to the waiting session.
// Presses nobody waits for are acknowledged and dropped.
func (f *Feature) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	common.AcknowledgeComponent(s, i)

	token, ok := ParseCustomID(i.MessageComponentData().CustomID)
	if !ok || i.Message == nil {
		return
	}
	actor, err := common.Actor(i)
	if err != nil {
		return
	}

	f.inputs.Deliver(interaction.Interaction{
		MessageID: i.Message.ID,
		User:      actor,
		Token:     token,
	})
}

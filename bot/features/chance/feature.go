// Package chance answers the roll and flip commands. Nothing is wagered.
package chance

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"

	"casinobot/bot/common"
	"casinobot/games/coin"
	"casinobot/games/dice"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// shownRolls caps how many individual dice are listed before only the total is shown
const shownRolls = 50

type Feature struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func New(rng *rand.Rand) *Feature {
	return &Feature{rng: rng}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "roll":
		f.handleRoll(s, i)
	case "flip":
		f.handleFlip(s, i)
	}
}

func (f *Feature) handleRoll(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := common.NewOptions(i.ApplicationCommandData().Options)
	n := int(opts.Int("dice", 1))
	sides := int(opts.Int("sides", 6))

	f.mu.Lock()
	rolls, err := dice.Roll(f.rng, n, sides)
	f.mu.Unlock()
	if err != nil {
		common.RespondWithError(s, i, capitalize(err.Error()))
		return
	}

	common.RespondWithMessage(s, i, FormatRoll(n, sides, rolls))
}

func (f *Feature) handleFlip(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.mu.Lock()
	side := coin.Flip(f.rng)
	f.mu.Unlock()

	actor, err := common.Actor(i)
	if err != nil {
		log.Warnf("Flip without an actor: %v", err)
		common.RespondWithMessage(s, i, fmt.Sprintf("🪙 %s", side))
		return
	}
	common.RespondWithMessage(s, i, fmt.Sprintf("🪙 %s flipped **%s**", actor.Mention(), side))
}

// FormatRoll lists the dice and their total
func FormatRoll(n, sides int, rolls []int) string {
	total := dice.Sum(rolls)
	if len(rolls) == 1 {
		return fmt.Sprintf("🎲 d%d: **%d**", sides, total)
	}
	if len(rolls) > shownRolls {
		return fmt.Sprintf("🎲 %dd%d: total **%d**", n, sides, total)
	}
	parts := make([]string, len(rolls))
	for idx, v := range rolls {
		parts[idx] = strconv.Itoa(v)
	}
	return fmt.Sprintf("🎲 %dd%d: %s = **%d**", n, sides, strings.Join(parts, " + "), total)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

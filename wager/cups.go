package wager

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"casinobot/games/cups"
	"casinobot/models"

	"github.com/shopspring/decimal"
)

// Tokens accepted by the cups game
const (
	TokenCashOut = "cashout"
)

var cupTokens = []string{"1", "2", "3", TokenCashOut}

// ErrInvalidBet rejects a stake below the game's minimum
var ErrInvalidBet = errors.New("bet must be at least 1")

// Cups is double-or-nothing on finding the coin under one of three cups
type Cups struct {
	owner   models.AccountID
	bet     decimal.Decimal
	stake   decimal.Decimal
	rng     *rand.Rand
	timeout time.Duration
	rounds  []cups.Round
}

func NewCups(owner models.AccountID, bet decimal.Decimal, rng *rand.Rand, timeout time.Duration) (*Cups, error) {
	if bet.LessThan(decimal.NewFromInt(1)) {
		return nil, ErrInvalidBet
	}
	return &Cups{owner: owner, bet: bet, stake: bet, rng: rng, timeout: timeout}, nil
}

func (c *Cups) Kind() models.GameKind         { return models.GameKindCups }
func (c *Cups) Reason() string                { return "Cups game" }
func (c *Cups) Players() []models.AccountID   { return []models.AccountID{c.owner} }
func (c *Cups) Opening() []models.Stake       { return []models.Stake{{Account: c.owner, Amount: c.bet}} }
func (c *Cups) Seats() []models.AccountID     { return []models.AccountID{c.owner} }
func (c *Cups) Tokens() []string              { return cupTokens }
func (c *Cups) Timeout() time.Duration        { return c.timeout }
func (c *Cups) Bet() decimal.Decimal          { return c.bet }
func (c *Cups) Stake() decimal.Decimal        { return c.stake }
func (c *Cups) Held(models.Stake) Outcome     { return Outcome{} }
func (c *Cups) Refused(Hold, error) Outcome   { return Outcome{Rejected: true} }

// LastRound returns the most recent pick, if any
func (c *Cups) LastRound() (cups.Round, bool) {
	if len(c.rounds) == 0 {
		return cups.Round{}, false
	}
	return c.rounds[len(c.rounds)-1], true
}

func (c *Cups) Play(actor models.AccountID, token string) Outcome {
	if token == TokenCashOut {
		return c.cashOut()
	}

	var pick int
	if _, err := fmt.Sscan(token, &pick); err != nil {
		return Outcome{Rejected: true}
	}
	round, err := cups.Play(c.rng, pick, c.stake)
	if err != nil {
		return Outcome{Rejected: true}
	}
	c.rounds = append(c.rounds, round)
	c.stake = round.Stake

	if round.Won {
		return Outcome{Notice: fmt.Sprintf("You found it! Risking %s", c.stake)}
	}
	return Outcome{
		Done:   true,
		Status: models.SessionStatusLoss,
		Notice: fmt.Sprintf("The coin was under cup %d", round.Prize()),
	}
}

func (c *Cups) Expire() Outcome {
	return c.cashOut()
}

func (c *Cups) cashOut() Outcome {
	return Outcome{
		Done:    true,
		Status:  statusFor(c.stake, c.bet),
		Credits: []models.Stake{{Account: c.owner, Amount: c.stake}},
		Notice:  fmt.Sprintf("Awarded %s", c.stake),
	}
}

func (c *Cups) Summary() string {
	wins := 0
	for _, r := range c.rounds {
		if r.Won {
			wins++
		}
	}
	return fmt.Sprintf("bet %s, %d picks, %d correct, cashed out %s", c.bet, len(c.rounds), wins, c.stake)
}

package wager

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"casinobot/games/slots"
	"casinobot/models"

	"github.com/shopspring/decimal"
)

// Tokens accepted by the slot machine
const (
	TokenSpin  = "spin"
	TokenBet1  = "bet1"
	TokenBet5  = "bet5"
	TokenBet10 = "bet10"
	TokenAllIn = "allin"
)

var slotTokens = []string{TokenSpin, TokenBet1, TokenBet5, TokenBet10, TokenCashOut, TokenAllIn}

// Slots loads credit into a slot machine and pays out what is left at cash-out
type Slots struct {
	owner   models.AccountID
	loaded  decimal.Decimal
	machine *slots.Machine
	rng     *rand.Rand
	timeout time.Duration
	pulls   int
	allIn   bool
}

func NewSlots(owner models.AccountID, credit decimal.Decimal, rng *rand.Rand, timeout time.Duration) (*Slots, error) {
	if credit.LessThan(decimal.NewFromInt(1)) {
		return nil, ErrInvalidBet
	}
	return &Slots{
		owner:   owner,
		loaded:  credit,
		machine: slots.NewMachine(credit),
		rng:     rng,
		timeout: timeout,
	}, nil
}

func (s *Slots) Kind() models.GameKind       { return models.GameKindSlots }
func (s *Slots) Reason() string              { return "Slot Machine" }
func (s *Slots) Players() []models.AccountID { return []models.AccountID{s.owner} }
func (s *Slots) Opening() []models.Stake     { return []models.Stake{{Account: s.owner, Amount: s.loaded}} }
func (s *Slots) Seats() []models.AccountID   { return []models.AccountID{s.owner} }
func (s *Slots) Tokens() []string            { return slotTokens }
func (s *Slots) Timeout() time.Duration      { return s.timeout }

// Machine exposes the credit, bet and last pull for rendering
func (s *Slots) Machine() *slots.Machine { return s.machine }

// Loaded is the total credit escrowed into the machine
func (s *Slots) Loaded() decimal.Decimal { return s.loaded }

func (s *Slots) Play(actor models.AccountID, token string) Outcome {
	switch token {
	case TokenSpin:
		pull, err := s.machine.Pull(s.rng)
		if errors.Is(err, slots.ErrInsufficientCredit) {
			return Outcome{Notice: "Not enough credit for that bet"}
		}
		s.pulls++
		if s.machine.Empty() {
			return s.cashOut()
		}
		if pull.Payout.IsPositive() {
			return Outcome{Notice: fmt.Sprintf("You won %s credits!", pull.Payout)}
		}
		return Outcome{}
	case TokenBet1:
		return s.setBet(1)
	case TokenBet5:
		return s.setBet(5)
	case TokenBet10:
		return s.setBet(10)
	case TokenAllIn:
		return Outcome{Hold: &Hold{Account: s.owner, All: true}}
	case TokenCashOut:
		return s.cashOut()
	}
	return Outcome{Rejected: true}
}

func (s *Slots) setBet(bet int64) Outcome {
	if err := s.machine.SetBet(bet); err != nil {
		return Outcome{Rejected: true}
	}
	return Outcome{}
}

func (s *Slots) Held(stake models.Stake) Outcome {
	s.loaded = s.loaded.Add(stake.Amount)
	s.machine.AllIn(stake.Amount)
	s.allIn = true
	return Outcome{Notice: fmt.Sprintf("ALL IN: betting %s", s.machine.Bet)}
}

func (s *Slots) Refused(Hold, error) Outcome {
	return Outcome{Notice: "Nothing left in the bank to go all in with"}
}

func (s *Slots) Expire() Outcome {
	return s.cashOut()
}

func (s *Slots) cashOut() Outcome {
	credit := s.machine.Credit
	return Outcome{
		Done:    true,
		Status:  statusFor(credit, s.loaded),
		Credits: []models.Stake{{Account: s.owner, Amount: credit}},
		Notice:  fmt.Sprintf("Cashed out %s (net %s)", credit, credit.Sub(s.loaded)),
	}
}

func (s *Slots) Summary() string {
	summary := fmt.Sprintf("loaded %s, %d pulls, cashed out %s", s.loaded, s.pulls, s.machine.Credit)
	if s.allIn {
		summary += ", all in"
	}
	return summary
}

// Package slots implements a three-reel weighted slot machine. BAR is wild
// for the pair-plus-BAR lines.
package slots

import (
	"errors"
	"math/rand/v2"

	"github.com/shopspring/decimal"
)

type Symbol string

const (
	Seven  Symbol = "SEVEN"
	Bar    Symbol = "BAR"
	Melon  Symbol = "MELON"
	Bell   Symbol = "BELL"
	Peach  Symbol = "PEACH"
	Honey  Symbol = "HONEY"
	Cherry Symbol = "CHERRY"
	Lemon  Symbol = "LEMON"
)

// Symbols in display order
var Symbols = []Symbol{Seven, Bar, Melon, Bell, Peach, Honey, Cherry, Lemon}

// Reel maps each symbol to its relative weight
type Reel map[Symbol]int

// Reels are the three weighted reels, left to right
var Reels = [3]Reel{
	{Seven: 1, Bar: 4, Melon: 2, Bell: 1, Peach: 9, Honey: 9, Cherry: 9, Lemon: 5},
	{Seven: 1, Bar: 2, Melon: 2, Bell: 8, Peach: 3, Honey: 13, Cherry: 4, Lemon: 0},
	{Seven: 1, Bar: 1, Melon: 8, Bell: 8, Peach: 3, Honey: 2, Cherry: 0, Lemon: 10},
}

// Line is one payout rule. Lines are checked in order and the first match pays.
type Line struct {
	Name   string
	Points int64
	Match  func(counts map[Symbol]int) bool
}

func three(s Symbol) func(map[Symbol]int) bool {
	return func(c map[Symbol]int) bool { return c[s] == 3 }
}

func threeOrPairWithBar(s Symbol) func(map[Symbol]int) bool {
	return func(c map[Symbol]int) bool { return c[s] == 3 || (c[s] == 2 && c[Bar] > 0) }
}

// Paytable is ordered from the highest line down
var Paytable = []Line{
	{Name: "SEVEN x3", Points: 200, Match: three(Seven)},
	{Name: "BAR x3", Points: 125, Match: three(Bar)},
	{Name: "MELON x3", Points: 100, Match: three(Melon)},
	{Name: "BELL", Points: 18, Match: threeOrPairWithBar(Bell)},
	{Name: "PEACH", Points: 14, Match: threeOrPairWithBar(Peach)},
	{Name: "HONEY", Points: 10, Match: threeOrPairWithBar(Honey)},
	{Name: "CHERRY x2", Points: 5, Match: func(c map[Symbol]int) bool { return c[Cherry] >= 2 }},
	{Name: "CHERRY", Points: 2, Match: func(c map[Symbol]int) bool { return c[Cherry] == 1 }},
}

// Bets lists the selectable per-spin bets
var Bets = []int64{1, 5, 10}

var (
	ErrInvalidBet         = errors.New("bet must be 1, 5 or 10")
	ErrInsufficientCredit = errors.New("not enough credit for this bet")
)

// Draw picks one symbol from a reel by weight
func (reel Reel) Draw(r *rand.Rand) Symbol {
	total := 0
	for _, s := range Symbols {
		total += reel[s]
	}
	n := r.IntN(total)
	for _, s := range Symbols {
		if n < reel[s] {
			return s
		}
		n -= reel[s]
	}
	return Symbols[len(Symbols)-1]
}

// Spin draws one symbol from each reel
func Spin(r *rand.Rand) [3]Symbol {
	return [3]Symbol{Reels[0].Draw(r), Reels[1].Draw(r), Reels[2].Draw(r)}
}

// Evaluate returns the first paytable line matching the symbols, if any
func Evaluate(symbols [3]Symbol) (Line, bool) {
	counts := make(map[Symbol]int, 3)
	for _, s := range symbols {
		counts[s]++
	}
	for _, line := range Paytable {
		if line.Match(counts) {
			return line, true
		}
	}
	return Line{}, false
}

// Points is the multiplier the symbols earn; zero when nothing matches
func Points(symbols [3]Symbol) int64 {
	line, ok := Evaluate(symbols)
	if !ok {
		return 0
	}
	return line.Points
}

// Payout is points times bet
func Payout(symbols [3]Symbol, bet decimal.Decimal) decimal.Decimal {
	return bet.Mul(decimal.NewFromInt(Points(symbols)))
}

// Pull is the result of one lever pull
type Pull struct {
	Symbols [3]Symbol
	Bet     decimal.Decimal
	Payout  decimal.Decimal
}

// Machine tracks the credit a player has loaded and the current bet
type Machine struct {
	Credit decimal.Decimal
	Bet    decimal.Decimal
	Last   *Pull
}

// NewMachine loads credit with the smallest bet selected
func NewMachine(credit decimal.Decimal) *Machine {
	return &Machine{Credit: credit, Bet: decimal.NewFromInt(Bets[0])}
}

// SetBet selects one of Bets
func (m *Machine) SetBet(bet int64) error {
	for _, b := range Bets {
		if b == bet {
			m.Bet = decimal.NewFromInt(bet)
			return nil
		}
	}
	return ErrInvalidBet
}

// Pull spins once when the credit covers the bet. The bet leaves the credit
// before the payout is added back.
func (m *Machine) Pull(r *rand.Rand) (Pull, error) {
	if m.Credit.LessThan(m.Bet) {
		return Pull{}, ErrInsufficientCredit
	}
	m.Credit = m.Credit.Sub(m.Bet)

	pull := Pull{Symbols: Spin(r), Bet: m.Bet}
	pull.Payout = Payout(pull.Symbols, m.Bet)
	m.Credit = m.Credit.Add(pull.Payout)
	m.Last = &pull
	return pull, nil
}

// AllIn loads extra credit and bets all of it on the next pull
func (m *Machine) AllIn(extra decimal.Decimal) {
	m.Credit = m.Credit.Add(extra)
	m.Bet = m.Credit
}

// Empty reports whether the machine has nothing left to play
func (m *Machine) Empty() bool {
	return !m.Credit.IsPositive()
}

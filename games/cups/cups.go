// Package cups implements the shell game: one of three cups hides the coin.
package cups

import (
	"errors"
	"math/rand/v2"

	"github.com/shopspring/decimal"
)

// Count is the number of cups on the table
const Count = 3

// Arrangements lists every layout; exactly one cup per layout holds the prize
var Arrangements = [Count][Count]bool{
	{true, false, false},
	{false, true, false},
	{false, false, true},
}

var ErrInvalidPick = errors.New("pick a cup from 1 to 3")

// Round is the outcome of one pick
type Round struct {
	Arrangement int // index into Arrangements
	Pick        int // 1-based cup the player chose
	Won         bool
	Stake       decimal.Decimal // stake after the round
}

// Prize returns the 1-based cup that held the coin
func (r Round) Prize() int {
	for i, prize := range Arrangements[r.Arrangement] {
		if prize {
			return i + 1
		}
	}
	return 0
}

// Play draws an arrangement and resolves the pick. A correct pick doubles
// the stake and a wrong one loses all of it.
func Play(r *rand.Rand, pick int, stake decimal.Decimal) (Round, error) {
	if pick < 1 || pick > Count {
		return Round{}, ErrInvalidPick
	}

	round := Round{Arrangement: r.IntN(len(Arrangements)), Pick: pick}
	round.Won = Arrangements[round.Arrangement][pick-1]
	if round.Won {
		round.Stake = stake.Mul(decimal.NewFromInt(2))
	} else {
		round.Stake = decimal.Zero
	}
	return round, nil
}

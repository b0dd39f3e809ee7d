// Package dice rolls n uniform dice.
package dice

import (
	"errors"
	"math/rand/v2"
)

// MaxDice bounds a single roll so results fit in one message
const MaxDice = 500

var (
	ErrTooManyDice  = errors.New("too many dice, try again in smaller batches")
	ErrNoDice       = errors.New("roll at least one die")
	ErrInvalidSides = errors.New("a die needs at least two sides")
)

// Roll returns n values in [1, sides]
func Roll(r *rand.Rand, n, sides int) ([]int, error) {
	switch {
	case n > MaxDice:
		return nil, ErrTooManyDice
	case n < 1:
		return nil, ErrNoDice
	case sides < 2:
		return nil, ErrInvalidSides
	}

	rolls := make([]int, n)
	for i := range rolls {
		rolls[i] = r.IntN(sides) + 1
	}
	return rolls, nil
}

// Sum adds up a roll
func Sum(rolls []int) int {
	total := 0
	for _, v := range rolls {
		total += v
	}
	return total
}

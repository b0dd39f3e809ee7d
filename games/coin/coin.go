// Package coin flips a fair coin.
package coin

import "math/rand/v2"

type Side string

const (
	Heads Side = "Heads"
	Tails Side = "Tails"
)

func Flip(r *rand.Rand) Side {
	if r.IntN(2) == 0 {
		return Heads
	}
	return Tails
}

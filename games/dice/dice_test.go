package dice

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRoll_Validation(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	_, err := Roll(r, MaxDice+1, 6)
	assert.ErrorIs(t, err, ErrTooManyDice)

	_, err = Roll(r, 0, 6)
	assert.ErrorIs(t, err, ErrNoDice)

	_, err = Roll(r, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidSides)

	rolls, err := Roll(r, MaxDice, 6)
	require.NoError(t, err)
	assert.Len(t, rolls, MaxDice)
}

func TestRoll_Deterministic(t *testing.T) {
	first, err := Roll(rand.New(rand.NewPCG(7, 7)), 20, 20)
	require.NoError(t, err)
	second, err := Roll(rand.New(rand.NewPCG(7, 7)), 20, 20)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRoll_InRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, MaxDice).Draw(rt, "n")
		sides := rapid.IntRange(2, 1000).Draw(rt, "sides")
		seed := rapid.Uint64().Draw(rt, "seed")

		rolls, err := Roll(rand.New(rand.NewPCG(seed, 0)), n, sides)
		require.NoError(rt, err)
		require.Len(rt, rolls, n)
		for _, v := range rolls {
			require.GreaterOrEqual(rt, v, 1)
			require.LessOrEqual(rt, v, sides)
		}
		require.GreaterOrEqual(rt, Sum(rolls), n)
	})
}

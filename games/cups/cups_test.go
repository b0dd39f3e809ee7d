package cups

import (
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrangements_OnePrizeEach(t *testing.T) {
	for i, layout := range Arrangements {
		prizes := 0
		for _, p := range layout {
			if p {
				prizes++
			}
		}
		assert.Equal(t, 1, prizes, "arrangement %d", i)
	}
}

func TestPlay_DeterministicUnderSeed(t *testing.T) {
	stake := decimal.NewFromInt(10)
	play := func() []Round {
		r := rand.New(rand.NewPCG(42, 1))
		var rounds []Round
		for i := 0; i < 50; i++ {
			round, err := Play(r, i%Count+1, stake)
			require.NoError(t, err)
			rounds = append(rounds, round)
		}
		return rounds
	}

	assert.Equal(t, play(), play())
}

func TestPlay_DoubleOrNothing(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 9))
	stake := decimal.NewFromInt(10)
	for i := 0; i < 100; i++ {
		round, err := Play(r, 2, stake)
		require.NoError(t, err)
		if round.Won {
			assert.Equal(t, 2, round.Prize())
			assert.True(t, round.Stake.Equal(decimal.NewFromInt(20)))
		} else {
			assert.NotEqual(t, 2, round.Prize())
			assert.True(t, round.Stake.IsZero())
		}
	}
}

func TestPlay_InvalidPick(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 1))
	for _, pick := range []int{0, 4, -1} {
		_, err := Play(r, pick, decimal.NewFromInt(1))
		assert.ErrorIs(t, err, ErrInvalidPick)
	}
}

package coin

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlip_BothSidesAppear(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	seen := map[Side]int{}
	for i := 0; i < 1000; i++ {
		seen[Flip(r)]++
	}
	assert.Len(t, seen, 2)
	assert.InDelta(t, 500, seen[Heads], 100)
}

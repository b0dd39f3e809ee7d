package slots

import (
	"math/rand/v2"

	"github.com/shopspring/decimal"
)

// Report summarizes a simulated run
type Report struct {
	Spins    int
	Wagered  decimal.Decimal
	Returned decimal.Decimal
	Hits     map[string]int
}

// ReturnToPlayer is the fraction of wagered credit paid back
func (r Report) ReturnToPlayer() float64 {
	if r.Wagered.IsZero() {
		return 0
	}
	rtp, _ := r.Returned.Div(r.Wagered).Float64()
	return rtp
}

// HitRate is the fraction of spins that paid anything
func (r Report) HitRate() float64 {
	if r.Spins == 0 {
		return 0
	}
	hits := 0
	for _, n := range r.Hits {
		hits += n
	}
	return float64(hits) / float64(r.Spins)
}

// Simulate spins the reels n times at a fixed bet
func Simulate(r *rand.Rand, spins int, bet decimal.Decimal) Report {
	report := Report{Spins: spins, Wagered: decimal.Zero, Returned: decimal.Zero, Hits: make(map[string]int)}
	for i := 0; i < spins; i++ {
		symbols := Spin(r)
		report.Wagered = report.Wagered.Add(bet)
		if line, ok := Evaluate(symbols); ok {
			report.Hits[line.Name]++
			report.Returned = report.Returned.Add(bet.Mul(decimal.NewFromInt(line.Points)))
		}
	}
	return report
}

// ExpectedReturn enumerates every reel combination and returns the exact
// expected points per unit bet.
func ExpectedReturn() float64 {
	totals := [3]int{}
	for i, reel := range Reels {
		for _, s := range Symbols {
			totals[i] += reel[s]
		}
	}

	var expected float64
	for _, a := range Symbols {
		for _, b := range Symbols {
			for _, c := range Symbols {
				weight := Reels[0][a] * Reels[1][b] * Reels[2][c]
				if weight == 0 {
					continue
				}
				p := float64(weight) / float64(totals[0]*totals[1]*totals[2])
				expected += p * float64(Points([3]Symbol{a, b, c}))
			}
		}
	}
	return expected
}

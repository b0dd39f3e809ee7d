package cmd

import (
	"fmt"
	"io"
	"math/rand/v2"
	"sort"

	"casinobot/games/slots"

	"github.com/shopspring/decimal"
)

// Analyze compares the slot machine's exact expected return with a
// simulated run of the given number of spins
func Analyze(w io.Writer, spins int, seed uint64) {
	fmt.Fprintln(w, "=== Slot Machine Analysis ===")
	fmt.Fprintf(w, "Exact expected return: %.4f per credit\n\n", slots.ExpectedReturn())

	report := slots.Simulate(rand.New(rand.NewPCG(seed, 0)), spins, decimal.NewFromInt(1))
	fmt.Fprintf(w, "Simulated spins: %d\n", report.Spins)
	fmt.Fprintf(w, "Return to player: %.4f\n", report.ReturnToPlayer())
	fmt.Fprintf(w, "Hit rate: %.2f%%\n\n", report.HitRate()*100)

	names := make([]string, 0, len(report.Hits))
	for name := range report.Hits {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return report.Hits[names[i]] > report.Hits[names[j]] })
	for _, name := range names {
		fmt.Fprintf(w, "%-20s %8d (%.3f%%)\n", name, report.Hits[name], float64(report.Hits[name])/float64(report.Spins)*100)
	}
}

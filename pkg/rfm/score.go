// pkg/rfm/score.go
package rfm

import (
	"sort"

	"github.com/CoNhanQuy/CN-DA22TTB-CoNhanQuy-PhanTichDuLieu/pkg/stats"
)

// quintileProbs are the breakpoints of an equal-frequency five-way split.
var quintileProbs = [6]float64{0, 0.2, 0.4, 0.6, 0.8, 1}

// quintileBins assigns each value a bin index 0..4 by equal-frequency
// binning. Bin edges are the 0/20/40/60/80/100th percentiles of the values;
// intervals are right-closed with the lowest edge included in bin 0.
// Returns ErrInsufficientPopulation when fewer than five values exist or any
// two edges coincide, since five distinct bins cannot be formed then.
func quintileBins(values []float64) ([]int, error) {
	if len(values) < 5 {
		return nil, ErrInsufficientPopulation
	}

	var edges [6]float64
	for i, p := range quintileProbs {
		edges[i] = stats.Quantile(values, p)
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return nil, ErrInsufficientPopulation
		}
	}

	bins := make([]int, len(values))
	for i, v := range values {
		bins[i] = locateBin(v, edges)
	}
	return bins, nil
}

func locateBin(v float64, edges [6]float64) int {
	for i := 1; i < 5; i++ {
		if v <= edges[i] {
			return i - 1
		}
	}
	return 4
}

// rankFirst replaces each value with its 1-based ascending rank, breaking
// ties by position so earlier occurrences rank lower. The output values are
// all distinct, which is what makes quintile binning over tie-heavy inputs
// feasible.
func rankFirst(values []float64) []float64 {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return values[idx[a]] < values[idx[b]]
	})

	ranks := make([]float64, len(values))
	for r, i := range idx {
		ranks[i] = float64(r + 1)
	}
	return ranks
}

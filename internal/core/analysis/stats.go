package analysis

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/vncsmyrnk/election/internal/core/domain"
)

// reduce applies r to a non-empty slice.
func reduce(values []float64, r domain.Reduction) float64 {
	switch r {
	case domain.ReduceSum:
		return floats.Sum(values)
	case domain.ReduceMean:
		return stat.Mean(values, nil)
	case domain.ReduceMedian:
		return median(values)
	case domain.ReduceStd:
		// sample std is undefined for one value
		if len(values) < 2 {
			return 0
		}
		return stat.StdDev(values, nil)
	case domain.ReduceCount:
		return float64(len(values))
	case domain.ReduceMin:
		return floats.Min(values)
	case domain.ReduceMax:
		return floats.Max(values)
	}
	return 0
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

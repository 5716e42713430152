package analysis

import "math"

// Percentages converts non-negative values into their share of the total,
// each rounded to two decimals. The rounded shares may miss 100 by up to
// 0.005 per value. A zero total yields all zeros.
func Percentages(values []float64) []float64 {
	out := make([]float64, len(values))
	var total float64
	for _, v := range values {
		total += v
	}
	if total <= 0 {
		return out
	}

	for i, v := range values {
		out[i] = round2(v / total * 100)
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

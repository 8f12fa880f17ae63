// Package stats provides the descriptive statistics used by the
// aggregator and the outlier check.
package stats

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean of xs, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}

	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Mode returns the most frequent value in values. Ties are broken by
// the value seen first, so the result is stable for a fixed input order.
func Mode(values []string) string {
	if len(values) == 0 {
		return ""
	}

	counts := make(map[string]int, len(values))
	firstSeen := make(map[string]int, len(values))
	for i, v := range values {
		if _, ok := counts[v]; !ok {
			firstSeen[v] = i
		}
		counts[v]++
	}

	best := values[0]
	for v, c := range counts {
		if c > counts[best] || (c == counts[best] && firstSeen[v] < firstSeen[best]) {
			best = v
		}
	}
	return best
}

// Quartiles returns Q1 and Q3 of xs using linear interpolation between
// closest ranks, matching the pandas/numpy default.
func Quartiles(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}

	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	return quantile(sorted, 0.25), quantile(sorted, 0.75)
}

// quantile expects xs to be sorted.
func quantile(xs []float64, q float64) float64 {
	pos := q * float64(len(xs)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return xs[lo]
	}
	return xs[lo] + (pos-float64(lo))*(xs[hi]-xs[lo])
}

// Round2 rounds x to two decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Percentage returns part/total as a percentage rounded to two decimal
// places, or 0 when total is zero.
func Percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round2(float64(part) / float64(total) * 100)
}

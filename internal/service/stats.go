package service

import "math"

// Numeric conventions shared by every aggregation path:
//   - empty input averages to 0, never NaN
//   - standard deviation uses the population formula (divide by N), kept
//     for numeric compatibility with historical reports
//   - rounding to one decimal happens only at the DTO boundary

// mean returns the arithmetic mean, or 0 for empty input.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stdDevPop returns the population standard deviation, or 0 for fewer than
// two samples.
func stdDevPop(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}

// round1 rounds to one decimal place.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

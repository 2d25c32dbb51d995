package forecast

import (
	"math"
	"sort"
)

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// variance is the population variance.
func variance(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	m := mean(vals)
	sum := 0.0
	for _, v := range vals {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(vals))
}

func stdDev(vals []float64) float64 {
	return math.Sqrt(variance(vals))
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// growthRates returns period-over-period growth, skipping terms where
// the previous value is zero.
func growthRates(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for i := 1; i < len(vals); i++ {
		if vals[i-1] == 0 {
			continue
		}
		out = append(out, (vals[i]-vals[i-1])/vals[i-1])
	}
	return out
}

// logReturns returns ln(v[i]/v[i-1]), skipping non-positive ratios.
func logReturns(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for i := 1; i < len(vals); i++ {
		if vals[i-1] <= 0 || vals[i] <= 0 {
			continue
		}
		out = append(out, math.Log(vals[i]/vals[i-1]))
	}
	return out
}

// mape is the mean absolute percentage error between actual and fitted,
// skipping points where the actual is zero. Returns a percentage.
func mape(actual, fitted []float64) float64 {
	n := len(actual)
	if len(fitted) < n {
		n = len(fitted)
	}
	sum, count := 0.0, 0
	for i := 0; i < n; i++ {
		if actual[i] == 0 {
			continue
		}
		sum += math.Abs((actual[i] - fitted[i]) / actual[i])
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count) * 100
}

// coefficientOfVariation is stddev/mean, zero when the mean is zero.
func coefficientOfVariation(vals []float64) float64 {
	m := mean(vals)
	if m == 0 {
		return 0
	}
	return stdDev(vals) / m
}

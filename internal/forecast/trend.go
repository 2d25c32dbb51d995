package forecast

import (
	"math"

	"github.com/gcortinez/sweetspot-cowork-sub006/internal/domain/models"
)

// Direction thresholds on average month-over-month growth.
const (
	trendUpThreshold   = 0.02
	trendDownThreshold = -0.02
)

// AnalyzeTrend classifies growth direction, strength, and volatility of
// a series. It never fails: when growth rates cannot be computed the
// result degrades to a stable, zero-volatility trend.
func AnalyzeTrend(series models.TimeSeries) models.TrendAnalysis {
	out := models.TrendAnalysis{Direction: models.TrendStable}
	if len(series) < 2 {
		return out
	}
	vals := series.Values()

	rates := growthRates(vals)
	if len(rates) > 0 {
		avg := mean(rates)
		switch {
		case avg > trendUpThreshold:
			out.Direction = models.TrendIncreasing
		case avg < trendDownThreshold:
			out.Direction = models.TrendDecreasing
		}
		out.Strength = math.Abs(avg) * 100
	}

	if returns := logReturns(vals); len(returns) > 0 {
		out.Volatility = stdDev(returns)
	}
	return out
}

package forecast

import (
	"math"
	"time"

	"github.com/gcortinez/sweetspot-cowork-sub006/internal/domain/models"
)

// seasonalDecomposition splits the series into a centered-moving-average
// trend, per-calendar-month multipliers, and residuals. The trend is
// extrapolated by linear regression and re-seasonalized per future
// month. Confidence is the explained variance mapped into [45,100].
type seasonalDecomposition struct {
	p Params
}

func (s *seasonalDecomposition) Method() models.ForecastMethod {
	return models.MethodSeasonalDecomposition
}

func (s *seasonalDecomposition) Run(series models.TimeSeries, start time.Time, horizon int) (*Projection, error) {
	if err := checkSeries(series); err != nil {
		return nil, err
	}
	period := s.p.SeasonalCycle
	if period <= 0 {
		period = 12
	}

	vals := series.Values()
	n := len(vals)

	ratios := make(map[time.Month]float64)
	var slope, intercept float64

	if n < 2*period {
		// Not enough history for a centered moving average; the trend
		// degrades to a straight line with no seasonal effect.
		slope, intercept, _ = olsFit(vals)
	} else {
		half := period / 2
		trendXs := make([]float64, 0, n)
		trendYs := make([]float64, 0, n)
		ratioSums := make(map[time.Month]float64)
		ratioCounts := make(map[time.Month]int)
		for i := half; i < n-half; i++ {
			// Centered MA for an even period averages the two
			// half-shifted windows.
			var a, b float64
			for j := i - half; j < i+half; j++ {
				a += vals[j]
			}
			for j := i - half + 1; j <= i+half; j++ {
				b += vals[j]
			}
			t := (a + b) / (2 * float64(period))
			trendXs = append(trendXs, float64(i))
			trendYs = append(trendYs, t)
			if t > 0 {
				m := series[i].Date.Month()
				ratioSums[m] += vals[i] / t
				ratioCounts[m]++
			}
		}
		for m, sum := range ratioSums {
			ratios[m] = sum / float64(ratioCounts[m])
		}
		slope, intercept = olsFitXY(trendXs, trendYs)
	}

	// Residuals against the recomposed fit drive the confidence score.
	residuals := make([]float64, n)
	for i := 0; i < n; i++ {
		ratio := 1.0
		if r, ok := ratios[series[i].Date.Month()]; ok {
			ratio = r
		}
		residuals[i] = vals[i] - (intercept+slope*float64(i))*ratio
	}
	explained := 1.0
	if v := variance(vals); v > 0 {
		explained = 1 - variance(residuals)/v
	}

	values := make([]float64, horizon)
	base := projected(start, values)
	for h := 0; h < horizon; h++ {
		ratio := 1.0
		if r, ok := ratios[base[h].Date.Month()]; ok {
			ratio = r
		}
		trendHat := intercept + slope*float64(n+h)
		values[h] = math.Max(0, trendHat*ratio)
		base[h].Value = values[h]
	}

	final := 0.0
	if horizon > 0 {
		final = values[horizon-1]
	}

	return &Projection{
		Points:     base,
		Final:      final,
		Confidence: clamp(explained*100, 45, 100),
		MethodParams: map[string]any{
			"period":             period,
			"trend_slope":        slope,
			"explained_variance": explained,
		},
	}, nil
}

// olsFitXY is least squares over explicit x coordinates.
func olsFitXY(xs, ys []float64) (slope, intercept float64) {
	n := float64(len(xs))
	if n == 0 {
		return 0, 0
	}
	if n == 1 {
		return 0, ys[0]
	}
	var sumX, sumY, sumXY, sumX2 float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumX2 += xs[i] * xs[i]
	}
	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

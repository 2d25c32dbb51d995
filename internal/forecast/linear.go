package forecast

import (
	"math"
	"time"

	"github.com/gcortinez/sweetspot-cowork-sub006/internal/domain/models"
)

// linearRegression fits ordinary least squares of value against the
// sequential month index and extrapolates. Confidence is R-squared
// mapped into [30,95].
type linearRegression struct {
	p Params
}

func (s *linearRegression) Method() models.ForecastMethod {
	return models.MethodLinearRegression
}

func (s *linearRegression) Run(series models.TimeSeries, start time.Time, horizon int) (*Projection, error) {
	if err := checkSeries(series); err != nil {
		return nil, err
	}
	vals := series.Values()
	slope, intercept, r2 := olsFit(vals)

	values := make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		idx := float64(len(vals) + h)
		values[h] = math.Max(0, intercept+slope*idx)
	}

	final := 0.0
	if horizon > 0 {
		final = values[horizon-1]
	}

	return &Projection{
		Points:     projected(start, values),
		Final:      final,
		Confidence: clamp(r2*100, 30, 95),
		MethodParams: map[string]any{
			"slope":     slope,
			"intercept": intercept,
			"r_squared": r2,
		},
	}, nil
}

// olsFit returns slope, intercept, and R-squared of value vs index.
// A single point or a vertical-degenerate fit yields a flat line.
func olsFit(vals []float64) (slope, intercept, r2 float64) {
	n := float64(len(vals))
	if len(vals) == 1 {
		return 0, vals[0], 0
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i, v := range vals {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumX2 += x * x
	}

	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return 0, mean(vals), 0
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n

	// R^2 = 1 - SSres/SStot; a zero-variance series fits perfectly.
	meanY := sumY / n
	var ssRes, ssTot float64
	for i, v := range vals {
		fit := intercept + slope*float64(i)
		ssRes += (v - fit) * (v - fit)
		ssTot += (v - meanY) * (v - meanY)
	}
	if ssTot == 0 {
		return slope, intercept, 1
	}
	return slope, intercept, 1 - ssRes/ssTot
}

package forecast

import (
	"math"
	"time"

	"github.com/gcortinez/sweetspot-cowork-sub006/internal/domain/models"
)

// movingAverage holds a (weighted) average of the trailing window flat
// across the horizon. Confidence reflects how noisy the window was.
type movingAverage struct {
	p Params
}

func (s *movingAverage) Method() models.ForecastMethod {
	return models.MethodMovingAverage
}

func (s *movingAverage) Run(series models.TimeSeries, start time.Time, horizon int) (*Projection, error) {
	if err := checkSeries(series); err != nil {
		return nil, err
	}
	window := s.p.Window
	if window <= 0 {
		window = 3
	}
	if window > len(series) {
		window = len(series)
	}
	tail := series.Last(window).Values()

	avg := weightedMean(tail, s.p.Weights)
	avg = math.Max(0, avg)

	values := make([]float64, horizon)
	for h := range values {
		values[h] = avg
	}

	cv := coefficientOfVariation(tail)
	return &Projection{
		Points:     projected(start, values),
		Final:      avg,
		Confidence: clamp(90-cv*100, 40, 90),
		MethodParams: map[string]any{
			"window":   window,
			"weighted": len(s.p.Weights) > 0,
		},
	}, nil
}

// weightedMean averages vals with the trailing weights (newest last).
// Weights that do not cover the values, or sum to zero, fall back to a
// plain mean.
func weightedMean(vals, weights []float64) float64 {
	if len(weights) < len(vals) {
		return mean(vals)
	}
	w := weights[len(weights)-len(vals):]
	var sum, total float64
	for i, v := range vals {
		sum += v * w[i]
		total += w[i]
	}
	if total == 0 {
		return mean(vals)
	}
	return sum / total
}

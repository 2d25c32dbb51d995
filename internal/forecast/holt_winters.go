package forecast

import (
	"math"
	"time"

	"github.com/gcortinez/sweetspot-cowork-sub006/internal/domain/models"
)

// holtWinters runs triple exponential smoothing: level, additive trend,
// and a multiplicative 12-month seasonal cycle whose factors start at
// 1.0 and are refined while replaying the history. Confidence is
// 95 minus the MAPE of the one-step fitted values, held in [50,95].
type holtWinters struct {
	p Params
}

func (s *holtWinters) Method() models.ForecastMethod {
	return models.MethodExponentialSmoothing
}

func (s *holtWinters) Run(series models.TimeSeries, start time.Time, horizon int) (*Projection, error) {
	if err := checkSeries(series); err != nil {
		return nil, err
	}
	alpha, beta, gamma := s.p.Alpha, s.p.Beta, s.p.Gamma
	cycle := s.p.SeasonalCycle
	if cycle <= 0 {
		cycle = 12
	}

	vals := series.Values()
	n := len(vals)

	seasonal := make([]float64, cycle)
	for i := range seasonal {
		seasonal[i] = 1
	}
	level, trend := vals[0], 0.0

	fitted := make([]float64, n)
	fitted[0] = vals[0]
	for i := 1; i < n; i++ {
		si := i % cycle
		fitted[i] = (level + trend) * seasonal[si]

		seas := seasonal[si]
		if seas == 0 {
			seas = 1
		}
		prevLevel := level
		level = alpha*(vals[i]/seas) + (1-alpha)*(level+trend)
		trend = beta*(level-prevLevel) + (1-beta)*trend
		if level != 0 {
			seasonal[si] = gamma*(vals[i]/level) + (1-gamma)*seasonal[si]
		}
	}

	values := make([]float64, horizon)
	for h := 1; h <= horizon; h++ {
		factor := seasonal[(n+h-1)%cycle]
		values[h-1] = math.Max(0, (level+float64(h)*trend)*factor)
	}

	final := 0.0
	if horizon > 0 {
		final = values[horizon-1]
	}

	return &Projection{
		Points:     projected(start, values),
		Final:      final,
		Confidence: clamp(95-mape(vals, fitted), 50, 95),
		MethodParams: map[string]any{
			"alpha": alpha,
			"beta":  beta,
			"gamma": gamma,
			"cycle": cycle,
		},
	}, nil
}

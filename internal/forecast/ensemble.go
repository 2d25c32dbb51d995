package forecast

import (
	"time"

	"github.com/gcortinez/sweetspot-cowork-sub006/internal/domain/models"
)

// ensemble blends linear regression, moving average, and exponential
// smoothing with a fixed convex combination, applied to the final value,
// the per-month points, and the confidence alike.
type ensemble struct {
	p Params
}

func (s *ensemble) Method() models.ForecastMethod {
	return models.MethodEnsemble
}

func (s *ensemble) Run(series models.TimeSeries, start time.Time, horizon int) (*Projection, error) {
	if err := checkSeries(series); err != nil {
		return nil, err
	}

	lr, err := (&linearRegression{p: s.p}).Run(series, start, horizon)
	if err != nil {
		return nil, err
	}
	ma, err := (&movingAverage{p: s.p}).Run(series, start, horizon)
	if err != nil {
		return nil, err
	}
	hw, err := (&holtWinters{p: s.p}).Run(series, start, horizon)
	if err != nil {
		return nil, err
	}

	w := s.p.Ensemble
	values := make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		values[h] = w.Linear*pointOrFinal(lr, h) +
			w.Moving*pointOrFinal(ma, h) +
			w.Smoothing*pointOrFinal(hw, h)
	}

	return &Projection{
		Points:     projected(start, values),
		Final:      w.Linear*lr.Final + w.Moving*ma.Final + w.Smoothing*hw.Final,
		Confidence: w.Linear*lr.Confidence + w.Moving*ma.Confidence + w.Smoothing*hw.Confidence,
		MethodParams: map[string]any{
			"weights": map[string]float64{
				"linear_regression":     w.Linear,
				"moving_average":        w.Moving,
				"exponential_smoothing": w.Smoothing,
			},
			"sub_forecasts": map[string]float64{
				"linear_regression":     lr.Final,
				"moving_average":        ma.Final,
				"exponential_smoothing": hw.Final,
			},
		},
	}, nil
}

// pointOrFinal reads a sub-forecast point, reusing the sub-forecast's
// final scalar when its projection is shorter than the blend horizon.
// Reusing the final value (rather than the last projected point) is the
// long-standing observed behaviour and is kept as-is.
func pointOrFinal(p *Projection, h int) float64 {
	if h < len(p.Points) {
		return p.Points[h].Value
	}
	return p.Final
}

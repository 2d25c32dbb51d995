package forecast

import (
	"fmt"
	"time"

	"github.com/gcortinez/sweetspot-cowork-sub006/internal/domain/models"
	"github.com/gcortinez/sweetspot-cowork-sub006/pkg/util"
)

// Projection is the output of a single strategy run.
type Projection struct {
	// Points are the month-by-month projected values starting at the
	// requested start month.
	Points models.TimeSeries
	// Final is the projected value at the end of the horizon, >= 0.
	Final float64
	// Confidence is a [0,100] heuristic; each method documents its own
	// closed interval.
	Confidence float64
	// MethodParams echoes the parameters the run actually used.
	MethodParams map[string]any
}

// Strategy is one forecasting algorithm. Implementations are pure:
// same series, start, and horizon always produce the same projection.
type Strategy interface {
	Method() models.ForecastMethod
	Run(series models.TimeSeries, start time.Time, horizon int) (*Projection, error)
}

// New returns the strategy for the given method, configured with p.
// Unknown methods fail with ErrUnsupportedMethod.
func New(method models.ForecastMethod, p Params) (Strategy, error) {
	switch method {
	case models.MethodLinearRegression:
		return &linearRegression{p: p}, nil
	case models.MethodMovingAverage:
		return &movingAverage{p: p}, nil
	case models.MethodExponentialSmoothing:
		return &holtWinters{p: p}, nil
	case models.MethodSeasonalDecomposition:
		return &seasonalDecomposition{p: p}, nil
	case models.MethodEnsemble:
		return &ensemble{p: p}, nil
	case models.MethodExpertJudgment:
		return &expertJudgment{p: p}, nil
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedMethod, method)
	}
}

// Methods lists every supported forecast method.
func Methods() []models.ForecastMethod {
	return []models.ForecastMethod{
		models.MethodLinearRegression,
		models.MethodMovingAverage,
		models.MethodExponentialSmoothing,
		models.MethodSeasonalDecomposition,
		models.MethodEnsemble,
		models.MethodExpertJudgment,
	}
}

// BaseValue is the short-run anchor several methods project from: the
// average of the last three available points (fewer when the series is
// shorter).
func BaseValue(series models.TimeSeries) float64 {
	return mean(series.Last(3).Values())
}

func checkSeries(series models.TimeSeries) error {
	if len(series) == 0 {
		return models.ErrEmptySeries
	}
	return nil
}

// projected builds a monthly series of len(values) points starting at
// the start month.
func projected(start time.Time, values []float64) models.TimeSeries {
	base := util.StartOfMonth(start)
	out := make(models.TimeSeries, len(values))
	for i, v := range values {
		out[i] = models.TimeSeriesPoint{Date: util.AddMonths(base, i), Value: v}
	}
	return out
}

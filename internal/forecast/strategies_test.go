package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcortinez/sweetspot-cowork-sub006/internal/domain/models"
	"github.com/gcortinez/sweetspot-cowork-sub006/pkg/util"
)

func makeSeries(start time.Time, values ...float64) models.TimeSeries {
	s := make(models.TimeSeries, len(values))
	for i, v := range values {
		s[i] = models.TimeSeriesPoint{Date: util.AddMonths(start, i), Value: v}
	}
	return s
}

func flatSeries(n int, v float64) models.TimeSeries {
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = v
	}
	return makeSeries(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), vals...)
}

var forecastStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func run(t *testing.T, method models.ForecastMethod, series models.TimeSeries, horizon int) *Projection {
	t.Helper()
	st, err := New(method, DefaultParams().Resolve(models.PeriodMonthly, nil))
	require.NoError(t, err)
	p, err := st.Run(series, forecastStart, horizon)
	require.NoError(t, err)
	return p
}

func TestUnknownMethodRejected(t *testing.T) {
	_, err := New(models.ForecastMethod("oracle"), DefaultParams())
	assert.ErrorIs(t, err, models.ErrUnsupportedMethod)
}

func TestEmptySeriesRejected(t *testing.T) {
	for _, method := range Methods() {
		st, err := New(method, DefaultParams().Resolve(models.PeriodMonthly, nil))
		require.NoError(t, err)
		_, err = st.Run(nil, forecastStart, 12)
		assert.ErrorIs(t, err, models.ErrEmptySeries, string(method))
	}
}

func TestFlatSeriesInvariance(t *testing.T) {
	series := flatSeries(24, 1000)

	for _, method := range []models.ForecastMethod{
		models.MethodMovingAverage,
		models.MethodExponentialSmoothing,
		models.MethodLinearRegression,
	} {
		p := run(t, method, series, 12)
		assert.InDelta(t, 1000, p.Final, 1e-6, string(method))
		for _, pt := range p.Points {
			assert.InDelta(t, 1000, pt.Value, 1e-6, string(method))
		}
	}

	lr := run(t, models.MethodLinearRegression, series, 12)
	assert.InDelta(t, 0, lr.MethodParams["slope"].(float64), 1e-9)
}

func TestConfidenceBounds(t *testing.T) {
	bounds := map[models.ForecastMethod][2]float64{
		models.MethodLinearRegression:      {30, 95},
		models.MethodMovingAverage:         {40, 90},
		models.MethodExponentialSmoothing:  {50, 95},
		models.MethodSeasonalDecomposition: {45, 100},
		models.MethodExpertJudgment:        {60, 85},
	}
	cases := map[string]models.TimeSeries{
		"flat":     flatSeries(24, 500),
		"single":   flatSeries(1, 42),
		"noisy":    makeSeries(forecastStart.AddDate(-2, 0, 0), 10, 900, 20, 750, 5, 600, 80, 40, 300, 12, 700, 33),
		"declines": makeSeries(forecastStart.AddDate(-2, 0, 0), 1000, 900, 800, 700, 600, 500, 400, 300, 200, 100, 50, 10),
		"zeros":    makeSeries(forecastStart.AddDate(-1, 0, 0), 0, 0, 0, 0),
	}
	for name, series := range cases {
		for method, b := range bounds {
			p := run(t, method, series, 12)
			assert.GreaterOrEqual(t, p.Confidence, b[0], "%s/%s", method, name)
			assert.LessOrEqual(t, p.Confidence, b[1], "%s/%s", method, name)
		}
		ens := run(t, models.MethodEnsemble, series, 12)
		assert.GreaterOrEqual(t, ens.Confidence, 0.0, name)
		assert.LessOrEqual(t, ens.Confidence, 100.0, name)
	}
}

func TestEnsembleIsConvexBlend(t *testing.T) {
	series := makeSeries(forecastStart.AddDate(-2, 0, 0),
		100, 120, 90, 140, 160, 150, 170, 200, 180, 210, 230, 220,
		240, 260, 250, 280, 300, 290, 310, 330, 320, 350, 370, 360)

	lr := run(t, models.MethodLinearRegression, series, 12)
	ma := run(t, models.MethodMovingAverage, series, 12)
	hw := run(t, models.MethodExponentialSmoothing, series, 12)
	ens := run(t, models.MethodEnsemble, series, 12)

	want := 0.4*lr.Final + 0.3*ma.Final + 0.3*hw.Final
	assert.InDelta(t, want, ens.Final, 1e-9)

	require.Len(t, ens.Points, 12)
	for h := range ens.Points {
		wantPt := 0.4*lr.Points[h].Value + 0.3*ma.Points[h].Value + 0.3*hw.Points[h].Value
		assert.InDelta(t, wantPt, ens.Points[h].Value, 1e-9)
	}
}

func TestProjectionsNeverNegative(t *testing.T) {
	// Steep decline that a straight line would push well below zero.
	series := makeSeries(forecastStart.AddDate(-1, 0, 0),
		1200, 1000, 800, 600, 400, 250, 120, 60, 20, 5, 1, 0.5)

	for _, method := range Methods() {
		p := run(t, method, series, 24)
		assert.GreaterOrEqual(t, p.Final, 0.0, string(method))
		for h, pt := range p.Points {
			assert.GreaterOrEqual(t, pt.Value, 0.0, "%s h=%d", method, h)
		}
	}
}

func TestMovingAverageConstantScenario(t *testing.T) {
	series := flatSeries(12, 1000)
	p := run(t, models.MethodMovingAverage, series, 12)

	assert.InDelta(t, 1000, p.Final, 1e-9)
	assert.GreaterOrEqual(t, p.Confidence, 85.0)
	assert.LessOrEqual(t, p.Confidence, 90.0)
	assert.Equal(t, 3, p.MethodParams["window"])
}

func TestMovingAverageCustomWindowAndWeights(t *testing.T) {
	series := makeSeries(forecastStart.AddDate(-1, 0, 0), 10, 20, 30, 40)

	params := DefaultParams().Resolve(models.PeriodMonthly, map[string]any{
		"weights": []any{1.0, 2.0, 3.0},
	})
	st, err := New(models.MethodMovingAverage, params)
	require.NoError(t, err)
	p, err := st.Run(series, forecastStart, 6)
	require.NoError(t, err)

	// (20*1 + 30*2 + 40*3) / 6
	assert.InDelta(t, 200.0/6, p.Final, 1e-9)
}

func TestMovingAveragePeriodDefaults(t *testing.T) {
	cases := map[models.PeriodType]int{
		models.PeriodMonthly:   3,
		models.PeriodQuarterly: 4,
		models.PeriodAnnual:    2,
		models.PeriodRolling12: 12,
	}
	for period, want := range cases {
		p := DefaultParams().Resolve(period, nil)
		assert.Equal(t, want, p.Window, string(period))
	}
}

func TestLinearRegressionTracksTrend(t *testing.T) {
	// Perfect line: value = 100 + 10*i.
	vals := make([]float64, 12)
	for i := range vals {
		vals[i] = 100 + 10*float64(i)
	}
	series := makeSeries(forecastStart.AddDate(-1, 0, 0), vals...)

	p := run(t, models.MethodLinearRegression, series, 6)
	assert.InDelta(t, 10, p.MethodParams["slope"].(float64), 1e-9)
	assert.InDelta(t, 1, p.MethodParams["r_squared"].(float64), 1e-9)
	assert.Equal(t, 95.0, p.Confidence)
	// Index 12+5 = 17 -> 100 + 170.
	assert.InDelta(t, 270, p.Final, 1e-9)
}

func TestHoltWintersShortSeriesDegrades(t *testing.T) {
	series := makeSeries(forecastStart.AddDate(0, -2, 0), 100, 110)
	p := run(t, models.MethodExponentialSmoothing, series, 3)
	require.Len(t, p.Points, 3)
	for _, pt := range p.Points {
		assert.GreaterOrEqual(t, pt.Value, 0.0)
	}
}

func TestExpertJudgmentScenarioOverride(t *testing.T) {
	series := flatSeries(12, 1000)

	params := DefaultParams().Resolve(models.PeriodMonthly, map[string]any{
		"scenarios": []any{
			map[string]any{"name": "flat", "growth_rate": 0.0, "weight": 0.5},
			map[string]any{"name": "double", "growth_rate": 1.0, "weight": 0.5},
		},
	})
	st, err := New(models.MethodExpertJudgment, params)
	require.NoError(t, err)
	p, err := st.Run(series, forecastStart, 12)
	require.NoError(t, err)

	// 0.5*1000*(1+0) + 0.5*1000*(1+1)
	assert.InDelta(t, 1500, p.Final, 1e-9)
	require.Len(t, p.Points, 12)
	assert.InDelta(t, 1500, p.Points[11].Value, 1e-6)
	// Compounded path is monotonically increasing toward the final.
	for h := 1; h < len(p.Points); h++ {
		assert.Greater(t, p.Points[h].Value, p.Points[h-1].Value)
	}
}

func TestExpertJudgmentFlatSeriesConfidence(t *testing.T) {
	p := run(t, models.MethodExpertJudgment, flatSeries(12, 1000), 12)
	// Zero volatility -> proxy 1.0 -> clamped to the upper bound.
	assert.Equal(t, 85.0, p.Confidence)
	assert.InDelta(t, 1000, p.Final, 1e-9)
}

func TestSeasonalDecompositionRepeatingPattern(t *testing.T) {
	// Two years of an exact repeating seasonal pattern around 1000.
	year := []float64{800, 850, 900, 1000, 1100, 1200, 1300, 1250, 1100, 1000, 900, 850}
	vals := append(append([]float64{}, year...), year...)
	series := makeSeries(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), vals...)

	p := run(t, models.MethodSeasonalDecomposition, series, 12)
	require.Len(t, p.Points, 12)
	// A stable repeating pattern is almost fully explained.
	assert.Greater(t, p.Confidence, 90.0)
	for _, pt := range p.Points {
		assert.Greater(t, pt.Value, 0.0)
	}
}

func TestProjectionDatesAreMonthly(t *testing.T) {
	p := run(t, models.MethodMovingAverage, flatSeries(6, 10), 4)
	require.Len(t, p.Points, 4)
	for i, pt := range p.Points {
		assert.Equal(t, util.AddMonths(forecastStart, i), pt.Date)
	}
}

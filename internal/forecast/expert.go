package forecast

import (
	"math"
	"time"

	"github.com/gcortinez/sweetspot-cowork-sub006/internal/domain/models"
)

// expertJudgment blends named growth scenarios around the recent trend.
// The default scenarios scale the last-6-month growth rate; explicit
// scenarios can be supplied via request parameters. Confidence is a
// stability proxy (1 minus volatility, floored at 0.5) in [60,85].
type expertJudgment struct {
	p Params
}

func (s *expertJudgment) Method() models.ForecastMethod {
	return models.MethodExpertJudgment
}

func (s *expertJudgment) Run(series models.TimeSeries, start time.Time, horizon int) (*Projection, error) {
	if err := checkSeries(series); err != nil {
		return nil, err
	}

	base := BaseValue(series)

	lookback := s.p.RecentWindow
	if lookback <= 0 {
		lookback = 6
	}
	recentGrowth := mean(growthRates(series.Last(lookback).Values()))

	scenarios := s.p.Scenarios
	if len(scenarios) == 0 {
		scenarios = []Scenario{
			{Name: "conservative", Growth: recentGrowth * 0.5, Weight: 0.3},
			{Name: "realistic", Growth: recentGrowth, Weight: 0.5},
			{Name: "optimistic", Growth: recentGrowth * 1.5, Weight: 0.2},
		}
	}

	var total float64
	for _, sc := range scenarios {
		total += sc.Weight
	}

	final := 0.0
	for _, sc := range scenarios {
		w := sc.Weight
		if total > 0 {
			w /= total
		}
		final += w * base * (1 + sc.Growth)
	}
	final = math.Max(0, final)

	// Month-by-month path: the implied monthly rate that compounds the
	// base to the final value over the horizon.
	values := make([]float64, horizon)
	if base > 0 && final > 0 && horizon > 0 {
		monthly := math.Pow(final/base, 1/float64(horizon)) - 1
		for h := 1; h <= horizon; h++ {
			values[h-1] = math.Max(0, base*math.Pow(1+monthly, float64(h)))
		}
	}

	vol := AnalyzeTrend(series).Volatility
	proxy := math.Max(0.5, 1-vol)

	scParams := make([]map[string]any, 0, len(scenarios))
	for _, sc := range scenarios {
		scParams = append(scParams, map[string]any{
			"name":        sc.Name,
			"growth_rate": sc.Growth,
			"weight":      sc.Weight,
		})
	}

	return &Projection{
		Points:     projected(start, values),
		Final:      final,
		Confidence: clamp(proxy*100, 60, 85),
		MethodParams: map[string]any{
			"recent_growth": recentGrowth,
			"scenarios":     scParams,
		},
	}, nil
}

package forecast

import (
	"github.com/gcortinez/sweetspot-cowork-sub006/internal/domain/models"
)

// Scenario is one expert-judgment outcome: an assumed growth rate over
// the forecast window with a probability weight.
type Scenario struct {
	Name   string  `json:"name"`
	Growth float64 `json:"growth_rate"`
	Weight float64 `json:"weight"`
}

// EnsembleWeights is the fixed convex combination applied to the
// ensemble sub-forecasts.
type EnsembleWeights struct {
	Linear    float64
	Moving    float64
	Smoothing float64
}

// Params carries every tunable the strategies read. Strategies never
// consult ambient state; the orchestrator builds one Params per request
// from the engine defaults plus the request's custom parameters.
type Params struct {
	// Moving average. Window 0 means "derive from the period type";
	// Weights, when set, must match the effective window (newest last).
	Window  int
	Weights []float64

	// Holt-Winters smoothing constants and seasonal cycle length.
	Alpha         float64
	Beta          float64
	Gamma         float64
	SeasonalCycle int

	// Ensemble combination.
	Ensemble EnsembleWeights

	// Expert judgment: lookback for the recent growth rate, scenario
	// multipliers applied to it, or explicit scenario overrides.
	RecentWindow int
	Scenarios    []Scenario
}

// DefaultParams returns the engine defaults documented per method.
func DefaultParams() Params {
	return Params{
		Alpha:         0.3,
		Beta:          0.1,
		Gamma:         0.2,
		SeasonalCycle: 12,
		Ensemble:      EnsembleWeights{Linear: 0.4, Moving: 0.3, Smoothing: 0.3},
		RecentWindow:  6,
	}
}

// windowForPeriod maps a period granularity to the default
// moving-average window.
func windowForPeriod(period models.PeriodType) int {
	switch period {
	case models.PeriodQuarterly:
		return 4
	case models.PeriodAnnual:
		return 2
	case models.PeriodRolling12:
		return 12
	default:
		return 3
	}
}

// Resolve merges request-level custom parameters over the defaults and
// fixes the moving-average window for the requested period.
func (p Params) Resolve(period models.PeriodType, custom map[string]any) Params {
	if p.Window == 0 {
		p.Window = windowForPeriod(period)
	}
	if len(custom) == 0 {
		return p
	}
	if w, ok := asInt(custom["window"]); ok && w > 0 {
		p.Window = w
	}
	if ws, ok := asFloats(custom["weights"]); ok && len(ws) > 0 {
		p.Weights = ws
		p.Window = len(ws)
	}
	if v, ok := asFloat(custom["alpha"]); ok && v > 0 && v <= 1 {
		p.Alpha = v
	}
	if v, ok := asFloat(custom["beta"]); ok && v > 0 && v <= 1 {
		p.Beta = v
	}
	if v, ok := asFloat(custom["gamma"]); ok && v > 0 && v <= 1 {
		p.Gamma = v
	}
	if scs, ok := asScenarios(custom["scenarios"]); ok && len(scs) > 0 {
		p.Scenarios = scs
	}
	return p
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func asInt(v any) (int, bool) {
	f, ok := asFloat(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func asFloats(v any) ([]float64, bool) {
	switch vs := v.(type) {
	case []float64:
		return vs, true
	case []any:
		out := make([]float64, 0, len(vs))
		for _, item := range vs {
			f, ok := asFloat(item)
			if !ok {
				return nil, false
			}
			out = append(out, f)
		}
		return out, true
	}
	return nil, false
}

func asScenarios(v any) ([]Scenario, bool) {
	switch vs := v.(type) {
	case []Scenario:
		return vs, true
	case []any:
		out := make([]Scenario, 0, len(vs))
		for _, item := range vs {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, false
			}
			var sc Scenario
			sc.Name, _ = m["name"].(string)
			sc.Growth, _ = asFloat(m["growth_rate"])
			sc.Weight, _ = asFloat(m["weight"])
			out = append(out, sc)
		}
		return out, true
	}
	return nil, false
}
